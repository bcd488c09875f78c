package filter

import "image"

// Kernel3 is a 3x3 integer convolution kernel in row-major order.
type Kernel3 struct {
	Weights [9]int
	Scale   int // divisor, 0 means 1
	Offset  int
}

// FindEdges is a Laplacian style edge detector: uniform areas map to 0.
var FindEdges = Kernel3{
	Weights: [9]int{
		-1, -1, -1,
		-1, 8, -1,
		-1, -1, -1,
	},
}

// Convolve applies k to src and returns a new plane. Samples outside the image are
// clamped to the nearest edge pixel, so a flat border produces no response. PIL's
// FIND_EDGES copies the outer ring from the source instead; here it is convolved too.
func (k Kernel3) Convolve(src *image.Gray) *image.Gray {
	b := src.Bounds()
	dst := image.NewGray(b)
	scale := k.Scale
	if scale == 0 {
		scale = 1
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			sum := 0
			for ky := -1; ky <= 1; ky++ {
				sy := clamp(y+ky, b.Min.Y, b.Max.Y-1)
				for kx := -1; kx <= 1; kx++ {
					sx := clamp(x+kx, b.Min.X, b.Max.X-1)
					sum += k.Weights[(ky+1)*3+kx+1] * int(src.Pix[src.PixOffset(sx, sy)])
				}
			}
			dst.Pix[dst.PixOffset(x, y)] = uint8(clamp(sum/scale+k.Offset, 0, 0xff))
		}
	}
	return dst
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
