// Package filter applies the optional pixel transform that runs before fitting.
//
// Every filter returns an opaque *image.RGBA, so fitting, padding and tiling never
// need to know which filter ran.
package filter

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"strings"

	"golang.org/x/image/draw"
)

// Kind identifies a filter. It is resolved once from the request string.
type Kind int

const (
	None Kind = iota
	Grayscale
	Outline
)

// ErrEmptyImage is returned for nil or zero-sized input.
var ErrEmptyImage = errors.New("filter: 图像为空")

// ParseKind maps a request identifier to a Kind. "bw" and "outline" are recognized;
// "", "none" and "color" are None. Anything else is None with ok == false so callers
// can decide whether to be strict.
func ParseKind(s string) (k Kind, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bw":
		return Grayscale, true
	case "outline":
		return Outline, true
	case "", "none", "color":
		return None, true
	default:
		return None, false
	}
}

func (k Kind) String() string {
	switch k {
	case Grayscale:
		return "bw"
	case Outline:
		return "outline"
	default:
		return "none"
	}
}

// Func is the shape of a filter implementation.
type Func func(img image.Image, k Kind) (*image.RGBA, error)

// Apply runs filter k on img.
func Apply(img image.Image, k Kind) (*image.RGBA, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, ErrEmptyImage
	}
	rgba := ToRGBA(img)
	switch k {
	case None:
		return rgba, nil
	case Grayscale:
		return grayscale(rgba), nil
	case Outline:
		return outline(rgba), nil
	default:
		return nil, fmt.Errorf("filter: 未知滤镜 %d", int(k))
	}
}

// ToRGBA copies img into an opaque RGBA image with origin (0, 0), compositing any
// transparency over white.
func ToRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Over)
	return dst
}

// luma uses the ITU-R 601-2 weights of color.GrayModel.
func luma(img *image.RGBA) *image.Gray {
	b := img.Bounds()
	g := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			g.SetGray(x, y, color.GrayModel.Convert(img.RGBAAt(x, y)).(color.Gray))
		}
	}
	return g
}

// expand writes a gray plane back out with equal R, G and B.
func expand(g *image.Gray) *image.RGBA {
	b := g.Bounds()
	out := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			v := g.GrayAt(x, y).Y
			out.SetRGBA(x, y, color.RGBA{R: v, G: v, B: v, A: 0xff})
		}
	}
	return out
}

func grayscale(img *image.RGBA) *image.RGBA {
	return expand(luma(img))
}

// outline 先求边缘再反相，得到白底黑线。
func outline(img *image.RGBA) *image.RGBA {
	edges := FindEdges.Convolve(luma(img))
	invert(edges)
	return expand(edges)
}

func invert(g *image.Gray) {
	for i, v := range g.Pix {
		g.Pix[i] = 0xff - v
	}
}
