package raster

import (
	"fmt"
	"image"
	"iter"

	"github.com/ByLCY/stencil/layout"
)

// Tile is one page worth of canvas pixels.
type Tile struct {
	Index int
	Row   int
	Col   int
	Rect  image.Rectangle // position on the canvas
	Image *image.RGBA     // independent copy with origin (0, 0)
}

// Slicer partitions a canvas into page tiles in row-major order.
type Slicer struct {
	canvas *image.RGBA
	geom   layout.Geometry
}

// NewSlicer checks that the canvas is exactly the geometry's canvas size.
func NewSlicer(canvas *image.RGBA, g layout.Geometry) (*Slicer, error) {
	if canvas == nil {
		return nil, fmt.Errorf("raster: 画布为空")
	}
	if got := canvas.Bounds().Size(); got != g.CanvasPx || canvas.Bounds().Min != (image.Point{}) {
		return nil, fmt.Errorf("raster: 画布 %v 与网格画布尺寸 %v 不一致", canvas.Bounds(), g.CanvasPx)
	}
	if g.Grid.Cols < 1 || g.Grid.Rows < 1 {
		return nil, fmt.Errorf("raster: 非法网格 %+v", g.Grid)
	}
	return &Slicer{canvas: canvas, geom: g}, nil
}

// Len returns the number of tiles.
func (s *Slicer) Len() int { return s.geom.Grid.Pages() }

// Tile extracts tile n. The canvas is only read.
func (s *Slicer) Tile(n int) Tile {
	row, col := s.geom.Grid.Coord(n)
	r := s.geom.TileRect(row, col)
	return Tile{Index: n, Row: row, Col: col, Rect: r, Image: crop(s.canvas, r)}
}

// All yields tiles lazily: row 0 left to right, then row 1, and so on. Each call
// starts a fresh pass, and a tile is only extracted when the consumer asks for it.
func (s *Slicer) All() iter.Seq[Tile] {
	return func(yield func(Tile) bool) {
		for n := 0; n < s.Len(); n++ {
			if !yield(s.Tile(n)) {
				return
			}
		}
	}
}

func crop(src *image.RGBA, r image.Rectangle) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	rowBytes := r.Dx() * 4
	for y := 0; y < r.Dy(); y++ {
		from := src.PixOffset(r.Min.X, r.Min.Y+y)
		copy(out.Pix[y*out.Stride:y*out.Stride+rowBytes], src.Pix[from:from+rowBytes])
	}
	return out
}
