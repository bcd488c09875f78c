// Package raster fits a source image onto the assembled stencil canvas and slices
// the canvas into page tiles.
package raster

import (
	"image"

	"golang.org/x/image/draw"
)

// Placement describes where the scaled source lands on the canvas.
type Placement struct {
	Canvas  image.Point     // full canvas size
	Content image.Rectangle // area left after margins
	Rect    image.Rectangle // scaled source rectangle on the canvas
}

// PlaceFit scales a srcW x srcH image so that it fills the content area on one axis
// and is no larger on the other, then centers it on the canvas. inset is the margin
// on each side. With an odd remainder the top/left pad is the smaller one.
func PlaceFit(srcW, srcH int, canvas, inset image.Point) Placement {
	content := image.Rect(inset.X, inset.Y, canvas.X-inset.X, canvas.Y-inset.Y)
	areaW, areaH := int64(content.Dx()), int64(content.Dy())
	w, h := int64(srcW), int64(srcH)

	var newW, newH int64
	if w*areaH > areaW*h {
		// relatively wider than the target: fit to width
		newW = areaW
		newH = areaW * h / w
	} else {
		newH = areaH
		newW = areaH * w / h
	}
	newW = min(max(newW, 1), areaW)
	newH = min(max(newH, 1), areaH)

	x := (canvas.X - int(newW)) / 2
	y := (canvas.Y - int(newH)) / 2
	return Placement{
		Canvas:  canvas,
		Content: content,
		Rect:    image.Rect(x, y, x+int(newW), y+int(newH)),
	}
}

// Fit resamples src with Catmull-Rom into a new white canvas of the given size. The
// source is composited over white, so any transparency ends up white.
func Fit(src image.Image, canvas, inset image.Point) (*image.RGBA, Placement) {
	b := src.Bounds()
	p := PlaceFit(b.Dx(), b.Dy(), canvas, inset)

	dst := image.NewRGBA(image.Rect(0, 0, canvas.X, canvas.Y))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, p.Rect, src, b, draw.Over, nil)
	return dst, p
}
