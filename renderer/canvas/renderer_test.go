package canvasrenderer

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"math"
	"regexp"
	"testing"

	"github.com/ByLCY/stencil/layout"
	"github.com/ByLCY/stencil/renderer"
)

var pageObject = regexp.MustCompile(`/Type\s*/Page[^s]`)

func a4(t *testing.T) layout.PageSpec {
	t.Helper()
	p, err := layout.ResolvePage("A4", layout.Portrait)
	if err != nil {
		t.Fatalf("ResolvePage: %v", err)
	}
	return p
}

func tile(c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 21, 30))
	for i := 0; i < len(img.Pix); i += 4 {
		r, g, b, a := c.RGBA()
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = uint8(r>>8), uint8(g>>8), uint8(b>>8), uint8(a>>8)
	}
	return img
}

func TestSinkWritesOnePagePerTile(t *testing.T) {
	var buf bytes.Buffer
	s := New(&buf, a4(t), renderer.Meta{Title: "stencil", Creator: "stencil"})
	for _, c := range []color.Color{color.Black, color.White, color.RGBA{R: 255, A: 255}} {
		if err := s.AddPage(tile(c)); err != nil {
			t.Fatalf("AddPage: %v", err)
		}
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	out := buf.Bytes()
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatalf("输出不是 PDF: %q", out[:min(len(out), 16)])
	}
	if got := len(pageObject.FindAll(out, -1)); got != 3 {
		t.Fatalf("期望 3 个页面对象，实际 %d", got)
	}
	if s.Pages() != 3 {
		t.Fatalf("Pages() = %d", s.Pages())
	}
}

func TestSinkRejectsEmptyDocument(t *testing.T) {
	var buf bytes.Buffer
	if err := New(&buf, a4(t), renderer.Meta{}).Close(); err == nil {
		t.Fatalf("没有页面时 Close 应返回错误")
	}
}

func TestSinkRejectsUseAfterClose(t *testing.T) {
	var buf bytes.Buffer
	s := New(&buf, a4(t), renderer.Meta{})
	if err := s.AddPage(tile(color.White)); err != nil {
		t.Fatalf("AddPage: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := s.AddPage(tile(color.White)); !errors.Is(err, ErrClosed) {
		t.Fatalf("关闭后 AddPage 应返回 ErrClosed，实际 %v", err)
	}
	if err := s.Close(); !errors.Is(err, ErrClosed) {
		t.Fatalf("重复 Close 应返回 ErrClosed，实际 %v", err)
	}
}

func TestSinkRejectsEmptyTile(t *testing.T) {
	var buf bytes.Buffer
	s := New(&buf, a4(t), renderer.Meta{})
	if err := s.AddPage(image.NewRGBA(image.Rectangle{})); err == nil {
		t.Fatalf("空瓦片应返回错误")
	}
}

// A4 在 300 DPI 下为 2480x3508 像素，3508/(2480/210) ≈ 297.04mm，需要纵向修正。
func TestPageScaleFillsBothAxes(t *testing.T) {
	page := a4(t)
	for _, dpi := range []int{300, 150, 72, 20} {
		px := page.PixelSize(dpi)
		dpmm, sy := pageScale(px, page)
		w := float64(px.X) / dpmm
		h := float64(px.Y) / dpmm * sy
		if math.Abs(w-page.WidthMM) > 1e-9 || math.Abs(h-page.HeightMM) > 1e-9 {
			t.Fatalf("dpi=%d: 绘制尺寸 %gmm x %gmm，期望 %gmm x %gmm", dpi, w, h, page.WidthMM, page.HeightMM)
		}
	}
}
