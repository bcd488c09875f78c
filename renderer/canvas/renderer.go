package canvasrenderer

import (
	"errors"
	"fmt"
	"image"
	"io"
	"strings"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/ByLCY/stencil/layout"
	"github.com/ByLCY/stencil/renderer"
)

// ErrClosed is returned when a page is added after Close.
var ErrClosed = errors.New("PDF 已关闭")

// Sink draws each tile full-bleed onto one PDF page via github.com/tdewolff/canvas.
type Sink struct {
	writer *pdf.PDF
	page   layout.PageSpec
	pages  int
	closed bool
}

var _ renderer.PageSink = (*Sink)(nil)

// New starts a PDF on w whose pages all have the given size.
func New(w io.Writer, page layout.PageSpec, meta renderer.Meta) *Sink {
	writer := pdf.New(w, page.WidthMM, page.HeightMM, nil)
	writer.SetInfo(meta.Title, meta.Subject, strings.Join(meta.Keywords, ", "), meta.Author, meta.Creator)
	return &Sink{writer: writer, page: page}
}

// Factory adapts New to renderer.Factory.
func Factory(w io.Writer, page layout.PageSpec, meta renderer.Meta) renderer.PageSink {
	return New(w, page, meta)
}

// Pages returns the number of pages drawn so far.
func (s *Sink) Pages() int { return s.pages }

// AddPage 将瓦片在两个方向上都缩放到纸张尺寸，从左下角铺满整页。
func (s *Sink) AddPage(tile image.Image) error {
	if s.closed {
		return ErrClosed
	}
	if tile == nil || tile.Bounds().Empty() {
		return fmt.Errorf("第 %d 页瓦片为空", s.pages+1)
	}
	// pdf.New 已经开好第一页
	if s.pages > 0 {
		s.writer.NewPage(s.page.WidthMM, s.page.HeightMM)
	}
	c := canvas.New(s.page.WidthMM, s.page.HeightMM)
	ctx := canvas.NewContext(c)
	dpmm, sy := pageScale(tile.Bounds().Size(), s.page)
	ctx.Push()
	ctx.ComposeView(canvas.Identity.Scale(1, sy))
	ctx.DrawImage(0, 0, tile, canvas.DPMM(dpmm))
	ctx.Pop()
	c.RenderTo(s.writer)
	s.pages++
	return nil
}

// pageScale returns the resolution that maps the tile width onto the page width and
// the vertical correction for the height, which is rounded to pixels separately.
func pageScale(px image.Point, page layout.PageSpec) (dpmm, sy float64) {
	dpmm = float64(px.X) / page.WidthMM
	return dpmm, page.HeightMM * dpmm / float64(px.Y)
}

// Close finishes the document. A document without pages is an error.
func (s *Sink) Close() error {
	if s.closed {
		return ErrClosed
	}
	s.closed = true
	if s.pages == 0 {
		return fmt.Errorf("缺少可渲染的页面")
	}
	if err := s.writer.Close(); err != nil {
		return fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return nil
}
