// Package stencil turns one raster image into a tiled, multi-page print document
// sized to a physical target.
//
// A run is synchronous and owns every buffer it creates, so concurrent calls share
// nothing. Either a complete document is returned or an *Error; never a partial
// document.
package stencil

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"strings"
	"time"

	"github.com/ByLCY/stencil/filter"
	"github.com/ByLCY/stencil/layout"
	"github.com/ByLCY/stencil/naming"
	"github.com/ByLCY/stencil/raster"
	"github.com/ByLCY/stencil/renderer"
	canvasrenderer "github.com/ByLCY/stencil/renderer/canvas"
)

// MediaType of documents produced by the default sink.
const MediaType = "application/pdf"

// Request 是一次生成所需的全部输入。
type Request struct {
	// Image holds the encoded source. If it is an io.Closer it is closed when the
	// run ends, whatever the outcome.
	Image       io.Reader
	ContentType string

	Target       layout.PhysicalSize
	Filter       string // "bw", "outline"; anything else is no filter
	StrictFilter bool   // reject unknown filter identifiers instead
	Orientation  string // "portrait" (default) or "landscape"
	Page         string // A4 (default), A5, Letter
	DPI          int    // 0 means layout.DefaultDPI
	MarginX      layout.Length
	MarginY      layout.Length
	Title        string
}

// Options carries collaborators. The zero value is ready to use.
type Options struct {
	NewSink   renderer.Factory // defaults to the tdewolff/canvas PDF sink
	Filter    filter.Func      // defaults to filter.Apply
	Now       func() time.Time // defaults to time.Now
	Extension string           // defaults to "pdf"
	MediaType string           // defaults to MediaType
}

func (o Options) withDefaults() Options {
	if o.NewSink == nil {
		o.NewSink = canvasrenderer.Factory
	}
	if o.Filter == nil {
		o.Filter = filter.Apply
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Extension == "" {
		o.Extension = "pdf"
	}
	if o.MediaType == "" {
		o.MediaType = MediaType
	}
	return o
}

// Document is a finished output file.
type Document struct {
	Data      []byte
	Filename  string
	MediaType string
	Plan      layout.Plan
}

// job is a validated request.
type job struct {
	kind  filter.Kind
	geom  layout.Geometry
	inset image.Point
	meta  renderer.Meta
	req   Request
}

// Generate validates req, filters and fits the image, slices the canvas and feeds
// one tile per page to the sink in row-major order.
func Generate(req Request, opts Options) (doc *Document, err error) {
	if c, ok := req.Image.(io.Closer); ok {
		defer c.Close()
	}
	defer func() {
		if r := recover(); r != nil {
			doc, err = nil, newError(KindInternal, "生成失败: %v", r)
		}
		if err != nil {
			Logger().Debug("stencil failed", "kind", KindOf(err).String(), "error", err)
		}
	}()
	opts = opts.withDefaults()

	j, err := prepare(req)
	if err != nil {
		return nil, err
	}
	log := Logger().With("filter", j.kind.String(), "cols", j.geom.Grid.Cols, "rows", j.geom.Grid.Rows)

	src, format, err := decodeImage(req.Image)
	if err != nil {
		return nil, err
	}
	log.Debug("decoded source", "format", format, "size", src.Bounds().Size())

	filtered, err := opts.Filter(src, j.kind)
	if err != nil {
		return nil, newError(KindFilter, "滤镜 %s 处理失败: %w", j.kind, err)
	}
	if filtered == nil || filtered.Bounds().Empty() {
		return nil, newError(KindFilter, "滤镜 %s 输出为空", j.kind)
	}

	canvas, placement := raster.Fit(filtered, j.geom.CanvasPx, j.inset)
	log.Debug("fitted canvas", "canvas", j.geom.CanvasPx, "placement", placement.Rect)

	slicer, err := raster.NewSlicer(canvas, j.geom)
	if err != nil {
		return nil, newError(KindInternal, "%w", err)
	}

	var buf bytes.Buffer
	sink := opts.NewSink(&buf, j.geom.Page, j.meta)
	for tile := range slicer.All() {
		if err := sink.AddPage(tile.Image); err != nil {
			return nil, newError(KindEncode, "写入第 %d 页 (行 %d, 列 %d) 失败: %w", tile.Index+1, tile.Row, tile.Col, err)
		}
		log.Debug("page", "index", tile.Index, "row", tile.Row, "col", tile.Col)
	}
	if err := sink.Close(); err != nil {
		return nil, newError(KindEncode, "生成文档失败: %w", err)
	}

	doc = &Document{
		Data:      buf.Bytes(),
		Filename:  naming.Suggested(opts.Now(), opts.Extension),
		MediaType: opts.MediaType,
		Plan:      j.plan(placement),
	}
	log.Info("stencil generated", "pages", slicer.Len(), "bytes", len(doc.Data), "filename", doc.Filename)
	return doc, nil
}

// PlanFor computes the layout of req from the image header only, without
// rendering anything.
func PlanFor(req Request) (*layout.Plan, error) {
	if c, ok := req.Image.(io.Closer); ok {
		defer c.Close()
	}
	j, err := prepare(req)
	if err != nil {
		return nil, err
	}
	size, _, err := decodeSize(req.Image)
	if err != nil {
		return nil, err
	}
	p := j.plan(raster.PlaceFit(size.X, size.Y, j.geom.CanvasPx, j.inset))
	return &p, nil
}

// prepare 校验请求；任何校验失败都发生在读取图片之前。
func prepare(req Request) (*job, error) {
	if req.Image == nil {
		return nil, newError(KindValidation, "缺少图片")
	}
	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(req.ContentType)), "image/") {
		return nil, &Error{Kind: KindValidation, Err: fmt.Errorf("%w: %q", ErrNotImage, req.ContentType)}
	}
	if err := req.Target.Validate(); err != nil {
		return nil, &Error{Kind: KindValidation, Err: err}
	}

	kind, ok := filter.ParseKind(req.Filter)
	if !ok {
		if req.StrictFilter {
			return nil, newError(KindValidation, "未知滤镜 %q", req.Filter)
		}
		Logger().Warn("unknown filter, using none", "filter", req.Filter)
	}

	page, err := layout.ResolvePage(req.Page, layout.ParseOrientation(req.Orientation))
	if err != nil {
		return nil, &Error{Kind: KindValidation, Err: err}
	}
	dpi := req.DPI
	if dpi == 0 {
		dpi = layout.DefaultDPI
	}
	geom, err := layout.ComputeGeometry(req.Target, page, dpi)
	if err != nil {
		return nil, &Error{Kind: KindValidation, Err: err}
	}

	inset, err := geom.MarginPx(req.MarginX, req.MarginY)
	if err != nil {
		return nil, &Error{Kind: KindValidation, Err: err}
	}

	title := req.Title
	if title == "" {
		title = "Stencil"
	}
	return &job{
		kind:  kind,
		geom:  geom,
		inset: inset,
		meta: renderer.Meta{
			Title:    title,
			Subject:  fmt.Sprintf("%gcm x %gcm on %dx%d %s pages", req.Target.WidthCM, req.Target.HeightCM, geom.Grid.Cols, geom.Grid.Rows, page.Name),
			Creator:  "stencil",
			Keywords: []string{"stencil", page.Name, page.Orientation.String()},
		},
		req: req,
	}, nil
}

func (j *job) plan(p raster.Placement) layout.Plan {
	return layout.Plan{
		Target:    j.req.Target,
		Geometry:  j.geom,
		Filter:    j.kind.String(),
		Margin:    layout.Rect{X: j.inset.X, Y: j.inset.Y, Width: p.Content.Dx(), Height: p.Content.Dy()},
		Placement: layout.RectOf(p.Rect),
		Tiles:     j.geom.TilePlans(),
	}
}
