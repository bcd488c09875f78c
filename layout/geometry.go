package layout

import (
	"errors"
	"fmt"
	"image"
	"math"
	"strings"
)

// DefaultDPI is the print resolution used to convert points to pixels.
const DefaultDPI = 300

// ceilEpsilon absorbs floating point noise such as 59.4/29.7 = 2.0000000000000004.
const ceilEpsilon = 1e-9

// MaxCanvasPixels caps the assembled canvas (RGBA, 4 bytes per pixel, about 1 GiB).
const MaxCanvasPixels = 1 << 28

var (
	// ErrInvalidSize reports a non-positive physical dimension.
	ErrInvalidSize = errors.New("尺寸必须为正数")
	// ErrTooLarge reports a canvas beyond MaxCanvasPixels.
	ErrTooLarge = errors.New("画布尺寸超出上限")
	// ErrBadMargin reports a margin that is negative, not finite or leaves no content area.
	ErrBadMargin = errors.New("边距无效")
)

// Orientation 纸张方向。
type Orientation int

const (
	Portrait Orientation = iota
	Landscape
)

// ParseOrientation 只识别 "landscape"，其余取值（包括空串）均为纵向。
func ParseOrientation(s string) Orientation {
	if strings.EqualFold(strings.TrimSpace(s), "landscape") {
		return Landscape
	}
	return Portrait
}

func (o Orientation) String() string {
	if o == Landscape {
		return "landscape"
	}
	return "portrait"
}

func (o Orientation) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

func (o *Orientation) UnmarshalText(b []byte) error {
	*o = ParseOrientation(string(b))
	return nil
}

// PhysicalSize is a target size in centimeters.
type PhysicalSize struct {
	WidthCM  float64 `json:"widthCm"`
	HeightCM float64 `json:"heightCm"`
}

// Validate rejects zero, negative and NaN dimensions.
func (s PhysicalSize) Validate() error {
	if !(s.WidthCM > 0) || !(s.HeightCM > 0) || math.IsInf(s.WidthCM, 0) || math.IsInf(s.HeightCM, 0) {
		return fmt.Errorf("%w: %gcm x %gcm", ErrInvalidSize, s.WidthCM, s.HeightCM)
	}
	return nil
}

// PageSpec 描述一张输出纸张（毫米），确定后不再修改。
type PageSpec struct {
	Name        string      `json:"name"`
	Orientation Orientation `json:"orientation"`
	WidthMM     float64     `json:"widthMm"`
	HeightMM    float64     `json:"heightMm"`
}

func (p PageSpec) WidthCM() float64  { return p.WidthMM / 10 }
func (p PageSpec) HeightCM() float64 { return p.HeightMM / 10 }
func (p PageSpec) WidthPt() float64  { return p.WidthMM * MmToPt }
func (p PageSpec) HeightPt() float64 { return p.HeightMM * MmToPt }

// PixelSize returns round(pt * dpi / 72) on each axis.
func (p PageSpec) PixelSize(dpi int) image.Point {
	w, h := p.pixels(dpi)
	return image.Pt(int(w), int(h))
}

func (p PageSpec) pixels(dpi int) (w, h float64) {
	scale := float64(dpi) / PtPerInch
	return math.Round(p.WidthPt() * scale), math.Round(p.HeightPt() * scale)
}

var pagePresets = map[string][2]float64{
	"A4":     {210, 297},
	"A5":     {148, 210},
	"LETTER": {215.9, 279.4},
}

// ResolvePage 根据纸张名称与方向返回页面尺寸，空名称默认为 A4。
func ResolvePage(name string, o Orientation) (PageSpec, error) {
	key := strings.ToUpper(strings.TrimSpace(name))
	if key == "" {
		key = "A4"
	}
	base, ok := pagePresets[key]
	if !ok {
		return PageSpec{}, fmt.Errorf("暂不支持的纸张尺寸：%s", name)
	}
	width, height := base[0], base[1]
	if o == Landscape {
		width, height = height, width
	}
	return PageSpec{Name: key, Orientation: o, WidthMM: width, HeightMM: height}, nil
}

// Grid is the number of pages across and down.
type Grid struct {
	Cols int `json:"cols"`
	Rows int `json:"rows"`
}

// Pages returns Cols*Rows.
func (g Grid) Pages() int { return g.Cols * g.Rows }

// Coord maps a page index to its (row, col) cell in row-major order.
func (g Grid) Coord(n int) (row, col int) { return n / g.Cols, n % g.Cols }

// Geometry 汇总一次请求的网格与像素尺寸，每次请求重新计算。
type Geometry struct {
	Page     PageSpec    `json:"page"`
	DPI      int         `json:"dpi"`
	Grid     Grid        `json:"grid"`
	PagePx   image.Point `json:"pagePx"`
	CanvasPx image.Point `json:"canvasPx"`
}

// ComputeGeometry derives the grid by ceiling division of target by page size and the
// canvas as an exact multiple of the page pixel size. A target smaller than one page
// still yields a 1x1 grid.
func ComputeGeometry(target PhysicalSize, page PageSpec, dpi int) (Geometry, error) {
	if err := target.Validate(); err != nil {
		return Geometry{}, err
	}
	if page.WidthMM <= 0 || page.HeightMM <= 0 {
		return Geometry{}, fmt.Errorf("%w: 纸张 %gmm x %gmm", ErrInvalidSize, page.WidthMM, page.HeightMM)
	}
	if dpi <= 0 {
		return Geometry{}, fmt.Errorf("%w: dpi=%d", ErrInvalidSize, dpi)
	}
	// 先用浮点数估算，避免转换为 int 时溢出
	cols, rows := ceilDiv(target.WidthCM, page.WidthCM()), ceilDiv(target.HeightCM, page.HeightCM())
	pxW, pxH := page.pixels(dpi)
	if pxW < 1 || pxH < 1 {
		return Geometry{}, fmt.Errorf("%w: dpi=%d 时页面不足一个像素", ErrInvalidSize, dpi)
	}
	if cols*pxW*rows*pxH > MaxCanvasPixels {
		return Geometry{}, fmt.Errorf("%w: %gx%g 页, 每页 %gx%g 像素 (上限 %d 像素)", ErrTooLarge, cols, rows, pxW, pxH, MaxCanvasPixels)
	}
	grid := Grid{Cols: int(cols), Rows: int(rows)}
	pagePx := page.PixelSize(dpi)
	return Geometry{
		Page:     page,
		DPI:      dpi,
		Grid:     grid,
		PagePx:   pagePx,
		CanvasPx: image.Pt(grid.Cols*pagePx.X, grid.Rows*pagePx.Y),
	}, nil
}

// TileRect returns the half-open pixel rectangle of cell (row, col).
func (g Geometry) TileRect(row, col int) image.Rectangle {
	x0, y0 := col*g.PagePx.X, row*g.PagePx.Y
	return image.Rect(x0, y0, x0+g.PagePx.X, y0+g.PagePx.Y)
}

// MarginPx converts a physical inset to canvas pixels at the geometry's DPI. The
// inset must be finite, non-negative and leave a positive content area.
func (g Geometry) MarginPx(x, y Length) (image.Point, error) {
	scale := float64(g.DPI) / MmPerInch
	px, py := math.Round(x.MM()*scale), math.Round(y.MM()*scale)
	switch {
	case !finite(px) || !finite(py):
		return image.Point{}, fmt.Errorf("%w: %v x %v 不是有限值", ErrBadMargin, x, y)
	case x.Value < 0 || y.Value < 0:
		return image.Point{}, fmt.Errorf("%w: %v x %v 不能为负数", ErrBadMargin, x, y)
	case 2*px >= float64(g.CanvasPx.X) || 2*py >= float64(g.CanvasPx.Y):
		return image.Point{}, fmt.Errorf("%w: %v x %v 超出画布", ErrBadMargin, x, y)
	}
	return image.Pt(int(px), int(py)), nil
}

// ceilDiv returns ceil(a/b) as a float, at least 1.
func ceilDiv(a, b float64) float64 {
	return math.Max(1, math.Ceil(a/b-ceilEpsilon))
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }
