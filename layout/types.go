package layout

import "image"

// 该文件定义排版计划，供流水线、命令行 -plan 输出与调试 JSON 共用。

// Plan 记录一次生成的完整几何信息，不包含像素数据。
type Plan struct {
	Target    PhysicalSize `json:"target"`
	Geometry  Geometry     `json:"geometry"`
	Filter    string       `json:"filter"`
	Margin    Rect         `json:"margin"`    // X/Y 为单侧留白像素，Width/Height 为内容区
	Placement Rect         `json:"placement"` // 缩放后图像在画布上的位置
	Tiles     []TilePlan   `json:"tiles"`
}

// Rect 是 JSON 友好的像素矩形。
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// RectOf converts an image.Rectangle.
func RectOf(r image.Rectangle) Rect {
	return Rect{X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy()}
}

// Rectangle converts back to an image.Rectangle.
func (r Rect) Rectangle() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// TilePlan 描述输出文档中的一页对应的画布区域。
type TilePlan struct {
	Page int  `json:"page"`
	Row  int  `json:"row"`
	Col  int  `json:"col"`
	Rect Rect `json:"rect"`
}

// TilePlans lists every cell in page order.
func (g Geometry) TilePlans() []TilePlan {
	out := make([]TilePlan, 0, g.Grid.Pages())
	for n := 0; n < g.Grid.Pages(); n++ {
		row, col := g.Grid.Coord(n)
		out = append(out, TilePlan{Page: n, Row: row, Col: col, Rect: RectOf(g.TileRect(row, col))})
	}
	return out
}
