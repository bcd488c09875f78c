package renderer

import (
	"image"
	"io"

	"github.com/ByLCY/stencil/layout"
)

// PageSink 按顺序接收栅格瓦片，每次 AddPage 将瓦片铺满一页并结束该页。
// Close 完成整份文档；Close 失败时已写出的内容不可使用。
type PageSink interface {
	AddPage(tile image.Image) error
	Close() error
}

// Factory creates a sink that writes a document of page-sized pages to w.
type Factory func(w io.Writer, page layout.PageSpec, meta Meta) PageSink

// Meta 保存输出文档的元信息。
type Meta struct {
	Title    string
	Author   string
	Subject  string
	Creator  string
	Keywords []string
}
