package stencil

import (
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// decodeImage decodes any registered raster format.
func decodeImage(r io.Reader) (image.Image, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", newError(KindDecode, "无法解析图片: %w", err)
	}
	if img.Bounds().Empty() {
		return nil, "", newError(KindDecode, "图片尺寸为空")
	}
	return img, format, nil
}

// decodeSize reads only the header of the image.
func decodeSize(r io.Reader) (image.Point, string, error) {
	cfg, format, err := image.DecodeConfig(r)
	if err != nil {
		return image.Point{}, "", newError(KindDecode, "无法解析图片: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return image.Point{}, "", newError(KindDecode, "图片尺寸为空")
	}
	return image.Pt(cfg.Width, cfg.Height), format, nil
}
