package filter

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

// squareImage 白底居中一个黑色方块，外加少量彩色像素。
func squareImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(10, 20, 50, 60))
	for y := 20; y < 60; y++ {
		for x := 10; x < 50; x++ {
			c := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
			if x >= 20 && x < 40 && y >= 30 && y < 50 {
				c = color.NRGBA{A: 255}
			}
			if x == 12 && y == 22 {
				c = color.NRGBA{R: 200, G: 40, B: 90, A: 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestParseKind(t *testing.T) {
	cases := []struct {
		in   string
		want Kind
		ok   bool
	}{
		{"bw", Grayscale, true},
		{"BW", Grayscale, true},
		{"outline", Outline, true},
		{"", None, true},
		{"none", None, true},
		{"color", None, true},
		{"sepia", None, false},
	}
	for _, c := range cases {
		got, ok := ParseKind(c.in)
		if got != c.want || ok != c.ok {
			t.Fatalf("ParseKind(%q) = %v,%v want %v,%v", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestApplyNoneNormalizesOrigin(t *testing.T) {
	src := squareImage()
	out, err := Apply(src, None)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if out.Bounds() != image.Rect(0, 0, 40, 40) {
		t.Fatalf("输出应以 (0,0) 为原点，实际 %v", out.Bounds())
	}
	if got := out.RGBAAt(2, 2); got != (color.RGBA{200, 40, 90, 255}) {
		t.Fatalf("none 不应改变像素，实际 %v", got)
	}
}

func TestApplyGrayscaleEqualChannels(t *testing.T) {
	out, err := Apply(squareImage(), Grayscale)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	for i := 0; i < len(out.Pix); i += 4 {
		r, g, b, a := out.Pix[i], out.Pix[i+1], out.Pix[i+2], out.Pix[i+3]
		if r != g || g != b || a != 0xff {
			t.Fatalf("字节 %d: 灰度像素通道应相等且不透明，实际 %d,%d,%d,%d", i, r, g, b, a)
		}
	}
	want := color.GrayModel.Convert(color.RGBA{200, 40, 90, 255}).(color.Gray).Y
	if got := out.RGBAAt(2, 2).R; got != want {
		t.Fatalf("彩色像素灰度 = %d, want %d", got, want)
	}
}

func TestApplyOutlineDarkEdgesOnLight(t *testing.T) {
	out, err := Apply(squareImage(), Outline)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	light, dark := 0, 0
	for i := 0; i < len(out.Pix); i += 4 {
		if out.Pix[i] != out.Pix[i+1] || out.Pix[i+1] != out.Pix[i+2] {
			t.Fatalf("outline 输出通道应相等")
		}
		if out.Pix[i] > 200 {
			light++
		} else {
			dark++
		}
	}
	if light <= dark*3 {
		t.Fatalf("outline 应以浅色背景为主: light=%d dark=%d", light, dark)
	}
	// 方块边界（外侧一圈）应为深色，平坦区域与图像边框为白色
	if got := out.RGBAAt(9, 20).R; got != 0 {
		t.Fatalf("边缘像素应为黑色，实际 %d", got)
	}
	if got := out.RGBAAt(20, 20).R; got != 0xff {
		t.Fatalf("方块内部应为白色，实际 %d", got)
	}
	if got := out.RGBAAt(0, 39).R; got != 0xff {
		t.Fatalf("图像边框不应产生边缘，实际 %d", got)
	}
}

func TestApplyFlattensAlphaOverWhite(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(1, 0, color.NRGBA{B: 255, A: 255})
	out, err := Apply(img, None)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got := out.RGBAAt(0, 0); got != (color.RGBA{255, 255, 255, 255}) {
		t.Fatalf("透明像素应为白色，实际 %v", got)
	}
	if got := out.RGBAAt(1, 0); got != (color.RGBA{0, 0, 255, 255}) {
		t.Fatalf("不透明像素应保持，实际 %v", got)
	}
}

func TestApplyRejectsEmpty(t *testing.T) {
	if _, err := Apply(nil, None); !errors.Is(err, ErrEmptyImage) {
		t.Fatalf("nil 图像应返回 ErrEmptyImage，实际 %v", err)
	}
	if _, err := Apply(image.NewRGBA(image.Rectangle{}), Outline); !errors.Is(err, ErrEmptyImage) {
		t.Fatalf("空图像应返回 ErrEmptyImage，实际 %v", err)
	}
	if _, err := Apply(squareImage(), Kind(42)); err == nil {
		t.Fatalf("未知 Kind 应返回错误")
	}
}

func TestConvolveFlatIsZero(t *testing.T) {
	g := image.NewGray(image.Rect(0, 0, 5, 5))
	for i := range g.Pix {
		g.Pix[i] = 77
	}
	for i, v := range FindEdges.Convolve(g).Pix {
		if v != 0 {
			t.Fatalf("平坦区域像素 %d 响应应为 0，实际 %d", i, v)
		}
	}
}
