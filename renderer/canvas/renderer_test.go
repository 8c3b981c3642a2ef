package canvasrenderer

import (
	"image"
	"reflect"
	"testing"

	"github.com/tdewolff/canvas"

	"github.com/fetchbites/recipecard/layout"
)

func TestRenderSkipsMissingImage(t *testing.T) {
	r := NewRenderer("")
	doc := &layout.Document{
		Pages: []layout.Page{{
			Width:  215.9,
			Height: 279.4,
			Images: []layout.ImageBox{
				{Path: "/nonexistent/photo.jpg", X: 10, Y: 10, Width: 40, Height: 40},
				{Path: "built-in:missing-blob", X: 60, Y: 10, Width: 16, Height: 16},
			},
		}},
	}
	data, err := r.Render(doc)
	if err != nil {
		t.Fatalf("缺图只应降级，不应让渲染失败: %v", err)
	}
	if len(data) == 0 {
		t.Errorf("降级渲染仍应产出 PDF 字节")
	}
}

func TestRenderRejectsEmptyDocument(t *testing.T) {
	r := NewRenderer("")
	if _, err := r.Render(nil); err == nil {
		t.Errorf("nil 文档应报错")
	}
	if _, err := r.Render(&layout.Document{}); err == nil {
		t.Errorf("零页文档应报错")
	}
}

func TestTokenizeContent(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"hello world", []string{"hello", " ", "world"}},
		{"a\nb", []string{"a", "\n", "b"}},
		{"a\r\nb", []string{"a", "\n", "b"}},
		{"  lead", []string{"  ", "lead"}},
		{"", nil},
	}
	for _, c := range cases {
		got := tokenizeContent(c.in)
		if !reflect.DeepEqual(got, c.want) {
			t.Errorf("tokenizeContent(%q) = %v, 期望 %v", c.in, got, c.want)
		}
	}
}

func TestCropSquareTop(t *testing.T) {
	// 横图 40x20：裁成 20x20，横向居中
	wide := image.NewRGBA(image.Rect(0, 0, 40, 20))
	got := cropSquareTop(wide)
	if b := got.Bounds(); b.Dx() != 20 || b.Dy() != 20 {
		t.Errorf("横图裁剪结果 %v, 期望 20x20", b)
	}
	// 竖图 20x40：裁成 20x20，顶部对齐
	tall := image.NewRGBA(image.Rect(0, 0, 20, 40))
	got = cropSquareTop(tall)
	if b := got.Bounds(); b.Dx() != 20 || b.Dy() != 20 {
		t.Errorf("竖图裁剪结果 %v, 期望 20x20", b)
	}
	// 方图原样返回
	square := image.NewRGBA(image.Rect(0, 0, 10, 10))
	if cropSquareTop(square) != image.Image(square) {
		t.Errorf("方图不应被裁剪")
	}
}

func TestScaleToBoxDownsamplesOnly(t *testing.T) {
	big := image.NewRGBA(image.Rect(0, 0, 1000, 1000))
	got := scaleToBox(big, 20, 20) // 8px/mm → 160x160
	if b := got.Bounds(); b.Dx() != 160 || b.Dy() != 160 {
		t.Errorf("降采样结果 %v, 期望 160x160", b)
	}
	small := image.NewRGBA(image.Rect(0, 0, 50, 50))
	if scaleToBox(small, 20, 20) != image.Image(small) {
		t.Errorf("小图不应被放大")
	}
}

func TestParseFontStyle(t *testing.T) {
	cases := []struct {
		in   string
		want canvas.FontStyle
	}{
		{"", canvas.FontRegular},
		{"Bold", canvas.FontBold},
		{"SemiBold", canvas.FontSemiBold},
		{"Italic", canvas.FontRegular | canvas.FontItalic},
		{"Bold Italic", canvas.FontBold | canvas.FontItalic},
		{"Oblique", canvas.FontRegular | canvas.FontItalic},
	}
	for _, c := range cases {
		if got := parseFontStyle(c.in); got != c.want {
			t.Errorf("parseFontStyle(%q) = %v, 期望 %v", c.in, got, c.want)
		}
	}
}

func TestRegisterImage(t *testing.T) {
	r := NewRenderer("")
	r.RegisterImage("qr", []byte{1, 2, 3})
	if _, ok := r.imageBlobs["qr"]; !ok {
		t.Errorf("注册后应能查到内置图片")
	}
	r.RegisterImage("", []byte{1})
	if _, ok := r.imageBlobs[""]; ok {
		t.Errorf("空名字不应注册")
	}
}
