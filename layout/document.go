package layout

import (
	"fmt"
	"strings"

	"github.com/fetchbites/recipecard/recipe"
)

// section 为构建器的中间产物：一段已定位的元素及其总高度。
type section struct {
	Height  float64
	Texts   []TextBox
	Images  []ImageBox
	Rects   []Rect
	Circles []Circle
	Lines   []Line
}

func (s *section) merge(other section) {
	s.Texts = append(s.Texts, other.Texts...)
	s.Images = append(s.Images, other.Images...)
	s.Rects = append(s.Rects, other.Rects...)
	s.Circles = append(s.Circles, other.Circles...)
	s.Lines = append(s.Lines, other.Lines...)
}

const headerBodyGap = 6.0 // 页眉与正文两栏的间距（mm）

// ComposeInput 是一次排版的全部输入。除 Recipe 外均可为零值：
// 图片、来源行、二维码缺失只会让对应元素不出现。
type ComposeInput struct {
	Recipe recipe.Document
	// ImagePath 为封面图文件路径（或渲染器注册过的内置资源名）。
	ImagePath string
	// SourceURL 展示在页眉来源行。
	SourceURL string
	// QRImage 为页脚二维码的图片路径或内置资源名。
	QRImage string
	// TuckNotes 允许把备注塞进页眉剩余空间。
	TuckNotes bool
}

// Compose 把整张食谱卡排成单页文档：页眉、页脚装饰带、两栏正文依次构建，
// 正文可用高度 = 页高 − 上边距 − 页眉高 − 间距 − 装饰带高。相同输入产出
// 字节级相同的布局。任何一段构建失败都会使整次排版失败，不产出残页。
func Compose(ts Typesetter, rc *Context, in ComposeInput) (*Document, error) {
	doc := recipe.Sanitize(in.Recipe)

	header, placement, err := buildHeader(ts, rc, doc, in.ImagePath, in.SourceURL, HeaderOptions{TuckNotes: in.TuckNotes})
	if err != nil {
		return nil, fmt.Errorf("构建页眉失败: %w", err)
	}

	band, err := buildFooter(ts, rc, doc, in.QRImage, placement)
	if err != nil {
		return nil, fmt.Errorf("构建页脚失败: %w", err)
	}

	bodyY := rc.Margin.Top + header.Height + headerBodyGap
	availH := rc.PageH - bodyY - band.Height - headerBodyGap
	if availH < 0 {
		availH = 0
	}
	body, err := buildColumns(ts, rc, doc, bodyY, availH)
	if err != nil {
		return nil, fmt.Errorf("构建正文两栏失败: %w", err)
	}

	page := Page{
		Width:  rc.PageW,
		Height: rc.PageH,
		Margin: rc.Margin,
		Footer: band,
	}
	for _, sec := range []section{header, body} {
		page.Texts = append(page.Texts, sec.Texts...)
		page.Images = append(page.Images, sec.Images...)
		page.Rects = append(page.Rects, sec.Rects...)
		page.Circles = append(page.Circles, sec.Circles...)
		page.Lines = append(page.Lines, sec.Lines...)
	}

	return &Document{
		Pages: []Page{page},
		Meta:  documentMeta(doc),
	}, nil
}

func documentMeta(doc recipe.Document) DocumentMeta {
	title := strings.TrimSpace(doc.Title)
	if title == "" {
		title = "Recipe Card"
	}
	author := strings.TrimSpace(doc.Source.Creator)
	if author == "" {
		author = strings.TrimSpace(doc.Source.Handle)
	}
	return DocumentMeta{
		Title:    title,
		Author:   author,
		Subject:  "Recipe card",
		Creator:  "recipecard",
		Keywords: doc.DietaryInfo,
	}
}
