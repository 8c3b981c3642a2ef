package layout

import (
	"fmt"
	"strings"

	"github.com/fetchbites/recipecard/recipe"
)

const (
	footerNoteLines = 2   // 备注卡片内的行数上限
	footerCardPadX  = 5.0 // 白色卡片内边距（mm）
	footerCardPadY  = 3.5
	footerStripPadY = 4.0 // 装饰带上下留白（mm）
	footerQRSide    = 16.0
	footerTitleGap  = 1.5
)

// compactNotesText 选出页脚/页眉备注的文案：优先预先压缩过的 NotesCompact，
// 否则把描述与备注拼起来。没有可用文案时返回空串。
func compactNotesText(doc recipe.Document) string {
	if s := strings.TrimSpace(doc.NotesCompact); s != "" {
		return s
	}
	parts := make([]string, 0, 2)
	if s := strings.TrimSpace(doc.Description); s != "" {
		parts = append(parts, s)
	}
	if s := strings.TrimSpace(doc.Notes); s != "" {
		parts = append(parts, s)
	}
	return strings.Join(parts, " ")
}

// buildFooter 构建页底装饰带：全宽米色条 + 白色备注卡片（标题一行、正文至多
// 两行，超出按省略号截断），右侧可选来源二维码。备注为空时退化成底边距高度
// 的最小带，但米色背景条仍然绘制，保持页面构图一致；备注已被页眉收编时带内
// 不再放任何元素。任何输入都不会让它报错成“无页脚”。
func buildFooter(ts Typesetter, rc *Context, doc recipe.Document, qrImage string, placement NotesPlacement) (Band, error) {
	notes := ""
	if placement == NotesInFooter {
		notes = compactNotesText(doc)
	}
	if notes == "" && qrImage == "" {
		band := Band{Height: rc.Margin.Bottom}
		if placement == NotesInFooter {
			cream := colorCream
			band.Rects = append(band.Rects, Rect{
				X: 0, Y: 0, Width: rc.PageW, Height: band.Height,
				FillColor: &cream,
			})
		}
		return band, nil
	}

	heading := rc.styleHeading()
	heading.Size = Pt(headingSizePt * 0.8)
	heading.LineHeight = heading.Size * 1.25
	body := rc.styleMeta()
	body.Color = colorBody

	cardX := rc.Margin.Left
	cardW := rc.ContentWidth()
	qrX := 0.0
	if qrImage != "" {
		qrX = cardX + cardW - footerQRSide
		cardW -= footerQRSide + columnGutter
	}
	textW := cardW - 2*footerCardPadX

	var band Band
	titleH := 0.0
	bodyH := 0.0
	var titleTB, bodyTB TextBox
	if notes != "" {
		var err error
		titleTB, titleH, err = layoutText(ts, "Notes", 0, 0, textW, heading, "", "nowrap")
		if err != nil {
			return band, fmt.Errorf("排版页脚标题失败: %w", err)
		}
		text, _, err := TruncateToLines(ts, notes, textW, body, footerNoteLines)
		if err != nil {
			return band, fmt.Errorf("截断页脚备注失败: %w", err)
		}
		bodyTB, bodyH, err = layoutText(ts, text, 0, 0, textW, body, "", "anywhere")
		if err != nil {
			return band, fmt.Errorf("排版页脚备注失败: %w", err)
		}
	}

	// 卡片高度按实测文字高度 + 内边距，而非固定值。
	cardH := titleH + bodyH + 2*footerCardPadY
	if notes != "" {
		cardH += footerTitleGap
	}
	contentH := cardH
	if qrImage != "" && footerQRSide > contentH {
		contentH = footerQRSide
	}
	band.Height = contentH + 2*footerStripPadY + rc.Margin.Bottom

	// 带内坐标以带顶为原点，渲染时整体平移到页底。
	cream := colorCream
	band.Rects = append(band.Rects, Rect{
		X: 0, Y: 0, Width: rc.PageW, Height: band.Height,
		FillColor: &cream,
	})

	cardY := footerStripPadY
	if notes != "" {
		card := colorCard
		band.Rects = append(band.Rects, Rect{
			X: cardX, Y: cardY, Width: cardW, Height: cardH,
			Radius:    2,
			FillColor: &card,
		})
		titleTB.X = cardX + footerCardPadX
		titleTB.Y = cardY + footerCardPadY
		band.Texts = append(band.Texts, titleTB)
		bodyTB.X = cardX + footerCardPadX
		bodyTB.Y = cardY + footerCardPadY + titleH + footerTitleGap
		band.Texts = append(band.Texts, bodyTB)
	}

	if qrImage != "" {
		band.Images = append(band.Images, ImageBox{
			Path:    qrImage,
			X:       qrX,
			Y:       cardY + (contentH-footerQRSide)/2,
			Width:   footerQRSide,
			Height:  footerQRSide,
			Opacity: 1,
		})
	}
	return band, nil
}
