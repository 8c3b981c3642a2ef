package layout

import (
	"fmt"
	"strings"

	"github.com/fetchbites/recipecard/recipe"
)

// NotesPlacement 标记备注块最终落在何处，由页眉构建器返回、页脚构建器消费，
// 取代原先记在输入数据上的一次性标志位。
type NotesPlacement int

const (
	// NotesInFooter 表示备注仍由页脚装饰带负责（默认）。
	NotesInFooter NotesPlacement = iota
	// NotesInHeader 表示页眉已把紧凑备注塞进了剩余空间，页脚应跳过。
	NotesInHeader
)

const (
	headerImageGutter = 6.0  // 图片与右栏之间的间距（mm）
	iconTextGap       = 1.6  // 图标与文字间距（mm）
	statsItemGap      = 5.0  // 统计条目间距（mm）
	notesTuckMinFree  = 18.0 // 塞入备注所需的最小剩余高度（mm）
	notesTuckGap      = 4.0
)

// HeaderOptions 控制页眉构建行为。
type HeaderOptions struct {
	// TuckNotes 允许把紧凑备注塞进图片右侧的剩余空间。
	TuckNotes bool
}

// buildHeader 组合页眉：左侧为裁成正方形的封面图（约占 40% 宽度），右侧依次
// 为标题、描述、主厨行、来源行与统计条。所有字段都可能缺失，缺失只影响视觉，
// 不会报错。返回的 section 以内容区顶部为原点。
func buildHeader(ts Typesetter, rc *Context, doc recipe.Document, imagePath, sourceLine string, opt HeaderOptions) (section, NotesPlacement, error) {
	var sec section
	cfg := rc.Config
	x0 := rc.Margin.Left
	y0 := rc.Margin.Top
	width := rc.ContentWidth()

	rightX := x0
	rightW := width
	imgSide := 0.0
	if imagePath != "" {
		imgSide = width * cfg.Columns.LeftPct
		sec.Images = append(sec.Images, ImageBox{
			Path:    imagePath,
			X:       x0,
			Y:       y0,
			Width:   imgSide,
			Height:  imgSide,
			Fit:     "cover-square-top",
			Opacity: 1,
		})
		rightX = x0 + imgSide + headerImageGutter
		rightW = width - imgSide - headerImageGutter
	}

	cursorY := y0

	title := doc.Title
	if strings.TrimSpace(title) == "" {
		title = "Recipe Card"
	}
	tb, h, err := layoutText(ts, title, rightX, cursorY, rightW, rc.styleTitle(), "", "break-word")
	if err != nil {
		return sec, NotesInFooter, fmt.Errorf("排版标题失败: %w", err)
	}
	sec.Texts = append(sec.Texts, tb)
	cursorY += h + Pt(cfg.Header.RowGaps.TitleDesc)

	if doc.Description != "" {
		st := rc.styleBody()
		st.LineHeight = Pt(cfg.Header.DescLeading)
		tb, h, err := layoutText(ts, doc.Description, rightX, cursorY, rightW, st, "", "anywhere")
		if err != nil {
			return sec, NotesInFooter, fmt.Errorf("排版描述失败: %w", err)
		}
		sec.Texts = append(sec.Texts, tb)
		cursorY += h + Pt(cfg.Header.RowGaps.MetaRows)
	}

	if line := chefLine(doc.Source); line != "" {
		h, err := appendIconText(ts, rc, &sec, rc.Icon("chef"), line, rightX, cursorY, rightW, rc.styleMeta())
		if err != nil {
			return sec, NotesInFooter, err
		}
		cursorY += h + Pt(cfg.Header.RowGaps.MetaRows)
	}

	if sourceLine != "" {
		h, err := appendIconText(ts, rc, &sec, rc.Icon("link"), sourceLine, rightX, cursorY, rightW, rc.styleMeta())
		if err != nil {
			return sec, NotesInFooter, err
		}
		cursorY += h + Pt(cfg.Header.RowGaps.MetaRows)
	}

	statsH, err := buildStatsStrip(ts, rc, &sec, doc, rightX, cursorY, rightW)
	if err != nil {
		return sec, NotesInFooter, err
	}
	cursorY += statsH

	placement := NotesInFooter
	rightH := cursorY - y0
	if opt.TuckNotes && imgSide > 0 {
		free := imgSide - rightH - notesTuckGap
		if free >= notesTuckMinFree {
			if notes := compactNotesText(doc); notes != "" {
				tuckY := y0 + rightH + notesTuckGap
				if err := tuckNotes(ts, rc, &sec, notes, rightX, tuckY, rightW, free); err != nil {
					return sec, NotesInFooter, err
				}
				placement = NotesInHeader
				rightH = imgSide
			}
		}
	}

	sec.Height = rightH
	if imgSide > sec.Height {
		sec.Height = imgSide
	}
	return sec, placement, nil
}

// chefLine 拼出 “By 创作者 (@handle)” 行，二者皆缺时返回空串。
func chefLine(src recipe.Source) string {
	creator := strings.TrimSpace(src.Creator)
	handle := strings.TrimSpace(src.Handle)
	switch {
	case creator != "" && handle != "":
		return fmt.Sprintf("By %s (@%s)", creator, handle)
	case creator != "":
		return "By " + creator
	case handle != "":
		return "By @" + handle
	default:
		return ""
	}
}

// appendIconText 放置“图标 + 文字”组合；图标缺失时纯文字兜底（硬性约定）。
func appendIconText(ts Typesetter, rc *Context, sec *section, iconPath, text string, x, y, width float64, st Style) (float64, error) {
	textX := x
	textW := width
	if iconPath != "" {
		side := st.LineHeight
		sec.Images = append(sec.Images, ImageBox{Path: iconPath, X: x, Y: y, Width: side, Height: side, Opacity: 1})
		textX = x + side + iconTextGap
		textW = width - side - iconTextGap
	}
	tb, h, err := layoutText(ts, text, textX, y, textW, st, "", "nowrap")
	if err != nil {
		return 0, fmt.Errorf("排版图文行失败: %w", err)
	}
	sec.Texts = append(sec.Texts, tb)
	if iconPath != "" && st.LineHeight > h {
		h = st.LineHeight
	}
	return h, nil
}

// statsItem 为统计条中的一项：可选图标名 + 文本。
type statsItem struct {
	icon string
	text string
}

// collectStats 规范化时间并推断份量，产出统计条目；全部缺失时返回空。
func collectStats(doc recipe.Document) []statsItem {
	var items []statsItem
	add := func(icon, label, value string) {
		if v := strings.TrimSpace(value); v != "" {
			items = append(items, statsItem{icon: icon, text: label + " " + v})
		}
	}
	add("clock", "Prep:", recipe.NormalizeTime(doc.PrepTime))
	add("clock", "Cook:", recipe.NormalizeTime(doc.CookTime))
	add("clock", "Total:", recipe.NormalizeTime(doc.TotalTime))

	servings := recipe.EffectiveServings(doc)
	if servings == "" {
		servings = "—" // 占位，而非报错
	}
	add("servings", "Serves:", servings)
	add("eye", "Views:", doc.Views)
	add("heart", "Likes:", doc.Likes)
	add("gauge", "Difficulty:", doc.Difficulty)
	if len(doc.DietaryInfo) > 0 {
		add("leaf", "", strings.Join(doc.DietaryInfo, ", "))
	}
	return items
}

// buildStatsStrip 在浅色圆角条内横向排布统计条目，放不下时折到下一行。
// 返回整个条（含内边距）的高度。
func buildStatsStrip(ts Typesetter, rc *Context, sec *section, doc recipe.Document, x, y, width float64) (float64, error) {
	items := collectStats(doc)
	if len(items) == 0 {
		return 0, nil
	}
	pad := rc.Config.Stats.Padding
	padX := Pt(pad.X)
	padT := Pt(pad.Top) / 2 // 外部文件沿用模板 pt 值，条带上下各取一半
	padB := Pt(pad.Bottom) / 2
	st := rc.styleMeta()
	st.Color = colorBody

	innerX := x + padX
	innerW := width - 2*padX
	if innerW <= 0 {
		innerW = width
		innerX = x
	}

	rowH := st.LineHeight
	cursorX := innerX
	cursorY := y + padT

	var texts []TextBox
	var icons []ImageBox
	for _, item := range items {
		iconPath := ""
		if item.icon != "" {
			iconPath = rc.Icon(item.icon)
		}
		itemW, err := textWidth(ts, item.text, st)
		if err != nil {
			return 0, err
		}
		iconW := 0.0
		if iconPath != "" {
			iconW = st.LineHeight + iconTextGap
		}
		if cursorX > innerX && cursorX+iconW+itemW > innerX+innerW {
			cursorX = innerX
			cursorY += rowH + Pt(rc.Config.Header.RowGaps.MetaRows)
		}
		if iconPath != "" {
			icons = append(icons, ImageBox{Path: iconPath, X: cursorX, Y: cursorY, Width: st.LineHeight, Height: st.LineHeight, Opacity: 1})
			cursorX += iconW
		}
		tb, _, err := layoutText(ts, item.text, cursorX, cursorY, itemW+1, st, "", "nowrap")
		if err != nil {
			return 0, fmt.Errorf("排版统计条目失败: %w", err)
		}
		texts = append(texts, tb)
		cursorX += itemW + statsItemGap
	}

	stripH := (cursorY + rowH + padB) - y
	fill := colorStrip
	sec.Rects = append(sec.Rects, Rect{
		X: x, Y: y, Width: width, Height: stripH,
		Radius:    1.5,
		FillColor: &fill,
	})
	sec.Images = append(sec.Images, icons...)
	sec.Texts = append(sec.Texts, texts...)
	return stripH, nil
}

// tuckNotes 在页眉剩余空间内放置紧凑备注（标题 + 正文，必要时整体缩小）。
func tuckNotes(ts Typesetter, rc *Context, sec *section, notes string, x, y, width, avail float64) error {
	heading := rc.styleHeading()
	heading.Size = Pt(headingSizePt * 0.85)
	heading.LineHeight = heading.Size * 1.3
	body := rc.styleBody()

	measure := func(scale float64) (float64, error) {
		hh, err := measureHeight(ts, "Notes", width, heading.Scaled(scale))
		if err != nil {
			return 0, err
		}
		bh, err := measureHeight(ts, notes, width, body.Scaled(scale))
		if err != nil {
			return 0, err
		}
		return hh + notesTuckGap/2 + bh, nil
	}
	scale, err := ShrinkToFit(avail, minShrinkScale, measure)
	if err != nil {
		return fmt.Errorf("缩放页眉备注失败: %w", err)
	}

	hTB, hh, err := layoutText(ts, "Notes", x, y, width, heading.Scaled(scale), "", "nowrap")
	if err != nil {
		return err
	}
	sec.Texts = append(sec.Texts, hTB)
	bTB, _, err := layoutText(ts, notes, x, y+hh+notesTuckGap/2, width, body.Scaled(scale), "", "anywhere")
	if err != nil {
		return err
	}
	sec.Texts = append(sec.Texts, bTB)
	return nil
}

// textWidth 以 nowrap 排版测量单行文本宽度（mm）。
func textWidth(ts Typesetter, content string, st Style) (float64, error) {
	lines, err := ts.LayoutLines(content, 0, st.Font, st.Size, st.LineHeight, "nowrap")
	if err != nil {
		return 0, err
	}
	maxW := 0.0
	for _, ln := range lines {
		if ln.Width > maxW {
			maxW = ln.Width
		}
	}
	return maxW, nil
}
