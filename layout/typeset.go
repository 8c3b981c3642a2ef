package layout

// Typesetter 负责根据字体与宽度约束将文本拆成可绘制的行。
// 约定：width/fontSize/lineHeight 均为毫米；wrap 取 anywhere（默认）/break-word/nowrap。
type Typesetter interface {
	LayoutLines(content string, width float64, font FontResource, fontSize float64, lineHeight float64, wrap string) ([]TextLine, error)
}

// Style 将字体角色与字号、行高、颜色绑定，是各构建器共用的排版参数。
// Size 与 LineHeight 为毫米。
type Style struct {
	Font       FontResource
	Size       float64
	LineHeight float64
	Color      Color
}

// Scaled 返回按比例缩放字号与行高后的样式，用于 shrink-to-fit。
func (s Style) Scaled(f float64) Style {
	out := s
	out.Size = s.Size * f
	out.LineHeight = s.LineHeight * f
	return out
}

// layoutText 用排版后端折行并组装 TextBox，返回文本块与其总高度。
func layoutText(ts Typesetter, content string, x, y, width float64, st Style, align, wrap string) (TextBox, float64, error) {
	if wrap == "" {
		wrap = "anywhere"
	}
	lines, err := ts.LayoutLines(content, width, st.Font, st.Size, st.LineHeight, wrap)
	if err != nil {
		return TextBox{}, 0, err
	}
	if len(lines) == 0 {
		lines = []TextLine{{Content: "", Width: width, Height: st.Size}}
	}
	total := 0.0
	defaultLeading := st.LineHeight - st.Size
	if defaultLeading < 0 {
		defaultLeading = 0
	}
	for i := range lines {
		if lines[i].Height <= 0 {
			lines[i].Height = st.Size
		}
		if i == 0 {
			lines[i].GapBefore = 0
		} else if lines[i].GapBefore <= 0 {
			lines[i].GapBefore = defaultLeading
		}
		total += lines[i].GapBefore + lines[i].Height
	}
	tb := TextBox{
		Content:    content,
		X:          x,
		Y:          y,
		Width:      width,
		LineHeight: st.LineHeight,
		Font:       st.Font,
		FontSize:   st.Size,
		Color:      st.Color,
		Lines:      lines,
		Height:     total,
		Align:      align,
		Wrap:       wrap,
	}
	return tb, total, nil
}

// measureHeight 仅测量折行后的总高度，不产生元素。
func measureHeight(ts Typesetter, content string, width float64, st Style) (float64, error) {
	_, h, err := layoutText(ts, content, 0, 0, width, st, "", "anywhere")
	return h, err
}
