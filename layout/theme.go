package layout

// 模板配色与字号。数值来自卡片模板；字号为 pt，使用处转换为 mm。
var (
	colorInk    = Color{R: 33, G: 30, B: 27}    // 标题
	colorBody   = Color{R: 68, G: 64, B: 60}    // 正文
	colorMeta   = Color{R: 128, G: 122, B: 116} // 辅助信息
	colorAccent = Color{R: 196, G: 98, B: 67}   // 徽章与强调
	colorCream  = Color{R: 247, G: 241, B: 233} // 装饰带背景
	colorCard   = Color{R: 255, G: 255, B: 255} // 卡片背景
	colorStrip  = Color{R: 245, G: 242, B: 238} // 统计条背景
	colorWhite  = Color{R: 255, G: 255, B: 255}
)

const (
	titleSizePt   = 22
	headingSizePt = 13
	bodySizePt    = 10
	metaSizePt    = 8.5

	// 长列表先降级到更紧凑的排版，shrink-to-fit 仅作兜底。
	tightBodySizePt    = 8.5
	ingredientLimit    = 15
	instructionLimit   = 8
	badgeRadiusMm      = 3.2
	badgeRadiusTightMm = 2.6

	// shrink-to-fit 的比例下限，低于它宁可截断也不再缩小。
	minShrinkScale = 0.6
)

func (c *Context) styleTitle() Style {
	return Style{Font: c.Font(RoleTitle), Size: Pt(titleSizePt), LineHeight: Pt(titleSizePt) * 1.15, Color: colorInk}
}

func (c *Context) styleHeading() Style {
	return Style{Font: c.Font(RoleHeading), Size: Pt(headingSizePt), LineHeight: Pt(headingSizePt) * 1.3, Color: colorInk}
}

func (c *Context) styleBody() Style {
	return Style{Font: c.Font(RoleBody), Size: Pt(bodySizePt), LineHeight: Pt(bodySizePt) * 1.4, Color: colorBody}
}

func (c *Context) styleMeta() Style {
	return Style{Font: c.Font(RoleMeta), Size: Pt(metaSizePt), LineHeight: Pt(metaSizePt) * 1.35, Color: colorMeta}
}

// styleBodyTight 在条目数超限时替代 styleBody，先收紧再考虑整体缩放。
func (c *Context) styleBodyTight() Style {
	return Style{Font: c.Font(RoleBody), Size: Pt(tightBodySizePt), LineHeight: Pt(tightBodySizePt) * 1.25, Color: colorBody}
}
