package layout

// 该文件定义布局结果与绘制元素，供布局计算、渲染与调试 JSON 共用。
// 所有坐标与尺寸均以毫米（mm）为单位，原点在页面左上角。

// Document 保存排版后的页面与元信息，是渲染器的唯一输入。
type Document struct {
	Pages []Page       `json:"pages"`
	Meta  DocumentMeta `json:"meta"`
}

// DocumentMeta 保存 PDF 元信息。
type DocumentMeta struct {
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Subject  string   `json:"subject"`
	Creator  string   `json:"creator"`
	Keywords []string `json:"keywords"`
}

// Page 记录页面尺寸、边距与可直接渲染的元素。
// Footer 为页脚装饰带，渲染器在每一页重复绘制，坐标为页面坐标。
type Page struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Margin Margin  `json:"margin"`
	// 主体内容（页脚装饰带之上的有效区域内）
	Texts   []TextBox  `json:"texts"`
	Images  []ImageBox `json:"images"`
	Lines   []Line     `json:"lines,omitempty"`
	Rects   []Rect     `json:"rects,omitempty"`
	Circles []Circle   `json:"circles,omitempty"`
	// 页脚装饰带（固定在页面底部）
	Footer Band `json:"footer"`
}

// Band 描述钉在页面底边的装饰带：整页宽的背景条与其中的内容卡片元素。
// Height 为装饰带占用的区域高度，内容区底部以此为界。
type Band struct {
	Height float64    `json:"height"`
	Texts  []TextBox  `json:"texts,omitempty"`
	Images []ImageBox `json:"images,omitempty"`
	Rects  []Rect     `json:"rects,omitempty"`
	Lines  []Line     `json:"lines,omitempty"`
}

// Margin 以毫米为单位。
type Margin struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// Color 采用 0-255 的 RGB 数值。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// TextBox 表示一个已经排好坐标与折行的文本块。
type TextBox struct {
	Content    string       `json:"content"`
	X          float64      `json:"x"`
	Y          float64      `json:"y"`
	Width      float64      `json:"width"`
	LineHeight float64      `json:"lineHeight"`
	Font       FontResource `json:"font"`
	FontSize   float64      `json:"fontSize"`
	Color      Color        `json:"color"`
	Lines      []TextLine   `json:"lines"`
	Height     float64      `json:"height"`
	Align      string       `json:"align,omitempty"` // left（默认）/center/right
	Wrap       string       `json:"wrap,omitempty"`  // anywhere（默认）/break-word/nowrap
}

// TextLine 表示排版后的一行文本内容及其宽高。
type TextLine struct {
	Content   string  `json:"content"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	GapBefore float64 `json:"gapBefore,omitempty"`
}

// ImageBox 用于描述图片位置与尺寸。
// Fit 为 "cover-square-top" 时，渲染器先把原图按顶部对齐裁成居中正方形再缩放。
type ImageBox struct {
	Path    string  `json:"path"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Fit     string  `json:"fit,omitempty"`
	Opacity float64 `json:"opacity"`
}

// Line 表示一条线段。
type Line struct {
	X1    float64 `json:"x1"`
	Y1    float64 `json:"y1"`
	X2    float64 `json:"x2"`
	Y2    float64 `json:"y2"`
	Color Color   `json:"color"`
	Width float64 `json:"width"` // 线宽（mm），<=0 时由渲染器给默认值
}

// Rect 表示一个矩形（支持圆角）。
type Rect struct {
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	Radius      float64 `json:"radius,omitempty"` // 圆角半径（mm）
	StrokeColor Color   `json:"strokeColor"`
	StrokeWidth float64 `json:"strokeWidth"`
	FillColor   *Color  `json:"fillColor,omitempty"` // 为空表示不填充
}

// Circle 表示一个圆，步骤编号徽章由 Circle + 居中 TextBox 组成。
type Circle struct {
	CX          float64 `json:"cx"`
	CY          float64 `json:"cy"`
	R           float64 `json:"r"`
	StrokeColor Color   `json:"strokeColor"`
	StrokeWidth float64 `json:"strokeWidth"`
	FillColor   *Color  `json:"fillColor,omitempty"`
}

// FontResource 描述一个已解析的字体来源：本地文件或系统字体名。
// 二者都为空时渲染器使用内部兜底字体。
type FontResource struct {
	Role   string `json:"role"`             // title/heading/body/meta
	Family string `json:"family"`           // 渲染器使用的 Family 名称
	Src    string `json:"src,omitempty"`    // 字体文件路径
	System string `json:"system,omitempty"` // 系统字体名（Src 为空时使用）
	Style  string `json:"style,omitempty"`  // Regular/Bold/Italic 等
}
