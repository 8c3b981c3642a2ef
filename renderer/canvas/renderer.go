package canvasrenderer

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"unicode"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
	xdraw "golang.org/x/image/draw"

	"github.com/fetchbites/recipecard/layout"
	"github.com/fetchbites/recipecard/renderer"
)

const defaultStrokeWidth = 0.2

// Renderer 基于 github.com/tdewolff/canvas 绘制布局结果，同时实现
// layout.Typesetter，保证排版测量与最终绘制使用同一套字体度量。
type Renderer struct {
	baseDir string
	logger  *slog.Logger

	// 注入的图片资源，通过 built-in:<name> 引用（如二维码字节）
	imageBlobs map[string][]byte

	fontMu         sync.Mutex
	fontFamilies   map[string]*fontFamilyEntry
	fallbackFamily *canvas.FontFamily
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ layout.Typesetter = (*Renderer)(nil)
)

type fontFamilyEntry struct {
	family *canvas.FontFamily
	style  canvas.FontStyle
}

// Options configures the canvas renderer.
type Options struct {
	BaseDir string
	Images  map[string]Resource // built-in images accessible via built-in:<name>
	Logger  *slog.Logger
}

// Resource can be provided either by Bytes or by Path.
type Resource struct {
	Bytes []byte
	Path  string
}

// NewRenderer creates a canvas-based renderer rooted at baseDir for resolving assets.
func NewRenderer(baseDir string) *Renderer { return NewRendererWithOptions(Options{BaseDir: baseDir}) }

// NewRendererWithOptions creates a renderer with injected resources and optional baseDir.
func NewRendererWithOptions(opts Options) *Renderer {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	r := &Renderer{
		baseDir:      opts.BaseDir,
		logger:       logger.With("component", "renderer"),
		imageBlobs:   map[string][]byte{},
		fontFamilies: map[string]*fontFamilyEntry{},
	}
	for name, res := range opts.Images {
		if name == "" {
			continue
		}
		if len(res.Bytes) > 0 {
			r.imageBlobs[name] = res.Bytes
			continue
		}
		if res.Path != "" {
			data, _ := os.ReadFile(res.Path) // ignore error here; will be caught when actually used
			if len(data) > 0 {
				r.imageBlobs[name] = data
			}
		}
	}
	return r
}

// RegisterImage 追加一个内置图片资源；同名覆盖。用于按次注入二维码等
// 渲染期才生成的图片。
func (r *Renderer) RegisterImage(name string, data []byte) {
	if name == "" || len(data) == 0 {
		return
	}
	r.imageBlobs[name] = data
}

// Render renders the document into a PDF byte slice.
func (r *Renderer) Render(doc *layout.Document) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	if len(doc.Pages) == 0 {
		return nil, fmt.Errorf("缺少可渲染的页面")
	}

	var buf bytes.Buffer
	writer := pdf.New(&buf, doc.Pages[0].Width, doc.Pages[0].Height, nil)
	r.applyMeta(writer, doc.Meta)
	for i, page := range doc.Pages {
		if i > 0 {
			writer.NewPage(page.Width, page.Height)
		}
		c := canvas.New(page.Width, page.Height)
		ctx := canvas.NewContext(c)
		ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与布局保持左上角为原点

		if err := r.drawPage(ctx, page); err != nil {
			return nil, err
		}
		c.RenderTo(writer)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) applyMeta(writer *pdf.PDF, meta layout.DocumentMeta) {
	if writer == nil {
		return
	}
	keywords := strings.Join(meta.Keywords, ", ")
	writer.SetInfo(meta.Title, meta.Subject, keywords, meta.Author, meta.Creator)
}

// LayoutLines 实现 layout.Typesetter 接口，使用贪心换行算法。
// 约定：fontSize/lineHeight 入参均为毫米（mm）。渲染器内部与字体系统交互使用 pt，并在边界做 mm↔pt 换算。
func (r *Renderer) LayoutLines(content string, width float64, font layout.FontResource, fontSize, lineHeight float64, wrap string) ([]layout.TextLine, error) {
	// 将字号从 mm 转为 pt 以创建字体面
	sizePt := toPt(fontSize)
	face, err := r.fontFace(font, sizePt, layout.Color{R: 30, G: 30, B: 30})
	if err != nil {
		return nil, err
	}

	// 在贪心换行中，所有宽度比较与累计均使用 mm
	if wrap == "" {
		wrap = "anywhere"
	}
	lines := greedyWrapTokens(content, width, face, wrap)
	textMetrics := face.Metrics()
	textHeight := textMetrics.LineHeight
	if textHeight <= 0 {
		textHeight = lineHeight
	}
	leading := math.Max(lineHeight-textHeight, 0)
	if len(lines) == 0 {
		lines = []layout.TextLine{{
			Content: "",
			Width:   0,
			Height:  textHeight,
		}}
	}
	for i := range lines {
		if lines[i].Height <= 0 {
			lines[i].Height = textHeight
		}
		if i == 0 {
			lines[i].GapBefore = 0
		} else {
			lines[i].GapBefore = leading
		}
	}
	return lines, nil
}

// drawPage 按“背景形状 → 文本/图片”的顺序绘制主体，随后把页脚装饰带
// 整体平移到页底再绘制（带内坐标以带顶为原点）。
func (r *Renderer) drawPage(ctx *canvas.Context, page layout.Page) error {
	if err := r.drawLines(ctx, page.Lines, 0); err != nil {
		return err
	}
	if err := r.drawRects(ctx, page.Rects, 0); err != nil {
		return err
	}
	if err := r.drawImages(ctx, page.Images, 0); err != nil {
		return err
	}
	if err := r.drawCircles(ctx, page.Circles, 0); err != nil {
		return err
	}
	for _, tb := range page.Texts {
		if err := r.drawTextBox(ctx, tb, 0); err != nil {
			return err
		}
	}

	bandTop := page.Height - page.Footer.Height
	if err := r.drawRects(ctx, page.Footer.Rects, bandTop); err != nil {
		return err
	}
	if err := r.drawLines(ctx, page.Footer.Lines, bandTop); err != nil {
		return err
	}
	if err := r.drawImages(ctx, page.Footer.Images, bandTop); err != nil {
		return err
	}
	for _, tb := range page.Footer.Texts {
		if err := r.drawTextBox(ctx, tb, bandTop); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) drawTextBox(ctx *canvas.Context, tb layout.TextBox, offsetY float64) error {
	// TextBox 的坐标/字号/行高均为 mm；创建字体面需要 pt，这里做一次 mm→pt。
	face, err := r.fontFace(tb.Font, toPt(tb.FontSize), tb.Color)
	if err != nil {
		return err
	}

	lines := tb.Lines
	if len(lines) == 0 {
		lines = []layout.TextLine{
			{
				Content: tb.Content,
				Width:   tb.Width,
				Height:  tb.LineHeight,
			},
		}
	}

	// 处理水平对齐：left（默认）/center/right。
	align := strings.ToLower(tb.Align)
	var textAlign canvas.TextAlign
	var anchorX float64
	switch align {
	case "center":
		textAlign = canvas.Center
		anchorX = tb.X + tb.Width/2
	case "right", "end":
		textAlign = canvas.Right
		anchorX = tb.X + tb.Width
	default:
		textAlign = canvas.Left
		anchorX = tb.X
	}

	cursorY := tb.Y + offsetY
	for _, line := range lines {
		cursorY += line.GapBefore
		textLine := canvas.NewTextLine(face, line.Content, textAlign)

		lineHeight := line.Height
		if lineHeight <= 0 {
			if tb.FontSize > 0 {
				lineHeight = tb.FontSize
			} else {
				lineHeight = tb.LineHeight
			}
		}

		// 基线位置：以行顶部（cursorY，mm）加上字体上升部（Ascent，pt→mm）
		metrics := face.Metrics()
		baseline := cursorY + metrics.Ascent

		// 根据对齐方式在 anchorX 位置绘制文本
		ctx.DrawText(anchorX, baseline, textLine)
		cursorY += lineHeight
	}
	return nil
}

// drawImages 绘制图片列表。图片属装饰元素：单张缺失或无法解码只记日志并
// 跳过这一张，绝不让整页渲染失败（无图的卡片优于没有卡片）。
func (r *Renderer) drawImages(ctx *canvas.Context, images []layout.ImageBox, offsetY float64) error {
	for _, img := range images {
		if img.Path == "" {
			continue
		}
		imgData, err := r.loadImage(img.Path)
		if err != nil {
			r.logger.Warn("跳过无法加载的图片", "path", img.Path, "error", err)
			continue
		}

		if img.Fit == "cover-square-top" {
			imgData = cropSquareTop(imgData)
		}

		width := img.Width
		if width <= 0 {
			if imgData.Bounds().Dx() > 0 {
				width = float64(imgData.Bounds().Dx()) / 4.0
			} else {
				width = 40.0
			}
		}
		height := img.Height
		if height > 0 && width > 0 {
			imgData = scaleToBox(imgData, width, height)
		}
		dpmm := float64(imgData.Bounds().Dx()) / width
		if dpmm <= 0 {
			dpmm = 1
		}
		ctx.DrawImage(img.X, img.Y+offsetY, imgData, canvas.DPMM(dpmm))
	}
	return nil
}

func (r *Renderer) loadImage(orig string) (image.Image, error) {
	// built-in resources take precedence
	if strings.HasPrefix(orig, "built-in:") || strings.HasPrefix(orig, "builtin:") {
		name := strings.TrimPrefix(strings.TrimPrefix(orig, "built-in:"), "builtin:")
		blob, ok := r.imageBlobs[name]
		if !ok {
			return nil, fmt.Errorf("找不到内置图片资源 built-in:%s", name)
		}
		img, _, err := image.Decode(bytes.NewReader(blob))
		if err != nil {
			return nil, fmt.Errorf("解码内置图片 built-in:%s 失败: %w", name, err)
		}
		return img, nil
	}
	path := orig
	if !filepath.IsAbs(path) && r.baseDir != "" {
		path = filepath.Join(r.baseDir, path)
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("读取图片 %s 失败: %w", orig, err)
	}
	defer file.Close()
	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("解码图片 %s 失败: %w", orig, err)
	}
	return img, nil
}

// cropSquareTop 把原图裁成正方形：横向居中、纵向顶部对齐，保住菜品照片
// 最常见的主体位置。
func cropSquareTop(img image.Image) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == h || w == 0 || h == 0 {
		return img
	}
	side := w
	if h < side {
		side = h
	}
	x0 := b.Min.X + (w-side)/2
	y0 := b.Min.Y // 顶部对齐
	dst := image.NewRGBA(image.Rect(0, 0, side, side))
	xdraw.Copy(dst, image.Point{}, img, image.Rect(x0, y0, x0+side, y0+side), xdraw.Src, nil)
	return dst
}

// scaleToBox 将图片重采样到目标盒子的像素密度（以 8px/mm 为基准），
// 避免 PDF 嵌入超大原图。
func scaleToBox(img image.Image, wMm, hMm float64) image.Image {
	const dpmm = 8.0
	tw := int(wMm * dpmm)
	th := int(hMm * dpmm)
	if tw <= 0 || th <= 0 {
		return img
	}
	b := img.Bounds()
	if b.Dx() <= tw && b.Dy() <= th {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, tw, th))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}

// drawLines 绘制直线列表（毫米单位）
func (r *Renderer) drawLines(ctx *canvas.Context, lines []layout.Line, offsetY float64) error {
	for _, ln := range lines {
		w := ln.Width
		if w <= 0 {
			w = defaultStrokeWidth
		}
		ctx.SetStrokeColor(colorFromLayout(ln.Color))
		ctx.SetStrokeWidth(w)
		p := &canvas.Path{}
		p.MoveTo(0, 0)
		p.LineTo(ln.X2-ln.X1, ln.Y2-ln.Y1)
		ctx.DrawPath(ln.X1, ln.Y1+offsetY, p)
	}
	return nil
}

// drawRects 绘制矩形（Radius > 0 时为圆角矩形）
func (r *Renderer) drawRects(ctx *canvas.Context, rects []layout.Rect, offsetY float64) error {
	for _, rc := range rects {
		w := rc.StrokeWidth
		if w <= 0 {
			w = defaultStrokeWidth
		}
		if rc.FillColor != nil {
			ctx.SetFillColor(colorFromLayout(*rc.FillColor))
		} else {
			ctx.SetFillColor(color.RGBA{0, 0, 0, 0})
		}
		ctx.SetStrokeColor(colorFromLayout(rc.StrokeColor))
		ctx.SetStrokeWidth(w)
		var p *canvas.Path
		if rc.Radius > 0 {
			p = canvas.RoundedRectangle(rc.Width, rc.Height, rc.Radius)
		} else {
			p = canvas.Rectangle(rc.Width, rc.Height)
		}
		ctx.DrawPath(rc.X, rc.Y+offsetY, p)
	}
	return nil
}

// drawCircles 绘制圆形
func (r *Renderer) drawCircles(ctx *canvas.Context, circles []layout.Circle, offsetY float64) error {
	for _, c := range circles {
		w := c.StrokeWidth
		if w <= 0 {
			w = defaultStrokeWidth
		}
		if c.FillColor != nil {
			ctx.SetFillColor(colorFromLayout(*c.FillColor))
		} else {
			ctx.SetFillColor(color.RGBA{0, 0, 0, 0})
		}
		ctx.SetStrokeColor(colorFromLayout(c.StrokeColor))
		ctx.SetStrokeWidth(w)
		ctx.DrawPath(c.CX-c.R, c.CY-c.R+offsetY, canvas.Circle(c.R))
	}
	return nil
}

func (r *Renderer) fontFace(font layout.FontResource, size float64, col layout.Color) (*canvas.FontFace, error) {
	family, style, err := r.ensureFontFamily(font)
	if err != nil {
		return nil, err
	}
	return family.Face(size, colorFromLayout(col), style, canvas.FontNormal), nil
}

// ensureFontFamily 按 FontResource 加载并缓存字体族：先尝试文件，再尝试
// 系统字体，最后落到通用 sans-serif 兜底，保证任何环境都能出字。
func (r *Renderer) ensureFontFamily(font layout.FontResource) (*canvas.FontFamily, canvas.FontStyle, error) {
	key := fontCacheKey(font)
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if entry, ok := r.fontFamilies[key]; ok {
		return entry.family, entry.style, nil
	}

	style := parseFontStyle(font.Style)
	familyName := font.Family
	if familyName == "" {
		familyName = "Body"
	}
	family := canvas.NewFontFamily(familyName)

	if err := r.loadFontIntoFamily(family, font, style); err != nil {
		fallback, fbStyle, fbErr := r.fallback()
		if fbErr != nil {
			return nil, canvas.FontRegular, err
		}
		r.fontFamilies[key] = &fontFamilyEntry{family: fallback, style: fbStyle}
		return fallback, fbStyle, nil
	}

	entry := &fontFamilyEntry{family: family, style: style}
	r.fontFamilies[key] = entry
	return family, style, nil
}

func (r *Renderer) loadFontIntoFamily(family *canvas.FontFamily, font layout.FontResource, style canvas.FontStyle) error {
	if font.Src != "" {
		path := font.Src
		if !filepath.IsAbs(path) && r.baseDir != "" {
			path = filepath.Join(r.baseDir, path)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return family.LoadFont(data, 0, style)
	}
	if font.System != "" {
		return family.LoadSystemFont(font.System, style)
	}
	return fmt.Errorf("字体 %s 缺少来源", font.Family)
}

func (r *Renderer) fallback() (*canvas.FontFamily, canvas.FontStyle, error) {
	if r.fallbackFamily != nil {
		return r.fallbackFamily, canvas.FontRegular, nil
	}
	family := canvas.NewFontFamily("recipecard-fallback")
	if err := family.LoadSystemFont("sans-serif", canvas.FontRegular); err != nil {
		return nil, canvas.FontRegular, fmt.Errorf("加载兜底字体失败: %w", err)
	}
	r.fallbackFamily = family
	return family, canvas.FontRegular, nil
}

func parseFontStyle(style string) canvas.FontStyle {
	if style == "" {
		return canvas.FontRegular
	}
	s := strings.ToLower(style)
	result := canvas.FontRegular
	switch {
	case strings.Contains(s, "black"):
		result = canvas.FontBlack
	case strings.Contains(s, "extrabold"):
		result = canvas.FontExtraBold
	case strings.Contains(s, "bold"):
		result = canvas.FontBold
	case strings.Contains(s, "semibold"), strings.Contains(s, "demibold"):
		result = canvas.FontSemiBold
	case strings.Contains(s, "medium"):
		result = canvas.FontMedium
	case strings.Contains(s, "light"):
		result = canvas.FontLight
	default:
		result = canvas.FontRegular
	}
	if strings.Contains(s, "italic") || strings.Contains(s, "oblique") {
		result |= canvas.FontItalic
	}
	return result
}

func fontCacheKey(font layout.FontResource) string {
	return fmt.Sprintf("%s|%s|%s|%s", font.Family, font.Src, font.System, font.Style)
}

func colorFromLayout(c layout.Color) color.Color {
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, 1.0)
}

// toPt 将毫米(mm)转换为点(pt)。
func toPt(mm float64) float64 { return mm * layout.MmToPt }

func greedyWrapTokens(content string, width float64, face *canvas.FontFace, wrap string) []layout.TextLine {
	limit := width
	if limit <= 0 {
		limit = math.MaxFloat64
	}

	// nowrap：仅按显式换行划分，不基于宽度折行
	if wrap == "nowrap" {
		parts := strings.Split(content, "\n")
		lines := make([]layout.TextLine, 0, len(parts))
		for _, p := range parts {
			w := face.TextWidth(p)
			lines = append(lines, layout.TextLine{Content: p, Width: w})
		}
		return lines
	}

	// break-word：忽略空白机会，纯按宽度切分（但仍然尊重显式换行）
	if wrap == "break-word" {
		var lines []layout.TextLine
		var builder strings.Builder
		current := 0.0
		emit := func(force bool) {
			if builder.Len() == 0 {
				if force {
					lines = append(lines, layout.TextLine{Content: "", Width: 0})
				}
				return
			}
			str := builder.String()
			lines = append(lines, layout.TextLine{Content: str, Width: current})
			builder.Reset()
			current = 0
		}
		for _, r := range content {
			if r == '\r' {
				continue
			}
			if r == '\n' {
				emit(true)
				continue
			}
			s := string(r)
			cw := face.TextWidth(s)
			if current > 0 && current+cw > limit {
				emit(false)
			}
			builder.WriteString(s)
			current += cw
			if current > limit {
				emit(false)
			}
		}
		emit(true)
		return lines
	}

	// 默认（anywhere）：优先在空白处分割，超过限制时在词内拆分
	tokens := tokenizeContent(content)
	var lines []layout.TextLine
	var builder strings.Builder
	currentWidth := 0.0

	emit := func(force bool) {
		if builder.Len() == 0 {
			if force {
				lines = append(lines, layout.TextLine{Content: "", Width: 0})
			}
			return
		}
		lineStr := builder.String()
		lines = append(lines, layout.TextLine{
			Content: lineStr,
			Width:   currentWidth,
		})
		builder.Reset()
		currentWidth = 0
	}

	appendToken := func(token string) {
		builder.WriteString(token)
		currentWidth += face.TextWidth(token)
	}

	for _, token := range tokens {
		if token == "\n" {
			emit(true)
			continue
		}

		tokenWidth := face.TextWidth(token)
		if currentWidth > 0 && currentWidth+tokenWidth > limit {
			emit(false)
		}
		if tokenWidth <= limit {
			appendToken(token)
			if currentWidth > limit {
				emit(false)
			}
			continue
		}

		for _, chunk := range splitTokenByWidth(token, limit, face) {
			chunkWidth := face.TextWidth(chunk)
			if currentWidth > 0 && currentWidth+chunkWidth > limit {
				emit(false)
			}
			appendToken(chunk)
			if currentWidth > limit {
				emit(false)
			}
		}
	}

	emit(true)
	return lines
}

func tokenizeContent(s string) []string {
	var tokens []string
	var builder strings.Builder
	lastWasSpace := false
	flush := func() {
		if builder.Len() == 0 {
			return
		}
		tokens = append(tokens, builder.String())
		builder.Reset()
	}

	for _, r := range s {
		if r == '\r' {
			continue
		}
		if r == '\n' {
			flush()
			tokens = append(tokens, "\n")
			lastWasSpace = false
			continue
		}
		isSpace := unicode.IsSpace(r)
		if builder.Len() == 0 {
			lastWasSpace = isSpace
		} else if lastWasSpace != isSpace {
			flush()
			lastWasSpace = isSpace
		}
		builder.WriteRune(r)
	}
	flush()
	return tokens
}

func splitTokenByWidth(token string, limit float64, face *canvas.FontFace) []string {
	if limit <= 0 || limit == math.MaxFloat64 {
		return []string{token}
	}
	var parts []string
	var builder strings.Builder
	for _, r := range token {
		builder.WriteRune(r)
		if face.TextWidth(builder.String()) > limit && builder.Len() > 1 {
			runes := []rune(builder.String())
			parts = append(parts, string(runes[:len(runes)-1]))
			builder.Reset()
			builder.WriteRune(r)
		}
	}
	if builder.Len() > 0 {
		parts = append(parts, builder.String())
	}
	return parts
}
