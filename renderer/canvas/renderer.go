package canvasrenderer

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/patrickmn/go-cache"
	"github.com/rivo/uniseg"
	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
	"go.uber.org/zap"

	"github.com/ByLCY/folio/binding"
	"github.com/ByLCY/folio/fonts"
	"github.com/ByLCY/folio/layout"
	"github.com/ByLCY/folio/renderer"
	"github.com/ByLCY/folio/typeset"
)

// DefaultDPI 为未指定时像素与物理尺寸的换算基准。
const DefaultDPI = 160.0

// 页脚字号相对正文字号的比例。
const footerScale = 0.6

var errEmptyResult = errors.New("缺少可渲染的页面")

// Renderer measures text with a tdewolff/canvas font family and draws
// paginated chapters into a PDF. Measure and LineMetrics are safe for
// concurrent use, so one Renderer can back several paginators.
type Renderer struct {
	baseDir   string
	dpi       float64
	color     layout.Color
	footer    *binding.Template
	fontBlobs map[string][]byte
	log       *zap.Logger

	family *canvas.FontFamily

	faceMu sync.Mutex
	faces  map[faceKey]*canvas.FontFace

	// 字素宽度缓存，键为 size|bold|grapheme，值为 px
	advances *cache.Cache
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ typeset.Face      = (*Renderer)(nil)
)

type faceKey struct {
	sizePt float64
	bold   bool
}

// Options configures the canvas renderer.
type Options struct {
	Font    layout.FontSetting
	DPI     float64
	Footer  string
	BaseDir string
	Fonts   map[string]Resource // built-in fonts accessible via builtin:<name>
	Logger  *zap.Logger
}

// Resource can be provided either by Bytes or by Path.
type Resource struct {
	Bytes []byte
	Path  string
}

// NewRenderer 加载字体并创建渲染器。Font.Src 加载失败时使用 Font.Fallback 并记录警告；
// 两者都失败才返回错误。
func NewRenderer(opts Options) (*Renderer, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	dpi := opts.DPI
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	r := &Renderer{
		baseDir:   opts.BaseDir,
		dpi:       dpi,
		color:     opts.Font.Color,
		fontBlobs: map[string][]byte{},
		log:       log.Named("canvas"),
		faces:     map[faceKey]*canvas.FontFace{},
		advances:  cache.New(cache.NoExpiration, 0),
	}
	if opts.Footer != "" {
		r.footer = binding.Compile(opts.Footer)
	}
	for name, res := range opts.Fonts {
		if name == "" {
			continue
		}
		if len(res.Bytes) > 0 {
			r.fontBlobs[name] = res.Bytes
			continue
		}
		if res.Path != "" {
			data, err := os.ReadFile(res.Path)
			if err != nil {
				r.log.Warn("Skipping built-in font", zap.String("name", name), zap.Error(err))
				continue
			}
			r.fontBlobs[name] = data
		}
	}

	family, err := r.loadFamily(opts.Font.Src)
	if err != nil {
		if opts.Font.Fallback == "" || opts.Font.Fallback == opts.Font.Src {
			return nil, err
		}
		r.log.Warn("Font unavailable, using fallback",
			zap.String("src", opts.Font.Src),
			zap.String("fallback", opts.Font.Fallback),
			zap.Error(err))
		family, err = r.loadFamily(opts.Font.Fallback)
		if err != nil {
			return nil, fmt.Errorf("加载后备字体 %s 失败: %w", opts.Font.Fallback, err)
		}
	}
	r.family = family
	return r, nil
}

// DPI returns the pixel density used to convert between px and physical units.
func (r *Renderer) DPI() float64 { return r.dpi }

// Typesetter returns a greedy line breaker measuring with this renderer.
func (r *Renderer) Typesetter() *typeset.Greedy { return typeset.NewGreedy(r) }

// Measure 返回 text 在 style 下的宽度（px），包含每个字素的字间距。
func (r *Renderer) Measure(text string, style layout.TextStyle) (float64, error) {
	if style.Size <= 0 {
		return 0, fmt.Errorf("字号无效: %g", style.Size)
	}
	total := 0.0
	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		total += r.advance(gr.Str(), style) + style.LetterSpacing*style.Size
	}
	return total, nil
}

// LineMetrics 返回字体的上升部与下降部（px）。
func (r *Renderer) LineMetrics(style layout.TextStyle) (float64, float64, error) {
	if style.Size <= 0 {
		return 0, 0, fmt.Errorf("字号无效: %g", style.Size)
	}
	face := r.face(style)
	r.faceMu.Lock()
	m := face.Metrics()
	r.faceMu.Unlock()
	return layout.MmToPx(m.Ascent, r.dpi), layout.MmToPx(m.Descent, r.dpi), nil
}

func (r *Renderer) advance(g string, style layout.TextStyle) float64 {
	key := strconv.FormatFloat(style.Size, 'g', -1, 64) + "|" + strconv.FormatBool(style.Bold) + "|" + g
	if v, ok := r.advances.Get(key); ok {
		return v.(float64)
	}
	face := r.face(style)
	r.faceMu.Lock()
	mm := face.TextWidth(g)
	r.faceMu.Unlock()
	px := layout.MmToPx(mm, r.dpi)
	r.advances.Set(key, px, cache.NoExpiration)
	return px
}

// face 返回 style 对应的字体面；canvas 的字号单位为 pt。
func (r *Renderer) face(style layout.TextStyle) *canvas.FontFace {
	key := faceKey{sizePt: layout.PxToPt(style.Size, r.dpi), bold: style.Bold}
	r.faceMu.Lock()
	defer r.faceMu.Unlock()
	if f, ok := r.faces[key]; ok {
		return f
	}
	fs := canvas.FontRegular
	if key.bold {
		fs = canvas.FontBold
	}
	f := r.family.Face(key.sizePt, colorFromLayout(r.color), fs, canvas.FontNormal)
	r.faces[key] = f
	return f
}

// Render renders every page of every chapter into a PDF byte slice.
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	total := 0
	for _, ch := range result.Chapters {
		total += ch.PageSize()
	}
	if total == 0 {
		return nil, errEmptyResult
	}

	width := layout.PxToMm(result.Viewport.Width, r.dpi)
	height := layout.PxToMm(result.Viewport.Height, r.dpi)
	var buf bytes.Buffer
	writer := pdf.New(&buf, width, height, nil)
	writer.SetInfo(firstTitle(result), "", "", "", "folio")

	n := 0
	for _, ch := range result.Chapters {
		for _, page := range ch.Pages {
			if n > 0 {
				writer.NewPage(width, height)
			}
			c := canvas.New(width, height)
			ctx := canvas.NewContext(c)
			ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与布局保持左上角为原点
			r.drawPage(ctx, result, page)
			c.RenderTo(writer)
			n++
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	r.log.Debug("Rendered PDF", zap.Int("pages", n), zap.Int("bytes", buf.Len()))
	return buf.Bytes(), nil
}

// drawPage 逐字绘制：每个字形的左下角即基线起点。
func (r *Renderer) drawPage(ctx *canvas.Context, result *layout.Result, page layout.TextPage) {
	title := layout.TextStyle{Size: result.Style.TitleSize, Bold: result.Style.TitleBold}
	body := layout.TextStyle{Size: result.Style.BodySize, Bold: result.Style.BodyBold}
	for _, line := range page.Lines {
		style := body
		if line.IsTitle {
			style = title
		}
		face := r.face(style)
		for _, ch := range line.Chars {
			if strings.TrimSpace(ch.Char) == "" {
				continue
			}
			r.faceMu.Lock()
			tl := canvas.NewTextLine(face, ch.Char, canvas.Left)
			r.faceMu.Unlock()
			ctx.DrawText(r.mm(ch.LeftBottom.X), r.mm(ch.LeftBottom.Y), tl)
		}
	}
	r.drawFooter(ctx, result, page)
}

func (r *Renderer) drawFooter(ctx *canvas.Context, result *layout.Result, page layout.TextPage) {
	pad := result.Style.Padding
	if r.footer == nil || pad.Bottom <= 0 {
		return
	}
	text := r.footer.Execute(FooterData(page))
	if text == "" {
		return
	}
	style := layout.TextStyle{Size: result.Style.BodySize * footerScale}
	face := r.face(style)
	r.faceMu.Lock()
	tl := canvas.NewTextLine(face, text, canvas.Left)
	descent := face.Metrics().Descent
	r.faceMu.Unlock()
	// 页脚基线位于下内边距的中线附近
	y := r.mm(result.Viewport.Height-pad.Bottom/2) + descent
	ctx.DrawText(r.mm(pad.Left), y, tl)
}

// FooterData 返回页脚模板可引用的字段。
func FooterData(page layout.TextPage) map[string]any {
	progress := 0.0
	if page.PageSize > 0 {
		progress = float64(page.Index+1) / float64(page.PageSize) * 100
	}
	return map[string]any{
		"title":    page.Title,
		"page":     page.Index + 1,
		"pages":    page.PageSize,
		"chapter":  page.ChapterIndex + 1,
		"chapters": page.ChapterSize,
		"progress": fmt.Sprintf("%.1f%%", progress),
	}
}

func (r *Renderer) mm(px float64) float64 { return layout.PxToMm(px, r.dpi) }

func firstTitle(result *layout.Result) string {
	for _, ch := range result.Chapters {
		if ch.Title != "" {
			return ch.Title
		}
	}
	return ""
}

// loadFamily 将同一字体数据装入常规与粗体两个槽位；embed:go-regular 的粗体使用 go-bold。
func (r *Renderer) loadFamily(src string) (*canvas.FontFamily, error) {
	data, err := r.loadFontBytes(src)
	if err != nil {
		return nil, err
	}
	bold := data
	if strings.EqualFold(strings.TrimPrefix(src, "embed:"), "go-regular") {
		if b, err := fonts.Load("go-bold"); err == nil {
			bold = b
		}
	}
	family := canvas.NewFontFamily("folio")
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, fmt.Errorf("解析字体 %s 失败: %w", src, err)
	}
	if err := family.LoadFont(bold, 0, canvas.FontBold); err != nil {
		return nil, fmt.Errorf("解析粗体字体 %s 失败: %w", src, err)
	}
	return family, nil
}

func (r *Renderer) loadFontBytes(src string) ([]byte, error) {
	if src == "" {
		return nil, fmt.Errorf("字体缺少 src")
	}
	if strings.HasPrefix(src, "built-in:") || strings.HasPrefix(src, "builtin:") {
		name := strings.TrimPrefix(strings.TrimPrefix(src, "built-in:"), "builtin:")
		if blob, ok := r.fontBlobs[name]; ok {
			return blob, nil
		}
		return nil, fmt.Errorf("找不到内置字体资源 builtin:%s", name)
	}
	if strings.HasPrefix(src, "embed:") {
		return fonts.Load(src)
	}
	path := src
	if r.baseDir == "" && !filepath.IsAbs(path) {
		return nil, fmt.Errorf("未指定资源目录时不允许直接使用字体路径：%s（请改用 builtin: 或 embed:）", src)
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.baseDir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取字体 %s 失败: %w", src, err)
	}
	return data, nil
}

func colorFromLayout(c layout.Color) color.Color {
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, 1.0)
}
