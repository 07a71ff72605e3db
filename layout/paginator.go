package layout

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

// Paginator 将章节文本排成固定尺寸的页面。一个 Paginator 对应一个样式与视图快照，
// 不持有可变状态，可在多个 goroutine 中并发地为不同章节分页（前提是 Typesetter 并发安全）。
type Paginator struct {
	style     StyleConfig
	viewport  Viewport
	frame     Frame
	ts        Typesetter
	justifier Justifier
	log       *zap.Logger
}

// NewPaginator 校验可见区域并创建分页器。
func NewPaginator(style StyleConfig, vp Viewport, opts Options) (*Paginator, error) {
	if opts.Typesetter == nil {
		return nil, ErrMissingTypesetter
	}
	frame, err := style.Frame(vp)
	if err != nil {
		return nil, err
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Paginator{
		style:    style,
		viewport: vp,
		frame:    frame,
		ts:       opts.Typesetter,
		justifier: Justifier{
			Measurer:     opts.Typesetter,
			VisibleWidth: frame.VisibleWidth,
			Indent:       style.Indent,
			CenterTitle:  style.TitleCenter,
		},
		log: log.Named("paginator"),
	}, nil
}

// Frame returns the visible area the paginator lays out into.
func (p *Paginator) Frame() Frame { return p.frame }

// Paginate 对一章分页。content 的第一行为标题，其余每行为一个正文段落。
func (p *Paginator) Paginate(meta ChapterMeta, content string) (*TextChapter, error) {
	pc := newPageCollector()
	y := 0.0
	awaitingTitle := true
	rest := content
	for len(rest) > 0 {
		var para string
		para, rest = nextParagraph(rest)
		var err error
		y, err = p.joinParagraph(para, awaitingTitle, y, pc)
		awaitingTitle = false
		if err != nil {
			return nil, fmt.Errorf("章节 %d 排版失败: %w", meta.Index, err)
		}
	}
	pc.finish()

	pages := pc.pages(meta)
	p.log.Debug("Chapter paginated",
		zap.Int("chapter", meta.Index),
		zap.String("title", meta.Title),
		zap.Int("pages", len(pages)))
	return &TextChapter{
		Index:       meta.Index,
		Title:       meta.Title,
		SourceID:    meta.SourceID,
		Pages:       pages,
		PageLines:   pc.pageLines,
		PageLengths: pc.pageLengths,
		ChapterSize: meta.Size,
	}, nil
}

// joinParagraph 排入一个段落（标题或正文），返回更新后的纵向游标。
func (p *Paginator) joinParagraph(text string, title bool, y float64, pc *pageCollector) (float64, error) {
	style := p.style.BodyStyle()
	if title {
		style = p.style.TitleStyle()
	}
	spans, err := p.ts.BreakLines(text, style, p.frame.VisibleWidth)
	if err != nil {
		return y, fmt.Errorf("段落换行失败: %w", err)
	}
	if len(spans) == 0 && text != "" {
		return y, ErrNoLineSpans
	}

	for i, span := range spans {
		height := span.Height()
		if y+height < p.frame.VisibleHeight || pc.curr().empty() {
			y += height
		} else {
			p.log.Debug("Page break",
				zap.Int("page", len(pc.accs)-1),
				zap.Int("lines", len(pc.curr().lines)),
				zap.Float64("overflow", y+height-p.frame.VisibleHeight))
			pc.pageBreak()
			y = height
		}

		line := TextLine{
			IsTitle: title,
			Bottom:  p.frame.PaddingTop + y - (span.Bottom - span.Baseline),
			Top:     p.frame.PaddingTop + y - height,
		}
		words := text[span.Start:span.End]
		last := i == len(spans)-1
		boxes, err := p.justifier.Place(LineInput{
			Text:         words,
			NaturalWidth: span.NaturalWidth,
			Style:        style,
			Title:        title,
			First:        i == 0,
			Last:         last,
		})
		if err != nil {
			return y, err
		}
		line.Chars = make([]TextChar, 0, len(boxes))
		for _, b := range boxes {
			line.Chars = append(line.Chars, TextChar{
				Char:       b.Char,
				LeftBottom: Point{X: p.frame.PaddingLeft + b.Left, Y: line.Bottom},
				RightTop:   Point{X: p.frame.PaddingLeft + b.Right, Y: line.Top},
			})
		}
		line.Text = words
		if last {
			line.Text += "\n"
		}
		pc.curr().appendLine(line)
	}
	return y + p.style.ParagraphSpacing, nil
}

// nextParagraph 切出到下一个行终止符（\n 或 \r\n）为止的段落，返回段落与剩余文本。
func nextParagraph(s string) (string, string) {
	end := strings.IndexByte(s, '\n')
	if end < 0 {
		return s, ""
	}
	para := s[:end]
	para = strings.TrimSuffix(para, "\r")
	return para, s[end+1:]
}

// pageAccumulator 收集一页的行与文本；封页后不再修改。
type pageAccumulator struct {
	lines []TextLine
	text  strings.Builder
}

func (a *pageAccumulator) appendLine(l TextLine) {
	a.lines = append(a.lines, l)
	a.text.WriteString(l.Text)
}

func (a *pageAccumulator) empty() bool { return len(a.lines) == 0 }

type pageCollector struct {
	accs        []*pageAccumulator
	current     int
	pageLines   []int
	pageLengths []int
}

func newPageCollector() *pageCollector {
	pc := &pageCollector{}
	pc.newPage()
	return pc
}

func (pc *pageCollector) newPage() *pageAccumulator {
	acc := &pageAccumulator{}
	pc.accs = append(pc.accs, acc)
	pc.current = len(pc.accs) - 1
	return acc
}

func (pc *pageCollector) curr() *pageAccumulator {
	if len(pc.accs) == 0 {
		return pc.newPage()
	}
	return pc.accs[pc.current]
}

// seal 记录当前页的行数与文本长度。
func (pc *pageCollector) seal() {
	acc := pc.curr()
	pc.pageLines = append(pc.pageLines, len(acc.lines))
	pc.pageLengths = append(pc.pageLengths, utf8.RuneCountInString(acc.text.String()))
}

func (pc *pageCollector) pageBreak() {
	pc.seal()
	pc.newPage()
}

func (pc *pageCollector) finish() {
	if len(pc.pageLines) < len(pc.accs) {
		pc.seal()
	}
}

func (pc *pageCollector) pages(meta ChapterMeta) []TextPage {
	out := make([]TextPage, len(pc.accs))
	for i, acc := range pc.accs {
		out[i] = TextPage{
			Index:        i,
			Text:         acc.text.String(),
			Lines:        acc.lines,
			PageSize:     len(pc.accs),
			ChapterIndex: meta.Index,
			ChapterSize:  meta.Size,
			Title:        meta.Title,
		}
	}
	return out
}
