// Package typeset provides line-breaking services for layout.Paginator.
package typeset

import (
	"fmt"
	"math"
	"unicode"
	"unicode/utf8"

	"github.com/rivo/uniseg"

	"github.com/ByLCY/folio/layout"
)

// Face 是字体后端需要提供的能力：测量宽度与行的纵向度量。
type Face interface {
	layout.Measurer
	LineMetrics(style layout.TextStyle) (ascent, descent float64, err error)
}

// Greedy 在 Face 之上实现贪心换行，满足 layout.Typesetter。
type Greedy struct {
	face Face
}

var _ layout.Typesetter = (*Greedy)(nil)

// NewGreedy returns a greedy line breaker measuring with face.
func NewGreedy(face Face) *Greedy { return &Greedy{face: face} }

// Measure delegates to the underlying face so that justification and
// line breaking share one source of widths.
func (g *Greedy) Measure(text string, style layout.TextStyle) (float64, error) {
	return g.face.Measure(text, style)
}

type glyph struct {
	start, end int
	width      float64
	space      bool
	breakAfter bool // UAX #14：其后允许换行
}

// segment 是两个换行机会之间的一段字素，尾随空白可以悬挂在行尾。
type segment struct {
	glyphs  []glyph
	content float64 // 不含尾随空白的宽度
}

type lineRun struct {
	start, end int
	width      float64
}

// BreakLines 只在 UAX #14 换行机会处断行，行尾空白悬挂在 maxWidth 之外，
// 新行不会以空白开头。单段超过行宽时按字素拆分；单个字素比行宽还宽时独占一行，
// 保证每行都消耗输入。空段落返回一个空行。
func (g *Greedy) BreakLines(paragraph string, style layout.TextStyle, maxWidth float64) ([]layout.LineSpan, error) {
	glyphs, err := g.glyphs(paragraph, style)
	if err != nil {
		return nil, err
	}
	limit := maxWidth
	if limit <= 0 {
		limit = math.MaxFloat64
	}

	var runs []lineRun
	cur := lineRun{}
	emit := func() {
		runs = append(runs, cur)
		cur = lineRun{start: cur.end, end: cur.end}
	}
	add := func(gl glyph) {
		cur.end = gl.end
		cur.width += gl.width
	}

	for _, seg := range segments(glyphs) {
		if cur.end > cur.start && cur.width+seg.content > limit {
			emit()
		}
		if seg.content <= limit {
			for _, gl := range seg.glyphs {
				add(gl)
			}
			continue
		}
		for _, gl := range seg.glyphs {
			if !gl.space && cur.end > cur.start && cur.width+gl.width > limit {
				emit()
			}
			add(gl)
		}
	}
	runs = append(runs, cur)

	ascent, descent, err := g.face.LineMetrics(style)
	if err != nil {
		return nil, fmt.Errorf("获取行高失败: %w", err)
	}
	height := ascent + descent + style.LineSpacingExtra
	spans := make([]layout.LineSpan, len(runs))
	top := 0.0
	for i, r := range runs {
		spans[i] = layout.LineSpan{
			Start:        r.start,
			End:          r.end,
			Top:          top,
			Bottom:       top + height,
			Baseline:     top + ascent,
			NaturalWidth: r.width,
		}
		top += height
	}
	return spans, nil
}

func (g *Greedy) glyphs(s string, style layout.TextStyle) ([]glyph, error) {
	out := make([]glyph, 0, len(s))
	gr := uniseg.NewGraphemes(s)
	for gr.Next() {
		from, to := gr.Positions()
		w, err := g.face.Measure(gr.Str(), style)
		if err != nil {
			return nil, fmt.Errorf("测量 %q 失败: %w", gr.Str(), err)
		}
		r, _ := utf8.DecodeRuneInString(gr.Str())
		out = append(out, glyph{
			start:      from,
			end:        to,
			width:      w,
			space:      unicode.IsSpace(r),
			breakAfter: gr.LineBreak() != uniseg.LineDontBreak,
		})
	}
	return out, nil
}

// segments cuts glyphs at line-break opportunities.
func segments(glyphs []glyph) []segment {
	var out []segment
	start := 0
	for i, gl := range glyphs {
		if !gl.breakAfter && i < len(glyphs)-1 {
			continue
		}
		seg := segment{glyphs: glyphs[start : i+1]}
		trailing := true
		for j := len(seg.glyphs) - 1; j >= 0; j-- {
			if trailing && seg.glyphs[j].space {
				continue
			}
			trailing = false
			seg.content += seg.glyphs[j].width
		}
		out = append(out, seg)
		start = i + 1
	}
	return out
}
