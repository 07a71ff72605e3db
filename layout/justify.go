package layout

import (
	"fmt"
	"strings"

	"github.com/rivo/uniseg"
)

// CharBox 是一个字形在内容区内的水平区间，x=0 对应左内边距处。
type CharBox struct {
	Char  string
	Left  float64
	Right float64
}

// LineInput 描述待摆放的一行。First/Last 表示该行是否为段落首行/末行。
type LineInput struct {
	Text         string
	NaturalWidth float64
	Style        TextStyle
	Title        bool
	First        bool
	Last         bool
}

// Justifier 计算行内每个字形的水平位置。
type Justifier struct {
	Measurer     Measurer
	VisibleWidth float64
	Indent       string
	CenterTitle  bool
}

// Place 按行所处位置选择排布策略：
// 段落非末行两端对齐；末行按自然宽度排布（标题末行可居中）；
// 多行正文段落的首行先绘制缩进，再将剩余文本两端对齐。
// 只有一行的正文段落按末行处理，不绘制缩进。
func (j Justifier) Place(in LineInput) ([]CharBox, error) {
	switch {
	case in.Title && !in.Last:
		return j.justify(nil, in.Text, in.NaturalWidth, 0, in.Style)
	case in.Title:
		x := 0.0
		if j.CenterTitle {
			x = (j.VisibleWidth - in.NaturalWidth) / 2
		}
		return j.natural(in.Text, x, in.Style)
	case in.First && !in.Last:
		return j.indented(in)
	case in.Last:
		return j.natural(in.Text, 0, in.Style)
	default:
		return j.justify(nil, in.Text, in.NaturalWidth, 0, in.Style)
	}
}

func (j Justifier) indented(in LineInput) ([]CharBox, error) {
	if j.Indent == "" {
		return j.justify(nil, in.Text, in.NaturalWidth, 0, in.Style)
	}
	total, err := j.Measurer.Measure(j.Indent, in.Style)
	if err != nil {
		return nil, fmt.Errorf("测量缩进失败: %w", err)
	}
	indentChars := graphemes(j.Indent)
	icw := total / float64(len(indentChars))
	boxes := make([]CharBox, 0, len(indentChars)+len(in.Text))
	x := 0.0
	for _, c := range indentChars {
		boxes = append(boxes, CharBox{Char: c, Left: x, Right: x + icw})
		x += icw
	}
	words := strings.Replace(in.Text, j.Indent, "", 1)
	return j.justify(boxes, words, in.NaturalWidth, x, in.Style)
}

// justify 将 VisibleWidth 与自然宽度的差值均分到字间；最后一个字形不追加间隙。
// 只有一个字形时间隙为 0。
func (j Justifier) justify(boxes []CharBox, text string, naturalWidth, x float64, style TextStyle) ([]CharBox, error) {
	chars := graphemes(text)
	gap := 0.0
	if n := len(chars) - 1; n > 0 {
		gap = (j.VisibleWidth - naturalWidth) / float64(n)
	}
	for i, c := range chars {
		cw, err := j.Measurer.Measure(c, style)
		if err != nil {
			return nil, fmt.Errorf("测量字符 %q 失败: %w", c, err)
		}
		x1 := x + cw
		if i != len(chars)-1 {
			x1 += gap
		}
		boxes = append(boxes, CharBox{Char: c, Left: x, Right: x1})
		x = x1
	}
	return boxes, nil
}

func (j Justifier) natural(text string, x float64, style TextStyle) ([]CharBox, error) {
	chars := graphemes(text)
	boxes := make([]CharBox, 0, len(chars))
	for _, c := range chars {
		cw, err := j.Measurer.Measure(c, style)
		if err != nil {
			return nil, fmt.Errorf("测量字符 %q 失败: %w", c, err)
		}
		boxes = append(boxes, CharBox{Char: c, Left: x, Right: x + cw})
		x += cw
	}
	return boxes, nil
}

// graphemes splits s into user-perceived characters.
func graphemes(s string) []string {
	if s == "" {
		return nil
	}
	out := make([]string, 0, len(s))
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		out = append(out, g.Str())
	}
	return out
}
