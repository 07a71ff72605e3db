package layout

import (
	"math"
	"unicode/utf8"
)

// stubTypesetter 是仅用于测试的最小实现，避免引入 typeset 造成循环依赖。
// ASCII 字符宽 10，其余字符宽 20；行高固定 20，基线距行顶 16；按字符贪心换行。
type stubTypesetter struct {
	err error
}

func stubWidth(r rune) float64 {
	if r < utf8.RuneSelf {
		return 10
	}
	return 20
}

func (s *stubTypesetter) Measure(text string, style TextStyle) (float64, error) {
	if s.err != nil {
		return 0, s.err
	}
	w := 0.0
	for _, r := range text {
		w += stubWidth(r)
	}
	return w, nil
}

func (s *stubTypesetter) BreakLines(paragraph string, style TextStyle, maxWidth float64) ([]LineSpan, error) {
	if s.err != nil {
		return nil, s.err
	}
	limit := maxWidth
	if limit <= 0 {
		limit = math.MaxFloat64
	}
	var spans []LineSpan
	start, width := 0, 0.0
	emit := func(end int) {
		top := float64(len(spans)) * 20
		spans = append(spans, LineSpan{Start: start, End: end, Top: top, Bottom: top + 20, Baseline: top + 16, NaturalWidth: width})
		start, width = end, 0
	}
	for i, r := range paragraph {
		w := stubWidth(r)
		if i > start && width+w > limit {
			emit(i)
		}
		width += w
	}
	emit(len(paragraph))
	return spans, nil
}
