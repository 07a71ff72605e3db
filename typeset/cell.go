package typeset

import (
	"github.com/rivo/uniseg"
	"golang.org/x/text/width"

	"github.com/ByLCY/folio/layout"
)

// Cells is a font-less face laying glyphs on a grid: wide and fullwidth
// characters take one em, everything else half an em. It is deterministic
// and safe for concurrent use.
type Cells struct{}

var _ Face = Cells{}

// NewCells returns a greedy typesetter over the cell grid.
func NewCells() *Greedy { return NewGreedy(Cells{}) }

// Measure sums the cell widths of text's graphemes plus letter spacing.
func (Cells) Measure(text string, style layout.TextStyle) (float64, error) {
	total := 0.0
	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		total += cellWidth(gr.Str(), style.Size) + style.LetterSpacing*style.Size
	}
	return total, nil
}

// LineMetrics splits the em box 4:1 between ascent and descent.
func (Cells) LineMetrics(style layout.TextStyle) (float64, float64, error) {
	descent := style.Size / 5
	return style.Size - descent, descent, nil
}

func cellWidth(g string, em float64) float64 {
	p, _ := width.LookupString(g)
	switch p.Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return em
	default:
		return em / 2
	}
}
