package layout_test

import (
	"math"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/ByLCY/folio/layout"
	"github.com/ByLCY/folio/typeset"
)

func TestPaginateIndentedCJKWithCells(t *testing.T) {
	style := layout.StyleConfig{TitleSize: 20, BodySize: 20, Indent: layout.DefaultIndent}
	p, err := layout.NewPaginator(style, layout.Viewport{Width: 200, Height: 400}, layout.Options{
		Typesetter: typeset.NewCells(),
		Logger:     zaptest.NewLogger(t),
	})
	if err != nil {
		t.Fatalf("NewPaginator: %v", err)
	}
	ch, err := p.Paginate(layout.ChapterMeta{Title: "第一章"}, "第一章\n　　天地玄黄宇宙洪荒日月盈昃辰宿列张")
	if err != nil {
		t.Fatalf("Paginate: %v", err)
	}
	lines := ch.Pages[0].Lines
	if len(lines) != 3 {
		t.Fatalf("expected title + 2 body lines, got %d", len(lines))
	}
	first := lines[1]
	if first.Text != "　　天地玄黄宇宙洪荒" {
		t.Fatalf("first body line = %q", first.Text)
	}
	if len(first.Chars) != 10 || first.Chars[1].Char != "　" || first.Chars[2].Char != "天" {
		t.Fatalf("indent and body glyphs must share the first line: %+v", first.Chars)
	}
	if right := first.Chars[9].RightTop.X; math.Abs(right-200) > 1e-6 {
		t.Fatalf("first line must fill the width, right edge %g", right)
	}
	if lines[2].Text != "日月盈昃辰宿列张\n" {
		t.Fatalf("second body line = %q", lines[2].Text)
	}
}
