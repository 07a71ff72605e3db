package layout

import (
	"strings"
	"testing"

	"go.uber.org/multierr"

	"github.com/ByLCY/folio/dsl"
)

func mustParse(t *testing.T, src string) *dsl.Document {
	t.Helper()
	doc, err := dsl.ParseString(src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

func TestResolveProfileOverridesDefaults(t *testing.T) {
	doc := mustParse(t, `
profile Sepia v1 {
  font {
    src: "fonts/reader.ttf"
    color: #5b4636
  }
  text {
    size: 18dp
    bold: true
    letter-spacing: 0.05
    line-spacing-extra: 6
    paragraph-spacing: 10dp
    indent: ""
  }
  title {
    size-delta: 4
    center: false
  }
  page {
    padding 12 20 8
    footer: "${title} ${page}/${pages}"
  }
}
`)
	p, err := ResolveProfile(doc)
	if err != nil {
		t.Fatalf("ResolveProfile: %v", err)
	}
	if p.Name != "Sepia" {
		t.Fatalf("name = %q", p.Name)
	}
	if p.Font.Src != "fonts/reader.ttf" || p.Font.Fallback != "embed:go-regular" {
		t.Fatalf("font = %+v", p.Font)
	}
	if p.Font.Color != (Color{R: 0x5b, G: 0x46, B: 0x36}) {
		t.Fatalf("color = %+v", p.Font.Color)
	}
	s := p.Style
	if s.TextSize != 18 || !s.TextBold || s.LetterSpacing != 0.05 || s.LineSpacingExtra != 6 || s.ParagraphSpacing != 10 {
		t.Fatalf("text style = %+v", s)
	}
	if s.Indent != "" || s.TitleSizeDelta != 4 || s.TitleCenter || !s.TitleBold {
		t.Fatalf("title/indent = %+v", s)
	}
	if s.Padding != (Padding{Top: 12, Right: 20, Bottom: 8, Left: 20}) {
		t.Fatalf("padding = %+v", s.Padding)
	}
	if p.Footer != "${title} ${page}/${pages}" {
		t.Fatalf("footer = %q", p.Footer)
	}
}

func TestResolvePadding(t *testing.T) {
	cases := []struct {
		args []string
		want Padding
	}{
		{[]string{"8"}, Padding{Top: 8, Right: 8, Bottom: 8, Left: 8}},
		{[]string{"8", "16dp"}, Padding{Top: 8, Right: 16, Bottom: 8, Left: 16}},
		{[]string{"1", "2", "3"}, Padding{Top: 1, Right: 2, Bottom: 3, Left: 2}},
		{[]string{"1", "2", "3", "4"}, Padding{Top: 1, Right: 2, Bottom: 3, Left: 4}},
		{[]string{"1", "2", "3", "4", "5"}, Padding{Top: 1, Right: 2, Bottom: 3, Left: 4}},
	}
	for _, tc := range cases {
		got, err := resolvePadding(tc.args)
		if err != nil {
			t.Fatalf("resolvePadding(%v): %v", tc.args, err)
		}
		if got != tc.want {
			t.Fatalf("resolvePadding(%v) = %+v, want %+v", tc.args, got, tc.want)
		}
	}
	if _, err := resolvePadding(nil); err == nil {
		t.Fatalf("empty padding must fail")
	}
	if _, err := resolvePadding([]string{"4px"}); err == nil {
		t.Fatalf("px padding must be rejected")
	}
}

func TestResolveProfileCollectsErrors(t *testing.T) {
	doc := mustParse(t, `
profile Broken v1 {
  text {
    size: 12px
    weight: 700
  }
  title {
    center: maybe
  }
  page {
    margin 4
  }
}
`)
	_, err := ResolveProfile(doc)
	if err == nil {
		t.Fatalf("expected errors")
	}
	if n := len(multierr.Errors(err)); n != 4 {
		t.Fatalf("expected 4 errors, got %d: %v", n, err)
	}
	for _, want := range []string{"text.size", "text.weight", "title.center", "page.margin"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("error %q does not mention %s", err, want)
		}
	}
}

func TestParseColor(t *testing.T) {
	cases := map[string]Color{
		"#fff":      {R: 255, G: 255, B: 255},
		"#102030":   {R: 16, G: 32, B: 48},
		"#10203080": {R: 16, G: 32, B: 48},
	}
	for in, want := range cases {
		got, err := parseColor(in)
		if err != nil || got != want {
			t.Fatalf("parseColor(%q) = %+v, %v", in, got, err)
		}
	}
	if _, err := parseColor("#12"); err == nil {
		t.Fatalf("short color must fail")
	}
}

func TestDefaultProfile(t *testing.T) {
	p := DefaultProfile()
	if p.Style != DefaultUserStyle() || p.Font.Src == "" || p.Footer != "" {
		t.Fatalf("unexpected default profile %+v", p)
	}
}
