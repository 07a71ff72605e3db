package layout

import (
	"errors"
	"testing"

	"go.uber.org/multierr"
)

func TestResolveScalesByDensity(t *testing.T) {
	u := DefaultUserStyle()
	u.Padding = Padding{Left: 10.7, Top: 5.5, Right: 3, Bottom: 0}
	u.ParagraphSpacing = 4.9
	cfg, err := u.Resolve(1.5)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if cfg.BodySize != 30 || cfg.TitleSize != 33 {
		t.Fatalf("sizes = %g/%g, want 30/33", cfg.BodySize, cfg.TitleSize)
	}
	if cfg.LineSpacingExtra != 12 {
		t.Fatalf("line spacing extra = %g, want 12", cfg.LineSpacingExtra)
	}
	// 内边距与段间距截断为整数像素
	want := Padding{Left: 16, Top: 8, Right: 4, Bottom: 0}
	if cfg.Padding != want {
		t.Fatalf("padding = %+v, want %+v", cfg.Padding, want)
	}
	if cfg.ParagraphSpacing != 7 {
		t.Fatalf("paragraph spacing = %g, want 7", cfg.ParagraphSpacing)
	}
	if !cfg.TitleBold || cfg.BodyBold || !cfg.TitleCenter || cfg.Indent != DefaultIndent {
		t.Fatalf("flags not carried: %+v", cfg)
	}
}

func TestResolveRejectsInvalidInput(t *testing.T) {
	if _, err := DefaultUserStyle().Resolve(0); !errors.Is(err, ErrInvalidStyle) {
		t.Fatalf("zero density: %v", err)
	}
	u := DefaultUserStyle()
	u.TextSize = 0
	if _, err := u.Resolve(1); !errors.Is(err, ErrInvalidStyle) {
		t.Fatalf("zero text size: %v", err)
	}
}

func TestFrame(t *testing.T) {
	s := StyleConfig{Padding: Padding{Left: 10, Top: 20, Right: 30, Bottom: 40}}
	f, err := s.Frame(Viewport{Width: 400, Height: 600})
	if err != nil {
		t.Fatalf("Frame: %v", err)
	}
	if f != (Frame{VisibleWidth: 360, VisibleHeight: 540, PaddingLeft: 10, PaddingTop: 20}) {
		t.Fatalf("unexpected frame %+v", f)
	}

	_, err = s.Frame(Viewport{Width: 40, Height: 600})
	if !errors.Is(err, ErrInvalidViewport) || len(multierr.Errors(err)) != 1 {
		t.Fatalf("expected single width error, got %v", err)
	}
}

func TestTextStyles(t *testing.T) {
	s := StyleConfig{TitleSize: 24, BodySize: 20, TitleBold: true, LetterSpacing: 0.1, LineSpacingExtra: 3}
	if got := s.TitleStyle(); got != (TextStyle{Size: 24, Bold: true, LetterSpacing: 0.1, LineSpacingExtra: 3}) {
		t.Fatalf("title style %+v", got)
	}
	if got := s.BodyStyle(); got != (TextStyle{Size: 20, LetterSpacing: 0.1, LineSpacingExtra: 3}) {
		t.Fatalf("body style %+v", got)
	}
}
