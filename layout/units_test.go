package layout

import (
	"math"
	"testing"
)

// TestParseLength 覆盖无单位、dp、px 三种写法以及非法输入。
func TestParseLength(t *testing.T) {
	cases := []struct {
		in   string
		want Length
	}{
		{"16", Length{Value: 16, Unit: UnitNone}},
		{"16dp", Length{Value: 16, Unit: UnitDP}},
		{" 24PX ", Length{Value: 24, Unit: UnitPX}},
		{"-0.5dp", Length{Value: -0.5, Unit: UnitDP}},
	}
	for _, tc := range cases {
		got, err := ParseLength(tc.in)
		if err != nil {
			t.Fatalf("ParseLength(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseLength(%q) = %+v, want %+v", tc.in, got, tc.want)
		}
	}
	for _, bad := range []string{"", "dp", "12pt", "abc"} {
		if _, err := ParseLength(bad); err == nil {
			t.Fatalf("ParseLength(%q) 应当失败", bad)
		}
	}
}

func TestLengthToPx(t *testing.T) {
	if got := (Length{Value: 16, Unit: UnitDP}).ToPx(2.5); got != 40 {
		t.Fatalf("16dp@2.5 = %g, want 40", got)
	}
	if got := (Length{Value: 16}).ToPx(2); got != 32 {
		t.Fatalf("bare 16@2 = %g, want 32", got)
	}
	if got := (Length{Value: 24, Unit: UnitPX}).ToPx(3); got != 24 {
		t.Fatalf("24px must not scale, got %g", got)
	}
}

// TestPxMmRoundTrip 验证 px↔mm 换算的往返精度。
func TestPxMmRoundTrip(t *testing.T) {
	for _, dpi := range []float64{72, 96, 160, 300} {
		for _, px := range []float64{0, 1, 12.5, 1080, 1920} {
			mm := PxToMm(px, dpi)
			if back := MmToPx(mm, dpi); math.Abs(back-px) > 1e-9 {
				t.Fatalf("px→mm→px 往返误差过大: dpi=%g in=%g back=%g", dpi, px, back)
			}
		}
	}
	if got := PxToMm(96, 96); math.Abs(got-25.4) > 1e-9 {
		t.Fatalf("96px@96dpi 期望 25.4mm，实际 %g", got)
	}
	if got := PxToPt(96, 96); math.Abs(got-72) > 1e-9 {
		t.Fatalf("96px@96dpi 期望 72pt，实际 %g", got)
	}
}
