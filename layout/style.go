package layout

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
)

// DefaultIndent 为正文段首缩进：两个全角空格。
const DefaultIndent = "　　"

var (
	// ErrInvalidViewport 表示扣除内边距后的可见区域宽或高不为正。
	ErrInvalidViewport = errors.New("可见区域尺寸无效")
	// ErrInvalidStyle 表示样式取值无法用于排版。
	ErrInvalidStyle = errors.New("样式参数无效")
)

// UserStyle 保存面向用户的样式取值，长度单位为 dp，字间距单位为 em。
type UserStyle struct {
	TextSize         float64 `json:"textSize" yaml:"textSize"`
	TitleSizeDelta   float64 `json:"titleSizeDelta" yaml:"titleSizeDelta"`
	TitleBold        bool    `json:"titleBold" yaml:"titleBold"`
	TextBold         bool    `json:"textBold" yaml:"textBold"`
	LetterSpacing    float64 `json:"letterSpacing" yaml:"letterSpacing"`
	LineSpacingExtra float64 `json:"lineSpacingExtra" yaml:"lineSpacingExtra"`
	ParagraphSpacing float64 `json:"paragraphSpacing" yaml:"paragraphSpacing"`
	Padding          Padding `json:"padding" yaml:"padding"`
	Indent           string  `json:"indent" yaml:"indent"`
	TitleCenter      bool    `json:"titleCenter" yaml:"titleCenter"`
}

// Padding 四边内边距。UserStyle 中单位为 dp，StyleConfig 中为 px。
type Padding struct {
	Left   float64 `json:"left" yaml:"left"`
	Top    float64 `json:"top" yaml:"top"`
	Right  float64 `json:"right" yaml:"right"`
	Bottom float64 `json:"bottom" yaml:"bottom"`
}

// DefaultUserStyle returns the style used when a profile leaves values unset.
func DefaultUserStyle() UserStyle {
	return UserStyle{
		TextSize:         20,
		TitleSizeDelta:   2,
		TitleBold:        true,
		LetterSpacing:    0,
		LineSpacingExtra: 8,
		ParagraphSpacing: 8,
		Padding:          Padding{Left: 16, Top: 16, Right: 16, Bottom: 16},
		Indent:           DefaultIndent,
		TitleCenter:      true,
	}
}

// Resolve 将 dp 换算为像素。字号与行间距保留小数；内边距与段间距截断为整数像素。
func (u UserStyle) Resolve(density float64) (StyleConfig, error) {
	if density <= 0 {
		return StyleConfig{}, fmt.Errorf("%w: density=%g", ErrInvalidStyle, density)
	}
	if u.TextSize <= 0 {
		return StyleConfig{}, fmt.Errorf("%w: textSize=%g", ErrInvalidStyle, u.TextSize)
	}
	px := func(dp float64) float64 { return Length{Value: dp, Unit: UnitDP}.ToPx(density) }
	whole := func(dp float64) float64 { return float64(int(px(dp))) }
	return StyleConfig{
		TitleSize:        px(u.TextSize + u.TitleSizeDelta),
		BodySize:         px(u.TextSize),
		TitleBold:        u.TitleBold,
		BodyBold:         u.TextBold,
		LetterSpacing:    u.LetterSpacing,
		LineSpacingExtra: px(u.LineSpacingExtra),
		ParagraphSpacing: whole(u.ParagraphSpacing),
		Padding: Padding{
			Left:   whole(u.Padding.Left),
			Top:    whole(u.Padding.Top),
			Right:  whole(u.Padding.Right),
			Bottom: whole(u.Padding.Bottom),
		},
		Indent:      u.Indent,
		TitleCenter: u.TitleCenter,
	}, nil
}

// StyleConfig 是一次排版使用的不可变样式快照，长度单位均为像素。
type StyleConfig struct {
	TitleSize        float64 `json:"titleSize" yaml:"titleSize"`
	BodySize         float64 `json:"bodySize" yaml:"bodySize"`
	TitleBold        bool    `json:"titleBold" yaml:"titleBold"`
	BodyBold         bool    `json:"bodyBold" yaml:"bodyBold"`
	LetterSpacing    float64 `json:"letterSpacing" yaml:"letterSpacing"` // em
	LineSpacingExtra float64 `json:"lineSpacingExtra" yaml:"lineSpacingExtra"`
	ParagraphSpacing float64 `json:"paragraphSpacing" yaml:"paragraphSpacing"`
	Padding          Padding `json:"padding" yaml:"padding"`
	Indent           string  `json:"indent" yaml:"indent"`
	TitleCenter      bool    `json:"titleCenter" yaml:"titleCenter"`
}

// Viewport 为阅读视图的像素尺寸。
type Viewport struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// Frame 是视图扣除内边距后的可排版区域。
type Frame struct {
	VisibleWidth  float64 `json:"visibleWidth" yaml:"visibleWidth"`
	VisibleHeight float64 `json:"visibleHeight" yaml:"visibleHeight"`
	PaddingLeft   float64 `json:"paddingLeft" yaml:"paddingLeft"`
	PaddingTop    float64 `json:"paddingTop" yaml:"paddingTop"`
}

// Frame derives the visible area for vp. Every non-positive dimension is reported.
func (s StyleConfig) Frame(vp Viewport) (Frame, error) {
	f := Frame{
		VisibleWidth:  vp.Width - s.Padding.Left - s.Padding.Right,
		VisibleHeight: vp.Height - s.Padding.Top - s.Padding.Bottom,
		PaddingLeft:   s.Padding.Left,
		PaddingTop:    s.Padding.Top,
	}
	var err error
	if f.VisibleWidth <= 0 {
		err = multierr.Append(err, fmt.Errorf("%w: visibleWidth=%g (width %g, padding %g+%g)",
			ErrInvalidViewport, f.VisibleWidth, vp.Width, s.Padding.Left, s.Padding.Right))
	}
	if f.VisibleHeight <= 0 {
		err = multierr.Append(err, fmt.Errorf("%w: visibleHeight=%g (height %g, padding %g+%g)",
			ErrInvalidViewport, f.VisibleHeight, vp.Height, s.Padding.Top, s.Padding.Bottom))
	}
	if err != nil {
		return Frame{}, err
	}
	return f, nil
}

// TitleStyle 返回标题的测量样式。
func (s StyleConfig) TitleStyle() TextStyle {
	return TextStyle{
		Size:             s.TitleSize,
		Bold:             s.TitleBold,
		LetterSpacing:    s.LetterSpacing,
		LineSpacingExtra: s.LineSpacingExtra,
	}
}

// BodyStyle 返回正文的测量样式。
func (s StyleConfig) BodyStyle() TextStyle {
	return TextStyle{
		Size:             s.BodySize,
		Bold:             s.BodyBold,
		LetterSpacing:    s.LetterSpacing,
		LineSpacingExtra: s.LineSpacingExtra,
	}
}
