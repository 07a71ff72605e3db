package layout

import (
	"errors"

	"go.uber.org/zap"
)

var (
	// ErrMissingTypesetter 表示未提供排版后端。
	ErrMissingTypesetter = errors.New("layout: 缺少排版后端 Typesetter")
	// ErrNoLineSpans 表示换行服务对非空段落没有返回任何行。
	ErrNoLineSpans = errors.New("layout: 换行服务未返回任何行")
)

// Options 配置排版阶段所需的依赖，例如排版后端与日志。
type Options struct {
	Typesetter Typesetter
	Logger     *zap.Logger
}

// TextStyle 是测量与换行使用的字体参数，尺寸单位为像素。
type TextStyle struct {
	Size             float64 `json:"size" yaml:"size"`
	Bold             bool    `json:"bold" yaml:"bold"`
	LetterSpacing    float64 `json:"letterSpacing" yaml:"letterSpacing"` // em
	LineSpacingExtra float64 `json:"lineSpacingExtra" yaml:"lineSpacingExtra"`
}

// LineSpan 是换行服务输出的一行：段落内的字节区间与相对段落原点的纵向度量。
type LineSpan struct {
	Start        int     `json:"start" yaml:"start"`
	End          int     `json:"end" yaml:"end"`
	Top          float64 `json:"top" yaml:"top"`
	Bottom       float64 `json:"bottom" yaml:"bottom"`
	Baseline     float64 `json:"baseline" yaml:"baseline"`
	NaturalWidth float64 `json:"naturalWidth" yaml:"naturalWidth"`
}

// Height returns the span's vertical extent.
func (s LineSpan) Height() float64 { return s.Bottom - s.Top }

// Measurer 测量文本在给定样式下的自然宽度。对同一 (text, style) 必须是确定的，
// 且与同一后端的 LineBreaker 的内部测量保持一致。
type Measurer interface {
	Measure(text string, style TextStyle) (float64, error)
}

// LineBreaker 负责根据字体与宽度约束将段落拆成按阅读顺序排列、互不重叠且覆盖全文的行。
type LineBreaker interface {
	BreakLines(paragraph string, style TextStyle, maxWidth float64) ([]LineSpan, error)
}

// Typesetter 同时提供测量与换行能力。
type Typesetter interface {
	Measurer
	LineBreaker
}
