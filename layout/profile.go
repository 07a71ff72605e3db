package layout

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/multierr"

	"github.com/ByLCY/folio/dsl"
)

// Profile 是从阅读配置文件解析出的完整设置。
type Profile struct {
	Name   string      `json:"name" yaml:"name"`
	Style  UserStyle   `json:"style" yaml:"style"`
	Font   FontSetting `json:"font" yaml:"font"`
	Footer string      `json:"footer,omitempty" yaml:"footer,omitempty"`
}

// FontSetting 描述字体来源。src 可以是文件路径、embed:<name> 或 builtin:<name>；
// 加载失败时使用 Fallback，而不是修改用户设置。
type FontSetting struct {
	Src      string `json:"src" yaml:"src"`
	Fallback string `json:"fallback" yaml:"fallback"`
	Color    Color  `json:"color" yaml:"color"`
}

// Color 采用 0-255 的 RGB 数值。
type Color struct {
	R int `json:"r" yaml:"r"`
	G int `json:"g" yaml:"g"`
	B int `json:"b" yaml:"b"`
}

// DefaultProfile 返回未提供配置文件时使用的设置。
func DefaultProfile() Profile {
	return Profile{
		Name:  "Default",
		Style: DefaultUserStyle(),
		Font: FontSetting{
			Src:      "embed:go-regular",
			Fallback: "embed:go-regular",
			Color:    Color{R: 30, G: 30, B: 30},
		},
	}
}

// ResolveProfile 将配置 AST 叠加到默认设置之上。所有无法识别的键与取值错误会一并返回。
func ResolveProfile(doc *dsl.Document) (Profile, error) {
	if doc == nil {
		return Profile{}, fmt.Errorf("配置文档为空")
	}
	p := DefaultProfile()
	p.Name = doc.Name

	var errs error
	for _, section := range doc.Sections {
		block := section.Block()
		if block == nil {
			continue
		}
		for _, st := range block.Statements {
			var err error
			switch {
			case st.Assignment != nil:
				err = p.assign(section.Kind(), st.Assignment.Key, st.Assignment.Value.Raw())
				if err != nil {
					err = fmt.Errorf("%s: %w", st.Assignment.Pos, err)
				}
			case st.Command != nil:
				err = p.command(section.Kind(), st.Command)
				if err != nil {
					err = fmt.Errorf("%s: %w", st.Command.Pos, err)
				}
			}
			errs = multierr.Append(errs, err)
		}
	}
	if errs != nil {
		return Profile{}, errs
	}
	return p, nil
}

func (p *Profile) assign(section, key, raw string) error {
	var err error
	switch section + "." + key {
	case "font.src":
		p.Font.Src = raw
	case "font.fallback":
		p.Font.Fallback = raw
	case "font.color":
		p.Font.Color, err = parseColor(raw)
	case "text.size":
		p.Style.TextSize, err = parseDP(raw)
	case "text.bold":
		p.Style.TextBold, err = strconv.ParseBool(raw)
	case "text.letter-spacing":
		p.Style.LetterSpacing, err = strconv.ParseFloat(raw, 64)
	case "text.line-spacing-extra":
		p.Style.LineSpacingExtra, err = parseDP(raw)
	case "text.paragraph-spacing":
		p.Style.ParagraphSpacing, err = parseDP(raw)
	case "text.indent":
		p.Style.Indent = raw
	case "title.size-delta":
		p.Style.TitleSizeDelta, err = parseDP(raw)
	case "title.bold":
		p.Style.TitleBold, err = strconv.ParseBool(raw)
	case "title.center":
		p.Style.TitleCenter, err = strconv.ParseBool(raw)
	case "page.footer":
		p.Footer = raw
	default:
		return fmt.Errorf("未知配置项 %s.%s", section, key)
	}
	if err != nil {
		return fmt.Errorf("配置项 %s.%s 取值 %q 无效: %w", section, key, raw, err)
	}
	return nil
}

func (p *Profile) command(section string, cmd *dsl.Command) error {
	if section != "page" || cmd.Name != "padding" {
		return fmt.Errorf("未知指令 %s.%s", section, cmd.Name)
	}
	padding, err := resolvePadding(cmd.Args)
	if err != nil {
		return err
	}
	p.Style.Padding = padding
	return nil
}

// resolvePadding 按 CSS 语义解析 1-4 个取值（单位 dp）：
// 1 个：四边相同；2 个：上下、左右；3 个：上、左右、下；4 个：上、右、下、左。多余的忽略。
func resolvePadding(args []string) (Padding, error) {
	vals := make([]float64, 0, 4)
	for _, a := range args {
		if len(vals) == 4 {
			break
		}
		v, err := parseDP(a)
		if err != nil {
			return Padding{}, fmt.Errorf("padding 取值 %q 无效: %w", a, err)
		}
		vals = append(vals, v)
	}
	switch len(vals) {
	case 1:
		v := vals[0]
		return Padding{Top: v, Right: v, Bottom: v, Left: v}, nil
	case 2:
		return Padding{Top: vals[0], Right: vals[1], Bottom: vals[0], Left: vals[1]}, nil
	case 3:
		return Padding{Top: vals[0], Right: vals[1], Bottom: vals[2], Left: vals[1]}, nil
	case 4:
		return Padding{Top: vals[0], Right: vals[1], Bottom: vals[2], Left: vals[3]}, nil
	default:
		return Padding{}, fmt.Errorf("padding 至少需要一个取值")
	}
}

// parseDP 解析长度并统一为 dp。px 取值无法在不知道密度时换算，因此被拒绝。
func parseDP(raw string) (float64, error) {
	l, err := ParseLength(raw)
	if err != nil {
		return 0, err
	}
	if l.Unit == UnitPX {
		return 0, fmt.Errorf("配置中的长度须使用 dp")
	}
	return l.Value, nil
}

func parseColor(value string) (Color, error) {
	value = strings.TrimPrefix(value, "#")
	hex := func(s string) (int, error) {
		v, err := strconv.ParseUint(s, 16, 8)
		return int(v), err
	}
	switch len(value) {
	case 3:
		value = strings.Repeat(value[0:1], 2) + strings.Repeat(value[1:2], 2) + strings.Repeat(value[2:3], 2)
	case 6, 8:
	default:
		return Color{}, fmt.Errorf("颜色值 %s 无法解析", value)
	}
	var c Color
	var err error
	if c.R, err = hex(value[0:2]); err != nil {
		return Color{}, err
	}
	if c.G, err = hex(value[2:4]); err != nil {
		return Color{}, err
	}
	if c.B, err = hex(value[4:6]); err != nil {
		return Color{}, err
	}
	return c, nil
}
