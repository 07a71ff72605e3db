// Package binding expands ${path} placeholders in page templates such as
// footers ("${title} ${page}/${pages}").
package binding

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
)

var exprPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Template 是预先切分好的模板，可对多页重复求值。
type Template struct {
	src   string
	parts []part
}

type part struct {
	literal string
	path    []step // nil 表示纯文本
	raw     string
}

type step struct {
	key   string
	index int
	isIdx bool
}

// Compile 解析模板中的占位符。路径语法为 a.b[0].c；非法路径按原文保留。
func Compile(text string) *Template {
	t := &Template{src: text}
	last := 0
	for _, loc := range exprPattern.FindAllStringSubmatchIndex(text, -1) {
		if loc[0] > last {
			t.parts = append(t.parts, part{literal: text[last:loc[0]]})
		}
		raw := text[loc[0]:loc[1]]
		steps, ok := parsePath(strings.TrimSpace(text[loc[2]:loc[3]]))
		if ok {
			t.parts = append(t.parts, part{path: steps, raw: raw})
		} else {
			t.parts = append(t.parts, part{literal: raw})
		}
		last = loc[1]
	}
	if last < len(text) {
		t.parts = append(t.parts, part{literal: text[last:]})
	}
	return t
}

// Source returns the template text as written.
func (t *Template) Source() string { return t.src }

// Execute 以 data 求值模板；找不到的路径保留原占位符。
func (t *Template) Execute(data any) string {
	if t == nil {
		return ""
	}
	var b strings.Builder
	for _, p := range t.parts {
		if p.path == nil {
			b.WriteString(p.literal)
			continue
		}
		if v, ok := resolve(data, p.path); ok {
			b.WriteString(fmt.Sprint(v))
		} else {
			b.WriteString(p.raw)
		}
	}
	return b.String()
}

// Interpolate 将文本中的 ${path.to.value} 替换为 data 中的值。
// 若 data 为空或路径不存在，则返回原占位符。
func Interpolate(text string, data any) string {
	if data == nil {
		return text
	}
	return Compile(text).Execute(data)
}

func parsePath(path string) ([]step, bool) {
	if path == "" {
		return nil, false
	}
	var steps []step
	for _, segment := range strings.Split(path, ".") {
		name := segment
		rest := ""
		if i := strings.IndexByte(segment, '['); i != -1 {
			name, rest = segment[:i], segment[i:]
		}
		if name == "" && rest == "" {
			return nil, false
		}
		if name != "" {
			steps = append(steps, step{key: name})
		}
		for len(rest) > 0 {
			end := strings.IndexByte(rest, ']')
			if rest[0] != '[' || end == -1 {
				return nil, false
			}
			idx, err := strconv.Atoi(rest[1:end])
			if err != nil {
				return nil, false
			}
			steps = append(steps, step{index: idx, isIdx: true})
			rest = rest[end+1:]
		}
	}
	return steps, true
}

// resolve 沿路径下降，支持字符串键的 map、slice/array 以及导出的结构体字段。
func resolve(data any, path []step) (any, bool) {
	cur := reflect.ValueOf(data)
	for _, s := range path {
		for cur.IsValid() && (cur.Kind() == reflect.Interface || cur.Kind() == reflect.Pointer) {
			if cur.IsNil() {
				return nil, false
			}
			cur = cur.Elem()
		}
		if !cur.IsValid() {
			return nil, false
		}
		if s.isIdx {
			if cur.Kind() != reflect.Slice && cur.Kind() != reflect.Array {
				return nil, false
			}
			if s.index < 0 || s.index >= cur.Len() {
				return nil, false
			}
			cur = cur.Index(s.index)
			continue
		}
		switch cur.Kind() {
		case reflect.Map:
			if cur.Type().Key().Kind() != reflect.String {
				return nil, false
			}
			v := cur.MapIndex(reflect.ValueOf(s.key).Convert(cur.Type().Key()))
			if !v.IsValid() {
				return nil, false
			}
			cur = v
		case reflect.Struct:
			f := cur.FieldByName(s.key)
			if !f.IsValid() || !f.CanInterface() {
				return nil, false
			}
			cur = f
		default:
			return nil, false
		}
	}
	if !cur.IsValid() || !cur.CanInterface() {
		return nil, false
	}
	return cur.Interface(), true
}
