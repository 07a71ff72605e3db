package dsl

import (
	"fmt"
	"io"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	profileLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "BlockComment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "Color", Pattern: `#(?:[0-9A-Fa-f]{3}|[0-9A-Fa-f]{6}|[0-9A-Fa-f]{8})`},
		{Name: "HashComment", Pattern: `#[^\n]*`},
		{Name: "Number", Pattern: `-?(?:\d+\.\d+|\d+)(?:dp|px)?`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Symbol", Pattern: `[][(),.=+\-*/%<>!?;:]`},
		{Name: "LBrace", Pattern: `{`},
		{Name: "RBrace", Pattern: `}`},
	})

	profileParser = participle.MustBuild[Document](
		participle.Lexer(profileLexer),
		participle.Elide("Whitespace", "LineComment", "BlockComment", "HashComment"),
	)
)

// Document is the root AST node of a reader profile.
type Document struct {
	Pos      lexer.Position `parser:"" json:"-"`
	Name     string         `parser:"Newline* 'profile' @Ident"`
	Version  string         `parser:"@Ident"`
	Sections []*Section     `parser:"'{' Newline* ( @@ Newline* )* '}' Newline*"`
}

// Section is one top-level group of settings.
type Section struct {
	Font  *FontSection  `parser:"  @@"`
	Text  *TextSection  `parser:"| @@"`
	Title *TitleSection `parser:"| @@"`
	Page  *PageSection  `parser:"| @@"`
}

// Kind returns the human-readable section type.
func (s *Section) Kind() string {
	switch {
	case s == nil:
		return "unknown"
	case s.Font != nil:
		return "font"
	case s.Text != nil:
		return "text"
	case s.Title != nil:
		return "title"
	case s.Page != nil:
		return "page"
	default:
		return "unknown"
	}
}

// Block returns the statements of whichever section is set.
func (s *Section) Block() *Block {
	switch {
	case s == nil:
		return nil
	case s.Font != nil:
		return s.Font.Block
	case s.Text != nil:
		return s.Text.Block
	case s.Title != nil:
		return s.Title.Block
	case s.Page != nil:
		return s.Page.Block
	default:
		return nil
	}
}

// FontSection selects the typeface.
type FontSection struct {
	Block *Block `parser:"'font' @@"`
}

// TextSection holds body text settings.
type TextSection struct {
	Block *Block `parser:"'text' @@"`
}

// TitleSection holds chapter title settings.
type TitleSection struct {
	Block *Block `parser:"'title' @@"`
}

// PageSection holds page geometry settings.
type PageSection struct {
	Block *Block `parser:"'page' @@"`
}

// Block is a delimited list of statements.
type Block struct {
	Statements []*Statement `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// Statement inside a block (assignment or command).
type Statement struct {
	Assignment *Assignment `parser:"  @@"`
	Command    *Command    `parser:"| @@"`
}

// Assignment uses colon syntax (key: value).
type Assignment struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Key   string         `parser:"@Ident"`
	Value *Value         `parser:"':' Newline* @@"`
}

// Command is a name followed by bare arguments, eg: `padding 16dp 24dp`.
type Command struct {
	Pos  lexer.Position `parser:"" json:"-"`
	Name string         `parser:"@Ident"`
	Args []string       `parser:"@( Number | Ident )*"`
}

// Value represents a property value.
type Value struct {
	String *StringLiteral `parser:"  @String"`
	Number *string        `parser:"| @Number"`
	Color  *string        `parser:"| @Color"`
	Bool   *string        `parser:"| @( 'true' | 'false' )"`
	Ident  *string        `parser:"| @Ident"`
}

// Raw returns the value as written, with strings unquoted.
func (v *Value) Raw() string {
	switch {
	case v == nil:
		return ""
	case v.String != nil:
		return string(*v.String)
	case v.Number != nil:
		return *v.Number
	case v.Color != nil:
		return *v.Color
	case v.Bool != nil:
		return *v.Bool
	case v.Ident != nil:
		return *v.Ident
	default:
		return ""
	}
}

// StringLiteral unquotes Go-style strings on capture.
type StringLiteral string

// Capture implements participle.Capture.
func (s *StringLiteral) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("string literal capture requires value")
	}
	val, err := strconv.Unquote(values[0])
	if err != nil {
		return err
	}
	*s = StringLiteral(val)
	return nil
}

// Parse parses a profile from an io.Reader.
func Parse(r io.Reader) (*Document, error) {
	return profileParser.Parse("", r)
}

// ParseString parses a profile from a string.
func ParseString(input string) (*Document, error) {
	return profileParser.ParseString("", input)
}
