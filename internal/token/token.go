// Package token defines the lexical tokens produced by internal/lexer and
// consumed by internal/parser. The grammar is intentionally narrow: Arc's
// parser only needs enough structure to find decorated declarations, their
// signatures, and literal-only decorator arguments; statement bodies are
// tokenized but never parsed, and the parser carries them as raw byte spans.
package token

import "github.com/hashicorp/hcl/v2"

// Kind classifies a Token.
type Kind int

const (
	EOF Kind = iota
	Ident
	Number
	String
	Template
	Punct
)

func (k Kind) String() string {
	switch k {
	case EOF:
		return "EOF"
	case Ident:
		return "Ident"
	case Number:
		return "Number"
	case String:
		return "String"
	case Template:
		return "Template"
	case Punct:
		return "Punct"
	default:
		return "Unknown"
	}
}

// Token is one lexical unit. Value holds the token's text exactly as
// written for Ident/Number/Punct, and the decoded content (quotes
// stripped, escapes resolved) for String. Start/End are byte-accurate
// positions into the originating file, reused directly as hcl.Pos so
// downstream diagnostics never need a second coordinate system.
type Token struct {
	Kind  Kind
	Value string
	Raw   string // original source text, including quotes/backticks for strings
	Start hcl.Pos
	End   hcl.Pos
}

// Range returns the hcl.Range spanned by the token within the given file.
func (t Token) Range(filename string) hcl.Range {
	return hcl.Range{Filename: filename, Start: t.Start, End: t.End}
}

// Is reports whether the token is an Ident or Punct with the given value.
func (t Token) Is(kind Kind, value string) bool {
	return t.Kind == kind && t.Value == value
}
