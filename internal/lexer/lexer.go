// Package lexer tokenizes decorator-annotated, statically-typed
// JavaScript-family source text for internal/parser. It does not attempt
// to support the full language grammar — only enough lexical structure
// (identifiers, numeric/string/template literals, and punctuation) for the
// parser to locate declarations, decorators, and literal-only decorator
// arguments. Strings, template literals and comments are scanned whole so
// that braces or parens appearing inside them never confuse the parser's
// depth-counted span capture.
package lexer

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/hashicorp/hcl/v2"

	"github.com/arc-lang/arc/internal/token"
)

// multiCharPuncts is tried longest-first against the input.
var multiCharPuncts = []string{
	"...", "=>", "===", "!==", "?.", "??", "**", "<<", ">>",
	"==", "!=", "<=", ">=", "&&", "||", "++", "--",
	"+=", "-=", "*=", "/=", "%=",
}

// Lexer scans a single file's source text into a flat token stream.
type Lexer struct {
	filename string
	src      []byte
	offset   int
	line     int
	col      int
}

// New returns a Lexer positioned at the start of src.
func New(filename string, src []byte) *Lexer {
	return &Lexer{filename: filename, src: src, line: 1, col: 1}
}

func (l *Lexer) pos() hcl.Pos {
	return hcl.Pos{Byte: l.offset, Line: l.line, Column: l.col}
}

func (l *Lexer) peekByte() byte {
	if l.offset >= len(l.src) {
		return 0
	}
	return l.src[l.offset]
}

func (l *Lexer) peekByteAt(n int) byte {
	if l.offset+n >= len(l.src) {
		return 0
	}
	return l.src[l.offset+n]
}

func (l *Lexer) advance() byte {
	b := l.src[l.offset]
	l.offset++
	if b == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return b
}

// Tokenize scans the entire source into tokens, terminated by a single EOF
// token. A *hcl.Diagnostic is returned on the first lexical error (an
// unterminated string, template, or comment).
func (l *Lexer) Tokenize() ([]token.Token, *hcl.Diagnostic) {
	var toks []token.Token
	for {
		if diag := l.skipWhitespaceAndComments(); diag != nil {
			return toks, diag
		}
		if l.offset >= len(l.src) {
			p := l.pos()
			toks = append(toks, token.Token{Kind: token.EOF, Start: p, End: p})
			return toks, nil
		}

		start := l.pos()
		c := l.peekByte()

		switch {
		case c == '@':
			l.advance()
			toks = append(toks, token.Token{Kind: token.Punct, Value: "@", Raw: "@", Start: start, End: l.pos()})

		case isIdentStart(c):
			val := l.scanIdent()
			toks = append(toks, token.Token{Kind: token.Ident, Value: val, Raw: val, Start: start, End: l.pos()})

		case isDigit(c):
			val := l.scanNumber()
			toks = append(toks, token.Token{Kind: token.Number, Value: val, Raw: val, Start: start, End: l.pos()})

		case c == '"' || c == '\'':
			val, raw, diag := l.scanString(c)
			if diag != nil {
				return toks, diag
			}
			toks = append(toks, token.Token{Kind: token.String, Value: val, Raw: raw, Start: start, End: l.pos()})

		case c == '`':
			raw, diag := l.scanTemplate()
			if diag != nil {
				return toks, diag
			}
			toks = append(toks, token.Token{Kind: token.Template, Value: raw, Raw: raw, Start: start, End: l.pos()})

		default:
			val, ok := l.scanPunct()
			if !ok {
				return toks, &hcl.Diagnostic{
					Severity: hcl.DiagError,
					Summary:  "Unrecognized character",
					Detail:   fmt.Sprintf("Unexpected byte %q in source.", c),
					Subject:  &hcl.Range{Filename: l.filename, Start: start, End: l.pos()},
				}
			}
			toks = append(toks, token.Token{Kind: token.Punct, Value: val, Raw: val, Start: start, End: l.pos()})
		}
	}
}

func (l *Lexer) skipWhitespaceAndComments() *hcl.Diagnostic {
	for l.offset < len(l.src) {
		c := l.peekByte()
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			l.advance()
		case c == '/' && l.peekByteAt(1) == '/':
			for l.offset < len(l.src) && l.peekByte() != '\n' {
				l.advance()
			}
		case c == '/' && l.peekByteAt(1) == '*':
			startPos := l.pos()
			l.advance()
			l.advance()
			for l.offset < len(l.src) && !(l.peekByte() == '*' && l.peekByteAt(1) == '/') {
				l.advance()
			}
			if l.offset >= len(l.src) {
				return &hcl.Diagnostic{
					Severity: hcl.DiagError,
					Summary:  "Unterminated block comment",
					Subject:  &hcl.Range{Filename: l.filename, Start: startPos, End: l.pos()},
				}
			}
			l.advance()
			l.advance()
		default:
			return nil
		}
	}
	return nil
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= utf8.RuneSelf
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func (l *Lexer) scanIdent() string {
	start := l.offset
	for l.offset < len(l.src) && isIdentPart(l.peekByte()) {
		l.advance()
	}
	return string(l.src[start:l.offset])
}

func (l *Lexer) scanNumber() string {
	start := l.offset
	for l.offset < len(l.src) && (isDigit(l.peekByte()) || l.peekByte() == '.' || l.peekByte() == '_' ||
		l.peekByte() == 'e' || l.peekByte() == 'E' || l.peekByte() == 'x' || l.peekByte() == 'b' ||
		(l.peekByte() >= 'a' && l.peekByte() <= 'f') || (l.peekByte() >= 'A' && l.peekByte() <= 'F')) {
		l.advance()
	}
	return string(l.src[start:l.offset])
}

// scanString consumes a single/double-quoted string literal, returning its
// decoded value and its raw (quoted) text.
func (l *Lexer) scanString(quote byte) (value, raw string, diag *hcl.Diagnostic) {
	start := l.offset
	startPos := l.pos()
	l.advance() // opening quote
	var sb strings.Builder
	for {
		if l.offset >= len(l.src) {
			return "", "", &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Unterminated string literal",
				Subject:  &hcl.Range{Filename: l.filename, Start: startPos, End: l.pos()},
			}
		}
		c := l.peekByte()
		if c == quote {
			l.advance()
			break
		}
		if c == '\\' {
			l.advance()
			if l.offset >= len(l.src) {
				continue
			}
			esc := l.advance()
			sb.WriteByte(decodeEscape(esc))
			continue
		}
		sb.WriteByte(c)
		l.advance()
	}
	return sb.String(), string(l.src[start:l.offset]), nil
}

func decodeEscape(c byte) byte {
	switch c {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	default:
		return c
	}
}

// scanTemplate consumes a backtick template literal in full, including any
// `${...}` interpolations, tracking brace depth so braces inside nested
// expressions don't terminate the template early. The literal is never
// decoded: decorator-argument decoding rejects templates outright, and
// transpilation preserves them verbatim as part of a raw body span.
func (l *Lexer) scanTemplate() (raw string, diag *hcl.Diagnostic) {
	start := l.offset
	startPos := l.pos()
	l.advance() // opening backtick
	depth := 0
	for {
		if l.offset >= len(l.src) {
			return "", &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Unterminated template literal",
				Subject:  &hcl.Range{Filename: l.filename, Start: startPos, End: l.pos()},
			}
		}
		c := l.peekByte()
		switch {
		case c == '\\':
			l.advance()
			if l.offset < len(l.src) {
				l.advance()
			}
		case c == '`' && depth == 0:
			l.advance()
			return string(l.src[start:l.offset]), nil
		case c == '$' && l.peekByteAt(1) == '{':
			l.advance()
			l.advance()
			depth++
		case c == '{' && depth > 0:
			l.advance()
			depth++
		case c == '}' && depth > 0:
			l.advance()
			depth--
		default:
			l.advance()
		}
	}
}

func (l *Lexer) scanPunct() (string, bool) {
	for _, op := range multiCharPuncts {
		if l.hasPrefix(op) {
			for range op {
				l.advance()
			}
			return op, true
		}
	}
	c := l.peekByte()
	switch c {
	case '(', ')', '{', '}', '[', ']', ',', ';', ':', '.', '?', '=', '<', '>',
		'+', '-', '*', '/', '%', '!', '&', '|', '^', '~':
		l.advance()
		return string(c), true
	}
	return "", false
}

func (l *Lexer) hasPrefix(s string) bool {
	if l.offset+len(s) > len(l.src) {
		return false
	}
	return string(l.src[l.offset:l.offset+len(s)]) == s
}
