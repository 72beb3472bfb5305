// Package parser builds an internal/ast.File from a token stream produced
// by internal/lexer. It only parses the structure the compiler actually
// needs: decorators, top-level function/class declarations and class
// members, and the literal-only grammar of decorator arguments. Statement
// bodies are captured as raw byte spans (tracked via brace/paren/bracket
// depth over the token stream, so strings and template literals, already
// atomic tokens, can never desynchronize the count) and are never
// otherwise parsed; the transpiler works directly on that text.
package parser

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"

	"github.com/arc-lang/arc/internal/ast"
	"github.com/arc-lang/arc/internal/lexer"
	"github.com/arc-lang/arc/internal/token"
)

// Parse tokenizes and parses src, returning a syntactic tree. A syntax
// error is fatal per file: the first error terminates parsing of that
// file and is returned as a single diagnostic.
func Parse(filename string, src []byte) (*ast.File, *hcl.Diagnostic) {
	toks, diag := lexer.New(filename, src).Tokenize()
	if diag != nil {
		return nil, diag
	}
	p := &parser{filename: filename, toks: toks}
	file, err := p.parseFile()
	if err != nil {
		return nil, err
	}
	return file, nil
}

type parser struct {
	filename string
	toks     []token.Token
	pos      int
}

func (p *parser) cur() token.Token  { return p.toks[p.pos] }
func (p *parser) atEOF() bool       { return p.cur().Kind == token.EOF }
func (p *parser) advance() token.Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *parser) rng(t token.Token) hcl.Range { return t.Range(p.filename) }

func (p *parser) errf(t token.Token, format string, args ...any) *hcl.Diagnostic {
	r := p.rng(t)
	return &hcl.Diagnostic{
		Severity: hcl.DiagError,
		Summary:  "Syntax error",
		Detail:   fmt.Sprintf(format, args...),
		Subject:  &r,
	}
}

func (p *parser) expectPunct(val string) (token.Token, *hcl.Diagnostic) {
	t := p.cur()
	if !t.Is(token.Punct, val) {
		return t, p.errf(t, "expected %q, found %q", val, t.Value)
	}
	return p.advance(), nil
}

func (p *parser) parseFile() (*ast.File, *hcl.Diagnostic) {
	f := &ast.File{Path: p.filename}
	for !p.atEOF() {
		t := p.cur()

		if t.Is(token.Ident, "import") {
			imp, err := p.parseImport()
			if err != nil {
				return nil, err
			}
			f.Imports = append(f.Imports, imp)
			continue
		}

		if t.Is(token.Punct, "@") || t.Is(token.Ident, "export") || t.Is(token.Ident, "async") ||
			t.Is(token.Ident, "function") || t.Is(token.Ident, "class") || t.Is(token.Ident, "abstract") {
			decl, err := p.parseTopLevelDecl()
			if err != nil {
				return nil, err
			}
			if decl != nil {
				f.Decls = append(f.Decls, decl)
			}
			continue
		}

		// Anything else at the top level (interfaces, type aliases, bare
		// statements, enums) is irrelevant to entity extraction; skip one
		// logical unit by consuming to the next top-level boundary.
		if err := p.skipUnknownTopLevel(); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// skipUnknownTopLevel advances past a statement/declaration the parser
// does not otherwise model, stopping at the next `;`, the end of a
// balanced `{...}` block, or EOF — whichever comes first.
func (p *parser) skipUnknownTopLevel() *hcl.Diagnostic {
	for !p.atEOF() {
		t := p.cur()
		if t.Is(token.Punct, ";") {
			p.advance()
			return nil
		}
		if t.Is(token.Punct, "{") {
			if err := p.skipBalanced("{", "}"); err != nil {
				return err
			}
			return nil
		}
		if t.Is(token.Punct, "@") || t.Is(token.Ident, "export") || t.Is(token.Ident, "function") ||
			t.Is(token.Ident, "class") {
			// Don't consume the start of the next real declaration.
			return nil
		}
		p.advance()
	}
	return nil
}

// skipBalanced consumes tokens starting at an `open` punctuation through
// its matching `close`, inclusive, tracking nested occurrences of the same
// pair.
func (p *parser) skipBalanced(open, close string) *hcl.Diagnostic {
	start := p.cur()
	if !p.cur().Is(token.Punct, open) {
		return p.errf(start, "expected %q", open)
	}
	depth := 0
	for !p.atEOF() {
		t := p.advance()
		if t.Is(token.Punct, open) {
			depth++
		} else if t.Is(token.Punct, close) {
			depth--
			if depth == 0 {
				return nil
			}
		}
	}
	return p.errf(start, "unterminated %q...%q block", open, close)
}

// spanBalanced behaves like skipBalanced but returns the hcl.Range covering
// the whole balanced region (from the opening token through the closing
// token).
func (p *parser) spanBalanced(open, close string) (hcl.Range, *hcl.Diagnostic) {
	startTok := p.cur()
	if !startTok.Is(token.Punct, open) {
		return hcl.Range{}, p.errf(startTok, "expected %q", open)
	}
	depth := 0
	var endTok token.Token
	for !p.atEOF() {
		t := p.advance()
		if t.Is(token.Punct, open) {
			depth++
		} else if t.Is(token.Punct, close) {
			depth--
			if depth == 0 {
				endTok = t
				break
			}
		}
	}
	if endTok.Value == "" && endTok.Kind != token.Punct {
		return hcl.Range{}, p.errf(startTok, "unterminated %q...%q block", open, close)
	}
	return hcl.Range{
		Filename: p.filename,
		Start:    startTok.Start,
		End:      endTok.End,
	}, nil
}

func (p *parser) parseImport() (*ast.Import, *hcl.Diagnostic) {
	start := p.cur()
	p.advance() // "import"

	var names []string
	if p.cur().Is(token.Punct, "{") {
		p.advance()
		for !p.cur().Is(token.Punct, "}") && !p.atEOF() {
			if p.cur().Kind == token.Ident {
				name := p.cur().Value
				p.advance()
				if p.cur().Is(token.Ident, "as") {
					p.advance()
					if p.cur().Kind == token.Ident {
						name = p.cur().Value
						p.advance()
					}
				}
				names = append(names, name)
			}
			if p.cur().Is(token.Punct, ",") {
				p.advance()
			}
		}
		if p.cur().Is(token.Punct, "}") {
			p.advance()
		}
	} else if p.cur().Kind == token.Ident {
		// default import, or `import * as ns`
		if p.cur().Value == "*" {
			p.advance()
		} else {
			names = append(names, p.cur().Value)
			p.advance()
		}
		if p.cur().Is(token.Ident, "as") {
			p.advance()
			if p.cur().Kind == token.Ident {
				names = append(names, p.cur().Value)
				p.advance()
			}
		}
	} else if p.cur().Is(token.Punct, "*") {
		p.advance()
		if p.cur().Is(token.Ident, "as") {
			p.advance()
			if p.cur().Kind == token.Ident {
				names = append(names, p.cur().Value)
				p.advance()
			}
		}
	}

	if p.cur().Is(token.Ident, "from") {
		p.advance()
	}

	specifier := ""
	if p.cur().Kind == token.String {
		specifier = p.cur().Value
		p.advance()
	}

	end := p.cur()
	if p.cur().Is(token.Punct, ";") {
		p.advance()
	}

	return &ast.Import{
		Names:     names,
		Specifier: specifier,
		Range:     hcl.Range{Filename: p.filename, Start: start.Start, End: end.End},
	}, nil
}

// parseTopLevelDecl parses one (possibly decorated, possibly exported)
// top-level function or class declaration.
func (p *parser) parseTopLevelDecl() (ast.Decl, *hcl.Diagnostic) {
	decorators, err := p.parseDecorators()
	if err != nil {
		return nil, err
	}

	declStart := p.cur()
	if p.cur().Is(token.Ident, "export") {
		p.advance()
		if p.cur().Is(token.Ident, "default") {
			p.advance()
		}
	}
	if p.cur().Is(token.Ident, "abstract") {
		p.advance()
	}

	switch {
	case p.cur().Is(token.Ident, "async") || p.cur().Is(token.Ident, "function"):
		return p.parseFuncDecl(decorators, declStart)
	case p.cur().Is(token.Ident, "class"):
		return p.parseClassDecl(decorators, declStart)
	default:
		// Decorator applied to something we don't model (e.g. a variable
		// statement); skip it without producing a Decl.
		return nil, p.skipUnknownTopLevel()
	}
}

// parseDecorators parses zero or more leading `@name` / `@name(...)`
// applications.
func (p *parser) parseDecorators() ([]*ast.Decorator, *hcl.Diagnostic) {
	var decs []*ast.Decorator
	for p.cur().Is(token.Punct, "@") {
		at := p.advance()
		if p.cur().Kind != token.Ident {
			return nil, p.errf(p.cur(), "expected decorator name after '@'")
		}
		nameTok := p.advance()
		dec := &ast.Decorator{
			Name:      nameTok.Value,
			NameRange: p.rng(nameTok),
		}
		endTok := nameTok
		if p.cur().Is(token.Punct, "(") {
			dec.HasArgs = true
			openTok := p.cur()
			p.advance()
			if !p.cur().Is(token.Punct, ")") {
				arg, exprErr := p.parseLiteralExpr()
				if exprErr != nil {
					return nil, exprErr
				}
				dec.Arg = arg
			}
			closeTok, closeErr := p.expectPunct(")")
			if closeErr != nil {
				return nil, closeErr
			}
			_ = openTok
			endTok = closeTok
		}
		dec.Range = hcl.Range{Filename: p.filename, Start: at.Start, End: endTok.End}
		decs = append(decs, dec)
	}
	return decs, nil
}

func (p *parser) parseFuncDecl(decorators []*ast.Decorator, declStart token.Token) (*ast.FuncDecl, *hcl.Diagnostic) {
	fn := &ast.FuncDecl{Decorators: decorators}
	if p.cur().Is(token.Ident, "async") {
		fn.Async = true
		p.advance()
	}
	if _, err := p.expectIdent("function"); err != nil {
		return nil, err
	}
	if p.cur().Is(token.Punct, "*") {
		fn.Generator = true
		p.advance()
	}
	nameTok := p.cur()
	if nameTok.Kind != token.Ident {
		return nil, p.errf(nameTok, "expected function name")
	}
	fn.Name = nameTok.Value
	p.advance()

	// Generic type parameters, if any.
	if p.cur().Is(token.Punct, "<") {
		rng, err := p.spanAngleGenerics()
		if err != nil {
			return nil, err
		}
		fn.Erasures = append(fn.Erasures, rng)
	}

	params, paramErasures, err := p.parseParamsErasing()
	if err != nil {
		return nil, err
	}
	fn.Params = params
	fn.Erasures = append(fn.Erasures, paramErasures...)

	// Optional return type annotation: `: Type` up to the body's `{`.
	if p.cur().Is(token.Punct, ":") {
		rng, err := p.spanReturnType()
		if err != nil {
			return nil, err
		}
		fn.Erasures = append(fn.Erasures, rng)
	}

	bodyRange, err2 := p.spanBalanced("{", "}")
	if err2 != nil {
		return nil, err2
	}
	fn.BodyRange = bodyRange
	fn.Range = hcl.Range{Filename: p.filename, Start: declStart.Start, End: bodyRange.End}
	fn.FreeIdents = freeIdentsInByteRange(p.toks, bodyRange.Start.Byte, bodyRange.End.Byte)
	return fn, nil
}

// spanReturnType consumes a `: Type` return-type annotation up to (but not
// including) the following `{`, returning the range to erase.
func (p *parser) spanReturnType() (hcl.Range, *hcl.Diagnostic) {
	start := p.cur() // the ':'
	p.advance()
	var last token.Token
	for !p.cur().Is(token.Punct, "{") && !p.atEOF() {
		last = p.advance()
	}
	return hcl.Range{Filename: p.filename, Start: start.Start, End: last.End}, nil
}

func (p *parser) expectIdent(val string) (token.Token, *hcl.Diagnostic) {
	t := p.cur()
	if !t.Is(token.Ident, val) {
		return t, p.errf(t, "expected %q, found %q", val, t.Value)
	}
	return p.advance(), nil
}

// spanAngleGenerics consumes a `<...>` type-parameter list, tracking
// parenthesis/brace nesting as well as `<`/`>` so default generic values
// containing those characters don't terminate it early, and returns the
// range it covers.
func (p *parser) spanAngleGenerics() (hcl.Range, *hcl.Diagnostic) {
	start := p.cur()
	depth := 0
	var last token.Token
	for !p.atEOF() {
		t := p.advance()
		last = t
		if t.Is(token.Punct, "<") {
			depth++
		} else if t.Is(token.Punct, ">") {
			depth--
			if depth == 0 {
				return hcl.Range{Filename: p.filename, Start: start.Start, End: last.End}, nil
			}
		}
	}
	return hcl.Range{}, p.errf(start, "unterminated generic parameter list")
}

// paramModifiersErase are TS-only parameter/member modifiers that carry no
// meaning in plain JS and must be deleted by the transpiler.
var paramModifiersErase = map[string]bool{
	"public": true, "private": true, "protected": true, "readonly": true,
}

// parseParamsErasing parses a `(...)` parameter list, recording the byte
// range of each parameter's type annotation (and any TS-only
// public/private/protected/readonly modifier) as an erasure, while leaving
// parameter names and default-value initializers intact. It returns the
// parameters (a destructuring pattern yields a Param with an empty Name)
// and the erasures found; the overall `(...)` span itself is never erased.
func (p *parser) parseParamsErasing() ([]ast.Param, []hcl.Range, *hcl.Diagnostic) {
	openTok, err := p.expectPunct("(")
	if err != nil {
		return nil, nil, err
	}

	var params []ast.Param
	var erasures []hcl.Range
	for !p.cur().Is(token.Punct, ")") && !p.atEOF() {
		// TS constructor-shorthand modifiers (`public name: T`).
		for paramModifiersErase[p.cur().Value] && p.cur().Kind == token.Ident {
			modTok := p.advance()
			end := p.cur()
			erasures = append(erasures, hcl.Range{Filename: p.filename, Start: modTok.Start, End: end.Start})
		}

		// Rest parameter.
		if p.cur().Is(token.Punct, "...") {
			p.advance()
		}

		// Parameter name (identifier, or a destructuring pattern).
		if p.cur().Is(token.Punct, "{") || p.cur().Is(token.Punct, "[") {
			open := p.cur().Value
			close := "}"
			if open == "[" {
				close = "]"
			}
			if err := p.skipBalanced(open, close); err != nil {
				return nil, nil, err
			}
			params = append(params, ast.Param{})
		} else if p.cur().Kind == token.Ident {
			params = append(params, ast.Param{Name: p.advance().Value})
		}

		if p.cur().Is(token.Punct, "?") {
			p.advance()
		}

		// Type annotation: `: Type` up to the next top-level `,`, `=`, or `)`.
		if p.cur().Is(token.Punct, ":") {
			colonTok := p.cur()
			p.advance()
			depth := 0
			var last token.Token
			for !p.atEOF() {
				t := p.cur()
				if depth == 0 && (t.Is(token.Punct, ",") || t.Is(token.Punct, "=") || t.Is(token.Punct, ")")) {
					break
				}
				if t.Is(token.Punct, "(") || t.Is(token.Punct, "{") || t.Is(token.Punct, "[") || t.Is(token.Punct, "<") {
					depth++
				} else if t.Is(token.Punct, ")") || t.Is(token.Punct, "}") || t.Is(token.Punct, "]") || t.Is(token.Punct, ">") {
					depth--
				}
				last = p.advance()
			}
			erasures = append(erasures, hcl.Range{Filename: p.filename, Start: colonTok.Start, End: last.End})
		}

		// Default value initializer: leave as-is, just skip past it.
		if p.cur().Is(token.Punct, "=") {
			p.advance()
			depth := 0
			for !p.atEOF() {
				t := p.cur()
				if depth == 0 && (t.Is(token.Punct, ",") || t.Is(token.Punct, ")")) {
					break
				}
				if t.Is(token.Punct, "(") || t.Is(token.Punct, "{") || t.Is(token.Punct, "[") {
					depth++
				} else if t.Is(token.Punct, ")") || t.Is(token.Punct, "}") || t.Is(token.Punct, "]") {
					depth--
				}
				p.advance()
			}
		}

		if p.cur().Is(token.Punct, ",") {
			p.advance()
		}
	}

	if _, err := p.expectPunct(")"); err != nil {
		return nil, nil, err
	}
	_ = openTok
	return params, erasures, nil
}

func (p *parser) parseClassDecl(decorators []*ast.Decorator, declStart token.Token) (*ast.ClassDecl, *hcl.Diagnostic) {
	cls := &ast.ClassDecl{Decorators: decorators}
	if _, err := p.expectIdent("class"); err != nil {
		return nil, err
	}
	nameTok := p.cur()
	if nameTok.Kind != token.Ident {
		return nil, p.errf(nameTok, "expected class name")
	}
	cls.Name = nameTok.Value
	p.advance()

	if p.cur().Is(token.Punct, "<") {
		rng, err := p.spanAngleGenerics()
		if err != nil {
			return nil, err
		}
		cls.Erasures = append(cls.Erasures, rng)
	}

	// `extends Base` / `implements A, B` clauses: skip to the body's `{`.
	for !p.cur().Is(token.Punct, "{") && !p.atEOF() {
		p.advance()
	}

	openTok := p.cur()
	if !openTok.Is(token.Punct, "{") {
		return nil, p.errf(openTok, "expected class body")
	}
	p.advance()

	for !p.cur().Is(token.Punct, "}") && !p.atEOF() {
		member, err := p.parseClassMember()
		if err != nil {
			return nil, err
		}
		if member != nil {
			cls.Members = append(cls.Members, member)
			cls.Erasures = append(cls.Erasures, member.Erasures...)
		}
	}
	closeTok := p.cur()
	if !closeTok.Is(token.Punct, "}") {
		return nil, p.errf(closeTok, "unterminated class body")
	}
	p.advance()

	cls.Range = hcl.Range{Filename: p.filename, Start: declStart.Start, End: closeTok.End}
	cls.FreeIdents = freeIdentsInByteRange(p.toks, openTok.Start.Byte, closeTok.End.Byte)
	return cls, nil
}

// memberModifiersErase are TS-only class-member modifiers with no meaning
// in plain JS; they must be dropped by the transpiler.
var memberModifiersErase = map[string]bool{
	"public": true, "private": true, "protected": true, "readonly": true,
	"abstract": true, "override": true,
}

// memberModifiersKeep are valid-JS class-member modifiers; they are parsed
// past but never erased.
var memberModifiersKeep = map[string]bool{
	"static": true, "async": true, "get": true, "set": true,
}

// parseClassMember parses one method or field, including its decorators.
// Only the member's name, decorators, and overall span are modeled: an
// @tool method never yields its own captured code unit (the enclosing
// class does), so member bodies need no finer structure than "skip to
// the end of this member." Static-type-only syntax
// (TS-only modifiers, parameter/return/field type annotations, generic
// parameter lists) is recorded in Erasures for internal/transpile to strip.
func (p *parser) parseClassMember() (*ast.ClassMember, *hcl.Diagnostic) {
	decorators, err := p.parseDecorators()
	if err != nil {
		return nil, err
	}
	start := p.cur()
	var erasures []hcl.Range

	for p.cur().Kind == token.Ident && (memberModifiersErase[p.cur().Value] || memberModifiersKeep[p.cur().Value]) {
		modTok := p.cur()
		erase := memberModifiersErase[modTok.Value]
		p.advance()
		if erase {
			erasures = append(erasures, hcl.Range{Filename: p.filename, Start: modTok.Start, End: p.cur().Start})
		}
	}

	if p.cur().Is(token.Punct, "*") {
		p.advance()
	}

	nameTok := p.cur()
	name := nameTok.Value
	if nameTok.Kind == token.Ident || nameTok.Kind == token.String {
		p.advance()
	} else if nameTok.Is(token.Punct, "[") {
		// Computed member name; not addressable, skip it as an opaque name.
		if err := p.skipBalanced("[", "]"); err != nil {
			return nil, err
		}
		name = ""
	} else if nameTok.Is(token.Punct, "}") {
		return nil, nil
	} else {
		return nil, p.errf(nameTok, "expected class member name")
	}

	if p.cur().Is(token.Punct, "?") || p.cur().Is(token.Punct, "!") {
		p.advance()
	}
	if p.cur().Is(token.Punct, "<") {
		rng, genErr := p.spanAngleGenerics()
		if genErr != nil {
			return nil, genErr
		}
		erasures = append(erasures, rng)
	}

	isMethod := p.cur().Is(token.Punct, "(")
	var endTok token.Token
	if isMethod {
		_, paramErasures, paramErr := p.parseParamsErasing()
		if paramErr != nil {
			return nil, paramErr
		}
		erasures = append(erasures, paramErasures...)
		if p.cur().Is(token.Punct, ":") {
			rng, rtErr := p.spanReturnTypeUntil("{", ";")
			if rtErr != nil {
				return nil, rtErr
			}
			erasures = append(erasures, rng)
		}
		if p.cur().Is(token.Punct, "{") {
			rng, bodyErr := p.spanBalanced("{", "}")
			if bodyErr != nil {
				return nil, bodyErr
			}
			endTok = token.Token{End: rng.End}
		} else if p.cur().Is(token.Punct, ";") {
			endTok = p.advance()
		} else {
			endTok = p.cur()
		}
	} else {
		// Field: optional `: Type`, optional `= initializer`, then `;`.
		if p.cur().Is(token.Punct, ":") {
			colonTok := p.cur()
			p.advance()
			depth := 0
			var last token.Token
			for !p.atEOF() {
				t := p.cur()
				if depth == 0 && (t.Is(token.Punct, "=") || t.Is(token.Punct, ";") || t.Is(token.Punct, "}")) {
					break
				}
				if t.Is(token.Punct, "(") || t.Is(token.Punct, "{") || t.Is(token.Punct, "[") || t.Is(token.Punct, "<") {
					depth++
				} else if t.Is(token.Punct, ")") || t.Is(token.Punct, "}") || t.Is(token.Punct, "]") || t.Is(token.Punct, ">") {
					depth--
				}
				last = p.advance()
			}
			erasures = append(erasures, hcl.Range{Filename: p.filename, Start: colonTok.Start, End: last.End})
		}
		if p.cur().Is(token.Punct, "=") {
			p.advance()
			depth := 0
			for !p.atEOF() {
				t := p.cur()
				if depth == 0 && (t.Is(token.Punct, ";") || t.Is(token.Punct, "}")) {
					break
				}
				if t.Is(token.Punct, "(") || t.Is(token.Punct, "{") || t.Is(token.Punct, "[") {
					depth++
				} else if t.Is(token.Punct, ")") || t.Is(token.Punct, "}") || t.Is(token.Punct, "]") {
					depth--
				}
				p.advance()
			}
		}
		if p.cur().Is(token.Punct, ";") {
			endTok = p.advance()
		} else {
			endTok = p.cur()
		}
	}

	return &ast.ClassMember{
		Name:       name,
		IsMethod:   isMethod,
		Decorators: decorators,
		Range:      hcl.Range{Filename: p.filename, Start: start.Start, End: endTok.End},
		Erasures:   erasures,
	}, nil
}

// spanReturnTypeUntil consumes a `: Type` annotation up to (but not
// including) whichever of stopA/stopB comes first, returning the range to
// erase. Used for method return types, which can be followed by either a
// body `{` or a bodiless `;` (interface-style/abstract method signatures).
func (p *parser) spanReturnTypeUntil(stopA, stopB string) (hcl.Range, *hcl.Diagnostic) {
	start := p.cur() // the ':'
	p.advance()
	var last token.Token
	for !p.cur().Is(token.Punct, stopA) && !p.cur().Is(token.Punct, stopB) && !p.atEOF() {
		last = p.advance()
	}
	return hcl.Range{Filename: p.filename, Start: start.Start, End: last.End}, nil
}
