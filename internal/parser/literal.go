package parser

import (
	"github.com/hashicorp/hcl/v2"

	"github.com/arc-lang/arc/internal/ast"
	"github.com/arc-lang/arc/internal/token"
)

// parseLiteralExpr parses one decorator-argument expression. Decorator
// arguments must be computable from the AST alone: string, number,
// boolean, null, array, and nested object literals with string keys.
// Anything else (identifiers, calls, template literals, computed keys,
// spreads) is captured as an *ast.NonLiteral so the decoder can reject it
// with a precise span rather than the parser failing outright: a
// non-literal decorator argument is a DecoratorShape error, not a syntax
// error.
func (p *parser) parseLiteralExpr() (ast.Expr, *hcl.Diagnostic) {
	t := p.cur()
	switch {
	case t.Kind == token.String:
		p.advance()
		return &ast.StringLit{Value: t.Value, Range: p.rng(t)}, nil

	case t.Kind == token.Number:
		p.advance()
		return &ast.NumberLit{Value: t.Value, Range: p.rng(t)}, nil

	case t.Is(token.Ident, "true") || t.Is(token.Ident, "false"):
		p.advance()
		return &ast.BoolLit{Value: t.Value == "true", Range: p.rng(t)}, nil

	case t.Is(token.Ident, "null") || t.Is(token.Ident, "undefined"):
		p.advance()
		return &ast.NullLit{Range: p.rng(t)}, nil

	case t.Is(token.Punct, "["):
		return p.parseArrayLit()

	case t.Is(token.Punct, "{"):
		return p.parseObjectLit()

	case t.Kind == token.Template:
		rng, err := p.spanNonLiteral()
		if err != nil {
			return nil, err
		}
		return &ast.NonLiteral{Description: "template literal", Range: rng}, nil

	case t.Kind == token.Ident:
		rng, err := p.spanNonLiteral()
		if err != nil {
			return nil, err
		}
		return &ast.NonLiteral{Description: "identifier reference", Range: rng}, nil

	case t.Is(token.Punct, "-") || t.Is(token.Punct, "+"):
		// Signed numeric literal.
		sign := t
		p.advance()
		if p.cur().Kind != token.Number {
			rng, err := p.spanNonLiteral()
			if err != nil {
				return nil, err
			}
			return &ast.NonLiteral{Description: "expression", Range: rng}, nil
		}
		num := p.advance()
		val := num.Value
		if sign.Value == "-" {
			val = "-" + val
		}
		return &ast.NumberLit{Value: val, Range: hcl.Range{Filename: p.filename, Start: sign.Start, End: num.End}}, nil

	default:
		rng, err := p.spanNonLiteral()
		if err != nil {
			return nil, err
		}
		return &ast.NonLiteral{Description: "expression", Range: rng}, nil
	}
}

// spanNonLiteral consumes one balanced sub-expression it does not
// understand in depth (up to the next top-depth comma, `)`, `]`, or `}`)
// and returns the range it covered, so the caller can keep parsing
// sibling array/object elements.
func (p *parser) spanNonLiteral() (hcl.Range, *hcl.Diagnostic) {
	start := p.cur()
	depth := 0
	last := start
	for !p.atEOF() {
		t := p.cur()
		if depth == 0 && (t.Is(token.Punct, ",") || t.Is(token.Punct, ")") ||
			t.Is(token.Punct, "]") || t.Is(token.Punct, "}") || t.Is(token.Punct, ";")) {
			break
		}
		if t.Is(token.Punct, "(") || t.Is(token.Punct, "{") || t.Is(token.Punct, "[") {
			depth++
		} else if t.Is(token.Punct, ")") || t.Is(token.Punct, "}") || t.Is(token.Punct, "]") {
			depth--
		}
		last = p.advance()
	}
	return hcl.Range{Filename: p.filename, Start: start.Start, End: last.End}, nil
}

func (p *parser) parseArrayLit() (ast.Expr, *hcl.Diagnostic) {
	open := p.cur()
	p.advance()
	arr := &ast.ArrayLit{}
	for !p.cur().Is(token.Punct, "]") && !p.atEOF() {
		el, err := p.parseLiteralExpr()
		if err != nil {
			return nil, err
		}
		arr.Elements = append(arr.Elements, el)
		if p.cur().Is(token.Punct, ",") {
			p.advance()
		}
	}
	close, err := p.expectPunct("]")
	if err != nil {
		return nil, err
	}
	arr.Range = hcl.Range{Filename: p.filename, Start: open.Start, End: close.End}
	return arr, nil
}

func (p *parser) parseObjectLit() (ast.Expr, *hcl.Diagnostic) {
	open := p.cur()
	p.advance()
	obj := &ast.ObjectLit{}
	for !p.cur().Is(token.Punct, "}") && !p.atEOF() {
		keyTok := p.cur()
		var key string
		var keyRange hcl.Range

		switch {
		case keyTok.Kind == token.Ident:
			key = keyTok.Value
			keyRange = p.rng(keyTok)
			p.advance()
		case keyTok.Kind == token.String:
			key = keyTok.Value
			keyRange = p.rng(keyTok)
			p.advance()
		case keyTok.Is(token.Punct, "["):
			// Computed key: not representable as an AST literal.
			rng, err := p.spanBalancedRange("[", "]")
			if err != nil {
				return nil, err
			}
			if p.cur().Is(token.Punct, ":") {
				p.advance()
				if _, err := p.parseLiteralExpr(); err != nil {
					return nil, err
				}
			}
			obj.Props = append(obj.Props, ast.ObjectProp{
				Key: "", KeyRange: rng,
				Value: &ast.NonLiteral{Description: "computed key", Range: rng},
			})
			if p.cur().Is(token.Punct, ",") {
				p.advance()
			}
			continue
		case keyTok.Is(token.Punct, "..."):
			// Spread property: not representable as an AST literal.
			rng, err := p.spanNonLiteral()
			if err != nil {
				return nil, err
			}
			obj.Props = append(obj.Props, ast.ObjectProp{
				Key: "...", KeyRange: rng,
				Value: &ast.NonLiteral{Description: "spread", Range: rng},
			})
			if p.cur().Is(token.Punct, ",") {
				p.advance()
			}
			continue
		default:
			return nil, p.errf(keyTok, "expected object literal key")
		}

		if !p.cur().Is(token.Punct, ":") {
			return nil, p.errf(p.cur(), "expected ':' after object literal key")
		}
		p.advance()

		val, err := p.parseLiteralExpr()
		if err != nil {
			return nil, err
		}
		obj.Props = append(obj.Props, ast.ObjectProp{Key: key, KeyRange: keyRange, Value: val})

		if p.cur().Is(token.Punct, ",") {
			p.advance()
		}
	}
	close, err := p.expectPunct("}")
	if err != nil {
		return nil, err
	}
	obj.Range = hcl.Range{Filename: p.filename, Start: open.Start, End: close.End}
	return obj, nil
}

func (p *parser) spanBalancedRange(open, close string) (hcl.Range, *hcl.Diagnostic) {
	return p.spanBalanced(open, close)
}
