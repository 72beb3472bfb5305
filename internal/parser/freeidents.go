package parser

import "github.com/arc-lang/arc/internal/token"

// jsKeywords excludes language keywords from free-identifier extraction;
// they're never import bindings so treating them as dependencies would be
// noise.
var jsKeywords = map[string]bool{
	"function": true, "class": true, "const": true, "let": true, "var": true,
	"if": true, "else": true, "for": true, "while": true, "do": true,
	"return": true, "break": true, "continue": true, "switch": true, "case": true,
	"default": true, "try": true, "catch": true, "finally": true, "throw": true,
	"new": true, "delete": true, "typeof": true, "instanceof": true, "in": true,
	"of": true, "this": true, "super": true, "extends": true, "implements": true,
	"import": true, "export": true, "from": true, "as": true, "async": true,
	"await": true, "yield": true, "static": true, "get": true, "set": true,
	"public": true, "private": true, "protected": true, "readonly": true,
	"interface": true, "enum": true, "type": true, "namespace": true, "declare": true,
	"true": true, "false": true, "null": true, "undefined": true, "void": true,
	"abstract": true, "override": true,
}

// freeIdentsInByteRange scans toks for identifiers lexically within
// [startByte, endByte) that are not immediately preceded by a `.` (so
// property accesses like `console.log` don't count `log` as free) and are
// not language keywords. Results are de-duplicated but otherwise appear in
// first-occurrence order, close enough to a "set of free identifiers" for
// dependency-list purposes: order is not semantically meaningful, but
// determinism is.
func freeIdentsInByteRange(toks []token.Token, startByte, endByte int) []string {
	seen := make(map[string]bool)
	var out []string
	for i, t := range toks {
		if t.Kind != token.Ident {
			continue
		}
		if t.Start.Byte < startByte || t.Start.Byte >= endByte {
			continue
		}
		if jsKeywords[t.Value] {
			continue
		}
		if i > 0 && toks[i-1].Is(token.Punct, ".") {
			continue
		}
		// Skip object-literal / parameter keys: `name:` at depth, heuristically
		// identified by the following token being `:` and the preceding
		// token being `{`, `,`, or `(` (i.e. not itself a value position).
		if i+1 < len(toks) && toks[i+1].Is(token.Punct, ":") && i > 0 {
			prev := toks[i-1]
			if prev.Is(token.Punct, "{") || prev.Is(token.Punct, ",") || prev.Is(token.Punct, "(") {
				continue
			}
		}
		if seen[t.Value] {
			continue
		}
		seen[t.Value] = true
		out = append(out, t.Value)
	}
	return out
}
