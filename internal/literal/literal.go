// Package literal decodes internal/ast decorator-argument expressions into
// cty.Value, a generic typed-value representation borrowed for this purpose
// instead of a bespoke one. A decorator argument is restricted to
// string/number/bool/null/array/object literals; anything else surfaces as
// a diagnostic rather than a Go panic, since arbitrary decorator argument
// shapes (unlike a fixed type keyword grammar) are exactly the input this
// package is built to validate.
package literal

import (
	"strconv"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"

	"github.com/arc-lang/arc/internal/ast"
	"github.com/arc-lang/arc/internal/diag"
)

// Decode converts a literal-only expression into a cty.Value. Diagnostics
// are accumulated (rather than returned singly) so a malformed object
// literal reports every offending field in one pass instead of stopping at
// the first.
func Decode(expr ast.Expr) (cty.Value, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	v := decode(expr, &diags)
	return v, diags
}

func decode(expr ast.Expr, diags *hcl.Diagnostics) cty.Value {
	switch e := expr.(type) {
	case *ast.StringLit:
		return cty.StringVal(e.Value)

	case *ast.NumberLit:
		f, err := strconv.ParseFloat(e.Value, 64)
		if err != nil {
			*diags = append(*diags, diag.Errorf(diag.CodeInvalidLiteral, e.Range,
				"Invalid number literal", "could not parse %q as a number: %s", e.Value, err))
			return cty.NilVal
		}
		return cty.NumberFloatVal(f)

	case *ast.BoolLit:
		return cty.BoolVal(e.Value)

	case *ast.NullLit:
		return cty.NullVal(cty.DynamicPseudoType)

	case *ast.ArrayLit:
		if len(e.Elements) == 0 {
			return cty.EmptyTupleVal
		}
		vals := make([]cty.Value, 0, len(e.Elements))
		for _, el := range e.Elements {
			vals = append(vals, decode(el, diags))
		}
		return cty.TupleVal(vals)

	case *ast.ObjectLit:
		attrs := make(map[string]cty.Value, len(e.Props))
		for _, prop := range e.Props {
			if prop.Key == "" {
				*diags = append(*diags, diag.Errorf(diag.CodeInvalidLiteral, prop.KeyRange,
					"Computed object key not allowed",
					"decorator argument object keys must be plain identifiers or string literals"))
				continue
			}
			attrs[prop.Key] = decode(prop.Value, diags)
		}
		if len(attrs) == 0 {
			return cty.EmptyObjectVal
		}
		return cty.ObjectVal(attrs)

	case *ast.NonLiteral:
		*diags = append(*diags, diag.Errorf(diag.CodeInvalidLiteral, e.Range,
			"Decorator argument must be a literal",
			"found %s; decorator arguments may only contain string, number, boolean, null, array, and object literals", e.Description))
		return cty.NilVal

	default:
		*diags = append(*diags, diag.Errorf(diag.CodeInvalidLiteral, expr.ExprRange(),
			"Unsupported decorator argument expression", "unrecognized expression shape"))
		return cty.NilVal
	}
}

// StringSlice extracts a []string from a cty.Value expected to be a tuple
// (array) of strings, per the `tools:string[]` / `members:string[]` shape
// rules for decorator arguments. Diagnostics are appended (not returned
// singly) so the caller can report every offending element.
func StringSlice(v cty.Value, rng hcl.Range, diags *hcl.Diagnostics) []string {
	if v.IsNull() || !v.CanIterateElements() {
		*diags = append(*diags, diag.Errorf(diag.CodeInvalidFieldType, rng,
			"Expected an array of strings", "value is not an array literal"))
		return nil
	}
	var out []string
	for it := v.ElementIterator(); it.Next(); {
		_, ev := it.Element()
		if ev.Type() != cty.String {
			*diags = append(*diags, diag.Errorf(diag.CodeInvalidFieldType, rng,
				"Expected an array of strings", "found a non-string element"))
			continue
		}
		out = append(out, ev.AsString())
	}
	return out
}

// ToGo converts a decoded cty.Value back into a plain Go value suitable
// for encoding/json: string, float64, bool, nil, []any, or map[string]any.
// Arc keeps manifest fields as plain Go values rather than cty.Value
// wrappers so the final manifest JSON carries no type-tag envelope —
// cty.Value's job ends at decode-time validation.
func ToGo(v cty.Value) any {
	if !v.IsKnown() || v.IsNull() {
		return nil
	}
	switch {
	case v.Type() == cty.String:
		return v.AsString()
	case v.Type() == cty.Bool:
		return v.True()
	case v.Type() == cty.Number:
		f, _ := v.AsBigFloat().Float64()
		return f
	case v.Type().IsTupleType() || v.Type().IsListType() || v.Type().IsSetType():
		out := make([]any, 0)
		for it := v.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			out = append(out, ToGo(ev))
		}
		return out
	case v.Type().IsObjectType() || v.Type().IsMapType():
		out := make(map[string]any)
		for it := v.ElementIterator(); it.Next(); {
			kv, ev := it.Element()
			out[kv.AsString()] = ToGo(ev)
		}
		return out
	default:
		return nil
	}
}

// ToGoMap converts an object-typed cty.Value into a map[string]any,
// returning nil for a null/absent value (so manifest fields stay
// `omitempty`-friendly rather than becoming an explicit JSON null).
func ToGoMap(v cty.Value) map[string]any {
	if v == cty.NilVal || v.IsNull() {
		return nil
	}
	g := ToGo(v)
	m, _ := g.(map[string]any)
	return m
}
