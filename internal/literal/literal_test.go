package literal

import (
	"testing"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"

	"github.com/arc-lang/arc/internal/ast"
)

func TestDecode_HandlesEveryLiteralKind(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	expr := &ast.ObjectLit{Props: []ast.ObjectProp{
		{Key: "name", Value: &ast.StringLit{Value: "greet"}},
		{Key: "count", Value: &ast.NumberLit{Value: "3"}},
		{Key: "enabled", Value: &ast.BoolLit{Value: true}},
		{Key: "nothing", Value: &ast.NullLit{}},
		{Key: "tags", Value: &ast.ArrayLit{Elements: []ast.Expr{&ast.StringLit{Value: "a"}, &ast.StringLit{Value: "b"}}}},
	}}

	// --- Act ---
	v, diags := Decode(expr)

	// --- Assert ---
	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	m := ToGoMap(v)
	if m["name"] != "greet" {
		t.Errorf("expected name=greet, got %v", m["name"])
	}
	if m["count"] != 3.0 {
		t.Errorf("expected count=3, got %v", m["count"])
	}
	if m["enabled"] != true {
		t.Errorf("expected enabled=true, got %v", m["enabled"])
	}
	if m["nothing"] != nil {
		t.Errorf("expected nothing=nil, got %v", m["nothing"])
	}
	tags, ok := m["tags"].([]any)
	if !ok || len(tags) != 2 || tags[0] != "a" || tags[1] != "b" {
		t.Errorf("expected tags=[a b], got %v", m["tags"])
	}
}

func TestDecode_RejectsANonLiteralArgument(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	expr := &ast.NonLiteral{Description: "identifier"}

	// --- Act ---
	_, diags := Decode(expr)

	// --- Assert ---
	if !diags.HasErrors() {
		t.Fatal("expected an error for a non-literal decorator argument")
	}
}

func TestDecode_ReportsAllOffendingObjectKeysInOnePass(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	expr := &ast.ObjectLit{Props: []ast.ObjectProp{
		{Key: "", Value: &ast.StringLit{Value: "computed-1"}},
		{Key: "", Value: &ast.StringLit{Value: "computed-2"}},
	}}

	// --- Act ---
	_, diags := Decode(expr)

	// --- Assert ---
	if len(diags) != 2 {
		t.Fatalf("expected both computed keys reported, got %d diagnostics: %v", len(diags), diags)
	}
}

func TestDecode_RejectsAnUnparseableNumberLiteral(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	expr := &ast.NumberLit{Value: "not-a-number"}

	// --- Act ---
	_, diags := Decode(expr)

	// --- Assert ---
	if !diags.HasErrors() {
		t.Fatal("expected an error for an unparseable number literal")
	}
}

func TestDecode_EmptyArrayAndObjectRoundTripAsEmptyNotNil(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	arr := &ast.ArrayLit{}
	obj := &ast.ObjectLit{}

	// --- Act ---
	arrVal, arrDiags := Decode(arr)
	objVal, objDiags := Decode(obj)

	// --- Assert ---
	if arrDiags.HasErrors() || objDiags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v %v", arrDiags, objDiags)
	}
	if got := ToGo(arrVal); len(got.([]any)) != 0 {
		t.Errorf("expected an empty slice, got %v", got)
	}
	if got := ToGoMap(objVal); len(got) != 0 {
		t.Errorf("expected an empty map, got %v", got)
	}
}

func TestStringSlice_ExtractsStringsAndFlagsNonStringElements(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	v := cty.TupleVal([]cty.Value{cty.StringVal("a"), cty.NumberIntVal(1)})
	var diags hcl.Diagnostics

	// --- Act ---
	out := StringSlice(v, hcl.Range{}, &diags)

	// --- Assert ---
	if !diags.HasErrors() {
		t.Fatal("expected an error for the non-string element")
	}
	if len(out) != 1 || out[0] != "a" {
		t.Errorf("expected the valid string to survive, got %v", out)
	}
}

func TestStringSlice_RejectsANonArrayValue(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	v := cty.StringVal("not-an-array")
	var diags hcl.Diagnostics

	// --- Act ---
	out := StringSlice(v, hcl.Range{}, &diags)

	// --- Assert ---
	if !diags.HasErrors() {
		t.Fatal("expected an error for a non-array value")
	}
	if out != nil {
		t.Errorf("expected a nil result, got %v", out)
	}
}

func TestToGoMap_ReturnsNilForNilOrNullValues(t *testing.T) {
	t.Parallel()

	// --- Act / Assert ---
	if got := ToGoMap(cty.NilVal); got != nil {
		t.Errorf("expected nil for cty.NilVal, got %v", got)
	}
	if got := ToGoMap(cty.NullVal(cty.DynamicPseudoType)); got != nil {
		t.Errorf("expected nil for a null value, got %v", got)
	}
}
