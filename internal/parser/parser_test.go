package parser

import (
	"sort"
	"testing"

	"github.com/hashicorp/hcl/v2"

	"github.com/arc-lang/arc/internal/ast"
)

func TestParse_ParsesAFunctionDeclWithDecoratorsAndParams(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	src := []byte(`@tool({ name: "greet" })
function greet(name: string, times: number = 1): string {
  return name.repeat(times);
}
`)

	// --- Act ---
	file, diag := Parse("greet.ts", src)

	// --- Assert ---
	if diag != nil {
		t.Fatalf("Parse: %v", diag)
	}
	if len(file.Decls) != 1 {
		t.Fatalf("expected 1 declaration, got %d", len(file.Decls))
	}
	fn, ok := file.Decls[0].(*ast.FuncDecl)
	if !ok {
		t.Fatalf("expected *ast.FuncDecl, got %T", file.Decls[0])
	}
	if fn.Name != "greet" || len(fn.Decorators) != 1 || fn.Decorators[0].Name != "tool" {
		t.Fatalf("unexpected function decl: %+v", fn)
	}
	if len(fn.Params) != 2 || fn.Params[0].Name != "name" || fn.Params[1].Name != "times" {
		t.Fatalf("unexpected params: %+v", fn.Params)
	}
}

func TestParse_ErasesParameterAndReturnTypeAnnotations(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	src := []byte(`function greet(name: string, times: number = 1): string {
  return name;
}`)

	// --- Act ---
	file, diag := Parse("greet.ts", src)

	// --- Assert ---
	if diag != nil {
		t.Fatalf("Parse: %v", diag)
	}
	fn := file.Decls[0].(*ast.FuncDecl)
	got := applyErasures(src, fn.Erasures)
	if got != "function greet(name, times = 1) {\n  return name;\n}" {
		t.Errorf("unexpected erased signature:\n%s", got)
	}
}

func TestParse_ErasesGenericTypeParametersOnAFunction(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	src := []byte(`function identity<T>(value: T): T {
  return value;
}`)

	// --- Act ---
	file, diag := Parse("identity.ts", src)

	// --- Assert ---
	if diag != nil {
		t.Fatalf("Parse: %v", diag)
	}
	fn := file.Decls[0].(*ast.FuncDecl)
	got := applyErasures(src, fn.Erasures)
	if got != "function identity(value) {\n  return value;\n}" {
		t.Errorf("unexpected erased signature:\n%s", got)
	}
}

func TestParse_ParsesAClassWithATSOnlyFieldAndAnErasedMethodSignature(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	src := []byte(`class Widgets {
  private db: Database;

  async listWidgets(limit: number): Promise<string[]> {
    return [];
  }
}`)

	// --- Act ---
	file, diag := Parse("widgets.ts", src)

	// --- Assert ---
	if diag != nil {
		t.Fatalf("Parse: %v", diag)
	}
	cls := file.Decls[0].(*ast.ClassDecl)
	if cls.Name != "Widgets" || len(cls.Members) != 2 {
		t.Fatalf("unexpected class decl: %+v", cls)
	}
	if cls.Members[0].IsMethod {
		t.Errorf("expected the first member to be a field, got %+v", cls.Members[0])
	}
	if !cls.Members[1].IsMethod {
		t.Errorf("expected the second member to be a method, got %+v", cls.Members[1])
	}

	got := applyErasures(src, cls.Erasures)
	if got != "class Widgets {\n  db;\n\n  async listWidgets(limit) {\n    return [];\n  }\n}" {
		t.Errorf("unexpected erased class body:\n%s", got)
	}
}

func TestParse_ReportsASyntaxErrorAsTheFirstFatalDiagnostic(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	src := []byte(`function broken(`)

	// --- Act ---
	_, diag := Parse("broken.ts", src)

	// --- Assert ---
	if diag == nil {
		t.Fatal("expected a fatal parse diagnostic")
	}
}

func TestParse_RecordsImportBindings(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	src := []byte(`import { z, ZodSchema } from "zod";

function noop(): void {}`)

	// --- Act ---
	file, diag := Parse("noop.ts", src)

	// --- Assert ---
	if diag != nil {
		t.Fatalf("Parse: %v", diag)
	}
	if len(file.Imports) != 1 || len(file.Imports[0].Names) != 2 {
		t.Fatalf("unexpected imports: %+v", file.Imports)
	}
	if file.Imports[0].Specifier != "zod" {
		t.Errorf("expected specifier %q, got %q", "zod", file.Imports[0].Specifier)
	}
}

// applyErasures deletes every erased byte range from src, the same
// sort-and-cut approach internal/transpile uses for the final code unit,
// scoped here to just the recorded erasures with no decorator stripping.
func applyErasures(src []byte, erasures []hcl.Range) string {
	ranges := append([]hcl.Range(nil), erasures...)
	sort.Slice(ranges, func(i, j int) bool { return ranges[i].Start.Byte < ranges[j].Start.Byte })

	var out []byte
	pos := 0
	for _, r := range ranges {
		if r.Start.Byte < pos {
			continue
		}
		out = append(out, src[pos:r.Start.Byte]...)
		pos = r.End.Byte
	}
	out = append(out, src[pos:]...)
	return string(out)
}
