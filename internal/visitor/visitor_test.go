package visitor

import (
	"testing"

	"github.com/arc-lang/arc/internal/parser"
)

func TestExtract_RecognizesAFunctionHostedTool(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	src := []byte(`@tool({ name: "greet", description: "says hello" })
function greet(name: string): string {
  return "hello " + name;
}
`)
	file, diag := parser.Parse("greet.ts", src)
	if diag != nil {
		t.Fatalf("parse: %v", diag)
	}

	// --- Act ---
	calls, diags := Extract(file, "greet.ts")

	// --- Assert ---
	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if len(calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(calls))
	}
	if calls[0].Kind != "tool" || calls[0].TargetName != "greet" || calls[0].HostIsClass {
		t.Errorf("unexpected call: %+v", calls[0])
	}
}

func TestExtract_RecognizesAClassHostedAgent(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	src := []byte(`@agent({ name: "assistant", description: "helpful", tools: ["greet"] })
class Assistant {}
`)
	file, diag := parser.Parse("assistant.ts", src)
	if diag != nil {
		t.Fatalf("parse: %v", diag)
	}

	// --- Act ---
	calls, diags := Extract(file, "assistant.ts")

	// --- Assert ---
	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if len(calls) != 1 || calls[0].Kind != "agent" || calls[0].HostIsClass {
		t.Fatalf("unexpected calls: %+v", calls)
	}
}

func TestExtract_CapturesTheEnclosingClassForAToolMethod(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	src := []byte(`class Widgets {
  @tool({ name: "list_widgets", description: "lists widgets" })
  async listWidgets(): Promise<string[]> {
    return [];
  }
}
`)
	file, diag := parser.Parse("widgets.ts", src)
	if diag != nil {
		t.Fatalf("parse: %v", diag)
	}

	// --- Act ---
	calls, diags := Extract(file, "widgets.ts")

	// --- Assert ---
	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if len(calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(calls))
	}
	if !calls[0].HostIsClass {
		t.Error("expected HostIsClass for a class-method tool")
	}
	if calls[0].TargetName != "listWidgets" {
		t.Errorf("expected TargetName to stay the method name, got %q", calls[0].TargetName)
	}
}

func TestExtract_RejectsToolOnAClassDeclaration(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	src := []byte(`@tool({ name: "bad", description: "wrong host" })
class BadTool {}
`)
	file, diag := parser.Parse("bad.ts", src)
	if diag != nil {
		t.Fatalf("parse: %v", diag)
	}

	// --- Act ---
	_, diags := Extract(file, "bad.ts")

	// --- Assert ---
	if !diags.HasErrors() {
		t.Fatal("expected @tool on a class declaration to be rejected")
	}
}

func TestExtract_RejectsAgentOnAFunctionDeclaration(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	src := []byte(`@agent({ name: "bad", description: "wrong host" })
function bad(): void {}
`)
	file, diag := parser.Parse("bad.ts", src)
	if diag != nil {
		t.Fatalf("parse: %v", diag)
	}

	// --- Act ---
	_, diags := Extract(file, "bad.ts")

	// --- Assert ---
	if !diags.HasErrors() {
		t.Fatal("expected @agent on a function declaration to be rejected")
	}
}

func TestExtract_NarrowsDependenciesToImportedBindings(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	src := []byte(`import { helper } from "./helper";

@tool({ name: "greet", description: "says hello" })
function greet(): string {
  const local = 1;
  return helper(local);
}
`)
	file, diag := parser.Parse("greet.ts", src)
	if diag != nil {
		t.Fatalf("parse: %v", diag)
	}

	// --- Act ---
	calls, diags := Extract(file, "greet.ts")

	// --- Assert ---
	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if len(calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(calls))
	}
	deps := calls[0].Dependencies
	if len(deps) != 1 || deps[0] != "helper" {
		t.Errorf("expected only the imported identifier as a dependency, got %v", deps)
	}
}

func TestExtract_IgnoresUnrecognizedDecorators(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	src := []byte(`@memoize()
@tool({ name: "greet", description: "says hello" })
function greet(): string {
  return "hi";
}
`)
	file, diag := parser.Parse("greet.ts", src)
	if diag != nil {
		t.Fatalf("parse: %v", diag)
	}

	// --- Act ---
	calls, diags := Extract(file, "greet.ts")

	// --- Assert ---
	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if len(calls) != 1 {
		t.Fatalf("expected the unrecognized decorator to be skipped, got %d calls", len(calls))
	}
}
