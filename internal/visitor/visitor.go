// Package visitor walks an internal/ast.File once, recognizing decorated
// top-level declarations and producing one Call per recognized decorator
// application. It is deliberately thin: argument
// shape validation belongs to internal/decoder, and cross-file semantic
// checks belong to internal/validate. The visitor's only job is
// recognition, span capture, and dependency-identifier extraction.
package visitor

import (
	"github.com/hashicorp/hcl/v2"

	"github.com/arc-lang/arc/internal/ast"
	"github.com/arc-lang/arc/internal/diag"
)

// recognizedKinds is the fixed decorator-identifier vocabulary; anything
// else is left in place for the transpiler to pass through untouched.
var recognizedKinds = map[string]bool{
	"tool": true, "agent": true, "team": true, "pipeline": true,
}

// IsRecognized reports whether name is one of Arc's fixed decorator
// identifiers. internal/transpile uses this to decide which decorator
// applications to strip from a code unit's final source text.
func IsRecognized(name string) bool { return recognizedKinds[name] }

// Call is one recognized decorator application, ready for decoding.
type Call struct {
	Kind string // tool | agent | team | pipeline

	// Arg is the decorator's single argument expression. Nil means the
	// decorator was applied bare (`@tool` with no parens), which is itself
	// a shape error the decoder reports.
	Arg       ast.Expr
	ArgRange  hcl.Range // the decorator's whole span, used when Arg is nil
	CallRange hcl.Range // the `@kind(...)` span itself

	// TargetRange is the span of the captured code unit: the function's
	// own declaration for a function-hosted tool or an agent/team/pipeline
	// class, or the *enclosing class's* span for a class-method tool.
	TargetRange hcl.Range
	// TargetName is the host identifier — the function or method name, or
	// the class name. It is never the manifest name: the manifest name
	// comes only from the decoded argument, so the host identifier is
	// free to vary without affecting output.
	TargetName string
	// HostIsClass is true when TargetRange spans the enclosing class
	// rather than the decorated declaration itself (class-method tools).
	HostIsClass bool

	Dependencies []string
	OriginFile   string
}

// Extract walks file once and returns every recognized decorator
// application. importNames is the set of local bindings introduced by the
// file's own import statements, used to narrow each declaration's free
// identifiers down to actual module-level dependencies.
func Extract(file *ast.File, filename string) ([]Call, hcl.Diagnostics) {
	var calls []Call
	var diags hcl.Diagnostics

	importNames := make(map[string]bool)
	for _, imp := range file.Imports {
		for _, n := range imp.Names {
			importNames[n] = true
		}
	}

	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			for _, dec := range d.Decorators {
				if !recognizedKinds[dec.Name] {
					continue
				}
				if dec.Name != "tool" {
					diags = append(diags, diag.Errorf(diag.CodeUnknownDecorator, dec.NameRange,
						"Decorator not valid on a function",
						"@%s may only be applied to a class declaration; found it on function %q", dec.Name, d.Name))
					continue
				}
				calls = append(calls, Call{
					Kind:         dec.Name,
					Arg:          dec.Arg,
					ArgRange:     dec.Range,
					CallRange:    dec.Range,
					TargetRange:  d.Range,
					TargetName:   d.Name,
					Dependencies: intersect(d.FreeIdents, importNames),
					OriginFile:   filename,
				})
			}

		case *ast.ClassDecl:
			for _, dec := range d.Decorators {
				if !recognizedKinds[dec.Name] {
					continue
				}
				if dec.Name == "tool" {
					diags = append(diags, diag.Errorf(diag.CodeUnknownDecorator, dec.NameRange,
						"Decorator not valid on a class",
						"@tool may only be applied to a function declaration or a class method; found it on class %q", d.Name))
					continue
				}
				calls = append(calls, Call{
					Kind:         dec.Name,
					Arg:          dec.Arg,
					ArgRange:     dec.Range,
					CallRange:    dec.Range,
					TargetRange:  d.Range,
					TargetName:   d.Name,
					Dependencies: intersect(d.FreeIdents, importNames),
					OriginFile:   filename,
				})
			}

			for _, member := range d.Members {
				for _, dec := range member.Decorators {
					if dec.Name != "tool" {
						if recognizedKinds[dec.Name] {
							diags = append(diags, diag.Errorf(diag.CodeUnknownDecorator, dec.NameRange,
								"Decorator not valid on a class member",
								"@%s may only be applied to a class declaration; found it on member %q", dec.Name, member.Name))
						}
						continue
					}
					if !member.IsMethod {
						diags = append(diags, diag.Errorf(diag.CodeUnknownDecorator, dec.NameRange,
							"Decorator not valid on a field",
							"@tool may only be applied to a function declaration or a class method; found it on field %q", member.Name))
						continue
					}
					calls = append(calls, Call{
						Kind:         "tool",
						Arg:          dec.Arg,
						ArgRange:     dec.Range,
						CallRange:    dec.Range,
						TargetRange:  d.Range, // the whole enclosing class, not just the method
						TargetName:   member.Name,
						HostIsClass:  true,
						Dependencies: intersect(d.FreeIdents, importNames),
						OriginFile:   filename,
					})
				}
			}
		}
	}

	return calls, diags
}

func intersect(freeIdents []string, importNames map[string]bool) []string {
	var out []string
	for _, id := range freeIdents {
		if importNames[id] {
			out = append(out, id)
		}
	}
	return out
}
