// Package transpile produces the final, portable source text for one
// captured code unit: its recognized decorator applications removed and
// its static-type-only syntax erased. It never re-tokenizes or
// re-parses; internal/parser already recorded every byte
// range that needs to disappear (ast.Decorator.Range for decorator
// applications, ast.FuncDecl.Erasures/ast.ClassDecl.Erasures for type
// annotations, generic parameter lists, and TS-only modifiers), so
// transpiling is just cutting those ranges out of the original bytes.
package transpile

import (
	"sort"

	"github.com/hashicorp/hcl/v2"

	"github.com/arc-lang/arc/internal/ast"
	"github.com/arc-lang/arc/internal/visitor"
)

// Unit transpiles the code unit call.TargetRange spans out of src, the
// full byte contents of the file call was extracted from. file must be
// the internal/ast.File that produced call, so the declaration (or,
// for a class-method tool, the enclosing class and its members) backing
// TargetRange can be found again.
func Unit(src []byte, file *ast.File, call visitor.Call) string {
	decorators, erasures := collect(file, call.TargetRange)

	cuts := make([]cutRange, 0, len(decorators)+len(erasures))
	for _, d := range decorators {
		cuts = append(cuts, cutRange{start: d.Range.Start.Byte, end: d.Range.End.Byte})
	}
	for _, e := range erasures {
		cuts = append(cuts, cutRange{start: e.Start.Byte, end: e.End.Byte})
	}
	cuts = mergeCuts(cuts)

	start := call.TargetRange.Start.Byte
	end := call.TargetRange.End.Byte
	if start < 0 || end > len(src) || start > end {
		return ""
	}

	var out []byte
	pos := start
	for _, c := range cuts {
		if c.end <= pos || c.start >= end {
			continue
		}
		cutStart, cutEnd := c.start, c.end
		if cutStart < pos {
			cutStart = pos
		}
		if cutEnd > end {
			cutEnd = end
		}
		out = append(out, src[pos:cutStart]...)
		pos = cutEnd
	}
	out = append(out, src[pos:end]...)

	return string(out)
}

type cutRange struct {
	start, end int
}

// mergeCuts sorts ranges by start offset and merges any that overlap or
// touch, so Unit never double-counts a byte span that both a decorator
// and an adjacent erasure happen to cover.
func mergeCuts(cuts []cutRange) []cutRange {
	if len(cuts) == 0 {
		return cuts
	}
	sort.Slice(cuts, func(i, j int) bool { return cuts[i].start < cuts[j].start })
	merged := cuts[:1]
	for _, c := range cuts[1:] {
		last := &merged[len(merged)-1]
		if c.start <= last.end {
			if c.end > last.end {
				last.end = c.end
			}
			continue
		}
		merged = append(merged, c)
	}
	return merged
}

// collect finds the declaration (or class-with-members) backing target
// and returns its recognized decorator applications and erasure ranges.
func collect(file *ast.File, target hcl.Range) ([]*ast.Decorator, []hcl.Range) {
	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			if sameRange(d.Range, target) {
				return recognizedOnly(d.Decorators), d.Erasures
			}
		case *ast.ClassDecl:
			if sameRange(d.Range, target) {
				decorators := recognizedOnly(d.Decorators)
				for _, m := range d.Members {
					decorators = append(decorators, recognizedOnly(m.Decorators)...)
				}
				return decorators, d.Erasures
			}
		}
	}
	return nil, nil
}

func recognizedOnly(decs []*ast.Decorator) []*ast.Decorator {
	var out []*ast.Decorator
	for _, d := range decs {
		if visitor.IsRecognized(d.Name) {
			out = append(out, d)
		}
	}
	return out
}

func sameRange(a, b hcl.Range) bool {
	return a.Start.Byte == b.Start.Byte && a.End.Byte == b.End.Byte
}
