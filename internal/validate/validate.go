package validate

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"

	"github.com/arc-lang/arc/internal/diag"
	"github.com/arc-lang/arc/internal/manifest"
)

// Entity pairs a decoded manifest record with the source span it came
// from, so validator diagnostics can point back at the decorator
// application that produced it.
type Entity[T any] struct {
	Value T
	Range hcl.Range
}

// Entities is the complete set of decoded records the validator checks,
// gathered once the extraction barrier has joined every per-file task.
type Entities struct {
	Tools     []Entity[manifest.Tool]
	Agents    []Entity[manifest.Agent]
	Teams     []Entity[manifest.Team]
	Pipelines []Entity[manifest.Pipeline]
}

// Run performs every syntactical, per-entity check: global uniqueness,
// duplicate-member warnings, and pipeline step shape and DAG soundness.
// Errors and warnings are both returned; the caller decides whether to
// abort bundle emission based on diag.Sink.HasErrors() after adding them.
func Run(e Entities) hcl.Diagnostics {
	var diags hcl.Diagnostics
	diags = append(diags, checkUniqueness(e)...)
	diags = append(diags, checkTeamShape(e.Teams)...)
	diags = append(diags, checkAgentShape(e.Agents)...)
	diags = append(diags, checkPipelines(e.Pipelines)...)
	return diags
}

func checkUniqueness(e Entities) hcl.Diagnostics {
	var diags hcl.Diagnostics
	seen := make(map[manifest.EntityKey]hcl.Range)

	check := func(key manifest.EntityKey, rng hcl.Range) {
		if first, ok := seen[key]; ok {
			diags = append(diags, diag.Errorf(diag.CodeDuplicateName, rng,
				"Duplicate entity name",
				"%s is already defined at %s:%d:%d", key, first.Filename, first.Start.Line, first.Start.Column))
			return
		}
		seen[key] = rng
	}

	for _, t := range e.Tools {
		check(t.Value.Key(), t.Range)
	}
	for _, a := range e.Agents {
		check(a.Value.Key(), a.Range)
	}
	for _, tm := range e.Teams {
		check(tm.Value.Key(), tm.Range)
	}
	for _, p := range e.Pipelines {
		check(p.Value.Key(), p.Range)
	}
	return diags
}

func checkTeamShape(teams []Entity[manifest.Team]) hcl.Diagnostics {
	var diags hcl.Diagnostics
	for _, t := range teams {
		if dup := firstDuplicate(t.Value.Members); dup != "" {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagWarning,
				Summary:  "Duplicate team member",
				Detail:   fmt.Sprintf("member %q is listed more than once in team %q", dup, t.Value.Name),
				Subject:  &t.Range,
			})
		}
	}
	return diags
}

func checkAgentShape(agents []Entity[manifest.Agent]) hcl.Diagnostics {
	var diags hcl.Diagnostics
	for _, a := range agents {
		if dup := firstDuplicate(a.Value.Tools); dup != "" {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagWarning,
				Summary:  "Duplicate agent tool",
				Detail:   fmt.Sprintf("tool %q is listed more than once in agent %q", dup, a.Value.Name),
				Subject:  &a.Range,
			})
		}
	}
	return diags
}

func firstDuplicate(items []string) string {
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		if seen[item] {
			return item
		}
		seen[item] = true
	}
	return ""
}

func checkPipelines(pipelines []Entity[manifest.Pipeline]) hcl.Diagnostics {
	var diags hcl.Diagnostics
	for _, p := range pipelines {
		diags = append(diags, checkPipeline(p)...)
	}
	return diags
}

func checkPipeline(p Entity[manifest.Pipeline]) hcl.Diagnostics {
	var diags hcl.Diagnostics

	ids := make(map[string]bool, len(p.Value.Steps))
	for _, step := range p.Value.Steps {
		if step.ID == "" {
			continue
		}
		if ids[step.ID] {
			diags = append(diags, diag.Errorf(diag.CodeDuplicateStepID, p.Range,
				"Duplicate pipeline step id",
				"step id %q is used more than once in pipeline %q", step.ID, p.Value.Name))
			continue
		}
		ids[step.ID] = true
	}

	g := NewGraph()
	for _, step := range p.Value.Steps {
		if step.ID != "" {
			g.AddNode(step.ID)
		}
	}
	for _, step := range p.Value.Steps {
		if step.ID == "" {
			continue
		}
		for _, dep := range step.Dependencies {
			if !ids[dep] {
				diags = append(diags, diag.Errorf(diag.CodeUnknownDependency, p.Range,
					"Unknown pipeline step dependency",
					"step %q in pipeline %q depends on undeclared step id %q", step.ID, p.Value.Name, dep))
				continue
			}
			g.AddEdge(dep, step.ID)
		}
	}

	if _, cycle := g.TopoSort(); len(cycle) > 0 {
		diags = append(diags, diag.Errorf(diag.CodePipelineCycle, p.Range,
			"Pipeline step dependency cycle",
			"pipeline %q has a dependency cycle involving steps: %v", p.Value.Name, cycle))
	}

	return diags
}
