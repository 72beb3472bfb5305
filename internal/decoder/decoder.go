// Package decoder turns visitor.Calls into typed manifest.* records,
// enforcing the per-decorator shape rules for each entity kind. It
// performs a two-layer "raw syntax -> format-agnostic model" translation,
// one level further up than usual: here the "raw syntax" is already a
// decoded cty.Value rather than an hcl.Body.
package decoder

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"

	"github.com/arc-lang/arc/internal/diag"
	"github.com/arc-lang/arc/internal/literal"
	"github.com/arc-lang/arc/internal/manifest"
	"github.com/arc-lang/arc/internal/visitor"
)

var knownToolKeys = map[string]bool{"name": true, "description": true, "inputs": true, "outputs": true}
var knownAgentKeys = map[string]bool{"name": true, "description": true, "tools": true}
var knownTeamKeys = map[string]bool{"name": true, "description": true, "members": true}
var knownPipelineKeys = map[string]bool{"name": true, "description": true, "variables": true, "steps": true, "errorStrategy": true}
var knownStepKeys = map[string]bool{"id": true, "type": true, "tool": true, "agent": true, "team": true,
	"dependencies": true, "inputs": true, "outputs": true, "condition": true, "timeout": true}

// argObject decodes a call's argument into a cty object, reporting the
// DecoratorShape error ("argument must be an object literal") when the
// argument is missing or not an object.
func argObject(call visitor.Call, diags *hcl.Diagnostics) (cty.Value, map[string]any, bool) {
	if call.Arg == nil {
		*diags = append(*diags, diag.Errorf(diag.CodeMissingField, call.ArgRange,
			"Missing decorator argument", "@%s requires a single object-literal argument", call.Kind))
		return cty.NilVal, nil, false
	}
	v, exprDiags := literal.Decode(call.Arg)
	*diags = append(*diags, exprDiags...)
	if exprDiags.HasErrors() {
		return cty.NilVal, nil, false
	}
	if v.IsNull() || !v.Type().IsObjectType() {
		*diags = append(*diags, diag.Errorf(diag.CodeInvalidFieldType, call.Arg.ExprRange(),
			"Decorator argument must be an object literal", "@%s's argument must be a single object literal", call.Kind))
		return cty.NilVal, nil, false
	}
	return v, literal.ToGoMap(v), true
}

func requireString(obj cty.Value, key string, rng hcl.Range, diags *hcl.Diagnostics) string {
	if !obj.Type().HasAttribute(key) {
		*diags = append(*diags, diag.Errorf(diag.CodeMissingField, rng,
			"Missing required field", "required field %q is absent", key))
		return ""
	}
	v := obj.GetAttr(key)
	if v.IsNull() || v.Type() != cty.String {
		*diags = append(*diags, diag.Errorf(diag.CodeInvalidFieldType, rng,
			"Field has the wrong type", "field %q must be a string literal", key))
		return ""
	}
	return v.AsString()
}

func optionalStringSlice(obj cty.Value, key string, rng hcl.Range, diags *hcl.Diagnostics) []string {
	if !obj.Type().HasAttribute(key) {
		return nil
	}
	return literal.StringSlice(obj.GetAttr(key), rng, diags)
}

func requireStringSlice(obj cty.Value, key string, rng hcl.Range, diags *hcl.Diagnostics) []string {
	if !obj.Type().HasAttribute(key) {
		*diags = append(*diags, diag.Errorf(diag.CodeMissingField, rng,
			"Missing required field", "required field %q is absent", key))
		return nil
	}
	return literal.StringSlice(obj.GetAttr(key), rng, diags)
}

func extraOf(all map[string]any, known map[string]bool) map[string]any {
	if len(all) == 0 {
		return nil
	}
	out := make(map[string]any)
	for k, v := range all {
		if !known[k] {
			out[k] = v
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func objectField(obj cty.Value, key string, rng hcl.Range, diags *hcl.Diagnostics) map[string]any {
	if !obj.Type().HasAttribute(key) {
		return nil
	}
	v := obj.GetAttr(key)
	if v.IsNull() {
		return nil
	}
	if !v.Type().IsObjectType() && !v.Type().IsMapType() {
		*diags = append(*diags, diag.Errorf(diag.CodeInvalidFieldType, rng,
			"Field has the wrong type", "field %q must be an object literal", key))
		return nil
	}
	return literal.ToGoMap(v)
}

// Tool decodes a `tool` Call into a manifest.Tool.
func Tool(call visitor.Call) (manifest.Tool, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	obj, all, ok := argObject(call, &diags)
	if !ok {
		return manifest.Tool{}, diags
	}
	name := requireString(obj, "name", call.Arg.ExprRange(), &diags)
	if name == "" {
		diags = append(diags, diag.Errorf(diag.CodeInvalidFieldType, call.Arg.ExprRange(),
			"Invalid tool name", "tool name must be non-empty"))
	}
	return manifest.Tool{
		Name:        name,
		Description: requireString(obj, "description", call.Arg.ExprRange(), &diags),
		Inputs:      objectField(obj, "inputs", call.Arg.ExprRange(), &diags),
		Outputs:     objectField(obj, "outputs", call.Arg.ExprRange(), &diags),
		Extra:       extraOf(all, knownToolKeys),
	}, diags
}

// Agent decodes an `agent` Call into a manifest.Agent.
func Agent(call visitor.Call) (manifest.Agent, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	obj, all, ok := argObject(call, &diags)
	if !ok {
		return manifest.Agent{}, diags
	}
	return manifest.Agent{
		Name:        requireString(obj, "name", call.Arg.ExprRange(), &diags),
		Description: requireString(obj, "description", call.Arg.ExprRange(), &diags),
		Tools:       requireStringSlice(obj, "tools", call.Arg.ExprRange(), &diags),
		Extra:       extraOf(all, knownAgentKeys),
	}, diags
}

// Team decodes a `team` Call into a manifest.Team.
func Team(call visitor.Call) (manifest.Team, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	obj, all, ok := argObject(call, &diags)
	if !ok {
		return manifest.Team{}, diags
	}
	return manifest.Team{
		Name:        requireString(obj, "name", call.Arg.ExprRange(), &diags),
		Description: requireString(obj, "description", call.Arg.ExprRange(), &diags),
		Members:     requireStringSlice(obj, "members", call.Arg.ExprRange(), &diags),
		Extra:       extraOf(all, knownTeamKeys),
	}, diags
}

// Pipeline decodes a `pipeline` Call into a manifest.Pipeline.
func Pipeline(call visitor.Call) (manifest.Pipeline, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	obj, all, ok := argObject(call, &diags)
	if !ok {
		return manifest.Pipeline{}, diags
	}
	rng := call.Arg.ExprRange()

	p := manifest.Pipeline{
		Name:          requireString(obj, "name", rng, &diags),
		Description:   requireString(obj, "description", rng, &diags),
		Variables:     objectField(obj, "variables", rng, &diags),
		ErrorStrategy: objectField(obj, "errorStrategy", rng, &diags),
		Extra:         extraOf(all, knownPipelineKeys),
	}

	if obj.Type().HasAttribute("steps") {
		stepsVal := obj.GetAttr("steps")
		if stepsVal.IsNull() || !stepsVal.CanIterateElements() {
			diags = append(diags, diag.Errorf(diag.CodeInvalidFieldType, rng,
				"Invalid steps field", "steps must be an array of step objects"))
		} else {
			for it := stepsVal.ElementIterator(); it.Next(); {
				_, stepVal := it.Element()
				step, stepDiags := decodeStep(stepVal, rng)
				diags = append(diags, stepDiags...)
				p.Steps = append(p.Steps, step)
			}
		}
	}

	return p, diags
}

func decodeStep(stepVal cty.Value, fallbackRng hcl.Range) (manifest.Step, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	if stepVal.IsNull() || !stepVal.Type().IsObjectType() {
		diags = append(diags, diag.Errorf(diag.CodeInvalidFieldType, fallbackRng,
			"Invalid pipeline step", "each step must be an object literal"))
		return manifest.Step{}, diags
	}

	step := manifest.Step{
		ID:   requireString(stepVal, "id", fallbackRng, &diags),
		Type: requireString(stepVal, "type", fallbackRng, &diags),
	}

	switch step.Type {
	case "tool", "agent", "team":
		step.Target = requireString(stepVal, step.Type, fallbackRng, &diags)
	case "":
		// already reported by requireString above
	default:
		diags = append(diags, diag.Errorf(diag.CodeInvalidFieldType, fallbackRng,
			"Invalid step type", "step type must be one of \"tool\", \"agent\", \"team\"; got %q", step.Type))
	}

	step.Dependencies = optionalStringSlice(stepVal, "dependencies", fallbackRng, &diags)
	step.Inputs = objectField(stepVal, "inputs", fallbackRng, &diags)
	step.Outputs = objectField(stepVal, "outputs", fallbackRng, &diags)
	step.Condition = objectField(stepVal, "condition", fallbackRng, &diags)

	if stepVal.Type().HasAttribute("timeout") {
		tv := stepVal.GetAttr("timeout")
		if !tv.IsNull() && tv.Type() == cty.Number {
			f, _ := tv.AsBigFloat().Float64()
			step.Timeout = &f
		} else if !tv.IsNull() {
			diags = append(diags, diag.Errorf(diag.CodeInvalidFieldType, fallbackRng,
				"Invalid timeout", "timeout must be a number literal"))
		}
	}

	all := literal.ToGoMap(stepVal)
	step.Extra = extraOf(all, knownStepKeys)

	return step, diags
}
