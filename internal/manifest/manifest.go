// Package manifest defines Arc's output data model: the typed records the
// decoder produces and the synthesizer serializes. There is no separate
// schema layer: the records double as the wire format through their own
// MarshalJSON methods.
package manifest

import (
	"encoding/json"
	"fmt"
)

// Tool is the metadata for an @tool entity.
type Tool struct {
	Name        string
	Description string
	Inputs      map[string]any
	Outputs     map[string]any
	Extra       map[string]any
}

// Agent is the metadata for an @agent entity.
type Agent struct {
	Name        string
	Description string
	Tools       []string
	Extra       map[string]any
}

// Team is the metadata for an @team entity.
type Team struct {
	Name        string
	Description string
	Members     []string
	Extra       map[string]any
}

// Step is one node inside a Pipeline's step DAG.
type Step struct {
	ID           string
	Type         string // "tool" | "agent" | "team"
	Target       string
	Dependencies []string
	Inputs       map[string]any
	Outputs      map[string]any
	Condition    map[string]any
	Timeout      *float64
	Extra        map[string]any
}

// Pipeline is the metadata for an @pipeline entity.
type Pipeline struct {
	Name          string
	Description   string
	Variables     map[string]any
	Steps         []Step
	ErrorStrategy map[string]any
	Extra         map[string]any
}

// Aria is the single top-level manifest value synthesized from every
// extracted entity in a bundle.
type Aria struct {
	Name      string
	Version   string
	Tools     []Tool
	Agents    []Agent
	Teams     []Team
	Pipelines []Pipeline
}

// merge builds the JSON object for an entity: its known fields plus any
// forward-compatible extra keys captured verbatim from the decorator
// argument. Unrecognized keys are preserved in the manifest as-is but
// never validated.
func merge(known map[string]any, extra map[string]any) map[string]any {
	out := make(map[string]any, len(known)+len(extra))
	for k, v := range extra {
		out[k] = v
	}
	for k, v := range known {
		if v == nil {
			continue
		}
		out[k] = v
	}
	return out
}

func (t Tool) MarshalJSON() ([]byte, error) {
	known := map[string]any{"name": t.Name, "description": t.Description}
	if t.Inputs != nil {
		known["inputs"] = t.Inputs
	}
	if t.Outputs != nil {
		known["outputs"] = t.Outputs
	}
	return json.Marshal(merge(known, t.Extra))
}

func (a Agent) MarshalJSON() ([]byte, error) {
	known := map[string]any{"name": a.Name, "description": a.Description, "tools": orEmptySlice(a.Tools)}
	return json.Marshal(merge(known, a.Extra))
}

func (t Team) MarshalJSON() ([]byte, error) {
	known := map[string]any{"name": t.Name, "description": t.Description, "members": orEmptySlice(t.Members)}
	return json.Marshal(merge(known, t.Extra))
}

func (s Step) MarshalJSON() ([]byte, error) {
	known := map[string]any{
		"id":           s.ID,
		"type":         s.Type,
		s.Type:         s.Target,
		"dependencies": orEmptySlice(s.Dependencies),
	}
	if s.Inputs != nil {
		known["inputs"] = s.Inputs
	}
	if s.Outputs != nil {
		known["outputs"] = s.Outputs
	}
	if s.Condition != nil {
		known["condition"] = s.Condition
	}
	if s.Timeout != nil {
		known["timeout"] = *s.Timeout
	}
	return json.Marshal(merge(known, s.Extra))
}

func (p Pipeline) MarshalJSON() ([]byte, error) {
	known := map[string]any{"name": p.Name, "description": p.Description, "steps": p.Steps}
	if p.Variables != nil {
		known["variables"] = p.Variables
	}
	if p.ErrorStrategy != nil {
		known["errorStrategy"] = p.ErrorStrategy
	}
	return json.Marshal(merge(known, p.Extra))
}

func orEmptySlice(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// Key returns the (kind, name) identity used to enforce global entity
// uniqueness and the name-indexed archive layout.
func (t Tool) Key() EntityKey     { return EntityKey{Kind: "tool", Name: t.Name} }
func (a Agent) Key() EntityKey    { return EntityKey{Kind: "agent", Name: a.Name} }
func (t Team) Key() EntityKey     { return EntityKey{Kind: "team", Name: t.Name} }
func (p Pipeline) Key() EntityKey { return EntityKey{Kind: "pipeline", Name: p.Name} }

// EntityKey is the (kind, name) pair required unique within a bundle.
type EntityKey struct {
	Kind string
	Name string
}

func (k EntityKey) String() string { return fmt.Sprintf("%s.%s", k.Kind, k.Name) }
