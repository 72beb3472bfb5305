package manifest

import (
	"bytes"
	"encoding/json"
	"sort"
)

// Synthesize combines the extracted entities into one Aria manifest value,
// sorting each collection by name for a stable, diffable manifest. name
// and version come from the project configuration, never from the source.
func Synthesize(name, version string, tools []Tool, agents []Agent, teams []Team, pipelines []Pipeline) Aria {
	tools = append([]Tool(nil), tools...)
	agents = append([]Agent(nil), agents...)
	teams = append([]Team(nil), teams...)
	pipelines = append([]Pipeline(nil), pipelines...)

	sort.Slice(tools, func(i, j int) bool { return tools[i].Name < tools[j].Name })
	sort.Slice(agents, func(i, j int) bool { return agents[i].Name < agents[j].Name })
	sort.Slice(teams, func(i, j int) bool { return teams[i].Name < teams[j].Name })
	sort.Slice(pipelines, func(i, j int) bool { return pipelines[i].Name < pipelines[j].Name })

	return Aria{
		Name:      name,
		Version:   version,
		Tools:     tools,
		Agents:    agents,
		Teams:     teams,
		Pipelines: pipelines,
	}
}

func (m Aria) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"name":      m.Name,
		"version":   m.Version,
		"tools":     orEmptyToolSlice(m.Tools),
		"agents":    orEmptyAgentSlice(m.Agents),
		"teams":     orEmptyTeamSlice(m.Teams),
		"pipelines": orEmptyPipelineSlice(m.Pipelines),
	})
}

func orEmptyToolSlice(s []Tool) []Tool {
	if s == nil {
		return []Tool{}
	}
	return s
}

func orEmptyAgentSlice(s []Agent) []Agent {
	if s == nil {
		return []Agent{}
	}
	return s
}

func orEmptyTeamSlice(s []Team) []Team {
	if s == nil {
		return []Team{}
	}
	return s
}

func orEmptyPipelineSlice(s []Pipeline) []Pipeline {
	if s == nil {
		return []Pipeline{}
	}
	return s
}

// MarshalCanonical renders the manifest as two-space-indented JSON with a
// trailing newline, a stable textual form suitable for committing and
// diffing. encoding/json already emits struct-unrelated map keys in
// sorted order, which covers the "sorted object keys" half of that
// stability for every dynamic (inputs/outputs/variables/condition) field.
func (m Aria) MarshalCanonical() ([]byte, error) {
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
