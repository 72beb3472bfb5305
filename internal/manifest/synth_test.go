package manifest

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestSynthesize_SortsEachCollectionByName(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	tools := []Tool{{Name: "zeta"}, {Name: "alpha"}}
	agents := []Agent{{Name: "bravo"}, {Name: "alfa"}}

	// --- Act ---
	aria := Synthesize("demo", "0.1.0", tools, agents, nil, nil)

	// --- Assert ---
	if aria.Tools[0].Name != "alpha" || aria.Tools[1].Name != "zeta" {
		t.Errorf("expected tools sorted by name, got %v", aria.Tools)
	}
	if aria.Agents[0].Name != "alfa" || aria.Agents[1].Name != "bravo" {
		t.Errorf("expected agents sorted by name, got %v", aria.Agents)
	}
}

func TestSynthesize_DoesNotMutateCallerSlices(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	tools := []Tool{{Name: "zeta"}, {Name: "alpha"}}

	// --- Act ---
	Synthesize("demo", "0.1.0", tools, nil, nil, nil)

	// --- Assert ---
	if tools[0].Name != "zeta" {
		t.Errorf("Synthesize must not reorder the caller's own slice, got %v", tools)
	}
}

func TestMarshalCanonical_ProducesIndentedJSONWithTrailingNewline(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	aria := Synthesize("demo", "0.1.0", []Tool{{Name: "greet", Description: "says hello"}}, nil, nil, nil)

	// --- Act ---
	out, err := aria.MarshalCanonical()

	// --- Assert ---
	if err != nil {
		t.Fatalf("MarshalCanonical: %v", err)
	}
	if !strings.HasSuffix(string(out), "\n") {
		t.Error("expected a trailing newline")
	}
	if !strings.Contains(string(out), "  \"name\"") {
		t.Errorf("expected two-space indentation, got %s", out)
	}

	var decoded map[string]any
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded["name"] != "demo" {
		t.Errorf("expected name %q, got %v", "demo", decoded["name"])
	}
}

func TestMarshalJSON_EmitsEmptyArraysRatherThanNull(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	aria := Synthesize("demo", "0.1.0", nil, nil, nil, nil)

	// --- Act ---
	out, err := json.Marshal(aria)

	// --- Assert ---
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	for _, key := range []string{"tools", "agents", "teams", "pipelines"} {
		if decoded[key] == nil {
			t.Errorf("expected %q to be an empty array, not null", key)
		}
	}
}

func TestStepMarshalJSON_UsesTheStepTypeAsTheTargetKey(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	step := Step{ID: "fetch", Type: "tool", Target: "greet"}

	// --- Act ---
	out, err := json.Marshal(step)

	// --- Assert ---
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded["tool"] != "greet" {
		t.Errorf("expected the step's target under its type key %q, got %v", "tool", decoded)
	}
}

func TestToolMarshalJSON_PreservesExtraKeysVerbatim(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	tool := Tool{Name: "greet", Description: "says hello", Extra: map[string]any{"experimental": true}}

	// --- Act ---
	out, err := json.Marshal(tool)

	// --- Assert ---
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded["experimental"] != true {
		t.Errorf("expected the unknown key to survive verbatim, got %v", decoded)
	}
}

func TestMarshalCanonical_RoundTripsThroughJSONUnchanged(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	aria := Synthesize("demo", "0.1.0",
		[]Tool{{Name: "greet", Description: "says hello", Inputs: map[string]any{"name": "string"}, Extra: map[string]any{"experimental": true}}},
		[]Agent{{Name: "helper", Description: "helps", Tools: []string{"greet"}}},
		nil,
		[]Pipeline{{
			Name:        "onboard",
			Description: "onboards a user",
			Steps:       []Step{{ID: "fetch", Type: "tool", Target: "greet", Dependencies: []string{}}},
		}},
	)

	// --- Act ---
	first, err := aria.MarshalCanonical()
	if err != nil {
		t.Fatalf("MarshalCanonical: %v", err)
	}

	var decoded any
	if err := json.Unmarshal(first, &decoded); err != nil {
		t.Fatalf("re-parsing manifest.json: %v", err)
	}
	second, err := json.MarshalIndent(decoded, "", "  ")
	if err != nil {
		t.Fatalf("re-marshaling the decoded value: %v", err)
	}
	second = append(second, '\n')

	// --- Assert ---
	// Re-parsing the manifest and marshaling what comes back must produce
	// the identical bytes: the decoded value is structurally equal to the
	// manifest that was serialized, not merely similar.
	if string(first) != string(second) {
		t.Errorf("manifest did not round-trip through JSON unchanged:\nfirst:\n%s\nsecond:\n%s", first, second)
	}
}

func TestEntityKey_StringFormatsAsKindDotName(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	key := Tool{Name: "greet"}.Key()

	// --- Act ---
	s := key.String()

	// --- Assert ---
	if s != "tool.greet" {
		t.Errorf("expected %q, got %q", "tool.greet", s)
	}
}
