// Package projectconfig loads and validates a project's aria.toml: the
// [project]/[build]/[runtime] sections that make up Arc's input contract.
// It decodes with github.com/pelletier/go-toml/v2 and reports malformed
// or missing fields through Arc's own diagnostic model rather than bare
// errors.
package projectconfig

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/pelletier/go-toml/v2"

	"github.com/arc-lang/arc/internal/diag"
)

// Config is the full contents of an aria.toml file.
type Config struct {
	Project ProjectInfo   `toml:"project"`
	Build   BuildConfig   `toml:"build"`
	Runtime RuntimeConfig `toml:"runtime"`
}

// ProjectInfo is the `[project]` section.
type ProjectInfo struct {
	Name        string `toml:"name"`
	Version     string `toml:"version"`
	Description string `toml:"description"`
}

// BuildConfig is the `[build]` section.
type BuildConfig struct {
	Target     string   `toml:"target"` // "typescript" or "aria-dsl"
	Output     string   `toml:"output"`
	SourceDirs []string `toml:"source_dirs"`
	Exclude    []string `toml:"exclude"`
}

// RuntimeConfig is the `[runtime]` section.
type RuntimeConfig struct {
	BunVersion  string                `toml:"bun_version"`
	NodeVersion string                `toml:"node_version"`
	Environment []EnvironmentVariable `toml:"environment"`
}

// EnvironmentVariable is one entry of `[[runtime.environment]]`.
type EnvironmentVariable struct {
	Name     string `toml:"name"`
	Value    string `toml:"value"`
	Required bool   `toml:"required"`
}

// Default returns the default configuration values for a new project
// named name.
func Default(name string) Config {
	return Config{
		Project: ProjectInfo{
			Name:        name,
			Version:     "0.1.0",
			Description: "An Aria agentic application",
		},
		Build: BuildConfig{
			Target:     "typescript",
			Output:     fmt.Sprintf("dist/%s.aria", name),
			SourceDirs: []string{"src"},
			Exclude:    []string{"node_modules", "dist", "target", ".git"},
		},
		Runtime: RuntimeConfig{
			BunVersion: "latest",
		},
	}
}

// Load reads and parses path, then validates the result. A parse failure
// is reported as diag.CodeIOFailure; a validation failure as
// diag.CodeConfigInvalid. Both are fatal: the caller must not proceed to
// discovery without a valid Config.
func Load(path string) (Config, *hcl.Diagnostic) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, diag.Errorf(diag.CodeIOFailure, hcl.Range{Filename: path},
			"Cannot read project configuration", "%s", err)
	}

	var cfg Config
	if err := toml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, diag.Errorf(diag.CodeIOFailure, hcl.Range{Filename: path},
			"Cannot parse project configuration", "invalid TOML in %s: %s", path, err)
	}

	applyDefaults(&cfg)

	if d := Validate(cfg, path); d != nil {
		return Config{}, d
	}
	return cfg, nil
}

// applyDefaults fills in the handful of fields that are
// optional-with-a-default rather than required.
func applyDefaults(cfg *Config) {
	if len(cfg.Build.SourceDirs) == 0 {
		cfg.Build.SourceDirs = []string{"src"}
	}
	if len(cfg.Build.Exclude) == 0 {
		cfg.Build.Exclude = []string{"node_modules", "dist", "target", ".git"}
	}
	if cfg.Runtime.BunVersion == "" {
		cfg.Runtime.BunVersion = "latest"
	}
}

// Validate reports the configuration-shape errors: a non-empty project
// name and version, and a recognized build target. A config file is an
// IO-boundary input,
// so failures here are a single fatal diagnostic rather than entries in
// the per-entity diagnostic sink.
func Validate(cfg Config, path string) *hcl.Diagnostic {
	rng := hcl.Range{Filename: path}
	if cfg.Project.Name == "" {
		return diag.Errorf(diag.CodeConfigInvalid, rng, "Invalid project configuration", "project name cannot be empty")
	}
	if cfg.Project.Version == "" {
		return diag.Errorf(diag.CodeConfigInvalid, rng, "Invalid project configuration", "project version cannot be empty")
	}
	switch cfg.Build.Target {
	case "typescript", "aria-dsl":
	default:
		return diag.Errorf(diag.CodeConfigInvalid, rng, "Invalid project configuration",
			"invalid build target %q: must be \"typescript\" or \"aria-dsl\"", cfg.Build.Target)
	}
	return nil
}
