// Package compiler is Arc's top-level orchestrator: it wires
// internal/source, internal/parser, internal/visitor, internal/decoder,
// internal/transpile, internal/validate, internal/manifest, and
// internal/bundle together. Parsing, extraction, decoding, and
// transpilation run per file in parallel tasks; a barrier joins them
// before the single cross-file Validator pass; manifest synthesis and
// archive packaging are serial.
package compiler

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/hashicorp/hcl/v2"

	"github.com/arc-lang/arc/internal/bundle"
	"github.com/arc-lang/arc/internal/ctxlog"
	"github.com/arc-lang/arc/internal/decoder"
	"github.com/arc-lang/arc/internal/diag"
	"github.com/arc-lang/arc/internal/manifest"
	"github.com/arc-lang/arc/internal/parser"
	"github.com/arc-lang/arc/internal/projectconfig"
	"github.com/arc-lang/arc/internal/source"
	"github.com/arc-lang/arc/internal/transpile"
	"github.com/arc-lang/arc/internal/validate"
	"github.com/arc-lang/arc/internal/visitor"
)

// compilerVersion is stamped into metadata/build.json.
const compilerVersion = "0.1.0"

// Result carries the outcome of a single Compile call, including build
// metrics (file count, elapsed wall time, bundle size) useful for
// reporting and diagnostics beyond the bundle path itself.
type Result struct {
	OutputPath string

	FileCount     int
	ToolCount     int
	AgentCount    int
	TeamCount     int
	PipelineCount int

	Elapsed    time.Duration
	BundleSize int64

	Diagnostics hcl.Diagnostics
}

// Compile runs the full discover-through-package pipeline for the project
// rooted at projectDir using the already-loaded cfg. builtAt is a Unix
// timestamp stamped into the bundle's metadata/build.json record; the
// caller (cmd/arc) supplies it so Compile itself stays a pure function of
// its inputs rather than reading the clock internally. The Result carries
// the counts and diagnostics gathered so far (it is empty when source
// discovery fails). A non-nil *hcl.Diagnostic reports a fatal discovery,
// output-directory or bundle-write failure; the bundle is written only when
// it is nil and Result.Diagnostics has no errors.
func Compile(ctx context.Context, cfg projectconfig.Config, projectDir string, builtAt int64) (Result, *hcl.Diagnostic) {
	start := time.Now()
	log := ctxlog.FromContext(ctx)
	sink := diag.NewSink()

	sourceDirs := make([]string, len(cfg.Build.SourceDirs))
	for i, d := range cfg.Build.SourceDirs {
		sourceDirs[i] = filepath.Join(projectDir, d)
	}

	log.Info("discovering source files", "dirs", sourceDirs)
	files, err := source.Discover(sourceDirs, cfg.Build.Exclude)
	if err != nil {
		return Result{}, diag.Errorf(diag.CodeIOFailure, hcl.Range{Filename: projectDir},
			"Source discovery failed", "%s", err)
	}
	log.Info("discovered source files", "count", len(files))

	perFile := make([]fileOutput, len(files))
	var wg sync.WaitGroup
	for i, f := range files {
		wg.Add(1)
		go func(i int, filename string) {
			defer wg.Done()
			perFile[i] = compileFile(filename, log)
		}(i, f)
	}
	wg.Wait()

	var entities validate.Entities
	var implementations []bundle.Implementation
	for _, fo := range perFile {
		sink.AddAll(fo.diagnostics)
		entities.Tools = append(entities.Tools, fo.tools...)
		entities.Agents = append(entities.Agents, fo.agents...)
		entities.Teams = append(entities.Teams, fo.teams...)
		entities.Pipelines = append(entities.Pipelines, fo.pipelines...)
		implementations = append(implementations, fo.implementations...)
	}

	// The Validator requires the complete, joined set of extracted
	// entities and therefore runs only after every per-file task above
	// has returned.
	log.Info("validating entities",
		"tools", len(entities.Tools), "agents", len(entities.Agents),
		"teams", len(entities.Teams), "pipelines", len(entities.Pipelines))
	sink.AddAll(validate.Run(entities))

	result := Result{
		FileCount:     len(files),
		ToolCount:     len(entities.Tools),
		AgentCount:    len(entities.Agents),
		TeamCount:     len(entities.Teams),
		PipelineCount: len(entities.Pipelines),
		Diagnostics:   sink.Sorted(),
	}

	if sink.HasErrors() {
		result.Elapsed = time.Since(start)
		return result, nil
	}

	aria := manifest.Synthesize(cfg.Project.Name, cfg.Project.Version,
		toolValues(entities.Tools), agentValues(entities.Agents),
		teamValues(entities.Teams), pipelineValues(entities.Pipelines))

	outputPath := cfg.Build.Output
	if outputPath == "" {
		outputPath = filepath.Join("dist", cfg.Project.Name+".aria")
	}
	if !filepath.IsAbs(outputPath) {
		outputPath = filepath.Join(projectDir, outputPath)
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return result, diag.Errorf(diag.CodeBundleWriteFailed, hcl.Range{Filename: outputPath},
			"Cannot create output directory", "%s", err)
	}

	log.Info("packaging bundle", "output", outputPath)
	b := bundle.Bundle{
		Manifest:        aria,
		Implementations: implementations,
		PackageJSON:     readPackageJSON(projectDir),
		BuildInfo: bundle.BuildInfo{
			CompilerVersion: compilerVersion,
			SourceLanguage:  cfg.Build.Target,
			BuiltAtUnix:     builtAt,
		},
	}
	if err := bundle.Write(outputPath, b); err != nil {
		return result, diag.Errorf(diag.CodeBundleWriteFailed, hcl.Range{Filename: outputPath},
			"Failed to write bundle", "%s", err)
	}

	result.OutputPath = outputPath
	result.Elapsed = time.Since(start)
	if info, err := os.Stat(outputPath); err == nil {
		result.BundleSize = info.Size()
	}
	return result, nil
}

// fileOutput is the parallel-safe per-file product: every entity
// extracted from one file plus its ready-to-package implementations.
// Each goroutine in Compile owns exactly one fileOutput slot, so no
// further synchronization is needed while they run.
type fileOutput struct {
	diagnostics     hcl.Diagnostics
	tools           []validate.Entity[manifest.Tool]
	agents          []validate.Entity[manifest.Agent]
	teams           []validate.Entity[manifest.Team]
	pipelines       []validate.Entity[manifest.Pipeline]
	implementations []bundle.Implementation
}

func compileFile(filename string, log *slog.Logger) fileOutput {
	var out fileOutput

	src, err := os.ReadFile(filename)
	if err != nil {
		out.diagnostics = append(out.diagnostics, diag.Errorf(diag.CodeIOFailure, hcl.Range{Filename: filename},
			"Cannot read source file", "%s", err))
		return out
	}

	file, parseErr := parser.Parse(filename, src)
	if parseErr != nil {
		out.diagnostics = append(out.diagnostics, parseErr)
		return out
	}

	calls, extractDiags := visitor.Extract(file, filename)
	out.diagnostics = append(out.diagnostics, extractDiags...)

	for _, call := range calls {
		log.Debug("extracted decorator application", "file", filename, "kind", call.Kind, "target", call.TargetName)

		switch call.Kind {
		case "tool":
			t, diags := decoder.Tool(call)
			out.diagnostics = append(out.diagnostics, diags...)
			if diags.HasErrors() {
				continue
			}
			out.tools = append(out.tools, validate.Entity[manifest.Tool]{Value: t, Range: call.TargetRange})
			out.implementations = append(out.implementations, bundle.Implementation{
				Kind: "tool", Name: t.Name, Source: transpile.Unit(src, file, call), Ext: source.Extension,
			})
		case "agent":
			a, diags := decoder.Agent(call)
			out.diagnostics = append(out.diagnostics, diags...)
			if diags.HasErrors() {
				continue
			}
			out.agents = append(out.agents, validate.Entity[manifest.Agent]{Value: a, Range: call.TargetRange})
			out.implementations = append(out.implementations, bundle.Implementation{
				Kind: "agent", Name: a.Name, Source: transpile.Unit(src, file, call), Ext: source.Extension,
			})
		case "team":
			tm, diags := decoder.Team(call)
			out.diagnostics = append(out.diagnostics, diags...)
			if diags.HasErrors() {
				continue
			}
			out.teams = append(out.teams, validate.Entity[manifest.Team]{Value: tm, Range: call.TargetRange})
			out.implementations = append(out.implementations, bundle.Implementation{
				Kind: "team", Name: tm.Name, Source: transpile.Unit(src, file, call), Ext: source.Extension,
			})
		case "pipeline":
			p, diags := decoder.Pipeline(call)
			out.diagnostics = append(out.diagnostics, diags...)
			if diags.HasErrors() {
				continue
			}
			out.pipelines = append(out.pipelines, validate.Entity[manifest.Pipeline]{Value: p, Range: call.TargetRange})
			out.implementations = append(out.implementations, bundle.Implementation{
				Kind: "pipeline", Name: p.Name, Source: transpile.Unit(src, file, call), Ext: source.Extension,
			})
		}
	}

	return out
}

func readPackageJSON(projectDir string) []byte {
	raw, err := os.ReadFile(filepath.Join(projectDir, "package.json"))
	if err != nil {
		return nil
	}
	return raw
}

func toolValues(es []validate.Entity[manifest.Tool]) []manifest.Tool {
	out := make([]manifest.Tool, len(es))
	for i, e := range es {
		out[i] = e.Value
	}
	return out
}

func agentValues(es []validate.Entity[manifest.Agent]) []manifest.Agent {
	out := make([]manifest.Agent, len(es))
	for i, e := range es {
		out[i] = e.Value
	}
	return out
}

func teamValues(es []validate.Entity[manifest.Team]) []manifest.Team {
	out := make([]manifest.Team, len(es))
	for i, e := range es {
		out[i] = e.Value
	}
	return out
}

func pipelineValues(es []validate.Entity[manifest.Pipeline]) []manifest.Pipeline {
	out := make([]manifest.Pipeline, len(es))
	for i, e := range es {
		out[i] = e.Value
	}
	return out
}
