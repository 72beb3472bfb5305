package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/hcl/v2"

	"github.com/arc-lang/arc/internal/cli"
	"github.com/arc-lang/arc/internal/compiler"
	"github.com/arc-lang/arc/internal/ctxlog"
	"github.com/arc-lang/arc/internal/diag"
	"github.com/arc-lang/arc/internal/projectconfig"
)

// Exit codes. exitCodeDiagnostics covers the generic "an error diagnostic
// was produced" case; exitCodeIOFailure is the distinct code for IO-level
// failures that happen before any source file could be parsed, such as a
// missing project configuration or an unreadable source root.
const (
	exitCodeDiagnostics = 1
	exitCodeIOFailure   = 3
)

// main is the entrypoint for the arc compiler.
func main() {
	// Use a minimal logger until the requested level/format is known.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})))

	if err := run(os.Stdout, os.Args[1:]); err != nil {
		if exitErr, ok := err.(*cli.ExitError); ok {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and
// error handling: argument parsing, then config loading, then
// compilation, with diagnostics rendered to outW regardless of outcome.
func run(outW io.Writer, args []string) error {
	cfgArgs, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	logger := newLogger(cfgArgs.LogFormat, cfgArgs.LogLevel)
	slog.SetDefault(logger)
	ctx := ctxlog.WithLogger(context.Background(), logger)

	configPath := cfgArgs.ConfigPath
	if !filepath.IsAbs(configPath) {
		configPath = filepath.Join(cfgArgs.ProjectDir, configPath)
	}

	projectCfg, loadDiag := projectconfig.Load(configPath)
	if loadDiag != nil {
		fmt.Fprintln(outW, diag.Format(loadDiag))
		return &cli.ExitError{Code: exitCodeIOFailure, Message: "failed to load project configuration"}
	}

	result, fatal := compiler.Compile(ctx, projectCfg, cfgArgs.ProjectDir, time.Now().Unix())

	allDiags := result.Diagnostics
	if fatal != nil {
		allDiags = append(append(hcl.Diagnostics(nil), allDiags...), fatal)
	}
	for _, d := range allDiags {
		fmt.Fprintln(outW, diag.Format(d))
	}
	if cfgArgs.DiagnosticsFormat == "json" {
		enc := json.NewEncoder(outW)
		for _, d := range allDiags {
			if err := enc.Encode(diag.ToRecord(d)); err != nil {
				return fmt.Errorf("encode diagnostic record: %w", err)
			}
		}
	}

	errCount, warnCount := diag.Counts(allDiags)
	fmt.Fprintf(outW, "%d error(s), %d warning(s)\n", errCount, warnCount)

	if fatal != nil {
		if code, ok := diag.CodeOf(fatal); ok && code == diag.CodeIOFailure {
			return &cli.ExitError{Code: exitCodeIOFailure, Message: "compilation failed"}
		}
		return &cli.ExitError{Code: exitCodeDiagnostics, Message: "compilation failed"}
	}
	if result.Diagnostics.HasErrors() {
		return &cli.ExitError{Code: exitCodeDiagnostics, Message: "compilation failed"}
	}

	fmt.Fprintf(outW, "wrote %s (%d tools, %d agents, %d teams, %d pipelines) in %s\n",
		result.OutputPath, result.ToolCount, result.AgentCount, result.TeamCount, result.PipelineCount, result.Elapsed)
	return nil
}

func newLogger(format, level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: lvl}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
