// Package cli parses arc's command-line arguments: a flag.FlagSet with a
// custom Usage string, an ExitError carrying a specific process exit code
// for argument errors, and a (config, shouldExit, error) return shape so
// the caller in cmd/arc can stay a thin dispatcher.
package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"
)

// ExitError is an error that also carries the process exit code main
// should use when reporting it.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string { return e.Message }

// Config is the fully parsed, validated set of inputs one arc
// invocation needs.
type Config struct {
	ProjectDir        string
	ConfigPath        string
	LogFormat         string
	LogLevel          string
	DiagnosticsFormat string
}

// Parse processes args. It returns a populated Config, a boolean
// indicating the program should exit cleanly (e.g. -h/--help was
// requested), or an *ExitError for a malformed invocation.
func Parse(args []string, output io.Writer) (Config, bool, error) {
	flagSet := flag.NewFlagSet("arc", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
Arc - compiles a decorator-annotated TypeScript project into a portable .aria bundle.

Usage:
  arc [options] [PROJECT_DIR]

Arguments:
  PROJECT_DIR
    Path to the project root containing aria.toml. Defaults to the current directory.

Options:
`)
		flagSet.PrintDefaults()
	}

	configFlag := flagSet.String("config", "aria.toml", "Path to the project configuration file, relative to PROJECT_DIR.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	diagnosticsFormatFlag := flagSet.String("diagnostics-format", "text",
		"Diagnostic output format. 'text' prints human-readable lines only; 'json' additionally emits one JSON record per diagnostic.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return Config{}, true, nil
		}
		return Config{}, false, &ExitError{Code: 2, Message: err.Error()}
	}

	projectDir := "."
	if flagSet.NArg() > 0 {
		projectDir = flagSet.Arg(0)
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return Config{}, false, &ExitError{Code: 2, Message: "invalid -log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
	default:
		return Config{}, false, &ExitError{Code: 2, Message: "invalid -log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	diagnosticsFormat := strings.ToLower(*diagnosticsFormatFlag)
	if diagnosticsFormat != "text" && diagnosticsFormat != "json" {
		return Config{}, false, &ExitError{Code: 2, Message: "invalid -diagnostics-format: must be 'text' or 'json'"}
	}

	return Config{
		ProjectDir:        projectDir,
		ConfigPath:        *configFlag,
		LogFormat:         logFormat,
		LogLevel:          logLevel,
		DiagnosticsFormat: diagnosticsFormat,
	}, false, nil
}
