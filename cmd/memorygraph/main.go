// Copyright (C) 2025-2026 Kraklabs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

// Command memorygraph is the CLI entrypoint and MCP server for the
// memory graph (§2.B).
package main

import (
	"fmt"
	"log/slog"
	"os"

	flag "github.com/spf13/pflag"
)

const version = "0.1.0"

// GlobalFlags carries the flags every subcommand inherits (§2.B).
type GlobalFlags struct {
	JSON    bool
	Verbose int
	Quiet   bool
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("memorygraph", flag.ContinueOnError)
	fs.SetInterspersed(false)

	serveFlag := fs.Bool("mcp", false, "Start the MCP server on stdin/stdout")
	configPath := fs.StringP("config", "c", "", "Path to config.yaml (default ./.memorygraph/config.yaml)")
	jsonOut := fs.Bool("json", false, "Output machine-readable JSON")
	fs.CountP("verbose", "v", "Increase log verbosity")
	quiet := fs.BoolP("quiet", "q", false, "Suppress non-essential output")
	showVersion := fs.BoolP("version", "V", false, "Print version and exit")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: memorygraph [flags] [command]

Commands:
  init                 Create .memorygraph/config.yaml with defaults
  status                Show backend connectivity and graph statistics
  export                Export the full graph as a snapshot
  import                Import a snapshot into the active backend
  migrate                Copy memories and relationships from another backend
  validate-migration      Verify a prior migrate run against its source

Flags:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return ExitOK
		}
		return ExitGeneral
	}

	if *showVersion {
		fmt.Printf("memorygraph %s\n", version)
		return ExitOK
	}

	verbose, _ := fs.GetCount("verbose")
	globals := GlobalFlags{JSON: *jsonOut, Verbose: verbose, Quiet: *quiet}

	resolvedConfigPath := resolveConfigPath(*configPath)
	log := newLogger(globals)

	if *serveFlag {
		return runServe(resolvedConfigPath, globals, log)
	}

	rest := fs.Args()
	if len(rest) == 0 {
		fs.Usage()
		return ExitGeneral
	}

	command, rest := rest[0], rest[1:]
	switch command {
	case "init":
		return runInit(rest, globals)
	case "status":
		return runStatus(rest, resolvedConfigPath, globals)
	case "export":
		return runExport(rest, resolvedConfigPath, globals)
	case "import":
		return runImport(rest, resolvedConfigPath, globals)
	case "migrate":
		return runMigrate(rest, resolvedConfigPath, globals)
	case "validate-migration":
		return runValidateMigration(rest, resolvedConfigPath, globals)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		fs.Usage()
		return ExitGeneral
	}
}

// newLogger builds the process-wide slog.Logger (§2.C): JSON when
// --json is set, text otherwise, level driven by
// --verbose/--quiet and MEMORY_LOG_LEVEL.
func newLogger(globals GlobalFlags) *slog.Logger {
	level := slog.LevelInfo
	switch {
	case globals.Quiet:
		level = slog.LevelError
	case globals.Verbose >= 2:
		level = slog.LevelDebug
	case globals.Verbose == 1:
		level = slog.LevelInfo
	}
	if lv, ok := parseLogLevel(os.Getenv("MEMORY_LOG_LEVEL")); ok {
		level = lv
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if globals.JSON {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}

func parseLogLevel(s string) (slog.Level, bool) {
	switch s {
	case "DEBUG":
		return slog.LevelDebug, true
	case "INFO":
		return slog.LevelInfo, true
	case "WARN":
		return slog.LevelWarn, true
	case "ERROR":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

// loadEffectiveConfig loads path if present, otherwise falls back to
// DefaultConfig, then applies env overrides either way (§2.A), matching
// the teacher's runStatus/runExport fallback idiom.
func loadEffectiveConfig(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		cfg = DefaultConfig()
	}
	cfg.applyEnvOverrides()
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
