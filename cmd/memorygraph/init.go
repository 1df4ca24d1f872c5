// Copyright (C) 2025-2026 Kraklabs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	flag "github.com/spf13/pflag"
)

// runInit creates a new .memorygraph/config.yaml in the current
// directory (§2.A, §2.B).
func runInit(args []string, globals GlobalFlags) int {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	force := fs.Bool("force", false, "Overwrite an existing configuration")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: memorygraph init [options]

Creates .memorygraph/config.yaml with sensible defaults.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return ExitGeneral
	}

	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot determine working directory: %v\n", err)
		return ExitGeneral
	}

	configPath := ConfigPath(cwd)
	if _, err := os.Stat(configPath); err == nil && !*force {
		fmt.Fprintf(os.Stderr, "Error: %s already exists\n", configPath)
		fmt.Fprintf(os.Stderr, "Use --force to overwrite\n")
		return ExitConfig
	}

	cfg := DefaultConfig()
	if err := SaveConfig(cfg, configPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitConfig
	}

	if !globals.Quiet {
		fmt.Printf("Created %s\n", configPath)
		fmt.Println("Run 'memorygraph --mcp' to start the MCP server.")
	}
	return ExitOK
}
