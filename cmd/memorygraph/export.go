// Copyright (C) 2025-2026 Kraklabs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/kraklabs/memorygraph/pkg/migration"
)

// runExport writes a snapshot (§4.E, §6.3) of the active backend to
// stdout or a file.
func runExport(args []string, configPath string, globals GlobalFlags) int {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	output := fs.StringP("output", "o", "", "Output file (default: stdout)")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: memorygraph export [options]

Options:
`)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return ExitGeneral
	}

	cfg, err := loadEffectiveConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitConfig
	}

	ctx := context.Background()
	backend, err := openBackend(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot open backend: %v\n", err)
		return ExitBackend
	}
	defer func() { _ = backend.Close() }()

	snap, err := migration.Export(ctx, backend, time.Now())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitGeneral
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitGeneral
	}

	if *output != "" {
		if err := os.WriteFile(*output, data, 0600); err != nil {
			fmt.Fprintf(os.Stderr, "Error: cannot write to %s: %v\n", *output, err)
			return ExitGeneral
		}
		if !globals.Quiet {
			fmt.Fprintf(os.Stderr, "Exported to %s\n", *output)
		}
	} else {
		fmt.Println(string(data))
	}
	return ExitOK
}
