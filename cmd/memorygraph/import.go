// Copyright (C) 2025-2026 Kraklabs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/kraklabs/memorygraph/pkg/graph"
	"github.com/kraklabs/memorygraph/pkg/migration"
)

// runImport re-inserts a snapshot (§4.E) into the active backend
// through the facade, so every invariant is re-checked.
func runImport(args []string, configPath string, globals GlobalFlags) int {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	input := fs.StringP("input", "i", "", "Snapshot file to import (required)")
	refuse := fs.Bool("refuse-if-exists", false, "Refuse import when an id already exists, instead of merging")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: memorygraph import --input snapshot.json [options]

Options:
`)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return ExitGeneral
	}
	if *input == "" {
		fmt.Fprintln(os.Stderr, "Error: --input is required")
		return ExitGeneral
	}

	cfg, err := loadEffectiveConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitConfig
	}

	data, err := os.ReadFile(*input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot read %s: %v\n", *input, err)
		return ExitGeneral
	}
	snap := &migration.Snapshot{}
	if err := json.Unmarshal(data, snap); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid snapshot: %v\n", err)
		return ExitGeneral
	}

	ctx := context.Background()
	backend, err := openBackend(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot open backend: %v\n", err)
		return ExitBackend
	}
	defer func() { _ = backend.Close() }()

	f := graph.New(backend, graph.Config{
		AllowCycles:     cfg.Graph.AllowCycles,
		MultiTenantMode: cfg.Graph.MultiTenantMode,
	}, nil)

	mode := migration.ImportMergeByID
	if *refuse {
		mode = migration.ImportRefuseIfExist
	}

	if err := migration.Import(ctx, f, snap, mode); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitGeneral
	}

	if !globals.Quiet {
		fmt.Printf("Imported %d memories, %d relationships\n", snap.Counts.Memories, snap.Counts.Relationships)
	}
	return ExitOK
}
