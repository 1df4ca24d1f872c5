// Copyright (C) 2025-2026 Kraklabs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/kraklabs/memorygraph/pkg/migration"
)

// runValidateMigration independently re-derives and compares the
// counts/hashes of a source backend and the active (target) backend,
// without performing any writes (§4.F's validate_migration).
func runValidateMigration(args []string, configPath string, globals GlobalFlags) int {
	fs := flag.NewFlagSet("validate-migration", flag.ContinueOnError)
	source := sourceFlags(fs)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: memorygraph validate-migration --source-backend KIND [options]\n\nOptions:\n")
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
	sourceBackend, err := openBackendKind(ctx, *source, CloudConfig{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot open source backend: %v\n", err)
		return ExitBackend
	}
	defer func() { _ = sourceBackend.Close() }()

	targetBackend, err := openBackend(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot open target backend: %v\n", err)
		return ExitBackend
	}
	defer func() { _ = targetBackend.Close() }()

	result, err := migration.Validate(ctx, sourceBackend, targetBackend, time.Now())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitGeneral
	}

	if !globals.Quiet {
		if result.Verified {
			fmt.Printf("MATCH: source=%+v target=%+v\n", result.SourceCounts, result.TargetCounts)
		} else {
			fmt.Printf("MISMATCH: source=%+v target=%+v\n", result.SourceCounts, result.TargetCounts)
		}
	}
	if !result.Verified {
		return ExitGeneral
	}
	return ExitOK
}
