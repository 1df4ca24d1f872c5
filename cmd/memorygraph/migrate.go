// Copyright (C) 2025-2026 Kraklabs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/kraklabs/memorygraph/pkg/graph"
	"github.com/kraklabs/memorygraph/pkg/migration"
)

// sourceFlags registers the --source-* flags shared by migrate and
// validate-migration, describing the backend being migrated from.
func sourceFlags(fs *flag.FlagSet) *BackendConfig {
	b := &BackendConfig{}
	fs.StringVar(&b.Kind, "source-backend", "sqlite", "Source backend kind: sqlite|neo4j|memgraph|falkor")
	fs.StringVar(&b.Path, "source-path", "", "Source sqlite file path")
	fs.StringVar(&b.URI, "source-uri", "", "Source neo4j/memgraph/falkor bolt URI")
	fs.StringVar(&b.Username, "source-username", "", "Source backend username")
	fs.StringVar(&b.Password, "source-password", "", "Source backend password")
	fs.StringVar(&b.Database, "source-database", "", "Source backend database name")
	return b
}

// runMigrate copies every memory and relationship from a source
// backend into the active (target) backend, verifying counts and
// content hashes before reporting success (§4.E, §6.1).
func runMigrate(args []string, configPath string, globals GlobalFlags) int {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	source := sourceFlags(fs)
	dryRun := fs.Bool("dry-run", false, "Export and verify without importing")
	refuse := fs.Bool("refuse-if-exists", false, "Refuse import when an id already exists, instead of merging")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: memorygraph migrate --source-backend KIND [options]\n\nOptions:\n")
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

	if *dryRun {
		snap, err := migration.Export(ctx, sourceBackend, time.Now())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return ExitGeneral
		}
		fmt.Printf("Dry run: would migrate %d memories, %d relationships\n", snap.Counts.Memories, snap.Counts.Relationships)
		return ExitOK
	}

	targetBackend, err := openBackend(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot open target backend: %v\n", err)
		return ExitBackend
	}
	defer func() { _ = targetBackend.Close() }()

	target := graph.New(targetBackend, graph.Config{
		AllowCycles:     cfg.Graph.AllowCycles,
		MultiTenantMode: cfg.Graph.MultiTenantMode,
	}, nil)

	mode := migration.ImportMergeByID
	if *refuse {
		mode = migration.ImportRefuseIfExist
	}

	result, err := migration.Migrate(ctx, sourceBackend, target, targetBackend, mode, time.Now())
	if err != nil {
		if errors.Is(err, migration.ErrVerificationFailed) {
			fmt.Fprintf(os.Stderr, "Error: migration verification failed (source %+v, target %+v)\n", result.SourceCounts, result.TargetCounts)
			return ExitGeneral
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitGeneral
	}

	if !globals.Quiet {
		fmt.Printf("Migrated %d memories, %d relationships (verified: %v)\n",
			result.TargetCounts.Memories, result.TargetCounts.Relationships, result.Verified)
	}
	return ExitOK
}
