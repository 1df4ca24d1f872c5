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

	"github.com/kraklabs/memorygraph/pkg/observability"
	"github.com/kraklabs/memorygraph/pkg/storage"
)

// StatusResult is the --json shape of `status` (§2.B).
type StatusResult struct {
	BackendKind   string    `json:"backend_kind"`
	Connected     bool      `json:"connected"`
	Memories      int       `json:"memories"`
	Relationships int       `json:"relationships"`
	Timestamp     time.Time `json:"timestamp"`
	Error         string    `json:"error,omitempty"`
}

func runStatus(args []string, configPath string, globals GlobalFlags) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: memorygraph status [--json]\n")
	}
	if err := fs.Parse(args); err != nil {
		return ExitGeneral
	}

	cfg, err := loadEffectiveConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitConfig
	}

	result := &StatusResult{BackendKind: cfg.Backend.Kind, Timestamp: time.Now().UTC()}

	ctx := context.Background()
	backend, err := openBackend(ctx, cfg)
	if err != nil {
		result.Error = fmt.Sprintf("cannot open backend: %v", err)
		return reportStatus(result, globals, ExitBackend)
	}
	defer func() { _ = backend.Close() }()

	timeout := time.Duration(cfg.Health.TimeoutSeconds * float64(time.Second))
	if err := observability.HealthCheck(ctx, backend, timeout); err != nil {
		result.Error = fmt.Sprintf("health check failed: %v", err)
		return reportStatus(result, globals, ExitBackend)
	}
	result.Connected = true

	memories, err := backend.ListMemories(ctx, storage.MemoryFilter{})
	if err != nil {
		result.Error = fmt.Sprintf("cannot list memories: %v", err)
		return reportStatus(result, globals, ExitBackend)
	}
	relationships, err := backend.ListRelationships(ctx, storage.RelationshipFilter{})
	if err != nil {
		result.Error = fmt.Sprintf("cannot list relationships: %v", err)
		return reportStatus(result, globals, ExitBackend)
	}
	result.Memories = len(memories)
	result.Relationships = len(relationships)

	return reportStatus(result, globals, ExitOK)
}

func reportStatus(result *StatusResult, globals GlobalFlags, code int) int {
	if globals.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
		return code
	}

	fmt.Println("Memory Graph Status")
	fmt.Println()
	fmt.Printf("  Backend:       %s\n", result.BackendKind)
	fmt.Printf("  Connected:     %v\n", result.Connected)
	if result.Error != "" {
		fmt.Printf("  Error:         %s\n", result.Error)
		return code
	}
	fmt.Printf("  Memories:      %d\n", result.Memories)
	fmt.Printf("  Relationships: %d\n", result.Relationships)
	return code
}
