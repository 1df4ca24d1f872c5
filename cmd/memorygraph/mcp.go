// Copyright (C) 2025-2026 Kraklabs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/kraklabs/memorygraph/pkg/analytics"
	"github.com/kraklabs/memorygraph/pkg/graph"
	"github.com/kraklabs/memorygraph/pkg/mcpserver"
)

// runServe wires config -> backend -> facade -> analytics -> registry
// -> mcpserver and serves on stdin/stdout until signaled (§2.B's
// --mcp, §4.I).
func runServe(configPath string, globals GlobalFlags, log *slog.Logger) int {
	cfg, err := loadEffectiveConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitGeneral
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	backend, err := openBackend(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot open backend: %v\n", err)
		return ExitGeneral
	}
	defer func() { _ = backend.Close() }()

	f := graph.New(backend, graph.Config{
		AllowCycles:     cfg.Graph.AllowCycles,
		MultiTenantMode: cfg.Graph.MultiTenantMode,
	}, log)
	a := analytics.New(backend)

	reg := buildRegistry(f, a, backend, log)
	server := mcpserver.New(reg, "memorygraph", version, log)

	if err := server.Serve(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: mcp server exited: %v\n", err)
		return ExitBackendRun
	}
	return ExitOK
}
