// Copyright (C) 2025-2026 Kraklabs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/kraklabs/memorygraph/pkg/storage"
)

// openBackend constructs the storage.Backend named by cfg.Backend.Kind
// (§2.A, §6.4's MEMORY_BACKEND). It is the one place main.go and every
// subcommand go to turn configuration into a live backend.
func openBackend(ctx context.Context, cfg *Config) (storage.Backend, error) {
	return openBackendKind(ctx, cfg.Backend, cfg.Cloud)
}

// openBackendKind builds a backend from a BackendConfig directly,
// shared by openBackend and the migrate/validate-migration
// subcommands' --source-* flags, which describe a second backend that
// never comes from the active config file.
func openBackendKind(ctx context.Context, b BackendConfig, cloud CloudConfig) (storage.Backend, error) {
	switch b.Kind {
	case "", "sqlite":
		return storage.NewSQLiteBackend(storage.SQLiteConfig{Path: b.Path})
	case "neo4j", "memgraph", "falkor":
		return storage.NewNeo4jBackend(ctx, storage.Neo4jConfig{
			URI:      b.URI,
			Username: b.Username,
			Password: b.Password,
			Database: b.Database,
		})
	case "cloud":
		timeout := time.Duration(cloud.TimeoutSeconds * float64(time.Second))
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		return storage.NewCloudBackend(storage.CloudConfig{
			APIURL:  cloud.APIURL,
			APIKey:  cloud.APIKey,
			Timeout: timeout,
		}), nil
	default:
		return nil, fmt.Errorf("unknown backend kind %q", b.Kind)
	}
}
