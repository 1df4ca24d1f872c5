// Copyright (C) 2025-2026 Kraklabs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/kraklabs/memorygraph/pkg/graph"
	"github.com/kraklabs/memorygraph/pkg/migration"
	"github.com/kraklabs/memorygraph/pkg/storage"
)

// openSourceBackend opens a short-lived connection to the `source_*`
// backend named in args, for migrate_database/validate_migration. It
// mirrors the teacher's config-driven backend selection (cmd/mie), but
// scoped to a single call instead of server startup.
func openSourceBackend(ctx context.Context, args map[string]any) (storage.Backend, func(), error) {
	switch GetStringArg(args, "source_backend", "sqlite") {
	case "sqlite":
		b, err := storage.NewSQLiteBackend(storage.SQLiteConfig{Path: GetStringArg(args, "source_path", "")})
		if err != nil {
			return nil, nil, err
		}
		return b, func() { b.Close() }, nil
	case "neo4j", "memgraph", "falkor":
		b, err := storage.NewNeo4jBackend(ctx, storage.Neo4jConfig{
			URI:      GetStringArg(args, "source_uri", ""),
			Username: GetStringArg(args, "source_username", ""),
			Password: GetStringArg(args, "source_password", ""),
			Database: GetStringArg(args, "source_database", ""),
		})
		if err != nil {
			return nil, nil, err
		}
		return b, func() { b.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown source_backend %q", GetStringArg(args, "source_backend", ""))
	}
}

// MigrateDatabase implements the migrate_database handler (§4.E/§4.F):
// exports the named source backend and imports it into the live
// server's target backend, verifying counts and hash before reporting
// success. Capture a rollback point with CaptureRollbackPoint before
// calling this against a non-empty target.
func MigrateDatabase(ctx context.Context, f *graph.Facade, targetBackend storage.Backend, args map[string]any) (*ToolResult, error) {
	source, closeSource, err := openSourceBackend(ctx, args)
	if err != nil {
		return NewError(fmt.Sprintf("cannot open source backend: %v", err)), nil
	}
	defer closeSource()

	mode := migration.ImportMode(GetStringArg(args, "mode", string(migration.ImportMergeByID)))
	result, err := migration.Migrate(ctx, source, f, targetBackend, mode, time.Now())
	if err != nil {
		if result != nil {
			return NewError(fmt.Sprintf("migration verification failed: source=%+v target=%+v", result.SourceCounts, result.TargetCounts)), nil
		}
		return nil, err
	}
	return NewResult(fmt.Sprintf("Migrated %d memories and %d relationships. Verified: %t (hash source=%s target=%s)",
		result.SourceCounts.Memories, result.SourceCounts.Relationships, result.Verified, result.SourceHash, result.TargetHash)), nil
}

// ValidateMigration implements the validate_migration handler
// (§4.E/§4.F): re-derives counts and canonical hashes for the named
// source backend and the live server's target backend and compares
// them without writing anything.
func ValidateMigration(ctx context.Context, targetBackend storage.Backend, args map[string]any) (*ToolResult, error) {
	source, closeSource, err := openSourceBackend(ctx, args)
	if err != nil {
		return NewError(fmt.Sprintf("cannot open source backend: %v", err)), nil
	}
	defer closeSource()

	result, err := migration.Validate(ctx, source, targetBackend, time.Now())
	if err != nil {
		return nil, err
	}
	status := "MATCH"
	if !result.Verified {
		status = "MISMATCH"
	}
	return NewResult(fmt.Sprintf("%s: source=%+v target=%+v hash_source=%s hash_target=%s",
		status, result.SourceCounts, result.TargetCounts, result.SourceHash, result.TargetHash)), nil
}
