// Copyright (C) 2025-2026 Kraklabs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

package tools

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/memorygraph/pkg/graph"
	"github.com/kraklabs/memorygraph/pkg/model"
	"github.com/kraklabs/memorygraph/pkg/storage"
)

func newFacadeOver(t *testing.T, backend storage.Backend) *graph.Facade {
	t.Helper()
	return graph.New(backend, graph.Config{}, nil)
}

func memoForMigration(title string) *model.Memory {
	return model.NewMemory(uuid.NewString(), model.MemoryInput{
		Type: model.MemoryTypeSolution, Title: title, Content: "content for " + title,
	}, time.Now())
}

func TestMigrateDatabase_CopiesFromSourceToTarget(t *testing.T) {
	sourcePath := t.TempDir() + "/source.db"
	source, err := storage.NewSQLiteBackend(storage.SQLiteConfig{Path: sourcePath})
	require.NoError(t, err)
	require.NoError(t, source.StoreMemory(context.Background(), memoForMigration("A")))
	require.NoError(t, source.Close())

	targetBackend, err := storage.NewSQLiteBackend(storage.SQLiteConfig{Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = targetBackend.Close() })
	f := newFacadeOver(t, targetBackend)

	result, err := MigrateDatabase(context.Background(), f, targetBackend, map[string]any{
		"source_backend": "sqlite", "source_path": sourcePath,
	})
	require.NoError(t, err)
	require.False(t, result.IsError)
	require.Contains(t, result.Text, "Migrated 1 memories")
}

func TestValidateMigration_ReportsMismatch(t *testing.T) {
	sourcePath := t.TempDir() + "/source.db"
	source, err := storage.NewSQLiteBackend(storage.SQLiteConfig{Path: sourcePath})
	require.NoError(t, err)
	require.NoError(t, source.StoreMemory(context.Background(), memoForMigration("A")))
	require.NoError(t, source.Close())

	targetBackend, err := storage.NewSQLiteBackend(storage.SQLiteConfig{Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = targetBackend.Close() })

	result, err := ValidateMigration(context.Background(), targetBackend, map[string]any{
		"source_backend": "sqlite", "source_path": sourcePath,
	})
	require.NoError(t, err)
	require.Contains(t, result.Text, "MISMATCH")
}
