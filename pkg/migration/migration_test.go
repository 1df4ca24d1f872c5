// Copyright (C) 2025-2026 Kraklabs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

package migration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kraklabs/memorygraph/pkg/graph"
	"github.com/kraklabs/memorygraph/pkg/model"
	"github.com/kraklabs/memorygraph/pkg/storage"
)

func newBackend(t *testing.T) storage.Backend {
	t.Helper()
	b, err := storage.NewSQLiteBackend(storage.SQLiteConfig{Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func seed(t *testing.T, f *graph.Facade, n int) []*model.Memory {
	t.Helper()
	ctx := context.Background()
	var out []*model.Memory
	for i := 0; i < n; i++ {
		m, err := f.StoreMemory(ctx, model.MemoryInput{
			Type: model.MemoryTypeGeneral, Title: "m", Content: "content",
		})
		require.NoError(t, err)
		out = append(out, m)
	}
	return out
}

func TestExportImport_RoundTrip(t *testing.T) {
	ctx := context.Background()
	sourceBackend := newBackend(t)
	sourceFacade := graph.New(sourceBackend, graph.Config{}, nil)
	memories := seed(t, sourceFacade, 3)
	_, err := sourceFacade.CreateRelationship(ctx, model.RelationshipInput{
		FromMemoryID: memories[0].ID, ToMemoryID: memories[1].ID, Type: model.RelSolves,
	}, nil)
	require.NoError(t, err)

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	snap, err := Export(ctx, sourceBackend, now)
	require.NoError(t, err)
	require.Equal(t, 3, snap.Counts.Memories)
	require.Equal(t, 1, snap.Counts.Relationships)

	targetBackend := newBackend(t)
	targetFacade := graph.New(targetBackend, graph.Config{}, nil)
	require.NoError(t, Import(ctx, targetFacade, snap, ImportMergeByID))

	got, _, err := targetFacade.GetMemory(ctx, memories[0].ID, false)
	require.NoError(t, err)
	require.Equal(t, memories[0].Title, got.Title)
}

func TestImport_RefuseIfExistsRejectsDuplicateID(t *testing.T) {
	ctx := context.Background()
	sourceBackend := newBackend(t)
	sourceFacade := graph.New(sourceBackend, graph.Config{}, nil)
	seed(t, sourceFacade, 1)

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	snap, err := Export(ctx, sourceBackend, now)
	require.NoError(t, err)

	targetBackend := newBackend(t)
	targetFacade := graph.New(targetBackend, graph.Config{}, nil)
	require.NoError(t, Import(ctx, targetFacade, snap, ImportRefuseIfExist))

	err = Import(ctx, targetFacade, snap, ImportRefuseIfExist)
	require.Error(t, err)
}

func TestMigrate_VerifiesCountsAndHash(t *testing.T) {
	ctx := context.Background()
	sourceBackend := newBackend(t)
	sourceFacade := graph.New(sourceBackend, graph.Config{}, nil)
	seed(t, sourceFacade, 5)

	targetBackend := newBackend(t)
	targetFacade := graph.New(targetBackend, graph.Config{}, nil)

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	result, err := Migrate(ctx, sourceBackend, targetFacade, targetBackend, ImportMergeByID, now)
	require.NoError(t, err)
	require.True(t, result.Verified)
	require.Equal(t, result.SourceCounts, result.TargetCounts)
	require.Equal(t, result.SourceHash, result.TargetHash)
}

// TestValidate_CountsMatchButHashesDifferIsNotVerified guards against
// Verified collapsing to a counts-only comparison: two backends can
// agree on counts while diverging in content, and that must not be
// reported as verified.
func TestValidate_CountsMatchButHashesDifferIsNotVerified(t *testing.T) {
	ctx := context.Background()
	sourceBackend := newBackend(t)
	sourceFacade := graph.New(sourceBackend, graph.Config{}, nil)
	seed(t, sourceFacade, 3)

	targetBackend := newBackend(t)
	targetFacade := graph.New(targetBackend, graph.Config{}, nil)
	seeded := seed(t, targetFacade, 3)
	_, err := targetFacade.UpdateMemory(ctx, seeded[0].ID, model.MemoryInput{
		Type: model.MemoryTypeGeneral, Title: "m", Content: "different content",
	})
	require.NoError(t, err)

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	result, err := Validate(ctx, sourceBackend, targetBackend, now)
	require.NoError(t, err)
	require.Equal(t, result.SourceCounts, result.TargetCounts)
	require.NotEqual(t, result.SourceHash, result.TargetHash)
	require.False(t, result.Verified)
}

func TestRollback_RestoresPriorState(t *testing.T) {
	ctx := context.Background()
	targetBackend := newBackend(t)
	targetFacade := graph.New(targetBackend, graph.Config{}, nil)
	original := seed(t, targetFacade, 2)

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	point, err := CaptureRollbackPoint(ctx, targetBackend, now)
	require.NoError(t, err)

	seed(t, targetFacade, 10)
	snapAfterSeed, err := Export(ctx, targetBackend, now)
	require.NoError(t, err)
	require.Equal(t, 12, snapAfterSeed.Counts.Memories)

	require.NoError(t, Rollback(ctx, targetFacade, targetBackend, point))

	restored, err := Export(ctx, targetBackend, now)
	require.NoError(t, err)
	require.Equal(t, 2, restored.Counts.Memories)
	_, _, err = targetFacade.GetMemory(ctx, original[0].ID, false)
	require.NoError(t, err)
}

func TestCanonicalHash_StableAcrossGeneratedAt(t *testing.T) {
	ctx := context.Background()
	b := newBackend(t)
	f := graph.New(b, graph.Config{}, nil)
	seed(t, f, 1)

	snap1, err := Export(ctx, b, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	snap2, err := Export(ctx, b, time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	h1, err := CanonicalHash(snap1)
	require.NoError(t, err)
	h2, err := CanonicalHash(snap2)
	require.NoError(t, err)
	require.Equal(t, h1, h2)
}
