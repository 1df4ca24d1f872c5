// Copyright (C) 2025-2026 Kraklabs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kraklabs/memorygraph/pkg/model"
)

func newTestBackend(t *testing.T) *SQLiteBackend {
	t.Helper()
	b, err := NewSQLiteBackend(SQLiteConfig{Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func testMemory(id string) *model.Memory {
	now := time.Now().UTC()
	return &model.Memory{
		ID: id, Type: model.MemoryTypeSolution, Title: "t", Content: "c",
		Importance: 0.5, CreatedAt: now, UpdatedAt: now, Version: 1,
	}
}

func TestSQLiteBackend_StoreThenGet(t *testing.T) {
	b := newTestBackend(t)
	ctx := context.Background()

	m := testMemory("m1")
	require.NoError(t, b.StoreMemory(ctx, m))

	got, err := b.GetMemory(ctx, "m1")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, m.Title, got.Title)
}

func TestSQLiteBackend_GetMissingReturnsNil(t *testing.T) {
	b := newTestBackend(t)
	got, err := b.GetMemory(context.Background(), "missing")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestSQLiteBackend_DeleteCascadesRelationships(t *testing.T) {
	b := newTestBackend(t)
	ctx := context.Background()

	require.NoError(t, b.StoreMemory(ctx, testMemory("a")))
	require.NoError(t, b.StoreMemory(ctx, testMemory("b")))

	now := time.Now().UTC()
	rel := &model.Relationship{
		ID: "r1", FromMemoryID: "a", ToMemoryID: "b", Type: model.RelSolves,
		ValidFrom: now, RecordedAt: now, CreatedAt: now,
	}
	require.NoError(t, b.CreateRelationship(ctx, rel))

	require.NoError(t, b.DeleteMemory(ctx, "a"))

	got, err := b.GetRelationship(ctx, "r1")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestSQLiteBackend_SchemaInitIsIdempotent(t *testing.T) {
	b := newTestBackend(t)
	require.NoError(t, b.ensureSchema())
	require.NoError(t, b.ensureSchema())
}

func TestSQLiteBackend_ListRelationshipsOnlyCurrent(t *testing.T) {
	b := newTestBackend(t)
	ctx := context.Background()
	require.NoError(t, b.StoreMemory(ctx, testMemory("a")))
	require.NoError(t, b.StoreMemory(ctx, testMemory("b")))

	now := time.Now().UTC()
	past := now.Add(-time.Hour)
	rel := &model.Relationship{
		ID: "r1", FromMemoryID: "a", ToMemoryID: "b", Type: model.RelSolves,
		ValidFrom: past, ValidUntil: &now, RecordedAt: past, CreatedAt: past,
	}
	require.NoError(t, b.CreateRelationship(ctx, rel))

	rels, err := b.ListRelationships(ctx, RelationshipFilter{OnlyCurrent: true})
	require.NoError(t, err)
	require.Empty(t, rels)

	all, err := b.ListRelationships(ctx, RelationshipFilter{})
	require.NoError(t, err)
	require.Len(t, all, 1)
}
