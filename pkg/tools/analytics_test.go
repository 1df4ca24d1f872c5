// Copyright (C) 2025-2026 Kraklabs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kraklabs/memorygraph/pkg/analytics"
	"github.com/kraklabs/memorygraph/pkg/graph"
	"github.com/kraklabs/memorygraph/pkg/storage"
)

func newFacadeAndAnalytics(t *testing.T) (*graph.Facade, *analytics.Analytics) {
	t.Helper()
	backend, err := storage.NewSQLiteBackend(storage.SQLiteConfig{Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = backend.Close() })
	return graph.New(backend, graph.Config{}, nil), analytics.New(backend)
}

func TestFindMemoryPath_DirectChain(t *testing.T) {
	f, a := newFacadeAndAnalytics(t)
	m1, err := StoreMemory(context.Background(), f, map[string]any{"type": "solution", "title": "A", "content": "content A"})
	require.NoError(t, err)
	m2, err := StoreMemory(context.Background(), f, map[string]any{"type": "solution", "title": "B", "content": "content B"})
	require.NoError(t, err)
	id1, id2 := extractID(t, m1.Text), extractID(t, m2.Text)

	_, err = CreateRelationship(context.Background(), f, map[string]any{
		"from_memory_id": id1, "to_memory_id": id2, "relationship_type": "RELATED_TO",
	})
	require.NoError(t, err)

	result, err := FindMemoryPath(context.Background(), a, map[string]any{"from_memory_id": id1, "to_memory_id": id2})
	require.NoError(t, err)
	require.Contains(t, result.Text, "Path found")
}

func TestFindMemoryPath_Unreachable(t *testing.T) {
	f, a := newFacadeAndAnalytics(t)
	m1, err := StoreMemory(context.Background(), f, map[string]any{"type": "solution", "title": "A", "content": "content A"})
	require.NoError(t, err)
	m2, err := StoreMemory(context.Background(), f, map[string]any{"type": "solution", "title": "B", "content": "content B"})
	require.NoError(t, err)

	result, err := FindMemoryPath(context.Background(), a, map[string]any{
		"from_memory_id": extractID(t, m1.Text), "to_memory_id": extractID(t, m2.Text),
	})
	require.NoError(t, err)
	require.Contains(t, result.Text, "No path found")
}

func TestAnalyzeGraphMetrics_CountsMemoriesAndRelationships(t *testing.T) {
	f, a := newFacadeAndAnalytics(t)
	_, err := StoreMemory(context.Background(), f, map[string]any{"type": "solution", "title": "A", "content": "content A"})
	require.NoError(t, err)

	result, err := AnalyzeGraphMetrics(context.Background(), a, map[string]any{})
	require.NoError(t, err)
	require.Contains(t, result.Text, "Memories: 1")
}

func TestTrackEntityTimeline_FindsMentions(t *testing.T) {
	f, a := newFacadeAndAnalytics(t)
	_, err := StoreMemory(context.Background(), f, map[string]any{"type": "solution", "title": "Redis fix", "content": "tuned redis pool"})
	require.NoError(t, err)

	result, err := TrackEntityTimeline(context.Background(), a, map[string]any{"entity": "redis"})
	require.NoError(t, err)
	require.Contains(t, result.Text, "Redis fix")
}
