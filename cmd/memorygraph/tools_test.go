// Copyright (C) 2025-2026 Kraklabs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kraklabs/memorygraph/pkg/analytics"
	"github.com/kraklabs/memorygraph/pkg/graph"
	"github.com/kraklabs/memorygraph/pkg/storage"
)

func TestBuildRegistry_RegistersEveryToolAndDispatchesStoreMemory(t *testing.T) {
	backend, err := storage.NewSQLiteBackend(storage.SQLiteConfig{Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = backend.Close() })

	f := graph.New(backend, graph.Config{}, nil)
	a := analytics.New(backend)
	reg := buildRegistry(f, a, backend, nil)

	names := make(map[string]bool)
	for _, tool := range reg.List() {
		names[tool.Name] = true
		require.NotEmpty(t, tool.Description)
	}
	for _, want := range []string{
		"store_memory", "get_memory", "update_memory", "delete_memory",
		"search_memories", "recall_memories", "bulk_store_memories",
		"create_relationship", "get_related_memories", "reinforce_relationship",
		"suggest_relationship_type", "get_recent_activity",
		"search_relationships_by_context", "query_as_of",
		"get_relationship_history", "what_changed", "find_memory_path",
		"analyze_memory_clusters", "find_bridge_memories",
		"analyze_graph_metrics", "migrate_database", "validate_migration",
		"track_entity_timeline",
	} {
		require.True(t, names[want], "expected tool %q to be registered", want)
	}

	result := reg.Dispatch(context.Background(), "store_memory", map[string]any{
		"type": "solution", "title": "Test", "content": "some content",
	})
	require.False(t, result.IsError, result.Text)
}
