// Copyright (C) 2025-2026 Kraklabs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kraklabs/memorygraph/pkg/graph"
	"github.com/kraklabs/memorygraph/pkg/storage"
)

func newFacade(t *testing.T) *graph.Facade {
	t.Helper()
	backend, err := storage.NewSQLiteBackend(storage.SQLiteConfig{Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = backend.Close() })
	return graph.New(backend, graph.Config{}, nil)
}

func TestStoreMemory_ReturnsIDAndTags(t *testing.T) {
	f := newFacade(t)
	result, err := StoreMemory(context.Background(), f, map[string]any{
		"type": "solution", "title": "Fix flaky test", "content": "Added retry with backoff",
		"tags": []any{"Testing", "CI"},
	})
	require.NoError(t, err)
	require.False(t, result.IsError)
	require.Contains(t, result.Text, "solution")
	require.Contains(t, result.Text, "testing, ci")
}

func TestStoreMemory_ValidationErrorSurfaces(t *testing.T) {
	f := newFacade(t)
	_, err := StoreMemory(context.Background(), f, map[string]any{"type": "solution"})
	require.Error(t, err)
}

func TestGetMemory_MissingIDReturnsToolError(t *testing.T) {
	f := newFacade(t)
	result, err := GetMemory(context.Background(), f, map[string]any{})
	require.NoError(t, err)
	require.True(t, result.IsError)
}

func TestGetMemory_IncludesRelationshipsWhenRequested(t *testing.T) {
	f := newFacade(t)
	a, err := StoreMemory(context.Background(), f, map[string]any{"type": "solution", "title": "A", "content": "content A"})
	require.NoError(t, err)
	b, err := StoreMemory(context.Background(), f, map[string]any{"type": "solution", "title": "B", "content": "content B"})
	require.NoError(t, err)

	idA := extractID(t, a.Text)
	idB := extractID(t, b.Text)

	_, err = CreateRelationship(context.Background(), f, map[string]any{
		"from_memory_id": idA, "to_memory_id": idB, "relationship_type": "related_to",
	})
	require.NoError(t, err)

	result, err := GetMemory(context.Background(), f, map[string]any{"id": idA, "include_relationships": true})
	require.NoError(t, err)
	require.Contains(t, result.Text, "Current relationships: 1")
}

func TestUpdateMemory_BumpsVersion(t *testing.T) {
	f := newFacade(t)
	stored, err := StoreMemory(context.Background(), f, map[string]any{"type": "solution", "title": "A", "content": "content A"})
	require.NoError(t, err)
	id := extractID(t, stored.Text)

	result, err := UpdateMemory(context.Background(), f, map[string]any{
		"id": id, "type": "solution", "title": "A v2", "content": "content A updated",
	})
	require.NoError(t, err)
	require.Contains(t, result.Text, "version 2")
}

func TestDeleteMemory_RemovesIt(t *testing.T) {
	f := newFacade(t)
	stored, err := StoreMemory(context.Background(), f, map[string]any{"type": "solution", "title": "A", "content": "content A"})
	require.NoError(t, err)
	id := extractID(t, stored.Text)

	result, err := DeleteMemory(context.Background(), f, map[string]any{"id": id})
	require.NoError(t, err)
	require.False(t, result.IsError)

	_, err = GetMemory(context.Background(), f, map[string]any{"id": id})
	require.Error(t, err)
}

// extractID pulls the bracketed id out of a StoreMemory confirmation
// string ("Stored solution memory [<id>]\n...").
func extractID(t *testing.T, text string) string {
	t.Helper()
	start := -1
	for i, r := range text {
		if r == '[' {
			start = i + 1
			break
		}
	}
	require.NotEqual(t, -1, start)
	end := start
	for i := start; i < len(text); i++ {
		if text[i] == ']' {
			end = i
			break
		}
	}
	return text[start:end]
}
