// Copyright (C) 2025-2026 Kraklabs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBulkStoreMemories_StoresAllValidItems(t *testing.T) {
	f := newFacade(t)
	result, err := BulkStoreMemories(context.Background(), f, map[string]any{
		"items": []any{
			map[string]any{"type": "solution", "title": "A", "content": "content A"},
			map[string]any{"type": "solution", "title": "B", "content": "content B"},
		},
	})
	require.NoError(t, err)
	require.False(t, result.IsError)
	require.Contains(t, result.Text, "Stored 2 of 2 items")
}

func TestBulkStoreMemories_RejectsAllOnAnyValidationFailure(t *testing.T) {
	f := newFacade(t)
	result, err := BulkStoreMemories(context.Background(), f, map[string]any{
		"items": []any{
			map[string]any{"type": "solution", "title": "A", "content": "content A"},
			map[string]any{"type": "solution"},
		},
	})
	require.NoError(t, err)
	require.True(t, result.IsError)
	require.Contains(t, result.Text, "Nothing was stored")
}

func TestBulkStoreMemories_RejectsOverCap(t *testing.T) {
	f := newFacade(t)
	items := make([]any, maxBulkItems+1)
	for i := range items {
		items[i] = map[string]any{"type": "solution", "title": "A", "content": "content A"}
	}
	result, err := BulkStoreMemories(context.Background(), f, map[string]any{"items": items})
	require.NoError(t, err)
	require.True(t, result.IsError)
	require.Contains(t, result.Text, "Too many items")
}

func TestBulkStoreMemories_RequiresItems(t *testing.T) {
	f := newFacade(t)
	result, err := BulkStoreMemories(context.Background(), f, map[string]any{})
	require.NoError(t, err)
	require.True(t, result.IsError)
}
