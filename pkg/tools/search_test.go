// Copyright (C) 2025-2026 Kraklabs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSearchMemories_MatchesQuery(t *testing.T) {
	f := newFacade(t)
	_, err := StoreMemory(context.Background(), f, map[string]any{"type": "solution", "title": "Redis timeout fix", "content": "increase connection pool size"})
	require.NoError(t, err)
	_, err = StoreMemory(context.Background(), f, map[string]any{"type": "solution", "title": "Unrelated", "content": "something else entirely"})
	require.NoError(t, err)

	result, err := SearchMemories(context.Background(), f, map[string]any{"query": "redis"})
	require.NoError(t, err)
	require.Contains(t, result.Text, "Redis timeout fix")
	require.NotContains(t, result.Text, "Unrelated")
}

func TestSearchMemories_NoResults(t *testing.T) {
	f := newFacade(t)
	result, err := SearchMemories(context.Background(), f, map[string]any{"query": "nothing-matches-this"})
	require.NoError(t, err)
	require.Equal(t, "No memories found.", result.Text)
}

func TestGetRecentActivity_DefaultsToLast24Hours(t *testing.T) {
	f := newFacade(t)
	_, err := StoreMemory(context.Background(), f, map[string]any{"type": "general", "title": "Recent", "content": "just stored"})
	require.NoError(t, err)

	result, err := GetRecentActivity(context.Background(), f, map[string]any{})
	require.NoError(t, err)
	require.Contains(t, result.Text, "Recent")
}

func TestSearchRelationshipsByContext_RequiresBothArgs(t *testing.T) {
	f := newFacade(t)
	result, err := SearchRelationshipsByContext(context.Background(), f, map[string]any{})
	require.NoError(t, err)
	require.True(t, result.IsError)
}
