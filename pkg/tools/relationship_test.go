// Copyright (C) 2025-2026 Kraklabs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreateRelationship_RejectsCycle(t *testing.T) {
	f := newFacade(t)
	a, err := StoreMemory(context.Background(), f, map[string]any{"type": "solution", "title": "A", "content": "content A"})
	require.NoError(t, err)
	b, err := StoreMemory(context.Background(), f, map[string]any{"type": "solution", "title": "B", "content": "content B"})
	require.NoError(t, err)
	idA := extractID(t, a.Text)
	idB := extractID(t, b.Text)

	_, err = CreateRelationship(context.Background(), f, map[string]any{
		"from_memory_id": idA, "to_memory_id": idB, "relationship_type": "DEPENDS_ON",
	})
	require.NoError(t, err)

	result, err := CreateRelationship(context.Background(), f, map[string]any{
		"from_memory_id": idB, "to_memory_id": idA, "relationship_type": "DEPENDS_ON",
	})
	require.NoError(t, err)
	require.True(t, result.IsError)
	require.Contains(t, result.Text, "cycle")
}

func TestGetRelatedMemories_FindsDirectNeighbor(t *testing.T) {
	f := newFacade(t)
	a, err := StoreMemory(context.Background(), f, map[string]any{"type": "solution", "title": "A", "content": "content A"})
	require.NoError(t, err)
	b, err := StoreMemory(context.Background(), f, map[string]any{"type": "solution", "title": "B", "content": "content B"})
	require.NoError(t, err)
	idA := extractID(t, a.Text)
	idB := extractID(t, b.Text)

	_, err = CreateRelationship(context.Background(), f, map[string]any{
		"from_memory_id": idA, "to_memory_id": idB, "relationship_type": "RELATED_TO",
	})
	require.NoError(t, err)

	result, err := GetRelatedMemories(context.Background(), f, map[string]any{"id": idA})
	require.NoError(t, err)
	require.Contains(t, result.Text, idB)
}

func TestReinforceRelationship_IncrementsStrength(t *testing.T) {
	f := newFacade(t)
	a, err := StoreMemory(context.Background(), f, map[string]any{"type": "solution", "title": "A", "content": "content A"})
	require.NoError(t, err)
	b, err := StoreMemory(context.Background(), f, map[string]any{"type": "solution", "title": "B", "content": "content B"})
	require.NoError(t, err)
	idA := extractID(t, a.Text)
	idB := extractID(t, b.Text)

	created, err := CreateRelationship(context.Background(), f, map[string]any{
		"from_memory_id": idA, "to_memory_id": idB, "relationship_type": "RELATED_TO",
	})
	require.NoError(t, err)
	relID := extractID(t, created.Text)

	result, err := ReinforceRelationship(context.Background(), f, map[string]any{"id": relID})
	require.NoError(t, err)
	require.Contains(t, result.Text, "evidence_count=1")
}

func TestSuggestRelationshipType_MatchesKeyword(t *testing.T) {
	f := newFacade(t)
	a, err := StoreMemory(context.Background(), f, map[string]any{"type": "problem", "title": "Timeout bug", "content": "requests time out under load"})
	require.NoError(t, err)
	b, err := StoreMemory(context.Background(), f, map[string]any{"type": "fix", "title": "Backoff patch", "content": "this fixes the timeout issue"})
	require.NoError(t, err)
	idA := extractID(t, a.Text)
	idB := extractID(t, b.Text)

	result, err := SuggestRelationshipType(context.Background(), f, map[string]any{"from_memory_id": idB, "to_memory_id": idA})
	require.NoError(t, err)
	require.Contains(t, result.Text, "FIXES")
}
