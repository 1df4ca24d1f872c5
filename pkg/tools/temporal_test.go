// Copyright (C) 2025-2026 Kraklabs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

package tools

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGetRelationshipHistory_OrdersByValidFrom(t *testing.T) {
	f := newFacade(t)
	a, err := StoreMemory(context.Background(), f, map[string]any{"type": "solution", "title": "A", "content": "content A"})
	require.NoError(t, err)
	b, err := StoreMemory(context.Background(), f, map[string]any{"type": "solution", "title": "B", "content": "content B"})
	require.NoError(t, err)
	c, err := StoreMemory(context.Background(), f, map[string]any{"type": "solution", "title": "C", "content": "content C"})
	require.NoError(t, err)
	idA, idB, idC := extractID(t, a.Text), extractID(t, b.Text), extractID(t, c.Text)

	_, err = CreateRelationship(context.Background(), f, map[string]any{
		"from_memory_id": idA, "to_memory_id": idB, "relationship_type": "RELATED_TO",
	})
	require.NoError(t, err)
	_, err = CreateRelationship(context.Background(), f, map[string]any{
		"from_memory_id": idA, "to_memory_id": idC, "relationship_type": "RELATED_TO",
		"valid_from": "2020-01-01T00:00:00Z",
	})
	require.NoError(t, err)

	result, err := GetRelationshipHistory(context.Background(), f, map[string]any{"id": idA})
	require.NoError(t, err)
	require.Contains(t, result.Text, idB)
	require.Contains(t, result.Text, idC)
	require.Less(t, strings.Index(result.Text, idC), strings.Index(result.Text, idB))
}

func TestWhatChanged_ReportsCreatedRelationships(t *testing.T) {
	f := newFacade(t)
	since := time.Now().UTC().Add(-time.Hour)
	a, err := StoreMemory(context.Background(), f, map[string]any{"type": "solution", "title": "A", "content": "content A"})
	require.NoError(t, err)
	b, err := StoreMemory(context.Background(), f, map[string]any{"type": "solution", "title": "B", "content": "content B"})
	require.NoError(t, err)
	idA, idB := extractID(t, a.Text), extractID(t, b.Text)

	_, err = CreateRelationship(context.Background(), f, map[string]any{
		"from_memory_id": idA, "to_memory_id": idB, "relationship_type": "RELATED_TO",
	})
	require.NoError(t, err)

	result, err := WhatChanged(context.Background(), f, map[string]any{"since": since.Format("2006-01-02T15:04:05Z")})
	require.NoError(t, err)
	require.Contains(t, result.Text, "Created (1)")
}

func TestQueryAsOf_RequiresTimestamp(t *testing.T) {
	f := newFacade(t)
	result, err := QueryAsOf(context.Background(), f, map[string]any{"id": "anything"})
	require.NoError(t, err)
	require.True(t, result.IsError)
}
