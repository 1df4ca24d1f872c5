// Copyright (C) 2025-2026 Kraklabs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

package graph

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kraklabs/memorygraph/pkg/model"
	"github.com/kraklabs/memorygraph/pkg/storage"
)

func newTestFacade(t *testing.T, cfg Config) *Facade {
	t.Helper()
	backend, err := storage.NewSQLiteBackend(storage.SQLiteConfig{Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = backend.Close() })
	return New(backend, cfg, nil)
}

func storeTestMemory(t *testing.T, f *Facade, title string, importance float64) *model.Memory {
	t.Helper()
	imp := importance
	m, err := f.StoreMemory(context.Background(), model.MemoryInput{
		Type: model.MemoryTypeGeneral, Title: title, Content: "content for " + title, Importance: &imp,
	})
	require.NoError(t, err)
	return m
}

// P1: store-then-get returns an equal Memory modulo updated_at/version.
func TestFacade_StoreThenGet(t *testing.T) {
	f := newTestFacade(t, Config{})
	m := storeTestMemory(t, f, "Fix", 0.5)

	got, _, err := f.GetMemory(context.Background(), m.ID, false)
	require.NoError(t, err)
	require.Equal(t, m.Title, got.Title)
	require.Equal(t, m.Content, got.Content)
	require.Equal(t, 1, got.Version)
}

// P2/S1: tags are lowercased on store.
func TestFacade_TagsLowercased(t *testing.T) {
	f := newTestFacade(t, Config{})
	m, err := f.StoreMemory(context.Background(), model.MemoryInput{
		Type: model.MemoryTypeSolution, Title: "Fix", Content: "Use backoff", Tags: []string{"Redis", "Timeout"},
	})
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"redis", "timeout"}, m.Tags)
}

// P5: delete-then-get returns NotFound; cascade removes relationships.
func TestFacade_DeleteCascades(t *testing.T) {
	f := newTestFacade(t, Config{})
	ctx := context.Background()
	a := storeTestMemory(t, f, "A", 0.5)
	b := storeTestMemory(t, f, "B", 0.5)

	rel, err := f.CreateRelationship(ctx, model.RelationshipInput{
		FromMemoryID: a.ID, ToMemoryID: b.ID, Type: model.RelSolves,
	}, nil)
	require.NoError(t, err)

	require.NoError(t, f.DeleteMemory(ctx, a.ID))

	_, _, err = f.GetMemory(ctx, a.ID, false)
	require.Error(t, err)
	e, ok := model.As(err)
	require.True(t, ok)
	require.Equal(t, model.KindNotFound, e.Kind)

	got, err := f.backendRelationship(ctx, rel.ID)
	require.NoError(t, err)
	require.Nil(t, got)
}

func (f *Facade) backendRelationship(ctx context.Context, id string) (*model.Relationship, error) {
	return f.backend.GetRelationship(ctx, id)
}

// P6/S2: a relationship closing a cycle is refused; allowed once cycles are permitted.
func TestFacade_CycleDetection(t *testing.T) {
	f := newTestFacade(t, Config{})
	ctx := context.Background()
	a := storeTestMemory(t, f, "A", 0.5)
	b := storeTestMemory(t, f, "B", 0.5)
	c := storeTestMemory(t, f, "C", 0.5)

	_, err := f.CreateRelationship(ctx, model.RelationshipInput{FromMemoryID: a.ID, ToMemoryID: b.ID, Type: model.RelDependsOn}, nil)
	require.NoError(t, err)
	_, err = f.CreateRelationship(ctx, model.RelationshipInput{FromMemoryID: b.ID, ToMemoryID: c.ID, Type: model.RelDependsOn}, nil)
	require.NoError(t, err)

	_, err = f.CreateRelationship(ctx, model.RelationshipInput{FromMemoryID: c.ID, ToMemoryID: a.ID, Type: model.RelDependsOn}, nil)
	require.Error(t, err)
	e, ok := model.As(err)
	require.True(t, ok)
	require.Equal(t, model.KindCycleDetected, e.Kind)
	require.Contains(t, e.Path, a.ID)
	require.Contains(t, e.Path, b.ID)
	require.Contains(t, e.Path, c.ID)

	allowCyclesFacade := newTestFacade(t, Config{AllowCycles: true})
	a2 := storeTestMemory(t, allowCyclesFacade, "A", 0.5)
	b2 := storeTestMemory(t, allowCyclesFacade, "B", 0.5)
	c2 := storeTestMemory(t, allowCyclesFacade, "C", 0.5)
	_, err = allowCyclesFacade.CreateRelationship(ctx, model.RelationshipInput{FromMemoryID: a2.ID, ToMemoryID: b2.ID, Type: model.RelDependsOn}, nil)
	require.NoError(t, err)
	_, err = allowCyclesFacade.CreateRelationship(ctx, model.RelationshipInput{FromMemoryID: b2.ID, ToMemoryID: c2.ID, Type: model.RelDependsOn}, nil)
	require.NoError(t, err)
	_, err = allowCyclesFacade.CreateRelationship(ctx, model.RelationshipInput{FromMemoryID: c2.ID, ToMemoryID: a2.ID, Type: model.RelDependsOn}, nil)
	require.NoError(t, err)
}

func TestFacade_SelfLoopRejected(t *testing.T) {
	f := newTestFacade(t, Config{})
	ctx := context.Background()
	a := storeTestMemory(t, f, "A", 0.5)
	_, err := f.CreateRelationship(ctx, model.RelationshipInput{FromMemoryID: a.ID, ToMemoryID: a.ID, Type: model.RelSolves}, nil)
	require.Error(t, err)
}

func TestFacade_SymmetricTypesExemptFromCycleCheck(t *testing.T) {
	f := newTestFacade(t, Config{})
	ctx := context.Background()
	a := storeTestMemory(t, f, "A", 0.5)
	b := storeTestMemory(t, f, "B", 0.5)

	_, err := f.CreateRelationship(ctx, model.RelationshipInput{FromMemoryID: a.ID, ToMemoryID: b.ID, Type: model.RelSimilarTo}, nil)
	require.NoError(t, err)
	_, err = f.CreateRelationship(ctx, model.RelationshipInput{FromMemoryID: b.ID, ToMemoryID: a.ID, Type: model.RelSimilarTo}, nil)
	require.NoError(t, err, "symmetric relationship types never participate in cycle checking")
}

// P7: get_related_memories default args never returns invalidated edges.
func TestFacade_GetRelatedMemories_CurrentOnly(t *testing.T) {
	f := newTestFacade(t, Config{})
	ctx := context.Background()
	a := storeTestMemory(t, f, "A", 0.5)
	b := storeTestMemory(t, f, "B", 0.5)

	rel, err := f.CreateRelationship(ctx, model.RelationshipInput{FromMemoryID: a.ID, ToMemoryID: b.ID, Type: model.RelSolves}, nil)
	require.NoError(t, err)
	_, err = f.InvalidateRelationship(ctx, rel.ID, nil)
	require.NoError(t, err)

	related, err := f.GetRelatedMemories(ctx, a.ID, 1, nil, nil)
	require.NoError(t, err)
	require.Empty(t, related)
}

// P8/S3: query_as_of returns exactly the edges visible at ts.
func TestFacade_QueryAsOf(t *testing.T) {
	f := newTestFacade(t, Config{})
	ctx := context.Background()
	a := storeTestMemory(t, f, "A", 0.5)
	b := storeTestMemory(t, f, "B", 0.5)
	c := storeTestMemory(t, f, "C", 0.5)

	jan1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	jun1 := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	mar1 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	aug1 := time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC)

	relAB, err := f.CreateRelationship(ctx, model.RelationshipInput{
		FromMemoryID: b.ID, ToMemoryID: a.ID, Type: model.RelSolves, ValidFrom: &jan1,
	}, nil)
	require.NoError(t, err)

	cID := c.ID
	_, err = f.InvalidateRelationshipAt(ctx, relAB.ID, &cID, jun1)
	require.NoError(t, err)

	_, err = f.CreateRelationship(ctx, model.RelationshipInput{
		FromMemoryID: c.ID, ToMemoryID: a.ID, Type: model.RelSolves, ValidFrom: &jun1,
	}, nil)
	require.NoError(t, err)

	before, err := f.QueryAsOf(ctx, a.ID, mar1)
	require.NoError(t, err)
	require.Len(t, before, 1)
	require.Equal(t, b.ID, before[0].Memory.ID)

	after, err := f.QueryAsOf(ctx, a.ID, aug1)
	require.NoError(t, err)
	require.Len(t, after, 1)
	require.Equal(t, c.ID, after[0].Memory.ID)

	history, err := f.GetRelationshipHistory(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
}

// P9/S4: pagination returns min(L, max(0, N-O)) items with correct metadata.
func TestFacade_Pagination(t *testing.T) {
	f := newTestFacade(t, Config{})
	ctx := context.Background()
	for i := 0; i < 237; i++ {
		storeTestMemory(t, f, "memory", 0.5)
	}

	result, err := f.Search(ctx, model.SearchQuery{Query: "", Limit: 50, Offset: 100})
	require.NoError(t, err)
	require.Len(t, result.Items, 50)
	require.Equal(t, 237, result.TotalCount)
	require.True(t, result.HasMore)
	require.NotNil(t, result.NextOffset)
	require.Equal(t, 150, *result.NextOffset)
}

func TestFacade_ReinforceRejectsInvalidated(t *testing.T) {
	f := newTestFacade(t, Config{})
	ctx := context.Background()
	a := storeTestMemory(t, f, "A", 0.5)
	b := storeTestMemory(t, f, "B", 0.5)
	rel, err := f.CreateRelationship(ctx, model.RelationshipInput{FromMemoryID: a.ID, ToMemoryID: b.ID, Type: model.RelSolves}, nil)
	require.NoError(t, err)
	_, err = f.InvalidateRelationship(ctx, rel.ID, nil)
	require.NoError(t, err)

	_, err = f.ReinforceRelationship(ctx, rel.ID, nil)
	require.Error(t, err)
	e, ok := model.As(err)
	require.True(t, ok)
	require.Equal(t, model.KindRelationshipError, e.Kind)
}
