// Copyright (C) 2025-2026 Kraklabs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

package analytics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kraklabs/memorygraph/pkg/graph"
	"github.com/kraklabs/memorygraph/pkg/model"
	"github.com/kraklabs/memorygraph/pkg/storage"
)

func newFixture(t *testing.T) (*graph.Facade, *Analytics) {
	t.Helper()
	backend, err := storage.NewSQLiteBackend(storage.SQLiteConfig{Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = backend.Close() })
	f := graph.New(backend, graph.Config{}, nil)
	return f, New(backend)
}

func memo(t *testing.T, f *graph.Facade, title string) *model.Memory {
	t.Helper()
	m, err := f.StoreMemory(context.Background(), model.MemoryInput{
		Type: model.MemoryTypeGeneral, Title: title, Content: "content about " + title,
	})
	require.NoError(t, err)
	return m
}

func link(t *testing.T, f *graph.Facade, from, to *model.Memory, typ model.RelationshipType) *model.Relationship {
	t.Helper()
	r, err := f.CreateRelationship(context.Background(), model.RelationshipInput{
		FromMemoryID: from.ID, ToMemoryID: to.ID, Type: typ,
	}, nil)
	require.NoError(t, err)
	return r
}

func TestFindPath_DirectChain(t *testing.T) {
	f, an := newFixture(t)
	ctx := context.Background()
	a := memo(t, f, "A")
	b := memo(t, f, "B")
	c := memo(t, f, "C")
	link(t, f, a, b, model.RelDependsOn)
	link(t, f, b, c, model.RelDependsOn)

	path, err := an.FindPath(ctx, a.ID, c.ID, 6)
	require.NoError(t, err)
	require.NotNil(t, path)
	require.Len(t, path.Steps, 2)
	require.Equal(t, b.ID, path.Steps[0].Memory.ID)
	require.Equal(t, c.ID, path.Steps[1].Memory.ID)
}

func TestFindPath_Unreachable(t *testing.T) {
	f, an := newFixture(t)
	ctx := context.Background()
	a := memo(t, f, "A")
	b := memo(t, f, "B")

	path, err := an.FindPath(ctx, a.ID, b.ID, 6)
	require.NoError(t, err)
	require.Nil(t, path)
}

func TestAnalyzeClusters_SplitsDisjointComponents(t *testing.T) {
	f, an := newFixture(t)
	ctx := context.Background()
	a := memo(t, f, "A")
	b := memo(t, f, "B")
	c := memo(t, f, "C")
	d := memo(t, f, "D")
	link(t, f, a, b, model.RelSolves)
	link(t, f, c, d, model.RelSolves)

	clusters, err := an.AnalyzeClusters(ctx, 0)
	require.NoError(t, err)
	require.Len(t, clusters, 2)
	for _, cl := range clusters {
		require.Len(t, cl.MemoryIDs, 2)
	}
}

func TestFindBridges_SingleEdgeBetweenComponentsIsABridge(t *testing.T) {
	f, an := newFixture(t)
	ctx := context.Background()
	a := memo(t, f, "A")
	b := memo(t, f, "B")
	c := memo(t, f, "C")
	link(t, f, a, b, model.RelSolves)
	bridge := link(t, f, b, c, model.RelSolves)

	bridges, err := an.FindBridges(ctx)
	require.NoError(t, err)
	require.Len(t, bridges, 2)

	var found bool
	for _, br := range bridges {
		if br.Relationship.ID == bridge.ID {
			found = true
		}
	}
	require.True(t, found)
}

func TestFindBridges_TriangleHasNoBridges(t *testing.T) {
	f, an := newFixture(t)
	ctx := context.Background()
	a := memo(t, f, "A")
	b := memo(t, f, "B")
	c := memo(t, f, "C")
	link(t, f, a, b, model.RelSimilarTo)
	link(t, f, b, c, model.RelSimilarTo)
	link(t, f, c, a, model.RelSimilarTo)

	bridges, err := an.FindBridges(ctx)
	require.NoError(t, err)
	require.Empty(t, bridges)
}

func TestGraphMetrics_CountsMemoriesAndRelationships(t *testing.T) {
	f, an := newFixture(t)
	ctx := context.Background()
	a := memo(t, f, "A")
	b := memo(t, f, "B")
	link(t, f, a, b, model.RelSolves)

	metrics, err := an.GraphMetrics(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, metrics.MemoryCount)
	require.Equal(t, 1, metrics.RelationshipCount)
}

func TestTrackEntityTimeline_OrdersByCreatedAt(t *testing.T) {
	f, an := newFixture(t)
	ctx := context.Background()
	memo(t, f, "unrelated")
	redis1 := memo(t, f, "redis connection pooling")
	redis2 := memo(t, f, "redis cluster failover")

	timeline, err := an.TrackEntityTimeline(ctx, "redis")
	require.NoError(t, err)
	require.Len(t, timeline, 2)
	require.Equal(t, redis1.ID, timeline[0].ID)
	require.Equal(t, redis2.ID, timeline[1].ID)
}
