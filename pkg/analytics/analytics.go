// Copyright (C) 2025-2026 Kraklabs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

// Package analytics implements the read-only graph algorithms of
// §4.H: path finding, cluster detection, bridge detection and
// aggregate metrics. Cluster detection builds its graph with
// dominikbraun/graph, the library pkg/graph/cycle.go uses for cycle
// detection; path finding and bridge detection walk their own
// adjacency maps.
package analytics

import (
	"context"
	"sort"
	"strings"

	dgraph "github.com/dominikbraun/graph"

	"github.com/kraklabs/memorygraph/pkg/model"
	"github.com/kraklabs/memorygraph/pkg/storage"
)

const DefaultMaxPathDepth = 6

// Analytics is a thin read-only layer over a storage.Backend; it never
// mutates and never holds a lock across a backend call (§5, §4.H).
type Analytics struct {
	backend storage.Backend
}

func New(backend storage.Backend) *Analytics {
	return &Analytics{backend: backend}
}

func (a *Analytics) currentRelationships(ctx context.Context) ([]*model.Relationship, error) {
	return a.backend.ListRelationships(ctx, storage.RelationshipFilter{OnlyCurrent: true})
}

// buildUndirected constructs the undirected view of current
// relationships as a directed graph holding every edge in both
// directions (dominikbraun/graph's component detection only accepts
// directed graphs), weight = 1-strength (lower weight = stronger
// edge), for AnalyzeClusters, which doesn't care about direction.
func buildUndirected(rels []*model.Relationship) dgraph.Graph[string, string] {
	g := dgraph.New(dgraph.StringHash, dgraph.Directed())
	for _, r := range rels {
		_ = g.AddVertex(r.FromMemoryID)
		_ = g.AddVertex(r.ToMemoryID)
		_ = g.AddEdge(r.FromMemoryID, r.ToMemoryID, dgraph.EdgeWeight(weightOf(r)))
		_ = g.AddEdge(r.ToMemoryID, r.FromMemoryID, dgraph.EdgeWeight(weightOf(r)))
	}
	return g
}

func weightOf(r *model.Relationship) int {
	w := int((1 - r.Properties.Strength) * 1000)
	if w < 1 {
		w = 1
	}
	return w
}

func sortStrings(s []string) []string {
	sort.Strings(s)
	return s
}

func contains(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
