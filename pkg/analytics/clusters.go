// Copyright (C) 2025-2026 Kraklabs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

package analytics

import (
	"context"
	"sort"

	dgraph "github.com/dominikbraun/graph"

	"github.com/kraklabs/memorygraph/pkg/model"
)

// Cluster is a weakly connected component of the relationship graph
// restricted to edges at or above a strength threshold (§4.H's
// analyze_clusters).
type Cluster struct {
	MemoryIDs []string
}

// AnalyzeClusters implements §4.H: builds an undirected graph over
// current relationships with Properties.Strength >= minStrength,
// partitions it into weakly connected components via
// dominikbraun/graph's StronglyConnectedComponents on the
// symmetrized graph (undirected graphs have identical weak/strong
// components), and returns clusters sorted by size descending.
func (a *Analytics) AnalyzeClusters(ctx context.Context, minStrength float64) ([]Cluster, error) {
	rels, err := a.currentRelationships(ctx)
	if err != nil {
		return nil, err
	}

	filtered := make([]*model.Relationship, 0, len(rels))
	for _, r := range rels {
		if r.Properties.Strength >= minStrength {
			filtered = append(filtered, r)
		}
	}

	g := buildUndirected(filtered)
	components, err := dgraph.StronglyConnectedComponents(g)
	if err != nil {
		return nil, err
	}

	clusters := make([]Cluster, 0, len(components))
	for _, comp := range components {
		clusters = append(clusters, Cluster{MemoryIDs: sortStrings(comp)})
	}
	sort.SliceStable(clusters, func(i, j int) bool {
		if len(clusters[i].MemoryIDs) != len(clusters[j].MemoryIDs) {
			return len(clusters[i].MemoryIDs) > len(clusters[j].MemoryIDs)
		}
		return clusters[i].MemoryIDs[0] < clusters[j].MemoryIDs[0]
	})
	return clusters, nil
}
