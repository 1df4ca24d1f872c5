// Copyright (C) 2025-2026 Kraklabs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

package graph

import (
	"context"
	"sort"
	"time"

	"github.com/kraklabs/memorygraph/pkg/model"
	"github.com/kraklabs/memorygraph/pkg/storage"
)

// RelatedMemory pairs a neighbor with the relationship that connects
// it to the traversal root, and the hop depth at which it was found
// (§4.D.3).
type RelatedMemory struct {
	Memory       *model.Memory
	Relationship *model.Relationship
	Depth        int
}

// GetRelatedMemories implements §4.D.3: BFS from id, up to maxDepth
// hops, optional type filter, visibility gated by asOf (nil = now /
// current-only fast path).
func (f *Facade) GetRelatedMemories(ctx context.Context, id string, maxDepth int, types []model.RelationshipType, asOf *time.Time) ([]RelatedMemory, error) {
	if maxDepth <= 0 {
		maxDepth = 1
	}
	root, err := f.backend.GetMemory(ctx, id)
	if err != nil {
		return nil, wrapBackendErr(err)
	}
	if root == nil {
		return nil, model.NewNotFound("memory %q not found", id)
	}

	filter := storage.RelationshipFilter{Types: types}
	if asOf != nil {
		filter.AsOf = asOf
	} else {
		filter.OnlyCurrent = true
	}

	allRels, err := f.backend.ListRelationships(ctx, filter)
	if err != nil {
		return nil, wrapBackendErr(err)
	}

	// Build a bidirectional adjacency list keyed by both endpoints, so a
	// relationship is a link between its endpoints regardless of which
	// one was the creation-time "from" (matching pkg/analytics/path.go's
	// fwd.adjacency and pkg/analytics/bridges.go's bf.adjacency).
	adjacency := make(map[string][]*model.Relationship)
	for _, r := range allRels {
		adjacency[r.FromMemoryID] = append(adjacency[r.FromMemoryID], r)
		adjacency[r.ToMemoryID] = append(adjacency[r.ToMemoryID], r)
	}

	visited := map[string]bool{id: true}
	var results []RelatedMemory
	frontier := []string{id}

	for depth := 1; depth <= maxDepth && len(frontier) > 0; depth++ {
		var next []string
		for _, nodeID := range frontier {
			for _, r := range adjacency[nodeID] {
				neighborID := r.ToMemoryID
				if neighborID == nodeID {
					neighborID = r.FromMemoryID
				}
				if visited[neighborID] {
					continue
				}
				neighbor, err := f.backend.GetMemory(ctx, neighborID)
				if err != nil {
					return nil, wrapBackendErr(err)
				}
				if neighbor == nil {
					continue
				}
				visited[neighborID] = true
				results = append(results, RelatedMemory{Memory: neighbor, Relationship: r, Depth: depth})
				next = append(next, neighborID)
			}
		}
		frontier = next
	}

	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.Depth != b.Depth {
			return a.Depth < b.Depth
		}
		if a.Relationship.Properties.Strength != b.Relationship.Properties.Strength {
			return a.Relationship.Properties.Strength > b.Relationship.Properties.Strength
		}
		return a.Memory.ID < b.Memory.ID
	})
	return results, nil
}
