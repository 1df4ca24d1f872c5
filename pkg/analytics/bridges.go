// Copyright (C) 2025-2026 Kraklabs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

package analytics

import (
	"context"
	"sort"

	"github.com/kraklabs/memorygraph/pkg/model"
)

// Bridge is a relationship whose removal disconnects its two
// endpoints' components (§4.H's find_bridges).
type Bridge struct {
	Relationship *model.Relationship
}

type bridgeFinder struct {
	adjacency map[string][]*model.Relationship
	disc      map[string]int
	low       map[string]int
	timer     int
	bridges   []*model.Relationship
}

// FindBridges implements the classic O(V+E) DFS bridge-finding
// algorithm (Tarjan) over the current relationship graph treated as
// undirected: no pack library exposes bridge detection, so this is a
// direct, textbook hand-rolled implementation rather than an
// adaptation of one.
func (a *Analytics) FindBridges(ctx context.Context) ([]Bridge, error) {
	rels, err := a.currentRelationships(ctx)
	if err != nil {
		return nil, err
	}

	bf := &bridgeFinder{adjacency: map[string][]*model.Relationship{}, disc: map[string]int{}, low: map[string]int{}}
	for _, r := range rels {
		bf.adjacency[r.FromMemoryID] = append(bf.adjacency[r.FromMemoryID], r)
		bf.adjacency[r.ToMemoryID] = append(bf.adjacency[r.ToMemoryID], r)
	}

	visited := map[string]bool{}
	for node := range bf.adjacency {
		if !visited[node] {
			bf.dfs(node, "", visited)
		}
	}

	sort.SliceStable(bf.bridges, func(i, j int) bool { return bf.bridges[i].ID < bf.bridges[j].ID })
	bridges := make([]Bridge, len(bf.bridges))
	for i, r := range bf.bridges {
		bridges[i] = Bridge{Relationship: r}
	}
	return bridges, nil
}

func (bf *bridgeFinder) dfs(node, viaRelID string, visited map[string]bool) {
	visited[node] = true
	bf.timer++
	bf.disc[node] = bf.timer
	bf.low[node] = bf.timer

	for _, r := range bf.adjacency[node] {
		if r.ID == viaRelID {
			continue
		}
		neighbor := neighborOf(r, node)
		if !visited[neighbor] {
			bf.dfs(neighbor, r.ID, visited)
			if bf.low[neighbor] < bf.low[node] {
				bf.low[node] = bf.low[neighbor]
			}
			if bf.low[neighbor] > bf.disc[node] {
				bf.bridges = append(bf.bridges, r)
			}
		} else if bf.disc[neighbor] < bf.low[node] {
			bf.low[node] = bf.disc[neighbor]
		}
	}
}
