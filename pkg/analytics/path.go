// Copyright (C) 2025-2026 Kraklabs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

package analytics

import (
	"context"

	"github.com/kraklabs/memorygraph/pkg/model"
)

// PathStep is one hop of a discovered path: the memory arrived at and
// the relationship used to reach it.
type PathStep struct {
	Memory       *model.Memory
	Relationship *model.Relationship
}

// Path is the result of FindPath: the full step sequence and its
// accumulated strength (sum of edge strengths along the path). When
// several paths of equal length exist, FindPath returns the first one
// its search meets; AccumulatedStrength is not used to choose among
// them.
type Path struct {
	Steps               []PathStep
	AccumulatedStrength float64
}

type frontierEntry struct {
	rel  *model.Relationship
	prev string
}

type searchDirection struct {
	adjacency map[string][]*model.Relationship
	visited   map[string]*frontierEntry
}

func neighborOf(r *model.Relationship, node string) string {
	if r.FromMemoryID == node {
		return r.ToMemoryID
	}
	return r.FromMemoryID
}

// expand advances one BFS layer, returning the new frontier and,
// if any newly-visited node is already visited by the other
// direction, that meeting node.
func expand(dir *searchDirection, frontier []string, other map[string]*frontierEntry) ([]string, string) {
	var next []string
	for _, node := range frontier {
		for _, r := range dir.adjacency[node] {
			neighbor := neighborOf(r, node)
			if _, seen := dir.visited[neighbor]; seen {
				continue
			}
			dir.visited[neighbor] = &frontierEntry{rel: r, prev: node}
			next = append(next, neighbor)
			if _, ok := other[neighbor]; ok {
				return next, neighbor
			}
		}
	}
	return next, ""
}

// step pairs a relationship with the id of the node it leads to.
type step struct {
	rel    *model.Relationship
	nodeID string
}

func reconstructForward(dir *searchDirection, node string) []step {
	var rev []step
	for {
		entry := dir.visited[node]
		if entry == nil {
			break
		}
		rev = append(rev, step{rel: entry.rel, nodeID: node})
		node = entry.prev
	}
	for i, j := 0, len(rev)-1; i < j; i, j = i+1, j-1 {
		rev[i], rev[j] = rev[j], rev[i]
	}
	return rev
}

func reconstructBackward(dir *searchDirection, node string) []step {
	var steps []step
	for {
		entry := dir.visited[node]
		if entry == nil {
			break
		}
		steps = append(steps, step{rel: entry.rel, nodeID: entry.prev})
		node = entry.prev
	}
	return steps
}

// FindPath implements §4.H's find_path: bidirectional BFS bounded to
// maxDepth total hops (capped at DefaultMaxPathDepth), alternately
// expanding one layer from `from` and one layer from `to` over current
// relationships treated as undirected, meeting in the middle. Returns
// nil, nil when no path exists within the bound.
func (a *Analytics) FindPath(ctx context.Context, from, to string, maxDepth int) (*Path, error) {
	if maxDepth <= 0 || maxDepth > DefaultMaxPathDepth {
		maxDepth = DefaultMaxPathDepth
	}
	if from == to {
		return &Path{}, nil
	}

	rels, err := a.currentRelationships(ctx)
	if err != nil {
		return nil, err
	}

	fwd := &searchDirection{adjacency: map[string][]*model.Relationship{}, visited: map[string]*frontierEntry{from: nil}}
	bwd := &searchDirection{adjacency: map[string][]*model.Relationship{}, visited: map[string]*frontierEntry{to: nil}}
	for _, r := range rels {
		fwd.adjacency[r.FromMemoryID] = append(fwd.adjacency[r.FromMemoryID], r)
		fwd.adjacency[r.ToMemoryID] = append(fwd.adjacency[r.ToMemoryID], r)
		bwd.adjacency[r.FromMemoryID] = append(bwd.adjacency[r.FromMemoryID], r)
		bwd.adjacency[r.ToMemoryID] = append(bwd.adjacency[r.ToMemoryID], r)
	}

	fwdFrontier := []string{from}
	bwdFrontier := []string{to}
	var meet string

	for hops := 0; hops < maxDepth; hops++ {
		if hops%2 == 0 {
			fwdFrontier, meet = expand(fwd, fwdFrontier, bwd.visited)
		} else {
			bwdFrontier, meet = expand(bwd, bwdFrontier, fwd.visited)
		}
		if meet != "" {
			break
		}
		if len(fwdFrontier) == 0 && len(bwdFrontier) == 0 {
			break
		}
	}
	if meet == "" {
		return nil, nil
	}

	rawSteps := append(reconstructForward(fwd, meet), reconstructBackward(bwd, meet)...)

	var total float64
	steps := make([]PathStep, len(rawSteps))
	for i, rs := range rawSteps {
		total += rs.rel.Properties.Strength
		m, err := a.backend.GetMemory(ctx, rs.nodeID)
		if err != nil {
			return nil, err
		}
		steps[i] = PathStep{Memory: m, Relationship: rs.rel}
	}
	return &Path{Steps: steps, AccumulatedStrength: total}, nil
}
