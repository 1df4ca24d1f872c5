// Copyright (C) 2025-2026 Kraklabs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

package analytics

import (
	"context"

	"github.com/kraklabs/memorygraph/pkg/model"
	"github.com/kraklabs/memorygraph/pkg/storage"
)

// GraphMetrics implements §4.H's graph_metrics aggregate snapshot.
type GraphMetrics struct {
	MemoryCount           int
	RelationshipCount     int
	MemoriesByType        map[model.MemoryType]int
	AvgRelationshipsPerMemory float64
	Density               float64
	ConnectedComponents   int
}

// GraphMetrics computes the aggregate counts of §4.H. Read-only, no
// lock held across its backend calls (§5).
func (a *Analytics) GraphMetrics(ctx context.Context) (*GraphMetrics, error) {
	memories, err := a.backend.ListMemories(ctx, storage.MemoryFilter{})
	if err != nil {
		return nil, err
	}
	rels, err := a.currentRelationships(ctx)
	if err != nil {
		return nil, err
	}

	byType := make(map[model.MemoryType]int, len(model.ValidMemoryTypes))
	for _, m := range memories {
		byType[m.Type]++
	}

	n := len(memories)
	e := len(rels)
	var avg, density float64
	if n > 0 {
		avg = float64(2*e) / float64(n)
	}
	if n > 1 {
		density = float64(2*e) / float64(n*(n-1))
	}

	clusters, err := a.AnalyzeClusters(ctx, 0)
	if err != nil {
		return nil, err
	}
	isolated := 0
	connected := map[string]bool{}
	for _, c := range clusters {
		for _, id := range c.MemoryIDs {
			connected[id] = true
		}
	}
	for _, m := range memories {
		if !connected[m.ID] {
			isolated++
		}
	}

	return &GraphMetrics{
		MemoryCount:               n,
		RelationshipCount:         e,
		MemoriesByType:            byType,
		AvgRelationshipsPerMemory: avg,
		Density:                   density,
		ConnectedComponents:       len(clusters) + isolated,
	}, nil
}
