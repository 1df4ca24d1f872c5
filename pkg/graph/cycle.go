// Copyright (C) 2025-2026 Kraklabs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

package graph

import (
	"context"

	dgraph "github.com/dominikbraun/graph"

	"github.com/kraklabs/memorygraph/pkg/model"
	"github.com/kraklabs/memorygraph/pkg/storage"
)

// wouldCreateCycle implements §4.D.2's reverse-DFS cycle check: a new
// edge from -> to closes a cycle iff `from` is reachable from `to`
// walking *current* relationships restricted to the ordering-imposing
// type set. Built on dominikbraun/graph for the underlying directed
// graph and its built-in cycle-safe traversal, rather than a hand
// rolled visited-set walk, so the graph algorithms in this package
// share one representation with pkg/analytics.
//
// Returns the discovered cycle path (from -> ... -> from) when one
// would be created, or nil when the edge is safe to add.
func (f *Facade) wouldCreateCycle(ctx context.Context, from, to string) ([]string, error) {
	exempt := f.cfg.OrderingExempt
	rels, err := f.backend.ListRelationships(ctx, storage.RelationshipFilter{OnlyCurrent: true})
	if err != nil {
		return nil, wrapBackendErr(err)
	}

	g := dgraph.New(dgraph.StringHash, dgraph.Directed())
	addVertex := func(id string) {
		_ = g.AddVertex(id) // AddVertex on an existing hash is a no-op error we intentionally ignore.
	}

	for _, r := range rels {
		if !model.IsOrderingImposing(r.Type, exempt) {
			continue
		}
		addVertex(r.FromMemoryID)
		addVertex(r.ToMemoryID)
		_ = g.AddEdge(r.FromMemoryID, r.ToMemoryID)
	}
	addVertex(from)
	addVertex(to)

	// A new edge from->to closes a cycle over the ordering-imposing
	// subgraph iff `from` is already reachable from `to`: walking that
	// existing path and then following the new edge back to `from`
	// reproduces the cycle.
	if from == to {
		return []string{from, to}, nil
	}
	path, err := dgraph.ShortestPath(g, to, from)
	if err != nil {
		// dgraph.ErrTargetNotReachable (or vertex-not-found on a brand
		// new node) both mean "no path" here — safe to add the edge.
		return nil, nil
	}
	// path runs to -> ... -> from; prefixing from reproduces the full
	// cycle the new from->to edge would close: from -> to -> ... -> from.
	return append([]string{from}, path...), nil
}

// CreateRelationship implements §4.D.2: endpoint existence, self-loop
// rejection, context extraction, cycle detection, then insert.
func (f *Facade) CreateRelationship(ctx context.Context, in model.RelationshipInput, extractedContext *model.ExtractedContext) (*model.Relationship, error) {
	if err := model.ValidateRelationshipInput(in); err != nil {
		return nil, err
	}

	fromMem, err := f.backend.GetMemory(ctx, in.FromMemoryID)
	if err != nil {
		return nil, wrapBackendErr(err)
	}
	if fromMem == nil {
		return nil, model.NewNotFound("memory %q not found", in.FromMemoryID)
	}
	toMem, err := f.backend.GetMemory(ctx, in.ToMemoryID)
	if err != nil {
		return nil, wrapBackendErr(err)
	}
	if toMem == nil {
		return nil, model.NewNotFound("memory %q not found", in.ToMemoryID)
	}

	if !f.cfg.AllowCycles && model.IsOrderingImposing(in.Type, f.cfg.OrderingExempt) {
		path, err := f.wouldCreateCycle(ctx, in.FromMemoryID, in.ToMemoryID)
		if err != nil {
			return nil, err
		}
		if path != nil {
			return nil, model.NewCycleDetected(path)
		}
	}

	now := f.now()
	validFrom := now
	if in.ValidFrom != nil {
		validFrom = in.ValidFrom.UTC()
	}

	props := model.RelationshipProperties{
		EvidenceCount: 0,
		ContextJSON:   extractedContext,
	}
	if in.Strength != nil {
		props.Strength = *in.Strength
	} else {
		props.Strength = 0.5
	}
	if in.Confidence != nil {
		props.Confidence = *in.Confidence
	} else {
		props.Confidence = 0.5
	}

	r := &model.Relationship{
		ID: f.newID(), FromMemoryID: in.FromMemoryID, ToMemoryID: in.ToMemoryID, Type: in.Type,
		Properties: props, ValidFrom: validFrom, RecordedAt: now, CreatedAt: now, UpdatedAt: now,
	}

	if err := withRetryErr(func() error { return f.backend.CreateRelationship(ctx, r) }); err != nil {
		return nil, wrapBackendErr(err)
	}
	return r, nil
}
