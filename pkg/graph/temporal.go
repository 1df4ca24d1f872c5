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

// InvalidateRelationship implements §4.D.4: sets valid_until=now,
// records the superseding relationship id, idempotent (a second call
// on an already-invalidated row is a no-op returning the existing
// row).
func (f *Facade) InvalidateRelationship(ctx context.Context, id string, invalidatedBy *string) (*model.Relationship, error) {
	return f.InvalidateRelationshipAt(ctx, id, invalidatedBy, f.now())
}

// InvalidateRelationshipAt is InvalidateRelationship with an explicit
// validity-time cutoff, for callers recording an invalidation at a
// time other than "now" (e.g. backfilling bi-temporal history).
func (f *Facade) InvalidateRelationshipAt(ctx context.Context, id string, invalidatedBy *string, at time.Time) (*model.Relationship, error) {
	r, err := f.backend.GetRelationship(ctx, id)
	if err != nil {
		return nil, wrapBackendErr(err)
	}
	if r == nil {
		return nil, model.NewNotFound("relationship %q not found", id)
	}
	if r.ValidUntil != nil {
		return r, nil
	}
	now := at.UTC()
	r.ValidUntil = &now
	r.InvalidatedBy = invalidatedBy
	r.UpdatedAt = now
	if err := withRetryErr(func() error { return f.backend.UpdateRelationship(ctx, r) }); err != nil {
		return nil, wrapBackendErr(err)
	}
	return r, nil
}

// GetRelationshipHistory implements §4.D.4: every relationship
// touching memoryID, ordered by valid_from ASC.
func (f *Facade) GetRelationshipHistory(ctx context.Context, memoryID string) ([]*model.Relationship, error) {
	rels, err := f.backend.ListRelationships(ctx, storage.RelationshipFilter{MemoryID: memoryID})
	if err != nil {
		return nil, wrapBackendErr(err)
	}
	sort.SliceStable(rels, func(i, j int) bool { return rels[i].ValidFrom.Before(rels[j].ValidFrom) })
	return rels, nil
}

// ChangeSet is the union what_changed returns (§4.D.4).
type ChangeSet struct {
	Created     []*model.Relationship
	Invalidated []*model.Relationship
}

// WhatChanged implements §4.D.4: union of rows recorded since `since`
// and rows invalidated since `since`.
func (f *Facade) WhatChanged(ctx context.Context, since time.Time) (*ChangeSet, error) {
	created, err := f.backend.ListRelationships(ctx, storage.RelationshipFilter{RecordedSince: &since})
	if err != nil {
		return nil, wrapBackendErr(err)
	}
	invalidated, err := f.backend.ListRelationships(ctx, storage.RelationshipFilter{InvalidatedSince: &since})
	if err != nil {
		return nil, wrapBackendErr(err)
	}
	return &ChangeSet{Created: created, Invalidated: invalidated}, nil
}

// QueryAsOf implements §4.D.4: equivalent to GetRelatedMemories with
// as_of=ts.
func (f *Facade) QueryAsOf(ctx context.Context, memoryID string, ts time.Time) ([]RelatedMemory, error) {
	return f.GetRelatedMemories(ctx, memoryID, 1, nil, &ts)
}

const (
	minReinforceDelta = 0.0
	maxReinforceDelta = 1.0
	defaultReinforceDelta = 0.05
)

// ReinforceRelationship implements the SPEC_FULL.md supplement:
// increments evidence_count, refreshes last_reinforced, and raises
// strength toward 1.0 by delta (default +0.05, clamped). Reinforcing
// an invalidated relationship is rejected (Open Question resolution:
// reject, recorded in DESIGN.md).
func (f *Facade) ReinforceRelationship(ctx context.Context, id string, delta *float64) (*model.Relationship, error) {
	r, err := f.backend.GetRelationship(ctx, id)
	if err != nil {
		return nil, wrapBackendErr(err)
	}
	if r == nil {
		return nil, model.NewNotFound("relationship %q not found", id)
	}
	if r.ValidUntil != nil {
		return nil, model.NewRelationshipError("cannot reinforce an invalidated relationship")
	}

	d := defaultReinforceDelta
	if delta != nil {
		d = *delta
	}
	now := f.now()
	r.Properties.EvidenceCount++
	r.Properties.LastReinforced = &now
	r.Properties.Strength = clamp(r.Properties.Strength+d, minReinforceDelta, maxReinforceDelta)
	r.UpdatedAt = now

	if err := withRetryErr(func() error { return f.backend.UpdateRelationship(ctx, r) }); err != nil {
		return nil, wrapBackendErr(err)
	}
	return r, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
