// Copyright (C) 2025-2026 Kraklabs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

package graph

import (
	"context"

	"github.com/kraklabs/memorygraph/pkg/model"
)

// ImportMemory re-inserts a previously exported memory verbatim
// (preserving id, timestamps and version) after re-validating its
// content, for pkg/migration's Import (§4.E). refuseIfExists rejects
// rather than overwrites when the id is already present.
func (f *Facade) ImportMemory(ctx context.Context, m *model.Memory, refuseIfExists bool) error {
	validateIn := model.MemoryInput{
		Type: m.Type, Title: m.Title, Content: m.Content, Summary: m.Summary,
		Tags: m.Tags, Context: m.Context,
	}
	if err := model.ValidateMemoryInput(validateIn); err != nil {
		return err
	}

	existing, err := f.backend.GetMemory(ctx, m.ID)
	if err != nil {
		return wrapBackendErr(err)
	}
	if existing != nil && refuseIfExists {
		return model.NewConflict("memory %q already exists", m.ID)
	}

	cp := *m
	cp.Tags = model.NormalizeTags(m.Tags)
	if err := withRetryErr(func() error { return f.backend.StoreMemory(ctx, &cp) }); err != nil {
		return wrapBackendErr(err)
	}
	return nil
}

// ImportRelationship re-inserts a previously exported relationship
// verbatim (preserving id, properties and timestamps, so a migrated
// target hashes identically to its source per pkg/migration's
// CanonicalHash), re-validating endpoints exist and re-running the same
// reverse-DFS cycle check CreateRelationship uses (pkg/graph/cycle.go),
// so every invariant is re-checked on import as spec'd rather than
// bypassed.
func (f *Facade) ImportRelationship(ctx context.Context, r *model.Relationship, refuseIfExists bool) error {
	in := model.RelationshipInput{
		FromMemoryID: r.FromMemoryID, ToMemoryID: r.ToMemoryID, Type: r.Type,
		Strength: &r.Properties.Strength, Confidence: &r.Properties.Confidence,
	}
	if err := model.ValidateRelationshipInput(in); err != nil {
		return err
	}

	fromMem, err := f.backend.GetMemory(ctx, r.FromMemoryID)
	if err != nil {
		return wrapBackendErr(err)
	}
	if fromMem == nil {
		return model.NewNotFound("memory %q not found", r.FromMemoryID)
	}
	toMem, err := f.backend.GetMemory(ctx, r.ToMemoryID)
	if err != nil {
		return wrapBackendErr(err)
	}
	if toMem == nil {
		return model.NewNotFound("memory %q not found", r.ToMemoryID)
	}

	existing, err := f.backend.GetRelationship(ctx, r.ID)
	if err != nil {
		return wrapBackendErr(err)
	}
	if existing != nil && refuseIfExists {
		return model.NewConflict("relationship %q already exists", r.ID)
	}

	if !f.cfg.AllowCycles && model.IsOrderingImposing(r.Type, f.cfg.OrderingExempt) {
		path, err := f.wouldCreateCycle(ctx, r.FromMemoryID, r.ToMemoryID)
		if err != nil {
			return err
		}
		if path != nil {
			return model.NewCycleDetected(path)
		}
	}

	cp := *r
	write := f.backend.CreateRelationship
	if existing != nil {
		write = f.backend.UpdateRelationship
	}
	if err := withRetryErr(func() error { return write(ctx, &cp) }); err != nil {
		return wrapBackendErr(err)
	}
	return nil
}
