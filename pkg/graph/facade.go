// Copyright (C) 2025-2026 Kraklabs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

// Package graph implements the memory database facade (§4.D): the
// layer that owns all semantics (search, relationship graph
// algorithms, bi-temporal operations) over the dumb storage backends
// in pkg/storage.
package graph

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kraklabs/memorygraph/pkg/model"
	"github.com/kraklabs/memorygraph/pkg/storage"
)

// Config controls facade-wide toggles (§6.4, §9's "explicit
// configuration value object built once at startup").
type Config struct {
	// AllowCycles disables cycle detection entirely when true
	// (MEMORY_ALLOW_CYCLES, §3 invariant 2).
	AllowCycles bool
	// OrderingExempt overrides the default symmetric-type exempt set;
	// nil means use model.SymmetricRelationshipTypes.
	OrderingExempt map[model.RelationshipType]bool
	// MultiTenantMode, when false, accepts but does not enforce
	// Context.TenantID/TeamID/Visibility/CreatedBy (§6.4).
	MultiTenantMode bool
}

// Facade is the memory database facade of §4.D.
type Facade struct {
	backend storage.Backend
	cfg     Config
	logger  *slog.Logger
	now     func() time.Time
	newID   func() string
}

// New constructs a Facade over the given backend.
func New(backend storage.Backend, cfg Config, logger *slog.Logger) *Facade {
	if logger == nil {
		logger = slog.Default()
	}
	return &Facade{
		backend: backend,
		cfg:     cfg,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
		newID:   func() string { return uuid.NewString() },
	}
}

// withRetry implements §4.D's "one in-facade retry" policy for
// BackendUnavailable/BackendTimeout failures (§7).
func withRetry[T any](op func() (T, error)) (T, error) {
	result, err := op()
	if err == nil {
		return result, nil
	}
	if e, ok := model.As(err); ok && (e.Kind == model.KindBackendUnavailable || e.Kind == model.KindBackendTimeout) {
		return op()
	}
	return result, err
}

// withRetryErr is withRetry for operations with no return value.
func withRetryErr(op func() error) error {
	_, err := withRetry(func() (struct{}, error) { return struct{}{}, op() })
	return err
}

// StoreMemory validates and persists a new memory (§4.A, §4.D).
func (f *Facade) StoreMemory(ctx context.Context, in model.MemoryInput) (*model.Memory, error) {
	if err := model.ValidateMemoryInput(in); err != nil {
		return nil, err
	}
	if !f.cfg.MultiTenantMode {
		in.Context.TenantID, in.Context.TeamID, in.Context.Visibility, in.Context.CreatedBy = "", "", "", ""
	}
	m := model.NewMemory(f.newID(), in, f.now())
	err := withRetryErr(func() error { return f.backend.StoreMemory(ctx, m) })
	if err != nil {
		return nil, wrapBackendErr(err)
	}
	return m, nil
}

// GetMemory returns the memory and, when includeRelationships is true,
// its current relationships (§4.C's get_memory contract).
func (f *Facade) GetMemory(ctx context.Context, id string, includeRelationships bool) (*model.Memory, []*model.Relationship, error) {
	m, err := withRetry(func() (*model.Memory, error) { return f.backend.GetMemory(ctx, id) })
	if err != nil {
		return nil, nil, wrapBackendErr(err)
	}
	if m == nil {
		return nil, nil, model.NewNotFound("memory %q not found", id)
	}
	if !includeRelationships {
		return m, nil, nil
	}
	rels, err := f.backend.ListRelationships(ctx, storage.RelationshipFilter{MemoryID: id, OnlyCurrent: true})
	if err != nil {
		return nil, nil, wrapBackendErr(err)
	}
	return m, rels, nil
}

// UpdateMemory replaces a memory's mutable fields, bumping version and
// refreshing updated_at unconditionally — including on a no-op update,
// per the Open Question resolution in DESIGN.md.
func (f *Facade) UpdateMemory(ctx context.Context, id string, in model.MemoryInput) (*model.Memory, error) {
	existing, err := f.backend.GetMemory(ctx, id)
	if err != nil {
		return nil, wrapBackendErr(err)
	}
	if existing == nil {
		return nil, model.NewNotFound("memory %q not found", id)
	}

	merged := *existing
	if in.Type != "" {
		merged.Type = in.Type
	}
	if in.Title != "" {
		merged.Title = in.Title
	}
	if in.Content != "" {
		merged.Content = in.Content
	}
	if in.Summary != "" {
		merged.Summary = in.Summary
	}
	if in.Tags != nil {
		merged.Tags = model.NormalizeTags(in.Tags)
	}
	if in.Importance != nil {
		merged.Importance = *in.Importance
	}
	if in.Confidence != nil {
		merged.Confidence = *in.Confidence
	}
	if in.Effectiveness != nil {
		merged.Effectiveness = *in.Effectiveness
	}

	validateIn := model.MemoryInput{
		Type: merged.Type, Title: merged.Title, Content: merged.Content, Summary: merged.Summary,
		Tags: merged.Tags, Context: merged.Context,
	}
	if err := model.ValidateMemoryInput(validateIn); err != nil {
		return nil, err
	}

	merged.Version = existing.Version + 1
	merged.UpdatedAt = f.now()

	if err := f.backend.UpdateMemory(ctx, &merged); err != nil {
		return nil, wrapBackendErr(err)
	}
	return &merged, nil
}

// DeleteMemory deletes a memory; cascade of its relationships is
// enforced by the backend (§3 invariant 7).
func (f *Facade) DeleteMemory(ctx context.Context, id string) error {
	existing, err := f.backend.GetMemory(ctx, id)
	if err != nil {
		return wrapBackendErr(err)
	}
	if existing == nil {
		return model.NewNotFound("memory %q not found", id)
	}
	if err := f.backend.DeleteMemory(ctx, id); err != nil {
		return wrapBackendErr(err)
	}
	return nil
}

func wrapBackendErr(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := model.As(err); ok {
		return err
	}
	if err == context.DeadlineExceeded {
		return model.NewBackendTimeout(err)
	}
	return model.NewInternal(err)
}

// normalizedTag lowercases and trims a tag for tag-set comparisons.
func normalizedTag(t string) string { return strings.ToLower(strings.TrimSpace(t)) }
