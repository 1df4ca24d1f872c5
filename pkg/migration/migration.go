// Copyright (C) 2025-2026 Kraklabs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

// Package migration implements the backend-neutral snapshot, transfer,
// verify and rollback engine of §4.E. It speaks only through the
// pkg/storage.MemoryOperations capability set and the pkg/graph facade,
// never a backend-specific query language.
package migration

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/kraklabs/memorygraph/pkg/graph"
	"github.com/kraklabs/memorygraph/pkg/model"
	"github.com/kraklabs/memorygraph/pkg/storage"
)

const SchemaVersion = 1

// Snapshot is the canonical export artifact of §4.E/§6.3.
type Snapshot struct {
	SchemaVersion int                  `json:"schema_version"`
	GeneratedAt   time.Time            `json:"generated_at"`
	Counts        Counts               `json:"counts"`
	Memories      []*model.Memory      `json:"memories"`
	Relationships []*model.Relationship `json:"relationships"`
}

type Counts struct {
	Memories      int `json:"memories"`
	Relationships int `json:"relationships"`
}

// ImportMode governs how Import handles an id already present in the
// target (§4.E).
type ImportMode string

const (
	ImportMergeByID     ImportMode = "merge-by-id"
	ImportRefuseIfExist ImportMode = "refuse-if-exists"
)

// Export produces a canonical snapshot of every memory and every
// relationship (including invalidated ones), ordered by (created_at, id).
func Export(ctx context.Context, backend storage.Backend, now time.Time) (*Snapshot, error) {
	memories, err := backend.ListMemories(ctx, storage.MemoryFilter{})
	if err != nil {
		return nil, fmt.Errorf("list memories: %w", err)
	}
	sort.SliceStable(memories, func(i, j int) bool { return byCreatedThenID(memories[i].CreatedAt, memories[i].ID, memories[j].CreatedAt, memories[j].ID) })

	relationships, err := backend.ListRelationships(ctx, storage.RelationshipFilter{})
	if err != nil {
		return nil, fmt.Errorf("list relationships: %w", err)
	}
	sort.SliceStable(relationships, func(i, j int) bool {
		return byCreatedThenID(relationships[i].CreatedAt, relationships[i].ID, relationships[j].CreatedAt, relationships[j].ID)
	})

	return &Snapshot{
		SchemaVersion: SchemaVersion,
		GeneratedAt:   now.UTC(),
		Counts:        Counts{Memories: len(memories), Relationships: len(relationships)},
		Memories:      memories,
		Relationships: relationships,
	}, nil
}

func byCreatedThenID(at time.Time, id string, bt time.Time, bid string) bool {
	if !at.Equal(bt) {
		return at.Before(bt)
	}
	return id < bid
}

// Import validates the snapshot and re-inserts every memory and
// relationship through the facade so every invariant (cycle detection,
// validation) is re-checked (§4.E).
func Import(ctx context.Context, f *graph.Facade, snap *Snapshot, mode ImportMode) error {
	if snap.SchemaVersion != SchemaVersion {
		return fmt.Errorf("%w: snapshot schema_version %d, expected %d", ErrImportValidationFailed, snap.SchemaVersion, SchemaVersion)
	}

	seen := make(map[string]bool, len(snap.Memories))
	for _, m := range snap.Memories {
		if seen[m.ID] {
			return fmt.Errorf("%w: duplicate memory id %q in snapshot", ErrImportValidationFailed, m.ID)
		}
		seen[m.ID] = true
	}
	relSeen := make(map[string]bool, len(snap.Relationships))
	for _, r := range snap.Relationships {
		if relSeen[r.ID] {
			return fmt.Errorf("%w: duplicate relationship id %q in snapshot", ErrImportValidationFailed, r.ID)
		}
		relSeen[r.ID] = true
	}

	for _, m := range snap.Memories {
		if err := f.ImportMemory(ctx, m, mode == ImportRefuseIfExist); err != nil {
			return fmt.Errorf("%w: memory %q: %v", ErrImportValidationFailed, m.ID, err)
		}
	}
	for _, r := range snap.Relationships {
		if err := f.ImportRelationship(ctx, r, mode == ImportRefuseIfExist); err != nil {
			return fmt.Errorf("%w: relationship %q: %v", ErrImportValidationFailed, r.ID, err)
		}
	}
	return nil
}

// CanonicalHash hashes a deterministic JSON encoding of the snapshot's
// body (everything but GeneratedAt, which changes on every export of
// otherwise-identical data) for the verification pass in Migrate.
func CanonicalHash(snap *Snapshot) (string, error) {
	body := struct {
		Counts        Counts                `json:"counts"`
		Memories      []*model.Memory       `json:"memories"`
		Relationships []*model.Relationship `json:"relationships"`
	}{snap.Counts, snap.Memories, snap.Relationships}
	data, err := json.Marshal(body)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// Result is the outcome of Migrate/Validate, consumed by the
// migrate_database and validate_migration tool handlers.
type Result struct {
	SourceCounts Counts
	TargetCounts Counts
	SourceHash   string
	TargetHash   string
	Verified     bool
}

// Migrate exports source, writes to a side-channel snapshot, imports
// into target, then verifies counts and hash before the facade-level
// caller treats target as live (§4.E). Rollback is the caller holding
// onto the pre-migration target snapshot (captured by CaptureRollbackPoint
// before Migrate is invoked) and re-importing it on failure.
func Migrate(ctx context.Context, sourceBackend storage.Backend, target *graph.Facade, targetBackend storage.Backend, mode ImportMode, now time.Time) (*Result, error) {
	snap, err := Export(ctx, sourceBackend, now)
	if err != nil {
		return nil, fmt.Errorf("export source: %w", err)
	}
	sourceHash, err := CanonicalHash(snap)
	if err != nil {
		return nil, err
	}

	if err := Import(ctx, target, snap, mode); err != nil {
		return nil, err
	}

	targetSnap, err := Export(ctx, targetBackend, now)
	if err != nil {
		return nil, fmt.Errorf("export target for verification: %w", err)
	}
	targetHash, err := CanonicalHash(targetSnap)
	if err != nil {
		return nil, err
	}

	result := &Result{
		SourceCounts: snap.Counts, TargetCounts: targetSnap.Counts,
		SourceHash: sourceHash, TargetHash: targetHash,
	}
	result.Verified = result.SourceCounts == result.TargetCounts && result.SourceHash == result.TargetHash
	if !result.Verified {
		return result, ErrVerificationFailed
	}
	return result, nil
}

// Validate re-derives and compares counts/hashes of two already
// populated backends, for the validate_migration tool (§4.F) run
// independently of a live Migrate call.
func Validate(ctx context.Context, sourceBackend, targetBackend storage.Backend, now time.Time) (*Result, error) {
	sourceSnap, err := Export(ctx, sourceBackend, now)
	if err != nil {
		return nil, err
	}
	targetSnap, err := Export(ctx, targetBackend, now)
	if err != nil {
		return nil, err
	}
	sourceHash, err := CanonicalHash(sourceSnap)
	if err != nil {
		return nil, err
	}
	targetHash, err := CanonicalHash(targetSnap)
	if err != nil {
		return nil, err
	}
	result := &Result{
		SourceCounts: sourceSnap.Counts, TargetCounts: targetSnap.Counts,
		SourceHash: sourceHash, TargetHash: targetHash,
	}
	result.Verified = result.SourceCounts == result.TargetCounts && sourceHash == targetHash
	return result, nil
}
