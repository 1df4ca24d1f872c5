// Copyright (C) 2025-2026 Kraklabs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

// Package storage implements the pluggable backend abstraction of §4.C:
// a narrow "MemoryOperations" capability set, a reference embedded-SQL
// backend (modernc.org/sqlite), a Cypher-capable backend family
// (neo4j-go-driver, usable against neo4j/memgraph/falkor), and a
// minimal REST adapter stub for the cloud backend kind.
package storage

import (
	"context"
	"time"

	"github.com/kraklabs/memorygraph/pkg/model"
)

// MemoryFilter carries the structural (non-text) predicates a backend
// can evaluate directly. Free-text matching, tolerance tokenization and
// final ordering/pagination are facade-owned (§4.D); the backend
// returns every structurally-matching row, pre-sorted by the default
// ordering (importance DESC, updated_at DESC, id ASC), and the facade
// applies the text filter and slices the page.
type MemoryFilter struct {
	Types         []model.MemoryType
	Tags          []string
	MinImportance *float64
	MaxImportance *float64
	MinConfidence *float64
	ProjectPath   string
	DateFrom      *time.Time
	DateTo        *time.Time
	MatchMode     model.MatchMode
}

// RelationshipFilter carries the predicates used by relationship
// traversal, history, and bi-temporal queries (§4.D.2-4).
type RelationshipFilter struct {
	FromMemoryID string
	ToMemoryID   string
	// MemoryID matches relationships where either endpoint equals it.
	MemoryID string
	Types    []model.RelationshipType

	// OnlyCurrent restricts to valid_until IS NULL (§3 invariant 8).
	OnlyCurrent bool
	// AsOf, when set, restricts to rows visible at that instant
	// (valid_from <= AsOf < valid_until or valid_until IS NULL).
	AsOf *time.Time

	// RecordedSince / InvalidatedSince power what_changed (§4.D.4).
	RecordedSince    *time.Time
	InvalidatedSince *time.Time
}

// CypherResult is the generic tabular result of the text-query
// execution hook exposed by Cypher-capable backends.
type CypherResult struct {
	Columns []string
	Rows    [][]any
}

// MemoryOperations is the narrow capability set every backend family
// implements (§4.C).
type MemoryOperations interface {
	StoreMemory(ctx context.Context, m *model.Memory) error
	GetMemory(ctx context.Context, id string) (*model.Memory, error)
	UpdateMemory(ctx context.Context, m *model.Memory) error
	DeleteMemory(ctx context.Context, id string) error
	ListMemories(ctx context.Context, filter MemoryFilter) ([]*model.Memory, error)

	CreateRelationship(ctx context.Context, r *model.Relationship) error
	GetRelationship(ctx context.Context, id string) (*model.Relationship, error)
	UpdateRelationship(ctx context.Context, r *model.Relationship) error
	ListRelationships(ctx context.Context, filter RelationshipFilter) ([]*model.Relationship, error)

	// IsCypherCapable reports whether RunCypher is usable. The MCP
	// surface never exposes RunCypher directly, and the facade and
	// analytics packages do not call it: they use the methods above on
	// every backend.
	IsCypherCapable() bool

	HealthCheck(ctx context.Context) error
	Close() error
}

// CypherCapable is the narrower extension interface Graph/Cypher
// backends additionally implement.
type CypherCapable interface {
	MemoryOperations
	RunCypher(ctx context.Context, query string, params map[string]any) (*CypherResult, error)
}

// Backend is the type every constructor returns; callers type-assert
// to CypherCapable when IsCypherCapable() is true.
type Backend = MemoryOperations
