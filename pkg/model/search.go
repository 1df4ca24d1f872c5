// Copyright (C) 2025-2026 Kraklabs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

package model

import "time"

// MatchMode controls how multiple search filters combine.
type MatchMode string

const (
	MatchAny MatchMode = "any"
	MatchAll MatchMode = "all"
)

// Tolerance controls phrase-matching strictness (§4.D.1).
type Tolerance string

const (
	ToleranceStrict Tolerance = "strict"
	ToleranceNormal Tolerance = "normal"
	ToleranceFuzzy  Tolerance = "fuzzy"
)

const (
	MaxQueryLen  = 1000
	MaxLimit     = 1000
	DefaultLimit = 50
)

// SearchQuery is the validated input to search_memories.
type SearchQuery struct {
	Query string

	MemoryTypes  []MemoryType
	Tags         []string
	MinImportance *float64
	MaxImportance *float64
	MinConfidence *float64
	ProjectPath  string
	DateFrom     *time.Time
	DateTo       *time.Time

	MatchMode MatchMode
	Tolerance Tolerance

	Limit  int
	Offset int
}

// ValidateSearchInput mirrors §4.A/§4.D.1's constraints and fills in
// defaults (limit=50, offset=0, match_mode=any, tolerance=normal).
func ValidateSearchInput(q *SearchQuery) error {
	if len(q.Query) > MaxQueryLen {
		return NewValidationError("query exceeds maximum length of %d characters", MaxQueryLen)
	}
	for _, t := range q.MemoryTypes {
		if !ValidMemoryTypes[t] {
			return NewValidationError("invalid memory type filter: %q", t)
		}
	}
	if q.MatchMode == "" {
		q.MatchMode = MatchAny
	}
	if q.MatchMode != MatchAny && q.MatchMode != MatchAll {
		return NewValidationError("invalid match_mode: %q", q.MatchMode)
	}
	if q.Tolerance == "" {
		q.Tolerance = ToleranceNormal
	}
	if q.Tolerance != ToleranceStrict && q.Tolerance != ToleranceNormal && q.Tolerance != ToleranceFuzzy {
		return NewValidationError("invalid tolerance: %q", q.Tolerance)
	}
	if q.Limit == 0 {
		q.Limit = DefaultLimit
	}
	if q.Limit < 1 || q.Limit > MaxLimit {
		return NewValidationError("limit must be between 1 and %d", MaxLimit)
	}
	if q.Offset < 0 {
		return NewValidationError("offset must be non-negative")
	}
	for _, f := range []*float64{q.MinImportance, q.MaxImportance, q.MinConfidence} {
		if f != nil && (*f < 0.0 || *f > 1.0) {
			return NewValidationError("importance/confidence filters must be between 0.0 and 1.0")
		}
	}
	return nil
}

// PaginatedResult is the uniform envelope search_memories (and other
// list-style operations) return (§4.D.1).
type PaginatedResult struct {
	Items      []*Memory `json:"items"`
	TotalCount int       `json:"total_count"`
	Limit      int       `json:"limit"`
	Offset     int       `json:"offset"`
	HasMore    bool      `json:"has_more"`
	NextOffset *int      `json:"next_offset,omitempty"`
}

// NewPaginatedResult computes HasMore/NextOffset from the other fields,
// matching §4.D.1 and property P9 exactly.
func NewPaginatedResult(items []*Memory, total, limit, offset int) *PaginatedResult {
	hasMore := offset+len(items) < total
	r := &PaginatedResult{
		Items: items, TotalCount: total, Limit: limit, Offset: offset, HasMore: hasMore,
	}
	if hasMore {
		next := offset + limit
		r.NextOffset = &next
	}
	return r
}
