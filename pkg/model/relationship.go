// Copyright (C) 2025-2026 Kraklabs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

package model

import (
	"time"
)

// RelationshipType is one of the 35 enumerated relationship kinds,
// grouped into seven categories.
type RelationshipType string

// Causal
const (
	RelCauses    RelationshipType = "CAUSES"
	RelLeadsTo   RelationshipType = "LEADS_TO"
	RelTriggers  RelationshipType = "TRIGGERS"
	RelPrevents  RelationshipType = "PREVENTS"
	RelResultsIn RelationshipType = "RESULTS_IN"
)

// Solution
const (
	RelSolves      RelationshipType = "SOLVES"
	RelFixes       RelationshipType = "FIXES"
	RelWorksAround RelationshipType = "WORKS_AROUND"
	RelMitigates   RelationshipType = "MITIGATES"
	RelReplaces    RelationshipType = "REPLACES"
)

// Context
const (
	RelDependsOn  RelationshipType = "DEPENDS_ON"
	RelRequires   RelationshipType = "REQUIRES"
	RelPartOf     RelationshipType = "PART_OF"
	RelBelongsTo  RelationshipType = "BELONGS_TO"
	RelAppliesTo  RelationshipType = "APPLIES_TO"
)

// Learning
const (
	RelLearnedFrom RelationshipType = "LEARNED_FROM"
	RelDerivedFrom RelationshipType = "DERIVED_FROM"
	RelGeneralizes RelationshipType = "GENERALIZES"
	RelSpecializes RelationshipType = "SPECIALIZES"
	RelInspiredBy  RelationshipType = "INSPIRED_BY"
)

// Similarity — symmetric by convention; this is the default
// ordering-exempt set referenced in §3 invariant 2.
const (
	RelSimilarTo  RelationshipType = "SIMILAR_TO"
	RelRelatedTo  RelationshipType = "RELATED_TO"
	RelVariantOf  RelationshipType = "VARIANT_OF"
	RelAnalogyTo  RelationshipType = "ANALOGY_TO"
	RelParallelTo RelationshipType = "PARALLEL_TO"
	RelOppositeOf RelationshipType = "OPPOSITE_OF"
	RelWorksWith  RelationshipType = "WORKS_WITH"
)

// Workflow
const (
	RelPrecedes RelationshipType = "PRECEDES"
	RelFollows  RelationshipType = "FOLLOWS"
	RelBlocks   RelationshipType = "BLOCKS"
	RelEnables  RelationshipType = "ENABLES"
)

// Quality
const (
	RelDeprecatedBy RelationshipType = "DEPRECATED_BY"
	RelSupersedes   RelationshipType = "SUPERSEDES"
	RelValidates    RelationshipType = "VALIDATES"
	RelContradicts  RelationshipType = "CONTRADICTS"
)

// RelationshipCategory groups the 35 types for display and for the
// suggest_relationship_type heuristic (§4.F supplement).
type RelationshipCategory string

const (
	CategoryCausal     RelationshipCategory = "Causal"
	CategorySolution   RelationshipCategory = "Solution"
	CategoryContext    RelationshipCategory = "Context"
	CategoryLearning   RelationshipCategory = "Learning"
	CategorySimilarity RelationshipCategory = "Similarity"
	CategoryWorkflow   RelationshipCategory = "Workflow"
	CategoryQuality    RelationshipCategory = "Quality"
)

// AllRelationshipTypes maps every valid type to its category. It is the
// single source of truth other packages range over.
var AllRelationshipTypes = map[RelationshipType]RelationshipCategory{
	RelCauses: CategoryCausal, RelLeadsTo: CategoryCausal, RelTriggers: CategoryCausal,
	RelPrevents: CategoryCausal, RelResultsIn: CategoryCausal,

	RelSolves: CategorySolution, RelFixes: CategorySolution, RelWorksAround: CategorySolution,
	RelMitigates: CategorySolution, RelReplaces: CategorySolution,

	RelDependsOn: CategoryContext, RelRequires: CategoryContext, RelPartOf: CategoryContext,
	RelBelongsTo: CategoryContext, RelAppliesTo: CategoryContext,

	RelLearnedFrom: CategoryLearning, RelDerivedFrom: CategoryLearning, RelGeneralizes: CategoryLearning,
	RelSpecializes: CategoryLearning, RelInspiredBy: CategoryLearning,

	RelSimilarTo: CategorySimilarity, RelRelatedTo: CategorySimilarity, RelVariantOf: CategorySimilarity,
	RelAnalogyTo: CategorySimilarity, RelParallelTo: CategorySimilarity, RelOppositeOf: CategorySimilarity,
	RelWorksWith: CategorySimilarity,

	RelPrecedes: CategoryWorkflow, RelFollows: CategoryWorkflow, RelBlocks: CategoryWorkflow,
	RelEnables: CategoryWorkflow,

	RelDeprecatedBy: CategoryQuality, RelSupersedes: CategoryQuality, RelValidates: CategoryQuality,
	RelContradicts: CategoryQuality,
}

// SymmetricRelationshipTypes is the default set exempt from cycle
// checking (§3 invariant 2): every type in CategorySimilarity.
var SymmetricRelationshipTypes = map[RelationshipType]bool{
	RelSimilarTo: true, RelRelatedTo: true, RelVariantOf: true, RelAnalogyTo: true,
	RelParallelTo: true, RelOppositeOf: true, RelWorksWith: true,
}

// IsOrderingImposing reports whether a relationship type participates
// in cycle checking under the given (possibly customized) exempt set.
// A nil exempt set falls back to SymmetricRelationshipTypes.
func IsOrderingImposing(t RelationshipType, exempt map[RelationshipType]bool) bool {
	if exempt == nil {
		exempt = SymmetricRelationshipTypes
	}
	return !exempt[t]
}

const MaxContextLen = 10000

// RelationshipProperties is the mutable, bi-temporally-adjacent payload
// of a Relationship.
type RelationshipProperties struct {
	Strength       float64         `json:"strength"`
	Confidence     float64         `json:"confidence"`
	EvidenceCount  int             `json:"evidence_count"`
	LastReinforced *time.Time      `json:"last_reinforced,omitempty"`
	ContextJSON    *ExtractedContext `json:"context_json,omitempty"`
}

// Relationship is a typed, directional, bi-temporally tracked link
// between two Memories.
type Relationship struct {
	ID           string                  `json:"id"`
	FromMemoryID string                  `json:"from_memory_id"`
	ToMemoryID   string                  `json:"to_memory_id"`
	Type         RelationshipType        `json:"type"`
	Properties   RelationshipProperties  `json:"properties"`

	ValidFrom     time.Time  `json:"valid_from"`
	ValidUntil    *time.Time `json:"valid_until,omitempty"`
	RecordedAt    time.Time  `json:"recorded_at"`
	InvalidatedBy *string    `json:"invalidated_by,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsCurrent reports whether the relationship is visible under the
// default "current" query semantics (§3 invariant 8).
func (r *Relationship) IsCurrent() bool { return r.ValidUntil == nil }

// VisibleAt reports whether the relationship is visible under the
// bi-temporal rule used by get_related_memories/query_as_of: the
// relationship was valid at ts (§4.D.3).
func (r *Relationship) VisibleAt(ts time.Time) bool {
	if r.ValidFrom.After(ts) {
		return false
	}
	return r.ValidUntil == nil || r.ValidUntil.After(ts)
}

// RelationshipInput is the subset of fields create_relationship
// supplies.
type RelationshipInput struct {
	FromMemoryID string
	ToMemoryID   string
	Type         RelationshipType
	Strength     *float64
	Confidence   *float64
	Context      string
	ValidFrom    *time.Time
}

// ValidateRelationshipInput mirrors §3/§4.A's constraints on a new
// Relationship, independent of graph-level checks (endpoint existence,
// cycle detection) which require backend access and live in the
// facade.
func ValidateRelationshipInput(in RelationshipInput) error {
	if in.FromMemoryID == "" || in.ToMemoryID == "" {
		return NewValidationError("from_memory_id and to_memory_id are required")
	}
	if in.FromMemoryID == in.ToMemoryID {
		return NewRelationshipError("self-loop relationships are not permitted")
	}
	if _, ok := AllRelationshipTypes[in.Type]; !ok {
		return NewValidationError("invalid relationship type: %q", in.Type)
	}
	for _, f := range []struct {
		name string
		val  *float64
	}{{"strength", in.Strength}, {"confidence", in.Confidence}} {
		if f.val != nil && (*f.val < 0.0 || *f.val > 1.0) {
			return NewValidationError("%s must be between 0.0 and 1.0", f.name)
		}
	}
	if len(in.Context) > MaxContextLen {
		return NewValidationError("context exceeds maximum length of %d characters", MaxContextLen)
	}
	if in.ValidFrom != nil {
		// §3 invariant 4 is about valid_until > valid_from; valid_from
		// alone has no further constraint here.
		_ = in.ValidFrom
	}
	return nil
}
