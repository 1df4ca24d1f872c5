// Copyright (C) 2025-2026 Kraklabs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/kraklabs/memorygraph/pkg/graph"
	"github.com/kraklabs/memorygraph/pkg/model"
)

// CreateRelationship implements the create_relationship handler (§4.F).
func CreateRelationship(ctx context.Context, f *graph.Facade, args map[string]any) (*ToolResult, error) {
	in := model.RelationshipInput{
		FromMemoryID: GetStringArg(args, "from_memory_id", ""),
		ToMemoryID:   GetStringArg(args, "to_memory_id", ""),
		Type:         model.RelationshipType(GetStringArg(args, "relationship_type", "")),
		Strength:     GetFloat64PtrArg(args, "strength"),
		Confidence:   GetFloat64PtrArg(args, "confidence"),
		Context:      GetStringArg(args, "context", ""),
	}
	validFrom, ok := GetTimeArg(args, "valid_from")
	if !ok {
		return NewError("invalid valid_from: expected ISO-8601 UTC timestamp"), nil
	}
	in.ValidFrom = validFrom

	r, err := f.CreateRelationship(ctx, in, ExtractContextFromArgs(args))
	if err != nil {
		if e, ok := model.As(err); ok && e.Kind == model.KindCycleDetected {
			return NewError(fmt.Sprintf("creating this relationship would close a cycle: %s", strings.Join(e.Path, " -> "))), nil
		}
		return nil, err
	}
	return NewResult(fmt.Sprintf("Created relationship [%s]: %s -[%s]-> %s (strength=%.2f, confidence=%.2f)",
		r.ID, r.FromMemoryID, r.Type, r.ToMemoryID, r.Properties.Strength, r.Properties.Confidence)), nil
}

// GetRelatedMemories implements the get_related_memories handler (§4.F).
func GetRelatedMemories(ctx context.Context, f *graph.Facade, args map[string]any) (*ToolResult, error) {
	id := GetStringArg(args, "id", "")
	if id == "" {
		return NewError("Missing required parameter: id"), nil
	}
	maxDepth := GetIntArg(args, "max_depth", 1)
	var types []model.RelationshipType
	for _, t := range GetStringSliceArg(args, "relationship_types", nil) {
		types = append(types, model.RelationshipType(t))
	}

	related, err := f.GetRelatedMemories(ctx, id, maxDepth, types, nil)
	if err != nil {
		return nil, err
	}
	if len(related) == 0 {
		return NewResult("No related memories found."), nil
	}
	var out strings.Builder
	fmt.Fprintf(&out, "%d related memories:\n", len(related))
	for _, rm := range related {
		fmt.Fprintf(&out, "  depth=%d [%s]-[%s]-> %s: %q\n", rm.Depth, id, rm.Relationship.Type, rm.Memory.ID, rm.Memory.Title)
	}
	return NewResult(out.String()), nil
}

// ReinforceRelationship implements the reinforce_relationship handler
// (SPEC_FULL.md supplement).
func ReinforceRelationship(ctx context.Context, f *graph.Facade, args map[string]any) (*ToolResult, error) {
	id := GetStringArg(args, "id", "")
	if id == "" {
		return NewError("Missing required parameter: id"), nil
	}
	delta := GetFloat64PtrArg(args, "delta")
	r, err := f.ReinforceRelationship(ctx, id, delta)
	if err != nil {
		return nil, err
	}
	return NewResult(fmt.Sprintf("Reinforced [%s]: strength=%.2f, evidence_count=%d",
		r.ID, r.Properties.Strength, r.Properties.EvidenceCount)), nil
}

// suggestionRule pairs a keyword with the relationship type it hints
// at, ordered most-to-least specific so the first match wins.
var suggestionRules = []struct {
	keyword string
	rel     model.RelationshipType
}{
	{"fixes", model.RelFixes}, {"fixed", model.RelFixes},
	{"solves", model.RelSolves}, {"solved", model.RelSolves},
	{"works around", model.RelWorksAround}, {"workaround", model.RelWorksAround},
	{"mitigates", model.RelMitigates},
	{"replaces", model.RelReplaces},
	{"causes", model.RelCauses},
	{"leads to", model.RelLeadsTo},
	{"triggers", model.RelTriggers},
	{"prevents", model.RelPrevents},
	{"results in", model.RelResultsIn},
	{"depends on", model.RelDependsOn}, {"requires", model.RelRequires},
	{"part of", model.RelPartOf},
	{"belongs to", model.RelBelongsTo},
	{"applies to", model.RelAppliesTo},
	{"learned from", model.RelLearnedFrom},
	{"derived from", model.RelDerivedFrom},
	{"generalizes", model.RelGeneralizes},
	{"specializes", model.RelSpecializes},
	{"inspired by", model.RelInspiredBy},
	{"similar to", model.RelSimilarTo},
	{"related to", model.RelRelatedTo},
	{"variant of", model.RelVariantOf},
	{"analogous to", model.RelAnalogyTo}, {"analogy", model.RelAnalogyTo},
	{"parallel to", model.RelParallelTo},
	{"opposite of", model.RelOppositeOf}, {"opposite", model.RelOppositeOf},
	{"works with", model.RelWorksWith},
	{"precedes", model.RelPrecedes}, {"before", model.RelPrecedes},
	{"follows", model.RelFollows}, {"after", model.RelFollows},
	{"blocks", model.RelBlocks},
	{"enables", model.RelEnables},
	{"deprecated by", model.RelDeprecatedBy},
	{"supersedes", model.RelSupersedes},
	{"validates", model.RelValidates},
	{"contradicts", model.RelContradicts},
}

// SuggestRelationshipType implements suggest_relationship_type (§4.F
// supplement, SPEC_FULL.md §4): a keyword heuristic over the two
// memories' titles/content, falling back to SIMILAR_TO when both
// memories have the same type and to RELATED_TO otherwise. This never
// auto-creates a relationship; it only suggests one for the caller to
// pass to create_relationship.
func SuggestRelationshipType(ctx context.Context, f *graph.Facade, args map[string]any) (*ToolResult, error) {
	fromID := GetStringArg(args, "from_memory_id", "")
	toID := GetStringArg(args, "to_memory_id", "")
	if fromID == "" || toID == "" {
		return NewError("Missing required parameter: from_memory_id and to_memory_id are required"), nil
	}
	from, _, err := f.GetMemory(ctx, fromID, false)
	if err != nil {
		return nil, err
	}
	to, _, err := f.GetMemory(ctx, toID, false)
	if err != nil {
		return nil, err
	}

	haystack := strings.ToLower(from.Title + " " + from.Content + " " + to.Title + " " + to.Content)
	for _, rule := range suggestionRules {
		if strings.Contains(haystack, rule.keyword) {
			return NewResult(fmt.Sprintf("Suggested relationship type: %s", rule.rel)), nil
		}
	}
	if from.Type == to.Type {
		return NewResult(fmt.Sprintf("Suggested relationship type: %s (same memory type, no stronger signal found)", model.RelSimilarTo)), nil
	}
	return NewResult(fmt.Sprintf("Suggested relationship type: %s (no stronger signal found)", model.RelRelatedTo)), nil
}
