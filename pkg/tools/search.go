// Copyright (C) 2025-2026 Kraklabs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

package tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kraklabs/memorygraph/pkg/graph"
	"github.com/kraklabs/memorygraph/pkg/model"
)

func searchQueryFromArgs(args map[string]any) model.SearchQuery {
	var types []model.MemoryType
	for _, t := range GetStringSliceArg(args, "memory_types", nil) {
		types = append(types, model.MemoryType(t))
	}
	dateFrom, _ := GetTimeArg(args, "date_from")
	dateTo, _ := GetTimeArg(args, "date_to")
	return model.SearchQuery{
		Query:         GetStringArg(args, "query", ""),
		MemoryTypes:   types,
		Tags:          GetStringSliceArg(args, "tags", nil),
		MinImportance: GetFloat64PtrArg(args, "min_importance"),
		MaxImportance: GetFloat64PtrArg(args, "max_importance"),
		MinConfidence: GetFloat64PtrArg(args, "min_confidence"),
		ProjectPath:   GetStringArg(args, "project_path", ""),
		DateFrom:      dateFrom,
		DateTo:        dateTo,
		MatchMode:     model.MatchMode(GetStringArg(args, "match_mode", "")),
		Tolerance:     model.Tolerance(GetStringArg(args, "tolerance", "")),
		Limit:         GetIntArg(args, "limit", 0),
		Offset:        GetIntArg(args, "offset", 0),
	}
}

func formatSearchResult(result *model.PaginatedResult) string {
	if len(result.Items) == 0 {
		return "No memories found."
	}
	var out strings.Builder
	fmt.Fprintf(&out, "%d of %d memories", len(result.Items), result.TotalCount)
	if result.HasMore {
		fmt.Fprintf(&out, " (more available at offset %d)", *result.NextOffset)
	}
	out.WriteString(":\n")
	for _, m := range result.Items {
		fmt.Fprintf(&out, "  [%s] %s (%s) importance=%.2f\n", m.ID, m.Title, m.Type, m.Importance)
	}
	return out.String()
}

// SearchMemories implements the search_memories handler (§4.F).
func SearchMemories(ctx context.Context, f *graph.Facade, args map[string]any) (*ToolResult, error) {
	result, err := f.Search(ctx, searchQueryFromArgs(args))
	if err != nil {
		return nil, err
	}
	return NewResult(formatSearchResult(result)), nil
}

// RecallMemories implements recall_memories: a thin wrapper over
// search_memories with tolerance forced to "normal" (§4.F).
func RecallMemories(ctx context.Context, f *graph.Facade, args map[string]any) (*ToolResult, error) {
	q := searchQueryFromArgs(args)
	q.Tolerance = model.ToleranceNormal
	result, err := f.Search(ctx, q)
	if err != nil {
		return nil, err
	}
	return NewResult(formatSearchResult(result)), nil
}

// GetRecentActivity implements get_recent_activity: memories created
// in the last `hours` (default 24), in the search's default order
// (importance, then most recently updated). Updates to older memories
// do not count as activity.
func GetRecentActivity(ctx context.Context, f *graph.Facade, args map[string]any) (*ToolResult, error) {
	hours := GetIntArg(args, "hours", 24)
	limit := GetIntArg(args, "limit", 20)
	since := time.Now().UTC().Add(-time.Duration(hours) * time.Hour)

	result, err := f.Search(ctx, model.SearchQuery{DateFrom: &since, Limit: limit})
	if err != nil {
		return nil, err
	}
	return NewResult(formatSearchResult(result)), nil
}

// SearchRelationshipsByContext implements
// search_relationships_by_context: matches the free-text extracted
// context attached to relationships (§4.B/§4.F).
func SearchRelationshipsByContext(ctx context.Context, f *graph.Facade, args map[string]any) (*ToolResult, error) {
	query := GetStringArg(args, "query", "")
	if query == "" {
		return NewError("Missing required parameter: query"), nil
	}
	id := GetStringArg(args, "memory_id", "")
	if id == "" {
		return NewError("Missing required parameter: memory_id"), nil
	}

	history, err := f.GetRelationshipHistory(ctx, id)
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(query)
	var matched []string
	for _, r := range history {
		if r.Properties.ContextJSON == nil {
			continue
		}
		c := r.Properties.ContextJSON
		haystack := strings.ToLower(c.Text + " " + c.Scope)
		if strings.Contains(haystack, needle) {
			matched = append(matched, fmt.Sprintf("  [%s] %s -[%s]-> %s: %s", r.ID, r.FromMemoryID, r.Type, r.ToMemoryID, c.Text))
		}
	}
	if len(matched) == 0 {
		return NewResult("No matching relationships found."), nil
	}
	return NewResult(fmt.Sprintf("%d matching relationships:\n%s", len(matched), strings.Join(matched, "\n"))), nil
}
