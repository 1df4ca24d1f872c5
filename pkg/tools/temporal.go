// Copyright (C) 2025-2026 Kraklabs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/kraklabs/memorygraph/pkg/graph"
)

// QueryAsOf implements the query_as_of handler (§4.D.4/§4.F): related
// memories visible at a point in time.
func QueryAsOf(ctx context.Context, f *graph.Facade, args map[string]any) (*ToolResult, error) {
	id := GetStringArg(args, "id", "")
	if id == "" {
		return NewError("Missing required parameter: id"), nil
	}
	asOf, ok := GetTimeArg(args, "as_of")
	if !ok {
		return NewError("invalid as_of: expected ISO-8601 UTC timestamp"), nil
	}
	if asOf == nil {
		return NewError("Missing required parameter: as_of"), nil
	}

	related, err := f.QueryAsOf(ctx, id, *asOf)
	if err != nil {
		return nil, err
	}
	if len(related) == 0 {
		return NewResult(fmt.Sprintf("No relationships visible as of %s.", asOf.Format("2006-01-02T15:04:05Z"))), nil
	}
	var out strings.Builder
	fmt.Fprintf(&out, "%d relationships as of %s:\n", len(related), asOf.Format("2006-01-02T15:04:05Z"))
	for _, rm := range related {
		fmt.Fprintf(&out, "  [%s]-[%s]-> %s: %q\n", id, rm.Relationship.Type, rm.Memory.ID, rm.Memory.Title)
	}
	return NewResult(out.String()), nil
}

// GetRelationshipHistory implements the get_relationship_history
// handler (§4.D.4/§4.F): full bi-temporal history for a memory's
// relationships, ordered by valid_from.
func GetRelationshipHistory(ctx context.Context, f *graph.Facade, args map[string]any) (*ToolResult, error) {
	id := GetStringArg(args, "id", "")
	if id == "" {
		return NewError("Missing required parameter: id"), nil
	}
	history, err := f.GetRelationshipHistory(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(history) == 0 {
		return NewResult("No relationship history found."), nil
	}
	var out strings.Builder
	fmt.Fprintf(&out, "%d relationships touching %s:\n", len(history), id)
	for _, r := range history {
		status := "current"
		if r.ValidUntil != nil {
			status = fmt.Sprintf("invalidated at %s", r.ValidUntil.Format("2006-01-02T15:04:05Z"))
		}
		fmt.Fprintf(&out, "  [%s] %s -[%s]-> %s valid_from=%s (%s)\n",
			r.ID, r.FromMemoryID, r.Type, r.ToMemoryID, r.ValidFrom.Format("2006-01-02T15:04:05Z"), status)
	}
	return NewResult(out.String()), nil
}

// WhatChanged implements the what_changed handler (§4.D.4/§4.F): union
// of relationships recorded or invalidated since a timestamp.
func WhatChanged(ctx context.Context, f *graph.Facade, args map[string]any) (*ToolResult, error) {
	since, ok := GetTimeArg(args, "since")
	if !ok {
		return NewError("invalid since: expected ISO-8601 UTC timestamp"), nil
	}
	if since == nil {
		return NewError("Missing required parameter: since"), nil
	}

	changes, err := f.WhatChanged(ctx, *since)
	if err != nil {
		return nil, err
	}
	if len(changes.Created) == 0 && len(changes.Invalidated) == 0 {
		return NewResult(fmt.Sprintf("Nothing changed since %s.", since.Format("2006-01-02T15:04:05Z"))), nil
	}
	var out strings.Builder
	fmt.Fprintf(&out, "Created (%d):\n", len(changes.Created))
	for _, r := range changes.Created {
		fmt.Fprintf(&out, "  [%s] %s -[%s]-> %s\n", r.ID, r.FromMemoryID, r.Type, r.ToMemoryID)
	}
	fmt.Fprintf(&out, "Invalidated (%d):\n", len(changes.Invalidated))
	for _, r := range changes.Invalidated {
		fmt.Fprintf(&out, "  [%s] %s -[%s]-> %s\n", r.ID, r.FromMemoryID, r.Type, r.ToMemoryID)
	}
	return NewResult(out.String()), nil
}
