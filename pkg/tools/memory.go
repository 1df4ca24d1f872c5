// Copyright (C) 2025-2026 Kraklabs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	ctxextract "github.com/kraklabs/memorygraph/pkg/context"
	"github.com/kraklabs/memorygraph/pkg/graph"
	"github.com/kraklabs/memorygraph/pkg/model"
)

// memoryInputFromArgs builds a model.MemoryInput from a tool args map,
// shared by StoreMemory and UpdateMemory (§4.A/§4.F).
func memoryInputFromArgs(args map[string]any) model.MemoryInput {
	return model.MemoryInput{
		Type:          model.MemoryType(GetStringArg(args, "type", "")),
		Title:         GetStringArg(args, "title", ""),
		Content:       GetStringArg(args, "content", ""),
		Summary:       GetStringArg(args, "summary", ""),
		Tags:          GetStringSliceArg(args, "tags", nil),
		Importance:    GetFloat64PtrArg(args, "importance"),
		Confidence:    GetFloat64PtrArg(args, "confidence"),
		Effectiveness: GetFloat64PtrArg(args, "effectiveness"),
		Context: model.Context{
			ProjectPath:  GetStringArg(args, "project_path", ""),
			Technologies: GetStringSliceArg(args, "technologies", nil),
			GitCommit:    GetStringArg(args, "git_commit", ""),
			GitBranch:    GetStringArg(args, "git_branch", ""),
			SessionID:    GetStringArg(args, "session_id", ""),
		},
	}
}

// StoreMemory implements the store_memory handler (§4.F).
func StoreMemory(ctx context.Context, f *graph.Facade, args map[string]any) (*ToolResult, error) {
	in := memoryInputFromArgs(args)
	m, err := f.StoreMemory(ctx, in)
	if err != nil {
		return nil, err
	}
	return NewResult(fmt.Sprintf("Stored %s memory [%s]\nTitle: %q\nTags: %s",
		m.Type, m.ID, m.Title, strings.Join(m.Tags, ", "))), nil
}

// GetMemory implements the get_memory handler (§4.F).
func GetMemory(ctx context.Context, f *graph.Facade, args map[string]any) (*ToolResult, error) {
	id := GetStringArg(args, "id", "")
	if id == "" {
		return NewError("Missing required parameter: id"), nil
	}
	includeRels := GetBoolArg(args, "include_relationships", false)

	m, rels, err := f.GetMemory(ctx, id, includeRels)
	if err != nil {
		return nil, err
	}

	out := fmt.Sprintf("[%s] %s (%s)\n%s\nImportance: %.2f | Confidence: %.2f | Version: %d | Created %s",
		m.ID, m.Title, m.Type, m.Content, m.Importance, m.Confidence, m.Version, humanize.Time(m.CreatedAt))
	if len(m.Tags) > 0 {
		out += fmt.Sprintf("\nTags: %s", strings.Join(m.Tags, ", "))
	}
	if includeRels {
		out += fmt.Sprintf("\n\nCurrent relationships: %d", len(rels))
		for _, r := range rels {
			out += fmt.Sprintf("\n  %s -[%s]-> %s", r.FromMemoryID, r.Type, r.ToMemoryID)
		}
	}
	return NewResult(out), nil
}

// UpdateMemory implements the update_memory handler (§4.F).
func UpdateMemory(ctx context.Context, f *graph.Facade, args map[string]any) (*ToolResult, error) {
	id := GetStringArg(args, "id", "")
	if id == "" {
		return NewError("Missing required parameter: id"), nil
	}
	in := memoryInputFromArgs(args)
	m, err := f.UpdateMemory(ctx, id, in)
	if err != nil {
		return nil, err
	}
	return NewResult(fmt.Sprintf("Updated memory [%s] to version %d", m.ID, m.Version)), nil
}

// DeleteMemory implements the delete_memory handler (§4.F).
func DeleteMemory(ctx context.Context, f *graph.Facade, args map[string]any) (*ToolResult, error) {
	id := GetStringArg(args, "id", "")
	if id == "" {
		return NewError("Missing required parameter: id"), nil
	}
	if err := f.DeleteMemory(ctx, id); err != nil {
		return nil, err
	}
	return NewResult(fmt.Sprintf("Deleted memory [%s] and its relationships", id)), nil
}

// ExtractContextFromArgs runs the context extractor (§4.B) over an
// optional free-text "context_text" argument, used by
// CreateRelationship to populate properties.context_json.
func ExtractContextFromArgs(args map[string]any) *model.ExtractedContext {
	text := GetStringArg(args, "context_text", "")
	if text == "" {
		text = GetStringArg(args, "context", "")
	}
	if text == "" {
		return nil
	}
	return ctxextract.Extract(text)
}
