// Copyright (C) 2025-2026 Kraklabs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"log/slog"

	"github.com/kraklabs/memorygraph/pkg/analytics"
	"github.com/kraklabs/memorygraph/pkg/graph"
	"github.com/kraklabs/memorygraph/pkg/registry"
	"github.com/kraklabs/memorygraph/pkg/storage"
	"github.com/kraklabs/memorygraph/pkg/tools"
)

// buildRegistry binds every pkg/tools handler to f/a/backend and
// registers it under its §6.1/§4.F name, producing the immutable
// registry the MCP surface and the CLI's ad-hoc tool invocations both
// dispatch through.
func buildRegistry(f *graph.Facade, a *analytics.Analytics, backend storage.Backend, log *slog.Logger) *registry.Registry {
	reg := registry.New(log)

	register := func(name, description string, h registry.Handler) {
		reg.Register(registry.Tool{
			Name:        name,
			Description: description,
			InputSchema: toolSchemas[name],
			Handler:     h,
		})
	}

	register("store_memory", "Store a new memory", func(ctx context.Context, args map[string]any) (*tools.ToolResult, error) {
		return tools.StoreMemory(ctx, f, args)
	})
	register("get_memory", "Retrieve a memory by id", func(ctx context.Context, args map[string]any) (*tools.ToolResult, error) {
		return tools.GetMemory(ctx, f, args)
	})
	register("update_memory", "Update an existing memory", func(ctx context.Context, args map[string]any) (*tools.ToolResult, error) {
		return tools.UpdateMemory(ctx, f, args)
	})
	register("delete_memory", "Delete a memory", func(ctx context.Context, args map[string]any) (*tools.ToolResult, error) {
		return tools.DeleteMemory(ctx, f, args)
	})
	register("search_memories", "Search memories by query, tags and type", func(ctx context.Context, args map[string]any) (*tools.ToolResult, error) {
		return tools.SearchMemories(ctx, f, args)
	})
	register("recall_memories", "Recall recent memories for a project", func(ctx context.Context, args map[string]any) (*tools.ToolResult, error) {
		return tools.RecallMemories(ctx, f, args)
	})
	register("bulk_store_memories", "Store many memories in one call", func(ctx context.Context, args map[string]any) (*tools.ToolResult, error) {
		return tools.BulkStoreMemories(ctx, f, args)
	})
	register("create_relationship", "Create a relationship between two memories", func(ctx context.Context, args map[string]any) (*tools.ToolResult, error) {
		return tools.CreateRelationship(ctx, f, args)
	})
	register("get_related_memories", "List memories related to a given memory", func(ctx context.Context, args map[string]any) (*tools.ToolResult, error) {
		return tools.GetRelatedMemories(ctx, f, args)
	})
	register("reinforce_relationship", "Increase a relationship's strength", func(ctx context.Context, args map[string]any) (*tools.ToolResult, error) {
		return tools.ReinforceRelationship(ctx, f, args)
	})
	register("suggest_relationship_type", "Suggest a relationship type between two memories", func(ctx context.Context, args map[string]any) (*tools.ToolResult, error) {
		return tools.SuggestRelationshipType(ctx, f, args)
	})
	register("get_recent_activity", "List recently created or updated memories", func(ctx context.Context, args map[string]any) (*tools.ToolResult, error) {
		return tools.GetRecentActivity(ctx, f, args)
	})
	register("search_relationships_by_context", "Search a memory's relationships by context text", func(ctx context.Context, args map[string]any) (*tools.ToolResult, error) {
		return tools.SearchRelationshipsByContext(ctx, f, args)
	})
	register("query_as_of", "Query a memory's relationships as they stood at a past time", func(ctx context.Context, args map[string]any) (*tools.ToolResult, error) {
		return tools.QueryAsOf(ctx, f, args)
	})
	register("get_relationship_history", "List the full temporal history of a memory's relationships", func(ctx context.Context, args map[string]any) (*tools.ToolResult, error) {
		return tools.GetRelationshipHistory(ctx, f, args)
	})
	register("what_changed", "List relationships created or invalidated since a timestamp", func(ctx context.Context, args map[string]any) (*tools.ToolResult, error) {
		return tools.WhatChanged(ctx, f, args)
	})
	register("find_memory_path", "Find the shortest relationship path between two memories", func(ctx context.Context, args map[string]any) (*tools.ToolResult, error) {
		return tools.FindMemoryPath(ctx, a, args)
	})
	register("analyze_memory_clusters", "Group densely connected memories into clusters", func(ctx context.Context, args map[string]any) (*tools.ToolResult, error) {
		return tools.AnalyzeMemoryClusters(ctx, a, args)
	})
	register("find_bridge_memories", "Find relationships whose removal disconnects the graph", func(ctx context.Context, args map[string]any) (*tools.ToolResult, error) {
		return tools.FindBridgeMemories(ctx, a, args)
	})
	register("analyze_graph_metrics", "Report aggregate graph statistics", func(ctx context.Context, args map[string]any) (*tools.ToolResult, error) {
		return tools.AnalyzeGraphMetrics(ctx, a, args)
	})
	register("migrate_database", "Migrate memories and relationships from another backend into this one", func(ctx context.Context, args map[string]any) (*tools.ToolResult, error) {
		return tools.MigrateDatabase(ctx, f, backend, args)
	})
	register("validate_migration", "Verify a prior migration against its source backend", func(ctx context.Context, args map[string]any) (*tools.ToolResult, error) {
		return tools.ValidateMigration(ctx, backend, args)
	})
	register("track_entity_timeline", "List memories mentioning an entity, ordered by creation time", func(ctx context.Context, args map[string]any) (*tools.ToolResult, error) {
		return tools.TrackEntityTimeline(ctx, a, args)
	})

	return reg
}
