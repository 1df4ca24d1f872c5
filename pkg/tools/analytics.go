// Copyright (C) 2025-2026 Kraklabs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/kraklabs/memorygraph/pkg/analytics"
)

// FindMemoryPath implements find_memory_path (§4.F/§4.H).
func FindMemoryPath(ctx context.Context, a *analytics.Analytics, args map[string]any) (*ToolResult, error) {
	from := GetStringArg(args, "from_memory_id", "")
	to := GetStringArg(args, "to_memory_id", "")
	if from == "" || to == "" {
		return NewError("Missing required parameter: from_memory_id and to_memory_id are required"), nil
	}
	maxDepth := GetIntArg(args, "max_depth", analytics.DefaultMaxPathDepth)

	path, err := a.FindPath(ctx, from, to, maxDepth)
	if err != nil {
		return nil, err
	}
	if path == nil {
		return NewResult(fmt.Sprintf("No path found between %s and %s within %d hops.", from, to, maxDepth)), nil
	}
	if len(path.Steps) == 0 {
		return NewResult("from_memory_id and to_memory_id are the same memory."), nil
	}
	var out strings.Builder
	fmt.Fprintf(&out, "Path found (%d hops, accumulated strength %.2f):\n%s", len(path.Steps), path.AccumulatedStrength, from)
	for _, step := range path.Steps {
		fmt.Fprintf(&out, " -[%s]-> %s (%q)", step.Relationship.Type, step.Memory.ID, step.Memory.Title)
	}
	return NewResult(out.String()), nil
}

// AnalyzeMemoryClusters implements analyze_memory_clusters (§4.F/§4.H).
func AnalyzeMemoryClusters(ctx context.Context, a *analytics.Analytics, args map[string]any) (*ToolResult, error) {
	threshold := GetFloat64Arg(args, "threshold", 0.5)
	clusters, err := a.AnalyzeClusters(ctx, threshold)
	if err != nil {
		return nil, err
	}
	if len(clusters) == 0 {
		return NewResult("No clusters found at this threshold."), nil
	}
	var out strings.Builder
	fmt.Fprintf(&out, "%d clusters (threshold=%.2f):\n", len(clusters), threshold)
	for i, c := range clusters {
		fmt.Fprintf(&out, "  cluster %d (%d memories): %s\n", i+1, len(c.MemoryIDs), strings.Join(c.MemoryIDs, ", "))
	}
	return NewResult(out.String()), nil
}

// FindBridgeMemories implements find_bridge_memories (§4.F/§4.H).
func FindBridgeMemories(ctx context.Context, a *analytics.Analytics, args map[string]any) (*ToolResult, error) {
	bridges, err := a.FindBridges(ctx)
	if err != nil {
		return nil, err
	}
	if len(bridges) == 0 {
		return NewResult("No bridge relationships found."), nil
	}
	var out strings.Builder
	fmt.Fprintf(&out, "%d bridge relationships:\n", len(bridges))
	for _, b := range bridges {
		r := b.Relationship
		fmt.Fprintf(&out, "  [%s] %s -[%s]-> %s\n", r.ID, r.FromMemoryID, r.Type, r.ToMemoryID)
	}
	return NewResult(out.String()), nil
}

// AnalyzeGraphMetrics implements analyze_graph_metrics (§4.F/§4.H).
func AnalyzeGraphMetrics(ctx context.Context, a *analytics.Analytics, args map[string]any) (*ToolResult, error) {
	metrics, err := a.GraphMetrics(ctx)
	if err != nil {
		return nil, err
	}
	var out strings.Builder
	fmt.Fprintf(&out, "Memories: %d | Relationships: %d\n", metrics.MemoryCount, metrics.RelationshipCount)
	fmt.Fprintf(&out, "Avg relationships/memory: %.2f | Density: %.4f | Connected components: %d\n",
		metrics.AvgRelationshipsPerMemory, metrics.Density, metrics.ConnectedComponents)
	out.WriteString("By type:\n")
	for t, c := range metrics.MemoriesByType {
		fmt.Fprintf(&out, "  %s: %d\n", t, c)
	}
	return NewResult(out.String()), nil
}

// TrackEntityTimeline implements track_entity_timeline (§4.F/§4.H).
func TrackEntityTimeline(ctx context.Context, a *analytics.Analytics, args map[string]any) (*ToolResult, error) {
	entity := GetStringArg(args, "entity", "")
	if entity == "" {
		return NewError("Missing required parameter: entity"), nil
	}
	timeline, err := a.TrackEntityTimeline(ctx, entity)
	if err != nil {
		return nil, err
	}
	if len(timeline) == 0 {
		return NewResult(fmt.Sprintf("No memories mention %q.", entity)), nil
	}
	var out strings.Builder
	fmt.Fprintf(&out, "%d memories mention %q:\n", len(timeline), entity)
	for _, m := range timeline {
		fmt.Fprintf(&out, "  [%s] %s created=%s\n", m.ID, m.Title, m.CreatedAt.Format("2006-01-02T15:04:05Z"))
	}
	return NewResult(out.String()), nil
}
