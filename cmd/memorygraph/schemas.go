// Copyright (C) 2025-2026 Kraklabs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

package main

// toolSchemas holds the JSON-schema argument document for every tool
// registered with the MCP surface (§6.1's representative shapes,
// extended to cover every handler in pkg/tools). These mirror §4.A's
// field bounds exactly, the way the teacher hand-wrote one schema
// literal per tool in its getTools() (cmd/mie/mcp.go).
var toolSchemas = map[string]map[string]any{
	"store_memory": {
		"type": "object",
		"properties": map[string]any{
			"type":       map[string]any{"type": "string"},
			"title":      map[string]any{"type": "string", "maxLength": 500},
			"content":    map[string]any{"type": "string", "maxLength": 50000},
			"summary":    map[string]any{"type": "string"},
			"tags":       map[string]any{"type": "array", "maxItems": 50, "items": map[string]any{"type": "string", "maxLength": 100}},
			"importance": map[string]any{"type": "number", "minimum": 0, "maximum": 1},
			"context":    map[string]any{"type": "object"},
		},
		"required": []string{"type", "title", "content"},
	},
	"get_memory": {
		"type": "object",
		"properties": map[string]any{
			"id":                   map[string]any{"type": "string"},
			"include_relationships": map[string]any{"type": "boolean"},
		},
		"required": []string{"id"},
	},
	"update_memory": {
		"type": "object",
		"properties": map[string]any{
			"id":         map[string]any{"type": "string"},
			"title":      map[string]any{"type": "string", "maxLength": 500},
			"content":    map[string]any{"type": "string", "maxLength": 50000},
			"summary":    map[string]any{"type": "string"},
			"tags":       map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"importance": map[string]any{"type": "number", "minimum": 0, "maximum": 1},
		},
		"required": []string{"id"},
	},
	"delete_memory": {
		"type":       "object",
		"properties": map[string]any{"id": map[string]any{"type": "string"}},
		"required":   []string{"id"},
	},
	"search_memories": {
		"type": "object",
		"properties": map[string]any{
			"query":          map[string]any{"type": "string", "maxLength": 1000},
			"memory_types":   map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"tags":           map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"min_importance": map[string]any{"type": "number", "minimum": 0, "maximum": 1},
			"project_path":   map[string]any{"type": "string"},
			"match_mode":     map[string]any{"type": "string", "enum": []string{"any", "all"}},
			"tolerance":      map[string]any{"type": "string", "enum": []string{"strict", "normal", "fuzzy"}},
			"limit":          map[string]any{"type": "integer", "minimum": 1, "maximum": 1000},
			"offset":         map[string]any{"type": "integer", "minimum": 0},
		},
	},
	"recall_memories": {
		"type": "object",
		"properties": map[string]any{
			"project_path": map[string]any{"type": "string"},
			"limit":        map[string]any{"type": "integer", "minimum": 1, "maximum": 1000},
		},
	},
	"create_relationship": {
		"type": "object",
		"properties": map[string]any{
			"from_memory_id":    map[string]any{"type": "string"},
			"to_memory_id":      map[string]any{"type": "string"},
			"relationship_type": map[string]any{"type": "string"},
			"strength":          map[string]any{"type": "number", "minimum": 0, "maximum": 1},
			"confidence":        map[string]any{"type": "number", "minimum": 0, "maximum": 1},
			"context":           map[string]any{"type": "string", "maxLength": 10000},
		},
		"required": []string{"from_memory_id", "to_memory_id", "relationship_type"},
	},
	"get_related_memories": {
		"type": "object",
		"properties": map[string]any{
			"id":                map[string]any{"type": "string"},
			"relationship_type": map[string]any{"type": "string"},
			"direction":         map[string]any{"type": "string", "enum": []string{"outgoing", "incoming", "both"}},
		},
		"required": []string{"id"},
	},
	"get_recent_activity": {
		"type": "object",
		"properties": map[string]any{
			"since": map[string]any{"type": "string"},
			"limit": map[string]any{"type": "integer", "minimum": 1, "maximum": 1000},
		},
	},
	"search_relationships_by_context": {
		"type": "object",
		"properties": map[string]any{
			"id":    map[string]any{"type": "string"},
			"query": map[string]any{"type": "string"},
		},
		"required": []string{"id", "query"},
	},
	"find_memory_path": {
		"type": "object",
		"properties": map[string]any{
			"from_memory_id": map[string]any{"type": "string"},
			"to_memory_id":   map[string]any{"type": "string"},
			"max_depth":      map[string]any{"type": "integer", "minimum": 1},
		},
		"required": []string{"from_memory_id", "to_memory_id"},
	},
	"analyze_memory_clusters": {
		"type":       "object",
		"properties": map[string]any{"threshold": map[string]any{"type": "number", "minimum": 0, "maximum": 1}},
	},
	"find_bridge_memories": {
		"type":       "object",
		"properties": map[string]any{},
	},
	"suggest_relationship_type": {
		"type": "object",
		"properties": map[string]any{
			"from_memory_id": map[string]any{"type": "string"},
			"to_memory_id":   map[string]any{"type": "string"},
		},
		"required": []string{"from_memory_id", "to_memory_id"},
	},
	"reinforce_relationship": {
		"type": "object",
		"properties": map[string]any{
			"id":    map[string]any{"type": "string"},
			"delta": map[string]any{"type": "number", "minimum": 0, "maximum": 1},
		},
		"required": []string{"id"},
	},
	"analyze_graph_metrics": {
		"type":       "object",
		"properties": map[string]any{},
	},
	"query_as_of": {
		"type": "object",
		"properties": map[string]any{
			"id":    map[string]any{"type": "string"},
			"as_of": map[string]any{"type": "string", "format": "date-time"},
		},
		"required": []string{"id", "as_of"},
	},
	"get_relationship_history": {
		"type":       "object",
		"properties": map[string]any{"id": map[string]any{"type": "string"}},
		"required":   []string{"id"},
	},
	"what_changed": {
		"type":       "object",
		"properties": map[string]any{"since": map[string]any{"type": "string", "format": "date-time"}},
		"required":   []string{"since"},
	},
	"migrate_database": {
		"type": "object",
		"properties": map[string]any{
			"source_backend":  map[string]any{"type": "string"},
			"source_path":     map[string]any{"type": "string"},
			"source_uri":      map[string]any{"type": "string"},
			"source_username": map[string]any{"type": "string"},
			"source_password": map[string]any{"type": "string"},
			"source_database": map[string]any{"type": "string"},
			"mode":            map[string]any{"type": "string", "enum": []string{"merge-by-id", "refuse-if-exists"}},
		},
	},
	"validate_migration": {
		"type": "object",
		"properties": map[string]any{
			"source_backend":  map[string]any{"type": "string"},
			"source_path":     map[string]any{"type": "string"},
			"source_uri":      map[string]any{"type": "string"},
			"source_username": map[string]any{"type": "string"},
			"source_password": map[string]any{"type": "string"},
			"source_database": map[string]any{"type": "string"},
		},
	},
	"track_entity_timeline": {
		"type":       "object",
		"properties": map[string]any{"entity": map[string]any{"type": "string"}},
		"required":   []string{"entity"},
	},
	"bulk_store_memories": {
		"type": "object",
		"properties": map[string]any{
			"items": map[string]any{"type": "array", "items": map[string]any{"type": "object"}},
		},
		"required": []string{"items"},
	},
}
