// Copyright (C) 2025-2026 Kraklabs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

// Package registry implements the tool registry and error decorator of
// §4.G: an immutable name→handler map built at startup, and a single
// point that turns an internal *model.Error into the text an MCP
// client is allowed to see.
//
// This mirrors the teacher's cmd/mie toolHandlers map and
// handleToolCall dispatch (cmd/mie/mcp.go), generalized into its own
// package so pkg/mcpserver can stay a thin transport adapter over it.
package registry

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kraklabs/memorygraph/pkg/model"
	"github.com/kraklabs/memorygraph/pkg/tools"
)

// Handler is the signature every tool handler in pkg/tools conforms to
// once its domain-specific parameters (facade, analytics, backend) are
// bound via a closure at registration time.
type Handler func(ctx context.Context, args map[string]any) (*tools.ToolResult, error)

// Tool is one entry of the registry: name, description and JSON schema
// for listing, plus the bound handler for dispatch.
type Tool struct {
	Name        string
	Description string
	InputSchema map[string]any
	Handler     Handler
}

// Registry is a name→Tool map. Registration
// happens once at startup; Dispatch and List never mutate it.
type Registry struct {
	tools map[string]Tool
	order []string
	log   *slog.Logger
}

// New creates an empty registry. Register every tool, then treat the
// Registry as read-only.
func New(log *slog.Logger) *Registry {
	if log == nil {
		log = slog.Default()
	}
	return &Registry{tools: make(map[string]Tool), log: log}
}

// Register adds a tool. Calling Register after the server has started
// serving requests is a caller error; the registry does not guard
// against it because startup is single-threaded.
func (r *Registry) Register(t Tool) {
	if _, exists := r.tools[t.Name]; !exists {
		r.order = append(r.order, t.Name)
	}
	r.tools[t.Name] = t
}

// List returns every registered tool in registration order, for the
// MCP surface's tools/list.
func (r *Registry) List() []Tool {
	out := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name])
	}
	return out
}

// Dispatch looks up name and invokes its handler, decorating any error
// it returns into a safe *tools.ToolResult (§4.G). Unknown tool names
// return isError=true with "Unknown tool: <name>" and never reach a
// handler.
func (r *Registry) Dispatch(ctx context.Context, name string, args map[string]any) *tools.ToolResult {
	t, ok := r.tools[name]
	if !ok {
		return tools.NewError(fmt.Sprintf("Unknown tool: %s", name))
	}

	result, err := t.Handler(ctx, args)
	if err == nil {
		return result
	}
	return r.decorate(name, err)
}

// decorate classifies err into {Validation, NotFound, RelationshipError,
// Other} (§4.G's taxonomy; MissingField is produced directly by
// handlers as a *tools.ToolResult before any error reaches here, so it
// never appears in this switch). Other logs the full error and returns
// only a short, non-leaking message.
func (r *Registry) decorate(operation string, err error) *tools.ToolResult {
	e, ok := model.As(err)
	if !ok {
		r.log.Error("unclassified tool error", "tool", operation, "error", err)
		return tools.NewError(fmt.Sprintf("Failed to %s: internal error", operation))
	}

	switch e.Kind {
	case model.KindValidation, model.KindConflict:
		return tools.NewError(e.Message)
	case model.KindNotFound:
		return tools.NewError(e.Message)
	case model.KindRelationshipError, model.KindCycleDetected:
		return tools.NewError(e.Message)
	default: // BackendUnavailable, BackendTimeout, Internal
		r.log.Error("tool operation failed", "tool", operation, "kind", e.Kind, "error", e.Error())
		return tools.NewError(fmt.Sprintf("Failed to %s: %s", operation, e.Message))
	}
}
