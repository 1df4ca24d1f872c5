// Copyright (C) 2025-2026 Kraklabs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

// Package mcpserver implements §4.I: the thin MCP surface adapter that
// owns stdin/stdout framing via github.com/modelcontextprotocol/go-sdk
// and knows nothing about storage, delegating every call to a
// pkg/registry.Registry.
//
// This replaces the teacher's hand-rolled JSON-RPC loop
// (cmd/mie/mcp.go's mcpServer.serve/handleRequest) with the real SDK,
// grounded on the generic mcp.AddTool registration pattern shown by
// the pack's other example MCP servers.
package mcpserver

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/kraklabs/memorygraph/pkg/registry"
)

// toSchema converts a tool's hand-written map[string]any JSON Schema
// document (registry.Tool.InputSchema) into the *jsonschema.Schema the
// SDK wants, via a JSON round trip so every tool keeps its own
// per-field bounds instead of falling back to reflection over the
// uniform map[string]any handler signature.
func toSchema(m map[string]any) *jsonschema.Schema {
	if m == nil {
		return nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil
	}
	s := &jsonschema.Schema{}
	if err := json.Unmarshal(data, s); err != nil {
		return nil
	}
	return s
}

// Server wraps an *mcp.Server pre-loaded with every tool in reg.
type Server struct {
	mcp *mcp.Server
	log *slog.Logger
}

// New builds the MCP server and registers every tool in reg. In/Out
// are uniformly map[string]any/any so registration stays generic over
// the whole tool set instead of one typed struct pair per tool.
func New(reg *registry.Registry, name, version string, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	impl := &mcp.Implementation{Name: name, Version: version}
	s := mcp.NewServer(impl, nil)

	for _, t := range reg.List() {
		tool := t
		mcp.AddTool(s, &mcp.Tool{
			Name:        tool.Name,
			Description: tool.Description,
			InputSchema: toSchema(tool.InputSchema),
		}, func(ctx context.Context, req *mcp.CallToolRequest, args map[string]any) (*mcp.CallToolResult, any, error) {
			result := reg.Dispatch(ctx, tool.Name, args)
			return &mcp.CallToolResult{
				Content: []mcp.Content{&mcp.TextContent{Text: result.Text}},
				IsError: result.IsError,
			}, nil, nil
		})
	}

	return &Server{mcp: s, log: log}
}

// Serve runs the server over stdin/stdout until ctx is canceled or the
// transport closes, per §4.I/§2.B ("--mcp starts the stdio MCP
// server").
func (s *Server) Serve(ctx context.Context) error {
	s.log.Info("mcp server starting")
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}
