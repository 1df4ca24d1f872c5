// Copyright (C) 2025-2026 Kraklabs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kraklabs/memorygraph/pkg/model"
)

// CloudConfig configures the REST adapter backend (§4.C, §6.4's
// MEMORYGRAPH_API_URL/MEMORYGRAPH_API_KEY/MEMORYGRAPH_TIMEOUT).
//
// spec.md treats the cloud adapter as an external collaborator, its
// interface only enumerated (§1, §4.C), and no example in this pack
// implements a MemoryGraph cloud API to ground a richer client
// against. The implementation below is deliberately a thin net/http
// wrapper rather than a generated SDK client — see DESIGN.md.
type CloudConfig struct {
	APIURL  string
	APIKey  string
	Timeout time.Duration
}

// CloudBackend implements MemoryOperations against a remote
// MemoryGraph REST API. It is never Cypher-capable: the "cloud wrapper
// pretending to be a graph backend" anti-pattern the source flagged
// (§9) is avoided by simply not implementing CypherCapable.
type CloudBackend struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewCloudBackend(cfg CloudConfig) *CloudBackend {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &CloudBackend{
		baseURL: strings.TrimRight(cfg.APIURL, "/"),
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *CloudBackend) do(ctx context.Context, method, path string, body any, out any) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return model.NewBackendUnavailable(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("cloud backend returned status %d", resp.StatusCode)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func (c *CloudBackend) StoreMemory(ctx context.Context, m *model.Memory) error {
	return c.do(ctx, http.MethodPut, "/v1/memories/"+url.PathEscape(m.ID), m, nil)
}

func (c *CloudBackend) GetMemory(ctx context.Context, id string) (*model.Memory, error) {
	var m model.Memory
	if err := c.do(ctx, http.MethodGet, "/v1/memories/"+url.PathEscape(id), nil, &m); err != nil {
		return nil, err
	}
	if m.ID == "" {
		return nil, nil
	}
	return &m, nil
}

func (c *CloudBackend) UpdateMemory(ctx context.Context, m *model.Memory) error {
	return c.StoreMemory(ctx, m)
}

func (c *CloudBackend) DeleteMemory(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/v1/memories/"+url.PathEscape(id), nil, nil)
}

func (c *CloudBackend) ListMemories(ctx context.Context, filter MemoryFilter) ([]*model.Memory, error) {
	var out []*model.Memory
	if err := c.do(ctx, http.MethodPost, "/v1/memories/list", filter, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *CloudBackend) CreateRelationship(ctx context.Context, r *model.Relationship) error {
	return c.do(ctx, http.MethodPost, "/v1/relationships", r, nil)
}

func (c *CloudBackend) GetRelationship(ctx context.Context, id string) (*model.Relationship, error) {
	var r model.Relationship
	if err := c.do(ctx, http.MethodGet, "/v1/relationships/"+url.PathEscape(id), nil, &r); err != nil {
		return nil, err
	}
	if r.ID == "" {
		return nil, nil
	}
	return &r, nil
}

func (c *CloudBackend) UpdateRelationship(ctx context.Context, r *model.Relationship) error {
	return c.do(ctx, http.MethodPut, "/v1/relationships/"+url.PathEscape(r.ID), r, nil)
}

func (c *CloudBackend) ListRelationships(ctx context.Context, filter RelationshipFilter) ([]*model.Relationship, error) {
	var out []*model.Relationship
	if err := c.do(ctx, http.MethodPost, "/v1/relationships/list", filter, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *CloudBackend) IsCypherCapable() bool { return false }

func (c *CloudBackend) HealthCheck(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/v1/health", nil, nil)
}

func (c *CloudBackend) Close() error { return nil }

var _ MemoryOperations = (*CloudBackend)(nil)
