// Copyright (C) 2025-2026 Kraklabs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/kraklabs/memorygraph/pkg/model"
)

// Neo4jConfig configures a Graph/Cypher-capable backend (§4.C). The
// same driver and Bolt wire protocol serve neo4j, memgraph and falkor
// (MEMORY_BACKEND values neo4j|memgraph|falkor), so one implementation
// covers all three.
type Neo4jConfig struct {
	URI      string
	Username string
	Password string
	Database string
}

// Neo4jBackend stores Memory nodes and Relationship edges as native
// graph nodes/relationships instead of SQL tables, and additionally
// exposes RunCypher, which is never surfaced to MCP clients (§4.C) and
// is not called by the facade or analytics packages.
type Neo4jBackend struct {
	driver   neo4j.DriverWithContext
	database string
}

// NewNeo4jBackend opens a driver connection and verifies connectivity.
func NewNeo4jBackend(ctx context.Context, cfg Neo4jConfig) (*Neo4jBackend, error) {
	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.Username, cfg.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("create neo4j driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, fmt.Errorf("verify neo4j connectivity: %w", err)
	}
	b := &Neo4jBackend{driver: driver, database: cfg.Database}
	if err := b.ensureConstraints(ctx); err != nil {
		driver.Close(ctx)
		return nil, err
	}
	return b, nil
}

func (b *Neo4jBackend) session(ctx context.Context) neo4j.SessionWithContext {
	return b.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: b.database})
}

func (b *Neo4jBackend) ensureConstraints(ctx context.Context) error {
	session := b.session(ctx)
	defer session.Close(ctx)
	_, err := session.Run(ctx,
		`CREATE CONSTRAINT memory_id_unique IF NOT EXISTS FOR (m:Memory) REQUIRE m.id IS UNIQUE`, nil)
	return err
}

func (b *Neo4jBackend) StoreMemory(ctx context.Context, m *model.Memory) error {
	session := b.session(ctx)
	defer session.Close(ctx)

	props, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode memory: %w", err)
	}
	_, err = session.Run(ctx, `
		MERGE (m:Memory {id: $id})
		SET m.properties = $props, m.created_at = $created_at, m.updated_at = $updated_at
	`, map[string]any{
		"id": m.ID, "props": string(props),
		"created_at": iso(m.CreatedAt), "updated_at": iso(m.UpdatedAt),
	})
	if err != nil {
		return fmt.Errorf("store memory: %w", err)
	}
	return nil
}

func (b *Neo4jBackend) GetMemory(ctx context.Context, id string) (*model.Memory, error) {
	session := b.session(ctx)
	defer session.Close(ctx)
	result, err := session.Run(ctx, `MATCH (m:Memory {id: $id}) RETURN m.properties AS props`, map[string]any{"id": id})
	if err != nil {
		return nil, fmt.Errorf("get memory: %w", err)
	}
	record, err := result.Single(ctx)
	if err != nil {
		return nil, nil
	}
	raw, _ := record.Get("props")
	var m model.Memory
	if err := json.Unmarshal([]byte(raw.(string)), &m); err != nil {
		return nil, fmt.Errorf("decode memory: %w", err)
	}
	return &m, nil
}

func (b *Neo4jBackend) UpdateMemory(ctx context.Context, m *model.Memory) error {
	return b.StoreMemory(ctx, m)
}

func (b *Neo4jBackend) DeleteMemory(ctx context.Context, id string) error {
	session := b.session(ctx)
	defer session.Close(ctx)
	// DETACH DELETE is the Cypher equivalent of §3 invariant 7's cascade.
	_, err := session.Run(ctx, `MATCH (m:Memory {id: $id}) DETACH DELETE m`, map[string]any{"id": id})
	if err != nil {
		return fmt.Errorf("delete memory: %w", err)
	}
	return nil
}

func (b *Neo4jBackend) ListMemories(ctx context.Context, filter MemoryFilter) ([]*model.Memory, error) {
	session := b.session(ctx)
	defer session.Close(ctx)
	result, err := session.Run(ctx, `MATCH (m:Memory) RETURN m.properties AS props`, nil)
	if err != nil {
		return nil, fmt.Errorf("list memories: %w", err)
	}
	var out []*model.Memory
	records, err := result.Collect(ctx)
	if err != nil {
		return nil, err
	}
	for _, record := range records {
		raw, _ := record.Get("props")
		var m model.Memory
		if err := json.Unmarshal([]byte(raw.(string)), &m); err != nil {
			return nil, fmt.Errorf("decode memory: %w", err)
		}
		if matchesMemoryFilter(&m, filter) {
			out = append(out, &m)
		}
	}
	sortMemoriesDefault(out)
	return out, nil
}

func (b *Neo4jBackend) CreateRelationship(ctx context.Context, r *model.Relationship) error {
	session := b.session(ctx)
	defer session.Close(ctx)
	props, err := json.Marshal(r.Properties)
	if err != nil {
		return fmt.Errorf("encode relationship properties: %w", err)
	}
	var validUntil any
	if r.ValidUntil != nil {
		validUntil = iso(*r.ValidUntil)
	}
	_, err = session.Run(ctx, `
		MATCH (a:Memory {id: $from}), (b:Memory {id: $to})
		CREATE (a)-[rel:RELATES {id: $id, type: $type, properties: $props,
			valid_from: $valid_from, valid_until: $valid_until, recorded_at: $recorded_at}]->(b)
	`, map[string]any{
		"from": r.FromMemoryID, "to": r.ToMemoryID, "id": r.ID, "type": string(r.Type),
		"props": string(props), "valid_from": iso(r.ValidFrom), "valid_until": validUntil,
		"recorded_at": iso(r.RecordedAt),
	})
	if err != nil {
		return fmt.Errorf("create relationship: %w", err)
	}
	return nil
}

func (b *Neo4jBackend) GetRelationship(ctx context.Context, id string) (*model.Relationship, error) {
	rels, err := b.ListRelationships(ctx, RelationshipFilter{})
	if err != nil {
		return nil, err
	}
	for _, r := range rels {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, nil
}

func (b *Neo4jBackend) UpdateRelationship(ctx context.Context, r *model.Relationship) error {
	session := b.session(ctx)
	defer session.Close(ctx)
	props, err := json.Marshal(r.Properties)
	if err != nil {
		return fmt.Errorf("encode relationship properties: %w", err)
	}
	var validUntil, invalidatedBy any
	if r.ValidUntil != nil {
		validUntil = iso(*r.ValidUntil)
	}
	if r.InvalidatedBy != nil {
		invalidatedBy = *r.InvalidatedBy
	}
	_, err = session.Run(ctx, `
		MATCH ()-[rel:RELATES {id: $id}]->()
		SET rel.properties = $props, rel.valid_until = $valid_until, rel.invalidated_by = $invalidated_by
	`, map[string]any{"id": r.ID, "props": string(props), "valid_until": validUntil, "invalidated_by": invalidatedBy})
	if err != nil {
		return fmt.Errorf("update relationship: %w", err)
	}
	return nil
}

func (b *Neo4jBackend) ListRelationships(ctx context.Context, filter RelationshipFilter) ([]*model.Relationship, error) {
	session := b.session(ctx)
	defer session.Close(ctx)
	result, err := session.Run(ctx, `
		MATCH (a:Memory)-[rel:RELATES]->(b:Memory)
		RETURN rel.id AS id, a.id AS from_id, b.id AS to_id, rel.type AS type, rel.properties AS props,
			rel.valid_from AS valid_from, rel.valid_until AS valid_until, rel.recorded_at AS recorded_at,
			rel.invalidated_by AS invalidated_by
	`, nil)
	if err != nil {
		return nil, fmt.Errorf("list relationships: %w", err)
	}
	records, err := result.Collect(ctx)
	if err != nil {
		return nil, err
	}
	var out []*model.Relationship
	for _, record := range records {
		r, err := relationshipFromCypherRecord(record)
		if err != nil {
			return nil, err
		}
		if matchesRelationshipFilter(r, filter) {
			out = append(out, r)
		}
	}
	return out, nil
}

func relationshipFromCypherRecord(record *neo4j.Record) (*model.Relationship, error) {
	get := func(key string) string {
		v, _ := record.Get(key)
		if v == nil {
			return ""
		}
		return v.(string)
	}
	r := &model.Relationship{
		ID: get("id"), FromMemoryID: get("from_id"), ToMemoryID: get("to_id"),
		Type: model.RelationshipType(get("type")),
	}
	if err := json.Unmarshal([]byte(get("props")), &r.Properties); err != nil {
		return nil, fmt.Errorf("decode relationship properties: %w", err)
	}
	vf, err := parseISO(get("valid_from"))
	if err != nil {
		return nil, err
	}
	r.ValidFrom = vf
	ra, err := parseISO(get("recorded_at"))
	if err != nil {
		return nil, err
	}
	r.RecordedAt = ra
	if s := get("valid_until"); s != "" {
		vu, err := parseISO(s)
		if err != nil {
			return nil, err
		}
		r.ValidUntil = &vu
	}
	if s := get("invalidated_by"); s != "" {
		r.InvalidatedBy = &s
	}
	return r, nil
}

func (b *Neo4jBackend) IsCypherCapable() bool { return true }

// RunCypher exposes the text-query execution hook (§4.C); it is never
// routed to from the MCP surface.
func (b *Neo4jBackend) RunCypher(ctx context.Context, query string, params map[string]any) (*CypherResult, error) {
	session := b.session(ctx)
	defer session.Close(ctx)
	result, err := session.Run(ctx, query, params)
	if err != nil {
		return nil, fmt.Errorf("run cypher: %w", err)
	}
	records, err := result.Collect(ctx)
	if err != nil {
		return nil, err
	}
	cr := &CypherResult{}
	if len(records) > 0 {
		cr.Columns = records[0].Keys
	}
	for _, record := range records {
		cr.Rows = append(cr.Rows, record.Values)
	}
	return cr, nil
}

func (b *Neo4jBackend) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return b.driver.VerifyConnectivity(ctx)
}

func (b *Neo4jBackend) Close() error {
	return b.driver.Close(context.Background())
}

var (
	_ MemoryOperations = (*Neo4jBackend)(nil)
	_ CypherCapable    = (*Neo4jBackend)(nil)
)
