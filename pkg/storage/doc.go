// Copyright (C) 2025-2026 Kraklabs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

// Package storage provides the memory graph's storage backend
// abstractions.
//
// MemoryOperations is the narrow capability set every backend
// implements: store/get/update/delete/list memories, create/get/update/
// list relationships, plus IsCypherCapable for introspection. Three
// backend families implement it:
//
//   - SQLiteBackend: the reference embedded-SQL backend. The only
//     backend guaranteed to exist in every deployment, and the default
//     (MEMORY_BACKEND=sqlite).
//   - Neo4jBackend: a Graph/Cypher-capable backend (also usable against
//     memgraph and falkor, which speak the same Bolt protocol) that
//     additionally exposes RunCypher; the facade and analytics packages
//     do not call it.
//   - CloudBackend: a REST adapter backend. Implements the same
//     capability set but is never Cypher-capable.
//
// # Quick start
//
//	backend, err := storage.NewSQLiteBackend(storage.SQLiteConfig{Path: "/path/to/memory.db"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//
// # Thread safety
//
// SQLiteBackend is safe for concurrent use: reads take a read lock,
// writes take an exclusive lock, and the underlying *sql.DB is capped
// at one connection so multi-statement mutations never interleave.
package storage
