// Copyright (C) 2025-2026 Kraklabs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kraklabs/memorygraph/pkg/storage"
)

func TestHealthCheck_HealthyBackendSucceeds(t *testing.T) {
	backend, err := storage.NewSQLiteBackend(storage.SQLiteConfig{Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = backend.Close() })

	require.NoError(t, HealthCheck(context.Background(), backend, 0))
}

func TestHealthCheck_ClosedBackendFails(t *testing.T) {
	backend, err := storage.NewSQLiteBackend(storage.SQLiteConfig{Path: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, backend.Close())

	require.Error(t, HealthCheck(context.Background(), backend, 0))
}

func TestLogToolCall_DoesNotPanicWithoutTenant(t *testing.T) {
	l := New(nil)
	l.LogToolCall("store_memory", "", 0, "success")
}
