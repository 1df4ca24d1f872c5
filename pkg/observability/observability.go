// Copyright (C) 2025-2026 Kraklabs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

// Package observability implements §4.J: a structured logger for tool
// invocations and the server's health check, following the teacher's
// log/slog usage (pkg/memory/client.go) rather than a third-party
// logging library the pack never reaches for.
package observability

import (
	"context"
	"log/slog"
	"time"

	"github.com/kraklabs/memorygraph/pkg/storage"
)

// DefaultHealthTimeout is HEALTH_TIMEOUT_SECONDS' default (§2.A).
const DefaultHealthTimeout = 5 * time.Second

// Logger records one structured line per tool invocation with the
// fields §4.J names: {tool, tenant_id?, duration_ms, outcome}.
type Logger struct {
	log *slog.Logger
}

// New wraps an *slog.Logger, defaulting to slog.Default() when nil.
func New(log *slog.Logger) *Logger {
	if log == nil {
		log = slog.Default()
	}
	return &Logger{log: log}
}

// LogToolCall records a completed tool invocation. tenantID is omitted
// from the log line when empty, matching the "tenant_id?" optional
// field in §4.J.
func (l *Logger) LogToolCall(tool string, tenantID string, duration time.Duration, outcome string) {
	args := []any{"tool", tool, "duration_ms", duration.Milliseconds(), "outcome", outcome}
	if tenantID != "" {
		args = append(args, "tenant_id", tenantID)
	}
	l.log.Info("tool call", args...)
}

// HealthCheck probes the active backend and reports healthy iff the
// probe completes within timeout (default DefaultHealthTimeout, §4.J).
// A non-positive timeout falls back to the default.
func HealthCheck(ctx context.Context, backend storage.Backend, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = DefaultHealthTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return backend.HealthCheck(ctx)
}
