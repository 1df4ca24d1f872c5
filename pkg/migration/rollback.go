// Copyright (C) 2025-2026 Kraklabs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

package migration

import (
	"context"
	"fmt"
	"time"

	"github.com/kraklabs/memorygraph/pkg/graph"
	"github.com/kraklabs/memorygraph/pkg/storage"
)

// CaptureRollbackPoint snapshots target before a Migrate call so a
// failed or unwanted migration can be undone (§4.E's rollback
// operation). Call this before Migrate/Import against the same target.
func CaptureRollbackPoint(ctx context.Context, targetBackend storage.Backend, now time.Time) (*Snapshot, error) {
	return Export(ctx, targetBackend, now)
}

// Rollback restores target to a previously captured snapshot by
// wiping every current memory and relationship the facade knows about
// and re-importing the snapshot wholesale. Used after Migrate returns
// ErrVerificationFailed or the operator otherwise rejects the result.
func Rollback(ctx context.Context, target *graph.Facade, targetBackend storage.Backend, point *Snapshot) error {
	current, err := Export(ctx, targetBackend, point.GeneratedAt)
	if err != nil {
		return fmt.Errorf("export current target state: %w", err)
	}
	for _, m := range current.Memories {
		if err := target.DeleteMemory(ctx, m.ID); err != nil {
			return fmt.Errorf("clear memory %q before rollback: %w", m.ID, err)
		}
	}
	if err := Import(ctx, target, point, ImportRefuseIfExist); err != nil {
		return fmt.Errorf("restore rollback point: %w", err)
	}
	return nil
}
