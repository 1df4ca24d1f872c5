// Copyright (C) 2025-2026 Kraklabs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

package migration

import "errors"

// Failure kinds per §4.E. TransportError is not a sentinel here: it
// covers network/IO failures surfaced directly by the caller's Export
// or Import calls (e.g. a Neo4jBackend connection drop), which already
// propagate as *model.Error via wrapBackendErr and need no extra
// wrapping.
var (
	ErrVerificationFailed     = errors.New("migration verification failed")
	ErrImportValidationFailed = errors.New("import validation failed")
)
