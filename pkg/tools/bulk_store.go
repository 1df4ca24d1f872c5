// Copyright (C) 2025-2026 Kraklabs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/kraklabs/memorygraph/pkg/graph"
	"github.com/kraklabs/memorygraph/pkg/model"
)

const maxBulkItems = 50

// BulkStoreMemories implements the bulk_store_memories handler
// (SPEC_FULL.md supplement, grounded on the teacher's BulkStore):
// pre-validates every item before writing any of them, caps the batch
// at maxBulkItems, and reports per-item ids and errors.
func BulkStoreMemories(ctx context.Context, f *graph.Facade, args map[string]any) (*ToolResult, error) {
	rawItems, ok := args["items"]
	if !ok || rawItems == nil {
		return NewError("Missing required parameter: items"), nil
	}
	itemSlice, ok := rawItems.([]any)
	if !ok || len(itemSlice) == 0 {
		return NewError("items must be a non-empty array"), nil
	}
	if len(itemSlice) > maxBulkItems {
		return NewError(fmt.Sprintf("Too many items: %d (max %d)", len(itemSlice), maxBulkItems)), nil
	}

	inputs := make([]model.MemoryInput, len(itemSlice))
	var validationErrors []string
	for i, raw := range itemSlice {
		itemArgs, ok := raw.(map[string]any)
		if !ok {
			validationErrors = append(validationErrors, fmt.Sprintf("item[%d]: not a valid object", i))
			continue
		}
		in := memoryInputFromArgs(itemArgs)
		inputs[i] = in
		if err := model.ValidateMemoryInput(in); err != nil {
			validationErrors = append(validationErrors, fmt.Sprintf("item[%d]: %v", i, err))
		}
	}
	if len(validationErrors) > 0 {
		return NewError(fmt.Sprintf("Validation failed for %d item(s). Nothing was stored.\n  %s",
			len(validationErrors), strings.Join(validationErrors, "\n  "))), nil
	}

	ids := make([]string, len(inputs))
	var storeErrors []string
	for i, in := range inputs {
		m, err := f.StoreMemory(ctx, in)
		if err != nil {
			storeErrors = append(storeErrors, fmt.Sprintf("item[%d]: %v", i, err))
			continue
		}
		ids[i] = m.ID
	}

	var out strings.Builder
	fmt.Fprintf(&out, "Stored %d of %d items\n", len(inputs)-len(storeErrors), len(inputs))
	out.WriteString("IDs:\n")
	for i, id := range ids {
		if id != "" {
			fmt.Fprintf(&out, "  [%d] %s\n", i, id)
		}
	}
	if len(storeErrors) > 0 {
		fmt.Fprintf(&out, "Errors (%d):\n  %s\n", len(storeErrors), strings.Join(storeErrors, "\n  "))
	}
	return NewResult(out.String()), nil
}
