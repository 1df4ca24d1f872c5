// Copyright (C) 2025-2026 Kraklabs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

package graph

import (
	"context"
	"strings"

	"github.com/kraklabs/memorygraph/pkg/model"
	"github.com/kraklabs/memorygraph/pkg/storage"
)

// Search implements §4.D.1: structural filters are pushed to the
// backend, free-text matching and tolerance tokenization are applied
// here, then the page is sliced from the (already default-ordered)
// candidate set.
func (f *Facade) Search(ctx context.Context, q model.SearchQuery) (*model.PaginatedResult, error) {
	if err := model.ValidateSearchInput(&q); err != nil {
		return nil, err
	}

	candidates, err := f.backend.ListMemories(ctx, storage.MemoryFilter{
		Types: q.MemoryTypes, Tags: q.Tags, MinImportance: q.MinImportance, MaxImportance: q.MaxImportance,
		MinConfidence: q.MinConfidence, ProjectPath: q.ProjectPath, DateFrom: q.DateFrom, DateTo: q.DateTo,
		MatchMode: q.MatchMode,
	})
	if err != nil {
		return nil, wrapBackendErr(err)
	}

	var matched []*model.Memory
	for _, m := range candidates {
		if matchesQuery(m, q.Query, q.Tolerance) {
			matched = append(matched, m)
		}
	}

	total := len(matched)
	start := q.Offset
	if start > total {
		start = total
	}
	end := start + q.Limit
	if end > total {
		end = total
	}
	page := matched[start:end]
	if page == nil {
		page = []*model.Memory{}
	}
	return model.NewPaginatedResult(page, total, q.Limit, q.Offset), nil
}

func matchesQuery(m *model.Memory, query string, tolerance model.Tolerance) bool {
	if query == "" {
		return true
	}
	haystack := strings.ToLower(m.Title + " " + m.Content + " " + m.Summary)
	needle := strings.ToLower(query)

	switch tolerance {
	case model.ToleranceStrict:
		return strings.Contains(haystack, needle)
	case model.ToleranceFuzzy:
		hayTokens := strings.Fields(haystack)
		for _, qt := range strings.Fields(needle) {
			found := false
			for _, ht := range hayTokens {
				if strings.Contains(ht, qt) || levenshteinWithin(ht, qt, 1) {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
		return true
	default: // normal
		hayTokens := strings.Fields(haystack)
		for _, qt := range strings.Fields(needle) {
			found := false
			for _, ht := range hayTokens {
				if strings.Contains(ht, qt) {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
		return true
	}
}

// levenshteinWithin reports whether the edit distance between a and b
// is at most max, without computing the full distance once it's
// exceeded (§4.D.1's fuzzy tolerance: "at most one edit per token").
func levenshteinWithin(a, b string, max int) bool {
	if abs(len(a)-len(b)) > max {
		return false
	}
	prev := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr := make([]int, len(b)+1)
		curr[0] = i
		rowMin := curr[0]
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
			if curr[j] < rowMin {
				rowMin = curr[j]
			}
		}
		if rowMin > max {
			return false
		}
		prev = curr
	}
	return prev[len(b)] <= max
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
