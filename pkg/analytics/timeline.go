// Copyright (C) 2025-2026 Kraklabs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

package analytics

import (
	"context"
	"sort"

	"github.com/kraklabs/memorygraph/pkg/model"
	"github.com/kraklabs/memorygraph/pkg/storage"
)

// TrackEntityTimeline implements §4.H's track_entity_timeline: every
// memory whose title, content, summary, tags, context technologies or
// context files involved mention entity, ordered by created_at
// ascending.
func (a *Analytics) TrackEntityTimeline(ctx context.Context, entity string) ([]*model.Memory, error) {
	memories, err := a.backend.ListMemories(ctx, storage.MemoryFilter{})
	if err != nil {
		return nil, err
	}

	var matched []*model.Memory
	for _, m := range memories {
		if mentionsEntity(m, entity) {
			matched = append(matched, m)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].CreatedAt.Before(matched[j].CreatedAt) })
	return matched, nil
}

func mentionsEntity(m *model.Memory, entity string) bool {
	if contains(m.Title, entity) || contains(m.Content, entity) || contains(m.Summary, entity) {
		return true
	}
	for _, t := range m.Tags {
		if contains(t, entity) {
			return true
		}
	}
	for _, t := range m.Context.Technologies {
		if contains(t, entity) {
			return true
		}
	}
	for _, f := range m.Context.FilesInvolved {
		if contains(f, entity) {
			return true
		}
	}
	return false
}
