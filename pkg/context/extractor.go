// Copyright (C) 2025-2026 Kraklabs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

// Package context implements the free-text relationship context
// extractor (§4.B of the specification): a pure, total, lexical
// function over the `context` string a create_relationship call
// supplies, producing the structured record stored verbatim in
// Relationship.Properties.ContextJSON.
package context

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/kraklabs/memorygraph/pkg/model"
)

var (
	scopePartial     = regexp.MustCompile(`(?i)\bpartial(?:ly)?\b`)
	scopeFull        = regexp.MustCompile(`(?i)\b(?:fully|full|completely|complete)\b`)
	scopeConditional = regexp.MustCompile(`(?i)\bconditional(?:ly)?\b`)
	scopeLimited     = regexp.MustCompile(`(?i)\blimited(?: to)?\b`)

	componentPattern = regexp.MustCompile(`(?i)\b(?:implements?|affects?|covers?|applies to|touches)\s+([a-zA-Z0-9_/\.\- ]+?)(?:[,;.]|$|\s+(?:only|but|except|verified|confirmed|tested|validated))`)
	conditionPattern = regexp.MustCompile(`(?i)\bonly\s+(?:works?\s+)?(?:in|when|if)\s+([a-zA-Z0-9_/\.\- ]+?)(?:[,;.]|$)`)
	evidencePattern  = regexp.MustCompile(`(?i)\b(?:verified|confirmed|tested|validated)\s+by\s+([a-zA-Z0-9_/\.\- ]+?)(?:[,;.]|$)`)
	exceptionPattern = regexp.MustCompile(`(?i)\b(?:except|excluding|but not)\s+([a-zA-Z0-9_/\.\- ]+?)(?:[,;.]|$)`)
	temporalPattern  = regexp.MustCompile(`(?i)\b(?:v\d+(?:\.\d+){1,2}|\d{4}-\d{2}-\d{2}|since\s+\d{4})\b`)
)

// Extract is total: it never returns an error, and an empty or blank
// input yields a record with Text="" and every slice empty / Temporal
// nil. If text is itself the JSON serialization of an ExtractedContext
// (the caller re-submitting an already-structured value), Extract is
// idempotent and returns it unchanged.
func Extract(text string) *model.ExtractedContext {
	if strings.TrimSpace(text) == "" {
		return &model.ExtractedContext{
			Components: []string{}, Conditions: []string{}, Evidence: []string{}, Exceptions: []string{},
		}
	}

	if structured, ok := tryParseStructured(text); ok {
		return structured
	}

	out := &model.ExtractedContext{
		Text:       text,
		Components: matchAll(componentPattern, text),
		Conditions: matchAll(conditionPattern, text),
		Evidence:   matchAll(evidencePattern, text),
		Exceptions: matchAll(exceptionPattern, text),
	}

	switch {
	case scopePartial.MatchString(text):
		out.Scope = "partial"
	case scopeConditional.MatchString(text):
		out.Scope = "conditional"
	case scopeLimited.MatchString(text):
		out.Scope = "limited"
	case scopeFull.MatchString(text):
		out.Scope = "full"
	}

	if m := temporalPattern.FindString(text); m != "" {
		t := m
		out.Temporal = &t
	}

	return out
}

// tryParseStructured reports whether text parses as JSON into the
// ExtractedContext shape, making Extract idempotent on re-submission.
func tryParseStructured(text string) (*model.ExtractedContext, bool) {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "{") {
		return nil, false
	}
	var candidate model.ExtractedContext
	if err := json.Unmarshal([]byte(trimmed), &candidate); err != nil {
		return nil, false
	}
	if candidate.Components == nil {
		candidate.Components = []string{}
	}
	if candidate.Conditions == nil {
		candidate.Conditions = []string{}
	}
	if candidate.Evidence == nil {
		candidate.Evidence = []string{}
	}
	if candidate.Exceptions == nil {
		candidate.Exceptions = []string{}
	}
	return &candidate, true
}

func matchAll(re *regexp.Regexp, text string) []string {
	matches := re.FindAllStringSubmatch(text, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		if len(m) > 1 {
			out = append(out, strings.TrimSpace(m[1]))
		}
	}
	return out
}
