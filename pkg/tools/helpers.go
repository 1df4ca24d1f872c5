// Copyright (C) 2025-2026 Kraklabs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

package tools

import (
	"fmt"
	"time"
)

// GetStringArg extracts a string argument from the args map, returning defaultVal if missing.
func GetStringArg(args map[string]any, key, defaultVal string) string {
	v, ok := args[key]
	if !ok || v == nil {
		return defaultVal
	}
	s, ok := v.(string)
	if !ok {
		return defaultVal
	}
	return s
}

// GetFloat64Arg extracts a float64 argument from the args map, returning defaultVal if missing.
func GetFloat64Arg(args map[string]any, key string, defaultVal float64) float64 {
	v, ok := args[key]
	if !ok || v == nil {
		return defaultVal
	}
	switch val := v.(type) {
	case float64:
		return val
	case int:
		return float64(val)
	case int64:
		return float64(val)
	default:
		return defaultVal
	}
}

// GetFloat64PtrArg extracts an optional float64 argument, returning nil
// when absent so callers can distinguish "not supplied" from "supplied
// as zero" (needed for importance/confidence/strength filters whose
// zero value is meaningful).
func GetFloat64PtrArg(args map[string]any, key string) *float64 {
	v, ok := args[key]
	if !ok || v == nil {
		return nil
	}
	f := GetFloat64Arg(args, key, 0)
	return &f
}

// GetIntArg extracts an int argument from the args map, returning defaultVal if missing.
func GetIntArg(args map[string]any, key string, defaultVal int) int {
	v, ok := args[key]
	if !ok || v == nil {
		return defaultVal
	}
	switch val := v.(type) {
	case float64:
		return int(val)
	case int:
		return val
	case int64:
		return int(val)
	default:
		return defaultVal
	}
}

// GetBoolArg extracts a bool argument from the args map, returning defaultVal if missing.
func GetBoolArg(args map[string]any, key string, defaultVal bool) bool {
	v, ok := args[key]
	if !ok || v == nil {
		return defaultVal
	}
	b, ok := v.(bool)
	if !ok {
		return defaultVal
	}
	return b
}

// GetStringSliceArg extracts a string slice argument from the args map.
func GetStringSliceArg(args map[string]any, key string, defaultVal []string) []string {
	v, ok := args[key]
	if !ok || v == nil {
		return defaultVal
	}
	switch val := v.(type) {
	case []any:
		result := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := item.(string); ok {
				result = append(result, s)
			}
		}
		if len(result) == 0 {
			return defaultVal
		}
		return result
	case []string:
		if len(val) == 0 {
			return defaultVal
		}
		return val
	default:
		return defaultVal
	}
}

// GetTimeArg parses an ISO-8601 UTC timestamp argument. ok is false
// only when the key is present but unparsable; a missing key returns
// (nil, true).
func GetTimeArg(args map[string]any, key string) (t *time.Time, ok bool) {
	s := GetStringArg(args, key, "")
	if s == "" {
		return nil, true
	}
	parsed, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, false
	}
	parsed = parsed.UTC()
	return &parsed, true
}

// Truncate truncates a string to the specified length.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// FormatRows formats a generic tabular Cypher passthrough result for
// display (§4.C's RunCypher debugging hook).
func FormatRows(rows [][]any) string {
	if len(rows) == 0 {
		return "No results"
	}
	var out string
	for i, row := range rows {
		if i >= 20 {
			out += fmt.Sprintf("... and %d more\n", len(rows)-20)
			break
		}
		out += fmt.Sprintf("%v\n", row)
	}
	return out
}
