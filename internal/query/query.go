// Package query implements the list contract shared by every resource:
// optional field projection, limit/skip paging and a "field:asc|desc" sort
// selector, defaulting to newest-first.
package query

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
)

// ListParams are the uniform list-endpoint parameters.
type ListParams struct {
	Fields   []string
	Limit    int
	Skip     int
	SortBy   string // JSON field name, not a column
	SortDesc bool
}

// Parse reads the uniform parameters out of a request's query string.
// Malformed numbers and unknown sort directions fall back to the defaults.
func Parse(q url.Values) ListParams {
	p := ListParams{SortBy: "createdAt", SortDesc: true}

	if raw := q.Get("fields"); raw != "" {
		for _, f := range strings.Split(raw, ",") {
			if f = strings.TrimSpace(f); f != "" {
				p.Fields = append(p.Fields, f)
			}
		}
	}

	if n, err := strconv.Atoi(q.Get("limit")); err == nil && n > 0 {
		p.Limit = n
	}
	if n, err := strconv.Atoi(q.Get("skip")); err == nil && n > 0 {
		p.Skip = n
	}

	if raw := q.Get("sortBy"); raw != "" {
		parts := strings.SplitN(raw, ":", 2)
		if len(parts) == 2 {
			switch strings.ToLower(parts[1]) {
			case "asc":
				p.SortBy, p.SortDesc = parts[0], false
			case "desc":
				p.SortBy, p.SortDesc = parts[0], true
			}
		}
	}

	return p
}

// Project narrows a record to the requested fields, working over its JSON
// encoding so handler response shapes and projections can't drift apart.
// The record id is always kept. With no fields requested the record passes
// through untouched.
func Project(record any, fields []string) any {
	if len(fields) == 0 {
		return record
	}

	raw, err := json.Marshal(record)
	if err != nil {
		return record
	}

	var full map[string]any
	if err := json.Unmarshal(raw, &full); err != nil {
		return record
	}

	keep := map[string]struct{}{"_id": {}}
	for _, f := range fields {
		keep[f] = struct{}{}
	}

	out := make(map[string]any, len(keep))
	for k, v := range full {
		if _, ok := keep[k]; ok {
			out[k] = v
		}
	}
	return out
}

// ProjectSlice applies Project to every element, always yielding a non-nil
// slice so empty lists encode as [] rather than null.
func ProjectSlice[T any](records []T, fields []string) []any {
	out := make([]any, 0, len(records))
	for _, r := range records {
		out = append(out, Project(r, fields))
	}
	return out
}
