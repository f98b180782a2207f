package tabs

import "strings"

type MatchOptions struct {
	// Domain also matches the query against the entry's domain.
	Domain bool
}

// Filter returns the entries whose title or URL contains query, ignoring
// case. An empty query returns a copy of all entries.
func Filter(entries []Entry, query string, opts MatchOptions) []Entry {
	query = strings.ToLower(query)
	if query == "" {
		return append([]Entry(nil), entries...)
	}
	out := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		if Matches(entry, query, opts) {
			out = append(out, entry)
		}
	}
	return out
}

// Matches expects query to be lower-cased already.
func Matches(entry Entry, query string, opts MatchOptions) bool {
	if query == "" {
		return true
	}
	if strings.Contains(strings.ToLower(entry.Title), query) {
		return true
	}
	if strings.Contains(strings.ToLower(entry.URL), query) {
		return true
	}
	return opts.Domain && strings.Contains(strings.ToLower(entry.Domain), query)
}
