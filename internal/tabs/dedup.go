package tabs

// DedupeByURL drops every entry whose URL appears again later in the list,
// so the most recent occurrence wins. Entries without a URL are always kept.
// Survivors keep their relative order.
func DedupeByURL(entries []Entry) ([]Entry, int) {
	seen := make(map[string]struct{}, len(entries))
	keep := make([]bool, len(entries))
	removed := 0
	for i := len(entries) - 1; i >= 0; i-- {
		rawURL := entries[i].URL
		if rawURL == "" {
			keep[i] = true
			continue
		}
		if _, ok := seen[rawURL]; ok {
			removed++
			continue
		}
		seen[rawURL] = struct{}{}
		keep[i] = true
	}

	out := make([]Entry, 0, len(entries)-removed)
	for i, entry := range entries {
		if keep[i] {
			out = append(out, entry)
		}
	}
	return out, removed
}

// DedupeByTitle keeps the first entry for each title. Entries with an empty
// title are removed even when unique.
func DedupeByTitle(entries []Entry) ([]Entry, int) {
	seen := make(map[string]struct{}, len(entries))
	out := make([]Entry, 0, len(entries))
	removed := 0
	for _, entry := range entries {
		if entry.Title == "" {
			removed++
			continue
		}
		if _, ok := seen[entry.Title]; ok {
			removed++
			continue
		}
		seen[entry.Title] = struct{}{}
		out = append(out, entry)
	}
	return out, removed
}
