package tabs

import "strings"

// LoadStats describes what happened to a file's lines on the way into a
// Dataset.
type LoadStats struct {
	Lines           int
	Parsed          int
	DuplicateURLs   int
	DuplicateTitles int
	Kept            int
}

// ParseLines parses every line of an export file. Blank lines are kept as
// empty placeholder headers so the caller sees one entry per line; the
// title pass of Normalize drops them.
func ParseLines(lines []string) []Entry {
	entries := make([]Entry, 0, len(lines))
	for _, line := range lines {
		entry, ok := ParseLine(line)
		if !ok {
			entry = Entry{Domain: UnknownDomain}
		}
		entries = append(entries, entry)
	}
	return entries
}

// Normalize runs the URL pass and then the title pass.
func Normalize(entries []Entry) ([]Entry, LoadStats) {
	stats := LoadStats{Parsed: len(entries)}
	entries, stats.DuplicateURLs = DedupeByURL(entries)
	entries, stats.DuplicateTitles = DedupeByTitle(entries)
	stats.Kept = len(entries)
	return entries, stats
}

// Dataset owns the master list of entries and the filtered view derived
// from it. The view holds entry IDs and is rebuilt after every change to
// the master list or the query. A Dataset is not safe for concurrent use.
type Dataset struct {
	master   []Entry
	index    map[int64]int
	filtered []int64
	nextID   int64
	query    string
	match    MatchOptions
}

func NewDataset() *Dataset {
	return &Dataset{index: make(map[int64]int)}
}

// Load replaces the dataset with the parsed, deduplicated lines.
func (d *Dataset) Load(lines []string) LoadStats {
	entries, stats := Normalize(ParseLines(lines))
	stats.Lines = len(lines)
	d.Replace(entries)
	return stats
}

// Replace installs entries as the new master list, assigning fresh IDs.
// The current query is kept and re-applied.
func (d *Dataset) Replace(entries []Entry) {
	d.master = make([]Entry, len(entries))
	for i, entry := range entries {
		d.nextID++
		entry.ID = d.nextID
		if entry.Domain == "" {
			entry.Domain = Domain(entry.URL)
		}
		d.master[i] = entry
	}
	d.refresh()
}

func (d *Dataset) Len() int {
	return len(d.master)
}

func (d *Dataset) FilteredLen() int {
	return len(d.filtered)
}

// Entries returns a copy of the master list in its current order.
func (d *Dataset) Entries() []Entry {
	return append([]Entry(nil), d.master...)
}

// Filtered returns the entries of the current view in master order.
func (d *Dataset) Filtered() []Entry {
	out := make([]Entry, 0, len(d.filtered))
	for _, id := range d.filtered {
		out = append(out, d.master[d.index[id]])
	}
	return out
}

func (d *Dataset) FilteredIDs() []int64 {
	return append([]int64(nil), d.filtered...)
}

func (d *Dataset) Get(id int64) (Entry, bool) {
	i, ok := d.index[id]
	if !ok {
		return Entry{}, false
	}
	return d.master[i], true
}

func (d *Dataset) Query() string {
	return d.query
}

func (d *Dataset) MatchOptions() MatchOptions {
	return d.match
}

// Search sets the query and rebuilds the view.
func (d *Dataset) Search(query string) {
	d.query = query
	d.refresh()
}

func (d *Dataset) SetMatchOptions(opts MatchOptions) {
	d.match = opts
	d.refresh()
}

// Sort reorders the master list and rebuilds the view, so the view follows
// the new order immediately.
func (d *Dataset) Sort(key SortKey, descending bool) {
	Sort(d.master, key, descending)
	d.refresh()
}

// Delete removes the entries with the given IDs and returns how many were
// found.
func (d *Dataset) Delete(ids ...int64) int {
	drop := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := d.index[id]; ok {
			drop[id] = struct{}{}
		}
	}
	if len(drop) == 0 {
		return 0
	}
	return d.DeleteMatching(func(e Entry) bool {
		_, ok := drop[e.ID]
		return ok
	})
}

func (d *Dataset) DeleteMatching(match func(Entry) bool) int {
	kept := d.master[:0]
	removed := 0
	for _, entry := range d.master {
		if match(entry) {
			removed++
			continue
		}
		kept = append(kept, entry)
	}
	d.master = kept
	if removed > 0 {
		d.refresh()
	}
	return removed
}

func (d *Dataset) refresh() {
	d.index = make(map[int64]int, len(d.master))
	for i, entry := range d.master {
		d.index[entry.ID] = i
	}

	query := strings.ToLower(d.query)
	d.filtered = make([]int64, 0, len(d.master))
	for _, entry := range d.master {
		if Matches(entry, query, d.match) {
			d.filtered = append(d.filtered, entry.ID)
		}
	}
}
