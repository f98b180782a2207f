package tabs

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleLines() []string {
	return []string{
		"Work",
		"https://github.com/golang/go | The Go Programming Language",
		"https://pkg.go.dev/net/url | url package",
		"Reading",
		"https://news.ycombinator.com/ | Hacker News",
		"https://lobste.rs/ | Lobsters",
		"https://github.com/charmbracelet/bubbletea | Bubble Tea",
	}
}

func TestDataset_LoadAssignsIDsAndStats(t *testing.T) {
	d := NewDataset()
	stats := d.Load(append(sampleLines(), "", "https://lobste.rs/ | Lobsters again"))

	assert.Equal(t, 9, stats.Lines)
	assert.Equal(t, 9, stats.Parsed)
	assert.Equal(t, 1, stats.DuplicateURLs)
	assert.Equal(t, 1, stats.DuplicateTitles)
	assert.Equal(t, 7, stats.Kept)
	require.Equal(t, 7, d.Len())

	seen := map[int64]bool{}
	for _, e := range d.Entries() {
		assert.NotZero(t, e.ID)
		assert.False(t, seen[e.ID], "duplicate id %d", e.ID)
		seen[e.ID] = true
	}
	assert.Equal(t, "Lobsters again", d.Entries()[6].Title)
}

func TestDataset_LoadReplacesPreviousContent(t *testing.T) {
	d := NewDataset()
	d.Load(sampleLines())
	firstIDs := d.FilteredIDs()

	d.Load([]string{"https://example.com | Example"})
	require.Equal(t, 1, d.Len())
	for _, id := range firstIDs {
		_, ok := d.Get(id)
		assert.False(t, ok, "id %d survived reload", id)
	}
}

func TestDataset_SearchIsSubsetOfMaster(t *testing.T) {
	d := NewDataset()
	d.Load(sampleLines())

	for _, query := range []string{"", "github", "GO", "news", "nothing-matches", "https://"} {
		d.Search(query)
		filtered := d.Filtered()
		assert.LessOrEqual(t, len(filtered), d.Len())
		for _, e := range filtered {
			got, ok := d.Get(e.ID)
			require.True(t, ok, "query %q: id %d not in master", query, e.ID)
			assert.Equal(t, got, e)
		}
	}

	d.Search("")
	assert.Equal(t, d.Entries(), d.Filtered())
}

func TestDataset_SearchMatchesTitleAndURLCaseInsensitive(t *testing.T) {
	d := NewDataset()
	d.Load(sampleLines())

	d.Search("BUBBLE")
	assert.Equal(t, []string{"Bubble Tea"}, titles(d.Filtered()))

	d.Search("pkg.go.dev")
	assert.Equal(t, []string{"url package"}, titles(d.Filtered()))
}

func TestDataset_DomainMatchingIsOptional(t *testing.T) {
	d := NewDataset()
	d.Replace([]Entry{
		{Title: "Short link", URL: "https://t.co/abc", Domain: "twitter-shortener"},
	})

	d.Search("shortener")
	assert.Zero(t, d.FilteredLen())

	d.SetMatchOptions(MatchOptions{Domain: true})
	assert.Equal(t, 1, d.FilteredLen())
}

func TestDataset_SortRefreshesFilteredView(t *testing.T) {
	d := NewDataset()
	d.Load(sampleLines())
	d.Search("github")
	require.Equal(t, []string{"The Go Programming Language", "Bubble Tea"}, titles(d.Filtered()))

	d.Sort(SortByTitle, false)
	assert.Equal(t, []string{"Bubble Tea", "The Go Programming Language"}, titles(d.Filtered()))
}

func TestDataset_DeleteByID(t *testing.T) {
	d := NewDataset()
	d.Load(sampleLines())
	d.Search("github")
	ids := d.FilteredIDs()
	require.Len(t, ids, 2)

	removed := d.Delete(ids[0], ids[0], 9999)
	assert.Equal(t, 1, removed)
	assert.Equal(t, 6, d.Len())
	assert.Equal(t, []string{"Bubble Tea"}, titles(d.Filtered()))

	assert.Zero(t, d.Delete())
}

func TestDataset_DeleteStructurallyEqualEntriesByIdentity(t *testing.T) {
	d := NewDataset()
	d.Replace([]Entry{NewEntry("Same", ""), NewEntry("Same", "")})
	ids := d.FilteredIDs()
	require.Len(t, ids, 2)

	d.Delete(ids[1])
	remaining := d.Entries()
	require.Len(t, remaining, 1)
	assert.Equal(t, ids[0], remaining[0].ID)
}

func TestDataset_ReplaceKeepsGivenDomain(t *testing.T) {
	d := NewDataset()
	d.Replace([]Entry{
		{Title: "a", URL: "https://a.test", Domain: "custom"},
		{Title: "b", URL: "https://b.test"},
	})
	entries := d.Entries()
	assert.Equal(t, "custom", entries[0].Domain)
	assert.Equal(t, "b.test", entries[1].Domain)
}

func BenchmarkDatasetLoad(b *testing.B) {
	lines := make([]string, 0, 5000)
	for i := 0; i < 5000; i++ {
		if i%50 == 0 {
			lines = append(lines, fmt.Sprintf("Section %d", i/50))
			continue
		}
		lines = append(lines, fmt.Sprintf("https://site%02d.example.com/page/%d | Page %d", i%40, i%3000, i%3500))
	}

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		d := NewDataset()
		_ = d.Load(lines)
	}
}
