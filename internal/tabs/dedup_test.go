package tabs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func titles(entries []Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Title)
	}
	return out
}

func TestDedupeByURL_LastOccurrenceWins(t *testing.T) {
	entries := ParseLines([]string{
		"http://x | A",
		"Section",
		"http://y | Y",
		"http://x | B",
	})

	out, removed := DedupeByURL(entries)
	assert.Equal(t, 1, removed)
	assert.Equal(t, []string{"Section", "Y", "B"}, titles(out))
}

func TestDedupeByURL_KeepsEntriesWithoutURL(t *testing.T) {
	entries := []Entry{
		NewEntry("Header", ""),
		NewEntry("Header", ""),
		NewEntry("", ""),
	}
	out, removed := DedupeByURL(entries)
	assert.Zero(t, removed)
	assert.Len(t, out, 3)
}

func TestDedupeByURL_Idempotent(t *testing.T) {
	entries := ParseLines([]string{
		"http://a | 1", "http://b | 2", "http://a | 3", "header", "http://b | 4", "http://c | 5",
	})
	once, removed := DedupeByURL(entries)
	require.Equal(t, 2, removed)

	twice, removedAgain := DedupeByURL(once)
	assert.Zero(t, removedAgain)
	assert.Equal(t, once, twice)
}

func TestDedupeByTitle_FirstOccurrenceWins(t *testing.T) {
	entries := []Entry{
		NewEntry("Home", "http://one.test"),
		NewEntry("Other", "http://other.test"),
		NewEntry("Home", "http://two.test"),
	}
	out, removed := DedupeByTitle(entries)
	assert.Equal(t, 1, removed)
	require.Len(t, out, 2)
	assert.Equal(t, "http://one.test", out[0].URL)
	assert.Equal(t, "Other", out[1].Title)
}

func TestDedupeByTitle_RemovesEmptyTitles(t *testing.T) {
	entries := []Entry{
		NewEntry("", "http://a"),
		NewEntry("Kept", "http://b"),
	}
	out, removed := DedupeByTitle(entries)
	assert.Equal(t, 1, removed)
	require.Len(t, out, 1)
	assert.Equal(t, "Kept", out[0].Title)
}

func TestNormalize_RunsURLPassBeforeTitlePass(t *testing.T) {
	// The URL pass keeps the later "Dup" entry, so the title pass sees
	// "Dup" only once alongside "Same".
	entries := ParseLines([]string{
		"http://x | Dup",
		"",
		"http://y | Same",
		"http://x | Dup",
		"http://z | Same",
	})
	out, stats := Normalize(entries)

	assert.Equal(t, 5, stats.Parsed)
	assert.Equal(t, 1, stats.DuplicateURLs)
	assert.Equal(t, 2, stats.DuplicateTitles)
	assert.Equal(t, 2, stats.Kept)
	assert.Equal(t, []string{"Same", "Dup"}, titles(out))
	assert.Equal(t, "http://y", out[0].URL)
}
