package tabs

import (
	"fmt"
	"sort"
)

type SortKey string

const (
	SortByTitle  SortKey = "title"
	SortByDomain SortKey = "domain"
	SortByURL    SortKey = "url"
)

func ParseSortKey(raw string) (SortKey, error) {
	switch key := SortKey(raw); key {
	case SortByTitle, SortByDomain, SortByURL:
		return key, nil
	default:
		return "", fmt.Errorf("sort key must be title, domain or url: %s", raw)
	}
}

func (k SortKey) value(e Entry) string {
	switch k {
	case SortByDomain:
		return e.Domain
	case SortByURL:
		return e.URL
	default:
		return e.Title
	}
}

// Sort orders entries in place by key. It is stable in both directions:
// entries with equal keys keep their relative order.
func Sort(entries []Entry, key SortKey, descending bool) {
	sort.SliceStable(entries, func(i, j int) bool {
		vi := key.value(entries[i])
		vj := key.value(entries[j])
		if descending {
			return vi > vj
		}
		return vi < vj
	})
}
