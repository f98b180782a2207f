package state

import (
	"github.com/glabrego/onetab-cli/internal/tabs"
)

func ClampCursor(cursor, size int) int {
	if size <= 0 {
		return 0
	}
	if cursor >= size {
		return size - 1
	}
	if cursor < 0 {
		return 0
	}
	return cursor
}

// PageStep is the number of list rows that fit below the chrome.
func PageStep(height int, hasStatus bool) int {
	if height <= 0 {
		return 10
	}
	headerLines := 6
	if hasStatus {
		headerLines += 2
	}
	step := height - headerLines
	if step < 3 {
		step = 3
	}
	return step
}

func CenteredWindow(totalRows, cursor, height int) (int, int) {
	if totalRows <= 0 {
		return 0, 0
	}
	if height <= 0 || totalRows <= height {
		return 0, totalRows
	}
	cursor = ClampCursor(cursor, totalRows)
	start := cursor - height/2
	if start < 0 {
		start = 0
	}
	maxStart := totalRows - height
	if start > maxStart {
		start = maxStart
	}
	return start, start + height
}

func IndexByID(entries []tabs.Entry, entryID int64) int {
	for i, entry := range entries {
		if entry.ID == entryID {
			return i
		}
	}
	return -1
}

// SelectedIDs returns the IDs of entries that are both visible and
// selected, in view order.
func SelectedIDs(entries []tabs.Entry, selected map[int64]bool) []int64 {
	out := make([]int64, 0, len(selected))
	for _, entry := range entries {
		if selected[entry.ID] {
			out = append(out, entry.ID)
		}
	}
	return out
}

// PruneSelection drops selections whose entry is no longer visible.
func PruneSelection(entries []tabs.Entry, selected map[int64]bool) {
	visible := make(map[int64]struct{}, len(entries))
	for _, entry := range entries {
		visible[entry.ID] = struct{}{}
	}
	for id := range selected {
		if _, ok := visible[id]; !ok {
			delete(selected, id)
		}
	}
}
