package view

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/glabrego/onetab-cli/internal/tabs"
	tuitheme "github.com/glabrego/onetab-cli/internal/tui/theme"
)

var reANSICodes = regexp.MustCompile(`\x1b\[[0-9;]*m`)

type EntryLineParams struct {
	Entry       tabs.Entry
	ShowNumbers bool
	VisiblePos  int
	Active      bool
	Selected    bool
	Width       int
}

// RenderEntryLine draws one row: markers, optional number, title on the
// left and the domain on the right edge. Headers have no domain column.
func RenderEntryLine(p EntryLineParams, th tuitheme.Theme) string {
	cursorMarker := " "
	if p.Active {
		cursorMarker = ">"
	}
	selectedMarker := " "
	if p.Selected {
		selectedMarker = th.Selected.Render("*")
	}

	prefix := fmt.Sprintf(" %s%s ", cursorMarker, selectedMarker)
	if p.ShowNumbers {
		prefix = fmt.Sprintf(" %s%s%3d. ", cursorMarker, selectedMarker, p.VisiblePos+1)
	}

	domainLabel := ""
	if !p.Entry.IsHeader() {
		domainLabel = "[" + p.Entry.Domain + "]"
	}
	available := p.Width - visibleLen(prefix) - 1 - visibleLen(domainLabel)
	if available < 1 {
		available = 1
	}

	label := EntryLabel(p.Entry)
	label = truncateRunes(label, available)
	styledTitle := th.StyleEntryTitle(p.Entry, label)
	if domainLabel == "" {
		return th.RenderActiveLine(p.Active, prefix+styledTitle)
	}
	gap := p.Width - visibleLen(prefix) - visibleLen(label) - visibleLen(domainLabel)
	if gap < 1 {
		gap = 1
	}
	return th.RenderActiveLine(p.Active, prefix+styledTitle+strings.Repeat(" ", gap)+th.Domain.Render(domainLabel))
}

func EntryLabel(entry tabs.Entry) string {
	title := strings.TrimSpace(entry.Title)
	if title == "" {
		title = "(untitled)"
	}
	if entry.IsHeader() {
		return "== " + title + " =="
	}
	return title
}

func truncateRunes(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return strings.Repeat(".", maxLen)
	}
	runes := []rune(s)
	return string(runes[:maxLen-3]) + "..."
}

func visibleLen(s string) int {
	return utf8.RuneCountInString(stripANSIText(s))
}

func stripANSIText(s string) string {
	return reANSICodes.ReplaceAllString(s, "")
}
