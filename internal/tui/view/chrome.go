package view

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	tuitheme "github.com/glabrego/onetab-cli/internal/tui/theme"
)

func Toolbar(searching bool) string {
	if searching {
		return "type to filter | enter: keep query | esc: leave search | ctrl+l: clear"
	}
	return "j/k move | / search | space select | x delete | t/d/u sort | w save | e export | o open | ? help | q quit"
}

// InfoLine shows dataset counts as "Total: N tabs | Filtered: M tabs |
// Selected: K tabs".
func InfoLine(total, filtered, selected int) string {
	return fmt.Sprintf("Total: %d tabs | Filtered: %d tabs | Selected: %d tabs", total, filtered, selected)
}

func CompactFooter(file, sortLabel string, matchDomain, numbers bool, th tuitheme.Theme) string {
	if file == "" {
		file = "(none)"
	}
	if sortLabel == "" {
		sortLabel = "file order"
	}
	parts := []string{
		th.MetaLabel.Render("file") + " " + th.MetaValue.Render(file),
		th.MetaLabel.Render("sort") + " " + th.MetaValue.Render(sortLabel),
		th.MetaLabel.Render("domain match") + " " + th.MetaValue.Render(onOff(matchDomain)),
		th.MetaLabel.Render("numbers") + " " + th.MetaValue.Render(onOff(numbers)),
	}
	return strings.Join(parts, " • ")
}

func CompactMessage(loading bool, hasWarning bool, status, warning string, th tuitheme.Theme) string {
	state := "idle"
	if loading {
		state = "loading"
	}
	if hasWarning {
		state = "warning"
	}
	main := "Ready"
	if status != "" {
		main = status
	} else if hasWarning {
		main = warning
	}
	stateLabel := th.StateIdle.Render("state")
	switch state {
	case "warning":
		stateLabel = th.StateWarn.Render("state")
	case "loading":
		stateLabel = th.StateLoad.Render("state")
	}
	return fmt.Sprintf("%s: %s | %s", stateLabel, state, th.MetaValue.Render(main))
}

// LoadSummary describes a finished load for the status line.
func LoadSummary(kept, lines, dupURLs, dupTitles int) string {
	return fmt.Sprintf("Loaded %s tabs from %s lines (%s duplicate URLs, %s duplicate titles removed)",
		humanize.Comma(int64(kept)), humanize.Comma(int64(lines)), humanize.Comma(int64(dupURLs)), humanize.Comma(int64(dupTitles)))
}

func HelpLines() []string {
	return []string{
		"Navigation:",
		"  j/k or arrows move, g/G jump top/bottom, pgup/pgdown jump page",
		"Search:",
		"  / edits the query (title and URL, case-insensitive), ctrl+l clears it",
		"  f also matches the domain",
		"Selection:",
		"  space toggles, A or ctrl+a selects all visible, D deselects all",
		"  x or delete removes the selected tabs after a y/n confirmation",
		"Sorting:",
		"  t title, d domain, u url; pressing the same key again reverses",
		"Files:",
		"  w saves the next numbered version, e exports JSON next to the file",
		"Tabs:",
		"  o opens the URL (copies it if no browser), y copies the URL",
		"Options:",
		"  # toggles numbering",
	}
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
