package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/glabrego/onetab-cli/internal/tabs"
)

type Theme struct {
	Title      lipgloss.Style
	ModePill   lipgloss.Style
	ActiveLine lipgloss.Style
	MetaLabel  lipgloss.Style
	MetaValue  lipgloss.Style
	StateIdle  lipgloss.Style
	StateWarn  lipgloss.Style
	StateLoad  lipgloss.Style

	TabTitle    lipgloss.Style
	HeaderTitle lipgloss.Style
	Domain      lipgloss.Style
	Selected    lipgloss.Style
}

func Default() Theme {
	cpMauve := lipgloss.Color("#cba6f7")
	cpRed := lipgloss.Color("#f38ba8")
	cpPeach := lipgloss.Color("#fab387")
	cpYellow := lipgloss.Color("#f9e2af")
	cpGreen := lipgloss.Color("#a6e3a1")
	cpTeal := lipgloss.Color("#94e2d5")
	cpLavender := lipgloss.Color("#b4befe")
	cpText := lipgloss.Color("#cdd6f4")
	cpSubtext1 := lipgloss.Color("#bac2de")
	cpOverlay1 := lipgloss.Color("#7f849c")
	cpSurface0 := lipgloss.Color("#313244")

	return Theme{
		Title:       lipgloss.NewStyle().Bold(true).Foreground(cpMauve),
		ModePill:    lipgloss.NewStyle().Foreground(cpLavender).Background(cpSurface0).Padding(0, 1),
		ActiveLine:  lipgloss.NewStyle().Background(cpSurface0).Foreground(cpText),
		MetaLabel:   lipgloss.NewStyle().Foreground(cpOverlay1),
		MetaValue:   lipgloss.NewStyle().Foreground(cpSubtext1),
		StateIdle:   lipgloss.NewStyle().Foreground(cpGreen),
		StateWarn:   lipgloss.NewStyle().Foreground(cpRed),
		StateLoad:   lipgloss.NewStyle().Foreground(cpPeach),
		TabTitle:    lipgloss.NewStyle().Foreground(cpText),
		HeaderTitle: lipgloss.NewStyle().Bold(true).Foreground(cpTeal),
		Domain:      lipgloss.NewStyle().Foreground(cpOverlay1),
		Selected:    lipgloss.NewStyle().Bold(true).Foreground(cpYellow),
	}
}

// StyleEntryTitle renders header lines differently from tabs.
func (t Theme) StyleEntryTitle(entry tabs.Entry, title string) string {
	if title == "" {
		return title
	}
	if entry.IsHeader() {
		return t.HeaderTitle.Render(title)
	}
	return t.TabTitle.Render(title)
}

func (t Theme) RenderActiveLine(active bool, line string) string {
	if !active {
		return line
	}
	return t.ActiveLine.Render(line)
}
