package tui

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/glabrego/onetab-cli/internal/tabs"
	"github.com/glabrego/onetab-cli/internal/tui/actions"
	"github.com/glabrego/onetab-cli/internal/tui/platform"
	"github.com/glabrego/onetab-cli/internal/tui/state"
	tuitheme "github.com/glabrego/onetab-cli/internal/tui/theme"
	"github.com/glabrego/onetab-cli/internal/tui/view"
)

type Service interface {
	actions.Service
	Total() int
	Filtered() []tabs.Entry
	Query() string
	Search(query string) []tabs.Entry
	MatchDomain() bool
	SetMatchDomain(on bool)
	Sort(key tabs.SortKey, descending bool)
	Delete(ids ...int64) int
	CurrentPath() string
}

type clearStatusMsg struct {
	id int
}

type preferenceSaveErrorMsg struct {
	err error
}

type Preferences struct {
	ShowNumbers bool
	MatchDomain bool
	SortKey     string
	SortDesc    bool
}

// Model renders the filtered view of the service's dataset. While a file
// command is running (loading is set) keys that change the dataset are
// ignored, and View only reads the model's own copies (entries, filePath,
// matchDomain), so the service is only used from one goroutine at a time.
type Model struct {
	service           Service
	initialPath       string
	loadTimeout       time.Duration
	entries           []tabs.Entry
	total             int
	cursor            int
	selected          map[int64]bool
	pendingDelete     []int64
	search            textinput.Model
	searching         bool
	sortKey           tabs.SortKey
	sortDesc          bool
	showNumbers       bool
	showHelp          bool
	width             int
	height            int
	loading           bool
	filePath          string
	matchDomain       bool
	status            string
	statusID          int
	err               error
	openURLFn         func(string) error
	copyURLFn         func(string) error
	savePreferencesFn func(Preferences) error
	theme             tuitheme.Theme
}

func NewModel(service Service, path string) Model {
	search := textinput.New()
	search.Prompt = "Search: "
	search.Placeholder = "title or URL"
	search.CharLimit = 256

	m := Model{
		service:     service,
		initialPath: path,
		selected:    make(map[int64]bool),
		search:      search,
		openURLFn:   platform.OpenURLInBrowser,
		copyURLFn:   platform.CopyURLToClipboard,
		theme:       tuitheme.Default(),
	}
	if service != nil {
		m.search.SetValue(service.Query())
		m.filePath = service.CurrentPath()
		m.matchDomain = service.MatchDomain()
		m.refreshView()
		if path != "" {
			m.loading = true
		}
	}
	return m
}

func (m Model) Init() tea.Cmd {
	if m.service == nil || m.initialPath == "" {
		return nil
	}
	return actions.LoadCmd(m.service, m.initialPath, m.loadTimeout)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.search.Width = max(10, msg.Width-len(m.search.Prompt)-2)
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case actions.LoadSuccessMsg:
		m.loading = false
		m.err = nil
		m.filePath = msg.Path
		m.selected = make(map[int64]bool)
		if m.sortKey != "" {
			m.service.Sort(m.sortKey, m.sortDesc)
		}
		m.refreshView()
		m.cursor = 0
		s := msg.Stats
		return m.setStatus(view.LoadSummary(s.Kept, s.Lines, s.DuplicateURLs, s.DuplicateTitles), 6*time.Second)
	case actions.LoadErrorMsg:
		m.loading = false
		m.status = ""
		m.err = msg.Err
		return m, nil
	case actions.SaveSuccessMsg:
		m.loading = false
		m.err = nil
		return m.setStatus(fmt.Sprintf("Saved %d tabs to %s", m.total, filepath.Base(msg.Path)), 4*time.Second)
	case actions.SaveErrorMsg:
		m.loading = false
		m.status = ""
		m.err = msg.Err
		return m, nil
	case actions.ExportSuccessMsg:
		m.loading = false
		m.err = nil
		return m.setStatus(fmt.Sprintf("Exported %d tabs to %s", m.total, filepath.Base(msg.Path)), 4*time.Second)
	case actions.ExportErrorMsg:
		m.loading = false
		m.status = ""
		m.err = msg.Err
		return m, nil
	case actions.OpenURLSuccessMsg:
		m.err = nil
		return m.setStatus(msg.Status, 3*time.Second)
	case actions.OpenURLErrorMsg:
		m.err = nil
		return m.setStatus(msg.Err.Error(), 4*time.Second)
	case clearStatusMsg:
		if msg.id == m.statusID {
			m.status = ""
		}
		return m, nil
	case preferenceSaveErrorMsg:
		m.err = msg.err
		m.status = "Could not persist UI preferences"
		return m, nil
	}

	if m.searching {
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return m, tea.Quit
	}

	if m.pendingDelete != nil {
		return m.resolveDelete(key == "y" || key == "Y")
	}

	if m.searching {
		return m.handleSearchKey(msg)
	}

	if key == "?" {
		m.showHelp = !m.showHelp
		return m, nil
	}
	if m.showHelp {
		switch key {
		case "esc":
			m.showHelp = false
		case "q":
			return m, tea.Quit
		}
		return m, nil
	}

	switch key {
	case "q":
		return m, tea.Quit
	case "up", "k":
		m.moveCursorBy(-1)
	case "down", "j":
		m.moveCursorBy(1)
	case "pgup", "ctrl+b":
		m.moveCursorBy(-m.listPageStep())
	case "pgdown", "ctrl+f":
		m.moveCursorBy(m.listPageStep())
	case "g", "home":
		m.cursor = 0
	case "G", "end":
		m.cursor = state.ClampCursor(len(m.entries)-1, len(m.entries))
	case "o":
		return m.openCurrentURL()
	case "y":
		return m.copyCurrentURL()
	case "#":
		m.showNumbers = !m.showNumbers
		m.err = nil
		m.status = "Numbering: " + onOff(m.showNumbers)
		return m, persistPreferencesCmd(m.savePreferencesFn, m.preferences())
	}

	if m.service == nil || m.loading {
		return m, nil
	}

	switch key {
	case "/":
		m.searching = true
		return m, m.search.Focus()
	case "ctrl+l":
		return m.clearSearch(), nil
	case " ", "space":
		m.toggleCurrentSelection()
	case "A", "ctrl+a":
		for _, entry := range m.entries {
			m.selected[entry.ID] = true
		}
	case "D":
		m.selected = make(map[int64]bool)
	case "x", "delete":
		return m.requestDelete()
	case "t":
		return m.sortBy(tabs.SortByTitle)
	case "d":
		return m.sortBy(tabs.SortByDomain)
	case "u":
		return m.sortBy(tabs.SortByURL)
	case "f":
		anchorID := m.anchorEntryID()
		m.matchDomain = !m.matchDomain
		m.service.SetMatchDomain(m.matchDomain)
		m.refreshView()
		m.restoreCursor(anchorID)
		m.err = nil
		m.status = "Domain matching: " + onOff(m.matchDomain)
		return m, persistPreferencesCmd(m.savePreferencesFn, m.preferences())
	case "w":
		m.loading = true
		m.status = ""
		m.err = nil
		return m, actions.SaveVersionedCmd(m.service)
	case "e":
		path := exportPath(m.filePath)
		if path == "" {
			m.status = ""
			m.err = errors.New("no current file to export next to")
			return m, nil
		}
		m.loading = true
		m.status = ""
		m.err = nil
		return m, actions.ExportJSONCmd(m.service, path)
	}
	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter":
		m.searching = false
		m.search.Blur()
		return m, nil
	case "ctrl+l":
		return m.clearSearch(), nil
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() != before {
		anchorID := m.anchorEntryID()
		m.service.Search(m.search.Value())
		m.refreshView()
		m.restoreCursor(anchorID)
	}
	return m, cmd
}

func (m Model) clearSearch() Model {
	anchorID := m.anchorEntryID()
	m.search.SetValue("")
	m.service.Search("")
	m.refreshView()
	m.restoreCursor(anchorID)
	return m
}

func (m Model) sortBy(key tabs.SortKey) (tea.Model, tea.Cmd) {
	descending := false
	if m.sortKey == key {
		descending = !m.sortDesc
	}
	anchorID := m.anchorEntryID()
	m.service.Sort(key, descending)
	m.sortKey = key
	m.sortDesc = descending
	m.refreshView()
	m.restoreCursor(anchorID)
	m.err = nil
	m.status = "Sorted by " + m.sortLabel()
	return m, persistPreferencesCmd(m.savePreferencesFn, m.preferences())
}

func (m Model) requestDelete() (tea.Model, tea.Cmd) {
	ids := state.SelectedIDs(m.entries, m.selected)
	if len(ids) == 0 {
		m.err = nil
		return m.setStatus("No tabs selected for deletion", 3*time.Second)
	}
	m.pendingDelete = ids
	m.err = nil
	m.status = fmt.Sprintf("Delete %d selected tabs? (y/n)", len(ids))
	return m, nil
}

func (m Model) resolveDelete(confirmed bool) (tea.Model, tea.Cmd) {
	ids := m.pendingDelete
	m.pendingDelete = nil
	if !confirmed {
		return m.setStatus("Deletion cancelled", 3*time.Second)
	}
	removed := m.service.Delete(ids...)
	for _, id := range ids {
		delete(m.selected, id)
	}
	m.refreshView()
	m.cursor = state.ClampCursor(m.cursor, len(m.entries))
	return m.setStatus(fmt.Sprintf("Deleted %d tabs", removed), 4*time.Second)
}

func (m Model) openCurrentURL() (tea.Model, tea.Cmd) {
	entry, ok := m.currentEntry()
	if !ok {
		return m, nil
	}
	url, err := platform.ValidateEntryURL(entry.URL)
	if err != nil {
		m.err = nil
		return m.setStatus(err.Error(), 3*time.Second)
	}
	return m, actions.OpenURLCmd(url, m.openURLFn, m.copyURLFn)
}

func (m Model) copyCurrentURL() (tea.Model, tea.Cmd) {
	entry, ok := m.currentEntry()
	if !ok {
		return m, nil
	}
	if !entry.HasURL() {
		m.err = nil
		return m.setStatus("entry has no URL", 3*time.Second)
	}
	return m, actions.CopyURLCmd(entry.URL, m.copyURLFn)
}

func (m Model) setStatus(status string, after time.Duration) (tea.Model, tea.Cmd) {
	m.status = status
	m.statusID++
	return m, clearStatusCmd(m.statusID, after)
}

func (m *Model) toggleCurrentSelection() {
	entry, ok := m.currentEntry()
	if !ok {
		return
	}
	if m.selected[entry.ID] {
		delete(m.selected, entry.ID)
	} else {
		m.selected[entry.ID] = true
	}
	m.moveCursorBy(1)
}

func (m *Model) refreshView() {
	m.entries = m.service.Filtered()
	m.total = m.service.Total()
	state.PruneSelection(m.entries, m.selected)
	m.cursor = state.ClampCursor(m.cursor, len(m.entries))
}

func (m Model) currentEntry() (tabs.Entry, bool) {
	if len(m.entries) == 0 {
		return tabs.Entry{}, false
	}
	return m.entries[state.ClampCursor(m.cursor, len(m.entries))], true
}

func (m Model) anchorEntryID() int64 {
	entry, ok := m.currentEntry()
	if !ok {
		return 0
	}
	return entry.ID
}

func (m *Model) restoreCursor(anchorID int64) {
	if idx := state.IndexByID(m.entries, anchorID); idx >= 0 {
		m.cursor = idx
		return
	}
	m.cursor = state.ClampCursor(m.cursor, len(m.entries))
}

func (m *Model) moveCursorBy(delta int) {
	m.cursor = state.ClampCursor(m.cursor+delta, len(m.entries))
}

func (m Model) listPageStep() int {
	return state.PageStep(m.height, m.status != "" || m.err != nil)
}

func (m Model) listHeight() int {
	if m.height <= 0 {
		return 0
	}
	return state.PageStep(m.height, true) - 2
}

func (m Model) contentWidth() int {
	if m.width <= 0 {
		return 80
	}
	return m.width
}

func (m Model) sortLabel() string {
	if m.sortKey == "" {
		return ""
	}
	if m.sortDesc {
		return string(m.sortKey) + " desc"
	}
	return string(m.sortKey) + " asc"
}

func (m Model) mode() string {
	switch {
	case m.pendingDelete != nil:
		return "confirm"
	case m.searching:
		return "search"
	case m.showHelp:
		return "help"
	}
	return "list"
}

func (m Model) View() string {
	th := m.theme
	var b strings.Builder
	b.WriteString(th.Title.Render("OneTab Manager"))
	b.WriteString(" ")
	b.WriteString(th.ModePill.Render(m.mode()))
	b.WriteString("\n")

	if m.showHelp {
		b.WriteString("Help (? to close)\n\n")
		b.WriteString(strings.Join(view.HelpLines(), "\n"))
		b.WriteString("\n\n")
		b.WriteString(m.messagePanel())
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(view.Toolbar(m.searching))
	b.WriteString("\n")
	b.WriteString(m.search.View())
	b.WriteString("\n\n")

	switch {
	case m.loading && m.total == 0:
		b.WriteString("Loading tabs...\n")
	case m.total == 0:
		b.WriteString("No data loaded.\n")
	case len(m.entries) == 0:
		b.WriteString("No tabs match the search.\n")
	default:
		start, end := state.CenteredWindow(len(m.entries), m.cursor, m.listHeight())
		for i := start; i < end; i++ {
			entry := m.entries[i]
			b.WriteString(view.RenderEntryLine(view.EntryLineParams{
				Entry:       entry,
				ShowNumbers: m.showNumbers,
				VisiblePos:  i,
				Active:      i == m.cursor,
				Selected:    m.selected[entry.ID],
				Width:       m.contentWidth(),
			}, th))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(view.InfoLine(m.total, len(m.entries), len(state.SelectedIDs(m.entries, m.selected))))
	b.WriteString("\n")
	b.WriteString(m.messagePanel())
	b.WriteString("\n")
	return b.String()
}

func (m Model) messagePanel() string {
	warning := ""
	if m.err != nil {
		warning = m.err.Error()
	}
	path := ""
	if m.filePath != "" {
		path = filepath.Base(m.filePath)
	}
	return view.CompactMessage(m.loading, m.err != nil, m.status, warning, m.theme) + "\n" +
		view.CompactFooter(path, m.sortLabel(), m.matchDomain, m.showNumbers, m.theme)
}

func (m *Model) ApplyPreferences(prefs Preferences) {
	m.showNumbers = prefs.ShowNumbers
	if key, err := tabs.ParseSortKey(prefs.SortKey); err == nil {
		m.sortKey = key
		m.sortDesc = prefs.SortDesc
	}
	m.matchDomain = prefs.MatchDomain
	if m.service != nil {
		m.service.SetMatchDomain(prefs.MatchDomain)
		m.refreshView()
	}
}

func (m *Model) SetPreferencesSaver(saveFn func(Preferences) error) {
	m.savePreferencesFn = saveFn
}

func (m *Model) SetLoadTimeout(timeout time.Duration) {
	m.loadTimeout = timeout
}

func (m Model) preferences() Preferences {
	return Preferences{
		ShowNumbers: m.showNumbers,
		MatchDomain: m.matchDomain,
		SortKey:     string(m.sortKey),
		SortDesc:    m.sortDesc,
	}
}

func clearStatusCmd(id int, after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return clearStatusMsg{id: id}
	})
}

func persistPreferencesCmd(saveFn func(Preferences) error, prefs Preferences) tea.Cmd {
	if saveFn == nil {
		return nil
	}
	return func() tea.Msg {
		if err := saveFn(prefs); err != nil {
			return preferenceSaveErrorMsg{err: err}
		}
		return nil
	}
}

func exportPath(current string) string {
	if current == "" {
		return ""
	}
	return strings.TrimSuffix(current, filepath.Ext(current)) + ".json"
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
