package tui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/glabrego/onetab-cli/internal/app"
	"github.com/glabrego/onetab-cli/internal/tui/actions"
)

func writeTabs(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tabs.txt")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644); err != nil {
		t.Fatalf("write tabs: %v", err)
	}
	return path
}

func loadedModel(t *testing.T, lines ...string) (Model, *app.Service) {
	t.Helper()
	svc := app.NewService(nil, nil, nil)
	if _, err := svc.Load(context.Background(), writeTabs(t, lines...)); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	m := NewModel(svc, "")
	m.openURLFn = func(string) error { return nil }
	m.copyURLFn = func(string) error { return nil }
	return m, svc
}

func keyMsg(key string) tea.KeyMsg {
	switch key {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+l":
		return tea.KeyMsg{Type: tea.KeyCtrlL}
	case "ctrl+a":
		return tea.KeyMsg{Type: tea.KeyCtrlA}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
}

func press(t *testing.T, m Model, keys ...string) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, key := range keys {
		var updated tea.Model
		updated, cmd = m.Update(keyMsg(key))
		m = updated.(Model)
	}
	return m, cmd
}

func titlesOf(m Model) []string {
	out := make([]string, 0, len(m.entries))
	for _, entry := range m.entries {
		out = append(out, entry.Title)
	}
	return out
}

func TestModelView_ShowsEntriesAndInfoLine(t *testing.T) {
	m, _ := loadedModel(t,
		"Reading list",
		"https://go.dev/blog | The Go Blog",
	)

	view := m.View()
	for _, want := range []string{
		"OneTab Manager",
		"== Reading list ==",
		"The Go Blog",
		"[go.dev]",
		"Total: 2 tabs | Filtered: 2 tabs | Selected: 0 tabs",
		">",
	} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in view, got:\n%s", want, view)
		}
	}
}

func TestModelView_NoData(t *testing.T) {
	m := NewModel(app.NewService(nil, nil, nil), "")
	if view := m.View(); !strings.Contains(view, "No data loaded.") {
		t.Fatalf("expected empty state, got:\n%s", view)
	}
}

func TestModelInit_LoadsInitialFile(t *testing.T) {
	path := writeTabs(t,
		"https://a.test | A",
		"https://a.test | A again",
		"https://b.test | B",
	)
	m := NewModel(app.NewService(nil, nil, nil), path)
	if !m.loading {
		t.Fatal("expected model to start loading")
	}

	cmd := m.Init()
	if cmd == nil {
		t.Fatal("expected load command")
	}
	updated, _ := m.Update(cmd())
	model := updated.(Model)
	if model.loading || model.total != 2 {
		t.Fatalf("unexpected state after load: loading=%v total=%d", model.loading, model.total)
	}
	if !strings.Contains(model.status, "Loaded 2 tabs from 3 lines (1 duplicate URLs") {
		t.Fatalf("unexpected load status: %q", model.status)
	}
}

func TestModelUpdate_LoadError(t *testing.T) {
	m := NewModel(app.NewService(nil, nil, nil), filepath.Join(t.TempDir(), "missing.txt"))
	updated, _ := m.Update(m.Init()())
	model := updated.(Model)
	if model.err == nil || model.loading {
		t.Fatalf("expected load error, got err=%v loading=%v", model.err, model.loading)
	}
}

func TestModelView_RendersWhileLoadRuns(t *testing.T) {
	path := writeTabs(t,
		"https://a.test | A",
		"https://b.test | B",
	)
	m := NewModel(app.NewService(nil, nil, nil), path)

	done := make(chan tea.Msg, 1)
	go func() { done <- m.Init()() }()
	for i := 0; i < 200; i++ {
		if view := m.View(); !strings.Contains(view, "Loading tabs...") {
			t.Fatalf("expected loading view, got:\n%s", view)
		}
	}

	updated, _ := m.Update(<-done)
	model := updated.(Model)
	if model.filePath != path {
		t.Fatalf("expected file path %q, got %q", path, model.filePath)
	}
	if view := model.View(); !strings.Contains(view, "tabs.txt") || strings.Contains(view, "(none)") {
		t.Fatalf("expected loaded file in footer, got:\n%s", view)
	}
}

func TestModelUpdate_LiveSearchAndClear(t *testing.T) {
	m, _ := loadedModel(t,
		"https://go.dev | Go",
		"https://python.org | Python",
		"https://golang.org/doc | Docs",
	)

	m, _ = press(t, m, "/", "G", "O")
	if !m.searching {
		t.Fatal("expected search mode")
	}
	if got := titlesOf(m); len(got) != 2 || got[0] != "Go" || got[1] != "Docs" {
		t.Fatalf("unexpected filtered titles: %v", got)
	}
	if !strings.Contains(m.View(), "Total: 3 tabs | Filtered: 2 tabs") {
		t.Fatalf("expected filtered counts in view:\n%s", m.View())
	}

	m, _ = press(t, m, "enter")
	if m.searching {
		t.Fatal("expected enter to leave search mode")
	}
	if len(m.entries) != 2 {
		t.Fatalf("expected query to be kept, got %d entries", len(m.entries))
	}

	m, _ = press(t, m, "ctrl+l")
	if len(m.entries) != 3 || m.search.Value() != "" {
		t.Fatalf("expected cleared search, got %d entries and %q", len(m.entries), m.search.Value())
	}
}

func TestModelUpdate_SelectAndDeleteWithConfirmation(t *testing.T) {
	m, svc := loadedModel(t,
		"https://a.test | A",
		"https://b.test | B",
		"https://c.test | C",
	)

	m, _ = press(t, m, " ")
	if !m.selected[m.entries[0].ID] || m.cursor != 1 {
		t.Fatalf("expected first entry selected and cursor advanced: %+v cursor=%d", m.selected, m.cursor)
	}

	m, _ = press(t, m, "x")
	if m.pendingDelete == nil || !strings.Contains(m.status, "Delete 1 selected tabs? (y/n)") {
		t.Fatalf("expected delete confirmation, got status %q", m.status)
	}

	m, _ = press(t, m, "n")
	if m.pendingDelete != nil || svc.Total() != 3 {
		t.Fatalf("expected deletion to be cancelled, total=%d", svc.Total())
	}

	m, _ = press(t, m, "x", "y")
	if svc.Total() != 2 || len(m.selected) != 0 {
		t.Fatalf("expected one entry deleted, total=%d selected=%v", svc.Total(), m.selected)
	}
	if got := titlesOf(m); got[0] != "B" || got[1] != "C" {
		t.Fatalf("unexpected remaining titles: %v", got)
	}
	if !strings.Contains(m.status, "Deleted 1 tabs") {
		t.Fatalf("unexpected status: %q", m.status)
	}
}

func TestModelUpdate_DeleteWithoutSelection(t *testing.T) {
	m, svc := loadedModel(t, "https://a.test | A")
	m, _ = press(t, m, "x")
	if m.pendingDelete != nil || svc.Total() != 1 {
		t.Fatal("expected nothing to be pending or deleted")
	}
	if !strings.Contains(m.status, "No tabs selected") {
		t.Fatalf("unexpected status: %q", m.status)
	}
}

func TestModelUpdate_SelectAllOnlyVisible(t *testing.T) {
	m, _ := loadedModel(t,
		"https://go.dev | Go",
		"https://python.org | Python",
	)
	m, _ = press(t, m, "/", "p", "y", "enter", "A")
	if !strings.Contains(m.View(), "Selected: 1 tabs") {
		t.Fatalf("expected one visible selection:\n%s", m.View())
	}

	m, _ = press(t, m, "ctrl+l")
	if !strings.Contains(m.View(), "Filtered: 2 tabs | Selected: 1 tabs") {
		t.Fatalf("expected selection to survive clearing:\n%s", m.View())
	}

	m, _ = press(t, m, "ctrl+a")
	if len(m.selected) != 2 {
		t.Fatalf("expected both selected, got %v", m.selected)
	}
	m, _ = press(t, m, "D")
	if len(m.selected) != 0 {
		t.Fatalf("expected deselect all, got %v", m.selected)
	}
}

func TestModelUpdate_SortTogglesDirection(t *testing.T) {
	m, _ := loadedModel(t,
		"https://b.test | Beta",
		"https://a.test | Alpha",
		"https://c.test | Gamma",
	)

	m, _ = press(t, m, "t")
	if got := strings.Join(titlesOf(m), ","); got != "Alpha,Beta,Gamma" {
		t.Fatalf("unexpected ascending order: %s", got)
	}
	m, _ = press(t, m, "t")
	if got := strings.Join(titlesOf(m), ","); got != "Gamma,Beta,Alpha" {
		t.Fatalf("unexpected descending order: %s", got)
	}
	if m.sortLabel() != "title desc" {
		t.Fatalf("unexpected sort label: %q", m.sortLabel())
	}

	m, _ = press(t, m, "u")
	if got := strings.Join(titlesOf(m), ","); got != "Alpha,Beta,Gamma" || m.sortDesc {
		t.Fatalf("expected new key to sort ascending, got %s", got)
	}
}

func TestModelUpdate_SortKeepsCursorOnEntry(t *testing.T) {
	m, _ := loadedModel(t,
		"https://b.test | Beta",
		"https://a.test | Alpha",
	)
	m, _ = press(t, m, "t")
	if m.entries[m.cursor].Title != "Beta" {
		t.Fatalf("expected cursor to follow Beta, got %q", m.entries[m.cursor].Title)
	}
}

func TestModelUpdate_VersionedSaveAndExport(t *testing.T) {
	m, svc := loadedModel(t, "https://a.test | A", "Header")

	m, cmd := press(t, m, "w")
	if !m.loading || cmd == nil {
		t.Fatal("expected save command")
	}
	msg := cmd()
	saved, ok := msg.(actions.SaveSuccessMsg)
	if !ok {
		t.Fatalf("expected SaveSuccessMsg, got %T", msg)
	}
	updated, _ := m.Update(saved)
	m = updated.(Model)
	if !strings.Contains(m.status, "Saved 2 tabs to tabs_v1.txt") {
		t.Fatalf("unexpected save status: %q", m.status)
	}

	m, cmd = press(t, m, "e")
	msg = cmd()
	exported, ok := msg.(actions.ExportSuccessMsg)
	if !ok {
		t.Fatalf("expected ExportSuccessMsg, got %T", msg)
	}
	want := strings.TrimSuffix(svc.CurrentPath(), ".txt") + ".json"
	if exported.Path != want {
		t.Fatalf("unexpected export path: %s", exported.Path)
	}
	if _, err := os.Stat(want); err != nil {
		t.Fatalf("expected export file: %v", err)
	}
}

func TestModelUpdate_KeysIgnoredWhileLoading(t *testing.T) {
	m, svc := loadedModel(t, "https://a.test | A", "https://b.test | B")
	m.loading = true
	m, cmd := press(t, m, " ", "x", "t", "w")
	if cmd != nil || m.pendingDelete != nil || len(m.selected) != 0 || svc.Total() != 2 {
		t.Fatal("expected dataset keys to be ignored while loading")
	}
}

func TestModelUpdate_OpenAndCopyURL(t *testing.T) {
	m, _ := loadedModel(t, "Header", "https://a.test | A")

	m, cmd := press(t, m, "o")
	if cmd == nil || !strings.Contains(m.status, "entry has no URL") {
		t.Fatalf("expected header to have no URL, status=%q", m.status)
	}

	var opened string
	m.openURLFn = func(url string) error {
		opened = url
		return nil
	}
	m, cmd = press(t, m, "j", "o")
	if _, ok := cmd().(actions.OpenURLSuccessMsg); !ok || opened != "https://a.test" {
		t.Fatalf("expected URL to be opened, got %q", opened)
	}

	m.copyURLFn = func(string) error { return errors.New("no clipboard") }
	_, cmd = press(t, m, "y")
	if _, ok := cmd().(actions.OpenURLErrorMsg); !ok {
		t.Fatal("expected copy failure message")
	}
}

func TestModelUpdate_TogglesPersistPreferences(t *testing.T) {
	m, svc := loadedModel(t, "https://a.test | A")
	var saved Preferences
	m.SetPreferencesSaver(func(p Preferences) error {
		saved = p
		return nil
	})

	m, cmd := press(t, m, "#")
	if cmd == nil {
		t.Fatal("expected persist command")
	}
	cmd()
	if !saved.ShowNumbers {
		t.Fatalf("expected numbering to be saved, got %+v", saved)
	}

	m, cmd = press(t, m, "f")
	cmd()
	if !saved.MatchDomain || !svc.MatchDomain() {
		t.Fatalf("expected domain matching to be saved, got %+v", saved)
	}

	_, cmd = press(t, m, "d")
	cmd()
	if saved.SortKey != "domain" || saved.SortDesc {
		t.Fatalf("expected sort to be saved, got %+v", saved)
	}
}

func TestModelUpdate_PreferenceSaveError(t *testing.T) {
	m, _ := loadedModel(t, "https://a.test | A")
	m.SetPreferencesSaver(func(Preferences) error { return errors.New("read-only") })

	m, cmd := press(t, m, "#")
	updated, _ := m.Update(cmd())
	model := updated.(Model)
	if model.err == nil || model.status != "Could not persist UI preferences" {
		t.Fatalf("expected preference error, got err=%v status=%q", model.err, model.status)
	}
}

func TestApplyPreferences(t *testing.T) {
	m, svc := loadedModel(t, "https://a.test | A")
	m.ApplyPreferences(Preferences{ShowNumbers: true, MatchDomain: true, SortKey: "url", SortDesc: true})
	if !m.showNumbers || !svc.MatchDomain() || m.sortKey != "url" || !m.sortDesc {
		t.Fatalf("preferences not applied: %+v", m.preferences())
	}

	m.ApplyPreferences(Preferences{SortKey: "bogus"})
	if m.sortKey != "url" {
		t.Fatalf("invalid sort key should be ignored, got %q", m.sortKey)
	}
}

func TestModelUpdate_HelpToggle(t *testing.T) {
	m, _ := loadedModel(t, "https://a.test | A")
	m, _ = press(t, m, "?")
	if !strings.Contains(m.View(), "Help (? to close)") {
		t.Fatalf("expected help view:\n%s", m.View())
	}
	m, _ = press(t, m, "esc")
	if m.showHelp {
		t.Fatal("expected esc to close help")
	}

	_, cmd := press(t, m, "q")
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected quit message")
	}
}
