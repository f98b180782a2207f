package actions

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/glabrego/onetab-cli/internal/tabs"
)

type Service interface {
	Load(ctx context.Context, path string) (tabs.LoadStats, error)
	SaveVersioned(ctx context.Context) (string, error)
	ExportJSON(path string) error
}

type LoadSuccessMsg struct {
	Path     string
	Stats    tabs.LoadStats
	Duration time.Duration
}

type LoadErrorMsg struct {
	Path string
	Err  error
}

type SaveSuccessMsg struct {
	Path string
}

type SaveErrorMsg struct {
	Err error
}

type ExportSuccessMsg struct {
	Path string
}

type ExportErrorMsg struct {
	Err error
}

type OpenURLSuccessMsg struct {
	Status string
	Opened bool
}

type OpenURLErrorMsg struct {
	Err error
}

// LoadCmd gets a longer deadline than the other commands because title
// enrichment may fetch pages while loading.
func LoadCmd(service Service, path string, timeout time.Duration) tea.Cmd {
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		start := time.Now()

		stats, err := service.Load(ctx, path)
		if err != nil {
			return LoadErrorMsg{Path: path, Err: err}
		}
		return LoadSuccessMsg{Path: path, Stats: stats, Duration: time.Since(start)}
	}
}

func SaveVersionedCmd(service Service) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		path, err := service.SaveVersioned(ctx)
		if err != nil {
			return SaveErrorMsg{Err: err}
		}
		return SaveSuccessMsg{Path: path}
	}
}

func ExportJSONCmd(service Service, path string) tea.Cmd {
	return func() tea.Msg {
		if err := service.ExportJSON(path); err != nil {
			return ExportErrorMsg{Err: err}
		}
		return ExportSuccessMsg{Path: path}
	}
}

func OpenURLCmd(url string, openFn, copyFn func(string) error) tea.Cmd {
	return func() tea.Msg {
		if openFn != nil {
			if err := openFn(url); err == nil {
				return OpenURLSuccessMsg{Status: "Opened URL in browser", Opened: true}
			}
		}
		if copyFn != nil {
			if err := copyFn(url); err == nil {
				return OpenURLSuccessMsg{Status: "Could not open browser, URL copied to clipboard", Opened: false}
			}
		}
		return OpenURLErrorMsg{Err: fmt.Errorf("could not open URL or copy to clipboard")}
	}
}

func CopyURLCmd(url string, copyFn func(string) error) tea.Cmd {
	return func() tea.Msg {
		if copyFn != nil {
			if err := copyFn(url); err == nil {
				return OpenURLSuccessMsg{Status: "URL copied to clipboard"}
			}
		}
		return OpenURLErrorMsg{Err: fmt.Errorf("could not copy URL to clipboard")}
	}
}
