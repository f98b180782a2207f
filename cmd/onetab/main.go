package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/glabrego/onetab-cli/internal/app"
	"github.com/glabrego/onetab-cli/internal/config"
	"github.com/glabrego/onetab-cli/internal/enrich"
	"github.com/glabrego/onetab-cli/internal/logging"
	"github.com/glabrego/onetab-cli/internal/storage"
	"github.com/glabrego/onetab-cli/internal/tui"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// environment is everything a command needs, built from config once per run.
type environment struct {
	cfg     config.Config
	logger  *zap.Logger
	repo    *storage.Repository
	service *app.Service
}

// openEnvironment loads config, builds the logger and opens the sqlite
// store. console receives log records when no log file is configured; the
// TUI passes nil so nothing is drawn over the screen.
func openEnvironment(ctx context.Context, console io.Writer) (*environment, error) {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	logger, err := logging.New(logging.Options{Path: cfg.LogPath, Level: cfg.LogLevel, Console: console})
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	repo, err := storage.NewRepository(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}
	if err := repo.Init(ctx); err != nil {
		repo.Close()
		return nil, fmt.Errorf("storage schema error: %w", err)
	}
	if err := repo.CheckWritable(ctx); err != nil {
		repo.Close()
		return nil, fmt.Errorf("storage write check failed (%v). Verify ONETAB_DB_PATH is writable: %s", err, cfg.DBPath)
	}

	var enricher app.TitleEnricher
	if cfg.EnrichTitles {
		enricher = enrich.NewEnricher(nil, cfg.EnrichTimeout, logger)
	}

	service := app.NewService(repo, enricher, logger)
	service.SetMatchDomain(cfg.SearchDomain)

	return &environment{cfg: cfg, logger: logger, repo: repo, service: service}, nil
}

func (e *environment) Close() {
	_ = e.logger.Sync()
	_ = e.repo.Close()
}

func runTUI(path string) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	env, err := openEnvironment(ctx, nil)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer env.Close()
	service := env.service

	if path == "" {
		recent, err := service.RecentFiles(ctx, 1)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read recent files (%v)\n", err)
		} else if len(recent) > 0 {
			path = recent[0].Path
		}
	}

	model := tui.NewModel(service, path)
	model.SetLoadTimeout(loadTimeout(env.cfg))

	prefCtx, prefCancel := context.WithTimeout(context.Background(), 5*time.Second)
	prefs, err := service.LoadUIPreferences(prefCtx)
	prefCancel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not load UI preferences (%v), using defaults\n", err)
	} else {
		model.ApplyPreferences(tui.Preferences{
			ShowNumbers: prefs.ShowNumbers,
			MatchDomain: prefs.MatchDomain || env.cfg.SearchDomain,
			SortKey:     prefs.SortKey,
			SortDesc:    prefs.SortDesc,
		})
	}

	model.SetPreferencesSaver(func(p tui.Preferences) error {
		saveCtx, saveCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer saveCancel()
		return service.SaveUIPreferences(saveCtx, app.UIPreferences{
			ShowNumbers: p.ShowNumbers,
			MatchDomain: p.MatchDomain,
			SortKey:     p.SortKey,
			SortDesc:    p.SortDesc,
		})
	})

	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		log.Fatalf("tui error: %v", err)
	}
}

// loadTimeout bounds a TUI load; enrichment fetches pages so it gets longer.
func loadTimeout(cfg config.Config) time.Duration {
	if !cfg.EnrichTitles {
		return time.Minute
	}
	return 10 * time.Minute
}

func rootRun(_ *cobra.Command, args []string) {
	path := ""
	if len(args) > 0 {
		path = args[0]
	}
	runTUI(path)
}
