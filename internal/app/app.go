package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/glabrego/onetab-cli/internal/storage"
	"github.com/glabrego/onetab-cli/internal/tabfile"
	"github.com/glabrego/onetab-cli/internal/tabs"
)

const DefaultRecentLimit = 10

// ErrNoData is returned when saving or exporting an empty dataset.
var ErrNoData = errors.New("no data to save")

type (
	UIPreferences = storage.UIPreferences
	RecentFile    = storage.RecentFile
)

type Repository interface {
	LoadUIPreferences(ctx context.Context) (UIPreferences, error)
	SaveUIPreferences(ctx context.Context, prefs UIPreferences) error
	RecordRecentFile(ctx context.Context, path string, entries int, lastVersioned string) error
	ListRecentFiles(ctx context.Context, limit int) ([]RecentFile, error)
}

type TitleEnricher interface {
	Enrich(ctx context.Context, entries []tabs.Entry) int
}

// Service owns the in-memory dataset and the path it was loaded from. The
// repository and enricher are optional.
type Service struct {
	data        *tabs.Dataset
	repo        Repository
	enricher    TitleEnricher
	logger      *zap.Logger
	currentPath string
}

func NewService(repo Repository, enricher TitleEnricher, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		data:     tabs.NewDataset(),
		repo:     repo,
		enricher: enricher,
		logger:   logger,
	}
}

// Load replaces the dataset with the contents of path. On a read error the
// current dataset and path are left as they were.
func (s *Service) Load(ctx context.Context, path string) (tabs.LoadStats, error) {
	lines, err := tabfile.ReadLines(path)
	if err != nil {
		return tabs.LoadStats{}, err
	}

	entries := tabs.ParseLines(lines)
	if s.enricher != nil {
		if n := s.enricher.Enrich(ctx, entries); n > 0 {
			s.logger.Info("enriched titles", zap.Int("count", n))
		}
	}
	entries, stats := tabs.Normalize(entries)
	stats.Lines = len(lines)

	s.data.Replace(entries)
	s.currentPath = path
	s.logger.Info("loaded tab file",
		zap.String("path", path),
		zap.Int("lines", stats.Lines),
		zap.Int("duplicate_urls", stats.DuplicateURLs),
		zap.Int("duplicate_titles", stats.DuplicateTitles),
		zap.Int("kept", stats.Kept),
	)
	s.recordRecent(ctx, path, "")
	return stats, nil
}

// ImportJSON replaces the dataset with a JSON export. The entries are taken
// as they are and there is no current path afterwards.
func (s *Service) ImportJSON(ctx context.Context, path string) (int, error) {
	entries, err := tabfile.ImportJSON(path)
	if err != nil {
		return 0, err
	}
	s.data.Replace(entries)
	s.currentPath = ""
	s.logger.Info("imported json", zap.String("path", path), zap.Int("entries", len(entries)))
	return len(entries), nil
}

func (s *Service) CurrentPath() string {
	return s.currentPath
}

func (s *Service) Total() int {
	return s.data.Len()
}

func (s *Service) Entries() []tabs.Entry {
	return s.data.Entries()
}

func (s *Service) Filtered() []tabs.Entry {
	return s.data.Filtered()
}

func (s *Service) Query() string {
	return s.data.Query()
}

func (s *Service) Search(query string) []tabs.Entry {
	s.data.Search(query)
	return s.data.Filtered()
}

func (s *Service) MatchDomain() bool {
	return s.data.MatchOptions().Domain
}

func (s *Service) SetMatchDomain(on bool) {
	s.data.SetMatchOptions(tabs.MatchOptions{Domain: on})
}

func (s *Service) Sort(key tabs.SortKey, descending bool) {
	s.data.Sort(key, descending)
	s.logger.Debug("sorted entries", zap.String("key", string(key)), zap.Bool("descending", descending))
}

func (s *Service) Delete(ids ...int64) int {
	removed := s.data.Delete(ids...)
	s.logger.Debug("deleted entries", zap.Int("requested", len(ids)), zap.Int("removed", removed))
	return removed
}

// PruneDomains deletes every entry whose domain matches one of the glob
// patterns.
func (s *Service) PruneDomains(patterns ...string) (int, error) {
	matcher, err := tabs.NewDomainMatcher(patterns...)
	if err != nil {
		return 0, err
	}
	removed := s.data.DeleteMatching(matcher.Match)
	s.logger.Info("pruned domains", zap.Strings("patterns", patterns), zap.Int("removed", removed))
	return removed, nil
}

func (s *Service) Stats(topN int) tabs.DomainSummary {
	return tabs.DomainStats(s.data.Entries(), topN)
}

// SavePlain writes the whole dataset to path, which becomes the current
// path.
func (s *Service) SavePlain(ctx context.Context, path string) error {
	if s.data.Len() == 0 {
		return ErrNoData
	}
	if err := tabfile.SavePlain(path, s.data.Entries()); err != nil {
		return err
	}
	s.currentPath = path
	s.logger.Info("saved tab file", zap.String("path", path), zap.Int("entries", s.data.Len()))
	s.recordRecent(ctx, path, "")
	return nil
}

// SaveVersioned writes the dataset next to the current path under the next
// free version number and returns the new file's path. The current path
// does not change.
func (s *Service) SaveVersioned(ctx context.Context) (string, error) {
	if s.data.Len() == 0 {
		return "", ErrNoData
	}
	path, err := tabfile.SaveVersioned(s.currentPath, s.data.Entries())
	if err != nil {
		return "", err
	}
	s.logger.Info("saved versioned tab file", zap.String("path", path), zap.Int("entries", s.data.Len()))
	s.recordRecent(ctx, s.currentPath, path)
	return path, nil
}

func (s *Service) ExportJSON(path string) error {
	if s.data.Len() == 0 {
		return fmt.Errorf("export json: %w", ErrNoData)
	}
	if err := tabfile.ExportJSON(path, s.data.Entries()); err != nil {
		return err
	}
	s.logger.Info("exported json", zap.String("path", path), zap.Int("entries", s.data.Len()))
	return nil
}

func (s *Service) LoadUIPreferences(ctx context.Context) (UIPreferences, error) {
	if s.repo == nil {
		return UIPreferences{}, nil
	}
	prefs, err := s.repo.LoadUIPreferences(ctx)
	if err != nil {
		return UIPreferences{}, fmt.Errorf("load ui preferences: %w", err)
	}
	return prefs, nil
}

func (s *Service) SaveUIPreferences(ctx context.Context, prefs UIPreferences) error {
	if s.repo == nil {
		return nil
	}
	if err := s.repo.SaveUIPreferences(ctx, prefs); err != nil {
		return fmt.Errorf("save ui preferences: %w", err)
	}
	return nil
}

func (s *Service) RecentFiles(ctx context.Context, limit int) ([]RecentFile, error) {
	if s.repo == nil {
		return nil, nil
	}
	files, err := s.repo.ListRecentFiles(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("load recent files: %w", err)
	}
	return files, nil
}

func (s *Service) recordRecent(ctx context.Context, path, versioned string) {
	if s.repo == nil || path == "" {
		return
	}
	path = absPath(path)
	if versioned != "" {
		versioned = absPath(versioned)
	}
	if err := s.repo.RecordRecentFile(ctx, path, s.data.Len(), versioned); err != nil {
		s.logger.Warn("could not record recent file", zap.String("path", path), zap.Error(err))
	}
}

// absPath makes recorded paths usable from any working directory. The path
// is kept as given when it cannot be resolved.
func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}
