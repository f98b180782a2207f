package tabfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/glabrego/onetab-cli/internal/tabs"
)

// ErrNoCurrentPath is returned when a versioned save has no previous path
// to derive a name from. The caller has to ask for a destination.
var ErrNoCurrentPath = errors.New("no current file to version; choose a destination")

var reVersionSuffix = regexp.MustCompile(`^(.*)_v(\d+)$`)

// NextVersionedPath returns "<stem>_v<N><ext>" next to existingPath, where N
// is one more than the highest version of the same stem and extension found
// in that directory. A "_v<digits>" suffix on existingPath itself is ignored
// when computing the stem.
func NextVersionedPath(existingPath string) (string, error) {
	if existingPath == "" {
		return "", ErrNoCurrentPath
	}

	dir := filepath.Dir(existingPath)
	ext := filepath.Ext(existingPath)
	stem := strings.TrimSuffix(filepath.Base(existingPath), ext)
	if m := reVersionSuffix.FindStringSubmatch(stem); m != nil {
		stem = m[1]
	}

	files, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("scan %s for versions: %w", dir, err)
	}

	reVersion := regexp.MustCompile(`^` + regexp.QuoteMeta(stem) + `_v(\d+)` + regexp.QuoteMeta(ext) + `$`)
	highest := 0
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		m := reVersion.FindStringSubmatch(file.Name())
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if n > highest {
			highest = n
		}
	}

	return filepath.Join(dir, fmt.Sprintf("%s_v%d%s", stem, highest+1, ext)), nil
}

// SaveVersioned writes entries to the next versioned path derived from
// existingPath and returns that path. The file has no trailing newline.
func SaveVersioned(existingPath string, entries []tabs.Entry) (string, error) {
	path, err := NextVersionedPath(existingPath)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(Join(entries)), 0o644); err != nil {
		return "", fmt.Errorf("write versioned tab file: %w", err)
	}
	return path, nil
}
