package tabfile

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/glabrego/onetab-cli/internal/tabs"
)

const byteOrderMark = "\ufeff"

// ReadLines returns the lines of a UTF-8 export file. Line terminators are
// removed; a final newline does not produce an extra empty line.
func ReadLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tab file: %w", err)
	}
	return SplitLines(string(data)), nil
}

func SplitLines(content string) []string {
	content = strings.TrimPrefix(content, byteOrderMark)
	if content == "" {
		return nil
	}
	content = strings.TrimSuffix(content, "\n")
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// FormatLine renders an entry as "<url> | <title>". Entries without a URL
// are written as their bare title, which reads back as a header line.
func FormatLine(e tabs.Entry) string {
	if !e.HasURL() {
		return e.Title
	}
	return e.URL + " | " + e.Title
}

// SavePlain writes one line per entry, each terminated by a newline.
func SavePlain(path string, entries []tabs.Entry) error {
	var buf bytes.Buffer
	for _, entry := range entries {
		buf.WriteString(FormatLine(entry))
		buf.WriteByte('\n')
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write tab file: %w", err)
	}
	return nil
}

// Join renders entries as lines separated by newlines, without a trailing
// newline.
func Join(entries []tabs.Entry) string {
	lines := make([]string, 0, len(entries))
	for _, entry := range entries {
		lines = append(lines, FormatLine(entry))
	}
	return strings.Join(lines, "\n")
}
