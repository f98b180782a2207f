package tabfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/glabrego/onetab-cli/internal/tabs"
)

// jsonEntry fixes the exported field order; a header line has a null url.
type jsonEntry struct {
	Title  string  `json:"title"`
	URL    *string `json:"url"`
	Domain string  `json:"domain"`
}

// EncodeJSON writes entries as a 2-space indented array without escaping
// HTML or non-ASCII characters.
func EncodeJSON(w io.Writer, entries []tabs.Entry) error {
	out := make([]jsonEntry, 0, len(entries))
	for _, entry := range entries {
		je := jsonEntry{Title: entry.Title, Domain: entry.Domain}
		if entry.HasURL() {
			u := entry.URL
			je.URL = &u
		}
		out = append(out, je)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode entries: %w", err)
	}
	_, err := w.Write(bytes.TrimSuffix(buf.Bytes(), []byte("\n")))
	return err
}

// DecodeJSON reads entries written by EncodeJSON. Domains are taken as they
// are and only derived when missing.
func DecodeJSON(r io.Reader) ([]tabs.Entry, error) {
	var in []jsonEntry
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return nil, fmt.Errorf("decode entries: %w", err)
	}
	entries := make([]tabs.Entry, 0, len(in))
	for _, je := range in {
		entry := tabs.Entry{Title: je.Title, Domain: je.Domain}
		if je.URL != nil {
			entry.URL = *je.URL
		}
		if entry.Domain == "" {
			entry.Domain = tabs.Domain(entry.URL)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func ExportJSON(path string, entries []tabs.Entry) error {
	var buf bytes.Buffer
	if err := EncodeJSON(&buf, entries); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write json export: %w", err)
	}
	return nil
}

func ImportJSON(path string) ([]tabs.Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open json export: %w", err)
	}
	defer f.Close()
	return DecodeJSON(f)
}
