package enrich

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	nethtml "golang.org/x/net/html"

	"github.com/glabrego/onetab-cli/internal/tabs"
)

const maxBodyBytes = 512 << 10

// Enricher replaces placeholder titles with the page <title> of their URL.
type Enricher struct {
	http   *http.Client
	logger *zap.Logger
}

func NewEnricher(httpClient *http.Client, timeout time.Duration, logger *zap.Logger) *Enricher {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Enricher{http: httpClient, logger: logger}
}

// Title fetches rawURL and returns the trimmed text of its first <title>.
func (e *Enricher) Title(ctx context.Context, rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL %q: %w", rawURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("unsupported URL scheme: %s", parsed.Scheme)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "text/html")

	resp, err := e.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("fetch %s failed with status %d", rawURL, resp.StatusCode)
	}

	doc, err := nethtml.Parse(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("parse html from %s: %w", rawURL, err)
	}
	title := strings.Join(strings.Fields(findTitle(doc)), " ")
	if title == "" {
		return "", fmt.Errorf("no title at %s", rawURL)
	}
	return title, nil
}

// Enrich updates, in place, entries whose title is just their URL. Lookup
// failures are logged and leave the entry untouched. It returns how many
// titles changed.
func (e *Enricher) Enrich(ctx context.Context, entries []tabs.Entry) int {
	changed := 0
	for i := range entries {
		if ctx.Err() != nil {
			break
		}
		entry := entries[i]
		if !entry.HasURL() || entry.Title != entry.URL {
			continue
		}
		title, err := e.Title(ctx, entry.URL)
		if err != nil {
			e.logger.Debug("title lookup failed", zap.String("url", entry.URL), zap.Error(err))
			continue
		}
		entries[i].Title = title
		changed++
	}
	return changed
}

func findTitle(node *nethtml.Node) string {
	if node.Type == nethtml.ElementNode && strings.EqualFold(node.Data, "title") {
		var b strings.Builder
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			if child.Type == nethtml.TextNode {
				b.WriteString(child.Data)
			}
		}
		return b.String()
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if title := findTitle(child); title != "" {
			return title
		}
	}
	return ""
}
