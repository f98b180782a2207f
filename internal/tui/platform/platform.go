package platform

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/cli/browser"
)

func ValidateEntryURL(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("entry has no URL")
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("invalid URL format")
	}
	switch parsed.Scheme {
	case "http", "https":
		if parsed.Host == "" {
			return "", fmt.Errorf("invalid URL host")
		}
	case "file":
		if parsed.Path == "" {
			return "", fmt.Errorf("invalid file URL")
		}
	default:
		return "", fmt.Errorf("unsupported URL scheme: %s", parsed.Scheme)
	}
	return trimmed, nil
}

func OpenURLInBrowser(rawURL string) error {
	if err := browser.OpenURL(rawURL); err != nil {
		return fmt.Errorf("open browser: %w", err)
	}
	return nil
}

func CopyURLToClipboard(rawURL string) error {
	if err := clipboard.WriteAll(rawURL); err != nil {
		return fmt.Errorf("copy to clipboard: %w", err)
	}
	return nil
}
