package tabs

import (
	"net/url"
	"regexp"
	"strings"
)

// ArchivePrefix marks lines written by the extension's own export page.
const ArchivePrefix = "chrome-extension://"

const pipeSeparator = " | "

var reBareURL = regexp.MustCompile(`^(https?|file)://`)

// lineRule is one line format. It reports false when the line is not in
// that format, and the next rule is tried.
type lineRule func(line string) (Entry, bool)

// Order matters: a pipe pair whose left side is a URL also matches the
// bare URL rule.
var lineRules = []lineRule{
	parseArchiveLine,
	parsePipeLine,
	parseBareURLLine,
	parseHeaderLine,
}

// ParseLine turns one raw export line into an entry with its domain set.
// It reports false only for blank lines.
func ParseLine(line string) (Entry, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Entry{}, false
	}
	for _, rule := range lineRules {
		if entry, ok := rule(line); ok {
			entry.Domain = Domain(entry.URL)
			return entry, true
		}
	}
	return Entry{}, false
}

func parseArchiveLine(line string) (Entry, bool) {
	if !strings.HasPrefix(line, ArchivePrefix) {
		return Entry{}, false
	}
	rest, fragment, _ := strings.Cut(line, "#")
	_, query, _ := strings.Cut(rest, "?")

	params := parseArchiveParams(query)
	for key, values := range parseArchiveParams(fragment) {
		params[key] = values
	}

	title := decodeParam(firstParam(params, "title", "ttl"))
	target := decodeParam(firstParam(params, "url", "uri"))
	if title == "" || target == "" {
		return Entry{}, false
	}
	return Entry{Title: title, URL: target}, true
}

// parseArchiveParams splits raw on '&' only. Pairs without '=' or with an
// empty value are dropped; keys and values are unescaped leniently.
func parseArchiveParams(raw string) url.Values {
	params := url.Values{}
	for _, pair := range strings.Split(raw, "&") {
		key, value, found := strings.Cut(pair, "=")
		if !found || value == "" {
			continue
		}
		key = unescapeLenient(strings.ReplaceAll(key, "+", " "))
		params.Add(key, unescapeLenient(strings.ReplaceAll(value, "+", " ")))
	}
	return params
}

func parsePipeLine(line string) (Entry, bool) {
	urlPart, titlePart, found := strings.Cut(line, pipeSeparator)
	if !found {
		return Entry{}, false
	}
	return Entry{Title: strings.TrimSpace(titlePart), URL: strings.TrimSpace(urlPart)}, true
}

func parseBareURLLine(line string) (Entry, bool) {
	if !reBareURL.MatchString(line) {
		return Entry{}, false
	}
	return Entry{Title: line, URL: line}, true
}

func parseHeaderLine(line string) (Entry, bool) {
	return Entry{Title: line}, true
}

func firstParam(params url.Values, keys ...string) string {
	for _, key := range keys {
		for _, value := range params[key] {
			if value != "" {
				return value
			}
		}
	}
	return ""
}

// decodeParam applies one more round of percent-decoding; the export page
// double-encodes titles.
func decodeParam(value string) string {
	return unescapeLenient(value)
}

// unescapeLenient decodes every valid %XX escape and leaves malformed ones
// in place. Invalid UTF-8 in the result is replaced with U+FFFD.
func unescapeLenient(s string) string {
	if !strings.Contains(s, "%") {
		return s
	}
	buf := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]) {
			buf = append(buf, unhex(s[i+1])<<4|unhex(s[i+2]))
			i += 2
			continue
		}
		buf = append(buf, s[i])
	}
	return strings.ToValidUTF8(string(buf), "\uFFFD")
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}
