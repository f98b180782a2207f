package tabs

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

// DomainMatcher matches entry domains against glob patterns such as
// "*.reddit.com" or "news.*". Matching is case-insensitive.
type DomainMatcher struct {
	patterns []glob.Glob
}

func NewDomainMatcher(patterns ...string) (*DomainMatcher, error) {
	m := &DomainMatcher{patterns: make([]glob.Glob, 0, len(patterns))}
	for _, pattern := range patterns {
		pattern = strings.ToLower(strings.TrimSpace(pattern))
		if pattern == "" {
			continue
		}
		g, err := glob.Compile(pattern, '.')
		if err != nil {
			return nil, fmt.Errorf("compile domain pattern %q: %w", pattern, err)
		}
		m.patterns = append(m.patterns, g)
	}
	if len(m.patterns) == 0 {
		return nil, fmt.Errorf("at least one domain pattern is required")
	}
	return m, nil
}

func (m *DomainMatcher) Match(e Entry) bool {
	if m == nil {
		return false
	}
	domain := strings.ToLower(e.Domain)
	for _, g := range m.patterns {
		if g.Match(domain) {
			return true
		}
	}
	return false
}
