package tabs

import "net/url"

// Domain returns the authority (host plus optional port) of rawURL, or
// UnknownDomain when there is none.
func Domain(rawURL string) string {
	if rawURL == "" {
		return UnknownDomain
	}
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return UnknownDomain
	}
	return parsed.Host
}
