package domain

import (
	"fmt"
	"net/url"
	"strings"
)

// NormalizeURL validates and canonicalizes raw user input into an absolute
// URL string. Input without an http(s) scheme gets "https://" prepended.
// Returns ErrInvalidURL when the result cannot be parsed as an absolute URL
// with a host. Normalizing an already-normalized URL yields the same string.
func NormalizeURL(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ErrInvalidURL
	}

	if !hasHTTPScheme(trimmed) {
		trimmed = "https://" + trimmed
	}

	u, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Host == "" {
		return "", ErrInvalidURL
	}

	// A bare authority parses with an empty path; canonical form carries "/".
	if u.Path == "" {
		u.Path = "/"
	}

	return u.String(), nil
}

// URLHost returns the hostname (no port) of a normalized URL, or "" when the
// URL cannot be parsed.
func URLHost(normalized string) string {
	u, err := url.Parse(normalized)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

func hasHTTPScheme(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
