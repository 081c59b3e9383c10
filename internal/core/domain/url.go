package domain

import (
	"fmt"
	"net/url"
	"strings"
)

// NormalizeURL canonicalises a URL for use as a cache key: lower-case
// scheme and host, default ports dropped, trailing slash stripped. Two
// URLs differing only in these respects hit the same cache entry.
func NormalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", WrapError(ErrInvalidInput, "normalize url", fmt.Errorf("empty url"))
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", WrapError(ErrInvalidInput, "normalize url", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", WrapError(ErrInvalidInput, "normalize url", fmt.Errorf("unsupported scheme %q", u.Scheme))
	}
	if u.Hostname() == "" {
		return "", WrapError(ErrInvalidInput, "normalize url", fmt.Errorf("missing host"))
	}

	u.Scheme = strings.ToLower(u.Scheme)
	host := strings.ToLower(u.Hostname())
	port := u.Port()
	switch {
	case port == "", u.Scheme == "http" && port == "80", u.Scheme == "https" && port == "443":
		u.Host = host
	default:
		u.Host = host + ":" + port
	}

	u.Path = strings.TrimRight(u.Path, "/")
	u.Fragment = ""

	return u.String(), nil
}
