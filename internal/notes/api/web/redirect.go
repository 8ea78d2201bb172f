package web

import (
	"net/url"
	"strings"
)

// safeRedirect returns to when it is a local path and fallback otherwise,
// so redirectTo parameters cannot send users to another host. Browsers drop
// tabs and newlines from URLs, so any control byte is rejected before the
// prefix checks could be fooled by "/\t/host".
func safeRedirect(to, fallback string) string {
	if strings.ContainsFunc(to, func(r rune) bool { return r < 0x20 || r == 0x7f }) {
		return fallback
	}

	if !strings.HasPrefix(to, "/") || strings.HasPrefix(to, "//") || strings.HasPrefix(to, "/\\") {
		return fallback
	}

	u, err := url.Parse(to)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return fallback
	}

	return to
}
