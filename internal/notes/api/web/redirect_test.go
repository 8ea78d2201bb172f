package web

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSafeRedirect(t *testing.T) {
	cases := map[string]string{
		"":                     "/",
		"/notes":               "/notes",
		"/admin/users?page=2":  "/admin/users?page=2",
		"//evil.example":       "/",
		"/\\evil.example":      "/",
		"https://evil.example": "/",
		"notes":                "/",
		"/notes\r\nSet-Cookie": "/",
		"/\t/evil.example":     "/",
		"/\n/evil.example":     "/",
		"/\x7f/evil.example":   "/",
		"/\x00notes":           "/",
		"/notes?q=a%09b":       "/notes?q=a%09b",
	}

	for to, want := range cases {
		assert.Equal(t, want, safeRedirect(to, "/"), "redirectTo %q", to)
	}
}

func TestParseTheme(t *testing.T) {
	for _, s := range []string{"light", "dark", "system"} {
		th, ok := ParseTheme(s)
		assert.True(t, ok)
		assert.Equal(t, Theme(s), th)
	}

	_, ok := ParseTheme("neon")
	assert.False(t, ok)
}
