package web

import (
	"crypto/sha256"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
)

type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

const (
	themeCookie = "en_theme"
	themeMaxAge = 365 * 24 * time.Hour
)

func ParseTheme(s string) (Theme, bool) {
	switch t := Theme(s); t {
	case ThemeLight, ThemeDark, ThemeSystem:
		return t, true
	default:
		return "", false
	}
}

// themeStore keeps the theme preference in its own signed cookie so it
// survives sign out.
type themeStore struct {
	codec  *securecookie.SecureCookie
	secure bool
}

func newThemeStore(secret string, secure bool) *themeStore {
	hashKey := sha256.Sum256([]byte("theme:" + secret))

	codec := securecookie.New(hashKey[:], nil)
	codec.MaxAge(int(themeMaxAge.Seconds()))

	return &themeStore{
		codec:  codec,
		secure: secure,
	}
}

// Get falls back to ThemeSystem when the cookie is missing or tampered with.
func (ts *themeStore) Get(r *http.Request) Theme {
	c, err := r.Cookie(themeCookie)
	if err != nil {
		return ThemeSystem
	}

	var value string
	if err := ts.codec.Decode(themeCookie, c.Value, &value); err != nil {
		return ThemeSystem
	}

	if t, ok := ParseTheme(value); ok {
		return t
	}

	return ThemeSystem
}

// Set writes the preference. ThemeSystem removes the cookie.
func (ts *themeStore) Set(w http.ResponseWriter, t Theme) error {
	c := &http.Cookie{ //nolint:exhaustruct
		Name:     themeCookie,
		Path:     "/",
		HttpOnly: true,
		Secure:   ts.secure,
		SameSite: http.SameSiteLaxMode,
	}

	if t == ThemeSystem {
		c.MaxAge = -1
		http.SetCookie(w, c)

		return nil
	}

	encoded, err := ts.codec.Encode(themeCookie, string(t))
	if err != nil {
		return fmt.Errorf("encode theme error: %w", err)
	}

	c.Value = encoded
	c.MaxAge = int(themeMaxAge.Seconds())
	http.SetCookie(w, c)

	return nil
}

func (h *Handler) setTheme(w http.ResponseWriter, r *http.Request) {
	t, ok := ParseTheme(r.PostFormValue("theme"))
	if !ok {
		h.renderError(w, r, http.StatusBadRequest)

		return
	}

	if err := h.themes.Set(w, t); err != nil {
		h.serverError(w, r, err)

		return
	}

	http.Redirect(w, r, safeRedirect(r.PostFormValue("redirectTo"), "/"), http.StatusSeeOther)
}
