package web

import (
	"crypto/sha256"
	"encoding/gob"
	"net/http"
	"time"

	"github.com/Leopold1975/notes_app/internal/pkg/config"
	"github.com/gorilla/sessions"
)

const (
	userIDKey   = "user_id"
	rememberKey = "remember"
)

type ToastKind string

const (
	ToastSuccess ToastKind = "success"
	ToastError   ToastKind = "error"
	ToastInfo    ToastKind = "message"
)

type Toast struct {
	Kind        ToastKind
	Title       string
	Description string
}

func init() { //nolint:gochecknoinits
	gob.Register(Toast{})
}

// sessionManager keeps the signed in user and flash toasts in an encrypted
// cookie.
type sessionManager struct {
	store       *sessions.CookieStore
	name        string
	rememberAge time.Duration
}

func newSessionManager(cfg config.Session) *sessionManager {
	hashKey := sha256.Sum256([]byte("session-hash:" + cfg.Secret))
	blockKey := sha256.Sum256([]byte("session-block:" + cfg.Secret))

	store := sessions.NewCookieStore(hashKey[:], blockKey[:])
	store.MaxAge(int(cfg.RememberMaxAge.Seconds()))
	store.Options = &sessions.Options{ //nolint:exhaustruct
		Path:     "/",
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}

	return &sessionManager{
		store:       store,
		name:        cfg.CookieName,
		rememberAge: cfg.RememberMaxAge,
	}
}

// get never fails: a cookie that does not decode yields a fresh session.
func (sm *sessionManager) get(r *http.Request) *sessions.Session {
	s, _ := sm.store.Get(r, sm.name) //nolint:errcheck

	return s
}

func (sm *sessionManager) save(w http.ResponseWriter, r *http.Request, s *sessions.Session) error {
	opts := *sm.store.Options
	if remember, _ := s.Values[rememberKey].(bool); remember {
		opts.MaxAge = int(sm.rememberAge.Seconds())
	}

	s.Options = &opts

	return s.Save(r, w) //nolint:wrapcheck
}

// SignIn stores userID in the session. Without remember the cookie lasts
// until the browser is closed.
func (sm *sessionManager) SignIn(w http.ResponseWriter, r *http.Request, userID string, remember bool) error {
	s := sm.get(r)
	s.Values[userIDKey] = userID
	s.Values[rememberKey] = remember

	return sm.save(w, r, s)
}

func (sm *sessionManager) SignOut(w http.ResponseWriter, r *http.Request) error {
	s := sm.get(r)
	s.Values = make(map[any]any)

	opts := *sm.store.Options
	opts.MaxAge = -1
	s.Options = &opts

	return s.Save(r, w) //nolint:wrapcheck
}

func (sm *sessionManager) UserID(r *http.Request) string {
	id, _ := sm.get(r).Values[userIDKey].(string)

	return id
}

func (sm *sessionManager) AddToast(w http.ResponseWriter, r *http.Request, t Toast) error {
	s := sm.get(r)
	s.AddFlash(t)

	return sm.save(w, r, s)
}

// PopToasts returns pending toasts and clears them. It writes a cookie, so
// it must run before the response header is sent.
func (sm *sessionManager) PopToasts(w http.ResponseWriter, r *http.Request) ([]Toast, error) {
	s := sm.get(r)

	flashes := s.Flashes()
	if len(flashes) == 0 {
		return nil, nil
	}

	toasts := make([]Toast, 0, len(flashes))

	for _, f := range flashes {
		if t, ok := f.(Toast); ok {
			toasts = append(toasts, t)
		}
	}

	return toasts, sm.save(w, r, s)
}
