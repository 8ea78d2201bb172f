package web

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/Leopold1975/notes_app/internal/notes/domain/models"
	"github.com/Leopold1975/notes_app/internal/notes/services/noteservice"
	"github.com/Leopold1975/notes_app/internal/notes/services/userservice"
)

type ctxKey struct{}

func withUser(ctx context.Context, u models.User) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

func userFrom(ctx context.Context) (models.User, bool) {
	u, ok := ctx.Value(ctxKey{}).(models.User)

	return u, ok
}

func actorFrom(ctx context.Context) noteservice.Actor {
	u, _ := userFrom(ctx)

	return noteservice.Actor{UserID: u.ID, Admin: u.IsAdmin()}
}

// loadUser resolves the session user. A session pointing at a deleted
// account is cleared.
func (h *Handler) loadUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := h.sessions.UserID(r)
		if id == "" {
			next.ServeHTTP(w, r)

			return
		}

		u, err := h.svc.Users.Get(r.Context(), id)
		if err != nil {
			if !errors.Is(err, userservice.ErrNotFound) {
				h.serverError(w, r, err)

				return
			}

			if err := h.sessions.SignOut(w, r); err != nil {
				h.lg.Error("sign out stale session error", "user_id", id, "error", err)
			}

			next.ServeHTTP(w, r)

			return
		}

		next.ServeHTTP(w, r.WithContext(withUser(r.Context(), u)))
	})
}

func (h *Handler) requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := userFrom(r.Context()); !ok {
			q := url.Values{"redirectTo": {r.URL.RequestURI()}}
			http.Redirect(w, r, "/login?"+q.Encode(), http.StatusSeeOther)

			return
		}

		next.ServeHTTP(w, r)
	})
}

func (h *Handler) requireAnonymous(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := userFrom(r.Context()); ok {
			http.Redirect(w, r, "/", http.StatusSeeOther)

			return
		}

		next.ServeHTTP(w, r)
	})
}

func (h *Handler) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if u, ok := userFrom(r.Context()); !ok || !u.IsAdmin() {
			h.renderError(w, r, http.StatusForbidden)

			return
		}

		next.ServeHTTP(w, r)
	})
}
