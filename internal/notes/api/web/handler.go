// Package web serves the HTML pages: sign in and sign up, notes, account
// settings and the admin user list.
package web

import (
	"context"
	"fmt"
	"html/template"
	"io"

	"github.com/Leopold1975/notes_app/internal/notes/domain/models"
	"github.com/Leopold1975/notes_app/internal/notes/services/authservice"
	"github.com/Leopold1975/notes_app/internal/notes/services/noteservice"
	"github.com/Leopold1975/notes_app/internal/notes/services/userservice"
	"github.com/Leopold1975/notes_app/internal/pkg/config"
	"github.com/Leopold1975/notes_app/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type AuthService interface {
	SignUp(context.Context, authservice.SignUpRequest) (models.User, error)
	Login(ctx context.Context, login, password string) (models.User, error)
	ChangePassword(context.Context, authservice.ChangePasswordRequest) error
}

type UserService interface {
	Get(context.Context, string) (models.User, error)
	GetByUsername(context.Context, string) (models.User, error)
	UpdateProfile(context.Context, userservice.UpdateProfileRequest) (models.User, error)
	Delete(context.Context, string) error
	List(context.Context, userservice.ListRequest) (userservice.ListResult, error)
	SetImage(ctx context.Context, userID string, data []byte) error
	Image(ctx context.Context, username string) (io.ReadCloser, string, error)
}

type NoteService interface {
	Create(context.Context, noteservice.Actor, noteservice.NoteInput) (models.Note, error)
	Get(context.Context, noteservice.Actor, string) (models.Note, error)
	Update(context.Context, noteservice.Actor, string, noteservice.NoteInput) (models.Note, error)
	Delete(context.Context, noteservice.Actor, string) error
	List(context.Context, noteservice.ListRequest) (noteservice.ListResult, error)
}

type Captcha interface {
	Enabled() bool
	SiteKey() string
}

type Services struct {
	Auth    AuthService
	Users   UserService
	Notes   NoteService
	Captcha Captcha
}

type Handler struct {
	svc        Services
	sessions   *sessionManager
	themes     *themeStore
	pages      map[string]*template.Template
	pagination config.Pagination
	lg         logger.Logger
}

func New(cfg config.Config, svc Services, lg logger.Logger) (*Handler, error) {
	pages, err := parsePages()
	if err != nil {
		return nil, fmt.Errorf("parse templates error: %w", err)
	}

	return &Handler{
		svc:        svc,
		sessions:   newSessionManager(cfg.Session),
		themes:     newThemeStore(cfg.Session.Secret, cfg.Session.Secure),
		pages:      pages,
		pagination: cfg.Pagination,
		lg:         lg,
	}, nil
}

// Mount registers the HTML routes on r.
func (h *Handler) Mount(r chi.Router) {
	r.NotFound(h.notFound)
	r.MethodNotAllowed(h.methodNotAllowed)

	r.Group(func(r chi.Router) {
		r.Use(h.loadUser)

		r.Get("/", h.home)
		r.Post("/resources/theme", h.setTheme)
		r.Post("/logout", h.logout)

		r.Get("/users/{username}", h.profile)
		r.Get("/users/{username}/image", h.profileImage)

		r.Group(func(r chi.Router) {
			r.Use(h.requireAnonymous)

			r.Get("/login", h.loginPage)
			r.Post("/login", h.login)
			r.Get("/signup", h.signupPage)
			r.Post("/signup", h.signup)
		})

		r.Group(func(r chi.Router) {
			r.Use(h.requireUser)

			r.Get("/notes", h.listNotes)
			r.Get("/notes/new", h.newNotePage)
			r.Post("/notes/new", h.createNote)
			r.Get("/notes/{id}", h.showNote)
			r.Get("/notes/{id}/edit", h.editNotePage)
			r.Post("/notes/{id}/edit", h.updateNote)
			r.Post("/notes/{id}/delete", h.deleteNote)

			r.Get("/settings/profile", h.settingsPage)
			r.Post("/settings/profile", h.updateProfile)
			r.Post("/settings/profile/password", h.changePassword)
			r.Post("/settings/profile/photo", h.uploadPhoto)
			r.Post("/settings/profile/delete", h.deleteAccount)
		})

		r.Group(func(r chi.Router) {
			r.Use(h.requireUser, h.requireAdmin)

			r.Get("/admin/users", h.listUsers)
		})
	})
}
