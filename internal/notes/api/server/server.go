package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Leopold1975/notes_app/internal/notes/domain/models"
	"github.com/Leopold1975/notes_app/internal/notes/services/noteservice"
	"github.com/Leopold1975/notes_app/internal/pkg/config"
	"github.com/Leopold1975/notes_app/internal/pkg/jwtauth"
	"github.com/Leopold1975/notes_app/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Server struct {
	serv        *http.Server
	noteService NoteService
	authService AuthService
	health      HealthCheck
	lg          logger.Logger
}

type NoteService interface {
	Create(context.Context, noteservice.Actor, noteservice.NoteInput) (models.Note, error)
	Get(context.Context, noteservice.Actor, string) (models.Note, error)
	Update(context.Context, noteservice.Actor, string, noteservice.NoteInput) (models.Note, error)
	Delete(context.Context, noteservice.Actor, string) error
	List(context.Context, noteservice.ListRequest) (noteservice.ListResult, error)
}

type AuthService interface {
	Login(ctx context.Context, login, password string) (models.User, error)
	IssueToken(models.User) (string, error)
	Authenticate(string) (jwtauth.Claims, error)
}

// Pages mounts the HTML surface.
type Pages interface {
	Mount(chi.Router)
}

type HealthCheck func(context.Context) error

func New(cfg config.Server, pages Pages, ns NoteService, authService AuthService, health HealthCheck,
	lg logger.Logger,
) *Server {
	s := &Server{
		noteService: ns,
		authService: authService,
		health:      health,
		lg:          lg,
	}

	s.serv = &http.Server{ //nolint:exhaustruct
		Addr:         cfg.Addr,
		Handler:      s.routes(pages),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s
}

func (s *Server) routes(pages Pages) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(loggingMiddleware(s.lg))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.GetHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
			handleError(w, errors.New("not found"), http.StatusNotFound) //nolint:goerr113
		})

		r.Post("/auth", s.PostAuth)
		r.Get("/notes", s.GetNotes)
		r.Post("/notes", s.PostNote)
		r.Get("/notes/{id}", s.GetNote)
		r.Patch("/notes/{id}", s.PatchNote)
		r.Delete("/notes/{id}", s.DeleteNote)
	})

	pages.Mount(r)

	return r
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.serv.Handler
}

func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		if err := s.serv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			close(errCh)
		}
	}()

	select {
	case <-ctx.Done():
		ctxS, cancel := context.WithTimeout(context.Background(), time.Second*5) //nolint:gomnd
		defer cancel()

		if err := s.Shutdown(ctxS); err != nil { //nolint:contextcheck
			return fmt.Errorf("context error: %w server error %w", ctxS.Err(), err)
		}

		if !errors.Is(ctx.Err(), context.Canceled) {
			return fmt.Errorf("context cancelled error: %w", ctx.Err())
		}

		return nil
	case err := <-errCh:
		return fmt.Errorf("listen and serve error: %w", err)
	}
}

func (s *Server) Shutdown(ctx context.Context) error {
	ctxS, cancel := context.WithTimeout(ctx, s.serv.IdleTimeout)
	defer cancel()

	if err := s.serv.Shutdown(ctxS); err != nil {
		return fmt.Errorf("shutdown server error: %w", err)
	}

	return nil
}

// Проверка готовности сервиса
// (GET /healthz).
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	if s.health != nil {
		if err := s.health(r.Context()); err != nil {
			handleError(w, fmt.Errorf("health check error: %w", err), http.StatusServiceUnavailable)

			return
		}
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok")) //nolint:errcheck
}
