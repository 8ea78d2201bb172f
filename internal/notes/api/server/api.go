package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/Leopold1975/notes_app/internal/notes/domain/models"
	"github.com/Leopold1975/notes_app/internal/notes/services/authservice"
	"github.com/Leopold1975/notes_app/internal/notes/services/noteservice"
	"github.com/Leopold1975/notes_app/internal/notes/services/validate"
	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

const tokenHeader = "token"

// actor authenticates the request by its token header and writes 401 when
// that fails.
func (s *Server) actor(w http.ResponseWriter, r *http.Request) (noteservice.Actor, bool) {
	token := r.Header.Get(tokenHeader)
	if token == "" {
		handleError(w, fmt.Errorf("token required"), http.StatusUnauthorized) //nolint:perfsprint

		return noteservice.Actor{}, false
	}

	claims, err := s.authService.Authenticate(token)
	if err != nil {
		handleError(w, fmt.Errorf("authorization error: %w", err), http.StatusUnauthorized)

		return noteservice.Actor{}, false
	}

	return noteservice.Actor{UserID: claims.UserID(), Admin: claims.Role == models.RoleAdmin}, true
}

// Аутентификация пользователя
// (POST /api/v1/auth).
func (s *Server) PostAuth(w http.ResponseWriter, r *http.Request) {
	var b AuthRequest

	dec := json.NewDecoder(r.Body)

	err := dec.Decode(&b)
	if err != nil {
		handleError(w, fmt.Errorf("decode error: %w", err), http.StatusBadRequest)

		return
	}

	if b.Password == nil || b.Username == nil {
		handleError(w, fmt.Errorf("not enough parameters to auth user"), http.StatusBadRequest) //nolint:perfsprint

		return
	}

	u, err := s.authService.Login(r.Context(), *b.Username, *b.Password)
	if err != nil {
		if errors.Is(err, authservice.ErrInvalidCredentials) {
			handleError(w, fmt.Errorf("login error: %w", err), http.StatusUnauthorized)

			return
		}

		handleError(w, fmt.Errorf("login error: %w", err), http.StatusInternalServerError)

		return
	}

	token, err := s.authService.IssueToken(u)
	if err != nil {
		handleError(w, fmt.Errorf("issue token error: %w", err), http.StatusInternalServerError)

		return
	}

	writeJSON(w, http.StatusOK, AuthUserResponse{Token: token})
}

// Заметки пользователя постранично
// (GET /api/v1/notes).
func (s *Server) GetNotes(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.actor(w, r)
	if !ok {
		return
	}

	page := 1

	err := runtime.BindQueryParameter("form", true, false, "page", r.URL.Query(), &page)
	if err != nil {
		handleError(w, fmt.Errorf("invalid format for parameter page: %w", err), http.StatusBadRequest)

		return
	}

	res, err := s.noteService.List(r.Context(), noteservice.ListRequest{OwnerID: actor.UserID, Page: page})
	if err != nil {
		handleError(w, fmt.Errorf("list notes error: %w", err), http.StatusInternalServerError)

		return
	}

	writeJSON(w, http.StatusOK, ListNotesResponse{
		Notes:    res.Notes,
		Total:    res.Total,
		Page:     res.Page,
		PageSize: res.PageSize,
	})
}

// Создание заметки
// (POST /api/v1/notes).
func (s *Server) PostNote(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.actor(w, r)
	if !ok {
		return
	}

	var b noteservice.NoteInput

	dec := json.NewDecoder(r.Body)

	err := dec.Decode(&b)
	if err != nil {
		handleError(w, fmt.Errorf("decode error: %w", err), http.StatusBadRequest)

		return
	}

	note, err := s.noteService.Create(r.Context(), actor, b)
	if err != nil {
		handleNoteError(w, fmt.Errorf("create note error: %w", err))

		return
	}

	writeJSON(w, http.StatusCreated, note)
}

// Получение заметки по идентификатору
// (GET /api/v1/notes/{id}).
func (s *Server) GetNote(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.actor(w, r)
	if !ok {
		return
	}

	note, err := s.noteService.Get(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		handleNoteError(w, fmt.Errorf("get note error: %w", err))

		return
	}

	writeJSON(w, http.StatusOK, note)
}

// Обновление заметки, отсутствующие поля не меняются
// (PATCH /api/v1/notes/{id}).
func (s *Server) PatchNote(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.actor(w, r)
	if !ok {
		return
	}

	var b PatchNoteRequest

	dec := json.NewDecoder(r.Body)

	err := dec.Decode(&b)
	if err != nil {
		handleError(w, fmt.Errorf("decode error: %w", err), http.StatusBadRequest)

		return
	}

	id := chi.URLParam(r, "id")

	note, err := s.noteService.Get(r.Context(), actor, id)
	if err != nil {
		handleNoteError(w, fmt.Errorf("get note error: %w", err))

		return
	}

	in := noteservice.NoteInput{Title: note.Title, Content: note.Content}

	if b.Title != nil {
		in.Title = *b.Title
	}

	if b.Content != nil {
		in.Content = *b.Content
	}

	note, err = s.noteService.Update(r.Context(), actor, id, in)
	if err != nil {
		handleNoteError(w, fmt.Errorf("update note error: %w", err))

		return
	}

	writeJSON(w, http.StatusOK, note)
}

// Удаление заметки
// (DELETE /api/v1/notes/{id}).
func (s *Server) DeleteNote(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.actor(w, r)
	if !ok {
		return
	}

	if err := s.noteService.Delete(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		handleNoteError(w, fmt.Errorf("delete note error: %w", err))

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func handleNoteError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, validate.ErrValidation):
		handleError(w, err, http.StatusBadRequest)
	case errors.Is(err, noteservice.ErrNotFound):
		handleError(w, err, http.StatusNotFound)
	case errors.Is(err, noteservice.ErrForbidden):
		handleError(w, err, http.StatusForbidden)
	default:
		handleError(w, err, http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	bts, err := json.Marshal(v)
	if err != nil {
		handleError(w, fmt.Errorf("encode error: %w", err), http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(bts) //nolint:errcheck
}
