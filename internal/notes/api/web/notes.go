package web

import (
	"errors"
	"net/http"

	"github.com/Leopold1975/notes_app/internal/notes/domain/models"
	"github.com/Leopold1975/notes_app/internal/notes/services/noteservice"
	"github.com/Leopold1975/notes_app/internal/notes/services/validate"
	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

type notesPage struct {
	Notes []models.Note
	Pager pager
}

type notePage struct {
	Note    models.Note
	CanEdit bool
}

func (h *Handler) listNotes(w http.ResponseWriter, r *http.Request) {
	page, ok := h.queryPage(w, r)
	if !ok {
		return
	}

	actor := actorFrom(r.Context())

	res, err := h.svc.Notes.List(r.Context(), noteservice.ListRequest{OwnerID: actor.UserID, Page: page})
	if err != nil {
		h.serverError(w, r, err)

		return
	}

	h.render(w, r, http.StatusOK, "notes", pageData{ //nolint:exhaustruct
		Title: "Notes",
		Data: notesPage{
			Notes: res.Notes,
			Pager: h.newPager(r, res.Page, res.Total, res.PageSize),
		},
	}, nil)
}

func (h *Handler) newNotePage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "note_form", pageData{Title: "New note"}, nil) //nolint:exhaustruct
}

func (h *Handler) createNote(w http.ResponseWriter, r *http.Request) {
	in := noteInput(r)

	note, err := h.svc.Notes.Create(r.Context(), actorFrom(r.Context()), in)
	if err != nil {
		h.noteError(w, r, "New note", in, nil, err)

		return
	}

	h.toast(w, r, Toast{Kind: ToastSuccess, Title: "Note created"})
	http.Redirect(w, r, "/notes/"+note.ID, http.StatusSeeOther)
}

func (h *Handler) showNote(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r.Context())

	note, err := h.svc.Notes.Get(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		h.noteError(w, r, "", noteservice.NoteInput{}, nil, err)

		return
	}

	h.render(w, r, http.StatusOK, "note", pageData{ //nolint:exhaustruct
		Title: note.Title,
		Data:  notePage{Note: note, CanEdit: note.OwnerID == actor.UserID},
	}, noteLabels(note))
}

func (h *Handler) editNotePage(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r.Context())

	note, err := h.svc.Notes.Get(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		h.noteError(w, r, "", noteservice.NoteInput{}, nil, err)

		return
	}

	if note.OwnerID != actor.UserID {
		h.renderError(w, r, http.StatusForbidden)

		return
	}

	h.render(w, r, http.StatusOK, "note_form", pageData{ //nolint:exhaustruct
		Title: "Edit " + note.Title,
		Form:  map[string]string{"title": note.Title, "content": note.Content},
		Data:  note,
	}, noteLabels(note))
}

func (h *Handler) updateNote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	in := noteInput(r)

	note, err := h.svc.Notes.Update(r.Context(), actorFrom(r.Context()), id, in)
	if err != nil {
		h.noteError(w, r, "Edit note", in, models.Note{ID: id}, err) //nolint:exhaustruct

		return
	}

	h.toast(w, r, Toast{Kind: ToastSuccess, Title: "Note saved"})
	http.Redirect(w, r, "/notes/"+note.ID, http.StatusSeeOther)
}

func (h *Handler) deleteNote(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Notes.Delete(r.Context(), actorFrom(r.Context()), chi.URLParam(r, "id")); err != nil {
		h.noteError(w, r, "", noteservice.NoteInput{}, nil, err)

		return
	}

	h.toast(w, r, Toast{Kind: ToastSuccess, Title: "Note deleted"})
	http.Redirect(w, r, "/notes", http.StatusSeeOther)
}

// noteError maps note service errors to pages. Validation errors render the
// form again with the submitted input.
func (h *Handler) noteError(w http.ResponseWriter, r *http.Request, title string, in noteservice.NoteInput,
	note any, err error,
) {
	var verrs validate.Errors

	switch {
	case errors.As(err, &verrs):
		h.render(w, r, http.StatusBadRequest, "note_form", pageData{ //nolint:exhaustruct
			Title:  title,
			Form:   map[string]string{"title": in.Title, "content": in.Content},
			Errors: verrs,
			Data:   note,
		}, nil)
	case errors.Is(err, noteservice.ErrNotFound):
		h.renderError(w, r, http.StatusNotFound)
	case errors.Is(err, noteservice.ErrForbidden):
		h.renderError(w, r, http.StatusForbidden)
	default:
		h.serverError(w, r, err)
	}
}

func noteInput(r *http.Request) noteservice.NoteInput {
	return noteservice.NoteInput{
		Title:   r.PostFormValue("title"),
		Content: r.PostFormValue("content"),
	}
}

func noteLabels(n models.Note) map[string]string {
	return map[string]string{
		"/notes/" + n.ID:           n.Title,
		"/notes/" + n.ID + "/edit": "Edit",
	}
}

// queryPage binds the optional page query parameter. A malformed value is
// answered with 400.
func (h *Handler) queryPage(w http.ResponseWriter, r *http.Request) (int, bool) {
	page := 1

	if err := runtime.BindQueryParameter("form", true, false, "page", r.URL.Query(), &page); err != nil {
		h.renderError(w, r, http.StatusBadRequest)

		return 0, false
	}

	return page, true
}
