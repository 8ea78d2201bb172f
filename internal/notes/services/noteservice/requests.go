package noteservice

import "github.com/Leopold1975/notes_app/internal/notes/domain/models"

// Actor is the user on whose behalf an operation runs.
type Actor struct {
	UserID string
	Admin  bool
}

type NoteInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type ListRequest struct {
	OwnerID string
	Page    int
}

type ListResult struct {
	Notes    []models.Note
	Total    int
	Page     int
	PageSize int
}
