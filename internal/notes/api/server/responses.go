package server

import "github.com/Leopold1975/notes_app/internal/notes/domain/models"

type AuthRequest struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
}

type PatchNoteRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

type AuthUserResponse struct {
	Token string `json:"token"`
}

type ListNotesResponse struct {
	Notes    []models.Note `json:"notes"`
	Total    int           `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"` //nolint:tagliatelle
}
