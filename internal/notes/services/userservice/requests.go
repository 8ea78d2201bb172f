package userservice

import "github.com/Leopold1975/notes_app/internal/notes/domain/models"

type UpdateProfileRequest struct {
	UserID   string
	Name     string
	Username string
}

type ListRequest struct {
	Search string
	Page   int
}

type ListResult struct {
	Users    []models.User
	Total    int
	Page     int
	PageSize int
}
