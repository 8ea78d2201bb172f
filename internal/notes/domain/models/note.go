package models

import "time"

type Note struct {
	ID        string    `json:"note_id"`  //nolint:tagliatelle
	OwnerID   string    `json:"owner_id"` //nolint:tagliatelle
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"` //nolint:tagliatelle
	UpdatedAt time.Time `json:"updated_at"` //nolint:tagliatelle
}
