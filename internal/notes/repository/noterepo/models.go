package noterepo

import "errors"

var ErrNotFound = errors.New("note not found")

type ListNotesRequest struct {
	OwnerID string
	Offset  int
	Limit   int
}
