package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/Leopold1975/notes_app/internal/notes/domain/models"
	repo "github.com/Leopold1975/notes_app/internal/notes/repository/noterepo"
)

// NotesMemoryRepo is an in-memory notes store. It is safe for concurrent use.
type NotesMemoryRepo struct {
	mu    sync.RWMutex
	notes map[string]models.Note
}

func New() *NotesMemoryRepo {
	return &NotesMemoryRepo{
		notes: make(map[string]models.Note),
	}
}

func (r *NotesMemoryRepo) CreateNote(_ context.Context, note models.Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.notes[note.ID] = note

	return nil
}

func (r *NotesMemoryRepo) GetNote(_ context.Context, id string) (models.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n, ok := r.notes[id]
	if !ok {
		return models.Note{}, repo.ErrNotFound
	}

	return n, nil
}

func (r *NotesMemoryRepo) UpdateNote(_ context.Context, note models.Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	old, ok := r.notes[note.ID]
	if !ok {
		return repo.ErrNotFound
	}

	old.Title = note.Title
	old.Content = note.Content
	old.UpdatedAt = note.UpdatedAt
	r.notes[note.ID] = old

	return nil
}

func (r *NotesMemoryRepo) DeleteNote(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.notes[id]; !ok {
		return repo.ErrNotFound
	}

	delete(r.notes, id)

	return nil
}

// DeleteOwner drops every note of ownerID, standing in for ON DELETE CASCADE.
func (r *NotesMemoryRepo) DeleteOwner(ownerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, n := range r.notes {
		if n.OwnerID == ownerID {
			delete(r.notes, id)
		}
	}
}

func (r *NotesMemoryRepo) ListNotes(_ context.Context, req repo.ListNotesRequest) ([]models.Note, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	owned := make([]models.Note, 0)

	for _, n := range r.notes {
		if n.OwnerID == req.OwnerID {
			owned = append(owned, n)
		}
	}

	sort.Slice(owned, func(i, j int) bool {
		if !owned[i].UpdatedAt.Equal(owned[j].UpdatedAt) {
			return owned[i].UpdatedAt.After(owned[j].UpdatedAt)
		}

		return owned[i].ID < owned[j].ID
	})

	total := len(owned)

	if req.Offset >= total {
		return []models.Note{}, total, nil
	}

	end := total
	if req.Limit > 0 && req.Offset+req.Limit < end {
		end = req.Offset + req.Limit
	}

	return owned[req.Offset:end], total, nil
}
