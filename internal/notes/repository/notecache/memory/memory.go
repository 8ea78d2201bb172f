package memory

import (
	"context"
	"sync"

	"github.com/Leopold1975/notes_app/internal/notes/domain/models"
	"github.com/Leopold1975/notes_app/internal/notes/repository/noterepo"
)

// NoteCache mirrors the redis cache without expiry. Hits and Misses count
// GetNote outcomes.
type NoteCache struct {
	mu     sync.Mutex
	notes  map[string]models.Note
	Hits   int
	Misses int
}

func New() *NoteCache {
	return &NoteCache{
		notes: make(map[string]models.Note),
	}
}

func (c *NoteCache) SetNote(_ context.Context, note models.Note) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.notes[note.ID] = note

	return nil
}

func (c *NoteCache) GetNote(_ context.Context, id string) (models.Note, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok := c.notes[id]
	if !ok {
		c.Misses++

		return models.Note{}, noterepo.ErrNotFound
	}

	c.Hits++

	return n, nil
}

func (c *NoteCache) DeleteNote(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.notes, id)

	return nil
}

func (c *NoteCache) DeleteOwnerNotes(_ context.Context, ownerID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for id, n := range c.notes {
		if n.OwnerID == ownerID {
			delete(c.notes, id)
		}
	}

	return nil
}

func (c *NoteCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.notes)
}
