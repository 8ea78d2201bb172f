package memory

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/Leopold1975/notes_app/internal/notes/repository/imagestore"
)

type object struct {
	contentType string
	data        []byte
}

// ImageStore keeps images in a map. It is safe for concurrent use.
type ImageStore struct {
	mu      sync.RWMutex
	objects map[string]object
}

func New() *ImageStore {
	return &ImageStore{
		objects: make(map[string]object),
	}
}

func (s *ImageStore) Put(_ context.Context, key, contentType string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.objects[key] = object{contentType: contentType, data: bytes.Clone(data)}

	return nil
}

func (s *ImageStore) Get(_ context.Context, key string) (io.ReadCloser, string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.objects[key]
	if !ok {
		return nil, "", imagestore.ErrNotFound
	}

	return io.NopCloser(bytes.NewReader(o.data)), o.contentType, nil
}

func (s *ImageStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.objects, key)

	return nil
}

func (s *ImageStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.objects))
	for k := range s.objects {
		keys = append(keys, k)
	}

	return keys
}
