package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/Leopold1975/notes_app/internal/notes/domain/models"
	"github.com/Leopold1975/notes_app/internal/notes/repository/userrepo"
)

// UsersMemoryRepo is an in-memory users and passwords store with the same
// semantics as the postgres repository. It is safe for concurrent use.
type UsersMemoryRepo struct {
	mu        sync.RWMutex
	users     map[string]models.User
	passwords map[string]models.Password
}

func New() *UsersMemoryRepo {
	return &UsersMemoryRepo{
		users:     make(map[string]models.User),
		passwords: make(map[string]models.Password),
	}
}

func (r *UsersMemoryRepo) CreateUser(_ context.Context, u models.User, p models.Password) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[u.ID]; ok {
		return userrepo.ErrAlreadyExists
	}

	if err := r.checkUnique(u); err != nil {
		return err
	}

	r.users[u.ID] = u
	r.passwords[u.ID] = p

	return nil
}

func (r *UsersMemoryRepo) checkUnique(u models.User) error {
	for _, other := range r.users {
		if other.ID == u.ID {
			continue
		}

		if other.Email == u.Email {
			return userrepo.ErrEmailExists
		}

		if other.Username == u.Username {
			return userrepo.ErrUsernameExists
		}
	}

	return nil
}

func (r *UsersMemoryRepo) GetUserByID(_ context.Context, id string) (models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return models.User{}, userrepo.ErrNotFound
	}

	return u, nil
}

func (r *UsersMemoryRepo) GetUserByUsername(_ context.Context, username string) (models.User, error) {
	return r.find(func(u models.User) bool { return u.Username == strings.ToLower(username) })
}

func (r *UsersMemoryRepo) GetUserByLogin(_ context.Context, login string) (models.User, error) {
	login = strings.ToLower(login)

	return r.find(func(u models.User) bool { return u.Username == login || u.Email == login })
}

func (r *UsersMemoryRepo) find(match func(models.User) bool) (models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if match(u) {
			return u, nil
		}
	}

	return models.User{}, userrepo.ErrNotFound
}

func (r *UsersMemoryRepo) GetPassword(_ context.Context, userID string) (models.Password, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.passwords[userID]
	if !ok {
		return models.Password{}, userrepo.ErrNotFound
	}

	return p, nil
}

func (r *UsersMemoryRepo) UpdatePassword(_ context.Context, p models.Password) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.passwords[p.UserID]; !ok {
		return userrepo.ErrNotFound
	}

	r.passwords[p.UserID] = p

	return nil
}

func (r *UsersMemoryRepo) UpdateUser(_ context.Context, u models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[u.ID]; !ok {
		return userrepo.ErrNotFound
	}

	if err := r.checkUnique(u); err != nil {
		return err
	}

	r.users[u.ID] = u

	return nil
}

func (r *UsersMemoryRepo) DeleteUser(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return userrepo.ErrNotFound
	}

	delete(r.users, id)
	delete(r.passwords, id)

	return nil
}

func (r *UsersMemoryRepo) ListUsers(_ context.Context, req userrepo.ListUsersRequest) ([]models.User, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	search := strings.ToLower(strings.TrimSpace(req.Search))

	matched := make([]models.User, 0, len(r.users))

	for _, u := range r.users {
		if search == "" ||
			strings.Contains(u.Username, search) ||
			strings.Contains(strings.ToLower(u.Name), search) ||
			strings.Contains(u.Email, search) {
			matched = append(matched, u)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}

		return matched[i].ID < matched[j].ID
	})

	return page(matched, req.Offset, req.Limit), len(matched), nil
}

func page[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return []T{}
	}

	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}

	return items[offset:end]
}
