package userservice

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Leopold1975/notes_app/internal/notes/domain/models"
	"github.com/Leopold1975/notes_app/internal/notes/repository/imagestore"
	"github.com/Leopold1975/notes_app/internal/notes/repository/userrepo"
	"github.com/Leopold1975/notes_app/internal/notes/services/validate"
	"github.com/Leopold1975/notes_app/internal/pkg/pagination"
	"github.com/Leopold1975/notes_app/pkg/logger"
	"github.com/google/uuid"
)

const MaxImageSize = 3 << 20

var (
	ErrNotFound         = errors.New("user not found")
	ErrImageTooLarge    = errors.New("image is too large")
	ErrImageUnsupported = errors.New("unsupported image type")
)

var allowedImageTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/gif":  true,
	"image/webp": true,
}

type Repository interface {
	GetUserByID(context.Context, string) (models.User, error)
	GetUserByUsername(context.Context, string) (models.User, error)
	UpdateUser(context.Context, models.User) error
	DeleteUser(context.Context, string) error
	ListUsers(context.Context, userrepo.ListUsersRequest) ([]models.User, int, error)
}

type ImageStore interface {
	Put(ctx context.Context, key, contentType string, data []byte) error
	Get(ctx context.Context, key string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, key string) error
}

type NoteCache interface {
	DeleteOwnerNotes(ctx context.Context, ownerID string) error
}

type UserService struct {
	userRepo Repository
	images   ImageStore
	cache    NoteCache
	lg       logger.Logger
	pageSize int
	now      func() time.Time
}

func New(userRepo Repository, images ImageStore, cache NoteCache, lg logger.Logger, pageSize int) *UserService {
	return &UserService{
		userRepo: userRepo,
		images:   images,
		cache:    cache,
		lg:       lg,
		pageSize: pageSize,
		now:      time.Now,
	}
}

func (us *UserService) Get(ctx context.Context, id string) (models.User, error) {
	u, err := us.userRepo.GetUserByID(ctx, id)
	if err != nil {
		return models.User{}, notFoundOr(err)
	}

	return u, nil
}

func (us *UserService) GetByUsername(ctx context.Context, username string) (models.User, error) {
	u, err := us.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		return models.User{}, notFoundOr(err)
	}

	return u, nil
}

func (us *UserService) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (models.User, error) {
	errs := validate.Errors{}

	name := validate.Name(errs, "name", req.Name)
	username := validate.Username(errs, "username", req.Username)

	if err := errs.Err(); err != nil {
		return models.User{}, err
	}

	u, err := us.Get(ctx, req.UserID)
	if err != nil {
		return models.User{}, err
	}

	u.Name = name
	u.Username = username
	u.UpdatedAt = us.now().UTC()

	err = us.userRepo.UpdateUser(ctx, u)

	switch {
	case err == nil:
		return u, nil
	case errors.Is(err, userrepo.ErrUsernameExists):
		return models.User{}, validate.Errors{"username": "A user already exists with this username"}
	default:
		return models.User{}, fmt.Errorf("update user error: %w", notFoundOr(err))
	}
}

// Delete removes the account. Notes and password rows cascade in the
// database; the profile image and cached notes are cleaned up best effort.
func (us *UserService) Delete(ctx context.Context, id string) error {
	u, err := us.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := us.userRepo.DeleteUser(ctx, id); err != nil {
		return fmt.Errorf("delete user error: %w", notFoundOr(err))
	}

	if err := us.cache.DeleteOwnerNotes(ctx, id); err != nil {
		us.lg.Error("delete cached notes error", "user_id", id, "error", err)
	}

	if u.HasImage() {
		if err := us.images.Delete(ctx, u.ImageKey); err != nil {
			us.lg.Error("delete profile image error", "user_id", id, "key", u.ImageKey, "error", err)
		}
	}

	return nil
}

func (us *UserService) List(ctx context.Context, req ListRequest) (ListResult, error) {
	page := max(req.Page, 1)

	users, total, err := us.userRepo.ListUsers(ctx, userrepo.ListUsersRequest{
		Search: req.Search,
		Offset: pagination.Offset(page, us.pageSize),
		Limit:  us.pageSize,
	})
	if err != nil {
		return ListResult{}, fmt.Errorf("list users error: %w", err)
	}

	return ListResult{
		Users:    users,
		Total:    total,
		Page:     page,
		PageSize: us.pageSize,
	}, nil
}

// SetImage stores a new profile image and replaces the previous one. The
// content type is sniffed from the data, not taken from the client.
func (us *UserService) SetImage(ctx context.Context, userID string, data []byte) error {
	if len(data) > MaxImageSize {
		return ErrImageTooLarge
	}

	contentType := http.DetectContentType(data)
	if !allowedImageTypes[contentType] {
		return ErrImageUnsupported
	}

	u, err := us.Get(ctx, userID)
	if err != nil {
		return err
	}

	key := "users/" + u.ID + "/" + uuid.NewString()

	if err := us.images.Put(ctx, key, contentType, data); err != nil {
		return fmt.Errorf("put image error: %w", err)
	}

	oldKey := u.ImageKey
	u.ImageKey = key
	u.UpdatedAt = us.now().UTC()

	if err := us.userRepo.UpdateUser(ctx, u); err != nil {
		if errD := us.images.Delete(ctx, key); errD != nil {
			us.lg.Error("delete orphaned image error", "key", key, "error", errD)
		}

		return fmt.Errorf("update user error: %w", notFoundOr(err))
	}

	if oldKey != "" {
		if err := us.images.Delete(ctx, oldKey); err != nil {
			us.lg.Error("delete previous image error", "key", oldKey, "error", err)
		}
	}

	return nil
}

// Image opens the profile image of username; the caller closes the reader.
func (us *UserService) Image(ctx context.Context, username string) (io.ReadCloser, string, error) {
	u, err := us.GetByUsername(ctx, username)
	if err != nil {
		return nil, "", err
	}

	if !u.HasImage() {
		return nil, "", ErrNotFound
	}

	body, contentType, err := us.images.Get(ctx, u.ImageKey)
	if err != nil {
		if errors.Is(err, imagestore.ErrNotFound) {
			return nil, "", ErrNotFound
		}

		return nil, "", fmt.Errorf("get image error: %w", err)
	}

	return body, contentType, nil
}

func notFoundOr(err error) error {
	if errors.Is(err, userrepo.ErrNotFound) {
		return ErrNotFound
	}

	return err
}
