package noteservice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Leopold1975/notes_app/internal/notes/domain/models"
	"github.com/Leopold1975/notes_app/internal/notes/repository/noterepo"
	"github.com/Leopold1975/notes_app/internal/notes/services/validate"
	"github.com/Leopold1975/notes_app/internal/pkg/pagination"
	"github.com/Leopold1975/notes_app/pkg/logger"
	"github.com/google/uuid"
)

var (
	ErrNotFound  = errors.New("note not found")
	ErrForbidden = errors.New("forbidden")
)

type Repository interface {
	CreateNote(context.Context, models.Note) error
	GetNote(context.Context, string) (models.Note, error)
	UpdateNote(context.Context, models.Note) error
	DeleteNote(context.Context, string) error
	ListNotes(context.Context, noterepo.ListNotesRequest) ([]models.Note, int, error)
}

type Cache interface {
	GetNote(context.Context, string) (models.Note, error)
	SetNote(context.Context, models.Note) error
	DeleteNote(context.Context, string) error
}

type NoteService struct {
	noteRepo Repository
	cache    Cache
	lg       logger.Logger
	pageSize int
	now      func() time.Time
}

func New(noteRepo Repository, cache Cache, lg logger.Logger, pageSize int) *NoteService {
	return &NoteService{
		noteRepo: noteRepo,
		cache:    cache,
		lg:       lg,
		pageSize: pageSize,
		now:      time.Now,
	}
}

func (ns *NoteService) Create(ctx context.Context, actor Actor, in NoteInput) (models.Note, error) {
	title, content, err := checkInput(in)
	if err != nil {
		return models.Note{}, err
	}

	now := ns.now().UTC()
	note := models.Note{
		ID:        uuid.NewString(),
		OwnerID:   actor.UserID,
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := ns.noteRepo.CreateNote(ctx, note); err != nil {
		return models.Note{}, fmt.Errorf("create note error: %w", err)
	}

	ns.setCache(ctx, note)

	return note, nil
}

// Get returns the note when actor owns it or is an admin. Notes of other
// users are reported as missing so their ids are not disclosed.
func (ns *NoteService) Get(ctx context.Context, actor Actor, id string) (models.Note, error) {
	note, err := ns.get(ctx, id)
	if err != nil {
		return models.Note{}, err
	}

	if note.OwnerID != actor.UserID && !actor.Admin {
		return models.Note{}, ErrNotFound
	}

	return note, nil
}

func (ns *NoteService) Update(ctx context.Context, actor Actor, id string, in NoteInput) (models.Note, error) {
	note, err := ns.owned(ctx, actor, id)
	if err != nil {
		return models.Note{}, err
	}

	title, content, err := checkInput(in)
	if err != nil {
		return models.Note{}, err
	}

	note.Title = title
	note.Content = content
	note.UpdatedAt = ns.now().UTC()

	if err := ns.noteRepo.UpdateNote(ctx, note); err != nil {
		ns.dropCache(ctx, id)

		return models.Note{}, fmt.Errorf("update note error: %w", notFoundOr(err))
	}

	ns.setCache(ctx, note)

	return note, nil
}

func (ns *NoteService) Delete(ctx context.Context, actor Actor, id string) error {
	if _, err := ns.owned(ctx, actor, id); err != nil {
		return err
	}

	err := ns.noteRepo.DeleteNote(ctx, id)
	ns.dropCache(ctx, id)

	if err != nil {
		return fmt.Errorf("delete note error: %w", notFoundOr(err))
	}

	return nil
}

func (ns *NoteService) List(ctx context.Context, req ListRequest) (ListResult, error) {
	page := max(req.Page, 1)

	notes, total, err := ns.noteRepo.ListNotes(ctx, noterepo.ListNotesRequest{
		OwnerID: req.OwnerID,
		Offset:  pagination.Offset(page, ns.pageSize),
		Limit:   ns.pageSize,
	})
	if err != nil {
		return ListResult{}, fmt.Errorf("list notes error: %w", err)
	}

	return ListResult{
		Notes:    notes,
		Total:    total,
		Page:     page,
		PageSize: ns.pageSize,
	}, nil
}

// owned loads a note that only its owner may change. Admins read any note
// but get ErrForbidden here; everyone else sees ErrNotFound.
func (ns *NoteService) owned(ctx context.Context, actor Actor, id string) (models.Note, error) {
	note, err := ns.get(ctx, id)
	if err != nil {
		return models.Note{}, err
	}

	if note.OwnerID != actor.UserID {
		if actor.Admin {
			return models.Note{}, ErrForbidden
		}

		return models.Note{}, ErrNotFound
	}

	return note, nil
}

func (ns *NoteService) get(ctx context.Context, id string) (models.Note, error) {
	if _, err := uuid.Parse(id); err != nil {
		return models.Note{}, ErrNotFound
	}

	note, err := ns.cache.GetNote(ctx, id)
	if err == nil {
		return note, nil
	}

	if !errors.Is(err, noterepo.ErrNotFound) {
		ns.lg.Error("get cached note error", "note_id", id, "error", err)
	}

	note, err = ns.noteRepo.GetNote(ctx, id)
	if err != nil {
		return models.Note{}, fmt.Errorf("get note error: %w", notFoundOr(err))
	}

	ns.setCache(ctx, note)

	return note, nil
}

func (ns *NoteService) setCache(ctx context.Context, note models.Note) {
	if err := ns.cache.SetNote(ctx, note); err != nil {
		ns.lg.Error("set cached note error", "note_id", note.ID, "error", err)
	}
}

func (ns *NoteService) dropCache(ctx context.Context, id string) {
	if err := ns.cache.DeleteNote(ctx, id); err != nil {
		ns.lg.Error("delete cached note error", "note_id", id, "error", err)
	}
}

func checkInput(in NoteInput) (string, string, error) {
	errs := validate.Errors{}

	title := validate.Text(errs, "title", "Title", in.Title, validate.TitleMax)
	content := validate.Text(errs, "content", "Content", in.Content, validate.ContentMax)

	return title, content, errs.Err()
}

func notFoundOr(err error) error {
	if errors.Is(err, noterepo.ErrNotFound) {
		return ErrNotFound
	}

	return err
}
