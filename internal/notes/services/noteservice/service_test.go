package noteservice_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/Leopold1975/notes_app/internal/notes/domain/models"
	cachemem "github.com/Leopold1975/notes_app/internal/notes/repository/notecache/memory"
	notemem "github.com/Leopold1975/notes_app/internal/notes/repository/noterepo/memory"
	"github.com/Leopold1975/notes_app/internal/notes/services/noteservice"
	"github.com/Leopold1975/notes_app/internal/notes/services/validate"
	"github.com/Leopold1975/notes_app/pkg/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var errCacheDown = errors.New("cache is down")

type brokenCache struct{}

func (brokenCache) GetNote(context.Context, string) (models.Note, error) {
	return models.Note{}, errCacheDown
}

func (brokenCache) SetNote(context.Context, models.Note) error { return errCacheDown }

func (brokenCache) DeleteNote(context.Context, string) error { return errCacheDown }

type NoteSuite struct {
	suite.Suite
	repo  *notemem.NotesMemoryRepo
	cache *cachemem.NoteCache
	ns    *noteservice.NoteService
	ctx   context.Context
	owner noteservice.Actor
	other noteservice.Actor
	admin noteservice.Actor
}

func (s *NoteSuite) SetupTest() {
	s.ctx = context.Background()
	s.repo = notemem.New()
	s.cache = cachemem.New()
	s.ns = noteservice.New(s.repo, s.cache, logger.FromZap(zap.NewNop()), 3)
	s.owner = noteservice.Actor{UserID: uuid.NewString()}
	s.other = noteservice.Actor{UserID: uuid.NewString()}
	s.admin = noteservice.Actor{UserID: uuid.NewString(), Admin: true}
}

func TestNoteSuite(t *testing.T) {
	suite.Run(t, new(NoteSuite))
}

func (s *NoteSuite) create(title string) models.Note {
	n, err := s.ns.Create(s.ctx, s.owner, noteservice.NoteInput{Title: title, Content: "content of " + title})
	s.Require().NoError(err)

	return n
}

func (s *NoteSuite) TestCreate() {
	n, err := s.ns.Create(s.ctx, s.owner, noteservice.NoteInput{Title: "  Groceries ", Content: "milk"})
	s.Require().NoError(err)
	s.Equal("Groceries", n.Title)
	s.Equal(s.owner.UserID, n.OwnerID)
	s.Equal(n.CreatedAt, n.UpdatedAt)

	stored, err := s.repo.GetNote(s.ctx, n.ID)
	s.Require().NoError(err)
	s.Equal(n, stored)
	s.Equal(1, s.cache.Len())
}

func (s *NoteSuite) TestCreateInvalid() {
	_, err := s.ns.Create(s.ctx, s.owner, noteservice.NoteInput{
		Title:   strings.Repeat("t", validate.TitleMax+1),
		Content: "",
	})
	s.Require().ErrorIs(err, validate.ErrValidation)

	var verrs validate.Errors
	s.Require().True(errors.As(err, &verrs))
	s.Equal("Title is too long", verrs["title"])
	s.Equal("Content is required", verrs["content"])
}

func (s *NoteSuite) TestGetReadThrough() {
	n := s.create("first")
	s.Require().NoError(s.cache.DeleteNote(s.ctx, n.ID))

	got, err := s.ns.Get(s.ctx, s.owner, n.ID)
	s.Require().NoError(err)
	s.Equal(n.Title, got.Title)
	s.Equal(1, s.cache.Misses)

	_, err = s.ns.Get(s.ctx, s.owner, n.ID)
	s.Require().NoError(err)
	s.Equal(1, s.cache.Hits)
}

func (s *NoteSuite) TestGetAccess() {
	n := s.create("private")

	_, err := s.ns.Get(s.ctx, s.other, n.ID)
	s.ErrorIs(err, noteservice.ErrNotFound)

	got, err := s.ns.Get(s.ctx, s.admin, n.ID)
	s.Require().NoError(err)
	s.Equal(n.ID, got.ID)

	_, err = s.ns.Get(s.ctx, s.owner, "not-a-uuid")
	s.ErrorIs(err, noteservice.ErrNotFound)

	_, err = s.ns.Get(s.ctx, s.owner, uuid.NewString())
	s.ErrorIs(err, noteservice.ErrNotFound)
}

func (s *NoteSuite) TestUpdate() {
	n := s.create("draft")

	got, err := s.ns.Update(s.ctx, s.owner, n.ID, noteservice.NoteInput{Title: "final", Content: "done"})
	s.Require().NoError(err)
	s.Equal("final", got.Title)
	s.False(got.UpdatedAt.Before(n.UpdatedAt))

	cached, err := s.cache.GetNote(s.ctx, n.ID)
	s.Require().NoError(err)
	s.Equal("final", cached.Title)

	_, err = s.ns.Update(s.ctx, s.other, n.ID, noteservice.NoteInput{Title: "x", Content: "y"})
	s.ErrorIs(err, noteservice.ErrNotFound)

	_, err = s.ns.Update(s.ctx, s.admin, n.ID, noteservice.NoteInput{Title: "x", Content: "y"})
	s.ErrorIs(err, noteservice.ErrForbidden)

	_, err = s.ns.Update(s.ctx, s.owner, n.ID, noteservice.NoteInput{Title: "", Content: "y"})
	s.ErrorIs(err, validate.ErrValidation)
}

func (s *NoteSuite) TestDelete() {
	n := s.create("trash")

	s.ErrorIs(s.ns.Delete(s.ctx, s.admin, n.ID), noteservice.ErrForbidden)
	s.ErrorIs(s.ns.Delete(s.ctx, s.other, n.ID), noteservice.ErrNotFound)

	s.Require().NoError(s.ns.Delete(s.ctx, s.owner, n.ID))
	s.Zero(s.cache.Len())

	_, err := s.repo.GetNote(s.ctx, n.ID)
	s.Require().Error(err)

	s.ErrorIs(s.ns.Delete(s.ctx, s.owner, n.ID), noteservice.ErrNotFound)
}

func (s *NoteSuite) TestList() {
	for i := range 5 {
		s.create(fmt.Sprintf("note %d", i))
	}

	_, err := s.ns.Create(s.ctx, s.other, noteservice.NoteInput{Title: "foreign", Content: "x"})
	s.Require().NoError(err)

	res, err := s.ns.List(s.ctx, noteservice.ListRequest{OwnerID: s.owner.UserID, Page: 1})
	s.Require().NoError(err)
	s.Equal(5, res.Total)
	s.Equal(3, res.PageSize)
	s.Len(res.Notes, 3)

	res, err = s.ns.List(s.ctx, noteservice.ListRequest{OwnerID: s.owner.UserID, Page: 2})
	s.Require().NoError(err)
	s.Len(res.Notes, 2)

	for _, n := range res.Notes {
		s.Equal(s.owner.UserID, n.OwnerID)
	}

	res, err = s.ns.List(s.ctx, noteservice.ListRequest{OwnerID: s.owner.UserID, Page: 9})
	s.Require().NoError(err)
	s.Empty(res.Notes)
}

func (s *NoteSuite) TestCacheFailureIsLogged() {
	core, logs := observer.New(zapcore.ErrorLevel)
	ns := noteservice.New(s.repo, brokenCache{}, logger.FromZap(zap.New(core)), 3)

	n, err := ns.Create(s.ctx, s.owner, noteservice.NoteInput{Title: "t", Content: "c"})
	s.Require().NoError(err)

	got, err := ns.Get(s.ctx, s.owner, n.ID)
	s.Require().NoError(err)
	s.Equal(n.ID, got.ID)

	s.Require().NoError(ns.Delete(s.ctx, s.owner, n.ID))
	s.Positive(logs.FilterMessage("set cached note error").Len())
	s.Equal(2, logs.FilterMessage("get cached note error").Len())
	s.Equal(1, logs.FilterMessage("delete cached note error").Len())
}
