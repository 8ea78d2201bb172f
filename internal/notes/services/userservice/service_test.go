package userservice_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/Leopold1975/notes_app/internal/notes/domain/models"
	imagemem "github.com/Leopold1975/notes_app/internal/notes/repository/imagestore/memory"
	cachemem "github.com/Leopold1975/notes_app/internal/notes/repository/notecache/memory"
	usermem "github.com/Leopold1975/notes_app/internal/notes/repository/userrepo/memory"
	"github.com/Leopold1975/notes_app/internal/notes/services/userservice"
	"github.com/Leopold1975/notes_app/internal/notes/services/validate"
	"github.com/Leopold1975/notes_app/pkg/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

type UserSuite struct {
	suite.Suite
	repo   *usermem.UsersMemoryRepo
	images *imagemem.ImageStore
	cache  *cachemem.NoteCache
	us     *userservice.UserService
	ctx    context.Context
	user   models.User
}

func (s *UserSuite) SetupTest() {
	s.ctx = context.Background()
	s.repo = usermem.New()
	s.images = imagemem.New()
	s.cache = cachemem.New()
	s.us = userservice.New(s.repo, s.images, s.cache, logger.FromZap(zap.NewNop()), 2)
	s.user = s.addUser("kody", time.Now().UTC())
}

func (s *UserSuite) addUser(username string, created time.Time) models.User {
	u := models.User{
		ID:        uuid.NewString(),
		Email:     username + "@example.com",
		Username:  username,
		Name:      "Name " + username,
		Role:      models.RoleUser,
		CreatedAt: created,
		UpdatedAt: created,
	}
	s.Require().NoError(s.repo.CreateUser(s.ctx, u, models.Password{UserID: u.ID, Hash: "x"}))

	return u
}

func TestUserSuite(t *testing.T) {
	suite.Run(t, new(UserSuite))
}

func (s *UserSuite) TestGet() {
	u, err := s.us.Get(s.ctx, s.user.ID)
	s.Require().NoError(err)
	s.Equal(s.user.Username, u.Username)

	u, err = s.us.GetByUsername(s.ctx, "KODY")
	s.Require().NoError(err)
	s.Equal(s.user.ID, u.ID)

	_, err = s.us.Get(s.ctx, uuid.NewString())
	s.ErrorIs(err, userservice.ErrNotFound)

	_, err = s.us.GetByUsername(s.ctx, "nobody")
	s.ErrorIs(err, userservice.ErrNotFound)
}

func (s *UserSuite) TestUpdateProfile() {
	u, err := s.us.UpdateProfile(s.ctx, userservice.UpdateProfileRequest{
		UserID:   s.user.ID,
		Name:     "  Kody Smith ",
		Username: "Kody_S",
	})
	s.Require().NoError(err)
	s.Equal("Kody Smith", u.Name)
	s.Equal("kody_s", u.Username)

	stored, err := s.repo.GetUserByID(s.ctx, s.user.ID)
	s.Require().NoError(err)
	s.Equal("kody_s", stored.Username)
}

func (s *UserSuite) TestUpdateProfileInvalid() {
	_, err := s.us.UpdateProfile(s.ctx, userservice.UpdateProfileRequest{
		UserID:   s.user.ID,
		Name:     "",
		Username: "a",
	})
	s.Require().ErrorIs(err, validate.ErrValidation)

	var verrs validate.Errors
	s.Require().True(errors.As(err, &verrs))
	s.Contains(verrs, "name")
	s.Contains(verrs, "username")
}

func (s *UserSuite) TestUpdateProfileTakenUsername() {
	s.addUser("taken", time.Now().UTC())

	_, err := s.us.UpdateProfile(s.ctx, userservice.UpdateProfileRequest{
		UserID:   s.user.ID,
		Name:     "Kody",
		Username: "taken",
	})

	var verrs validate.Errors
	s.Require().True(errors.As(err, &verrs))
	s.Contains(verrs, "username")
}

func (s *UserSuite) TestList() {
	base := time.Now().UTC().Add(-time.Hour)
	for i := range 4 {
		s.addUser(fmt.Sprintf("user%d", i), base.Add(time.Duration(i)*time.Minute))
	}

	res, err := s.us.List(s.ctx, userservice.ListRequest{Page: 1})
	s.Require().NoError(err)
	s.Equal(5, res.Total)
	s.Equal(2, res.PageSize)
	s.Len(res.Users, 2)
	s.Equal("kody", res.Users[0].Username)

	res, err = s.us.List(s.ctx, userservice.ListRequest{Page: 3})
	s.Require().NoError(err)
	s.Len(res.Users, 1)
	s.Equal("user0", res.Users[0].Username)

	res, err = s.us.List(s.ctx, userservice.ListRequest{Search: "USER2", Page: 0})
	s.Require().NoError(err)
	s.Equal(1, res.Page)
	s.Equal(1, res.Total)
	s.Equal("user2", res.Users[0].Username)
}

func (s *UserSuite) TestSetImage() {
	s.Require().NoError(s.us.SetImage(s.ctx, s.user.ID, pngHeader))

	u, err := s.us.Get(s.ctx, s.user.ID)
	s.Require().NoError(err)
	s.True(u.HasImage())
	first := u.ImageKey

	body, contentType, err := s.us.Image(s.ctx, "kody")
	s.Require().NoError(err)
	defer body.Close()

	data, err := io.ReadAll(body)
	s.Require().NoError(err)
	s.Equal("image/png", contentType)
	s.Equal(pngHeader, data)

	s.Require().NoError(s.us.SetImage(s.ctx, s.user.ID, pngHeader))
	s.Equal(1, len(s.images.Keys()))
	s.NotContains(s.images.Keys(), first)
}

func (s *UserSuite) TestSetImageRejected() {
	err := s.us.SetImage(s.ctx, s.user.ID, []byte("plain text, not an image"))
	s.ErrorIs(err, userservice.ErrImageUnsupported)

	big := append(bytes.Clone(pngHeader), make([]byte, userservice.MaxImageSize)...)
	err = s.us.SetImage(s.ctx, s.user.ID, big)
	s.ErrorIs(err, userservice.ErrImageTooLarge)

	s.Empty(s.images.Keys())
}

func (s *UserSuite) TestImageMissing() {
	_, _, err := s.us.Image(s.ctx, "kody")
	s.ErrorIs(err, userservice.ErrNotFound)
}

func (s *UserSuite) TestDelete() {
	s.Require().NoError(s.us.SetImage(s.ctx, s.user.ID, pngHeader))
	s.Require().NoError(s.cache.SetNote(s.ctx, models.Note{ID: uuid.NewString(), OwnerID: s.user.ID}))

	s.Require().NoError(s.us.Delete(s.ctx, s.user.ID))

	_, err := s.us.Get(s.ctx, s.user.ID)
	s.ErrorIs(err, userservice.ErrNotFound)
	s.Empty(s.images.Keys())
	s.Zero(s.cache.Len())

	s.ErrorIs(s.us.Delete(s.ctx, s.user.ID), userservice.ErrNotFound)
}
