package postgres_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/Leopold1975/notes_app/internal/notes/domain/models"
	repo "github.com/Leopold1975/notes_app/internal/notes/repository/noterepo"
	"github.com/Leopold1975/notes_app/internal/notes/repository/noterepo/postgres"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/suite"
)

var noteColumns = []string{"id", "owner_id", "title", "content", "created_at", "updated_at"}

type NoteRepoSuite struct {
	suite.Suite
	mock pgxmock.PgxPoolIface
	repo postgres.NotesPostgresRepo
	ctx  context.Context
}

func (s *NoteRepoSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	s.Require().NoError(err)

	s.mock = mock
	s.repo = postgres.New(mock)
	s.ctx = context.Background()
}

func (s *NoteRepoSuite) TearDownTest() {
	s.Require().NoError(s.mock.ExpectationsWereMet())
	s.mock.Close()
}

func testNote(id string) models.Note {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	return models.Note{
		ID:        id,
		OwnerID:   "owner",
		Title:     "Groceries",
		Content:   "milk, eggs",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func noteRow(n models.Note) []any {
	return []any{n.ID, n.OwnerID, n.Title, n.Content, n.CreatedAt, n.UpdatedAt}
}

func (s *NoteRepoSuite) TestListNotesPage() {
	first, second := testNote("n3"), testNote("n4")

	s.mock.ExpectBeginTx(pgx.TxOptions{AccessMode: pgx.ReadOnly}) //nolint:exhaustruct
	s.mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM notes WHERE owner_id = $1")).
		WithArgs("owner").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(5))
	s.mock.ExpectQuery(regexp.QuoteMeta("FROM notes WHERE owner_id = $1 ORDER BY updated_at DESC, id ASC LIMIT 2 OFFSET 2")).
		WithArgs("owner").
		WillReturnRows(pgxmock.NewRows(noteColumns).AddRow(noteRow(first)...).AddRow(noteRow(second)...))
	s.mock.ExpectCommit()

	notes, total, err := s.repo.ListNotes(s.ctx, repo.ListNotesRequest{OwnerID: "owner", Offset: 2, Limit: 2})
	s.Require().NoError(err, "expected %v	actual %v", nil, err)
	s.Equal(5, total)
	s.Equal([]models.Note{first, second}, notes)
}

func (s *NoteRepoSuite) TestListNotesFirstPageHasNoOffset() {
	s.mock.ExpectBeginTx(pgx.TxOptions{AccessMode: pgx.ReadOnly}) //nolint:exhaustruct
	s.mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM notes WHERE owner_id = $1")).
		WithArgs("owner").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(0))
	s.mock.ExpectQuery(regexp.QuoteMeta("ORDER BY updated_at DESC, id ASC LIMIT 20") + "$").
		WithArgs("owner").
		WillReturnRows(pgxmock.NewRows(noteColumns))
	s.mock.ExpectCommit()

	notes, total, err := s.repo.ListNotes(s.ctx, repo.ListNotesRequest{OwnerID: "owner", Offset: 0, Limit: 20})
	s.Require().NoError(err)
	s.Zero(total)
	s.Empty(notes)
}

func (s *NoteRepoSuite) TestListNotesRollsBack() {
	errDown := errors.New("db is down")

	s.mock.ExpectBeginTx(pgx.TxOptions{AccessMode: pgx.ReadOnly}) //nolint:exhaustruct
	s.mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM notes")).
		WithArgs("owner").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(1))
	s.mock.ExpectQuery(regexp.QuoteMeta("ORDER BY updated_at DESC")).
		WithArgs("owner").
		WillReturnError(errDown)
	s.mock.ExpectRollback()

	_, _, err := s.repo.ListNotes(s.ctx, repo.ListNotesRequest{OwnerID: "owner", Offset: 0, Limit: 2})
	s.Require().ErrorIs(err, errDown)
}

func (s *NoteRepoSuite) TestGetNoteNotFound() {
	s.mock.ExpectQuery(regexp.QuoteMeta("FROM notes WHERE id = $1")).
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows(noteColumns))

	_, err := s.repo.GetNote(s.ctx, "missing")
	s.Require().ErrorIs(err, repo.ErrNotFound)
}

func (s *NoteRepoSuite) TestUpdateAndDeleteMissing() {
	n := testNote("missing")

	s.mock.ExpectExec(regexp.QuoteMeta("UPDATE notes SET title = $1, content = $2, updated_at = $3 WHERE id = $4")).
		WithArgs(n.Title, n.Content, n.UpdatedAt, n.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	s.mock.ExpectExec(regexp.QuoteMeta("DELETE FROM notes WHERE id = $1")).
		WithArgs(n.ID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	s.Require().ErrorIs(s.repo.UpdateNote(s.ctx, n), repo.ErrNotFound)
	s.Require().ErrorIs(s.repo.DeleteNote(s.ctx, n.ID), repo.ErrNotFound)
}

func TestNoteRepoSuite(t *testing.T) {
	suite.Run(t, new(NoteRepoSuite))
}
