package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Leopold1975/notes_app/internal/notes/domain/models"
	repo "github.com/Leopold1975/notes_app/internal/notes/repository/noterepo"
	"github.com/Leopold1975/notes_app/internal/pkg/pgtools"
	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

var noteColumns = []string{"id", "owner_id", "title", "content", "created_at", "updated_at"}

type NotesPostgresRepo struct {
	db pgtools.DB
}

func New(db pgtools.DB) NotesPostgresRepo {
	return NotesPostgresRepo{
		db: db,
	}
}

func (nr NotesPostgresRepo) CreateNote(ctx context.Context, note models.Note) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Insert("notes").
		Columns(noteColumns...).
		Values(note.ID, note.OwnerID, note.Title, note.Content, note.CreatedAt, note.UpdatedAt).ToSql()
	if err != nil {
		return fmt.Errorf("to sql error: %w", err)
	}

	if _, err := nr.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("exec error: %w", err)
	}

	return nil
}

func (nr NotesPostgresRepo) GetNote(ctx context.Context, id string) (models.Note, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Select(noteColumns...).
		From("notes").
		Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return models.Note{}, fmt.Errorf("to sql error: %w", err)
	}

	n, err := scanNote(nr.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Note{}, repo.ErrNotFound
		}

		return models.Note{}, fmt.Errorf("scan error: %w", err)
	}

	return n, nil
}

func (nr NotesPostgresRepo) UpdateNote(ctx context.Context, note models.Note) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Update("notes").
		Set("title", note.Title).
		Set("content", note.Content).
		Set("updated_at", note.UpdatedAt).
		Where(squirrel.Eq{"id": note.ID}).ToSql()
	if err != nil {
		return fmt.Errorf("to sql error: %w", err)
	}

	ct, err := nr.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("exec error: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repo.ErrNotFound
	}

	return nil
}

func (nr NotesPostgresRepo) DeleteNote(ctx context.Context, id string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Delete("notes").
		Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("to sql error: %w", err)
	}

	ct, err := nr.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("exec error: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repo.ErrNotFound
	}

	return nil
}

// ListNotes returns one page of the owner's notes, most recently updated
// first, together with the owner's total note count.
func (nr NotesPostgresRepo) ListNotes(ctx context.Context, //nolint:nonamedreturns
	req repo.ListNotesRequest,
) (notes []models.Note, total int, err error) {
	tx, err := nr.db.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly}) //nolint:exhaustruct
	if err != nil {
		return nil, 0, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "list")
	}()

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	owner := squirrel.Eq{"owner_id": req.OwnerID}

	query, args, err := psql.Select("count(*)").From("notes").Where(owner).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("to sql error: %w", err)
	}

	if err = tx.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("scan count error: %w", err)
	}

	sb := psql.Select(noteColumns...).
		From("notes").
		Where(owner).
		OrderBy("updated_at DESC", "id ASC")

	if req.Offset != 0 {
		sb = sb.Offset(uint64(req.Offset))
	}

	if req.Limit != 0 {
		sb = sb.Limit(uint64(req.Limit))
	}

	query, args, err = sb.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("to sql error: %w", err)
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	notes = make([]models.Note, 0, req.Limit)

	for rows.Next() {
		var n models.Note

		n, err = scanNote(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan error %w", err)
		}

		notes = append(notes, n)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows error: %w", err)
	}

	return notes, total, nil
}

func scanNote(row pgx.Row) (models.Note, error) {
	var n models.Note

	err := row.Scan(&n.ID, &n.OwnerID, &n.Title, &n.Content, &n.CreatedAt, &n.UpdatedAt)

	return n, err //nolint:wrapcheck
}
