package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Leopold1975/notes_app/internal/notes/domain/models"
	"github.com/Leopold1975/notes_app/internal/notes/repository/userrepo"
	"github.com/Leopold1975/notes_app/internal/pkg/pgtools"
	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

var userColumns = []string{"id", "email", "username", "name", "user_role", "image_key", "created_at", "updated_at"}

type UsersPostgresRepo struct {
	db pgtools.DB
}

func New(db pgtools.DB) UsersPostgresRepo {
	return UsersPostgresRepo{
		db: db,
	}
}

func (ur UsersPostgresRepo) CreateUser(ctx context.Context, u models.User, p models.Password) (err error) {
	tx, err := ur.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "create")
	}()

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Insert("users").
		Columns(userColumns...).
		Values(u.ID, u.Email, u.Username, u.Name, u.Role, u.ImageKey, u.CreatedAt, u.UpdatedAt).ToSql()
	if err != nil {
		return fmt.Errorf("to sql error: %w", err)
	}

	if _, err = tx.Exec(ctx, query, args...); err != nil {
		return duplicateOr(err)
	}

	query, args, err = psql.Insert("passwords").
		Columns("user_id", "hash").
		Values(p.UserID, p.Hash).ToSql()
	if err != nil {
		return fmt.Errorf("to sql error: %w", err)
	}

	if _, err = tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("exec error: %w", err)
	}

	return nil
}

func (ur UsersPostgresRepo) GetUserByID(ctx context.Context, id string) (models.User, error) {
	return ur.getUser(ctx, squirrel.Eq{"id": id})
}

func (ur UsersPostgresRepo) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	return ur.getUser(ctx, squirrel.Eq{"username": strings.ToLower(username)})
}

// GetUserByLogin accepts either a username or an email address.
func (ur UsersPostgresRepo) GetUserByLogin(ctx context.Context, login string) (models.User, error) {
	login = strings.ToLower(login)

	return ur.getUser(ctx, squirrel.Or{squirrel.Eq{"username": login}, squirrel.Eq{"email": login}})
}

func (ur UsersPostgresRepo) getUser(ctx context.Context, where squirrel.Sqlizer) (models.User, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Select(userColumns...).
		From("users").
		Where(where).ToSql()
	if err != nil {
		return models.User{}, fmt.Errorf("to sql error: %w", err)
	}

	u, err := scanUser(ur.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, userrepo.ErrNotFound
		}

		return models.User{}, fmt.Errorf("scan error: %w", err)
	}

	return u, nil
}

func (ur UsersPostgresRepo) GetPassword(ctx context.Context, userID string) (models.Password, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Select("user_id", "hash").
		From("passwords").
		Where(squirrel.Eq{"user_id": userID}).ToSql()
	if err != nil {
		return models.Password{}, fmt.Errorf("to sql error: %w", err)
	}

	var p models.Password

	if err := ur.db.QueryRow(ctx, query, args...).Scan(&p.UserID, &p.Hash); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Password{}, userrepo.ErrNotFound
		}

		return models.Password{}, fmt.Errorf("scan error: %w", err)
	}

	return p, nil
}

func (ur UsersPostgresRepo) UpdatePassword(ctx context.Context, p models.Password) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Update("passwords").
		Set("hash", p.Hash).
		Where(squirrel.Eq{"user_id": p.UserID}).ToSql()
	if err != nil {
		return fmt.Errorf("to sql error: %w", err)
	}

	ct, err := ur.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("exec error: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return userrepo.ErrNotFound
	}

	return nil
}

func (ur UsersPostgresRepo) UpdateUser(ctx context.Context, u models.User) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Update("users").
		Set("email", u.Email).
		Set("username", u.Username).
		Set("name", u.Name).
		Set("user_role", u.Role).
		Set("image_key", u.ImageKey).
		Set("updated_at", u.UpdatedAt).
		Where(squirrel.Eq{"id": u.ID}).ToSql()
	if err != nil {
		return fmt.Errorf("to sql error: %w", err)
	}

	ct, err := ur.db.Exec(ctx, query, args...)
	if err != nil {
		return duplicateOr(err)
	}

	if ct.RowsAffected() == 0 {
		return userrepo.ErrNotFound
	}

	return nil
}

// DeleteUser removes the user; passwords and notes go with it via ON DELETE CASCADE.
func (ur UsersPostgresRepo) DeleteUser(ctx context.Context, id string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Delete("users").
		Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("to sql error: %w", err)
	}

	ct, err := ur.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("exec error: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return userrepo.ErrNotFound
	}

	return nil
}

// ListUsers returns one page of users, newest first, together with the
// number of users matching the search.
func (ur UsersPostgresRepo) ListUsers(ctx context.Context, //nolint:nonamedreturns
	req userrepo.ListUsersRequest,
) (users []models.User, total int, err error) {
	tx, err := ur.db.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly}) //nolint:exhaustruct
	if err != nil {
		return nil, 0, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "list")
	}()

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	var where squirrel.Sqlizer = squirrel.Expr("TRUE")

	if s := strings.TrimSpace(req.Search); s != "" {
		pattern := "%" + escapeLike(s) + "%"
		where = squirrel.Or{
			squirrel.ILike{"username": pattern},
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"email": pattern},
		}
	}

	query, args, err := psql.Select("count(*)").From("users").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("to sql error: %w", err)
	}

	if err = tx.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("scan count error: %w", err)
	}

	sb := psql.Select(userColumns...).
		From("users").
		Where(where).
		OrderBy("created_at DESC", "id ASC")

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

	users = make([]models.User, 0, req.Limit)

	for rows.Next() {
		var u models.User

		u, err = scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan error: %w", err)
		}

		users = append(users, u)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows error: %w", err)
	}

	return users, total, nil
}

func scanUser(row pgx.Row) (models.User, error) {
	var u models.User

	err := row.Scan(&u.ID, &u.Email, &u.Username, &u.Name, &u.Role, &u.ImageKey, &u.CreatedAt, &u.UpdatedAt)

	return u, err //nolint:wrapcheck
}

func duplicateOr(err error) error {
	target := new(pgconn.PgError)
	if errors.As(err, &target) && target.Code == uniqueViolation {
		switch target.ConstraintName {
		case "users_email_key":
			return userrepo.ErrEmailExists
		case "users_username_key":
			return userrepo.ErrUsernameExists
		default:
			return userrepo.ErrAlreadyExists
		}
	}

	return fmt.Errorf("exec error: %w", err)
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
