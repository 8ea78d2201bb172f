package pgtools

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"time"

	"github.com/Leopold1975/notes_app/internal/pkg/config"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // driver for migrations
	"github.com/pressly/goose/v3"
)

const maxConnectDelay = time.Second * 10

// DB is the subset of *pgxpool.Pool the repositories run queries through.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// ConnString builds the pgxpool connection string, pool options included.
func ConnString(cfg config.PostgresDB) string {
	return migrationConnString(cfg) + "?" + "sslmode=" + cfg.SSLmode + "&pool_max_conns=" + cfg.MaxConns
}

func migrationConnString(cfg config.PostgresDB) string {
	return "postgres://" + cfg.Username + ":" + cfg.Password + "@" +
		cfg.Addr + "/" + cfg.DB
}

// Connect creates a pool and pings it with a linearly growing delay until the
// database answers or the delay exceeds ten seconds.
func Connect(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	errCh := make(chan error, 1)

	var db *pgxpool.Pool

	go func() {
		defer close(errCh)

		dbc, err := pgxpool.New(ctx, connString)
		if err != nil {
			errCh <- fmt.Errorf("cannot create db pool error: %w", err)

			return
		}

		delay := time.Second

		for {
			err := dbc.Ping(ctx)
			if err == nil {
				break
			}

			if delay > maxConnectDelay || ctx.Err() != nil {
				dbc.Close()
				errCh <- fmt.Errorf("cannot ping db error: %w", err)

				return
			}

			time.Sleep(delay)
			delay += time.Second
		}

		db = dbc
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("context error: %w", ctx.Err())
	case err := <-errCh:
		if err != nil {
			return nil, err
		}

		return db, nil
	}
}

func openMigrationDB(cfg config.PostgresDB, migrations fs.FS) (*sql.DB, error) {
	goose.SetBaseFS(migrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return nil, fmt.Errorf("goose set dialect error: %w", err)
	}

	dbM, err := goose.OpenDBWithDriver("pgx", migrationConnString(cfg)+"?sslmode="+cfg.SSLmode)
	if err != nil {
		return nil, fmt.Errorf("goose open pgx db error: %w", err)
	}

	return dbM, nil
}

// ApplyMigration brings the schema to cfg.Version (latest when zero),
// rolling everything back first when cfg.Reload is set.
func ApplyMigration(cfg config.PostgresDB, migrations fs.FS) error {
	dbM, err := openMigrationDB(cfg, migrations)
	if err != nil {
		return err
	}
	defer dbM.Close()

	if cfg.Reload {
		if err := goose.DownTo(dbM, ".", 0); err != nil {
			return fmt.Errorf("goose down error: %w", err)
		}
	}

	if cfg.Version == 0 {
		if err := goose.Up(dbM, "."); err != nil {
			return fmt.Errorf("goose up error: %w", err)
		}

		return nil
	}

	if err := goose.UpTo(dbM, ".", int64(cfg.Version)); err != nil {
		return fmt.Errorf("goose up error: %w", err)
	}

	return nil
}

// Migrate runs a single goose command (up, down, status, redo, ...).
func Migrate(ctx context.Context, cfg config.PostgresDB, migrations fs.FS, command string, args ...string) error {
	dbM, err := openMigrationDB(cfg, migrations)
	if err != nil {
		return err
	}
	defer dbM.Close()

	if err := goose.RunContext(ctx, command, dbM, ".", args...); err != nil {
		return fmt.Errorf("goose %s error: %w", command, err)
	}

	return nil
}

func CommitOrRollback(ctx context.Context, tx pgx.Tx, err error, where string) error {
	if err == nil {
		if errT := tx.Commit(ctx); errT != nil {
			err = fmt.Errorf("commit error: %w", errT)
		}
	} else {
		if errT := tx.Rollback(ctx); errT != nil {
			err = fmt.Errorf("%s error: %w rollback error: %w", where, err, errT)
		} else {
			err = fmt.Errorf("%s error: %w", where, err)
		}
	}

	return err
}
