package app

import (
	"context"
	"fmt"
	"time"

	"github.com/Leopold1975/notes_app/internal/notes/api/server"
	"github.com/Leopold1975/notes_app/internal/notes/api/web"
	"github.com/Leopold1975/notes_app/internal/notes/migrations"
	is3 "github.com/Leopold1975/notes_app/internal/notes/repository/imagestore/s3"
	ncache "github.com/Leopold1975/notes_app/internal/notes/repository/notecache/redis"
	nr "github.com/Leopold1975/notes_app/internal/notes/repository/noterepo/postgres"
	ur "github.com/Leopold1975/notes_app/internal/notes/repository/userrepo/postgres"
	"github.com/Leopold1975/notes_app/internal/notes/services/authservice"
	"github.com/Leopold1975/notes_app/internal/notes/services/captcha"
	"github.com/Leopold1975/notes_app/internal/notes/services/noteservice"
	"github.com/Leopold1975/notes_app/internal/notes/services/userservice"
	"github.com/Leopold1975/notes_app/internal/pkg/config"
	"github.com/Leopold1975/notes_app/internal/pkg/pgtools"
	"github.com/Leopold1975/notes_app/internal/pkg/redistools"
	"github.com/Leopold1975/notes_app/pkg/logger"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

type Server interface {
	Start(context.Context) error
	Shutdown(context.Context) error
}

type NotesApp struct {
	s   Server
	lg  logger.Logger
	cfg config.Config
	db  *pgxpool.Pool
	rdb *redis.Client
}

func New(ctx context.Context, cfg config.Config) (NotesApp, error) {
	lg, err := logger.New(cfg.Logger)
	if err != nil {
		return NotesApp{}, fmt.Errorf("can't get logger error: %w", err)
	}

	if err := pgtools.ApplyMigration(cfg.PostgresDB, migrations.FS); err != nil {
		return NotesApp{}, fmt.Errorf("apply migration error: %w", err)
	}

	db, err := pgtools.Connect(ctx, pgtools.ConnString(cfg.PostgresDB))
	if err != nil {
		return NotesApp{}, fmt.Errorf("postgres initializing error: %w", err)
	}

	rdb, err := redistools.NewClient(ctx, cfg.RedisCache)
	if err != nil {
		db.Close()

		return NotesApp{}, fmt.Errorf("redis initializing error: %w", err)
	}

	images, err := is3.New(ctx, cfg.S3)
	if err != nil {
		db.Close()
		rdb.Close()

		return NotesApp{}, fmt.Errorf("s3 image store initializing error: %w", err)
	}

	userRepo := ur.New(db)
	noteCache := ncache.New(rdb, cfg.RedisCache.ExpTime)
	recaptcha := captcha.New(cfg.Recaptcha, lg)

	authService := authservice.New(userRepo, recaptcha, cfg.Auth)
	userService := userservice.New(userRepo, images, noteCache, lg, cfg.Pagination.PageSize)
	noteService := noteservice.New(nr.New(db), noteCache, lg, cfg.Pagination.PageSize)

	pages, err := web.New(cfg, web.Services{
		Auth:    authService,
		Users:   userService,
		Notes:   noteService,
		Captcha: recaptcha,
	}, lg)
	if err != nil {
		db.Close()
		rdb.Close()

		return NotesApp{}, fmt.Errorf("web handler initializing error: %w", err)
	}

	health := func(ctx context.Context) error {
		eg, egCtx := errgroup.WithContext(ctx)

		eg.Go(func() error {
			if err := db.Ping(egCtx); err != nil {
				return fmt.Errorf("postgres ping error: %w", err)
			}

			return nil
		})
		eg.Go(func() error {
			if err := rdb.Ping(egCtx).Err(); err != nil {
				return fmt.Errorf("redis ping error: %w", err)
			}

			return nil
		})

		return eg.Wait() //nolint:wrapcheck
	}

	s := server.New(cfg.Server, pages, noteService, authService, health, lg)

	return NotesApp{
		s:   s,
		lg:  lg,
		cfg: cfg,
		db:  db,
		rdb: rdb,
	}, nil
}

func (na *NotesApp) Run(ctx context.Context) {
	na.lg.Infof("STARTED SERVER ON %s", na.cfg.Server.Addr)

	go func() {
		if err := na.s.Start(ctx); err != nil {
			na.lg.Errorf("server start error: %s", err.Error())

			return
		}
	}()

	<-ctx.Done()

	ctxS, cancel := context.WithTimeout(context.Background(), time.Second*5) //nolint:gomnd
	defer cancel()

	if err := na.Stop(ctxS); err != nil { //nolint:contextcheck
		na.lg.Errorf("server shutdown error: %s", err.Error())
	}
}

func (na *NotesApp) Stop(ctx context.Context) error {
	defer na.lg.Sync() //nolint:errcheck

	err := na.s.Shutdown(ctx)

	na.db.Close()

	if errR := na.rdb.Close(); errR != nil {
		na.lg.Error("redis close error", "error", errR)
	}

	if err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	na.lg.Info("Shutdowned successfully")

	return nil
}
