package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Leopold1975/notes_app/internal/notes/domain/models"
	ur "github.com/Leopold1975/notes_app/internal/notes/repository/userrepo/postgres"
	"github.com/Leopold1975/notes_app/internal/notes/services/authservice"
	"github.com/Leopold1975/notes_app/internal/notes/services/captcha"
	"github.com/Leopold1975/notes_app/internal/pkg/pgtools"
	"github.com/Leopold1975/notes_app/pkg/logger"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var errPasswordMismatch = errors.New("passwords do not match")

// readPassword is swapped in tests to keep the terminal out of the way.
var readPassword = term.ReadPassword

type AdminCreator interface {
	CreateAdmin(context.Context, authservice.SignUpRequest) (models.User, error)
}

type createAdminOptions struct {
	email    string
	username string
	name     string
}

func newCreateAdminCmd(opts *rootOptions) *cobra.Command {
	var o createAdminOptions

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}

			lg, err := logger.New(cfg.Logger)
			if err != nil {
				return fmt.Errorf("can't get logger error: %w", err)
			}
			defer lg.Sync() //nolint:errcheck

			db, err := pgtools.Connect(cmd.Context(), pgtools.ConnString(cfg.PostgresDB))
			if err != nil {
				return fmt.Errorf("postgres initializing error: %w", err)
			}
			defer db.Close()

			as := authservice.New(ur.New(db), captcha.New(cfg.Recaptcha, lg), cfg.Auth)

			u, err := createAdmin(cmd.Context(), cmd.OutOrStdout(), as, o, int(os.Stdin.Fd()))
			if err != nil {
				return err
			}

			lg.Info("admin created", "user_id", u.ID, "username", u.Username)

			return nil
		},
	}

	cmd.Flags().StringVar(&o.email, "email", "", "admin email")
	cmd.Flags().StringVar(&o.username, "username", "", "admin username")
	cmd.Flags().StringVar(&o.name, "name", "", "admin display name")

	for _, f := range []string{"email", "username", "name"} {
		cmd.MarkFlagRequired(f) //nolint:errcheck
	}

	return cmd
}

func createAdmin(ctx context.Context, w io.Writer, ac AdminCreator, o createAdminOptions, fd int) (models.User, error) {
	password, err := prompt(w, "Password: ", fd)
	if err != nil {
		return models.User{}, err
	}

	confirm, err := prompt(w, "Repeat password: ", fd)
	if err != nil {
		return models.User{}, err
	}

	if !bytes.Equal(password, confirm) {
		return models.User{}, errPasswordMismatch
	}

	u, err := ac.CreateAdmin(ctx, authservice.SignUpRequest{ //nolint:exhaustruct
		Email:           o.email,
		Username:        o.username,
		Name:            o.name,
		Password:        string(password),
		ConfirmPassword: string(confirm),
	})
	if err != nil {
		return models.User{}, fmt.Errorf("create admin error: %w", err)
	}

	fmt.Fprintf(w, "created admin %s (%s)\n", u.Username, u.ID)

	return u, nil
}

func prompt(w io.Writer, msg string, fd int) ([]byte, error) {
	fmt.Fprint(w, msg)

	pw, err := readPassword(fd)
	fmt.Fprintln(w)

	if err != nil {
		return nil, fmt.Errorf("read password error: %w", err)
	}

	return pw, nil
}
