package main

import (
	"github.com/Leopold1975/notes_app/internal/notes/migrations"
	"github.com/Leopold1975/notes_app/internal/pkg/pgtools"
	"github.com/spf13/cobra"
)

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|status]",
		Short:     "Apply or inspect database migrations",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down", "status"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}

			return pgtools.Migrate(cmd.Context(), cfg.PostgresDB, migrations.FS, args[0]) //nolint:wrapcheck
		},
	}
}
