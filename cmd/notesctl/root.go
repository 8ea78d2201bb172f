package main

import (
	"github.com/Leopold1975/notes_app/internal/pkg/config"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "notesctl",
		Short:         "Operator tool for the notes service",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "config/config.yaml", "path to configuration file")

	cmd.AddCommand(newMigrateCmd(opts), newCreateAdminCmd(opts))

	return cmd
}

func (o *rootOptions) load() (config.Config, error) {
	return config.New(o.configPath) //nolint:wrapcheck
}
