package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/deepagents/control/backend/memory"
	"github.com/deepagents/control/frontend/cli/pkg/fail"
	"github.com/spf13/cobra"
)

type migrateOptions struct {
	ConfigFile string
}

func NewMigrateCmd() *cobra.Command {
	options := migrateOptions{}
	cmd := &cobra.Command{
		Use:     "migrate",
		Short:   "Create or upgrade the database schema",
		GroupID: "server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadServerConfig(cmd, options.ConfigFile)
			if err != nil {
				return fail.HandleError(cmd, err)
			}

			if cfg.Database.Path != ":memory:" {
				if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o700); err != nil {
					return fail.HandleError(cmd, err)
				}
			}

			db, err := memory.Open(cmd.Context(), cfg.Database.DSN(), memory.WithPingAttempts(cfg.Database.PingAttempts))
			if err != nil {
				return fail.HandleError(cmd, err)
			}
			defer db.Close()

			if err := db.Schema.Create(cmd.Context()); err != nil {
				return fail.HandleError(cmd, fmt.Errorf("migrating database: %w", err))
			}

			fmt.Fprintf(cmd.OutOrStdout(), "database schema is up to date: %s\n", cfg.Database.Path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&options.ConfigFile, "config", "c", "", "path of the server configuration file")
	return cmd
}
