package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/issueboard/internal/database"
)

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := opts.cfg
			if dbPath != "" {
				cfg.Database.Path = dbPath
			}
			path, err := databasePath(cfg)
			if err != nil {
				return err
			}

			unlock, err := lockDatabase(path)
			if err != nil {
				return err
			}
			defer unlock()

			ctx := cmd.Context()
			db, err := database.InitDB(ctx, path)
			if err != nil {
				return err
			}
			defer closeDB(db)

			version, err := database.SchemaVersion(ctx, db)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ %s is at schema version %d\n", path, version)
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path (overrides DATABASE_PATH)")
	return cmd
}
