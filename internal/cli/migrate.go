package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"taskman/configs"
	"taskman/internal/logger"
	"taskman/internal/migrate"
)

func newMigrateCommand() *cobra.Command {
	var (
		from string
		to   string
	)

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Copy the JSON task store into a SQLite database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configs.LoadConfig(configPath)
			if err != nil {
				return err
			}
			if err := logger.InitFromEnv(); err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer logger.Sync()

			if from == "" {
				from = cfg.Storage.FilePath
			}
			if to == "" {
				to = cfg.Storage.SQLitePath
			}

			res, err := migrate.JSONToSQLite(cmd.Context(), from, to, logger.Named("migrate"))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Migrated %d tasks from %s to %s (next id %d)\n",
				res.Tasks, from, to, res.NextID)
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "JSON store to read (default storage.file_path)")
	cmd.Flags().StringVar(&to, "to", "", "SQLite database to write (default storage.sqlite_path)")
	return cmd
}
