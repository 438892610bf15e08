// Package cli implements the taskman command-line interface.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"taskman/configs"
	"taskman/internal/domain/repositories"
	"taskman/internal/logger"
	"taskman/internal/repository/jsonfile"
	"taskman/internal/repository/postgres"
	"taskman/internal/repository/sqlite"
	"taskman/internal/usecase"
)

var configPath string

// NewRootCommand builds the command tree. The bare command runs the
// interactive menu; serve, export and migrate are non-interactive.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "taskman",
		Short: "Personal task tracker",
		Long: `taskman keeps a personal task list with priorities, statuses and
due dates, stored in a JSON file, SQLite or PostgreSQL. Run without
arguments for the interactive menu, or use the serve subcommand to
expose the same store over a REST API.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, store, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()
			return runMenu(cmd.InOrStdin(), cmd.OutOrStdout(), store, cfg)
		},
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file")

	root.AddCommand(newServeCommand())
	root.AddCommand(newExportCommand())
	root.AddCommand(newMigrateCommand())
	return root
}

// openStore loads configuration, initializes logging and opens the
// configured backend.
func openStore() (*configs.Config, *usecase.Store, error) {
	cfg, err := configs.LoadConfig(configPath)
	if err != nil {
		return nil, nil, err
	}

	if err := logger.InitFromEnv(); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	repo, err := openRepository(cfg)
	if err != nil {
		return nil, nil, err
	}

	store, err := usecase.NewStore(repo, logger.Named("store"))
	if err != nil {
		repo.Close()
		return nil, nil, fmt.Errorf("failed to load tasks: %w", err)
	}
	return cfg, store, nil
}

func openRepository(cfg *configs.Config) (repositories.TaskRepository, error) {
	switch cfg.Storage.Backend {
	case configs.BackendFile:
		return jsonfile.NewTaskRepository(cfg.Storage.FilePath)
	case configs.BackendSQLite:
		db, err := sqlite.NewConnection(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, err
		}
		return sqlite.NewTaskRepository(db), nil
	case configs.BackendPostgres:
		pool, err := postgres.NewConnection(cfg.Storage.PostgresURL)
		if err != nil {
			return nil, err
		}
		return postgres.NewTaskRepository(pool), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
