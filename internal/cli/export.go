package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"taskman/internal/domain/models"
)

func newExportCommand() *cobra.Command {
	var (
		output   string
		status   string
		priority string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export tasks to a CSV file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, store, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			if output == "" {
				output = filepath.Join(cfg.Export.Dir, "tasks.csv")
			}

			switch {
			case status != "":
				err = store.ExportCSVByStatus(models.ParseStatus(status), output)
			case priority != "":
				err = store.ExportCSVByPriority(models.ParsePriority(priority), output)
			default:
				err = store.ExportCSV(output)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <export.dir>/tasks.csv)")
	cmd.Flags().StringVar(&status, "status", "", "only tasks with this status (PENDING, IN_PROGRESS, COMPLETED)")
	cmd.Flags().StringVar(&priority, "priority", "", "only tasks with this priority (LOW, MEDIUM, HIGH)")
	cmd.MarkFlagsMutuallyExclusive("status", "priority")
	return cmd
}
