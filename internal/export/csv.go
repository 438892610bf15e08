// Package export converts task collections to CSV files.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"taskman/internal/domain/models"
)

var csvHeader = []string{
	"ID", "Title", "Description", "Priority", "Status",
	"Created At", "Due Date", "Days Until Due", "Is Overdue",
}

// ToCSV writes one header row plus one row per task to path. Fields
// containing commas, quotes or newlines get standard CSV quoting
// (embedded quotes doubled).
func ToCSV(tasks []*models.Task, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file %s: %w", path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, t := range tasks {
		daysUntilDue := ""
		if t.HasDueDate() {
			daysUntilDue = strconv.Itoa(t.DaysUntilDue())
		}
		overdue := "No"
		if t.IsOverdue() {
			overdue = "Yes"
		}

		record := []string{
			strconv.Itoa(t.ID),
			t.Title,
			t.Description,
			t.Priority.Label(),
			t.Status.Label(),
			formatDate(t.CreatedAt),
			formatDate(t.DueDate),
			daysUntilDue,
			overdue,
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	w.Flush()
	return w.Error()
}

func formatDate(ts int64) string {
	if ts == 0 {
		return ""
	}
	return time.Unix(ts, 0).Format("2006-01-02 15:04:05")
}
