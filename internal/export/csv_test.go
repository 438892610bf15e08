package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"taskman/internal/domain/models"
)

func TestToCSVHeaderAndRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.csv")
	due := time.Now().Add(48 * time.Hour).Unix()

	tasks := []*models.Task{
		{ID: 1, Title: "Buy milk", Description: "2 liters", Priority: models.PriorityHigh, Status: models.StatusPending, CreatedAt: 1700000000, DueDate: due},
		{ID: 2, Title: "No date", Description: "plain", Priority: models.PriorityLow, Status: models.StatusInProgress, CreatedAt: 1700000000},
	}

	if err := ToCSV(tasks, path); err != nil {
		t.Fatalf("ToCSV failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("reading back the file failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("len(records) = %d, expected header plus 2 rows", len(records))
	}

	header := strings.Join(records[0], ",")
	if header != "ID,Title,Description,Priority,Status,Created At,Due Date,Days Until Due,Is Overdue" {
		t.Errorf("unexpected header: %s", header)
	}

	first := records[1]
	if first[0] != "1" || first[3] != "High" || first[4] != "Pending" {
		t.Errorf("unexpected first row: %v", first)
	}
	if first[7] == "" {
		t.Error("dated task must have a days-until-due value")
	}
	if first[8] != "No" {
		t.Errorf("Is Overdue = %q, expected No", first[8])
	}

	second := records[2]
	if second[3] != "Low" || second[4] != "In Progress" {
		t.Errorf("unexpected second row: %v", second)
	}
	if second[6] != "" || second[7] != "" {
		t.Errorf("dateless task must have empty due date and days columns: %v", second)
	}
}

func TestToCSVQuotesSpecialCharacters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.csv")

	tasks := []*models.Task{
		{ID: 1, Title: `Say "Hi", Bob`, Description: "line\nbreak", Priority: models.PriorityMedium},
	}
	if err := ToCSV(tasks, path); err != nil {
		t.Fatalf("ToCSV failed: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(raw), `"Say ""Hi"", Bob"`) {
		t.Errorf("title must be quoted with doubled quotes:\n%s", raw)
	}

	// The file still parses back to the same values.
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("reading back the file failed: %v", err)
	}
	if records[1][1] != `Say "Hi", Bob` {
		t.Errorf("Title = %q after round trip", records[1][1])
	}
	if records[1][2] != "line\nbreak" {
		t.Errorf("Description = %q after round trip", records[1][2])
	}
}

func TestToCSVOverdueFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.csv")
	past := time.Now().Add(-48 * time.Hour).Unix()

	tasks := []*models.Task{
		{ID: 1, Title: "late", Description: "d", DueDate: past, Status: models.StatusPending},
		{ID: 2, Title: "done late", Description: "d", DueDate: past, Status: models.StatusCompleted},
	}
	if err := ToCSV(tasks, path); err != nil {
		t.Fatalf("ToCSV failed: %v", err)
	}

	f, _ := os.Open(path)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if records[1][8] != "Yes" {
		t.Errorf("pending past-due task: Is Overdue = %q, expected Yes", records[1][8])
	}
	if records[2][8] != "No" {
		t.Errorf("completed past-due task: Is Overdue = %q, expected No", records[2][8])
	}
}
