package cli

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"taskman/configs"
	"taskman/internal/domain/models"
	"taskman/internal/usecase"
)

// menu drives the interactive loop. All task semantics live in the
// store; this layer only reads input, validates it and prints.
type menu struct {
	in    *bufio.Scanner
	out   io.Writer
	store *usecase.Store
	cfg   *configs.Config
}

func runMenu(in io.Reader, out io.Writer, store *usecase.Store, cfg *configs.Config) error {
	m := &menu{
		in:    bufio.NewScanner(in),
		out:   out,
		store: store,
		cfg:   cfg,
	}
	return m.run()
}

func (m *menu) run() error {
	for {
		fmt.Fprintf(m.out, "\n===== Task Manager =====\n")
		fmt.Fprintf(m.out, "Total tasks: %d\n", m.store.Count())
		fmt.Fprintln(m.out, "------------------------")
		fmt.Fprintln(m.out, " 1. Add new task")
		fmt.Fprintln(m.out, " 2. View tasks")
		fmt.Fprintln(m.out, " 3. Update task")
		fmt.Fprintln(m.out, " 4. Delete task")
		fmt.Fprintln(m.out, " 5. Mark task complete")
		fmt.Fprintln(m.out, " 6. Search tasks")
		fmt.Fprintln(m.out, " 7. Statistics")
		fmt.Fprintln(m.out, " 8. Export to CSV")
		fmt.Fprintln(m.out, " 9. Bulk operations")
		fmt.Fprintln(m.out, " 0. Exit")

		switch m.prompt("Enter your choice: ") {
		case "1":
			m.addTask()
		case "2":
			m.viewMenu()
		case "3":
			m.updateTask()
		case "4":
			m.deleteTask()
		case "5":
			m.markComplete()
		case "6":
			m.searchTasks()
		case "7":
			m.showStatistics()
		case "8":
			m.exportMenu()
		case "9":
			m.bulkMenu()
		case "0", "exit", "q":
			fmt.Fprintln(m.out, "Goodbye!")
			return m.store.Save()
		default:
			fmt.Fprintln(m.out, "Invalid choice, try again.")
		}
	}
}

// prompt prints the message and returns the next trimmed input line.
// Returns "0" on EOF so the loop exits cleanly.
func (m *menu) prompt(msg string) string {
	fmt.Fprint(m.out, msg)
	if !m.in.Scan() {
		return "0"
	}
	return strings.TrimSpace(m.in.Text())
}

// promptNonEmpty re-asks until the user enters something.
func (m *menu) promptNonEmpty(msg string) string {
	for {
		s := m.prompt(msg)
		if s != "" {
			return s
		}
		fmt.Fprintln(m.out, "Value cannot be empty.")
	}
}

func (m *menu) promptID() (int, bool) {
	s := m.prompt("Enter task ID: ")
	id, err := strconv.Atoi(s)
	if err != nil {
		fmt.Fprintln(m.out, "Invalid task ID.")
		return 0, false
	}
	return id, true
}

func (m *menu) promptPriority() models.Priority {
	s := m.prompt("Priority (low/medium/high) [" + m.cfg.Default.Priority + "]: ")
	if s == "" {
		return m.cfg.Default.DefaultPriority()
	}
	return models.ParsePriority(s)
}

// promptDueDate reads an optional YYYY-MM-DD date and returns it as
// unix seconds, or 0 when skipped.
func (m *menu) promptDueDate() int64 {
	s := m.prompt("Due date (YYYY-MM-DD, empty for none): ")
	if s == "" {
		return 0
	}
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		fmt.Fprintln(m.out, "Invalid date, skipping due date.")
		return 0
	}
	return t.Unix()
}

func (m *menu) addTask() {
	title := m.promptNonEmpty("Title: ")
	description := m.promptNonEmpty("Description: ")
	priority := m.promptPriority()
	dueDate := m.promptDueDate()

	id := m.store.Add(title, description, priority)
	if dueDate > 0 {
		m.store.Update(id, func(t *models.Task) {
			t.DueDate = dueDate
		})
	}
	fmt.Fprintf(m.out, "Task #%d added.\n", id)
}

func (m *menu) viewMenu() {
	fmt.Fprintln(m.out, "\n--- View Tasks ---")
	fmt.Fprintln(m.out, " 1. All tasks")
	fmt.Fprintln(m.out, " 2. Filter by status")
	fmt.Fprintln(m.out, " 3. Filter by priority")
	fmt.Fprintln(m.out, " 4. Completed tasks")
	fmt.Fprintln(m.out, " 5. Overdue tasks")
	fmt.Fprintln(m.out, " 6. Sort tasks")
	fmt.Fprintln(m.out, " 7. Back")

	switch m.prompt("Enter your choice: ") {
	case "1":
		m.printTasks(m.store.Tasks())
	case "2":
		status := models.ParseStatus(m.prompt("Status (pending/in_progress/completed): "))
		m.printTasks(filterTasks(m.store.Tasks(), func(t *models.Task) bool {
			return t.Status == status
		}))
	case "3":
		priority := models.ParsePriority(m.prompt("Priority (low/medium/high): "))
		m.printTasks(filterTasks(m.store.Tasks(), func(t *models.Task) bool {
			return t.Priority == priority
		}))
	case "4":
		m.printTasks(filterTasks(m.store.Tasks(), (*models.Task).IsCompleted))
	case "5":
		m.printTasks(filterTasks(m.store.Tasks(), (*models.Task).IsOverdue))
	case "6":
		m.sortMenu()
	}
}

func (m *menu) sortMenu() {
	fmt.Fprintln(m.out, "\n--- Sort Tasks ---")
	fmt.Fprintln(m.out, " 1. By priority (high to low)")
	fmt.Fprintln(m.out, " 2. By due date (soonest first)")
	fmt.Fprintln(m.out, " 3. By creation date (newest first)")
	fmt.Fprintln(m.out, " 4. By creation date (oldest first)")
	fmt.Fprintln(m.out, " 5. By status (pending first)")
	fmt.Fprintln(m.out, " 6. By title (A-Z)")
	fmt.Fprintln(m.out, " 7. By title (Z-A)")
	fmt.Fprintln(m.out, " 8. By ID (ascending)")
	fmt.Fprintln(m.out, " 9. By ID (descending)")

	switch m.prompt("Enter your choice: ") {
	case "1":
		m.store.SortByPriority(true)
	case "2":
		m.store.SortByDueDate(true)
	case "3":
		m.store.SortByCreationDate(true)
	case "4":
		m.store.SortByCreationDate(false)
	case "5":
		m.store.SortByStatus()
	case "6":
		m.store.SortByTitle(true)
	case "7":
		m.store.SortByTitle(false)
	case "8":
		m.store.SortByID(true)
	case "9":
		m.store.SortByID(false)
	default:
		return
	}
	m.printTasks(m.store.Tasks())
}

func (m *menu) updateTask() {
	id, ok := m.promptID()
	if !ok {
		return
	}
	if m.store.FindByID(id) == nil {
		fmt.Fprintln(m.out, "Task not found.")
		return
	}

	for {
		fmt.Fprintln(m.out, "\n--- Update Task ---")
		fmt.Fprintln(m.out, " 1. Title")
		fmt.Fprintln(m.out, " 2. Description")
		fmt.Fprintln(m.out, " 3. Priority")
		fmt.Fprintln(m.out, " 4. Status")
		fmt.Fprintln(m.out, " 5. Due date")
		fmt.Fprintln(m.out, " 6. Done")

		switch m.prompt("Enter your choice: ") {
		case "1":
			title := m.promptNonEmpty("New title: ")
			m.store.Update(id, func(t *models.Task) { t.Title = title })
		case "2":
			description := m.promptNonEmpty("New description: ")
			m.store.Update(id, func(t *models.Task) { t.Description = description })
		case "3":
			priority := models.ParsePriority(m.prompt("New priority (low/medium/high): "))
			m.store.Update(id, func(t *models.Task) { t.Priority = priority })
		case "4":
			status := models.ParseStatus(m.prompt("New status (pending/in_progress/completed): "))
			m.store.Update(id, func(t *models.Task) {
				if status == models.StatusCompleted {
					t.MarkComplete()
				} else {
					t.Status = status
				}
			})
		case "5":
			dueDate := m.promptDueDate()
			m.store.Update(id, func(t *models.Task) { t.DueDate = dueDate })
		default:
			return
		}
		fmt.Fprintln(m.out, "Task updated.")
	}
}

func (m *menu) deleteTask() {
	id, ok := m.promptID()
	if !ok {
		return
	}
	if m.store.Delete(id) {
		fmt.Fprintf(m.out, "Task #%d deleted.\n", id)
	} else {
		fmt.Fprintln(m.out, "Task not found.")
	}
}

func (m *menu) markComplete() {
	id, ok := m.promptID()
	if !ok {
		return
	}
	if m.store.MarkComplete(id) {
		fmt.Fprintf(m.out, "Task #%d marked complete.\n", id)
	} else {
		fmt.Fprintln(m.out, "Task not found.")
	}
}

func (m *menu) searchTasks() {
	keyword := m.promptNonEmpty("Search keyword: ")
	matches := m.store.Search(keyword)
	if len(matches) == 0 {
		fmt.Fprintln(m.out, "No matching tasks.")
		return
	}
	m.printTasks(matches)
}

func (m *menu) showStatistics() {
	st := m.store.Statistics()
	fmt.Fprintln(m.out, "\n--- Statistics ---")
	fmt.Fprintf(m.out, "Total tasks:     %d\n", st.Total)
	fmt.Fprintf(m.out, "Pending:         %d\n", st.Pending)
	fmt.Fprintf(m.out, "In progress:     %d\n", st.InProgress)
	fmt.Fprintf(m.out, "Completed:       %d\n", st.Completed)
	fmt.Fprintf(m.out, "Low priority:    %d\n", st.LowPriority)
	fmt.Fprintf(m.out, "Medium priority: %d\n", st.MediumPriority)
	fmt.Fprintf(m.out, "High priority:   %d\n", st.HighPriority)
	fmt.Fprintf(m.out, "With due date:   %d\n", st.WithDueDate)
	fmt.Fprintf(m.out, "Overdue:         %d\n", st.Overdue)
	fmt.Fprintf(m.out, "Due soon:        %d\n", st.DueSoon)
	fmt.Fprintf(m.out, "Completion rate: %.1f%%\n", st.CompletionRate)
	fmt.Fprintf(m.out, "Overdue rate:    %.1f%%\n", st.OverdueRate)
}

func (m *menu) exportMenu() {
	fmt.Fprintln(m.out, "\n--- Export to CSV ---")
	fmt.Fprintln(m.out, " 1. Export all tasks")
	fmt.Fprintln(m.out, " 2. Export by status")
	fmt.Fprintln(m.out, " 3. Export by priority")
	fmt.Fprintln(m.out, " 4. Back")

	choice := m.prompt("Enter your choice: ")
	if choice != "1" && choice != "2" && choice != "3" {
		return
	}

	path := m.prompt("Output file [tasks.csv]: ")
	if path == "" {
		path = filepath.Join(m.cfg.Export.Dir, "tasks.csv")
	}

	var err error
	switch choice {
	case "1":
		err = m.store.ExportCSV(path)
	case "2":
		status := models.ParseStatus(m.prompt("Status (pending/in_progress/completed): "))
		err = m.store.ExportCSVByStatus(status, path)
	case "3":
		priority := models.ParsePriority(m.prompt("Priority (low/medium/high): "))
		err = m.store.ExportCSVByPriority(priority, path)
	}
	if err != nil {
		fmt.Fprintf(m.out, "Export failed: %v\n", err)
		return
	}
	fmt.Fprintf(m.out, "Exported to %s\n", path)
}

func (m *menu) bulkMenu() {
	fmt.Fprintln(m.out, "\n--- Bulk Operations ---")
	fmt.Fprintln(m.out, " 1. Mark all incomplete as complete")
	fmt.Fprintln(m.out, " 2. Delete all completed tasks")
	fmt.Fprintln(m.out, " 3. Change priority in bulk")
	fmt.Fprintln(m.out, " 4. Delete ALL tasks")
	fmt.Fprintln(m.out, " 5. Back")

	switch m.prompt("Enter your choice: ") {
	case "1":
		fmt.Fprintf(m.out, "%d task(s) marked complete.\n", m.store.MarkAllComplete())
	case "2":
		fmt.Fprintf(m.out, "%d completed task(s) deleted.\n", m.store.DeleteAllCompleted())
	case "3":
		from := models.ParsePriority(m.prompt("Change from priority (low/medium/high): "))
		to := models.ParsePriority(m.prompt("Change to priority (low/medium/high): "))
		fmt.Fprintf(m.out, "%d task(s) updated.\n", m.store.ChangePriorityBulk(from, to))
	case "4":
		if strings.EqualFold(m.prompt("Delete ALL tasks? Type 'yes' to confirm: "), "yes") {
			fmt.Fprintf(m.out, "%d task(s) deleted.\n", m.store.DeleteAll())
		} else {
			fmt.Fprintln(m.out, "Cancelled.")
		}
	}
}

func (m *menu) printTasks(tasks []*models.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(m.out, "No tasks to show.")
		return
	}
	fmt.Fprintf(m.out, "\n%-4s %-30s %-8s %-12s %-11s %s\n",
		"ID", "Title", "Priority", "Status", "Due", "Flags")
	for _, t := range tasks {
		due := "-"
		if t.HasDueDate() {
			due = time.Unix(t.DueDate, 0).Format("2006-01-02")
		}
		flags := ""
		if t.IsOverdue() {
			flags = "OVERDUE"
		}
		fmt.Fprintf(m.out, "%-4d %-30s %-8s %-12s %-11s %s\n",
			t.ID, truncate(t.Title, 30), t.Priority.Label(), t.Status.Label(), due, flags)
	}
}

func filterTasks(tasks []*models.Task, keep func(*models.Task) bool) []*models.Task {
	var out []*models.Task
	for _, t := range tasks {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
