package usecase

import "taskman/internal/domain/models"

// Stats is a point-in-time summary of the collection. Recomputed on
// every request, never cached.
type Stats struct {
	Total          int     `json:"total"`
	Pending        int     `json:"pending"`
	InProgress     int     `json:"inProgress"`
	Completed      int     `json:"completed"`
	LowPriority    int     `json:"lowPriority"`
	MediumPriority int     `json:"mediumPriority"`
	HighPriority   int     `json:"highPriority"`
	WithDueDate    int     `json:"withDueDate"`
	Overdue        int     `json:"overdue"`
	DueSoon        int     `json:"dueSoon"`
	CompletionRate float64 `json:"completionRate"`
	OverdueRate    float64 `json:"overdueRate"`
}

// Statistics walks the collection once and counts everything. DueSoon
// means due within the next three days and neither overdue nor
// completed. OverdueRate is relative to tasks that have a due date;
// CompletionRate is relative to all tasks. Both are percentages.
func (s *Store) Statistics() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	var st Stats
	st.Total = len(s.tasks)
	for _, t := range s.tasks {
		switch t.Status {
		case models.StatusPending:
			st.Pending++
		case models.StatusInProgress:
			st.InProgress++
		case models.StatusCompleted:
			st.Completed++
		}
		switch t.Priority {
		case models.PriorityLow:
			st.LowPriority++
		case models.PriorityMedium:
			st.MediumPriority++
		case models.PriorityHigh:
			st.HighPriority++
		}
		if t.HasDueDate() {
			st.WithDueDate++
			if t.IsOverdue() {
				st.Overdue++
			} else if !t.IsCompleted() {
				if days := t.DaysUntilDue(); days >= 0 && days <= 3 {
					st.DueSoon++
				}
			}
		}
	}
	if st.Total > 0 {
		st.CompletionRate = float64(st.Completed) / float64(st.Total) * 100
	}
	if st.WithDueDate > 0 {
		st.OverdueRate = float64(st.Overdue) / float64(st.WithDueDate) * 100
	}
	return st
}
