package models

import (
	"encoding/json"
	"strings"
	"time"
)

// Priority represents how urgent a task is. The ordinal order
// (LOW < MEDIUM < HIGH) is what priority sorts compare.
type Priority int

const (
	PriorityLow Priority = iota
	PriorityMedium
	PriorityHigh
)

// String returns the upper-snake enumerant name used in every
// persisted representation.
func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "LOW"
	case PriorityHigh:
		return "HIGH"
	default:
		return "MEDIUM"
	}
}

// Label returns the human-readable form used in CSV exports and the CLI.
func (p Priority) Label() string {
	switch p {
	case PriorityLow:
		return "Low"
	case PriorityHigh:
		return "High"
	default:
		return "Medium"
	}
}

// ParsePriority is lenient: it accepts any casing and falls back to
// MEDIUM for unknown input, so a hand-edited data file still loads.
func ParsePriority(s string) Priority {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "LOW":
		return PriorityLow
	case "HIGH":
		return PriorityHigh
	default:
		return PriorityMedium
	}
}

func (p Priority) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p *Priority) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*p = ParsePriority(s)
	return nil
}

// Status represents the current state of a task, ordered
// PENDING < IN_PROGRESS < COMPLETED for status sorts.
type Status int

const (
	StatusPending Status = iota
	StatusInProgress
	StatusCompleted
)

func (s Status) String() string {
	switch s {
	case StatusInProgress:
		return "IN_PROGRESS"
	case StatusCompleted:
		return "COMPLETED"
	default:
		return "PENDING"
	}
}

// Label returns the human-readable form used in CSV exports and the CLI.
func (s Status) Label() string {
	switch s {
	case StatusInProgress:
		return "In Progress"
	case StatusCompleted:
		return "Completed"
	default:
		return "Pending"
	}
}

// ParseStatus falls back to PENDING for unknown input.
func ParseStatus(s string) Status {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "IN_PROGRESS":
		return StatusInProgress
	case "COMPLETED":
		return StatusCompleted
	default:
		return StatusPending
	}
}

func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Status) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*s = ParseStatus(str)
	return nil
}

// Task represents one work item. Timestamps are unix seconds; a DueDate
// of 0 means the task has no due date. IDs are assigned by the store and
// never reused.
type Task struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    Priority `json:"priority"`
	Status      Status   `json:"status"`
	CreatedAt   int64    `json:"createdAt"`
	DueDate     int64    `json:"dueDate"`
}

// New creates a task with the given id, status PENDING, creation time
// now and no due date. CreatedAt is only overridden when a backend
// reconstructs a task from persisted state.
func New(id int, title, description string, priority Priority) *Task {
	return &Task{
		ID:          id,
		Title:       title,
		Description: description,
		Priority:    priority,
		Status:      StatusPending,
		CreatedAt:   time.Now().Unix(),
	}
}

// HasDueDate reports whether a due date has been set.
func (t *Task) HasDueDate() bool {
	return t.DueDate > 0
}

func (t *Task) IsCompleted() bool {
	return t.Status == StatusCompleted
}

// IsOverdue reports whether the due date is in the past. A completed
// task is never overdue.
func (t *Task) IsOverdue() bool {
	if !t.HasDueDate() || t.IsCompleted() {
		return false
	}
	return time.Now().Unix() > t.DueDate
}

// DaysUntilDue returns floor((dueDate-now)/86400), so a task due
// earlier today already reads as -1. Returns 0 when no due date is set.
func (t *Task) DaysUntilDue() int {
	if !t.HasDueDate() {
		return 0
	}
	secs := t.DueDate - time.Now().Unix()
	days := secs / 86400
	if secs < 0 && secs%86400 != 0 {
		days--
	}
	return int(days)
}

// MarkComplete forces status to COMPLETED. It is the only dedicated
// transition; any other status is set directly.
func (t *Task) MarkComplete() {
	t.Status = StatusCompleted
}
