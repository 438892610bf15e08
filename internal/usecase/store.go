// Package usecase holds the task store: the authoritative in-memory
// collection every frontend works against.
package usecase

import (
	"context"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"taskman/internal/domain/models"
	"taskman/internal/domain/repositories"
	"taskman/internal/export"
)

// Store owns the ordered task collection and the id counter. Every
// mutation is followed by a full-collection save (autosave); a failed
// save is logged and the operation still counts as done in memory.
//
// All operations hold s.mu. The REST frontend shares one Store across
// concurrent requests, so the read-modify-write plus autosave sequence
// must be a single critical section.
type Store struct {
	mu     sync.Mutex
	repo   repositories.TaskRepository
	tasks  []*models.Task
	nextID int
	log    *zap.Logger
}

// NewStore constructs a store and immediately loads persisted state.
// On first run (empty medium) the id counter starts at 1.
func NewStore(repo repositories.TaskRepository, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	tasks, nextID, err := repo.Load(context.Background())
	if err != nil {
		return nil, err
	}
	if nextID < 1 {
		nextID = 1
	}
	if tasks == nil {
		tasks = []*models.Task{}
	}
	return &Store{
		repo:   repo,
		tasks:  tasks,
		nextID: nextID,
		log:    log,
	}, nil
}

// autosave persists the whole collection. Must be called with s.mu held.
func (s *Store) autosave() {
	if err := s.repo.Save(context.Background(), s.tasks, s.nextID); err != nil {
		// Memory is now ahead of durable state; the next successful
		// save catches up.
		s.log.Error("autosave failed", zap.Error(err))
	}
}

// Add appends a new task and returns its id. Ids are consumed even if
// the save fails; they are never reused or backfilled.
func (s *Store) Add(title, description string, priority models.Priority) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	task := models.New(s.nextID, title, description, priority)
	s.tasks = append(s.tasks, task)
	s.nextID++
	s.autosave()
	return task.ID
}

// FindByID returns the task with the given id, or nil. The pointer
// aliases store-owned state; callers that mutate it must follow up
// with Update or Save.
func (s *Store) FindByID(id int) *models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.findLocked(id)
}

func (s *Store) findLocked(id int) *models.Task {
	for _, t := range s.tasks {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// Update applies fn to the task with the given id under the store lock
// and autosaves. Returns false if the id is absent.
func (s *Store) Update(id int, fn func(*models.Task)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	task := s.findLocked(id)
	if task == nil {
		return false
	}
	fn(task)
	s.autosave()
	return true
}

// Delete removes the task with the given id. Returns false (and leaves
// the collection untouched) if the id is absent.
func (s *Store) Delete(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, t := range s.tasks {
		if t.ID == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			s.autosave()
			return true
		}
	}
	return false
}

// MarkComplete sets the task's status to COMPLETED. Idempotent.
func (s *Store) MarkComplete(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	task := s.findLocked(id)
	if task == nil {
		return false
	}
	task.MarkComplete()
	s.autosave()
	return true
}

// Search returns all tasks whose title or description contains keyword,
// case-insensitively, preserving their relative order. Keyword
// validation is the frontend's job.
func (s *Store) Search(keyword string) []*models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	keyword = strings.ToLower(keyword)
	var matches []*models.Task
	for _, t := range s.tasks {
		if strings.Contains(strings.ToLower(t.Title), keyword) ||
			strings.Contains(strings.ToLower(t.Description), keyword) {
			matches = append(matches, t)
		}
	}
	return matches
}

// Tasks returns a snapshot of the collection in its current order.
func (s *Store) Tasks() []*models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := make([]*models.Task, len(s.tasks))
	copy(snapshot, s.tasks)
	return snapshot
}

// Count returns the number of tasks.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Save persists the current state explicitly. Used after a caller has
// mutated a borrowed task reference outside Update.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repo.Save(context.Background(), s.tasks, s.nextID)
}

// sortStable reorders the collection in place and autosaves, so the
// persisted order matches the displayed order.
func (s *Store) sortStable(less func(a, b *models.Task) bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sort.SliceStable(s.tasks, func(i, j int) bool {
		return less(s.tasks[i], s.tasks[j])
	})
	s.autosave()
}

// SortByPriority orders by priority ordinal, direction per highToLow.
func (s *Store) SortByPriority(highToLow bool) {
	s.sortStable(func(a, b *models.Task) bool {
		if highToLow {
			return a.Priority > b.Priority
		}
		return a.Priority < b.Priority
	})
}

// SortByDueDate orders dated tasks by timestamp. Tasks without a due
// date sort to the end under either direction.
func (s *Store) SortByDueDate(soonestFirst bool) {
	s.sortStable(func(a, b *models.Task) bool {
		if !a.HasDueDate() {
			return false
		}
		if !b.HasDueDate() {
			return true
		}
		if soonestFirst {
			return a.DueDate < b.DueDate
		}
		return a.DueDate > b.DueDate
	})
}

// SortByCreationDate orders by creation timestamp.
func (s *Store) SortByCreationDate(newestFirst bool) {
	s.sortStable(func(a, b *models.Task) bool {
		if newestFirst {
			return a.CreatedAt > b.CreatedAt
		}
		return a.CreatedAt < b.CreatedAt
	})
}

// SortByStatus orders PENDING before IN_PROGRESS before COMPLETED.
func (s *Store) SortByStatus() {
	s.sortStable(func(a, b *models.Task) bool {
		return a.Status < b.Status
	})
}

// SortByTitle orders by title, case-insensitively.
func (s *Store) SortByTitle(ascending bool) {
	s.sortStable(func(a, b *models.Task) bool {
		ta, tb := strings.ToLower(a.Title), strings.ToLower(b.Title)
		if ascending {
			return ta < tb
		}
		return ta > tb
	})
}

// SortByID orders by id.
func (s *Store) SortByID(ascending bool) {
	s.sortStable(func(a, b *models.Task) bool {
		if ascending {
			return a.ID < b.ID
		}
		return a.ID > b.ID
	})
}

// MarkAllComplete completes every incomplete task and returns how many
// changed. One autosave covers the whole batch.
func (s *Store) MarkAllComplete() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, t := range s.tasks {
		if !t.IsCompleted() {
			t.MarkComplete()
			count++
		}
	}
	if count > 0 {
		s.autosave()
	}
	return count
}

// DeleteAllCompleted removes every completed task.
func (s *Store) DeleteAllCompleted() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.tasks[:0]
	count := 0
	for _, t := range s.tasks {
		if t.IsCompleted() {
			count++
		} else {
			kept = append(kept, t)
		}
	}
	s.tasks = kept
	if count > 0 {
		s.autosave()
	}
	return count
}

// DeleteAll clears the collection. The id counter keeps its value.
func (s *Store) DeleteAll() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := len(s.tasks)
	s.tasks = []*models.Task{}
	if count > 0 {
		s.autosave()
	}
	return count
}

// ChangePriorityBulk moves every task with priority from to priority to
// and returns how many moved.
func (s *Store) ChangePriorityBulk(from, to models.Priority) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, t := range s.tasks {
		if t.Priority == from {
			t.Priority = to
			count++
		}
	}
	if count > 0 {
		s.autosave()
	}
	return count
}

// ExportCSV writes the whole collection to a CSV file.
func (s *Store) ExportCSV(path string) error {
	return export.ToCSV(s.Tasks(), path)
}

// ExportCSVByStatus writes only tasks with the given status.
func (s *Store) ExportCSVByStatus(status models.Status, path string) error {
	var filtered []*models.Task
	for _, t := range s.Tasks() {
		if t.Status == status {
			filtered = append(filtered, t)
		}
	}
	return export.ToCSV(filtered, path)
}

// ExportCSVByPriority writes only tasks with the given priority.
func (s *Store) ExportCSVByPriority(priority models.Priority, path string) error {
	var filtered []*models.Task
	for _, t := range s.Tasks() {
		if t.Priority == priority {
			filtered = append(filtered, t)
		}
	}
	return export.ToCSV(filtered, path)
}

// Close releases the underlying repository.
func (s *Store) Close() error {
	return s.repo.Close()
}
