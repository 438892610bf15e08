package usecase

import (
	"context"
	"testing"
	"time"

	"taskman/internal/domain"
	"taskman/internal/domain/models"
)

// memRepo is an in-memory TaskRepository for store tests. It records
// how many times Save was called so autosave behavior is observable.
type memRepo struct {
	tasks     []*models.Task
	nextID    int
	saveCount int
}

func (r *memRepo) Load(ctx context.Context) ([]*models.Task, int, error) {
	return r.tasks, r.nextID, nil
}

func (r *memRepo) Save(ctx context.Context, tasks []*models.Task, nextID int) error {
	r.tasks = append([]*models.Task(nil), tasks...)
	r.nextID = nextID
	r.saveCount++
	return nil
}

func (r *memRepo) Insert(ctx context.Context, task *models.Task) error { return nil }
func (r *memRepo) Update(ctx context.Context, task *models.Task) error { return nil }
func (r *memRepo) Delete(ctx context.Context, id int) error            { return nil }

func (r *memRepo) GetByID(ctx context.Context, id int) (*models.Task, error) {
	for _, t := range r.tasks {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memRepo) GetAll(ctx context.Context) ([]*models.Task, error) { return r.tasks, nil }
func (r *memRepo) Close() error                                       { return nil }

func newTestStore(t *testing.T) (*Store, *memRepo) {
	t.Helper()
	repo := &memRepo{}
	store, err := NewStore(repo, nil)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	return store, repo
}

func TestAddAssignsIncreasingIDs(t *testing.T) {
	store, _ := newTestStore(t)

	first := store.Add("first", "d", models.PriorityLow)
	second := store.Add("second", "d", models.PriorityMedium)
	third := store.Add("third", "d", models.PriorityHigh)

	if first != 1 || second != 2 || third != 3 {
		t.Errorf("ids = %d, %d, %d, expected 1, 2, 3", first, second, third)
	}
}

func TestIDsNeverReused(t *testing.T) {
	store, _ := newTestStore(t)

	store.Add("a", "d", models.PriorityLow)
	id := store.Add("b", "d", models.PriorityLow)
	store.Delete(id)

	next := store.Add("c", "d", models.PriorityLow)
	if next != id+1 {
		t.Errorf("id after delete = %d, expected %d", next, id+1)
	}
}

func TestDeleteAbsentID(t *testing.T) {
	store, repo := newTestStore(t)
	store.Add("a", "d", models.PriorityLow)
	saves := repo.saveCount

	if store.Delete(999) {
		t.Error("Delete(999) = true, expected false")
	}
	if store.Count() != 1 {
		t.Errorf("Count() = %d, expected 1", store.Count())
	}
	if repo.saveCount != saves {
		t.Error("failed delete must not autosave")
	}
}

func TestMarkCompleteClearsOverdue(t *testing.T) {
	store, _ := newTestStore(t)
	id := store.Add("late", "d", models.PriorityHigh)
	store.Update(id, func(task *models.Task) {
		task.DueDate = time.Now().Unix() - 86400
	})

	if !store.FindByID(id).IsOverdue() {
		t.Fatal("task with past due date must be overdue")
	}

	if !store.MarkComplete(id) {
		t.Fatal("MarkComplete returned false for existing id")
	}
	task := store.FindByID(id)
	if !task.IsCompleted() {
		t.Error("task must be completed")
	}
	if task.IsOverdue() {
		t.Error("completed task must not be overdue")
	}

	// Idempotent on repeat.
	if !store.MarkComplete(id) {
		t.Error("repeated MarkComplete must still succeed")
	}
}

func TestSearchMatchesTitleAndDescription(t *testing.T) {
	store, _ := newTestStore(t)
	store.Add("Buy groceries", "milk and eggs", models.PriorityLow)
	store.Add("Clean house", "vacuum the GROCERY aisle rug", models.PriorityLow)
	store.Add("Write report", "quarterly numbers", models.PriorityLow)

	matches := store.Search("grocer")
	if len(matches) != 2 {
		t.Fatalf("len(matches) = %d, expected 2", len(matches))
	}
	if matches[0].ID != 1 || matches[1].ID != 2 {
		t.Errorf("matches must preserve collection order, got %d then %d", matches[0].ID, matches[1].ID)
	}
}

func TestSortByPriority(t *testing.T) {
	store, _ := newTestStore(t)
	store.Add("low", "d", models.PriorityLow)
	store.Add("high", "d", models.PriorityHigh)
	store.Add("medium", "d", models.PriorityMedium)

	store.SortByPriority(true)
	tasks := store.Tasks()
	if tasks[0].Priority != models.PriorityHigh ||
		tasks[1].Priority != models.PriorityMedium ||
		tasks[2].Priority != models.PriorityLow {
		t.Errorf("high-to-low sort wrong: %v, %v, %v", tasks[0].Priority, tasks[1].Priority, tasks[2].Priority)
	}

	store.SortByPriority(false)
	tasks = store.Tasks()
	if tasks[0].Priority != models.PriorityLow {
		t.Errorf("low-to-high sort wrong: first is %v", tasks[0].Priority)
	}
}

func TestSortByPriorityIsStable(t *testing.T) {
	store, _ := newTestStore(t)
	a := store.Add("first high", "d", models.PriorityHigh)
	store.Add("low", "d", models.PriorityLow)
	b := store.Add("second high", "d", models.PriorityHigh)

	store.SortByPriority(true)
	tasks := store.Tasks()
	if tasks[0].ID != a || tasks[1].ID != b {
		t.Errorf("equal priorities must keep insertion order, got %d then %d", tasks[0].ID, tasks[1].ID)
	}
}

func TestSortByDueDateKeepsDatelessLast(t *testing.T) {
	store, _ := newTestStore(t)
	now := time.Now().Unix()

	noDate := store.Add("no date", "d", models.PriorityLow)
	later := store.Add("later", "d", models.PriorityLow)
	store.Update(later, func(task *models.Task) { task.DueDate = now + 2*86400 })
	soon := store.Add("soon", "d", models.PriorityLow)
	store.Update(soon, func(task *models.Task) { task.DueDate = now + 86400 })

	store.SortByDueDate(true)
	tasks := store.Tasks()
	if tasks[0].ID != soon || tasks[1].ID != later || tasks[2].ID != noDate {
		t.Errorf("soonest-first order wrong: %d, %d, %d", tasks[0].ID, tasks[1].ID, tasks[2].ID)
	}

	// Dateless tasks stay last when the direction flips.
	store.SortByDueDate(false)
	tasks = store.Tasks()
	if tasks[0].ID != later || tasks[1].ID != soon || tasks[2].ID != noDate {
		t.Errorf("latest-first order wrong: %d, %d, %d", tasks[0].ID, tasks[1].ID, tasks[2].ID)
	}
}

func TestSortByTitleCaseInsensitive(t *testing.T) {
	store, _ := newTestStore(t)
	store.Add("banana", "d", models.PriorityLow)
	store.Add("Apple", "d", models.PriorityLow)
	store.Add("cherry", "d", models.PriorityLow)

	store.SortByTitle(true)
	tasks := store.Tasks()
	if tasks[0].Title != "Apple" || tasks[1].Title != "banana" || tasks[2].Title != "cherry" {
		t.Errorf("A-Z order wrong: %q, %q, %q", tasks[0].Title, tasks[1].Title, tasks[2].Title)
	}
}

func TestMarkAllComplete(t *testing.T) {
	store, repo := newTestStore(t)
	store.Add("a", "d", models.PriorityLow)
	store.Add("b", "d", models.PriorityLow)
	done := store.Add("c", "d", models.PriorityLow)
	store.MarkComplete(done)
	saves := repo.saveCount

	if got := store.MarkAllComplete(); got != 2 {
		t.Errorf("MarkAllComplete() = %d, expected 2", got)
	}
	if repo.saveCount != saves+1 {
		t.Errorf("expected exactly one autosave for the batch, got %d", repo.saveCount-saves)
	}

	// Nothing left to complete.
	if got := store.MarkAllComplete(); got != 0 {
		t.Errorf("second MarkAllComplete() = %d, expected 0", got)
	}
}

func TestDeleteAllCompleted(t *testing.T) {
	store, _ := newTestStore(t)
	keep := store.Add("keep", "d", models.PriorityLow)
	gone := store.Add("gone", "d", models.PriorityLow)
	store.MarkComplete(gone)

	if got := store.DeleteAllCompleted(); got != 1 {
		t.Errorf("DeleteAllCompleted() = %d, expected 1", got)
	}
	if store.Count() != 1 || store.FindByID(keep) == nil {
		t.Error("incomplete task must survive DeleteAllCompleted")
	}
}

func TestChangePriorityBulk(t *testing.T) {
	store, _ := newTestStore(t)
	store.Add("a", "d", models.PriorityLow)
	store.Add("b", "d", models.PriorityLow)
	store.Add("c", "d", models.PriorityMedium)

	if got := store.ChangePriorityBulk(models.PriorityLow, models.PriorityHigh); got != 2 {
		t.Errorf("ChangePriorityBulk() = %d, expected 2", got)
	}
	for _, task := range store.Tasks() {
		if task.Priority == models.PriorityLow {
			t.Error("no low-priority task should remain")
		}
	}
}

func TestDeleteAllKeepsIDCounter(t *testing.T) {
	store, _ := newTestStore(t)
	store.Add("a", "d", models.PriorityLow)
	store.Add("b", "d", models.PriorityLow)

	if got := store.DeleteAll(); got != 2 {
		t.Errorf("DeleteAll() = %d, expected 2", got)
	}
	if next := store.Add("c", "d", models.PriorityLow); next != 3 {
		t.Errorf("id after DeleteAll = %d, expected 3", next)
	}
}

func TestStatistics(t *testing.T) {
	store, _ := newTestStore(t)
	now := time.Now().Unix()

	a := store.Add("overdue high", "d", models.PriorityHigh)
	store.Update(a, func(task *models.Task) { task.DueDate = now - 86400 })

	b := store.Add("due soon", "d", models.PriorityMedium)
	store.Update(b, func(task *models.Task) { task.DueDate = now + 2*86400 })

	c := store.Add("done", "d", models.PriorityLow)
	store.MarkComplete(c)

	store.Add("plain", "d", models.PriorityMedium)

	st := store.Statistics()
	if st.Total != 4 {
		t.Errorf("Total = %d, expected 4", st.Total)
	}
	if st.Pending != 3 || st.Completed != 1 {
		t.Errorf("Pending/Completed = %d/%d, expected 3/1", st.Pending, st.Completed)
	}
	if st.HighPriority != 1 || st.MediumPriority != 2 || st.LowPriority != 1 {
		t.Errorf("priority counts = %d/%d/%d", st.LowPriority, st.MediumPriority, st.HighPriority)
	}
	if st.WithDueDate != 2 {
		t.Errorf("WithDueDate = %d, expected 2", st.WithDueDate)
	}
	if st.Overdue != 1 {
		t.Errorf("Overdue = %d, expected 1", st.Overdue)
	}
	if st.DueSoon != 1 {
		t.Errorf("DueSoon = %d, expected 1", st.DueSoon)
	}
	if st.CompletionRate != 25 {
		t.Errorf("CompletionRate = %v, expected 25", st.CompletionRate)
	}
	if st.OverdueRate != 50 {
		t.Errorf("OverdueRate = %v, expected 50", st.OverdueRate)
	}
}

func TestAutosaveAfterMutation(t *testing.T) {
	store, repo := newTestStore(t)

	store.Add("a", "d", models.PriorityLow)
	if repo.saveCount != 1 {
		t.Errorf("saveCount after Add = %d, expected 1", repo.saveCount)
	}
	if repo.nextID != 2 {
		t.Errorf("persisted nextID = %d, expected 2", repo.nextID)
	}

	store.MarkComplete(1)
	store.Delete(1)
	if repo.saveCount != 3 {
		t.Errorf("saveCount = %d, expected 3", repo.saveCount)
	}
}
