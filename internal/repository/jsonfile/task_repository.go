package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"go.uber.org/zap"

	"taskman/internal/domain"
	"taskman/internal/domain/models"
	"taskman/internal/domain/repositories"
	"taskman/internal/logger"
)

// document is the persisted file layout: one object holding the id
// counter and the task list, in display order.
type document struct {
	NextID int            `json:"nextId"`
	Tasks  []*models.Task `json:"tasks"`
}

// taskRepository persists the whole collection to a single JSON file.
// Writes go to a temp file first and are renamed into place, so a
// crashed save never leaves a half-written data file. A sidecar .lock
// file serializes access across processes; the rename would otherwise
// defeat a lock held on the data file itself.
type taskRepository struct {
	path string
	flk  *flock.Flock
	log  *zap.Logger
}

// NewTaskRepository creates a JSON-file task repository at path,
// creating the parent directory if needed.
func NewTaskRepository(path string) (repositories.TaskRepository, error) {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory %s: %w", dir, err)
		}
	}
	return &taskRepository{
		path: path,
		flk:  flock.New(path + ".lock"),
		log:  logger.Named("jsonfile"),
	}, nil
}

func (r *taskRepository) Load(ctx context.Context) ([]*models.Task, int, error) {
	if err := r.flk.Lock(); err != nil {
		return nil, 0, fmt.Errorf("failed to lock %s: %w", r.path, err)
	}
	defer func() { _ = r.flk.Unlock() }()

	return r.loadLocked()
}

func (r *taskRepository) loadLocked() ([]*models.Task, int, error) {
	data, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		// First run is a normal case, not a failure.
		return []*models.Task{}, 0, nil
	}
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read %s: %w", r.path, err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		// A corrupt file must not brick the application; start fresh.
		r.log.Warn("task file is malformed, starting with an empty collection",
			zap.String("path", r.path),
			zap.Error(err),
		)
		return []*models.Task{}, 0, nil
	}

	if doc.Tasks == nil {
		doc.Tasks = []*models.Task{}
	}
	return doc.Tasks, doc.NextID, nil
}

func (r *taskRepository) Save(ctx context.Context, tasks []*models.Task, nextID int) error {
	if err := r.flk.Lock(); err != nil {
		return fmt.Errorf("failed to lock %s: %w", r.path, err)
	}
	defer func() { _ = r.flk.Unlock() }()

	return r.saveLocked(tasks, nextID)
}

func (r *taskRepository) saveLocked(tasks []*models.Task, nextID int) error {
	if tasks == nil {
		tasks = []*models.Task{}
	}
	data, err := json.MarshalIndent(document{NextID: nextID, Tasks: tasks}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal tasks: %w", err)
	}
	data = append(data, '\n')

	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", r.path, err)
	}
	return nil
}

// Single-row operations read the whole file, apply the change and write
// the whole file back. Fine at personal-task-list scale.

func (r *taskRepository) Insert(ctx context.Context, task *models.Task) error {
	return r.modify(func(doc *document) error {
		doc.Tasks = append(doc.Tasks, task)
		if task.ID >= doc.NextID {
			doc.NextID = task.ID + 1
		}
		return nil
	})
}

func (r *taskRepository) Update(ctx context.Context, task *models.Task) error {
	return r.modify(func(doc *document) error {
		for i, t := range doc.Tasks {
			if t.ID == task.ID {
				doc.Tasks[i] = task
				return nil
			}
		}
		return domain.ErrNotFound
	})
}

func (r *taskRepository) Delete(ctx context.Context, id int) error {
	return r.modify(func(doc *document) error {
		for i, t := range doc.Tasks {
			if t.ID == id {
				doc.Tasks = append(doc.Tasks[:i], doc.Tasks[i+1:]...)
				return nil
			}
		}
		return domain.ErrNotFound
	})
}

func (r *taskRepository) GetByID(ctx context.Context, id int) (*models.Task, error) {
	tasks, _, err := r.Load(ctx)
	if err != nil {
		return nil, err
	}
	for _, t := range tasks {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *taskRepository) GetAll(ctx context.Context) ([]*models.Task, error) {
	tasks, _, err := r.Load(ctx)
	return tasks, err
}

func (r *taskRepository) modify(fn func(doc *document) error) error {
	if err := r.flk.Lock(); err != nil {
		return fmt.Errorf("failed to lock %s: %w", r.path, err)
	}
	defer func() { _ = r.flk.Unlock() }()

	tasks, nextID, err := r.loadLocked()
	if err != nil {
		return err
	}
	doc := document{NextID: nextID, Tasks: tasks}
	if err := fn(&doc); err != nil {
		return err
	}
	return r.saveLocked(doc.Tasks, doc.NextID)
}

func (r *taskRepository) Close() error {
	return nil
}
