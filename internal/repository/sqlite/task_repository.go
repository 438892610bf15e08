package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"taskman/internal/domain"
	"taskman/internal/domain/models"
	"taskman/internal/domain/repositories"
)

// taskRepository implements repositories.TaskRepository on SQLite.
// The position column preserves the collection's display order across
// a save/load round trip; the id alone cannot, since sorts rearrange
// tasks without changing their ids.
type taskRepository struct {
	db *sql.DB
}

// NewTaskRepository creates a SQLite task repository
func NewTaskRepository(db *sql.DB) repositories.TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) Load(ctx context.Context) ([]*models.Task, int, error) {
	tasks, err := r.queryTasks(ctx, `
		SELECT id, title, description, priority, status, created_at, due_date
		FROM tasks
		ORDER BY position
	`)
	if err != nil {
		return nil, 0, err
	}

	var value string
	err = r.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = 'next_id'`).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return tasks, 0, nil
	}
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read next_id: %w", err)
	}

	nextID, err := strconv.Atoi(value)
	if err != nil {
		return tasks, 0, nil
	}
	return tasks, nextID, nil
}

func (r *taskRepository) Save(ctx context.Context, tasks []*models.Task, nextID int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM tasks`); err != nil {
		return fmt.Errorf("failed to clear tasks: %w", err)
	}

	for pos, t := range tasks {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO tasks (id, title, description, priority, status, created_at, due_date, position)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, t.ID, t.Title, t.Description, t.Priority.String(), t.Status.String(), t.CreatedAt, t.DueDate, pos)
		if err != nil {
			return fmt.Errorf("failed to insert task %d: %w", t.ID, err)
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES ('next_id', ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, strconv.Itoa(nextID))
	if err != nil {
		return fmt.Errorf("failed to save next_id: %w", err)
	}

	return tx.Commit()
}

func (r *taskRepository) Insert(ctx context.Context, task *models.Task) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tasks (id, title, description, priority, status, created_at, due_date, position)
		VALUES (?, ?, ?, ?, ?, ?, ?, (SELECT COALESCE(MAX(position), -1) + 1 FROM tasks))
	`, task.ID, task.Title, task.Description, task.Priority.String(), task.Status.String(), task.CreatedAt, task.DueDate)
	if err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}
	return nil
}

func (r *taskRepository) Update(ctx context.Context, task *models.Task) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE tasks
		SET title = ?, description = ?, priority = ?, status = ?, due_date = ?
		WHERE id = ?
	`, task.Title, task.Description, task.Priority.String(), task.Status.String(), task.DueDate, task.ID)
	if err != nil {
		return fmt.Errorf("failed to update task %d: %w", task.ID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *taskRepository) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete task %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *taskRepository) GetByID(ctx context.Context, id int) (*models.Task, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, title, description, priority, status, created_at, due_date
		FROM tasks
		WHERE id = ?
	`, id)

	task, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task %d: %w", id, err)
	}
	return task, nil
}

func (r *taskRepository) GetAll(ctx context.Context) ([]*models.Task, error) {
	return r.queryTasks(ctx, `
		SELECT id, title, description, priority, status, created_at, due_date
		FROM tasks
		ORDER BY position
	`)
}

func (r *taskRepository) Close() error {
	return r.db.Close()
}

func (r *taskRepository) queryTasks(ctx context.Context, query string) ([]*models.Task, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	tasks := []*models.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*models.Task, error) {
	var task models.Task
	var priority, status string
	if err := row.Scan(&task.ID, &task.Title, &task.Description, &priority, &status, &task.CreatedAt, &task.DueDate); err != nil {
		return nil, err
	}
	task.Priority = models.ParsePriority(priority)
	task.Status = models.ParseStatus(status)
	return &task, nil
}
