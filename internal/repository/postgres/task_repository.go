package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"taskman/internal/domain"
	"taskman/internal/domain/models"
	"taskman/internal/domain/repositories"
)

// taskRepository implements repositories.TaskRepository on PostgreSQL.
// Structurally the twin of the SQLite backend: same tables, same
// position column to keep display order stable across a round trip.
type taskRepository struct {
	db *pgxpool.Pool
}

// NewTaskRepository creates a PostgreSQL task repository
func NewTaskRepository(db *pgxpool.Pool) repositories.TaskRepository {
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
	err = r.db.QueryRow(ctx, `SELECT value FROM settings WHERE key = 'next_id'`).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
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
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM tasks`); err != nil {
		return fmt.Errorf("failed to clear tasks: %w", err)
	}

	for pos, t := range tasks {
		_, err := tx.Exec(ctx, `
			INSERT INTO tasks (id, title, description, priority, status, created_at, due_date, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, t.ID, t.Title, t.Description, t.Priority.String(), t.Status.String(), t.CreatedAt, t.DueDate, pos)
		if err != nil {
			return fmt.Errorf("failed to insert task %d: %w", t.ID, err)
		}
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO settings (key, value) VALUES ('next_id', $1)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
	`, strconv.Itoa(nextID))
	if err != nil {
		return fmt.Errorf("failed to save next_id: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *taskRepository) Insert(ctx context.Context, task *models.Task) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO tasks (id, title, description, priority, status, created_at, due_date, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, (SELECT COALESCE(MAX(position), -1) + 1 FROM tasks))
	`, task.ID, task.Title, task.Description, task.Priority.String(), task.Status.String(), task.CreatedAt, task.DueDate)
	if err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}
	return nil
}

func (r *taskRepository) Update(ctx context.Context, task *models.Task) error {
	res, err := r.db.Exec(ctx, `
		UPDATE tasks
		SET title = $2, description = $3, priority = $4, status = $5, due_date = $6
		WHERE id = $1
	`, task.ID, task.Title, task.Description, task.Priority.String(), task.Status.String(), task.DueDate)
	if err != nil {
		return fmt.Errorf("failed to update task %d: %w", task.ID, err)
	}
	if res.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *taskRepository) Delete(ctx context.Context, id int) error {
	res, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete task %d: %w", id, err)
	}
	if res.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *taskRepository) GetByID(ctx context.Context, id int) (*models.Task, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, title, description, priority, status, created_at, due_date
		FROM tasks
		WHERE id = $1
	`, id)

	task, err := scanTask(row)
	if errors.Is(err, pgx.ErrNoRows) {
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
	r.db.Close()
	return nil
}

func (r *taskRepository) queryTasks(ctx context.Context, query string) ([]*models.Task, error) {
	rows, err := r.db.Query(ctx, query)
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

func scanTask(row pgx.Row) (*models.Task, error) {
	var task models.Task
	var priority, status string
	if err := row.Scan(&task.ID, &task.Title, &task.Description, &priority, &status, &task.CreatedAt, &task.DueDate); err != nil {
		return nil, err
	}
	task.Priority = models.ParsePriority(priority)
	task.Status = models.ParseStatus(status)
	return &task, nil
}
