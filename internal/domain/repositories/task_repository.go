package repositories

import (
	"context"

	"taskman/internal/domain/models"
)

// TaskRepository is the contract every persistence backend implements.
//
// Load and Save move the whole collection at once: Save conceptually
// deletes everything and reinserts everything, and is called after every
// store mutation (autosave). Load reports a missing or empty medium as
// an empty collection with nextID 0, never as an error; the caller keeps
// its own default in that case. A Save failure is returned to the caller
// and logged, but there is no rollback: durable state may end up behind
// memory until the next successful save.
//
// The single-row operations exist for the API path that works against
// the backend directly instead of through the in-memory store.
type TaskRepository interface {
	Load(ctx context.Context) (tasks []*models.Task, nextID int, err error)
	Save(ctx context.Context, tasks []*models.Task, nextID int) error

	Insert(ctx context.Context, task *models.Task) error
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id int) error
	GetByID(ctx context.Context, id int) (*models.Task, error)
	GetAll(ctx context.Context) ([]*models.Task, error)

	Close() error
}
