package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/task-manager-api/internal/domain"
)

// TaskSortField names a column tasks can be ordered by.
type TaskSortField string

// Sortable task fields.
const (
	SortByDescription TaskSortField = "description"
	SortByCompleted   TaskSortField = "completed"
	SortByCreatedAt   TaskSortField = "created_at"
	SortByUpdatedAt   TaskSortField = "updated_at"
)

var sortFieldAliases = map[string]TaskSortField{
	"description": SortByDescription,
	"completed":   SortByCompleted,
	"created_at":  SortByCreatedAt,
	"createdAt":   SortByCreatedAt,
	"updated_at":  SortByUpdatedAt,
	"updatedAt":   SortByUpdatedAt,
}

// ParseTaskSortField resolves a client-supplied field name, accepting both
// snake_case and camelCase spellings of the timestamps.
func ParseTaskSortField(name string) (TaskSortField, bool) {
	f, ok := sortFieldAliases[name]
	return f, ok
}

// TaskSort orders a task listing.
type TaskSort struct {
	Field      TaskSortField
	Descending bool
}

// ListTasksOptions filters and pages a task listing.
// A nil Sort leaves ordering to the store, which is not guaranteed.
type ListTasksOptions struct {
	Completed *bool
	Sort      *TaskSort
	Limit     int // 0 means no limit
	Skip      int
}

// TaskStore defines the interface for task persistence. Every method that
// addresses a single task takes the owner as well and matches both in a
// single lookup.
type TaskStore interface {
	// Create saves a new task.
	Create(ctx context.Context, task *domain.Task) error

	// GetForOwner returns the task with id owned by ownerID, or ErrTaskNotFound.
	GetForOwner(ctx context.Context, id, ownerID uuid.UUID) (*domain.Task, error)

	// ListByOwner returns the owner's tasks filtered and paged by opts.
	ListByOwner(ctx context.Context, ownerID uuid.UUID, opts ListTasksOptions) ([]*domain.Task, error)

	// Update persists description and completed for a task matched by ID and
	// owner. Returns ErrTaskNotFound when no row matches.
	Update(ctx context.Context, task *domain.Task) error

	// DeleteForOwner removes and returns the task with id owned by ownerID,
	// or returns ErrTaskNotFound.
	DeleteForOwner(ctx context.Context, id, ownerID uuid.UUID) (*domain.Task, error)

	// DeleteByOwner removes every task owned by ownerID and returns the count.
	DeleteByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error)

	// WithTx returns a TaskStore that runs on the given transaction.
	WithTx(tx *sql.Tx) TaskStore
}
