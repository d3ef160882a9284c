package mocks

import (
	"cmp"
	"context"
	"database/sql"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/task-manager-api/internal/domain"
	"github.com/phrazzld/task-manager-api/internal/store"
)

// MockTaskStore is an in-memory store.TaskStore. Tasks are kept in insertion
// order, which is what ListByOwner returns when no sort is given.
type MockTaskStore struct {
	CreateFn         func(ctx context.Context, task *domain.Task) error
	GetForOwnerFn    func(ctx context.Context, id, ownerID uuid.UUID) (*domain.Task, error)
	ListByOwnerFn    func(ctx context.Context, ownerID uuid.UUID, opts store.ListTasksOptions) ([]*domain.Task, error)
	UpdateFn         func(ctx context.Context, task *domain.Task) error
	DeleteForOwnerFn func(ctx context.Context, id, ownerID uuid.UUID) (*domain.Task, error)
	DeleteByOwnerFn  func(ctx context.Context, ownerID uuid.UUID) (int64, error)

	mu    sync.Mutex
	tasks []domain.Task
}

var _ store.TaskStore = (*MockTaskStore)(nil)

// NewMockTaskStore creates an empty store.
func NewMockTaskStore() *MockTaskStore {
	return &MockTaskStore{}
}

// Seed inserts tasks directly, bypassing CreateFn.
func (m *MockTaskStore) Seed(tasks ...*domain.Task) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range tasks {
		m.tasks = append(m.tasks, *t)
	}
}

// CountForOwner returns how many tasks ownerID has.
func (m *MockTaskStore) CountForOwner(ownerID uuid.UUID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.tasks {
		if t.OwnerID == ownerID {
			n++
		}
	}
	return n
}

func (m *MockTaskStore) indexOf(id, ownerID uuid.UUID) int {
	return slices.IndexFunc(m.tasks, func(t domain.Task) bool {
		return t.ID == id && t.OwnerID == ownerID
	})
}

// Create implements store.TaskStore.
func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, task)
	}
	if err := task.Validate(); err != nil {
		return store.ErrInvalidEntity
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks = append(m.tasks, *task)
	return nil
}

// GetForOwner implements store.TaskStore.
func (m *MockTaskStore) GetForOwner(ctx context.Context, id, ownerID uuid.UUID) (*domain.Task, error) {
	if m.GetForOwnerFn != nil {
		return m.GetForOwnerFn(ctx, id, ownerID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexOf(id, ownerID)
	if i < 0 {
		return nil, store.ErrTaskNotFound
	}
	t := m.tasks[i]
	return &t, nil
}

// ListByOwner implements store.TaskStore.
func (m *MockTaskStore) ListByOwner(
	ctx context.Context,
	ownerID uuid.UUID,
	opts store.ListTasksOptions,
) ([]*domain.Task, error) {
	if m.ListByOwnerFn != nil {
		return m.ListByOwnerFn(ctx, ownerID, opts)
	}

	m.mu.Lock()
	var matched []domain.Task
	for _, t := range m.tasks {
		if t.OwnerID != ownerID {
			continue
		}
		if opts.Completed != nil && t.Completed != *opts.Completed {
			continue
		}
		matched = append(matched, t)
	}
	m.mu.Unlock()

	if opts.Sort != nil {
		slices.SortStableFunc(matched, func(a, b domain.Task) int {
			c := compareTasks(a, b, opts.Sort.Field)
			if opts.Sort.Descending {
				return -c
			}
			return c
		})
	}

	if opts.Skip >= len(matched) {
		matched = nil
	} else {
		matched = matched[opts.Skip:]
	}
	if opts.Limit > 0 && opts.Limit < len(matched) {
		matched = matched[:opts.Limit]
	}

	out := make([]*domain.Task, len(matched))
	for i := range matched {
		out[i] = &matched[i]
	}
	return out, nil
}

func compareTasks(a, b domain.Task, field store.TaskSortField) int {
	switch field {
	case store.SortByDescription:
		return strings.Compare(a.Description, b.Description)
	case store.SortByCompleted:
		return cmp.Compare(boolRank(a.Completed), boolRank(b.Completed))
	case store.SortByUpdatedAt:
		return a.UpdatedAt.Compare(b.UpdatedAt)
	default:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Update implements store.TaskStore.
func (m *MockTaskStore) Update(ctx context.Context, task *domain.Task) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, task)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexOf(task.ID, task.OwnerID)
	if i < 0 {
		return store.ErrTaskNotFound
	}
	m.tasks[i] = *task
	return nil
}

// DeleteForOwner implements store.TaskStore.
func (m *MockTaskStore) DeleteForOwner(ctx context.Context, id, ownerID uuid.UUID) (*domain.Task, error) {
	if m.DeleteForOwnerFn != nil {
		return m.DeleteForOwnerFn(ctx, id, ownerID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexOf(id, ownerID)
	if i < 0 {
		return nil, store.ErrTaskNotFound
	}
	t := m.tasks[i]
	m.tasks = slices.Delete(m.tasks, i, i+1)
	return &t, nil
}

// DeleteByOwner implements store.TaskStore.
func (m *MockTaskStore) DeleteByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	if m.DeleteByOwnerFn != nil {
		return m.DeleteByOwnerFn(ctx, ownerID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	before := len(m.tasks)
	m.tasks = slices.DeleteFunc(m.tasks, func(t domain.Task) bool { return t.OwnerID == ownerID })
	return int64(before - len(m.tasks)), nil
}

// WithTx implements store.TaskStore by returning the store itself.
func (m *MockTaskStore) WithTx(*sql.Tx) store.TaskStore {
	return m
}
