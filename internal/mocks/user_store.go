package mocks

import (
	"context"
	"database/sql"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/task-manager-api/internal/domain"
	"github.com/phrazzld/task-manager-api/internal/store"
)

// MockUserStore is an in-memory store.UserStore. Users are returned as copies
// so callers cannot change stored state without calling Update.
type MockUserStore struct {
	// Function fields for customizable behavior
	CreateFn          func(ctx context.Context, user *domain.User) error
	GetByIDFn         func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmailFn      func(ctx context.Context, email string) (*domain.User, error)
	GetByTokenFn      func(ctx context.Context, id uuid.UUID, token string) (*domain.User, error)
	UpdateFn          func(ctx context.Context, user *domain.User) error
	DeleteFn          func(ctx context.Context, id uuid.UUID) error
	AddTokenFn        func(ctx context.Context, id uuid.UUID, token string) error
	RemoveTokenFn     func(ctx context.Context, id uuid.UUID, token string) error
	RemoveAllTokensFn func(ctx context.Context, id uuid.UUID) error
	SetAvatarFn       func(ctx context.Context, id uuid.UUID, data []byte) error
	GetAvatarFn       func(ctx context.Context, id uuid.UUID) ([]byte, error)

	mu      sync.Mutex
	users   map[uuid.UUID]domain.User
	tokens  map[uuid.UUID][]string
	avatars map[uuid.UUID][]byte
}

var _ store.UserStore = (*MockUserStore)(nil)

// NewMockUserStore creates an empty store.
func NewMockUserStore() *MockUserStore {
	return &MockUserStore{
		users:   make(map[uuid.UUID]domain.User),
		tokens:  make(map[uuid.UUID][]string),
		avatars: make(map[uuid.UUID][]byte),
	}
}

// Seed inserts users directly, bypassing CreateFn.
func (m *MockUserStore) Seed(users ...*domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range users {
		m.users[u.ID] = *u
	}
}

// Count returns the number of stored users.
func (m *MockUserStore) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users)
}

func (m *MockUserStore) emailTaken(email string, except uuid.UUID) bool {
	for id, u := range m.users {
		if id != except && u.Email == email {
			return true
		}
	}
	return false
}

// Create implements store.UserStore.
func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, user)
	}
	if user.HashedPassword == "" {
		return store.ErrInvalidEntity
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.emailTaken(user.Email, uuid.Nil) {
		return store.ErrEmailExists
	}
	m.users[user.ID] = *user
	return nil
}

// GetByID implements store.UserStore.
func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return &u, nil
}

// GetByEmail implements store.UserStore.
func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, store.ErrUserNotFound
}

// GetByToken implements store.UserStore.
func (m *MockUserStore) GetByToken(ctx context.Context, id uuid.UUID, token string) (*domain.User, error) {
	if m.GetByTokenFn != nil {
		return m.GetByTokenFn(ctx, id, token)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok || !slices.Contains(m.tokens[id], token) {
		return nil, store.ErrUserNotFound
	}
	return &u, nil
}

// Update implements store.UserStore.
func (m *MockUserStore) Update(ctx context.Context, user *domain.User) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, user)
	}
	if user.HashedPassword == "" {
		return store.ErrInvalidEntity
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.ID]; !ok {
		return store.ErrUserNotFound
	}
	if m.emailTaken(user.Email, user.ID) {
		return store.ErrEmailExists
	}
	m.users[user.ID] = *user
	return nil
}

// Delete implements store.UserStore. Tokens and avatar go with the user.
func (m *MockUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return store.ErrUserNotFound
	}
	delete(m.users, id)
	delete(m.tokens, id)
	delete(m.avatars, id)
	return nil
}

// AddToken implements store.UserStore.
func (m *MockUserStore) AddToken(ctx context.Context, id uuid.UUID, token string) error {
	if m.AddTokenFn != nil {
		return m.AddTokenFn(ctx, id, token)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return store.ErrUserNotFound
	}
	m.tokens[id] = append(m.tokens[id], token)
	return nil
}

// RemoveToken implements store.UserStore.
func (m *MockUserStore) RemoveToken(ctx context.Context, id uuid.UUID, token string) error {
	if m.RemoveTokenFn != nil {
		return m.RemoveTokenFn(ctx, id, token)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	i := slices.Index(m.tokens[id], token)
	if i < 0 {
		return store.ErrTokenNotFound
	}
	m.tokens[id] = slices.Delete(m.tokens[id], i, i+1)
	return nil
}

// RemoveAllTokens implements store.UserStore.
func (m *MockUserStore) RemoveAllTokens(ctx context.Context, id uuid.UUID) error {
	if m.RemoveAllTokensFn != nil {
		return m.RemoveAllTokensFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tokens, id)
	return nil
}

// ListTokens implements store.UserStore.
func (m *MockUserStore) ListTokens(ctx context.Context, id uuid.UUID) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.tokens[id]), nil
}

// SetAvatar implements store.UserStore.
func (m *MockUserStore) SetAvatar(ctx context.Context, id uuid.UUID, data []byte) error {
	if m.SetAvatarFn != nil {
		return m.SetAvatarFn(ctx, id, data)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return store.ErrUserNotFound
	}
	if data == nil {
		delete(m.avatars, id)
		return nil
	}
	m.avatars[id] = slices.Clone(data)
	return nil
}

// GetAvatar implements store.UserStore.
func (m *MockUserStore) GetAvatar(ctx context.Context, id uuid.UUID) ([]byte, error) {
	if m.GetAvatarFn != nil {
		return m.GetAvatarFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return nil, store.ErrUserNotFound
	}
	data, ok := m.avatars[id]
	if !ok {
		return nil, store.ErrAvatarNotFound
	}
	return slices.Clone(data), nil
}

// WithTx implements store.UserStore. The fake has no transactions and
// returns itself.
func (m *MockUserStore) WithTx(*sql.Tx) store.UserStore {
	return m
}
