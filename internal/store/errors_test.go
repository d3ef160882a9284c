package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNotFoundError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"generic error", errors.New("some error"), false},
		{"ErrNotFound", ErrNotFound, true},
		{"wrapped ErrNotFound", fmt.Errorf("lookup: %w", ErrNotFound), true},
		{"ErrUserNotFound", ErrUserNotFound, true},
		{"ErrTaskNotFound", ErrTaskNotFound, true},
		{"ErrTokenNotFound", ErrTokenNotFound, true},
		{"ErrAvatarNotFound", ErrAvatarNotFound, true},
		{"StoreError wrapping ErrTaskNotFound", NewStoreError("task", "delete", "no row", ErrTaskNotFound), true},
		{"ErrEmailExists", ErrEmailExists, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsNotFoundError(tt.err))
		})
	}
}

func TestIsDuplicateError(t *testing.T) {
	assert.True(t, IsDuplicateError(ErrEmailExists))
	assert.True(t, IsDuplicateError(fmt.Errorf("create: %w", ErrEmailExists)))
	assert.False(t, IsDuplicateError(ErrUserNotFound))
	assert.False(t, IsDuplicateError(nil))
}

func TestStoreError(t *testing.T) {
	withCause := NewStoreError("user", "update", "constraint violated", ErrEmailExists)
	assert.Equal(t, "update operation on user failed: constraint violated: entity already exists: email", withCause.Error())
	assert.ErrorIs(t, withCause, ErrEmailExists)

	bare := NewStoreError("task", "create", "empty description", nil)
	assert.Equal(t, "create operation on task failed: empty description", bare.Error())
	assert.Nil(t, bare.Unwrap())
}

func TestParseTaskSortField(t *testing.T) {
	tests := []struct {
		input string
		want  TaskSortField
		ok    bool
	}{
		{"description", SortByDescription, true},
		{"completed", SortByCompleted, true},
		{"created_at", SortByCreatedAt, true},
		{"createdAt", SortByCreatedAt, true},
		{"updated_at", SortByUpdatedAt, true},
		{"updatedAt", SortByUpdatedAt, true},
		{"owner", "", false},
		{"CREATEDAT", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseTaskSortField(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}
