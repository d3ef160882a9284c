package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/task-manager-api/internal/domain"
)

// UserStore defines the interface for user data persistence, including the
// user's session tokens and avatar image.
type UserStore interface {
	// Create saves a new user. The user must already carry a HashedPassword.
	// Returns ErrEmailExists if the email is already taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by ID. Returns ErrUserNotFound if absent.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves a user by normalized email. Returns ErrUserNotFound if absent.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// GetByToken retrieves the user with the given ID only if token is in
	// that user's active token list. Returns ErrUserNotFound otherwise.
	GetByToken(ctx context.Context, id uuid.UUID, token string) (*domain.User, error)

	// Update persists name, email, age and HashedPassword.
	// Returns ErrUserNotFound or ErrEmailExists.
	Update(ctx context.Context, user *domain.User) error

	// Delete removes a user. Returns ErrUserNotFound if absent.
	Delete(ctx context.Context, id uuid.UUID) error

	// AddToken appends token to the user's active token list.
	AddToken(ctx context.Context, id uuid.UUID, token string) error

	// RemoveToken removes exactly one token. Returns ErrTokenNotFound if it was not present.
	RemoveToken(ctx context.Context, id uuid.UUID, token string) error

	// RemoveAllTokens clears the user's token list.
	RemoveAllTokens(ctx context.Context, id uuid.UUID) error

	// ListTokens returns the active tokens in issue order.
	ListTokens(ctx context.Context, id uuid.UUID) ([]string, error)

	// SetAvatar stores raw image bytes; a nil slice clears the avatar.
	// Returns ErrUserNotFound if absent.
	SetAvatar(ctx context.Context, id uuid.UUID, data []byte) error

	// GetAvatar returns the stored image bytes.
	// Returns ErrUserNotFound or ErrAvatarNotFound.
	GetAvatar(ctx context.Context, id uuid.UUID) ([]byte, error)

	// WithTx returns a UserStore that runs on the given transaction.
	WithTx(tx *sql.Tx) UserStore
}
