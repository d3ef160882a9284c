package mocks

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/task-manager-api/internal/service/auth"
)

// MockJWTService implements auth.JWTService for testing.
//
// Without overrides it issues opaque tokens of the form "token-<user>-<n>"
// and validates exactly those, so tests can exercise the token list without
// real signing.
type MockJWTService struct {
	// GenerateTokenFn allows test cases to mock the GenerateToken behavior
	GenerateTokenFn func(ctx context.Context, userID uuid.UUID) (string, error)

	// ValidateTokenFn allows test cases to mock the ValidateToken behavior
	ValidateTokenFn func(ctx context.Context, tokenString string) (*auth.Claims, error)

	counter atomic.Int64
}

var _ auth.JWTService = (*MockJWTService)(nil)

// GenerateToken implements the auth.JWTService interface
func (m *MockJWTService) GenerateToken(ctx context.Context, userID uuid.UUID) (string, error) {
	if m.GenerateTokenFn != nil {
		return m.GenerateTokenFn(ctx, userID)
	}
	return fmt.Sprintf("token-%s-%d", userID, m.counter.Add(1)), nil
}

// ValidateToken implements the auth.JWTService interface
func (m *MockJWTService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if m.ValidateTokenFn != nil {
		return m.ValidateTokenFn(ctx, tokenString)
	}
	if tokenString == "" {
		return nil, auth.ErrMissingToken
	}

	var (
		raw string
		n   int64
	)
	if _, err := fmt.Sscanf(tokenString, "token-%36s-%d", &raw, &n); err != nil {
		return nil, auth.ErrInvalidToken
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return nil, auth.ErrInvalidToken
	}

	now := time.Now()
	return &auth.Claims{
		UserID:    userID,
		Subject:   userID.String(),
		IssuedAt:  now,
		ExpiresAt: now.Add(time.Hour),
		ID:        fmt.Sprint(n),
	}, nil
}
