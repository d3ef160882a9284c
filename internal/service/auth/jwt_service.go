package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// JWTService issues and validates signed session tokens.
type JWTService interface {
	// GenerateToken creates a signed token bound to userID.
	GenerateToken(ctx context.Context, userID uuid.UUID) (string, error)

	// ValidateToken checks signature and expiry and returns the token's claims.
	// It does not check whether the session is still active.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims is the validated content of a session token.
type Claims struct {
	UserID    uuid.UUID
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
	ID        string
}
