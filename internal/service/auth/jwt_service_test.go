package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/task-manager-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-that-is-long-enough-for-testing"

func newTestService(t *testing.T, lifetime time.Duration, now func() time.Time) *hmacJWTService {
	t.Helper()

	svc, err := newHMACJWTService(testSecret, lifetime, now)
	require.NoError(t, err)
	return svc
}

func TestNewJWTService(t *testing.T) {
	svc, err := NewJWTService(config.AuthConfig{JWTSecret: testSecret, TokenLifetimeHours: 168})
	require.NoError(t, err)
	assert.Equal(t, 7*24*time.Hour, svc.(*hmacJWTService).tokenLifetime)

	_, err = NewJWTService(config.AuthConfig{JWTSecret: "short", TokenLifetimeHours: 168})
	assert.ErrorContains(t, err, "at least 32 characters")

	_, err = NewJWTService(config.AuthConfig{JWTSecret: testSecret})
	assert.Error(t, err)
}

func TestGenerateToken(t *testing.T) {
	fixedTime := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	lifetime := 7 * 24 * time.Hour
	svc := newTestService(t, lifetime, func() time.Time { return fixedTime })
	userID := uuid.New()

	token, err := svc.GenerateToken(context.Background(), userID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.Equal(t, fixedTime.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, fixedTime.Add(lifetime).Unix(), claims.ExpiresAt.Unix())
	assert.NotEmpty(t, claims.ID)

	second, err := svc.GenerateToken(context.Background(), userID)
	require.NoError(t, err)
	assert.NotEqual(t, token, second, "tokens issued in the same second must differ")
}

func TestValidateToken(t *testing.T) {
	issued := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	lifetime := time.Hour
	userID := uuid.New()

	issuer := newTestService(t, lifetime, func() time.Time { return issued })
	token, err := issuer.GenerateToken(context.Background(), userID)
	require.NoError(t, err)

	otherIssuer, err := newHMACJWTService("wrong-secret-that-is-long-enough-for-testing", lifetime,
		func() time.Time { return issued })
	require.NoError(t, err)
	foreignToken, err := otherIssuer.GenerateToken(context.Background(), userID)
	require.NoError(t, err)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwtCustomClaims{
		UserID:    userID,
		TokenType: sessionTokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(issued.Add(lifetime)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noExpiryToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtCustomClaims{
		UserID:    userID,
		TokenType: sessionTokenType,
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		now     time.Time
		wantErr error
	}{
		{"valid", token, issued.Add(30 * time.Minute), nil},
		{"within clock skew after expiry", token, issued.Add(lifetime + time.Minute), nil},
		{"expired", token, issued.Add(lifetime + time.Hour), ErrExpiredToken},
		{"wrong signature", foreignToken, issued, ErrInvalidToken},
		{"tampered payload", token[:len(token)-4] + "abcd", issued, ErrInvalidToken},
		{"malformed", "not.a.jwt", issued, ErrInvalidToken},
		{"alg none", noneToken, issued, ErrInvalidToken},
		{"missing expiry", noExpiryToken, issued, ErrInvalidToken},
		{"empty", "", issued, ErrMissingToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			now := tt.now
			svc := newTestService(t, lifetime, func() time.Time { return now })

			claims, err := svc.ValidateToken(context.Background(), tt.token)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, claims)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, userID, claims.UserID)
		})
	}
}

func TestValidateToken_NotYetValid(t *testing.T) {
	issued := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtCustomClaims{
		UserID:    uuid.New(),
		TokenType: sessionTokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			NotBefore: jwt.NewNumericDate(issued.Add(time.Hour)),
			ExpiresAt: jwt.NewNumericDate(issued.Add(2 * time.Hour)),
		},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	svc := newTestService(t, time.Hour, func() time.Time { return issued })
	_, err = svc.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrTokenNotYetValid)
}

func TestValidateToken_RejectsForeignTokenType(t *testing.T) {
	now := time.Now()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtCustomClaims{
		UserID:    uuid.New(),
		TokenType: "refresh",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	require.Equal(t, 3, len(strings.Split(token, ".")))

	svc := newTestService(t, time.Hour, time.Now)
	_, err = svc.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
