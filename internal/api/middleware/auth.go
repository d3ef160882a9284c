package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/task-manager-api/internal/api/shared"
	"github.com/phrazzld/task-manager-api/internal/domain"
	"github.com/phrazzld/task-manager-api/internal/platform/logger"
	"github.com/phrazzld/task-manager-api/internal/platform/metrics"
	"github.com/phrazzld/task-manager-api/internal/redact"
	"github.com/phrazzld/task-manager-api/internal/service"
)

// UnauthenticatedMessage is the body of every 401 response.
const UnauthenticatedMessage = "Please authenticate."

// Authenticator resolves a bearer token to the user that owns it.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

// AuthMiddleware provides bearer token authentication for routes.
type AuthMiddleware struct {
	authenticator Authenticator
	logger        *slog.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(authenticator Authenticator, log *slog.Logger) *AuthMiddleware {
	if log == nil {
		log = slog.Default()
	}
	return &AuthMiddleware{
		authenticator: authenticator,
		logger:        log.With(slog.String("component", "auth_middleware")),
	}
}

// Authenticate resolves the Authorization header to a user and stores the
// user and the raw token in the request context. Requests without a valid,
// still-active token get 401.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContextOrDefault(r.Context(), m.logger)

		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			m.reject(w, r, "missing or malformed authorization header")
			return
		}

		user, err := m.authenticator.Authenticate(r.Context(), token)
		if err != nil {
			if errors.Is(err, service.ErrUnauthenticated) {
				m.reject(w, r, err.Error())
				return
			}
			shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
				"Authentication error", err)
			return
		}

		ctx := shared.WithAuth(r.Context(), user, token)
		ctx = logger.WithLogger(ctx, log.With(slog.String("user_id", user.ID.String())))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *AuthMiddleware) reject(w http.ResponseWriter, r *http.Request, reason string) {
	metrics.RecordAuthEvent(metrics.AuthRejected)
	logger.FromContextOrDefault(r.Context(), m.logger).
		Debug("request rejected", slog.String("reason", redact.String(reason)))
	shared.RespondWithError(w, r, http.StatusUnauthorized, UnauthenticatedMessage)
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" header.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// GetUser returns the authenticated user of the request.
func GetUser(r *http.Request) (*domain.User, bool) {
	return shared.UserFromContext(r.Context())
}

// GetUserID returns the ID of the authenticated user of the request.
func GetUserID(r *http.Request) (uuid.UUID, bool) {
	user, ok := GetUser(r)
	if !ok {
		return uuid.Nil, false
	}
	return user.ID, true
}

// GetToken returns the bearer token the request was authenticated with.
func GetToken(r *http.Request) (string, bool) {
	return shared.TokenFromContext(r.Context())
}
