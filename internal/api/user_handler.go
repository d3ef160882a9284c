package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/task-manager-api/internal/api/middleware"
	"github.com/phrazzld/task-manager-api/internal/api/shared"
	"github.com/phrazzld/task-manager-api/internal/platform/logger"
	"github.com/phrazzld/task-manager-api/internal/platform/metrics"
	"github.com/phrazzld/task-manager-api/internal/service"
	"github.com/phrazzld/task-manager-api/internal/store"
)

// AvatarFormField is the multipart field that carries an uploaded avatar.
const AvatarFormField = "avatar"

// multipartOverhead leaves room for boundaries and part headers on top of
// the avatar size limit.
const multipartOverhead = 64 << 10

// UserHandler handles account, session and avatar requests.
type UserHandler struct {
	users     service.UserService
	validator *validator.Validate
	logger    *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users service.UserService, log *slog.Logger) *UserHandler {
	if log == nil {
		log = slog.Default()
	}
	return &UserHandler{
		users:     users,
		validator: validator.New(),
		logger:    log.With(slog.String("component", "user_handler")),
	}
}

// Signup handles POST /users.
func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, msgInvalidRequest, err)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	result, err := h.users.Signup(r.Context(), service.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Age:      req.Age,
		Password: req.Password,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create user")
		return
	}

	metrics.RecordAuthEvent(metrics.AuthSignup)
	shared.RespondWithJSON(w, r, http.StatusCreated, AuthResponse{
		User:  userToResponse(result.User),
		Token: result.Token,
	})
}

// Login handles POST /users/login. Every credential failure gets the same
// response.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, msgUnableToLogin, err)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		metrics.RecordAuthEvent(metrics.AuthLoginFailure)
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, msgUnableToLogin, err)
		return
	}

	result, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			metrics.RecordAuthEvent(metrics.AuthLoginFailure)
		}
		HandleAPIError(w, r, err, "Failed to log in")
		return
	}

	metrics.RecordAuthEvent(metrics.AuthLoginSuccess)
	shared.RespondWithJSON(w, r, http.StatusOK, AuthResponse{
		User:  userToResponse(result.User),
		Token: result.Token,
	})
}

// Logout handles POST /users/logout, ending only the session of the
// presented token.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	token, hasToken := middleware.GetToken(r)
	if !ok || !hasToken {
		h.unauthenticated(w, r)
		return
	}

	if err := h.users.Logout(r.Context(), userID, token); err != nil {
		HandleAPIError(w, r, err, "Failed to log out")
		return
	}

	metrics.RecordAuthEvent(metrics.AuthLogout)
	shared.RespondWithStatus(w, http.StatusOK)
}

// LogoutAll handles POST /users/logoutAll.
func (h *UserHandler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		h.unauthenticated(w, r)
		return
	}

	if err := h.users.LogoutAll(r.Context(), userID); err != nil {
		HandleAPIError(w, r, err, "Failed to log out")
		return
	}

	metrics.RecordAuthEvent(metrics.AuthLogoutAll)
	shared.RespondWithStatus(w, http.StatusOK)
}

// GetProfile handles GET /users/me.
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r)
	if !ok {
		h.unauthenticated(w, r)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, userToResponse(user))
}

// UpdateProfile handles PATCH /users/me.
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		h.unauthenticated(w, r)
		return
	}

	var patch service.Patch
	if err := shared.DecodeJSON(w, r, &patch); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, msgInvalidRequest, err)
		return
	}

	user, err := h.users.UpdateProfile(r.Context(), userID, patch)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update profile")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, userToResponse(user))
}

// DeleteProfile handles DELETE /users/me. The user's tasks go with them.
func (h *UserHandler) DeleteProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		h.unauthenticated(w, r)
		return
	}

	user, err := h.users.DeleteProfile(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to delete profile")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, userToResponse(user))
}

// UploadAvatar handles POST /users/me/avatar with a multipart "avatar" file.
func (h *UserHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		h.unauthenticated(w, r)
		return
	}
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	r.Body = http.MaxBytesReader(w, r.Body, service.MaxAvatarBytes+multipartOverhead)
	file, header, err := r.FormFile(AvatarFormField)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			HandleAPIError(w, r, service.ErrAvatarTooLarge, "")
			return
		}
		log.Debug("avatar upload without a readable file", slog.String("reason", err.Error()))
		HandleAPIError(w, r, service.ErrInvalidAvatar, "")
		return
	}
	defer func() { _ = file.Close() }()

	// One byte past the limit is enough for the service to reject the upload.
	data, err := io.ReadAll(io.LimitReader(file, service.MaxAvatarBytes+1))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to read upload")
		return
	}

	if err := h.users.SetAvatar(r.Context(), userID, header.Filename, data); err != nil {
		HandleAPIError(w, r, err, "Failed to store avatar")
		return
	}
	shared.RespondWithStatus(w, http.StatusOK)
}

// DeleteAvatar handles DELETE /users/me/avatar.
func (h *UserHandler) DeleteAvatar(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		h.unauthenticated(w, r)
		return
	}

	if err := h.users.DeleteAvatar(r.Context(), userID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete avatar")
		return
	}
	shared.RespondWithStatus(w, http.StatusOK)
}

// GetAvatar handles GET /users/{id}/avatar. It needs no authentication.
func (h *UserHandler) GetAvatar(w http.ResponseWriter, r *http.Request) {
	userID, err := getPathUUID(r, "id", store.ErrUserNotFound)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	avatar, err := h.users.GetAvatar(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load avatar")
		return
	}

	w.Header().Set("Content-Type", avatar.ContentType)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(avatar.Data); err != nil {
		logger.FromContextOrDefault(r.Context(), h.logger).
			Debug("failed to write avatar", slog.String("reason", err.Error()))
	}
}

func (h *UserHandler) unauthenticated(w http.ResponseWriter, r *http.Request) {
	logger.FromContextOrDefault(r.Context(), h.logger).Warn("user not found in request context")
	shared.RespondWithError(w, r, http.StatusUnauthorized, middleware.UnauthenticatedMessage)
}
