package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/phrazzld/task-manager-api/internal/domain"
	"github.com/phrazzld/task-manager-api/internal/events"
	"github.com/phrazzld/task-manager-api/internal/platform/logger"
	"github.com/phrazzld/task-manager-api/internal/redact"
	"github.com/phrazzld/task-manager-api/internal/service/auth"
	"github.com/phrazzld/task-manager-api/internal/store"
)

// MaxAvatarBytes is the largest accepted avatar upload.
const MaxAvatarBytes = 1_000_000

var (
	avatarExtensions = map[string]bool{".jpg": true, ".jpeg": true, ".png": true}
	avatarMIMETypes  = []string{"image/jpeg", "image/png"}
)

// SignupInput carries the fields accepted at registration.
type SignupInput struct {
	Name     string
	Email    string
	Age      int
	Password string
}

// AuthResult is returned by Signup and Login.
type AuthResult struct {
	User  *domain.User
	Token string
}

// Avatar is a stored profile image.
type Avatar struct {
	Data        []byte
	ContentType string
}

// UserService provides account operations.
type UserService interface {
	// Signup registers a user and opens their first session.
	Signup(ctx context.Context, in SignupInput) (*AuthResult, error)

	// Login checks credentials and opens a new session.
	// Returns ErrInvalidCredentials for an unknown email or a wrong password.
	Login(ctx context.Context, email, password string) (*AuthResult, error)

	// Authenticate resolves a bearer token to its user. The token must verify
	// and still be in the user's active token list.
	Authenticate(ctx context.Context, token string) (*domain.User, error)

	// Logout ends the session identified by token.
	Logout(ctx context.Context, userID uuid.UUID, token string) error

	// LogoutAll ends every session of the user.
	LogoutAll(ctx context.Context, userID uuid.UUID) error

	// GetProfile returns the user.
	GetProfile(ctx context.Context, userID uuid.UUID) (*domain.User, error)

	// UpdateProfile applies a partial update limited to the user's mutable
	// fields. Unknown fields are rejected before anything is read or written.
	UpdateProfile(ctx context.Context, userID uuid.UUID, patch Patch) (*domain.User, error)

	// DeleteProfile removes the user together with every task they own and
	// returns the deleted user.
	DeleteProfile(ctx context.Context, userID uuid.UUID) (*domain.User, error)

	// SetAvatar validates and stores a profile image.
	SetAvatar(ctx context.Context, userID uuid.UUID, filename string, data []byte) error

	// DeleteAvatar clears the profile image.
	DeleteAvatar(ctx context.Context, userID uuid.UUID) error

	// GetAvatar returns the profile image of any user.
	GetAvatar(ctx context.Context, userID uuid.UUID) (*Avatar, error)
}

type userServiceImpl struct {
	users   store.UserStore
	tasks   store.TaskStore
	tx      store.TxManager
	jwt     auth.JWTService
	hasher  auth.PasswordHasher
	emitter events.EventEmitter
	logger  *slog.Logger

	// dummyHash is compared against on unknown-email logins so both
	// failure paths pay for one hash comparison.
	dummyHash string
}

var _ UserService = (*userServiceImpl)(nil)

// NewUserService creates a UserService. A nil emitter disables lifecycle events.
func NewUserService(
	users store.UserStore,
	tasks store.TaskStore,
	tx store.TxManager,
	jwtService auth.JWTService,
	hasher auth.PasswordHasher,
	emitter events.EventEmitter,
	log *slog.Logger,
) (UserService, error) {
	switch {
	case users == nil:
		return nil, nilDependency("users")
	case tasks == nil:
		return nil, nilDependency("tasks")
	case tx == nil:
		return nil, nilDependency("tx")
	case jwtService == nil:
		return nil, nilDependency("jwtService")
	case hasher == nil:
		return nil, nilDependency("hasher")
	}
	if emitter == nil {
		emitter = events.NopEmitter{}
	}
	if log == nil {
		log = slog.Default()
	}

	dummyHash, err := hasher.Hash(uuid.NewString())
	if err != nil {
		return nil, fmt.Errorf("failed to prepare login hash: %w", err)
	}

	return &userServiceImpl{
		users:     users,
		tasks:     tasks,
		tx:        tx,
		jwt:       jwtService,
		hasher:    hasher,
		emitter:   emitter,
		logger:    log.With(slog.String("component", "user_service")),
		dummyHash: dummyHash,
	}, nil
}

// prepare hashes a pending raw password so that only the hash is persisted.
// It must run before every Create or Update.
func (s *userServiceImpl) prepare(user *domain.User) error {
	if user.Password == "" {
		return nil
	}
	hash, err := s.hasher.Hash(user.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.HashedPassword = hash
	user.Password = ""
	return nil
}

func (s *userServiceImpl) Signup(ctx context.Context, in SignupInput) (*AuthResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := domain.NewUser(in.Name, in.Email, in.Age, in.Password)
	if err != nil {
		log.Debug("rejected signup", redact.Attr(err))
		return nil, err
	}
	if err := s.prepare(user); err != nil {
		return nil, err
	}

	token, err := s.jwt.GenerateToken(ctx, user.ID)
	if err != nil {
		log.Error("failed to issue token", redact.Attr(err))
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		users := s.users.WithTx(tx)
		if err := users.Create(ctx, user); err != nil {
			return err
		}
		return users.AddToken(ctx, user.ID, token)
	})
	if err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			log.Debug("attempted to sign up with existing email")
		} else {
			log.Error("failed to create user", redact.Attr(err))
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Info("user signed up", slog.String("user_id", user.ID.String()))
	s.emit(ctx, events.UserSignedUp, user)

	return &AuthResult{User: user, Token: token}, nil
}

func (s *userServiceImpl) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.users.GetByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			_ = s.hasher.Compare(s.dummyHash, strings.TrimSpace(password))
			log.Debug("login failed: unknown email")
			return nil, ErrInvalidCredentials
		}
		log.Error("failed to look up user for login", redact.Attr(err))
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := s.hasher.Compare(user.HashedPassword, strings.TrimSpace(password)); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			log.Debug("login failed: password mismatch", slog.String("user_id", user.ID.String()))
			return nil, ErrInvalidCredentials
		}
		log.Error("failed to verify password", redact.Attr(err), slog.String("user_id", user.ID.String()))
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}

	token, err := s.jwt.GenerateToken(ctx, user.ID)
	if err != nil {
		log.Error("failed to issue token", redact.Attr(err))
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	if err := s.users.AddToken(ctx, user.ID, token); err != nil {
		log.Error("failed to store token", redact.Attr(err), slog.String("user_id", user.ID.String()))
		return nil, fmt.Errorf("failed to store token: %w", err)
	}

	log.Info("user logged in", slog.String("user_id", user.ID.String()))
	return &AuthResult{User: user, Token: token}, nil
}

func (s *userServiceImpl) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.jwt.ValidateToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}

	user, err := s.users.GetByToken(ctx, claims.UserID, token)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: token is not active", ErrUnauthenticated)
		}
		return nil, fmt.Errorf("failed to resolve token: %w", err)
	}
	return user, nil
}

func (s *userServiceImpl) Logout(ctx context.Context, userID uuid.UUID, token string) error {
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("user_id", userID.String()))

	if err := s.users.RemoveToken(ctx, userID, token); err != nil {
		if errors.Is(err, store.ErrTokenNotFound) {
			// A concurrent logout got there first.
			log.Debug("token already removed")
			return nil
		}
		log.Error("failed to remove token", redact.Attr(err))
		return fmt.Errorf("failed to log out: %w", err)
	}

	log.Info("user logged out")
	return nil
}

func (s *userServiceImpl) LogoutAll(ctx context.Context, userID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("user_id", userID.String()))

	if err := s.users.RemoveAllTokens(ctx, userID); err != nil {
		log.Error("failed to remove tokens", redact.Attr(err))
		return fmt.Errorf("failed to log out everywhere: %w", err)
	}

	log.Info("user logged out of all sessions")
	return nil
}

func (s *userServiceImpl) GetProfile(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}
	return user, nil
}

func (s *userServiceImpl) UpdateProfile(
	ctx context.Context,
	userID uuid.UUID,
	patch Patch,
) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("user_id", userID.String()))

	var upd domain.UserUpdate
	if err := patch.decodeInto(domain.UserMutableFields, &upd); err != nil {
		log.Debug("rejected profile update", redact.Attr(err))
		return nil, err
	}

	var updated *domain.User
	err := s.tx.WithinTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		users := s.users.WithTx(tx)

		user, err := users.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		if err := user.ApplyUpdate(upd); err != nil {
			return err
		}
		if err := s.prepare(user); err != nil {
			return err
		}
		if err := users.Update(ctx, user); err != nil {
			return err
		}
		updated = user
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrValidation) || errors.Is(err, store.ErrEmailExists) {
			log.Debug("rejected profile update", redact.Attr(err))
		} else {
			log.Error("failed to update profile", redact.Attr(err))
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	log.Info("profile updated", slog.Any("fields", patch.Fields()))
	return updated, nil
}

func (s *userServiceImpl) DeleteProfile(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("user_id", userID.String()))

	var (
		deleted      *domain.User
		removedTasks int64
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		users := s.users.WithTx(tx)

		user, err := users.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		removedTasks, err = s.tasks.WithTx(tx).DeleteByOwner(ctx, userID)
		if err != nil {
			return err
		}
		if err := users.Delete(ctx, userID); err != nil {
			return err
		}
		deleted = user
		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Debug("attempted to delete non-existent user")
		} else {
			log.Error("failed to delete user", redact.Attr(err))
		}
		return nil, fmt.Errorf("failed to delete user: %w", err)
	}

	log.Info("user deleted", slog.Int64("tasks_deleted", removedTasks))
	s.emit(ctx, events.UserDeleted, deleted)

	return deleted, nil
}

func (s *userServiceImpl) SetAvatar(ctx context.Context, userID uuid.UUID, filename string, data []byte) error {
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("user_id", userID.String()))

	if err := validateAvatar(filename, data); err != nil {
		log.Debug("rejected avatar upload", redact.Attr(err), slog.Int("size", len(data)))
		return err
	}

	if err := s.users.SetAvatar(ctx, userID, data); err != nil {
		log.Error("failed to store avatar", redact.Attr(err))
		return fmt.Errorf("failed to store avatar: %w", err)
	}

	log.Info("avatar uploaded", slog.Int("size", len(data)))
	return nil
}

func (s *userServiceImpl) DeleteAvatar(ctx context.Context, userID uuid.UUID) error {
	if err := s.users.SetAvatar(ctx, userID, nil); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to clear avatar",
			redact.Attr(err),
			slog.String("user_id", userID.String()))
		return fmt.Errorf("failed to clear avatar: %w", err)
	}
	return nil
}

func (s *userServiceImpl) GetAvatar(ctx context.Context, userID uuid.UUID) (*Avatar, error) {
	data, err := s.users.GetAvatar(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve avatar: %w", err)
	}
	return &Avatar{Data: data, ContentType: mimetype.Detect(data).String()}, nil
}

// validateAvatar accepts JPEG and PNG files up to MaxAvatarBytes. Both the
// file name and the sniffed content must agree.
func validateAvatar(filename string, data []byte) error {
	if len(data) > MaxAvatarBytes {
		return ErrAvatarTooLarge
	}
	if !avatarExtensions[strings.ToLower(filepath.Ext(filename))] {
		return ErrInvalidAvatar
	}
	mtype := mimetype.Detect(data)
	for _, allowed := range avatarMIMETypes {
		if mtype.Is(allowed) {
			return nil
		}
	}
	return ErrInvalidAvatar
}

// emit publishes a lifecycle event. Failures are logged and never affect the
// operation that triggered them.
func (s *userServiceImpl) emit(ctx context.Context, eventType string, user *domain.User) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	event, err := events.NewEvent(eventType, events.UserPayload{
		UserID: user.ID,
		Name:   user.Name,
		Email:  user.Email,
	})
	if err != nil {
		log.Warn("failed to build event", redact.Attr(err), slog.String("event_type", eventType))
		return
	}
	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		log.Warn("failed to emit event", redact.Attr(err), slog.String("event_type", eventType))
	}
}
