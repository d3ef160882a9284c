package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/task-manager-api/internal/events"
	"github.com/phrazzld/task-manager-api/internal/platform/logger"
	"github.com/phrazzld/task-manager-api/internal/platform/metrics"
	"github.com/phrazzld/task-manager-api/internal/redact"
)

// DefaultSendTimeout bounds a single background delivery.
const DefaultSendTimeout = 30 * time.Second

// MailHandler turns user events into mail.
type MailHandler struct {
	mailer   Mailer
	dispatch func(func())
	timeout  time.Duration
	logger   *slog.Logger
}

var _ events.EventHandler = (*MailHandler)(nil)

// HandlerOption configures a MailHandler.
type HandlerOption func(*MailHandler)

// WithDispatcher replaces the goroutine-per-mail dispatcher. Tests pass a
// synchronous one.
func WithDispatcher(dispatch func(func())) HandlerOption {
	return func(h *MailHandler) { h.dispatch = dispatch }
}

// WithSendTimeout overrides DefaultSendTimeout.
func WithSendTimeout(d time.Duration) HandlerOption {
	return func(h *MailHandler) { h.timeout = d }
}

// NewMailHandler creates a handler that sends through mailer.
func NewMailHandler(mailer Mailer, log *slog.Logger, opts ...HandlerOption) *MailHandler {
	if mailer == nil {
		panic("mailer cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	h := &MailHandler{
		mailer:   mailer,
		dispatch: func(f func()) { go f() },
		timeout:  DefaultSendTimeout,
		logger:   log.With("component", "mail_handler"),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// HandleEvent implements events.EventHandler. It only fails when the event
// payload cannot be decoded; delivery errors are logged from the background.
func (h *MailHandler) HandleEvent(ctx context.Context, event *events.Event) error {
	var build func(name, email string) Message
	switch event.Type {
	case events.UserSignedUp:
		build = WelcomeMessage
	case events.UserDeleted:
		build = FarewellMessage
	default:
		return nil
	}

	var payload events.UserPayload
	if err := event.UnmarshalPayload(&payload); err != nil {
		return fmt.Errorf("decode %s payload: %w", event.Type, err)
	}
	msg := build(payload.Name, payload.Email)

	log := logger.FromContextOrDefault(ctx, h.logger).With(
		slog.String("event_id", event.ID.String()),
		slog.String("user_id", payload.UserID.String()),
		slog.String("kind", msg.Kind))

	// The request context ends with the response; keep its values only.
	sendCtx := context.WithoutCancel(ctx)
	h.dispatch(func() {
		ctx, cancel := context.WithTimeout(sendCtx, h.timeout)
		defer cancel()

		err := h.mailer.Send(ctx, msg)
		switch {
		case errors.Is(err, ErrMailDisabled):
			metrics.RecordNotification(msg.Kind, metrics.ResultSkipped)
			log.Debug("mail disabled, skipping account email")
			return
		case err != nil:
			metrics.RecordNotification(msg.Kind, metrics.ResultFailed)
			log.Warn("failed to send account email", redact.Attr(err))
			return
		}
		metrics.RecordNotification(msg.Kind, metrics.ResultSent)
	})
	return nil
}
