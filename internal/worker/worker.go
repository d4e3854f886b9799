// Package worker connects the event bus to the asynchronous flows:
// ticket triage and the welcome email. Each event is processed in its
// own goroutine, detached from the publishing request's cancellation,
// so one slow triage never blocks another or the HTTP caller.
package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/mail"
	"github.com/spec-kit/helpdesk/internal/repository"
	"github.com/spec-kit/helpdesk/internal/triage"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// Worker subscribes the async flows to the dispatcher.
type Worker struct {
	dispatcher   events.Dispatcher
	workflow     *triage.Workflow
	users        repository.UserRepository
	mailer       mail.Mailer
	logger       *zap.Logger
	attempts     int
	eventTimeout time.Duration
}

// Dependencies bundles worker collaborators.
type Dependencies struct {
	Dispatcher   events.Dispatcher
	Workflow     *triage.Workflow
	UserRepo     repository.UserRepository
	Mailer       mail.Mailer
	Logger       *zap.Logger
	Attempts     int
	EventTimeout time.Duration
}

// New creates the worker.
func New(deps Dependencies) *Worker {
	attempts := deps.Attempts
	if attempts < 1 {
		attempts = 2
	}
	return &Worker{
		dispatcher:   deps.Dispatcher,
		workflow:     deps.Workflow,
		users:        deps.UserRepo,
		mailer:       deps.Mailer,
		logger:       deps.Logger,
		attempts:     attempts,
		eventTimeout: deps.EventTimeout,
	}
}

// RegisterHandlers subscribes to events.
func (w *Worker) RegisterHandlers() {
	if w.dispatcher == nil {
		return
	}
	w.dispatcher.Subscribe(events.EventTicketCreated, w.handleTicketCreated)
	w.dispatcher.Subscribe(events.EventUserSignedUp, w.handleUserSignedUp)
}

func (w *Worker) handleTicketCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketCreatedPayload)
	if !ok {
		w.logger.Error("malformed ticket_created payload", zap.String("event_id", event.ID))
		return apperrors.NewValidationError("malformed ticket_created payload", nil)
	}

	go func(ctx context.Context) {
		ctx, cancel := w.eventContext(ctx)
		defer cancel()

		result := w.workflow.Run(ctx, payload.TicketID)
		if result.Success {
			w.logger.Info("triage workflow finished", zap.String("message", result.Message))
		} else {
			w.logger.Warn("triage workflow failed", zap.String("error", result.Error))
		}
	}(context.WithoutCancel(ctx))

	return nil
}

func (w *Worker) handleUserSignedUp(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.UserSignedUpPayload)
	if !ok {
		w.logger.Error("malformed user_signup payload", zap.String("event_id", event.ID))
		return apperrors.NewValidationError("malformed user_signup payload", nil)
	}

	go func(ctx context.Context) {
		ctx, cancel := w.eventContext(ctx)
		defer cancel()
		w.sendWelcomeEmail(ctx, payload.Email)
	}(context.WithoutCancel(ctx))

	return nil
}

// sendWelcomeEmail looks the user up (they may have been deleted since
// signup, which is non-retriable) and greets them.
func (w *Worker) sendWelcomeEmail(ctx context.Context, email string) {
	logger := w.logger.With(zap.String("email", email))

	err := triage.RunStep(ctx, logger, "send-welcome-email", w.attempts, func(ctx context.Context) error {
		user, err := w.users.GetByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewNotFound("user", map[string]any{"email": email})
			}
			return err
		}

		_, err = w.mailer.Send(ctx, mail.Message{
			To:      user.Email,
			Subject: "Welcome to the App!",
			Text:    fmt.Sprintf("Hi %s,\n\nThanks for signing up. We're glad to have you onboard!", user.Email),
			HTML: fmt.Sprintf(
				"<h2>Hi %s,</h2><p>Thanks for signing up. We're excited to have you with us!</p><p>— The Team</p>",
				user.Email),
		})
		return err
	})
	if err != nil {
		logger.Warn("welcome email not sent", zap.Error(err))
		return
	}
	logger.Info("welcome email sent")
}

func (w *Worker) eventContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if w.eventTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, w.eventTimeout)
}
