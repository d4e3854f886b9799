// Package triage implements the ticket-assignment pipeline: fetch the
// ticket, classify it with the AI model, pick an assignee by skill
// match, persist the outcome atomically, and notify by email. The
// pipeline runs under at-least-once delivery; every step is an
// idempotent unit retried per RunStep.
package triage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/ai"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/mail"
	"github.com/spec-kit/helpdesk/internal/observability"
	"github.com/spec-kit/helpdesk/internal/repository"
	"github.com/spec-kit/helpdesk/pkg/util"
)

// State names where a workflow execution currently is. Failed is
// reachable from any state.
type State string

const (
	StateReceived      State = "received"
	StateTicketFetched State = "ticket_fetched"
	StateClassified    State = "classified"
	StateAssigned      State = "assigned"
	StateNotified      State = "notified"
	StateCompleted     State = "completed"
	StateFailed        State = "failed"
)

// Result is what the workflow reports back to its caller. Exactly one
// of Message or Error is set.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Workflow orchestrates one triage execution per ticket-created event.
type Workflow struct {
	tickets    repository.TicketRepository
	policy     *Policy
	classifier ai.Classifier
	mailer     mail.Mailer
	logger     *zap.Logger
	metrics    *observability.Metrics
	attempts   int
}

// WorkflowDependencies bundles collaborators for the workflow.
type WorkflowDependencies struct {
	TicketRepo repository.TicketRepository
	Directory  repository.UserDirectory
	Classifier ai.Classifier
	Mailer     mail.Mailer
	Logger     *zap.Logger
	Metrics    *observability.Metrics
	Attempts   int
}

// NewWorkflow constructs the workflow.
func NewWorkflow(deps WorkflowDependencies) *Workflow {
	attempts := deps.Attempts
	if attempts < 1 {
		attempts = 2
	}
	return &Workflow{
		tickets:    deps.TicketRepo,
		policy:     NewPolicy(deps.Directory),
		classifier: deps.Classifier,
		mailer:     deps.Mailer,
		logger:     deps.Logger,
		metrics:    deps.Metrics,
		attempts:   attempts,
	}
}

// Run drives the state machine for one ticket. It never returns
// partial state to the caller: either the ticket was fully triaged
// (status, priority, notes, skills and assignee written together) or
// the run reports a failure and the ticket is untouched by this run.
func (w *Workflow) Run(ctx context.Context, ticketID string) *Result {
	state := StateReceived
	logger := w.logger.With(zap.String("ticket_id", ticketID))

	if strings.TrimSpace(ticketID) == "" {
		return w.fail(logger, state, util.NewValidationError("ticketId missing in event payload", nil))
	}

	var ticket *domain.Ticket
	err := RunStep(ctx, logger, "fetch-ticket", w.attempts, func(ctx context.Context) error {
		found, err := w.tickets.GetByID(ctx, ticketID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return util.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
			}
			return err
		}
		ticket = found
		return nil
	})
	if err != nil {
		return w.fail(logger, state, err)
	}
	state = StateTicketFetched

	var classification *domain.ClassificationResult
	err = RunStep(ctx, logger, "classify-ticket", w.attempts, func(ctx context.Context) error {
		result, err := w.classifier.Classify(ctx, ticket)
		if err != nil {
			return util.NewClassificationFault(err)
		}
		classification = result
		return nil
	})
	if err != nil {
		return w.fail(logger, state, err)
	}
	state = StateClassified

	var assignee *domain.User
	err = RunStep(ctx, logger, "assign-and-update", w.attempts, func(ctx context.Context) error {
		user, err := w.policy.SelectAssignee(ctx, classification.RelatedSkills)
		if err != nil {
			return err
		}
		if err := w.tickets.ApplyTriage(ctx, ticket.ID, domain.TriageUpdate{
			Status:        domain.TicketStatusInProgress,
			Priority:      classification.Priority,
			HelpfulNotes:  classification.HelpfulNotes,
			RelatedSkills: classification.RelatedSkills,
			AssignedTo:    user.ID,
		}); err != nil {
			return err
		}
		assignee = user
		return nil
	})
	if err != nil {
		return w.fail(logger, state, err)
	}
	state = StateAssigned

	w.notify(ctx, logger, ticket, assignee)
	state = StateNotified

	state = StateCompleted
	w.metrics.RecordTriage(string(state))
	logger.Info("triage complete",
		zap.String("assignee", assignee.Email),
		zap.String("priority", string(classification.Priority)))

	return &Result{
		Success: true,
		Message: fmt.Sprintf("ticket %s assigned to %s", ticket.ID, assignee.Email),
	}
}

// notify sends the assignment email. Best-effort only: validation and
// transport failures are logged and swallowed, and the committed ticket
// state is never affected.
func (w *Workflow) notify(ctx context.Context, logger *zap.Logger, ticket *domain.Ticket, assignee *domain.User) {
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("notifier panicked", zap.Any("panic", r))
		}
	}()

	messageID, err := w.mailer.Send(ctx, mail.Message{
		To:      assignee.Email,
		Subject: fmt.Sprintf("New Ticket Assigned: \"%s\"", ticket.Title),
		Text:    "A new ticket has been assigned to you. Please check the ticket dashboard for details.",
	})
	if err != nil {
		logger.Warn("notification failed", zap.Error(util.NewNotificationFault(err)))
		return
	}
	logger.Info("assignee notified", zap.String("message_id", messageID))
}

func (w *Workflow) fail(logger *zap.Logger, state State, err error) *Result {
	w.metrics.RecordTriage(string(StateFailed))
	domainErr := util.ToDomainError(err)
	logger.Error("triage failed",
		zap.String("state", string(state)),
		zap.String("code", domainErr.Code),
		zap.Error(domainErr))
	return &Result{Success: false, Error: domainErr.Error()}
}
