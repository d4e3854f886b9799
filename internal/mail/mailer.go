// Package mail delivers notification emails. Delivery is best-effort:
// callers log failures and move on, so nothing here may panic or block
// past the context deadline.
package mail

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	gomail "github.com/wneessen/go-mail"

	"github.com/spec-kit/helpdesk/internal/config"
)

// Message is one outbound email. HTML is optional.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Mailer sends a single email and reports the message id.
type Mailer interface {
	Send(ctx context.Context, msg Message) (string, error)
}

// SMTPMailer delivers through an SMTP relay.
type SMTPMailer struct {
	client *gomail.Client
	from   string
}

// NewSMTPMailer builds a mailer from SMTP configuration.
func NewSMTPMailer(cfg config.MailConfig) (*SMTPMailer, error) {
	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}

	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	return &SMTPMailer{client: client, from: cfg.From}, nil
}

// Send validates the recipient and delivers the message.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) (string, error) {
	to, err := ValidateRecipient(msg.To)
	if err != nil {
		return "", err
	}

	out := gomail.NewMsg()
	if err := out.From(m.from); err != nil {
		return "", fmt.Errorf("set sender: %w", err)
	}
	if err := out.To(to); err != nil {
		return "", fmt.Errorf("set recipient: %w", err)
	}
	out.Subject(msg.Subject)
	out.SetBodyString(gomail.TypeTextPlain, msg.Text)
	if msg.HTML != "" {
		out.AddAlternativeString(gomail.TypeTextHTML, msg.HTML)
	}

	messageID := uuid.NewString()
	out.SetMessageIDWithValue(messageID)

	if err := m.client.DialAndSendWithContext(ctx, out); err != nil {
		return "", fmt.Errorf("send mail: %w", err)
	}
	return messageID, nil
}

// ValidateRecipient rejects empty or blank addresses before any dial
// attempt and returns the trimmed address.
func ValidateRecipient(to string) (string, error) {
	trimmed := strings.TrimSpace(to)
	if trimmed == "" {
		return "", fmt.Errorf("recipient email address is missing")
	}
	return trimmed, nil
}
