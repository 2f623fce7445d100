package mailer

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/resend/resend-go/v2"
	"go.uber.org/zap"
)

const breakerTimeout = 2 * time.Minute

var errInvalidRecipient = errors.New("invalid recipient")

// Mailer delivers transactional email.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// New picks the delivery backend from the configured provider name.
func New(provider, apiKey, from string, log *zap.Logger) (Mailer, error) {
	switch strings.ToLower(provider) {
	case "resend":
		if apiKey == "" {
			return nil, errors.New("RESEND_API_KEY is required for the resend provider")
		}
		if err := validateAddress(from); err != nil {
			return nil, fmt.Errorf("invalid sender address: %w", err)
		}
		return NewBreakerMailer(NewResendMailer(resend.NewClient(apiKey), from, log), breakerTimeout, log), nil
	case "", "log":
		return NewLogMailer(log), nil
	default:
		return nil, fmt.Errorf("unknown email provider %q", provider)
	}
}

// validateAddress rejects malformed addresses and header injection.
func validateAddress(address string) error {
	addr, err := mail.ParseAddress(address)
	if err != nil {
		return fmt.Errorf("invalid email format: %w", err)
	}
	if strings.ContainsAny(addr.Address, "\r\n") {
		return errors.New("invalid email address: contains newline characters")
	}
	return nil
}

// ResendMailer sends through the Resend HTTP API.
type ResendMailer struct {
	client *resend.Client
	from   string
	log    *zap.Logger
}

func NewResendMailer(client *resend.Client, from string, log *zap.Logger) *ResendMailer {
	return &ResendMailer{
		client: client,
		from:   from,
		log:    log.With(zap.String("component", "mailer")),
	}
}

func (m *ResendMailer) Send(ctx context.Context, to, subject, body string) error {
	if err := validateAddress(to); err != nil {
		return fmt.Errorf("%w: %w", errInvalidRecipient, err)
	}

	params := &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{to},
		Subject: subject,
		Text:    body,
	}

	sent, err := m.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		var rateLimitErr *resend.RateLimitError
		if errors.As(err, &rateLimitErr) {
			m.log.Warn("Resend rate limit exceeded",
				zap.String("limit", rateLimitErr.Limit),
				zap.String("reset", rateLimitErr.Reset),
			)
			return fmt.Errorf("email rate limit exceeded: %w", err)
		}
		return fmt.Errorf("resend API error: %w", err)
	}

	m.log.Info("Email sent", zap.String("email_id", sent.Id), zap.String("to", to))
	return nil
}

// LogMailer writes messages to the log instead of sending them.
type LogMailer struct {
	log *zap.Logger
}

func NewLogMailer(log *zap.Logger) *LogMailer {
	return &LogMailer{log: log.With(zap.String("component", "mailer"))}
}

func (m *LogMailer) Send(_ context.Context, to, subject, body string) error {
	if err := validateAddress(to); err != nil {
		return fmt.Errorf("%w: %w", errInvalidRecipient, err)
	}

	m.log.Info("Email (not sent, log provider)",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.String("body", body),
	)
	return nil
}
