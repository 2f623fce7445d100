package mailer

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

// ErrUnavailable is returned while the breaker is open.
var ErrUnavailable = errors.New("email provider temporarily unavailable")

// BreakerMailer stops calling a failing provider until it has had time to recover.
type BreakerMailer struct {
	next Mailer
	cb   *gobreaker.CircuitBreaker[struct{}]
}

// NewBreakerMailer trips after five consecutive failures and probes again after timeout.
func NewBreakerMailer(next Mailer, timeout time.Duration, log *zap.Logger) *BreakerMailer {
	log = log.With(zap.String("component", "mailer"))

	cb := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        "email-provider",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// Bad recipients are caller errors, not provider failures
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, errInvalidRecipient)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &BreakerMailer{next: next, cb: cb}
}

func (m *BreakerMailer) Send(ctx context.Context, to, subject, body string) error {
	_, err := m.cb.Execute(func() (struct{}, error) {
		return struct{}{}, m.next.Send(ctx, to, subject, body)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return err
}

// State reports the breaker state, e.g. "closed" or "open".
func (m *BreakerMailer) State() string {
	return m.cb.State().String()
}
