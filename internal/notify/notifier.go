// Package notify sends quota alerts to organization admins. Dispatch is
// asynchronous and fire-and-forget: a failed send is logged and dropped,
// never surfaced to the booking caller.
package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/aarti98/ConferenceBookingSystem/internal/metrics"
)

// Notifier is the interface the booking engine calls after a commit.
type Notifier interface {
	NotifyApproaching(orgName string, emails []string, usedHours, remaining int)
	NotifyExceeded(orgName string, emails []string, usedHours int)
}

// Config bounds outbound notification traffic.
type Config struct {
	// SendsPerSecond caps outbound mail rate.
	SendsPerSecond float64
	// Burst is the rate limiter burst size.
	Burst int
	// MaxConcurrent limits parallel sends.
	MaxConcurrent int
	// SendTimeout bounds a single delivery attempt.
	SendTimeout time.Duration
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		SendsPerSecond: 5,
		Burst:          10,
		MaxConcurrent:  10,
		SendTimeout:    30 * time.Second,
	}
}

// EmailNotifier delivers quota alerts by mail, rate limited and bounded by
// a concurrency semaphore.
type EmailNotifier struct {
	mailer  Mailer
	limiter *rate.Limiter
	sem     chan struct{}
	timeout time.Duration
	logger  zerolog.Logger
	wg      sync.WaitGroup
}

// NewEmailNotifier creates a notifier over the given mailer.
func NewEmailNotifier(mailer Mailer, cfg Config, logger zerolog.Logger) *EmailNotifier {
	if cfg.SendsPerSecond <= 0 {
		cfg.SendsPerSecond = DefaultConfig().SendsPerSecond
	}
	if cfg.Burst <= 0 {
		cfg.Burst = DefaultConfig().Burst
	}
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = DefaultConfig().MaxConcurrent
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = DefaultConfig().SendTimeout
	}
	return &EmailNotifier{
		mailer:  mailer,
		limiter: rate.NewLimiter(rate.Limit(cfg.SendsPerSecond), cfg.Burst),
		sem:     make(chan struct{}, cfg.MaxConcurrent),
		timeout: cfg.SendTimeout,
		logger:  logger.With().Str("component", "notify").Logger(),
	}
}

// NotifyApproaching alerts admins that the organization is nearing its
// monthly booking limit.
func (n *EmailNotifier) NotifyApproaching(orgName string, emails []string, usedHours, remaining int) {
	subject := fmt.Sprintf("Monthly Booking Limit Approaching for %s", orgName)
	body := fmt.Sprintf("Dear Admin,\n\nThe organization '%s' is approaching its monthly booking limit.\n"+
		"Total booked hours for this month: %d hours.\n"+
		"Remaining limit: %d hours.", orgName, usedHours, remaining)
	n.dispatch("approaching", emails, subject, body)
}

// NotifyExceeded alerts admins that the organization ran over its monthly
// booking limit.
func (n *EmailNotifier) NotifyExceeded(orgName string, emails []string, usedHours int) {
	subject := fmt.Sprintf("Monthly Booking Limit Exceeded for %s", orgName)
	body := fmt.Sprintf("Dear Admin,\n\nThe organization '%s' has exceeded its monthly booking limit.\n"+
		"Total booked hours for this month: %d hours.", orgName, usedHours)
	n.dispatch("exceeded", emails, subject, body)
}

func (n *EmailNotifier) dispatch(kind string, emails []string, subject, body string) {
	if len(emails) == 0 {
		n.logger.Debug().Str("subject", subject).Msg("no admin recipients, alert skipped")
		return
	}

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()

		n.sem <- struct{}{}
		defer func() { <-n.sem }()

		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()

		if err := n.limiter.Wait(ctx); err != nil {
			metrics.IncNotificationFailed(kind)
			n.logger.Error().Err(err).Str("subject", subject).Msg("rate limiter wait failed")
			return
		}
		if err := n.mailer.Send(ctx, emails, subject, body); err != nil {
			metrics.IncNotificationFailed(kind)
			n.logger.Error().Err(err).Str("subject", subject).Msg("notification delivery failed")
			return
		}
		metrics.IncNotificationSent(kind)
		n.logger.Info().Str("subject", subject).Int("recipients", len(emails)).Msg("notification sent")
	}()
}

// Flush blocks until all in-flight notifications finish. Used in shutdown
// and tests.
func (n *EmailNotifier) Flush() {
	n.wg.Wait()
}
