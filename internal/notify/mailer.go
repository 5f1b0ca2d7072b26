package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/rs/zerolog"
)

// Mailer delivers a single message to a set of recipients.
type Mailer interface {
	Send(ctx context.Context, recipients []string, subject, body string) error
}

// SMTPMailer sends plain-text mail over SMTP with PLAIN auth.
type SMTPMailer struct {
	host     string
	port     string
	username string
	password string
	from     string
}

// NewSMTPMailer validates the SMTP configuration and returns a mailer.
func NewSMTPMailer(host, port, username, password, from string) (*SMTPMailer, error) {
	if host == "" || username == "" || password == "" {
		return nil, fmt.Errorf("SMTP configuration incomplete")
	}
	if port == "" {
		port = "587"
	}
	if from == "" {
		from = username
	}
	return &SMTPMailer{host: host, port: port, username: username, password: password, from: from}, nil
}

// Send delivers the message to every recipient in one SMTP transaction.
func (m *SMTPMailer) Send(_ context.Context, recipients []string, subject, body string) error {
	if len(recipients) == 0 {
		return nil
	}

	message := fmt.Sprintf("From: %s\r\n"+
		"To: %s\r\n"+
		"Subject: %s\r\n"+
		"MIME-Version: 1.0\r\n"+
		"Content-Type: text/plain; charset=UTF-8\r\n"+
		"\r\n"+
		"%s", m.from, strings.Join(recipients, ", "), subject, body)

	auth := smtp.PlainAuth("", m.username, m.password, m.host)
	addr := m.host + ":" + m.port

	if err := smtp.SendMail(addr, auth, m.from, recipients, []byte(message)); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

// LogMailer writes messages to the log instead of delivering them. Used
// when SMTP is not configured.
type LogMailer struct {
	logger zerolog.Logger
}

// NewLogMailer returns a mailer that only logs.
func NewLogMailer(logger zerolog.Logger) *LogMailer {
	return &LogMailer{logger: logger.With().Str("component", "mailer").Logger()}
}

func (m *LogMailer) Send(_ context.Context, recipients []string, subject, body string) error {
	m.logger.Info().
		Strs("recipients", recipients).
		Str("subject", subject).
		Msg("email delivery disabled, message logged")
	return nil
}
