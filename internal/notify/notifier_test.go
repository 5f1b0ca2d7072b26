package notify

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMail struct {
	recipients []string
	subject    string
	body       string
}

type captureMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *captureMailer) Send(_ context.Context, recipients []string, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{recipients: recipients, subject: subject, body: body})
	return nil
}

func (m *captureMailer) all() []sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]sentMail(nil), m.sent...)
}

func newTestNotifier(mailer Mailer) *EmailNotifier {
	return NewEmailNotifier(mailer, Config{SendsPerSecond: 1000, Burst: 100}, zerolog.New(io.Discard))
}

func TestNotifyApproaching(t *testing.T) {
	mailer := &captureMailer{}
	n := newTestNotifier(mailer)

	n.NotifyApproaching("Acme", []string{"admin@acme.test"}, 29, 1)
	n.Flush()

	sent := mailer.all()
	require.Len(t, sent, 1)
	assert.Equal(t, []string{"admin@acme.test"}, sent[0].recipients)
	assert.Equal(t, "Monthly Booking Limit Approaching for Acme", sent[0].subject)
	assert.Contains(t, sent[0].body, "Total booked hours for this month: 29 hours.")
	assert.Contains(t, sent[0].body, "Remaining limit: 1 hours.")
}

func TestNotifyExceeded(t *testing.T) {
	mailer := &captureMailer{}
	n := newTestNotifier(mailer)

	n.NotifyExceeded("Acme", []string{"a@acme.test", "b@acme.test"}, 31)
	n.Flush()

	sent := mailer.all()
	require.Len(t, sent, 1)
	assert.Equal(t, []string{"a@acme.test", "b@acme.test"}, sent[0].recipients)
	assert.Equal(t, "Monthly Booking Limit Exceeded for Acme", sent[0].subject)
	assert.Contains(t, sent[0].body, "has exceeded its monthly booking limit")
}

func TestDispatchSkipsWithoutRecipients(t *testing.T) {
	mailer := &captureMailer{}
	n := newTestNotifier(mailer)

	n.NotifyApproaching("Acme", nil, 29, 1)
	n.Flush()

	assert.Empty(t, mailer.all())
}

func TestDeliveryFailureIsSwallowed(t *testing.T) {
	mailer := &captureMailer{err: errors.New("smtp refused")}
	n := newTestNotifier(mailer)

	// Must not panic or block the caller.
	n.NotifyExceeded("Acme", []string{"admin@acme.test"}, 31)
	n.Flush()

	assert.Empty(t, mailer.all())
}

func TestConcurrentDispatch(t *testing.T) {
	mailer := &captureMailer{}
	n := newTestNotifier(mailer)

	for i := 0; i < 20; i++ {
		n.NotifyApproaching("Acme", []string{"admin@acme.test"}, 25+i%5, 5-i%5)
	}
	n.Flush()

	assert.Len(t, mailer.all(), 20)
}
