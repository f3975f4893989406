package notify

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aquavo/support-backend/internal/models"
)

type staticDirectory struct {
	responders []models.Responder
	err        error
}

func (d staticDirectory) ListResponders(context.Context) ([]models.Responder, error) {
	return d.responders, d.err
}

type fakeSender struct {
	mu      sync.Mutex
	sent    []Message
	failFor map[string]bool
	block   map[string]bool
}

func (s *fakeSender) Send(ctx context.Context, msg Message) error {
	if s.block[msg.To] {
		<-ctx.Done()
		return ctx.Err()
	}
	if s.failFor[msg.To] {
		return errors.New("mailbox unavailable")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, msg)
	return nil
}

func (s *fakeSender) recipients() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.sent))
	for _, m := range s.sent {
		out = append(out, m.To)
	}
	return out
}

func responders(emails ...string) []models.Responder {
	out := make([]models.Responder, 0, len(emails))
	for i, e := range emails {
		out = append(out, models.Responder{ID: string(rune('a' + i)), Email: e})
	}
	return out
}

func TestNotifySendsToEveryResponder(t *testing.T) {
	sender := &fakeSender{}
	n := New(staticDirectory{responders: responders("a@x.io", "b@x.io", "c@x.io")}, sender, Config{FrontendURL: "https://shop.example"}, zerolog.Nop())

	n.Notify(context.Background(), "t-1", models.PriorityUrgent, "Sara")

	assert.ElementsMatch(t, []string{"a@x.io", "b@x.io", "c@x.io"}, sender.recipients())
	for _, m := range sender.sent {
		assert.Contains(t, m.Subject, "[URGENT]")
		assert.Contains(t, m.Body, "t-1")
	}
}

func TestNotifyFailureIsIsolated(t *testing.T) {
	sender := &fakeSender{failFor: map[string]bool{"b@x.io": true}}
	n := New(staticDirectory{responders: responders("a@x.io", "b@x.io", "c@x.io")}, sender, Config{}, zerolog.Nop())

	n.Notify(context.Background(), "t-1", models.PriorityHigh, "Sara")

	assert.ElementsMatch(t, []string{"a@x.io", "c@x.io"}, sender.recipients())
}

func TestNotifySlowRecipientTimesOut(t *testing.T) {
	sender := &fakeSender{block: map[string]bool{"slow@x.io": true}}
	n := New(staticDirectory{responders: responders("slow@x.io", "fast@x.io")}, sender, Config{Timeout: 50 * time.Millisecond, Concurrency: 1}, zerolog.Nop())

	done := make(chan struct{})
	go func() {
		n.Notify(context.Background(), "t-1", models.PriorityMedium, "Sara")
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("notify did not return after per-recipient timeout")
	}
	assert.Equal(t, []string{"fast@x.io"}, sender.recipients())
}

func TestNotifyWithoutResponders(t *testing.T) {
	sender := &fakeSender{}
	n := New(staticDirectory{}, sender, Config{}, zerolog.Nop())
	n.Notify(context.Background(), "t-1", models.PriorityMedium, "Sara")
	assert.Empty(t, sender.recipients())
}

func TestNotifyDirectoryFailure(t *testing.T) {
	sender := &fakeSender{}
	n := New(staticDirectory{err: errors.New("db down")}, sender, Config{}, zerolog.Nop())
	n.Notify(context.Background(), "t-1", models.PriorityMedium, "Sara")
	assert.Empty(t, sender.recipients())
}

func TestNotifySkipsResponderWithoutAddress(t *testing.T) {
	sender := &fakeSender{}
	n := New(staticDirectory{responders: responders("", "b@x.io")}, sender, Config{}, zerolog.Nop())
	n.Notify(context.Background(), "t-1", models.PriorityMedium, "Sara")
	assert.Equal(t, []string{"b@x.io"}, sender.recipients())
}

func TestNewTicketMessage(t *testing.T) {
	msg := NewTicketMessage("t-42", models.PriorityHigh, "زائر", "https://shop.example/")

	assert.Equal(t, "🔔 تذكرة دعم جديدة - AQUAVO [HIGH]", msg.Subject)
	assert.Contains(t, msg.Body, "t-42")
	assert.Contains(t, msg.Body, "high")
	assert.Contains(t, msg.Body, "زائر")
	assert.Contains(t, msg.Body, "https://shop.example/admin?tab=support")
	assert.Contains(t, msg.Body, "#ea580c")
	assert.Empty(t, msg.To)
}

func TestNewTicketMessageEscapesCustomerName(t *testing.T) {
	msg := NewTicketMessage("t-1", models.PriorityMedium, "<script>x</script>", "")
	assert.NotContains(t, msg.Body, "<script>")
	assert.Contains(t, msg.Body, DashboardURL(""))
}

func TestDashboardURLDefault(t *testing.T) {
	assert.Equal(t, "http://localhost:5173/admin?tab=support", DashboardURL(" "))
}

func TestSMTPSenderRequiresHost(t *testing.T) {
	err := SMTPSender{}.Send(context.Background(), Message{To: "a@x.io"})
	assert.Error(t, err)
}

func TestEncodeEvent(t *testing.T) {
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	km, err := encodeEvent(Message{To: "a@x.io", Subject: "s", Body: "b"}, at)
	require.NoError(t, err)
	assert.Equal(t, "a@x.io", string(km.Key))

	var evt notificationEvent
	require.NoError(t, json.Unmarshal(km.Value, &evt))
	assert.Equal(t, notificationEvent{To: "a@x.io", Subject: "s", Body: "b", SentAt: at}, evt)
}
