package notify

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/aquavo/support-backend/internal/metrics"
	"github.com/aquavo/support-backend/internal/models"
)

const (
	DefaultTimeout     = 10 * time.Second
	DefaultConcurrency = 4
)

type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Sender delivers one outbound message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Directory lists the staff accounts that receive escalation notifications.
type Directory interface {
	ListResponders(ctx context.Context) ([]models.Responder, error)
}

type Config struct {
	Transport   string
	Timeout     time.Duration
	Concurrency int
	FrontendURL string
}

// Notifier fans a new-ticket message out to every responder. Each delivery
// succeeds or fails on its own and nothing is reported back to the caller.
type Notifier struct {
	Directory   Directory
	Sender      Sender
	Transport   string
	Timeout     time.Duration
	Concurrency int
	FrontendURL string
	Logger      zerolog.Logger
}

func New(dir Directory, sender Sender, cfg Config, logger zerolog.Logger) *Notifier {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConcurrency
	}
	if cfg.Transport == "" {
		cfg.Transport = "log"
	}
	return &Notifier{
		Directory:   dir,
		Sender:      sender,
		Transport:   cfg.Transport,
		Timeout:     cfg.Timeout,
		Concurrency: cfg.Concurrency,
		FrontendURL: cfg.FrontendURL,
		Logger:      logger.With().Str("component", "notify").Logger(),
	}
}

func (n *Notifier) Notify(ctx context.Context, ticketID string, priority models.Priority, customerName string) {
	responders, err := n.Directory.ListResponders(ctx)
	if err != nil {
		n.Logger.Error().Err(err).Str("ticket_id", ticketID).Msg("failed to list responders")
		return
	}
	if len(responders) == 0 {
		n.Logger.Warn().Str("ticket_id", ticketID).Msg("no responders to notify")
		return
	}

	msg := NewTicketMessage(ticketID, priority, customerName, n.FrontendURL)

	var g errgroup.Group
	g.SetLimit(n.Concurrency)
	for _, r := range responders {
		r := r
		g.Go(func() error {
			n.deliver(ctx, r, msg)
			return nil
		})
	}
	_ = g.Wait()
}

func (n *Notifier) deliver(ctx context.Context, r models.Responder, msg Message) {
	if r.Email == "" {
		n.Logger.Warn().Str("responder_id", r.ID).Msg("responder has no address, skipping")
		return
	}
	msg.To = r.Email

	sendCtx, cancel := context.WithTimeout(ctx, n.Timeout)
	defer cancel()
	err := n.Sender.Send(sendCtx, msg)
	metrics.NotificationSent(n.Transport, err)
	if err != nil {
		n.Logger.Error().Err(err).Str("to", r.Email).Msg("notification failed")
		return
	}
	n.Logger.Info().Str("to", r.Email).Msg("notification sent")
}
