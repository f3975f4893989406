package tickets

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aquavo/support-backend/internal/metrics"
	"github.com/aquavo/support-backend/internal/models"
)

var (
	ErrTicketNotFound   = errors.New("ticket not found")
	ErrAssigneeRequired = errors.New("assigned status requires an assignee")
)

const (
	// OpenTicketWindow bounds how far back the open-ticket dashboard looks.
	OpenTicketWindow = 7 * 24 * time.Hour

	GuestName       = "زائر"
	DefaultCategory = "product_question"
)

type Store interface {
	InsertTicket(ctx context.Context, t models.SupportTicket) error
	GetTicket(ctx context.Context, id string) (models.SupportTicket, error)
	UpdateTicketStatus(ctx context.Context, t models.SupportTicket) error
	ListOpenTickets(ctx context.Context, since time.Time) ([]models.SupportTicket, error)
}

type UserLookup interface {
	// GetUser returns nil without error when the user does not exist.
	GetUser(ctx context.Context, id string) (*models.User, error)
}

// Notifier tells responders about a new ticket. It must not fail the caller.
type Notifier interface {
	Notify(ctx context.Context, ticketID string, priority models.Priority, customerName string)
}

type CreateParams struct {
	ConversationID string
	UserID         *string
	Reason         models.Reason
	Sentiment      string
	AIConfidence   float64
	Category       string
}

type Manager struct {
	Store    Store
	Users    UserLookup
	Notifier Notifier
	Logger   zerolog.Logger

	Now   func() time.Time
	NewID func() string

	notifying sync.WaitGroup
}

func NewManager(store Store, users UserLookup, notifier Notifier, logger zerolog.Logger) *Manager {
	return &Manager{
		Store:    store,
		Users:    users,
		Notifier: notifier,
		Logger:   logger.With().Str("component", "tickets").Logger(),
		Now:      func() time.Time { return time.Now().UTC() },
		NewID:    uuid.NewString,
	}
}

// CreateTicket records one escalation and starts responder notification in
// the background. Only a failed insert is reported.
func (m *Manager) CreateTicket(ctx context.Context, p CreateParams) (string, error) {
	now := m.Now()
	ticket := models.SupportTicket{
		ID:               m.NewID(),
		ConversationID:   p.ConversationID,
		UserID:           nonEmpty(p.UserID),
		CustomerName:     GuestName,
		Status:           models.TicketStatusOpen,
		Priority:         models.PriorityFor(p.Reason),
		EscalationReason: p.Reason,
		AIConfidence:     p.AIConfidence,
		Sentiment:        p.Sentiment,
		Category:         p.Category,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if ticket.Category == "" {
		ticket.Category = DefaultCategory
	}
	if user := m.lookupUser(ctx, ticket.UserID); user != nil {
		if user.FullName != "" {
			ticket.CustomerName = user.FullName
		}
		if user.Email != "" {
			email := user.Email
			ticket.CustomerEmail = &email
		}
	}

	if err := m.Store.InsertTicket(ctx, ticket); err != nil {
		return "", fmt.Errorf("insert support ticket: %w", err)
	}
	metrics.TicketCreated(ticket.Priority)
	m.Logger.Info().
		Str("ticket_id", ticket.ID).
		Str("conversation_id", ticket.ConversationID).
		Str("priority", string(ticket.Priority)).
		Str("reason", string(ticket.EscalationReason)).
		Msg("support ticket created")

	if m.Notifier != nil {
		notifyCtx := context.WithoutCancel(ctx)
		m.notifying.Add(1)
		go func() {
			defer m.notifying.Done()
			m.Notifier.Notify(notifyCtx, ticket.ID, ticket.Priority, ticket.CustomerName)
		}()
	}
	return ticket.ID, nil
}

// Wait blocks until background notifications started by CreateTicket finish.
func (m *Manager) Wait() {
	m.notifying.Wait()
}

func (m *Manager) UpdateStatus(ctx context.Context, ticketID string, status models.TicketStatus, assignedToUserID *string) error {
	ticket, err := m.Store.GetTicket(ctx, ticketID)
	if err != nil {
		return err
	}
	prev := ticket.Status
	if err := Apply(&ticket, status, assignedToUserID, m.Now()); err != nil {
		return err
	}
	if err := m.Store.UpdateTicketStatus(ctx, ticket); err != nil {
		return fmt.Errorf("update support ticket: %w", err)
	}
	metrics.TicketTransitioned(status)

	evt := m.Logger.Info()
	if prev.Terminal() && !status.Terminal() {
		evt = m.Logger.Warn()
	}
	evt.Str("ticket_id", ticketID).
		Str("from", string(prev)).
		Str("to", string(status)).
		Msg("support ticket status updated")
	return nil
}

func (m *Manager) GetTicket(ctx context.Context, ticketID string) (models.SupportTicket, error) {
	return m.Store.GetTicket(ctx, ticketID)
}

// ListOpenTickets returns open tickets created within OpenTicketWindow,
// newest first. A read failure is logged and yields an empty list.
func (m *Manager) ListOpenTickets(ctx context.Context) []models.SupportTicket {
	since := m.Now().Add(-OpenTicketWindow)
	rows, err := m.Store.ListOpenTickets(ctx, since)
	if err != nil {
		m.Logger.Error().Err(err).Msg("failed to list open tickets")
		return []models.SupportTicket{}
	}

	out := make([]models.SupportTicket, 0, len(rows))
	for _, t := range rows {
		if t.Status == models.TicketStatusOpen && !t.CreatedAt.Before(since) {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (m *Manager) lookupUser(ctx context.Context, userID *string) *models.User {
	if userID == nil || m.Users == nil {
		return nil
	}
	user, err := m.Users.GetUser(ctx, *userID)
	if err != nil {
		m.Logger.Warn().Err(err).Str("user_id", *userID).Msg("user lookup failed, opening ticket as guest")
		return nil
	}
	return user
}

func nonEmpty(v *string) *string {
	if v == nil || *v == "" {
		return nil
	}
	return v
}
