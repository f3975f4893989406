package db

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aquavo/support-backend/internal/models"
	"github.com/aquavo/support-backend/internal/tickets"
)

//go:embed schema.sql
var schemaSQL string

type Store struct {
	Pool *pgxpool.Pool
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &Store{Pool: pool}, nil
}

func (s *Store) Close() {
	s.Pool.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.Pool.Ping(ctx)
}

func (s *Store) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Migrate creates the tables this service owns. Conversation, message and user
// tables belong to the storefront and are only read.
func (s *Store) Migrate(ctx context.Context) error {
	return s.WithTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, schemaSQL)
		return err
	})
}

// GetTurns returns the latest limit messages of a conversation, oldest first.
func (s *Store) GetTurns(ctx context.Context, conversationID string, limit int) ([]models.ConversationTurn, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT role, content, created_at
		FROM chat_messages
		WHERE conversation_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, conversationID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ConversationTurn
	for rows.Next() {
		var (
			role string
			t    models.ConversationTurn
		)
		if err := rows.Scan(&role, &t.Content, &t.CreatedAt); err != nil {
			return nil, err
		}
		t.Role = models.Role(role)
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

func (s *Store) GetUser(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	err := s.Pool.QueryRow(ctx, `
		SELECT id, COALESCE(full_name, ''), COALESCE(email, '')
		FROM users WHERE id = $1
	`, id).Scan(&u.ID, &u.FullName, &u.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (s *Store) ListResponders(ctx context.Context) ([]models.Responder, error) {
	rows, err := s.Pool.Query(ctx, `SELECT id, email FROM users WHERE role = 'admin' AND email IS NOT NULL ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Responder
	for rows.Next() {
		var r models.Responder
		if err := rows.Scan(&r.ID, &r.Email); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) InsertTicket(ctx context.Context, t models.SupportTicket) error {
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO support_tickets (id, conversation_id, user_id, customer_name, customer_email, status, priority,
			escalation_reason, ai_confidence, sentiment, category, assigned_to_user_id, created_at, updated_at, resolved_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
	`, t.ID, t.ConversationID, t.UserID, t.CustomerName, t.CustomerEmail, string(t.Status), string(t.Priority),
		string(t.EscalationReason), t.AIConfidence, t.Sentiment, t.Category, t.AssignedToUserID, t.CreatedAt, t.UpdatedAt, t.ResolvedAt)
	return err
}

const ticketColumns = `id, conversation_id, user_id, customer_name, customer_email, status, priority,
	escalation_reason, ai_confidence, sentiment, category, assigned_to_user_id, created_at, updated_at, resolved_at`

func (s *Store) GetTicket(ctx context.Context, id string) (models.SupportTicket, error) {
	t, err := scanTicket(s.Pool.QueryRow(ctx, `SELECT `+ticketColumns+` FROM support_tickets WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.SupportTicket{}, tickets.ErrTicketNotFound
		}
		return models.SupportTicket{}, err
	}
	return t, nil
}

// UpdateTicketStatus writes the lifecycle fields. resolved_at keeps the value
// already stored, so a concurrent update cannot move the first stamp.
func (s *Store) UpdateTicketStatus(ctx context.Context, t models.SupportTicket) error {
	tag, err := s.Pool.Exec(ctx, `
		UPDATE support_tickets
		SET status = $1,
			assigned_to_user_id = COALESCE($2, assigned_to_user_id),
			updated_at = $3,
			resolved_at = COALESCE(resolved_at, $4)
		WHERE id = $5
	`, string(t.Status), t.AssignedToUserID, t.UpdatedAt, t.ResolvedAt, t.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return tickets.ErrTicketNotFound
	}
	return nil
}

func (s *Store) ListOpenTickets(ctx context.Context, since time.Time) ([]models.SupportTicket, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT `+ticketColumns+`
		FROM support_tickets
		WHERE status = 'open' AND created_at >= $1
		ORDER BY created_at DESC
	`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.SupportTicket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func scanTicket(row pgx.Row) (models.SupportTicket, error) {
	var (
		t        models.SupportTicket
		status   string
		priority string
		reason   string
	)
	err := row.Scan(&t.ID, &t.ConversationID, &t.UserID, &t.CustomerName, &t.CustomerEmail, &status, &priority,
		&reason, &t.AIConfidence, &t.Sentiment, &t.Category, &t.AssignedToUserID, &t.CreatedAt, &t.UpdatedAt, &t.ResolvedAt)
	if err != nil {
		return models.SupportTicket{}, err
	}
	t.Status, err = models.ParseTicketStatus(status)
	if err != nil {
		return models.SupportTicket{}, fmt.Errorf("ticket %s: %w", t.ID, err)
	}
	t.Priority = models.Priority(priority)
	t.EscalationReason = models.Reason(reason)
	return t, nil
}
