package models

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidStatus = errors.New("invalid ticket status")

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ConversationTurn is a read-only view of one chat message.
type ConversationTurn struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type Reason string

const (
	ReasonNone           Reason = "none"
	ReasonFrustrated     Reason = "frustrated"
	ReasonRequestedHuman Reason = "requested_human"
	ReasonLowConfidence  Reason = "low_confidence"
	ReasonComplexQuery   Reason = "complex_query"
)

type Signal struct {
	Rule   string `json:"rule"`
	Points int    `json:"points"`
}

type EscalationResult struct {
	ShouldEscalate bool     `json:"should_escalate"`
	Reason         Reason   `json:"reason"`
	Score          int      `json:"score"`
	Confidence     float64  `json:"confidence"`
	Signals        []Signal `json:"signals,omitempty"`
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// PriorityFor maps an escalation reason to a ticket priority. The score plays no part.
func PriorityFor(reason Reason) Priority {
	switch reason {
	case ReasonRequestedHuman:
		return PriorityUrgent
	case ReasonFrustrated:
		return PriorityHigh
	default:
		return PriorityMedium
	}
}

type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusAssigned   TicketStatus = "assigned"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusResolved   TicketStatus = "resolved"
	TicketStatusClosed     TicketStatus = "closed"
)

func ParseTicketStatus(v string) (TicketStatus, error) {
	switch s := TicketStatus(v); s {
	case TicketStatusOpen, TicketStatusAssigned, TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed:
		return s, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, v)
}

// Terminal reports whether the status ends the ticket lifecycle.
func (s TicketStatus) Terminal() bool {
	return s == TicketStatusResolved || s == TicketStatusClosed
}

type SupportTicket struct {
	ID               string       `json:"id"`
	ConversationID   string       `json:"conversation_id"`
	UserID           *string      `json:"user_id"`
	CustomerName     string       `json:"customer_name"`
	CustomerEmail    *string      `json:"customer_email"`
	Status           TicketStatus `json:"status"`
	Priority         Priority     `json:"priority"`
	EscalationReason Reason       `json:"escalation_reason"`
	AIConfidence     float64      `json:"ai_confidence"`
	Sentiment        string       `json:"sentiment"`
	Category         string       `json:"category"`
	AssignedToUserID *string      `json:"assigned_to_user_id"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
	ResolvedAt       *time.Time   `json:"resolved_at"`
}

type User struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

type Responder struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}
