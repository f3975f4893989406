package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/aquavo/support-backend/internal/ai"
	"github.com/aquavo/support-backend/internal/dedupe"
	"github.com/aquavo/support-backend/internal/escalation"
	"github.com/aquavo/support-backend/internal/models"
	"github.com/aquavo/support-backend/internal/tickets"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type Evaluator interface {
	Evaluate(ctx context.Context, conversationID, latestMessage, aiResponse string) models.EscalationResult
}

type TicketService interface {
	CreateTicket(ctx context.Context, p tickets.CreateParams) (string, error)
	UpdateStatus(ctx context.Context, ticketID string, status models.TicketStatus, assignedToUserID *string) error
	GetTicket(ctx context.Context, ticketID string) (models.SupportTicket, error)
	ListOpenTickets(ctx context.Context) []models.SupportTicket
}

type Handler struct {
	DB        Pinger
	Scorer    Evaluator
	Tickets   TicketService
	Dedupe    dedupe.Guard
	Assistant ai.Assistant
	Turns     escalation.TurnReader
	Validator *validator.Validate
	Logger    zerolog.Logger

	HistoryLimit int
}

func (h *Handler) Healthz(c *gin.Context) {
	if h.DB == nil {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()
	if err := h.DB.Ping(ctx); err != nil {
		writeError(c, http.StatusServiceUnavailable, "DB_UNAVAILABLE", "Database unavailable", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func writeError(c *gin.Context, status int, code string, message string, details any) {
	c.JSON(status, gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}
