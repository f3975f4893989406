package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/aquavo/support-backend/internal/ai"
	"github.com/aquavo/support-backend/internal/models"
	"github.com/aquavo/support-backend/internal/tickets"
)

type EscalationRequest struct {
	Message    string  `json:"message"`
	AIResponse string  `json:"ai_response"`
	UserID     *string `json:"user_id"`
	Sentiment  string  `json:"sentiment" validate:"max=64"`
	Category   string  `json:"category" validate:"max=64"`
}

type EscalationResponse struct {
	Result     models.EscalationResult `json:"result"`
	AIResponse string                  `json:"ai_response"`
	TicketID   string                  `json:"ticket_id,omitempty"`
	Duplicate  bool                    `json:"duplicate,omitempty"`
}

// @Summary Evaluate a customer message for escalation
// @Description Scores the message and reply; opens a support ticket when the conversation needs a human.
// @Tags escalation
// @Accept json
// @Produce json
// @Param id path string true "Conversation ID"
// @Param body body EscalationRequest true "Latest message"
// @Success 200 {object} EscalationResponse
// @Failure 400 {object} map[string]any
// @Failure 500 {object} map[string]any
// @Router /api/conversations/{id}/escalation [post]
func (h *Handler) Escalate(c *gin.Context) {
	conversationID := c.Param("id")
	var req EscalationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}

	ctx := c.Request.Context()
	reply := req.AIResponse
	if strings.TrimSpace(reply) == "" {
		reply = h.generateReply(c, conversationID, req.Message)
	}

	result := h.Scorer.Evaluate(ctx, conversationID, req.Message, reply)
	resp := EscalationResponse{Result: result, AIResponse: reply}
	if !result.ShouldEscalate {
		c.JSON(http.StatusOK, resp)
		return
	}

	if h.Dedupe != nil {
		first, err := h.Dedupe.Acquire(ctx, conversationID, req.Message)
		if err != nil {
			h.Logger.Warn().Err(err).Str("conversation_id", conversationID).Msg("dedupe check failed, creating ticket")
		} else if !first {
			resp.Duplicate = true
			c.JSON(http.StatusOK, resp)
			return
		}
	}

	ticketID, err := h.Tickets.CreateTicket(ctx, tickets.CreateParams{
		ConversationID: conversationID,
		UserID:         req.UserID,
		Reason:         result.Reason,
		Sentiment:      req.Sentiment,
		AIConfidence:   result.Confidence,
		Category:       req.Category,
	})
	if err != nil {
		h.Logger.Error().Err(err).Str("conversation_id", conversationID).Msg("failed to create support ticket")
		if h.Dedupe != nil {
			if relErr := h.Dedupe.Release(context.WithoutCancel(ctx), conversationID, req.Message); relErr != nil {
				h.Logger.Warn().Err(relErr).Str("conversation_id", conversationID).Msg("failed to release dedupe key")
			}
		}
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to create support ticket", err.Error())
		return
	}
	resp.TicketID = ticketID
	c.JSON(http.StatusOK, resp)
}

// generateReply asks the assistant for a reply when the caller did not send
// one. Failures leave the reply empty.
func (h *Handler) generateReply(c *gin.Context, conversationID, message string) string {
	if h.Assistant == nil {
		return ""
	}
	ctx := c.Request.Context()
	var history []ai.ChatMessage
	if h.Turns != nil {
		turns, err := h.Turns.GetTurns(ctx, conversationID, h.HistoryLimit)
		if err != nil {
			h.Logger.Warn().Err(err).Str("conversation_id", conversationID).Msg("history read failed for assistant")
		} else {
			history = ai.FromTurns(turns)
		}
	}
	reply, err := h.Assistant.Ask(ctx, message, history)
	if err != nil {
		h.Logger.Warn().Err(err).Str("conversation_id", conversationID).Msg("assistant reply failed")
		return ""
	}
	return reply
}
