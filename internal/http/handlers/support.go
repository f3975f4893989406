package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aquavo/support-backend/internal/models"
	"github.com/aquavo/support-backend/internal/tickets"
)

// @Summary Open support tickets
// @Description Open tickets from the last 7 days, newest first.
// @Tags support
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/support/tickets [get]
func (h *Handler) SupportTicketsList(c *gin.Context) {
	items := h.Tickets.ListOpenTickets(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// @Summary Support ticket details
// @Tags support
// @Produce json
// @Param id path string true "Ticket ID"
// @Success 200 {object} models.SupportTicket
// @Failure 404 {object} map[string]any
// @Router /api/support/tickets/{id} [get]
func (h *Handler) SupportTicketDetails(c *gin.Context) {
	ticket, err := h.Tickets.GetTicket(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, tickets.ErrTicketNotFound) {
			writeError(c, http.StatusNotFound, "NOT_FOUND", "Ticket not found", nil)
			return
		}
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to get ticket", err.Error())
		return
	}
	c.JSON(http.StatusOK, ticket)
}

type StatusRequest struct {
	Status           string  `json:"status" validate:"required,oneof=open assigned in_progress resolved closed"`
	AssignedToUserID *string `json:"assigned_to_user_id"`
}

// @Summary Update support ticket status
// @Tags support
// @Accept json
// @Produce json
// @Param id path string true "Ticket ID"
// @Param body body StatusRequest true "New status"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Failure 404 {object} map[string]any
// @Router /api/support/tickets/{id}/status [patch]
func (h *Handler) SupportTicketStatus(c *gin.Context) {
	id := c.Param("id")
	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}
	status, err := models.ParseTicketStatus(req.Status)
	if err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid status", err.Error())
		return
	}

	err = h.Tickets.UpdateStatus(c.Request.Context(), id, status, req.AssignedToUserID)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	case errors.Is(err, tickets.ErrTicketNotFound):
		writeError(c, http.StatusNotFound, "NOT_FOUND", "Ticket not found", nil)
	case errors.Is(err, tickets.ErrAssigneeRequired), errors.Is(err, models.ErrInvalidStatus):
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
	default:
		h.Logger.Error().Err(err).Str("ticket_id", id).Msg("failed to update ticket status")
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to update ticket", err.Error())
	}
}
