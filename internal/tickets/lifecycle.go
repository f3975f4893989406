package tickets

import (
	"time"

	"github.com/aquavo/support-backend/internal/models"
)

// Apply moves t into status. Any status may follow any other; the only rule
// enforced is that an assigned ticket names its assignee. ResolvedAt is stamped
// on the first entry into a terminal status and never changed afterwards.
func Apply(t *models.SupportTicket, status models.TicketStatus, assignee *string, now time.Time) error {
	if assignee != nil && *assignee == "" {
		assignee = nil
	}
	if status == models.TicketStatusAssigned && assignee == nil && t.AssignedToUserID == nil {
		return ErrAssigneeRequired
	}
	if assignee != nil {
		id := *assignee
		t.AssignedToUserID = &id
	}
	t.Status = status
	t.UpdatedAt = now
	if status.Terminal() && t.ResolvedAt == nil {
		resolved := now
		t.ResolvedAt = &resolved
	}
	return nil
}
