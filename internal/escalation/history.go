package escalation

import (
	"context"

	"github.com/aquavo/support-backend/internal/models"
)

// TurnReader reads the most recent turns of a conversation, oldest first.
type TurnReader interface {
	GetTurns(ctx context.Context, conversationID string, limit int) ([]models.ConversationTurn, error)
}

// StaticHistory serves a fixed transcript. Used by the offline CLI and tests.
type StaticHistory []models.ConversationTurn

func (h StaticHistory) GetTurns(_ context.Context, _ string, limit int) ([]models.ConversationTurn, error) {
	if limit <= 0 || limit >= len(h) {
		return append([]models.ConversationTurn(nil), h...), nil
	}
	return append([]models.ConversationTurn(nil), h[len(h)-limit:]...), nil
}

// recentTurns never fails: a read error is logged and treated as an empty
// history.
func (s *Scorer) recentTurns(ctx context.Context, conversationID string) []models.ConversationTurn {
	if s.Turns == nil || s.HistoryLimit <= 0 {
		return nil
	}
	turns, err := s.Turns.GetTurns(ctx, conversationID, s.HistoryLimit)
	if err != nil {
		s.Logger.Warn().Err(err).Str("conversation_id", conversationID).Msg("history read failed, scoring without history")
		return nil
	}
	if len(turns) > s.HistoryLimit {
		turns = turns[len(turns)-s.HistoryLimit:]
	}
	return turns
}
