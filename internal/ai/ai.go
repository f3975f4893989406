package ai

import (
	"context"

	"github.com/aquavo/support-backend/internal/models"
)

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Assistant generates the automated reply to a customer message.
type Assistant interface {
	Ask(ctx context.Context, prompt string, history []ChatMessage) (string, error)
}

func FromTurns(turns []models.ConversationTurn) []ChatMessage {
	out := make([]ChatMessage, 0, len(turns))
	for _, t := range turns {
		out = append(out, ChatMessage{Role: string(t.Role), Content: t.Content})
	}
	return out
}
