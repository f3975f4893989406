package ai

import (
	"context"

	"github.com/aquavo/support-backend/internal/utils"
)

// MockAssistant answers from a fixed set of replies picked by prompt hash.
type MockAssistant struct{}

var mockReplies = []string{
	"The Aqua filter costs 25000 IQD and ships within 3 days to Baghdad and Erbil.",
	"I think maybe that product could be out of stock, perhaps check again later.",
	"Sorry, I could not find that.",
	"Our 5-stage purifier includes installation and a 12 month warranty.",
}

func (MockAssistant) Ask(_ context.Context, prompt string, _ []ChatMessage) (string, error) {
	return mockReplies[utils.HashStringToUint64(prompt)%uint64(len(mockReplies))], nil
}
