package escalation

import (
	"strings"
	"unicode/utf8"

	"github.com/aquavo/support-backend/internal/models"
)

const (
	humanRequestScore = 100

	frustrationPointsPerHit = 30

	repetitionPoints     = 40
	repetitionSimilarity = 0.7
	repetitionMinMatches = 2

	lowConfidencePoints = 30
	lowConfidenceBelow  = 0.6

	complexityPoints  = 20
	maxQuestionMarks  = 2
	longMessageLength = 300

	orderIssuePoints = 50
)

// evaluation holds the inputs every rule reads.
type evaluation struct {
	message    string
	confidence float64
	history    []models.ConversationTurn
}

// rule adds points when its condition holds. Rules run in slice order. The
// first rule that fires sets the reason; a rule with override replaces
// whatever reason is already set.
type rule struct {
	name     string
	reason   models.Reason
	override bool
	points   func(in evaluation) int
}

func (s *Scorer) buildRules() []rule {
	return []rule{
		{
			name:   "frustration",
			reason: models.ReasonFrustrated,
			points: func(in evaluation) int {
				return frustrationPointsPerHit * s.Tables.Frustration.Count(in.message)
			},
		},
		{
			name:   "repetition",
			reason: models.ReasonComplexQuery,
			points: func(in evaluation) int {
				if repeatedUserTurns(in.history, in.message) >= repetitionMinMatches {
					return repetitionPoints
				}
				return 0
			},
		},
		{
			name:   "low_confidence",
			reason: models.ReasonLowConfidence,
			points: func(in evaluation) int {
				if in.confidence < lowConfidenceBelow {
					return lowConfidencePoints
				}
				return 0
			},
		},
		{
			name:   "complexity",
			reason: models.ReasonComplexQuery,
			points: func(in evaluation) int {
				if questionMarks(in.message) > maxQuestionMarks || utf8.RuneCountInString(in.message) > longMessageLength {
					return complexityPoints
				}
				return 0
			},
		},
		{
			// Order and shipping problems carry the highest business priority
			// after an explicit human request, so they always own the reason.
			name:     "order_issue",
			reason:   models.ReasonComplexQuery,
			override: true,
			points: func(in evaluation) int {
				if s.Tables.Order.Contains(in.message) {
					return orderIssuePoints
				}
				return 0
			},
		},
	}
}

func repeatedUserTurns(history []models.ConversationTurn, message string) int {
	n := 0
	for _, turn := range history {
		if turn.Role != models.RoleUser {
			continue
		}
		if Similarity(turn.Content, message) >= repetitionSimilarity {
			n++
		}
	}
	return n
}

func questionMarks(s string) int {
	return strings.Count(s, "?") + strings.Count(s, "؟") + strings.Count(s, "？")
}
