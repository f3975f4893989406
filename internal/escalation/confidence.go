package escalation

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/aquavo/support-backend/internal/lexicon"
)

const (
	baseConfidence       = 0.8
	hedgePenalty         = 0.15
	specificAnswerBonus  = 0.1
	substantiveBonus     = 0.05
	substantiveMinLength = 50
)

// ConfidenceEstimator scores how sure an automated reply sounds, from lexical
// cues only.
type ConfidenceEstimator struct {
	Hedge    lexicon.Set
	Apology  lexicon.Set
	Currency lexicon.Set
}

func NewConfidenceEstimator(tables lexicon.Tables) ConfidenceEstimator {
	return ConfidenceEstimator{
		Hedge:    tables.Hedge,
		Apology:  tables.Apology,
		Currency: tables.Currency,
	}
}

// Estimate returns a value in [0, 1].
func (e ConfidenceEstimator) Estimate(reply string) float64 {
	confidence := baseConfidence
	confidence -= hedgePenalty * float64(e.Hedge.Count(reply))

	if hasDigit(reply) || e.Currency.Contains(reply) {
		confidence += specificAnswerBonus
	}
	if utf8.RuneCountInString(reply) > substantiveMinLength && !e.Apology.Contains(reply) {
		confidence += substantiveBonus
	}
	return clamp01(confidence)
}

func hasDigit(s string) bool {
	return strings.IndexFunc(s, unicode.IsDigit) >= 0
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
