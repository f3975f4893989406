package escalation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aquavo/support-backend/internal/lexicon"
)

func TestEstimateConfidence(t *testing.T) {
	e := NewConfidenceEstimator(lexicon.Default())

	cases := []struct {
		name  string
		reply string
		want  float64
	}{
		{"empty", "", 0.8},
		{"four hedges", "I think maybe it could possibly work", 0.2},
		{"price", "It costs 25", 0.9},
		{"currency code", "Paid in IQD only", 0.9},
		{"long substantive", "The Aqua filter fits every standard under-sink housing we sell.", 0.85},
		{"long with number", "The Aqua filter fits every standard housing and costs 30 dollars.", 0.95},
		{"long apology", "Sorry, I could not find anything about that product in our catalogue.", 0.65},
		{"many hedges clamp", "maybe perhaps probably possibly might could i think ربما ممكن", 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, e.Estimate(tc.reply), 1e-9)
		})
	}
}

func TestEstimateConfidenceMonotonicInHedges(t *testing.T) {
	e := NewConfidenceEstimator(lexicon.Default())
	hedges := []string{"maybe", "perhaps", "probably", "possibly", "might", "could", "i think", "ربما"}

	prev := e.Estimate("The filter ships today")
	for i := 1; i <= len(hedges); i++ {
		reply := "The filter ships today " + strings.Join(hedges[:i], " ")
		got := e.Estimate(reply)
		assert.LessOrEqual(t, got, prev, reply)
		assert.GreaterOrEqual(t, got, 0.0)
		assert.LessOrEqual(t, got, 1.0)
		prev = got
	}
}
