package escalation

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aquavo/support-backend/internal/lexicon"
	"github.com/aquavo/support-backend/internal/models"
)

const confidentReply = "The Aqua filter costs 25000 IQD and fits every standard housing."

type fakeTurns struct {
	turns []models.ConversationTurn
	err   error
	calls int
	limit int
}

func (f *fakeTurns) GetTurns(_ context.Context, _ string, limit int) ([]models.ConversationTurn, error) {
	f.calls++
	f.limit = limit
	return f.turns, f.err
}

func newTestScorer(turns TurnReader) *Scorer {
	return NewScorer(turns, lexicon.Default(), Config{}, zerolog.Nop())
}

func TestEvaluateHumanRequestShortCircuits(t *testing.T) {
	turns := &fakeTurns{}
	s := newTestScorer(turns)

	messages := []string{
		"أريد التحدث مع موظف",
		"Can I talk to a real person?",
		"you are stupid and useless, get me a MANAGER, where is my order???",
	}
	for _, msg := range messages {
		res := s.Evaluate(context.Background(), "c1", msg, "I think maybe")
		assert.True(t, res.ShouldEscalate, msg)
		assert.Equal(t, models.ReasonRequestedHuman, res.Reason, msg)
		assert.Equal(t, 100, res.Score, msg)
	}
	assert.Zero(t, turns.calls, "history must not be read after a human request")
}

func TestEvaluateFrustration(t *testing.T) {
	s := newTestScorer(&fakeTurns{})

	res := s.Evaluate(context.Background(), "c1", "هذا سيء جداً وغبي", confidentReply)
	assert.GreaterOrEqual(t, res.Score, 60)
	assert.True(t, res.ShouldEscalate)
	assert.Equal(t, models.ReasonFrustrated, res.Reason)
}

func TestEvaluateLowConfidenceAlone(t *testing.T) {
	s := newTestScorer(&fakeTurns{})

	res := s.Evaluate(context.Background(), "c1", "ok thanks", "I think maybe it could possibly work")
	assert.InDelta(t, 0.2, res.Confidence, 1e-9)
	assert.Equal(t, 30, res.Score)
	assert.False(t, res.ShouldEscalate)
	assert.Equal(t, models.ReasonLowConfidence, res.Reason)
}

func TestEvaluateRepetitionWithComplexity(t *testing.T) {
	prior := "is the blue pump in stock? what size? what colour?"
	turns := &fakeTurns{turns: []models.ConversationTurn{
		{Role: models.RoleUser, Content: prior},
		{Role: models.RoleAssistant, Content: prior},
		{Role: models.RoleUser, Content: prior},
		{Role: models.RoleAssistant, Content: "let me check"},
	}}
	s := newTestScorer(turns)

	msg := "is the blue pump in stock? what size? what color?"
	require.InDelta(t, 0.8, Similarity(prior, msg), 1e-9)

	res := s.Evaluate(context.Background(), "c1", msg, confidentReply)
	assert.Equal(t, 60, res.Score)
	assert.True(t, res.ShouldEscalate)
	assert.Equal(t, models.ReasonComplexQuery, res.Reason)
	assert.Equal(t, []models.Signal{{Rule: "repetition", Points: 40}, {Rule: "complexity", Points: 20}}, res.Signals)
	assert.Equal(t, 1, turns.calls)
	assert.Equal(t, DefaultHistoryLimit, turns.limit)
}

func TestEvaluateSingleRepeatDoesNotCount(t *testing.T) {
	msg := "is the blue pump in stock"
	s := newTestScorer(&fakeTurns{turns: []models.ConversationTurn{
		{Role: models.RoleUser, Content: msg},
		{Role: models.RoleAssistant, Content: msg},
	}})

	res := s.Evaluate(context.Background(), "c1", msg, confidentReply)
	assert.Zero(t, res.Score)
	assert.Equal(t, models.ReasonNone, res.Reason)
}

func TestEvaluateOrderIssueOverridesReason(t *testing.T) {
	s := newTestScorer(&fakeTurns{})

	res := s.Evaluate(context.Background(), "c1", "وين طلبي", confidentReply)
	assert.Equal(t, models.ReasonComplexQuery, res.Reason)
	assert.GreaterOrEqual(t, res.Score, 50)
	assert.True(t, res.ShouldEscalate)

	res = s.Evaluate(context.Background(), "c1", "this is the worst, where is my order", "maybe perhaps")
	assert.Equal(t, 30+30+50, res.Score)
	assert.Equal(t, models.ReasonComplexQuery, res.Reason)
}

func TestEvaluateLongMessageIsComplex(t *testing.T) {
	s := newTestScorer(&fakeTurns{})

	res := s.Evaluate(context.Background(), "c1", strings.Repeat("ب", 301), confidentReply)
	assert.Equal(t, 20, res.Score)
	assert.Equal(t, models.ReasonComplexQuery, res.Reason)
	assert.False(t, res.ShouldEscalate)

	res = s.Evaluate(context.Background(), "c1", strings.Repeat("ب", 300), confidentReply)
	assert.Zero(t, res.Score)
}

func TestEvaluateHistoryFailureIsSoft(t *testing.T) {
	s := newTestScorer(&fakeTurns{err: errors.New("connection refused")})

	res := s.Evaluate(context.Background(), "c1", "is it in stock? which size? which colour?", confidentReply)
	assert.Equal(t, 20, res.Score)
	assert.False(t, res.ShouldEscalate)
}

func TestEvaluateEmptyInput(t *testing.T) {
	s := newTestScorer(nil)

	res := s.Evaluate(context.Background(), "", "", "")
	assert.Zero(t, res.Score)
	assert.Equal(t, models.ReasonNone, res.Reason)
	assert.False(t, res.ShouldEscalate)
}

func TestEvaluateThresholdInvariant(t *testing.T) {
	prior := "do you have the blue pump"
	s := newTestScorer(&fakeTurns{turns: []models.ConversationTurn{
		{Role: models.RoleUser, Content: prior},
		{Role: models.RoleUser, Content: prior},
	}})

	messages := []string{
		"", "ok thanks", "do you have the blue pump", "this is terrible", "stupid dumb trash",
		"what? why? how?", "وين طلبي", "shipping delay?", strings.Repeat("a ", 200),
	}
	replies := []string{"", confidentReply, "maybe perhaps", "sorry"}
	for _, msg := range messages {
		for _, reply := range replies {
			res := s.Evaluate(context.Background(), "c1", msg, reply)
			assert.Equal(t, res.Score >= DefaultThreshold, res.ShouldEscalate, "%q / %q", msg, reply)
			assert.GreaterOrEqual(t, res.Score, 0)
		}
	}
}

func TestEvaluateCustomThreshold(t *testing.T) {
	s := NewScorer(nil, lexicon.Default(), Config{Threshold: 30}, zerolog.Nop())

	res := s.Evaluate(context.Background(), "c1", "ok thanks", "I think maybe it could possibly work")
	assert.True(t, res.ShouldEscalate)
}

func TestStaticHistoryReturnsTail(t *testing.T) {
	h := StaticHistory{
		{Role: models.RoleUser, Content: "1"},
		{Role: models.RoleUser, Content: "2"},
		{Role: models.RoleUser, Content: "3"},
	}
	turns, err := h.GetTurns(context.Background(), "c1", 2)
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, "2", turns[0].Content)
	assert.Equal(t, "3", turns[1].Content)
}
