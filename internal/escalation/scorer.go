package escalation

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/aquavo/support-backend/internal/lexicon"
	"github.com/aquavo/support-backend/internal/metrics"
	"github.com/aquavo/support-backend/internal/models"
)

const (
	DefaultThreshold    = 50
	DefaultHistoryLimit = 5
)

type Config struct {
	// Threshold is the score at or above which a conversation escalates.
	Threshold    int
	HistoryLimit int
}

// Scorer decides whether a conversation should be handed to a human. It holds
// no per-conversation state and is safe for concurrent use.
type Scorer struct {
	Turns        TurnReader
	Tables       lexicon.Tables
	Confidence   ConfidenceEstimator
	Threshold    int
	HistoryLimit int
	Logger       zerolog.Logger

	rules []rule
}

func NewScorer(turns TurnReader, tables lexicon.Tables, cfg Config, logger zerolog.Logger) *Scorer {
	if cfg.Threshold <= 0 {
		cfg.Threshold = DefaultThreshold
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = DefaultHistoryLimit
	}
	s := &Scorer{
		Turns:        turns,
		Tables:       tables,
		Confidence:   NewConfidenceEstimator(tables),
		Threshold:    cfg.Threshold,
		HistoryLimit: cfg.HistoryLimit,
		Logger:       logger.With().Str("component", "escalation").Logger(),
	}
	s.rules = s.buildRules()
	return s
}

// Evaluate scores one user message and the automated reply generated for it.
// It never fails; missing history only removes the repetition signal.
func (s *Scorer) Evaluate(ctx context.Context, conversationID, latestMessage, aiResponse string) models.EscalationResult {
	confidence := s.Confidence.Estimate(aiResponse)

	if s.Tables.Human.Contains(latestMessage) {
		res := models.EscalationResult{
			ShouldEscalate: true,
			Reason:         models.ReasonRequestedHuman,
			Score:          humanRequestScore,
			Confidence:     confidence,
			Signals:        []models.Signal{{Rule: "human_request", Points: humanRequestScore}},
		}
		s.log(conversationID, res)
		return res
	}

	in := evaluation{
		message:    latestMessage,
		confidence: confidence,
		history:    s.recentTurns(ctx, conversationID),
	}

	res := models.EscalationResult{Reason: models.ReasonNone, Confidence: confidence}
	for _, r := range s.rules {
		pts := r.points(in)
		if pts <= 0 {
			continue
		}
		res.Score += pts
		res.Signals = append(res.Signals, models.Signal{Rule: r.name, Points: pts})
		if r.override || res.Reason == models.ReasonNone {
			res.Reason = r.reason
		}
	}
	res.ShouldEscalate = res.Score >= s.Threshold

	s.log(conversationID, res)
	return res
}

func (s *Scorer) log(conversationID string, res models.EscalationResult) {
	metrics.ObserveEvaluation(res)
	s.Logger.Debug().
		Str("conversation_id", conversationID).
		Bool("escalate", res.ShouldEscalate).
		Str("reason", string(res.Reason)).
		Int("score", res.Score).
		Float64("confidence", res.Confidence).
		Msg("escalation evaluated")
}
