// Package evaluation scores submissions through the remote AI capability,
// falling back to the deterministic rule scorer when the capability is
// disabled, open-circuited, or failing.
package evaluation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/intakeworks/storygate/internal/breaker"
	"github.com/intakeworks/storygate/internal/llm"
	"github.com/intakeworks/storygate/internal/scoring"
	"github.com/intakeworks/storygate/pkg/formatting"
)

// Source identifies where a score came from.
type Source string

const (
	SourceAI       Source = "AI"
	SourceFallback Source = "FALLBACK"
)

// Result is a completed evaluation.
type Result struct {
	Score       int
	Explanation string
	Source      Source
}

// System evaluates submissions.
type System interface {
	Evaluate(ctx context.Context, submission string) Result
}

type aiScore struct {
	Score       int    `json:"score"`
	Explanation string `json:"explanation"`
}

type system struct {
	caller  *llm.Caller
	breaker *breaker.Breaker
	enabled bool
	logger  *slog.Logger
}

// New creates an evaluation System. The breaker instance is shared with
// nothing else; each capability carries its own.
func New(caller *llm.Caller, b *breaker.Breaker, enabled bool, logger *slog.Logger) System {
	return &system{
		caller:  caller,
		breaker: b,
		enabled: enabled,
		logger:  logger.With("system", "evaluation"),
	}
}

const systemPrompt = `You are a judge rating short personal stories about pizza for a conference reward program. Rate the story 1-10 for creativity, detail, and emotional engagement. Respond with JSON only: {"score": <1-10>, "explanation": "<one sentence>"}`

// Evaluate never fails: any remote problem yields a fallback result from
// the rule scorer.
func (s *system) Evaluate(ctx context.Context, submission string) Result {
	if !s.enabled {
		return s.fallback(submission, "remote evaluation disabled")
	}
	if !s.breaker.Allow() {
		return s.fallback(submission, "circuit open")
	}

	raw, err := s.caller.Complete(ctx, systemPrompt, submission)
	if err != nil {
		s.breaker.RecordFailure()
		return s.fallback(submission, err.Error())
	}

	parsed, err := parseScore(raw)
	if err != nil {
		s.breaker.RecordFailure()
		return s.fallback(submission, err.Error())
	}

	s.breaker.RecordSuccess()
	return Result{
		Score:       parsed.Score,
		Explanation: parsed.Explanation,
		Source:      SourceAI,
	}
}

func parseScore(raw string) (aiScore, error) {
	parsed, err := formatting.Parse[aiScore](raw)
	if err != nil {
		return aiScore{}, err
	}
	if parsed.Score < 1 || parsed.Score > 10 {
		return aiScore{}, fmt.Errorf("score %d out of range", parsed.Score)
	}
	return parsed, nil
}

func (s *system) fallback(submission, reason string) Result {
	s.logger.Info("using fallback scorer", "reason", reason)
	score := scoring.Score(submission)
	return Result{
		Score:       score,
		Explanation: "Scored by the rule-based evaluator.",
		Source:      SourceFallback,
	}
}
