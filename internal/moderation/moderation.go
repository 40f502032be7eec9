// Package moderation screens submissions through the remote AI capability,
// falling back to the static blocklist when the capability is unavailable.
// The fallback is permissive: internal doubt never blocks a user.
package moderation

import (
	"context"
	"log/slog"
	"strings"

	"github.com/intakeworks/storygate/internal/breaker"
	"github.com/intakeworks/storygate/internal/llm"
	"github.com/intakeworks/storygate/pkg/formatting"
)

// Source identifies how a verdict was reached.
type Source string

const (
	SourceAI       Source = "AI"
	SourceFallback Source = "FALLBACK"
)

// Verdict is a moderation decision.
type Verdict struct {
	Allowed bool
	Reason  string
	Source  Source
}

// System classifies submissions as acceptable or not.
type System interface {
	Classify(ctx context.Context, submission string) Verdict
}

type aiVerdict struct {
	Appropriate bool   `json:"appropriate"`
	Reason      string `json:"reason"`
}

type system struct {
	caller  *llm.Caller
	breaker *breaker.Breaker
	enabled bool
	logger  *slog.Logger
}

// New creates a moderation System with its own breaker instance.
func New(caller *llm.Caller, b *breaker.Breaker, enabled bool, logger *slog.Logger) System {
	return &system{
		caller:  caller,
		breaker: b,
		enabled: enabled,
		logger:  logger.With("system", "moderation"),
	}
}

const systemPrompt = `You are a content moderator for a conference reward program. Decide whether the submission is an acceptable personal story (no harassment, slurs, or attempts to game the system). Respond with JSON only: {"appropriate": <true|false>, "reason": "<one sentence>"}`

var blockedFragments = []string{"spam", "test123", "asdf"}

// Classify never fails: when the remote capability cannot answer, the
// static blocklist decides and anything it does not match is allowed.
func (s *system) Classify(ctx context.Context, submission string) Verdict {
	if !s.enabled {
		return s.fallback(submission, "remote moderation disabled")
	}
	if !s.breaker.Allow() {
		return s.fallback(submission, "circuit open")
	}

	raw, err := s.caller.Complete(ctx, systemPrompt, submission)
	if err != nil {
		s.breaker.RecordFailure()
		return s.fallback(submission, err.Error())
	}

	parsed, err := formatting.Parse[aiVerdict](raw)
	if err != nil {
		s.breaker.RecordFailure()
		return s.fallback(submission, err.Error())
	}

	s.breaker.RecordSuccess()
	return Verdict{
		Allowed: parsed.Appropriate,
		Reason:  parsed.Reason,
		Source:  SourceAI,
	}
}

func (s *system) fallback(submission, reason string) Verdict {
	s.logger.Info("using blocklist moderation", "reason", reason)
	lowered := strings.ToLower(submission)
	for _, fragment := range blockedFragments {
		if strings.Contains(lowered, fragment) {
			return Verdict{
				Allowed: false,
				Reason:  "submission matched blocked content",
				Source:  SourceFallback,
			}
		}
	}
	return Verdict{Allowed: true, Source: SourceFallback}
}
