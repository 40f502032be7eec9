// Package session drives the per-identity conversation: welcome, collect
// one story, screen and score it, and hand out exactly one credential.
package session

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/intakeworks/storygate/internal/credentials"
	"github.com/intakeworks/storygate/internal/evaluation"
	"github.com/intakeworks/storygate/internal/identity"
	"github.com/intakeworks/storygate/internal/ledger"
	"github.com/intakeworks/storygate/internal/moderation"
	"github.com/intakeworks/storygate/internal/notify"
	"github.com/intakeworks/storygate/internal/respond"
	"github.com/intakeworks/storygate/internal/submission"
)

const degradedScore = 5

// Options bounds the orchestrator's intake behavior. IntentKeywords
// open a conversation from INITIAL; EmailKeywords trigger the
// post-issuance email dispatch.
type Options struct {
	MaxSubmissions int
	IntentKeywords []string
	EmailKeywords  []string
}

// Orchestrator handles one inbound message at a time per identity; the
// ledger serializes concurrent messages from the same sender.
type Orchestrator struct {
	ledger     *ledger.Ledger
	validator  *submission.Validator
	moderation moderation.System
	evaluation evaluation.System
	composer   *respond.Composer
	notifier   notify.System
	opts       Options
	logger     *slog.Logger
}

// New creates an Orchestrator.
func New(l *ledger.Ledger, validator *submission.Validator, mod moderation.System, eval evaluation.System, composer *respond.Composer, notifier notify.System, opts Options, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		ledger:     l,
		validator:  validator,
		moderation: mod,
		evaluation: eval,
		composer:   composer,
		notifier:   notifier,
		opts:       opts,
		logger:     logger.With("system", "session"),
	}
}

// Handle processes one inbound message and always returns a reply. A
// panic anywhere in processing degrades to an issuance at a neutral
// score, so an attendee is never left empty-handed by an internal bug.
func (o *Orchestrator) Handle(ctx context.Context, senderID, text string) (reply string) {
	hash := identity.Hash(senderID)
	logger := o.logger.With("identity", hash)

	defer func() {
		if r := recover(); r != nil {
			logger.Error("message handling panicked", "panic", r)
			reply = o.degradedIssue(ctx, hash, text)
		}
	}()

	// An issued identity can always retrieve its credential, so the
	// idempotent read runs ahead of the submission limit.
	if credential, ok := o.ledger.GetCredential(ctx, hash); ok {
		return o.handleIssued(ctx, text, credential, logger)
	}

	if o.ledger.SubmissionCount(ctx, hash) >= o.opts.MaxSubmissions {
		return o.composer.RateLimited(o.opts.MaxSubmissions)
	}

	switch o.ledger.GetState(ctx, hash) {
	case ledger.StateInitial:
		if !containsAny(text, o.opts.IntentKeywords) {
			return o.composer.Greeting()
		}
		o.ledger.SetState(ctx, hash, ledger.StateAwaiting)
		return o.composer.Welcome()
	case ledger.StateAwaiting:
		return o.handleSubmission(ctx, hash, text, logger)
	default:
		return o.composer.Generic()
	}
}

func (o *Orchestrator) handleSubmission(ctx context.Context, hash, text string, logger *slog.Logger) string {
	count := o.ledger.IncrementSubmissionCount(ctx, hash)
	if count > o.opts.MaxSubmissions {
		return o.composer.RateLimited(o.opts.MaxSubmissions)
	}

	cleaned := submission.Clean(text)
	if err := o.validator.Validate(cleaned); err != nil {
		return o.validationReply(err)
	}

	verdict := o.moderation.Classify(ctx, cleaned)
	if !verdict.Allowed {
		logger.Info("submission blocked", "source", verdict.Source, "reason", verdict.Reason)
		return o.composer.Rejected()
	}

	result := o.evaluation.Evaluate(ctx, cleaned)

	credential, alreadyIssued, err := o.ledger.TryIssue(ctx, hash, cleaned, result)
	if err != nil {
		logger.Error("issuance failed", "error", err)
		return o.composer.Generic()
	}
	if alreadyIssued {
		return o.composer.AlreadyIssued(credential)
	}

	return o.composer.Compose(ctx, result, credential)
}

func (o *Orchestrator) validationReply(err error) string {
	switch {
	case errors.Is(err, submission.ErrTooLong):
		return o.composer.TooLong(o.validator.MaxLength())
	case errors.Is(err, submission.ErrBlocked):
		return o.composer.Rejected()
	default:
		return o.composer.TooShort(o.validator.MinLength())
	}
}

// handleIssued serves post-issuance messages: repeat the credential, or
// honor the email secondary intent without ever mutating the credential.
func (o *Orchestrator) handleIssued(ctx context.Context, text string, credential credentials.Credential, logger *slog.Logger) string {
	if !containsAny(text, o.opts.EmailKeywords) {
		return o.composer.AlreadyIssued(credential)
	}

	address := submission.ExtractEmail(text)
	if address == "" {
		return o.composer.EmailHowTo()
	}

	if err := o.notifier.SendCredential(ctx, address, credential); err != nil {
		logger.Warn("credential email failed", "error", err)
		return o.composer.EmailFailed()
	}
	return o.composer.EmailSent(address)
}

func containsAny(text string, keywords []string) bool {
	lowered := strings.ToLower(text)
	for _, keyword := range keywords {
		if strings.Contains(lowered, keyword) {
			return true
		}
	}
	return false
}

// degradedIssue is the last-resort path after a panic: score the story at
// a neutral value and still try to issue through the normal ledger path.
func (o *Orchestrator) degradedIssue(ctx context.Context, hash, text string) string {
	cleaned := submission.Clean(text)
	if err := o.validator.Validate(cleaned); err != nil {
		return o.composer.Generic()
	}

	result := evaluation.Result{
		Score:       degradedScore,
		Explanation: "Scored at a neutral value after an internal failure.",
		Source:      evaluation.SourceFallback,
	}
	credential, alreadyIssued, err := o.ledger.TryIssue(ctx, hash, cleaned, result)
	if err != nil {
		return o.composer.Generic()
	}
	if alreadyIssued {
		return o.composer.AlreadyIssued(credential)
	}
	return o.composer.Compose(ctx, result, credential)
}
