// Package respond composes user-facing replies. Issuance replies may be
// personalized through the remote generation capability; every other
// path, and every failure, uses the static templates. Composition never
// fails and an issuance reply always carries the credential code.
package respond

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/intakeworks/storygate/internal/breaker"
	"github.com/intakeworks/storygate/internal/credentials"
	"github.com/intakeworks/storygate/internal/evaluation"
	"github.com/intakeworks/storygate/internal/llm"
	"github.com/intakeworks/storygate/internal/scoring"
)

// Composer builds replies for the session orchestrator.
type Composer struct {
	caller    *llm.Caller
	breaker   *breaker.Breaker
	enabled   bool
	eventName string
	logger    *slog.Logger
}

// New creates a Composer with its own generation breaker.
func New(caller *llm.Caller, b *breaker.Breaker, enabled bool, eventName string, logger *slog.Logger) *Composer {
	return &Composer{
		caller:    caller,
		breaker:   b,
		enabled:   enabled,
		eventName: eventName,
		logger:    logger.With("system", "respond"),
	}
}

const generationPrompt = `You are the voice of a conference reward bot. Write a short, warm reply (3-4 sentences) that thanks the attendee for their story, reflects its score, presents the reward code exactly as given, and tells them to show it at the %s food booth. The code must appear verbatim in the reply.`

// Compose builds the issuance reply. The generated variant is used only
// when it echoes the credential code; otherwise the template stands in.
func (c *Composer) Compose(ctx context.Context, result evaluation.Result, credential credentials.Credential) string {
	if !c.enabled {
		return c.template(result, credential)
	}
	if !c.breaker.Allow() {
		return c.template(result, credential)
	}

	user := fmt.Sprintf("Score: %d/10. Reward code: %s. Reward: %s.",
		result.Score, credential.Code, scoring.Description(credential.Tier))

	reply, err := c.caller.Complete(ctx, fmt.Sprintf(generationPrompt, c.eventName), user)
	if err != nil {
		c.breaker.RecordFailure()
		return c.template(result, credential)
	}
	if !strings.Contains(reply, credential.Code) {
		c.breaker.RecordFailure()
		c.logger.Warn("generated reply dropped credential code")
		return c.template(result, credential)
	}

	c.breaker.RecordSuccess()
	return reply
}

func (c *Composer) template(result evaluation.Result, credential credentials.Credential) string {
	return fmt.Sprintf(
		"Thanks for sharing your story! It scored %d/10.\n\nYour reward code: %s\n%s\n\nShow this code at the %s food booth to claim it.",
		result.Score, credential.Code, scoring.Description(credential.Tier), c.eventName)
}

// Greeting answers a first contact that didn't ask for a reward; the
// identity stays where it is until it does.
func (c *Composer) Greeting() string {
	return fmt.Sprintf(
		"Hi there! I hand out %s story rewards. Say 'I want pizza' to get started.",
		c.eventName)
}

// Welcome greets a new identity and asks for their story.
func (c *Composer) Welcome() string {
	return fmt.Sprintf(
		"Welcome to the %s story rewards! Share one short story about your best pizza moment and earn a reward. The better the story, the bigger the reward.",
		c.eventName)
}

// AlreadyIssued repeats the identity's existing credential verbatim.
func (c *Composer) AlreadyIssued(credential credentials.Credential) string {
	return fmt.Sprintf(
		"You already have your reward! Your code is %s (%s). One reward per attendee.",
		credential.Code, scoring.Description(credential.Tier))
}

// RateLimited tells the identity they are out of attempts.
func (c *Composer) RateLimited(max int) string {
	return fmt.Sprintf("You've used all %d submission attempts. Come by the booth if something went wrong.", max)
}

// TooShort asks for a longer submission.
func (c *Composer) TooShort(min int) string {
	return fmt.Sprintf("That's a bit short. Tell us a little more, at least %d characters.", min)
}

// TooLong asks for a shorter submission.
func (c *Composer) TooLong(max int) string {
	return fmt.Sprintf("That's quite a saga! Keep it under %d characters, please.", max)
}

// Rejected declines a submission without detail.
func (c *Composer) Rejected() string {
	return "We couldn't accept that submission. Try sharing a genuine story about your pizza experience."
}

// EmailSent confirms the credential email dispatch.
func (c *Composer) EmailSent(address string) string {
	return fmt.Sprintf("Done! Your reward code is on its way to %s.", address)
}

// EmailFailed reports a failed email dispatch without losing the credential.
func (c *Composer) EmailFailed() string {
	return "We couldn't send the email just now, but your reward code above is still valid."
}

// EmailHowTo explains the email secondary intent.
func (c *Composer) EmailHowTo() string {
	return "To get your code by email, send a message like: email me at you@example.com"
}

// Generic is the safe reply for unexpected internal failures.
func (c *Composer) Generic() string {
	return "Something went wrong on our side. Please try again in a moment."
}
