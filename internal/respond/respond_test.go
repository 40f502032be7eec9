package respond

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/intakeworks/storygate/internal/breaker"
	"github.com/intakeworks/storygate/internal/credentials"
	"github.com/intakeworks/storygate/internal/evaluation"
	"github.com/intakeworks/storygate/internal/llm"
	"github.com/intakeworks/storygate/internal/scoring"
)

type fakeClient struct {
	calls int
	reply string
	err   error
}

func (f *fakeClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

var testCredential = credentials.Credential{
	Code: "REWARD-CONF24-PREMIUM-ABCDEF-1405",
	Tier: scoring.TierPremium,
}

var testResult = evaluation.Result{Score: 9, Source: evaluation.SourceAI}

func newComposer(client llm.Client, b *breaker.Breaker, enabled bool) *Composer {
	caller := llm.NewCaller(client, 2, time.Millisecond, time.Second, slog.Default())
	return New(caller, b, enabled, "CONF24", slog.Default())
}

func TestComposeGeneratedReply(t *testing.T) {
	client := &fakeClient{reply: "Amazing story! Your code REWARD-CONF24-PREMIUM-ABCDEF-1405 gets you a large pizza."}
	b := breaker.New("generation", 3, slog.Default())

	reply := newComposer(client, b, true).Compose(context.Background(), testResult, testCredential)

	if reply != client.reply {
		t.Errorf("generated reply not used: %q", reply)
	}
}

func TestComposeFallbackContainsCode(t *testing.T) {
	client := &fakeClient{err: errors.New("timeout")}
	b := breaker.New("generation", 3, slog.Default())

	reply := newComposer(client, b, true).Compose(context.Background(), testResult, testCredential)

	if !strings.Contains(reply, testCredential.Code) {
		t.Errorf("fallback reply missing code: %q", reply)
	}
	if !strings.Contains(reply, scoring.Description(testCredential.Tier)) {
		t.Errorf("fallback reply missing tier description: %q", reply)
	}
}

func TestComposeRejectsReplyWithoutCode(t *testing.T) {
	client := &fakeClient{reply: "Great story, enjoy your pizza!"}
	b := breaker.New("generation", 3, slog.Default())

	reply := newComposer(client, b, true).Compose(context.Background(), testResult, testCredential)

	if !strings.Contains(reply, testCredential.Code) {
		t.Errorf("reply missing code: %q", reply)
	}
	if b.Failures() != 1 {
		t.Errorf("got %d breaker failures, want 1", b.Failures())
	}
}

func TestComposeDisabledSkipsRemote(t *testing.T) {
	client := &fakeClient{reply: "whatever"}
	b := breaker.New("generation", 3, slog.Default())

	reply := newComposer(client, b, false).Compose(context.Background(), testResult, testCredential)

	if client.calls != 0 {
		t.Errorf("remote called %d times while disabled", client.calls)
	}
	if !strings.Contains(reply, testCredential.Code) {
		t.Errorf("template reply missing code: %q", reply)
	}
}

func TestComposeOpenBreakerSkipsRemote(t *testing.T) {
	client := &fakeClient{reply: "whatever"}
	b := breaker.New("generation", 3, slog.Default())
	for i := 0; i < 3; i++ {
		b.RecordFailure()
	}

	newComposer(client, b, true).Compose(context.Background(), testResult, testCredential)

	if client.calls != 0 {
		t.Errorf("remote called %d times with open circuit", client.calls)
	}
}

func TestStaticReplies(t *testing.T) {
	c := newComposer(&fakeClient{}, breaker.New("generation", 3, slog.Default()), false)

	if !strings.Contains(c.AlreadyIssued(testCredential), testCredential.Code) {
		t.Error("AlreadyIssued missing code")
	}
	if !strings.Contains(c.Welcome(), "CONF24") {
		t.Error("Welcome missing event name")
	}
	if !strings.Contains(c.RateLimited(3), "3") {
		t.Error("RateLimited missing attempt count")
	}
	if !strings.Contains(c.TooShort(10), "10") {
		t.Error("TooShort missing minimum")
	}
	if !strings.Contains(c.EmailSent("a@b.com"), "a@b.com") {
		t.Error("EmailSent missing address")
	}
}
