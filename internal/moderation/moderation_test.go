package moderation

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/intakeworks/storygate/internal/breaker"
	"github.com/intakeworks/storygate/internal/llm"
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

func newSystem(client llm.Client, b *breaker.Breaker, enabled bool) System {
	caller := llm.NewCaller(client, 2, time.Millisecond, time.Second, slog.Default())
	return New(caller, b, enabled, slog.Default())
}

func TestClassifyRemoteVerdict(t *testing.T) {
	t.Run("allows", func(t *testing.T) {
		client := &fakeClient{reply: `{"appropriate": true, "reason": "harmless story"}`}
		b := breaker.New("moderation", 3, slog.Default())

		verdict := newSystem(client, b, true).Classify(context.Background(), "a pizza story")

		if !verdict.Allowed || verdict.Source != SourceAI {
			t.Errorf("got allowed=%v source=%s", verdict.Allowed, verdict.Source)
		}
	})

	t.Run("blocks", func(t *testing.T) {
		client := &fakeClient{reply: `{"appropriate": false, "reason": "abusive"}`}
		b := breaker.New("moderation", 3, slog.Default())

		verdict := newSystem(client, b, true).Classify(context.Background(), "something abusive")

		if verdict.Allowed {
			t.Error("expected blocked verdict")
		}
		if verdict.Reason != "abusive" {
			t.Errorf("got reason %q", verdict.Reason)
		}
	})
}

func TestClassifyFallbackBlocklist(t *testing.T) {
	client := &fakeClient{err: errors.New("timeout")}
	b := breaker.New("moderation", 3, slog.Default())
	sys := newSystem(client, b, true)

	t.Run("blocks listed fragments", func(t *testing.T) {
		verdict := sys.Classify(context.Background(), "pure SPAM message")
		if verdict.Allowed {
			t.Error("blocklisted text allowed")
		}
		if verdict.Source != SourceFallback {
			t.Errorf("got source %s", verdict.Source)
		}
	})

	t.Run("permissive otherwise", func(t *testing.T) {
		verdict := sys.Classify(context.Background(), "a genuine pizza story")
		if !verdict.Allowed {
			t.Error("clean text blocked by fallback")
		}
	})
}

func TestClassifyDisabledSkipsRemote(t *testing.T) {
	client := &fakeClient{reply: `{"appropriate": true}`}
	b := breaker.New("moderation", 3, slog.Default())

	verdict := newSystem(client, b, false).Classify(context.Background(), "a story")

	if verdict.Source != SourceFallback {
		t.Errorf("got source %s, want FALLBACK", verdict.Source)
	}
	if client.calls != 0 {
		t.Errorf("remote called %d times while disabled", client.calls)
	}
}

func TestClassifyMalformedOutputFallsBack(t *testing.T) {
	client := &fakeClient{reply: "sure, looks fine to me"}
	b := breaker.New("moderation", 3, slog.Default())

	verdict := newSystem(client, b, true).Classify(context.Background(), "a story")

	if verdict.Source != SourceFallback {
		t.Errorf("got source %s, want FALLBACK", verdict.Source)
	}
	if !verdict.Allowed {
		t.Error("fallback should be permissive for clean text")
	}
	if b.Failures() != 1 {
		t.Errorf("got %d breaker failures, want 1", b.Failures())
	}
}
