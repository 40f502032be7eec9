package evaluation

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

func TestEvaluateRemoteSuccess(t *testing.T) {
	client := &fakeClient{reply: `{"score": 9, "explanation": "vivid and funny"}`}
	b := breaker.New("evaluation", 3, slog.Default())

	result := newSystem(client, b, true).Evaluate(context.Background(), "a story")

	if result.Source != SourceAI {
		t.Errorf("got source %s, want AI", result.Source)
	}
	if result.Score != 9 {
		t.Errorf("got score %d, want 9", result.Score)
	}
	if result.Explanation != "vivid and funny" {
		t.Errorf("got explanation %q", result.Explanation)
	}
}

func TestEvaluateDisabledUsesFallback(t *testing.T) {
	client := &fakeClient{reply: `{"score": 9, "explanation": "x"}`}
	b := breaker.New("evaluation", 3, slog.Default())

	result := newSystem(client, b, false).Evaluate(context.Background(), "hello there")

	if result.Source != SourceFallback {
		t.Errorf("got source %s, want FALLBACK", result.Source)
	}
	if client.calls != 0 {
		t.Errorf("remote called %d times while disabled", client.calls)
	}
}

func TestEvaluateOpenBreakerSkipsRemote(t *testing.T) {
	client := &fakeClient{reply: `{"score": 9, "explanation": "x"}`}
	b := breaker.New("evaluation", 3, slog.Default())
	for i := 0; i < 3; i++ {
		b.RecordFailure()
	}

	result := newSystem(client, b, true).Evaluate(context.Background(), "hello there")

	if result.Source != SourceFallback {
		t.Errorf("got source %s, want FALLBACK", result.Source)
	}
	if client.calls != 0 {
		t.Errorf("remote called %d times with open circuit", client.calls)
	}
}

func TestEvaluateRemoteFailureFallsBack(t *testing.T) {
	client := &fakeClient{err: errors.New("timeout")}
	b := breaker.New("evaluation", 3, slog.Default())

	result := newSystem(client, b, true).Evaluate(context.Background(), "hello there")

	if result.Source != SourceFallback {
		t.Errorf("got source %s, want FALLBACK", result.Source)
	}
	if b.Failures() != 1 {
		t.Errorf("got %d breaker failures, want 1", b.Failures())
	}
	// both retry attempts hit the remote before falling back
	if client.calls != 2 {
		t.Errorf("got %d remote calls, want 2", client.calls)
	}
}

func TestEvaluateMalformedOutputCountsAsFailure(t *testing.T) {
	client := &fakeClient{reply: "a lovely story, maybe an 8?"}
	b := breaker.New("evaluation", 3, slog.Default())

	result := newSystem(client, b, true).Evaluate(context.Background(), "hello there")

	if result.Source != SourceFallback {
		t.Errorf("got source %s, want FALLBACK", result.Source)
	}
	if b.Failures() != 1 {
		t.Errorf("got %d breaker failures, want 1", b.Failures())
	}
}

func TestEvaluateOutOfRangeScoreRejected(t *testing.T) {
	client := &fakeClient{reply: `{"score": 42, "explanation": "x"}`}
	b := breaker.New("evaluation", 3, slog.Default())

	result := newSystem(client, b, true).Evaluate(context.Background(), "hello there")

	if result.Source != SourceFallback {
		t.Errorf("got source %s, want FALLBACK", result.Source)
	}
}

func TestEvaluateSuccessDecaysBreaker(t *testing.T) {
	client := &fakeClient{reply: `{"score": 7, "explanation": "x"}`}
	b := breaker.New("evaluation", 3, slog.Default())
	b.RecordFailure()
	b.RecordFailure()

	newSystem(client, b, true).Evaluate(context.Background(), "a story")

	if b.Failures() != 1 {
		t.Errorf("got %d breaker failures, want 1", b.Failures())
	}
}

func TestConsecutiveTimeoutsOpenCircuit(t *testing.T) {
	client := &fakeClient{err: errors.New("timeout")}
	b := breaker.New("evaluation", 3, slog.Default())
	sys := newSystem(client, b, true)

	for i := 0; i < 3; i++ {
		sys.Evaluate(context.Background(), "hello there")
	}
	callsBefore := client.calls

	result := sys.Evaluate(context.Background(), "hello there")

	if result.Source != SourceFallback {
		t.Errorf("got source %s, want FALLBACK", result.Source)
	}
	if client.calls != callsBefore {
		t.Error("remote called after circuit opened")
	}
}
