package llm

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"
)

type scriptedClient struct {
	calls   int
	results []error
	reply   string
}

func (s *scriptedClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	err := s.results[s.calls]
	s.calls++
	if err != nil {
		return "", err
	}
	return s.reply, nil
}

func TestCallerSucceedsFirstAttempt(t *testing.T) {
	client := &scriptedClient{results: []error{nil}, reply: "ok"}
	caller := NewCaller(client, 3, time.Millisecond, time.Second, slog.Default())

	got, err := caller.Complete(context.Background(), "sys", "user")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "ok" {
		t.Errorf("got %q", got)
	}
	if client.calls != 1 {
		t.Errorf("got %d calls, want 1", client.calls)
	}
}

func TestCallerRetriesThenSucceeds(t *testing.T) {
	failure := errors.New("upstream error")
	client := &scriptedClient{results: []error{failure, nil}, reply: "ok"}
	caller := NewCaller(client, 3, time.Millisecond, time.Second, slog.Default())

	got, err := caller.Complete(context.Background(), "sys", "user")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "ok" {
		t.Errorf("got %q", got)
	}
	if client.calls != 2 {
		t.Errorf("got %d calls, want 2", client.calls)
	}
}

func TestCallerExhaustsAttempts(t *testing.T) {
	failure := errors.New("upstream error")
	client := &scriptedClient{results: []error{failure, failure, failure}}
	caller := NewCaller(client, 3, time.Millisecond, time.Second, slog.Default())

	_, err := caller.Complete(context.Background(), "sys", "user")
	if err == nil {
		t.Fatal("expected error after exhausting attempts")
	}
	if !errors.Is(err, failure) {
		t.Errorf("last error not wrapped: %v", err)
	}
	if client.calls != 3 {
		t.Errorf("got %d calls, want 3", client.calls)
	}
}

func TestCallerStopsOnCancelledContext(t *testing.T) {
	failure := errors.New("upstream error")
	client := &scriptedClient{results: []error{failure, failure}}
	caller := NewCaller(client, 2, time.Minute, time.Second, slog.Default())

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := caller.Complete(ctx, "sys", "user")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
	if client.calls != 1 {
		t.Errorf("got %d calls, want 1", client.calls)
	}
}
