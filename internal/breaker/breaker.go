// Package breaker provides a failure-counting circuit breaker for remote
// AI capability calls.
package breaker

import (
	"log/slog"
	"sync/atomic"
)

// Breaker counts consecutive-ish failures for one remote capability and
// reports whether calls should be skipped. Successes decay the counter by
// one rather than resetting it, so a flaky upstream reopens gradually.
type Breaker struct {
	name      string
	threshold int64
	failures  atomic.Int64
	logger    *slog.Logger
}

// New creates a Breaker that opens once failures reach threshold.
func New(name string, threshold int, logger *slog.Logger) *Breaker {
	return &Breaker{
		name:      name,
		threshold: int64(threshold),
		logger:    logger.With("breaker", name),
	}
}

// Allow reports whether a remote call should be attempted.
func (b *Breaker) Allow() bool {
	open := b.failures.Load() >= b.threshold
	if open {
		b.logger.Warn("circuit open, skipping remote call", "failures", b.failures.Load())
	}
	return !open
}

// RecordSuccess decays the failure count by one, floored at zero.
func (b *Breaker) RecordSuccess() {
	for {
		current := b.failures.Load()
		if current == 0 {
			return
		}
		if b.failures.CompareAndSwap(current, current-1) {
			return
		}
	}
}

// RecordFailure increments the failure count, saturating at the
// threshold so a burst of in-flight calls can't dig a hole that takes
// more than threshold successes to climb out of. Logs when the circuit
// opens.
func (b *Breaker) RecordFailure() {
	for {
		current := b.failures.Load()
		if current >= b.threshold {
			return
		}
		if b.failures.CompareAndSwap(current, current+1) {
			if current+1 == b.threshold {
				b.logger.Warn("circuit opened", "failures", current+1)
			}
			return
		}
	}
}

// Failures returns the current failure count.
func (b *Breaker) Failures() int {
	return int(b.failures.Load())
}

// Name returns the capability name the breaker guards.
func (b *Breaker) Name() string {
	return b.name
}
