package persist

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/intakeworks/storygate/internal/credentials"
	"github.com/intakeworks/storygate/internal/scoring"
)

type fakePrimary struct {
	inserted []credentials.Credential
	err      error
}

func (f *fakePrimary) Insert(ctx context.Context, c credentials.Credential) error {
	if f.err != nil {
		return f.err
	}
	f.inserted = append(f.inserted, c)
	return nil
}

type fakeBackup struct {
	keys []string
	err  error
}

func (f *fakeBackup) Upload(ctx context.Context, key string, reader io.Reader, contentType string) error {
	if f.err != nil {
		return f.err
	}
	f.keys = append(f.keys, key)
	return nil
}

func testCredential() credentials.Credential {
	return credentials.Credential{
		ID:           uuid.New(),
		IdentityHash: "ABCDEF12",
		Code:         "REWARD-CONF24-PREMIUM-ABCDEF-1405",
		Tier:         scoring.TierPremium,
		Score:        9,
		ScoreSource:  "AI",
		Submission:   "a story",
		IssuedAt:     time.Now(),
	}
}

func newPipeline(primary PrimaryStore, backup BackupStore) (*Pipeline, *Metrics) {
	metrics := NewMetrics(prometheus.NewRegistry())
	return New(primary, backup, metrics, time.Second, slog.Default()), metrics
}

func TestPersistWritesAllLegs(t *testing.T) {
	primary := &fakePrimary{}
	backup := &fakeBackup{}
	pipeline, metrics := newPipeline(primary, backup)

	if err := pipeline.Persist(context.Background(), testCredential()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(primary.inserted) != 1 {
		t.Errorf("got %d primary inserts, want 1", len(primary.inserted))
	}
	if len(backup.keys) != 1 || backup.keys[0] != "credentials/ABCDEF12.json" {
		t.Errorf("got backup keys %v", backup.keys)
	}
	if got := testutil.ToFloat64(metrics.issued.WithLabelValues("PREMIUM", "AI")); got != 1 {
		t.Errorf("got issued counter %v, want 1", got)
	}
}

func TestPersistPrimaryFailureSurfaces(t *testing.T) {
	primaryErr := errors.New("connection refused")
	primary := &fakePrimary{err: primaryErr}
	backup := &fakeBackup{}
	pipeline, metrics := newPipeline(primary, backup)

	err := pipeline.Persist(context.Background(), testCredential())
	if !errors.Is(err, primaryErr) {
		t.Fatalf("got %v, want primary error", err)
	}

	if len(backup.keys) != 0 {
		t.Error("backup written despite primary failure")
	}
	if got := testutil.ToFloat64(metrics.issued.WithLabelValues("PREMIUM", "AI")); got != 0 {
		t.Errorf("issued counter incremented on failure: %v", got)
	}
}

func TestPersistBackupFailureSwallowed(t *testing.T) {
	primary := &fakePrimary{}
	backup := &fakeBackup{err: errors.New("blob service unavailable")}
	pipeline, metrics := newPipeline(primary, backup)

	if err := pipeline.Persist(context.Background(), testCredential()); err != nil {
		t.Fatalf("backup failure surfaced: %v", err)
	}

	if len(primary.inserted) != 1 {
		t.Errorf("got %d primary inserts, want 1", len(primary.inserted))
	}
	if got := testutil.ToFloat64(metrics.backupFailures); got != 1 {
		t.Errorf("got backup failure counter %v, want 1", got)
	}
}

func TestPersistNilBackupSkipped(t *testing.T) {
	primary := &fakePrimary{}
	pipeline, _ := newPipeline(primary, nil)

	if err := pipeline.Persist(context.Background(), testCredential()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
