// Package persist writes issued credentials to the primary store and
// fans out advisory copies to backup storage and metrics. Only the
// primary write can fail the pipeline.
package persist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/intakeworks/storygate/internal/credentials"
)

// PrimaryStore is the required persistence target.
type PrimaryStore interface {
	Insert(ctx context.Context, c credentials.Credential) error
}

// BackupStore is the advisory blob target.
type BackupStore interface {
	Upload(ctx context.Context, key string, reader io.Reader, contentType string) error
}

// Pipeline persists credentials across the primary store and the
// advisory legs.
type Pipeline struct {
	primary       PrimaryStore
	backup        BackupStore
	metrics       *Metrics
	backupTimeout time.Duration
	logger        *slog.Logger
}

// New creates a Pipeline. backup may be nil when no backup store is
// configured.
func New(primary PrimaryStore, backup BackupStore, metrics *Metrics, backupTimeout time.Duration, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		primary:       primary,
		backup:        backup,
		metrics:       metrics,
		backupTimeout: backupTimeout,
		logger:        logger.With("system", "persist"),
	}
}

// Persist writes the credential. The primary insert is required and its
// error is returned unchanged; the backup blob and metrics legs are
// best-effort, bounded, and swallowed.
func (p *Pipeline) Persist(ctx context.Context, c credentials.Credential) error {
	if err := p.primary.Insert(ctx, c); err != nil {
		return fmt.Errorf("primary store: %w", err)
	}

	p.metrics.RecordIssued(string(c.Tier), c.ScoreSource)
	p.writeAdvisory(ctx, c)
	return nil
}

func (p *Pipeline) writeAdvisory(ctx context.Context, c credentials.Credential) {
	if p.backup == nil {
		return
	}

	bounded, cancel := context.WithTimeout(ctx, p.backupTimeout)
	defer cancel()

	g, gctx := errgroup.WithContext(bounded)
	g.Go(func() error {
		payload, err := json.Marshal(c)
		if err != nil {
			return fmt.Errorf("encode backup record: %w", err)
		}
		key := fmt.Sprintf("credentials/%s.json", c.IdentityHash)
		return p.backup.Upload(gctx, key, bytes.NewReader(payload), "application/json")
	})

	if err := g.Wait(); err != nil {
		p.metrics.RecordBackupFailure()
		p.logger.Warn("advisory backup failed", "identity", c.IdentityHash, "error", err)
	}
}
