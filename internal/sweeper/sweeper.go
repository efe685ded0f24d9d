// Package sweeper removes uploaded files that no document refers to.
package sweeper

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/robfig/cron/v3"

	"github.com/erazemk/armazem/internal/files"
	"github.com/erazemk/armazem/internal/metrics"
	"github.com/erazemk/armazem/internal/store"
)

// Sweeper finds orphaned upload files: files left behind when an upload's
// metadata insert or a document delete failed halfway.
type Sweeper struct {
	DB    *sqlx.DB
	Files *files.Dir
	// Grace protects files younger than this, which may belong to an
	// upload whose metadata is still being written.
	Grace time.Duration
	Now   func() time.Time

	cron *cron.Cron
}

// New returns a Sweeper over the given store and upload directory.
func New(db *sqlx.DB, dir *files.Dir, grace time.Duration) *Sweeper {
	return &Sweeper{DB: db, Files: dir, Grace: grace, Now: time.Now}
}

// Sweep removes orphaned files older than the grace period and returns
// their names.
func (s *Sweeper) Sweep(ctx context.Context) ([]string, error) {
	known, err := store.DocumentFilenames(ctx, s.DB)
	if err != nil {
		return nil, err
	}
	entries, err := s.Files.List()
	if err != nil {
		return nil, err
	}

	cutoff := s.Now().Add(-s.Grace)
	var removed []string
	for _, e := range entries {
		if known[e.Name] || e.ModTime.After(cutoff) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		if err := s.Files.Remove(e.Name); err != nil {
			slog.Error("failed to remove orphaned upload", "file", e.Name, "error", err)
			continue
		}
		slog.Info("orphaned upload removed", "file", e.Name)
		removed = append(removed, e.Name)
	}

	metrics.RecordSwept(len(removed))
	return removed, nil
}

// Start runs Sweep on the given cron schedule until Stop is called.
func (s *Sweeper) Start(schedule string) error {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		if _, err := s.Sweep(context.Background()); err != nil {
			slog.Error("upload sweep failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("parsing sweep schedule %q: %w", schedule, err)
	}

	s.cron = c
	c.Start()
	return nil
}

// Stop stops the schedule and waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
}
