// Package cron provides scheduled background jobs using robfig/cron.
package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/FACorreiaa/mpesa-statement-api/pkg/storage"
)

// Scheduler manages background scheduled jobs using robfig/cron.
type Scheduler struct {
	cron      *cron.Cron
	files     storage.Storage
	uploadTTL time.Duration
	logger    *slog.Logger
}

// NewScheduler creates a new job scheduler.
func NewScheduler(files storage.Storage, uploadTTL time.Duration, logger *slog.Logger) *Scheduler {
	// Create cron with seconds disabled (standard 5-field format)
	c := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelDebug))))

	return &Scheduler{
		cron:      c,
		files:     files,
		uploadTTL: uploadTTL,
		logger:    logger,
	}
}

// Start begins scheduled jobs.
func (s *Scheduler) Start() error {
	// Upload cleanup: hourly. Statement PDFs contain account history and must
	// not linger on disk after their job has been polled.
	_, err := s.cron.AddFunc("0 * * * *", s.cleanupExpiredUploads)
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("cron scheduler started",
		slog.Int("jobs", len(s.cron.Entries())),
	)
	return nil
}

// Stop gracefully stops all scheduled jobs.
func (s *Scheduler) Stop() context.Context {
	s.logger.Info("cron scheduler stopping")
	return s.cron.Stop()
}

// RunNow manually triggers the upload cleanup (for testing/admin).
func (s *Scheduler) RunNow() {
	go s.cleanupExpiredUploads()
}

// cleanupExpiredUploads deletes stored statements older than the upload TTL.
func (s *Scheduler) cleanupExpiredUploads() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	s.logger.Info("starting upload cleanup", slog.Duration("ttl", s.uploadTTL))

	files, err := s.files.List(ctx)
	if err != nil {
		s.logger.Error("failed to list stored uploads", slog.Any("error", err))
		return
	}

	cutoff := time.Now().Add(-s.uploadTTL)
	removed := 0
	failed := 0

	for _, info := range files {
		if info.CreatedAt.After(cutoff) {
			continue
		}

		if err := s.files.Delete(ctx, info.ID); err != nil {
			s.logger.Warn("failed to delete expired upload",
				slog.String("file_id", info.ID.String()),
				slog.Any("error", err),
			)
			failed++
			continue
		}

		s.logger.Debug("deleted expired upload",
			slog.String("file_id", info.ID.String()),
			slog.Time("created_at", info.CreatedAt),
		)
		removed++
	}

	s.logger.Info("upload cleanup completed",
		slog.Int("removed", removed),
		slog.Int("failed", failed),
	)
}
