// Package cron provides scheduled background jobs using robfig/cron.
package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/Karineprates/FinanceAI/internal/domain/insights"
	"github.com/Karineprates/FinanceAI/internal/domain/transaction"
	"github.com/Karineprates/FinanceAI/pkg/notify"
)

// Scheduler manages background scheduled jobs using robfig/cron.
type Scheduler struct {
	cron         *cron.Cron
	collection   *transaction.Collection
	orchestrator *insights.Orchestrator
	mailer       *notify.DigestMailer
	digestSpec   string
	logger       *slog.Logger
}

// NewScheduler creates a new job scheduler. digestSpec is a standard 5-field
// cron expression for the daily digest.
func NewScheduler(collection *transaction.Collection, orchestrator *insights.Orchestrator, mailer *notify.DigestMailer, digestSpec string, logger *slog.Logger) *Scheduler {
	c := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelDebug))))

	return &Scheduler{
		cron:         c,
		collection:   collection,
		orchestrator: orchestrator,
		mailer:       mailer,
		digestSpec:   digestSpec,
		logger:       logger,
	}
}

// Start begins scheduled jobs.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.digestSpec, s.sendDailyDigest)
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

// RunNow manually triggers the digest (for testing/admin).
func (s *Scheduler) RunNow() {
	go s.sendDailyDigest()
}

// sendDailyDigest computes the current insights and emails them.
func (s *Scheduler) sendDailyDigest() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	s.logger.Info("starting daily digest")

	result := s.orchestrator.GetInsights(ctx, s.collection.All(), time.Now())
	if err := s.mailer.SendDigest(result); err != nil {
		s.logger.Error("failed to send daily digest", slog.Any("error", err))
		return
	}

	s.logger.Info("daily digest finished",
		slog.String("source", string(result.Source)),
		slog.Int("insights", len(result.Items)),
	)
}
