package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	importhandler "github.com/Karineprates/FinanceAI/internal/domain/import/handler"
	importservice "github.com/Karineprates/FinanceAI/internal/domain/import/service"
	"github.com/Karineprates/FinanceAI/internal/domain/insights"
	insightshandler "github.com/Karineprates/FinanceAI/internal/domain/insights/handler"
	"github.com/Karineprates/FinanceAI/internal/domain/search"
	"github.com/Karineprates/FinanceAI/internal/domain/transaction"
	transactionhandler "github.com/Karineprates/FinanceAI/internal/domain/transaction/handler"
	"github.com/Karineprates/FinanceAI/internal/store/postgres"
	"github.com/Karineprates/FinanceAI/pkg/config"
	"github.com/Karineprates/FinanceAI/pkg/cron"
	"github.com/Karineprates/FinanceAI/pkg/db"
	"github.com/Karineprates/FinanceAI/pkg/metrics"
	"github.com/Karineprates/FinanceAI/pkg/notify"
)

// Dependencies holds all application dependencies
type Dependencies struct {
	Config *config.Config
	DB     *db.DB
	Logger *slog.Logger

	Collection  *transaction.Collection
	SearchIndex *search.Index

	ImportService *importservice.ImportService
	Orchestrator  *insights.Orchestrator
	Mailer        *notify.DigestMailer
	Scheduler     *cron.Scheduler
	Metrics       *metrics.Metrics

	TransactionHandler *transactionhandler.TransactionHandler
	ImportHandler      *importhandler.ImportHandler
	InsightsHandler    *insightshandler.InsightsHandler
}

// InitDependencies initializes all application dependencies
func InitDependencies(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if err := deps.initDatabase(); err != nil {
		return nil, fmt.Errorf("failed to init database: %w", err)
	}

	if err := deps.initServices(ctx); err != nil {
		return nil, fmt.Errorf("failed to init services: %w", err)
	}

	if err := deps.initHandlers(); err != nil {
		return nil, fmt.Errorf("failed to init handlers: %w", err)
	}

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// initDatabase initializes the database connection and runs migrations
func (d *Dependencies) initDatabase() error {
	database, err := db.New(db.Config{
		DSN:             d.Config.Database.DSN(),
		MaxConns:        25,
		MinConns:        5,
		MaxConnLifetime: 5 * time.Minute,
		MaxConnIdleTime: 10 * time.Minute,
	}, d.Logger)
	if err != nil {
		return err
	}
	d.DB = database

	if err := d.DB.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	d.Logger.Info("database connected and migrations completed successfully")
	return nil
}

// initServices initializes the collection, search index and domain services
func (d *Dependencies) initServices(ctx context.Context) error {
	repo := postgres.NewRepository(d.DB.Pool, d.Logger)
	collection, err := transaction.Load(ctx, repo, d.Logger)
	if err != nil {
		return fmt.Errorf("failed to load transactions: %w", err)
	}
	d.Collection = collection

	index, err := search.NewIndex()
	if err != nil {
		return fmt.Errorf("failed to init search index: %w", err)
	}
	if err := index.Reindex(collection.All()); err != nil {
		return fmt.Errorf("failed to build search index: %w", err)
	}
	d.SearchIndex = index

	d.ImportService = importservice.NewImportService(collection, index, d.Logger)

	var remote insights.RemoteSource
	if d.Config.Gemini.APIKey != "" {
		remote = insights.NewGeminiSource(d.Config.Gemini.APIKey, d.Config.Gemini.Model)
		d.Logger.Info("remote insight source enabled", slog.String("model", d.Config.Gemini.Model))
	} else {
		d.Logger.Info("remote insight source disabled, using local rules")
	}
	d.Orchestrator = insights.NewOrchestrator(remote, d.Logger)

	var sender notify.Sender
	if d.Config.Email.APIKey != "" {
		sender = notify.NewResendSender(d.Config.Email.APIKey)
	}
	d.Mailer = notify.NewDigestMailer(sender, d.Config.Email.From, d.Config.Email.To, d.Logger)
	d.Scheduler = cron.NewScheduler(collection, d.Orchestrator, d.Mailer, d.Config.Email.DigestCron, d.Logger)

	d.Metrics = metrics.New()

	d.Logger.Info("services initialized")
	return nil
}

// initHandlers initializes all handler dependencies
func (d *Dependencies) initHandlers() error {
	d.TransactionHandler = transactionhandler.NewTransactionHandler(d.Collection, d.SearchIndex, d.Logger)
	d.ImportHandler = importhandler.NewImportHandler(d.ImportService, d.Metrics, d.Logger)
	d.InsightsHandler = insightshandler.NewInsightsHandler(d.Orchestrator, d.Collection, d.Metrics, d.Logger)

	d.Logger.Info("handlers initialized")
	return nil
}

// Cleanup closes all resources
func (d *Dependencies) Cleanup() {
	if d.Scheduler != nil {
		<-d.Scheduler.Stop().Done()
	}
	if d.SearchIndex != nil {
		_ = d.SearchIndex.Close()
	}
	if d.DB != nil {
		d.DB.Close()
	}
	d.Logger.Info("cleanup completed")
}
