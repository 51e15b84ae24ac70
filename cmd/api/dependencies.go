package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/FACorreiaa/mpesa-statement-api/internal/domain/classifier"
	"github.com/FACorreiaa/mpesa-statement-api/internal/domain/extractor"
	"github.com/FACorreiaa/mpesa-statement-api/internal/domain/jobs"
	"github.com/FACorreiaa/mpesa-statement-api/internal/domain/pdfdoc"
	statementhandler "github.com/FACorreiaa/mpesa-statement-api/internal/domain/statement/handler"
	statementservice "github.com/FACorreiaa/mpesa-statement-api/internal/domain/statement/service"
	"github.com/FACorreiaa/mpesa-statement-api/pkg/config"
	"github.com/FACorreiaa/mpesa-statement-api/pkg/cron"
	"github.com/FACorreiaa/mpesa-statement-api/pkg/storage"
)

// Dependencies holds all application dependencies
type Dependencies struct {
	Config *config.Config
	Logger *slog.Logger

	// Services
	FileStorage      storage.Storage
	DocumentReader   *pdfdoc.Reader
	ExtractorClient  *extractor.Client
	ClassifierEngine *classifier.Engine
	StatementService *statementservice.Service
	JobStore         *jobs.Store
	Scheduler        *cron.Scheduler

	// Handlers
	StatementHandler *statementhandler.StatementHandler
}

// InitDependencies initializes all application dependencies
func InitDependencies(cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if err := deps.initServices(); err != nil {
		return nil, fmt.Errorf("failed to init services: %w", err)
	}

	if err := deps.initHandlers(); err != nil {
		return nil, fmt.Errorf("failed to init handlers: %w", err)
	}

	logger.Info("all dependencies initialized successfully")

	return deps, nil
}

// initServices initializes all service layer dependencies
func (d *Dependencies) initServices() error {
	fileStorage, err := storage.New(&storage.Config{LocalPath: d.Config.Storage.LocalPath})
	if err != nil {
		return fmt.Errorf("failed to init file storage: %w", err)
	}
	d.FileStorage = fileStorage

	d.DocumentReader = pdfdoc.NewReader(pdfdoc.IssuerSignature{
		Creator: d.Config.Issuer.Creator,
		Subject: d.Config.Issuer.Subject,
	})

	d.ExtractorClient = extractor.NewClient(extractor.Config{
		BaseURL:    d.Config.Extractor.BaseURL,
		Timeout:    d.Config.Extractor.Timeout,
		MaxRetries: uint64(d.Config.Extractor.MaxRetries),
	}, d.Logger)

	rules := classifier.DefaultRules()
	if path := d.Config.Classifier.RulesPath; path != "" {
		rules, err = classifier.LoadRules(path)
		if err != nil {
			return fmt.Errorf("failed to load classifier rules: %w", err)
		}
		d.Logger.Info("classifier rules loaded", slog.String("path", path), slog.Int("rules", len(rules)))
	}
	d.ClassifierEngine = classifier.NewEngine(rules)

	d.StatementService = statementservice.NewService(
		newDocumentAdapter(d.DocumentReader),
		d.ExtractorClient,
		d.ClassifierEngine,
		d.Logger,
	)

	d.JobStore = jobs.NewStore(d.StatementService, d.Config.Jobs.Workers, d.Config.Jobs.QueueDepth, d.Logger)

	d.Scheduler = cron.NewScheduler(d.FileStorage, d.Config.Storage.UploadTTL, d.Logger)

	d.Logger.Info("services initialized")
	return nil
}

// initHandlers initializes all handler dependencies
func (d *Dependencies) initHandlers() error {
	d.StatementHandler = statementhandler.NewStatementHandler(d.JobStore, d.FileStorage, d.Logger)

	d.Logger.Info("handlers initialized")
	return nil
}

// Cleanup closes all resources
func (d *Dependencies) Cleanup() {
	if d.Scheduler != nil {
		stopCtx := d.Scheduler.Stop()
		select {
		case <-stopCtx.Done():
		case <-time.After(5 * time.Second):
		}
	}
	d.Logger.Info("cleanup completed")
}
