package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"PeriodicalScanner/internal/config"
	"PeriodicalScanner/internal/fetch"
	"PeriodicalScanner/internal/infrastructure/jsonstore"
	"PeriodicalScanner/internal/infrastructure/parser"
	"PeriodicalScanner/internal/infrastructure/storage"
	"PeriodicalScanner/internal/logging"
	"PeriodicalScanner/internal/ports"
	"PeriodicalScanner/internal/scanner"
	"PeriodicalScanner/internal/seed"
	"PeriodicalScanner/internal/usecase"
	"PeriodicalScanner/pkg/logger"
)

// Application wires configs to use cases.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	registry *scanner.Registry
	pipeline *usecase.Pipeline
	results  *jsonstore.Store
}

// New builds the scanners for every configured journal. Each Application
// tags its log lines with a fresh run_id.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}
	baseLogger = baseLogger.With("run_id", uuid.NewString())

	registry, err := parser.NewRegistry(cfg.Journals, fetcherFactory(cfg, baseLogger), logger.For(baseLogger, "scanner"))
	if err != nil {
		return nil, err
	}

	results := jsonstore.New(cfg.Output.Dir)
	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Registry:    registry,
		Writer:      results,
		Concurrency: cfg.Workers.Concurrency,
		Logger:      baseLogger,
	})

	return &Application{
		cfg:      cfg,
		logger:   baseLogger,
		registry: registry,
		pipeline: pipeline,
		results:  results,
	}, nil
}

func fetcherFactory(cfg config.Config, log *slog.Logger) parser.FetcherFactory {
	return func(journal config.JournalConfig) ports.Fetcher {
		return fetch.New(fetch.Options{
			Timeout:     cfg.HTTP.Timeout,
			UserAgent:   cfg.HTTP.UserAgent,
			MaxAttempts: cfg.Retry.MaxAttempts,
			WaitTime:    cfg.Retry.WaitTime,
			MaxWaitTime: cfg.Retry.MaxWaitTime,
			InsecureTLS: journal.InsecureTLS,
			Logger:      logger.For(log, "fetch").With("journal", journal.Slug),
		})
	}
}

// Journals lists the configured journals in configuration order.
func (a *Application) Journals() []config.JournalConfig {
	return a.cfg.Journals
}

// Scrape runs the pipeline for the given slugs, or for every configured
// journal when slugs is empty.
func (a *Application) Scrape(ctx context.Context, slugs []string) ([]usecase.RunReport, error) {
	if len(slugs) == 0 {
		for _, j := range a.cfg.Journals {
			slugs = append(slugs, j.Slug)
		}
	}
	for _, slug := range slugs {
		if _, err := a.registry.Resolve(slug); err != nil {
			return nil, fmt.Errorf("%w (known: %v)", err, a.registry.Names())
		}
	}
	return a.pipeline.RunAll(ctx, slugs)
}

// Seed renders a seed script for every JSON file in inputDir.
func (a *Application) Seed(ctx context.Context, inputDir string) ([]usecase.SeedReport, error) {
	renderer, err := seed.NewRenderer(a.cfg.Seed.Format)
	if err != nil {
		return nil, err
	}
	job := usecase.NewSeedJob(usecase.SeedDeps{
		Reader:   a.results,
		Renderer: renderer,
		OutDir:   a.cfg.Seed.Dir,
		Journals: a.seedJournals(),
		Logger:   a.logger,
	})
	return job.Generate(ctx, a.inputDir(inputDir))
}

// Load applies every JSON file in inputDir to the configured database.
func (a *Application) Load(ctx context.Context, inputDir string) (_ []usecase.SeedReport, err error) {
	db, dialect, err := storage.Open(ctx, a.cfg.Database.Driver, a.cfg.Database.DSN)
	if err != nil {
		return nil, err
	}
	defer func() {
		err = errors.Join(err, db.Close())
	}()

	job := usecase.NewLoadJob(usecase.LoadDeps{
		Reader:   a.results,
		Store:    storage.NewSQLRepository(db, dialect, logger.For(a.logger, "storage")),
		Journals: a.seedJournals(),
		Logger:   a.logger,
	})
	return job.Load(ctx, a.inputDir(inputDir))
}

func (a *Application) inputDir(dir string) string {
	if dir == "" {
		return a.cfg.Output.Dir
	}
	return dir
}

// seedJournals keys journal records by output file stem.
func (a *Application) seedJournals() map[string]seed.Journal {
	out := make(map[string]seed.Journal, len(a.cfg.Journals))
	for _, j := range a.cfg.Journals {
		out[j.Stem()] = seed.Journal{Name: j.Name, JournalRecord: j.Record}
	}
	return out
}
