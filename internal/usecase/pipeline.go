package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"PeriodicalScanner/internal/domain"
	"PeriodicalScanner/internal/ports"
	"PeriodicalScanner/internal/scanner"
	"PeriodicalScanner/internal/workerpool"
	"PeriodicalScanner/pkg/logger"
)

const defaultConcurrency = 6

// PipelineDeps wires the scanners and the result writer into the pipeline.
type PipelineDeps struct {
	Registry    *scanner.Registry
	Writer      ports.ResultWriter
	Concurrency int
	Logger      *slog.Logger
}

// Pipeline scrapes one journal end to end: editions, articles, article
// details, JSON output.
type Pipeline struct {
	registry    *scanner.Registry
	writer      ports.ResultWriter
	concurrency int
	logger      *slog.Logger
}

// RunReport summarizes one journal run.
type RunReport struct {
	Journal         string
	Editions        int
	SkippedEditions int
	Articles        int
	Failed          int
	OutputPath      string
	Duration        time.Duration
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	concurrency := deps.Concurrency
	if concurrency < 1 {
		concurrency = defaultConcurrency
	}
	return &Pipeline{
		registry:    deps.Registry,
		writer:      deps.Writer,
		concurrency: concurrency,
		logger:      logger.For(deps.Logger, "pipeline"),
	}
}

// Run scrapes the journal registered under slug and writes its JSON file.
// An archive failure aborts the run; a failed edition page is skipped; a
// failed article detail page is recorded on the article.
func (p *Pipeline) Run(ctx context.Context, slug string) (RunReport, error) {
	started := time.Now()
	report := RunReport{Journal: slug}

	if p.registry == nil || p.writer == nil {
		return report, errors.New("pipeline: registry and writer are required")
	}

	s, err := p.registry.Resolve(slug)
	if err != nil {
		return report, err
	}
	log := p.logger.With("journal", slug)

	refs, err := s.ListEditions(ctx)
	if err != nil {
		return report, fmt.Errorf("list editions of %s: %w", slug, err)
	}
	log.Info("editions listed", "count", len(refs))

	editions := make([]domain.Edition, 0, len(refs))
	for _, ref := range refs {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		edition, err := s.ListArticles(ctx, ref)
		if err != nil {
			if ctx.Err() != nil {
				return report, ctx.Err()
			}
			log.Warn("edition skipped", "edition", ref.Title, "url", ref.URL, "error", err)
			report.SkippedEditions++
			continue
		}
		log.Debug("articles listed", "edition", edition.Title, "count", len(edition.Articles))
		editions = append(editions, edition)
	}

	editions, err = p.enrich(ctx, s, editions)
	if err != nil {
		return report, fmt.Errorf("enrich %s: %w", slug, err)
	}

	path, err := p.writer.WriteEditions(ctx, s.FileName(), editions)
	if err != nil {
		return report, fmt.Errorf("write %s: %w", slug, err)
	}

	report.Editions = len(editions)
	report.Articles, report.Failed = domain.CountArticles(editions)
	report.OutputPath = path
	report.Duration = time.Since(started)

	log.Info("journal scraped",
		"editions", report.Editions,
		"skipped_editions", report.SkippedEditions,
		"articles", report.Articles,
		"failed", report.Failed,
		"output", path,
		"duration", report.Duration)
	return report, nil
}

// RunAll runs every slug in order. A failing journal does not stop the
// others; the failures are joined into the returned error.
func (p *Pipeline) RunAll(ctx context.Context, slugs []string) ([]RunReport, error) {
	reports := make([]RunReport, 0, len(slugs))
	var errs []error
	for _, slug := range slugs {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		report, err := p.Run(ctx, slug)
		if err != nil {
			p.logger.Error("journal failed", "journal", slug, "error", err)
			errs = append(errs, err)
			continue
		}
		reports = append(reports, report)
	}
	return reports, errors.Join(errs...)
}

type articleSlot struct {
	edition int
	article int
	value   domain.Article
}

// enrich visits every article detail page through the bounded pool and puts
// the results back in source order.
func (p *Pipeline) enrich(ctx context.Context, s scanner.Scanner, editions []domain.Edition) ([]domain.Edition, error) {
	var slots []articleSlot
	for ei, e := range editions {
		for ai, a := range e.Articles {
			slots = append(slots, articleSlot{edition: ei, article: ai, value: a})
		}
	}

	enriched, err := workerpool.Map(ctx, p.concurrency, slots, func(ctx context.Context, slot articleSlot) domain.Article {
		return s.EnrichArticle(ctx, slot.value)
	})
	if err != nil {
		return nil, err
	}

	out := make([]domain.Edition, len(editions))
	articles := make([][]domain.Article, len(editions))
	for i, e := range editions {
		articles[i] = make([]domain.Article, len(e.Articles))
	}
	for i, slot := range slots {
		articles[slot.edition][slot.article] = enriched[i]
	}
	for i, e := range editions {
		out[i] = e.WithArticles(articles[i])
	}
	return out, nil
}
