package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jedib0t/go-pretty/v6/table"

	"PeriodicalScanner/internal/ports"
	"PeriodicalScanner/internal/seed"
	"PeriodicalScanner/pkg/logger"
)

// SeedDeps wires the seed generator.
type SeedDeps struct {
	Reader   ports.ResultReader
	Renderer seed.Renderer
	OutDir   string
	// Journals maps a journal id (output file stem) to its record.
	Journals map[string]seed.Journal
	Logger   *slog.Logger
}

// SeedJob converts scraped JSON files into seed scripts.
type SeedJob struct {
	reader   ports.ResultReader
	renderer seed.Renderer
	outDir   string
	journals map[string]seed.Journal
	logger   *slog.Logger
}

// SeedReport summarizes one generated script or one loaded journal.
type SeedReport struct {
	JournalID  string
	Editions   int
	Articles   int
	Authors    int
	Keywords   int
	Skipped    int
	Duplicates int
	Inserted   int64
	Output     string
}

// NewSeedJob constructs the seed generator.
func NewSeedJob(deps SeedDeps) *SeedJob {
	return &SeedJob{
		reader:   deps.Reader,
		renderer: deps.Renderer,
		outDir:   deps.OutDir,
		journals: deps.Journals,
		logger:   logger.For(deps.Logger, "seed"),
	}
}

// Generate writes one script per JSON file found in inputDir.
func (j *SeedJob) Generate(ctx context.Context, inputDir string) ([]SeedReport, error) {
	if j.reader == nil || j.renderer == nil {
		return nil, errors.New("seed: reader and renderer are required")
	}

	plans, err := loadPlans(ctx, j.reader, inputDir, j.journals)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(j.outDir, 0o755); err != nil {
		return nil, fmt.Errorf("seed: create %s: %w", j.outDir, err)
	}

	reports := make([]SeedReport, 0, len(plans))
	for _, plan := range plans {
		path := filepath.Join(j.outDir, seed.FileName(plan.JournalID, j.renderer))
		if err := j.write(path, plan); err != nil {
			return reports, err
		}

		report := reportFor(plan)
		report.Output = path
		reports = append(reports, report)
		j.logger.Info("seed script generated", "journal", plan.JournalID, "articles", report.Articles, "skipped", report.Skipped, "output", path)
	}
	return reports, nil
}

func (j *SeedJob) write(path string, plan seed.Plan) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("seed: create %s: %w", path, err)
	}
	if err := j.renderer.Render(f, plan); err != nil {
		_ = f.Close()
		return fmt.Errorf("seed: render %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("seed: close %s: %w", path, err)
	}
	return nil
}

// LoadDeps wires the corpus loader.
type LoadDeps struct {
	Reader   ports.ResultReader
	Store    ports.CorpusStore
	Journals map[string]seed.Journal
	Logger   *slog.Logger
}

// LoadJob applies scraped JSON files straight to the corpus database.
type LoadJob struct {
	reader   ports.ResultReader
	store    ports.CorpusStore
	journals map[string]seed.Journal
	logger   *slog.Logger
}

// NewLoadJob constructs the corpus loader.
func NewLoadJob(deps LoadDeps) *LoadJob {
	return &LoadJob{
		reader:   deps.Reader,
		store:    deps.Store,
		journals: deps.Journals,
		logger:   logger.For(deps.Logger, "load"),
	}
}

// Load creates the schema if needed and applies every journal in inputDir.
func (j *LoadJob) Load(ctx context.Context, inputDir string) ([]SeedReport, error) {
	if j.reader == nil || j.store == nil {
		return nil, errors.New("load: reader and store are required")
	}

	plans, err := loadPlans(ctx, j.reader, inputDir, j.journals)
	if err != nil {
		return nil, err
	}
	if err := j.store.EnsureSchema(ctx); err != nil {
		return nil, err
	}

	reports := make([]SeedReport, 0, len(plans))
	for _, plan := range plans {
		inserted, err := j.store.ApplyPlan(ctx, plan)
		if err != nil {
			return reports, err
		}
		report := reportFor(plan)
		report.Inserted = inserted
		reports = append(reports, report)
		j.logger.Info("journal loaded", "journal", plan.JournalID, "inserted", inserted)
	}
	return reports, nil
}

func loadPlans(ctx context.Context, reader ports.ResultReader, dir string, journals map[string]seed.Journal) ([]seed.Plan, error) {
	files, err := reader.ReadDir(ctx, dir)
	if err != nil {
		return nil, err
	}

	plans := make([]seed.Plan, 0, len(files))
	for _, file := range files {
		plans = append(plans, seed.BuildPlan(file.ID, journals[file.ID], file.Editions))
	}
	return plans, nil
}

func reportFor(plan seed.Plan) SeedReport {
	return SeedReport{
		JournalID:  plan.JournalID,
		Editions:   len(plan.Editions),
		Articles:   plan.ArticleCount(),
		Authors:    len(plan.Authors),
		Keywords:   len(plan.Keywords),
		Skipped:    plan.SkippedArticles,
		Duplicates: plan.DuplicateArticles + plan.DuplicateEditions,
	}
}

// WriteSeedSummary renders the seed or load reports. Inserted is shown only
// when withInserted is set.
func WriteSeedSummary(w io.Writer, reports []SeedReport, withInserted bool) {
	t := table.NewWriter()
	t.SetOutputMirror(w)

	header := table.Row{"Journal", "Editions", "Articles", "Authors", "Keywords", "Skipped", "Duplicates"}
	if withInserted {
		header = append(header, "Inserted")
	} else {
		header = append(header, "Output")
	}
	t.AppendHeader(header)

	for _, r := range reports {
		row := table.Row{r.JournalID, r.Editions, r.Articles, r.Authors, r.Keywords, r.Skipped, r.Duplicates}
		if withInserted {
			row = append(row, r.Inserted)
		} else {
			row = append(row, r.Output)
		}
		t.AppendRow(row)
	}

	t.SetStyle(table.StyleRounded)
	t.Render()
}
