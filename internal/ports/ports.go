package ports

import (
	"context"

	"github.com/PuerkitoBio/goquery"

	"PeriodicalScanner/internal/domain"
	"PeriodicalScanner/internal/seed"
)

// Fetcher retrieves a page and parses it as HTML.
type Fetcher interface {
	Document(ctx context.Context, url string) (*goquery.Document, error)
}

// ResultWriter persists the scraped editions of one journal.
type ResultWriter interface {
	WriteEditions(ctx context.Context, fileName string, editions []domain.Edition) (string, error)
}

// ResultReader loads previously scraped files.
type ResultReader interface {
	ReadDir(ctx context.Context, dir string) ([]domain.JournalFile, error)
}

// CorpusStore applies seed plans to a relational database.
type CorpusStore interface {
	EnsureSchema(ctx context.Context) error
	ApplyPlan(ctx context.Context, plan seed.Plan) (int64, error)
}
