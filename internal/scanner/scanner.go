package scanner

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"PeriodicalScanner/internal/domain"
)

// ErrUnknownJournal is returned when no scanner is registered for a slug.
var ErrUnknownJournal = errors.New("unknown journal")

// Scanner is the per-journal capability used by the pipeline. One generic
// implementation is parameterized by selector configuration.
type Scanner interface {
	// Name is the journal slug.
	Name() string
	// FileName is the output file the journal's results are written to.
	FileName() string
	// ListEditions reads every archive page and returns the editions in
	// source order.
	ListEditions(ctx context.Context) ([]domain.EditionRef, error)
	// ListArticles reads one edition page.
	ListArticles(ctx context.Context, ref domain.EditionRef) (domain.Edition, error)
	// EnrichArticle visits the article detail page. Failures are recorded
	// on the returned article, never returned.
	EnrichArticle(ctx context.Context, article domain.Article) domain.Article
}

// Registry keeps a mapping from journal slugs to their scanners.
type Registry struct {
	scanners map[string]Scanner
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{scanners: map[string]Scanner{}}
}

// Register adds or replaces a scanner implementation.
func (r *Registry) Register(scanner Scanner) {
	if r.scanners == nil {
		r.scanners = map[string]Scanner{}
	}
	r.scanners[scanner.Name()] = scanner
}

// Resolve returns a scanner by name or an error if it is absent.
func (r *Registry) Resolve(name string) (Scanner, error) {
	if scanner, ok := r.scanners[name]; ok {
		return scanner, nil
	}
	return nil, fmt.Errorf("scanner %s is not registered: %w", name, ErrUnknownJournal)
}

// Names lists registered slugs alphabetically.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.scanners))
	for name := range r.scanners {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
