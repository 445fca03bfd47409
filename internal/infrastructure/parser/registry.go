package parser

import (
	"fmt"
	"log/slog"

	"PeriodicalScanner/internal/config"
	"PeriodicalScanner/internal/ports"
	"PeriodicalScanner/internal/scanner"
)

// FetcherFactory builds the fetcher used for one journal; journals may need
// different transport settings.
type FetcherFactory func(journal config.JournalConfig) ports.Fetcher

// NewRegistry registers a SelectorScanner for every configured journal.
func NewRegistry(journals []config.JournalConfig, fetchers FetcherFactory, log *slog.Logger) (*scanner.Registry, error) {
	if fetchers == nil {
		return nil, fmt.Errorf("fetcher factory is not configured")
	}

	reg := scanner.NewRegistry()
	for _, journal := range journals {
		var jlog *slog.Logger
		if log != nil {
			jlog = log.With("journal", journal.Slug)
		}

		sc, err := NewSelectorScanner(journal, fetchers(journal), jlog)
		if err != nil {
			return nil, fmt.Errorf("register journal %s: %w", journal.Slug, err)
		}
		reg.Register(sc)
	}
	return reg, nil
}
