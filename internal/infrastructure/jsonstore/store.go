// Package jsonstore persists scraped editions as one JSON document per journal.
package jsonstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"PeriodicalScanner/internal/domain"
	"PeriodicalScanner/internal/ports"
)

// Store writes into and reads from a directory of journal files.
type Store struct {
	dir string
}

var (
	_ ports.ResultWriter = (*Store)(nil)
	_ ports.ResultReader = (*Store)(nil)
)

// New returns a Store rooted at dir.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// WriteEditions replaces <dir>/<fileName> with the editions as indented JSON
// and returns the written path.
func (s *Store) WriteEditions(ctx context.Context, fileName string, editions []domain.Edition) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if fileName == "" {
		return "", fmt.Errorf("jsonstore: empty file name")
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("jsonstore: create %s: %w", s.dir, err)
	}

	if editions == nil {
		editions = []domain.Edition{}
	}

	path := filepath.Join(s.dir, fileName)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("jsonstore: create %s: %w", path, err)
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(editions); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("jsonstore: encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("jsonstore: close %s: %w", path, err)
	}
	return path, nil
}

// ReadDir decodes every *.json file in dir, sorted by name. An empty dir
// argument reads the store's own directory.
func (s *Store) ReadDir(ctx context.Context, dir string) ([]domain.JournalFile, error) {
	if dir == "" {
		dir = s.dir
	}

	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("jsonstore: list %s: %w", dir, err)
	}
	sort.Strings(paths)

	files := make([]domain.JournalFile, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		editions, err := readFile(path)
		if err != nil {
			return nil, err
		}
		base := filepath.Base(path)
		files = append(files, domain.JournalFile{
			ID:       strings.TrimSuffix(base, filepath.Ext(base)),
			Path:     path,
			Editions: editions,
		})
	}
	return files, nil
}

func readFile(path string) ([]domain.Edition, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("jsonstore: read %s: %w", path, err)
	}
	var editions []domain.Edition
	if err := json.Unmarshal(raw, &editions); err != nil {
		return nil, fmt.Errorf("jsonstore: decode %s: %w", path, err)
	}
	return editions, nil
}
