package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PeriodicalScanner/internal/config"
	"PeriodicalScanner/internal/logging"
)

const (
	archiveHTML = `<div class="obj_issue_summary"><a class="title" href="/issue/1">v. 3 n. 1 (2023)</a></div>`
	issueHTML   = `
<div class="published"><span class="value">Publicado em 2023-05-02</span></div>
<div class="obj_article_summary"><div class="title"><a href="/article/1">Fogueiras antigas</a></div>
  <div class="authors">Ana Souza; Bruno Lima</div></div>
<div class="obj_article_summary"><div class="title"><a href="/article/2">Sem autores</a></div></div>`
	articleHTML = `<div class="doi"><a href="https://doi.org/10.1/fog">10.1/fog</a></div>
<div class="keywords"><span>Fogo</span><span>Carvão</span></div>
<div class="abstract"><h2>Resumo</h2><p>Estudo de fogueiras.</p></div>`
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/archive", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte(archiveHTML)) })
	mux.HandleFunc("/issue/1", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte(issueHTML)) })
	mux.HandleFunc("/article/1", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte(articleHTML)) })
	mux.HandleFunc("/article/2", func(w http.ResponseWriter, r *http.Request) { http.NotFound(w, r) })
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func testConfig(t *testing.T, baseURL string) config.Config {
	t.Helper()
	dir := t.TempDir()

	cfg, err := config.Load("")
	require.NoError(t, err)

	cfg.Output.Dir = filepath.Join(dir, "raw")
	cfg.Seed.Dir = filepath.Join(dir, "seeds")
	cfg.Database = config.DatabaseConfig{Driver: "sqlite", DSN: filepath.Join(dir, "corpus.db")}
	cfg.Retry = config.RetryConfig{MaxAttempts: 1, WaitTime: time.Millisecond, MaxWaitTime: time.Millisecond}
	cfg.Journals = []config.JournalConfig{{
		Name:        "Revista Fogo",
		Slug:        "fogo",
		FileName:    "revista_fogo.json",
		ArchiveURLs: []string{baseURL + "/archive"},
		Selectors: config.SelectorConfig{
			IssueSummary:   ".obj_issue_summary",
			IssueTitle:     "a.title",
			PublishedDate:  ".published .value",
			ArticleSummary: ".obj_article_summary",
			ArticleTitle:   ".title a",
			ArticleAuthors: ".authors",
			DOI:            ".doi a",
		},
		DatePrefix: `(?i)^publicado em\s*`,
		Keywords:   config.KeywordsConfig{Mode: "nodes", Selector: ".keywords span"},
		Abstract:   config.AbstractConfig{Selector: ".abstract", Paragraph: "p"},
		Record:     config.JournalRecord{ISSN: "0000-0001"},
	}}
	return cfg
}

func TestScrapeSeedAndLoad(t *testing.T) {
	server := newServer(t)
	cfg := testConfig(t, server.URL)

	application, err := New(cfg, logging.NewWithWriter(os.Stderr, "error", "text"))
	require.NoError(t, err)
	ctx := context.Background()

	reports, err := application.Scrape(ctx, nil)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, 1, reports[0].Editions)
	assert.Equal(t, 2, reports[0].Articles)
	assert.Equal(t, 1, reports[0].Failed)
	assert.Equal(t, filepath.Join(cfg.Output.Dir, "revista_fogo.json"), reports[0].OutputPath)

	raw, err := os.ReadFile(reports[0].OutputPath)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"date": "2023-05-02"`)
	assert.Contains(t, string(raw), `"doi": "https://doi.org/10.1/fog"`)
	assert.Contains(t, string(raw), `"abstract": "Estudo de fogueiras."`)

	seeds, err := application.Seed(ctx, "")
	require.NoError(t, err)
	require.Len(t, seeds, 1)
	assert.Equal(t, 1, seeds[0].Articles)
	assert.Equal(t, 1, seeds[0].Skipped)
	script, err := os.ReadFile(seeds[0].Output)
	require.NoError(t, err)
	assert.Contains(t, string(script), `revista_fogo = ScientificJournal.find_by!(issn: "0000-0001")`)

	loaded, err := application.Load(ctx, "")
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Positive(t, loaded[0].Inserted)

	again, err := application.Load(ctx, "")
	require.NoError(t, err)
	assert.Zero(t, again[0].Inserted)
}

func TestScrapeUnknownJournal(t *testing.T) {
	application, err := New(testConfig(t, "http://127.0.0.1:1"), nil)
	require.NoError(t, err)

	_, err = application.Scrape(context.Background(), []string{"nope"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fogo")
}
