package jsonstore

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PeriodicalScanner/internal/domain"
)

func sampleEditions() []domain.Edition {
	ok := domain.NewArticle("https://example.org/a/1", "Sítios & <sambaquis>", []string{"Ana Souza", "Bruno Lima"}).
		WithDetails(domain.ArticleDetails{DOI: "https://doi.org/10.1/x", Keywords: []string{"arqueologia"}, Abstract: "Resumo curto."})
	failed := domain.NewArticle("https://example.org/a/2", "Cerâmica", nil).WithError(os.ErrDeadlineExceeded)

	edition := domain.NewEdition(domain.EditionRef{Title: "v. 1 n. 2 (2020)", URL: "https://example.org/issue/2"})
	edition.Date = "2020-12-01"
	return []domain.Edition{edition.WithArticles([]domain.Article{ok, failed})}
}

func TestWriteEditionsFormat(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "raw")
	store := New(dir)

	path, err := store.WriteEditions(context.Background(), "habitus.json", sampleEditions())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "habitus.json"), path)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(raw)

	assert.True(t, strings.HasPrefix(text, "[\n  {\n    \"edition\": "), "expected two-space indentation, got %q", text[:20])
	assert.Contains(t, text, `"title": "Sítios & <sambaquis>"`)
	assert.Contains(t, text, `"keywords": []`)
	assert.Contains(t, text, `"authors": []`)
	assert.Equal(t, 1, strings.Count(text, `"error"`))
}

func TestWriteEditionsOverwrites(t *testing.T) {
	t.Parallel()

	store := New(t.TempDir())
	ctx := context.Background()

	_, err := store.WriteEditions(ctx, "goeldi.json", sampleEditions())
	require.NoError(t, err)
	path, err := store.WriteEditions(ctx, "goeldi.json", nil)
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(raw))
}

func TestReadDirRoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store := New(dir)
	ctx := context.Background()

	want := sampleEditions()
	_, err := store.WriteEditions(ctx, "revista_habitus.json", want)
	require.NoError(t, err)
	_, err = store.WriteEditions(ctx, "arqueologia_publica.json", nil)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	files, err := store.ReadDir(ctx, "")
	require.NoError(t, err)
	require.Len(t, files, 2)

	assert.Equal(t, "arqueologia_publica", files[0].ID)
	assert.Empty(t, files[0].Editions)
	assert.Equal(t, "revista_habitus", files[1].ID)
	if diff := cmp.Diff(want, files[1].Editions); diff != "" {
		t.Fatalf("editions mismatch (-want +got):\n%s", diff)
	}
}

func TestReadDirRejectsMalformedFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0o644))

	_, err := New(dir).ReadDir(context.Background(), dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.json")
}
