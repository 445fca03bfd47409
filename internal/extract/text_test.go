package extract

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitAuthors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{
			name: "semicolons keep last-first names intact",
			raw:  "Silva, J.; Souza, M.",
			want: []string{"Silva, J.", "Souza, M."},
		},
		{
			name: "commas split when no semicolon is present",
			raw:  "Silva, J., Souza, M.",
			want: []string{"Silva", "J.", "Souza", "M."},
		},
		{
			name: "whitespace and empty tokens",
			raw:  "\n\t Ana   Lima ,, \n Bruno Costa ,  ",
			want: []string{"Ana Lima", "Bruno Costa"},
		},
		{
			name: "curly quotes become apostrophes",
			raw:  "Maria D’Ávila; João “Jota” Reis",
			want: []string{"Maria D'Ávila", "João 'Jota' Reis"},
		},
		{
			name: "empty input",
			raw:  "   ",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, SplitAuthors(tt.raw))
		})
	}
}

// A comma-only list is always read as several names, even when it is really
// one "Last, First" author.
func TestSplitAuthorsCommaAmbiguity(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"Silva", "João"}, SplitAuthors("Silva, João"))
	assert.Equal(t, []string{"Silva, João"}, SplitAuthors("Silva, João;"))
}

func TestCleanTitle(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"  Arqueologia   pública \n PDF ": "Arqueologia pública",
		"Notas de campo (pdf)":            "Notas de campo ()",
		"PPDFDF Título":                   "Título",
		"Sem marcador":                    "Sem marcador",
		"":                                "",
	}

	for raw, want := range tests {
		got := CleanTitle(raw)
		assert.Equal(t, want, got, "raw %q", raw)
		assert.Equal(t, got, CleanTitle(got), "cleaning must be idempotent for %q", raw)
	}
}

func TestInvertName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Maria Silva", InvertName("Silva, Maria"))
	assert.Equal(t, "Maria Silva", InvertName("  Maria   Silva "))
	assert.Equal(t, "Silva,", InvertName("Silva,"))
	assert.Equal(t, "a, b, c", InvertName("a, b, c"))
}

func TestKeywordsFromText(t *testing.T) {
	t.Parallel()

	pattern := regexp.MustCompile(`(?i)Palavras-chave:\s*([^\n]+)`)

	body := "Resumo\nTexto do resumo.\nPalavras-chave: arqueologia, patrimônio, memória\nAbstract"
	assert.Equal(t, []string{"arqueologia", "patrimônio", "memória"}, KeywordsFromText(body, pattern))

	quoted := "PALAVRAS-CHAVE: \"sítio\", cerâmica ,, "
	assert.Equal(t, []string{"'sítio'", "cerâmica"}, KeywordsFromText(quoted, pattern))

	assert.Equal(t, []string{}, KeywordsFromText("no label here", pattern))
	assert.Equal(t, []string{}, KeywordsFromText("Palavras-chave: x", nil))
}

func TestSplitSentenceKeywords(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"Arqueologia", "Memória social", "Museus"},
		SplitSentenceKeywords(" Arqueologia. Memória social. Museus. "))
	assert.Equal(t, []string{"Etnoarqueologia"}, SplitSentenceKeywords("Etnoarqueologia."))
	assert.Nil(t, SplitSentenceKeywords("  "))
}

func TestStripHelpers(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Texto do resumo", StripPrefixFold("RESUMO Texto do resumo", "Resumo "))
	assert.Equal(t, "Resumido", StripPrefixFold("Resumido", "Resumo "))
	assert.Equal(t, "x", StripPrefixFold("x", "Resumo "))

	published := regexp.MustCompile(`(?i)^publicado em\s*`)
	assert.Equal(t, "2023-05-10", StripPattern("  Publicado em 2023-05-10 ", published))
	assert.Equal(t, "10/05/2023", StripPattern("10/05/2023", published))
	assert.Equal(t, "x", StripPattern(" x ", nil))
}
