package seed

import (
	"strings"
	"testing"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PeriodicalScanner/internal/config"
	"PeriodicalScanner/internal/domain"
)

func corpus() []domain.Edition {
	e1 := domain.NewEdition(domain.EditionRef{Title: "v. 1 n. 1 (2019)", URL: "https://j.test/issue/1"})
	e1.Date = "2019-06-30"
	e1 = e1.WithArticles([]domain.Article{
		domain.NewArticle("https://j.test/a/1", `Sambaquis "do sul"`, []string{"Ana Souza", "Bruno Lima"}).
			WithDetails(domain.ArticleDetails{DOI: "https://doi.org/10.1/a1", Keywords: []string{"Sambaqui", "Litoral"}, Abstract: `C:\dados #{x}`}),
		domain.NewArticle("https://j.test/a/2", "Sem autoria", nil),
		domain.NewArticle("https://j.test/a/1b", `Sambaquis "do sul"`, []string{"Outra Pessoa"}),
	})

	e2 := domain.NewEdition(domain.EditionRef{Title: "v. 2 n. 1 (2020)", URL: "https://j.test/issue/2"})
	e2 = e2.WithArticles([]domain.Article{
		domain.NewArticle("https://j.test/a/3", "Cerâmica guarani", []string{"Bruno Lima", " ", "Carla Dias"}).
			WithDetails(domain.ArticleDetails{Keywords: []string{"Litoral", "Cerâmica"}}),
	})

	// Same volume as e1: merged.
	dup := domain.NewEdition(domain.EditionRef{Title: "v. 1 n. 1 (2019)", URL: "https://j.test/issue/1-again"})
	dup = dup.WithArticles([]domain.Article{
		domain.NewArticle("https://j.test/a/4", "Nota de pesquisa", []string{"Ana Souza"}),
	})

	return []domain.Edition{e1, e2, dup}
}

func lepaarq() Journal {
	return Journal{
		Name: "Laboratório de Ensino e Pesquisa em Antropologia e Arqueologia",
		JournalRecord: config.JournalRecord{
			ISSN:           "1806-9118",
			Periodicity:    "Semestral",
			FoundationYear: 2004,
		},
	}
}

func TestBuildPlan(t *testing.T) {
	t.Parallel()

	plan := BuildPlan("cadernos_lepaarq", lepaarq(), corpus())

	assert.Equal(t, 1, plan.SkippedArticles)
	assert.Equal(t, 1, plan.DuplicateArticles)
	assert.Equal(t, 1, plan.DuplicateEditions)
	assert.Equal(t, 3, plan.ArticleCount())

	require.Len(t, plan.Editions, 2)
	titles := func(e Edition) []string {
		var out []string
		for _, a := range e.Articles {
			out = append(out, a.Title)
		}
		return out
	}
	if diff := cmp.Diff([]string{`Sambaquis "do sul"`, "Nota de pesquisa"}, titles(plan.Editions[0])); diff != "" {
		t.Fatalf("edition 1 articles (-want +got):\n%s", diff)
	}
	assert.Equal(t, "https://j.test/issue/1", plan.Editions[0].URL)
	assert.Equal(t, []string{"Bruno Lima", "Carla Dias"}, plan.Editions[1].Articles[0].Authors)

	assert.Equal(t, []string{"Ana Souza", "Bruno Lima", "Carla Dias"}, plan.Authors)
	assert.Equal(t, []string{"Sambaqui", "Litoral", "Cerâmica"}, plan.Keywords)
}

func TestBuildPlanDefaultsJournalName(t *testing.T) {
	t.Parallel()

	plan := BuildPlan("revista_habitus", Journal{}, nil)
	assert.Equal(t, "revista_habitus", plan.Journal.Name)
	column, value := plan.Journal.Key()
	assert.Equal(t, "name", column)
	assert.Equal(t, "revista_habitus", value)
	assert.Empty(t, plan.Editions)
}

func TestEscapeRuby(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `C:\\dados \"x\" \#{y}`, EscapeRuby(`C:\dados "x" #{y}`))
	assert.Equal(t, `\\\"`, EscapeRuby(`\"`))
}

func TestIdentifier(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "volume_18_numero_2", Identifier("Volume 18, Número 2"))
	assert.Equal(t, "v_1_n_1_2019", Identifier("v. 1 n. 1 (2019)"))
	assert.Equal(t, "", Identifier("  ---  "))

	var n names
	assert.Equal(t, "habitus", n.next("habitus"))
	assert.Equal(t, "habitus_v_1", n.next("habitus", "v. 1"))
	assert.Equal(t, "habitus_v_1_2", n.next("habitus", "v 1"))
	assert.Equal(t, "j_2020", n.next("2020"))
}

func TestRubyRenderer(t *testing.T) {
	t.Parallel()

	plan := BuildPlan("cadernos_lepaarq", lepaarq(), corpus())

	var out strings.Builder
	require.NoError(t, RubyRenderer{}.Render(&out, plan))
	script := out.String()

	assert.Contains(t, script, `ScientificJournal.find_or_create_by!(issn: attrs[:issn])`)
	assert.Contains(t, script, `cadernos_lepaarq = ScientificJournal.find_by!(issn: "1806-9118")`)
	assert.Contains(t, script, `foundation_year: 2004, closure_year: nil`)
	assert.Contains(t, script, `{ edition_type: nil, publication_date: "2019-06-30", url: "https://j.test/issue/1", volume: "v. 1 n. 1 (2019)" }`)
	assert.Contains(t, script, `cadernos_lepaarq_v_1_n_1_2019_edition = Edition.find_by!(scientific_journal: cadernos_lepaarq, volume: "v. 1 n. 1 (2019)")`)
	assert.Contains(t, script, `title: "Sambaquis \"do sul\""`)
	assert.Contains(t, script, `abstract: "C:\\dados \#{x}"`)
	assert.Contains(t, script, `doi: nil, keywords: ["Litoral", "Cerâmica"], abstract: nil`)
	assert.Contains(t, script, `Article.find_or_create_by!(title: attrs[:title], edition: cadernos_lepaarq_v_2_n_1_2020_edition)`)

	assert.NotContains(t, script, "Sem autoria")
	assert.Equal(t, 1, strings.Count(script, `title: "Sambaquis \"do sul\""`))
	assert.Equal(t, 2, strings.Count(script, "_articles.each do |attrs|"))
}

func TestStatementsUsePlaceholders(t *testing.T) {
	t.Parallel()

	plan := BuildPlan("cadernos_lepaarq", lepaarq(), corpus())
	stmts := Statements(plan, sq.Dollar)

	// journal, editions, authors, keywords, articles, author links, keyword links
	require.Len(t, stmts, 1+2+3+3+3+5+4)

	query, args, err := stmts[0].ToSql()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(query, "INSERT INTO scientific_journals (name,issn,"), query)
	assert.True(t, strings.HasSuffix(query, "ON CONFLICT DO NOTHING"), query)
	assert.Contains(t, query, "$10")
	assert.Equal(t, lepaarq().Name, args[0])
	assert.Nil(t, args[2])

	query, args, err = stmts[1].ToSql()
	require.NoError(t, err)
	assert.Contains(t, query, "(SELECT id FROM scientific_journals WHERE issn = $1)")
	assert.Equal(t, []any{"1806-9118", "v. 1 n. 1 (2019)", "", "2019-06-30", "https://j.test/issue/1"}, args)
}

func TestSQLRenderer(t *testing.T) {
	t.Parallel()

	plan := BuildPlan("cadernos_lepaarq", lepaarq(), corpus())

	var out strings.Builder
	require.NoError(t, SQLRenderer{}.Render(&out, plan))
	script := out.String()

	assert.True(t, strings.HasPrefix(script, "-- Laboratório"), script)
	assert.Contains(t, script, "BEGIN;\n")
	assert.True(t, strings.HasSuffix(script, "COMMIT;\n"))
	assert.NotContains(t, script, "?")
	assert.Contains(t, script, "INSERT INTO authors (name) VALUES ('Ana Souza') ON CONFLICT DO NOTHING;")
	assert.Contains(t, script, `'Sambaquis "do sul"'`)
	assert.Contains(t, script, "'1806-9118',NULL")
	assert.Equal(t, 1, strings.Count(script, "INSERT INTO authors (name) VALUES ('Bruno Lima')"))
}

func TestInlineQuotesLiterals(t *testing.T) {
	t.Parallel()

	got, err := inline("INSERT INTO t (a,b,c) VALUES (?,?,?)", []any{"d'Ávila", nil, 2004})
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO t (a,b,c) VALUES ('d''Ávila',NULL,2004)", got)

	_, err = inline("VALUES (?)", nil)
	require.Error(t, err)
	_, err = inline("VALUES ()", []any{"x"})
	require.Error(t, err)
}

func TestNewRenderer(t *testing.T) {
	t.Parallel()

	r, err := NewRenderer("sql")
	require.NoError(t, err)
	assert.Equal(t, "habitus_seeds.sql", FileName("habitus", r))

	r, err = NewRenderer("ruby")
	require.NoError(t, err)
	assert.Equal(t, "habitus_seeds.rb", FileName("habitus", r))

	_, err = NewRenderer("yaml")
	require.Error(t, err)

	d, err := ParseDialect("sqlite")
	require.NoError(t, err)
	assert.Equal(t, sq.Question, d.Placeholder())
	_, err = ParseDialect("mysql")
	require.Error(t, err)
}
