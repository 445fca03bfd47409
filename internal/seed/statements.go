package seed

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

// Dialect names the SQL flavour; the values match the database/sql driver
// names registered by lib/pq and modernc.org/sqlite.
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

// ParseDialect accepts the configured database driver name.
func ParseDialect(driver string) (Dialect, error) {
	switch driver {
	case "postgres", "pgx", "postgresql":
		return Postgres, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	default:
		return "", fmt.Errorf("seed: unsupported database driver %q", driver)
	}
}

// Placeholder is the bind-parameter style of the dialect.
func (d Dialect) Placeholder() sq.PlaceholderFormat {
	if d == Postgres {
		return sq.Dollar
	}
	return sq.Question
}

const onConflict = "ON CONFLICT DO NOTHING"

// Statements returns the idempotent inserts for plan in dependency order:
// journal, editions, then per article its new authors and keywords, the
// article and its join rows. Foreign keys are resolved with subselects on
// natural keys so the script needs no ids.
func Statements(plan Plan, placeholder sq.PlaceholderFormat) []sq.InsertBuilder {
	b := sq.StatementBuilder.PlaceholderFormat(placeholder)
	j := plan.Journal
	keyColumn, keyValue := j.Key()

	var stmts []sq.InsertBuilder
	stmts = append(stmts, b.Insert("scientific_journals").
		Columns("name", "issn", "institutional_affiliation", "thematic_scope", "website_url",
			"periodicity", "current_status", "foundation_year", "closure_year", "qualis").
		Values(j.Name, optional(j.ISSN), optional(j.InstitutionalAffiliation), optional(j.ThematicScope),
			optional(j.WebsiteURL), optional(j.Periodicity), optional(j.CurrentStatus),
			optionalInt(j.FoundationYear), optionalInt(j.ClosureYear), optional(j.Qualis)).
		Suffix(onConflict))

	journalSQL := "(SELECT id FROM scientific_journals WHERE " + keyColumn + " = ?)"
	journalRef := sq.Expr(journalSQL, keyValue)

	for _, e := range plan.Editions {
		stmts = append(stmts, b.Insert("editions").
			Columns("scientific_journal_id", "volume", "edition_type", "publication_date", "url").
			Values(journalRef, e.Volume, e.EditionType, optional(e.PublicationDate), optional(e.URL)).
			Suffix(onConflict))
	}

	authorDone := map[string]bool{}
	keywordDone := map[string]bool{}
	for _, e := range plan.Editions {
		editionSQL := "(SELECT id FROM editions WHERE scientific_journal_id = " + journalSQL + " AND volume = ? AND edition_type = ?)"
		editionArgs := []any{keyValue, e.Volume, e.EditionType}

		for _, a := range e.Articles {
			for _, name := range a.Authors {
				if !authorDone[name] {
					authorDone[name] = true
					stmts = append(stmts, b.Insert("authors").Columns("name").Values(name).Suffix(onConflict))
				}
			}
			for _, name := range a.Keywords {
				if !keywordDone[name] {
					keywordDone[name] = true
					stmts = append(stmts, b.Insert("keywords").Columns("name").Values(name).Suffix(onConflict))
				}
			}

			stmts = append(stmts, b.Insert("articles").
				Columns("edition_id", "title", "article_url", "doi", "abstract").
				Values(sq.Expr(editionSQL, editionArgs...), a.Title, optional(a.ArticleURL), optional(a.DOI), optional(a.Abstract)).
				Suffix(onConflict))

			articleSQL := "(SELECT id FROM articles WHERE edition_id = " + editionSQL + " AND title = ?)"
			articleArgs := append(append([]any{}, editionArgs...), a.Title)

			for _, name := range a.Authors {
				stmts = append(stmts, b.Insert("articles_authors").
					Columns("article_id", "author_id").
					Values(sq.Expr(articleSQL, articleArgs...), sq.Expr("(SELECT id FROM authors WHERE name = ?)", name)).
					Suffix(onConflict))
			}
			for _, name := range a.Keywords {
				stmts = append(stmts, b.Insert("articles_keywords").
					Columns("article_id", "keyword_id").
					Values(sq.Expr(articleSQL, articleArgs...), sq.Expr("(SELECT id FROM keywords WHERE name = ?)", name)).
					Suffix(onConflict))
			}
		}
	}
	return stmts
}
