package seed

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

var rubyEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, `#`, `\#`)

// EscapeRuby escapes s for a double-quoted Ruby literal: backslashes first,
// then double quotes. "#" is escaped too so text never interpolates.
func EscapeRuby(s string) string {
	return rubyEscaper.Replace(s)
}

// RubyRenderer writes Rails seeds built on find_or_create_by!.
type RubyRenderer struct{}

// Extension of the generated file.
func (RubyRenderer) Extension() string { return ".rb" }

// Render writes the seed script for plan to w.
func (RubyRenderer) Render(w io.Writer, plan Plan) error {
	var vars names
	journalVar := vars.next(plan.JournalID)
	keyColumn, keyValue := plan.Journal.Key()

	b := &strings.Builder{}
	fmt.Fprintf(b, "# %s seeds generated from %s.json\n\n", plan.Journal.Name, plan.JournalID)

	b.WriteString("scientific_journals = [\n")
	fmt.Fprintf(b, "  %s\n", journalHash(plan.Journal))
	b.WriteString("]\n\n")
	fmt.Fprintf(b, "scientific_journals.each do |attrs|\n  ScientificJournal.find_or_create_by!(%s: attrs[:%s]) do |journal|\n    journal.assign_attributes(attrs)\n  end\nend\n\n", keyColumn, keyColumn)

	fmt.Fprintf(b, "%s = ScientificJournal.find_by!(%s: %s)\n\n", journalVar, keyColumn, rubyString(keyValue))

	rows := make([]string, len(plan.Editions))
	for i, e := range plan.Editions {
		rows[i] = "  " + rubyHash(
			rubyField{"edition_type", optional(e.EditionType)},
			rubyField{"publication_date", e.PublicationDate},
			rubyField{"url", e.URL},
			rubyField{"volume", e.Volume},
		)
	}
	writeArray(b, journalVar+"_editions", rows)
	b.WriteString("\n")
	fmt.Fprintf(b, `%[1]s_editions.each do |attrs|
  Edition.find_or_create_by!(scientific_journal: %[1]s, volume: attrs[:volume], edition_type: attrs[:edition_type]) do |edition|
    edition.publication_date = attrs[:publication_date]
    edition.url = attrs[:url]
    edition.editors = nil
    edition.theme = nil
    edition.doi = nil
    edition.available_format = nil
  end
end

`, journalVar)

	for _, e := range plan.Editions {
		if len(e.Articles) == 0 {
			continue
		}
		editionVar := vars.next(plan.JournalID, e.Volume)

		fmt.Fprintf(b, "%s_edition = Edition.find_by!(scientific_journal: %s, volume: %s)\n", editionVar, journalVar, rubyString(e.Volume))
		rows := make([]string, len(e.Articles))
		for i, a := range e.Articles {
			rows[i] = "  " + rubyHash(
				rubyField{"title", a.Title},
				rubyField{"authors", a.Authors},
				rubyField{"article_url", a.ArticleURL},
				rubyField{"doi", optional(a.DOI)},
				rubyField{"keywords", a.Keywords},
				rubyField{"abstract", optional(a.Abstract)},
			)
		}
		writeArray(b, editionVar+"_articles", rows)
		fmt.Fprintf(b, `%[1]s_articles.each do |attrs|
  author_records = attrs[:authors].map { |author_name| Author.find_or_create_by!(name: author_name) }
  keyword_records = (attrs[:keywords] || []).map { |kw| Keyword.find_or_create_by!(name: kw) }
  Article.find_or_create_by!(title: attrs[:title], edition: %[1]s_edition) do |article|
    article.authors = author_records
    article.article_url = attrs[:article_url]
    article.doi = attrs[:doi]
    article.abstract = attrs[:abstract]
    article.keywords = keyword_records
  end
end

`, editionVar)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeArray(b *strings.Builder, name string, rows []string) {
	if len(rows) == 0 {
		fmt.Fprintf(b, "%s = []\n", name)
		return
	}
	fmt.Fprintf(b, "%s = [\n%s\n]\n", name, strings.Join(rows, ",\n"))
}

func journalHash(j Journal) string {
	return rubyHash(
		rubyField{"name", j.Name},
		rubyField{"institutional_affiliation", optional(j.InstitutionalAffiliation)},
		rubyField{"issn", optional(j.ISSN)},
		rubyField{"thematic_scope", optional(j.ThematicScope)},
		rubyField{"website_url", optional(j.WebsiteURL)},
		rubyField{"periodicity", optional(j.Periodicity)},
		rubyField{"current_status", optional(j.CurrentStatus)},
		rubyField{"foundation_year", optionalInt(j.FoundationYear)},
		rubyField{"closure_year", optionalInt(j.ClosureYear)},
		rubyField{"qualis", optional(j.Qualis)},
	)
}

type rubyField struct {
	key   string
	value any
}

func rubyHash(fields ...rubyField) string {
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f.key + ": " + rubyValue(f.value)
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

func rubyValue(v any) string {
	switch v := v.(type) {
	case nil:
		return "nil"
	case string:
		return rubyString(v)
	case int:
		return strconv.Itoa(v)
	case []string:
		items := make([]string, len(v))
		for i, s := range v {
			items[i] = rubyString(s)
		}
		return "[" + strings.Join(items, ", ") + "]"
	default:
		return rubyString(fmt.Sprint(v))
	}
}

func rubyString(s string) string {
	return `"` + EscapeRuby(s) + `"`
}

// optional maps empty text to nil.
func optional(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func optionalInt(n int) any {
	if n == 0 {
		return nil
	}
	return n
}
