// Package seed turns scraped journal files into idempotent upsert scripts for
// the ScientificJournal, Edition, Article, Author and Keyword records.
package seed

import (
	"strings"

	"PeriodicalScanner/internal/config"
	"PeriodicalScanner/internal/domain"
)

// Journal is the ScientificJournal record of one scraped file.
type Journal struct {
	Name string
	config.JournalRecord
}

// Key returns the natural key column and value: issn when known, else name.
func (j Journal) Key() (column, value string) {
	if j.ISSN != "" {
		return "issn", j.ISSN
	}
	return "name", j.Name
}

// Edition is one Edition record. Volume is the scraped edition title.
type Edition struct {
	Volume          string
	EditionType     string
	PublicationDate string
	URL             string
	Articles        []Article
}

// Article is one Article record with its author and keyword names.
type Article struct {
	Title      string
	ArticleURL string
	DOI        string
	Abstract   string
	Authors    []string
	Keywords   []string
}

// Plan is everything one seed script inserts, in insertion order.
type Plan struct {
	JournalID string
	Journal   Journal
	Editions  []Edition
	// Authors and Keywords are the distinct names in first-seen order.
	Authors  []string
	Keywords []string

	SkippedArticles   int
	DuplicateArticles int
	DuplicateEditions int
}

// ArticleCount is the number of articles the plan inserts.
func (p Plan) ArticleCount() int {
	n := 0
	for _, e := range p.Editions {
		n += len(e.Articles)
	}
	return n
}

// BuildPlan deduplicates a scraped journal into seed records. Editions repeating
// a volume are merged into the first one; articles repeating a title inside an
// edition are dropped; articles without authors or title are skipped.
func BuildPlan(journalID string, journal Journal, editions []domain.Edition) Plan {
	if journal.Name == "" {
		journal.Name = journalID
	}
	plan := Plan{JournalID: journalID, Journal: journal}

	editionIndex := map[string]int{}
	articleSeen := map[string]map[string]bool{}
	authorSeen := map[string]bool{}
	keywordSeen := map[string]bool{}

	for _, e := range editions {
		volume := strings.TrimSpace(e.Title)
		idx, ok := editionIndex[volume]
		if ok {
			plan.DuplicateEditions++
		} else {
			idx = len(plan.Editions)
			editionIndex[volume] = idx
			articleSeen[volume] = map[string]bool{}
			plan.Editions = append(plan.Editions, Edition{
				Volume:          volume,
				PublicationDate: e.Date,
				URL:             e.URL,
				Articles:        []Article{},
			})
		}

		for _, a := range e.Articles {
			title := strings.TrimSpace(a.Title)
			authors := distinct(a.Authors)
			if title == "" || len(authors) == 0 {
				plan.SkippedArticles++
				continue
			}
			if articleSeen[volume][title] {
				plan.DuplicateArticles++
				continue
			}
			articleSeen[volume][title] = true

			keywords := distinct(a.Keywords)
			for _, name := range authors {
				if !authorSeen[name] {
					authorSeen[name] = true
					plan.Authors = append(plan.Authors, name)
				}
			}
			for _, name := range keywords {
				if !keywordSeen[name] {
					keywordSeen[name] = true
					plan.Keywords = append(plan.Keywords, name)
				}
			}

			plan.Editions[idx].Articles = append(plan.Editions[idx].Articles, Article{
				Title:      title,
				ArticleURL: a.URL,
				DOI:        strings.TrimSpace(a.DOI),
				Abstract:   strings.TrimSpace(a.Abstract),
				Authors:    authors,
				Keywords:   keywords,
			})
		}
	}
	return plan
}

func distinct(values []string) []string {
	out := []string{}
	seen := map[string]bool{}
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
