package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Author extraction modes.
const (
	AuthorsSplit = "split"
	AuthorsNodes = "nodes"
)

// JournalConfig is the selector configuration of one publisher: where its
// archive lives and how its pages are marked up.
type JournalConfig struct {
	Name        string         `yaml:"name"`
	Slug        string         `yaml:"slug"`
	FileName    string         `yaml:"fileName"`
	ArchiveURLs []string       `yaml:"archiveUrls"`
	InsecureTLS bool           `yaml:"insecureTLS"`
	Selectors   SelectorConfig `yaml:"selectors"`
	Heading     HeadingConfig  `yaml:"heading"`
	DatePrefix  string         `yaml:"datePrefix"`
	Authors     AuthorsConfig  `yaml:"authors"`
	Keywords    KeywordsConfig `yaml:"keywords"`
	Abstract    AbstractConfig `yaml:"abstract"`
	Record      JournalRecord  `yaml:"record"`
}

// SelectorConfig maps semantic roles to CSS selectors.
type SelectorConfig struct {
	IssueSummary   string `yaml:"issueSummary"`
	IssueTitle     string `yaml:"issueTitle"`
	IssueLink      string `yaml:"issueLink"`
	IssueSeries    string `yaml:"issueSeries"`
	PublishedDate  string `yaml:"publishedDate"`
	ArticleSummary string `yaml:"articleSummary"`
	ArticleTitle   string `yaml:"articleTitle"`
	ArticleAuthors string `yaml:"articleAuthors"`
	ArticleLink    string `yaml:"articleLink"`
	DOI            string `yaml:"doi"`
}

// HeadingConfig reads volume, number and date out of one edition heading
// block instead of the archive title.
type HeadingConfig struct {
	Selector  string `yaml:"selector"`
	Volume    string `yaml:"volume"`
	Number    string `yaml:"number"`
	Published string `yaml:"published"`
}

// AuthorsConfig chooses between one author block and one node per author.
type AuthorsConfig struct {
	Mode        string `yaml:"mode"`
	InvertNames bool   `yaml:"invertNames"`
}

// KeywordsConfig chooses between keyword nodes and a label regex.
type KeywordsConfig struct {
	Mode           string `yaml:"mode"`
	Selector       string `yaml:"selector"`
	Pattern        string `yaml:"pattern"`
	SplitSentences bool   `yaml:"splitSentences"`
}

// AbstractConfig locates the abstract container.
type AbstractConfig struct {
	Selector    string `yaml:"selector"`
	Paragraph   string `yaml:"paragraph"`
	Label       string `yaml:"label"`
	StripPrefix string `yaml:"stripPrefix"`
}

// JournalRecord carries the ScientificJournal attributes used by the seed
// generator.
type JournalRecord struct {
	ISSN                     string `yaml:"issn"`
	InstitutionalAffiliation string `yaml:"institutionalAffiliation"`
	ThematicScope            string `yaml:"thematicScope"`
	WebsiteURL               string `yaml:"websiteUrl"`
	Periodicity              string `yaml:"periodicity"`
	CurrentStatus            string `yaml:"currentStatus"`
	FoundationYear           int    `yaml:"foundationYear"`
	ClosureYear              int    `yaml:"closureYear"`
	Qualis                   string `yaml:"qualis"`
}

// Stem is the journal identifier derived from its output file name.
func (j JournalConfig) Stem() string {
	return strings.TrimSuffix(filepath.Base(j.FileName), filepath.Ext(j.FileName))
}

// Validate checks that the selector configuration is usable.
func (j JournalConfig) Validate() error {
	if j.FileName == "" {
		return fmt.Errorf("journal %s: fileName is required", j.Slug)
	}
	if len(j.ArchiveURLs) == 0 {
		return fmt.Errorf("journal %s: at least one archive url is required", j.Slug)
	}
	if j.Selectors.IssueSummary == "" || j.Selectors.ArticleSummary == "" {
		return fmt.Errorf("journal %s: issueSummary and articleSummary selectors are required", j.Slug)
	}

	switch j.Authors.Mode {
	case "", AuthorsSplit, AuthorsNodes:
	default:
		return fmt.Errorf("journal %s: unknown authors mode %q", j.Slug, j.Authors.Mode)
	}

	switch j.Keywords.Mode {
	case "", "nodes", "regex":
	default:
		return fmt.Errorf("journal %s: unknown keywords mode %q", j.Slug, j.Keywords.Mode)
	}

	for name, pattern := range map[string]string{
		"datePrefix":        j.DatePrefix,
		"keywords.pattern":  j.Keywords.Pattern,
		"heading.volume":    j.Heading.Volume,
		"heading.number":    j.Heading.Number,
		"heading.published": j.Heading.Published,
	} {
		if _, err := compileOptional(pattern); err != nil {
			return fmt.Errorf("journal %s: %s: %w", j.Slug, name, err)
		}
	}
	return nil
}

const keywordsLabel = `(?i)Palavras-chave:\s*([^\n]+)`

func builtinJournals() []JournalConfig {
	return []JournalConfig{
		{
			Name:     "Revista Habitus",
			Slug:     "habitus",
			FileName: "revista_habitus.json",
			ArchiveURLs: []string{
				"https://seer.pucgoias.edu.br/index.php/habitus/issue/archive/1",
				"https://seer.pucgoias.edu.br/index.php/habitus/issue/archive/2",
			},
			Selectors: SelectorConfig{
				IssueSummary:   ".obj_issue_summary",
				IssueTitle:     "a.title",
				IssueSeries:    "div.series",
				PublishedDate:  ".heading .published .value",
				ArticleSummary: ".obj_article_summary",
				ArticleTitle:   ".title a",
				ArticleAuthors: ".meta .authors",
				DOI:            ".item.doi .value a",
			},
			Keywords: KeywordsConfig{Mode: "regex", Pattern: keywordsLabel},
			Abstract: AbstractConfig{Selector: ".item.abstract", Label: "h3.label"},
		},
		{
			Name:     "Revista de Arqueologia Pública",
			Slug:     "arqueologia-publica",
			FileName: "arqueologia_publica.json",
			ArchiveURLs: []string{
				"https://periodicos.sbu.unicamp.br/ojs/index.php/rap/issue/archive/1",
				"https://periodicos.sbu.unicamp.br/ojs/index.php/rap/issue/archive/2",
			},
			InsecureTLS: true,
			Selectors: SelectorConfig{
				IssueSummary:   ".card.issue-summary",
				IssueTitle:     ".card-title>a",
				IssueLink:      "a",
				PublishedDate:  ".page-issue-date",
				ArticleSummary: ".article-summary",
				ArticleTitle:   ".article-summary-title>a",
				ArticleAuthors: ".article-summary-authors",
				DOI:            ".csl-entry a",
			},
			DatePrefix: `(?i)^publicado em\s*`,
			Keywords:   KeywordsConfig{Mode: "nodes", Selector: ".article-details-keywords-value span"},
			Abstract:   AbstractConfig{Selector: ".article-details-abstract", Paragraph: "p"},
		},
		{
			Name:        "Boletim do Museu Paraense Emílio Goeldi. Série Ciências Humanas",
			Slug:        "goeldi",
			FileName:    "revista_goeldi.json",
			ArchiveURLs: []string{"https://www.scielo.br/j/bgoeldi/grid"},
			Selectors: SelectorConfig{
				IssueSummary:   ".table.table-hover .btn",
				ArticleSummary: "td.pt-4.pb-4",
				ArticleTitle:   ".d-block.mt-2",
				ArticleAuthors: ".me-2",
				ArticleLink: `li.nav-item:has(strong:contains("Resumo")) a:containsOwn("pt"), ` +
					`li.nav-item:has(strong:contains("Resumo")) a:containsOwn("PT")`,
				DOI: ".item.doi .value a",
			},
			Heading: HeadingConfig{
				Selector:  ".h6.fw-bold.d-block.mb-3",
				Volume:    `(?i)Volume:\s*([^\s,]+)`,
				Number:    `(?i)Número:\s*([^\s,]+)`,
				Published: `(?i)Publicado:\s*([^\s,]+)`,
			},
			Authors:  AuthorsConfig{Mode: AuthorsNodes, InvertNames: true},
			Keywords: KeywordsConfig{Mode: "regex", Pattern: keywordsLabel},
			Abstract: AbstractConfig{Selector: ".item.abstract", Label: "h3.label", StripPrefix: "Resumo "},
		},
		{
			Name:     "Cadernos do LEPAARQ",
			Slug:     "lepaarq",
			FileName: "cadernos_lepaarq.json",
			ArchiveURLs: []string{
				"https://periodicos.ufpel.edu.br/index.php/lepaarq/issue/archive",
				"https://periodicos.ufpel.edu.br/index.php/lepaarq/issue/archive/2",
			},
			Selectors: SelectorConfig{
				IssueSummary:   ".obj_issue_summary",
				IssueTitle:     "a.title",
				PublishedDate:  ".heading .published .value",
				ArticleSummary: ".obj_article_summary",
				ArticleTitle:   ".title a",
				ArticleAuthors: ".meta .authors",
				DOI:            ".item.doi .value a",
			},
			Keywords: KeywordsConfig{Mode: "regex", Pattern: keywordsLabel},
			Abstract: AbstractConfig{Selector: ".item.abstract", Label: "h3.label"},
			Record: JournalRecord{
				ISSN:                     "1806-9118",
				InstitutionalAffiliation: "Universidade Federal de Pelotas - UFPEL",
				ThematicScope:            "Arqueologia e Antropologia",
				WebsiteURL:               "https://periodicos.ufpel.edu.br/index.php/lepaarq",
				Periodicity:              "Semestral",
				CurrentStatus:            "Ativa",
				FoundationYear:           2004,
				Qualis:                   "A2",
			},
		},
	}
}
