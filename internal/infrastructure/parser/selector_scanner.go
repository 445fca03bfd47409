package parser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/PuerkitoBio/goquery"

	"PeriodicalScanner/internal/config"
	"PeriodicalScanner/internal/domain"
	"PeriodicalScanner/internal/extract"
	"PeriodicalScanner/internal/fetch"
	"PeriodicalScanner/internal/ports"
	"PeriodicalScanner/internal/scanner"
	"PeriodicalScanner/pkg/logger"
)

var errNoDetailURL = errors.New("article has no detail url")

// SelectorScanner lists editions, lists articles and enriches them for any
// journal whose markup is described by a config.JournalConfig.
type SelectorScanner struct {
	journal config.JournalConfig
	fetcher ports.Fetcher
	logger  *slog.Logger

	datePrefix *regexp.Regexp
	volume     *regexp.Regexp
	number     *regexp.Regexp
	published  *regexp.Regexp
	keywords   extract.KeywordRule
	abstract   extract.AbstractRule
}

var _ scanner.Scanner = (*SelectorScanner)(nil)

// NewSelectorScanner compiles the journal's patterns and wires a fetcher.
func NewSelectorScanner(journal config.JournalConfig, fetcher ports.Fetcher, log *slog.Logger) (*SelectorScanner, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("journal %s: fetcher is required", journal.Slug)
	}
	if err := journal.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Discard()
	}

	s := &SelectorScanner{
		journal: journal,
		fetcher: fetcher,
		logger:  log,
		abstract: extract.AbstractRule{
			Selector:    journal.Abstract.Selector,
			Paragraph:   journal.Abstract.Paragraph,
			Label:       journal.Abstract.Label,
			StripPrefix: journal.Abstract.StripPrefix,
		},
	}

	// Validate already proved these compile.
	s.datePrefix = compile(journal.DatePrefix)
	s.volume = compile(journal.Heading.Volume)
	s.number = compile(journal.Heading.Number)
	s.published = compile(journal.Heading.Published)

	s.keywords = extract.KeywordRule{
		Mode:           journal.Keywords.Mode,
		Selector:       journal.Keywords.Selector,
		Pattern:        compile(journal.Keywords.Pattern),
		SplitSentences: journal.Keywords.SplitSentences,
	}

	return s, nil
}

// Name is the journal slug.
func (s *SelectorScanner) Name() string {
	return s.journal.Slug
}

// FileName is the journal's JSON output file.
func (s *SelectorScanner) FileName() string {
	return s.journal.FileName
}

// ListEditions walks the archive pages in order. Any archive failure aborts.
func (s *SelectorScanner) ListEditions(ctx context.Context) ([]domain.EditionRef, error) {
	var refs []domain.EditionRef
	for _, archiveURL := range s.journal.ArchiveURLs {
		doc, err := s.fetcher.Document(ctx, archiveURL)
		if err != nil {
			return nil, fmt.Errorf("archive %s: %w", archiveURL, err)
		}

		page := s.parseArchive(doc)
		s.logger.Debug("archive page listed", "url", archiveURL, "editions", len(page))
		refs = append(refs, page...)
	}
	return refs, nil
}

// ListArticles reads one edition page.
func (s *SelectorScanner) ListArticles(ctx context.Context, ref domain.EditionRef) (domain.Edition, error) {
	doc, err := s.fetcher.Document(ctx, ref.URL)
	if err != nil {
		return domain.Edition{}, fmt.Errorf("edition %s: %w", ref.URL, err)
	}
	return s.parseEdition(doc, ref), nil
}

// EnrichArticle fetches the detail page and attaches doi, keywords and
// abstract. Any failure is recorded on the returned copy.
func (s *SelectorScanner) EnrichArticle(ctx context.Context, article domain.Article) domain.Article {
	if article.URL == "" {
		return article.WithError(errNoDetailURL)
	}

	doc, err := s.fetcher.Document(ctx, article.URL)
	if err != nil {
		s.logger.Warn("article enrichment failed", "title", article.Title, "url", article.URL, "error", err)
		return article.WithError(err)
	}

	return article.WithDetails(s.parseDetails(doc))
}

func (s *SelectorScanner) parseArchive(doc *goquery.Document) []domain.EditionRef {
	sel := s.journal.Selectors
	linkSelector := sel.IssueLink
	if linkSelector == "" {
		linkSelector = sel.IssueTitle
	}

	var refs []domain.EditionRef
	doc.Find(sel.IssueSummary).Each(func(_ int, node *goquery.Selection) {
		href := fetch.Resolve(doc.Url, extract.Attr(node, linkSelector, "href"))
		if href == "" {
			return
		}

		title := extract.CleanText(extract.Text(node, sel.IssueTitle))
		if sel.IssueSeries != "" {
			if series := extract.CleanText(extract.Text(node, sel.IssueSeries)); series != "" {
				title = series + " - " + title
			}
		}

		refs = append(refs, domain.EditionRef{Title: title, URL: href})
	})
	return refs
}

func (s *SelectorScanner) parseEdition(doc *goquery.Document, ref domain.EditionRef) domain.Edition {
	sel := s.journal.Selectors
	edition := domain.NewEdition(ref)

	if sel.PublishedDate != "" {
		edition.Date = extract.CleanText(extract.StripPattern(extract.Text(doc.Selection, sel.PublishedDate), s.datePrefix))
	}
	if s.journal.Heading.Selector != "" {
		s.applyHeading(doc, &edition)
	}

	linkSelector := sel.ArticleLink
	if linkSelector == "" {
		linkSelector = sel.ArticleTitle
	}

	var articles []domain.Article
	doc.Find(sel.ArticleSummary).Each(func(_ int, node *goquery.Selection) {
		title := extract.CleanTitle(articleTitle(node, sel.ArticleTitle))
		href := fetch.Resolve(doc.Url, extract.Attr(node, linkSelector, "href"))
		articles = append(articles, domain.NewArticle(href, title, s.authors(node)))
	})

	return edition.WithArticles(articles)
}

// applyHeading derives "Volume v, Número n" and the publication date from a
// heading block.
func (s *SelectorScanner) applyHeading(doc *goquery.Document, edition *domain.Edition) {
	info := extract.CleanText(doc.Find(s.journal.Heading.Selector).First().Text())

	volume := capture(s.volume, info)
	number := capture(s.number, info)
	if volume != "" || number != "" {
		edition.Title = fmt.Sprintf("Volume %s, Número %s", volume, number)
	}
	if published := capture(s.published, info); published != "" {
		edition.Date = published
	}
}

func (s *SelectorScanner) authors(node *goquery.Selection) []string {
	sel := s.journal.Selectors.ArticleAuthors
	if sel == "" {
		return []string{}
	}

	if s.journal.Authors.Mode != config.AuthorsNodes {
		return extract.SplitAuthors(node.Find(sel).Text())
	}

	authors := []string{}
	node.Find(sel).Each(func(_ int, a *goquery.Selection) {
		name := extract.CleanText(extract.NormalizeQuotes(a.Text()))
		if s.journal.Authors.InvertNames {
			name = extract.InvertName(name)
		}
		if name != "" {
			authors = append(authors, name)
		}
	})
	return authors
}

func (s *SelectorScanner) parseDetails(doc *goquery.Document) domain.ArticleDetails {
	return domain.ArticleDetails{
		DOI:      extract.DOI(doc, s.journal.Selectors.DOI),
		Keywords: extract.Keywords(doc, s.keywords),
		Abstract: extract.Abstract(doc, s.abstract),
	}
}

func articleTitle(node *goquery.Selection, selector string) string {
	if selector == "" {
		return node.Text()
	}
	return node.Find(selector).Text()
}

func capture(re *regexp.Regexp, text string) string {
	if re == nil {
		return ""
	}
	if m := re.FindStringSubmatch(text); len(m) > 1 {
		return m[1]
	}
	return ""
}

func compile(pattern string) *regexp.Regexp {
	if pattern == "" {
		return nil
	}
	return regexp.MustCompile(pattern)
}
