package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Keyword extraction modes.
const (
	KeywordsFromNodes = "nodes"
	KeywordsFromRegex = "regex"
)

const defaultHeading = "h1, h2, h3, h4, h5, h6"

// KeywordRule describes where a journal keeps its keywords.
type KeywordRule struct {
	Mode           string
	Selector       string
	Pattern        *regexp.Regexp
	SplitSentences bool
}

// AbstractRule describes where a journal keeps its abstract.
type AbstractRule struct {
	Selector    string
	Paragraph   string
	Label       string
	StripPrefix string
}

// Text returns the trimmed text of the first node matched by selector inside s.
// An empty selector reads s itself.
func Text(s *goquery.Selection, selector string) string {
	if selector != "" {
		s = s.Find(selector)
	}
	return strings.TrimSpace(s.First().Text())
}

// Attr returns the attribute of the first node matched by selector inside s.
func Attr(s *goquery.Selection, selector, name string) string {
	if selector != "" {
		s = s.Find(selector)
	}
	v, _ := s.First().Attr(name)
	return strings.TrimSpace(v)
}

// DOI prefers the href of the configured node and falls back to its text.
func DOI(doc *goquery.Document, selector string) string {
	if selector == "" {
		return ""
	}
	node := doc.Find(selector).First()
	if node.Length() == 0 {
		return ""
	}
	if href := Attr(node, "", "href"); href != "" {
		return href
	}
	return strings.TrimSpace(node.Text())
}

// Keywords collects keywords according to rule.
func Keywords(doc *goquery.Document, rule KeywordRule) []string {
	switch rule.Mode {
	case KeywordsFromRegex:
		return KeywordsFromText(doc.Find("body").Text(), rule.Pattern)
	case KeywordsFromNodes:
		keywords := []string{}
		if rule.Selector == "" {
			return keywords
		}
		doc.Find(rule.Selector).Each(func(_ int, s *goquery.Selection) {
			if rule.SplitSentences {
				keywords = append(keywords, SplitSentenceKeywords(s.Text())...)
				return
			}
			if kw := CleanText(NormalizeQuotes(s.Text())); kw != "" {
				keywords = append(keywords, kw)
			}
		})
		return keywords
	default:
		return []string{}
	}
}

// Abstract reads the abstract container. A nested paragraph wins; otherwise the
// leading label heading is dropped and the remaining text is used.
func Abstract(doc *goquery.Document, rule AbstractRule) string {
	if rule.Selector == "" {
		return ""
	}
	container := doc.Find(rule.Selector).First()
	if container.Length() == 0 {
		return ""
	}

	var text string
	if paragraphs := container.Find(rule.Paragraph); rule.Paragraph != "" && paragraphs.Length() > 0 {
		parts := make([]string, 0, paragraphs.Length())
		paragraphs.Each(func(_ int, p *goquery.Selection) {
			parts = append(parts, p.Text())
		})
		text = strings.Join(parts, " ")
	} else {
		label := rule.Label
		if label == "" {
			label = defaultHeading
		}
		body := container.Clone()
		body.Find(label).First().Remove()
		text = body.Text()
	}

	text = NormalizeQuotes(CleanText(text))
	return StripPrefixFold(text, rule.StripPrefix)
}
