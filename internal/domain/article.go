package domain

import (
	"bytes"
	"encoding/json"
	"slices"
)

// EditionRef is a partial edition produced by the archive listing.
type EditionRef struct {
	Title string
	URL   string
}

// Edition is one published issue of a journal with its articles in page order.
type Edition struct {
	Title    string    `json:"edition"`
	URL      string    `json:"url"`
	Date     string    `json:"date"`
	Articles []Article `json:"articles"`
}

// Article describes a single paper. Title is its natural key inside an edition.
type Article struct {
	URL      string   `json:"url"`
	Title    string   `json:"title"`
	Authors  []string `json:"authors"`
	DOI      string   `json:"doi"`
	Keywords []string `json:"keywords"`
	Abstract string   `json:"abstract"`
	Error    string   `json:"error,omitempty"`
}

// ArticleDetails holds the fields only the article detail page exposes.
type ArticleDetails struct {
	DOI      string
	Keywords []string
	Abstract string
}

// NewArticle builds a listing-phase article with empty detail fields.
func NewArticle(url, title string, authors []string) Article {
	return Article{
		URL:      url,
		Title:    title,
		Authors:  nonNil(slices.Clone(authors)),
		Keywords: []string{},
	}
}

// WithDetails returns a copy of the article carrying the enrichment result.
// Listing fields are never touched.
func (a Article) WithDetails(d ArticleDetails) Article {
	out := a.Clone()
	out.DOI = d.DOI
	out.Keywords = nonNil(slices.Clone(d.Keywords))
	out.Abstract = d.Abstract
	out.Error = ""
	return out
}

// WithError returns a copy of the article with detail fields reset and the
// failure recorded.
func (a Article) WithError(err error) Article {
	out := a.Clone()
	out.DOI = ""
	out.Keywords = []string{}
	out.Abstract = ""
	out.Error = "unknown error"
	if err != nil && err.Error() != "" {
		out.Error = err.Error()
	}
	return out
}

// Failed reports whether enrichment recorded an error.
func (a Article) Failed() bool {
	return a.Error != ""
}

// Clone deep-copies slice fields.
func (a Article) Clone() Article {
	a.Authors = nonNil(slices.Clone(a.Authors))
	a.Keywords = nonNil(slices.Clone(a.Keywords))
	return a
}

// NewEdition starts an edition from its archive reference.
func NewEdition(ref EditionRef) Edition {
	return Edition{Title: ref.Title, URL: ref.URL, Articles: []Article{}}
}

// WithArticles returns a copy of the edition holding the given articles.
func (e Edition) WithArticles(articles []Article) Edition {
	out := e
	out.Articles = make([]Article, len(articles))
	for i, a := range articles {
		out.Articles[i] = a.Clone()
	}
	return out
}

// MarshalJSON keeps list fields as arrays even when empty.
func (a Article) MarshalJSON() ([]byte, error) {
	type plain Article
	return marshal(plain(a.Clone()))
}

// MarshalJSON keeps the article list an array even when empty.
func (e Edition) MarshalJSON() ([]byte, error) {
	type plain Edition
	if e.Articles == nil {
		e.Articles = []Article{}
	}
	return marshal(plain(e))
}

// marshal is json.Marshal without HTML escaping.
func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// CountArticles returns the total number of articles and how many carry an
// enrichment error.
func CountArticles(editions []Edition) (total, failed int) {
	for _, e := range editions {
		for _, a := range e.Articles {
			total++
			if a.Failed() {
				failed++
			}
		}
	}
	return total, failed
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
