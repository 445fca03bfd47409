// Package extract turns raw listing and detail page fragments into clean
// metadata values.
package extract

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	pdfMarker     = regexp.MustCompile(`(?i)pdf`)
	quoteReplacer = strings.NewReplacer(
		`"`, "'",
		"“", "'",
		"”", "'",
		"‘", "'",
		"’", "'",
	)
)

// CollapseSpace trims s and folds every whitespace run into a single space.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeQuotes maps straight and curly double/single quotes to an apostrophe.
func NormalizeQuotes(s string) string {
	return quoteReplacer.Replace(s)
}

// CleanTitle removes "PDF" galley markers and normalizes whitespace.
// Applying it twice yields the same result as applying it once.
func CleanTitle(raw string) string {
	s := norm.NFC.String(raw)
	for pdfMarker.MatchString(s) {
		s = pdfMarker.ReplaceAllString(s, "")
	}
	return CollapseSpace(s)
}

// CleanText collapses whitespace and NFC-normalizes s.
func CleanText(raw string) string {
	return CollapseSpace(norm.NFC.String(raw))
}

// SplitAuthors splits a raw author block. Semicolons win when present so that
// "Last, First; Last, First" keeps each name intact; otherwise commas separate
// names. A lone "Last, First" without semicolons is therefore read as two names.
func SplitAuthors(raw string) []string {
	text := NormalizeQuotes(norm.NFC.String(raw))

	sep := ","
	if strings.Contains(text, ";") {
		sep = ";"
	}

	authors := []string{}
	for _, part := range strings.Split(text, sep) {
		if name := CollapseSpace(part); name != "" {
			authors = append(authors, name)
		}
	}
	return authors
}

// InvertName rewrites "Last, First" as "First Last". Anything else is only
// whitespace-normalized.
func InvertName(raw string) string {
	parts := strings.Split(raw, ",")
	if len(parts) == 2 {
		first, last := CollapseSpace(parts[1]), CollapseSpace(parts[0])
		if first != "" && last != "" {
			return first + " " + last
		}
	}
	return CollapseSpace(raw)
}

// KeywordsFromText applies pattern to text and splits its first capture group
// on commas.
func KeywordsFromText(text string, pattern *regexp.Regexp) []string {
	keywords := []string{}
	if pattern == nil {
		return keywords
	}

	match := pattern.FindStringSubmatch(text)
	if len(match) < 2 || strings.TrimSpace(match[1]) == "" {
		return keywords
	}

	for _, part := range strings.Split(NormalizeQuotes(match[1]), ",") {
		if kw := CleanText(part); kw != "" {
			keywords = append(keywords, kw)
		}
	}
	return keywords
}

// SplitSentenceKeywords breaks a keyword node like "Arqueologia. Memória." into
// its sentence-separated parts, dropping trailing periods.
func SplitSentenceKeywords(raw string) []string {
	text := CleanText(raw)
	if text == "" {
		return nil
	}

	parts := []string{text}
	if strings.Contains(text, ". ") {
		parts = strings.Split(text, ". ")
	}

	out := make([]string, 0, len(parts))
	for _, part := range parts {
		kw := strings.TrimSpace(strings.TrimRight(strings.TrimSpace(part), "."))
		if kw != "" {
			out = append(out, kw)
		}
	}
	return out
}

// StripPrefixFold removes prefix from s ignoring case and trims the remainder.
func StripPrefixFold(s, prefix string) string {
	if prefix == "" || len(s) < len(prefix) {
		return s
	}
	if strings.EqualFold(s[:len(prefix)], prefix) {
		return strings.TrimSpace(s[len(prefix):])
	}
	return s
}

// StripPattern removes the first match of a leading pattern and trims.
func StripPattern(s string, pattern *regexp.Regexp) string {
	s = strings.TrimSpace(s)
	if pattern == nil {
		return s
	}
	if loc := pattern.FindStringIndex(s); loc != nil && loc[0] == 0 {
		return strings.TrimSpace(s[loc[1]:])
	}
	return s
}
