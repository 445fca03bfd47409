package seed

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nonIdent = regexp.MustCompile(`[^a-z0-9]+`)

// Identifier folds s into lowercase ASCII snake_case. Diacritics are dropped,
// so "Número 2" becomes "numero_2".
func Identifier(s string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), s)
	if err != nil {
		folded = s
	}
	return strings.Trim(nonIdent.ReplaceAllString(strings.ToLower(folded), "_"), "_")
}

// names hands out Ruby local variable names that never repeat.
type names struct {
	used map[string]int
}

func (n *names) next(parts ...string) string {
	var ids []string
	for _, p := range parts {
		if id := Identifier(p); id != "" {
			ids = append(ids, id)
		}
	}
	name := strings.Join(ids, "_")
	if name == "" {
		name = "journal"
	}
	if name[0] >= '0' && name[0] <= '9' {
		name = "j_" + name
	}

	if n.used == nil {
		n.used = map[string]int{}
	}
	n.used[name]++
	if c := n.used[name]; c > 1 {
		return name + "_" + strconv.Itoa(c)
	}
	return name
}
