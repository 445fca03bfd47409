package seed

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	sq "github.com/Masterminds/squirrel"
)

// SQLRenderer writes a plain SQL script of the plan's inserts with literal
// values, wrapped in one transaction.
type SQLRenderer struct{}

// Extension of the generated file.
func (SQLRenderer) Extension() string { return ".sql" }

// Render writes the script for plan to w.
func (SQLRenderer) Render(w io.Writer, plan Plan) error {
	b := &strings.Builder{}
	fmt.Fprintf(b, "-- %s seeds generated from %s.json\n", plan.Journal.Name, plan.JournalID)
	b.WriteString("BEGIN;\n")

	for _, stmt := range Statements(plan, sq.Question) {
		query, args, err := stmt.ToSql()
		if err != nil {
			return fmt.Errorf("seed: build statement: %w", err)
		}
		line, err := inline(query, args)
		if err != nil {
			return err
		}
		b.WriteString(line)
		b.WriteString(";\n")
	}

	b.WriteString("COMMIT;\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// inline substitutes every "?" placeholder with the quoted argument. The
// generated statements carry no literals of their own, so every "?" is a
// placeholder.
func inline(query string, args []any) (string, error) {
	var b strings.Builder
	next := 0
	for _, r := range query {
		if r != '?' {
			b.WriteRune(r)
			continue
		}
		if next >= len(args) {
			return "", fmt.Errorf("seed: statement %q has more placeholders than arguments", query)
		}
		lit, err := sqlLiteral(args[next])
		if err != nil {
			return "", err
		}
		b.WriteString(lit)
		next++
	}
	if next != len(args) {
		return "", fmt.Errorf("seed: statement %q has %d unused arguments", query, len(args)-next)
	}
	return b.String(), nil
}

// QuoteSQL quotes s as a standard SQL string literal.
func QuoteSQL(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func sqlLiteral(v any) (string, error) {
	switch v := v.(type) {
	case nil:
		return "NULL", nil
	case string:
		return QuoteSQL(v), nil
	case int:
		return strconv.Itoa(v), nil
	default:
		return "", fmt.Errorf("seed: unsupported literal %T", v)
	}
}
