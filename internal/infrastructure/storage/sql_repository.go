package storage

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"PeriodicalScanner/internal/ports"
	"PeriodicalScanner/internal/seed"
	"PeriodicalScanner/pkg/logger"
)

var (
	//go:embed schema/postgres.sql
	postgresSchema string
	//go:embed schema/sqlite.sql
	sqliteSchema string
)

// Tables lists the corpus tables in insertion order.
var Tables = []string{
	"scientific_journals",
	"editions",
	"articles",
	"authors",
	"keywords",
	"articles_authors",
	"articles_keywords",
}

// SQLRepository applies seed plans to Postgres or SQLite.
type SQLRepository struct {
	db      *sql.DB
	dialect seed.Dialect
	logger  *slog.Logger
}

var _ ports.CorpusStore = (*SQLRepository)(nil)

// Open connects to the configured database and checks it is reachable.
func Open(ctx context.Context, driver, dsn string) (*sql.DB, seed.Dialect, error) {
	dialect, err := seed.ParseDialect(driver)
	if err != nil {
		return nil, "", err
	}
	db, err := sql.Open(string(dialect), dsn)
	if err != nil {
		return nil, "", fmt.Errorf("open %s: %w", dialect, err)
	}
	if dialect == seed.SQLite {
		// One connection keeps ":memory:" databases and write locks coherent.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, "", fmt.Errorf("ping %s: %w", dialect, err)
	}
	return db, dialect, nil
}

// NewSQLRepository wires a sql.DB implementation.
func NewSQLRepository(db *sql.DB, dialect seed.Dialect, log *slog.Logger) *SQLRepository {
	if log == nil {
		log = logger.Discard()
	}
	return &SQLRepository{db: db, dialect: dialect, logger: log}
}

// EnsureSchema creates the corpus tables when they are missing.
func (r *SQLRepository) EnsureSchema(ctx context.Context) error {
	schema := sqliteSchema
	if r.dialect == seed.Postgres {
		schema = postgresSchema
	}
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// ApplyPlan runs every insert of plan in one transaction and returns the
// number of rows actually inserted. Rows that already exist are left alone.
func (r *SQLRepository) ApplyPlan(ctx context.Context, plan seed.Plan) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}

	var inserted int64
	for _, stmt := range seed.Statements(plan, r.dialect.Placeholder()) {
		query, args, err := stmt.ToSql()
		if err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("build insert: %w", err)
		}
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("apply %s: %w", plan.JournalID, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += n
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit %s: %w", plan.JournalID, err)
	}

	r.logger.Info("plan applied", "journal", plan.JournalID, "inserted", inserted)
	return inserted, nil
}

// Counts returns the row count of every corpus table.
func (r *SQLRepository) Counts(ctx context.Context) (map[string]int64, error) {
	result := make(map[string]int64, len(Tables))
	for _, table := range Tables {
		query, args, err := sq.Select("COUNT(*)").From(table).PlaceholderFormat(r.dialect.Placeholder()).ToSql()
		if err != nil {
			return nil, fmt.Errorf("build count %s: %w", table, err)
		}
		var n int64
		if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
			return nil, fmt.Errorf("count %s: %w", table, err)
		}
		result[table] = n
	}
	return result, nil
}

// ArticleTitles lists the stored article titles of one edition.
func (r *SQLRepository) ArticleTitles(ctx context.Context, journal seed.Journal, volume string) ([]string, error) {
	column, value := journal.Key()
	query, args, err := sq.Select("a.title").
		From("articles a").
		Join("editions e ON e.id = a.edition_id").
		Join("scientific_journals j ON j.id = e.scientific_journal_id").
		Where(sq.Eq{"j." + column: value, "e.volume": volume}).
		OrderBy("a.id").
		PlaceholderFormat(r.dialect.Placeholder()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build titles query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query titles: %w", err)
	}

	var titles []string
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan title: %w", err)
		}
		titles = append(titles, title)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("rows iteration: %w", rowsErr)
	}

	if closeErr := rows.Close(); closeErr != nil {
		return nil, fmt.Errorf("close rows: %w", closeErr)
	}

	return titles, nil
}
