package storage

import (
	"context"
	"database/sql"
	stderrors "errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"quote-engine/internal/errors"
	"quote-engine/internal/logging"
)

// timeLayout is fixed width so stored timestamps sort as text
const timeLayout = "2006-01-02T15:04:05.000000000Z"

var schema = []string{
	`CREATE TABLE IF NOT EXISTS quotes (
		id                    TEXT PRIMARY KEY,
		client_name           TEXT NOT NULL,
		client_rut            TEXT NOT NULL,
		project_title         TEXT NOT NULL,
		project_description   TEXT NOT NULL DEFAULT '',
		scope                 TEXT NOT NULL DEFAULT '',
		recommendation        TEXT NOT NULL DEFAULT '',
		recommendation_reason TEXT NOT NULL DEFAULT '',
		notes                 TEXT NOT NULL DEFAULT '',
		total_value           BIGINT,
		created_at            TEXT NOT NULL,
		updated_at            TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS line_items (
		id          TEXT PRIMARY KEY,
		quote_id    TEXT NOT NULL REFERENCES quotes(id) ON DELETE CASCADE,
		title       TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		value       TEXT NOT NULL DEFAULT '',
		materials   TEXT NOT NULL DEFAULT '',
		note        TEXT NOT NULL DEFAULT '',
		conditional BOOLEAN NOT NULL DEFAULT FALSE,
		position    INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS line_items_by_quote ON line_items (quote_id, position)`,
}

// SQLStore is a database/sql backed store. Queries are written with ?
// placeholders and rebound for drivers that number them.
type SQLStore struct {
	db       *sql.DB
	numbered bool
	logger   *zap.Logger
}

// NewSQLiteStore opens the SQLite database at path and creates the schema if
// it does not already exist.
func NewSQLiteStore(path string) (*SQLStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, errors.Storage("failed to create data directory", err)
		}
	}
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, errors.Storage("failed to open sqlite", err)
	}
	db.SetMaxOpenConns(1)
	return newSQLStore(db, false)
}

// NewPostgresStore connects to PostgreSQL and creates the schema if it does
// not already exist.
func NewPostgresStore(dsn string) (*SQLStore, error) {
	if dsn == "" {
		return nil, errors.New(errors.TypeConfig, "postgres backend requires a dsn")
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, errors.Storage("failed to open postgres", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Storage("failed to reach postgres", err)
	}
	return newSQLStore(db, true)
}

func newSQLStore(db *sql.DB, numbered bool) (*SQLStore, error) {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, errors.Storage("failed to create schema", err)
		}
	}
	return &SQLStore{db: db, numbered: numbered, logger: logging.Named("storage")}, nil
}

// rebind rewrites ? placeholders as $1, $2, ... when the driver needs it
func (s *SQLStore) rebind(query string) string {
	if !s.numbered {
		return query
	}
	return rebindNumbered(query)
}

func rebindNumbered(query string) string {
	var sb strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *SQLStore) CreateQuote(ctx context.Context, q *Quote) error {
	// q is only updated once the transaction commits
	id := uuid.New().String()
	now := time.Now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Storage("failed to begin transaction", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, s.rebind(
		`INSERT INTO quotes (id, client_name, client_rut, project_title, project_description, scope,
		 recommendation, recommendation_reason, notes, total_value, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		id, q.ClientName, q.ClientRUT, q.ProjectTitle, q.ProjectDescription, q.Scope,
		q.Recommendation, q.RecommendationReason, q.Notes, nullInt(q.TotalValue),
		now.Format(timeLayout), now.Format(timeLayout),
	)
	if err != nil {
		return errors.Storage("failed to insert quote", err)
	}

	var items []LineItem
	if q.LineItems != nil {
		items = make([]LineItem, len(q.LineItems))
	}
	for i, item := range q.LineItems {
		if items[i], err = s.insertItem(ctx, tx, id, item); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return errors.Storage("failed to commit quote", err)
	}

	q.ID = id
	q.CreatedAt = now
	q.UpdatedAt = now
	q.LineItems = items

	s.logger.Debug("quote created", zap.String("id", q.ID), zap.Int("line_items", len(q.LineItems)))
	return nil
}

// insertItem stores a copy of item under quoteID and returns the stored row
func (s *SQLStore) insertItem(ctx context.Context, ex execer, quoteID string, item LineItem) (LineItem, error) {
	item.ID = uuid.New().String()
	item.QuoteID = quoteID
	_, err := ex.ExecContext(ctx, s.rebind(
		`INSERT INTO line_items (id, quote_id, title, description, value, materials, note, conditional, position)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		item.ID, item.QuoteID, item.Title, item.Description, item.Value,
		item.Materials, item.Note, item.Conditional, item.Order,
	)
	if err != nil {
		return LineItem{}, errors.Storage("failed to insert line item", err)
	}
	return item, nil
}

const quoteColumns = `id, client_name, client_rut, project_title, project_description, scope,
	recommendation, recommendation_reason, notes, total_value, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanQuote(row scanner) (*Quote, error) {
	var q Quote
	var total sql.NullInt64
	var createdStr, updatedStr string
	if err := row.Scan(
		&q.ID, &q.ClientName, &q.ClientRUT, &q.ProjectTitle, &q.ProjectDescription, &q.Scope,
		&q.Recommendation, &q.RecommendationReason, &q.Notes, &total, &createdStr, &updatedStr,
	); err != nil {
		return nil, err
	}
	if total.Valid {
		v := total.Int64
		q.TotalValue = &v
	}
	q.CreatedAt, _ = time.Parse(timeLayout, createdStr)
	q.UpdatedAt, _ = time.Parse(timeLayout, updatedStr)
	return &q, nil
}

func (s *SQLStore) GetQuote(ctx context.Context, id string) (*Quote, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(`SELECT `+quoteColumns+` FROM quotes WHERE id = ?`), id)
	q, err := scanQuote(row)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NotFound("quote", id)
	}
	if err != nil {
		return nil, errors.Storage("failed to read quote", err)
	}

	q.LineItems, err = s.itemsOf(ctx, id)
	if err != nil {
		return nil, err
	}
	return q, nil
}

func (s *SQLStore) itemsOf(ctx context.Context, quoteID string) ([]LineItem, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(
		`SELECT id, quote_id, title, description, value, materials, note, conditional, position
		 FROM line_items WHERE quote_id = ? ORDER BY position, id`), quoteID)
	if err != nil {
		return nil, errors.Storage("failed to read line items", err)
	}
	defer rows.Close()

	var items []LineItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, errors.Storage("failed to scan line item", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Storage("failed to read line items", err)
	}
	return items, nil
}

func scanItem(row scanner) (*LineItem, error) {
	var item LineItem
	err := row.Scan(&item.ID, &item.QuoteID, &item.Title, &item.Description, &item.Value,
		&item.Materials, &item.Note, &item.Conditional, &item.Order)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *SQLStore) ListQuotes(ctx context.Context, filter *ListFilter) ([]*Quote, error) {
	query := `SELECT ` + quoteColumns + ` FROM quotes ORDER BY created_at DESC, id DESC`
	var args []any
	if filter != nil && (filter.Limit > 0 || filter.Offset > 0) {
		limit := filter.Limit
		if limit <= 0 {
			limit = -1
			if s.numbered {
				limit = 1<<31 - 1
			}
		}
		query += " LIMIT ? OFFSET ?"
		args = append(args, limit, max(0, filter.Offset))
	}

	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, errors.Storage("failed to list quotes", err)
	}
	defer rows.Close()

	results := []*Quote{}
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, errors.Storage("failed to scan quote", err)
		}
		results = append(results, q)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Storage("failed to list quotes", err)
	}
	return results, nil
}

func (s *SQLStore) UpdateQuote(ctx context.Context, id string, patch *QuotePatch) (*Quote, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Storage("failed to begin transaction", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, s.rebind(`SELECT `+quoteColumns+` FROM quotes WHERE id = ?`), id)
	q, err := scanQuote(row)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NotFound("quote", id)
	}
	if err != nil {
		return nil, errors.Storage("failed to read quote", err)
	}

	patch.apply(q)
	q.UpdatedAt = time.Now().UTC()

	_, err = tx.ExecContext(ctx, s.rebind(
		`UPDATE quotes SET client_name=?, client_rut=?, project_title=?, project_description=?, scope=?,
		 recommendation=?, recommendation_reason=?, notes=?, total_value=?, updated_at=?
		 WHERE id=?`),
		q.ClientName, q.ClientRUT, q.ProjectTitle, q.ProjectDescription, q.Scope,
		q.Recommendation, q.RecommendationReason, q.Notes, nullInt(q.TotalValue),
		q.UpdatedAt.Format(timeLayout), id,
	)
	if err != nil {
		return nil, errors.Storage("failed to update quote", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, errors.Storage("failed to commit quote", err)
	}

	q.LineItems, err = s.itemsOf(ctx, id)
	if err != nil {
		return nil, err
	}
	return q, nil
}

// DeleteQuote removes line items explicitly so the cascade does not depend
// on the driver enforcing foreign keys.
func (s *SQLStore) DeleteQuote(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Storage("failed to begin transaction", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, s.rebind(`DELETE FROM line_items WHERE quote_id = ?`), id); err != nil {
		return errors.Storage("failed to delete line items", err)
	}
	res, err := tx.ExecContext(ctx, s.rebind(`DELETE FROM quotes WHERE id = ?`), id)
	if err != nil {
		return errors.Storage("failed to delete quote", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.NotFound("quote", id)
	}
	if err := tx.Commit(); err != nil {
		return errors.Storage("failed to commit delete", err)
	}

	s.logger.Debug("quote deleted", zap.String("id", id))
	return nil
}

func (s *SQLStore) AddLineItem(ctx context.Context, quoteID string, item *LineItem) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Storage("failed to begin transaction", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, s.rebind(`UPDATE quotes SET updated_at=? WHERE id=?`),
		time.Now().UTC().Format(timeLayout), quoteID)
	if err != nil {
		return errors.Storage("failed to touch quote", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.NotFound("quote", quoteID)
	}
	stored, err := s.insertItem(ctx, tx, quoteID, *item)
	if err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return errors.Storage("failed to commit line item", err)
	}
	*item = stored
	return nil
}

func (s *SQLStore) UpdateLineItem(ctx context.Context, id string, patch *LineItemPatch) (*LineItem, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Storage("failed to begin transaction", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, s.rebind(
		`SELECT id, quote_id, title, description, value, materials, note, conditional, position
		 FROM line_items WHERE id = ?`), id)
	item, err := scanItem(row)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NotFound("line item", id)
	}
	if err != nil {
		return nil, errors.Storage("failed to read line item", err)
	}

	patch.apply(item)
	_, err = tx.ExecContext(ctx, s.rebind(
		`UPDATE line_items SET title=?, description=?, value=?, materials=?, note=?, conditional=?, position=?
		 WHERE id=?`),
		item.Title, item.Description, item.Value, item.Materials, item.Note, item.Conditional, item.Order, id,
	)
	if err != nil {
		return nil, errors.Storage("failed to update line item", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, errors.Storage("failed to commit line item", err)
	}
	return item, nil
}

func (s *SQLStore) DeleteLineItem(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM line_items WHERE id = ?`), id)
	if err != nil {
		return errors.Storage("failed to delete line item", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.NotFound("line item", id)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

func nullInt(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

// Ensure interfaces are implemented
var _ Store = (*SQLStore)(nil)
