package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/insightdelivered/trial-balance-converter/internal/models"
)

// ErrNotFound is returned when no document has the requested ID.
var ErrNotFound = errors.New("document not found")

// timeLayout is fixed width so created_at sorts correctly as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// List page size bounds.
const (
	defaultListLimit = 50
	maxListLimit     = 500
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS documents (
	id            TEXT PRIMARY KEY,
	source        TEXT NOT NULL DEFAULT '',
	date_range    TEXT NOT NULL DEFAULT '',
	customer_name TEXT NOT NULL DEFAULT '',
	page_number   TEXT NOT NULL DEFAULT '',
	created_at    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS ledger_entries (
	document_id    TEXT NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
	position       INTEGER NOT NULL,
	account_code   TEXT NOT NULL,
	description    TEXT NOT NULL,
	debit          TEXT,
	credit         TEXT,
	balance_debit  TEXT,
	balance_credit TEXT,
	PRIMARY KEY (document_id, position)
);

CREATE INDEX IF NOT EXISTS idx_documents_created_at ON documents(created_at);
`

// Document is a parsed trial balance as archived.
type Document struct {
	ID        string             `json:"id"`
	Source    string             `json:"source"`
	CreatedAt time.Time          `json:"createdAt"`
	Data      *models.ParsedData `json:"data"`
}

// Summary describes an archived document without its entries.
type Summary struct {
	ID           string    `json:"id"`
	Source       string    `json:"source"`
	DateRange    string    `json:"dateRange,omitempty"`
	CustomerName string    `json:"customerName,omitempty"`
	PageNumber   string    `json:"pageNumber,omitempty"`
	EntryCount   int       `json:"entryCount"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Store archives parsed documents in SQLite.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
	now    func() time.Time
}

// Open opens (or creates) the database at path and applies the schema.
func Open(ctx context.Context, path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}

	logger.Info("document store opened", "path", path)
	return &Store{db: db, logger: logger, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save archives data and returns the new document ID. The document and its
// entries are written in one transaction.
func (s *Store) Save(ctx context.Context, source string, data *models.ParsedData) (id string, err error) {
	id = uuid.NewString()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	const insertDoc = `INSERT INTO documents (id, source, date_range, customer_name, page_number, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	if _, err = tx.ExecContext(ctx, insertDoc, id, source, data.DateRange, data.CustomerName,
		data.PageNumber, s.now().UTC().Format(timeLayout)); err != nil {
		return "", fmt.Errorf("insert document: %w", err)
	}

	const insertEntry = `INSERT INTO ledger_entries
		(document_id, position, account_code, description, debit, credit, balance_debit, balance_credit)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	stmt, err := tx.PrepareContext(ctx, insertEntry)
	if err != nil {
		return "", fmt.Errorf("prepare entry insert: %w", err)
	}
	defer stmt.Close()

	for i, e := range data.LedgerEntries {
		if _, err = stmt.ExecContext(ctx, id, i, e.AccountCode, e.Description,
			nullable(e.Debit), nullable(e.Credit), nullable(e.BalanceDebit), nullable(e.BalanceCredit)); err != nil {
			return "", fmt.Errorf("insert entry %d: %w", i, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}

	s.logger.Info("document saved", "id", id, "source", source, "entries", len(data.LedgerEntries))
	return id, nil
}

// Get loads a document and its entries in their original order.
func (s *Store) Get(ctx context.Context, id string) (*Document, error) {
	doc := &Document{
		ID:   id,
		Data: &models.ParsedData{LedgerEntries: []models.LedgerEntry{}},
	}

	var createdAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT source, date_range, customer_name, page_number, created_at FROM documents WHERE id = ?`, id).
		Scan(&doc.Source, &doc.Data.DateRange, &doc.Data.CustomerName, &doc.Data.PageNumber, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query document: %w", err)
	}
	doc.CreatedAt = parseTime(createdAt)

	rows, err := s.db.QueryContext(ctx, `SELECT account_code, description, debit, credit, balance_debit, balance_credit
		FROM ledger_entries WHERE document_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			e                                  models.LedgerEntry
			debit, credit, balDebit, balCredit sql.NullString
		)
		if err := rows.Scan(&e.AccountCode, &e.Description, &debit, &credit, &balDebit, &balCredit); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		e.Debit = fromNull(debit)
		e.Credit = fromNull(credit)
		e.BalanceDebit = fromNull(balDebit)
		e.BalanceCredit = fromNull(balCredit)
		doc.Data.LedgerEntries = append(doc.Data.LedgerEntries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}

	return doc, nil
}

// List returns the most recent documents first, at most limit of them.
// The limit is clamped to [1, 500]; zero or less means 50.
func (s *Store) List(ctx context.Context, limit int) ([]Summary, error) {
	limit = clampLimit(limit)

	rows, err := s.db.QueryContext(ctx, `SELECT d.id, d.source, d.date_range, d.customer_name, d.page_number, d.created_at,
		(SELECT COUNT(*) FROM ledger_entries e WHERE e.document_id = d.id)
		FROM documents d ORDER BY d.created_at DESC, d.id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()

	summaries := []Summary{}
	for rows.Next() {
		var (
			sum       Summary
			createdAt string
		)
		if err := rows.Scan(&sum.ID, &sum.Source, &sum.DateRange, &sum.CustomerName, &sum.PageNumber,
			&createdAt, &sum.EntryCount); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		sum.CreatedAt = parseTime(createdAt)
		summaries = append(summaries, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return summaries, nil
}

// nullable maps an absent amount to SQL NULL.
func nullable(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func fromNull(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	return min(limit, maxListLimit)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
