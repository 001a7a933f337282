package ledger

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/MacJediWizard/licensemaker/internal/license"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// issuedAtLayout keeps every fraction digit so issued_at sorts correctly as text.
const issuedAtLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteStore persists ledger entries in a local SQLite database.
type SQLiteStore struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewSQLiteStore opens (or creates) the ledger database at path.
func NewSQLiteStore(path string, logger zerolog.Logger) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("create ledger directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	store := &SQLiteStore{
		db:     db,
		logger: logger.With().Str("component", "ledger").Logger(),
	}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	store.logger.Debug().Str("path", path).Msg("ledger database initialized")

	return store, nil
}

// migrate creates the necessary tables.
func (s *SQLiteStore) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS issued_licenses (
			id TEXT PRIMARY KEY,
			scheme TEXT NOT NULL,
			algorithm TEXT NOT NULL,
			customer_id TEXT NOT NULL DEFAULT '',
			start_date TEXT NOT NULL,
			end_date TEXT NOT NULL,
			modules TEXT NOT NULL DEFAULT '[]',
			fingerprint TEXT NOT NULL,
			issued_at TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_issued_licenses_customer ON issued_licenses(customer_id);
		CREATE INDEX IF NOT EXISTS idx_issued_licenses_end_date ON issued_licenses(end_date);
		CREATE INDEX IF NOT EXISTS idx_issued_licenses_issued_at ON issued_licenses(issued_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Record stores a new ledger entry.
func (s *SQLiteStore) Record(ctx context.Context, entry *Entry) error {
	modules, err := json.Marshal(moduleList(entry.Modules))
	if err != nil {
		return fmt.Errorf("marshal modules: %w", err)
	}

	query := `
		INSERT INTO issued_licenses (id, scheme, algorithm, customer_id, start_date, end_date, modules, fingerprint, issued_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = s.db.ExecContext(ctx, query,
		entry.ID.String(),
		string(entry.Scheme),
		string(entry.Algorithm),
		entry.CustomerID,
		entry.StartDate,
		entry.EndDate,
		string(modules),
		entry.Fingerprint,
		entry.IssuedAt.UTC().Format(issuedAtLayout),
	)
	if err != nil {
		return fmt.Errorf("insert ledger entry: %w", err)
	}

	return nil
}

// Get retrieves a ledger entry by ID.
func (s *SQLiteStore) Get(ctx context.Context, id uuid.UUID) (*Entry, error) {
	query := `
		SELECT id, scheme, algorithm, customer_id, start_date, end_date, modules, fingerprint, issued_at
		FROM issued_licenses
		WHERE id = ?
	`

	entry, err := scanEntry(s.db.QueryRowContext(ctx, query, id.String()))
	if err == sql.ErrNoRows {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get ledger entry: %w", err)
	}
	return entry, nil
}

// List returns entries newest first.
func (s *SQLiteStore) List(ctx context.Context, opts ListOptions) ([]*Entry, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}

	query := `
		SELECT id, scheme, algorithm, customer_id, start_date, end_date, modules, fingerprint, issued_at
		FROM issued_licenses
		WHERE (? = '' OR customer_id = ?)
		ORDER BY issued_at DESC, rowid DESC
		LIMIT ?
	`

	return s.queryEntries(ctx, query, opts.CustomerID, opts.CustomerID, limit)
}

// ListExpiring returns entries whose end date falls within [from, to],
// soonest first. Dates compare as YYYY-MM-DD strings.
func (s *SQLiteStore) ListExpiring(ctx context.Context, from, to time.Time) ([]*Entry, error) {
	query := `
		SELECT id, scheme, algorithm, customer_id, start_date, end_date, modules, fingerprint, issued_at
		FROM issued_licenses
		WHERE end_date >= ? AND end_date <= ?
		ORDER BY end_date ASC, customer_id ASC
	`

	return s.queryEntries(ctx, query, from.Format(license.DateLayout), to.Format(license.DateLayout))
}

// Count returns the number of ledger entries.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM issued_licenses").Scan(&count); err != nil {
		return 0, fmt.Errorf("count ledger entries: %w", err)
	}
	return count, nil
}

// Ping checks that the database is reachable.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) queryEntries(ctx context.Context, query string, args ...any) ([]*Entry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ledger entries: %w", err)
	}

	return entries, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*Entry, error) {
	var (
		idStr, scheme, algorithm, customerID, startDate, endDate string
		modulesJSON, fingerprint, issuedAtStr                    string
	)

	if err := row.Scan(&idStr, &scheme, &algorithm, &customerID, &startDate, &endDate, &modulesJSON, &fingerprint, &issuedAtStr); err != nil {
		return nil, err
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("parse id: %w", err)
	}

	var modules []license.Module
	if err := json.Unmarshal([]byte(modulesJSON), &modules); err != nil {
		return nil, fmt.Errorf("parse modules: %w", err)
	}
	if len(modules) == 0 {
		modules = nil
	}

	issuedAt, err := time.Parse(time.RFC3339Nano, issuedAtStr)
	if err != nil {
		return nil, fmt.Errorf("parse issued_at: %w", err)
	}

	return &Entry{
		ID:          id,
		Scheme:      license.Scheme(scheme),
		Algorithm:   license.Algorithm(algorithm),
		CustomerID:  customerID,
		StartDate:   startDate,
		EndDate:     endDate,
		Modules:     modules,
		Fingerprint: fingerprint,
		IssuedAt:    issuedAt,
	}, nil
}

func moduleList(modules []license.Module) []license.Module {
	if modules == nil {
		return []license.Module{}
	}
	return modules
}
