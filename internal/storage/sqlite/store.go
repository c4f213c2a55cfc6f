// Package sqlite stores timeline records and members in a local SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bobmcallan/andolan/internal/common"
	"github.com/bobmcallan/andolan/internal/interfaces"
	"github.com/bobmcallan/andolan/internal/models"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS timeline_records (
	id TEXT PRIMARY KEY,
	date TEXT NOT NULL,
	payload JSON NOT NULL,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_timeline_records_date ON timeline_records(date);
CREATE TABLE IF NOT EXISTS members (
	id TEXT PRIMARY KEY,
	application_id TEXT NOT NULL UNIQUE,
	status TEXT NOT NULL,
	payload JSON NOT NULL,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_members_created_at ON members(created_at);
CREATE TABLE IF NOT EXISTS documents (
	id TEXT PRIMARY KEY,
	member_id TEXT NOT NULL,
	name TEXT NOT NULL,
	content_type TEXT NOT NULL,
	data BLOB NOT NULL,
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_documents_member_id ON documents(member_id);`

// Store implements interfaces.TimelineStore and interfaces.MemberStore on
// SQLite. Bodies are kept as JSON payloads; keys and timestamps are columns.
type Store struct {
	db     *sql.DB
	logger *common.Logger
	path   string
}

// NewStore opens (creating if needed) the database at path.
func NewStore(logger *common.Logger, path string) (*Store, error) {
	if path == "" {
		path = "data/andolan.db"
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection serialises writers and keeps :memory: databases shared.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, logger: logger, path: path}
	if err := s.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.Info().Str("path", path).Msg("SQLite storage initialized")
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "PRAGMA busy_timeout = 5000"); err != nil {
		return fmt.Errorf("failed to set busy timeout: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

func (s *Store) List(ctx context.Context) ([]models.TimelineRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, payload, created_at, updated_at FROM timeline_records ORDER BY date ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list timeline records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	records := []models.TimelineRecord{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read timeline records: %w", err)
	}
	return records, nil
}

func (s *Store) Get(ctx context.Context, id string) (*models.TimelineRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, payload, created_at, updated_at FROM timeline_records WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, interfaces.ErrNotFound
	}
	return rec, err
}

func (s *Store) Save(ctx context.Context, rec *models.TimelineRecord) error {
	if rec.ID == "" {
		return fmt.Errorf("%w: record id is required", interfaces.ErrInvalidInput)
	}
	now := time.Now().UTC()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now

	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode timeline record: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO timeline_records (id, date, payload, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			date = excluded.date,
			payload = excluded.payload,
			updated_at = excluded.updated_at`,
		rec.ID, rec.Date, string(payload),
		rec.CreatedAt.Format(time.RFC3339Nano), rec.UpdatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to save timeline record: %w", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM timeline_records WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete timeline record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete timeline record: %w", err)
	}
	if n == 0 {
		return interfaces.ErrNotFound
	}
	return nil
}

// Backend returns "sqlite".
func (s *Store) Backend() string {
	return "sqlite"
}

func (s *Store) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*models.TimelineRecord, error) {
	var (
		id        string
		payload   string
		createdAt string
		updatedAt string
	)
	if err := row.Scan(&id, &payload, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan timeline record: %w", err)
	}

	var rec models.TimelineRecord
	if err := json.Unmarshal([]byte(payload), &rec); err != nil {
		return nil, fmt.Errorf("failed to decode timeline record %s: %w", id, err)
	}
	rec.ID = id
	if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		rec.CreatedAt = t
	}
	if t, err := time.Parse(time.RFC3339Nano, updatedAt); err == nil {
		rec.UpdatedAt = t
	}
	return &rec, nil
}
