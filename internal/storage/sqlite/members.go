package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/bobmcallan/andolan/internal/interfaces"
	"github.com/bobmcallan/andolan/internal/models"
)

// Compile-time checks
var (
	_ interfaces.TimelineStore = (*Store)(nil)
	_ interfaces.MemberStore   = (*Store)(nil)
)

func (s *Store) SaveMember(ctx context.Context, m *models.Member) error {
	if m.ID == "" || m.ApplicationID == "" {
		return fmt.Errorf("%w: member id and application id are required", interfaces.ErrInvalidInput)
	}
	now := time.Now().UTC()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	m.UpdatedAt = now

	payload, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to encode member: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO members (id, application_id, status, payload, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			payload = excluded.payload,
			updated_at = excluded.updated_at`,
		m.ID, m.ApplicationID, m.Status, string(payload),
		m.CreatedAt.Format(time.RFC3339Nano), m.UpdatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to save member: %w", err)
	}
	return nil
}

func (s *Store) GetMember(ctx context.Context, id string) (*models.Member, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, payload FROM members WHERE id = ?`, id)
	m, err := scanMember(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, interfaces.ErrNotFound
	}
	return m, err
}

func (s *Store) ListMembers(ctx context.Context) ([]models.Member, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, payload FROM members ORDER BY created_at DESC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer func() { _ = rows.Close() }()

	members := []models.Member{}
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read members: %w", err)
	}
	return members, nil
}

func scanMember(row scanner) (*models.Member, error) {
	var id, payload string
	if err := row.Scan(&id, &payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan member: %w", err)
	}
	var m models.Member
	if err := json.Unmarshal([]byte(payload), &m); err != nil {
		return nil, fmt.Errorf("failed to decode member %s: %w", id, err)
	}
	m.ID = id
	return &m, nil
}

// DeleteMember removes the member row and any documents it uploaded.
func (s *Store) DeleteMember(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to delete member: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `DELETE FROM members WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete member: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete member: %w", err)
	}
	if n == 0 {
		return interfaces.ErrNotFound
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE member_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete member documents: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to delete member: %w", err)
	}
	return nil
}

func (s *Store) SaveDocument(ctx context.Context, doc *models.Document) error {
	if doc.ID == "" || doc.MemberID == "" {
		return fmt.Errorf("%w: document id and member id are required", interfaces.ErrInvalidInput)
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}
	doc.Size = len(doc.Data)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (id, member_id, name, content_type, data, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			content_type = excluded.content_type,
			data = excluded.data`,
		doc.ID, doc.MemberID, doc.Name, doc.ContentType, doc.Data,
		doc.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to save document: %w", err)
	}
	return nil
}

func (s *Store) GetDocument(ctx context.Context, id string) (*models.Document, error) {
	var (
		doc     models.Document
		created string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, member_id, name, content_type, data, created_at FROM documents WHERE id = ?`, id).
		Scan(&doc.ID, &doc.MemberID, &doc.Name, &doc.ContentType, &doc.Data, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, interfaces.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	doc.Size = len(doc.Data)
	if t, err := time.Parse(time.RFC3339Nano, created); err == nil {
		doc.CreatedAt = t
	}
	return &doc, nil
}
