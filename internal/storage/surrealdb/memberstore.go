package surrealdb

import (
	"context"
	"fmt"
	"time"

	"github.com/bobmcallan/andolan/internal/common"
	"github.com/bobmcallan/andolan/internal/interfaces"
	"github.com/bobmcallan/andolan/internal/models"
	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

const memberSelectFields = `member_id, application_id, name, village, city, phone_number, details,
	membership_type, age, education, experience, document_type, document_id, document_name,
	status, notes, created_at, updated_at`

type memberRow struct {
	MemberID       string    `json:"member_id"`
	ApplicationID  string    `json:"application_id"`
	Name           string    `json:"name"`
	Village        string    `json:"village"`
	City           string    `json:"city"`
	PhoneNumber    string    `json:"phone_number"`
	Details        string    `json:"details"`
	MembershipType string    `json:"membership_type"`
	Age            string    `json:"age"`
	Education      string    `json:"education"`
	Experience     string    `json:"experience"`
	DocumentType   string    `json:"document_type"`
	DocumentID     string    `json:"document_id"`
	DocumentName   string    `json:"document_name"`
	Status         string    `json:"status"`
	Notes          string    `json:"notes"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (r memberRow) member() models.Member {
	return models.Member{
		ID:             r.MemberID,
		ApplicationID:  r.ApplicationID,
		Name:           r.Name,
		Village:        r.Village,
		City:           r.City,
		PhoneNumber:    r.PhoneNumber,
		Details:        r.Details,
		MembershipType: r.MembershipType,
		Age:            r.Age,
		Education:      r.Education,
		Experience:     r.Experience,
		DocumentType:   r.DocumentType,
		DocumentID:     r.DocumentID,
		DocumentName:   r.DocumentName,
		Status:         r.Status,
		Notes:          r.Notes,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

// MemberStore implements interfaces.MemberStore using SurrealDB.
type MemberStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

// NewMemberStore creates a MemberStore on an open connection.
func NewMemberStore(db *surrealdb.DB, logger *common.Logger) *MemberStore {
	return &MemberStore{db: db, logger: logger}
}

func (s *MemberStore) SaveMember(ctx context.Context, m *models.Member) error {
	if m.ID == "" || m.ApplicationID == "" {
		return fmt.Errorf("%w: member id and application id are required", interfaces.ErrInvalidInput)
	}
	now := time.Now().UTC()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	m.UpdatedAt = now

	sql := `UPSERT $rid SET
		member_id = $member_id, application_id = $application_id, name = $name,
		village = $village, city = $city, phone_number = $phone_number, details = $details,
		membership_type = $membership_type, age = $age, education = $education,
		experience = $experience, document_type = $document_type, document_id = $document_id,
		document_name = $document_name, status = $status, notes = $notes,
		created_at = $created_at, updated_at = $updated_at`
	vars := map[string]any{
		"rid":             surrealmodels.NewRecordID(memberTable, m.ID),
		"member_id":       m.ID,
		"application_id":  m.ApplicationID,
		"name":            m.Name,
		"village":         m.Village,
		"city":            m.City,
		"phone_number":    m.PhoneNumber,
		"details":         m.Details,
		"membership_type": m.MembershipType,
		"age":             m.Age,
		"education":       m.Education,
		"experience":      m.Experience,
		"document_type":   m.DocumentType,
		"document_id":     m.DocumentID,
		"document_name":   m.DocumentName,
		"status":          m.Status,
		"notes":           m.Notes,
		"created_at":      m.CreatedAt,
		"updated_at":      m.UpdatedAt,
	}

	if _, err := surrealdb.Query[any](ctx, s.db, sql, vars); err != nil {
		return fmt.Errorf("failed to save member: %w", err)
	}
	return nil
}

func (s *MemberStore) GetMember(ctx context.Context, id string) (*models.Member, error) {
	sql := "SELECT " + memberSelectFields + " FROM $rid"
	vars := map[string]any{"rid": surrealmodels.NewRecordID(memberTable, id)}

	results, err := surrealdb.Query[[]memberRow](ctx, s.db, sql, vars)
	if err != nil {
		if isNotFoundError(err) {
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, interfaces.ErrNotFound
	}
	m := (*results)[0].Result[0].member()
	return &m, nil
}

func (s *MemberStore) ListMembers(ctx context.Context) ([]models.Member, error) {
	sql := "SELECT " + memberSelectFields + " FROM " + memberTable + " ORDER BY created_at DESC, member_id ASC"
	results, err := surrealdb.Query[[]memberRow](ctx, s.db, sql, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}

	members := []models.Member{}
	if results == nil || len(*results) == 0 {
		return members, nil
	}
	for _, row := range (*results)[0].Result {
		members = append(members, row.member())
	}
	return members, nil
}

// DeleteMember removes the member record and any documents it uploaded.
func (s *MemberStore) DeleteMember(ctx context.Context, id string) error {
	if _, err := s.GetMember(ctx, id); err != nil {
		return err
	}
	sql := "DELETE $rid; DELETE " + documentTable + " WHERE member_id = $member_id"
	vars := map[string]any{
		"rid":       surrealmodels.NewRecordID(memberTable, id),
		"member_id": id,
	}
	if _, err := surrealdb.Query[any](ctx, s.db, sql, vars); err != nil {
		return fmt.Errorf("failed to delete member: %w", err)
	}
	return nil
}

type documentRow struct {
	DocumentID  string    `json:"document_id"`
	MemberID    string    `json:"member_id"`
	Name        string    `json:"name"`
	ContentType string    `json:"content_type"`
	Data        []byte    `json:"data"`
	CreatedAt   time.Time `json:"created_at"`
}

func (s *MemberStore) SaveDocument(ctx context.Context, doc *models.Document) error {
	if doc.ID == "" || doc.MemberID == "" {
		return fmt.Errorf("%w: document id and member id are required", interfaces.ErrInvalidInput)
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}
	doc.Size = len(doc.Data)

	sql := `UPSERT $rid SET
		document_id = $document_id, member_id = $member_id, name = $name,
		content_type = $content_type, data = $data, created_at = $created_at`
	vars := map[string]any{
		"rid":          surrealmodels.NewRecordID(documentTable, doc.ID),
		"document_id":  doc.ID,
		"member_id":    doc.MemberID,
		"name":         doc.Name,
		"content_type": doc.ContentType,
		"data":         doc.Data,
		"created_at":   doc.CreatedAt,
	}
	if _, err := surrealdb.Query[any](ctx, s.db, sql, vars); err != nil {
		return fmt.Errorf("failed to save document: %w", err)
	}
	return nil
}

func (s *MemberStore) GetDocument(ctx context.Context, id string) (*models.Document, error) {
	sql := "SELECT document_id, member_id, name, content_type, data, created_at FROM $rid"
	vars := map[string]any{"rid": surrealmodels.NewRecordID(documentTable, id)}

	results, err := surrealdb.Query[[]documentRow](ctx, s.db, sql, vars)
	if err != nil {
		if isNotFoundError(err) {
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, interfaces.ErrNotFound
	}
	row := (*results)[0].Result[0]
	return &models.Document{
		ID:          row.DocumentID,
		MemberID:    row.MemberID,
		Name:        row.Name,
		ContentType: row.ContentType,
		Size:        len(row.Data),
		Data:        row.Data,
		CreatedAt:   row.CreatedAt,
	}, nil
}

// Compile-time check
var _ interfaces.MemberStore = (*MemberStore)(nil)
