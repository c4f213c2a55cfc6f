// Package member accepts membership registrations and tracks their review
package member

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bobmcallan/andolan/internal/clients/registration"
	"github.com/bobmcallan/andolan/internal/common"
	"github.com/bobmcallan/andolan/internal/interfaces"
	"github.com/bobmcallan/andolan/internal/models"
)

// Compile-time interface check
var _ interfaces.MemberService = (*Service)(nil)

// Service implements MemberService on a MemberStore
type Service struct {
	store  interfaces.MemberStore
	logger *common.Logger
	now    func() time.Time
	random func() int
}

// NewService creates a new member service
func NewService(store interfaces.MemberStore, logger *common.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger,
		now:    time.Now,
		random: func() int { return rand.IntN(1000) },
	}
}

// Register stores a validated application as a pending member
func (s *Service) Register(ctx context.Context, app *models.MemberApplication) (*models.RegistrationResult, error) {
	if err := registration.Validate(app); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	docType := app.DocumentType
	if docType == "" {
		docType = models.DocumentNone
	}

	m := &models.Member{
		ID:             uuid.New().String(),
		ApplicationID:  registration.ApplicationID(app, now, s.random()),
		Name:           app.Name,
		Village:        app.Village,
		City:           app.City,
		PhoneNumber:    app.PhoneNumber,
		MembershipType: app.MembershipType,
		DocumentType:   docType,
		Status:         models.MemberStatusPending,
		CreatedAt:      now,
	}
	if app.IsYouth() {
		m.Age = app.Age
		m.Education = app.Education
		m.Experience = app.Experience
	} else {
		m.Details = app.Details
	}

	var doc *models.Document
	if len(app.DocumentPhoto) > 0 {
		doc = &models.Document{
			ID:          uuid.New().String(),
			MemberID:    m.ID,
			Name:        documentName(app.DocumentName),
			ContentType: http.DetectContentType(app.DocumentPhoto),
			Data:        app.DocumentPhoto,
			CreatedAt:   now,
		}
		m.DocumentID = doc.ID
		m.DocumentName = doc.Name
	}

	if err := s.store.SaveMember(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to save member: %w", err)
	}
	if doc != nil {
		if err := s.store.SaveDocument(ctx, doc); err != nil {
			if derr := s.store.DeleteMember(ctx, m.ID); derr != nil {
				s.logger.Warn().Err(derr).Str("member_id", m.ID).Msg("Failed to remove member after document save failure")
			}
			return nil, fmt.Errorf("failed to save document: %w", err)
		}
	}

	s.logger.Info().
		Str("application_id", m.ApplicationID).
		Str("membership", m.MembershipType).
		Str("document_id", m.DocumentID).
		Msg("Member registered")

	message := "Registration successful"
	if app.IsYouth() {
		message = "Youth registration successful"
	}
	return &models.RegistrationResult{Success: true, Message: message, Member: m}, nil
}

// ListMembers returns every member, newest first
func (s *Service) ListMembers(ctx context.Context) ([]models.Member, error) {
	members, err := s.store.ListMembers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return members, nil
}

// GetMember retrieves one member
func (s *Service) GetMember(ctx context.Context, id string) (*models.Member, error) {
	m, err := s.store.GetMember(ctx, id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	return m, nil
}

// SetStatus updates the review status of a member. Non-empty notes replace
// the stored review notes.
func (s *Service) SetStatus(ctx context.Context, id, status, notes string) (*models.Member, error) {
	if !models.ValidMemberStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", interfaces.ErrInvalidInput, status)
	}
	m, err := s.GetMember(ctx, id)
	if err != nil {
		return nil, err
	}
	if m.Status == status && (notes == "" || m.Notes == notes) {
		return m, nil
	}

	previous := m.Status
	m.Status = status
	if notes != "" {
		m.Notes = notes
	}
	if err := s.store.SaveMember(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to save member: %w", err)
	}

	s.logger.Info().
		Str("application_id", m.ApplicationID).
		Str("from", previous).
		Str("to", status).
		Bool("notes", m.Notes != "").
		Msg("Member status changed")
	return m, nil
}

// GetDocument returns the identity document uploaded with a member's
// application. A member without one yields ErrNotFound.
func (s *Service) GetDocument(ctx context.Context, memberID string) (*models.Document, error) {
	m, err := s.GetMember(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if m.DocumentID == "" {
		return nil, interfaces.ErrNotFound
	}
	doc, err := s.store.GetDocument(ctx, m.DocumentID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return doc, nil
}

// DeleteMember removes a member and its document
func (s *Service) DeleteMember(ctx context.Context, id string) error {
	if err := s.store.DeleteMember(ctx, id); err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete member: %w", err)
	}
	s.logger.Info().Str("member_id", id).Msg("Member deleted")
	return nil
}

// documentName keeps the base name of an uploaded file, whichever path
// separator the client used.
func documentName(name string) string {
	name = path.Base(strings.ReplaceAll(name, `\`, "/"))
	if name == "." || name == "/" || name == "" {
		return "document"
	}
	return name
}
