// Package interfaces defines service contracts for Andolan
package interfaces

import (
	"context"

	"github.com/bobmcallan/andolan/internal/models"
)

// TimelineService manages milestone records and computes timeline views
type TimelineService interface {
	// ListRecords returns the raw records as served by the listing endpoint
	ListRecords(ctx context.Context) ([]models.TimelineRecord, error)

	// GetRecord retrieves one record
	GetRecord(ctx context.Context, id string) (*models.TimelineRecord, error)

	// CreateRecord validates and stores a new record, assigning its id
	CreateRecord(ctx context.Context, record *models.TimelineRecord) (*models.TimelineRecord, error)

	// UpdateRecord validates and replaces an existing record
	UpdateRecord(ctx context.Context, id string, record *models.TimelineRecord) (*models.TimelineRecord, error)

	// DeleteRecord removes a record
	DeleteRecord(ctx context.Context, id string) error

	// View computes the filtered, grouped timeline
	View(ctx context.Context, filters models.FilterTriple) (*models.TimelineView, error)

	// KeyMilestones returns up to limit key milestone records, newest first
	KeyMilestones(ctx context.Context, limit int) ([]models.TimelineRecord, error)
}

// MemberService accepts registrations and manages their review status
type MemberService interface {
	// Register validates app, assigns an id and application id, and stores
	// the member with status Pending
	Register(ctx context.Context, app *models.MemberApplication) (*models.RegistrationResult, error)

	// ListMembers returns every member, newest first
	ListMembers(ctx context.Context) ([]models.Member, error)

	// GetMember retrieves one member
	GetMember(ctx context.Context, id string) (*models.Member, error)

	// SetStatus moves a member to one of the review statuses. Non-empty
	// notes replace the stored review notes.
	SetStatus(ctx context.Context, id, status, notes string) (*models.Member, error)

	// GetDocument returns the identity document uploaded by a member
	GetDocument(ctx context.Context, memberID string) (*models.Document, error)

	// DeleteMember removes a member and its document
	DeleteMember(ctx context.Context, id string) error
}
