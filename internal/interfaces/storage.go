// Package interfaces defines service contracts for Andolan
package interfaces

import (
	"context"
	"errors"

	"github.com/bobmcallan/andolan/internal/models"
)

// ErrNotFound is returned by stores and services when a record does not exist.
var ErrNotFound = errors.New("not found")

// ErrInvalidInput is wrapped by validation failures.
var ErrInvalidInput = errors.New("invalid input")

// TimelineStore persists raw timeline records
type TimelineStore interface {
	// List returns every record ordered by date, then id
	List(ctx context.Context) ([]models.TimelineRecord, error)

	// Get returns one record or ErrNotFound
	Get(ctx context.Context, id string) (*models.TimelineRecord, error)

	// Save inserts or replaces a record. CreatedAt is set on first save,
	// UpdatedAt on every save.
	Save(ctx context.Context, record *models.TimelineRecord) error

	// Delete removes a record or returns ErrNotFound
	Delete(ctx context.Context, id string) error

	// Backend names the storage engine ("sqlite", "surrealdb")
	Backend() string

	// Lifecycle
	Close() error
}

// MemberStore persists registered members
type MemberStore interface {
	// SaveMember inserts or replaces a member keyed by ID
	SaveMember(ctx context.Context, member *models.Member) error

	// GetMember returns one member or ErrNotFound
	GetMember(ctx context.Context, id string) (*models.Member, error)

	// ListMembers returns every member, newest first
	ListMembers(ctx context.Context) ([]models.Member, error)

	// DeleteMember removes a member and its document or returns ErrNotFound
	DeleteMember(ctx context.Context, id string) error

	// SaveDocument stores an uploaded document keyed by ID
	SaveDocument(ctx context.Context, doc *models.Document) error

	// GetDocument returns one document with its data or ErrNotFound
	GetDocument(ctx context.Context, id string) (*models.Document, error)
}

// StorageManager coordinates the stores of one backend
type StorageManager interface {
	TimelineStore() TimelineStore
	MemberStore() MemberStore

	// Backend names the storage engine ("sqlite", "surrealdb")
	Backend() string

	// Lifecycle
	Close() error
}
