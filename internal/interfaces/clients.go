// Package interfaces defines service contracts for Andolan
package interfaces

import (
	"context"

	"github.com/bobmcallan/andolan/internal/models"
)

// TimelineClient reads timeline data from a running Andolan server
type TimelineClient interface {
	// ListRecords fetches the raw record list
	ListRecords(ctx context.Context) ([]models.TimelineRecord, error)

	// KeyMilestones fetches the key milestone records, newest first
	KeyMilestones(ctx context.Context) ([]models.TimelineRecord, error)
}

// MemberRegistrar submits membership applications
type MemberRegistrar interface {
	// Register submits app and returns the created member
	Register(ctx context.Context, app *models.MemberApplication) (*models.RegistrationResult, error)
}
