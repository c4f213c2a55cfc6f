package registration

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/bobmcallan/andolan/internal/models"
)

// Application id prefixes.
const (
	GeneralPrefix = "RKM"
	YouthPrefix   = "KLP"
)

// MockStrategy fabricates a pending registration locally. It exists for
// demos and is only placed in a chain outside production.
type MockStrategy struct {
	now    func() time.Time
	random func() int
}

// NewMockStrategy creates a MockStrategy using the wall clock.
func NewMockStrategy() *MockStrategy {
	return &MockStrategy{
		now:    time.Now,
		random: func() int { return rand.IntN(1000) },
	}
}

// Name returns "mock".
func (s *MockStrategy) Name() string {
	return "mock"
}

// ApplicationID formats the public application id: the programme prefix,
// the last six digits of the millisecond clock and a three digit suffix.
func ApplicationID(app *models.MemberApplication, now time.Time, suffix int) string {
	prefix := GeneralPrefix
	if app.IsYouth() {
		prefix = YouthPrefix
	}
	if suffix < 0 {
		suffix = -suffix
	}
	return fmt.Sprintf("%s%s%03d", prefix, timestamp6(now), suffix%1000)
}

func timestamp6(now time.Time) string {
	return fmt.Sprintf("%06d", now.UnixMilli()%1_000_000)
}

func (s *MockStrategy) Register(ctx context.Context, app *models.MemberApplication) (*models.RegistrationResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := s.now()
	message := "Registration successful (demo mode)"
	if app.IsYouth() {
		message = "Youth registration successful (demo mode)"
	}

	docType := app.DocumentType
	if docType == "" {
		docType = models.DocumentNone
	}

	member := &models.Member{
		ID:             "demo_" + timestamp6(now),
		ApplicationID:  ApplicationID(app, now, s.random()),
		Name:           app.Name,
		Village:        app.Village,
		City:           app.City,
		PhoneNumber:    app.PhoneNumber,
		MembershipType: app.MembershipType,
		DocumentType:   docType,
		Status:         models.MemberStatusPending,
		CreatedAt:      now.UTC(),
	}
	if app.IsYouth() {
		member.Age = app.Age
		member.Education = app.Education
		member.Experience = app.Experience
	} else {
		member.Details = app.Details
	}

	return &models.RegistrationResult{Success: true, Message: message, Member: member}, nil
}
