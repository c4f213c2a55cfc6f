// Package milestone provides timeline record management and view services
package milestone

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bobmcallan/andolan/internal/common"
	"github.com/bobmcallan/andolan/internal/interfaces"
	"github.com/bobmcallan/andolan/internal/models"
	"github.com/bobmcallan/andolan/internal/timeline"
)

// DefaultKeyMilestoneLimit caps the key milestone list.
const DefaultKeyMilestoneLimit = 5

// Compile-time interface checks
var (
	_ interfaces.TimelineService = (*Service)(nil)
	_ timeline.Source            = (*Service)(nil)
)

// Service implements TimelineService on a TimelineStore
type Service struct {
	store  interfaces.TimelineStore
	logger *common.Logger
}

// NewService creates a new milestone service
func NewService(store interfaces.TimelineStore, logger *common.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger,
	}
}

// ListRecords returns every stored record
func (s *Service) ListRecords(ctx context.Context) ([]models.TimelineRecord, error) {
	records, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list timeline records: %w", err)
	}
	return records, nil
}

// GetRecord retrieves one record
func (s *Service) GetRecord(ctx context.Context, id string) (*models.TimelineRecord, error) {
	rec, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get timeline record: %w", err)
	}
	return rec, nil
}

// CreateRecord validates rec, assigns an id when missing and stores it
func (s *Service) CreateRecord(ctx context.Context, rec *models.TimelineRecord) (*models.TimelineRecord, error) {
	clean(rec)
	if err := Validate(rec); err != nil {
		return nil, err
	}
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	} else if _, err := s.store.Get(ctx, rec.ID); err == nil {
		return nil, fmt.Errorf("%w: record %s already exists", interfaces.ErrInvalidInput, rec.ID)
	}
	rec.CreatedAt = time.Time{}

	if err := s.store.Save(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to create timeline record: %w", err)
	}
	s.logger.Info().Str("id", rec.ID).Str("title", rec.Title).Msg("Timeline record created")
	return rec, nil
}

// UpdateRecord replaces the record with id, keeping its creation time
func (s *Service) UpdateRecord(ctx context.Context, id string, rec *models.TimelineRecord) (*models.TimelineRecord, error) {
	existing, err := s.GetRecord(ctx, id)
	if err != nil {
		return nil, err
	}

	clean(rec)
	rec.ID = id
	if err := Validate(rec); err != nil {
		return nil, err
	}
	rec.CreatedAt = existing.CreatedAt

	if err := s.store.Save(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to update timeline record: %w", err)
	}
	s.logger.Info().Str("id", id).Msg("Timeline record updated")
	return rec, nil
}

// DeleteRecord removes the record with id
func (s *Service) DeleteRecord(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete timeline record: %w", err)
	}
	s.logger.Info().Str("id", id).Msg("Timeline record deleted")
	return nil
}

// View normalizes the stored records and computes the timeline under filters.
// An unknown decade yields an empty filtered view, not an error.
func (s *Service) View(ctx context.Context, filters models.FilterTriple) (*models.TimelineView, error) {
	entries, err := s.entries(ctx)
	if err != nil {
		return nil, err
	}
	view := timeline.BuildView(entries, filters)
	return &view, nil
}

// KeyMilestones returns up to limit key milestone records, newest first.
// A limit of zero or less uses DefaultKeyMilestoneLimit. Records with an
// unparseable date are left out.
func (s *Service) KeyMilestones(ctx context.Context, limit int) ([]models.TimelineRecord, error) {
	if limit <= 0 {
		limit = DefaultKeyMilestoneLimit
	}
	records, err := s.ListRecords(ctx)
	if err != nil {
		return nil, err
	}

	type dated struct {
		rec  models.TimelineRecord
		date time.Time
	}
	var keys []dated
	for _, rec := range records {
		if !rec.IsKeyMilestone {
			continue
		}
		d, err := timeline.ParseDate(rec.Date)
		if err != nil {
			s.logger.Warn().Err(err).Str("id", rec.ID).Msg("Skipping key milestone")
			continue
		}
		keys = append(keys, dated{rec: rec, date: d})
	}
	sort.SliceStable(keys, func(i, j int) bool {
		return keys[i].date.After(keys[j].date)
	})

	out := make([]models.TimelineRecord, 0, limit)
	for i := 0; i < len(keys) && i < limit; i++ {
		out = append(out, keys[i].rec)
	}
	return out, nil
}

func (s *Service) entries(ctx context.Context) ([]models.TimelineEntry, error) {
	records, err := s.ListRecords(ctx)
	if err != nil {
		return nil, err
	}
	entries, skipped := timeline.Normalize(records, nil)
	for _, e := range skipped {
		s.logger.Warn().Err(e).Msg("Skipping timeline record")
	}
	return entries, nil
}

func clean(rec *models.TimelineRecord) {
	rec.ID = strings.TrimSpace(rec.ID)
	rec.Date = strings.TrimSpace(rec.Date)
	rec.Title = strings.TrimSpace(rec.Title)
	rec.Description = strings.TrimSpace(rec.Description)
	rec.Category = strings.ToLower(strings.TrimSpace(rec.Category))
	rec.Impact = strings.TrimSpace(rec.Impact)
	rec.Achievement = strings.TrimSpace(rec.Achievement)
}

// Validate checks the fields a record needs to be placed on the timeline.
func Validate(rec *models.TimelineRecord) error {
	var problems []string
	if rec.Title == "" {
		problems = append(problems, "title is required")
	}
	if rec.Description == "" {
		problems = append(problems, "description is required")
	}
	if _, err := timeline.ParseDate(rec.Date); err != nil {
		problems = append(problems, "date: "+err.Error())
	}
	for i, g := range rec.Gallery {
		if strings.TrimSpace(g.FilePath) == "" {
			problems = append(problems, fmt.Sprintf("gallery[%d].filePath is required", i))
		}
	}
	if rec.Testimonial != nil && strings.TrimSpace(rec.Testimonial.Quote) == "" {
		problems = append(problems, "testimonial.quote is required")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", interfaces.ErrInvalidInput, strings.Join(problems, "; "))
	}
	return nil
}
