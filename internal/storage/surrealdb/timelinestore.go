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

// timelineSelectFields lists the stored fields; record_id carries the public id
// so it does not collide with the SurrealDB record id.
const timelineSelectFields = `record_id, date, title, description, category, impact,
	achievement, gallery, is_key_milestone, testimonial, created_at, updated_at`

type timelineRow struct {
	RecordID       string               `json:"record_id"`
	Date           string               `json:"date"`
	Title          string               `json:"title"`
	Description    string               `json:"description"`
	Category       string               `json:"category"`
	Impact         string               `json:"impact"`
	Achievement    string               `json:"achievement"`
	Gallery        []models.GalleryItem `json:"gallery"`
	IsKeyMilestone bool                 `json:"is_key_milestone"`
	Testimonial    *models.Testimonial  `json:"testimonial"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
}

func (r timelineRow) record() models.TimelineRecord {
	return models.TimelineRecord{
		ID:             r.RecordID,
		Date:           r.Date,
		Title:          r.Title,
		Description:    r.Description,
		Category:       r.Category,
		Impact:         r.Impact,
		Achievement:    r.Achievement,
		Gallery:        r.Gallery,
		IsKeyMilestone: r.IsKeyMilestone,
		Testimonial:    r.Testimonial,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

// TimelineStore implements interfaces.TimelineStore using SurrealDB.
type TimelineStore struct {
	db     *surrealdb.DB
	logger *common.Logger
	ownsDB bool
}

// NewTimelineStore creates a TimelineStore on an open connection.
func NewTimelineStore(db *surrealdb.DB, logger *common.Logger) *TimelineStore {
	return &TimelineStore{db: db, logger: logger}
}

func (s *TimelineStore) List(ctx context.Context) ([]models.TimelineRecord, error) {
	sql := "SELECT " + timelineSelectFields + " FROM " + timelineTable + " ORDER BY date ASC, record_id ASC"
	results, err := surrealdb.Query[[]timelineRow](ctx, s.db, sql, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list timeline records: %w", err)
	}

	records := []models.TimelineRecord{}
	if results == nil || len(*results) == 0 {
		return records, nil
	}
	for _, row := range (*results)[0].Result {
		records = append(records, row.record())
	}
	return records, nil
}

func (s *TimelineStore) Get(ctx context.Context, id string) (*models.TimelineRecord, error) {
	sql := "SELECT " + timelineSelectFields + " FROM $rid"
	vars := map[string]any{
		"rid": surrealmodels.NewRecordID(timelineTable, id),
	}

	results, err := surrealdb.Query[[]timelineRow](ctx, s.db, sql, vars)
	if err != nil {
		if isNotFoundError(err) {
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get timeline record: %w", err)
	}
	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, interfaces.ErrNotFound
	}
	rec := (*results)[0].Result[0].record()
	return &rec, nil
}

func (s *TimelineStore) Save(ctx context.Context, rec *models.TimelineRecord) error {
	if rec.ID == "" {
		return fmt.Errorf("%w: record id is required", interfaces.ErrInvalidInput)
	}
	now := time.Now().UTC()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now

	gallery := rec.Gallery
	if gallery == nil {
		gallery = []models.GalleryItem{}
	}

	sql := `UPSERT $rid SET
		record_id = $record_id, date = $date, title = $title, description = $description,
		category = $category, impact = $impact, achievement = $achievement,
		gallery = $gallery, is_key_milestone = $is_key_milestone, testimonial = $testimonial,
		created_at = $created_at, updated_at = $updated_at`
	vars := map[string]any{
		"rid":              surrealmodels.NewRecordID(timelineTable, rec.ID),
		"record_id":        rec.ID,
		"date":             rec.Date,
		"title":            rec.Title,
		"description":      rec.Description,
		"category":         rec.Category,
		"impact":           rec.Impact,
		"achievement":      rec.Achievement,
		"gallery":          gallery,
		"is_key_milestone": rec.IsKeyMilestone,
		"testimonial":      rec.Testimonial,
		"created_at":       rec.CreatedAt,
		"updated_at":       rec.UpdatedAt,
	}

	if _, err := surrealdb.Query[any](ctx, s.db, sql, vars); err != nil {
		return fmt.Errorf("failed to save timeline record: %w", err)
	}
	return nil
}

func (s *TimelineStore) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	sql := "DELETE $rid"
	vars := map[string]any{"rid": surrealmodels.NewRecordID(timelineTable, id)}
	if _, err := surrealdb.Query[any](ctx, s.db, sql, vars); err != nil {
		return fmt.Errorf("failed to delete timeline record: %w", err)
	}
	return nil
}

// Backend returns "surrealdb".
func (s *TimelineStore) Backend() string {
	return "surrealdb"
}

// Close closes the connection when the store opened it.
func (s *TimelineStore) Close() error {
	if s.ownsDB {
		s.db.Close(context.Background())
	}
	return nil
}

// Compile-time check
var _ interfaces.TimelineStore = (*TimelineStore)(nil)
