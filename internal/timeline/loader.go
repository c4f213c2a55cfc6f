// Package timeline turns raw milestone records into a navigable, filterable
// timeline: normalization, category and decade indexing, filtering and the
// year/item selection state machine.
package timeline

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/bobmcallan/andolan/internal/common"
	"github.com/bobmcallan/andolan/internal/models"
)

// ErrFetchFailed wraps any failure of the initial record fetch.
var ErrFetchFailed = errors.New("timeline fetch failed")

// DisplayDateLayout renders dates as "January 2, 2006".
const DisplayDateLayout = "January 2, 2006"

// Source supplies raw timeline records. It is read once per load.
type Source interface {
	ListRecords(ctx context.Context) ([]models.TimelineRecord, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context) ([]models.TimelineRecord, error)

// ListRecords calls f.
func (f SourceFunc) ListRecords(ctx context.Context) ([]models.TimelineRecord, error) {
	return f(ctx)
}

// LoadResult is the outcome of a single load.
type LoadResult struct {
	Entries []models.TimelineEntry
	State   ViewState // StateReady, StateEmpty or StateError
	Err     error
}

// Loader fetches and normalizes timeline records.
type Loader struct {
	source   Source
	logger   *common.Logger
	location *time.Location
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithLoaderLogger sets the logger.
func WithLoaderLogger(logger *common.Logger) LoaderOption {
	return func(l *Loader) {
		l.logger = logger
	}
}

// WithLocation sets the time zone used to derive years and display dates.
func WithLocation(loc *time.Location) LoaderOption {
	return func(l *Loader) {
		if loc != nil {
			l.location = loc
		}
	}
}

// NewLoader creates a Loader reading from source.
func NewLoader(source Source, opts ...LoaderOption) *Loader {
	l := &Loader{
		source:   source,
		logger:   common.NewSilentLogger(),
		location: time.UTC,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load performs one fetch. There is no retry: a failed fetch yields an
// empty entry set and StateError.
func (l *Loader) Load(ctx context.Context) LoadResult {
	records, err := l.source.ListRecords(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return LoadResult{State: StateError, Err: ctx.Err()}
		}
		l.logger.Error().Err(err).Msg("Timeline fetch failed")
		return LoadResult{State: StateError, Err: fmt.Errorf("%w: %w", ErrFetchFailed, err)}
	}

	entries, skipped := Normalize(records, l.location)
	for _, s := range skipped {
		l.logger.Warn().Err(s).Msg("Skipping timeline record")
	}

	if len(entries) == 0 {
		l.logger.Debug().Int("records", len(records)).Msg("Timeline is empty")
		return LoadResult{Entries: []models.TimelineEntry{}, State: StateEmpty}
	}

	l.logger.Debug().Int("entries", len(entries)).Msg("Timeline loaded")
	return LoadResult{Entries: entries, State: StateReady}
}

// Normalize converts raw records into entries sorted ascending by year.
// The sort is stable, so records sharing a year keep their source order.
// Records whose date cannot be parsed are returned as errors and omitted.
func Normalize(records []models.TimelineRecord, loc *time.Location) ([]models.TimelineEntry, []error) {
	if loc == nil {
		loc = time.UTC
	}

	entries := make([]models.TimelineEntry, 0, len(records))
	var skipped []error
	for i, rec := range records {
		entry, err := NormalizeRecord(rec, i, loc)
		if err != nil {
			skipped = append(skipped, err)
			continue
		}
		entries = append(entries, entry)
	}

	sort.SliceStable(entries, func(a, b int) bool {
		return entries[a].Year < entries[b].Year
	})
	return entries, skipped
}

// NormalizeRecord converts the record at position idx of the response.
func NormalizeRecord(rec models.TimelineRecord, idx int, loc *time.Location) (models.TimelineEntry, error) {
	date, err := ParseDate(rec.Date)
	if err != nil {
		return models.TimelineEntry{}, fmt.Errorf("record %d (%q): %w", idx, rec.Title, err)
	}
	date = date.In(loc)

	id := rec.ID
	if id == "" {
		id = fmt.Sprintf("timeline-%d", idx)
	}

	category := rec.Category
	if category == "" {
		category = models.CategoryUncategorized
	}

	images := make([]string, 0, len(rec.Gallery))
	for _, g := range rec.Gallery {
		images = append(images, g.FilePath)
	}

	return models.TimelineEntry{
		ID:             id,
		Year:           date.Year(),
		Date:           date,
		DisplayDate:    date.Format(DisplayDateLayout),
		Title:          rec.Title,
		Description:    rec.Description,
		Category:       category,
		Impact:         rec.Impact,
		Achievement:    rec.Achievement,
		Images:         images,
		IsKeyMilestone: rec.IsKeyMilestone,
		Testimonial:    rec.Testimonial,
	}, nil
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDate parses the date formats the listing endpoint emits. Values
// without a zone are read as UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("missing date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}
