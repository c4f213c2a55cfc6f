package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/bobmcallan/andolan/internal/common"
	"github.com/bobmcallan/andolan/internal/interfaces"
	"github.com/bobmcallan/andolan/internal/models"
	"github.com/bobmcallan/andolan/internal/timeline"
)

// ImportTimelineFromFile reads a JSON array of raw timeline records (the
// listing endpoint's wire shape) and saves them. Records already present
// (by id), records without an id and records with an unparseable date are
// skipped. Returns (imported count, skipped count, error).
func ImportTimelineFromFile(ctx context.Context, store interfaces.TimelineStore, logger *common.Logger, filePath string) (int, int, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read timeline file %s: %w", filePath, err)
	}

	var records []models.TimelineRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return 0, 0, fmt.Errorf("failed to parse timeline file %s: %w", filePath, err)
	}

	imported, skipped := 0, 0
	for i := range records {
		rec := &records[i]
		rec.ID = strings.TrimSpace(rec.ID)
		if rec.ID == "" {
			skipped++
			continue
		}
		if _, err := timeline.ParseDate(rec.Date); err != nil {
			logger.Warn().Str("id", rec.ID).Str("date", rec.Date).Msg("Skipping record with unparseable date")
			skipped++
			continue
		}
		if _, err := store.Get(ctx, rec.ID); err == nil {
			skipped++
			continue
		} else if !errors.Is(err, interfaces.ErrNotFound) {
			return imported, skipped, fmt.Errorf("failed to check record %s: %w", rec.ID, err)
		}
		if err := store.Save(ctx, rec); err != nil {
			logger.Warn().Err(err).Str("id", rec.ID).Msg("Failed to save record during import")
			skipped++
			continue
		}
		imported++
	}
	return imported, skipped, nil
}
