package timeline

import (
	"fmt"

	"github.com/bobmcallan/andolan/internal/models"
)

func entry(id string, year int, category string) models.TimelineEntry {
	return models.TimelineEntry{
		ID:       id,
		Year:     year,
		Title:    id,
		Category: category,
	}
}

func record(id, date, category string) models.TimelineRecord {
	return models.TimelineRecord{
		ID:       id,
		Date:     date,
		Title:    "Milestone " + id,
		Category: category,
	}
}

// navFixture has years 2001, 2005, 2009 with 1, 2 and 1 entries.
func navFixture() []models.TimelineEntry {
	return []models.TimelineEntry{
		entry("a", 2001, "programs"),
		entry("b1", 2005, "programs"),
		entry("b2", 2005, "achievements"),
		entry("c", 2009, "partnerships"),
	}
}

func yearsOf(entries []models.TimelineEntry) []int {
	out := make([]int, len(entries))
	for i, e := range entries {
		out[i] = e.Year
	}
	return out
}

func entriesForYears(years []int, categories []string) []models.TimelineEntry {
	out := make([]models.TimelineEntry, len(years))
	for i, y := range years {
		cat := models.CategoryUncategorized
		if len(categories) > 0 {
			cat = categories[i%len(categories)]
		}
		out[i] = entry(fmt.Sprintf("e%d", i), y, cat)
	}
	return out
}
