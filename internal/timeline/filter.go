package timeline

import (
	"sort"

	"github.com/bobmcallan/andolan/internal/models"
)

// Matches reports whether entry satisfies every predicate of f. An unknown
// decade matches nothing.
func Matches(entry models.TimelineEntry, f models.FilterTriple, decades []models.DecadeBucket) bool {
	if f.Category != "" && f.Category != models.FilterAll && entry.Category != f.Category {
		return false
	}
	if f.Achievement != "" && f.Achievement != models.FilterAll && entry.Achievement != f.Achievement {
		return false
	}
	if f.Decade != "" {
		bucket, ok := findDecade(decades, f.Decade)
		if !ok || !bucket.Contains(entry.Year) {
			return false
		}
	}
	return true
}

// Filter returns the entries matching f, in input order.
func Filter(entries []models.TimelineEntry, f models.FilterTriple, decades []models.DecadeBucket) []models.TimelineEntry {
	out := make([]models.TimelineEntry, 0, len(entries))
	for _, e := range entries {
		if Matches(e, f, decades) {
			out = append(out, e)
		}
	}
	return out
}

// Grouping maps each year to its entries and keeps the distinct years sorted.
type Grouping struct {
	byYear map[int][]models.TimelineEntry
	years  []int
}

// Group groups entries by year. Entries within a year keep input order.
func Group(entries []models.TimelineEntry) Grouping {
	g := Grouping{byYear: make(map[int][]models.TimelineEntry)}
	for _, e := range entries {
		if _, ok := g.byYear[e.Year]; !ok {
			g.years = append(g.years, e.Year)
		}
		g.byYear[e.Year] = append(g.byYear[e.Year], e)
	}
	sort.Ints(g.years)
	return g
}

// Apply filters entries and groups the result.
func Apply(entries []models.TimelineEntry, f models.FilterTriple, decades []models.DecadeBucket) ([]models.TimelineEntry, Grouping) {
	filtered := Filter(entries, f, decades)
	return filtered, Group(filtered)
}

// Years returns the distinct years in ascending order.
func (g Grouping) Years() []int {
	out := make([]int, len(g.years))
	copy(out, g.years)
	return out
}

// Len returns the number of distinct years.
func (g Grouping) Len() int {
	return len(g.years)
}

// Entries returns the entries of year.
func (g Grouping) Entries(year int) []models.TimelineEntry {
	return g.byYear[year]
}

// Count returns the number of entries in year.
func (g Grouping) Count(year int) int {
	return len(g.byYear[year])
}

// Has reports whether year is present.
func (g Grouping) Has(year int) bool {
	_, ok := g.byYear[year]
	return ok
}

// IndexOf returns the position of year in Years, or -1.
func (g Grouping) IndexOf(year int) int {
	i := sort.SearchInts(g.years, year)
	if i < len(g.years) && g.years[i] == year {
		return i
	}
	return -1
}

// Groups returns the grouping as an ordered slice.
func (g Grouping) Groups() []models.YearGroup {
	out := make([]models.YearGroup, 0, len(g.years))
	for _, y := range g.years {
		entries := g.byYear[y]
		key := false
		for _, e := range entries {
			if e.IsKeyMilestone {
				key = true
				break
			}
		}
		out = append(out, models.YearGroup{Year: y, Entries: entries, HasKeyMilestone: key})
	}
	return out
}
