package timeline

import "github.com/bobmcallan/andolan/internal/models"

// ViewState is the terminal state a timeline view renders.
type ViewState int

const (
	StateLoading ViewState = iota
	StateError
	StateEmpty
	StateEmptyFiltered
	StateReady
)

func (s ViewState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateError:
		return "error"
	case StateEmpty:
		return "empty"
	case StateEmptyFiltered:
		return "empty_filtered"
	case StateReady:
		return "ready"
	default:
		return "unknown"
	}
}

// BuildView computes the full view of entries under filters.
func BuildView(entries []models.TimelineEntry, filters models.FilterTriple) models.TimelineView {
	if filters.Category == "" {
		filters.Category = models.FilterAll
	}
	if filters.Achievement == "" {
		filters.Achievement = models.FilterAll
	}

	ix := BuildIndex(entries)
	filtered, grouping := Apply(entries, filters, ix.Decades)

	state := StateReady
	switch {
	case len(entries) == 0:
		state = StateEmpty
	case len(filtered) == 0:
		state = StateEmptyFiltered
	}

	if entries == nil {
		entries = []models.TimelineEntry{}
	}

	return models.TimelineView{
		Entries:      entries,
		Categories:   ix.Categories,
		Achievements: ix.Achievements,
		Decades:      ix.Decades,
		Filters:      filters,
		Years:        grouping.Years(),
		Groups:       grouping.Groups(),
		State:        state.String(),
	}
}
