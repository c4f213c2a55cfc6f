package models

import (
	"sort"
	"time"
)

// TimelineRecord is one raw milestone as served by the timeline listing
// endpoint. Field names follow the public API (camelCase, Mongo-style _id).
type TimelineRecord struct {
	ID             string        `json:"_id"`
	Date           string        `json:"date"`
	Title          string        `json:"title"`
	Description    string        `json:"description"`
	Category       string        `json:"category,omitempty"`
	Impact         string        `json:"impact,omitempty"`
	Achievement    string        `json:"achievement,omitempty"`
	Gallery        []GalleryItem `json:"gallery,omitempty"`
	IsKeyMilestone bool          `json:"isKeyMilestone,omitempty"`
	Testimonial    *Testimonial  `json:"testimonial,omitempty"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
}

// GalleryItem is an uploaded image attached to a record.
type GalleryItem struct {
	FilePath string `json:"filePath"`
	Caption  string `json:"caption,omitempty"`
}

// Testimonial is an optional quote shown alongside a milestone.
type Testimonial struct {
	Quote       string `json:"quote"`
	Author      string `json:"author"`
	Designation string `json:"designation,omitempty"`
}

// TimelineEntry is a normalized, display-ready record. Entries are
// immutable once loaded.
type TimelineEntry struct {
	ID             string       `json:"id"`
	Year           int          `json:"year"`
	Date           time.Time    `json:"date"`
	DisplayDate    string       `json:"display_date"`
	Title          string       `json:"title"`
	Description    string       `json:"description"`
	Category       string       `json:"category"`
	Impact         string       `json:"impact"`
	Achievement    string       `json:"achievement"`
	Images         []string     `json:"images"`
	IsKeyMilestone bool         `json:"is_key_milestone"`
	Testimonial    *Testimonial `json:"testimonial,omitempty"`
}

// CategoryOption is one entry of the category filter.
type CategoryOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Icon  string `json:"icon"`
}

// DecadeBucket groups the years present in the data into a 10-year span.
type DecadeBucket struct {
	Value string `json:"value"` // e.g. "1990s"
	Label string `json:"label"` // e.g. "1990-1999"
	Start int    `json:"start"`
	Years []int  `json:"years"` // ascending, no duplicates
}

// Contains reports whether year is one of the bucket's populated years.
func (b DecadeBucket) Contains(year int) bool {
	i := sort.SearchInts(b.Years, year)
	return i < len(b.Years) && b.Years[i] == year
}

// Filter sentinel values.
const (
	FilterAll             = "all"
	CategoryUncategorized = "uncategorized"
)

// FilterTriple is the (category, achievement, decade) combination applied
// to the entry set. An empty Decade means no decade filter.
type FilterTriple struct {
	Category    string `json:"category"`
	Achievement string `json:"achievement"`
	Decade      string `json:"decade,omitempty"`
}

// DefaultFilters returns the triple that matches every entry.
func DefaultFilters() FilterTriple {
	return FilterTriple{Category: FilterAll, Achievement: FilterAll}
}

// IsDefault reports whether the triple filters nothing out.
func (f FilterTriple) IsDefault() bool {
	return (f.Category == "" || f.Category == FilterAll) &&
		(f.Achievement == "" || f.Achievement == FilterAll) &&
		f.Decade == ""
}

// SelectionState is the currently displayed year and item within it.
type SelectionState struct {
	SelectedYear      *int         `json:"selected_year"`
	SelectedItemIndex int          `json:"selected_item_index"`
	Filters           FilterTriple `json:"filters"`
}

// YearGroup is the ordered set of filtered entries sharing one year.
type YearGroup struct {
	Year            int             `json:"year"`
	Entries         []TimelineEntry `json:"entries"`
	HasKeyMilestone bool            `json:"has_key_milestone"`
}

// TimelineView is the computed view served to presentation layers.
type TimelineView struct {
	Entries      []TimelineEntry  `json:"entries"`
	Categories   []CategoryOption `json:"categories"`
	Achievements []string         `json:"achievements"`
	Decades      []DecadeBucket   `json:"decades"`
	Filters      FilterTriple     `json:"filters"`
	Years        []int            `json:"years"`
	Groups       []YearGroup      `json:"groups"`
	State        string           `json:"state"`
}
