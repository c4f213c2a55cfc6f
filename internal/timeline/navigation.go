package timeline

import (
	"errors"
	"sync"

	"github.com/bobmcallan/andolan/internal/models"
)

// ErrUnknownDecade is returned when jumping to a decade with no bucket.
var ErrUnknownDecade = errors.New("unknown decade")

// Direction is a navigation direction.
type Direction int

const (
	Previous Direction = iota
	Next
)

func (d Direction) String() string {
	if d == Previous {
		return "previous"
	}
	return "next"
}

// Controller owns the selection state of a loaded timeline: the active
// filters, the filtered year grouping and the selected (year, item).
//
// A filter change resets the item index to 0. When the selected year is no
// longer part of the filtered grouping the selection moves to the first
// remaining year, or is cleared if nothing remains; a selection cleared this
// way is restored to the first year by the next filter change that yields
// data. A selection the user cleared stays cleared.
type Controller struct {
	mu sync.Mutex

	entries  []models.TimelineEntry
	index    Index
	filters  models.FilterTriple
	filtered []models.TimelineEntry
	grouping Grouping

	year        int
	hasYear     bool
	item        int
	autoCleared bool

	renderer AfterRenderer
	onScroll func(ScrollRequest)
	onChange func()
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithScroller delivers scroll requests to fn after the next render, as
// scheduled by r.
func WithScroller(r AfterRenderer, fn func(ScrollRequest)) ControllerOption {
	return func(c *Controller) {
		c.renderer = r
		c.onScroll = fn
	}
}

// WithChangeHook calls fn after every state change.
func WithChangeHook(fn func()) ControllerOption {
	return func(c *Controller) {
		c.onChange = fn
	}
}

// NewController creates a controller over entries, which must be sorted by
// year as Normalize returns them. The first year is selected.
func NewController(entries []models.TimelineEntry, opts ...ControllerOption) *Controller {
	c := &Controller{}
	for _, opt := range opts {
		opt(c)
	}
	c.reset(entries)
	return c
}

// SetEntries replaces the entry set, resets the filters and selects the
// first year.
func (c *Controller) SetEntries(entries []models.TimelineEntry) {
	c.mu.Lock()
	c.reset(entries)
	c.mu.Unlock()
	c.emit(true, nil)
}

func (c *Controller) reset(entries []models.TimelineEntry) {
	c.entries = entries
	c.index = BuildIndex(entries)
	c.filters = models.DefaultFilters()
	c.regroup()
	c.item = 0
	c.autoCleared = false
	c.hasYear = c.grouping.Len() > 0
	if c.hasYear {
		c.year = c.grouping.years[0]
	}
}

func (c *Controller) regroup() {
	c.filtered, c.grouping = Apply(c.entries, c.filters, c.index.Decades)
}

// emit runs the change hook and schedules the scroll request. It must be
// called without holding mu.
func (c *Controller) emit(changed bool, scroll *ScrollRequest) {
	if scroll != nil && c.renderer != nil && c.onScroll != nil {
		req := *scroll
		c.renderer.AfterRender(func() { c.onScroll(req) })
	}
	if changed && c.onChange != nil {
		c.onChange()
	}
}

// SelectYear handles a click on a year. Selecting a different year selects
// its first item. Re-selecting the current year cycles through its items,
// or clears the selection when it has a single item. Years absent from the
// filtered grouping are ignored.
func (c *Controller) SelectYear(year int) bool {
	c.mu.Lock()
	changed, scroll := c.selectYear(year)
	c.mu.Unlock()
	c.emit(changed, scroll)
	return changed
}

func (c *Controller) selectYear(year int) (bool, *ScrollRequest) {
	if !c.grouping.Has(year) {
		return false, nil
	}
	c.autoCleared = false
	if c.hasYear && c.year == year {
		if n := c.grouping.Count(year); n > 1 {
			c.item = (c.item + 1) % n
			return true, nil
		}
		c.hasYear = false
		c.item = 0
		return true, nil
	}
	c.year = year
	c.hasYear = true
	c.item = 0
	return true, &ScrollRequest{Year: year, Align: AlignNearest}
}

// Navigate moves one item in dir, crossing into the adjacent year when the
// current year is exhausted. Moving back into a year lands on its last item;
// moving forward lands on its first. It reports whether the selection moved.
func (c *Controller) Navigate(dir Direction) bool {
	c.mu.Lock()
	changed, scroll := c.navigate(dir)
	c.mu.Unlock()
	c.emit(changed, scroll)
	return changed
}

func (c *Controller) navigate(dir Direction) (bool, *ScrollRequest) {
	if !c.hasYear {
		return false, nil
	}
	pos := c.grouping.IndexOf(c.year)
	if pos < 0 {
		return false, nil
	}
	count := c.grouping.Count(c.year)
	years := c.grouping.years

	switch dir {
	case Previous:
		if count > 1 && c.item > 0 {
			c.item--
			return true, nil
		}
		if pos == 0 {
			return false, nil
		}
		c.year = years[pos-1]
		c.item = c.grouping.Count(c.year) - 1
	case Next:
		if count > 1 && c.item < count-1 {
			c.item++
			return true, nil
		}
		if pos == len(years)-1 {
			return false, nil
		}
		c.year = years[pos+1]
		c.item = 0
	default:
		return false, nil
	}
	return true, &ScrollRequest{Year: c.year, Align: AlignNearest}
}

// CanNavigate reports whether Navigate(dir) would move the selection.
func (c *Controller) CanNavigate(dir Direction) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.hasYear {
		return false
	}
	pos := c.grouping.IndexOf(c.year)
	if pos < 0 {
		return false
	}
	count := c.grouping.Count(c.year)
	if dir == Previous {
		return (count > 1 && c.item > 0) || pos > 0
	}
	return (count > 1 && c.item < count-1) || pos < c.grouping.Len()-1
}

// JumpToDecade applies the decade filter and selects the first year of the
// decade, centering it. An empty value clears the decade filter and selects
// the first year of the resulting grouping.
func (c *Controller) JumpToDecade(value string) error {
	c.mu.Lock()
	if value != "" {
		if _, ok := c.index.Decade(value); !ok {
			c.mu.Unlock()
			return ErrUnknownDecade
		}
	}

	prevYear, prevHas := c.year, c.hasYear
	c.filters.Decade = value
	c.regroup()
	c.item = 0
	c.autoCleared = false
	c.hasYear = c.grouping.Len() > 0
	if c.hasYear {
		c.year = c.grouping.years[0]
	} else {
		c.autoCleared = true
	}

	var scroll *ScrollRequest
	if c.hasYear && (!prevHas || prevYear != c.year || value != "") {
		scroll = &ScrollRequest{Year: c.year, Align: AlignCenter}
	}
	c.mu.Unlock()

	c.emit(true, scroll)
	return nil
}

// SetCategory applies the category filter.
func (c *Controller) SetCategory(category string) {
	if category == "" {
		category = models.FilterAll
	}
	c.updateFilters(func(f *models.FilterTriple) { f.Category = category })
}

// SetAchievement applies the achievement filter.
func (c *Controller) SetAchievement(achievement string) {
	if achievement == "" {
		achievement = models.FilterAll
	}
	c.updateFilters(func(f *models.FilterTriple) { f.Achievement = achievement })
}

// ClearFilters resets every filter to its default.
func (c *Controller) ClearFilters() {
	c.updateFilters(func(f *models.FilterTriple) { *f = models.DefaultFilters() })
}

func (c *Controller) updateFilters(mutate func(*models.FilterTriple)) {
	c.mu.Lock()
	mutate(&c.filters)
	c.regroup()
	c.item = 0

	var scroll *ScrollRequest
	switch {
	case c.grouping.Len() == 0:
		if c.hasYear {
			c.hasYear = false
			c.autoCleared = true
		}
	case c.hasYear && !c.grouping.Has(c.year), !c.hasYear && c.autoCleared:
		c.year = c.grouping.years[0]
		c.hasYear = true
		c.autoCleared = false
		scroll = &ScrollRequest{Year: c.year, Align: AlignNearest}
	}
	c.mu.Unlock()

	c.emit(true, scroll)
}

// Selection returns a snapshot of the selection state.
func (c *Controller) Selection() models.SelectionState {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := models.SelectionState{
		SelectedItemIndex: c.item,
		Filters:           c.filters,
	}
	if c.hasYear {
		y := c.year
		s.SelectedYear = &y
	}
	return s
}

// SelectedYear returns the selected year, if any.
func (c *Controller) SelectedYear() (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.year, c.hasYear
}

// Current returns the selected entry.
func (c *Controller) Current() (models.TimelineEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.hasYear {
		return models.TimelineEntry{}, false
	}
	entries := c.grouping.Entries(c.year)
	if c.item < 0 || c.item >= len(entries) {
		return models.TimelineEntry{}, false
	}
	return entries[c.item], true
}

// Filters returns the active filter triple.
func (c *Controller) Filters() models.FilterTriple {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filters
}

// Entries returns every loaded entry.
func (c *Controller) Entries() []models.TimelineEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries
}

// Filtered returns the entries that pass the active filters.
func (c *Controller) Filtered() []models.TimelineEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.TimelineEntry, len(c.filtered))
	copy(out, c.filtered)
	return out
}

// Grouping returns the filtered year grouping. It must be treated as read-only.
func (c *Controller) Grouping() Grouping {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.grouping
}

// Index returns the category, achievement and decade index.
func (c *Controller) Index() Index {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index
}

// Progress is the position of the selected year's first entry among all
// loaded entries, as a percentage. It is 0 without a selection.
func (c *Controller) Progress() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.hasYear || len(c.entries) == 0 {
		return 0
	}
	for i, e := range c.entries {
		if e.Year == c.year {
			return float64(i+1) / float64(len(c.entries)) * 100
		}
	}
	return 0
}
