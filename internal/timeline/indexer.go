package timeline

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/bobmcallan/andolan/internal/models"
)

// DefaultCategoryIcon is used for categories without a dedicated icon.
const DefaultCategoryIcon = "Tag"

// AllCategoriesLabel labels the synthetic "all" category option.
const AllCategoriesLabel = "All Categories"

var categoryIcons = map[string]string{
	models.FilterAll:             "Grid3X3",
	"achievements":               "Trophy",
	"programs":                   "BookOpen",
	"partnerships":               "Handshake",
	"policy changes":             "FileText",
	"upcoming projects":          "Rocket",
	models.CategoryUncategorized: DefaultCategoryIcon,
}

// Index is the derived category, achievement and decade data of an entry set.
type Index struct {
	Categories   []models.CategoryOption
	Achievements []string
	Decades      []models.DecadeBucket
}

// BuildIndex derives the index of entries. It is a pure function of its input.
func BuildIndex(entries []models.TimelineEntry) Index {
	return Index{
		Categories:   Categories(entries),
		Achievements: Achievements(entries),
		Decades:      Decades(entries),
	}
}

// Decade returns the bucket with the given value.
func (ix Index) Decade(value string) (models.DecadeBucket, bool) {
	return findDecade(ix.Decades, value)
}

func findDecade(decades []models.DecadeBucket, value string) (models.DecadeBucket, bool) {
	for _, d := range decades {
		if d.Value == value {
			return d, true
		}
	}
	return models.DecadeBucket{}, false
}

// Categories lists the distinct categories of entries, "all" first, then in
// first-seen order.
func Categories(entries []models.TimelineEntry) []models.CategoryOption {
	seen := map[string]bool{models.FilterAll: true}
	values := []string{models.FilterAll}
	for _, e := range entries {
		if e.Category == "" || seen[e.Category] {
			continue
		}
		seen[e.Category] = true
		values = append(values, e.Category)
	}

	options := make([]models.CategoryOption, len(values))
	for i, v := range values {
		options[i] = models.CategoryOption{
			Value: v,
			Label: CategoryLabel(v),
			Icon:  CategoryIcon(v),
		}
	}
	return options
}

// CategoryIcon returns the icon name for a category.
func CategoryIcon(category string) string {
	if icon, ok := categoryIcons[strings.ToLower(category)]; ok {
		return icon
	}
	return DefaultCategoryIcon
}

// CategoryLabel returns the human label of a category: the first letter
// upper-cased, the rest unchanged.
func CategoryLabel(category string) string {
	if category == models.FilterAll {
		return AllCategoriesLabel
	}
	r, size := utf8.DecodeRuneInString(category)
	if r == utf8.RuneError {
		return category
	}
	return string(unicode.ToUpper(r)) + category[size:]
}

// Achievements lists the distinct non-empty achievement values, "all" first,
// then in first-seen order.
func Achievements(entries []models.TimelineEntry) []string {
	seen := map[string]bool{models.FilterAll: true}
	values := []string{models.FilterAll}
	for _, e := range entries {
		if e.Achievement == "" || seen[e.Achievement] {
			continue
		}
		seen[e.Achievement] = true
		values = append(values, e.Achievement)
	}
	return values
}

// Decades buckets the years of entries into 10-year spans between the
// decades of the minimum and maximum year. Only populated buckets are
// returned, in ascending order.
func Decades(entries []models.TimelineEntry) []models.DecadeBucket {
	if len(entries) == 0 {
		return []models.DecadeBucket{}
	}

	present := make(map[int]bool)
	minYear, maxYear := entries[0].Year, entries[0].Year
	for _, e := range entries {
		present[e.Year] = true
		if e.Year < minYear {
			minYear = e.Year
		}
		if e.Year > maxYear {
			maxYear = e.Year
		}
	}

	years := make([]int, 0, len(present))
	for y := range present {
		years = append(years, y)
	}
	sort.Ints(years)

	buckets := []models.DecadeBucket{}
	for start := decadeStart(minYear); start <= decadeStart(maxYear); start += 10 {
		var inSpan []int
		for _, y := range years {
			if y >= start && y < start+10 {
				inSpan = append(inSpan, y)
			}
		}
		if len(inSpan) == 0 {
			continue
		}
		buckets = append(buckets, models.DecadeBucket{
			Value: DecadeValue(start),
			Label: fmt.Sprintf("%d-%d", start, start+9),
			Start: start,
			Years: inSpan,
		})
	}
	return buckets
}

// DecadeValue returns the bucket value for a decade start, e.g. "1990s".
func DecadeValue(start int) string {
	return fmt.Sprintf("%ds", start)
}

// decadeStart is floor(year/10)*10, also for negative years.
func decadeStart(year int) int {
	d := year / 10
	if year%10 < 0 {
		d--
	}
	return d * 10
}
