package timeline

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/andolan/internal/models"
)

var testCategories = []string{"programs", "achievements", "partnerships", "policy changes"}

func TestFilter_AllPassesEverything(t *testing.T) {
	entries := navFixture()
	got := Filter(entries, models.DefaultFilters(), Decades(entries))
	assert.Equal(t, entries, got)
}

func TestFilter_Conjunction(t *testing.T) {
	entries := []models.TimelineEntry{
		{ID: "a", Year: 2003, Category: "programs", Achievement: "award"},
		{ID: "b", Year: 2008, Category: "programs"},
		{ID: "c", Year: 2012, Category: "programs", Achievement: "award"},
		{ID: "d", Year: 2004, Category: "achievements", Achievement: "award"},
	}
	decades := Decades(entries)

	got := Filter(entries, models.FilterTriple{Category: "programs", Achievement: "award", Decade: "2000s"}, decades)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)
}

func TestFilter_UnknownDecadeMatchesNothing(t *testing.T) {
	entries := navFixture()
	got := Filter(entries, models.FilterTriple{Category: "all", Achievement: "all", Decade: "1800s"}, Decades(entries))
	assert.Empty(t, got)
}

func TestFilter_UnknownCategoryMatchesNothing(t *testing.T) {
	entries := navFixture()
	got := Filter(entries, models.FilterTriple{Category: "sports", Achievement: "all"}, Decades(entries))
	assert.Empty(t, got)
}

func TestGroup_SortedYearsKeepEntryOrder(t *testing.T) {
	entries := []models.TimelineEntry{
		entry("x", 2009, ""),
		entry("y1", 2005, ""),
		entry("y2", 2005, ""),
	}
	g := Group(entries)

	assert.Equal(t, []int{2005, 2009}, g.Years())
	assert.Equal(t, 2, g.Count(2005))
	assert.Equal(t, "y1", g.Entries(2005)[0].ID)
	assert.Equal(t, "y2", g.Entries(2005)[1].ID)
	assert.True(t, g.Has(2009))
	assert.False(t, g.Has(2010))
	assert.Equal(t, 1, g.IndexOf(2009))
	assert.Equal(t, -1, g.IndexOf(2007))
}

func TestGroup_YearsIsACopy(t *testing.T) {
	g := Group(navFixture())
	years := g.Years()
	years[0] = 1900
	assert.Equal(t, 2001, g.Years()[0])
}

func TestGroups_FlagsKeyMilestone(t *testing.T) {
	entries := navFixture()
	entries[2].IsKeyMilestone = true

	groups := Group(entries).Groups()
	require.Len(t, groups, 3)
	assert.False(t, groups[0].HasKeyMilestone)
	assert.True(t, groups[1].HasKeyMilestone)
	assert.Len(t, groups[1].Entries, 2)
}

func TestFilter_Properties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	yearsGen := gen.SliceOf(gen.IntRange(1990, 2029))
	categoryGen := gen.OneConstOf("all", "programs", "achievements", "partnerships", "policy changes")
	decadeGen := gen.OneConstOf("", "1990s", "2000s", "2010s", "2020s")

	properties.Property("filtering is idempotent", prop.ForAll(
		func(years []int, category, decade string) bool {
			entries := entriesForYears(years, testCategories)
			decades := Decades(entries)
			f := models.FilterTriple{Category: category, Achievement: models.FilterAll, Decade: decade}
			once := Filter(entries, f, decades)
			twice := Filter(once, f, decades)
			return cmp.Equal(once, twice)
		},
		yearsGen, categoryGen, decadeGen,
	))

	properties.Property("every filtered entry satisfies every predicate", prop.ForAll(
		func(years []int, category, decade string) bool {
			entries := entriesForYears(years, testCategories)
			decades := Decades(entries)
			f := models.FilterTriple{Category: category, Achievement: models.FilterAll, Decade: decade}
			bucket, hasBucket := findDecade(decades, decade)
			for _, e := range Filter(entries, f, decades) {
				if category != models.FilterAll && e.Category != category {
					return false
				}
				if decade != "" && (!hasBucket || !bucket.Contains(e.Year)) {
					return false
				}
			}
			return true
		},
		yearsGen, categoryGen, decadeGen,
	))

	properties.Property("grouping years are sorted and distinct", prop.ForAll(
		func(years []int) bool {
			g := Group(entriesForYears(years, nil))
			ys := g.Years()
			for i := 1; i < len(ys); i++ {
				if ys[i] <= ys[i-1] {
					return false
				}
			}
			total := 0
			for _, y := range ys {
				total += g.Count(y)
			}
			return total == len(years)
		},
		yearsGen,
	))

	properties.TestingRun(t)
}
