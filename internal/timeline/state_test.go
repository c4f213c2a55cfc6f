package timeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/andolan/internal/models"
)

func TestViewState_String(t *testing.T) {
	assert.Equal(t, "loading", StateLoading.String())
	assert.Equal(t, "error", StateError.String())
	assert.Equal(t, "empty", StateEmpty.String())
	assert.Equal(t, "empty_filtered", StateEmptyFiltered.String())
	assert.Equal(t, "ready", StateReady.String())
	assert.Equal(t, "unknown", ViewState(42).String())
}

func TestBuildView_Ready(t *testing.T) {
	view := BuildView(navFixture(), models.FilterTriple{Category: "programs"})

	assert.Equal(t, "ready", view.State)
	assert.Equal(t, models.FilterAll, view.Filters.Achievement)
	assert.Equal(t, []int{2001, 2005}, view.Years)
	require.Len(t, view.Groups, 2)
	assert.Len(t, view.Entries, 4, "entries stay unfiltered")
	assert.Len(t, view.Categories, 4)
	require.Len(t, view.Decades, 1)
}

func TestBuildView_EmptyAndEmptyFiltered(t *testing.T) {
	empty := BuildView(nil, models.DefaultFilters())
	assert.Equal(t, "empty", empty.State)
	assert.NotNil(t, empty.Entries)
	assert.Empty(t, empty.Years)

	filtered := BuildView(navFixture(), models.FilterTriple{Category: "sports"})
	assert.Equal(t, "empty_filtered", filtered.State)
	assert.Empty(t, filtered.Groups)
}

func TestRenderQueue_FlushOrderAndReentry(t *testing.T) {
	q := &RenderQueue{}
	var calls []int
	q.AfterRender(func() { calls = append(calls, 1) })
	q.AfterRender(func() {
		calls = append(calls, 2)
		q.AfterRender(func() { calls = append(calls, 3) })
	})

	assert.Equal(t, 2, q.Flush())
	assert.Equal(t, []int{1, 2}, calls)
	assert.Equal(t, 1, q.Pending())

	assert.Equal(t, 1, q.Flush())
	assert.Equal(t, []int{1, 2, 3}, calls)
	assert.Equal(t, 0, q.Flush())
}

func TestAlign_String(t *testing.T) {
	assert.Equal(t, "nearest", AlignNearest.String())
	assert.Equal(t, "center", AlignCenter.String())
}
