package timeline

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/bobmcallan/andolan/internal/models"
)

func staticSource(records ...models.TimelineRecord) Source {
	return SourceFunc(func(ctx context.Context) ([]models.TimelineRecord, error) {
		return records, nil
	})
}

// blockingSource blocks until its context is cancelled or release is closed.
type blockingSource struct {
	started chan struct{}
	release chan struct{}
	records []models.TimelineRecord
	calls   atomic.Int32
}

func newBlockingSource(records ...models.TimelineRecord) *blockingSource {
	return &blockingSource{
		started: make(chan struct{}, 8),
		release: make(chan struct{}),
		records: records,
	}
}

func (b *blockingSource) ListRecords(ctx context.Context) ([]models.TimelineRecord, error) {
	b.calls.Add(1)
	b.started <- struct{}{}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-b.release:
		return b.records, nil
	}
}

func waitLoaded(t *testing.T, p *Page) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, p.Wait(ctx))
}

func TestPage_MountLoadsAndBindsKeys(t *testing.T) {
	defer goleak.VerifyNone(t)

	bus := NewKeyBus()
	p := NewPage(NewLoader(staticSource(
		record("b", "2015-01-01", "programs"),
		record("a", "2003-01-01", "programs"),
	)), WithKeySource(bus))

	assert.Equal(t, StateLoading, p.State())
	p.Mount(context.Background())
	waitLoaded(t, p)

	require.Equal(t, StateReady, p.State())
	ctrl := p.Controller()
	require.NotNil(t, ctrl)
	year, ok := ctrl.SelectedYear()
	require.True(t, ok)
	assert.Equal(t, 2003, year)

	bus.Publish(KeyArrowRight)
	year, _ = ctrl.SelectedYear()
	assert.Equal(t, 2015, year)

	p.Unmount()
	assert.Equal(t, 0, bus.Len())
	assert.False(t, p.Mounted())
}

func TestPage_FetchFailure(t *testing.T) {
	defer goleak.VerifyNone(t)

	p := NewPage(NewLoader(SourceFunc(func(ctx context.Context) ([]models.TimelineRecord, error) {
		return nil, errors.New("502 bad gateway")
	})))
	p.Mount(context.Background())
	waitLoaded(t, p)

	assert.Equal(t, StateError, p.State())
	assert.ErrorIs(t, p.Err(), ErrFetchFailed)
	assert.Nil(t, p.Controller())
	p.Unmount()
}

func TestPage_Empty(t *testing.T) {
	defer goleak.VerifyNone(t)

	p := NewPage(NewLoader(staticSource()))
	p.Mount(context.Background())
	waitLoaded(t, p)

	assert.Equal(t, StateEmpty, p.State())
	assert.NoError(t, p.Err())
	p.Unmount()
}

func TestPage_EmptyFiltered(t *testing.T) {
	defer goleak.VerifyNone(t)

	p := NewPage(NewLoader(staticSource(record("a", "2003-01-01", "programs"))))
	p.Mount(context.Background())
	waitLoaded(t, p)

	p.Controller().SetCategory("partnerships")
	assert.Equal(t, StateEmptyFiltered, p.State())

	p.Controller().ClearFilters()
	assert.Equal(t, StateReady, p.State())
	p.Unmount()
}

func TestPage_UnmountCancelsInFlightLoad(t *testing.T) {
	defer goleak.VerifyNone(t)

	src := newBlockingSource(record("a", "2003-01-01", "programs"))
	bus := NewKeyBus()
	p := NewPage(NewLoader(src), WithKeySource(bus))
	p.Mount(context.Background())
	<-src.started

	p.Unmount()
	assert.Equal(t, 0, bus.Len())
	assert.Nil(t, p.Controller(), "late result must be discarded")
	assert.Equal(t, StateLoading, p.State())
}

func TestPage_ReloadDiscardsStaleLoad(t *testing.T) {
	defer goleak.VerifyNone(t)

	src := newBlockingSource(record("a", "2003-01-01", "programs"))
	p := NewPage(NewLoader(src))
	p.Mount(context.Background())
	<-src.started

	p.Reload(context.Background())
	<-src.started
	close(src.release)
	waitLoaded(t, p)

	assert.Equal(t, int32(2), src.calls.Load())
	assert.Equal(t, StateReady, p.State())
	p.Unmount()
}

func TestPage_ReloadRetriesAfterError(t *testing.T) {
	defer goleak.VerifyNone(t)

	var fail atomic.Bool
	fail.Store(true)
	src := SourceFunc(func(ctx context.Context) ([]models.TimelineRecord, error) {
		if fail.Load() {
			return nil, errors.New("timeout")
		}
		return []models.TimelineRecord{record("a", "2003-01-01", "programs")}, nil
	})

	p := NewPage(NewLoader(src))
	p.Mount(context.Background())
	waitLoaded(t, p)
	require.Equal(t, StateError, p.State())

	fail.Store(false)
	p.Reload(context.Background())
	waitLoaded(t, p)
	assert.Equal(t, StateReady, p.State())
	assert.NoError(t, p.Err())
	p.Unmount()
}

func TestPage_MountTwiceAndUnmountTwice(t *testing.T) {
	defer goleak.VerifyNone(t)

	var loads atomic.Int32
	src := SourceFunc(func(ctx context.Context) ([]models.TimelineRecord, error) {
		loads.Add(1)
		return nil, nil
	})
	p := NewPage(NewLoader(src))
	p.Mount(context.Background())
	p.Mount(context.Background())
	waitLoaded(t, p)
	assert.Equal(t, int32(1), loads.Load())

	p.Unmount()
	assert.NotPanics(t, p.Unmount)

	p.Reload(context.Background())
	assert.Equal(t, int32(1), loads.Load(), "reload of an unmounted page is ignored")
}

func TestPage_ChangeHookFires(t *testing.T) {
	defer goleak.VerifyNone(t)

	var changes atomic.Int32
	p := NewPage(NewLoader(staticSource(
		record("a", "2003-01-01", "programs"),
		record("b", "2004-01-01", "programs"),
	)), WithPageChangeHook(func() { changes.Add(1) }))

	p.Mount(context.Background())
	waitLoaded(t, p)
	before := changes.Load()
	assert.GreaterOrEqual(t, before, int32(2))

	p.Controller().Navigate(Next)
	assert.Equal(t, before+1, changes.Load())
	p.Unmount()
}
