package timeline

import (
	"context"
	"sync"

	"github.com/bobmcallan/andolan/internal/common"
)

// Page ties a timeline view to its lifetime: Mount starts the single fetch
// and attaches the key handler, Unmount cancels an in-flight fetch and
// detaches it. A fetch that completes after Unmount is discarded.
type Page struct {
	loader   *Loader
	keys     KeySource
	logger   *common.Logger
	ctrlOpts []ControllerOption
	onChange func()

	mu         sync.Mutex
	mounted    bool
	state      ViewState
	err        error
	ctrl       *Controller
	sub        *Subscription
	cancel     context.CancelFunc
	done       chan struct{}
	generation int
	loads      sync.WaitGroup
}

// PageOption configures a Page.
type PageOption func(*Page)

// WithKeySource sets the page-wide key listener registry.
func WithKeySource(src KeySource) PageOption {
	return func(p *Page) {
		p.keys = src
	}
}

// WithPageLogger sets the logger.
func WithPageLogger(logger *common.Logger) PageOption {
	return func(p *Page) {
		p.logger = logger
	}
}

// WithControllerOptions passes options to the controller built on load.
func WithControllerOptions(opts ...ControllerOption) PageOption {
	return func(p *Page) {
		p.ctrlOpts = append(p.ctrlOpts, opts...)
	}
}

// WithPageChangeHook calls fn whenever the page state or selection changes.
// fn may be called from the fetch goroutine.
func WithPageChangeHook(fn func()) PageOption {
	return func(p *Page) {
		p.onChange = fn
	}
}

// NewPage creates an unmounted page.
func NewPage(loader *Loader, opts ...PageOption) *Page {
	p := &Page{
		loader: loader,
		logger: common.NewSilentLogger(),
		state:  StateLoading,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Mount attaches the key handler and starts loading. Mounting a mounted
// page is a no-op.
func (p *Page) Mount(ctx context.Context) {
	p.mu.Lock()
	if p.mounted {
		p.mu.Unlock()
		return
	}
	p.mounted = true
	if p.keys != nil {
		p.sub = &Subscription{unsubscribe: p.keys.Subscribe(p.handleKey)}
	}
	p.startLoad(ctx)
	p.mu.Unlock()
	p.changed()
}

// Reload discards the current data and fetches again. It is the manual
// retry of the error state.
func (p *Page) Reload(ctx context.Context) {
	p.mu.Lock()
	if !p.mounted {
		p.mu.Unlock()
		return
	}
	if p.cancel != nil {
		p.cancel()
	}
	p.startLoad(ctx)
	p.mu.Unlock()
	p.changed()
}

// startLoad must be called with mu held.
func (p *Page) startLoad(ctx context.Context) {
	loadCtx, cancel := context.WithCancel(ctx)
	p.generation++
	gen := p.generation
	done := make(chan struct{})

	p.cancel = cancel
	p.done = done
	p.state = StateLoading
	p.err = nil

	p.loads.Add(1)
	go func() {
		defer p.loads.Done()
		defer close(done)
		defer cancel()
		result := p.loader.Load(loadCtx)
		p.finishLoad(gen, result)
	}()
}

func (p *Page) finishLoad(gen int, result LoadResult) {
	p.mu.Lock()
	if !p.mounted || gen != p.generation {
		p.mu.Unlock()
		p.logger.Debug().Int("generation", gen).Msg("Discarding stale timeline load")
		return
	}

	p.err = result.Err
	p.state = result.State
	if result.State == StateReady {
		opts := append([]ControllerOption{}, p.ctrlOpts...)
		if p.onChange != nil {
			opts = append(opts, WithChangeHook(p.onChange))
		}
		p.ctrl = NewController(result.Entries, opts...)
	} else {
		p.ctrl = nil
	}
	p.mu.Unlock()
	p.changed()
}

// Unmount cancels in-flight loads, waits for them to stop and detaches the
// key handler. It is safe to call more than once.
func (p *Page) Unmount() {
	p.mu.Lock()
	if !p.mounted {
		p.mu.Unlock()
		return
	}
	p.mounted = false
	if p.cancel != nil {
		p.cancel()
	}
	sub := p.sub
	p.sub = nil
	p.mu.Unlock()

	sub.Close()
	p.loads.Wait()
}

// Wait blocks until the current load has finished or ctx is done.
func (p *Page) Wait(ctx context.Context) error {
	p.mu.Lock()
	done := p.done
	p.mu.Unlock()
	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Page) handleKey(k Key) {
	p.mu.Lock()
	ctrl := p.ctrl
	p.mu.Unlock()
	if ctrl != nil {
		ctrl.HandleKey(k)
	}
}

func (p *Page) changed() {
	if p.onChange != nil {
		p.onChange()
	}
}

// State returns the view state. A ready page whose filters exclude every
// entry reports StateEmptyFiltered.
func (p *Page) State() ViewState {
	p.mu.Lock()
	state, ctrl := p.state, p.ctrl
	p.mu.Unlock()

	if state == StateReady && ctrl != nil && ctrl.Grouping().Len() == 0 {
		return StateEmptyFiltered
	}
	return state
}

// Err returns the fetch error of the error state.
func (p *Page) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// Controller returns the navigation controller, or nil until data is ready.
func (p *Page) Controller() *Controller {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ctrl
}

// Mounted reports whether the page is mounted.
func (p *Page) Mounted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mounted
}
