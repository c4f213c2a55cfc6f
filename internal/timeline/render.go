package timeline

import "sync"

// Align is how a scrolled-to year anchor is positioned in its container.
type Align int

const (
	// AlignNearest scrolls the least distance that brings the anchor into view.
	AlignNearest Align = iota
	// AlignCenter centers the anchor.
	AlignCenter
)

func (a Align) String() string {
	if a == AlignCenter {
		return "center"
	}
	return "nearest"
}

// ScrollRequest asks the presentation layer to bring a year anchor into view.
type ScrollRequest struct {
	Year  int
	Align Align
}

// AfterRenderer runs fn once the presentation layer has rendered the state
// current at the time of the call.
type AfterRenderer interface {
	AfterRender(fn func())
}

// RenderQueue is an AfterRenderer that holds callbacks until Flush is called
// by the render loop.
type RenderQueue struct {
	mu  sync.Mutex
	fns []func()
}

// AfterRender queues fn.
func (q *RenderQueue) AfterRender(fn func()) {
	q.mu.Lock()
	q.fns = append(q.fns, fn)
	q.mu.Unlock()
}

// Pending returns the number of queued callbacks.
func (q *RenderQueue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.fns)
}

// Flush runs and clears the queued callbacks in order. Callbacks queued
// while flushing run on the next Flush.
func (q *RenderQueue) Flush() int {
	q.mu.Lock()
	fns := q.fns
	q.fns = nil
	q.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
	return len(fns)
}
