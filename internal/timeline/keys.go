package timeline

import "sync"

// Key is a keyboard key name as reported by the presentation layer.
type Key string

const (
	KeyArrowLeft  Key = "ArrowLeft"
	KeyArrowRight Key = "ArrowRight"
)

// KeyHandler receives key presses.
type KeyHandler func(Key)

// KeySource is a page-wide key listener registry. Subscribe returns the
// function that detaches the handler.
type KeySource interface {
	Subscribe(h KeyHandler) (unsubscribe func())
}

// Subscription is an attached key handler. Close detaches it exactly once.
type Subscription struct {
	once        sync.Once
	unsubscribe func()
}

// Close detaches the handler. It is safe to call more than once.
func (s *Subscription) Close() {
	if s == nil {
		return
	}
	s.once.Do(func() {
		if s.unsubscribe != nil {
			s.unsubscribe()
		}
	})
}

// KeyBus is an in-process KeySource. Publish delivers synchronously to every
// handler attached at the time of the call.
type KeyBus struct {
	mu       sync.RWMutex
	nextID   int
	handlers map[int]KeyHandler
	order    []int
}

// NewKeyBus creates an empty bus.
func NewKeyBus() *KeyBus {
	return &KeyBus{handlers: make(map[int]KeyHandler)}
}

// Subscribe attaches h.
func (b *KeyBus) Subscribe(h KeyHandler) func() {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.handlers[id] = h
	b.order = append(b.order, id)
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.handlers, id)
		for i, v := range b.order {
			if v == id {
				b.order = append(b.order[:i], b.order[i+1:]...)
				break
			}
		}
	}
}

// Publish delivers key to the attached handlers in subscription order.
func (b *KeyBus) Publish(key Key) {
	b.mu.RLock()
	handlers := make([]KeyHandler, 0, len(b.order))
	for _, id := range b.order {
		handlers = append(handlers, b.handlers[id])
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(key)
	}
}

// Len returns the number of attached handlers.
func (b *KeyBus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers)
}

// BindKeys attaches the ArrowLeft/ArrowRight navigation handler of c to src.
func (c *Controller) BindKeys(src KeySource) *Subscription {
	return &Subscription{unsubscribe: src.Subscribe(c.HandleKey)}
}

// HandleKey maps ArrowLeft to Previous and ArrowRight to Next. Other keys
// are ignored.
func (c *Controller) HandleKey(key Key) {
	switch key {
	case KeyArrowLeft:
		c.Navigate(Previous)
	case KeyArrowRight:
		c.Navigate(Next)
	}
}
