package cart

import (
	"sync"

	"github.com/LeeLars/structon-cart/internal/domain"
)

// Subscriber receives the current item list after every cart change.
type Subscriber func(items []domain.CartItem)

// notifier is the single observer subject behind both subscriber kinds:
// directly registered callbacks, and broadcast channels that any listener
// (the SSE stream, a widget, a test) can consume without being known to the
// service. Both kinds fire on every publish.
type notifier struct {
	mu        sync.Mutex
	callbacks map[int]Subscriber
	channels  map[int]chan []domain.CartItem
	nextID    int
}

func newNotifier() *notifier {
	return &notifier{
		callbacks: make(map[int]Subscriber),
		channels:  make(map[int]chan []domain.CartItem),
	}
}

func (n *notifier) subscribe(fn Subscriber) (unsubscribe func()) {
	n.mu.Lock()
	defer n.mu.Unlock()
	id := n.nextID
	n.nextID++
	n.callbacks[id] = fn
	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.callbacks, id)
	}
}

func (n *notifier) channel() (<-chan []domain.CartItem, func()) {
	n.mu.Lock()
	defer n.mu.Unlock()
	id := n.nextID
	n.nextID++
	ch := make(chan []domain.CartItem, 8)
	n.channels[id] = ch
	var once sync.Once
	return ch, func() {
		once.Do(func() {
			n.mu.Lock()
			defer n.mu.Unlock()
			delete(n.channels, id)
			close(ch)
		})
	}
}

// publish fans the snapshot out to every subscriber. Channel sends never
// block: a listener that stopped draining misses updates instead of stalling
// a mutation. Sends happen under the mutex so a channel can never be closed
// mid-publish; callbacks run outside it so they may call back into the cart.
func (n *notifier) publish(items []domain.CartItem) {
	n.mu.Lock()
	callbacks := make([]Subscriber, 0, len(n.callbacks))
	for _, fn := range n.callbacks {
		callbacks = append(callbacks, fn)
	}
	for _, ch := range n.channels {
		select {
		case ch <- domain.CloneItems(items):
		default:
		}
	}
	n.mu.Unlock()

	for _, fn := range callbacks {
		fn(domain.CloneItems(items))
	}
}
