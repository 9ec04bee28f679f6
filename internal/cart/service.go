package cart

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/LeeLars/structon-cart/internal/domain"
	"github.com/LeeLars/structon-cart/internal/store"
)

// Service is the single source of truth for cart contents within one
// session. All mutations go through it; each successful mutation persists
// the whole document and notifies every subscriber. Construct exactly one
// Service per application root and inject it into consumers.
type Service struct {
	mu    sync.Mutex
	store store.Store
	doc   *domain.CartDocument

	events    *notifier
	stopWatch func()
	now       func() time.Time
}

// New loads the persisted cart and starts listening for writes made by other
// sessions sharing the same storage key. A load or watch failure degrades to
// an empty, session-local cart; it never fails construction.
func New(ctx context.Context, st store.Store) *Service {
	s := &Service{
		store:  st,
		events: newNotifier(),
		now:    time.Now,
	}

	doc, err := st.Load(ctx)
	if err != nil {
		log.Printf("quote cart: load failed, starting empty: %v", err)
		doc = domain.NewCartDocument()
	}
	s.doc = doc

	stop, err := st.Watch(ctx, func() { s.resync(ctx) })
	if err != nil {
		log.Printf("quote cart: change notifications unavailable: %v", err)
		stop = func() {}
	}
	s.stopWatch = stop

	return s
}

// Close stops the cross-session watch. The in-memory cart stays usable.
func (s *Service) Close() {
	s.stopWatch()
}

// GetItems returns a deep copy of the item list in insertion order.
func (s *Service) GetItems() []domain.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.CloneItems(s.doc.Items)
}

// GetCount returns the total unit count: the sum of quantities, not the
// number of lines.
func (s *Service) GetCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return countOf(s.doc)
}

func (s *Service) HasItem(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return indexOf(s.doc, id) >= 0
}

// AddItem puts a product in the cart. A product without an ID is rejected:
// no mutation, no notification, false returned. Adding an ID already in the
// cart accumulates its quantity and leaves every other field untouched; a
// new line gets AddedAt stamped once, never to change.
func (s *Service) AddItem(ctx context.Context, p domain.Product) bool {
	if p.ID == "" {
		log.Printf("quote cart: rejecting product without id")
		return false
	}

	s.mu.Lock()
	qty := p.Quantity
	if qty < 1 {
		qty = 1
	}
	if i := indexOf(s.doc, p.ID); i >= 0 {
		s.doc.Items[i].Quantity += qty
	} else {
		p.Quantity = qty
		s.doc.Items = append(s.doc.Items, p.Item(s.now()))
	}
	snapshot := s.saveLocked(ctx)
	s.mu.Unlock()

	s.events.publish(snapshot)
	return true
}

// RemoveItem removes the line with the given ID and returns it, for caller
// feedback such as a "removed" toast. An unknown ID is a pure no-op: nil
// returned, nothing persisted, nobody notified.
func (s *Service) RemoveItem(ctx context.Context, id string) *domain.CartItem {
	s.mu.Lock()
	i := indexOf(s.doc, id)
	if i < 0 {
		s.mu.Unlock()
		return nil
	}
	removed := s.doc.Items[i].Clone()
	s.doc.Items = append(s.doc.Items[:i], s.doc.Items[i+1:]...)
	snapshot := s.saveLocked(ctx)
	s.mu.Unlock()

	s.events.publish(snapshot)
	return &removed
}

// UpdateQuantity sets a line's quantity. Zero or negative quantity means
// removal; a line with quantity below one must never exist. Returns the
// updated (or removed) line, or nil for an unknown ID.
func (s *Service) UpdateQuantity(ctx context.Context, id string, quantity int) *domain.CartItem {
	if quantity <= 0 {
		return s.RemoveItem(ctx, id)
	}

	s.mu.Lock()
	i := indexOf(s.doc, id)
	if i < 0 {
		s.mu.Unlock()
		return nil
	}
	s.doc.Items[i].Quantity = quantity
	updated := s.doc.Items[i].Clone()
	snapshot := s.saveLocked(ctx)
	s.mu.Unlock()

	s.events.publish(snapshot)
	return &updated
}

// Clear empties the cart. It persists and notifies even when the cart was
// already empty.
func (s *Service) Clear(ctx context.Context) {
	s.mu.Lock()
	s.doc.Items = []domain.CartItem{}
	snapshot := s.saveLocked(ctx)
	s.mu.Unlock()

	s.events.publish(snapshot)
}

// Subscribe registers a callback invoked with the current item list after
// every mutation and every remote resync. The returned function removes the
// subscription.
func (s *Service) Subscribe(fn Subscriber) (unsubscribe func()) {
	return s.events.subscribe(fn)
}

// Updates returns a broadcast channel carrying the item list after every
// change, for listeners outside the subscriber list (the SSE stream, widgets).
// Call the returned function when done.
func (s *Service) Updates() (<-chan []domain.CartItem, func()) {
	return s.events.channel()
}

// resync replaces in-memory state with whatever another session last wrote.
// No merging: the storage layer is last-writer-wins.
func (s *Service) resync(ctx context.Context) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		log.Printf("quote cart: resync load failed, resetting: %v", err)
		doc = domain.NewCartDocument()
	}

	s.mu.Lock()
	s.doc = doc
	snapshot := domain.CloneItems(s.doc.Items)
	s.mu.Unlock()

	s.events.publish(snapshot)
}

// saveLocked persists best-effort and returns a snapshot for notification.
// Storage failure never undoes the mutation; the in-memory document remains
// authoritative for the rest of the session.
func (s *Service) saveLocked(ctx context.Context) []domain.CartItem {
	if err := s.store.Save(ctx, s.doc); err != nil {
		log.Printf("quote cart: save failed, keeping in-memory state: %v", err)
	}
	return domain.CloneItems(s.doc.Items)
}

func indexOf(doc *domain.CartDocument, id string) int {
	for i := range doc.Items {
		if doc.Items[i].ID == id {
			return i
		}
	}
	return -1
}

func countOf(doc *domain.CartDocument) int {
	total := 0
	for _, it := range doc.Items {
		qty := it.Quantity
		if qty < 1 {
			qty = 1
		}
		total += qty
	}
	return total
}
