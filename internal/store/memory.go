package store

import (
	"context"
	"sync"

	"github.com/LeeLars/structon-cart/internal/domain"
	"github.com/google/uuid"
)

// MemoryArea is an in-process storage area shared by memory stores. It stands
// in for a browser storage area: several accessors (tabs) read and write the
// same keys, and a write made through one accessor notifies the others.
//
// It doubles as the volatile fallback tier (give each TieredStore its own
// private area) and as the test double for cross-tab scenarios.
type MemoryArea struct {
	mu       sync.Mutex
	values   map[string][]byte
	watchers map[int]areaWatcher
	nextID   int
}

type areaWatcher struct {
	key      string
	origin   string
	onChange func()
}

func NewMemoryArea() *MemoryArea {
	return &MemoryArea{
		values:   make(map[string][]byte),
		watchers: make(map[int]areaWatcher),
	}
}

// Store returns an accessor for one key. Each accessor carries its own origin
// ID, so its writes never trigger its own watcher.
func (a *MemoryArea) Store(key string) *MemoryStore {
	return &MemoryStore{
		area:   a,
		key:    key,
		origin: uuid.NewString(),
	}
}

func (a *MemoryArea) set(key string, raw []byte, origin string) {
	a.mu.Lock()
	a.values[key] = raw
	notify := make([]func(), 0)
	for _, w := range a.watchers {
		if w.key == key && w.origin != origin {
			notify = append(notify, w.onChange)
		}
	}
	a.mu.Unlock()

	// Deliver outside the lock: a watcher typically reloads through this
	// same area.
	for _, fn := range notify {
		fn()
	}
}

func (a *MemoryArea) get(key string) ([]byte, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	raw, ok := a.values[key]
	return raw, ok
}

func (a *MemoryArea) watch(key, origin string, onChange func()) (stop func()) {
	a.mu.Lock()
	defer a.mu.Unlock()
	id := a.nextID
	a.nextID++
	a.watchers[id] = areaWatcher{key: key, origin: origin, onChange: onChange}
	return func() {
		a.mu.Lock()
		defer a.mu.Unlock()
		delete(a.watchers, id)
	}
}

// MemoryStore is one accessor attached to a MemoryArea.
type MemoryStore struct {
	area   *MemoryArea
	key    string
	origin string
}

func (m *MemoryStore) Load(_ context.Context) (*domain.CartDocument, error) {
	raw, ok := m.area.get(m.key)
	if !ok {
		return domain.NewCartDocument(), nil
	}
	return decodeDocument(raw), nil
}

func (m *MemoryStore) Save(_ context.Context, doc *domain.CartDocument) error {
	raw, err := encodeDocument(doc)
	if err != nil {
		return err
	}
	m.area.set(m.key, raw, m.origin)
	return nil
}

func (m *MemoryStore) Watch(_ context.Context, onChange func()) (func(), error) {
	return m.area.watch(m.key, m.origin, onChange), nil
}
