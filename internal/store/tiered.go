package store

import (
	"context"
	"log"
	"sync"

	"github.com/LeeLars/structon-cart/internal/domain"
)

// TieredStore layers a durable primary store over a volatile fallback.
// A save that fails on the primary lands in the fallback instead (session-only
// durability); if the fallback fails too, the in-memory document held by the
// service stays the source of truth. Save therefore never reports an error:
// storage trouble must not block a cart mutation.
type TieredStore struct {
	primary  Store
	fallback Store

	mu       sync.Mutex
	degraded bool
}

func NewTieredStore(primary, fallback Store) *TieredStore {
	return &TieredStore{primary: primary, fallback: fallback}
}

func (t *TieredStore) Load(ctx context.Context) (*domain.CartDocument, error) {
	t.mu.Lock()
	degraded := t.degraded
	t.mu.Unlock()

	if degraded {
		// The freshest write went to the fallback tier.
		if doc, err := t.fallback.Load(ctx); err == nil {
			return doc, nil
		}
	}

	doc, err := t.primary.Load(ctx)
	if err == nil {
		return doc, nil
	}
	log.Printf("quote cart: primary storage unavailable, reading fallback: %v", err)

	doc, err = t.fallback.Load(ctx)
	if err != nil {
		log.Printf("quote cart: fallback storage unavailable, starting empty: %v", err)
		return domain.NewCartDocument(), nil
	}
	return doc, nil
}

func (t *TieredStore) Save(ctx context.Context, doc *domain.CartDocument) error {
	err := t.primary.Save(ctx, doc)
	if err == nil {
		t.mu.Lock()
		t.degraded = false
		t.mu.Unlock()
		return nil
	}
	log.Printf("quote cart: primary storage full or unavailable, using fallback: %v", err)

	if err := t.fallback.Save(ctx, doc); err != nil {
		log.Printf("quote cart: storage completely unavailable: %v", err)
		return nil
	}

	t.mu.Lock()
	t.degraded = true
	t.mu.Unlock()
	return nil
}

func (t *TieredStore) Watch(ctx context.Context, onChange func()) (func(), error) {
	stop, err := t.primary.Watch(ctx, onChange)
	if err != nil {
		// Without a watch the cart still works, it just never sees
		// writes from other sessions.
		log.Printf("quote cart: change notifications unavailable: %v", err)
		return func() {}, nil
	}
	return stop, nil
}
