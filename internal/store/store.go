package store

import (
	"context"

	"github.com/LeeLars/structon-cart/internal/domain"
)

// Key is the storage key the cart document lives under. Every backend writes
// the whole document at this key; there are no partial updates.
const Key = "structon_quote_cart"

// Store persists the serialized cart document at a single storage key.
//
// Load returns an error only when the storage area itself is unreachable.
// Data problems (missing key, corrupt payload, legacy shape) are handled
// inside the store: the caller always gets a usable document back.
//
// Watch registers a callback invoked when another writer replaces the
// document. A store never notifies for its own writes, mirroring how browser
// storage events skip the originating tab.
type Store interface {
	Load(ctx context.Context) (*domain.CartDocument, error)
	Save(ctx context.Context, doc *domain.CartDocument) error
	Watch(ctx context.Context, onChange func()) (stop func(), err error)
}
