package store

import (
	"context"
	"testing"
	"time"

	"github.com/LeeLars/structon-cart/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
)

func setupTestMongo(t *testing.T) (*MongoStore, func() *MongoStore, func()) {
	ctx := context.Background()

	mongoContainer, err := mongodb.Run(ctx, "mongo:7")
	require.NoError(t, err)

	uri, err := mongoContainer.ConnectionString(ctx)
	require.NoError(t, err)

	db, err := ConnectMongo(ctx, uri, "testdb")
	require.NoError(t, err)

	newStore := func() *MongoStore {
		st := NewMongoStore(db, Key)
		st.pollInterval = 100 * time.Millisecond
		return st
	}

	cleanup := func() {
		if err := mongoContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}

	return newStore(), newStore, cleanup
}

func TestMongoStore_LoadMissing(t *testing.T) {
	st, _, cleanup := setupTestMongo(t)
	defer cleanup()

	doc, err := st.Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, domain.SchemaVersion, doc.Version)
	assert.Empty(t, doc.Items)
}

func TestMongoStore_SaveLoadRoundTrip(t *testing.T) {
	st, _, cleanup := setupTestMongo(t)
	defer cleanup()
	ctx := context.Background()

	doc := domain.NewCartDocument()
	doc.Items = append(doc.Items,
		domain.CartItem{ID: "p1", Title: "Graafbak 600mm", Quantity: 2,
			Specs: map[string]string{"breedte": "600mm"}},
		domain.CartItem{ID: "p2", Quantity: 1},
	)
	require.NoError(t, st.Save(ctx, doc))

	got, err := st.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "p1", got.Items[0].ID)
	assert.Equal(t, 2, got.Items[0].Quantity)
	assert.Equal(t, "600mm", got.Items[0].Specs["breedte"])
}

func TestMongoStore_WholeDocumentReplace(t *testing.T) {
	st, _, cleanup := setupTestMongo(t)
	defer cleanup()
	ctx := context.Background()

	doc := domain.NewCartDocument()
	doc.Items = append(doc.Items, domain.CartItem{ID: "p1", Quantity: 1})
	require.NoError(t, st.Save(ctx, doc))

	doc.Items = []domain.CartItem{{ID: "p2", Quantity: 3}}
	require.NoError(t, st.Save(ctx, doc))

	got, err := st.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "p2", got.Items[0].ID)
}

func TestMongoStore_WatchSeesOtherWriter(t *testing.T) {
	writer, newStore, cleanup := setupTestMongo(t)
	defer cleanup()
	ctx := context.Background()

	watcher := newStore()
	fired := make(chan struct{}, 1)
	stop, err := watcher.Watch(ctx, func() {
		select {
		case fired <- struct{}{}:
		default:
		}
	})
	require.NoError(t, err)
	defer stop()

	require.NoError(t, writer.Save(ctx, domain.NewCartDocument()))

	select {
	case <-fired:
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not fire for remote write")
	}
}

func TestMongoStore_WatchSkipsOwnWrites(t *testing.T) {
	st, _, cleanup := setupTestMongo(t)
	defer cleanup()
	ctx := context.Background()

	fired := make(chan struct{}, 1)
	stop, err := st.Watch(ctx, func() {
		select {
		case fired <- struct{}{}:
		default:
		}
	})
	require.NoError(t, err)
	defer stop()

	require.NoError(t, st.Save(ctx, domain.NewCartDocument()))

	select {
	case <-fired:
		t.Fatal("watch fired for the store's own write")
	case <-time.After(500 * time.Millisecond):
	}
}
