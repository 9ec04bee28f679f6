package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/LeeLars/structon-cart/internal/domain"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore keeps the cart document in a single record of the carts
// collection, keyed by the storage key. The whole payload is replaced on
// every save. Mongo has no cheap pub/sub, so Watch polls the record's
// revision counter at a short interval.
type MongoStore struct {
	collection   *mongo.Collection
	key          string
	origin       string
	pollInterval time.Duration
}

type cartRecord struct {
	Key       string    `bson:"_id"`
	Payload   []byte    `bson:"payload"`
	Origin    string    `bson:"origin"`
	Revision  int64     `bson:"revision"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func NewMongoStore(db *mongo.Database, key string) *MongoStore {
	return &MongoStore{
		collection:   db.Collection("carts"),
		key:          key,
		origin:       uuid.NewString(),
		pollInterval: 2 * time.Second,
	}
}

func (m *MongoStore) Load(ctx context.Context) (*domain.CartDocument, error) {
	var rec cartRecord
	err := m.collection.FindOne(ctx, bson.M{"_id": m.key}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.NewCartDocument(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart record: %w", err)
	}
	return decodeDocument(rec.Payload), nil
}

func (m *MongoStore) Save(ctx context.Context, doc *domain.CartDocument) error {
	raw, err := encodeDocument(doc)
	if err != nil {
		return err
	}

	filter := bson.M{"_id": m.key}
	update := bson.M{
		"$set": bson.M{
			"payload":    raw,
			"origin":     m.origin,
			"updated_at": time.Now(),
		},
		"$inc": bson.M{"revision": int64(1)},
	}
	opts := options.Update().SetUpsert(true)

	if _, err := m.collection.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("failed to upsert cart record: %w", err)
	}
	return nil
}

func (m *MongoStore) Watch(ctx context.Context, onChange func()) (func(), error) {
	// Prime the revision so pre-existing state does not fire a notification.
	last, err := m.revision(ctx)
	if err != nil {
		return nil, err
	}

	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(m.pollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			var rec cartRecord
			findOpts := options.FindOne().SetProjection(bson.M{"revision": 1, "origin": 1})
			err := m.collection.FindOne(ctx, bson.M{"_id": m.key}, findOpts).Decode(&rec)
			if errors.Is(err, mongo.ErrNoDocuments) {
				continue
			}
			if err != nil {
				log.Printf("quote cart: poll cart record failed: %v", err)
				continue
			}
			if rec.Revision == last {
				continue
			}
			last = rec.Revision
			if rec.Origin != m.origin {
				onChange()
			}
		}
	}()

	var stop sync.Once
	return func() { stop.Do(func() { close(done) }) }, nil
}

func (m *MongoStore) revision(ctx context.Context) (int64, error) {
	var rec cartRecord
	findOpts := options.FindOne().SetProjection(bson.M{"revision": 1})
	err := m.collection.FindOne(ctx, bson.M{"_id": m.key}, findOpts).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read cart revision: %w", err)
	}
	return rec.Revision, nil
}

// ConnectMongo dials MongoDB and verifies the connection with a ping.
func ConnectMongo(ctx context.Context, uri, database string) (*mongo.Database, error) {
	clientOpts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(100).
		SetMinPoolSize(10)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	return client.Database(database), nil
}
