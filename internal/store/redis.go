package store

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/LeeLars/structon-cart/internal/domain"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps the cart document as a single JSON blob at a fixed Redis
// key. Cross-tab change notifications ride a pub/sub channel: every save
// publishes the writer's origin ID, and watchers ignore messages carrying
// their own origin.
type RedisStore struct {
	client  *redis.Client
	key     string
	channel string
	origin  string
}

func NewRedisStore(client *redis.Client, key string) *RedisStore {
	return &RedisStore{
		client:  client,
		key:     key,
		channel: key + ":events",
		origin:  uuid.NewString(),
	}
}

func (r *RedisStore) Load(ctx context.Context) (*domain.CartDocument, error) {
	raw, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.NewCartDocument(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}
	return decodeDocument(raw), nil
}

func (r *RedisStore) Save(ctx context.Context, doc *domain.CartDocument) error {
	raw, err := encodeDocument(doc)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.key, raw, 0).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	// Notification is best effort; a missed event only delays the next
	// resync until another write lands.
	if err := r.client.Publish(ctx, r.channel, r.origin).Err(); err != nil {
		log.Printf("quote cart: publish change event failed: %v", err)
	}
	return nil
}

func (r *RedisStore) Watch(ctx context.Context, onChange func()) (func(), error) {
	sub := r.client.Subscribe(ctx, r.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("redis subscribe failed: %w", err)
	}

	go func() {
		for msg := range sub.Channel() {
			if msg.Payload == r.origin {
				continue
			}
			onChange()
		}
	}()

	return func() {
		if err := sub.Close(); err != nil {
			log.Printf("quote cart: close subscription failed: %v", err)
		}
	}, nil
}

// ConnectRedis dials Redis and verifies the connection with a ping.
func ConnectRedis(ctx context.Context, addr, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}
	return client, nil
}
