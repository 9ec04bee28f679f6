package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/LeeLars/structon-cart/internal/cart"
	"github.com/LeeLars/structon-cart/internal/catalog"
	"github.com/LeeLars/structon-cart/internal/httpapi"
	"github.com/LeeLars/structon-cart/internal/quote"
	"github.com/LeeLars/structon-cart/internal/store"
)

type Config struct {
	HTTPPort        string
	StoreBackend    string // redis | mongo | memory
	RedisAddr       string
	RedisPassword   string
	MongoURI        string
	MongoDBName     string
	CatalogAPIURL   string
	QuoteEndpoint   string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

func loadConfig() *Config {
	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		StoreBackend:    getEnv("STORE_BACKEND", "redis"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:     getEnv("MONGO_DB_NAME", "structon"),
		CatalogAPIURL:   getEnv("CATALOG_API_URL", "https://structon-production.up.railway.app/api"),
		QuoteEndpoint:   getEnv("QUOTE_ENDPOINT", "https://structon-production.up.railway.app/api/quotes"),
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	cfg := loadConfig()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	primary, cleanup, err := buildPrimaryStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to set up storage: %v", err)
	}
	defer cleanup()

	// The volatile fallback tier catches primary storage failures; its
	// contents live only as long as this process.
	fallback := store.NewMemoryArea().Store(store.Key)
	tiered := store.NewTieredStore(primary, fallback)

	svc := cart.New(ctx, tiered)
	defer svc.Close()
	log.Printf("Quote cart service initialized (%s backend)", cfg.StoreBackend)

	quotes := quote.NewClient(cfg.QuoteEndpoint)
	cat := catalog.NewClient(cfg.CatalogAPIURL)

	router := httpapi.NewRouter(svc, quotes, cat, cfg.RequestTimeout)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler: router,
	}

	go func() {
		log.Printf("Storefront API listening on port %s", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
	log.Println("Stopped")
}

func buildPrimaryStore(ctx context.Context, cfg *Config) (store.Store, func(), error) {
	switch cfg.StoreBackend {
	case "redis":
		client, err := store.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("Connected to Redis at %s", cfg.RedisAddr)
		return store.NewRedisStore(client, store.Key), func() { _ = client.Close() }, nil

	case "mongo":
		db, err := store.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDBName)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("Connected to MongoDB at %s", cfg.MongoURI)
		cleanup := func() { _ = db.Client().Disconnect(context.Background()) }
		return store.NewMongoStore(db, store.Key), cleanup, nil

	case "memory":
		return store.NewMemoryArea().Store(store.Key), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
