package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/LeeLars/structon-cart/internal/domain"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/singleflight"
)

// ErrUpstream wraps any non-auth failure from the catalog API. Widgets treat
// it as "render nothing"; it never reaches the cart.
var ErrUpstream = errors.New("catalog upstream error")

// PriceInfo is the price lookup result. A nil Price means "price on request":
// either the caller had no credential or the product has no published price.
type PriceInfo struct {
	Price    *float64 `json:"price"`
	Currency string   `json:"currency"`
}

// OnRequest reports whether the UI should show the "price on request" state
// instead of an amount.
func (p PriceInfo) OnRequest() bool {
	return p.Price == nil
}

// Client talks to the external catalog API for the stateless product widgets
// (price display, related products). Lookups share a circuit breaker and are
// deduplicated per product, so a burst of widgets on one page costs one
// upstream call.
type Client struct {
	base    string
	httpc   *http.Client
	breaker *gobreaker.CircuitBreaker[[]byte]
	sfg     singleflight.Group
}

func NewClient(base string) *Client {
	return &Client{
		base: base,
		httpc: &http.Client{
			Timeout:   10 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		breaker: gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
			Name:    "catalog-api",
			Timeout: 30 * time.Second,
		}),
	}
}

// Price fetches a product's price. No token means the visitor is not logged
// in: that is the on-request state, not an error. A 401 (stale token) also
// degrades to on-request. Price availability never gates adding to the cart.
func (c *Client) Price(ctx context.Context, productID, token string) (PriceInfo, error) {
	if token == "" {
		return PriceInfo{Currency: "EUR"}, nil
	}

	v, err, _ := c.sfg.Do("price:"+productID, func() (interface{}, error) {
		raw, err := c.get(ctx, fmt.Sprintf("%s/products/%s/price", c.base, productID), token)
		if err != nil {
			return PriceInfo{}, err
		}
		if raw == nil {
			// Unauthorized: token expired or invalid.
			return PriceInfo{Currency: "EUR"}, nil
		}
		var info PriceInfo
		if err := json.Unmarshal(raw, &info); err != nil {
			return PriceInfo{}, fmt.Errorf("decode price response: %w", err)
		}
		if info.Currency == "" {
			info.Currency = "EUR"
		}
		return info, nil
	})
	if err != nil {
		return PriceInfo{}, err
	}
	return v.(PriceInfo), nil
}

// Related fetches products sharing a category, excluding the product being
// viewed, capped at limit. Any failure degrades the widget to empty.
func (c *Client) Related(ctx context.Context, productID, categorySlug string, limit int) ([]domain.Product, error) {
	raw, err := c.get(ctx, fmt.Sprintf("%s/products?category=%s", c.base, categorySlug), "")
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}

	var products []domain.Product
	if err := json.Unmarshal(raw, &products); err != nil {
		return nil, fmt.Errorf("decode related response: %w", err)
	}

	related := make([]domain.Product, 0, limit)
	for _, p := range products {
		if p.ID == productID {
			continue
		}
		related = append(related, p)
		if len(related) == limit {
			break
		}
	}
	return related, nil
}

// get runs a GET through the breaker. A nil body with nil error means the
// request was rejected as unauthorized.
func (c *Client) get(ctx context.Context, url, token string) ([]byte, error) {
	return c.breaker.Execute(func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}

		resp, err := c.httpc.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusUnauthorized {
			return nil, nil
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
		}

		body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
		}
		return body, nil
	})
}
