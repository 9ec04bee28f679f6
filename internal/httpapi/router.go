package httpapi

import (
	"net/http"
	"time"

	"github.com/LeeLars/structon-cart/internal/cart"
	"github.com/LeeLars/structon-cart/internal/catalog"
	"github.com/LeeLars/structon-cart/internal/quote"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// NewRouter assembles the storefront API surface.
func NewRouter(svc *cart.Service, quotes *quote.Client, cat *catalog.Client, timeout time.Duration) http.Handler {
	cartHandler := NewCartHandler(svc)
	eventsHandler := NewEventsHandler(svc)
	quoteHandler := NewQuoteHandler(svc, quotes)
	productHandler := NewProductHandler(cat)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		// The SSE stream stays open indefinitely; everything else gets
		// the request timeout.
		r.Get("/cart/events", eventsHandler.Stream)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(timeout))

			r.Get("/cart", cartHandler.GetCart)
			r.Post("/cart/items", cartHandler.AddItem)
			r.Patch("/cart/items/{id}", cartHandler.UpdateQuantity)
			r.Delete("/cart/items/{id}", cartHandler.RemoveItem)
			r.Delete("/cart", cartHandler.ClearCart)

			r.Post("/quote", quoteHandler.Submit)

			r.Get("/products/{id}/price", productHandler.Price)
			r.Get("/products/{id}/related", productHandler.Related)
		})
	})

	return otelhttp.NewHandler(r, "storefront-api")
}
