package httpapi

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/LeeLars/structon-cart/internal/catalog"
	"github.com/LeeLars/structon-cart/internal/domain"
	"github.com/go-chi/chi/v5"
)

// ProductHandler proxies the stateless product widgets (price display,
// related products) through the catalog client. Widget failures degrade to
// empty responses; they never affect the cart.
type ProductHandler struct {
	catalog *catalog.Client
}

func NewProductHandler(c *catalog.Client) *ProductHandler {
	return &ProductHandler{catalog: c}
}

type PriceResponseDTO struct {
	Price     *float64 `json:"price"`
	Currency  string   `json:"currency"`
	Formatted string   `json:"formatted,omitempty"`
	OnRequest bool     `json:"on_request"`
}

func (h *ProductHandler) Price(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "id")
	token := bearerToken(r)

	info, err := h.catalog.Price(r.Context(), productID, token)
	if err != nil {
		// The widget shows "price on request" rather than an error.
		log.Printf("price lookup failed for %s: %v", productID, err)
		respondJSON(w, http.StatusOK, PriceResponseDTO{Currency: "EUR", OnRequest: true})
		return
	}

	resp := PriceResponseDTO{
		Price:     info.Price,
		Currency:  info.Currency,
		OnRequest: info.OnRequest(),
	}
	if !info.OnRequest() {
		resp.Formatted = catalog.FormatPrice(*info.Price, info.Currency)
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *ProductHandler) Related(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "id")
	categorySlug := r.URL.Query().Get("category")

	limit := 4
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 12 {
			limit = n
		}
	}

	related, err := h.catalog.Related(r.Context(), productID, categorySlug, limit)
	if err != nil {
		log.Printf("related lookup failed for %s: %v", productID, err)
	}
	if related == nil {
		related = []domain.Product{}
	}
	respondJSON(w, http.StatusOK, related)
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}
