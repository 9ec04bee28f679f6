package httpapi

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/LeeLars/structon-cart/internal/cart"
	"github.com/LeeLars/structon-cart/internal/domain"
	"github.com/go-chi/chi/v5"
)

// CartHandler exposes the quote cart's operations and its change feed over
// HTTP. It is a pure consumer of the service's public contract.
type CartHandler struct {
	svc *cart.Service
}

func NewCartHandler(svc *cart.Service) *CartHandler {
	return &CartHandler{svc: svc}
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

type CartResponseDTO struct {
	Items []domain.CartItem `json:"items"`
	Count int               `json:"count"`
}

type RemovedResponseDTO struct {
	Removed domain.CartItem   `json:"removed"`
	Items   []domain.CartItem `json:"items"`
	Count   int               `json:"count"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.snapshot())
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var product domain.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if strings.TrimSpace(product.ID) == "" {
		respondError(w, http.StatusBadRequest, "invalid_product", "product id is required")
		return
	}

	if !h.svc.AddItem(r.Context(), product) {
		respondError(w, http.StatusBadRequest, "invalid_product", "product rejected")
		return
	}
	respondJSON(w, http.StatusCreated, h.snapshot())
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	// Quantity zero or below removes the line; that is the contract, not
	// an error.
	item := h.svc.UpdateQuantity(r.Context(), id, req.Quantity)
	if item == nil {
		respondError(w, http.StatusNotFound, "not_found", "item not in cart")
		return
	}
	respondJSON(w, http.StatusOK, h.snapshot())
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	removed := h.svc.RemoveItem(r.Context(), id)
	if removed == nil {
		respondError(w, http.StatusNotFound, "not_found", "item not in cart")
		return
	}
	respondJSON(w, http.StatusOK, RemovedResponseDTO{
		Removed: *removed,
		Items:   h.svc.GetItems(),
		Count:   h.svc.GetCount(),
	})
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.svc.Clear(r.Context())
	respondJSON(w, http.StatusOK, h.snapshot())
}

func (h *CartHandler) snapshot() CartResponseDTO {
	return CartResponseDTO{
		Items: h.svc.GetItems(),
		Count: h.svc.GetCount(),
	}
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}
