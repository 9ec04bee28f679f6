package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/LeeLars/structon-cart/internal/cart"
	"github.com/LeeLars/structon-cart/internal/quote"
)

// QuoteHandler turns the cart into a quote request. Clearing the cart after
// submission is decided here, at the UI boundary, and only on a confirmed
// success; the cart service itself knows nothing about submissions.
type QuoteHandler struct {
	svc    *cart.Service
	quotes *quote.Client
}

func NewQuoteHandler(svc *cart.Service, quotes *quote.Client) *QuoteHandler {
	return &QuoteHandler{svc: svc, quotes: quotes}
}

type SubmitQuoteRequestDTO struct {
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	CustomerPhone string `json:"customer_phone,omitempty"`
	CompanyName   string `json:"company_name,omitempty"`
	VATNumber     string `json:"vat_number,omitempty"`
	Message       string `json:"message,omitempty"`
}

type SubmitQuoteResponseDTO struct {
	Reference string `json:"reference,omitempty"`
	Submitted bool   `json:"submitted"`
}

func (h *QuoteHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitQuoteRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.CustomerName) == "" || strings.TrimSpace(req.CustomerEmail) == "" {
		respondError(w, http.StatusBadRequest, "missing_contact", "customer_name and customer_email are required")
		return
	}
	if h.svc.GetCount() == 0 {
		respondError(w, http.StatusBadRequest, "empty_cart", "cannot request a quote for an empty cart")
		return
	}

	cartJSON, err := h.svc.FormatAsJSON()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to format cart")
		return
	}

	receipt, err := h.quotes.Submit(r.Context(), quote.Submission{
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		CompanyName:   req.CompanyName,
		VATNumber:     req.VATNumber,
		Message:       req.Message,
		CartItems:     cartJSON,
		CartText:      h.svc.FormatAsText(),
	})
	if err != nil {
		// Submission failed: the cart stays intact so the user can retry.
		respondError(w, http.StatusBadGateway, "submit_failed", "quote submission failed")
		return
	}

	h.svc.Clear(r.Context())
	respondJSON(w, http.StatusOK, SubmitQuoteResponseDTO{
		Reference: receipt.Reference,
		Submitted: true,
	})
}
