package httpapi

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/LeeLars/structon-cart/internal/cart"
)

// EventsHandler streams cart updates as server-sent events. It is the HTTP
// face of the service's broadcast channel: any number of pages can listen
// without the service knowing them.
type EventsHandler struct {
	svc *cart.Service
}

func NewEventsHandler(svc *cart.Service) *EventsHandler {
	return &EventsHandler{svc: svc}
}

func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		respondError(w, http.StatusInternalServerError, "streaming_unsupported", "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	updates, cancel := h.svc.Updates()
	defer cancel()

	// Initial snapshot so a page connecting mid-session renders immediately.
	if err := writeEvent(w, h.svc.GetItems()); err != nil {
		return
	}
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case items, ok := <-updates:
			if !ok {
				return
			}
			if err := writeEvent(w, items); err != nil {
				log.Printf("cart events: write failed: %v", err)
				return
			}
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, payload interface{}) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: cart-updated\ndata: %s\n\n", raw)
	return err
}
