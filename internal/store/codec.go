package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"

	"github.com/LeeLars/structon-cart/internal/domain"
)

// decodeDocument parses a stored payload, migrating old shapes to the current
// schema version. It never fails: a corrupt payload logs a warning and yields
// a fresh empty document, so a bad blob can never block the cart.
func decodeDocument(raw []byte) *domain.CartDocument {
	if len(raw) == 0 {
		return domain.NewCartDocument()
	}

	// Pre-versioning payloads were a bare JSON array of items.
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []domain.CartItem
		if err := json.Unmarshal(raw, &items); err != nil {
			log.Printf("quote cart: corrupt legacy payload, resetting: %v", err)
			return domain.NewCartDocument()
		}
		return &domain.CartDocument{Version: domain.SchemaVersion, Items: items}
	}

	var doc domain.CartDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		log.Printf("quote cart: corrupt payload, resetting: %v", err)
		return domain.NewCartDocument()
	}
	if doc.Version < domain.SchemaVersion {
		doc.Version = domain.SchemaVersion
	}
	if doc.Items == nil {
		doc.Items = []domain.CartItem{}
	}
	return &doc
}

func encodeDocument(doc *domain.CartDocument) ([]byte, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal cart document failed: %w", err)
	}
	return raw, nil
}
