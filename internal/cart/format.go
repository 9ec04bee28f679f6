package cart

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// quoteLine is the minimal per-item payload submitted to the quotes API.
type quoteLine struct {
	ID       string            `json:"id"`
	Slug     string            `json:"slug,omitempty"`
	Title    string            `json:"title"`
	Quantity int               `json:"quantity"`
	Specs    map[string]string `json:"specs,omitempty"`
}

// FormatAsText renders the cart as the plaintext block embedded in quote
// request emails: a numbered list with category breadcrumb, quantity and
// flattened specs. An empty cart renders as an empty string. Pure: operates
// on a snapshot, never mutates state.
func (s *Service) FormatAsText() string {
	items := s.GetItems()
	if len(items) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("=== GESELECTEERDE PRODUCTEN ===\n\n")

	for i, item := range items {
		fmt.Fprintf(&b, "%d. %s\n", i+1, item.Title)
		b.WriteString("   Categorie: " + item.Category)
		if item.Subcategory != "" {
			b.WriteString(" > " + item.Subcategory)
		}
		b.WriteString("\n")
		fmt.Fprintf(&b, "   Aantal: %d\n", item.Quantity)

		if specs := flattenSpecs(item.Specs); specs != "" {
			b.WriteString("   Specs: " + specs + "\n")
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Totaal: %d product(en)\n", s.GetCount())
	return b.String()
}

// FormatAsJSON renders the machine payload for API submission: id, slug,
// title, quantity and specs per item, nothing else.
func (s *Service) FormatAsJSON() ([]byte, error) {
	items := s.GetItems()
	lines := make([]quoteLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, quoteLine{
			ID:       item.ID,
			Slug:     item.Slug,
			Title:    item.Title,
			Quantity: item.Quantity,
			Specs:    item.Specs,
		})
	}
	raw, err := json.Marshal(lines)
	if err != nil {
		return nil, fmt.Errorf("marshal quote lines failed: %w", err)
	}
	return raw, nil
}

// flattenSpecs joins non-empty spec values as "name: value" pairs in a
// stable order.
func flattenSpecs(specs map[string]string) string {
	if len(specs) == 0 {
		return ""
	}
	names := make([]string, 0, len(specs))
	for name, value := range specs {
		if value != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	pairs := make([]string, 0, len(names))
	for _, name := range names {
		pairs = append(pairs, name+": "+specs[name])
	}
	return strings.Join(pairs, ", ")
}
