package domain

import "time"

// SchemaVersion is the current version of the persisted cart document.
// Version 0 (a bare JSON array of items) is migrated on load.
const SchemaVersion = 1

// CartDocument is the full persisted cart state: schema version plus the
// ordered item list. Item order is insertion order and is meaningful; it is
// the display and submission order.
type CartDocument struct {
	Version int        `json:"version" bson:"version"`
	Items   []CartItem `json:"items" bson:"items"`
}

// CartItem is one product line in the cart. ID is unique within a document;
// adding the same product again accumulates Quantity instead.
type CartItem struct {
	ID              string            `json:"id" bson:"id"`
	Title           string            `json:"title,omitempty" bson:"title,omitempty"`
	Category        string            `json:"category,omitempty" bson:"category,omitempty"`
	Subcategory     string            `json:"subcategory,omitempty" bson:"subcategory,omitempty"`
	Specs           map[string]string `json:"specs,omitempty" bson:"specs,omitempty"`
	Image           string            `json:"image,omitempty" bson:"image,omitempty"`
	Quantity        int               `json:"quantity" bson:"quantity"`
	AddedAt         time.Time         `json:"addedAt" bson:"added_at"`
	Slug            string            `json:"slug,omitempty" bson:"slug,omitempty"`
	CategorySlug    string            `json:"category_slug,omitempty" bson:"category_slug,omitempty"`
	SubcategorySlug string            `json:"subcategory_slug,omitempty" bson:"subcategory_slug,omitempty"`
}

// Product is an incoming add-to-cart payload. Only ID is required; a zero
// Quantity means 1.
type Product struct {
	ID              string            `json:"id"`
	Title           string            `json:"title,omitempty"`
	Category        string            `json:"category,omitempty"`
	Subcategory     string            `json:"subcategory,omitempty"`
	Specs           map[string]string `json:"specs,omitempty"`
	Image           string            `json:"image,omitempty"`
	Quantity        int               `json:"quantity,omitempty"`
	Slug            string            `json:"slug,omitempty"`
	CategorySlug    string            `json:"category_slug,omitempty"`
	SubcategorySlug string            `json:"subcategory_slug,omitempty"`
}

// NewCartDocument returns an empty document at the current schema version.
func NewCartDocument() *CartDocument {
	return &CartDocument{
		Version: SchemaVersion,
		Items:   []CartItem{},
	}
}

// Clone returns a deep copy. Callers may mutate the result freely without
// affecting the original document.
func (d *CartDocument) Clone() *CartDocument {
	out := &CartDocument{
		Version: d.Version,
		Items:   CloneItems(d.Items),
	}
	return out
}

// Clone copies the item including its specs map.
func (i CartItem) Clone() CartItem {
	out := i
	if i.Specs != nil {
		out.Specs = make(map[string]string, len(i.Specs))
		for k, v := range i.Specs {
			out.Specs[k] = v
		}
	}
	return out
}

// CloneItems deep-copies an item slice. A nil input yields an empty,
// non-nil slice.
func CloneItems(items []CartItem) []CartItem {
	out := make([]CartItem, 0, len(items))
	for _, it := range items {
		out = append(out, it.Clone())
	}
	return out
}

// Item creates the cart line for a product first entering the cart.
func (p Product) Item(addedAt time.Time) CartItem {
	qty := p.Quantity
	if qty < 1 {
		qty = 1
	}
	return CartItem{
		ID:              p.ID,
		Title:           p.Title,
		Category:        p.Category,
		Subcategory:     p.Subcategory,
		Specs:           p.Specs,
		Image:           p.Image,
		Quantity:        qty,
		AddedAt:         addedAt,
		Slug:            p.Slug,
		CategorySlug:    p.CategorySlug,
		SubcategorySlug: p.SubcategorySlug,
	}
}
