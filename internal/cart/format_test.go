package cart

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/LeeLars/structon-cart/internal/domain"
	"github.com/LeeLars/structon-cart/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatAsText_Empty(t *testing.T) {
	svc, _ := newTestService(t)

	assert.Equal(t, "", svc.FormatAsText())
}

func TestFormatAsText(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	require.True(t, svc.AddItem(ctx, domain.Product{
		ID: "p1", Title: "Graafbak 600mm", Category: "Graafbakken", Subcategory: "Standaard Graafbakken",
		Quantity: 2, Specs: map[string]string{"breedte": "600mm", "leeg": ""},
	}))
	require.True(t, svc.AddItem(ctx, domain.Product{
		ID: "p2", Title: "Sloophamer", Category: "Sloophamers", Quantity: 1,
	}))

	text := svc.FormatAsText()

	assert.True(t, strings.HasPrefix(text, "=== GESELECTEERDE PRODUCTEN ===\n\n"))
	assert.Contains(t, text, "1. Graafbak 600mm\n")
	assert.Contains(t, text, "   Categorie: Graafbakken > Standaard Graafbakken\n")
	assert.Contains(t, text, "   Aantal: 2\n")
	assert.Contains(t, text, "   Specs: breedte: 600mm\n")
	assert.NotContains(t, text, "leeg", "empty spec values are dropped")
	assert.Contains(t, text, "2. Sloophamer\n")
	assert.Contains(t, text, "   Categorie: Sloophamers\n")
	assert.True(t, strings.HasSuffix(text, "Totaal: 3 product(en)\n"))
}

func TestFormatAsJSON(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	require.True(t, svc.AddItem(ctx, domain.Product{
		ID: "p1", Slug: "graafbak-600mm", Title: "Graafbak 600mm", Quantity: 2,
		Specs:    map[string]string{"breedte": "600mm"},
		Category: "Graafbakken", Image: "https://example.test/p1.png",
	}))

	raw, err := svc.FormatAsJSON()
	require.NoError(t, err)

	var lines []map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &lines))
	require.Len(t, lines, 1)
	assert.Equal(t, "p1", lines[0]["id"])
	assert.Equal(t, "graafbak-600mm", lines[0]["slug"])
	assert.Equal(t, "Graafbak 600mm", lines[0]["title"])
	assert.Equal(t, float64(2), lines[0]["quantity"])
	assert.NotContains(t, lines[0], "category", "payload is minimal")
	assert.NotContains(t, lines[0], "image")
	assert.NotContains(t, lines[0], "addedAt")
}

func TestFormat_DoesNotMutate(t *testing.T) {
	area := store.NewMemoryArea()
	ctx := context.Background()
	svc := New(ctx, area.Store(store.Key))
	defer svc.Close()

	require.True(t, svc.AddItem(ctx, domain.Product{ID: "p1", Title: "Graafbak", Quantity: 2}))
	before := svc.GetItems()

	_ = svc.FormatAsText()
	_, err := svc.FormatAsJSON()
	require.NoError(t, err)

	assert.Equal(t, before, svc.GetItems())
}
