package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrice_NoTokenIsOnRequest(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	info, err := NewClient(server.URL).Price(context.Background(), "p1", "")

	require.NoError(t, err)
	assert.True(t, info.OnRequest())
	assert.Equal(t, "EUR", info.Currency)
	assert.False(t, called, "no credential means no upstream call")
}

func TestPrice_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products/p1/price", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"price":1234.5,"currency":"EUR"}`))
	}))
	defer server.Close()

	info, err := NewClient(server.URL).Price(context.Background(), "p1", "tok")

	require.NoError(t, err)
	require.False(t, info.OnRequest())
	assert.Equal(t, 1234.5, *info.Price)
}

func TestPrice_NullPriceIsOnRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"price":null,"currency":"EUR"}`))
	}))
	defer server.Close()

	info, err := NewClient(server.URL).Price(context.Background(), "p1", "tok")

	require.NoError(t, err)
	assert.True(t, info.OnRequest())
}

func TestPrice_UnauthorizedDegradesToOnRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	info, err := NewClient(server.URL).Price(context.Background(), "p1", "stale")

	require.NoError(t, err)
	assert.True(t, info.OnRequest())
}

func TestPrice_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := NewClient(server.URL).Price(context.Background(), "p1", "tok")

	assert.ErrorIs(t, err, ErrUpstream)
}

func TestRelated_ExcludesCurrentAndCaps(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "graafbakken", r.URL.Query().Get("category"))
		_, _ = w.Write([]byte(`[
			{"id":"p1","title":"huidige"},
			{"id":"p2","title":"a"},
			{"id":"p3","title":"b"},
			{"id":"p4","title":"c"}
		]`))
	}))
	defer server.Close()

	related, err := NewClient(server.URL).Related(context.Background(), "p1", "graafbakken", 2)

	require.NoError(t, err)
	require.Len(t, related, 2)
	assert.Equal(t, "p2", related[0].ID)
	assert.Equal(t, "p3", related[1].ID)
}

func TestRelated_UpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := NewClient(server.URL).Related(context.Background(), "p1", "graafbakken", 4)

	assert.Error(t, err)
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "€ 1.234,50", FormatPrice(1234.5, "EUR"))
	assert.Equal(t, "€ 95,00", FormatPrice(95, ""))
	assert.Equal(t, "USD 10,00", FormatPrice(10, "USD"))
}
