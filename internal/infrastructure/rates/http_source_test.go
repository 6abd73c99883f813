package rates_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grocermart/grocermart/internal/infrastructure/rates"
)

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/latest/SGD", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"base":"SGD","rates":{"USD":0.74,"EUR":0.68}}`))
	}))
	defer srv.Close()

	source := rates.NewHTTPSource(srv.URL)
	got, err := source.Fetch(context.Background(), "SGD")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, got["USD"].Equal(decimal.NewFromFloat(0.74)))
}

func TestFetch_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	source := rates.NewHTTPSource(srv.URL)
	_, err := source.Fetch(context.Background(), "SGD")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestFetch_EmptyRates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"base":"SGD","rates":{}}`))
	}))
	defer srv.Close()

	source := rates.NewHTTPSource(srv.URL)
	_, err := source.Fetch(context.Background(), "SGD")
	require.Error(t, err)
}
