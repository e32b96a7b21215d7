package nordpool

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/icodeforyou/spotprice-go/hours"
	"github.com/icodeforyou/spotprice-go/types"
	"github.com/stretchr/testify/require"
)

const response = `{
	"deliveryDateCET": "2025-10-01",
	"version": 3,
	"market": "DayAhead",
	"deliveryAreas": ["SE4"],
	"currency": "SEK",
	"exchangeRate": 10.0,
	"multiAreaEntries": [
		{"deliveryStart": "2025-09-30T22:00:00Z", "deliveryEnd": "2025-09-30T22:15:00Z", "entryPerArea": {"SE4": 512.34}},
		{"deliveryStart": "2025-09-30T22:15:00Z", "deliveryEnd": "2025-09-30T22:30:00Z", "entryPerArea": {"SE3": 100.0}}
	]
}`

func TestGetPrices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/DayAheadPrices", r.URL.Path)
		require.Equal(t, "2025-10-01", r.URL.Query().Get("date"))
		require.Equal(t, "SE4", r.URL.Query().Get("deliveryArea"))
		require.Equal(t, "SEK", r.URL.Query().Get("currency"))
		_, _ = w.Write([]byte(response))
	}))
	defer srv.Close()

	date, err := hours.ParseDate("2025-10-01")
	require.NoError(t, err)

	prices, err := New(srv.URL, time.Second).GetPrices(context.Background(), date, types.ZoneSE4)
	require.NoError(t, err)
	require.Len(t, prices, 1, "entries for other areas are skipped")
	require.InDelta(t, 0.51234, prices[0].SEKPerKWh, 1e-9)
	require.InDelta(t, 0.05123, prices[0].EURPerKWh, 1e-9)
	require.Equal(t, 10.0, prices[0].EXR)
	require.Equal(t, 0, prices[0].TimeStart.Hour(), "delivery start is reported in Stockholm time")
}

func TestGetPricesNoContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	prices, err := New(srv.URL, time.Second).GetPrices(context.Background(), hours.Today(), types.ZoneSE2)
	require.NoError(t, err)
	require.Empty(t, prices)
}

func TestNormalizePrice(t *testing.T) {
	require.Equal(t, 1.23457, normalizePrice(1234.567))
	require.Equal(t, -0.01, normalizePrice(-10))
}
