package elprisetjustnu

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

const quarterResponse = `[
	{"SEK_per_kWh": 0.41, "EUR_per_kWh": 0.0372, "EXR": 11.02, "time_start": "2025-10-01T00:00:00+02:00", "time_end": "2025-10-01T00:15:00+02:00"},
	{"SEK_per_kWh": 0.39, "EUR_per_kWh": 0.0354, "EXR": 11.02, "time_start": "2025-10-01T00:15:00+02:00", "time_end": "2025-10-01T00:30:00+02:00"}
]`

func TestGetPrices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/prices/2025/10-01_SE3.json", r.URL.Path, "Unexpected request URL")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(quarterResponse))
	}))
	defer srv.Close()

	date, err := hours.ParseDate("2025-10-01")
	require.NoError(t, err)

	prices, err := New(srv.URL, 5*time.Second).GetPrices(context.Background(), date, types.ZoneSE3)
	require.NoError(t, err)
	require.Len(t, prices, 2)
	require.Equal(t, 0.41, prices[0].SEKPerKWh)
	require.Equal(t, 0.0354, prices[1].EURPerKWh)
	require.Equal(t, 11.02, prices[1].EXR)
	require.Equal(t, 15*time.Minute, prices[0].Duration())
}

func TestGetPricesNotPublished(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	prices, err := New(srv.URL, time.Second).GetPrices(context.Background(), hours.Today(), types.ZoneSE1)
	require.NoError(t, err)
	require.NotNil(t, prices)
	require.Empty(t, prices)
}

func TestGetPricesServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := New(srv.URL, time.Second).GetPrices(context.Background(), hours.Today(), types.ZoneSE4)
	require.Error(t, err)
}
