package www

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/icodeforyou/spotprice-go/config"
	"github.com/icodeforyou/spotprice-go/database"
	"github.com/icodeforyou/spotprice-go/hours"
	"github.com/icodeforyou/spotprice-go/report"
	"github.com/icodeforyou/spotprice-go/types"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	hours int
}

func (f fakeProvider) Name() string { return "fake" }

func (f fakeProvider) GetPrices(_ context.Context, date time.Time, _ types.Zone) ([]types.PriceSample, error) {
	if date.Year() < 2021 {
		return nil, nil
	}
	res := make([]types.PriceSample, f.hours)
	for i := range res {
		start := date.Add(time.Duration(i) * time.Hour)
		price := 0.5
		if i == 3 {
			price = 0.25
		}
		res[i] = types.PriceSample{SEKPerKWh: price, EURPerKWh: price / 10, EXR: 10, TimeStart: start, TimeEnd: start.Add(time.Hour)}
	}
	return res, nil
}

type fakeHistory struct {
	prices []types.PriceSample
	err    error
	zone   types.Zone
	date   time.Time
}

func (f *fakeHistory) GetPrices(_ context.Context, zone types.Zone, date time.Time) ([]types.PriceSample, error) {
	f.zone, f.date = zone, date
	return f.prices, f.err
}

type fakeLogs struct {
	minLvl         slog.Level
	page, pageSize int
}

func (f *fakeLogs) GetLogEntries(_ context.Context, minLvl slog.Level, page, pageSize int) ([]database.LogEntryRow, error) {
	f.minLvl, f.page, f.pageSize = minLvl, page, pageSize
	return []database.LogEntryRow{{Level: int(slog.LevelWarn), Message: "too few hours"}}, nil
}

type testServer struct {
	handler  http.Handler
	history  *fakeHistory
	logs     *fakeLogs
	archived int
}

func newTestServer(providerHours int) *testServer {
	ts := &testServer{history: &fakeHistory{}, logs: &fakeLogs{}}
	builder := report.NewBuilder(slog.New(slog.NewTextHandler(io.Discard, nil)), fakeProvider{hours: providerHours})
	s := NewServer(builder, ts.history, ts.logs, func() { ts.archived++ }, config.AppConfigApi{Port: 8080})
	ts.handler = s.Handler()
	return ts
}

func (ts *testServer) do(method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestReportEndpoint(t *testing.T) {
	ts := newTestServer(24)

	rec := ts.do(http.MethodGet, "/api/report/se3?date=2025-01-15&charging=2h&sorted=true")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body struct {
		Zone    string  `json:"zone"`
		Date    string  `json:"date"`
		MeanOre float64 `json:"mean_ore_per_kwh"`
		Min     struct {
			Span string `json:"span"`
		} `json:"min"`
		Hours  []json.RawMessage `json:"hours"`
		Window *struct {
			Hours   int    `json:"hours"`
			StartAt string `json:"start_at"`
		} `json:"charging_window"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "SE3", body.Zone)
	require.Equal(t, "2025-01-15", body.Date)
	require.Equal(t, "03-04", body.Min.Span)
	require.Len(t, body.Hours, 48)
	require.NotNil(t, body.Window)
	require.Equal(t, 2, body.Window.Hours)
	require.Equal(t, "02:00", body.Window.StartAt)
}

func TestReportEndpointWithoutWindow(t *testing.T) {
	ts := newTestServer(24)

	rec := ts.do(http.MethodGet, "/api/report/SE1?date=2025-01-15")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"charging_window":null`)
}

func TestReportEndpointErrors(t *testing.T) {
	ts := newTestServer(2)

	tests := []struct {
		name   string
		target string
		status int
	}{
		{"unknown zone", "/api/report/SE5?date=2025-01-15", http.StatusBadRequest},
		{"bad date", "/api/report/SE3?date=15/01/2025", http.StatusBadRequest},
		{"bad charging", "/api/report/SE3?date=2025-01-15&charging=3h", http.StatusBadRequest},
		{"no data", "/api/report/SE3?date=2019-12-31", http.StatusNotFound},
		{"window too long", "/api/report/SE3?date=2025-01-15&charging=8h", http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(http.MethodGet, tt.target)
			require.Equal(t, tt.status, rec.Code)

			var body errorBody
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			require.NotEmpty(t, body.Error)
		})
	}
}

func TestHistoryEndpoint(t *testing.T) {
	ts := newTestServer(24)
	start, _ := hours.ParseDate("2025-01-15")
	ts.history.prices = []types.PriceSample{{SEKPerKWh: 0.42, TimeStart: start, TimeEnd: start.Add(time.Hour)}}

	rec := ts.do(http.MethodGet, "/api/history/se4?date=2025-01-15")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, types.ZoneSE4, ts.history.zone)
	require.True(t, start.Equal(ts.history.date))

	var prices []types.PriceSample
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &prices))
	require.Len(t, prices, 1)
	require.Equal(t, 0.42, prices[0].SEKPerKWh)
}

func TestHistoryEndpointErrors(t *testing.T) {
	ts := newTestServer(24)

	rec := ts.do(http.MethodGet, "/api/history/se4?date=2025-01-15")
	require.Equal(t, http.StatusNotFound, rec.Code)

	ts.history.err = errors.New("database is locked")
	rec = ts.do(http.MethodGet, "/api/history/se4?date=2025-01-15")
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	rec = ts.do(http.MethodGet, "/api/history/nowhere")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogEndpoint(t *testing.T) {
	ts := newTestServer(24)

	rec := ts.do(http.MethodGet, "/api/log?level=warn&page=2&size=10")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, slog.LevelWarn, ts.logs.minLvl)
	require.Equal(t, 2, ts.logs.page)
	require.Equal(t, 10, ts.logs.pageSize)
	require.Contains(t, rec.Body.String(), "too few hours")

	ts.do(http.MethodGet, "/api/log")
	require.Equal(t, slog.LevelDebug, ts.logs.minLvl)
	require.Equal(t, 1, ts.logs.page)
	require.Equal(t, 25, ts.logs.pageSize)
}

func TestArchiveTaskEndpoint(t *testing.T) {
	ts := newTestServer(24)

	rec := ts.do(http.MethodPost, "/api/tasks/archive")
	require.Equal(t, http.StatusAccepted, rec.Code)
	require.Equal(t, 1, ts.archived)

	rec = ts.do(http.MethodGet, "/api/tasks/archive")
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	require.Equal(t, 1, ts.archived)
}

func TestRunStopsOnCancel(t *testing.T) {
	s := NewServer(nil, nil, nil, func() {}, config.AppConfigApi{Address: "127.0.0.1", Port: 0})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
