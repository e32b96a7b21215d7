package www

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/icodeforyou/spotprice-go/calc"
	"github.com/icodeforyou/spotprice-go/hours"
)

func intOrDefault(u *url.URL, key string, defaultValue int) int {
	if v := u.Query().Get(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultValue
}

func boolOrDefault(u *url.URL, key string, defaultValue bool) bool {
	if v := u.Query().Get(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultValue
}

// dateOrToday reads the date query parameter, today when missing.
func dateOrToday(u *url.URL) (time.Time, error) {
	if v := u.Query().Get("date"); v != "" {
		return hours.ParseDate(v)
	}
	return hours.Today(), nil
}

func statusFromError(err error) int {
	switch {
	case errors.Is(err, calc.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, calc.ErrNoData):
		return http.StatusNotFound
	case errors.Is(err, calc.ErrInsufficientData):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

type errorBody struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, logger *slog.Logger, status int, err error) {
	if status >= http.StatusInternalServerError {
		logger.Error("handling request", slog.Any("error", err))
	} else {
		logger.Debug("bad request", slog.Int("status", status), slog.Any("error", err))
	}
	writeJSON(w, logger, status, errorBody{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("writing response", slog.Any("error", err))
	}
}
