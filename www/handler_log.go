package www

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/icodeforyou/spotprice-go/database"
	"github.com/icodeforyou/spotprice-go/logging"
)

type LogSource interface {
	GetLogEntries(ctx context.Context, minLvl slog.Level, page, pageSize int) ([]database.LogEntryRow, error)
}

func NewLogHandler(logger *slog.Logger, logs LogSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := intOrDefault(r.URL, "page", 1)
		pageSize := intOrDefault(r.URL, "size", 25)
		level := slog.LevelDebug
		if v := r.URL.Query().Get("level"); v != "" {
			level = logging.LevelFromString(&v)
		}

		entries, err := logs.GetLogEntries(r.Context(), level, page, pageSize)
		if err != nil {
			writeError(w, logger, http.StatusInternalServerError, err)
			return
		}

		writeJSON(w, logger, http.StatusOK, struct {
			Page     int                    `json:"page"`
			PageSize int                    `json:"page_size"`
			Entries  []database.LogEntryRow `json:"entries"`
		}{
			Page:     page,
			PageSize: pageSize,
			Entries:  entries,
		})
	}
}
