package www

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/icodeforyou/spotprice-go/calc"
	"github.com/icodeforyou/spotprice-go/optimize"
	"github.com/icodeforyou/spotprice-go/report"
	"github.com/icodeforyou/spotprice-go/types"
	"github.com/icodeforyou/spotprice-go/types/maybe"
)

func NewReportHandler(logger *slog.Logger, builder ReportBuilder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		zone, err := types.ParseZone(mux.Vars(r)["zone"])
		if err != nil {
			writeError(w, logger, http.StatusBadRequest, fmt.Errorf("%w: %w", calc.ErrInvalidInput, err))
			return
		}

		date, err := dateOrToday(r.URL)
		if err != nil {
			writeError(w, logger, http.StatusBadRequest, err)
			return
		}

		opts := report.Options{
			Date:          date,
			Zone:          zone,
			Sorted:        boolOrDefault(r.URL, "sorted", false),
			ChargingHours: maybe.None[int](),
		}
		if v := r.URL.Query().Get("charging"); v != "" {
			h, err := optimize.ParseChargingHours(v)
			if err != nil {
				writeError(w, logger, http.StatusBadRequest, err)
				return
			}
			opts.ChargingHours = maybe.Some(h)
		}

		rep, err := builder.Build(r.Context(), opts)
		if err != nil {
			writeError(w, logger, statusFromError(err), err)
			return
		}

		writeJSON(w, logger, http.StatusOK, report.ToJSON(rep))
	}
}
