package www

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/icodeforyou/spotprice-go/calc"
	"github.com/icodeforyou/spotprice-go/hours"
	"github.com/icodeforyou/spotprice-go/types"
)

func NewHistoryHandler(logger *slog.Logger, history PriceHistory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		zone, err := types.ParseZone(mux.Vars(r)["zone"])
		if err != nil {
			writeError(w, logger, http.StatusBadRequest, err)
			return
		}

		date, err := dateOrToday(r.URL)
		if err != nil {
			writeError(w, logger, http.StatusBadRequest, err)
			return
		}

		prices, err := history.GetPrices(r.Context(), zone, date)
		if err != nil {
			writeError(w, logger, http.StatusInternalServerError, err)
			return
		}
		if len(prices) == 0 {
			writeError(w, logger, http.StatusNotFound,
				fmt.Errorf("archived prices for %s in %s: %w", hours.FormatDate(date), zone, calc.ErrNoData))
			return
		}

		writeJSON(w, logger, http.StatusOK, prices)
	}
}
