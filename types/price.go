package types

import (
	"context"
	"time"
)

// PriceSample is the spot price for one delivery interval. The prices are
// kept in both currencies together with the exchange rate used.
type PriceSample struct {
	SEKPerKWh float64   `json:"sek_per_kwh"`
	EURPerKWh float64   `json:"eur_per_kwh"`
	EXR       float64   `json:"exr"`
	TimeStart time.Time `json:"time_start"`
	TimeEnd   time.Time `json:"time_end"`
}

func (p PriceSample) Duration() time.Duration {
	return p.TimeEnd.Sub(p.TimeStart)
}

// PriceProvider returns the samples for one delivery day in a zone, ordered by time.
// An empty slice means the day is not published (yet).
type PriceProvider interface {
	GetPrices(ctx context.Context, date time.Time, zone Zone) ([]PriceSample, error)
}
