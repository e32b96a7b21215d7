package nordpool

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/icodeforyou/spotprice-go/hours"
	"github.com/icodeforyou/spotprice-go/types"
)

const DefaultBaseURL = "https://dataportal-api.nordpoolgroup.com"

type Nordpool struct {
	baseURL string
	client  *http.Client
}

func New(baseURL string, timeout time.Duration) Nordpool {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return Nordpool{baseURL: baseURL, client: &http.Client{Timeout: timeout}}
}

func (n Nordpool) Name() string {
	return "nordpool"
}

func (n Nordpool) GetPrices(ctx context.Context, date time.Time, zone types.Zone) ([]types.PriceSample, error) {
	url := fmt.Sprintf("%s/api/DayAheadPrices?date=%s&market=DayAhead&deliveryArea=%s&currency=SEK",
		n.baseURL,
		date.Format(hours.DateLayout),
		zone)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := n.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch prices from nordpool: %w", err)
	}
	defer resp.Body.Close()

	// No Content is what nordpool answers before the auction is published
	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusNoContent {
		return []types.PriceSample{}, nil
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var data dayAheadPrices
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	prices := make([]types.PriceSample, 0, len(data.MultiAreaEntries))
	for _, entry := range data.MultiAreaEntries {
		price, ok := entry.EntryPerArea[zone.String()]
		if !ok {
			continue
		}
		sek := normalizePrice(price)
		eur := 0.0
		if data.ExchangeRate > 0 {
			eur = normalizePrice(price / data.ExchangeRate)
		}
		prices = append(prices, types.PriceSample{
			SEKPerKWh: sek,
			EURPerKWh: eur,
			EXR:       data.ExchangeRate,
			TimeStart: hours.LocationStockholm(entry.DeliveryStart),
			TimeEnd:   hours.LocationStockholm(entry.DeliveryEnd),
		})
	}

	return prices, nil
}

// normalizePrice converts a price per MWh to per kWh with five decimals.
func normalizePrice(price float64) float64 {
	precision := math.Pow(10, float64(5))
	return math.Round(price*precision/1e3) / precision
}
