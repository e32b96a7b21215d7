package elprisetjustnu

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/icodeforyou/spotprice-go/types"
)

const DefaultBaseURL = "https://www.elprisetjustnu.se"

type rawPrice struct {
	SEKPerKWh float64   `json:"SEK_per_kWh"`
	EURPerKWh float64   `json:"EUR_per_kWh"`
	EXR       float64   `json:"EXR"`
	TimeStart time.Time `json:"time_start"`
	TimeEnd   time.Time `json:"time_end"`
}

type ElPrisetJustNu struct {
	baseURL string
	client  *http.Client
}

func New(baseURL string, timeout time.Duration) ElPrisetJustNu {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return ElPrisetJustNu{baseURL: baseURL, client: &http.Client{Timeout: timeout}}
}

func (e ElPrisetJustNu) Name() string {
	return "elprisetjustnu"
}

// GetPrices returns the published samples for the date, quarter-hourly from
// October 2025 and hourly before that. An unpublished day gives an empty slice.
func (e ElPrisetJustNu) GetPrices(ctx context.Context, date time.Time, zone types.Zone) ([]types.PriceSample, error) {
	url := fmt.Sprintf("%s/api/v1/prices/%d/%02d-%02d_%s.json",
		e.baseURL, date.Year(), int(date.Month()), date.Day(), zone)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch prices: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return []types.PriceSample{}, nil
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var rawPrices []rawPrice
	if err := json.NewDecoder(resp.Body).Decode(&rawPrices); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	prices := make([]types.PriceSample, 0, len(rawPrices))
	for _, raw := range rawPrices {
		prices = append(prices, types.PriceSample{
			SEKPerKWh: raw.SEKPerKWh,
			EURPerKWh: raw.EURPerKWh,
			EXR:       raw.EXR,
			TimeStart: raw.TimeStart,
			TimeEnd:   raw.TimeEnd,
		})
	}

	return prices, nil
}
