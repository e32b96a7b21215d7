package optimize

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/icodeforyou/spotprice-go/calc"
	"github.com/icodeforyou/spotprice-go/types"
	"github.com/shopspring/decimal"
)

type Direction int

const (
	Minimize Direction = iota // Cheapest window
	Maximize                  // Most expensive window
)

func (d Direction) String() string {
	switch d {
	case Minimize:
		return "minimize"
	case Maximize:
		return "maximize"
	default:
		return "unknown"
	}
}

func (d Direction) better(candidate, best decimal.Decimal) bool {
	if d == Maximize {
		return candidate.GreaterThan(best)
	}
	return candidate.LessThan(best)
}

// ChargingHours are the window lengths offered to users.
var ChargingHours = []int{2, 4, 8}

type Window struct {
	Start     int       `json:"start_index"`
	Hours     int       `json:"hours"`
	Sum       float64   `json:"sum"`  // SEK per kWh, summed over the window
	Mean      float64   `json:"mean"` // SEK per kWh
	TimeStart time.Time `json:"time_start"`
	TimeEnd   time.Time `json:"time_end"`
}

func CheapestWindow(hourly []types.PriceSample, hours int) (Window, error) {
	return FindWindow(hourly, hours, Minimize)
}

// FindWindow slides a window of the given number of hours over the time
// ordered prices and returns the first window with the best sum.
func FindWindow(hourly []types.PriceSample, hours int, dir Direction) (Window, error) {
	if hours < 1 {
		return Window{}, fmt.Errorf("window of %d hours: %w", hours, calc.ErrInvalidInput)
	}
	if len(hourly) < hours {
		return Window{}, fmt.Errorf("window of %d hours over %d prices: %w", hours, len(hourly), calc.ErrInsufficientData)
	}

	// Providers publish a handful of decimals, summed exactly equal windows
	// stay equal and the first one wins.
	var (
		sum       decimal.Decimal
		nonFinite int // NaN or Inf prices in the window, such a window only wins when no window is finite
	)
	add := func(p types.PriceSample, sign int) {
		if !isFinite(p.SEKPerKWh) {
			nonFinite += sign
			return
		}
		if sign > 0 {
			sum = sum.Add(decimal.NewFromFloat(p.SEKPerKWh))
		} else {
			sum = sum.Sub(decimal.NewFromFloat(p.SEKPerKWh))
		}
	}
	for _, p := range hourly[:hours] {
		add(p, 1)
	}

	bestSum, bestIdx, bestValid := sum, 0, nonFinite == 0
	for i := hours; i < len(hourly); i++ {
		add(hourly[i], 1)
		add(hourly[i-hours], -1)
		if nonFinite == 0 && (!bestValid || dir.better(sum, bestSum)) {
			bestSum, bestIdx, bestValid = sum, i-hours+1, true
		}
	}

	var windowSum, mean float64
	if bestValid {
		windowSum = bestSum.InexactFloat64()
		mean = bestSum.Div(decimal.NewFromInt(int64(hours))).InexactFloat64()
	} else {
		for _, p := range hourly[bestIdx : bestIdx+hours] {
			windowSum += p.SEKPerKWh
		}
		mean = windowSum / float64(hours)
	}

	return Window{
		Start:     bestIdx,
		Hours:     hours,
		Sum:       windowSum,
		Mean:      mean,
		TimeStart: hourly[bestIdx].TimeStart,
		TimeEnd:   hourly[bestIdx+hours-1].TimeEnd,
	}, nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// ParseChargingHours accepts "2", "4h", " 8H " and similar.
func ParseChargingHours(str string) (int, error) {
	s := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(str)), "h")
	h, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid charging duration %q: %w", str, err)
	}
	for _, allowed := range ChargingHours {
		if h == allowed {
			return h, nil
		}
	}
	return 0, fmt.Errorf("charging duration %q not one of %v: %w", str, ChargingHours, calc.ErrInvalidInput)
}
