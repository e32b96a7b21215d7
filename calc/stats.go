package calc

import (
	"fmt"

	"github.com/icodeforyou/spotprice-go/slice"
	"github.com/icodeforyou/spotprice-go/types"
)

type Summary struct {
	Min   types.PriceSample `json:"min"`
	Max   types.PriceSample `json:"max"`
	Mean  float64           `json:"mean"` // SEK per kWh
	Count int               `json:"count"`
}

type accumulator struct {
	min, max types.PriceSample
	sum      float64
	n        int
}

// Summarize returns the cheapest hour (earliest wins a tie), the most
// expensive hour (latest wins a tie) and the mean SEK price.
func Summarize(hourly []types.PriceSample) (Summary, error) {
	if len(hourly) == 0 {
		return Summary{}, fmt.Errorf("summarizing prices: %w", ErrNoData)
	}

	acc := slice.Reduce(hourly[1:], accumulator{
		min: hourly[0],
		max: hourly[0],
		sum: hourly[0].SEKPerKWh,
		n:   1,
	}, fold)

	return Summary{
		Min:   acc.min,
		Max:   acc.max,
		Mean:  acc.sum / float64(acc.n),
		Count: acc.n,
	}, nil
}

func fold(acc accumulator, p types.PriceSample) accumulator {
	if p.SEKPerKWh < acc.min.SEKPerKWh ||
		(p.SEKPerKWh == acc.min.SEKPerKWh && p.TimeStart.Before(acc.min.TimeStart)) {
		acc.min = p
	}
	if p.SEKPerKWh > acc.max.SEKPerKWh ||
		(p.SEKPerKWh == acc.max.SEKPerKWh && p.TimeStart.After(acc.max.TimeStart)) {
		acc.max = p
	}
	acc.sum += p.SEKPerKWh
	acc.n++
	return acc
}
