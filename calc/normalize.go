package calc

import (
	"fmt"
	"slices"
	"time"

	"github.com/icodeforyou/spotprice-go/hours"
	"github.com/icodeforyou/spotprice-go/slice"
	"github.com/icodeforyou/spotprice-go/types"
)

// minSamplesToNormalize is the smallest input that can hold one hour of
// quarter-hour samples.
const minSamplesToNormalize = 4

// Group size when the first two samples start at the same time.
const quartersPerHour = 4

// ToHourly averages sub-hourly samples into hourly buckets. The sampling
// interval is taken from the first two samples. Input that is already hourly
// (or coarser), or too short to tell, is returned as is. Groups hold as many
// whole intervals as fit in an hour, at least one. A trailing group with fewer
// samples than that is dropped. Only nil input is an error.
func ToHourly(samples []types.PriceSample) ([]types.PriceSample, error) {
	if samples == nil {
		return nil, fmt.Errorf("normalizing prices: %w", ErrInvalidInput)
	}
	if len(samples) < minSamplesToNormalize {
		return samples, nil
	}

	sorted := slices.Clone(samples)
	slices.SortStableFunc(sorted, func(a, b types.PriceSample) int {
		return a.TimeStart.Compare(b.TimeStart)
	})

	interval := sorted[1].TimeStart.Sub(sorted[0].TimeStart)
	if interval >= time.Hour {
		return sorted, nil
	}
	perHour := quartersPerHour
	if interval > 0 {
		perHour = max(1, int(time.Hour/interval))
	}
	hourly := make([]types.PriceSample, 0, len(sorted)/perHour)
	for i := 0; i+perHour <= len(sorted); i += perHour {
		hourly = append(hourly, bucket(sorted[i:i+perHour]))
	}

	return hourly, nil
}

func bucket(group []types.PriceSample) types.PriceSample {
	n := float64(len(group))
	start := hours.Truncate(group[0].TimeStart)
	return types.PriceSample{
		SEKPerKWh: slice.Sum(group, func(p types.PriceSample) float64 { return p.SEKPerKWh }) / n,
		EURPerKWh: slice.Sum(group, func(p types.PriceSample) float64 { return p.EURPerKWh }) / n,
		EXR:       slice.Sum(group, func(p types.PriceSample) float64 { return p.EXR }) / n,
		TimeStart: start,
		TimeEnd:   start.Add(time.Hour),
	}
}
