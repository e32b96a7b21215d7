package calc

import (
	"math"
	"time"

	"github.com/icodeforyou/spotprice-go/types"
)

var day = time.Date(2025, 10, 1, 0, 0, 0, 0, time.FixedZone("CEST", 2*3600))

func sample(start time.Time, length time.Duration, sek float64) types.PriceSample {
	return types.PriceSample{
		SEKPerKWh: sek,
		EURPerKWh: sek / 10,
		EXR:       10,
		TimeStart: start,
		TimeEnd:   start.Add(length),
	}
}

func series(length time.Duration, prices ...float64) []types.PriceSample {
	res := make([]types.PriceSample, len(prices))
	for i, p := range prices {
		res[i] = sample(day.Add(time.Duration(i)*length), length, p)
	}
	return res
}

func almostEqual(f1 float64, f2 float64) bool {
	return math.Abs(f1-f2) < 1e-9
}
