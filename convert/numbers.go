package convert

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

func RoundFloat64(number float64, decimals int) float64 {
	return math.Round(number*math.Pow10(decimals)) / math.Pow10(decimals)
}

// Ore converts SEK/kWh to öre/kWh with two decimals, banker's rounding and a
// decimal comma, e.g. 0.123456 -> "12,35".
func Ore(sekPerKWh float64) string {
	ore := decimal.NewFromFloat(sekPerKWh).Mul(decimal.NewFromInt(100)).RoundBank(2)
	return strings.Replace(ore.StringFixedBank(2), ".", ",", 1)
}

// OreValue is the numeric counterpart of Ore, for JSON output.
func OreValue(sekPerKWh float64) float64 {
	f, _ := decimal.NewFromFloat(sekPerKWh).Mul(decimal.NewFromInt(100)).RoundBank(2).Float64()
	return f
}
