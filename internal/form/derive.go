package form

import "math"

// SixPercentRate is the assessment ratio applied to market value (line b).
const SixPercentRate = 0.06

// SixPercentOf computes line b from line a: round(a × 0.06, 2) when a is a
// finite number, 0 otherwise.
func SixPercentOf(market Number) float64 {
	a, ok := market.Float()
	if !ok {
		return 0
	}
	b := math.Round(a*SixPercentRate*100) / 100
	if math.IsInf(b, 0) || math.IsNaN(b) {
		return 0
	}
	return b
}

// Derive recomputes every derived field of r from its inputs.
func Derive(r *Record) {
	r.Valuation.SixPercent = SixPercentOf(r.Valuation.MarketValue)
}
