package scoring

import "github.com/shopspring/decimal"

// LegacyHPS reproduces the reliability-audit page's stored hps_score:
//
//	reliability/10 × 0.4 + 5.2, one decimal place
//
// It lives on a ~5–9 scale, not 0–100, and is inconsistent with every other
// variant. It is reported alongside the composite and never feeds it.
// TODO: drop once the reliability-audit leads table stops reading hps_score.
func LegacyHPS(reliability int) float64 {
	return decimal.NewFromInt(int64(reliability)).
		Div(decimal.NewFromInt(10)).
		Mul(decimal.RequireFromString("0.4")).
		Add(decimal.RequireFromString("5.2")).
		Round(1).
		InexactFloat64()
}
