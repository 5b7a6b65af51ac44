package scoring

import (
	"log/slog"
	"math"

	"github.com/shopspring/decimal"

	"github.com/MikeSquared-Agency/Hitchyard/internal/shipment"
)

// ScoreResult is the Hitchyard Performance Score for one load.
type ScoreResult struct {
	Variant   string           `json:"variant"`
	Composite int              `json:"composite"`
	Raw       float64          `json:"raw"`
	Verdict   string           `json:"verdict"`
	Factors   []FactorResult   `json:"factors"`
	LegacyHPS *float64         `json:"legacy_hps,omitempty"`
	RatePerLb *decimal.Decimal `json:"rate_per_lb,omitempty"`
}

// Subfactors maps factor name to its weighted contribution.
func (r ScoreResult) Subfactors() map[string]float64 {
	out := make(map[string]float64, len(r.Factors))
	for _, f := range r.Factors {
		out[f.Name] = f.Weighted
	}
	return out
}

// Scorer computes the weighted additive composite over the four load factors.
type Scorer struct {
	logger *slog.Logger
}

func NewScorer(logger *slog.Logger) *Scorer {
	return &Scorer{logger: logger}
}

// Score assumes req already passed the variant's validator.
//
//	composite = min(100, max(0, round(Σ weight_i × factor_i)))
//
// The sum is carried in decimal so that x.5 boundaries round the same way
// regardless of binary float error.
func (s *Scorer) Score(req *shipment.Request, v *Variant) ScoreResult {
	lc := &LoadContext{Request: req, Variant: v}

	factors := []FactorResult{
		ReliabilityFactor(lc),
		EfficiencyFactor(lc),
		RelationshipFactor(lc),
		MatchSuccessFactor(lc),
	}
	weights := []float64{
		v.Weights.Reliability,
		v.Weights.Efficiency,
		v.Weights.Relationship,
		v.Weights.MatchSuccess,
	}
	if v.Weights.DestinationMatch > 0 {
		factors = append(factors, DestinationMatchFactor(lc))
		weights = append(weights, v.Weights.DestinationMatch)
	}

	total := decimal.Zero
	for i := range factors {
		w := decimal.NewFromFloat(weights[i])
		weighted := decimal.NewFromFloat(factors[i].Score).Mul(w)
		factors[i].Weight = weights[i]
		factors[i].Weighted = weighted.InexactFloat64()
		total = total.Add(weighted)
	}

	composite := int(total.Round(0).IntPart())
	if composite < 0 {
		composite = 0
	}
	if composite > 100 {
		composite = 100
	}

	result := ScoreResult{
		Variant:   v.Name,
		Composite: composite,
		Raw:       total.InexactFloat64(),
		Verdict:   VerdictFor(composite),
		Factors:   factors,
	}

	if v.LegacyHPS && req.Reliability != nil {
		legacy := LegacyHPS(*req.Reliability)
		result.LegacyHPS = &legacy
	}
	if v.RateCheck {
		result.RatePerLb = RatePerLb(req)
	}

	if s.logger != nil {
		s.logger.Debug("load scored",
			"variant", v.Name,
			"pallets", req.Pallets(),
			"composite", composite,
			"raw", result.Raw,
		)
	}
	return result
}

// RatePerLb returns payout / weight to two places, or nil when either is
// missing or the weight is zero or not finite.
func RatePerLb(req *shipment.Request) *decimal.Decimal {
	if req.Payout == nil || req.WeightLbs == nil || *req.WeightLbs <= 0 ||
		math.IsNaN(*req.WeightLbs) || math.IsInf(*req.WeightLbs, 0) {
		return nil
	}
	rate := req.Payout.Div(decimal.NewFromFloat(*req.WeightLbs)).Round(2)
	return &rate
}
