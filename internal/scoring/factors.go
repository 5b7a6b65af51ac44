package scoring

import (
	"fmt"

	"github.com/MikeSquared-Agency/Hitchyard/internal/shipment"
)

// FactorResult captures one factor's contribution to the composite.
// Score is on the 0–100 scale; Weighted is Score × Weight.
type FactorResult struct {
	Name      string  `json:"name"`
	Score     float64 `json:"score"`
	Weight    float64 `json:"weight"`
	Weighted  float64 `json:"weighted"`
	Available bool    `json:"available"`
	Reason    string  `json:"reason"`
}

// LoadContext bundles a validated request with the variant scoring it.
type LoadContext struct {
	Request *shipment.Request
	Variant *Variant
}

// ReliabilityFactor takes the shipper-reported on-time percentage when the
// variant collects it, otherwise the variant baseline.
func ReliabilityFactor(lc *LoadContext) FactorResult {
	if lc.Variant.ReliabilityInput && lc.Request.Reliability != nil {
		// A percentage maps 1:1 onto the factor's 0–100 scale.
		score := float64(*lc.Request.Reliability)
		return FactorResult{Name: "reliability", Score: clamp(score, 0, 100), Available: true, Reason: "reported"}
	}
	return FactorResult{Name: "reliability", Score: lc.Variant.ReliabilityBaseline, Available: false, Reason: "baseline"}
}

// EfficiencyFactor rewards fuller vehicles: a capped linear ramp over pallet count.
func EfficiencyFactor(lc *LoadContext) FactorResult {
	pallets := lc.Request.Pallets()
	score := lc.Variant.Efficiency.At(pallets, lc.Variant.Rules.MinPallets)
	reason := fmt.Sprintf("%d pallets", pallets)
	if score >= lc.Variant.Efficiency.Cap {
		reason += " (capped)"
	}
	return FactorResult{Name: "efficiency", Score: clamp(score, 0, 100), Available: true, Reason: reason}
}

// RelationshipFactor is a fixed account-quality baseline; no input drives it yet.
func RelationshipFactor(lc *LoadContext) FactorResult {
	return FactorResult{Name: "relationship", Score: lc.Variant.RelationshipBaseline, Available: false, Reason: "baseline"}
}

// MatchSuccessFactor scores the origin postal code against the metro tiers.
func MatchSuccessFactor(lc *LoadContext) FactorResult {
	return matchFactor("match_success", lc.Request.OriginZip, lc.Variant.Match)
}

// DestinationMatchFactor scores the destination postal code. Without a
// destination it falls back to the table default.
func DestinationMatchFactor(lc *LoadContext) FactorResult {
	if lc.Request.DestinationZip == "" {
		return FactorResult{Name: "destination_match", Score: lc.Variant.Match.Default, Available: false, Reason: "no destination"}
	}
	return matchFactor("destination_match", lc.Request.DestinationZip, lc.Variant.Match)
}

func matchFactor(name, zip string, table TierTable) FactorResult {
	code, _ := shipment.ParsePostalCode(zip)
	score, tier := table.Lookup(code)
	return FactorResult{Name: name, Score: clamp(score, 0, 100), Available: true, Reason: tier}
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
