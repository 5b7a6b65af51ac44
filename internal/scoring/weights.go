package scoring

import (
	"fmt"
	"math"
)

// WeightSet defines the relative importance of each scoring factor.
// All weights must sum to 1.0 (±0.001 tolerance). DestinationMatch is zero
// for variants that only score an origin.
type WeightSet struct {
	Reliability      float64 `json:"reliability"`
	Efficiency       float64 `json:"efficiency"`
	Relationship     float64 `json:"relationship"`
	MatchSuccess     float64 `json:"match_success"`
	DestinationMatch float64 `json:"destination_match,omitempty"`
}

// DefaultWeights returns the Check My Load distribution.
func DefaultWeights() WeightSet {
	return WeightSet{
		Reliability:  0.4,
		Efficiency:   0.3,
		Relationship: 0.2,
		MatchSuccess: 0.1,
	}
}

// Sum returns the total of all weights.
func (w WeightSet) Sum() float64 {
	return w.Reliability + w.Efficiency + w.Relationship + w.MatchSuccess + w.DestinationMatch
}

// Validate checks that weights sum to 1.0 and none are negative.
func (w WeightSet) Validate() error {
	if math.Abs(w.Sum()-1.0) > 0.001 {
		return fmt.Errorf("weights sum to %.4f, must sum to 1.0", w.Sum())
	}
	for _, v := range w.asList() {
		if v < 0 {
			return fmt.Errorf("negative weight: %f", v)
		}
	}
	return nil
}

func (w WeightSet) asList() []float64 {
	return []float64{w.Reliability, w.Efficiency, w.Relationship, w.MatchSuccess, w.DestinationMatch}
}
