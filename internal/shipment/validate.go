package shipment

import (
	"math"
	"strings"
)

// Rejection reasons surfaced verbatim to callers.
const (
	ReasonMissingField         = "missing required field"
	ReasonTooFewPallets        = "too few pallets for service"
	ReasonTooManyPallets       = "too many pallets for service"
	ReasonInvalidPostalCode    = "invalid regional postal code"
	ReasonReliabilityRange     = "reliability must be between 0 and 100"
	ReasonNegativeWeight       = "weight must be non-negative"
	ReasonNegativePayout       = "payout must be non-negative"
	ReasonPayoutPrecision      = "payout must be in whole cents"
	ReasonUnsupportedCommodity = "unsupported commodity"
)

// ValidationError names the first rule a request failed.
type ValidationError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e *ValidationError) Error() string {
	if e.Reason == ReasonMissingField {
		return e.Reason + ": " + e.Field
	}
	return e.Reason
}

func reject(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// Rules are the per-variant constraints a request must satisfy before scoring.
type Rules struct {
	MinPallets         int  `json:"min_pallets"`
	MaxPallets         int  `json:"max_pallets"`
	Region             Band `json:"region"`
	RequireDestination bool `json:"require_destination"`
	RequireEmail       bool `json:"require_email"`
	RequireCommodity   bool `json:"require_commodity"`
}

type Validator struct {
	rules Rules
}

func NewValidator(rules Rules) *Validator {
	return &Validator{rules: rules}
}

func (v *Validator) Rules() Rules { return v.rules }

// Validate applies the checks in order and stops at the first failure:
// presence, pallet range, postal region, then auxiliary numerics.
func (v *Validator) Validate(req *Request) *ValidationError {
	if err := v.checkPresence(req); err != nil {
		return err
	}

	pallets := *req.PalletCount
	if pallets < v.rules.MinPallets {
		return reject("pallet_count", ReasonTooFewPallets)
	}
	if pallets > v.rules.MaxPallets {
		return reject("pallet_count", ReasonTooManyPallets)
	}

	if !v.inRegion(req.OriginZip) {
		return reject("origin_zip", ReasonInvalidPostalCode)
	}
	if req.DestinationZip != "" && !v.inRegion(req.DestinationZip) {
		return reject("destination_zip", ReasonInvalidPostalCode)
	}

	if req.Reliability != nil && (*req.Reliability < 0 || *req.Reliability > 100) {
		return reject("reliability", ReasonReliabilityRange)
	}
	if req.WeightLbs != nil && !validWeight(*req.WeightLbs) {
		return reject("weight_lbs", ReasonNegativeWeight)
	}
	if req.Payout != nil && req.Payout.IsNegative() {
		return reject("payout", ReasonNegativePayout)
	}
	if req.Payout != nil && !req.Payout.Equal(req.Payout.Round(2)) {
		return reject("payout", ReasonPayoutPrecision)
	}
	if req.Commodity != "" && !req.Commodity.Valid() {
		return reject("commodity", ReasonUnsupportedCommodity)
	}
	return nil
}

func (v *Validator) checkPresence(req *Request) *ValidationError {
	if req.PalletCount == nil {
		return reject("pallet_count", ReasonMissingField)
	}
	if strings.TrimSpace(req.OriginZip) == "" {
		return reject("origin_zip", ReasonMissingField)
	}
	if v.rules.RequireDestination && strings.TrimSpace(req.DestinationZip) == "" {
		return reject("destination_zip", ReasonMissingField)
	}
	if v.rules.RequireEmail && strings.TrimSpace(req.Email) == "" {
		return reject("email", ReasonMissingField)
	}
	if v.rules.RequireCommodity && req.Commodity == "" {
		return reject("commodity", ReasonMissingField)
	}
	return nil
}

// ValidatePostalCode checks a single postal code against the region rule,
// reporting failures under field.
func (v *Validator) ValidatePostalCode(field, zip string) *ValidationError {
	if strings.TrimSpace(zip) == "" {
		return reject(field, ReasonMissingField)
	}
	if !v.inRegion(zip) {
		return reject(field, ReasonInvalidPostalCode)
	}
	return nil
}

// validWeight rejects NaN and ±Inf along with negatives; NaN compares false
// against everything.
func validWeight(w float64) bool {
	return !math.IsNaN(w) && !math.IsInf(w, 0) && w >= 0
}

func (v *Validator) inRegion(zip string) bool {
	code, ok := ParsePostalCode(zip)
	return ok && v.rules.Region.Contains(code)
}
