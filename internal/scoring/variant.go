package scoring

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/MikeSquared-Agency/Hitchyard/internal/config"
	"github.com/MikeSquared-Agency/Hitchyard/internal/shipment"
)

var ErrUnknownVariant = errors.New("unknown variant")

// Ramp is a capped linear response to pallet count:
// min(Cap, Floor + Step × (pallets − minPallets)).
type Ramp struct {
	Floor float64 `json:"floor"`
	Step  float64 `json:"step"`
	Cap   float64 `json:"cap"`
}

func (r Ramp) At(pallets, minPallets int) float64 {
	above := pallets - minPallets
	if above < 0 {
		above = 0
	}
	return math.Min(r.Cap, r.Floor+r.Step*float64(above))
}

// Tier is a named metro band and the match score it earns.
type Tier struct {
	Name  string        `json:"name"`
	Band  shipment.Band `json:"band"`
	Score float64       `json:"score"`
}

// TierTable resolves a postal code to the first tier containing it, else Default.
type TierTable struct {
	Tiers   []Tier  `json:"tiers"`
	Default float64 `json:"default"`
}

func (t TierTable) Lookup(code int) (float64, string) {
	for _, tier := range t.Tiers {
		if tier.Band.Contains(code) {
			return tier.Score, tier.Name
		}
	}
	return t.Default, "in_state"
}

// Variant is the full scoring profile of one landing page.
type Variant struct {
	Name                 string         `json:"name"`
	Rules                shipment.Rules `json:"rules"`
	Weights              WeightSet      `json:"weights"`
	ReliabilityInput     bool           `json:"reliability_input"`
	ReliabilityBaseline  float64        `json:"reliability_baseline"`
	RelationshipBaseline float64        `json:"relationship_baseline"`
	Efficiency           Ramp           `json:"efficiency"`
	Match                TierTable      `json:"match"`
	LegacyHPS            bool           `json:"legacy_hps"`
	RateCheck            bool           `json:"rate_check"`
}

// FromConfig converts a configured profile into a scoring Variant.
func FromConfig(vc config.VariantConfig) Variant {
	tiers := make([]Tier, 0, len(vc.MetroTiers))
	for _, t := range vc.MetroTiers {
		tiers = append(tiers, Tier{Name: t.Name, Band: shipment.Band{Low: t.Low, High: t.High}, Score: t.Score})
	}
	return Variant{
		Name: vc.Name,
		Rules: shipment.Rules{
			MinPallets:         vc.MinPallets,
			MaxPallets:         vc.MaxPallets,
			Region:             shipment.Band{Low: vc.Region.Low, High: vc.Region.High},
			RequireDestination: vc.RequireDestination,
			RequireEmail:       vc.RequireEmail,
			RequireCommodity:   vc.RequireCommodity,
		},
		Weights: WeightSet{
			Reliability:      vc.Weights.Reliability,
			Efficiency:       vc.Weights.Efficiency,
			Relationship:     vc.Weights.Relationship,
			MatchSuccess:     vc.Weights.MatchSuccess,
			DestinationMatch: vc.Weights.DestinationMatch,
		},
		ReliabilityInput:     vc.ReliabilityInput,
		ReliabilityBaseline:  vc.ReliabilityBaseline,
		RelationshipBaseline: vc.RelationshipBaseline,
		Efficiency:           Ramp{Floor: vc.Efficiency.Floor, Step: vc.Efficiency.Step, Cap: vc.Efficiency.Cap},
		Match:                TierTable{Tiers: tiers, Default: vc.DefaultMatch},
		LegacyHPS:            vc.LegacyHPS,
		RateCheck:            vc.RateCheck,
	}
}

// Registry holds the configured variants keyed by name.
type Registry struct {
	variants   map[string]*Variant
	validators map[string]*shipment.Validator
	def        string
}

func NewRegistry(variants []Variant, defaultName string) (*Registry, error) {
	r := &Registry{
		variants:   make(map[string]*Variant, len(variants)),
		validators: make(map[string]*shipment.Validator, len(variants)),
		def:        defaultName,
	}
	for i := range variants {
		v := variants[i]
		if err := v.Weights.Validate(); err != nil {
			return nil, fmt.Errorf("variant %s: %w", v.Name, err)
		}
		if _, dup := r.variants[v.Name]; dup {
			return nil, fmt.Errorf("duplicate variant %q", v.Name)
		}
		r.variants[v.Name] = &v
		r.validators[v.Name] = shipment.NewValidator(v.Rules)
	}
	if _, ok := r.variants[defaultName]; !ok {
		return nil, fmt.Errorf("default variant %q: %w", defaultName, ErrUnknownVariant)
	}
	return r, nil
}

// RegistryFromConfig builds a Registry from cfg.Variants and cfg.DefaultVariant.
func RegistryFromConfig(cfg *config.Config) (*Registry, error) {
	variants := make([]Variant, 0, len(cfg.Variants))
	for _, vc := range cfg.Variants {
		variants = append(variants, FromConfig(vc))
	}
	return NewRegistry(variants, cfg.DefaultVariant)
}

// Get resolves a variant by name; an empty name selects the default.
func (r *Registry) Get(name string) (*Variant, *shipment.Validator, error) {
	if name == "" {
		name = r.def
	}
	v, ok := r.variants[name]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrUnknownVariant, name)
	}
	return v, r.validators[name], nil
}

func (r *Registry) Default() string { return r.def }

// List returns variants sorted by name.
func (r *Registry) List() []*Variant {
	out := make([]*Variant, 0, len(r.variants))
	for _, v := range r.variants {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
