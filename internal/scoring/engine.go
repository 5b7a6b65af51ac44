package scoring

import (
	"log/slog"

	"github.com/MikeSquared-Agency/Hitchyard/internal/shipment"
)

// Engine is the caller-facing entry point shared by every front end:
// resolve the variant, validate, then score.
type Engine struct {
	registry *Registry
	scorer   *Scorer
}

func NewEngine(registry *Registry, logger *slog.Logger) *Engine {
	return &Engine{registry: registry, scorer: NewScorer(logger)}
}

func (e *Engine) Registry() *Registry { return e.registry }

// ComputeScore returns either a ScoreResult or an error. The error is a
// *shipment.ValidationError when the load is rejected, or wraps
// ErrUnknownVariant when req.Variant names no configured profile.
func (e *Engine) ComputeScore(req *shipment.Request) (ScoreResult, error) {
	v, validator, err := e.registry.Get(req.Variant)
	if err != nil {
		return ScoreResult{}, err
	}
	if verr := validator.Validate(req); verr != nil {
		return ScoreResult{}, verr
	}
	return e.scorer.Score(req, v), nil
}
