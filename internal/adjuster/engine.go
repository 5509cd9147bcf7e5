package adjuster

import (
	"fmt"

	"github.com/abhi24703/dynamicpricing/internal/model"
)

// DefaultBaseline is the competitor price (INR) at which the competitor
// adjustment is a no-op.
const DefaultBaseline = 8000.0

// competitorSlope is the influence per 100% competitor deviation. It is a
// slope, not a cap: a competitor at 3x baseline moves the price by +20%.
const competitorSlope = 0.10

// Engine applies the deterministic post-hoc adjustments to a base estimate.
// Order is fixed: competitor deviation first, then occupancy tier, each
// multiplying the running price.
type Engine struct {
	baseline float64
}

// NewEngine creates an adjustment engine. A zero baseline selects
// DefaultBaseline.
func NewEngine(baseline float64) *Engine {
	if baseline == 0 {
		baseline = DefaultBaseline
	}
	return &Engine{baseline: baseline}
}

// Baseline returns the competitor baseline price.
func (e *Engine) Baseline() float64 { return e.baseline }

// CompetitorMultiplier returns the factor applied for a given competitor
// price. Exactly 1.0 at the baseline; otherwise linear and unbounded in the
// deviation ratio.
func (e *Engine) CompetitorMultiplier(competitorPrice float64) float64 {
	if competitorPrice == e.baseline {
		return 1.0
	}
	ratio := competitorPrice / e.baseline
	return 1 + (ratio-1)*competitorSlope
}

// Apply transforms the base price into the final price and returns the
// adjustment trail. Both adjustments compose multiplicatively in sequence.
func (e *Engine) Apply(basePrice float64, ctx model.PricingContext) (float64, []model.Adjustment) {
	price := basePrice
	adjustments := make([]model.Adjustment, 0, 2)

	cm := e.CompetitorMultiplier(ctx.CompetitorPrice)
	price *= cm
	adjustments = append(adjustments, model.Adjustment{
		Name:       "competitor",
		Multiplier: cm,
		Commentary: fmt.Sprintf("competitor %+.1f%% vs baseline %.0f", (ctx.CompetitorPrice/e.baseline-1)*100, e.baseline),
	})

	tier := TierFor(ctx.OccupancyRate)
	om := 1 + tier.Rate
	price *= om
	adjustments = append(adjustments, model.Adjustment{
		Name:       "occupancy",
		Multiplier: om,
		Commentary: fmt.Sprintf("occupancy %.0f%%, %s tier", ctx.OccupancyRate*100, tier.Label),
	})

	return price, adjustments
}
