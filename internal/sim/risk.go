package sim

import "math/rand"

// Risk overlay ranges. Hidden tasks add 10-15% of the base duration; the
// systemic multiplier scales the inflated total by 1.0-1.35x.
const (
	hiddenFactorMin = 0.10
	hiddenFactorMax = 0.15
	riskFactorMin   = 1.00
	riskFactorMax   = 1.35
)

// Adjustment is the risk overlay applied to one iteration's base duration.
type Adjustment struct {
	HiddenAmount float64 // extra time added for unmodeled work
	Multiplier   float64 // systemic risk multiplier
	Final        float64 // (base + HiddenAmount) * Multiplier
}

// ApplyRisk draws the two overlay factors from the given stream and returns
// the adjusted duration. Both factors are redrawn every iteration from the
// same stream the sampler uses, so a seeded run replays exactly. For any
// base >= 0 the result satisfies Final >= base.
func ApplyRisk(base float64, rng *rand.Rand) Adjustment {
	factor := hiddenFactorMin + rng.Float64()*(hiddenFactorMax-hiddenFactorMin)
	mult := riskFactorMin + rng.Float64()*(riskFactorMax-riskFactorMin)
	hidden := base * factor
	return Adjustment{
		HiddenAmount: hidden,
		Multiplier:   mult,
		Final:        (base + hidden) * mult,
	}
}
