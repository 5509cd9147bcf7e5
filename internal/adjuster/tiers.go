package adjuster

// Tier maps an occupancy threshold to a multiplicative rate adjustment.
type Tier struct {
	MinOccupancy float64
	Rate         float64
	Label        string
}

// Tiers is the occupancy step function, scanned from the highest threshold
// down; the first threshold <= occupancy wins. Not interpolated.
var Tiers = []Tier{
	{0.90, 0.15, "peak"},
	{0.80, 0.10, "high"},
	{0.70, 0.06, "busy"},
	{0.50, 0.00, "steady"},
	{0.30, -0.05, "slow"},
	{0.00, -0.12, "empty"},
}

// TierFor returns the tier whose threshold is the highest one <= occupancy.
// Thresholds are inclusive, so occupancy exactly 0.70 lands in the "busy"
// tier. Values above 1.0 fall into the top tier and negative values into the
// bottom one; out-of-range occupancy is not rejected here.
func TierFor(occupancy float64) Tier {
	for _, t := range Tiers {
		if occupancy >= t.MinOccupancy {
			return t
		}
	}
	return Tiers[len(Tiers)-1]
}
