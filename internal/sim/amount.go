package sim

// smallTargetSlack is the absolute threshold below which a desired amount is
// returned unchanged instead of being noised.
const smallTargetSlack = 100

// TargetedAmount turns a desired target value into a bounded, noised
// transaction amount. The effective range is the configured global bounds,
// each capped by the target itself, so the result never exceeds the target
// when the target is above the configured ceiling. Degenerate ranges and
// targets within smallTargetSlack of the effective minimum pass through
// unchanged.
func (c *Context) TargetedAmount(target float64) float64 {
	max := c.MaxTxAmount
	if target < max {
		max = target
	}
	min := c.MinTxAmount
	if target < min {
		min = target
	}

	if max-min <= 0 {
		return target
	}
	if target-min <= smallTargetSlack {
		return target
	}
	return min + c.Rand.Float64()*(max-min)
}
