package sim

import "math"

// Policy tunes the transaction network beyond the default behavior: whether
// an edge between two accounts is actually created, whether a normal
// transaction fires at all, and how its amount is scaled. Thresholds and
// ratios are keyed on the SAR flags of the originator and beneficiary.
//
// A nil *Policy is valid and means "admit every edge, pass every amount
// through unchanged".
type Policy struct {
	// Edge admission thresholds on the originator's proportion of SAR
	// beneficiaries.
	SARToSAREdgeThreshold       float64
	SARToNormalEdgeThreshold    float64
	NormalToSAREdgeThreshold    float64
	NormalToNormalEdgeThreshold float64

	// Probability that a transaction between the given account classes is
	// made at all.
	SARToSARTxProb       float64
	SARToNormalTxProb    float64
	NormalToSARTxProb    float64
	NormalToNormalTxProb float64

	// Amount scaling per account class pair.
	SARToSARAmountRatio       float64
	SARToNormalAmountRatio    float64
	NormalToSARAmountRatio    float64
	NormalToNormalAmountRatio float64

	// High/low amount noise for normal originators.
	NormalHighRatio float64 // must be >= 1
	NormalLowRatio  float64 // must be in (0, 1]
	NormalHighProb  float64
	NormalLowProb   float64
	NormalSkipProb  float64

	rand randSource
}

type randSource interface {
	Float64() float64
}

// Bind attaches the shared random source used for probability draws and
// amount noise. It must be called before the policy is used.
func (p *Policy) Bind(r randSource) {
	if p != nil {
		p.rand = r
	}
}

// amountNoise returns a multiplicative noise factor in [0.9, 1.1).
func (p *Policy) amountNoise() float64 {
	return p.rand.Float64()*0.2 + 0.9
}

// AdjustAmount scales a base amount for a normal-path transaction. A
// non-positive return means the transaction is skipped. Nil-safe: without a
// policy the base amount passes through unchanged.
func (p *Policy) AdjustAmount(orig, bene *Account, base float64) float64 {
	if p == nil {
		return base
	}

	amount := base * p.amountNoise()

	var ratio float64
	prob := p.rand.Float64()

	if orig.IsSAR() {
		if bene.IsSAR() {
			if p.SARToSARTxProb <= prob {
				return 0
			}
			ratio = p.SARToSARAmountRatio
		} else {
			if p.SARToNormalTxProb <= prob {
				return 0
			}
			ratio = p.SARToNormalAmountRatio
		}
	} else {
		if bene.IsSAR() {
			if p.NormalToSARTxProb <= prob {
				return 0
			}
			ratio = p.NormalToSARAmountRatio
		} else {
			if p.NormalToNormalTxProb <= prob {
				return 0
			}
			ratio = p.NormalToNormalAmountRatio
		}

		prob = p.rand.Float64()
		switch {
		case prob < p.NormalHighProb: // near the upper limit
			ratio *= p.NormalHighRatio
		case prob < p.NormalHighProb+p.NormalLowProb:
			ratio *= p.NormalLowRatio
		case prob < p.NormalHighProb+p.NormalLowProb+p.NormalSkipProb:
			return 0 // skip this transaction
		}
	}
	return amount * ratio
}

// ShouldAddEdge decides whether a beneficiary edge between the two accounts
// is actually created. Nil-safe: without a policy every edge is admitted.
func (p *Policy) ShouldAddEdge(orig, bene *Account) bool {
	if p == nil {
		return true
	}

	numNeighbors := len(orig.benes)
	propSARBene := orig.PropSARBene()

	if orig.IsSAR() {
		if bene.IsSAR() {
			return propSARBene >= p.SARToSAREdgeThreshold
		}
		return propSARBene >= p.SARToNormalEdgeThreshold
	}
	if bene.IsSAR() {
		if p.NormalToSAREdgeThreshold <= 0 {
			return true
		}
		return numNeighbors > int(math.Floor(1/p.NormalToSAREdgeThreshold)) &&
			propSARBene >= p.NormalToSAREdgeThreshold
	}
	return propSARBene >= p.NormalToNormalEdgeThreshold
}
