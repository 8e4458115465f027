package conf

import "github.com/synthaml/amlsim/internal/sim"

// Params converts the configuration into the engine's run parameters.
func (c *Config) Params() sim.Params {
	return sim.Params{
		NumSteps:    c.General.TotalSteps,
		TxInterval:  c.Simulator.TransactionInterval,
		MinTxAmount: c.Default.MinTxAmount,
		MaxTxAmount: c.Default.MaxTxAmount,
		MarginRatio: c.Default.MarginRatio,
		CashIn:      cashParams(c.Default.CashIn),
		CashOut:     cashParams(c.Default.CashOut),
	}
}

func cashParams(d CashDirectionConfig) sim.CashParams {
	return sim.CashParams{
		Enabled:        d.Enabled,
		NormalInterval: d.NormalInterval,
		SARInterval:    d.SARInterval,
		NormalMin:      d.NormalMin,
		NormalMax:      d.NormalMax,
		SARMin:         d.SARMin,
		SARMax:         d.SARMax,
	}
}

// SimPolicy converts the optional policy section into an engine policy.
// Returns nil when no policy is configured. Omitted probabilities and ratios
// default to 1.0 (always transact, amount unchanged).
func (c *Config) SimPolicy() *sim.Policy {
	p := c.Policy
	if p == nil {
		return nil
	}
	return &sim.Policy{
		SARToSAREdgeThreshold:       p.SAR2SAREdgeThreshold,
		SARToNormalEdgeThreshold:    p.SAR2NormalEdgeThreshold,
		NormalToSAREdgeThreshold:    p.Normal2SAREdgeThreshold,
		NormalToNormalEdgeThreshold: p.Normal2NormalEdgeThresh,

		SARToSARTxProb:       orOne(p.SAR2SARTxProb),
		SARToNormalTxProb:    orOne(p.SAR2NormalTxProb),
		NormalToSARTxProb:    orOne(p.Normal2SARTxProb),
		NormalToNormalTxProb: orOne(p.Normal2NormalTxProb),

		SARToSARAmountRatio:       orOne(p.SAR2SARAmountRatio),
		SARToNormalAmountRatio:    orOne(p.SAR2NormalAmountRatio),
		NormalToSARAmountRatio:    orOne(p.Normal2SARAmountRatio),
		NormalToNormalAmountRatio: orOne(p.Normal2NormalAmountRatio),

		NormalHighRatio: orOne(p.NormalHighRatio),
		NormalLowRatio:  orOne(p.NormalLowRatio),
		NormalHighProb:  p.NormalHighProb,
		NormalLowProb:   p.NormalLowProb,
		NormalSkipProb:  p.NormalSkipProb,
	}
}

func orOne(v float64) float64 {
	if v == 0 {
		return 1
	}
	return v
}
