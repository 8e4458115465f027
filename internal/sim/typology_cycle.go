package sim

import "slices"

// CycleTypology circulates an amount along the member ring: member i pays
// member i+1, the last pays the first. Each hop shaves off the margin ratio,
// floored at the minimum amount.
type CycleTypology struct {
	typologyBase
	steps []int64
	// amount circulates across hops and decays per hop, so it persists
	// between invocations.
	amount float64
}

// ModelName implements TransactionModel.
func (t *CycleTypology) ModelName() string { return "CycleTypology" }

// Configure implements Typology. The window keeps its original length but is
// relocated to a decentralized start so concurrent cycles do not align.
func (t *CycleTypology) Configure(scheduleID int) {
	n := len(t.alert.Members())
	if n == 0 {
		return
	}
	t.amount = t.maxAmount
	allSteps := t.ctx.NumSteps
	period := t.endStep - t.startStep
	t.startStep = t.ctx.generateStartStep(allSteps - period)
	t.endStep = t.startStep + period
	if t.endStep > allSteps {
		t.endStep = allSteps
	}

	t.steps = make([]int64, n)
	switch scheduleID {
	case ScheduleFixedInterval:
		period = t.endStep - t.startStep
		if int64(n) < period {
			interval := period / int64(n)
			for i := 0; i < n-1; i++ {
				t.steps[i] = t.startStep + interval*int64(i)
			}
		} else {
			if period < 1 {
				period = 1 // single-step window, all hops share the start
			}
			batch := int64(n) / period
			if batch < 1 {
				batch = 1
			}
			for i := 0; i < n-1; i++ {
				t.steps[i] = t.startStep + int64(i)/batch
			}
		}
		t.steps[n-1] = t.endStep

	case ScheduleRandomInterval, ScheduleUnordered:
		// Pin the first hop to the window start and the second to the
		// window end, draw the rest freely.
		t.steps[0] = t.startStep
		if n > 1 {
			t.steps[1] = t.endStep
		}
		for i := 2; i < n; i++ {
			t.steps[i] = t.randomStep()
		}
		if scheduleID == ScheduleRandomInterval {
			slices.Sort(t.steps)
		}

	case ScheduleSimultaneous:
		step := t.randomStep()
		for i := range t.steps {
			t.steps[i] = step
		}
	}
}

// SendTransactions implements TransactionModel. The circulating amount is
// capped by each source's balance and decays by the margin ratio per hop.
func (t *CycleTypology) SendTransactions(step int64, acct *Account) {
	members := t.alert.Members()
	n := len(members)
	if n == 0 {
		return
	}
	alertID := t.alert.ID()
	isSAR := t.alert.IsSAR()

	for i := 0; i < n; i++ {
		if t.steps[i] != step {
			continue
		}
		src := members[i]
		dst := members[(i+1)%n]
		if b := src.Balance(); b < t.amount {
			t.amount = b
		}
		t.ctx.sendTransaction(step, t.ctx.TargetedAmount(t.amount), src, dst, isSAR, alertID)

		t.amount -= t.amount * t.marginRatio
		if t.amount < t.minAmount {
			t.amount = t.minAmount
		}
	}
}
