package sim

// ScatterGatherTypology routes money from the main account through every
// intermediate member to a single collector: a fan-out phase in the first
// half of the window, a fan-in phase in the second. Each gather payment is
// the scatter amount minus one margin cut.
type ScatterGatherTypology struct {
	typologyBase
	orig          *Account
	bene          *Account
	intermediates []*Account
	scatterSteps  []int64
	gatherSteps   []int64
	scatterAmount float64
	gatherAmount  float64
}

// ModelName implements TransactionModel.
func (t *ScatterGatherTypology) ModelName() string { return "ScatterGatherTypology" }

// Configure implements Typology. The schedule policy is not consulted: the
// two phases are anchored to the window ends with random interior steps.
func (t *ScatterGatherTypology) Configure(scheduleID int) {
	members := t.alert.Members()
	t.orig = t.alert.MainAccount()
	if t.orig == nil {
		t.orig = members[0]
	}
	for _, m := range members {
		if m == t.orig {
			continue
		}
		if t.bene == nil {
			t.bene = m
			continue
		}
		t.intermediates = append(t.intermediates, m)
	}

	t.scatterAmount = t.maxAmount
	t.gatherAmount = t.scatterAmount - t.scatterAmount*t.marginRatio
	if t.gatherAmount < t.minAmount {
		t.gatherAmount = t.minAmount
	}

	size := len(t.intermediates)
	if size == 0 {
		return
	}
	t.scatterSteps = make([]int64, size)
	t.gatherSteps = make([]int64, size)
	middle := (t.startStep + t.endStep) / 2
	// The first intermediate is pinned to the window ends so the pattern
	// always spans the full window.
	t.scatterSteps[0] = t.startStep
	t.gatherSteps[0] = t.endStep
	for i := 1; i < size; i++ {
		t.scatterSteps[i] = t.randomStepRange(t.startStep, middle)
		t.gatherSteps[i] = t.randomStepRange(middle+1, t.endStep)
	}
}

// SendTransactions implements TransactionModel.
func (t *ScatterGatherTypology) SendTransactions(step int64, acct *Account) {
	alertID := t.alert.ID()
	isSAR := t.alert.IsSAR()

	for i := range t.intermediates {
		if t.scatterSteps[i] == step {
			target := t.scatterAmount
			if b := t.orig.Balance(); b < target {
				target = b
			}
			amount := t.ctx.TargetedAmount(target)
			t.ctx.sendTransaction(step, amount, t.orig, t.intermediates[i], isSAR, alertID)
		}
		if t.gatherSteps[i] == step {
			mid := t.intermediates[i]
			target := t.gatherAmount
			if b := mid.Balance(); b < target {
				target = b
			}
			amount := t.ctx.TargetedAmount(target)
			t.ctx.sendTransaction(step, amount, mid, t.bene, isSAR, alertID)
		}
	}
}

// GatherScatterTypology is the reverse pattern: half the members pay the
// main account in the first half of the window; at the midpoint the total
// received, minus the margin, is split evenly over the remaining members and
// scattered out in the second half.
type GatherScatterTypology struct {
	typologyBase
	main          *Account
	origs         []*Account
	benes         []*Account
	gatherSteps   []int64
	scatterSteps  []int64
	middleStep    int64
	totalReceived float64
	scatterAmount float64
}

// ModelName implements TransactionModel.
func (t *GatherScatterTypology) ModelName() string { return "GatherScatterTypology" }

// Configure implements Typology.
func (t *GatherScatterTypology) Configure(scheduleID int) {
	members := t.alert.Members()
	t.main = t.alert.MainAccount()
	if t.main == nil {
		t.main = members[0]
	}
	var sub []*Account
	for _, m := range members {
		if m != t.main {
			sub = append(sub, m)
		}
	}
	numOrigs := len(sub) / 2
	t.origs = sub[:numOrigs]
	t.benes = sub[numOrigs:]
	t.middleStep = (t.startStep + t.endStep) / 2

	if len(t.origs) > 0 {
		t.gatherSteps = make([]int64, len(t.origs))
		t.gatherSteps[0] = t.startStep
		for i := 1; i < len(t.origs); i++ {
			t.gatherSteps[i] = t.randomStepRange(t.startStep, t.middleStep)
		}
	}
	if len(t.benes) > 0 {
		t.scatterSteps = make([]int64, len(t.benes))
		t.scatterSteps[0] = t.endStep
		for i := 1; i < len(t.benes); i++ {
			t.scatterSteps[i] = t.randomStepRange(t.middleStep+1, t.endStep)
		}
	}
}

// SendTransactions implements TransactionModel.
func (t *GatherScatterTypology) SendTransactions(step int64, acct *Account) {
	alertID := t.alert.ID()
	isSAR := t.alert.IsSAR()

	if step <= t.middleStep {
		for i, orig := range t.origs {
			if t.gatherSteps[i] != step {
				continue
			}
			amount := t.ctx.TargetedAmount(orig.Balance())
			t.ctx.sendTransaction(step, amount, orig, t.main, isSAR, alertID)
			t.totalReceived += amount
		}
		if step == t.middleStep && len(t.benes) > 0 {
			// Everything gathered so far, minus the margin, is split
			// evenly over the scatter fan.
			kept := t.totalReceived - t.totalReceived*t.marginRatio
			t.scatterAmount = kept / float64(len(t.benes))
		}
		return
	}
	for i, bene := range t.benes {
		if t.scatterSteps[i] != step {
			continue
		}
		target := t.scatterAmount
		if b := t.main.Balance(); b < target {
			target = b
		}
		amount := t.ctx.TargetedAmount(target)
		t.ctx.sendTransaction(step, amount, t.main, bene, isSAR, alertID)
	}
}
