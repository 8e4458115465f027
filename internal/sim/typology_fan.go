package sim

// FanOutTypology distributes money from the main account to every other
// member, each at its own scheduled step.
type FanOutTypology struct {
	typologyBase
	orig  *Account
	benes []*Account
	steps []int64
}

// ModelName implements TransactionModel.
func (t *FanOutTypology) ModelName() string { return "FanOutTypology" }

// Configure implements Typology.
func (t *FanOutTypology) Configure(scheduleID int) {
	members := t.alert.Members()
	t.orig = t.alert.MainAccount()
	if t.orig == nil {
		t.orig = members[0]
	}
	for _, bene := range members {
		if bene != t.orig {
			t.benes = append(t.benes, bene)
		}
	}

	numBenes := len(t.benes)
	if numBenes == 0 {
		return
	}
	// Decentralize the first transaction step before laying out the
	// schedule so concurrent fans do not align.
	defaultInterval := t.windowRange() / int64(numBenes)
	if defaultInterval < 1 {
		defaultInterval = 1
	}
	t.startStep = t.ctx.generateStartStep(defaultInterval)
	t.steps = t.buildSchedule(numBenes, scheduleID)
}

// SendTransactions implements TransactionModel. Only the designated
// originator's step fires outgoing edges.
func (t *FanOutTypology) SendTransactions(step int64, acct *Account) {
	if t.orig == nil || t.orig.ID() != acct.ID() {
		return
	}
	alertID := t.alert.ID()
	isSAR := t.alert.IsSAR()
	amount := t.transactionAmount()

	for i := range t.steps {
		if t.steps[i] == step {
			t.ctx.sendTransaction(step, amount, t.orig, t.benes[i], isSAR, alertID)
		}
	}
}

func (t *FanOutTypology) transactionAmount() float64 {
	if len(t.benes) == 0 {
		return t.ctx.TargetedAmount(0)
	}
	return t.ctx.TargetedAmount(t.orig.Balance() / float64(len(t.benes)))
}

// FanInTypology has every non-main member pay the main account once, each at
// its own scheduled step, targeting the payer's balance.
type FanInTypology struct {
	typologyBase
	bene  *Account
	origs []*Account
	steps []int64
}

// ModelName implements TransactionModel.
func (t *FanInTypology) ModelName() string { return "FanInTypology" }

// Configure implements Typology.
func (t *FanInTypology) Configure(scheduleID int) {
	members := t.alert.Members()
	t.bene = t.alert.MainAccount()
	if t.bene == nil {
		t.bene = members[0]
	}
	for _, orig := range members {
		if orig != t.bene {
			t.origs = append(t.origs, orig)
		}
	}

	numOrigs := len(t.origs)
	if numOrigs == 0 {
		return
	}
	defaultInterval := t.windowRange() / int64(numOrigs)
	if defaultInterval < 1 {
		defaultInterval = 1
	}
	t.startStep = t.ctx.generateStartStep(defaultInterval)
	t.steps = t.buildSchedule(numOrigs, scheduleID)
}

// SendTransactions implements TransactionModel.
func (t *FanInTypology) SendTransactions(step int64, acct *Account) {
	alertID := t.alert.ID()
	isSAR := t.alert.IsSAR()

	for i := range t.steps {
		if t.steps[i] == step {
			orig := t.origs[i]
			amount := t.ctx.TargetedAmount(orig.Balance())
			t.ctx.sendTransaction(step, amount, orig, t.bene, isSAR, alertID)
		}
	}
}
