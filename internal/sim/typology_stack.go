package sim

// StackTypology layers the members into three tiers: senders, intermediates
// and receivers. Senders pay every intermediate, intermediates pay every
// receiver, each payer's full fan firing once at its scheduled step. The two
// layers are independent bipartite flows; amounts target the payer's balance
// split over its fan, so the tiers do not conserve value.
type StackTypology struct {
	typologyBase
	steps []int64
}

// ModelName implements TransactionModel.
func (t *StackTypology) ModelName() string { return "StackTypology" }

// Configure implements Typology. Slot i belongs to member i; receiver slots
// are allocated but never fire.
func (t *StackTypology) Configure(scheduleID int) {
	t.steps = t.buildSchedule(len(t.alert.Members()), scheduleID)
}

// SendTransactions implements TransactionModel.
func (t *StackTypology) SendTransactions(step int64, acct *Account) {
	members := t.alert.Members()
	total := len(members)
	numOrigs := total / 3
	numMids := total/3 + total%3
	if numOrigs == 0 || numMids == 0 {
		return
	}
	mids := members[numOrigs : numOrigs+numMids]
	benes := members[numOrigs+numMids:]
	alertID := t.alert.ID()
	isSAR := t.alert.IsSAR()

	for i := 0; i < numOrigs; i++ {
		if t.steps[i] != step {
			continue
		}
		orig := members[i]
		amount := t.ctx.TargetedAmount(orig.Balance() / float64(numMids))
		for _, mid := range mids {
			t.ctx.sendTransaction(step, amount, orig, mid, isSAR, alertID)
		}
	}
	if len(benes) == 0 {
		return
	}
	for i := numOrigs; i < numOrigs+numMids; i++ {
		if t.steps[i] != step {
			continue
		}
		mid := members[i]
		amount := t.ctx.TargetedAmount(mid.Balance() / float64(len(benes)))
		for _, bene := range benes {
			t.ctx.sendTransaction(step, amount, mid, bene, isSAR, alertID)
		}
	}
}
