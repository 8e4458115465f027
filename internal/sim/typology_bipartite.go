package sim

// BipartiteTypology splits the members in half; every account in the first
// half pays every account in the second half exactly once, all at the same
// single random amount. Each originator's full fan fires at its scheduled
// step.
type BipartiteTypology struct {
	typologyBase
	amount float64
	steps  []int64
}

// ModelName implements TransactionModel.
func (t *BipartiteTypology) ModelName() string { return "BipartiteTypology" }

// Configure implements Typology.
func (t *BipartiteTypology) Configure(scheduleID int) {
	numOrigs := len(t.alert.Members()) / 2
	t.amount = t.randomAmount()
	t.steps = t.buildSchedule(numOrigs, scheduleID)
}

// SendTransactions implements TransactionModel.
func (t *BipartiteTypology) SendTransactions(step int64, acct *Account) {
	members := t.alert.Members()
	numOrigs := len(members) / 2
	alertID := t.alert.ID()
	isSAR := t.alert.IsSAR()

	for i := 0; i < numOrigs; i++ {
		if t.steps[i] != step {
			continue
		}
		for _, bene := range members[numOrigs:] {
			t.ctx.sendTransaction(step, t.amount, members[i], bene, isSAR, alertID)
		}
	}
}
