package sim

// RandomTypology performs a random walk over the existing transaction graph:
// at each of its active steps the current originator pays one of its
// beneficiaries, chosen uniformly, and the walk moves to that beneficiary.
type RandomTypology struct {
	typologyBase
	activeSteps map[int64]struct{}
	current     *Account
}

// ModelName implements TransactionModel.
func (t *RandomTypology) ModelName() string { return "RandomTypology" }

// Configure implements Typology. One active step is drawn per member; the
// schedule policy is not consulted. The walk starts at the main account.
func (t *RandomTypology) Configure(scheduleID int) {
	members := t.alert.Members()
	t.activeSteps = make(map[int64]struct{}, len(members))
	for range members {
		t.activeSteps[t.randomStep()] = struct{}{}
	}
	t.current = t.alert.MainAccount()
	if t.current == nil && len(members) > 0 {
		t.current = members[0]
	}
}

// IsValidStep restricts the base window check to the drawn step set.
func (t *RandomTypology) IsValidStep(step int64) bool {
	if !t.typologyBase.IsValidStep(step) {
		return false
	}
	_, ok := t.activeSteps[step]
	return ok
}

// SendTransactions implements TransactionModel.
func (t *RandomTypology) SendTransactions(step int64, acct *Account) {
	if t.current == nil {
		return
	}
	benes := t.current.Beneficiaries()
	if len(benes) == 0 {
		return
	}
	bene := benes[t.ctx.Rand.Intn(len(benes))]
	amount := t.ctx.TargetedAmount(t.current.Balance())
	t.ctx.sendTransaction(step, amount, t.current, bene, t.alert.IsSAR(), t.alert.ID())
	t.current = bene
}
