package sim

// SingleModel sends money exactly once, at a step chosen uniformly from the
// active window at configuration time, to a uniformly random beneficiary.
// The transaction interval parameter is ignored.
type SingleModel struct {
	baseModel
	group  *AccountGroup
	txStep int64
}

// configure resolves open-ended window bounds and draws the one firing step.
func (m *SingleModel) configure(interval, start, end int64) {
	if interval <= 0 {
		interval = 1
	}
	m.interval = interval
	m.startStep = start
	m.endStep = end
	if m.startStep < 0 { // unlimited start step
		m.startStep = 0
	}
	if m.endStep <= 0 { // unlimited end step
		m.endStep = m.ctx.NumSteps
	}
	m.txStep = m.startStep + m.ctx.Rand.Int63n(m.endStep-m.startStep+1)
}

// ModelName implements TransactionModel.
func (m *SingleModel) ModelName() string { return "Single" }

// SendTransactions implements TransactionModel.
func (m *SingleModel) SendTransactions(step int64, acct *Account) {
	benes := acct.Beneficiaries()
	if step != m.txStep || len(benes) == 0 {
		return
	}
	amount := m.ctx.TargetedAmount(acct.Balance())
	dest := benes[m.ctx.Rand.Intn(len(benes))]
	m.ctx.sendTransaction(step, amount, acct, dest, false, -1)
}

// FanOutModel distributes money to the neighboring accounts in round-robin
// order, one beneficiary per valid step.
type FanOutModel struct {
	baseModel
	group *AccountGroup
	index int
}

// ModelName implements TransactionModel.
func (m *FanOutModel) ModelName() string { return "FanOut" }

// SendTransactions implements TransactionModel.
func (m *FanOutModel) SendTransactions(step int64, acct *Account) {
	benes := acct.Beneficiaries()
	if !m.validStep(step) || len(benes) == 0 {
		return
	}
	if m.index >= len(benes) {
		m.index = 0
	}
	amount := m.ctx.TargetedAmount(acct.Balance())
	bene := benes[m.index]
	m.ctx.sendTransaction(step, amount, acct, bene, false, -1)
	m.index++
}

// FanInModel receives money from the known originators in round-robin order,
// one originator per valid step, targeting the receiving account's own
// balance.
type FanInModel struct {
	baseModel
	group *AccountGroup
	index int
}

// ModelName implements TransactionModel.
func (m *FanInModel) ModelName() string { return "FanIn" }

// SendTransactions implements TransactionModel.
func (m *FanInModel) SendTransactions(step int64, acct *Account) {
	origs := acct.Originators()
	if !m.validStep(step) || len(origs) == 0 {
		return
	}
	if m.index >= len(origs) {
		m.index = 0
	}
	amount := m.ctx.TargetedAmount(acct.Balance())
	orig := origs[m.index]
	m.ctx.sendTransaction(step, amount, orig, acct, false, -1)
	m.index++
}

// MutualModel returns money to the most recent payer. Without a recorded
// payer it falls back to the first known originator, and inserts the
// reciprocal edge if it is missing.
type MutualModel struct {
	baseModel
	group *AccountGroup
}

// ModelName implements TransactionModel.
func (m *MutualModel) ModelName() string { return "Mutual" }

// SendTransactions implements TransactionModel.
func (m *MutualModel) SendTransactions(step int64, acct *Account) {
	if !m.validStep(step) {
		return
	}
	counterpart := acct.PrevOriginator()
	if counterpart == nil {
		origs := acct.Originators()
		if len(origs) == 0 {
			return
		}
		counterpart = origs[0]
	}
	if _, ok := acct.beneIDs[counterpart.id]; !ok {
		acct.AddBeneficiary(counterpart) // add a new destination
	}
	amount := m.ctx.TargetedAmount(acct.Balance())
	m.ctx.sendTransaction(step, amount, acct, counterpart, false, -1)
}

// ForwardModel passes the account's balance on to the next beneficiary in
// round-robin order, on a fixed cadence aligned to the model's own start
// step.
type ForwardModel struct {
	baseModel
	group *AccountGroup
	index int
}

// ModelName implements TransactionModel.
func (m *ForwardModel) ModelName() string { return "Forward" }

// SendTransactions implements TransactionModel.
func (m *ForwardModel) SendTransactions(step int64, acct *Account) {
	dests := acct.Beneficiaries()
	if len(dests) == 0 {
		return
	}
	if !m.validStep(step) {
		return
	}
	if m.index >= len(dests) {
		m.index = 0
	}
	amount := m.ctx.TargetedAmount(acct.Balance())
	dest := dests[m.index]
	m.ctx.sendTransaction(step, amount, acct, dest, false, -1)
	m.index++
}

// PeriodicalModel distributes across as many beneficiaries per valid step as
// needed to exhaust the member list within the run's expected transaction
// count.
type PeriodicalModel struct {
	baseModel
	group *AccountGroup
	index int
}

// ModelName implements TransactionModel.
func (m *PeriodicalModel) ModelName() string { return "Periodical" }

// SendTransactions implements TransactionModel.
func (m *PeriodicalModel) SendTransactions(step int64, acct *Account) {
	benes := acct.Beneficiaries()
	if !m.validStep(step) || len(benes) == 0 {
		return
	}
	numDests := int64(len(benes))
	if int64(m.index) >= numDests {
		m.index = 0
	}

	totalCount := m.numberOfTransactions()
	eachCount := int64(1)
	if totalCount > 0 && numDests >= totalCount {
		eachCount = numDests / totalCount
	}

	target := acct.Balance() / float64(eachCount)
	for i := int64(0); i < eachCount; i++ {
		dest := benes[m.index]
		m.ctx.sendTransaction(step, m.ctx.TargetedAmount(target), acct, dest, false, -1)
		m.index++
		if int64(m.index) >= numDests {
			break
		}
	}
	m.index = 0
}
