package sim

// cashModel fires cash deposits (branch to account) or withdrawals (account
// to branch) on a fixed cadence with a decentralized start offset. Interval
// and amount bounds come from the cash section of the run parameters and
// differ between normal and SAR accounts.
type cashModel struct {
	baseModel
	account *Account
	in      bool
	min     float64
	max     float64
}

func newCashModel(ctx *Context, acct *Account, in bool) *cashModel {
	p := ctx.CashOut
	if in {
		p = ctx.CashIn
	}
	interval := int64(p.NormalInterval)
	min, max := p.NormalMin, p.NormalMax
	if acct.sar {
		interval = int64(p.SARInterval)
		min, max = p.SARMin, p.SARMax
	}
	m := &cashModel{baseModel: baseModel{ctx: ctx}, account: acct, in: in, min: min, max: max}
	m.setParameters(interval, -1, -1)
	return m
}

func (m *cashModel) ModelName() string {
	if m.in {
		return "CASH-IN"
	}
	return "CASH-OUT"
}

func (m *cashModel) computeAmount() float64 {
	return m.min + m.ctx.Rand.Float64()*(m.max-m.min)
}

// makeTransaction is nil-safe: accounts without cash channels hold nil
// models.
func (m *cashModel) makeTransaction(step int64) {
	if m == nil {
		return
	}
	if !m.validStep(step) {
		return
	}
	branch := m.account.Branch()
	if branch == nil {
		return
	}
	amount := m.computeAmount()
	if m.in {
		m.ctx.Transact(step, "CASH-IN", amount, branch.Account, m.account, false, -1)
	} else {
		m.ctx.Transact(step, "CASH-OUT", amount, m.account, branch.Account, false, -1)
	}
}
