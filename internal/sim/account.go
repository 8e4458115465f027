package sim

import "strconv"

// Account is a ledger participant: a balance, an identity, directed neighbor
// sets and the group memberships that drive its behavior. Accounts are
// constructed once at load time and live for the whole run.
type Account struct {
	id      string
	balance float64
	sar     bool
	bankID  string
	branch  *Branch

	// Active window. A negative start means "from genesis", a non-positive
	// end means "to horizon".
	startStep int64
	endStep   int64

	origIDs map[string]struct{}
	beneIDs map[string]struct{}
	origs   []*Account // accounts this account receives money from
	benes   []*Account // accounts this account sends money to

	numSARBene int

	// Most recent originator that paid this account, for return flows.
	prevOrig *Account

	// Transaction type label per beneficiary edge, with insertion order kept
	// for deterministic random fallback.
	txTypes    map[string]string
	txTypeKeys []string

	alerts []*Alert
	groups []*AccountGroup

	cashIn  *cashModel
	cashOut *cashModel

	ctx *Context
}

// NewAccount creates an account with the given identity and active window.
func NewAccount(ctx *Context, id string, isSAR bool, initBalance float64, bankID string, start, end int64) *Account {
	a := &Account{
		id:        id,
		balance:   initBalance,
		sar:       isSAR,
		bankID:    bankID,
		startStep: start,
		endStep:   end,
		origIDs:   make(map[string]struct{}),
		beneIDs:   make(map[string]struct{}),
		txTypes:   make(map[string]string),
		ctx:       ctx,
	}
	if ctx.CashIn.Enabled {
		a.cashIn = newCashModel(ctx, a, true)
	}
	if ctx.CashOut.Enabled {
		a.cashOut = newCashModel(ctx, a, false)
	}
	return a
}

// ID returns the account identifier.
func (a *Account) ID() string { return a.id }

// IsSAR reports whether the account is flagged as suspicious.
func (a *Account) IsSAR() bool { return a.sar }

// SetSAR overrides the suspicious flag. Alert membership rows carry their own
// SAR flag and take precedence over the account file.
func (a *Account) SetSAR(isSAR bool) { a.sar = isSAR }

// BankID returns the owning bank identifier.
func (a *Account) BankID() string { return a.bankID }

// Balance returns the current balance.
func (a *Account) Balance() float64 { return a.balance }

// Branch returns the branch assigned at load time.
func (a *Account) Branch() *Branch { return a.branch }

// SetBranch assigns the branch used as cash counterparty.
func (a *Account) SetBranch(b *Branch) { a.branch = b }

// Deposit adds amount to the balance. There is no upper bound.
func (a *Account) Deposit(amount float64) {
	a.balance += amount
}

// Withdraw subtracts amount from the balance, clamping at zero. Insufficient
// funds are not an error: detection-training data does not reject
// underfunded transfers.
func (a *Account) Withdraw(amount float64) {
	if amount > a.balance {
		a.balance = 0
		return
	}
	a.balance -= amount
}

// AddBeneficiary adds a directed edge to bene if the edge admission policy
// approves it and the edge does not already exist. The reverse originator
// entry on the peer is back-filled.
func (a *Account) AddBeneficiary(bene *Account) {
	if _, ok := a.beneIDs[bene.id]; ok { // already added
		return
	}
	if !a.ctx.Policy.ShouldAddEdge(a, bene) {
		return
	}

	a.benes = append(a.benes, bene)
	a.beneIDs[bene.id] = struct{}{}

	bene.origs = append(bene.origs, a)
	bene.origIDs[a.id] = struct{}{}

	if bene.sar {
		a.numSARBene++
	}
}

// AddTxType labels the edge to bene and feeds the global fallback pool.
func (a *Account) AddTxType(bene *Account, ttype string) {
	if _, ok := a.txTypes[bene.id]; !ok {
		a.txTypeKeys = append(a.txTypeKeys, bene.id)
	}
	a.txTypes[bene.id] = ttype
	a.ctx.txTypePool = append(a.ctx.txTypePool, ttype)
}

// TxType returns the transaction type label for the edge to bene: the edge's
// own label if present, otherwise a random label from this account's edges,
// otherwise a random label from the global pool.
func (a *Account) TxType(bene *Account) string {
	if t, ok := a.txTypes[bene.id]; ok {
		return t
	}
	if len(a.txTypeKeys) > 0 {
		key := a.txTypeKeys[a.ctx.Rand.Intn(len(a.txTypeKeys))]
		return a.txTypes[key]
	}
	if len(a.ctx.txTypePool) > 0 {
		return a.ctx.txTypePool[a.ctx.Rand.Intn(len(a.ctx.txTypePool))]
	}
	return "TRANSFER"
}

// Originators returns the accounts this account has received money from, in
// insertion order.
func (a *Account) Originators() []*Account { return a.origs }

// Beneficiaries returns the accounts this account sends money to, in
// insertion order.
func (a *Account) Beneficiaries() []*Account { return a.benes }

// PrevOriginator returns the most recent account that paid this one, or nil.
func (a *Account) PrevOriginator() *Account { return a.prevOrig }

// NumSARBene returns the number of SAR beneficiary accounts.
func (a *Account) NumSARBene() int { return a.numSARBene }

// PropSARBene returns the proportion of SAR accounts among beneficiaries.
func (a *Account) PropSARBene() float64 {
	if a.numSARBene == 0 {
		return 0
	}
	return float64(a.numSARBene) / float64(len(a.benes))
}

// StartStep returns the first active step (negative means from genesis).
func (a *Account) StartStep() int64 { return a.startStep }

// EndStep returns the last active step (non-positive means to horizon).
func (a *Account) EndStep() int64 { return a.endStep }

func (a *Account) addAlert(al *Alert)       { a.alerts = append(a.alerts, al) }
func (a *Account) addGroup(g *AccountGroup) { a.groups = append(a.groups, g) }

// Step runs the account's per-step action if the step lies inside the active
// window. It is invoked exactly once per simulation step.
func (a *Account) Step(step int64) {
	start := a.startStep
	if start < 0 {
		start = 0
	}
	end := a.endStep
	if end <= 0 {
		end = a.ctx.NumSteps
	}
	if step < start || end < step {
		return // account not active at this step
	}
	a.handleAction(step)
}

func (a *Account) handleAction(step int64) {
	for _, al := range a.alerts {
		if al.main == a {
			al.RegisterTransactions(step, a)
		}
	}
	for _, g := range a.groups {
		if g.triggeredBy(a) {
			g.RegisterTransactions(step, a)
		}
	}
	a.cashIn.makeTransaction(step)
	a.cashOut.makeTransaction(step)
}

// Branch is a bank branch. In cash transactions it performs like an account:
// the branch is the counterparty of every deposit and withdrawal.
type Branch struct {
	*Account
	num int
}

// NewBranch creates a branch with the given ordinal.
func NewBranch(ctx *Context, num int) *Branch {
	b := &Branch{num: num}
	b.Account = &Account{
		id:      b.Name(),
		origIDs: make(map[string]struct{}),
		beneIDs: make(map[string]struct{}),
		txTypes: make(map[string]string),
		ctx:     ctx,
	}
	return b
}

// Name returns the branch identifier.
func (b *Branch) Name() string { return "B" + strconv.Itoa(b.num) }
