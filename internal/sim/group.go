package sim

// AccountGroup binds a normal behavior model to an ordered member list. The
// designated main account is the only member whose step triggers the model;
// when no main is set the first member acts as one.
type AccountGroup struct {
	id      int64
	members []*Account
	main    *Account
	model   TransactionModel
}

// NewAccountGroup creates an empty behavior group.
func NewAccountGroup(id int64) *AccountGroup {
	return &AccountGroup{id: id}
}

// ID returns the group identifier.
func (g *AccountGroup) ID() int64 { return g.id }

// SetModel binds the behavior model.
func (g *AccountGroup) SetModel(model TransactionModel) { g.model = model }

// Model returns the bound behavior model.
func (g *AccountGroup) Model() TransactionModel { return g.model }

// AddMember appends an account to the ordered member list and registers the
// group on the account.
func (g *AccountGroup) AddMember(acct *Account) {
	g.members = append(g.members, acct)
	acct.addGroup(g)
}

// SetMainAccount designates the member whose step triggers the model.
func (g *AccountGroup) SetMainAccount(acct *Account) { g.main = acct }

// MainAccount returns the designated main account, or nil.
func (g *AccountGroup) MainAccount() *Account { return g.main }

// Members returns the ordered member list.
func (g *AccountGroup) Members() []*Account { return g.members }

// IsSAR reports whether the group's main account is flagged suspicious.
func (g *AccountGroup) IsSAR() bool {
	return g.main != nil && g.main.IsSAR()
}

// triggeredBy reports whether the given member's step drives this group.
func (g *AccountGroup) triggeredBy(acct *Account) bool {
	if g.main != nil {
		return g.main == acct
	}
	return len(g.members) > 0 && g.members[0] == acct
}

// RegisterTransactions asks the model to act at this step. Models perform
// their own cadence and window checks.
func (g *AccountGroup) RegisterTransactions(step int64, acct *Account) {
	if g.model == nil {
		return
	}
	g.model.SendTransactions(step, acct)
}
