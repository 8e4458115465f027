package sim

// Alert is a group of suspicious transactions and the accounts involved, as
// one AML typology instance. Members perform transactions according to the
// bound typology model when the main account is stepped inside the model's
// window.
type Alert struct {
	id      int64
	members []*Account
	main    *Account
	model   Typology
}

// NewAlert creates an alert bound to the given typology model.
func NewAlert(id int64, model Typology) *Alert {
	a := &Alert{id: id, model: model}
	model.setAlert(a)
	return a
}

// ID returns the alert identifier.
func (a *Alert) ID() int64 { return a.id }

// Model returns the bound typology model.
func (a *Alert) Model() Typology { return a.model }

// AddMember involves an account in this alert.
func (a *Alert) AddMember(acct *Account) {
	a.members = append(a.members, acct)
	acct.addAlert(a)
}

// SetMainAccount designates the account whose step triggers the typology.
func (a *Alert) SetMainAccount(acct *Account) { a.main = acct }

// MainAccount returns the designated main account, or nil.
func (a *Alert) MainAccount() *Account { return a.main }

// Members returns the ordered member list.
func (a *Alert) Members() []*Account { return a.members }

// IsSAR reports whether the alert's main account is flagged suspicious.
func (a *Alert) IsSAR() bool {
	return a.main != nil && a.main.IsSAR()
}

// RegisterTransactions asks the typology to act at this step if the step is
// within the model's valid range.
func (a *Alert) RegisterTransactions(step int64, acct *Account) {
	if a.model.IsValidStep(step) {
		a.model.SendTransactions(step, acct)
	}
}
