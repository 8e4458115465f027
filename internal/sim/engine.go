package sim

import "fmt"

// Simulation owns the registered accounts, branches, alert groups and
// behavior groups, and drives them step by step. Accounts are stepped in
// registration order by a single goroutine, so a run with a fixed seed and
// fixed input is fully reproducible.
type Simulation struct {
	ctx *Context

	accounts []*Account
	byID     map[string]*Account

	branches []*Branch

	alerts    []*Alert
	alertByID map[int64]*Alert

	groups    []*AccountGroup
	groupByID map[int64]*AccountGroup

	// OnStep, when set, runs after every account has been stepped. Used for
	// periodic analytics over the transaction graph.
	OnStep func(step int64)
}

// NewSimulation creates an empty simulation over the given context with the
// given number of bank branches.
func NewSimulation(ctx *Context, numBranches int) *Simulation {
	s := &Simulation{
		ctx:       ctx,
		byID:      make(map[string]*Account),
		alertByID: make(map[int64]*Alert),
		groupByID: make(map[int64]*AccountGroup),
	}
	for i := 0; i < numBranches; i++ {
		s.branches = append(s.branches, NewBranch(ctx, i))
	}
	return s
}

// Context returns the shared simulation context.
func (s *Simulation) Context() *Context { return s.ctx }

// AddAccount registers an account and assigns it a branch in round-robin
// registration order as cash counterparty. Duplicate IDs are rejected.
func (s *Simulation) AddAccount(a *Account) error {
	if _, ok := s.byID[a.ID()]; ok {
		return fmt.Errorf("duplicate account ID: %s", a.ID())
	}
	if len(s.branches) > 0 {
		a.SetBranch(s.branches[len(s.accounts)%len(s.branches)])
	}
	s.accounts = append(s.accounts, a)
	s.byID[a.ID()] = a
	return nil
}

// Account returns the account with the given ID.
func (s *Simulation) Account(id string) (*Account, bool) {
	a, ok := s.byID[id]
	return a, ok
}

// Accounts returns all accounts in registration order.
func (s *Simulation) Accounts() []*Account { return s.accounts }

// Branches returns the bank branches.
func (s *Simulation) Branches() []*Branch { return s.branches }

// AddAlert registers an alert group.
func (s *Simulation) AddAlert(a *Alert) error {
	if _, ok := s.alertByID[a.ID()]; ok {
		return fmt.Errorf("duplicate alert ID: %d", a.ID())
	}
	s.alerts = append(s.alerts, a)
	s.alertByID[a.ID()] = a
	return nil
}

// Alert returns the alert group with the given ID.
func (s *Simulation) Alert(id int64) (*Alert, bool) {
	a, ok := s.alertByID[id]
	return a, ok
}

// Alerts returns all alert groups in registration order.
func (s *Simulation) Alerts() []*Alert { return s.alerts }

// AddGroup registers a normal behavior group.
func (s *Simulation) AddGroup(g *AccountGroup) error {
	if _, ok := s.groupByID[g.ID()]; ok {
		return fmt.Errorf("duplicate account group ID: %d", g.ID())
	}
	s.groups = append(s.groups, g)
	s.groupByID[g.ID()] = g
	return nil
}

// Group returns the behavior group with the given ID.
func (s *Simulation) Group(id int64) (*AccountGroup, bool) {
	g, ok := s.groupByID[id]
	return g, ok
}

// Groups returns all behavior groups in registration order.
func (s *Simulation) Groups() []*AccountGroup { return s.groups }

// Run executes all simulation steps. Every account is stepped once per step
// in registration order; the OnStep hook, if any, runs after each step.
func (s *Simulation) Run() {
	s.ctx.Log.Info("starting simulation",
		"steps", s.ctx.NumSteps, "accounts", len(s.accounts),
		"alerts", len(s.alerts), "groups", len(s.groups))

	for step := int64(0); step < s.ctx.NumSteps; step++ {
		if step%100 == 0 {
			s.ctx.Log.Info("simulating", "step", step)
		}
		for _, a := range s.accounts {
			a.Step(step)
		}
		if s.OnStep != nil {
			s.OnStep(step)
		}
	}

	s.ctx.Log.Info("simulation finished", "steps", s.ctx.NumSteps)
}
