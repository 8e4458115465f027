package sim

import (
	"reflect"
	"testing"
)

// buildScenario assembles a small run: a fan-out behavior group and a cycle
// alert over five accounts.
func buildScenario(t *testing.T, seed int64) (*Simulation, *captureSink) {
	t.Helper()
	ctx, sink := newTestContext(seed, testParams())
	s := NewSimulation(ctx, 2)

	ids := []string{"a", "b", "c", "d", "e"}
	for _, id := range ids {
		if err := s.AddAccount(NewAccount(ctx, id, id == "e", 10000, "bank", -1, -1)); err != nil {
			t.Fatalf("AddAccount(%s): %v", id, err)
		}
	}
	a, _ := s.Account("a")
	b, _ := s.Account("b")
	c, _ := s.Account("c")
	a.AddBeneficiary(b)
	a.AddBeneficiary(c)
	a.AddTxType(b, "TRANSFER")
	a.AddTxType(c, "PAYMENT")

	g := NewAccountGroup(1)
	g.SetModel(NewNormalModel(ctx, ModelFanOut, g, 7, 0, -1))
	g.AddMember(a)
	g.SetMainAccount(a)
	if err := s.AddGroup(g); err != nil {
		t.Fatalf("AddGroup: %v", err)
	}

	model, err := NewTypology(ctx, TypologyCycle, 200, 800, 0, 20)
	if err != nil {
		t.Fatalf("NewTypology: %v", err)
	}
	alert := NewAlert(7, model)
	for _, id := range []string{"e", "c", "d"} {
		acct, _ := s.Account(id)
		alert.AddMember(acct)
	}
	// The SAR account leads the ring so the alert is flagged suspicious.
	alert.SetMainAccount(alert.Members()[0])
	model.Configure(ScheduleFixedInterval)
	if err := s.AddAlert(alert); err != nil {
		t.Fatalf("AddAlert: %v", err)
	}
	return s, sink
}

func TestSimulationRun(t *testing.T) {
	s, sink := buildScenario(t, 11)
	s.Run()

	if len(sink.txs) == 0 {
		t.Fatal("run produced no transactions")
	}

	var normal, suspicious int
	for _, tx := range sink.txs {
		if tx.OrigAfter < 0 || tx.BeneAfter < 0 {
			t.Fatalf("negative balance in %+v", tx)
		}
		if tx.IsSAR {
			if tx.AlertID != 7 {
				t.Fatalf("suspicious transaction with alert ID %d, want 7", tx.AlertID)
			}
			suspicious++
		} else if tx.AlertID == -1 {
			normal++
		}
	}
	if normal == 0 {
		t.Error("no normal transactions recorded")
	}
	if suspicious == 0 {
		t.Error("no suspicious transactions recorded")
	}
}

func TestSimulationDeterminism(t *testing.T) {
	s1, sink1 := buildScenario(t, 11)
	s1.Run()
	s2, sink2 := buildScenario(t, 11)
	s2.Run()

	if !reflect.DeepEqual(sink1.txs, sink2.txs) {
		t.Fatal("identical seeds produced different transaction logs")
	}
}

func TestSimulationSeedChangesOutcome(t *testing.T) {
	s1, sink1 := buildScenario(t, 11)
	s1.Run()
	s2, sink2 := buildScenario(t, 13)
	s2.Run()

	if reflect.DeepEqual(sink1.txs, sink2.txs) {
		t.Fatal("different seeds produced identical transaction logs")
	}
}

func TestDuplicateRegistrations(t *testing.T) {
	ctx, _ := newTestContext(11, testParams())
	s := NewSimulation(ctx, 0)

	if err := s.AddAccount(NewAccount(ctx, "a", false, 100, "bank", -1, -1)); err != nil {
		t.Fatalf("AddAccount: %v", err)
	}
	if err := s.AddAccount(NewAccount(ctx, "a", false, 100, "bank", -1, -1)); err == nil {
		t.Fatal("duplicate account ID accepted")
	}

	if err := s.AddGroup(NewAccountGroup(1)); err != nil {
		t.Fatalf("AddGroup: %v", err)
	}
	if err := s.AddGroup(NewAccountGroup(1)); err == nil {
		t.Fatal("duplicate group ID accepted")
	}
}

func TestBranchAssignment(t *testing.T) {
	ctx, _ := newTestContext(11, testParams())
	s := NewSimulation(ctx, 2)
	for _, id := range []string{"a", "b", "c"} {
		if err := s.AddAccount(NewAccount(ctx, id, false, 100, "bank", -1, -1)); err != nil {
			t.Fatalf("AddAccount(%s): %v", id, err)
		}
	}
	// Branches rotate in registration order, independent of the RNG.
	want := []string{"B0", "B1", "B0"}
	for i, a := range s.Accounts() {
		if a.Branch() == nil {
			t.Fatalf("account %s not assigned a branch", a.ID())
		}
		if got := a.Branch().Name(); got != want[i] {
			t.Fatalf("account %s assigned branch %s, want %s", a.ID(), got, want[i])
		}
	}
}
