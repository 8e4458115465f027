package sim

import "testing"

// runModel drives a model through every step of the run for one account.
func runModel(ctx *Context, m TransactionModel, acct *Account) {
	for step := int64(0); step < ctx.NumSteps; step++ {
		m.SendTransactions(step, acct)
	}
}

func TestSingleModelFiresExactlyOnce(t *testing.T) {
	ctx, sink := newTestContext(3, testParams())
	a := NewAccount(ctx, "a", false, 10000, "bank", -1, -1)
	b := NewAccount(ctx, "b", false, 100, "bank", -1, -1)
	a.AddBeneficiary(b)

	g := NewAccountGroup(1)
	m := NewNormalModel(ctx, ModelSingle, g, 1, 0, ctx.NumSteps-1)
	runModel(ctx, m, a)

	if len(sink.txs) != 1 {
		t.Fatalf("single model fired %d times, want 1", len(sink.txs))
	}
	tx := sink.txs[0]
	if tx.OrigID != "a" || tx.BeneID != "b" {
		t.Fatalf("unexpected transaction %s -> %s", tx.OrigID, tx.BeneID)
	}
	if tx.IsSAR || tx.AlertID != -1 {
		t.Fatalf("normal transaction marked suspicious: %+v", tx)
	}
}

func TestFanOutModelRoundRobin(t *testing.T) {
	ctx, sink := newTestContext(3, testParams())
	a := NewAccount(ctx, "a", false, 1e6, "bank", -1, -1)
	b := NewAccount(ctx, "b", false, 0, "bank", -1, -1)
	c := NewAccount(ctx, "c", false, 0, "bank", -1, -1)
	a.AddBeneficiary(b)
	a.AddBeneficiary(c)

	g := NewAccountGroup(1)
	m := NewNormalModel(ctx, ModelFanOut, g, 1, 0, -1)
	for step := int64(0); step < 4; step++ {
		m.SendTransactions(step, a)
	}

	if len(sink.txs) != 4 {
		t.Fatalf("fan-out fired %d times, want 4", len(sink.txs))
	}
	want := []string{"b", "c", "b", "c"}
	for i, tx := range sink.txs {
		if tx.BeneID != want[i] {
			t.Fatalf("tx %d beneficiary = %s, want %s", i, tx.BeneID, want[i])
		}
	}
}

func TestFanInModelCollectsFromOriginators(t *testing.T) {
	ctx, sink := newTestContext(3, testParams())
	hub := NewAccount(ctx, "hub", false, 500, "bank", -1, -1)
	p1 := NewAccount(ctx, "p1", false, 1e6, "bank", -1, -1)
	p2 := NewAccount(ctx, "p2", false, 1e6, "bank", -1, -1)
	p1.AddBeneficiary(hub)
	p2.AddBeneficiary(hub)

	g := NewAccountGroup(1)
	m := NewNormalModel(ctx, ModelFanIn, g, 1, 0, -1)
	for step := int64(0); step < 2; step++ {
		m.SendTransactions(step, hub)
	}

	if len(sink.txs) != 2 {
		t.Fatalf("fan-in fired %d times, want 2", len(sink.txs))
	}
	if sink.txs[0].OrigID != "p1" || sink.txs[1].OrigID != "p2" {
		t.Fatalf("fan-in originators = %s, %s, want p1, p2",
			sink.txs[0].OrigID, sink.txs[1].OrigID)
	}
	for _, tx := range sink.txs {
		if tx.BeneID != "hub" {
			t.Fatalf("fan-in beneficiary = %s, want hub", tx.BeneID)
		}
	}
}

func TestMutualModelReturnsToPayer(t *testing.T) {
	ctx, sink := newTestContext(3, testParams())
	a := NewAccount(ctx, "a", false, 10000, "bank", -1, -1)
	b := NewAccount(ctx, "b", false, 10000, "bank", -1, -1)
	b.AddBeneficiary(a) // b has paid a before

	g := NewAccountGroup(1)
	m := NewNormalModel(ctx, ModelMutual, g, 1, 0, -1)
	m.SendTransactions(0, a)

	if len(sink.txs) != 1 {
		t.Fatalf("mutual fired %d times, want 1", len(sink.txs))
	}
	tx := sink.txs[0]
	if tx.OrigID != "a" || tx.BeneID != "b" {
		t.Fatalf("mutual transaction %s -> %s, want a -> b", tx.OrigID, tx.BeneID)
	}
	// The reciprocal edge must now exist.
	if len(a.Beneficiaries()) != 1 || a.Beneficiaries()[0] != b {
		t.Fatal("reciprocal beneficiary edge not created")
	}
}

func TestPeriodicalModelSpreadsOverBeneficiaries(t *testing.T) {
	params := testParams()
	params.NumSteps = 2
	ctx, sink := newTestContext(3, params)
	a := NewAccount(ctx, "a", false, 1e6, "bank", -1, -1)
	for _, id := range []string{"b", "c", "d", "e"} {
		a.AddBeneficiary(NewAccount(ctx, id, false, 0, "bank", -1, -1))
	}

	g := NewAccountGroup(1)
	// 2 steps at interval 1: four beneficiaries split into two per step.
	m := NewNormalModel(ctx, ModelPeriodical, g, 1, 0, -1)
	m.SendTransactions(0, a)

	if len(sink.txs) != 2 {
		t.Fatalf("periodical fired %d times in one step, want 2", len(sink.txs))
	}
	// Each transfer draws its own amount around the shared target.
	if sink.txs[0].Amount == sink.txs[1].Amount {
		t.Fatalf("periodical reused one draw %v for both transfers", sink.txs[0].Amount)
	}
}

func TestUnknownModelKindIsEmpty(t *testing.T) {
	ctx, sink := newTestContext(3, testParams())
	a := NewAccount(ctx, "a", false, 1e6, "bank", -1, -1)
	a.AddBeneficiary(NewAccount(ctx, "b", false, 0, "bank", -1, -1))

	g := NewAccountGroup(1)
	m := NewNormalModel(ctx, "no_such_model", g, 1, 0, -1)
	if m.ModelName() != "Default" {
		t.Fatalf("model name = %q, want Default", m.ModelName())
	}
	runModel(ctx, m, a)
	if len(sink.txs) != 0 {
		t.Fatalf("empty model fired %d times, want 0", len(sink.txs))
	}
}
