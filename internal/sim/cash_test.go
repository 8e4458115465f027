package sim

import "testing"

func TestCashInModel(t *testing.T) {
	params := testParams()
	params.CashIn = CashParams{
		Enabled:        true,
		NormalInterval: 5,
		SARInterval:    2,
		NormalMin:      10,
		NormalMax:      20,
		SARMin:         100,
		SARMax:         200,
	}
	ctx, sink := newTestContext(21, params)
	s := NewSimulation(ctx, 1)
	if err := s.AddAccount(NewAccount(ctx, "a", false, 0, "bank", -1, -1)); err != nil {
		t.Fatalf("AddAccount: %v", err)
	}
	s.Run()

	if len(sink.txs) == 0 {
		t.Fatal("cash-in model never fired")
	}
	for _, tx := range sink.txs {
		if tx.Type != "CASH-IN" {
			t.Fatalf("transaction type = %s, want CASH-IN", tx.Type)
		}
		if tx.OrigID != "B0" || tx.BeneID != "a" {
			t.Fatalf("cash-in %s -> %s, want B0 -> a", tx.OrigID, tx.BeneID)
		}
		if tx.Amount < 10 || tx.Amount >= 20 {
			t.Fatalf("cash-in amount %v outside normal bounds [10, 20)", tx.Amount)
		}
	}
}

func TestCashOutUsesSARBounds(t *testing.T) {
	params := testParams()
	params.CashOut = CashParams{
		Enabled:        true,
		NormalInterval: 5,
		SARInterval:    2,
		NormalMin:      10,
		NormalMax:      20,
		SARMin:         100,
		SARMax:         200,
	}
	ctx, sink := newTestContext(21, params)
	s := NewSimulation(ctx, 1)
	if err := s.AddAccount(NewAccount(ctx, "a", true, 1e6, "bank", -1, -1)); err != nil {
		t.Fatalf("AddAccount: %v", err)
	}
	s.Run()

	if len(sink.txs) == 0 {
		t.Fatal("cash-out model never fired")
	}
	for _, tx := range sink.txs {
		if tx.Type != "CASH-OUT" {
			t.Fatalf("transaction type = %s, want CASH-OUT", tx.Type)
		}
		if tx.OrigID != "a" || tx.BeneID != "B0" {
			t.Fatalf("cash-out %s -> %s, want a -> B0", tx.OrigID, tx.BeneID)
		}
		if tx.Amount < 100 || tx.Amount >= 200 {
			t.Fatalf("cash-out amount %v outside SAR bounds [100, 200)", tx.Amount)
		}
	}
}

func TestCashDisabledWithoutBranches(t *testing.T) {
	params := testParams()
	params.CashIn = CashParams{Enabled: true, NormalInterval: 1, NormalMin: 10, NormalMax: 20}
	ctx, sink := newTestContext(21, params)
	s := NewSimulation(ctx, 0)
	if err := s.AddAccount(NewAccount(ctx, "a", false, 0, "bank", -1, -1)); err != nil {
		t.Fatalf("AddAccount: %v", err)
	}
	s.Run()

	if len(sink.txs) != 0 {
		t.Fatalf("cash model fired %d times without a branch", len(sink.txs))
	}
}
