package load

import (
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/synthaml/amlsim/internal/logging"
	"github.com/synthaml/amlsim/internal/sim"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(strings.TrimSpace(content)+"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func newTestSim() *sim.Simulation {
	params := sim.Params{
		NumSteps:    30,
		TxInterval:  7,
		MinTxAmount: 100,
		MaxTxAmount: 1000,
		MarginRatio: 0.1,
	}
	ctx := sim.NewContext(rand.New(rand.NewSource(1)), params, nil, nil, nil)
	return sim.NewSimulation(ctx, 0)
}

func newTestLoader() *Loader {
	return &Loader{Log: logging.NewLogger("info", io.Discard)}
}

const accountsCSV = `
ACCOUNT_ID,IS_SAR,INIT_BALANCE,BANK_ID
a1,false,1000.0,bank_a
a2,true,2000.0,bank_a
a3,false,500.0,bank_b
`

func TestLoadAccounts(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "accounts.csv", accountsCSV)

	s := newTestSim()
	if err := newTestLoader().Accounts(path, s); err != nil {
		t.Fatalf("Accounts: %v", err)
	}
	if len(s.Accounts()) != 3 {
		t.Fatalf("loaded %d accounts, want 3", len(s.Accounts()))
	}
	a2, ok := s.Account("a2")
	if !ok {
		t.Fatal("account a2 missing")
	}
	if !a2.IsSAR() || a2.Balance() != 2000 || a2.BankID() != "bank_a" {
		t.Fatalf("a2 loaded wrong: sar=%v balance=%v bank=%s", a2.IsSAR(), a2.Balance(), a2.BankID())
	}
}

func TestLoadAccountsColumnOrderIndependent(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "accounts.csv", `
BANK_ID,INIT_BALANCE,ACCOUNT_ID,IS_SAR
bank_a,1000.0,a1,true
`)

	s := newTestSim()
	if err := newTestLoader().Accounts(path, s); err != nil {
		t.Fatalf("Accounts: %v", err)
	}
	a1, _ := s.Account("a1")
	if a1 == nil || !a1.IsSAR() {
		t.Fatal("shuffled columns not resolved by header")
	}
}

func TestLoadAccountsInvalidWindow(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "accounts.csv", `
ACCOUNT_ID,IS_SAR,INIT_BALANCE,BANK_ID,START_STEP,END_STEP
a1,false,1000.0,bank_a,20,10
`)
	if err := newTestLoader().Accounts(path, newTestSim()); err == nil {
		t.Fatal("expected error for start step after end step")
	}
}

func TestLoadEdges(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "accounts.csv", accountsCSV)
	edges := writeFile(t, dir, "edges.csv", `
src,dst,ttype
a1,a2,TRANSFER
a1,a3,PAYMENT
`)

	s := newTestSim()
	l := newTestLoader()
	if err := l.Accounts(filepath.Join(dir, "accounts.csv"), s); err != nil {
		t.Fatal(err)
	}
	if err := l.Edges(edges, s); err != nil {
		t.Fatalf("Edges: %v", err)
	}

	a1, _ := s.Account("a1")
	if len(a1.Beneficiaries()) != 2 {
		t.Fatalf("a1 has %d beneficiaries, want 2", len(a1.Beneficiaries()))
	}
	a2, _ := s.Account("a2")
	if got := a1.TxType(a2); got != "TRANSFER" {
		t.Fatalf("edge label = %q, want TRANSFER", got)
	}
}

func TestLoadEdgesUnknownAccount(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "accounts.csv", accountsCSV)
	edges := writeFile(t, dir, "edges.csv", `
src,dst,ttype
a1,missing,TRANSFER
`)

	s := newTestSim()
	l := newTestLoader()
	if err := l.Accounts(filepath.Join(dir, "accounts.csv"), s); err != nil {
		t.Fatal(err)
	}
	if err := l.Edges(edges, s); err == nil {
		t.Fatal("expected error for unknown destination account")
	}
}

func TestLoadNormalModels(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "accounts.csv", accountsCSV)
	models := writeFile(t, dir, "models.csv", `
type,accountID,modelID,isMain
fan_out,a1,1,true
fan_out,a2,1,false
single,a3,2,true
`)

	s := newTestSim()
	l := newTestLoader()
	if err := l.Accounts(filepath.Join(dir, "accounts.csv"), s); err != nil {
		t.Fatal(err)
	}
	if err := l.NormalModels(models, s); err != nil {
		t.Fatalf("NormalModels: %v", err)
	}

	if len(s.Groups()) != 2 {
		t.Fatalf("loaded %d groups, want 2", len(s.Groups()))
	}
	g, ok := s.Group(1)
	if !ok {
		t.Fatal("group 1 missing")
	}
	if len(g.Members()) != 2 {
		t.Fatalf("group 1 has %d members, want 2", len(g.Members()))
	}
	a1, _ := s.Account("a1")
	if g.MainAccount() != a1 {
		t.Fatal("group 1 main account not set from isMain column")
	}
	if g.Model().ModelName() != "FanOut" {
		t.Fatalf("group 1 model = %s, want FanOut", g.Model().ModelName())
	}
}

func TestLoadAlertMembers(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "accounts.csv", accountsCSV)
	members := writeFile(t, dir, "alerts.csv", `
alertID,accountID,isMain,isSAR,modelID,minAmount,maxAmount,startStep,endStep,scheduleID
1,a2,true,true,4,200,600,0,20,1
1,a1,false,false,4,100,800,2,18,1
1,a3,false,false,4,300,500,5,15,1
`)

	s := newTestSim()
	l := newTestLoader()
	if err := l.Accounts(filepath.Join(dir, "accounts.csv"), s); err != nil {
		t.Fatal(err)
	}
	if err := l.AlertMembers(members, s); err != nil {
		t.Fatalf("AlertMembers: %v", err)
	}

	if len(s.Alerts()) != 1 {
		t.Fatalf("loaded %d alerts, want 1", len(s.Alerts()))
	}
	alert, _ := s.Alert(1)
	if len(alert.Members()) != 3 {
		t.Fatalf("alert has %d members, want 3", len(alert.Members()))
	}
	a2, _ := s.Account("a2")
	if alert.MainAccount() != a2 {
		t.Fatal("alert main account not set from isMain column")
	}
	if !alert.IsSAR() {
		t.Fatal("alert with SAR main account not flagged")
	}
	if alert.Model().ModelName() != "BipartiteTypology" {
		t.Fatalf("alert model = %s, want BipartiteTypology", alert.Model().ModelName())
	}
	// Repeated rows widen the window and bounds: [0,20] with min 100.
	m := alert.Model()
	if m.IsValidStep(21) {
		t.Fatal("step past widened window accepted")
	}
}

func TestLoadAlertMembersOverrideSAR(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "accounts.csv", accountsCSV)
	members := writeFile(t, dir, "alerts.csv", `
alertID,accountID,isMain,isSAR,modelID,minAmount,maxAmount,startStep,endStep,scheduleID
1,a2,true,true,4,200,600,0,20,1
1,a1,false,true,4,200,600,0,20,1
`)

	s := newTestSim()
	l := newTestLoader()
	if err := l.Accounts(filepath.Join(dir, "accounts.csv"), s); err != nil {
		t.Fatal(err)
	}
	if err := l.AlertMembers(members, s); err != nil {
		t.Fatalf("AlertMembers: %v", err)
	}

	// The member row's SAR flag wins over the account file.
	a1, _ := s.Account("a1")
	if !a1.IsSAR() {
		t.Fatal("alert member SAR flag did not override the account file")
	}
}

func TestLoadAlertMembersBadBounds(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "accounts.csv", accountsCSV)
	members := writeFile(t, dir, "alerts.csv", `
alertID,accountID,isMain,isSAR,modelID,minAmount,maxAmount,startStep,endStep,scheduleID
1,a2,true,true,3,900,100,0,20,1
`)

	s := newTestSim()
	l := newTestLoader()
	if err := l.Accounts(filepath.Join(dir, "accounts.csv"), s); err != nil {
		t.Fatal(err)
	}
	if err := l.AlertMembers(members, s); err == nil {
		t.Fatal("expected error for min amount above max amount")
	}
}
