package sim

import (
	"context"
	"io"
	"log/slog"
	"math/rand"
	"strings"

	"github.com/synthaml/amlsim/internal/logging"
)

// CashParams configures one direction of cash transactions (deposit or
// withdrawal) against a branch, with separate bounds for normal and SAR
// accounts.
type CashParams struct {
	Enabled        bool
	NormalInterval int
	SARInterval    int
	NormalMin      float64
	NormalMax      float64
	SARMin         float64
	SARMax         float64
}

// Params holds the global run parameters consumed by the engine.
type Params struct {
	// NumSteps is the total number of simulation steps.
	NumSteps int64

	// TxInterval is the default transaction interval for normal behavior
	// models.
	TxInterval int

	// MinTxAmount and MaxTxAmount bound targeted transaction amounts.
	MinTxAmount float64
	MaxTxAmount float64

	// MarginRatio is the fraction of a received amount withheld before
	// forwarding in layering typologies.
	MarginRatio float64

	CashIn  CashParams
	CashOut CashParams
}

// Context carries the shared state every engine component draws from: the
// seeded random source, the global run parameters, the optional edge
// admission policy, the transaction sink and the logger. It is injected at
// construction and never reached through package-level state, which keeps
// runs reproducible and components testable in isolation.
type Context struct {
	Rand   *rand.Rand
	Params
	Policy *Policy
	Log    *slog.Logger

	sink TransactionSink

	// Fallback pool of transaction type labels, fed by every labeled edge.
	txTypePool []string
}

// NewContext creates a simulation context. sink may be nil, in which case
// transactions mutate balances but are not recorded anywhere. log may be nil.
func NewContext(rnd *rand.Rand, params Params, policy *Policy, sink TransactionSink, log *slog.Logger) *Context {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Context{
		Rand:   rnd,
		Params: params,
		Policy: policy,
		Log:    log,
		sink:   sink,
	}
}

// Transact applies one transfer: the originator is debited (clamped at
// zero), the beneficiary is credited, and the resulting event is handed to
// the sink. Non-positive amounts are silently skipped. alertID is negative
// for normal transactions.
func (c *Context) Transact(step int64, ttype string, amount float64, orig, bene *Account, isSAR bool, alertID int64) {
	if amount <= 0 {
		return
	}
	if alertID < 0 && !strings.HasPrefix(ttype, "CASH-") {
		amount = c.Policy.AdjustAmount(orig, bene, amount)
		if amount <= 0 {
			return
		}
	}

	origBefore := orig.balance
	orig.Withdraw(amount)
	origAfter := orig.balance

	beneBefore := bene.balance
	bene.Deposit(amount)
	beneAfter := bene.balance

	// Remember the payer for mutual (return-flow) behavior.
	bene.prevOrig = orig

	c.Log.Log(context.Background(), logging.LevelTrace, "transaction",
		"step", step, "type", ttype, "amount", amount,
		"orig", orig.id, "bene", bene.id, "sar", isSAR, "alert", alertID)

	if c.sink != nil {
		c.sink.Record(Transaction{
			Step:       step,
			Type:       ttype,
			Amount:     amount,
			OrigID:     orig.id,
			OrigBefore: origBefore,
			OrigAfter:  origAfter,
			BeneID:     bene.id,
			BeneBefore: beneBefore,
			BeneAfter:  beneAfter,
			IsSAR:      isSAR,
			AlertID:    alertID,
		})
	}
}

// sendTransaction resolves the transaction type label from the originator's
// edge labels and dispatches the transfer.
func (c *Context) sendTransaction(step int64, amount float64, orig, bene *Account, isSAR bool, alertID int64) {
	if amount <= 0 { // Invalid transaction amount
		return
	}
	c.Transact(step, orig.TxType(bene), amount, orig, bene, isSAR, alertID)
}

// generateStartStep draws a random start offset in [0, interval) so that
// accounts sharing an interval do not all fire on the same step.
func (c *Context) generateStartStep(interval int64) int64 {
	if interval <= 0 {
		return 0
	}
	return c.Rand.Int63n(interval)
}
