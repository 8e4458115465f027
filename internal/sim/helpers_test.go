package sim

import (
	"math/rand"
)

// captureSink collects every recorded transaction for assertions.
type captureSink struct {
	txs []Transaction
}

func (s *captureSink) Record(tx Transaction) {
	s.txs = append(s.txs, tx)
}

func testParams() Params {
	return Params{
		NumSteps:    30,
		TxInterval:  7,
		MinTxAmount: 100,
		MaxTxAmount: 1000,
		MarginRatio: 0.1,
	}
}

// newTestContext builds a context with a seeded random source and a capture
// sink.
func newTestContext(seed int64, params Params) (*Context, *captureSink) {
	sink := &captureSink{}
	ctx := NewContext(rand.New(rand.NewSource(seed)), params, nil, sink, nil)
	return ctx, sink
}
