package sim

// Transaction is one accepted transfer, produced exactly once and handed to
// the sink. It is never retried or amended.
type Transaction struct {
	Step       int64
	Type       string
	Amount     float64
	OrigID     string
	OrigBefore float64
	OrigAfter  float64
	BeneID     string
	BeneBefore float64
	BeneAfter  float64
	IsSAR      bool
	AlertID    int64
}

// TransactionSink receives every accepted transfer for logging or export.
// Sinks are passive observers: they must not reject events, and any internal
// failure is theirs to absorb.
type TransactionSink interface {
	Record(tx Transaction)
}
