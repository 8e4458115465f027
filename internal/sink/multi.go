package sink

import (
	"errors"

	"github.com/synthaml/amlsim/internal/sim"
)

// Multi fans every record out to a set of sinks. Flush and Close are
// forwarded to the sinks that support them.
type Multi struct {
	sinks []sim.TransactionSink
}

// NewMulti creates a fan-out over the given sinks.
func NewMulti(sinks ...sim.TransactionSink) *Multi {
	return &Multi{sinks: sinks}
}

// Record implements sim.TransactionSink.
func (m *Multi) Record(tx sim.Transaction) {
	for _, s := range m.sinks {
		s.Record(tx)
	}
}

// Flush flushes every buffering sink, returning the joined errors.
func (m *Multi) Flush() error {
	var errs []error
	for _, s := range m.sinks {
		if f, ok := s.(Flusher); ok {
			errs = append(errs, f.Flush())
		}
	}
	return errors.Join(errs...)
}

// Close closes every closing sink, returning the joined errors.
func (m *Multi) Close() error {
	var errs []error
	for _, s := range m.sinks {
		if c, ok := s.(Closer); ok {
			errs = append(errs, c.Close())
		}
	}
	return errors.Join(errs...)
}
