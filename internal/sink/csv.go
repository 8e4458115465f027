// Package sink provides the transaction sinks: destinations that observe the
// transaction stream without ever failing the run. The CSV sink produces the
// primary output format; SQLite and Kafka sinks are optional egress pipes.
package sink

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/synthaml/amlsim/internal/sim"
)

// Flusher is implemented by sinks that buffer records.
type Flusher interface {
	Flush() error
}

// Closer is implemented by sinks that hold external resources.
type Closer interface {
	Close() error
}

// flushEvery bounds how many records sit in the CSV writer's buffer.
const flushEvery = 10000

// CSVSink writes the transaction log as CSV and keeps
// per-step normal/SAR counters over the whole horizon. Amounts and balances
// are truncated to two decimal digits. An optional record limit caps the
// output; once reached, a single warning is logged and further records are
// dropped.
type CSVSink struct {
	f       *os.File
	w       *csv.Writer
	log     *slog.Logger
	limit   int64
	written int64
	warned  bool

	normal []int64
	sar    []int64
}

// NewCSVSink creates the sink and writes the header row. limit <= 0 means
// unlimited.
func NewCSVSink(path string, numSteps, limit int64, log *slog.Logger) (*CSVSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating transaction log: %w", err)
	}
	w := csv.NewWriter(f)
	header := []string{
		"step", "type", "amount",
		"nameOrig", "oldbalanceOrig", "newbalanceOrig",
		"nameDest", "oldbalanceDest", "newbalanceDest",
		"isSAR", "alertID",
	}
	if err := w.Write(header); err != nil {
		f.Close()
		return nil, fmt.Errorf("writing transaction log header: %w", err)
	}
	return &CSVSink{
		f:      f,
		w:      w,
		log:    log,
		limit:  limit,
		normal: make([]int64, numSteps),
		sar:    make([]int64, numSteps),
	}, nil
}

// truncate2 cuts a value to two decimal digits without rounding.
func truncate2(v float64) float64 {
	return float64(int64(v*100)) / 100
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(truncate2(v), 'f', 2, 64)
}

// Record implements sim.TransactionSink.
func (s *CSVSink) Record(tx sim.Transaction) {
	if s.limit > 0 && s.written >= s.limit {
		if !s.warned {
			s.log.Warn("transaction limit reached, dropping further records", "limit", s.limit)
			s.w.Flush()
			s.warned = true
		}
		return
	}

	isSAR := "0"
	if tx.IsSAR {
		isSAR = "1"
	}
	row := []string{
		strconv.FormatInt(tx.Step, 10),
		tx.Type,
		formatAmount(tx.Amount),
		tx.OrigID,
		formatAmount(tx.OrigBefore),
		formatAmount(tx.OrigAfter),
		tx.BeneID,
		formatAmount(tx.BeneBefore),
		formatAmount(tx.BeneAfter),
		isSAR,
		strconv.FormatInt(tx.AlertID, 10),
	}
	if err := s.w.Write(row); err != nil {
		s.log.Error("writing transaction record", "error", err)
		return
	}
	s.written++
	if s.written%flushEvery == 0 {
		s.w.Flush()
	}

	if int(tx.Step) < len(s.normal) {
		if tx.IsSAR {
			s.sar[tx.Step]++
		} else if !strings.HasPrefix(tx.Type, "CASH-") {
			s.normal[tx.Step]++
		}
	}
}

// Flush implements Flusher.
func (s *CSVSink) Flush() error {
	s.w.Flush()
	return s.w.Error()
}

// Close flushes and closes the transaction log.
func (s *CSVSink) Close() error {
	s.w.Flush()
	if err := s.w.Error(); err != nil {
		s.f.Close()
		return err
	}
	return s.f.Close()
}

// WriteCounters writes the per-step transaction counts as a CSV with header
// step,normal,SAR.
func (s *CSVSink) WriteCounters(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating counter log: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"step", "normal", "SAR"}); err != nil {
		return fmt.Errorf("writing counter log: %w", err)
	}
	for step := range s.normal {
		row := []string{
			strconv.Itoa(step),
			strconv.FormatInt(s.normal[step], 10),
			strconv.FormatInt(s.sar[step], 10),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("writing counter log: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}
