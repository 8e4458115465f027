package sink

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"github.com/synthaml/amlsim/internal/sim"
)

// sqliteBatchSize bounds how many records are inserted per transaction.
const sqliteBatchSize = 500

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	seed       INTEGER NOT NULL,
	steps      INTEGER NOT NULL,
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS transactions (
	run_id      TEXT NOT NULL REFERENCES runs(id),
	step        INTEGER NOT NULL,
	tx_type     TEXT NOT NULL,
	amount      REAL NOT NULL,
	orig        TEXT NOT NULL,
	orig_before REAL NOT NULL,
	orig_after  REAL NOT NULL,
	bene        TEXT NOT NULL,
	bene_before REAL NOT NULL,
	bene_after  REAL NOT NULL,
	is_sar      INTEGER NOT NULL,
	alert_id    INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_transactions_run_step ON transactions(run_id, step);
CREATE INDEX IF NOT EXISTS idx_transactions_alert ON transactions(run_id, alert_id);
`

// SQLiteSink persists the transaction stream to a SQLite database, one row
// per transaction, tagged with the run ID. Records are batched; insert
// failures are logged and dropped so the run never fails on a sink.
type SQLiteSink struct {
	db    *sql.DB
	log   *slog.Logger
	runID string
	buf   []sim.Transaction
}

// NewSQLiteSink opens (or creates) the database at path, ensures the schema
// and registers the run.
func NewSQLiteSink(path, runID, name string, seed, steps int64, log *slog.Logger) (*SQLiteSink, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating sqlite schema: %w", err)
	}
	_, err = db.Exec(`INSERT INTO runs (id, name, seed, steps, created_at) VALUES (?, ?, ?, ?, ?)`,
		runID, name, seed, steps, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("registering run: %w", err)
	}
	return &SQLiteSink{
		db:    db,
		log:   log,
		runID: runID,
		buf:   make([]sim.Transaction, 0, sqliteBatchSize),
	}, nil
}

// Record implements sim.TransactionSink.
func (s *SQLiteSink) Record(tx sim.Transaction) {
	s.buf = append(s.buf, tx)
	if len(s.buf) >= sqliteBatchSize {
		s.flushBatch()
	}
}

func (s *SQLiteSink) flushBatch() {
	if len(s.buf) == 0 {
		return
	}
	dbTx, err := s.db.Begin()
	if err != nil {
		s.log.Error("beginning sqlite batch", "error", err)
		s.buf = s.buf[:0]
		return
	}
	stmt, err := dbTx.Prepare(`INSERT INTO transactions
		(run_id, step, tx_type, amount, orig, orig_before, orig_after, bene, bene_before, bene_after, is_sar, alert_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		s.log.Error("preparing sqlite insert", "error", err)
		dbTx.Rollback()
		s.buf = s.buf[:0]
		return
	}
	for _, tx := range s.buf {
		isSAR := 0
		if tx.IsSAR {
			isSAR = 1
		}
		if _, err := stmt.Exec(s.runID, tx.Step, tx.Type, tx.Amount,
			tx.OrigID, tx.OrigBefore, tx.OrigAfter,
			tx.BeneID, tx.BeneBefore, tx.BeneAfter,
			isSAR, tx.AlertID); err != nil {
			s.log.Error("inserting transaction record", "error", err)
		}
	}
	stmt.Close()
	if err := dbTx.Commit(); err != nil {
		s.log.Error("committing sqlite batch", "error", err)
	}
	s.buf = s.buf[:0]
}

// Flush implements Flusher.
func (s *SQLiteSink) Flush() error {
	s.flushBatch()
	return nil
}

// Close flushes remaining records and closes the database.
func (s *SQLiteSink) Close() error {
	s.flushBatch()
	return s.db.Close()
}
