package sink

import (
	"database/sql"
	"path/filepath"
	"testing"
)

func TestSQLiteSinkPersistsRun(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "amlsim.db")

	s, err := NewSQLiteSink(path, "run-1", "test", 42, 10, testLog())
	if err != nil {
		t.Fatalf("NewSQLiteSink: %v", err)
	}
	for i := 0; i < 3; i++ {
		s.Record(sampleTx(int64(i), i == 2, -1))
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	var name string
	var seed int64
	if err := db.QueryRow(`SELECT name, seed FROM runs WHERE id = ?`, "run-1").Scan(&name, &seed); err != nil {
		t.Fatalf("run row missing: %v", err)
	}
	if name != "test" || seed != 42 {
		t.Fatalf("run row = (%s, %d), want (test, 42)", name, seed)
	}

	var count, sarCount int
	if err := db.QueryRow(`SELECT COUNT(*), SUM(is_sar) FROM transactions WHERE run_id = ?`, "run-1").Scan(&count, &sarCount); err != nil {
		t.Fatal(err)
	}
	if count != 3 || sarCount != 1 {
		t.Fatalf("transactions = (%d, %d SAR), want (3, 1)", count, sarCount)
	}
}
