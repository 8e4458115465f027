package stat

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/synthaml/amlsim/internal/logging"
	"github.com/synthaml/amlsim/internal/sim"
)

func newTestDiameter(t *testing.T) *Diameter {
	t.Helper()
	d, err := NewDiameter(filepath.Join(t.TempDir(), "diameter.csv"), logging.NewLogger("info", io.Discard))
	if err != nil {
		t.Fatalf("NewDiameter: %v", err)
	}
	return d
}

func TestDiameterPathGraph(t *testing.T) {
	d := newTestDiameter(t)
	defer d.Close()

	// a - b - c: diameter 2.
	d.AddEdge("a", "b")
	d.AddEdge("b", "c")

	diameter, avg := d.estimate()
	if diameter != 2 {
		t.Fatalf("diameter = %d, want 2", diameter)
	}
	// Distances from each source: a:{1,2} b:{1,1} c:{1,2} -> mean 8/6.
	want := 8.0 / 6.0
	if avg != want {
		t.Fatalf("average distance = %v, want %v", avg, want)
	}
}

func TestDiameterIgnoresDuplicatesAndLoops(t *testing.T) {
	d := newTestDiameter(t)
	defer d.Close()

	d.AddEdge("a", "b")
	d.AddEdge("b", "a") // same undirected edge
	d.AddEdge("a", "a") // self loop

	if len(d.adj["a"]) != 1 || len(d.adj["b"]) != 1 {
		t.Fatalf("duplicate or loop edges recorded: %v", d.adj)
	}
}

func TestDiameterRecordAndCompute(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "diameter.csv")
	d, err := NewDiameter(path, logging.NewLogger("info", io.Discard))
	if err != nil {
		t.Fatal(err)
	}

	d.Record(sim.Transaction{OrigID: "a", BeneID: "b"})
	d.Record(sim.Transaction{OrigID: "b", BeneID: "c"})
	d.Compute(10)
	if err := d.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want header + 1 row", len(lines))
	}
	if lines[0] != "step,diameter,average" {
		t.Fatalf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "10,2,") {
		t.Fatalf("result row = %q, want step 10 diameter 2", lines[1])
	}
}

func TestDiameterEmptyGraph(t *testing.T) {
	d := newTestDiameter(t)
	defer d.Close()

	diameter, avg := d.estimate()
	if diameter != 0 || avg != 0 {
		t.Fatalf("empty graph estimate = (%d, %v), want zeros", diameter, avg)
	}
}
