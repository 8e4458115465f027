// Package stat computes analytics over the accumulated transaction graph.
package stat

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/synthaml/amlsim/internal/sim"
)

// maxSources bounds how many BFS sources are sampled per computation.
const maxSources = 64

// Diameter tracks the undirected transaction graph as it grows and
// periodically estimates its diameter and average shortest-path distance by
// multi-source BFS sampling. It observes the transaction stream as a sink.
// Results are appended to a CSV with header step,diameter,average.
type Diameter struct {
	adj   map[string][]string
	edges map[[2]string]struct{}
	nodes []string

	f   *os.File
	w   *csv.Writer
	log *slog.Logger
}

// NewDiameter creates the tracker writing results to path.
func NewDiameter(path string, log *slog.Logger) (*Diameter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating diameter log: %w", err)
	}
	w := csv.NewWriter(f)
	if err := w.Write([]string{"step", "diameter", "average"}); err != nil {
		f.Close()
		return nil, fmt.Errorf("writing diameter log header: %w", err)
	}
	return &Diameter{
		adj:   make(map[string][]string),
		edges: make(map[[2]string]struct{}),
		f:     f,
		w:     w,
		log:   log,
	}, nil
}

// Record implements sim.TransactionSink, folding each transaction into the
// graph.
func (d *Diameter) Record(tx sim.Transaction) {
	d.AddEdge(tx.OrigID, tx.BeneID)
}

// AddEdge records an undirected edge between two accounts. Duplicate edges
// and self-loops are ignored.
func (d *Diameter) AddEdge(a, b string) {
	if a == b {
		return
	}
	key := [2]string{a, b}
	if a > b {
		key = [2]string{b, a}
	}
	if _, ok := d.edges[key]; ok {
		return
	}
	d.edges[key] = struct{}{}
	d.addNode(a)
	d.addNode(b)
	d.adj[a] = append(d.adj[a], b)
	d.adj[b] = append(d.adj[b], a)
}

func (d *Diameter) addNode(id string) {
	if _, ok := d.adj[id]; !ok {
		d.adj[id] = nil
		d.nodes = append(d.nodes, id)
	}
}

// Compute estimates the diameter and average distance and appends one row to
// the log. Sources are sampled evenly over the node list in insertion order,
// so the estimate is deterministic for a given graph.
func (d *Diameter) Compute(step int64) {
	diameter, average := d.estimate()
	row := []string{
		strconv.FormatInt(step, 10),
		strconv.Itoa(diameter),
		strconv.FormatFloat(average, 'f', 2, 64),
	}
	if err := d.w.Write(row); err != nil {
		d.log.Error("writing diameter log", "error", err)
		return
	}
	d.w.Flush()
	d.log.Debug("diameter computed", "step", step, "diameter", diameter, "average", average)
}

func (d *Diameter) estimate() (int, float64) {
	n := len(d.nodes)
	if n == 0 {
		return 0, 0
	}
	stride := 1
	if n > maxSources {
		stride = n / maxSources
	}

	maxDist := 0
	var distSum, distCount int64
	dist := make(map[string]int, n)

	for i := 0; i < n; i += stride {
		clear(dist)
		src := d.nodes[i]
		dist[src] = 0
		queue := []string{src}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for _, next := range d.adj[cur] {
				if _, ok := dist[next]; ok {
					continue
				}
				dd := dist[cur] + 1
				dist[next] = dd
				queue = append(queue, next)
				if dd > maxDist {
					maxDist = dd
				}
				distSum += int64(dd)
				distCount++
			}
		}
	}
	if distCount == 0 {
		return 0, 0
	}
	return maxDist, float64(distSum) / float64(distCount)
}

// Close flushes and closes the log file.
func (d *Diameter) Close() error {
	d.w.Flush()
	if err := d.w.Error(); err != nil {
		d.f.Close()
		return err
	}
	return d.f.Close()
}
