package db

import (
	"sort"
	"time"

	"branchbench/internal/benchmark"
)

// BranchResult is the result set of one branch within a comparison.
type BranchResult struct {
	Branch  string
	Commit  string
	Results benchmark.ResultSet
}

// Run is one comparison invocation.
type Run struct {
	ID        string
	StartedAt time.Time
	Branches  []BranchResult
}

// Entry is a single stored metric value.
type Entry struct {
	RunID      string    `json:"run_id"`
	Branch     string    `json:"branch"`
	Commit     string    `json:"commit"`
	Benchmark  string    `json:"benchmark"`
	Metric     string    `json:"metric"`
	Value      float64   `json:"value"`
	RecordedAt time.Time `json:"recorded_at"`
}

// Store interface defines the methods for persistent benchmark history
type Store interface {
	Close() error
	SaveRun(run Run) error
	// QueryHistory returns the newest values of one benchmark metric first.
	QueryHistory(benchmark, metric string, limit int) ([]Entry, error)
}

// entries flattens a run into one row per branch, benchmark and metric.
func (r Run) entries() []Entry {
	var out []Entry
	for _, br := range r.Branches {
		for _, rec := range br.Results {
			metrics := make([]string, 0, len(rec.Metrics))
			for metric := range rec.Metrics {
				metrics = append(metrics, metric)
			}
			sort.Strings(metrics)
			for _, metric := range metrics {
				out = append(out, Entry{
					RunID:      r.ID,
					Branch:     br.Branch,
					Commit:     br.Commit,
					Benchmark:  rec.Benchmark,
					Metric:     metric,
					Value:      rec.Metrics[metric],
					RecordedAt: r.StartedAt,
				})
			}
		}
	}
	return out
}
