package orchestrator

import (
	"io"

	"branchbench/internal/benchmark"
	"branchbench/internal/ui"
)

// Reporter loads persisted result sets and renders the cross-branch comparison.
type Reporter struct {
	Store      benchmark.Store
	Metrics    []string
	Permissive bool
	Options    ui.ReportOptions
}

// Report compares the branches' stored results and writes the chart to w.
func (r *Reporter) Report(w io.Writer, branches []string) (benchmark.Report, error) {
	sets, err := benchmark.LoadAll(r.Store, branches)
	if err != nil {
		return benchmark.Report{}, err
	}

	report, err := benchmark.Compare(branches, sets, r.Metrics, r.Permissive)
	if err != nil {
		return benchmark.Report{}, err
	}

	if err := ui.RenderReport(w, report, r.Options); err != nil {
		return benchmark.Report{}, err
	}
	return report, nil
}
