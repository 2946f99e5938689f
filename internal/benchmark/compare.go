package benchmark

import (
	"errors"
	"fmt"
	"math"
)

// ErrInconsistentResults is returned when branches did not run the same
// ordered benchmark suite.
var ErrInconsistentResults = errors.New("result sets are not comparable")

// Stats summarises one metric across branches.
type Stats struct {
	Min      float64
	MinIndex int
	Max      float64
}

// Summarize scans values once. Ties for the minimum go to the lowest index.
// An empty slice yields MinIndex -1.
func Summarize(values []float64) Stats {
	st := Stats{Min: math.Inf(1), Max: math.Inf(-1), MinIndex: -1}
	for i, v := range values {
		if v < st.Min {
			st.Min = v
			st.MinIndex = i
		}
		if v > st.Max {
			st.Max = v
		}
	}
	return st
}

// MetricComparison holds one metric of one benchmark across all branches.
type MetricComparison struct {
	Metric string
	Values []float64
	Stats  Stats
}

// Fastest returns the index of the branch with the lowest value.
func (m MetricComparison) Fastest() int {
	return m.Stats.MinIndex
}

// Section groups the comparisons for one benchmark index.
// Metrics whose minimum is zero are omitted.
type Section struct {
	Benchmark string
	Metrics   []MetricComparison
}

// Report is the full cross-branch comparison.
type Report struct {
	Branches []string
	Sections []Section
}

// Compare aligns the result sets by index, iterating over branch zero's
// records. Unless permissive is set, every set must have the same length and
// benchmark names as branch zero.
func Compare(branches []string, sets []ResultSet, metrics []string, permissive bool) (Report, error) {
	if len(branches) != len(sets) {
		return Report{}, fmt.Errorf("%w: %d branches but %d result sets", ErrInconsistentResults, len(branches), len(sets))
	}
	if len(sets) == 0 {
		return Report{Branches: branches}, nil
	}
	if !permissive {
		if err := CheckConsistent(branches, sets); err != nil {
			return Report{}, err
		}
	}
	if len(metrics) == 0 {
		metrics = DefaultMetrics
	}

	report := Report{Branches: branches}
	for i, rec := range sets[0] {
		section := Section{Benchmark: rec.Benchmark}
		for _, metric := range metrics {
			values := make([]float64, len(sets))
			for b, set := range sets {
				if i < len(set) {
					values[b] = set[i].Value(metric)
				}
			}
			st := Summarize(values)
			if st.Min == 0 {
				continue
			}
			section.Metrics = append(section.Metrics, MetricComparison{
				Metric: metric,
				Values: values,
				Stats:  st,
			})
		}
		report.Sections = append(report.Sections, section)
	}
	return report, nil
}

// CheckConsistent verifies that every result set describes the same ordered
// benchmarks as the first one.
func CheckConsistent(branches []string, sets []ResultSet) error {
	if len(sets) == 0 {
		return nil
	}
	base := sets[0]
	for b := 1; b < len(sets); b++ {
		if len(sets[b]) != len(base) {
			return fmt.Errorf("%w: %s has %d benchmarks, %s has %d",
				ErrInconsistentResults, branches[b], len(sets[b]), branches[0], len(base))
		}
		for i := range base {
			if sets[b][i].Benchmark != base[i].Benchmark {
				return fmt.Errorf("%w: benchmark %d is %q on %s but %q on %s",
					ErrInconsistentResults, i, sets[b][i].Benchmark, branches[b], base[i].Benchmark, branches[0])
			}
		}
	}
	return nil
}

// BarLength scales value against max into a bar of at most width cells.
func BarLength(value, max float64, width int) int {
	if max <= 0 || value <= 0 {
		return 0
	}
	n := int(math.Round(float64(width) * (value / max)))
	if n > width {
		n = width
	}
	return n
}
