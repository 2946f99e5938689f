package benchmark

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"

	"golang.org/x/perf/benchfmt"
)

// GoSuite runs `go test -bench` in the current working tree and converts its
// output into records. It is what the built-in child process executes.
type GoSuite struct {
	Packages []string
	Dir      string
	// Output receives the raw `go test` output as it is produced.
	Output io.Writer
}

func NewGoSuite(packages ...string) *GoSuite {
	if len(packages) == 0 {
		packages = []string{"./..."}
	}
	return &GoSuite{Packages: packages}
}

func (s *GoSuite) Run(ctx context.Context) (ResultSet, error) {
	args := []string{"test", "-bench=.", "-benchmem", "-run=^$"}
	args = append(args, s.Packages...)
	cmd := exec.CommandContext(ctx, "go", args...)
	cmd.Dir = s.Dir

	var out bytes.Buffer
	w := io.Writer(&out)
	if s.Output != nil {
		w = io.MultiWriter(&out, s.Output)
	}
	cmd.Stdout = w
	cmd.Stderr = w

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("benchmark execution failed: %w\nOutput:\n%s", err, out.String())
	}

	return ParseOutput(out.String()), nil
}

// ParseOutput parses standard Go benchmark output.
// Time per op becomes "time" in milliseconds and a custom "gc-ns/op" metric
// becomes "gc_time"; other units are kept under a normalised name.
func ParseOutput(output string) ResultSet {
	results := ResultSet{}
	reader := benchfmt.NewReader(strings.NewReader(output), "go-suite")

	for reader.Scan() {
		res, ok := reader.Result().(*benchfmt.Result)
		if !ok {
			continue
		}

		rec := Record{
			Benchmark: benchmarkName(string(res.Name)),
			Metrics:   map[string]float64{MetricGCTime: 0, "iterations": float64(res.Iters)},
		}
		for _, v := range res.Values {
			name, scaled := metricForUnit(v.Unit, v.Value)
			rec.Metrics[name] = scaled
		}

		if _, ok := rec.Metrics[MetricTime]; !ok {
			continue
		}
		results = append(results, rec)
	}

	return results
}

// benchmarkName restores the "Benchmark" prefix and drops the -GOMAXPROCS suffix.
func benchmarkName(name string) string {
	if !strings.HasPrefix(name, "Benchmark") {
		name = "Benchmark" + name
	}
	if i := strings.LastIndexByte(name, '-'); i > 0 {
		if _, err := strconv.Atoi(name[i+1:]); err == nil {
			name = name[:i]
		}
	}
	return name
}

// metricForUnit maps a benchfmt unit to a record metric. benchfmt tidies
// units to base units (sec/op, B/s); the raw forms are accepted too.
func metricForUnit(unit string, val float64) (string, float64) {
	switch unit {
	case "sec/op":
		return MetricTime, val * 1e3
	case "ns/op":
		return MetricTime, val / 1e6
	case "gc-sec/op":
		return MetricGCTime, val * 1e3
	case "gc-ns/op":
		return MetricGCTime, val / 1e6
	case "B/s":
		return "mb_per_sec", val / 1e6
	case "MB/s":
		return "mb_per_sec", val
	case "B/op":
		return "bytes_per_op", val
	case "allocs/op":
		return "allocs_per_op", val
	}
	r := strings.NewReplacer("/", "_per_", "-", "_")
	return r.Replace(unit), val
}
