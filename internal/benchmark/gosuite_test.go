package benchmark

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOutput(t *testing.T) {
	output := `
goos: linux
goarch: amd64
pkg: example.com/sorting
cpu: Intel(R) Core(TM) i9-9900K CPU @ 3.60GHz
BenchmarkParseOutput-16    	100000000	        10.5 ns/op	       0 B/op	       0 allocs/op
BenchmarkComplex-16        	 5000000	       250000 ns/op	      10.0 MB/s	      64 B/op	       2 allocs/op
PASS
ok  	example.com/sorting	1.500s
`
	results := ParseOutput(output)
	require.Len(t, results, 2)

	assert.Equal(t, "BenchmarkParseOutput", results[0].Benchmark)
	assert.Equal(t, 100000000.0, results[0].Value("iterations"))
	assert.InDelta(t, 0.0000105, results[0].Value(MetricTime), 1e-12)
	assert.Equal(t, 0.0, results[0].Value("bytes_per_op"))

	assert.Equal(t, "BenchmarkComplex", results[1].Benchmark)
	assert.InDelta(t, 0.25, results[1].Value(MetricTime), 1e-9)
	assert.InDelta(t, 10.0, results[1].Value("mb_per_sec"), 1e-9)
	assert.Equal(t, 64.0, results[1].Value("bytes_per_op"))
	assert.Equal(t, 2.0, results[1].Value("allocs_per_op"))
}

func TestParseOutput_Minimal(t *testing.T) {
	results := ParseOutput("BenchmarkSimple   100   2000000 ns/op\n")
	require.Len(t, results, 1)
	assert.Equal(t, "BenchmarkSimple", results[0].Benchmark)
	assert.InDelta(t, 2.0, results[0].Value(MetricTime), 1e-9)
	assert.Equal(t, 0.0, results[0].Value(MetricGCTime))
}

func TestParseOutput_CustomMetrics(t *testing.T) {
	results := ParseOutput("BenchmarkGC/large-4   10   5000000 ns/op   1500000 gc-ns/op   3 items/op\n")
	require.Len(t, results, 1)
	assert.Equal(t, "BenchmarkGC/large", results[0].Benchmark)
	assert.InDelta(t, 5.0, results[0].Value(MetricTime), 1e-9)
	assert.InDelta(t, 1.5, results[0].Value(MetricGCTime), 1e-9)
	assert.Equal(t, 3.0, results[0].Value("items_per_op"))
}

func TestParseOutput_NoBenchmarks(t *testing.T) {
	results := ParseOutput("PASS\nok  \texample.com/x\t0.01s\n")
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestParseOutput_SkipsMalformedLines(t *testing.T) {
	output := "BenchmarkBroken-8   notanumber   10 ns/op\n" +
		"BenchmarkOK-8   10   3000000 ns/op\n" +
		"BenchmarkNoTime-8   10   5 allocs/op\n"
	results := ParseOutput(output)
	require.Len(t, results, 1)
	assert.Equal(t, "BenchmarkOK", results[0].Benchmark)
	assert.InDelta(t, 3.0, results[0].Value(MetricTime), 1e-9)
	assert.Equal(t, 10.0, results[0].Value("iterations"))
}

func TestMetricForUnit(t *testing.T) {
	tests := []struct {
		unit  string
		val   float64
		name  string
		value float64
	}{
		{unit: "sec/op", val: 0.002, name: MetricTime, value: 2},
		{unit: "ns/op", val: 2e6, name: MetricTime, value: 2},
		{unit: "gc-sec/op", val: 0.0015, name: MetricGCTime, value: 1.5},
		{unit: "gc-ns/op", val: 1.5e6, name: MetricGCTime, value: 1.5},
		{unit: "B/s", val: 1e7, name: "mb_per_sec", value: 10},
		{unit: "items/op", val: 3, name: "items_per_op", value: 3},
	}

	for _, tt := range tests {
		t.Run(tt.unit, func(t *testing.T) {
			name, value := metricForUnit(tt.unit, tt.val)
			assert.Equal(t, tt.name, name)
			assert.InDelta(t, tt.value, value, 1e-9)
		})
	}
}
