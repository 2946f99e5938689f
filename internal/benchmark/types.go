package benchmark

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Metric names reported by every benchmark suite.
const (
	MetricTime   = "time"
	MetricGCTime = "gc_time"
)

// DefaultMetrics are the metrics compared when none are configured.
var DefaultMetrics = []string{MetricTime, MetricGCTime}

// Record is the measurement of a single benchmark.
// On the wire it is a flat JSON object: every key other than "benchmark"
// is a numeric metric, e.g. {"benchmark":"sort","time":10,"gc_time":0}.
type Record struct {
	Benchmark string
	Metrics   map[string]float64
}

// ResultSet is the ordered list of records produced by one run of the suite.
type ResultSet []Record

// Value returns the named metric, or 0 when the record does not carry it.
func (r Record) Value(metric string) float64 {
	return r.Metrics[metric]
}

// MarshalJSON writes the record as a flat object with "benchmark" first and
// the metrics in name order, so persisted files are stable.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	name, err := json.Marshal(r.Benchmark)
	if err != nil {
		return nil, err
	}
	buf.WriteString(`"benchmark":`)
	buf.Write(name)

	keys := make([]string, 0, len(r.Metrics))
	for k := range r.Metrics {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(r.Metrics[k])
		if err != nil {
			return nil, fmt.Errorf("metric %s: %w", k, err)
		}
		buf.WriteByte(',')
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON accepts the flat object form. Non-numeric metric values are rejected.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	rec := Record{Metrics: make(map[string]float64, len(raw))}
	for k, v := range raw {
		if k == "benchmark" {
			if err := json.Unmarshal(v, &rec.Benchmark); err != nil {
				return fmt.Errorf("benchmark name: %w", err)
			}
			continue
		}
		var f float64
		if err := json.Unmarshal(v, &f); err != nil {
			return fmt.Errorf("metric %q is not numeric: %w", k, err)
		}
		rec.Metrics[k] = f
	}

	*r = rec
	return nil
}
