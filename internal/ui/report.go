package ui

import (
	"fmt"
	"io"
	"strings"

	"branchbench/internal/benchmark"
)

// indent is the width of one console group level.
const indent = "  "

// ReportOptions controls the bar chart.
type ReportOptions struct {
	Width int
	Unit  string
	Glyph string
}

// DefaultReportOptions matches the classic 20-cell millisecond chart.
func DefaultReportOptions() ReportOptions {
	return ReportOptions{Width: 20, Unit: "ms", Glyph: "◼"}
}

// Label maps a branch position to a short stable label: a..z, then aa, ab, ...
func Label(i int) string {
	if i < 0 {
		return "?"
	}
	var b []byte
	for {
		b = append([]byte{byte('a' + i%26)}, b...)
		i = i/26 - 1
		if i < 0 {
			break
		}
	}
	return string(b)
}

// RenderReport writes one group per benchmark and, inside it, one bar chart
// per metric that has a non-zero minimum.
func RenderReport(w io.Writer, report benchmark.Report, opts ReportOptions) error {
	if opts.Width <= 0 {
		opts.Width = DefaultReportOptions().Width
	}
	if opts.Glyph == "" {
		opts.Glyph = DefaultReportOptions().Glyph
	}
	st := newStyles(w)

	var sb strings.Builder
	for _, section := range report.Sections {
		sb.WriteString(st.benchmark.Render(section.Benchmark))
		sb.WriteByte('\n')

		for _, mc := range section.Metrics {
			fastest := mc.Fastest()
			fmt.Fprintf(&sb, "%s%s: fastest is %s (%s)\n",
				indent,
				st.metric.Render(mc.Metric),
				st.fastest.Render(Label(fastest)),
				report.Branches[fastest])

			for b, v := range mc.Values {
				n := benchmark.BarLength(v, mc.Stats.Max, opts.Width)
				bar := strings.Repeat(opts.Glyph, n)
				pad := strings.Repeat(" ", opts.Width-n)
				fmt.Fprintf(&sb, "%s%s%s: %s%s %.2f%s\n",
					indent, indent, Label(b), st.bar.Render(bar), pad, v, opts.Unit)
			}
		}
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// GroupHeader renders the heading that introduces the output of one branch run.
func GroupHeader(w io.Writer, title string) {
	fmt.Fprintln(w, newStyles(w).group.Render(title))
}

// RenderError renders a fatal error line.
func RenderError(w io.Writer, err error) {
	fmt.Fprintln(w, newStyles(w).errorText.Render("Error: "+err.Error()))
}
