package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"branchbench/internal/benchmark"
	"branchbench/internal/config"

	"github.com/spf13/cobra"
)

var (
	historyMetric string
	historyLimit  int
)

var historyCmd = &cobra.Command{
	Use:   "history <benchmark>",
	Short: "Show recorded values of a benchmark across past runs",
	Long: `Lists the values recorded for one benchmark metric by previous
comparisons, newest first. Requires history.type to be configured.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s := config.Get()
		if s.HistoryType == "" {
			return errors.New("history is not configured (set history.type)")
		}

		dir, err := newGitClientFunc().TopLevel(cmd.Context(), ".")
		if err != nil {
			return fmt.Errorf("not inside a git repository: %w", err)
		}
		store, err := newHistoryFunc(s, dir)
		if err != nil {
			return fmt.Errorf("failed to open history store: %w", err)
		}
		defer store.Close()

		entries, err := store.QueryHistory(args[0], historyMetric, historyLimit)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			cmd.Printf("No history found for %s (%s).\n", args[0], historyMetric)
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "RECORDED\tBRANCH\tCOMMIT\tVALUE")
		for _, e := range entries {
			commit := e.Commit
			if len(commit) > 8 {
				commit = commit[:8]
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%.2f%s\n",
				e.RecordedAt.Local().Format("2006-01-02 15:04"), e.Branch, commit, e.Value, s.Unit)
		}
		return w.Flush()
	},
}

func init() {
	historyCmd.Flags().StringVar(&historyMetric, "metric", benchmark.MetricTime, "Metric to show")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of entries")
	rootCmd.AddCommand(historyCmd)
}
