package main

import (
	"branchbench/internal/benchmark"
	"branchbench/internal/config"
	"branchbench/internal/orchestrator"

	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report [branch...]",
	Short: "Print the comparison of results saved by the last run",
	Long: `Re-renders the comparison from the result files of a previous run
without checking anything out or running benchmarks. Branches are resolved
the same way as for a comparison.`,
	Args:               cobra.ArbitraryArgs,
	FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
	RunE: func(cmd *cobra.Command, args []string) error {
		s := config.Get()
		dir, branches, err := resolveRepo(cmd.Context(), newGitClientFunc(), args, s)
		if err != nil {
			return err
		}

		reporter := &orchestrator.Reporter{
			Store:      benchmark.NewFileStore(resolvePath(dir, s.OutputDir)),
			Metrics:    s.Metrics,
			Permissive: s.Permissive,
			Options:    reportOptions(s),
		}
		_, err = reporter.Report(cmd.OutOrStdout(), branches)
		return err
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
}
