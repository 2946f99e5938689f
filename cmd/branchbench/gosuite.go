package main

import (
	"errors"

	"branchbench/internal/benchmark"

	"github.com/spf13/cobra"
)

// goSuiteCmd is the default child process: it runs `go test -bench` in the
// checked-out tree and reports the parsed results to the parent.
var goSuiteCmd = &cobra.Command{
	Use:    "go-suite [packages...]",
	Short:  "Run go test benchmarks and report them to the parent process",
	Hidden: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		suite := benchmark.NewGoSuite(args...)
		suite.Output = cmd.OutOrStdout()

		results, err := suite.Run(cmd.Context())
		if err != nil {
			if serr := benchmark.SendError(err); serr != nil {
				return errors.Join(err, serr)
			}
			return err
		}
		return benchmark.SendResults(results)
	},
}

func init() {
	rootCmd.AddCommand(goSuiteCmd)
}
