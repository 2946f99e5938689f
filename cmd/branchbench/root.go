package main

import (
	"fmt"
	"os"
	"strings"

	"branchbench/internal/config"
	"branchbench/internal/telemetry"
	"branchbench/internal/ui"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var exit = os.Exit
var cfgFile string

// rootCmd compares branches when called without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "branchbench [branch...]",
	Short: "Compare benchmark results across git branches",
	Long: `branchbench checks out each branch in turn, runs the benchmark suite in a
fresh process, and prints which branch is fastest for every benchmark.

With no branch the current branch is compared against the reference branch.
With one branch it is compared against the reference branch. The first branch
is checked out again when the comparison ends.`,
	Args:               cobra.ArbitraryArgs,
	SilenceErrors:      true,
	SilenceUsage:       true,
	FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
	PersistentPreRunE:  initConfig,
	RunE:               runCompare,
}

// Execute adds all child commands to the root command and runs it.
func Execute() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "\n=== CRITICAL ERROR: Command Execution Panic ===\n")
			fmt.Fprintf(os.Stderr, "Error: %v\n", r)
			exit(1)
		}
	}()

	rootCmd.SetArgs(stripUnknownFlags(rootCmd, os.Args[1:]))
	if err := rootCmd.Execute(); err != nil {
		ui.RenderError(os.Stderr, err)
		exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./branchbench.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
	rootCmd.PersistentFlags().String("output-dir", "", "Directory for per-branch result files")
	rootCmd.PersistentFlags().String("reference", "", "Branch compared against when fewer than two branches are given")
	rootCmd.PersistentFlags().Bool("permissive", false, "Compare result sets even when their benchmarks differ")
	rootCmd.Flags().String("runner", "", "Command that runs the benchmark suite (default: built-in go test suite)")
	rootCmd.Flags().String("metrics-addr", "", "Serve Prometheus metrics on this address during the run")

	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("output_dir", rootCmd.PersistentFlags().Lookup("output-dir"))
	viper.BindPFlag("reference_branch", rootCmd.PersistentFlags().Lookup("reference"))
	viper.BindPFlag("permissive", rootCmd.PersistentFlags().Lookup("permissive"))
	viper.BindPFlag("runner.command", rootCmd.Flags().Lookup("runner"))
	viper.BindPFlag("metrics_addr", rootCmd.Flags().Lookup("metrics-addr"))

	// compare shares the root's local flags so either spelling works.
	compareCmd.Flags().AddFlagSet(rootCmd.Flags())
}

// initConfig reads the config file and environment, then sets up logging.
func initConfig(cmd *cobra.Command, args []string) error {
	if err := config.Load(cfgFile); err != nil {
		return err
	}
	if err := config.ValidateConfig(); err != nil {
		return err
	}
	telemetry.InitLogger(viper.GetBool("verbose"), viper.GetString("log_file"))
	return nil
}

// stripUnknownFlags drops "--name" arguments that no command defines so they
// are ignored without swallowing the branch name that follows them.
func stripUnknownFlags(root *cobra.Command, args []string) []string {
	known := map[string]bool{"help": true}
	var collect func(c *cobra.Command)
	collect = func(c *cobra.Command) {
		visit := func(f *pflag.Flag) { known[f.Name] = true }
		c.Flags().VisitAll(visit)
		c.PersistentFlags().VisitAll(visit)
		for _, sub := range c.Commands() {
			collect(sub)
		}
	}
	collect(root)

	out := make([]string, 0, len(args))
	for i, arg := range args {
		if arg == "--" {
			return append(out, args[i:]...)
		}
		if strings.HasPrefix(arg, "--") {
			name, _, _ := strings.Cut(arg[2:], "=")
			if !known[name] {
				continue
			}
		}
		out = append(out, arg)
	}
	return out
}
