package main

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"branchbench/internal/benchmark"
	"branchbench/internal/config"
	"branchbench/internal/git"
	"branchbench/internal/lock"
	"branchbench/internal/metrics"
	"branchbench/internal/notify"
	"branchbench/internal/orchestrator"
	"branchbench/internal/telemetry"
	"branchbench/internal/ui"

	"github.com/spf13/cobra"
)

var compareCmd = &cobra.Command{
	Use:   "compare [branch...]",
	Short: "Benchmark branches and print the comparison (default command)",
	Long: `Benchmarks every branch in order and prints the comparison.
This is what branchbench runs when no subcommand is given; use it explicitly
when a branch shares its name with a subcommand.`,
	Args:               cobra.ArbitraryArgs,
	FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
	RunE:               runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	s := config.Get()
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := newGitClientFunc()
	dir, branches, err := resolveRepo(ctx, client, args, s)
	if err != nil {
		return err
	}
	telemetry.LogDebug("comparing branches", "branches", branches, "dir", dir)

	runner, err := newRunnerFunc(s, dir, cmd.OutOrStdout(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	history, err := newHistoryFunc(s, dir)
	if err != nil {
		return fmt.Errorf("failed to open history store: %w", err)
	}
	if history != nil {
		defer history.Close()
	}

	m := metrics.NewMetrics()
	if s.MetricsAddr != "" {
		if _, err := telemetry.StartMetricsServer(ctx, s.MetricsAddr, m.Handler()); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: Failed to start metrics server: %v\n", err)
		}
	}

	store := benchmark.NewFileStore(resolvePath(dir, s.OutputDir))
	o := orchestrator.New(client, runner, store, dir)
	o.Console = cmd.OutOrStdout()
	o.Metrics = m
	o.History = history
	o.Locker = lock.New(dir)
	o.RequireClean = s.RequireClean
	o.Logger = slog.Default()

	notifier := newNotifierFunc()

	if err := o.Run(ctx, branches); err != nil {
		notifyFailure(ctx, notifier, branches, err)
		return err
	}

	reporter := &orchestrator.Reporter{
		Store:      store,
		Metrics:    s.Metrics,
		Permissive: s.Permissive,
		Options:    reportOptions(s),
	}
	report, err := reporter.Report(cmd.OutOrStdout(), branches)
	if err != nil {
		notifyFailure(ctx, notifier, branches, err)
		return err
	}

	var plain bytes.Buffer
	if err := ui.RenderReport(&plain, report, reporter.Options); err == nil {
		msg := fmt.Sprintf("Benchmark comparison of %v\n%s", branches, notify.CodeBlock(plain.String()))
		if err := notifier.Notify(ctx, notify.EventSuccess, msg); err != nil {
			telemetry.LogError("notification failed", err)
		}
	}
	return nil
}

// resolveRepo finds the repository root and the ordered branch list.
func resolveRepo(ctx context.Context, client git.IClient, args []string, s config.Settings) (string, []string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", nil, err
	}
	dir, err := client.TopLevel(ctx, wd)
	if err != nil {
		return "", nil, fmt.Errorf("not inside a git repository: %w", err)
	}

	branches, err := orchestrator.ResolveBranches(args, func() (string, error) {
		return client.CurrentRef(ctx, dir)
	}, s.ReferenceBranch)
	if err != nil {
		return "", nil, fmt.Errorf("failed to determine current branch: %w", err)
	}
	return dir, branches, nil
}

func reportOptions(s config.Settings) ui.ReportOptions {
	opts := ui.DefaultReportOptions()
	opts.Width = s.BarWidth
	opts.Unit = s.Unit
	return opts
}

func notifyFailure(ctx context.Context, n notify.Notifier, branches []string, cause error) {
	msg := fmt.Sprintf("Benchmark comparison of %v failed: %v", branches, cause)
	if err := n.Notify(context.WithoutCancel(ctx), notify.EventFailure, msg); err != nil {
		telemetry.LogError("notification failed", err)
	}
}
