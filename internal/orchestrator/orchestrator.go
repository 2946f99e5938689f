package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"branchbench/internal/benchmark"
	"branchbench/internal/db"
	"branchbench/internal/git"
	"branchbench/internal/metrics"
	"branchbench/internal/ui"

	"github.com/google/uuid"
)

// Orchestrator benchmarks branches one after another in a single working tree.
type Orchestrator struct {
	Git    git.IClient
	Runner benchmark.Runner
	Store  benchmark.Store
	// Dir is the repository working directory.
	Dir string

	Console      io.Writer
	Metrics      *metrics.Metrics
	History      db.Store
	Locker       Locker
	RequireClean bool
	Logger       *slog.Logger
}

// New returns an Orchestrator that reports to stdout with fresh metrics.
func New(client git.IClient, runner benchmark.Runner, store benchmark.Store, dir string) *Orchestrator {
	return &Orchestrator{
		Git:     client,
		Runner:  runner,
		Store:   store,
		Dir:     dir,
		Console: os.Stdout,
		Metrics: metrics.NewMetrics(),
		Logger:  slog.Default(),
	}
}

// Run checks out every branch in order, runs the suite once per branch and
// saves each result set. The first branch is checked out again on every
// exit path once any checkout has happened.
func (o *Orchestrator) Run(ctx context.Context, branches []string) (err error) {
	if len(branches) == 0 {
		return errors.New("no branches to compare")
	}

	if o.Locker != nil {
		if err := o.Locker.Acquire(); err != nil {
			return err
		}
		defer func() {
			if rerr := o.Locker.Release(); rerr != nil {
				o.Logger.Warn("failed to release repository lock", "error", rerr)
			}
		}()
	}

	if o.RequireClean {
		clean, err := o.Git.IsClean(ctx, o.Dir)
		if err != nil {
			return fmt.Errorf("failed to check working tree: %w", err)
		}
		if !clean {
			return ErrDirtyWorktree
		}
	}

	if err := o.Store.Reset(); err != nil {
		return err
	}

	wt := git.Acquire(o.Git, o.Dir, branches[0])
	defer func() {
		if rerr := wt.Restore(ctx); rerr != nil {
			err = errors.Join(err, rerr)
		}
	}()

	run := db.Run{ID: uuid.NewString(), StartedAt: time.Now().UTC()}

	for _, branch := range branches {
		if err := ctx.Err(); err != nil {
			return err
		}

		ui.GroupHeader(o.Console, "Benchmarking "+branch)
		results, err := o.benchmarkBranch(ctx, wt, branch)
		if err != nil {
			return err
		}

		if o.History != nil {
			sha, err := o.Git.CurrentCommitSHA(ctx, o.Dir)
			if err != nil {
				o.Logger.Warn("failed to resolve commit", "branch", branch, "error", err)
			}
			run.Branches = append(run.Branches, db.BranchResult{Branch: branch, Commit: sha, Results: results})
		}
	}

	if o.History != nil {
		if err := o.History.SaveRun(run); err != nil {
			return fmt.Errorf("failed to record history: %w", err)
		}
		o.Logger.Debug("history recorded", "run", run.ID)
	}

	return nil
}

func (o *Orchestrator) benchmarkBranch(ctx context.Context, wt *git.Worktree, branch string) (benchmark.ResultSet, error) {
	err := wt.Switch(ctx, branch)
	o.Metrics.ObserveCheckout(err)
	if err != nil {
		return nil, err
	}

	o.Logger.Debug("running benchmark suite", "branch", branch)
	start := time.Now()
	results, err := o.Runner.Run(ctx)
	elapsed := time.Since(start)
	o.Metrics.ObserveRun(branch, elapsed, err)
	if err != nil {
		return nil, fmt.Errorf("benchmarking %s: %w", branch, err)
	}
	o.Logger.Debug("benchmark suite finished", "branch", branch, "benchmarks", len(results), "elapsed", elapsed)

	if err := o.Store.Save(branch, results); err != nil {
		return nil, err
	}

	o.Metrics.RecordResults(branch, results)

	return results, nil
}
