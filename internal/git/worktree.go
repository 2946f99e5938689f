package git

import (
	"context"
	"fmt"
	"log/slog"
)

// Worktree owns the checkout state of a repository while branches are
// benchmarked in turn. Restore puts the home branch back and must be
// deferred by the caller right after Acquire.
type Worktree struct {
	client   IClient
	dir      string
	home     string
	current  string
	switched bool
}

// Acquire takes ownership of the working tree in dir. home is the branch
// restored when the Worktree is released.
func Acquire(client IClient, dir, home string) *Worktree {
	return &Worktree{client: client, dir: dir, home: home}
}

// Switch checks out branch.
func (w *Worktree) Switch(ctx context.Context, branch string) error {
	if err := w.client.Checkout(ctx, w.dir, branch); err != nil {
		return err
	}
	w.switched = true
	w.current = branch
	return nil
}

// Current returns the branch most recently checked out through Switch.
func (w *Worktree) Current() string {
	return w.current
}

// Restore checks the home branch out again. It runs even when ctx is
// already cancelled, and is a no-op when Switch never succeeded.
func (w *Worktree) Restore(ctx context.Context) error {
	if !w.switched {
		return nil
	}
	ctx = context.WithoutCancel(ctx)
	slog.Debug("restoring working tree", "branch", w.home, "from", w.current)
	if err := w.client.Checkout(ctx, w.dir, w.home); err != nil {
		return fmt.Errorf("failed to restore %s: %w", w.home, err)
	}
	w.current = w.home
	return nil
}
