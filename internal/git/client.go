package git

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"
)

// checkoutTimeout bounds a single checkout; large repositories can take a while.
const checkoutTimeout = 2 * time.Minute

// Client handles git interactions by shelling out to the git binary.
type Client struct {
	// Output receives the progress output of state-changing commands.
	Output io.Writer
}

// NewClient creates a new Git client.
func NewClient() *Client {
	return &Client{Output: os.Stderr}
}

func (c *Client) output(ctx context.Context, dir string, args ...string) (string, error) {
	var outBuf, errBuf bytes.Buffer
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	// Enforce no prompting
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("git %s failed: %w\nStderr: %s", args[0], err, strings.TrimSpace(errBuf.String()))
	}
	return strings.TrimSpace(outBuf.String()), nil
}

// CurrentRef returns the checked-out branch name, or the short commit SHA
// when HEAD is detached.
func (c *Client) CurrentRef(ctx context.Context, dir string) (string, error) {
	if ref, err := c.output(ctx, dir, "symbolic-ref", "--short", "-q", "HEAD"); err == nil && ref != "" {
		return ref, nil
	}
	sha, err := c.output(ctx, dir, "rev-parse", "--short", "HEAD")
	if err != nil {
		return "", fmt.Errorf("failed to resolve current ref: %w", err)
	}
	return sha, nil
}

// CurrentCommitSHA returns the full SHA of HEAD.
func (c *Client) CurrentCommitSHA(ctx context.Context, dir string) (string, error) {
	return c.output(ctx, dir, "rev-parse", "HEAD")
}

// Checkout switches the working tree to an existing branch or ref.
func (c *Client) Checkout(ctx context.Context, dir, branch string) error {
	ctx, cancel := context.WithTimeout(ctx, checkoutTimeout)
	defer cancel()

	var errBuf bytes.Buffer
	// A name starting with "-" must never be parsed as an option.
	cmd := exec.CommandContext(ctx, "git", "checkout", "--end-of-options", branch)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")
	stderr := io.Writer(&errBuf)
	if c.Output != nil {
		cmd.Stdout = c.Output
		stderr = io.MultiWriter(&errBuf, c.Output)
	}
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("git checkout %s failed: %w\nStderr: %s", branch, err, strings.TrimSpace(errBuf.String()))
	}
	return nil
}

// IsClean reports whether tracked files have no staged or unstaged changes.
// Untracked files are ignored since checkout carries them across branches.
func (c *Client) IsClean(ctx context.Context, dir string) (bool, error) {
	out, err := c.output(ctx, dir, "status", "--porcelain", "--untracked-files=no")
	if err != nil {
		return false, err
	}
	return out == "", nil
}

// TopLevel returns the root directory of the repository containing dir.
func (c *Client) TopLevel(ctx context.Context, dir string) (string, error) {
	return c.output(ctx, dir, "rev-parse", "--show-toplevel")
}
