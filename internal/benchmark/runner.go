package benchmark

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"time"

	"github.com/kballard/go-shellquote"
)

// drainTimeout bounds how long Run waits on pipes after the child has exited.
const drainTimeout = 2 * time.Second

// Runner defines the interface for running the benchmark suite once.
type Runner interface {
	Run(ctx context.Context) (ResultSet, error)
}

// ProcessRunner starts a fresh child process per run and waits for the
// single completion message it writes to the result descriptor.
type ProcessRunner struct {
	Command []string
	Dir     string
	Stdout  io.Writer
	Stderr  io.Writer
	// Timeout bounds one run. Zero waits indefinitely.
	Timeout time.Duration
}

// NewProcessRunner splits a shell-style command line into a ProcessRunner.
func NewProcessRunner(command string) (*ProcessRunner, error) {
	args, err := shellquote.Split(command)
	if err != nil {
		return nil, fmt.Errorf("invalid runner command %q: %w", command, err)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("runner command is empty")
	}
	return &ProcessRunner{
		Command: args,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}, nil
}

func (r *ProcessRunner) Run(ctx context.Context) (ResultSet, error) {
	if len(r.Command) == 0 {
		return nil, fmt.Errorf("runner command is empty")
	}
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	pr, pw, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create result pipe: %w", err)
	}
	defer pr.Close()

	cmd := exec.CommandContext(ctx, r.Command[0], r.Command[1:]...)
	cmd.Dir = r.Dir
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	cmd.ExtraFiles = []*os.File{pw}
	cmd.WaitDelay = drainTimeout
	cmd.Env = append(os.Environ(), ResultFDEnv+"="+strconv.Itoa(resultFD))

	if err := cmd.Start(); err != nil {
		pw.Close()
		return nil, fmt.Errorf("failed to start %s: %w", r.Command[0], err)
	}
	// Only the child holds the write end now, so the reader sees EOF on exit.
	pw.Close()

	type outcome struct {
		results ResultSet
		err     error
	}
	done := make(chan outcome, 1)
	go func() {
		rs, err := ReadMessage(pr)
		done <- outcome{rs, err}
		// Drain anything after the first message so the child never blocks.
		_, _ = io.Copy(io.Discard, pr)
	}()

	waitErr := cmd.Wait()
	if errors.Is(waitErr, exec.ErrWaitDelay) {
		// exited cleanly; a leftover descendant still holds stdout or stderr
		waitErr = nil
	}
	// Whatever the child wrote is buffered by now. Descendants that inherited
	// the result pipe must not hold Run open.
	_ = pr.SetReadDeadline(time.Now().Add(drainTimeout))
	msg := <-done

	var childErr *ChildError
	if errors.As(msg.err, &childErr) {
		return nil, childErr
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, fmt.Errorf("benchmark process interrupted: %w", ctxErr)
	}
	if waitErr != nil {
		return nil, fmt.Errorf("benchmark process %s failed: %w", r.Command[0], waitErr)
	}
	if msg.err != nil {
		return nil, msg.err
	}
	return msg.results, nil
}
