package main

import (
	"bytes"
	"context"
	"io"

	"branchbench/internal/benchmark"
	"branchbench/internal/config"
	"branchbench/internal/db"
	"branchbench/internal/git"
	"branchbench/internal/notify"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/mock"
)

// executeCommand runs root with args and returns everything it printed.
func executeCommand(root *cobra.Command, args ...string) (string, error) {
	resetFlags(root)
	if args == nil {
		args = []string{}
	}
	root.SetArgs(args)
	b := new(bytes.Buffer)
	root.SetOut(b)
	root.SetErr(b)
	root.SetIn(bytes.NewBufferString(""))
	err := root.Execute()
	return b.String(), err
}

// resetFlags resets all flags to their default values.
func resetFlags(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Changed {
			f.Value.Set(f.DefValue)
			f.Changed = false
		}
	})
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

type branchRunner struct {
	client  *fakeRepo
	results map[string]benchmark.ResultSet
	err     error
}

func (r *branchRunner) Run(ctx context.Context) (benchmark.ResultSet, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.results[r.client.current], nil
}

type fakeRepo struct {
	dir       string
	current   string
	checkouts []string
}

type recordingNotifier struct {
	events   []string
	messages []string
}

func (n *recordingNotifier) Notify(ctx context.Context, eventType, message string) error {
	n.events = append(n.events, eventType)
	n.messages = append(n.messages, message)
	return nil
}

// withFakes swaps the factories for fakes backed by a repository in dir
// whose current branch is current.
func withFakes(dir, current string, results map[string]benchmark.ResultSet, runErr error) (*fakeRepo, *recordingNotifier, func()) {
	oldGit, oldRunner, oldHistory, oldNotifier := newGitClientFunc, newRunnerFunc, newHistoryFunc, newNotifierFunc

	repo := &fakeRepo{dir: dir, current: current}
	client := &git.MockClient{}
	client.On("TopLevel", mock.Anything).Return(dir, nil).Maybe()
	client.On("CurrentRef", dir).Return(current, nil).Maybe()
	client.OnCheckout(func(directory, branch string) error {
		repo.checkouts = append(repo.checkouts, branch)
		repo.current = branch
		return nil
	})

	notifier := &recordingNotifier{}
	newGitClientFunc = func() git.IClient { return client }
	newRunnerFunc = func(s config.Settings, dir string, stdout, stderr io.Writer) (benchmark.Runner, error) {
		return &branchRunner{client: repo, results: results, err: runErr}, nil
	}
	newHistoryFunc = func(s config.Settings, dir string) (db.Store, error) { return nil, nil }
	newNotifierFunc = func() notify.Notifier { return notifier }

	return repo, notifier, func() {
		newGitClientFunc, newRunnerFunc, newHistoryFunc, newNotifierFunc = oldGit, oldRunner, oldHistory, oldNotifier
	}
}
