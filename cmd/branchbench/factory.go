package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"branchbench/internal/benchmark"
	"branchbench/internal/config"
	"branchbench/internal/db"
	"branchbench/internal/git"
	"branchbench/internal/notify"
	"branchbench/internal/telemetry"
)

// Factories are variables so tests can swap in fakes.
var (
	newGitClientFunc = func() git.IClient { return git.NewClient() }

	newRunnerFunc = func(s config.Settings, dir string, stdout, stderr io.Writer) (benchmark.Runner, error) {
		var r *benchmark.ProcessRunner
		if s.RunnerCommand == "" {
			exe, err := os.Executable()
			if err != nil {
				return nil, err
			}
			r = &benchmark.ProcessRunner{Command: []string{exe, goSuiteCmd.Name()}}
		} else {
			var err error
			if r, err = benchmark.NewProcessRunner(s.RunnerCommand); err != nil {
				return nil, err
			}
		}
		r.Dir = dir
		r.Stdout = stdout
		r.Stderr = stderr
		r.Timeout = s.RunnerTimeout
		return r, nil
	}

	newHistoryFunc = func(s config.Settings, dir string) (db.Store, error) {
		if s.HistoryType == "" {
			return nil, nil
		}
		dsn := s.HistoryDSN
		if strings.HasPrefix(strings.ToLower(s.HistoryType), "sqlite") {
			if dsn == "" {
				dsn = db.DefaultSQLitePath
			}
			dsn = resolvePath(dir, dsn)
		}
		return db.NewStore(db.StoreConfig{Type: s.HistoryType, ConnectionString: dsn})
	}

	newNotifierFunc = func() notify.Notifier {
		return notify.NewManager(telemetry.LogInfof)
	}
)

// resolvePath anchors a relative path at the repository root.
func resolvePath(dir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}
