package main

import (
	"path/filepath"
	"testing"
	"time"

	"branchbench/internal/benchmark"
	"branchbench/internal/config"
	"branchbench/internal/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryCmd_NotConfigured(t *testing.T) {
	_, _, restore := withFakes(t.TempDir(), "feature", nil, nil)
	defer restore()

	_, err := executeCommand(rootCmd, "history", "sort")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "history is not configured")
}

func TestHistoryCmd(t *testing.T) {
	dir := t.TempDir()
	_, _, restore := withFakes(dir, "feature", nil, nil)
	defer restore()

	path := filepath.Join(dir, "history.db")
	store, err := db.NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, store.SaveRun(db.Run{
		ID:        "run-1",
		StartedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Branches: []db.BranchResult{{
			Branch:  "main",
			Commit:  "0123456789abcdef",
			Results: benchmark.ResultSet{{Benchmark: "sort", Metrics: map[string]float64{"time": 12.5}}},
		}},
	}))
	require.NoError(t, store.Close())

	newHistoryFunc = func(s config.Settings, dir string) (db.Store, error) {
		return db.NewSQLiteStore(path)
	}
	t.Setenv("BRANCHBENCH_HISTORY_TYPE", "sqlite")

	output, err := executeCommand(rootCmd, "history", "sort")
	require.NoError(t, err)
	assert.Contains(t, output, "RECORDED")
	assert.Contains(t, output, "main")
	assert.Contains(t, output, "01234567")
	assert.Contains(t, output, "12.50ms")
}
