package benchmark

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), ".results")
	store := NewFileStore(dir)

	// Stale files from a previous invocation must disappear.
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stale.json"), []byte("[]"), 0644))
	require.NoError(t, store.Reset())
	_, err := os.Stat(filepath.Join(dir, "stale.json"))
	assert.True(t, os.IsNotExist(err))

	results := ResultSet{
		{Benchmark: "sort", Metrics: map[string]float64{"time": 10, "gc_time": 0}},
	}
	require.NoError(t, store.Save("main", results))

	data, err := os.ReadFile(filepath.Join(dir, "main.json"))
	require.NoError(t, err)
	assert.Equal(t, "[\n  {\n    \"benchmark\": \"sort\",\n    \"gc_time\": 0,\n    \"time\": 10\n  }\n]\n", string(data))

	loaded, err := store.Load("main")
	require.NoError(t, err)
	assert.Equal(t, results, loaded)
}

func TestFileStore_NestedBranch(t *testing.T) {
	store := NewFileStore(t.TempDir())
	require.NoError(t, store.Save("feature/faster-sort", ResultSet{}))

	assert.FileExists(t, filepath.Join(store.Dir(), "feature", "faster-sort.json"))
	loaded, err := store.Load("feature/faster-sort")
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestFileStore_LoadErrors(t *testing.T) {
	store := NewFileStore(t.TempDir())

	_, err := store.Load("missing")
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(store.Path("broken"), []byte("{not json"), 0644))
	_, err = store.Load("broken")
	assert.ErrorContains(t, err, "failed to parse")

	_, err = LoadAll(store, []string{"missing"})
	assert.Error(t, err)
}
