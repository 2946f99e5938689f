package git

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runGit(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %v: %s", args, out)
	return string(out)
}

// setupTestRepo creates a repository with a commit on main and a feature branch.
func setupTestRepo(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	dir := t.TempDir()
	runGit(t, dir, "init", "-q")
	runGit(t, dir, "symbolic-ref", "HEAD", "refs/heads/main")
	runGit(t, dir, "config", "user.email", "test@example.com")
	runGit(t, dir, "config", "user.name", "Test User")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "sort.txt"), []byte("bubble"), 0644))
	runGit(t, dir, "add", ".")
	runGit(t, dir, "commit", "-q", "-m", "initial")
	runGit(t, dir, "branch", "feature")
	return dir
}

func TestClient_CheckoutAndCurrentRef(t *testing.T) {
	dir := setupTestRepo(t)
	c := &Client{}
	ctx := context.Background()

	ref, err := c.CurrentRef(ctx, dir)
	require.NoError(t, err)
	assert.Equal(t, "main", ref)

	require.NoError(t, c.Checkout(ctx, dir, "feature"))
	ref, err = c.CurrentRef(ctx, dir)
	require.NoError(t, err)
	assert.Equal(t, "feature", ref)

	err = c.Checkout(ctx, dir, "does-not-exist")
	assert.ErrorContains(t, err, "git checkout does-not-exist failed")
}

func TestClient_DetachedHead(t *testing.T) {
	dir := setupTestRepo(t)
	c := &Client{}
	ctx := context.Background()

	sha, err := c.CurrentCommitSHA(ctx, dir)
	require.NoError(t, err)
	require.NoError(t, c.Checkout(ctx, dir, sha))

	ref, err := c.CurrentRef(ctx, dir)
	require.NoError(t, err)
	assert.True(t, len(ref) >= 4 && len(ref) < len(sha))
	assert.Equal(t, sha[:len(ref)], ref)
}

func TestClient_IsClean(t *testing.T) {
	dir := setupTestRepo(t)
	c := &Client{}
	ctx := context.Background()

	clean, err := c.IsClean(ctx, dir)
	require.NoError(t, err)
	assert.True(t, clean)

	// Untracked files do not count.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	clean, err = c.IsClean(ctx, dir)
	require.NoError(t, err)
	assert.True(t, clean)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "sort.txt"), []byte("quick"), 0644))
	clean, err = c.IsClean(ctx, dir)
	require.NoError(t, err)
	assert.False(t, clean)
}

func TestClient_TopLevel(t *testing.T) {
	dir := setupTestRepo(t)
	sub := filepath.Join(dir, "pkg")
	require.NoError(t, os.Mkdir(sub, 0755))

	top, err := (&Client{}).TopLevel(context.Background(), sub)
	require.NoError(t, err)

	want, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	got, err := filepath.EvalSymlinks(top)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestClient_CheckoutDashNameIsNotAnOption(t *testing.T) {
	dir := setupTestRepo(t)
	c := &Client{}
	ctx := context.Background()

	path := filepath.Join(dir, "sort.txt")
	require.NoError(t, os.WriteFile(path, []byte("uncommitted work"), 0644))

	err := c.Checkout(ctx, dir, "-f")
	assert.ErrorContains(t, err, "git checkout -f failed")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "uncommitted work", string(data))

	ref, err := c.CurrentRef(ctx, dir)
	require.NoError(t, err)
	assert.Equal(t, "main", ref)
}
