package orchestrator

import (
	"errors"
	"strings"
)

// ErrDirtyWorktree is returned when require_clean is set and tracked files are modified.
var ErrDirtyWorktree = errors.New("working tree has uncommitted changes")

// Locker guards the repository against concurrent comparisons.
type Locker interface {
	Acquire() error
	Release() error
}

// ResolveBranches turns command-line arguments into the ordered list of
// branches to compare. Arguments starting with "--" are ignored. With no
// branch the current ref is used; a single branch is compared against reference.
func ResolveBranches(args []string, current func() (string, error), reference string) ([]string, error) {
	var branches []string
	for _, arg := range args {
		if strings.HasPrefix(arg, "--") || strings.TrimSpace(arg) == "" {
			continue
		}
		branches = append(branches, arg)
	}

	if len(branches) == 0 {
		ref, err := current()
		if err != nil {
			return nil, err
		}
		branches = append(branches, ref)
	}

	if len(branches) == 1 {
		branches = append(branches, reference)
	}

	return branches, nil
}
