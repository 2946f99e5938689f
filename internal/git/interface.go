package git

import "context"

// IClient is the subset of git the comparison workflow needs.
type IClient interface {
	CurrentRef(ctx context.Context, directory string) (string, error)
	CurrentCommitSHA(ctx context.Context, directory string) (string, error)
	Checkout(ctx context.Context, directory, branch string) error
	IsClean(ctx context.Context, directory string) (bool, error)
	TopLevel(ctx context.Context, directory string) (string, error)
}
