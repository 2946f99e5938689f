package git

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockClient is a mock of IClient for testing purposes.
type MockClient struct {
	mock.Mock
	checkoutFn func(directory, branch string) error
}

// OnCheckout installs fn in place of the recorded Checkout expectations.
func (m *MockClient) OnCheckout(fn func(directory, branch string) error) {
	m.checkoutFn = fn
}

func (m *MockClient) CurrentRef(ctx context.Context, directory string) (string, error) {
	args := m.Called(directory)
	return args.String(0), args.Error(1)
}

func (m *MockClient) CurrentCommitSHA(ctx context.Context, directory string) (string, error) {
	args := m.Called(directory)
	return args.String(0), args.Error(1)
}

func (m *MockClient) Checkout(ctx context.Context, directory, branch string) error {
	if m.checkoutFn != nil {
		return m.checkoutFn(directory, branch)
	}
	args := m.Called(directory, branch)
	return args.Error(0)
}

func (m *MockClient) IsClean(ctx context.Context, directory string) (bool, error) {
	args := m.Called(directory)
	return args.Bool(0), args.Error(1)
}

func (m *MockClient) TopLevel(ctx context.Context, directory string) (string, error) {
	args := m.Called(directory)
	return args.String(0), args.Error(1)
}
