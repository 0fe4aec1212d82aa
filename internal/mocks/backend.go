package mocks

import (
	"context"

	"github.com/brettbedarf/memfs"
	"github.com/stretchr/testify/mock"
)

// MockBackend implements memfs.Backend for testing across packages
type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) Load(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)

	// Handle function return types (for complex tests)
	if fn, ok := args.Get(0).(func(context.Context, string) []byte); ok {
		return fn(ctx, key), args.Error(1)
	}

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockBackend) Store(ctx context.Context, key string, data []byte) error {
	args := m.Called(ctx, key, data)
	return args.Error(0)
}

func (m *MockBackend) Close() error {
	args := m.Called()
	return args.Error(0)
}

var _ memfs.Backend = (*MockBackend)(nil)
