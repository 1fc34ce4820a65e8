package mocks

import (
	"context"

	"github.com/brettbedarf/dirindex"
	"github.com/stretchr/testify/mock"
)

// MockPlugin implements dirindex.Plugin for testing across packages
type MockPlugin struct {
	mock.Mock
}

func (m *MockPlugin) Name() string {
	return m.Called().String(0)
}

func (m *MockPlugin) ServerStart(cfg dirindex.HostConfig) error {
	return m.Called(cfg).Error(0)
}

func (m *MockPlugin) Serve(ctx context.Context, rc *dirindex.RequestContext) (*dirindex.Response, error) {
	args := m.Called(ctx, rc)

	// Handle function return types (for tests inspecting the request context)
	if fn, ok := args.Get(0).(func(context.Context, *dirindex.RequestContext) *dirindex.Response); ok {
		return fn(ctx, rc), args.Error(1)
	}

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dirindex.Response), args.Error(1)
}

var _ dirindex.Plugin = (*MockPlugin)(nil)
