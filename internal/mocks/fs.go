package mocks

import (
	"os"

	"github.com/brettbedarf/dirindex"
	"github.com/stretchr/testify/mock"
)

// MockFS implements dirindex.FS for testing across packages
type MockFS struct {
	mock.Mock
}

func (m *MockFS) Stat(name string) (os.FileInfo, error) {
	args := m.Called(name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(os.FileInfo), args.Error(1)
}

func (m *MockFS) ReadDir(path string) ([]os.FileInfo, error) {
	args := m.Called(path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]os.FileInfo), args.Error(1)
}

var _ dirindex.FS = (*MockFS)(nil)
