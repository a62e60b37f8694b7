// Package mocks provides testify mocks for the adapter interfaces.
package mocks

import (
	"context"
	"os"

	"github.com/stretchr/testify/mock"

	m "github.com/mouse-blink/prettymap/internal/model"
)

// MockFormatter is a mock of adapter.Formatter.
type MockFormatter struct {
	mock.Mock
}

// NewMockFormatter creates a MockFormatter that asserts its expectations on cleanup.
func NewMockFormatter(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockFormatter {
	mockFormatter := &MockFormatter{}
	mockFormatter.Mock.Test(t)

	t.Cleanup(func() { mockFormatter.AssertExpectations(t) })

	return mockFormatter
}

// Format provides a mock function.
func (_m *MockFormatter) Format(ctx context.Context, source string, options m.FormatOptions) (string, error) {
	ret := _m.Called(ctx, source, options)

	return ret.String(0), ret.Error(1)
}

// MockDiffer is a mock of adapter.Differ.
type MockDiffer struct {
	mock.Mock
}

// NewMockDiffer creates a MockDiffer that asserts its expectations on cleanup.
func NewMockDiffer(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockDiffer {
	mockDiffer := &MockDiffer{}
	mockDiffer.Mock.Test(t)

	t.Cleanup(func() { mockDiffer.AssertExpectations(t) })

	return mockDiffer
}

// Diff provides a mock function.
func (_m *MockDiffer) Diff(a, b string) m.EditScript {
	ret := _m.Called(a, b)

	script, _ := ret.Get(0).(m.EditScript)

	return script
}

// MockConfigResolver is a mock of adapter.ConfigResolver.
type MockConfigResolver struct {
	mock.Mock
}

// NewMockConfigResolver creates a MockConfigResolver that asserts its expectations on cleanup.
func NewMockConfigResolver(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockConfigResolver {
	mockResolver := &MockConfigResolver{}
	mockResolver.Mock.Test(t)

	t.Cleanup(func() { mockResolver.AssertExpectations(t) })

	return mockResolver
}

// ResolveConfig provides a mock function.
func (_m *MockConfigResolver) ResolveConfig(ctx context.Context, cwd m.Path) (m.FormatOptions, error) {
	ret := _m.Called(ctx, cwd)

	options, _ := ret.Get(0).(m.FormatOptions)

	return options, ret.Error(1)
}

// MockSourceFSAdapter is a mock of adapter.SourceFSAdapter.
type MockSourceFSAdapter struct {
	mock.Mock
}

// NewMockSourceFSAdapter creates a MockSourceFSAdapter that asserts its expectations on cleanup.
func NewMockSourceFSAdapter(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockSourceFSAdapter {
	mockFS := &MockSourceFSAdapter{}
	mockFS.Mock.Test(t)

	t.Cleanup(func() { mockFS.AssertExpectations(t) })

	return mockFS
}

// ReadFile provides a mock function.
func (_m *MockSourceFSAdapter) ReadFile(ctx context.Context, path m.Path) ([]byte, error) {
	ret := _m.Called(ctx, path)

	content, _ := ret.Get(0).([]byte)

	return content, ret.Error(1)
}

// WriteFile provides a mock function.
func (_m *MockSourceFSAdapter) WriteFile(ctx context.Context, path m.Path, content []byte, perm os.FileMode) error {
	ret := _m.Called(ctx, path, content, perm)

	return ret.Error(0)
}

// FileInfo provides a mock function.
func (_m *MockSourceFSAdapter) FileInfo(ctx context.Context, path m.Path) (os.FileInfo, error) {
	ret := _m.Called(ctx, path)

	info, _ := ret.Get(0).(os.FileInfo)

	return info, ret.Error(1)
}

// AbsPath provides a mock function.
func (_m *MockSourceFSAdapter) AbsPath(ctx context.Context, path m.Path) (m.Path, error) {
	ret := _m.Called(ctx, path)

	abs, _ := ret.Get(0).(m.Path)

	return abs, ret.Error(1)
}

// MkdirAll provides a mock function.
func (_m *MockSourceFSAdapter) MkdirAll(ctx context.Context, path m.Path) error {
	ret := _m.Called(ctx, path)

	return ret.Error(0)
}

// RelPath provides a mock function.
func (_m *MockSourceFSAdapter) RelPath(ctx context.Context, base, target m.Path) (m.Path, error) {
	ret := _m.Called(ctx, base, target)

	rel, _ := ret.Get(0).(m.Path)

	return rel, ret.Error(1)
}

// JoinPath provides a mock function.
func (_m *MockSourceFSAdapter) JoinPath(ctx context.Context, elem ...string) m.Path {
	args := []any{ctx}
	for _, e := range elem {
		args = append(args, e)
	}

	ret := _m.Called(args...)

	joined, _ := ret.Get(0).(m.Path)

	return joined
}
