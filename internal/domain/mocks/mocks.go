// Package mocks provides testify mocks for the domain interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/mouse-blink/prettymap/internal/domain"
	m "github.com/mouse-blink/prettymap/internal/model"
)

// MockWorkflow is a mock of domain.Workflow.
type MockWorkflow struct {
	mock.Mock
}

// NewMockWorkflow creates a MockWorkflow that asserts its expectations on cleanup.
func NewMockWorkflow(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockWorkflow {
	mockWorkflow := &MockWorkflow{}
	mockWorkflow.Mock.Test(t)

	t.Cleanup(func() { mockWorkflow.AssertExpectations(t) })

	return mockWorkflow
}

// Format provides a mock function.
func (_m *MockWorkflow) Format(ctx context.Context, args domain.FormatArgs) error {
	ret := _m.Called(ctx, args)

	return ret.Error(0)
}

// Lookup provides a mock function.
func (_m *MockWorkflow) Lookup(ctx context.Context, args domain.LookupArgs) error {
	ret := _m.Called(ctx, args)

	return ret.Error(0)
}

// MockPlugin is a mock of domain.Plugin.
type MockPlugin struct {
	mock.Mock
}

// NewMockPlugin creates a MockPlugin that asserts its expectations on cleanup.
func NewMockPlugin(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockPlugin {
	mockPlugin := &MockPlugin{}
	mockPlugin.Mock.Test(t)

	t.Cleanup(func() { mockPlugin.AssertExpectations(t) })

	return mockPlugin
}

// Name provides a mock function.
func (_m *MockPlugin) Name() string {
	ret := _m.Called()

	return ret.String(0)
}

// Sourcemap provides a mock function.
func (_m *MockPlugin) Sourcemap() m.SourcemapSetting {
	ret := _m.Called()

	setting, _ := ret.Get(0).(m.SourcemapSetting)

	return setting
}

// EnableSourcemap provides a mock function.
func (_m *MockPlugin) EnableSourcemap() {
	_m.Called()
}

// Reformat provides a mock function.
func (_m *MockPlugin) Reformat(ctx context.Context, source string, perCall m.SourcemapSetting) (m.Result, error) {
	ret := _m.Called(ctx, source, perCall)

	result, _ := ret.Get(0).(m.Result)

	return result, ret.Error(1)
}

// ReformatAsync provides a mock function.
func (_m *MockPlugin) ReformatAsync(ctx context.Context, source string, perCall m.SourcemapSetting) (<-chan m.Result, <-chan error) {
	ret := _m.Called(ctx, source, perCall)

	resultCh, _ := ret.Get(0).(<-chan m.Result)
	errCh, _ := ret.Get(1).(<-chan error)

	return resultCh, errCh
}
