// Package mocks provides testify mocks for the controller interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/mouse-blink/prettymap/internal/controller"
	m "github.com/mouse-blink/prettymap/internal/model"
	"github.com/mouse-blink/prettymap/internal/sourcemap"
)

// MockUI is a mock of controller.UI.
type MockUI struct {
	mock.Mock
}

// NewMockUI creates a MockUI that asserts its expectations on cleanup.
func NewMockUI(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockUI {
	mockUI := &MockUI{}
	mockUI.Mock.Test(t)

	t.Cleanup(func() { mockUI.AssertExpectations(t) })

	return mockUI
}

// Start provides a mock function.
func (_m *MockUI) Start(ctx context.Context, options ...controller.StartOption) error {
	ret := _m.Called(ctx, options)

	return ret.Error(0)
}

// FileStarted provides a mock function.
func (_m *MockUI) FileStarted(ctx context.Context, path m.Path) {
	_m.Called(ctx, path)
}

// FileFinished provides a mock function.
func (_m *MockUI) FileFinished(ctx context.Context, report m.FileReport) {
	_m.Called(ctx, report)
}

// Close provides a mock function.
func (_m *MockUI) Close(ctx context.Context) {
	_m.Called(ctx)
}

// Warn provides a mock function.
func (_m *MockUI) Warn(line string) {
	_m.Called(line)
}

// DisplayReports provides a mock function.
func (_m *MockUI) DisplayReports(ctx context.Context, reports []m.FileReport) error {
	ret := _m.Called(ctx, reports)

	return ret.Error(0)
}

// DisplayLocation provides a mock function.
func (_m *MockUI) DisplayLocation(ctx context.Context, location sourcemap.Location) error {
	ret := _m.Called(ctx, location)

	return ret.Error(0)
}
