// Package mocks provides testify mocks for the platform package interfaces.
package mocks

import (
	"github.com/stretchr/testify/mock"

	"github.com/thoreinstein/folco/internal/icon"
)

// MockHandle is a mock of platform.Handle.
type MockHandle struct {
	mock.Mock
}

// MockHandle_Expecter records typed expectations on a MockHandle.
type MockHandle_Expecter struct {
	mock *mock.Mock
}

// EXPECT returns the typed expectation builder.
func (_m *MockHandle) EXPECT() *MockHandle_Expecter {
	return &MockHandle_Expecter{mock: &_m.Mock}
}

// FolderIconBase provides a mock function with no fields.
func (_m *MockHandle) FolderIconBase() *icon.Base {
	ret := _m.Called()

	if len(ret) == 0 {
		panic("no return value specified for FolderIconBase")
	}

	var r0 *icon.Base
	if rf, ok := ret.Get(0).(func() *icon.Base); ok {
		r0 = rf()
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(*icon.Base)
	}

	return r0
}

// MockHandle_FolderIconBase_Call wraps a FolderIconBase expectation.
type MockHandle_FolderIconBase_Call struct {
	*mock.Call
}

// FolderIconBase is a helper method to define mock.On call.
func (_e *MockHandle_Expecter) FolderIconBase() *MockHandle_FolderIconBase_Call {
	return &MockHandle_FolderIconBase_Call{Call: _e.mock.On("FolderIconBase")}
}

// Run sets a function to run when FolderIconBase is called.
func (_c *MockHandle_FolderIconBase_Call) Run(run func()) *MockHandle_FolderIconBase_Call {
	_c.Call.Run(func(mock.Arguments) {
		run()
	})
	return _c
}

// Return sets the value FolderIconBase returns.
func (_c *MockHandle_FolderIconBase_Call) Return(_a0 *icon.Base) *MockHandle_FolderIconBase_Call {
	_c.Call.Return(_a0)
	return _c
}

// RunAndReturn sets a function that computes the return value.
func (_c *MockHandle_FolderIconBase_Call) RunAndReturn(run func() *icon.Base) *MockHandle_FolderIconBase_Call {
	_c.Call.Return(run)
	return _c
}

// NewMockHandle creates a MockHandle and asserts its expectations when the
// test finishes.
func NewMockHandle(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockHandle {
	m := &MockHandle{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
