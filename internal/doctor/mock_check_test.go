package doctor

import "github.com/stretchr/testify/mock"

// MockCheck is a mock of Check.
type MockCheck struct {
	mock.Mock
}

// MockCheck_Expecter records typed expectations on a MockCheck.
type MockCheck_Expecter struct {
	mock *mock.Mock
}

func (_m *MockCheck) EXPECT() *MockCheck_Expecter {
	return &MockCheck_Expecter{mock: &_m.Mock}
}

// Name provides a mock function with no fields.
func (_m *MockCheck) Name() string {
	ret := _m.Called()

	if len(ret) == 0 {
		panic("no return value specified for Name")
	}

	if rf, ok := ret.Get(0).(func() string); ok {
		return rf()
	}
	return ret.String(0)
}

// Category provides a mock function with no fields.
func (_m *MockCheck) Category() string {
	ret := _m.Called()

	if len(ret) == 0 {
		panic("no return value specified for Category")
	}

	if rf, ok := ret.Get(0).(func() string); ok {
		return rf()
	}
	return ret.String(0)
}

// Run provides a mock function with no fields.
func (_m *MockCheck) Run() *CheckResult {
	ret := _m.Called()

	if len(ret) == 0 {
		panic("no return value specified for Run")
	}

	var r0 *CheckResult
	if rf, ok := ret.Get(0).(func() *CheckResult); ok {
		r0 = rf()
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(*CheckResult)
	}
	return r0
}

// MockCheck_String_Call wraps an expectation on a string-returning method.
type MockCheck_String_Call struct {
	*mock.Call
}

func (_e *MockCheck_Expecter) Name() *MockCheck_String_Call {
	return &MockCheck_String_Call{Call: _e.mock.On("Name")}
}

func (_e *MockCheck_Expecter) Category() *MockCheck_String_Call {
	return &MockCheck_String_Call{Call: _e.mock.On("Category")}
}

func (_c *MockCheck_String_Call) Return(_a0 string) *MockCheck_String_Call {
	_c.Call.Return(_a0)
	return _c
}

func (_c *MockCheck_String_Call) Maybe() *MockCheck_String_Call {
	_c.Call.Maybe()
	return _c
}

// MockCheck_Run_Call wraps a Run expectation.
type MockCheck_Run_Call struct {
	*mock.Call
}

func (_e *MockCheck_Expecter) Run() *MockCheck_Run_Call {
	return &MockCheck_Run_Call{Call: _e.mock.On("Run")}
}

func (_c *MockCheck_Run_Call) Return(_a0 *CheckResult) *MockCheck_Run_Call {
	_c.Call.Return(_a0)
	return _c
}

func (_c *MockCheck_Run_Call) RunAndReturn(run func() *CheckResult) *MockCheck_Run_Call {
	_c.Call.Return(run)
	return _c
}

// NewMockCheck creates a MockCheck and asserts its expectations when the
// test finishes.
func NewMockCheck(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockCheck {
	m := &MockCheck{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
