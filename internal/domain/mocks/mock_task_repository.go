package mocks

import (
	"context"
	"reflect"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/sendcycle/sendcycle/internal/domain"
)

// MockTaskRepository is a mock of TaskRepository interface
type MockTaskRepository struct {
	ctrl     *gomock.Controller
	recorder *MockTaskRepositoryMockRecorder
}

// MockTaskRepositoryMockRecorder is the mock recorder for MockTaskRepository
type MockTaskRepositoryMockRecorder struct {
	mock *MockTaskRepository
}

// NewMockTaskRepository creates a new mock instance
func NewMockTaskRepository(ctrl *gomock.Controller) *MockTaskRepository {
	mock := &MockTaskRepository{ctrl: ctrl}
	mock.recorder = &MockTaskRepositoryMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use
func (m *MockTaskRepository) EXPECT() *MockTaskRepositoryMockRecorder {
	return m.recorder
}

// Enqueue mocks base method
func (m *MockTaskRepository) Enqueue(ctx context.Context, task *domain.DispatchTask) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Enqueue", ctx, task)
	ret0, _ := ret[0].(error)
	return ret0
}

// Enqueue indicates an expected call of Enqueue
func (mr *MockTaskRepositoryMockRecorder) Enqueue(ctx, task interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Enqueue", reflect.TypeOf((*MockTaskRepository)(nil).Enqueue), ctx, task)
}

// ClaimDue mocks base method
func (m *MockTaskRepository) ClaimDue(ctx context.Context, now time.Time, limit int) ([]*domain.DispatchTask, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ClaimDue", ctx, now, limit)
	ret0, _ := ret[0].([]*domain.DispatchTask)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ClaimDue indicates an expected call of ClaimDue
func (mr *MockTaskRepositoryMockRecorder) ClaimDue(ctx, now, limit interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ClaimDue", reflect.TypeOf((*MockTaskRepository)(nil).ClaimDue), ctx, now, limit)
}

// MarkCompleted mocks base method
func (m *MockTaskRepository) MarkCompleted(ctx context.Context, id string) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "MarkCompleted", ctx, id)
	ret0, _ := ret[0].(error)
	return ret0
}

// MarkCompleted indicates an expected call of MarkCompleted
func (mr *MockTaskRepositoryMockRecorder) MarkCompleted(ctx, id interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "MarkCompleted", reflect.TypeOf((*MockTaskRepository)(nil).MarkCompleted), ctx, id)
}

// MarkFailed mocks base method
func (m *MockTaskRepository) MarkFailed(ctx context.Context, id, errMsg string, nextRetryAt *time.Time) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "MarkFailed", ctx, id, errMsg, nextRetryAt)
	ret0, _ := ret[0].(error)
	return ret0
}

// MarkFailed indicates an expected call of MarkFailed
func (mr *MockTaskRepositoryMockRecorder) MarkFailed(ctx, id, errMsg, nextRetryAt interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "MarkFailed", reflect.TypeOf((*MockTaskRepository)(nil).MarkFailed), ctx, id, errMsg, nextRetryAt)
}

// Defer mocks base method
func (m *MockTaskRepository) Defer(ctx context.Context, id string, until time.Time) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Defer", ctx, id, until)
	ret0, _ := ret[0].(error)
	return ret0
}

// Defer indicates an expected call of Defer
func (mr *MockTaskRepositoryMockRecorder) Defer(ctx, id, until interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Defer", reflect.TypeOf((*MockTaskRepository)(nil).Defer), ctx, id, until)
}
