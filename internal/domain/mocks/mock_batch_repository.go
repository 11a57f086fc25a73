package mocks

import (
	"context"
	"reflect"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/sendcycle/sendcycle/internal/domain"
)

// MockBatchRepository is a mock of BatchRepository interface
type MockBatchRepository struct {
	ctrl     *gomock.Controller
	recorder *MockBatchRepositoryMockRecorder
}

// MockBatchRepositoryMockRecorder is the mock recorder for MockBatchRepository
type MockBatchRepositoryMockRecorder struct {
	mock *MockBatchRepository
}

// NewMockBatchRepository creates a new mock instance
func NewMockBatchRepository(ctrl *gomock.Controller) *MockBatchRepository {
	mock := &MockBatchRepository{ctrl: ctrl}
	mock.recorder = &MockBatchRepositoryMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use
func (m *MockBatchRepository) EXPECT() *MockBatchRepositoryMockRecorder {
	return m.recorder
}

// Create mocks base method
func (m *MockBatchRepository) Create(ctx context.Context, batch *domain.Batch) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Create", ctx, batch)
	ret0, _ := ret[0].(error)
	return ret0
}

// Create indicates an expected call of Create
func (mr *MockBatchRepositoryMockRecorder) Create(ctx, batch interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Create", reflect.TypeOf((*MockBatchRepository)(nil).Create), ctx, batch)
}

// Get mocks base method
func (m *MockBatchRepository) Get(ctx context.Context, id string) (*domain.Batch, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Get", ctx, id)
	ret0, _ := ret[0].(*domain.Batch)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Get indicates an expected call of Get
func (mr *MockBatchRepositoryMockRecorder) Get(ctx, id interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Get", reflect.TypeOf((*MockBatchRepository)(nil).Get), ctx, id)
}

// Update mocks base method
func (m *MockBatchRepository) Update(ctx context.Context, batch *domain.Batch) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Update", ctx, batch)
	ret0, _ := ret[0].(error)
	return ret0
}

// Update indicates an expected call of Update
func (mr *MockBatchRepositoryMockRecorder) Update(ctx, batch interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Update", reflect.TypeOf((*MockBatchRepository)(nil).Update), ctx, batch)
}

// Transition mocks base method
func (m *MockBatchRepository) Transition(ctx context.Context, id string, from, to domain.BatchStatus) (bool, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Transition", ctx, id, from, to)
	ret0, _ := ret[0].(bool)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Transition indicates an expected call of Transition
func (mr *MockBatchRepositoryMockRecorder) Transition(ctx, id, from, to interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Transition", reflect.TypeOf((*MockBatchRepository)(nil).Transition), ctx, id, from, to)
}

// UpdateCounters mocks base method
func (m *MockBatchRepository) UpdateCounters(ctx context.Context, id string, sentDelta, failedDelta, subCycleDelta int, newStatus *domain.BatchStatus) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "UpdateCounters", ctx, id, sentDelta, failedDelta, subCycleDelta, newStatus)
	ret0, _ := ret[0].(error)
	return ret0
}

// UpdateCounters indicates an expected call of UpdateCounters
func (mr *MockBatchRepositoryMockRecorder) UpdateCounters(ctx, id, sentDelta, failedDelta, subCycleDelta, newStatus interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "UpdateCounters", reflect.TypeOf((*MockBatchRepository)(nil).UpdateCounters), ctx, id, sentDelta, failedDelta, subCycleDelta, newStatus)
}

// SetNextSubCycleTime mocks base method
func (m *MockBatchRepository) SetNextSubCycleTime(ctx context.Context, id string, next *time.Time) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "SetNextSubCycleTime", ctx, id, next)
	ret0, _ := ret[0].(error)
	return ret0
}

// SetNextSubCycleTime indicates an expected call of SetNextSubCycleTime
func (mr *MockBatchRepositoryMockRecorder) SetNextSubCycleTime(ctx, id, next interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SetNextSubCycleTime", reflect.TypeOf((*MockBatchRepository)(nil).SetNextSubCycleTime), ctx, id, next)
}

// ResetCounters mocks base method
func (m *MockBatchRepository) ResetCounters(ctx context.Context, id string) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ResetCounters", ctx, id)
	ret0, _ := ret[0].(error)
	return ret0
}

// ResetCounters indicates an expected call of ResetCounters
func (mr *MockBatchRepositoryMockRecorder) ResetCounters(ctx, id interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ResetCounters", reflect.TypeOf((*MockBatchRepository)(nil).ResetCounters), ctx, id)
}

// ListDue mocks base method
func (m *MockBatchRepository) ListDue(ctx context.Context, now time.Time, limit int) ([]*domain.Batch, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListDue", ctx, now, limit)
	ret0, _ := ret[0].([]*domain.Batch)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ListDue indicates an expected call of ListDue
func (mr *MockBatchRepositoryMockRecorder) ListDue(ctx, now, limit interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListDue", reflect.TypeOf((*MockBatchRepository)(nil).ListDue), ctx, now, limit)
}
