package mocks

import (
	"context"
	"reflect"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/sendcycle/sendcycle/internal/domain"
)

// MockSendAttemptRepository is a mock of SendAttemptRepository interface
type MockSendAttemptRepository struct {
	ctrl     *gomock.Controller
	recorder *MockSendAttemptRepositoryMockRecorder
}

// MockSendAttemptRepositoryMockRecorder is the mock recorder for MockSendAttemptRepository
type MockSendAttemptRepositoryMockRecorder struct {
	mock *MockSendAttemptRepository
}

// NewMockSendAttemptRepository creates a new mock instance
func NewMockSendAttemptRepository(ctrl *gomock.Controller) *MockSendAttemptRepository {
	mock := &MockSendAttemptRepository{ctrl: ctrl}
	mock.recorder = &MockSendAttemptRepositoryMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use
func (m *MockSendAttemptRepository) EXPECT() *MockSendAttemptRepositoryMockRecorder {
	return m.recorder
}

// Record mocks base method
func (m *MockSendAttemptRepository) Record(ctx context.Context, attempt *domain.SendAttempt) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Record", ctx, attempt)
	ret0, _ := ret[0].(error)
	return ret0
}

// Record indicates an expected call of Record
func (mr *MockSendAttemptRepositoryMockRecorder) Record(ctx, attempt interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Record", reflect.TypeOf((*MockSendAttemptRepository)(nil).Record), ctx, attempt)
}

// CountForTenantSince mocks base method
func (m *MockSendAttemptRepository) CountForTenantSince(ctx context.Context, tenantID string, since time.Time) (int, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CountForTenantSince", ctx, tenantID, since)
	ret0, _ := ret[0].(int)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// CountForTenantSince indicates an expected call of CountForTenantSince
func (mr *MockSendAttemptRepositoryMockRecorder) CountForTenantSince(ctx, tenantID, since interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CountForTenantSince", reflect.TypeOf((*MockSendAttemptRepository)(nil).CountForTenantSince), ctx, tenantID, since)
}
