package mocks

import (
	"context"
	"reflect"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/sendcycle/sendcycle/internal/domain"
)

// MockRecipientRepository is a mock of RecipientRepository interface
type MockRecipientRepository struct {
	ctrl     *gomock.Controller
	recorder *MockRecipientRepositoryMockRecorder
}

// MockRecipientRepositoryMockRecorder is the mock recorder for MockRecipientRepository
type MockRecipientRepositoryMockRecorder struct {
	mock *MockRecipientRepository
}

// NewMockRecipientRepository creates a new mock instance
func NewMockRecipientRepository(ctrl *gomock.Controller) *MockRecipientRepository {
	mock := &MockRecipientRepository{ctrl: ctrl}
	mock.recorder = &MockRecipientRepositoryMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use
func (m *MockRecipientRepository) EXPECT() *MockRecipientRepositoryMockRecorder {
	return m.recorder
}

// ListDirect mocks base method
func (m *MockRecipientRepository) ListDirect(ctx context.Context, batchID string) ([]*domain.BatchRecipient, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListDirect", ctx, batchID)
	ret0, _ := ret[0].([]*domain.BatchRecipient)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ListDirect indicates an expected call of ListDirect
func (mr *MockRecipientRepositoryMockRecorder) ListDirect(ctx, batchID interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListDirect", reflect.TypeOf((*MockRecipientRepository)(nil).ListDirect), ctx, batchID)
}

// AddDirect mocks base method
func (m *MockRecipientRepository) AddDirect(ctx context.Context, recipient *domain.BatchRecipient) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "AddDirect", ctx, recipient)
	ret0, _ := ret[0].(error)
	return ret0
}

// AddDirect indicates an expected call of AddDirect
func (mr *MockRecipientRepositoryMockRecorder) AddDirect(ctx, recipient interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "AddDirect", reflect.TypeOf((*MockRecipientRepository)(nil).AddDirect), ctx, recipient)
}

// CountDirect mocks base method
func (m *MockRecipientRepository) CountDirect(ctx context.Context, batchID string) (int, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CountDirect", ctx, batchID)
	ret0, _ := ret[0].(int)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// CountDirect indicates an expected call of CountDirect
func (mr *MockRecipientRepositoryMockRecorder) CountDirect(ctx, batchID interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CountDirect", reflect.TypeOf((*MockRecipientRepository)(nil).CountDirect), ctx, batchID)
}

// ListGroupMembers mocks base method
func (m *MockRecipientRepository) ListGroupMembers(ctx context.Context, batchID string) ([]*domain.GroupMember, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListGroupMembers", ctx, batchID)
	ret0, _ := ret[0].([]*domain.GroupMember)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ListGroupMembers indicates an expected call of ListGroupMembers
func (mr *MockRecipientRepositoryMockRecorder) ListGroupMembers(ctx, batchID interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListGroupMembers", reflect.TypeOf((*MockRecipientRepository)(nil).ListGroupMembers), ctx, batchID)
}

// ListLegacyStatuses mocks base method
func (m *MockRecipientRepository) ListLegacyStatuses(ctx context.Context, batchID string) ([]*domain.LegacyRecipientStatus, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListLegacyStatuses", ctx, batchID)
	ret0, _ := ret[0].([]*domain.LegacyRecipientStatus)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ListLegacyStatuses indicates an expected call of ListLegacyStatuses
func (mr *MockRecipientRepositoryMockRecorder) ListLegacyStatuses(ctx, batchID interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListLegacyStatuses", reflect.TypeOf((*MockRecipientRepository)(nil).ListLegacyStatuses), ctx, batchID)
}

// CreateLegacyStatus mocks base method
func (m *MockRecipientRepository) CreateLegacyStatus(ctx context.Context, status *domain.LegacyRecipientStatus) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CreateLegacyStatus", ctx, status)
	ret0, _ := ret[0].(error)
	return ret0
}

// CreateLegacyStatus indicates an expected call of CreateLegacyStatus
func (mr *MockRecipientRepositoryMockRecorder) CreateLegacyStatus(ctx, status interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CreateLegacyStatus", reflect.TypeOf((*MockRecipientRepository)(nil).CreateLegacyStatus), ctx, status)
}

// UpdateCursor mocks base method
func (m *MockRecipientRepository) UpdateCursor(ctx context.Context, batchID, email string, source domain.RecipientSource, cursor domain.RecipientCursor) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "UpdateCursor", ctx, batchID, email, source, cursor)
	ret0, _ := ret[0].(error)
	return ret0
}

// UpdateCursor indicates an expected call of UpdateCursor
func (mr *MockRecipientRepositoryMockRecorder) UpdateCursor(ctx, batchID, email, source, cursor interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "UpdateCursor", reflect.TypeOf((*MockRecipientRepository)(nil).UpdateCursor), ctx, batchID, email, source, cursor)
}

// MarkCompleted mocks base method
func (m *MockRecipientRepository) MarkCompleted(ctx context.Context, batchID, email string, source domain.RecipientSource, at time.Time) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "MarkCompleted", ctx, batchID, email, source, at)
	ret0, _ := ret[0].(error)
	return ret0
}

// MarkCompleted indicates an expected call of MarkCompleted
func (mr *MockRecipientRepositoryMockRecorder) MarkCompleted(ctx, batchID, email, source, at interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "MarkCompleted", reflect.TypeOf((*MockRecipientRepository)(nil).MarkCompleted), ctx, batchID, email, source, at)
}

// CountIncomplete mocks base method
func (m *MockRecipientRepository) CountIncomplete(ctx context.Context, batchID string) (int, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CountIncomplete", ctx, batchID)
	ret0, _ := ret[0].(int)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// CountIncomplete indicates an expected call of CountIncomplete
func (mr *MockRecipientRepositoryMockRecorder) CountIncomplete(ctx, batchID interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CountIncomplete", reflect.TypeOf((*MockRecipientRepository)(nil).CountIncomplete), ctx, batchID)
}
