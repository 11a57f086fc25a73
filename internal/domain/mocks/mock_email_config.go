package mocks

import (
	"context"
	"reflect"

	"github.com/golang/mock/gomock"
	"github.com/sendcycle/sendcycle/internal/domain"
)

// MockEmailConfigStore is a mock of EmailConfigStore interface
type MockEmailConfigStore struct {
	ctrl     *gomock.Controller
	recorder *MockEmailConfigStoreMockRecorder
}

// MockEmailConfigStoreMockRecorder is the mock recorder for MockEmailConfigStore
type MockEmailConfigStoreMockRecorder struct {
	mock *MockEmailConfigStore
}

// NewMockEmailConfigStore creates a new mock instance
func NewMockEmailConfigStore(ctrl *gomock.Controller) *MockEmailConfigStore {
	mock := &MockEmailConfigStore{ctrl: ctrl}
	mock.recorder = &MockEmailConfigStoreMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use
func (m *MockEmailConfigStore) EXPECT() *MockEmailConfigStoreMockRecorder {
	return m.recorder
}

// GetActive mocks base method
func (m *MockEmailConfigStore) GetActive(ctx context.Context, tenantID, configID string) (*domain.EmailConfiguration, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetActive", ctx, tenantID, configID)
	ret0, _ := ret[0].(*domain.EmailConfiguration)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetActive indicates an expected call of GetActive
func (mr *MockEmailConfigStoreMockRecorder) GetActive(ctx, tenantID, configID interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetActive", reflect.TypeOf((*MockEmailConfigStore)(nil).GetActive), ctx, tenantID, configID)
}

// MockEmailTransport is a mock of EmailTransport interface
type MockEmailTransport struct {
	ctrl     *gomock.Controller
	recorder *MockEmailTransportMockRecorder
}

// MockEmailTransportMockRecorder is the mock recorder for MockEmailTransport
type MockEmailTransportMockRecorder struct {
	mock *MockEmailTransport
}

// NewMockEmailTransport creates a new mock instance
func NewMockEmailTransport(ctrl *gomock.Controller) *MockEmailTransport {
	mock := &MockEmailTransport{ctrl: ctrl}
	mock.recorder = &MockEmailTransportMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use
func (m *MockEmailTransport) EXPECT() *MockEmailTransportMockRecorder {
	return m.recorder
}

// Send mocks base method
func (m *MockEmailTransport) Send(ctx context.Context, from, to, subject, body string, isHTML bool) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Send", ctx, from, to, subject, body, isHTML)
	ret0, _ := ret[0].(error)
	return ret0
}

// Send indicates an expected call of Send
func (mr *MockEmailTransportMockRecorder) Send(ctx, from, to, subject, body, isHTML interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Send", reflect.TypeOf((*MockEmailTransport)(nil).Send), ctx, from, to, subject, body, isHTML)
}

// MockTransportFactory is a mock of TransportFactory interface
type MockTransportFactory struct {
	ctrl     *gomock.Controller
	recorder *MockTransportFactoryMockRecorder
}

// MockTransportFactoryMockRecorder is the mock recorder for MockTransportFactory
type MockTransportFactoryMockRecorder struct {
	mock *MockTransportFactory
}

// NewMockTransportFactory creates a new mock instance
func NewMockTransportFactory(ctrl *gomock.Controller) *MockTransportFactory {
	mock := &MockTransportFactory{ctrl: ctrl}
	mock.recorder = &MockTransportFactoryMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use
func (m *MockTransportFactory) EXPECT() *MockTransportFactoryMockRecorder {
	return m.recorder
}

// ForConfig mocks base method
func (m *MockTransportFactory) ForConfig(cfg *domain.EmailConfiguration) domain.EmailTransport {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ForConfig", cfg)
	ret0, _ := ret[0].(domain.EmailTransport)
	return ret0
}

// ForConfig indicates an expected call of ForConfig
func (mr *MockTransportFactoryMockRecorder) ForConfig(cfg interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ForConfig", reflect.TypeOf((*MockTransportFactory)(nil).ForConfig), cfg)
}
