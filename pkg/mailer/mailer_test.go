package mailer

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sendcycle/sendcycle/internal/domain"
	pkgmocks "github.com/sendcycle/sendcycle/pkg/mocks"
)

func quietLogger(ctrl *gomock.Controller) *pkgmocks.MockLogger {
	log := pkgmocks.NewMockLogger(ctrl)
	log.EXPECT().WithField(gomock.Any(), gomock.Any()).Return(log).AnyTimes()
	log.EXPECT().WithFields(gomock.Any()).Return(log).AnyTimes()
	log.EXPECT().Debug(gomock.Any()).AnyTimes()
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	return log
}

func testConfig() *domain.EmailConfiguration {
	return &domain.EmailConfiguration{
		ID:        "cfg-1",
		TenantID:  "tenant-1",
		Host:      "smtp.test.local",
		Port:      587,
		Username:  "user",
		Password:  "secret",
		FromEmail: "reminders@test.local",
		FromName:  "Reminders",
		IsActive:  true,
	}
}

func TestSMTPTransport_Send(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("test mode sends without connecting", func(t *testing.T) {
		transport := NewTestSMTPTransport(testConfig(), quietLogger(ctrl))

		err := transport.Send(context.Background(),
			"Reminders <reminders@test.local>", "alice@corp.test",
			"Reminder", "Please submit your documents", false)
		assert.NoError(t, err)
	})

	t.Run("invalid from address is rejected before dialing", func(t *testing.T) {
		transport := NewTestSMTPTransport(testConfig(), quietLogger(ctrl))

		err := transport.Send(context.Background(),
			"not an address", "alice@corp.test", "Reminder", "body", false)
		assert.Error(t, err)
	})

	t.Run("invalid recipient is rejected before dialing", func(t *testing.T) {
		transport := NewTestSMTPTransport(testConfig(), quietLogger(ctrl))

		err := transport.Send(context.Background(),
			"reminders@test.local", "not an address", "Reminder", "body", true)
		assert.Error(t, err)
	})
}

func TestFactory(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("builds a transport per configuration", func(t *testing.T) {
		factory := NewFactory(quietLogger(ctrl))
		transport := factory.ForConfig(testConfig())
		require.NotNil(t, transport)

		smtp, ok := transport.(*SMTPTransport)
		require.True(t, ok)
		assert.False(t, smtp.testMode)
	})

	t.Run("test factory builds test-mode transports", func(t *testing.T) {
		factory := NewTestFactory(quietLogger(ctrl))
		transport := factory.ForConfig(testConfig())

		smtp, ok := transport.(*SMTPTransport)
		require.True(t, ok)
		assert.True(t, smtp.testMode)
	})
}
