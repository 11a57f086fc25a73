package mailer

import (
	"context"
	"fmt"
	"time"

	"github.com/wneessen/go-mail"

	"github.com/sendcycle/sendcycle/internal/domain"
	"github.com/sendcycle/sendcycle/pkg/logger"
)

// SMTPTransport sends reminder emails over SMTP for one tenant email
// configuration. It implements domain.EmailTransport.
type SMTPTransport struct {
	config   *domain.EmailConfiguration
	testMode bool
	logger   logger.Logger
}

// NewSMTPTransport creates a transport bound to one email configuration
func NewSMTPTransport(config *domain.EmailConfiguration, log logger.Logger) *SMTPTransport {
	return &SMTPTransport{
		config: config,
		logger: log,
	}
}

// NewTestSMTPTransport creates a transport in test mode that never opens an
// SMTP connection
func NewTestSMTPTransport(config *domain.EmailConfiguration, log logger.Logger) *SMTPTransport {
	return &SMTPTransport{
		config:   config,
		testMode: true,
		logger:   log,
	}
}

// Send delivers one message. from may be a bare address or "Name <addr>".
func (t *SMTPTransport) Send(ctx context.Context, from, to, subject, body string, isHTML bool) error {
	msg := mail.NewMsg(mail.WithNoDefaultUserAgent())

	if err := msg.From(from); err != nil {
		return fmt.Errorf("failed to set email from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("failed to set email recipient: %w", err)
	}
	msg.Subject(subject)

	if isHTML {
		msg.SetBodyString(mail.TypeTextHTML, body)
	} else {
		msg.SetBodyString(mail.TypeTextPlain, body)
	}

	client, err := t.createSMTPClient()
	if err != nil {
		return err
	}

	if client == nil {
		// Test mode: log instead of connecting
		t.logger.WithFields(map[string]interface{}{
			"to":      to,
			"from":    from,
			"subject": subject,
		}).Info("Test mode send")
		return nil
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (t *SMTPTransport) createSMTPClient() (*mail.Client, error) {
	if t.testMode {
		return nil, nil
	}

	clientOptions := []mail.Option{
		mail.WithPort(t.config.Port),
		mail.WithTimeout(10 * time.Second),
	}
	if t.config.UseTLS {
		clientOptions = append(clientOptions, mail.WithTLSPolicy(mail.TLSMandatory))
	} else {
		clientOptions = append(clientOptions, mail.WithTLSPolicy(mail.TLSOpportunistic))
	}

	// Unauthenticated servers (local relays, port 25) are allowed
	if t.config.Username != "" && t.config.Password != "" {
		clientOptions = append(clientOptions,
			mail.WithUsername(t.config.Username),
			mail.WithPassword(t.config.Password),
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
		)
	}

	client, err := mail.NewClient(t.config.Host, clientOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to create SMTP client: %w", err)
	}
	return client, nil
}

// Factory builds SMTP transports per email configuration. It implements
// domain.TransportFactory.
type Factory struct {
	testMode bool
	logger   logger.Logger
}

// NewFactory creates a transport factory
func NewFactory(log logger.Logger) *Factory {
	return &Factory{logger: log}
}

// NewTestFactory creates a factory whose transports never open connections
func NewTestFactory(log logger.Logger) *Factory {
	return &Factory{testMode: true, logger: log}
}

// ForConfig returns a transport bound to the given configuration
func (f *Factory) ForConfig(cfg *domain.EmailConfiguration) domain.EmailTransport {
	if f.testMode {
		return NewTestSMTPTransport(cfg, f.logger)
	}
	return NewSMTPTransport(cfg, f.logger)
}
