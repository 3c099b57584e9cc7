// Package notify sends patient-facing emails.
package notify

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/mdrakibmia99/hospital-management-system-server/internal/models"
)

// Email is a single outbound message.
type Email struct {
	To      string
	ToName  string
	Subject string
	Body    string
	HTML    string
}

// Mailer delivers an Email.
type Mailer interface {
	Send(ctx context.Context, msg Email) error
}

type SendGridConfig struct {
	APIKey    string
	FromEmail string
	FromName  string
}

// SendGridMailer sends emails through the SendGrid v3 API.
type SendGridMailer struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
	logger    zerolog.Logger
}

// NewSendGridMailer returns nil when no API key is configured.
func NewSendGridMailer(cfg SendGridConfig, logger zerolog.Logger) *SendGridMailer {
	if cfg.APIKey == "" {
		return nil
	}
	return &SendGridMailer{
		client:    sendgrid.NewSendClient(cfg.APIKey),
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
		logger:    logger,
	}
}

func (m *SendGridMailer) Send(ctx context.Context, msg Email) error {
	from := mail.NewEmail(m.fromName, m.fromEmail)
	to := mail.NewEmail(msg.ToName, msg.To)
	html := msg.HTML
	if html == "" {
		html = msg.Body
	}

	response, err := m.client.SendWithContext(ctx, mail.NewSingleEmail(from, msg.Subject, to, msg.Body, html))
	if err != nil {
		return fmt.Errorf("notify: sendgrid send failed: %w", err)
	}
	if response.StatusCode >= 300 {
		m.logger.Error().Int("status", response.StatusCode).Str("body", response.Body).Str("to", msg.To).Msg("sendgrid returned error status")
		return fmt.Errorf("notify: sendgrid returned status %d", response.StatusCode)
	}
	m.logger.Debug().Str("to", msg.To).Str("subject", msg.Subject).Msg("email sent via sendgrid")
	return nil
}

// Nop discards messages.
type Nop struct{}

func (Nop) Send(context.Context, Email) error { return nil }

// BookingConfirmation builds the message sent after a booking is created.
func BookingConfirmation(b models.Booking) Email {
	subject := fmt.Sprintf("Your appointment for %s is confirmed", b.TreatmentName)
	body := fmt.Sprintf(
		"Dear %s,\n\nYour appointment for %s is booked on %s at %s.\nPlease visit on time.\n",
		b.PatientName, b.TreatmentName, b.AppointmentDate, b.AppointmentTime,
	)
	return Email{
		To:      b.PatientEmail,
		ToName:  b.PatientName,
		Subject: subject,
		Body:    body,
	}
}
