package service

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/logger"
)

type emailSender struct {
	apiKey    string
	fromEmail string
	fromName  string
}

// NewEmailSender returns a SendGrid-backed email sender.
func NewEmailSender(apiKey, fromEmail, fromName string) Sender {
	return &emailSender{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *emailSender) Channel() domain.NotificationChannel {
	return domain.ChannelEmail
}

func (s *emailSender) Send(ctx context.Context, destination, subject, body string) error {
	logger.ExternalServiceCall("sendgrid", "send_email", "to", destination)

	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail("", destination)
	message := mail.NewSingleEmail(from, subject, recipient, body, "")

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.SendWithContext(ctx, message)
	if err != nil {
		logger.ExternalServiceResult("sendgrid", "send_email", err)
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		err = fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
		logger.ExternalServiceResult("sendgrid", "send_email", err)
		return err
	}

	logger.ExternalServiceResult("sendgrid", "send_email", nil, "to", destination)
	return nil
}
