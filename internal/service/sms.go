package service

import (
	"context"
	"fmt"

	"github.com/twilio/twilio-go"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/logger"
)

type smsSender struct {
	client *twilio.RestClient
	from   string
}

// NewSMSSender returns a Twilio-backed SMS sender.
func NewSMSSender(accountSID, authToken, fromNumber string) Sender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &smsSender{client: client, from: fromNumber}
}

func (s *smsSender) Channel() domain.NotificationChannel {
	return domain.ChannelSMS
}

// Send delivers the body as a text message. The subject is email-only and is
// ignored here.
func (s *smsSender) Send(ctx context.Context, destination, subject, body string) error {
	logger.ExternalServiceCall("twilio", "create_message", "to", destination)

	params := &twilioapi.CreateMessageParams{}
	params.SetTo(destination)
	params.SetFrom(s.from)
	params.SetBody(body)

	_, err := s.client.Api.CreateMessage(params)
	if err != nil {
		logger.ExternalServiceResult("twilio", "create_message", err)
		return fmt.Errorf("failed to send SMS: %w", err)
	}

	logger.ExternalServiceResult("twilio", "create_message", nil, "to", destination)
	return nil
}
