package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"carrental-backend/internal/domain"
)

func notifiableBooking(pref domain.NotificationPreference) *domain.Booking {
	return &domain.Booking{
		ID:                     "b1",
		Customer:               domain.Customer{Name: "Ana", Phone: "+639170000001", Email: "ana@example.com"},
		NotificationPreference: pref,
	}
}

func TestDispatchSendsOnPreferredChannels(t *testing.T) {
	sms := &MockSender{channel: domain.ChannelSMS}
	email := &MockSender{channel: domain.ChannelEmail}
	sms.On("Send", mock.Anything, "+639170000001", mock.Anything, mock.Anything).Return(nil)
	email.On("Send", mock.Anything, "ana@example.com", mock.Anything, mock.Anything).Return(nil)

	d := NewNotificationDispatcher(sms, email)
	booking := notifiableBooking(domain.NotificationPreference{domain.ChannelSMS, domain.ChannelEmail})

	summary := d.Dispatch(context.Background(), booking, TemplateBookingApproved, map[string]string{"name": "Ana", "id": "b1"})
	assert.ElementsMatch(t, []domain.NotificationChannel{domain.ChannelSMS, domain.ChannelEmail}, summary.Sent)
	assert.Empty(t, summary.Failed)
	sms.AssertExpectations(t)
	email.AssertExpectations(t)
}

func TestDispatchFallsBackToPhoneFirst(t *testing.T) {
	sms := &MockSender{channel: domain.ChannelSMS}
	email := &MockSender{channel: domain.ChannelEmail}
	sms.On("Send", mock.Anything, "+639170000001", mock.Anything, mock.Anything).Return(nil)

	d := NewNotificationDispatcher(sms, email)
	// No preference recorded: the phone number wins over the email address.
	booking := notifiableBooking(nil)

	summary := d.Dispatch(context.Background(), booking, TemplateBookingApproved, nil)
	assert.Equal(t, []domain.NotificationChannel{domain.ChannelSMS}, summary.Sent)
	email.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDispatchFallsBackToEmailWithoutPhone(t *testing.T) {
	sms := &MockSender{channel: domain.ChannelSMS}
	email := &MockSender{channel: domain.ChannelEmail}
	email.On("Send", mock.Anything, "ana@example.com", mock.Anything, mock.Anything).Return(nil)

	d := NewNotificationDispatcher(sms, email)
	booking := notifiableBooking(domain.NotificationPreference{domain.ChannelSMS})
	booking.Customer.Phone = ""

	// The preferred channel has no contact info, so the email fallback fires.
	summary := d.Dispatch(context.Background(), booking, TemplateBookingApproved, nil)
	assert.Equal(t, []domain.NotificationChannel{domain.ChannelEmail}, summary.Sent)
	sms.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDispatchSwallowsSendFailures(t *testing.T) {
	sms := &MockSender{channel: domain.ChannelSMS}
	email := &MockSender{channel: domain.ChannelEmail}
	sms.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("twilio down"))
	email.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	d := NewNotificationDispatcher(sms, email)
	booking := notifiableBooking(domain.NotificationPreference{domain.ChannelSMS, domain.ChannelEmail})

	summary := d.Dispatch(context.Background(), booking, TemplateBookingApproved, nil)
	assert.Equal(t, []domain.NotificationChannel{domain.ChannelEmail}, summary.Sent)
	assert.Equal(t, []domain.NotificationChannel{domain.ChannelSMS}, summary.Failed)
}

func TestDispatchWithNoUsableChannel(t *testing.T) {
	d := NewNotificationDispatcher()
	booking := notifiableBooking(domain.NotificationPreference{domain.ChannelSMS})

	summary := d.Dispatch(context.Background(), booking, TemplateBookingApproved, nil)
	assert.Empty(t, summary.Sent)
	assert.Empty(t, summary.Failed)
}

func TestDispatchUnknownTemplate(t *testing.T) {
	sms := &MockSender{channel: domain.ChannelSMS}
	d := NewNotificationDispatcher(sms)
	booking := notifiableBooking(domain.NotificationPreference{domain.ChannelSMS})

	summary := d.Dispatch(context.Background(), booking, "no_such_template", nil)
	assert.Empty(t, summary.Sent)
	sms.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRenderTemplate(t *testing.T) {
	subject, body := renderTemplate(notificationTemplates[TemplateBookingApproved], map[string]string{
		"name": "Ana",
		"id":   "b1",
	})
	assert.Equal(t, "Your booking has been approved", subject)
	assert.Contains(t, body, "Hi Ana")
	assert.Contains(t, body, "booking b1")
}
