package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingStatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    BookingStatus
		to      BookingStatus
		allowed bool
	}{
		{"pending to confirmed", BookingStatusPending, BookingStatusConfirmed, true},
		{"pending to declined", BookingStatusPending, BookingStatusDeclined, true},
		{"pending to cancelled", BookingStatusPending, BookingStatusCancelled, true},
		{"pending to ongoing skips approval", BookingStatusPending, BookingStatusOngoing, false},
		{"confirmed to ongoing", BookingStatusConfirmed, BookingStatusOngoing, true},
		{"confirmed to cancelled", BookingStatusConfirmed, BookingStatusCancelled, true},
		{"confirmed back to pending", BookingStatusConfirmed, BookingStatusPending, false},
		{"confirmed to declined", BookingStatusConfirmed, BookingStatusDeclined, false},
		{"ongoing to completed", BookingStatusOngoing, BookingStatusCompleted, true},
		{"ongoing to cancelled", BookingStatusOngoing, BookingStatusCancelled, false},
		{"completed is terminal", BookingStatusCompleted, BookingStatusPending, false},
		{"cancelled is terminal", BookingStatusCancelled, BookingStatusConfirmed, false},
		{"declined is terminal", BookingStatusDeclined, BookingStatusPending, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestBookingStatusTerminal(t *testing.T) {
	assert.True(t, BookingStatusCompleted.IsTerminal())
	assert.True(t, BookingStatusCancelled.IsTerminal())
	assert.True(t, BookingStatusDeclined.IsTerminal())
	assert.False(t, BookingStatusPending.IsTerminal())
	assert.False(t, BookingStatusConfirmed.IsTerminal())
	assert.False(t, BookingStatusOngoing.IsTerminal())
}

func TestBookingStatusCodesAreOrdered(t *testing.T) {
	assert.Equal(t, 1, BookingStatusPending.Code())
	assert.Equal(t, 2, BookingStatusConfirmed.Code())
	assert.Equal(t, 3, BookingStatusOngoing.Code())
	assert.Equal(t, 4, BookingStatusCompleted.Code())
	assert.Equal(t, 5, BookingStatusCancelled.Code())
	assert.Equal(t, 6, BookingStatusDeclined.Code())
}

func TestBookingStatusIsActive(t *testing.T) {
	assert.True(t, BookingStatusPending.IsActive())
	assert.True(t, BookingStatusCompleted.IsActive())
	assert.False(t, BookingStatusCancelled.IsActive())
	assert.False(t, BookingStatusDeclined.IsActive())
}

func TestParseBookingStatus(t *testing.T) {
	status, err := ParseBookingStatus("Ongoing")
	require.NoError(t, err)
	assert.Equal(t, BookingStatusOngoing, status)

	_, err = ParseBookingStatus("InTransit")
	assert.Error(t, err)
}

func TestParseDurationOption(t *testing.T) {
	tests := []struct {
		input   string
		want    DurationOption
		wantErr bool
	}{
		{"12 hours", Duration12Hours, false},
		{"24 hours", Duration24Hours, false},
		{"3 days", DurationDays(3), false},
		{"1 day", DurationOption("1 day"), false},
		{"0 days", "", true},
		{"36 hours", "", true},
		{"", "", true},
		{"days", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDurationOption(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDurationOptionHours(t *testing.T) {
	assert.Equal(t, 12, Duration12Hours.Hours())
	assert.Equal(t, 24, Duration24Hours.Hours())
	assert.Equal(t, 72, DurationDays(3).Hours())
	assert.Equal(t, 0, DurationOption("").Hours())
}

func TestNotificationPreferenceRoundTrip(t *testing.T) {
	pref := ParseNotificationPreference("SMS, Email")
	assert.True(t, pref.Has(ChannelSMS))
	assert.True(t, pref.Has(ChannelEmail))
	assert.Equal(t, "SMS, Email", pref.String())

	// Unknown tokens are dropped
	pref = ParseNotificationPreference("SMS, Pigeon")
	assert.Equal(t, NotificationPreference{ChannelSMS}, pref)

	assert.Empty(t, ParseNotificationPreference(""))
}

func TestReadyToFinish(t *testing.T) {
	returned := time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)
	tests := []struct {
		name    string
		booking Booking
		want    bool
	}{
		{"not returned yet", Booking{AdditionalFees: 0}, false},
		{"returned with no fees", Booking{ReturnedAt: &returned}, true},
		{"returned with unpaid fees", Booking{ReturnedAt: &returned, AdditionalFees: 200, PaymentStatus: PaymentStatusUnpaid}, false},
		{"returned with paid fees", Booking{ReturnedAt: &returned, AdditionalFees: 200, PaymentStatus: PaymentStatusPaid}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.booking.ReadyToFinish())
		})
	}
}
