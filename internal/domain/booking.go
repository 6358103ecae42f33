package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "Pending"
	BookingStatusConfirmed BookingStatus = "Confirmed"
	BookingStatusOngoing   BookingStatus = "Ongoing"
	BookingStatusCompleted BookingStatus = "Completed"
	BookingStatusCancelled BookingStatus = "Cancelled"
	BookingStatusDeclined  BookingStatus = "Declined"
)

// statusCodes preserves the numeric ordering used for reporting.
var statusCodes = map[BookingStatus]int{
	BookingStatusPending:   1,
	BookingStatusConfirmed: 2,
	BookingStatusOngoing:   3,
	BookingStatusCompleted: 4,
	BookingStatusCancelled: 5,
	BookingStatusDeclined:  6,
}

// validTransitions defines the forward-only status graph. A booking never
// re-enters an earlier state.
var validTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:   {BookingStatusConfirmed, BookingStatusDeclined, BookingStatusCancelled},
	BookingStatusConfirmed: {BookingStatusOngoing, BookingStatusCancelled},
	BookingStatusOngoing:   {BookingStatusCompleted},
	BookingStatusCompleted: {},
	BookingStatusCancelled: {},
	BookingStatusDeclined:  {},
}

// IsValid returns true if the status is a recognized booking status.
func (s BookingStatus) IsValid() bool {
	_, ok := statusCodes[s]
	return ok
}

// Code returns the numeric status code.
func (s BookingStatus) Code() int {
	return statusCodes[s]
}

// CanTransitionTo returns true if a transition from this status to the target is allowed.
func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	for _, t := range validTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true if no further transitions are possible from this status.
func (s BookingStatus) IsTerminal() bool {
	return len(validTransitions[s]) == 0
}

// IsActive reports whether a booking in this status blocks the vehicle's
// calendar. Cancelled and declined bookings do not.
func (s BookingStatus) IsActive() bool {
	return s != BookingStatusCancelled && s != BookingStatusDeclined
}

func (s BookingStatus) String() string { return string(s) }

// ParseBookingStatus converts a string to a BookingStatus, returning an error if invalid.
func ParseBookingStatus(s string) (BookingStatus, error) {
	status := BookingStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid booking status: %s", s)
	}
	return status, nil
}

// DurationOption is the tagged rental-length descriptor: "12 hours",
// "24 hours" or "<N> days". It drives pricing and duration auto-selection,
// so it is carried as a value rather than a raw hour count.
type DurationOption string

const (
	Duration12Hours DurationOption = "12 hours"
	Duration24Hours DurationOption = "24 hours"
)

var daysOptionPattern = regexp.MustCompile(`^(\d+) days?$`)

// DurationDays builds the multi-day descriptor for n days.
func DurationDays(n int) DurationOption {
	return DurationOption(fmt.Sprintf("%d days", n))
}

// IsZero reports whether no duration has been selected yet.
func (d DurationOption) IsZero() bool { return d == "" }

// IsDays reports whether the descriptor is a multi-day selection.
func (d DurationOption) IsDays() bool {
	return daysOptionPattern.MatchString(string(d))
}

// Days returns the day count of a multi-day descriptor, or 0.
func (d DurationOption) Days() int {
	m := daysOptionPattern.FindStringSubmatch(string(d))
	if m == nil {
		return 0
	}
	n, _ := strconv.Atoi(m[1])
	return n
}

// Hours returns the descriptor's length in hours (12, 24, or N*24).
func (d DurationOption) Hours() int {
	switch {
	case d == Duration12Hours:
		return 12
	case d == Duration24Hours:
		return 24
	case d.IsDays():
		return d.Days() * 24
	default:
		return 0
	}
}

// ParseDurationOption validates and normalizes a duration descriptor string.
func ParseDurationOption(s string) (DurationOption, error) {
	d := DurationOption(strings.TrimSpace(s))
	if d == Duration12Hours || d == Duration24Hours {
		return d, nil
	}
	if d.IsDays() && d.Days() >= 1 {
		return d, nil
	}
	return "", fmt.Errorf("invalid duration option: %q", s)
}

type PaymentStatus string

const (
	PaymentStatusUnpaid PaymentStatus = "Unpaid"
	PaymentStatusPaid   PaymentStatus = "Paid"
)

type NotificationChannel string

const (
	ChannelSMS   NotificationChannel = "SMS"
	ChannelEmail NotificationChannel = "Email"
)

// NotificationPreference is the set of channels that receive lifecycle
// notifications for a booking.
type NotificationPreference []NotificationChannel

// Has reports whether the preference set contains the given channel.
func (p NotificationPreference) Has(ch NotificationChannel) bool {
	for _, c := range p {
		if c == ch {
			return true
		}
	}
	return false
}

// String joins the preference set for persistence ("SMS, Email").
func (p NotificationPreference) String() string {
	parts := make([]string, len(p))
	for i, c := range p {
		parts[i] = string(c)
	}
	return strings.Join(parts, ", ")
}

// ParseNotificationPreference parses a persisted preference string. Unknown
// tokens are dropped rather than rejected.
func ParseNotificationPreference(s string) NotificationPreference {
	var pref NotificationPreference
	for _, part := range strings.Split(s, ",") {
		switch NotificationChannel(strings.TrimSpace(part)) {
		case ChannelSMS:
			pref = append(pref, ChannelSMS)
		case ChannelEmail:
			pref = append(pref, ChannelEmail)
		}
	}
	return pref
}

// Customer is the contact snapshot captured at booking creation. It is owned
// by the booking; the lifecycle engine never joins back to a live customer
// record.
type Customer struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// Booking is the central entity of the reservation platform. It is created
// once, then mutated in place through status transitions and late-fee
// settlement; it is never deleted, only reaches a terminal status.
type Booking struct {
	ID       string   `json:"id"`
	Customer Customer `json:"customer"`

	VehicleID   string `json:"vehicle_id"`
	Area        Area   `json:"area"`
	Chauffeured bool   `json:"chauffeured"`

	// Wall-clock local times combined from separate date and time inputs.
	StartDateTime time.Time `json:"start_datetime"`
	EndDateTime   time.Time `json:"end_datetime"`

	DurationOption DurationOption `json:"duration_option"`
	// DurationHours is derived from DurationOption and persisted redundantly
	// for reporting.
	DurationHours int `json:"duration_hours"`

	Status BookingStatus `json:"status"`

	// Payment snapshot, captured at creation and settled at finish.
	BookingFee          int64         `json:"booking_fee"`
	InitialTotalPayment int64         `json:"initial_total_payment"`
	AdditionalFees      int64         `json:"additional_fees"`
	FinalTotalPayment   int64         `json:"final_total_payment"`
	PaymentStatus       PaymentStatus `json:"payment_status"`

	ReturnedAt      *time.Time `json:"returned_at,omitempty"`
	AdditionalHours *int       `json:"additional_hours,omitempty"`

	NotificationPreference NotificationPreference `json:"notification_preference"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ReadyToFinish reports whether the booking satisfies the finish
// preconditions: the vehicle has been returned, and any late fee owed has
// been paid.
func (b *Booking) ReadyToFinish() bool {
	if b.ReturnedAt == nil {
		return false
	}
	return b.AdditionalFees == 0 || b.PaymentStatus == PaymentStatusPaid
}
