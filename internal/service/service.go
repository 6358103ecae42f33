package service

import (
	"context"
	"errors"
	"time"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/utils"
)

// Validation errors surfaced by the lifecycle engine. All of them fail fast,
// before any persistence write.
var (
	ErrInvalidInput       = errors.New("invalid booking input")
	ErrInvalidTransition  = errors.New("action not permitted from current booking status")
	ErrInvalidExtension   = errors.New("new end time must be strictly after the current end time")
	ErrNotReady           = errors.New("booking cannot be finished before return is recorded and fees are settled")
	ErrMissingPayload     = errors.New("transition requires a settlement payload")
	ErrUnknownAction      = errors.New("unknown booking action")
	ErrVehicleUnavailable = errors.New("vehicle is not available for the requested dates")
	ErrNoRateConfigured   = errors.New("no rental rate configured for the requested area")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// FinishPayload carries the settlement fields required by the finish action.
// The caller precomputes them with the late-fee calculator before invoking
// the transition.
type FinishPayload struct {
	DateReturned    time.Time            `json:"date_returned"`
	AdditionalHours int                  `json:"additional_hours"`
	AdditionalFees  int64                `json:"additional_fees"`
	TotalPayment    int64                `json:"total_payment"`
	PaymentStatus   domain.PaymentStatus `json:"payment_status"`
}

// ActionResult is the per-booking outcome of a bulk action. One booking's
// failure never aborts its siblings.
type ActionResult struct {
	BookingID string `json:"bookingId"`
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
}

// CreateBookingInput is the customer-facing booking submission.
type CreateBookingInput struct {
	Customer  domain.Customer
	VehicleID string
	Area      domain.Area
	StartDate string // yyyy-mm-dd
	EndDate   string // yyyy-mm-dd
	TimeOfDay string // hh:mm
	Duration  string // duration descriptor, may be empty (auto-selected)
	SelfDrive string // "Yes" or "No"; chauffeured = No

	NotificationPreference domain.NotificationPreference
}

type BookingService interface {
	Quote(ctx context.Context, vehicleID string, draft utils.BookingDraft) (utils.DurationQuote, domain.DurationOption, error)
	CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error)
	GetBooking(ctx context.Context, id string) (*domain.Booking, error)
	ListBookings(ctx context.Context, status string, page, pageSize int32) ([]domain.Booking, int32, error)
	CheckAvailability(ctx context.Context, vehicleID, startDate, endDate string) (bool, error)

	// Transition runs one lifecycle action (approve, decline, start, cancel,
	// finish). byStaff selects the cancellation notice wording.
	Transition(ctx context.Context, id, action string, payload *FinishPayload, byStaff bool) (*domain.Booking, error)
	BulkTransition(ctx context.Context, action string, ids []string, payload *FinishPayload) ([]ActionResult, error)

	ExtendBooking(ctx context.Context, id, newEndDate string) (*domain.Booking, error)
	MarkReturned(ctx context.Context, id string) (*domain.Booking, error)
}

type AuthService interface {
	// Login verifies staff credentials and returns a signed access token.
	Login(ctx context.Context, email, password string) (string, *domain.Staff, error)
}

// Sender delivers one rendered notification on a single channel. Gateway
// internals (SendGrid, Twilio) live behind this interface.
type Sender interface {
	Channel() domain.NotificationChannel
	Send(ctx context.Context, destination, subject, body string) error
}

// DispatchSummary reports which channels a notification reached. Failures are
// logged by the dispatcher and never propagate into the transition result.
type DispatchSummary struct {
	Sent   []domain.NotificationChannel
	Failed []domain.NotificationChannel
}

type NotificationDispatcher interface {
	Dispatch(ctx context.Context, booking *domain.Booking, templateKey string, vars map[string]string) DispatchSummary
}
