package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/logger"
	"carrental-backend/internal/repository"
	"carrental-backend/internal/utils"
)

const dateLayout = "2006-01-02"

// transitionRule binds a lifecycle action to its permitted source statuses,
// target status and customer notification. The cancel notice depends on who
// cancelled, so its template is resolved at dispatch time instead.
type transitionRule struct {
	from         []domain.BookingStatus
	to           domain.BookingStatus
	needsPayload bool
	template     string
}

var transitionActions = map[string]transitionRule{
	"approve": {
		from:     []domain.BookingStatus{domain.BookingStatusPending},
		to:       domain.BookingStatusConfirmed,
		template: TemplateBookingApproved,
	},
	"decline": {
		from:     []domain.BookingStatus{domain.BookingStatusPending},
		to:       domain.BookingStatusDeclined,
		template: TemplateBookingDeclined,
	},
	"start": {
		from:     []domain.BookingStatus{domain.BookingStatusConfirmed},
		to:       domain.BookingStatusOngoing,
		template: TemplateRentalStarted,
	},
	"cancel": {
		from: []domain.BookingStatus{domain.BookingStatusPending, domain.BookingStatusConfirmed},
		to:   domain.BookingStatusCancelled,
	},
	"finish": {
		from:         []domain.BookingStatus{domain.BookingStatusOngoing},
		to:           domain.BookingStatusCompleted,
		needsPayload: true,
		template:     TemplateBookingCompleted,
	},
}

type bookingService struct {
	bookings   repository.BookingRepository
	vehicles   repository.VehicleRepository
	lateFees   repository.LateFeeRateRepository
	notifier   NotificationDispatcher
	bookingFee int64
	now        func() time.Time
}

// NewBookingService assembles the booking lifecycle engine. bookingFee is the
// flat reservation fee added to every booking's initial total.
func NewBookingService(
	bookings repository.BookingRepository,
	vehicles repository.VehicleRepository,
	lateFees repository.LateFeeRateRepository,
	notifier NotificationDispatcher,
	bookingFee int64,
) BookingService {
	return &bookingService{
		bookings:   bookings,
		vehicles:   vehicles,
		lateFees:   lateFees,
		notifier:   notifier,
		bookingFee: bookingFee,
		now:        time.Now,
	}
}

// Quote resolves the duration bucket, option eligibility and price preview
// for a drafted booking, together with the corrected duration selection.
func (s *bookingService) Quote(ctx context.Context, vehicleID string, draft utils.BookingDraft) (utils.DurationQuote, domain.DurationOption, error) {
	vehicle, err := s.vehicles.GetByID(ctx, vehicleID)
	if err != nil {
		return utils.DurationQuote{}, "", err
	}
	quote := utils.ResolveDuration(draft, vehicle.Rates)
	selection, _ := utils.AutoSelectDuration(draft.Duration, quote)

	// The corrected selection can change the price bucket, so re-resolve.
	if selection != draft.Duration {
		draft.Duration = selection
		quote = utils.ResolveDuration(draft, vehicle.Rates)
	}
	return quote, selection, nil
}

func (s *bookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error) {
	vehicle, err := s.vehicles.GetByID(ctx, input.VehicleID)
	if err != nil {
		return nil, err
	}

	draft := utils.BookingDraft{
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
		TimeOfDay: input.TimeOfDay,
		Area:      input.Area,
	}
	if input.Duration != "" {
		selected, err := domain.ParseDurationOption(input.Duration)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		draft.Duration = selected
	}

	quote := utils.ResolveDuration(draft, vehicle.Rates)
	selection, changed := utils.AutoSelectDuration(draft.Duration, quote)
	if changed {
		draft.Duration = selection
		quote = utils.ResolveDuration(draft, vehicle.Rates)
	}
	if selection.IsZero() || quote.TotalPrice <= 0 {
		return nil, ErrNoRateConfigured
	}

	start, err := utils.CombineDateTime(input.StartDate, input.TimeOfDay)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid start date/time: %v", ErrInvalidInput, err)
	}
	end, err := utils.CombineDateTime(input.EndDate, input.TimeOfDay)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid end date/time: %v", ErrInvalidInput, err)
	}
	// Hour-based selections derive the end from the start instead of trusting
	// the drafted end date.
	if synced, ok := utils.SyncEndDate(selection, input.StartDate, input.TimeOfDay); ok {
		end = synced
	}

	existing, err := s.bookings.ListActiveByVehicle(ctx, input.VehicleID)
	if err != nil {
		return nil, err
	}
	if !utils.IsRangeFree(input.VehicleID, start, end, existing, "") {
		return nil, ErrVehicleUnavailable
	}

	now := s.now()
	booking := &domain.Booking{
		ID:                     uuid.NewString(),
		Customer:               input.Customer,
		VehicleID:              input.VehicleID,
		Area:                   input.Area,
		Chauffeured:            !strings.EqualFold(input.SelfDrive, "Yes"),
		StartDateTime:          start,
		EndDateTime:            end,
		DurationOption:         selection,
		DurationHours:          selection.Hours(),
		Status:                 domain.BookingStatusPending,
		BookingFee:             s.bookingFee,
		InitialTotalPayment:    s.bookingFee + vehicle.WashFee + quote.TotalPrice,
		PaymentStatus:          domain.PaymentStatusUnpaid,
		NotificationPreference: input.NotificationPreference,
		CreatedAt:              now,
		UpdatedAt:              now,
	}

	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, err
	}
	logger.InfoContext(ctx, "Booking created",
		"booking_id", booking.ID, "vehicle_id", booking.VehicleID, "total", booking.InitialTotalPayment)
	return booking, nil
}

func (s *bookingService) GetBooking(ctx context.Context, id string) (*domain.Booking, error) {
	return s.bookings.GetByID(ctx, id)
}

func (s *bookingService) ListBookings(ctx context.Context, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	return s.bookings.List(ctx, status, page, pageSize)
}

func (s *bookingService) CheckAvailability(ctx context.Context, vehicleID, startDate, endDate string) (bool, error) {
	start, err := time.Parse(dateLayout, startDate)
	if err != nil {
		return false, fmt.Errorf("%w: invalid start date: %v", ErrInvalidInput, err)
	}
	end, err := time.Parse(dateLayout, endDate)
	if err != nil {
		return false, fmt.Errorf("%w: invalid end date: %v", ErrInvalidInput, err)
	}
	existing, err := s.bookings.ListActiveByVehicle(ctx, vehicleID)
	if err != nil {
		return false, err
	}
	return utils.IsRangeFree(vehicleID, start, end, existing, ""), nil
}

// Transition runs one lifecycle action against a booking. The status write is
// a conditional update keyed on the status the booking was read at, so two
// staff racing on the same booking cannot both win.
func (s *bookingService) Transition(ctx context.Context, id, action string, payload *FinishPayload, byStaff bool) (*domain.Booking, error) {
	rule, ok := transitionActions[action]
	if !ok {
		return nil, ErrUnknownAction
	}
	if rule.needsPayload && payload == nil {
		return nil, ErrMissingPayload
	}

	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !statusIn(booking.Status, rule.from) {
		return nil, fmt.Errorf("%w: cannot %s a %s booking", ErrInvalidTransition, action, booking.Status)
	}

	update := repository.StatusUpdate{Status: rule.to}
	if action == "finish" {
		settled := *booking
		settled.ReturnedAt = &payload.DateReturned
		settled.AdditionalFees = payload.AdditionalFees
		settled.PaymentStatus = payload.PaymentStatus
		if payload.DateReturned.IsZero() || !settled.ReadyToFinish() {
			return nil, ErrNotReady
		}
		update.ReturnedAt = &payload.DateReturned
		update.AdditionalHours = &payload.AdditionalHours
		update.AdditionalFees = &payload.AdditionalFees
		update.FinalTotalPayment = &payload.TotalPayment
		update.PaymentStatus = &payload.PaymentStatus
	}

	expected := booking.Status
	if err := s.bookings.UpdateStatusIf(ctx, id, expected, update); err != nil {
		return nil, err
	}

	booking.Status = rule.to
	if action == "finish" {
		booking.ReturnedAt = &payload.DateReturned
		booking.AdditionalHours = &payload.AdditionalHours
		booking.AdditionalFees = payload.AdditionalFees
		booking.FinalTotalPayment = payload.TotalPayment
		booking.PaymentStatus = payload.PaymentStatus
	}
	logger.InfoContext(ctx, "Booking transitioned",
		"booking_id", id, "action", action, "from", expected, "to", rule.to)

	template := rule.template
	if action == "cancel" {
		if byStaff {
			template = TemplateBookingCancelledAdmin
		} else {
			template = TemplateBookingCancelledByUser
		}
	}
	if template != "" {
		s.notifier.Dispatch(ctx, booking, template, s.templateVars(booking))
	}
	return booking, nil
}

// BulkTransition applies one action to many bookings, isolating each outcome.
// Blank IDs are skipped; an all-blank list is a no-op, not an error.
func (s *bookingService) BulkTransition(ctx context.Context, action string, ids []string, payload *FinishPayload) ([]ActionResult, error) {
	if _, ok := transitionActions[action]; !ok {
		return nil, ErrUnknownAction
	}

	results := make([]ActionResult, 0, len(ids))
	for _, raw := range ids {
		id := strings.TrimSpace(raw)
		if id == "" {
			continue
		}
		if _, err := s.Transition(ctx, id, action, payload, true); err != nil {
			results = append(results, ActionResult{BookingID: id, Success: false, Error: err.Error()})
			continue
		}
		results = append(results, ActionResult{BookingID: id, Success: true})
	}
	return results, nil
}

// ExtendBooking moves the booking's end date later, preserving the end
// time-of-day. The new end must be strictly after the current one and the
// extended range must not collide with another booking for the vehicle.
func (s *bookingService) ExtendBooking(ctx context.Context, id, newEndDate string) (*domain.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: cannot extend a %s booking", ErrInvalidTransition, booking.Status)
	}

	newEnd, err := utils.CombineDateTime(newEndDate, booking.EndDateTime.Format("15:04"))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid end date: %v", ErrInvalidInput, err)
	}
	if !newEnd.After(booking.EndDateTime) {
		return nil, ErrInvalidExtension
	}

	existing, err := s.bookings.ListActiveByVehicle(ctx, booking.VehicleID)
	if err != nil {
		return nil, err
	}
	if !utils.IsRangeFree(booking.VehicleID, booking.StartDateTime, newEnd, existing, booking.ID) {
		return nil, fmt.Errorf("%w: extended range conflicts with another booking", ErrInvalidExtension)
	}

	newHours := utils.CeilHours(newEnd.Sub(booking.StartDateTime))
	update := repository.StatusUpdate{
		Status:        booking.Status,
		EndDateTime:   &newEnd,
		DurationHours: &newHours,
	}
	if err := s.bookings.UpdateStatusIf(ctx, id, booking.Status, update); err != nil {
		return nil, err
	}

	booking.EndDateTime = newEnd
	booking.DurationHours = newHours
	logger.InfoContext(ctx, "Booking extended", "booking_id", id, "new_end", newEnd)
	return booking, nil
}

// MarkReturned records the vehicle return and settles the late fee against
// the per-class hourly rate table. The booking stays Ongoing; finish is a
// separate action gated on the fee being paid.
func (s *bookingService) MarkReturned(ctx context.Context, id string) (*domain.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.Status != domain.BookingStatusOngoing {
		return nil, fmt.Errorf("%w: cannot record a return for a %s booking", ErrInvalidTransition, booking.Status)
	}

	vehicle, err := s.vehicles.GetByID(ctx, booking.VehicleID)
	if err != nil {
		return nil, err
	}
	rates, err := s.lateFees.GetRates(ctx)
	if err != nil {
		return nil, err
	}

	returnedAt := s.now()
	settlement := utils.Settle(booking.EndDateTime, returnedAt, vehicle.ClassID, rates, booking.InitialTotalPayment)

	update := repository.StatusUpdate{
		Status:            booking.Status,
		ReturnedAt:        &returnedAt,
		AdditionalHours:   &settlement.AdditionalHours,
		AdditionalFees:    &settlement.AdditionalFees,
		FinalTotalPayment: &settlement.FinalTotal,
	}
	if err := s.bookings.UpdateStatusIf(ctx, id, booking.Status, update); err != nil {
		return nil, err
	}

	booking.ReturnedAt = &returnedAt
	booking.AdditionalHours = &settlement.AdditionalHours
	booking.AdditionalFees = settlement.AdditionalFees
	booking.FinalTotalPayment = settlement.FinalTotal
	logger.InfoContext(ctx, "Vehicle return recorded",
		"booking_id", id, "overdue_hours", settlement.AdditionalHours, "additional_fees", settlement.AdditionalFees)
	return booking, nil
}

func (s *bookingService) templateVars(b *domain.Booking) map[string]string {
	return map[string]string{
		"name":  b.Customer.Name,
		"id":    b.ID,
		"start": b.StartDateTime.Format("2006-01-02 15:04"),
		"end":   b.EndDateTime.Format("2006-01-02 15:04"),
	}
}

func statusIn(status domain.BookingStatus, set []domain.BookingStatus) bool {
	for _, s := range set {
		if s == status {
			return true
		}
	}
	return false
}
