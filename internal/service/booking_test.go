package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/repository"
	"carrental-backend/internal/utils"
)

type bookingServiceFixture struct {
	bookings *MockBookingRepo
	vehicles *MockVehicleRepo
	lateFees *MockLateFeeRepo
	notifier *MockDispatcher
	svc      *bookingService
}

func newBookingServiceFixture(t *testing.T) *bookingServiceFixture {
	t.Helper()
	f := &bookingServiceFixture{
		bookings: new(MockBookingRepo),
		vehicles: new(MockVehicleRepo),
		lateFees: new(MockLateFeeRepo),
		notifier: new(MockDispatcher),
	}
	f.svc = NewBookingService(f.bookings, f.vehicles, f.lateFees, f.notifier, 500).(*bookingService)
	f.svc.now = func() time.Time {
		return time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	}
	return f
}

func testVehicle() *domain.Vehicle {
	return &domain.Vehicle{
		ID:      "v1",
		Name:    "Toyota Vios",
		ClassID: "sedan",
		Status:  domain.VehicleStatusAvailable,
		WashFee: 200,
		Rates: []domain.AreaRate{
			{Location: "Cagayan de Oro", Price12h: 1000, Price24h: 1500},
			{Location: domain.AreaOutsideRegion10, Price12h: 0, Price24h: 2500},
		},
	}
}

func pendingBooking() *domain.Booking {
	return &domain.Booking{
		ID:        "b1",
		Customer:  domain.Customer{Name: "Ana", Phone: "+639170000001", Email: "ana@example.com"},
		VehicleID: "v1",
		Status:    domain.BookingStatusPending,

		StartDateTime:          time.Date(2025, 3, 12, 8, 0, 0, 0, time.UTC),
		EndDateTime:            time.Date(2025, 3, 12, 20, 0, 0, 0, time.UTC),
		DurationOption:         domain.Duration12Hours,
		DurationHours:          12,
		InitialTotalPayment:    1700,
		PaymentStatus:          domain.PaymentStatusUnpaid,
		NotificationPreference: domain.NotificationPreference{domain.ChannelSMS},
	}
}

func TestTransitionApprove(t *testing.T) {
	f := newBookingServiceFixture(t)
	booking := pendingBooking()

	f.bookings.On("GetByID", mock.Anything, "b1").Return(booking, nil)
	f.bookings.On("UpdateStatusIf", mock.Anything, "b1", domain.BookingStatusPending,
		repository.StatusUpdate{Status: domain.BookingStatusConfirmed}).Return(nil)
	f.notifier.On("Dispatch", mock.Anything, mock.Anything, TemplateBookingApproved, mock.Anything).
		Return(DispatchSummary{Sent: []domain.NotificationChannel{domain.ChannelSMS}})

	updated, err := f.svc.Transition(context.Background(), "b1", "approve", nil, true)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusConfirmed, updated.Status)
	f.bookings.AssertExpectations(t)
	f.notifier.AssertExpectations(t)
}

func TestTransitionApproveFromWrongStatus(t *testing.T) {
	f := newBookingServiceFixture(t)
	booking := pendingBooking()
	booking.Status = domain.BookingStatusConfirmed

	f.bookings.On("GetByID", mock.Anything, "b1").Return(booking, nil)

	_, err := f.svc.Transition(context.Background(), "b1", "approve", nil, true)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	f.bookings.AssertNotCalled(t, "UpdateStatusIf", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.notifier.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestTransitionUnknownAction(t *testing.T) {
	f := newBookingServiceFixture(t)
	_, err := f.svc.Transition(context.Background(), "b1", "teleport", nil, true)
	assert.ErrorIs(t, err, ErrUnknownAction)
	f.bookings.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestTransitionFinishRequiresPayload(t *testing.T) {
	f := newBookingServiceFixture(t)
	_, err := f.svc.Transition(context.Background(), "b1", "finish", nil, true)
	assert.ErrorIs(t, err, ErrMissingPayload)
	f.bookings.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestTransitionFinishWithUnpaidFees(t *testing.T) {
	f := newBookingServiceFixture(t)
	booking := pendingBooking()
	booking.Status = domain.BookingStatusOngoing

	f.bookings.On("GetByID", mock.Anything, "b1").Return(booking, nil)

	payload := &FinishPayload{
		DateReturned:    time.Date(2025, 3, 12, 22, 0, 0, 0, time.UTC),
		AdditionalHours: 2,
		AdditionalFees:  100,
		TotalPayment:    1800,
		PaymentStatus:   domain.PaymentStatusUnpaid,
	}
	_, err := f.svc.Transition(context.Background(), "b1", "finish", payload, true)
	assert.ErrorIs(t, err, ErrNotReady)
	f.bookings.AssertNotCalled(t, "UpdateStatusIf", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestTransitionFinishSettled(t *testing.T) {
	f := newBookingServiceFixture(t)
	booking := pendingBooking()
	booking.Status = domain.BookingStatusOngoing

	payload := &FinishPayload{
		DateReturned:    time.Date(2025, 3, 12, 22, 0, 0, 0, time.UTC),
		AdditionalHours: 2,
		AdditionalFees:  100,
		TotalPayment:    1800,
		PaymentStatus:   domain.PaymentStatusPaid,
	}

	f.bookings.On("GetByID", mock.Anything, "b1").Return(booking, nil)
	f.bookings.On("UpdateStatusIf", mock.Anything, "b1", domain.BookingStatusOngoing,
		mock.MatchedBy(func(u repository.StatusUpdate) bool {
			return u.Status == domain.BookingStatusCompleted &&
				u.ReturnedAt != nil && u.ReturnedAt.Equal(payload.DateReturned) &&
				u.AdditionalFees != nil && *u.AdditionalFees == 100 &&
				u.FinalTotalPayment != nil && *u.FinalTotalPayment == 1800 &&
				u.PaymentStatus != nil && *u.PaymentStatus == domain.PaymentStatusPaid
		})).Return(nil)
	f.notifier.On("Dispatch", mock.Anything, mock.Anything, TemplateBookingCompleted, mock.Anything).
		Return(DispatchSummary{})

	updated, err := f.svc.Transition(context.Background(), "b1", "finish", payload, true)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusCompleted, updated.Status)
	assert.Equal(t, int64(1800), updated.FinalTotalPayment)
	f.bookings.AssertExpectations(t)
}

func TestTransitionConcurrentConflict(t *testing.T) {
	f := newBookingServiceFixture(t)
	booking := pendingBooking()

	f.bookings.On("GetByID", mock.Anything, "b1").Return(booking, nil)
	f.bookings.On("UpdateStatusIf", mock.Anything, "b1", domain.BookingStatusPending, mock.Anything).
		Return(repository.ErrStatusConflict)

	_, err := f.svc.Transition(context.Background(), "b1", "approve", nil, true)
	assert.ErrorIs(t, err, repository.ErrStatusConflict)
	f.notifier.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestTransitionCancelTemplateDependsOnActor(t *testing.T) {
	for _, tc := range []struct {
		byStaff  bool
		template string
	}{
		{true, TemplateBookingCancelledAdmin},
		{false, TemplateBookingCancelledByUser},
	} {
		f := newBookingServiceFixture(t)
		f.bookings.On("GetByID", mock.Anything, "b1").Return(pendingBooking(), nil)
		f.bookings.On("UpdateStatusIf", mock.Anything, "b1", domain.BookingStatusPending, mock.Anything).Return(nil)
		f.notifier.On("Dispatch", mock.Anything, mock.Anything, tc.template, mock.Anything).Return(DispatchSummary{})

		_, err := f.svc.Transition(context.Background(), "b1", "cancel", nil, tc.byStaff)
		require.NoError(t, err)
		f.notifier.AssertExpectations(t)
	}
}

func TestBulkTransitionUnknownAction(t *testing.T) {
	f := newBookingServiceFixture(t)
	_, err := f.svc.BulkTransition(context.Background(), "teleport", []string{"b1"}, nil)
	assert.ErrorIs(t, err, ErrUnknownAction)
}

func TestBulkTransitionSkipsBlankIDs(t *testing.T) {
	f := newBookingServiceFixture(t)
	results, err := f.svc.BulkTransition(context.Background(), "approve", []string{"", "   ", "\t"}, nil)
	require.NoError(t, err)
	assert.Empty(t, results)
	f.bookings.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestBulkTransitionIsolatesFailures(t *testing.T) {
	f := newBookingServiceFixture(t)
	good := pendingBooking()
	bad := pendingBooking()
	bad.ID = "b2"
	bad.Status = domain.BookingStatusCompleted

	f.bookings.On("GetByID", mock.Anything, "b1").Return(good, nil)
	f.bookings.On("GetByID", mock.Anything, "b2").Return(bad, nil)
	f.bookings.On("GetByID", mock.Anything, "b3").Return(nil, repository.ErrNotFound)
	f.bookings.On("UpdateStatusIf", mock.Anything, "b1", domain.BookingStatusPending, mock.Anything).Return(nil)
	f.notifier.On("Dispatch", mock.Anything, mock.Anything, TemplateBookingApproved, mock.Anything).Return(DispatchSummary{})

	results, err := f.svc.BulkTransition(context.Background(), "approve", []string{"b1", " b2 ", "b3"}, nil)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, ActionResult{BookingID: "b1", Success: true}, results[0])
	assert.Equal(t, "b2", results[1].BookingID)
	assert.False(t, results[1].Success)
	assert.NotEmpty(t, results[1].Error)
	assert.False(t, results[2].Success)
}

func TestExtendBookingRejectsEarlierEnd(t *testing.T) {
	f := newBookingServiceFixture(t)
	booking := pendingBooking()
	booking.Status = domain.BookingStatusOngoing

	f.bookings.On("GetByID", mock.Anything, "b1").Return(booking, nil)

	// Same calendar day as the current end is not strictly after it.
	_, err := f.svc.ExtendBooking(context.Background(), "b1", "2025-03-12")
	assert.ErrorIs(t, err, ErrInvalidExtension)
}

func TestExtendBookingRejectsConflicts(t *testing.T) {
	f := newBookingServiceFixture(t)
	booking := pendingBooking()
	booking.Status = domain.BookingStatusOngoing

	blocker := domain.Booking{
		ID:            "b9",
		VehicleID:     "v1",
		Status:        domain.BookingStatusConfirmed,
		StartDateTime: time.Date(2025, 3, 14, 8, 0, 0, 0, time.UTC),
		EndDateTime:   time.Date(2025, 3, 15, 8, 0, 0, 0, time.UTC),
	}

	f.bookings.On("GetByID", mock.Anything, "b1").Return(booking, nil)
	f.bookings.On("ListActiveByVehicle", mock.Anything, "v1").Return([]domain.Booking{*booking, blocker}, nil)

	_, err := f.svc.ExtendBooking(context.Background(), "b1", "2025-03-14")
	assert.ErrorIs(t, err, ErrInvalidExtension)
	f.bookings.AssertNotCalled(t, "UpdateStatusIf", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestExtendBookingPreservesEndClock(t *testing.T) {
	f := newBookingServiceFixture(t)
	booking := pendingBooking()
	booking.Status = domain.BookingStatusOngoing

	wantEnd := time.Date(2025, 3, 14, 20, 0, 0, 0, time.UTC)
	wantHours := 60 // 08:00 Mar 12 to 20:00 Mar 14

	f.bookings.On("GetByID", mock.Anything, "b1").Return(booking, nil)
	f.bookings.On("ListActiveByVehicle", mock.Anything, "v1").Return([]domain.Booking{*booking}, nil)
	f.bookings.On("UpdateStatusIf", mock.Anything, "b1", domain.BookingStatusOngoing,
		mock.MatchedBy(func(u repository.StatusUpdate) bool {
			return u.Status == domain.BookingStatusOngoing &&
				u.EndDateTime != nil && u.EndDateTime.Equal(wantEnd) &&
				u.DurationHours != nil && *u.DurationHours == wantHours
		})).Return(nil)

	updated, err := f.svc.ExtendBooking(context.Background(), "b1", "2025-03-14")
	require.NoError(t, err)
	assert.Equal(t, wantEnd, updated.EndDateTime)
	assert.Equal(t, wantHours, updated.DurationHours)
	f.bookings.AssertExpectations(t)
}

func TestExtendBookingRejectsTerminalStatus(t *testing.T) {
	f := newBookingServiceFixture(t)
	booking := pendingBooking()
	booking.Status = domain.BookingStatusCompleted

	f.bookings.On("GetByID", mock.Anything, "b1").Return(booking, nil)

	_, err := f.svc.ExtendBooking(context.Background(), "b1", "2025-03-14")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestMarkReturnedRequiresOngoing(t *testing.T) {
	f := newBookingServiceFixture(t)
	f.bookings.On("GetByID", mock.Anything, "b1").Return(pendingBooking(), nil)

	_, err := f.svc.MarkReturned(context.Background(), "b1")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestMarkReturnedSettlesLateFee(t *testing.T) {
	f := newBookingServiceFixture(t)
	booking := pendingBooking()
	booking.Status = domain.BookingStatusOngoing
	// Due back 08:00, returned 10:00 by the fixture clock: 2 overdue hours.
	booking.EndDateTime = time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	f.bookings.On("GetByID", mock.Anything, "b1").Return(booking, nil)
	f.vehicles.On("GetByID", mock.Anything, "v1").Return(testVehicle(), nil)
	f.lateFees.On("GetRates", mock.Anything).Return(domain.LateFeeRateTable{"sedan": 50}, nil)
	f.bookings.On("UpdateStatusIf", mock.Anything, "b1", domain.BookingStatusOngoing,
		mock.MatchedBy(func(u repository.StatusUpdate) bool {
			return u.Status == domain.BookingStatusOngoing &&
				u.ReturnedAt != nil &&
				u.AdditionalHours != nil && *u.AdditionalHours == 2 &&
				u.AdditionalFees != nil && *u.AdditionalFees == 100 &&
				u.FinalTotalPayment != nil && *u.FinalTotalPayment == 1800
		})).Return(nil)

	updated, err := f.svc.MarkReturned(context.Background(), "b1")
	require.NoError(t, err)
	require.NotNil(t, updated.AdditionalHours)
	assert.Equal(t, 2, *updated.AdditionalHours)
	assert.Equal(t, int64(100), updated.AdditionalFees)
	assert.Equal(t, int64(1800), updated.FinalTotalPayment)
	f.bookings.AssertExpectations(t)
}

func TestCreateBookingSameDayAutoSelectsTwelveHours(t *testing.T) {
	f := newBookingServiceFixture(t)

	f.vehicles.On("GetByID", mock.Anything, "v1").Return(testVehicle(), nil)
	f.bookings.On("ListActiveByVehicle", mock.Anything, "v1").Return([]domain.Booking{}, nil)
	f.bookings.On("Create", mock.Anything, mock.Anything).Return(nil)

	booking, err := f.svc.CreateBooking(context.Background(), CreateBookingInput{
		Customer:  domain.Customer{Name: "Ana", Phone: "+639170000001"},
		VehicleID: "v1",
		Area:      "Cagayan de Oro",
		StartDate: "2025-03-12",
		EndDate:   "2025-03-12",
		TimeOfDay: "08:00",
		SelfDrive: "Yes",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.Duration12Hours, booking.DurationOption)
	assert.Equal(t, 12, booking.DurationHours)
	assert.Equal(t, time.Date(2025, 3, 12, 20, 0, 0, 0, time.UTC), booking.EndDateTime)
	assert.Equal(t, domain.BookingStatusPending, booking.Status)
	assert.False(t, booking.Chauffeured)
	// 500 booking fee + 200 wash fee + 1000 twelve-hour rate
	assert.Equal(t, int64(1700), booking.InitialTotalPayment)
	assert.NotEmpty(t, booking.ID)
}

func TestCreateBookingUnavailableVehicle(t *testing.T) {
	f := newBookingServiceFixture(t)

	blocker := domain.Booking{
		ID:            "b9",
		VehicleID:     "v1",
		Status:        domain.BookingStatusConfirmed,
		StartDateTime: time.Date(2025, 3, 12, 8, 0, 0, 0, time.UTC),
		EndDateTime:   time.Date(2025, 3, 13, 8, 0, 0, 0, time.UTC),
	}

	f.vehicles.On("GetByID", mock.Anything, "v1").Return(testVehicle(), nil)
	f.bookings.On("ListActiveByVehicle", mock.Anything, "v1").Return([]domain.Booking{blocker}, nil)

	_, err := f.svc.CreateBooking(context.Background(), CreateBookingInput{
		Customer:  domain.Customer{Name: "Ana"},
		VehicleID: "v1",
		Area:      "Cagayan de Oro",
		StartDate: "2025-03-12",
		EndDate:   "2025-03-12",
		TimeOfDay: "08:00",
		SelfDrive: "No",
	})
	assert.ErrorIs(t, err, ErrVehicleUnavailable)
	f.bookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateBookingWithoutRate(t *testing.T) {
	f := newBookingServiceFixture(t)

	f.vehicles.On("GetByID", mock.Anything, "v1").Return(testVehicle(), nil)

	_, err := f.svc.CreateBooking(context.Background(), CreateBookingInput{
		Customer:  domain.Customer{Name: "Ana"},
		VehicleID: "v1",
		Area:      "Iligan", // no rate tuple configured
		StartDate: "2025-03-12",
		EndDate:   "2025-03-13",
		TimeOfDay: "08:00",
		SelfDrive: "No",
	})
	assert.ErrorIs(t, err, ErrNoRateConfigured)
}

func TestCreateBookingRejectsBadDuration(t *testing.T) {
	f := newBookingServiceFixture(t)
	f.vehicles.On("GetByID", mock.Anything, "v1").Return(testVehicle(), nil)

	_, err := f.svc.CreateBooking(context.Background(), CreateBookingInput{
		Customer:  domain.Customer{Name: "Ana"},
		VehicleID: "v1",
		Area:      "Cagayan de Oro",
		StartDate: "2025-03-12",
		EndDate:   "2025-03-13",
		TimeOfDay: "08:00",
		Duration:  "36 hours",
		SelfDrive: "No",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestQuoteReResolvesAfterAutoSelection(t *testing.T) {
	f := newBookingServiceFixture(t)
	f.vehicles.On("GetByID", mock.Anything, "v1").Return(testVehicle(), nil)

	quote, selection, err := f.svc.Quote(context.Background(), "v1", utils.BookingDraft{
		StartDate: "2025-03-12",
		EndDate:   "2025-03-12",
		TimeOfDay: "08:00",
		Area:      "Cagayan de Oro",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.Duration12Hours, selection)
	assert.Equal(t, int64(1000), quote.TotalPrice)
}

func TestCheckAvailability(t *testing.T) {
	f := newBookingServiceFixture(t)

	blocker := domain.Booking{
		ID:            "b9",
		VehicleID:     "v1",
		Status:        domain.BookingStatusOngoing,
		StartDateTime: time.Date(2025, 3, 12, 8, 0, 0, 0, time.UTC),
		EndDateTime:   time.Date(2025, 3, 14, 8, 0, 0, 0, time.UTC),
	}
	f.bookings.On("ListActiveByVehicle", mock.Anything, "v1").Return([]domain.Booking{blocker}, nil)

	available, err := f.svc.CheckAvailability(context.Background(), "v1", "2025-03-13", "2025-03-15")
	require.NoError(t, err)
	assert.False(t, available)

	available, err = f.svc.CheckAvailability(context.Background(), "v1", "2025-03-15", "2025-03-16")
	require.NoError(t, err)
	assert.True(t, available)

	_, err = f.svc.CheckAvailability(context.Background(), "v1", "not-a-date", "2025-03-16")
	assert.Error(t, err)
}
