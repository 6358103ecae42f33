package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/repository"
)

// MockBookingRepo
type MockBookingRepo struct {
	mock.Mock
}

func (m *MockBookingRepo) Create(ctx context.Context, booking *domain.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}
func (m *MockBookingRepo) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) UpdateStatusIf(ctx context.Context, id string, expected domain.BookingStatus, update repository.StatusUpdate) error {
	args := m.Called(ctx, id, expected, update)
	return args.Error(0)
}
func (m *MockBookingRepo) ListActiveByVehicle(ctx context.Context, vehicleID string) ([]domain.Booking, error) {
	args := m.Called(ctx, vehicleID)
	return args.Get(0).([]domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) List(ctx context.Context, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	args := m.Called(ctx, status, page, pageSize)
	return args.Get(0).([]domain.Booking), args.Get(1).(int32), args.Error(2)
}

// MockVehicleRepo
type MockVehicleRepo struct {
	mock.Mock
}

func (m *MockVehicleRepo) GetByID(ctx context.Context, id string) (*domain.Vehicle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vehicle), args.Error(1)
}

// MockLateFeeRepo
type MockLateFeeRepo struct {
	mock.Mock
}

func (m *MockLateFeeRepo) GetRates(ctx context.Context) (domain.LateFeeRateTable, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.LateFeeRateTable), args.Error(1)
}

// MockStaffRepo
type MockStaffRepo struct {
	mock.Mock
}

func (m *MockStaffRepo) GetByEmail(ctx context.Context, email string) (*domain.Staff, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Staff), args.Error(1)
}

// MockDispatcher
type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) Dispatch(ctx context.Context, booking *domain.Booking, templateKey string, vars map[string]string) DispatchSummary {
	args := m.Called(ctx, booking, templateKey, vars)
	return args.Get(0).(DispatchSummary)
}

// MockSender
type MockSender struct {
	mock.Mock
	channel domain.NotificationChannel
}

func (m *MockSender) Channel() domain.NotificationChannel {
	return m.channel
}
func (m *MockSender) Send(ctx context.Context, destination, subject, body string) error {
	args := m.Called(ctx, destination, subject, body)
	return args.Error(0)
}
