package repository

import (
	"context"
	"errors"
	"time"

	"carrental-backend/internal/domain"
)

// ErrStatusConflict is returned by UpdateStatusIf when the booking's current
// status no longer matches the expected one, meaning another writer got there
// first. Nothing was written.
var ErrStatusConflict = errors.New("booking status changed concurrently")

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// StatusUpdate carries the transition-specific fields written together with a
// status change. Nil pointers leave the column untouched.
type StatusUpdate struct {
	Status            domain.BookingStatus
	EndDateTime       *time.Time
	DurationHours     *int
	ReturnedAt        *time.Time
	AdditionalHours   *int
	AdditionalFees    *int64
	FinalTotalPayment *int64
	PaymentStatus     *domain.PaymentStatus
}

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id string) (*domain.Booking, error)

	// UpdateStatusIf applies the update as a single atomic conditional write:
	// it must fail with ErrStatusConflict when the stored status differs from
	// expected. Callers never do a read-then-write pair for transitions.
	UpdateStatusIf(ctx context.Context, id string, expected domain.BookingStatus, update StatusUpdate) error

	ListActiveByVehicle(ctx context.Context, vehicleID string) ([]domain.Booking, error)
	List(ctx context.Context, status string, page, pageSize int32) ([]domain.Booking, int32, error)
}

type VehicleRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Vehicle, error)
}

type LateFeeRateRepository interface {
	GetRates(ctx context.Context) (domain.LateFeeRateTable, error)
}

type StaffRepository interface {
	GetByEmail(ctx context.Context, email string) (*domain.Staff, error)
}
