package postgres

import (
	"database/sql"

	"carrental-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.BookingRepository
	repository.VehicleRepository
	repository.LateFeeRateRepository
	repository.StaffRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                    db,
		BookingRepository:     NewBookingRepository(db),
		VehicleRepository:     NewVehicleRepository(db),
		LateFeeRateRepository: NewLateFeeRateRepository(db),
		StaffRepository:       NewStaffRepository(db),
	}
}
