package postgres

import (
	"context"
	"database/sql"
	"errors"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/repository"
)

type vehicleRepository struct {
	db *sql.DB
}

func NewVehicleRepository(db *sql.DB) repository.VehicleRepository {
	return &vehicleRepository{db: db}
}

func (r *vehicleRepository) GetByID(ctx context.Context, id string) (*domain.Vehicle, error) {
	v := &domain.Vehicle{}
	query := `SELECT id, name, class_id, status, wash_fee FROM vehicles WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&v.ID, &v.Name, &v.ClassID, &v.Status, &v.WashFee)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	rateQuery := `SELECT location, price_12h, price_24h FROM vehicle_rates WHERE vehicle_id = $1`
	rows, err := r.db.QueryContext(ctx, rateQuery, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var rate domain.AreaRate
		if err := rows.Scan(&rate.Location, &rate.Price12h, &rate.Price24h); err != nil {
			return nil, err
		}
		v.Rates = append(v.Rates, rate)
	}
	return v, rows.Err()
}
