package postgres

import (
	"context"
	"database/sql"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/repository"
)

type lateFeeRateRepository struct {
	db *sql.DB
}

func NewLateFeeRateRepository(db *sql.DB) repository.LateFeeRateRepository {
	return &lateFeeRateRepository{db: db}
}

func (r *lateFeeRateRepository) GetRates(ctx context.Context) (domain.LateFeeRateTable, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT vehicle_class_id, per_hour_rate FROM late_fee_rates`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rates := domain.LateFeeRateTable{}
	for rows.Next() {
		var classID string
		var rate int64
		if err := rows.Scan(&classID, &rate); err != nil {
			return nil, err
		}
		rates[classID] = rate
	}
	return rates, rows.Err()
}
