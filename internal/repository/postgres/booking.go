package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/repository"
)

const bookingColumns = `id, vehicle_id, area, chauffeured, start_datetime, end_datetime,
	duration_option, duration_hours, status, customer_name, customer_phone, customer_email,
	notification_preference, booking_fee, initial_total_payment, additional_fees,
	final_total_payment, payment_status, returned_at, additional_hours, created_at, updated_at`

type bookingRepository struct {
	db *sql.DB
}

func NewBookingRepository(db *sql.DB) repository.BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	query := `INSERT INTO bookings (id, vehicle_id, area, chauffeured, start_datetime, end_datetime,
	          duration_option, duration_hours, status, customer_name, customer_phone, customer_email,
	          notification_preference, booking_fee, initial_total_payment, additional_fees,
	          final_total_payment, payment_status, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`
	_, err := r.db.ExecContext(ctx, query,
		b.ID, b.VehicleID, b.Area, b.Chauffeured, b.StartDateTime, b.EndDateTime,
		b.DurationOption, b.DurationHours, b.Status, b.Customer.Name, b.Customer.Phone, b.Customer.Email,
		b.NotificationPreference.String(), b.BookingFee, b.InitialTotalPayment, b.AdditionalFees,
		b.FinalTotalPayment, b.PaymentStatus, b.CreatedAt, b.UpdatedAt)
	return err
}

func (r *bookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	b, err := scanBooking(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	return b, err
}

// UpdateStatusIf is the compare-and-swap write for status transitions: the
// row is only touched while its status still equals expected. Zero rows
// affected means another writer transitioned the booking first.
func (r *bookingRepository) UpdateStatusIf(ctx context.Context, id string, expected domain.BookingStatus, u repository.StatusUpdate) error {
	set := "status = $1, updated_at = $2"
	args := []interface{}{u.Status, time.Now()}
	argIdx := 3

	appendSet := func(column string, value interface{}) {
		set += fmt.Sprintf(", %s = $%d", column, argIdx)
		args = append(args, value)
		argIdx++
	}
	if u.EndDateTime != nil {
		appendSet("end_datetime", *u.EndDateTime)
	}
	if u.DurationHours != nil {
		appendSet("duration_hours", *u.DurationHours)
	}
	if u.ReturnedAt != nil {
		appendSet("returned_at", *u.ReturnedAt)
	}
	if u.AdditionalHours != nil {
		appendSet("additional_hours", *u.AdditionalHours)
	}
	if u.AdditionalFees != nil {
		appendSet("additional_fees", *u.AdditionalFees)
	}
	if u.FinalTotalPayment != nil {
		appendSet("final_total_payment", *u.FinalTotalPayment)
	}
	if u.PaymentStatus != nil {
		appendSet("payment_status", *u.PaymentStatus)
	}

	query := fmt.Sprintf("UPDATE bookings SET %s WHERE id = $%d AND status = $%d", set, argIdx, argIdx+1)
	args = append(args, id, expected)

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return repository.ErrStatusConflict
	}
	return nil
}

func (r *bookingRepository) ListActiveByVehicle(ctx context.Context, vehicleID string) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings
	          WHERE vehicle_id = $1 AND status NOT IN ($2, $3)
	          ORDER BY start_datetime`
	rows, err := r.db.QueryContext(ctx, query, vehicleID, domain.BookingStatusCancelled, domain.BookingStatusDeclined)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBookings(rows)
}

func (r *bookingRepository) List(ctx context.Context, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	offset := (page - 1) * pageSize
	query := `SELECT ` + bookingColumns + ` FROM bookings`
	countQuery := `SELECT count(*) FROM bookings`

	var args []interface{}
	if status != "" {
		query += " WHERE status = $1"
		countQuery += " WHERE status = $1"
		args = append(args, status)
	}

	var count int32
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	bookings, err := collectBookings(rows)
	if err != nil {
		return nil, 0, err
	}
	return bookings, count, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var (
		b          domain.Booking
		pref       string
		returnedAt sql.NullTime
		addlHours  sql.NullInt64
	)
	err := row.Scan(
		&b.ID, &b.VehicleID, &b.Area, &b.Chauffeured, &b.StartDateTime, &b.EndDateTime,
		&b.DurationOption, &b.DurationHours, &b.Status, &b.Customer.Name, &b.Customer.Phone, &b.Customer.Email,
		&pref, &b.BookingFee, &b.InitialTotalPayment, &b.AdditionalFees,
		&b.FinalTotalPayment, &b.PaymentStatus, &returnedAt, &addlHours, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	b.NotificationPreference = domain.ParseNotificationPreference(pref)
	if returnedAt.Valid {
		t := returnedAt.Time
		b.ReturnedAt = &t
	}
	if addlHours.Valid {
		h := int(addlHours.Int64)
		b.AdditionalHours = &h
	}
	return &b, nil
}

func collectBookings(rows *sql.Rows) ([]domain.Booking, error) {
	var bookings []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}
