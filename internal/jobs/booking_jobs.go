package jobs

import (
	"context"
	"time"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/logger"
	"carrental-backend/internal/service"
)

// SendPickupReminders notifies customers whose confirmed booking starts
// tomorrow.
func (jr *JobRunner) SendPickupReminders() {
	jr.runWithRecovery("SendPickupReminders", func() {
		jr.sendReminders(
			domain.BookingStatusConfirmed,
			"start_datetime",
			time.Now().UTC().AddDate(0, 0, 1),
			service.TemplatePickupReminder,
		)
	})
}

// SendReturnReminders notifies customers whose ongoing rental is due back
// today.
func (jr *JobRunner) SendReturnReminders() {
	jr.runWithRecovery("SendReturnReminders", func() {
		jr.sendReminders(
			domain.BookingStatusOngoing,
			"end_datetime",
			time.Now().UTC(),
			service.TemplateReturnReminder,
		)
	})
}

// sendReminders dispatches one reminder per booking in the given status whose
// dateColumn falls on the target calendar day.
func (jr *JobRunner) sendReminders(status domain.BookingStatus, dateColumn string, day time.Time, templateKey string) {
	ctx := context.Background()

	// dateColumn is one of two fixed identifiers above, never caller input.
	query := `SELECT id, customer_name, customer_phone, customer_email,
	       start_datetime, end_datetime, notification_preference
	FROM bookings
	WHERE status = $1 AND ` + dateColumn + `::date = $2::date`

	rows, err := jr.db.QueryContext(ctx, query, status.String(), day.Format("2006-01-02"))
	if err != nil {
		logger.Error("Failed to query bookings for reminders", "template", templateKey, "error", err)
		return
	}
	defer rows.Close()

	sent := 0
	for rows.Next() {
		var b domain.Booking
		var pref string
		if err := rows.Scan(&b.ID, &b.Customer.Name, &b.Customer.Phone, &b.Customer.Email,
			&b.StartDateTime, &b.EndDateTime, &pref); err != nil {
			logger.Error("Failed to scan booking row for reminder", "error", err)
			continue
		}
		b.NotificationPreference = domain.ParseNotificationPreference(pref)

		summary := jr.notifier.Dispatch(ctx, &b, templateKey, map[string]string{
			"name":  b.Customer.Name,
			"id":    b.ID,
			"start": b.StartDateTime.Format("2006-01-02 15:04"),
			"end":   b.EndDateTime.Format("2006-01-02 15:04"),
		})
		sent += len(summary.Sent)
	}
	if err := rows.Err(); err != nil {
		logger.Error("Booking reminder scan aborted", "template", templateKey, "error", err)
	}
	logger.Info("Reminders dispatched", "template", templateKey, "messages_sent", sent)
}
