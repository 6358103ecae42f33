package utils

import (
	"time"

	"carrental-backend/internal/domain"
)

// IsRangeFree reports whether the candidate date range is free of conflicts
// with the given bookings for the same vehicle. Overlap is tested at day
// granularity with inclusive bounds: every calendar day of the candidate
// range must fall outside every active booking's day range. Cancelled and
// declined bookings never block. excludeBookingID lets an extension ignore
// the booking being extended; pass "" otherwise.
//
// The caller supplies the booking snapshot; this is a pure predicate and does
// not close the race between two simultaneous submissions.
func IsRangeFree(vehicleID string, candidateStart, candidateEnd time.Time, bookings []domain.Booking, excludeBookingID string) bool {
	candStart := truncateToDay(candidateStart)
	candEnd := truncateToDay(candidateEnd)

	for _, b := range bookings {
		if b.VehicleID != vehicleID || b.ID == excludeBookingID {
			continue
		}
		if !b.Status.IsActive() {
			continue
		}
		existingStart := truncateToDay(b.StartDateTime)
		existingEnd := truncateToDay(b.EndDateTime)
		if !candEnd.Before(existingStart) && !candStart.After(existingEnd) {
			return false
		}
	}
	return true
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
