package utils

import (
	"time"

	"carrental-backend/internal/domain"
)

// Settlement is the outcome of a late-return fee computation.
type Settlement struct {
	AdditionalHours int
	AdditionalFees  int64
	FinalTotal      int64
}

// Settle computes the overdue hours past the agreed end time and the
// resulting extra charge from the per-class hourly rate table. Returning at
// or before the agreed end, or an unconfigured vehicle class, settles to
// zero additional fees.
func Settle(bookingEnd, returnedAt time.Time, classID string, rates domain.LateFeeRateTable, initialTotal int64) Settlement {
	hours := CeilHours(returnedAt.Sub(bookingEnd))
	fees := int64(hours) * rates.RateFor(classID)
	return Settlement{
		AdditionalHours: hours,
		AdditionalFees:  fees,
		FinalTotal:      initialTotal + fees,
	}
}
