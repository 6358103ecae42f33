package utils

import (
	"time"

	"carrental-backend/internal/domain"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// BookingDraft carries the in-progress booking fields through the workflow
// steps. It replaces the ambient draft state of the customer UI with an
// explicit value object.
type BookingDraft struct {
	StartDate string // yyyy-mm-dd, empty until chosen
	EndDate   string // yyyy-mm-dd
	TimeOfDay string // hh:mm pickup/return clock time, identical at both ends
	Area      domain.Area
	Duration  domain.DurationOption
}

// DurationQuote is the resolver output: the canonical duration bucket inputs,
// option eligibility flags and the price preview for the drafted range.
type DurationQuote struct {
	Hours             int
	Days              int
	TotalPrice        int64
	Show12HourOption  bool
	Show24HourOption  bool
	IsOutsideRegion10 bool
	IsSameDay         bool
}

// CombineDateTime joins separate date and time inputs into one wall-clock
// timestamp. The result is timezone-naive by convention.
func CombineDateTime(date, clock string) (time.Time, error) {
	return time.Parse(dateLayout+" "+timeLayout, date+" "+clock)
}

// CeilHours returns the duration rounded up to whole hours, floored at 0.
func CeilHours(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	h := int(d / time.Hour)
	if d%time.Hour > 0 {
		h++
	}
	return h
}

// ResolveDuration derives hours, days, option eligibility and the price
// preview from a booking draft. Incomplete or invalid drafts yield a zeroed
// quote; a same-day draft with zero elapsed hours is still quoted because the
// duration auto-selection corrects it.
func ResolveDuration(draft BookingDraft, rates []domain.AreaRate) DurationQuote {
	if draft.StartDate == "" || draft.EndDate == "" || draft.TimeOfDay == "" {
		return DurationQuote{}
	}

	start, err := CombineDateTime(draft.StartDate, draft.TimeOfDay)
	if err != nil {
		return DurationQuote{}
	}
	end, err := CombineDateTime(draft.EndDate, draft.TimeOfDay)
	if err != nil {
		return DurationQuote{}
	}

	sameDay := draft.StartDate == draft.EndDate
	diff := end.Sub(start)
	if diff <= 0 && !sameDay {
		return DurationQuote{}
	}

	hours := CeilHours(diff)
	days := (hours + 23) / 24
	outside := draft.Area.IsOutsideRegion10()
	pickupHour := start.Hour()

	q := DurationQuote{
		Hours:             hours,
		Days:              days,
		IsOutsideRegion10: outside,
		IsSameDay:         sameDay,
	}
	q.Show12HourOption = (!outside && hours > 0 && hours <= 24) ||
		(!outside && sameDay && pickupHour < 12)
	q.Show24HourOption = hours <= 24 || sameDay

	switch {
	case draft.Duration == domain.Duration12Hours:
		q.TotalPrice = Price(rates, draft.Area, domain.Duration12Hours)
	case draft.Duration == domain.Duration24Hours:
		q.TotalPrice = Price(rates, draft.Area, domain.Duration24Hours)
	case draft.Duration.IsDays():
		q.TotalPrice = MultiDayPrice(rates, draft.Area, days)
	default:
		// No selection yet: infer from the computed hours.
		switch {
		case hours <= 12 && q.Show12HourOption:
			q.TotalPrice = Price(rates, draft.Area, domain.Duration12Hours)
		case hours <= 24:
			q.TotalPrice = Price(rates, draft.Area, domain.Duration24Hours)
		default:
			q.TotalPrice = MultiDayPrice(rates, draft.Area, days)
		}
	}
	return q
}

// AutoSelectDuration decides whether the previously selected duration option
// still matches the quoted hours, returning the selection to use and whether
// it changed. The guards keep a chosen "24 hours" from flipping back to
// "12 hours" while 12 < hours <= 24, and a chosen "12 hours" fixed while
// hours <= 12, so recomputing on every input change cannot oscillate.
func AutoSelectDuration(prev domain.DurationOption, q DurationQuote) (domain.DurationOption, bool) {
	if q.Hours <= 0 && !q.IsSameDay {
		// Invalid range: nothing to correct against.
		return prev, false
	}

	switch {
	case prev == domain.Duration12Hours:
		if q.Hours <= 12 {
			return prev, false
		}
		if q.Hours <= 24 {
			return domain.Duration24Hours, true
		}
		return domain.DurationDays(q.Days), true

	case prev == domain.Duration24Hours:
		if q.Hours <= 24 {
			return prev, false
		}
		return domain.DurationDays(q.Days), true

	case prev.IsDays() && q.Hours > 24:
		if prev.Days() == q.Days {
			return prev, false
		}
		return domain.DurationDays(q.Days), true
	}

	// Unset, or a stale multi-day selection for a short range: pick fresh.
	var next domain.DurationOption
	switch {
	case q.IsSameDay:
		if q.Show12HourOption {
			next = domain.Duration12Hours
		} else {
			next = domain.Duration24Hours
		}
	case q.Hours <= 12 && q.Show12HourOption:
		next = domain.Duration12Hours
	case q.Hours <= 24:
		next = domain.Duration24Hours
	default:
		next = domain.DurationDays(q.Days)
	}
	return next, next != prev
}

// SyncEndDate derives the end datetime for hour-based selections: start plus
// 12 or 24 hours. Multi-day selections are untouched because the customer
// picks the end date directly; ok is false in that case.
func SyncEndDate(selection domain.DurationOption, startDate, clock string) (time.Time, bool) {
	if selection != domain.Duration12Hours && selection != domain.Duration24Hours {
		return time.Time{}, false
	}
	start, err := CombineDateTime(startDate, clock)
	if err != nil {
		return time.Time{}, false
	}
	return start.Add(time.Duration(selection.Hours()) * time.Hour), true
}
