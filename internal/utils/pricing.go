package utils

import (
	"carrental-backend/internal/domain"
)

// Price returns the rental rate for the given area and duration option from a
// vehicle's configured rate tuples. Missing rates resolve to 0 rather than an
// error; callers must guard against committing a zero-priced booking.
// "Outside Region 10" never has a 12-hour rate.
func Price(rates []domain.AreaRate, area domain.Area, option domain.DurationOption) int64 {
	rate, ok := rateFor(rates, area)
	if !ok {
		return 0
	}
	switch {
	case option == domain.Duration12Hours:
		if area.IsOutsideRegion10() {
			return 0
		}
		return rate.Price12h
	case option == domain.Duration24Hours:
		return rate.Price24h
	case option.IsDays():
		return MultiDayPrice(rates, area, option.Days())
	default:
		return 0
	}
}

// MultiDayPrice returns days × the area's 24-hour rate.
func MultiDayPrice(rates []domain.AreaRate, area domain.Area, days int) int64 {
	if days < 1 {
		return 0
	}
	rate, ok := rateFor(rates, area)
	if !ok {
		return 0
	}
	return int64(days) * rate.Price24h
}

func rateFor(rates []domain.AreaRate, area domain.Area) (domain.AreaRate, bool) {
	for _, r := range rates {
		if r.Location == area {
			return r, true
		}
	}
	return domain.AreaRate{}, false
}
