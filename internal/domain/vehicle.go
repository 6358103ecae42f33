package domain

type Area string

// AreaOutsideRegion10 is the distinguished out-of-region service area: it has
// no 12-hour option and is priced in flat 24-hour multiples.
const AreaOutsideRegion10 Area = "Outside Region 10"

// IsOutsideRegion10 reports whether the area uses out-of-region pricing rules.
func (a Area) IsOutsideRegion10() bool {
	return a == AreaOutsideRegion10
}

func (a Area) String() string { return string(a) }

// AreaRate is one per-area pricing tuple configured on a vehicle. Price12h is
// zero for areas without a 12-hour option.
type AreaRate struct {
	Location Area  `json:"location"`
	Price12h int64 `json:"price_12h"`
	Price24h int64 `json:"price_24h"`
}

type VehicleStatus string

const (
	VehicleStatusAvailable   VehicleStatus = "Available"
	VehicleStatusUnavailable VehicleStatus = "Unavailable"
)

// Vehicle is referenced by bookings but not owned by the lifecycle engine.
// ClassID keys the late-fee rate table; Rates feed the pricing calculator.
type Vehicle struct {
	ID      string        `json:"id"`
	Name    string        `json:"name"`
	ClassID string        `json:"class_id"`
	Status  VehicleStatus `json:"status"`
	Rates   []AreaRate    `json:"rates"`
	WashFee int64         `json:"wash_fee"`
}

// RateFor returns the pricing tuple for the given area, or false when the
// vehicle has no rate configured there.
func (v *Vehicle) RateFor(area Area) (AreaRate, bool) {
	for _, r := range v.Rates {
		if r.Location == area {
			return r, true
		}
	}
	return AreaRate{}, false
}

// LateFeeRateTable maps a vehicle class to its per-hour overdue rate. It is
// externally supplied and read-only to the lifecycle engine; an unknown class
// means no late-fee policy is configured (zero rate).
type LateFeeRateTable map[string]int64

// RateFor returns the hourly late-fee rate for a vehicle class, or 0.
func (t LateFeeRateTable) RateFor(classID string) int64 {
	return t[classID]
}
