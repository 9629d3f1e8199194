package model

// Time period buckets derived from the pickup hour.
const (
	PeriodLateNight    = "late_night"
	PeriodEarlyMorning = "early_morning"
	PeriodMorningRush  = "morning_rush"
	PeriodMidday       = "midday"
	PeriodEveningRush  = "evening_rush"
	PeriodNight        = "night"
)

// Distance categories.
const (
	DistanceShort    = "short"
	DistanceMedium   = "medium"
	DistanceLong     = "long"
	DistanceVeryLong = "very_long"
)

// Duration categories.
const (
	DurationQuick    = "quick"
	DurationModerate = "moderate"
	DurationLengthy  = "lengthy"
	DurationExtended = "extended"
)

// Speed categories.
const (
	SpeedSlow   = "slow"
	SpeedNormal = "normal"
	SpeedFast   = "fast"
)

// TripMetrics holds the derived features for one valid trip, keyed by the
// trip id. Immutable once computed.
type TripMetrics struct {
	TripID           string  `json:"trip_id" db:"trip_id"`
	TimePeriod       string  `json:"time_period" db:"time_period"`
	DistanceCategory string  `json:"distance_category" db:"distance_category"`
	DurationCategory string  `json:"duration_category" db:"duration_category"`
	SpeedCategory    string  `json:"speed_category" db:"speed_category"`
	DistanceMiles    float64 `json:"trip_distance_miles" db:"trip_distance_miles"`
	AvgSpeedMPH      float64 `json:"avg_speed_mph" db:"avg_speed_mph"`
	Efficiency       float64 `json:"trip_efficiency" db:"trip_efficiency"`
	HourOfDay        int     `json:"hour_of_day" db:"hour_of_day"`
	DayOfWeek        int     `json:"day_of_week" db:"day_of_week"`
	DayOfMonth       int     `json:"day_of_month" db:"day_of_month"`
	MonthOfYear      int     `json:"month_of_year" db:"month_of_year"`
	IsWeekend        bool    `json:"is_weekend" db:"is_weekend"`
}
