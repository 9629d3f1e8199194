package model

// Sort fields accepted by trip listing queries.
const (
	SortByDistance       = "distance"
	SortByDuration       = "duration"
	SortBySpeed          = "speed"
	SortByPickupDatetime = "pickup_datetime"
)

// Metrics available for outlier analysis.
const (
	MetricSpeed    = "speed"
	MetricDistance = "distance"
	MetricDuration = "duration"
)

// TripQuery carries the filter, sort, and pagination parameters of a trip
// listing request. Nil filter fields are not applied.
type TripQuery struct {
	MinDistance *float64
	MaxDistance *float64
	MinDuration *int
	MaxDuration *int
	VendorID    *int
	Hour        *int
	DayOfWeek   *int
	IsWeekend   *bool
	SortBy      string
	Descending  bool
	Limit       int
	Offset      int
}

// TripRow is one joined trip + metrics row as returned to the query layer.
type TripRow struct {
	Trip    Trip        `json:"trip"`
	Metrics TripMetrics `json:"metrics"`
}

// RoutePoint is the coordinate pair of one stored trip, fed to the
// route-frequency aggregator.
type RoutePoint struct {
	PickupLon  float64
	PickupLat  float64
	DropoffLon float64
	DropoffLat float64
}

// OverallStats aggregates the whole stored dataset.
type OverallStats struct {
	EarliestTrip  string  `json:"earliest_trip"`
	LatestTrip    string  `json:"latest_trip"`
	TotalTrips    int     `json:"total_trips"`
	AvgDistance   float64 `json:"avg_distance"`
	AvgSpeed      float64 `json:"avg_speed"`
	AvgDuration   float64 `json:"avg_duration"`
	AvgPassengers float64 `json:"avg_passengers"`
	TotalDistance float64 `json:"total_distance"`
}

// VendorStats aggregates trips per vendor.
type VendorStats struct {
	VendorID    int     `json:"vendor_id"`
	TripCount   int     `json:"trip_count"`
	AvgDistance float64 `json:"avg_distance"`
	AvgSpeed    float64 `json:"avg_speed"`
}

// PeriodCount is the trip count for one time period.
type PeriodCount struct {
	TimePeriod string `json:"time_period"`
	TripCount  int    `json:"trip_count"`
}

// CategoryCount is the trip count for one distance category.
type CategoryCount struct {
	DistanceCategory string `json:"distance_category"`
	TripCount        int    `json:"trip_count"`
}

// HourlyStat aggregates trips for one hour of the day.
type HourlyStat struct {
	HourOfDay   int     `json:"hour_of_day"`
	TripCount   int     `json:"trip_count"`
	AvgDistance float64 `json:"avg_distance"`
	AvgSpeed    float64 `json:"avg_speed"`
}

// HourDayPattern aggregates trips for one hour-of-day/day-of-week cell.
type HourDayPattern struct {
	HourOfDay   int     `json:"hour_of_day"`
	DayOfWeek   int     `json:"day_of_week"`
	TripCount   int     `json:"trip_count"`
	AvgDistance float64 `json:"avg_distance"`
	AvgSpeed    float64 `json:"avg_speed"`
}

// WeekendStats compares weekend against weekday trips.
type WeekendStats struct {
	IsWeekend     bool    `json:"is_weekend"`
	TripCount     int     `json:"trip_count"`
	AvgDistance   float64 `json:"avg_distance"`
	AvgSpeed      float64 `json:"avg_speed"`
	AvgEfficiency float64 `json:"avg_efficiency"`
}

// PeriodSpeed is the average speed within one time period.
type PeriodSpeed struct {
	TimePeriod string  `json:"time_period"`
	AvgSpeed   float64 `json:"avg_speed"`
	TripCount  int     `json:"trip_count"`
}
