// Package features derives the per-trip metrics persisted alongside each
// valid record: haversine distance, speed, efficiency, and the temporal
// and categorical features.
package features

import (
	"math"

	"github.com/kkteam/tripflow/internal/model"
)

// earthRadiusMiles is the sphere radius used by the haversine computation.
const earthRadiusMiles = 3959

// Rounding contract: distance and speed are stored at 4 decimals,
// efficiency at 6, using round-half-away-from-zero (math.Round).
const (
	distancePrecision   = 4
	speedPrecision      = 4
	efficiencyPrecision = 6
)

// Computer derives features deterministically from a validated trip.
// Safe for concurrent use.
type Computer struct{}

// NewComputer creates a feature computer.
func NewComputer() *Computer {
	return &Computer{}
}

// Distance returns the great-circle distance in miles between the trip's
// pickup and dropoff points, unrounded.
func (c *Computer) Distance(t *model.Trip) float64 {
	return Haversine(t.PickupLon, t.PickupLat, t.DropoffLon, t.DropoffLat)
}

// Speed returns the unrounded average speed in mph for the given distance
// and duration, or 0 when the duration is 0.
func (c *Computer) Speed(distanceMiles float64, durationSeconds int) float64 {
	hours := float64(durationSeconds) / 3600
	if hours == 0 {
		return 0
	}
	return distanceMiles / hours
}

// Compute derives the full metrics record for a validated trip. The
// distance is taken as an argument so the pipeline's sanity gates and the
// stored value agree on a single computation.
func (c *Computer) Compute(t *model.Trip, distanceMiles float64) model.TripMetrics {
	minutes := float64(t.DurationSeconds) / 60

	speed := c.Speed(distanceMiles, t.DurationSeconds)
	efficiency := 0.0
	if minutes > 0 {
		efficiency = distanceMiles / minutes
	}

	hour := t.PickupTime.Hour()
	// Go counts weekdays from Sunday=0; the stored convention is Monday=0.
	weekday := (int(t.PickupTime.Weekday()) + 6) % 7

	return model.TripMetrics{
		TripID:           t.ID,
		DistanceMiles:    roundTo(distanceMiles, distancePrecision),
		AvgSpeedMPH:      roundTo(speed, speedPrecision),
		Efficiency:       roundTo(efficiency, efficiencyPrecision),
		HourOfDay:        hour,
		DayOfWeek:        weekday,
		DayOfMonth:       t.PickupTime.Day(),
		MonthOfYear:      int(t.PickupTime.Month()),
		IsWeekend:        weekday >= 5,
		TimePeriod:       timePeriod(hour),
		DistanceCategory: distanceCategory(distanceMiles),
		DurationCategory: durationCategory(t.DurationSeconds),
		SpeedCategory:    speedCategory(speed),
	}
}

// Haversine computes the great-circle distance in miles between two
// longitude/latitude points given in degrees.
func Haversine(lon1, lat1, lon2, lat2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Asin(math.Sqrt(a))

	return earthRadiusMiles * c
}

func timePeriod(hour int) string {
	switch {
	case hour < 5:
		return model.PeriodLateNight
	case hour < 7:
		return model.PeriodEarlyMorning
	case hour < 10:
		return model.PeriodMorningRush
	case hour < 16:
		return model.PeriodMidday
	case hour < 20:
		return model.PeriodEveningRush
	default:
		return model.PeriodNight
	}
}

func distanceCategory(miles float64) string {
	switch {
	case miles < 1:
		return model.DistanceShort
	case miles < 5:
		return model.DistanceMedium
	case miles < 15:
		return model.DistanceLong
	default:
		return model.DistanceVeryLong
	}
}

func durationCategory(seconds int) string {
	minutes := float64(seconds) / 60
	switch {
	case minutes < 10:
		return model.DurationQuick
	case minutes < 30:
		return model.DurationModerate
	case minutes < 60:
		return model.DurationLengthy
	default:
		return model.DurationExtended
	}
}

func speedCategory(mph float64) string {
	switch {
	case mph < 10:
		return model.SpeedSlow
	case mph < 25:
		return model.SpeedNormal
	default:
		return model.SpeedFast
	}
}

func roundTo(x float64, places int) float64 {
	pow := math.Pow(10, float64(places))
	return math.Round(x*pow) / pow
}
