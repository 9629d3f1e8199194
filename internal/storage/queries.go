package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kkteam/tripflow/internal/common"
	"github.com/kkteam/tripflow/internal/model"
)

// ListTrips returns the joined trip+metrics rows matching the query's
// filters. Sorting and pagination are the caller's concern; the analytics
// layer applies its own ordering primitive over the filtered set.
func (s *SQLiteStorage) ListTrips(ctx context.Context, q model.TripQuery) ([]model.TripRow, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	var conditions []string
	var args []any

	if q.MinDistance != nil {
		conditions = append(conditions, "tm.trip_distance_miles >= ?")
		args = append(args, *q.MinDistance)
	}
	if q.MaxDistance != nil {
		conditions = append(conditions, "tm.trip_distance_miles <= ?")
		args = append(args, *q.MaxDistance)
	}
	if q.MinDuration != nil {
		conditions = append(conditions, "t.trip_duration >= ?")
		args = append(args, *q.MinDuration)
	}
	if q.MaxDuration != nil {
		conditions = append(conditions, "t.trip_duration <= ?")
		args = append(args, *q.MaxDuration)
	}
	if q.VendorID != nil {
		conditions = append(conditions, "t.vendor_id = ?")
		args = append(args, *q.VendorID)
	}
	if q.Hour != nil {
		conditions = append(conditions, "tm.hour_of_day = ?")
		args = append(args, *q.Hour)
	}
	if q.DayOfWeek != nil {
		conditions = append(conditions, "tm.day_of_week = ?")
		args = append(args, *q.DayOfWeek)
	}
	if q.IsWeekend != nil {
		conditions = append(conditions, "tm.is_weekend = ?")
		args = append(args, *q.IsWeekend)
	}

	query := `
		SELECT
			t.trip_id, t.vendor_id, t.pickup_datetime, t.dropoff_datetime,
			t.passenger_count, t.pickup_longitude, t.pickup_latitude,
			t.dropoff_longitude, t.dropoff_latitude, t.store_and_fwd_flag, t.trip_duration,
			tm.trip_distance_miles, tm.avg_speed_mph, tm.trip_efficiency,
			tm.hour_of_day, tm.day_of_week, tm.day_of_month, tm.month_of_year,
			tm.is_weekend, tm.time_period, tm.distance_category,
			tm.duration_category, tm.speed_category
		FROM trips t
		INNER JOIN trip_metrics tm ON t.trip_id = tm.trip_id
	`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query trips: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var result []model.TripRow
	for rows.Next() {
		var r model.TripRow
		var pickup, dropoff string

		if err := rows.Scan(
			&r.Trip.ID,
			&r.Trip.VendorID,
			&pickup,
			&dropoff,
			&r.Trip.PassengerCount,
			&r.Trip.PickupLon,
			&r.Trip.PickupLat,
			&r.Trip.DropoffLon,
			&r.Trip.DropoffLat,
			&r.Trip.StoreAndFwdFlag,
			&r.Trip.DurationSeconds,
			&r.Metrics.DistanceMiles,
			&r.Metrics.AvgSpeedMPH,
			&r.Metrics.Efficiency,
			&r.Metrics.HourOfDay,
			&r.Metrics.DayOfWeek,
			&r.Metrics.DayOfMonth,
			&r.Metrics.MonthOfYear,
			&r.Metrics.IsWeekend,
			&r.Metrics.TimePeriod,
			&r.Metrics.DistanceCategory,
			&r.Metrics.DurationCategory,
			&r.Metrics.SpeedCategory,
		); err != nil {
			return nil, fmt.Errorf("failed to scan trip row: %w", err)
		}

		r.Metrics.TripID = r.Trip.ID
		if r.Trip.PickupTime, err = time.Parse(model.TimestampLayout, pickup); err != nil {
			return nil, fmt.Errorf("failed to parse pickup datetime for trip %s: %w", r.Trip.ID, err)
		}
		if r.Trip.DropoffTime, err = time.Parse(model.TimestampLayout, dropoff); err != nil {
			return nil, fmt.Errorf("failed to parse dropoff datetime for trip %s: %w", r.Trip.ID, err)
		}

		result = append(result, r)
	}

	return result, rows.Err()
}

// metricColumns maps an outlier metric name to the query pulling its values.
var metricColumns = map[string]string{
	model.MetricSpeed:    "SELECT avg_speed_mph FROM trip_metrics WHERE avg_speed_mph IS NOT NULL",
	model.MetricDistance: "SELECT trip_distance_miles FROM trip_metrics WHERE trip_distance_miles IS NOT NULL",
	model.MetricDuration: "SELECT trip_duration FROM trips WHERE trip_duration IS NOT NULL",
}

// MetricValues returns every stored value of the named metric. An
// unrecognized metric is a caller contract violation, reported as
// common.ErrUnknownMetric.
func (s *SQLiteStorage) MetricValues(ctx context.Context, metric string) ([]float64, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query, ok := metricColumns[metric]
	if !ok {
		return nil, fmt.Errorf("%w: %q", common.ErrUnknownMetric, metric)
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query metric %s: %w", metric, err)
	}
	defer func() { _ = rows.Close() }()

	var values []float64
	for rows.Next() {
		var v float64
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan metric value: %w", err)
		}
		values = append(values, v)
	}

	return values, rows.Err()
}

// RoutePoints returns the pickup/dropoff coordinate pair of every stored
// trip, for route-frequency aggregation.
func (s *SQLiteStorage) RoutePoints(ctx context.Context) ([]model.RoutePoint, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT pickup_longitude, pickup_latitude, dropoff_longitude, dropoff_latitude
		FROM trips
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query route points: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var points []model.RoutePoint
	for rows.Next() {
		var p model.RoutePoint
		if err := rows.Scan(&p.PickupLon, &p.PickupLat, &p.DropoffLon, &p.DropoffLat); err != nil {
			return nil, fmt.Errorf("failed to scan route point: %w", err)
		}
		points = append(points, p)
	}

	return points, rows.Err()
}
