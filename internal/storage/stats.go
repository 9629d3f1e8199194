package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kkteam/tripflow/internal/common"
	"github.com/kkteam/tripflow/internal/model"
)

// OverallStats aggregates the whole stored dataset. Returns
// common.ErrNotFound when no trips are stored.
func (s *SQLiteStorage) OverallStats(ctx context.Context) (*model.OverallStats, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	var stats model.OverallStats
	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(AVG(tm.trip_distance_miles), 0),
			COALESCE(AVG(tm.avg_speed_mph), 0),
			COALESCE(AVG(t.trip_duration), 0),
			COALESCE(AVG(t.passenger_count), 0),
			COALESCE(SUM(tm.trip_distance_miles), 0),
			COALESCE(MIN(t.pickup_datetime), ''),
			COALESCE(MAX(t.pickup_datetime), '')
		FROM trips t
		INNER JOIN trip_metrics tm ON t.trip_id = tm.trip_id
	`).Scan(
		&stats.TotalTrips,
		&stats.AvgDistance,
		&stats.AvgSpeed,
		&stats.AvgDuration,
		&stats.AvgPassengers,
		&stats.TotalDistance,
		&stats.EarliestTrip,
		&stats.LatestTrip,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query overall stats: %w", err)
	}
	if stats.TotalTrips == 0 {
		return nil, common.ErrNotFound
	}

	return &stats, nil
}

// VendorStats aggregates trips per vendor.
func (s *SQLiteStorage) VendorStats(ctx context.Context) ([]model.VendorStats, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT t.vendor_id, COUNT(*), AVG(tm.trip_distance_miles), AVG(tm.avg_speed_mph)
		FROM trips t
		INNER JOIN trip_metrics tm ON t.trip_id = tm.trip_id
		GROUP BY t.vendor_id
		ORDER BY t.vendor_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query vendor stats: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var result []model.VendorStats
	for rows.Next() {
		var v model.VendorStats
		if err := rows.Scan(&v.VendorID, &v.TripCount, &v.AvgDistance, &v.AvgSpeed); err != nil {
			return nil, fmt.Errorf("failed to scan vendor stats: %w", err)
		}
		result = append(result, v)
	}

	return result, rows.Err()
}

// TimePeriodDistribution reports trip counts per time period, most
// frequent first.
func (s *SQLiteStorage) TimePeriodDistribution(ctx context.Context) ([]model.PeriodCount, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT time_period, COUNT(*) AS trip_count
		FROM trip_metrics
		GROUP BY time_period
		ORDER BY trip_count DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query time period distribution: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var result []model.PeriodCount
	for rows.Next() {
		var p model.PeriodCount
		if err := rows.Scan(&p.TimePeriod, &p.TripCount); err != nil {
			return nil, fmt.Errorf("failed to scan period count: %w", err)
		}
		result = append(result, p)
	}

	return result, rows.Err()
}

// DistanceDistribution reports trip counts per distance category, ordered
// short to very_long.
func (s *SQLiteStorage) DistanceDistribution(ctx context.Context) ([]model.CategoryCount, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT distance_category, COUNT(*)
		FROM trip_metrics
		GROUP BY distance_category
		ORDER BY CASE distance_category
			WHEN 'short' THEN 0
			WHEN 'medium' THEN 1
			WHEN 'long' THEN 2
			ELSE 3
		END
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query distance distribution: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var result []model.CategoryCount
	for rows.Next() {
		var c model.CategoryCount
		if err := rows.Scan(&c.DistanceCategory, &c.TripCount); err != nil {
			return nil, fmt.Errorf("failed to scan category count: %w", err)
		}
		result = append(result, c)
	}

	return result, rows.Err()
}

// HourlyStats aggregates trips per hour of day.
func (s *SQLiteStorage) HourlyStats(ctx context.Context) ([]model.HourlyStat, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT hour_of_day, COUNT(*), AVG(trip_distance_miles), AVG(avg_speed_mph)
		FROM trip_metrics
		GROUP BY hour_of_day
		ORDER BY hour_of_day
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query hourly stats: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var result []model.HourlyStat
	for rows.Next() {
		var h model.HourlyStat
		if err := rows.Scan(&h.HourOfDay, &h.TripCount, &h.AvgDistance, &h.AvgSpeed); err != nil {
			return nil, fmt.Errorf("failed to scan hourly stat: %w", err)
		}
		result = append(result, h)
	}

	return result, rows.Err()
}

// HourDayPatterns aggregates trips per hour-of-day/day-of-week cell.
func (s *SQLiteStorage) HourDayPatterns(ctx context.Context) ([]model.HourDayPattern, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT hour_of_day, day_of_week, COUNT(*), AVG(trip_distance_miles), AVG(avg_speed_mph)
		FROM trip_metrics
		GROUP BY hour_of_day, day_of_week
		ORDER BY day_of_week, hour_of_day
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query hourly patterns: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var result []model.HourDayPattern
	for rows.Next() {
		var p model.HourDayPattern
		if err := rows.Scan(&p.HourOfDay, &p.DayOfWeek, &p.TripCount, &p.AvgDistance, &p.AvgSpeed); err != nil {
			return nil, fmt.Errorf("failed to scan hourly pattern: %w", err)
		}
		result = append(result, p)
	}

	return result, rows.Err()
}

// WeekendComparison aggregates weekday vs weekend trips.
func (s *SQLiteStorage) WeekendComparison(ctx context.Context) ([]model.WeekendStats, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT is_weekend, COUNT(*), AVG(trip_distance_miles), AVG(avg_speed_mph), AVG(trip_efficiency)
		FROM trip_metrics
		GROUP BY is_weekend
		ORDER BY is_weekend
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query weekend comparison: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var result []model.WeekendStats
	for rows.Next() {
		var w model.WeekendStats
		if err := rows.Scan(&w.IsWeekend, &w.TripCount, &w.AvgDistance, &w.AvgSpeed, &w.AvgEfficiency); err != nil {
			return nil, fmt.Errorf("failed to scan weekend stats: %w", err)
		}
		result = append(result, w)
	}

	return result, rows.Err()
}

// SpeedByTimePeriod reports average speed per time period, fastest first.
func (s *SQLiteStorage) SpeedByTimePeriod(ctx context.Context) ([]model.PeriodSpeed, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT time_period, AVG(avg_speed_mph) AS avg_speed, COUNT(*)
		FROM trip_metrics
		GROUP BY time_period
		ORDER BY avg_speed DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query speed by time period: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var result []model.PeriodSpeed
	for rows.Next() {
		var p model.PeriodSpeed
		if err := rows.Scan(&p.TimePeriod, &p.AvgSpeed, &p.TripCount); err != nil {
			return nil, fmt.Errorf("failed to scan period speed: %w", err)
		}
		result = append(result, p)
	}

	return result, rows.Err()
}
