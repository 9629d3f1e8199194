package storage

import (
	"context"
	"fmt"

	"github.com/kkteam/tripflow/internal/model"
)

// SaveTripBatch persists one accepted batch: each trip row plus its
// parallel metrics row, in a single transaction. The batch either fully
// commits or is rolled back.
func (s *SQLiteStorage) SaveTripBatch(ctx context.Context, trips []model.Trip, metrics []model.TripMetrics) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateBatch(trips, metrics); err != nil {
		return err
	}
	if len(trips) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	tripStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO trips (
			trip_id, vendor_id, pickup_datetime, dropoff_datetime,
			passenger_count, pickup_longitude, pickup_latitude,
			dropoff_longitude, dropoff_latitude, store_and_fwd_flag, trip_duration
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare trip statement: %w", err)
	}
	defer func() { _ = tripStmt.Close() }()

	metricsStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO trip_metrics (
			trip_id, trip_distance_miles, avg_speed_mph, trip_efficiency,
			hour_of_day, day_of_week, day_of_month, month_of_year,
			is_weekend, time_period, distance_category, duration_category, speed_category
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare metrics statement: %w", err)
	}
	defer func() { _ = metricsStmt.Close() }()

	for i := range trips {
		t := trips[i]
		if _, err := tripStmt.ExecContext(ctx,
			t.ID,
			t.VendorID,
			t.PickupTime.Format(model.TimestampLayout),
			t.DropoffTime.Format(model.TimestampLayout),
			t.PassengerCount,
			t.PickupLon,
			t.PickupLat,
			t.DropoffLon,
			t.DropoffLat,
			t.StoreAndFwdFlag,
			t.DurationSeconds,
		); err != nil {
			return fmt.Errorf("failed to insert trip %s: %w", t.ID, err)
		}

		m := metrics[i]
		if _, err := metricsStmt.ExecContext(ctx,
			m.TripID,
			m.DistanceMiles,
			m.AvgSpeedMPH,
			m.Efficiency,
			m.HourOfDay,
			m.DayOfWeek,
			m.DayOfMonth,
			m.MonthOfYear,
			m.IsWeekend,
			m.TimePeriod,
			m.DistanceCategory,
			m.DurationCategory,
			m.SpeedCategory,
		); err != nil {
			return fmt.Errorf("failed to insert metrics for trip %s: %w", m.TripID, err)
		}
	}

	return tx.Commit()
}

// SaveIssues persists the run's data quality log in one transaction.
func (s *SQLiteStorage) SaveIssues(ctx context.Context, issues []model.Issue) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if len(issues) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO data_quality_log (
			record_id, issue_type, issue_description, field_name, original_value
		) VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare issue statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, issue := range issues {
		if _, err := stmt.ExecContext(ctx,
			issue.RecordID,
			string(issue.Kind),
			issue.Description,
			issue.Field,
			issue.RawValue,
		); err != nil {
			return fmt.Errorf("failed to insert issue for record %s: %w", issue.RecordID, err)
		}
	}

	return tx.Commit()
}
