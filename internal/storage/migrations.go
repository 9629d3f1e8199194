package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application
// expects. If the database cannot be migrated to this version, it's a
// fatal error.
const ExpectedSchemaVersion = 2

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema: trips, trip_metrics, data_quality_log",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS trips (
					trip_id TEXT PRIMARY KEY,
					vendor_id INTEGER NOT NULL,
					pickup_datetime DATETIME NOT NULL,
					dropoff_datetime DATETIME NOT NULL,
					passenger_count INTEGER NOT NULL,
					pickup_longitude REAL NOT NULL,
					pickup_latitude REAL NOT NULL,
					dropoff_longitude REAL NOT NULL,
					dropoff_latitude REAL NOT NULL,
					store_and_fwd_flag TEXT,
					trip_duration INTEGER NOT NULL,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_trips_pickup_datetime ON trips(pickup_datetime)`,
				`CREATE INDEX idx_trips_vendor ON trips(vendor_id)`,

				`CREATE TABLE IF NOT EXISTS trip_metrics (
					trip_id TEXT PRIMARY KEY,
					trip_distance_miles REAL NOT NULL,
					avg_speed_mph REAL NOT NULL,
					trip_efficiency REAL NOT NULL,
					hour_of_day INTEGER NOT NULL,
					day_of_week INTEGER NOT NULL,
					day_of_month INTEGER NOT NULL,
					month_of_year INTEGER NOT NULL,
					is_weekend BOOLEAN NOT NULL,
					time_period TEXT NOT NULL,
					distance_category TEXT NOT NULL,
					duration_category TEXT NOT NULL,
					speed_category TEXT NOT NULL,
					FOREIGN KEY (trip_id) REFERENCES trips(trip_id)
				)`,
				`CREATE INDEX idx_metrics_hour ON trip_metrics(hour_of_day)`,
				`CREATE INDEX idx_metrics_time_period ON trip_metrics(time_period)`,
				`CREATE INDEX idx_metrics_distance_category ON trip_metrics(distance_category)`,

				`CREATE TABLE IF NOT EXISTS data_quality_log (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					record_id TEXT NOT NULL,
					issue_type TEXT NOT NULL,
					issue_description TEXT,
					field_name TEXT,
					original_value TEXT,
					logged_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_quality_issue_type ON data_quality_log(issue_type)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Index day_of_week for hourly pattern queries",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`CREATE INDEX IF NOT EXISTS idx_metrics_day_of_week ON trip_metrics(day_of_week)`)
			if err != nil {
				return fmt.Errorf("failed to create index: %w", err)
			}
			return nil
		},
	},
}

// Migrate applies all pending migrations to bring the schema up to
// ExpectedSchemaVersion.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	current, err := s.schemaVersion(ctx)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if m.Version <= current {
			continue
		}

		slog.Info("Applying migration",
			"version", m.Version,
			"description", m.Description)

		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin migration transaction: %w", err)
		}

		if err := m.Up(tx); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", m.Version, err)
		}

		// PRAGMA does not accept bind parameters.
		if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", m.Version)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to set schema version %d: %w", m.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", m.Version, err)
		}
	}

	final, err := s.schemaVersion(ctx)
	if err != nil {
		return err
	}
	if final != ExpectedSchemaVersion {
		return fmt.Errorf("schema version is %d after migration, expected %d", final, ExpectedSchemaVersion)
	}

	return nil
}

func (s *SQLiteStorage) schemaVersion(ctx context.Context) (int, error) {
	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get schema version: %w", err)
	}
	return version, nil
}
