package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/kkteam/tripflow/internal/model"
)

// Helper function to create test storage.
func createTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	return store
}

// Helper to build a parallel trip/metrics batch.
func createTestBatch(count int) ([]model.Trip, []model.TripMetrics) {
	trips := make([]model.Trip, count)
	metrics := make([]model.TripMetrics, count)
	base := time.Date(2016, 3, 14, 8, 0, 0, 0, time.UTC)

	for i := 0; i < count; i++ {
		id := fmt.Sprintf("id%05d", i+1)
		pickup := base.Add(time.Duration(i) * time.Hour)
		trips[i] = model.Trip{
			ID:              id,
			VendorID:        (i % 2) + 1,
			PickupTime:      pickup,
			DropoffTime:     pickup.Add(10 * time.Minute),
			PassengerCount:  1,
			PickupLon:       -73.98 - float64(i)*0.001,
			PickupLat:       40.76,
			DropoffLon:      -73.96,
			DropoffLat:      40.77,
			StoreAndFwdFlag: "N",
			DurationSeconds: 600 + i*60,
		}
		metrics[i] = model.TripMetrics{
			TripID:           id,
			DistanceMiles:    1.0 + float64(i),
			AvgSpeedMPH:      6.0 + float64(i)*2,
			Efficiency:       0.1 + float64(i)*0.01,
			HourOfDay:        pickup.Hour(),
			DayOfWeek:        (int(pickup.Weekday()) + 6) % 7,
			DayOfMonth:       pickup.Day(),
			MonthOfYear:      int(pickup.Month()),
			IsWeekend:        false,
			TimePeriod:       model.PeriodMorningRush,
			DistanceCategory: model.DistanceMedium,
			DurationCategory: model.DurationModerate,
			SpeedCategory:    model.SpeedSlow,
		}
	}
	return trips, metrics
}

func TestMigrate_Idempotent(t *testing.T) {
	store := createTestStorage(t)
	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("second migrate failed: %v", err)
	}

	version, err := store.schemaVersion(context.Background())
	if err != nil {
		t.Fatalf("schemaVersion: %v", err)
	}
	if version != ExpectedSchemaVersion {
		t.Errorf("schema version = %d, want %d", version, ExpectedSchemaVersion)
	}
}

func TestSaveTripBatch_RoundTrip(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	trips, metrics := createTestBatch(5)
	if err := store.SaveTripBatch(ctx, trips, metrics); err != nil {
		t.Fatalf("SaveTripBatch: %v", err)
	}

	rows, err := store.ListTrips(ctx, model.TripQuery{})
	if err != nil {
		t.Fatalf("ListTrips: %v", err)
	}
	if len(rows) != 5 {
		t.Fatalf("row count = %d, want 5", len(rows))
	}

	byID := make(map[string]model.TripRow, len(rows))
	for _, r := range rows {
		byID[r.Trip.ID] = r
	}
	got, ok := byID["id00001"]
	if !ok {
		t.Fatal("trip id00001 not returned")
	}
	if !got.Trip.PickupTime.Equal(trips[0].PickupTime) {
		t.Errorf("pickup time = %v, want %v", got.Trip.PickupTime, trips[0].PickupTime)
	}
	if got.Metrics.DistanceMiles != 1.0 {
		t.Errorf("distance = %v, want 1.0", got.Metrics.DistanceMiles)
	}
	if got.Metrics.TimePeriod != model.PeriodMorningRush {
		t.Errorf("time period = %s", got.Metrics.TimePeriod)
	}
}

func TestSaveTripBatch_MismatchedBatchRejected(t *testing.T) {
	store := createTestStorage(t)
	trips, metrics := createTestBatch(2)

	if err := store.SaveTripBatch(context.Background(), trips, metrics[:1]); err == nil {
		t.Fatal("expected error for mismatched batch lengths")
	}
}

func TestSaveTripBatch_DuplicateIDRollsBackWholeBatch(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	trips, metrics := createTestBatch(2)
	if err := store.SaveTripBatch(ctx, trips, metrics); err != nil {
		t.Fatalf("first batch: %v", err)
	}

	// Second batch shares an id with the first; the primary key violation
	// must roll back the entire batch.
	more, moreMetrics := createTestBatch(3)
	more[2].ID = trips[0].ID
	moreMetrics[2].TripID = trips[0].ID

	if err := store.SaveTripBatch(ctx, more, moreMetrics); err == nil {
		t.Fatal("expected primary key violation")
	}

	rows, err := store.ListTrips(ctx, model.TripQuery{})
	if err != nil {
		t.Fatalf("ListTrips: %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("row count after failed batch = %d, want 2 (no partial commit)", len(rows))
	}
}

func TestListTrips_Filters(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	trips, metrics := createTestBatch(6)
	if err := store.SaveTripBatch(ctx, trips, metrics); err != nil {
		t.Fatalf("SaveTripBatch: %v", err)
	}

	minDist := 3.5
	rows, err := store.ListTrips(ctx, model.TripQuery{MinDistance: &minDist})
	if err != nil {
		t.Fatalf("ListTrips: %v", err)
	}
	if len(rows) != 3 {
		t.Errorf("min distance filter returned %d rows, want 3", len(rows))
	}

	vendor := 1
	rows, err = store.ListTrips(ctx, model.TripQuery{VendorID: &vendor})
	if err != nil {
		t.Fatalf("ListTrips: %v", err)
	}
	if len(rows) != 3 {
		t.Errorf("vendor filter returned %d rows, want 3", len(rows))
	}

	maxDur := 720
	rows, err = store.ListTrips(ctx, model.TripQuery{MaxDuration: &maxDur})
	if err != nil {
		t.Fatalf("ListTrips: %v", err)
	}
	if len(rows) != 3 {
		t.Errorf("max duration filter returned %d rows, want 3", len(rows))
	}
}

func TestMetricValues(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	trips, metrics := createTestBatch(4)
	if err := store.SaveTripBatch(ctx, trips, metrics); err != nil {
		t.Fatalf("SaveTripBatch: %v", err)
	}

	speeds, err := store.MetricValues(ctx, model.MetricSpeed)
	if err != nil {
		t.Fatalf("MetricValues(speed): %v", err)
	}
	if len(speeds) != 4 {
		t.Errorf("speed values = %d, want 4", len(speeds))
	}

	durations, err := store.MetricValues(ctx, model.MetricDuration)
	if err != nil {
		t.Fatalf("MetricValues(duration): %v", err)
	}
	if len(durations) != 4 || durations[0] != 600 {
		t.Errorf("duration values = %v", durations)
	}

	if _, err := store.MetricValues(ctx, "passenger_count"); err == nil {
		t.Error("expected unknown metric error")
	}
}

func TestSaveIssuesAndAggregates(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	issues := []model.Issue{
		model.NewIssue("r1", model.IssueMissingValues, "Missing id", "id", ""),
		model.NewIssue("r2", model.IssueInvalidCoords, "Pickup outside NYC", "pickup_coords", "-1,2"),
	}
	if err := store.SaveIssues(ctx, issues); err != nil {
		t.Fatalf("SaveIssues: %v", err)
	}

	trips, metrics := createTestBatch(4)
	if err := store.SaveTripBatch(ctx, trips, metrics); err != nil {
		t.Fatalf("SaveTripBatch: %v", err)
	}

	overall, err := store.OverallStats(ctx)
	if err != nil {
		t.Fatalf("OverallStats: %v", err)
	}
	if overall.TotalTrips != 4 {
		t.Errorf("total trips = %d, want 4", overall.TotalTrips)
	}
	if overall.TotalDistance != 1+2+3+4 {
		t.Errorf("total distance = %v, want 10", overall.TotalDistance)
	}
	if overall.EarliestTrip != "2016-03-14 08:00:00" {
		t.Errorf("earliest trip = %q", overall.EarliestTrip)
	}

	vendors, err := store.VendorStats(ctx)
	if err != nil {
		t.Fatalf("VendorStats: %v", err)
	}
	if len(vendors) != 2 {
		t.Errorf("vendor groups = %d, want 2", len(vendors))
	}

	periods, err := store.TimePeriodDistribution(ctx)
	if err != nil {
		t.Fatalf("TimePeriodDistribution: %v", err)
	}
	if len(periods) == 0 || periods[0].TripCount < periods[len(periods)-1].TripCount {
		t.Errorf("period distribution not descending: %v", periods)
	}
}

func TestOverallStats_EmptyStore(t *testing.T) {
	store := createTestStorage(t)
	if _, err := store.OverallStats(context.Background()); err == nil {
		t.Error("expected not-found error on empty store")
	}
}

func TestRoutePoints(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	trips, metrics := createTestBatch(3)
	if err := store.SaveTripBatch(ctx, trips, metrics); err != nil {
		t.Fatalf("SaveTripBatch: %v", err)
	}

	points, err := store.RoutePoints(ctx)
	if err != nil {
		t.Fatalf("RoutePoints: %v", err)
	}
	if len(points) != 3 {
		t.Errorf("route points = %d, want 3", len(points))
	}
}
