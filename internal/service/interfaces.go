// Package service defines the contracts between the pipeline, the
// analytics layer, and the persistence layer.
package service

import (
	"context"

	"github.com/kkteam/tripflow/internal/model"
)

// TripWriter is the persistence contract the ingestion pipeline depends
// on. A batch write is transactional: it either fully commits or is
// rolled back.
type TripWriter interface {
	SaveTripBatch(ctx context.Context, trips []model.Trip, metrics []model.TripMetrics) error
	SaveIssues(ctx context.Context, issues []model.Issue) error
}

// TripQuerier is the read contract the query-analytics layer depends on.
type TripQuerier interface {
	// ListTrips returns the joined trip+metrics rows matching the query's
	// filters. Sorting and pagination are applied by the caller.
	ListTrips(ctx context.Context, q model.TripQuery) ([]model.TripRow, error)
	// MetricValues returns all non-null values of the given metric column.
	MetricValues(ctx context.Context, metric string) ([]float64, error)
	// RoutePoints returns the coordinate pairs of every stored trip.
	RoutePoints(ctx context.Context) ([]model.RoutePoint, error)

	// Aggregate reads backing the statistics and insights views.
	OverallStats(ctx context.Context) (*model.OverallStats, error)
	VendorStats(ctx context.Context) ([]model.VendorStats, error)
	TimePeriodDistribution(ctx context.Context) ([]model.PeriodCount, error)
	DistanceDistribution(ctx context.Context) ([]model.CategoryCount, error)
	HourlyStats(ctx context.Context) ([]model.HourlyStat, error)
	HourDayPatterns(ctx context.Context) ([]model.HourDayPattern, error)
	WeekendComparison(ctx context.Context) ([]model.WeekendStats, error)
	SpeedByTimePeriod(ctx context.Context) ([]model.PeriodSpeed, error)
}

// Storage is the full persistence contract.
type Storage interface {
	TripWriter
	TripQuerier

	Migrate(ctx context.Context) error
	Close() error
}
