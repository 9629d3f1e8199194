package analytics

import (
	"context"
	"fmt"

	"github.com/kkteam/tripflow/internal/common"
	"github.com/kkteam/tripflow/internal/model"
	"github.com/kkteam/tripflow/internal/service"
)

// Listing defaults when the caller does not set them.
const (
	DefaultListLimit = 100
	DefaultTopRoutes = 10
)

// validMetrics is the set of metrics outlier analysis accepts.
var validMetrics = map[string]bool{
	model.MetricSpeed:    true,
	model.MetricDistance: true,
	model.MetricDuration: true,
}

// Service answers analytic queries over the stored trips. Filtering runs
// in the store; ordering, pagination, and the statistical algorithms run
// here.
type Service struct {
	store service.TripQuerier
}

// NewService creates an analytics service backed by the given store.
func NewService(store service.TripQuerier) *Service {
	return &Service{store: store}
}

// TripPage is one page of a trip listing.
type TripPage struct {
	Trips  []model.TripRow `json:"trips"`
	Total  int             `json:"total"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}

// ListTrips returns the trips matching the query's filters, ordered by the
// requested sort field and paginated. Total counts every matching row
// before pagination. An unrecognized sort field falls back to pickup time
// ordering.
func (s *Service) ListTrips(ctx context.Context, q model.TripQuery) (*TripPage, error) {
	rows, err := s.store.ListTrips(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}

	sorted := sortRows(rows, q.SortBy, q.Descending)

	limit := q.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}

	page := []model.TripRow{}
	if offset < len(sorted) {
		end := offset + limit
		if end > len(sorted) {
			end = len(sorted)
		}
		page = sorted[offset:end]
	}

	return &TripPage{
		Trips:  page,
		Total:  len(sorted),
		Limit:  limit,
		Offset: offset,
	}, nil
}

// sortRows orders rows by the named field. Pickup time is the default and
// the fallback for unknown fields; its key is the stored timestamp string,
// whose layout sorts lexicographically in time order.
func sortRows(rows []model.TripRow, sortBy string, descending bool) []model.TripRow {
	switch sortBy {
	case model.SortByDistance:
		return Sort(rows, func(r model.TripRow) float64 { return r.Metrics.DistanceMiles }, descending)
	case model.SortByDuration:
		return Sort(rows, func(r model.TripRow) int { return r.Trip.DurationSeconds }, descending)
	case model.SortBySpeed:
		return Sort(rows, func(r model.TripRow) float64 { return r.Metrics.AvgSpeedMPH }, descending)
	default:
		return Sort(rows, func(r model.TripRow) string {
			return r.Trip.PickupTime.Format(model.TimestampLayout)
		}, descending)
	}
}

// RouteReport ranks the most frequent routes.
type RouteReport struct {
	Routes       []RouteCount `json:"top_routes"`
	UniqueRoutes int          `json:"unique_routes"`
	TotalTrips   int          `json:"total_trips"`
}

// TopRoutes returns the limit most frequent routes over all stored trips,
// bucketing coordinates to a 3-decimal grid. Ties rank the route seen
// first in storage order higher.
func (s *Service) TopRoutes(ctx context.Context, limit int) (*RouteReport, error) {
	if limit <= 0 {
		limit = DefaultTopRoutes
	}

	points, err := s.store.RoutePoints(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load route points: %w", err)
	}

	counter := NewFrequencyCounter()
	for _, p := range points {
		counter.Add(p.PickupLon, p.PickupLat, p.DropoffLon, p.DropoffLat)
	}

	return &RouteReport{
		Routes:       counter.TopK(limit),
		UniqueRoutes: counter.UniqueCount(),
		TotalTrips:   len(points),
	}, nil
}

// OutlierReport is the quartile and descriptive analysis of one metric.
type OutlierReport struct {
	Metric    string         `json:"metric"`
	Quartiles QuartileResult `json:"quartiles"`
	Stats     BasicStats     `json:"statistics"`
	Count     int            `json:"count"`
}

// Outliers runs IQR outlier detection and descriptive statistics over the
// named metric. An unrecognized metric returns ErrUnknownMetric; a known
// metric with no stored data returns a report with Count 0 and nil
// statistical fields.
func (s *Service) Outliers(ctx context.Context, metric string) (*OutlierReport, error) {
	if !validMetrics[metric] {
		return nil, fmt.Errorf("%w: %q", common.ErrUnknownMetric, metric)
	}

	values, err := s.store.MetricValues(ctx, metric)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s values: %w", metric, err)
	}

	return &OutlierReport{
		Metric:    metric,
		Quartiles: DetectOutliers(values, DefaultIQRMultiplier),
		Stats:     Statistics(values),
		Count:     len(values),
	}, nil
}

// StatisticsReport is the dataset-wide aggregate view.
type StatisticsReport struct {
	Overall       *model.OverallStats   `json:"overall"`
	Vendors       []model.VendorStats   `json:"by_vendor"`
	TimePeriods   []model.PeriodCount   `json:"time_period_distribution"`
	DistanceDistr []model.CategoryCount `json:"distance_distribution"`
}

// Statistics composes the aggregate views of the whole dataset. An empty
// store returns common.ErrNotFound.
func (s *Service) Statistics(ctx context.Context) (*StatisticsReport, error) {
	overall, err := s.store.OverallStats(ctx)
	if err != nil {
		return nil, err
	}

	vendors, err := s.store.VendorStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load vendor stats: %w", err)
	}
	periods, err := s.store.TimePeriodDistribution(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load time period distribution: %w", err)
	}
	distances, err := s.store.DistanceDistribution(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load distance distribution: %w", err)
	}

	return &StatisticsReport{
		Overall:       overall,
		Vendors:       vendors,
		TimePeriods:   periods,
		DistanceDistr: distances,
	}, nil
}

// InsightsReport compares travel behavior across day types and periods.
type InsightsReport struct {
	Weekend       []model.WeekendStats `json:"weekend_vs_weekday"`
	SpeedByPeriod []model.PeriodSpeed  `json:"speed_by_time_period"`
}

// Insights returns the weekend-versus-weekday comparison and the average
// speed per time period.
func (s *Service) Insights(ctx context.Context) (*InsightsReport, error) {
	weekend, err := s.store.WeekendComparison(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load weekend comparison: %w", err)
	}
	speeds, err := s.store.SpeedByTimePeriod(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load speed by time period: %w", err)
	}

	return &InsightsReport{
		Weekend:       weekend,
		SpeedByPeriod: speeds,
	}, nil
}

// HourlyReport groups trips by hour of day, alone and crossed with the
// day of week.
type HourlyReport struct {
	Hourly  []model.HourlyStat     `json:"hourly"`
	HourDay []model.HourDayPattern `json:"hour_by_day"`
}

// HourlyPatterns returns the hourly trip aggregates.
func (s *Service) HourlyPatterns(ctx context.Context) (*HourlyReport, error) {
	hourly, err := s.store.HourlyStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load hourly stats: %w", err)
	}
	hourDay, err := s.store.HourDayPatterns(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load hour/day patterns: %w", err)
	}

	return &HourlyReport{
		Hourly:  hourly,
		HourDay: hourDay,
	}, nil
}
