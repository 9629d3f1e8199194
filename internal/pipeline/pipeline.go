// Package pipeline runs the ingestion loop: deduplicate, validate, derive
// features, gate out physically implausible trips, and persist in batches.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"

	"github.com/kkteam/tripflow/internal/analytics"
	"github.com/kkteam/tripflow/internal/config"
	"github.com/kkteam/tripflow/internal/features"
	"github.com/kkteam/tripflow/internal/model"
	"github.com/kkteam/tripflow/internal/service"
	"github.com/kkteam/tripflow/internal/validate"
)

// KindCount is one issue-histogram entry.
type KindCount struct {
	Kind  model.IssueKind `json:"issue_type"`
	Count int             `json:"count"`
}

// RunStats summarizes one ingestion run.
type RunStats struct {
	RunID       string        `json:"run_id"`
	Total       int           `json:"total_records"`
	Valid       int           `json:"valid_records"`
	Invalid     int           `json:"invalid_records"`
	Duplicates  int           `json:"duplicate_records"`
	Issues      []KindCount   `json:"issue_histogram"`
	SuccessRate float64       `json:"success_rate"`
	Elapsed     time.Duration `json:"-"`
}

// Pipeline ingests raw records into storage. A pipeline is built once per
// run; Run may only be called once per source.
type Pipeline struct {
	cfg       config.Ingest
	validator *validate.Validator
	computer  *features.Computer
	writer    service.TripWriter

	// ProgressOutput receives the progress bar. Nil disables it.
	ProgressOutput io.Writer
}

// New creates an ingestion pipeline writing through the given store.
func New(cfg config.Config, writer service.TripWriter) *Pipeline {
	return &Pipeline{
		cfg:       cfg.Ingest,
		validator: validate.New(cfg.Validation),
		computer:  features.NewComputer(),
		writer:    writer,
	}
}

// Run drains the source until it is exhausted or the valid-record cap is
// reached. Valid trips are flushed in transactional batches as they
// accumulate; a flush failure aborts the run and already-committed batches
// stay committed. Issues are written once, at the end of the run.
func (p *Pipeline) Run(ctx context.Context, src RecordSource) (*RunStats, error) {
	start := time.Now()
	stats := &RunStats{RunID: uuid.NewString()}

	slog.Info("Starting ingestion run",
		"run_id", stats.RunID,
		"batch_size", p.cfg.BatchSize,
		"max_valid_records", p.cfg.MaxValidRecords)

	bar := p.newProgressBar()

	seen := make(map[string]struct{})
	var trips []model.Trip
	var metrics []model.TripMetrics
	var issues []model.Issue

	for stats.Valid < p.cfg.MaxValidRecords {
		rec, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}

		stats.Total++
		_ = bar.Add(1)

		// Duplicates are decided before validation; the first occurrence
		// of an id wins.
		id := rec["id"]
		if _, dup := seen[id]; dup {
			stats.Duplicates++
			issues = append(issues, model.NewIssue(id, model.IssueDuplicateRecord,
				"Duplicate trip id", "id", id))
			continue
		}
		seen[id] = struct{}{}

		trip, issue := p.validator.Check(rec)
		if issue != nil {
			stats.Invalid++
			issues = append(issues, *issue)
			continue
		}

		// Sanity gates run on the unrounded values.
		distance := p.computer.Distance(trip)
		if distance > p.cfg.MaxDistanceMi {
			stats.Invalid++
			issues = append(issues, model.NewIssue(trip.ID, model.IssueOutlierDistance,
				fmt.Sprintf("Distance too far: %.1f miles", distance),
				"distance", fmt.Sprintf("%.4f", distance)))
			continue
		}
		speed := p.computer.Speed(distance, trip.DurationSeconds)
		if speed < p.cfg.MinSpeedMPH || speed > p.cfg.MaxSpeedMPH {
			stats.Invalid++
			issues = append(issues, model.NewIssue(trip.ID, model.IssueOutlierSpeed,
				fmt.Sprintf("Speed out of range: %.1f mph", speed),
				"speed", fmt.Sprintf("%.4f", speed)))
			continue
		}

		trips = append(trips, *trip)
		metrics = append(metrics, p.computer.Compute(trip, distance))
		stats.Valid++

		if len(trips) >= p.cfg.BatchSize {
			if err := p.writer.SaveTripBatch(ctx, trips, metrics); err != nil {
				return nil, fmt.Errorf("failed to flush batch: %w", err)
			}
			slog.Debug("Flushed batch", "run_id", stats.RunID, "size", len(trips))
			trips = nil
			metrics = nil
		}
	}

	if len(trips) > 0 {
		if err := p.writer.SaveTripBatch(ctx, trips, metrics); err != nil {
			return nil, fmt.Errorf("failed to flush final batch: %w", err)
		}
	}

	if err := p.writer.SaveIssues(ctx, issues); err != nil {
		return nil, fmt.Errorf("failed to save issue log: %w", err)
	}

	stats.finalize(issues, time.Since(start))

	slog.Info("Ingestion run complete",
		"run_id", stats.RunID,
		"total", stats.Total,
		"valid", stats.Valid,
		"invalid", stats.Invalid,
		"duplicates", stats.Duplicates,
		"success_rate", fmt.Sprintf("%.1f%%", stats.SuccessRate),
		"elapsed", stats.Elapsed)

	return stats, nil
}

func (p *Pipeline) newProgressBar() *progressbar.ProgressBar {
	out := p.ProgressOutput
	if out == nil {
		out = io.Discard
	}
	return progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(out),
		progressbar.OptionSetDescription("ingesting"),
		progressbar.OptionShowCount(),
		progressbar.OptionSpinnerType(14),
	)
}

// finalize fills the derived summary fields in.
func (s *RunStats) finalize(issues []model.Issue, elapsed time.Duration) {
	s.Elapsed = elapsed
	if s.Total > 0 {
		s.SuccessRate = float64(s.Valid) / float64(s.Total) * 100
	}

	counts := make(map[model.IssueKind]int)
	for _, issue := range issues {
		counts[issue.Kind]++
	}

	histogram := make([]KindCount, 0, len(counts))
	for kind, count := range counts {
		histogram = append(histogram, KindCount{Kind: kind, Count: count})
	}
	s.Issues = analytics.Sort(histogram, func(kc KindCount) int { return kc.Count }, true)
}
