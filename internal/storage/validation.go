package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kkteam/tripflow/internal/model"
)

// Validation errors.
var (
	ErrNilContext  = errors.New("context cannot be nil")
	ErrEmptyString = errors.New("string parameter cannot be empty")
	ErrNilSlice    = errors.New("slice cannot be nil")
	ErrBatchShape  = errors.New("trips and metrics batches must have equal length")
	ErrInvalidTrip = errors.New("invalid trip")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateBatch checks a trip batch and its parallel metrics batch.
func validateBatch(trips []model.Trip, metrics []model.TripMetrics) error {
	if trips == nil {
		return fmt.Errorf("%w: trips", ErrNilSlice)
	}
	if len(trips) != len(metrics) {
		return fmt.Errorf("%w: %d trips, %d metrics", ErrBatchShape, len(trips), len(metrics))
	}
	for i := range trips {
		if strings.TrimSpace(trips[i].ID) == "" {
			return fmt.Errorf("%w: empty id at index %d", ErrInvalidTrip, i)
		}
		if trips[i].ID != metrics[i].TripID {
			return fmt.Errorf("%w: trip %q paired with metrics for %q", ErrInvalidTrip, trips[i].ID, metrics[i].TripID)
		}
	}
	return nil
}
