// Package validate classifies raw trip records as valid or invalid.
//
// Checks run in a fixed, fail-fast order: the first failing rule decides
// the reported issue kind and no later rule is evaluated. Parsing happens
// here, once; a record that passes comes out as a fully typed model.Trip.
package validate

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/kkteam/tripflow/internal/config"
	"github.com/kkteam/tripflow/internal/model"
)

// zeroDistanceTolerance is the per-axis degree delta under which pickup and
// dropoff count as the same location.
const zeroDistanceTolerance = 0.0001

// durationMismatchTolerance is the allowed gap, in seconds, between the
// recorded duration and the one derived from the timestamps.
const durationMismatchTolerance = 10

// Validator applies the record-level rules. It is a pure function of its
// input and safe for concurrent use.
type Validator struct {
	cfg config.Validation
}

// New creates a validator with the given thresholds.
func New(cfg config.Validation) *Validator {
	return &Validator{cfg: cfg}
}

// Check validates one raw record. On success it returns the parsed trip;
// on failure it returns the single issue that terminated evaluation.
func (v *Validator) Check(rec model.RawRecord) (*model.Trip, *model.Issue) {
	recordID := rec["id"]

	// Rule 1: required fields.
	for _, field := range model.RequiredFields {
		if strings.TrimSpace(rec[field]) == "" {
			issue := model.NewIssue(recordID, model.IssueMissingValues,
				"Missing "+field, field, "")
			return nil, &issue
		}
	}

	// Rule 2: coordinate parse and NYC bounding box, pickup then dropoff.
	pickupLon, err := strconv.ParseFloat(rec["pickup_longitude"], 64)
	if err != nil {
		return nil, parseIssue(recordID, err)
	}
	pickupLat, err := strconv.ParseFloat(rec["pickup_latitude"], 64)
	if err != nil {
		return nil, parseIssue(recordID, err)
	}
	dropoffLon, err := strconv.ParseFloat(rec["dropoff_longitude"], 64)
	if err != nil {
		return nil, parseIssue(recordID, err)
	}
	dropoffLat, err := strconv.ParseFloat(rec["dropoff_latitude"], 64)
	if err != nil {
		return nil, parseIssue(recordID, err)
	}

	if !v.inBounds(pickupLon, pickupLat) {
		issue := model.NewIssue(recordID, model.IssueInvalidCoords,
			"Pickup outside NYC", "pickup_coords",
			fmt.Sprintf("%g,%g", pickupLon, pickupLat))
		return nil, &issue
	}
	if !v.inBounds(dropoffLon, dropoffLat) {
		issue := model.NewIssue(recordID, model.IssueInvalidCoords,
			"Dropoff outside NYC", "dropoff_coords",
			fmt.Sprintf("%g,%g", dropoffLon, dropoffLat))
		return nil, &issue
	}

	// Rule 3: zero-distance trips.
	if math.Abs(pickupLon-dropoffLon) < zeroDistanceTolerance &&
		math.Abs(pickupLat-dropoffLat) < zeroDistanceTolerance {
		issue := model.NewIssue(recordID, model.IssueZeroDistance,
			"Pickup and dropoff same location", "coordinates", "")
		return nil, &issue
	}

	// Rule 4: duration range.
	duration, err := strconv.Atoi(rec["trip_duration"])
	if err != nil {
		return nil, parseIssue(recordID, err)
	}
	switch {
	case duration <= 0:
		issue := model.NewIssue(recordID, model.IssueNegativeDuration,
			"Duration is negative or zero", "trip_duration", strconv.Itoa(duration))
		return nil, &issue
	case duration < v.cfg.MinDurationSeconds:
		issue := model.NewIssue(recordID, model.IssueInvalidDuration,
			fmt.Sprintf("Duration too short: %ds", duration),
			"trip_duration", strconv.Itoa(duration))
		return nil, &issue
	case duration > v.cfg.MaxDurationSeconds:
		issue := model.NewIssue(recordID, model.IssueInvalidDuration,
			fmt.Sprintf("Duration too long: %ds", duration),
			"trip_duration", strconv.Itoa(duration))
		return nil, &issue
	}

	// Rule 5: passenger count.
	passengers, err := strconv.Atoi(rec["passenger_count"])
	if err != nil {
		return nil, parseIssue(recordID, err)
	}
	if passengers < v.cfg.MinPassengers || passengers > v.cfg.MaxPassengers {
		issue := model.NewIssue(recordID, model.IssueInvalidPassenger,
			fmt.Sprintf("Invalid count: %d", passengers),
			"passenger_count", strconv.Itoa(passengers))
		return nil, &issue
	}

	// Rule 6: timestamp parse and ordering.
	pickupTime, err := time.Parse(model.TimestampLayout, rec["pickup_datetime"])
	if err != nil {
		return nil, parseIssue(recordID, err)
	}
	dropoffTime, err := time.Parse(model.TimestampLayout, rec["dropoff_datetime"])
	if err != nil {
		return nil, parseIssue(recordID, err)
	}
	if !dropoffTime.After(pickupTime) {
		issue := model.NewIssue(recordID, model.IssueInvalidDatetime,
			"Dropoff before or equal to pickup", "datetime", "")
		return nil, &issue
	}

	// Rule 7: recorded duration must agree with the timestamps.
	actual := dropoffTime.Sub(pickupTime).Seconds()
	if math.Abs(actual-float64(duration)) > durationMismatchTolerance {
		issue := model.NewIssue(recordID, model.IssueInvalidDuration,
			"Duration mismatch with timestamps", "trip_duration",
			fmt.Sprintf("recorded:%d, actual:%.1f", duration, actual))
		return nil, &issue
	}

	vendorID, err := strconv.Atoi(rec["vendor_id"])
	if err != nil {
		return nil, parseIssue(recordID, err)
	}

	return &model.Trip{
		ID:              recordID,
		VendorID:        vendorID,
		PickupTime:      pickupTime,
		DropoffTime:     dropoffTime,
		PassengerCount:  passengers,
		PickupLon:       pickupLon,
		PickupLat:       pickupLat,
		DropoffLon:      dropoffLon,
		DropoffLat:      dropoffLat,
		StoreAndFwdFlag: rec["store_and_fwd_flag"],
		DurationSeconds: duration,
	}, nil
}

func (v *Validator) inBounds(lon, lat float64) bool {
	return lon >= v.cfg.LonMin && lon <= v.cfg.LonMax &&
		lat >= v.cfg.LatMin && lat <= v.cfg.LatMax
}

// parseIssue wraps a parser failure as an invalid_datetime issue carrying
// the parser's message.
func parseIssue(recordID string, err error) *model.Issue {
	issue := model.NewIssue(recordID, model.IssueInvalidDatetime,
		fmt.Sprintf("Parse error: %v", err), "datetime", "")
	return &issue
}
