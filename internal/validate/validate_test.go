package validate

import (
	"testing"

	"github.com/kkteam/tripflow/internal/config"
	"github.com/kkteam/tripflow/internal/model"
)

func validRecord() model.RawRecord {
	return model.RawRecord{
		"id":                 "id2875421",
		"vendor_id":          "2",
		"pickup_datetime":    "2016-03-14 17:24:55",
		"dropoff_datetime":   "2016-03-14 17:32:30",
		"passenger_count":    "1",
		"pickup_longitude":   "-73.982155",
		"pickup_latitude":    "40.767937",
		"dropoff_longitude":  "-73.964630",
		"dropoff_latitude":   "40.765602",
		"store_and_fwd_flag": "N",
		"trip_duration":      "455",
	}
}

func newTestValidator() *Validator {
	return New(config.Default().Validation)
}

func TestValidator_ValidRecord(t *testing.T) {
	trip, issue := newTestValidator().Check(validRecord())
	if issue != nil {
		t.Fatalf("expected valid record, got issue %+v", *issue)
	}
	if trip.ID != "id2875421" {
		t.Errorf("trip ID = %q, want id2875421", trip.ID)
	}
	if trip.VendorID != 2 {
		t.Errorf("vendor ID = %d, want 2", trip.VendorID)
	}
	if trip.DurationSeconds != 455 {
		t.Errorf("duration = %d, want 455", trip.DurationSeconds)
	}
	if trip.PickupLon != -73.982155 {
		t.Errorf("pickup lon = %v", trip.PickupLon)
	}
}

func TestValidator_RuleOrder(t *testing.T) {
	tests := []struct {
		mutate    func(model.RawRecord)
		name      string
		wantField string
		wantKind  model.IssueKind
	}{
		{
			name:      "missing pickup latitude reports that field",
			mutate:    func(r model.RawRecord) { delete(r, "pickup_latitude") },
			wantKind:  model.IssueMissingValues,
			wantField: "pickup_latitude",
		},
		{
			name:      "blank field counts as missing",
			mutate:    func(r model.RawRecord) { r["trip_duration"] = "  " },
			wantKind:  model.IssueMissingValues,
			wantField: "trip_duration",
		},
		{
			name:      "pickup outside NYC",
			mutate:    func(r model.RawRecord) { r["pickup_latitude"] = "34.0522" },
			wantKind:  model.IssueInvalidCoords,
			wantField: "pickup_coords",
		},
		{
			name: "dropoff outside NYC reported only after pickup passes",
			mutate: func(r model.RawRecord) {
				r["dropoff_longitude"] = "-118.2437"
				r["dropoff_latitude"] = "34.0522"
			},
			wantKind:  model.IssueInvalidCoords,
			wantField: "dropoff_coords",
		},
		{
			name: "near-identical endpoints are zero distance even with bad duration",
			mutate: func(r model.RawRecord) {
				r["dropoff_longitude"] = "-73.982160"
				r["dropoff_latitude"] = "40.767930"
				r["trip_duration"] = "-5"
			},
			wantKind:  model.IssueZeroDistance,
			wantField: "coordinates",
		},
		{
			name:      "negative duration",
			mutate:    func(r model.RawRecord) { r["trip_duration"] = "-10" },
			wantKind:  model.IssueNegativeDuration,
			wantField: "trip_duration",
		},
		{
			name:      "duration too short",
			mutate:    func(r model.RawRecord) { r["trip_duration"] = "30" },
			wantKind:  model.IssueInvalidDuration,
			wantField: "trip_duration",
		},
		{
			name:      "duration too long",
			mutate:    func(r model.RawRecord) { r["trip_duration"] = "90000" },
			wantKind:  model.IssueInvalidDuration,
			wantField: "trip_duration",
		},
		{
			name: "passenger count out of range",
			mutate: func(r model.RawRecord) {
				r["passenger_count"] = "0"
			},
			wantKind:  model.IssueInvalidPassenger,
			wantField: "passenger_count",
		},
		{
			name: "dropoff not after pickup",
			mutate: func(r model.RawRecord) {
				r["dropoff_datetime"] = "2016-03-14 17:24:55"
				// Keep the recorded duration parseable so the rule order is
				// what surfaces the issue.
			},
			wantKind:  model.IssueInvalidDatetime,
			wantField: "datetime",
		},
		{
			name: "duration mismatch beyond tolerance",
			mutate: func(r model.RawRecord) {
				r["trip_duration"] = "500"
			},
			wantKind:  model.IssueInvalidDuration,
			wantField: "trip_duration",
		},
		{
			name:      "unparseable coordinate maps to datetime parse issue",
			mutate:    func(r model.RawRecord) { r["pickup_longitude"] = "west" },
			wantKind:  model.IssueInvalidDatetime,
			wantField: "datetime",
		},
		{
			name:      "malformed timestamp maps to datetime parse issue",
			mutate:    func(r model.RawRecord) { r["pickup_datetime"] = "14/03/2016 17:24" },
			wantKind:  model.IssueInvalidDatetime,
			wantField: "datetime",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := validRecord()
			tt.mutate(rec)

			trip, issue := newTestValidator().Check(rec)
			if trip != nil {
				t.Fatal("expected invalid record, got a trip")
			}
			if issue == nil {
				t.Fatal("expected an issue, got none")
			}
			if issue.Kind != tt.wantKind {
				t.Errorf("issue kind = %s, want %s", issue.Kind, tt.wantKind)
			}
			if issue.Field != tt.wantField {
				t.Errorf("issue field = %q, want %q", issue.Field, tt.wantField)
			}
			if issue.RecordID != rec["id"] && tt.wantField != "id" {
				t.Errorf("issue record id = %q", issue.RecordID)
			}
		})
	}
}

func TestValidator_DurationToleranceBoundary(t *testing.T) {
	// Timestamps span 455s; a recorded duration 10s off is still accepted,
	// 11s off is not.
	rec := validRecord()
	rec["trip_duration"] = "465"
	if _, issue := newTestValidator().Check(rec); issue != nil {
		t.Errorf("10s gap should be tolerated, got %+v", *issue)
	}

	rec = validRecord()
	rec["trip_duration"] = "466"
	_, issue := newTestValidator().Check(rec)
	if issue == nil || issue.Kind != model.IssueInvalidDuration {
		t.Errorf("11s gap should be a duration mismatch, got %+v", issue)
	}
}

func TestValidator_RawValueTruncation(t *testing.T) {
	long := make([]byte, 150)
	for i := range long {
		long[i] = 'x'
	}
	issue := model.NewIssue("r1", model.IssueInvalidDatetime, "d", "f", string(long))
	if len(issue.RawValue) != 100 {
		t.Errorf("raw value length = %d, want 100", len(issue.RawValue))
	}
}
