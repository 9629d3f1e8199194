// Package model defines the core record types shared across the pipeline,
// storage, and analytics layers.
package model

import "time"

// RawRecord is one CSV row keyed by header name. It lives only for the
// duration of a single validation pass.
type RawRecord map[string]string

// TimestampLayout is the wire format for pickup/dropoff timestamps.
const TimestampLayout = "2006-01-02 15:04:05"

// RequiredFields lists the columns a record must carry, in the order the
// validator checks them.
var RequiredFields = []string{
	"id",
	"vendor_id",
	"pickup_datetime",
	"dropoff_datetime",
	"passenger_count",
	"pickup_longitude",
	"pickup_latitude",
	"dropoff_longitude",
	"dropoff_latitude",
	"trip_duration",
}

// Trip is a validated, typed trip record as persisted to the trips table.
type Trip struct {
	PickupTime      time.Time `json:"pickup_datetime" db:"pickup_datetime"`
	DropoffTime     time.Time `json:"dropoff_datetime" db:"dropoff_datetime"`
	ID              string    `json:"trip_id" db:"trip_id"`
	StoreAndFwdFlag string    `json:"store_and_fwd_flag" db:"store_and_fwd_flag"`
	VendorID        int       `json:"vendor_id" db:"vendor_id"`
	PassengerCount  int       `json:"passenger_count" db:"passenger_count"`
	DurationSeconds int       `json:"trip_duration" db:"trip_duration"`
	PickupLon       float64   `json:"pickup_longitude" db:"pickup_longitude"`
	PickupLat       float64   `json:"pickup_latitude" db:"pickup_latitude"`
	DropoffLon      float64   `json:"dropoff_longitude" db:"dropoff_longitude"`
	DropoffLat      float64   `json:"dropoff_latitude" db:"dropoff_latitude"`
}
