package model

// IssueKind identifies a data quality problem class.
type IssueKind string

// Issue kinds recorded to the data quality log.
const (
	IssueMissingValues    IssueKind = "missing_values"
	IssueInvalidCoords    IssueKind = "invalid_coords"
	IssueZeroDistance     IssueKind = "zero_distance"
	IssueNegativeDuration IssueKind = "negative_duration"
	IssueInvalidDuration  IssueKind = "invalid_duration"
	IssueInvalidPassenger IssueKind = "invalid_passenger_count"
	IssueInvalidDatetime  IssueKind = "invalid_datetime"
	IssueDuplicateRecord  IssueKind = "duplicate_record"
	IssueOutlierDistance  IssueKind = "outlier_distance"
	IssueOutlierSpeed     IssueKind = "outlier_speed"
)

// maxRawValueLen caps the stored copy of the offending raw value.
const maxRawValueLen = 100

// Issue is one data quality log entry.
type Issue struct {
	RecordID    string    `json:"record_id" db:"record_id"`
	Kind        IssueKind `json:"issue_type" db:"issue_type"`
	Description string    `json:"issue_description" db:"issue_description"`
	Field       string    `json:"field_name" db:"field_name"`
	RawValue    string    `json:"original_value" db:"original_value"`
}

// NewIssue builds an issue entry, truncating the raw value to the stored
// column width.
func NewIssue(recordID string, kind IssueKind, description, field, rawValue string) Issue {
	if len(rawValue) > maxRawValueLen {
		rawValue = rawValue[:maxRawValueLen]
	}
	return Issue{
		RecordID:    recordID,
		Kind:        kind,
		Description: description,
		Field:       field,
		RawValue:    rawValue,
	}
}
