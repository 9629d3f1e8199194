package analytics

import "math"

// DefaultIQRMultiplier is the standard outlier fence width.
const DefaultIQRMultiplier = 1.5

// minOutlierSamples is the smallest data size quartiles are computed for.
const minOutlierSamples = 4

// QuartileResult reports quartile-based outlier detection over one metric.
// Statistical fields are nil when the input had fewer than four values.
type QuartileResult struct {
	Q1                *float64  `json:"q1"`
	Q2                *float64  `json:"q2"`
	Q3                *float64  `json:"q3"`
	IQR               *float64  `json:"iqr"`
	LowerBound        *float64  `json:"lower_bound"`
	UpperBound        *float64  `json:"upper_bound"`
	OutlierPercentage *float64  `json:"outlier_percentage,omitempty"`
	Outliers          []float64 `json:"outliers"`
	OutlierCount      int       `json:"outlier_count"`
	TotalValues       int       `json:"total_values"`
}

// BasicStats reports descriptive statistics over one metric. Fields are
// nil when the input was empty. StdDev is the population standard
// deviation (divide by n).
type BasicStats struct {
	Mean   *float64 `json:"mean"`
	Median *float64 `json:"median"`
	Min    *float64 `json:"min"`
	Max    *float64 `json:"max"`
	Range  *float64 `json:"range"`
	StdDev *float64 `json:"std_dev"`
	Count  int      `json:"count"`
}

// Quartiles computes q1, q2, q3 by the median-of-halves method: q2 is the
// median of the sorted data, q1 the median of the first n/2 elements, q3
// the median of the elements strictly after the midpoint (the middle
// element is skipped when n is odd). ok is false when the input has fewer
// than two values, where the halves would be empty.
func Quartiles(data []float64) (q1, q2, q3 float64, ok bool) {
	if len(data) < 2 {
		return 0, 0, 0, false
	}

	sorted := SortValues(data, false)
	n := len(sorted)

	q2 = median(sorted)

	lower := sorted[:n/2]
	var upper []float64
	if n%2 == 0 {
		upper = sorted[n/2:]
	} else {
		upper = sorted[n/2+1:]
	}

	q1 = median(lower)
	q3 = median(upper)
	return q1, q2, q3, true
}

// DetectOutliers flags values strictly outside the IQR fences
// [q1 - multiplier*iqr, q3 + multiplier*iqr]. Fewer than four values
// yields a result with nil statistics and an empty outlier list.
func DetectOutliers(data []float64, multiplier float64) QuartileResult {
	if len(data) < minOutlierSamples {
		return QuartileResult{Outliers: []float64{}}
	}

	q1, q2, q3, _ := Quartiles(data)
	iqr := q3 - q1
	lower := q1 - multiplier*iqr
	upper := q3 + multiplier*iqr

	outliers := []float64{}
	for _, v := range data {
		if v < lower || v > upper {
			outliers = append(outliers, v)
		}
	}

	pct := float64(len(outliers)) / float64(len(data)) * 100

	return QuartileResult{
		Q1:                &q1,
		Q2:                &q2,
		Q3:                &q3,
		IQR:               &iqr,
		LowerBound:        &lower,
		UpperBound:        &upper,
		Outliers:          outliers,
		OutlierCount:      len(outliers),
		OutlierPercentage: &pct,
		TotalValues:       len(data),
	}
}

// Statistics computes mean, median, min, max, range, and population
// standard deviation. Empty input yields a result with nil fields.
func Statistics(data []float64) BasicStats {
	if len(data) == 0 {
		return BasicStats{}
	}

	n := len(data)
	var total float64
	for _, v := range data {
		total += v
	}
	mean := total / float64(n)

	sorted := SortValues(data, false)
	med := median(sorted)
	minVal := sorted[0]
	maxVal := sorted[n-1]
	rng := maxVal - minVal

	var varianceSum float64
	for _, v := range data {
		d := v - mean
		varianceSum += d * d
	}
	stdDev := math.Sqrt(varianceSum / float64(n))

	return BasicStats{
		Mean:   &mean,
		Median: &med,
		Min:    &minVal,
		Max:    &maxVal,
		Range:  &rng,
		StdDev: &stdDev,
		Count:  n,
	}
}

// median of an already-sorted, non-empty slice.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}
