// Package core implements the residual outlier analysis: least-squares line
// fit, Excel-style quartile estimation, 1.5*IQR fencing under one or both axis
// orientations, and the iterative removal loop.
package core

import (
	"fmt"
	"math"

	"github.com/fencelab/iqrfence/schema"
)

// minQuartilePoints is the smallest residual count for which both quartile
// ranks land on valid neighbor indices.
const minQuartilePoints = 4

// LowerQuartileRank returns the 1-based fractional position of the first
// quartile for n residuals.
func LowerQuartileRank(n int) float64 {
	return 0.25 * float64(n+3)
}

// UpperQuartileRank returns the 1-based fractional position of the third
// quartile for n residuals.
func UpperQuartileRank(n int) float64 {
	return 0.25 * float64(3*n+1)
}

// Quartile computes the value at a 1-based fractional rank by linear
// interpolation between adjacent order statistics. When the rank lands exactly
// on an order statistic the value is returned untouched, with no interpolation
// drift. The interpolation step uses the absolute neighbor difference, so it
// is non-negative regardless of sort direction.
//
// This is the Excel PERCENTILE-style method. It intentionally differs from the
// interpolation used by common library quantile functions; do not substitute
// one.
//
// sorted must be ascending with at least minQuartilePoints values.
func Quartile(sorted []float64, rank float64) (float64, error) {
	if len(sorted) < minQuartilePoints {
		return 0, fmt.Errorf("quartile needs at least %d points, got %d: %w",
			minQuartilePoints, len(sorted), schema.ErrInsufficientData)
	}

	whole := math.Floor(rank)
	lower := int(whole) - 1
	frac := rank - whole
	if frac == 0 {
		return sorted[lower], nil
	}

	step := math.Abs(sorted[lower+1] - sorted[lower])
	return sorted[lower] + frac*step, nil
}
