package core

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/fencelab/iqrfence/schema"
)

// minFitPoints is the smallest sample for a non-degenerate line fit.
const minFitPoints = 2

// FitLine fits y = slope*x + intercept by ordinary least squares.
// The sequences must be the same length and hold at least two points.
// Distinct x values are not required; a fully degenerate x set yields a
// numerically unstable slope and is accepted as-is.
func FitLine(xs, ys []float64) (schema.FitResult, error) {
	if len(xs) != len(ys) {
		return schema.FitResult{}, fmt.Errorf("x has %d points, y has %d: %w",
			len(xs), len(ys), schema.ErrDimensionMismatch)
	}
	if len(xs) < minFitPoints {
		return schema.FitResult{}, fmt.Errorf("line fit needs at least %d points, got %d: %w",
			minFitPoints, len(xs), schema.ErrInsufficientData)
	}

	intercept, slope := stat.LinearRegression(xs, ys, nil, false)
	return schema.FitResult{
		Slope:     slope,
		Intercept: intercept,
		RSquared:  stat.RSquared(xs, ys, nil, intercept, slope),
	}, nil
}
