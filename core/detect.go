package core

import (
	"fmt"
	"sort"

	"github.com/fencelab/iqrfence/schema"
)

// fenceMultiplier scales the IQR into the outlier fences.
const fenceMultiplier = 1.5

// residual pairs a record identifier with its fit residual so that identity
// never has to be re-derived from the residual value after the fact.
type residual struct {
	id    string
	value float64
}

// DetectResult is the outcome of a single-orientation detector pass.
type DetectResult struct {
	Orientation schema.Orientation
	OutlierIDs  []string // flagged identifiers, in dataset order
	Fit         schema.FitResult
	Stats       schema.QuartileStats
}

// Detect runs the residual outlier analysis on parallel id/x/y sequences:
// fit ys against xs, compute the residual predicted-minus-observed per record,
// derive the Excel-style quartiles of the residual distribution and flag every
// record whose residual sits on or beyond a 1.5*IQR fence. Both fence
// comparisons are inclusive, so a residual exactly at a fence counts as an
// outlier.
func Detect(ids []string, xs, ys []float64) (DetectResult, error) {
	if len(ids) != len(xs) || len(xs) != len(ys) {
		return DetectResult{}, fmt.Errorf("ids/x/y lengths differ (%d/%d/%d): %w",
			len(ids), len(xs), len(ys), schema.ErrDimensionMismatch)
	}

	fit, err := FitLine(xs, ys)
	if err != nil {
		return DetectResult{}, err
	}

	residuals := make([]residual, len(ids))
	for i := range ids {
		residuals[i] = residual{id: ids[i], value: fit.Predict(xs[i]) - ys[i]}
	}

	stats, err := fenceStats(residuals)
	if err != nil {
		return DetectResult{}, err
	}

	var outliers []string
	for _, r := range residuals {
		if r.value <= stats.LowerFence || r.value >= stats.UpperFence {
			outliers = append(outliers, r.id)
		}
	}

	return DetectResult{
		Orientation: schema.OrientationXY,
		OutlierIDs:  outliers,
		Fit:         fit,
		Stats:       stats,
	}, nil
}

// fenceStats sorts the residual values and derives the quartiles, IQR and
// outlier fences.
func fenceStats(residuals []residual) (schema.QuartileStats, error) {
	sorted := make([]float64, len(residuals))
	for i, r := range residuals {
		sorted[i] = r.value
	}
	sort.Float64s(sorted)

	n := len(sorted)
	q1, err := Quartile(sorted, LowerQuartileRank(n))
	if err != nil {
		return schema.QuartileStats{}, err
	}
	q3, err := Quartile(sorted, UpperQuartileRank(n))
	if err != nil {
		return schema.QuartileStats{}, err
	}

	iqr := q3 - q1
	return schema.QuartileStats{
		Q1:         q1,
		Q3:         q3,
		IQR:        iqr,
		LowerFence: q1 - fenceMultiplier*iqr,
		UpperFence: q3 + fenceMultiplier*iqr,
	}, nil
}

// DetectOrientation runs Detect with the dataset's axes assigned per the
// orientation: OrientationXY fits y against x, OrientationYX swaps the roles.
func DetectOrientation(ds *schema.Dataset, orient schema.Orientation) (DetectResult, error) {
	var res DetectResult
	var err error
	switch orient {
	case schema.OrientationYX:
		res, err = Detect(ds.IDs(), ds.Ys(), ds.Xs())
	default:
		res, err = Detect(ds.IDs(), ds.Xs(), ds.Ys())
	}
	if err != nil {
		return DetectResult{}, err
	}
	res.Orientation = orient
	return res, nil
}

// DetectDual runs the detector under both axis orientations and merges the
// flagged identifier sets. A point is an outlier if either orientation flags
// it; a point flagged by both counts once.
func DetectDual(ds *schema.Dataset) (xy, yx DetectResult, union []string, err error) {
	xy, err = DetectOrientation(ds, schema.OrientationXY)
	if err != nil {
		return DetectResult{}, DetectResult{}, nil, err
	}
	yx, err = DetectOrientation(ds, schema.OrientationYX)
	if err != nil {
		return DetectResult{}, DetectResult{}, nil, err
	}
	return xy, yx, mergeOutliers(xy.OutlierIDs, yx.OutlierIDs), nil
}

// mergeOutliers unions two flagged identifier lists, deduplicated, keeping
// first-seen order for deterministic output.
func mergeOutliers(primary, secondary []string) []string {
	seen := make(map[string]struct{}, len(primary)+len(secondary))
	merged := make([]string, 0, len(primary)+len(secondary))
	for _, id := range primary {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			merged = append(merged, id)
		}
	}
	for _, id := range secondary {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			merged = append(merged, id)
		}
	}
	return merged
}
