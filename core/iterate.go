package core

import (
	"fmt"

	"github.com/fencelab/iqrfence/internal/contract"
	"github.com/fencelab/iqrfence/schema"
)

// Reporter consumes one summary row per detector invocation. Reporter
// failures degrade gracefully: they are logged and never abort a round.
type Reporter interface {
	Report(schema.RoundReport) error
}

// Plotter renders one round's diagnostics. Like Reporter, failures are
// side-effect-only and never feed back into the analysis.
type Plotter interface {
	PlotRound(round int, ds *schema.Dataset, results []DetectResult, outliers []string) error
}

// Options controls the removal loop.
type Options struct {
	SwapAxes  bool // flag points under either axis orientation
	Iterate   bool // repeat until a round produces no outliers
	MaxRounds int  // 0 = unbounded, matching the reference semantics
}

// Run executes fit -> detect -> remove rounds until a round produces no
// outliers. Each round owns its dataset exclusively; removal produces a fresh
// filtered copy, so round N+1 never aliases round N. With Iterate off the
// loop short-circuits after round one regardless of the outlier count.
//
// MaxRounds caps the loop as a safety valve against data that never
// converges. When the cap is hit the partial result carries Converged=false;
// the default of zero keeps the loop unbounded. Core errors (dimension
// mismatch, insufficient data) abort the run with no partial result.
func Run(ds *schema.Dataset, opts Options, reporter Reporter, plotter Plotter) (*schema.RunResult, error) {
	current := ds
	result := &schema.RunResult{}

	for round := 1; ; round++ {
		results, union, err := detectRound(current, opts.SwapAxes)
		if err != nil {
			return nil, fmt.Errorf("round %d: %w", round, err)
		}

		result.Rounds = round
		for _, r := range results {
			report := schema.RoundReport{
				Round:       round,
				Orientation: r.Orientation,
				Stats:       r.Stats,
				OutlierIDs:  r.OutlierIDs,
				DatasetSize: current.Len(),
				Fit:         r.Fit,
			}
			result.Reports = append(result.Reports, report)
			if reporter != nil {
				if err := reporter.Report(report); err != nil {
					contract.LogWarn("Round reporting failed", err)
				}
			}
		}

		if plotter != nil {
			if err := plotter.PlotRound(round, current, results, union); err != nil {
				contract.LogWarn("Round plotting failed", err)
			}
		}

		if len(union) == 0 {
			result.Converged = true
			break
		}
		current = current.Remove(schema.IDSet(union))

		if !opts.Iterate {
			break
		}
		if opts.MaxRounds > 0 && round >= opts.MaxRounds {
			break
		}
	}

	result.Clean = current
	return result, nil
}

// detectRound runs the detector once or twice depending on the swap setting
// and returns the per-orientation results plus the merged outlier set.
func detectRound(ds *schema.Dataset, swap bool) ([]DetectResult, []string, error) {
	if swap {
		xy, yx, union, err := DetectDual(ds)
		if err != nil {
			return nil, nil, err
		}
		return []DetectResult{xy, yx}, union, nil
	}

	xy, err := DetectOrientation(ds, schema.OrientationXY)
	if err != nil {
		return nil, nil, err
	}
	return []DetectResult{xy}, xy.OutlierIDs, nil
}
