package history

import (
	"github.com/fencelab/iqrfence/core"
	"github.com/fencelab/iqrfence/schema"
)

// RoundRecorder streams round summaries of a single run into a Store.
type RoundRecorder struct {
	Store *Store
	RunID int64
}

var _ core.Reporter = (*RoundRecorder)(nil) // Compile-time check

// Report persists one round summary under the recorder's run.
func (r *RoundRecorder) Report(rep schema.RoundReport) error {
	return r.Store.RecordRound(r.RunID, rep)
}
