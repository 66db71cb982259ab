package recorder

import "LedgerCast/internal/model"

// Recorder persists run history for later analysis (e.g. a BI dashboard
// reading the database). The pipeline only appends; nothing is ever read
// back into a run.
type Recorder interface {
	RecordRun(set *model.ForecastSet) error
	Close() error
}
