package adapter

import "fmt"

// Outcome identifies which branch ResolveView took.
type Outcome int

const (
	// OutcomeCreated means a new view was created and bound.
	OutcomeCreated Outcome = iota
	// OutcomeReused means the view already showed the item and was left alone.
	OutcomeReused
	// OutcomeRefreshed means the view already showed the item but was dirty,
	// so OnPrepare ran again.
	OutcomeRefreshed
	// OutcomeRebound means the view was moved to a different item.
	OutcomeRebound
)

// String returns a short label suitable for metrics.
func (o Outcome) String() string {
	switch o {
	case OutcomeCreated:
		return "created"
	case OutcomeReused:
		return "reused"
	case OutcomeRefreshed:
		return "refreshed"
	case OutcomeRebound:
		return "rebound"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Cause identifies what triggered a data-set-changed signal.
type Cause int

const (
	// CauseCollection means the source reported a membership or order change.
	CauseCollection Cause = iota
	// CauseItem means a bound item reported a content change.
	CauseItem
	// CauseExplicit means NotifyDataSetChanged was called directly.
	CauseExplicit
)

// String returns a short label suitable for metrics.
func (c Cause) String() string {
	switch c {
	case CauseCollection:
		return "collection"
	case CauseItem:
		return "item"
	case CauseExplicit:
		return "explicit"
	default:
		return fmt.Sprintf("Cause(%d)", int(c))
	}
}

// Recorder receives binding statistics. Implementations must be cheap; they
// run on every ResolveView call.
type Recorder interface {
	RecordResolve(outcome Outcome)
	RecordDataSetChanged(cause Cause)
	// RecordSubscriptions reports the number of live item subscriptions
	// whenever it changes.
	RecordSubscriptions(active int)
}

type nopRecorder struct{}

func (nopRecorder) RecordResolve(Outcome)      {}
func (nopRecorder) RecordDataSetChanged(Cause) {}
func (nopRecorder) RecordSubscriptions(int)    {}
