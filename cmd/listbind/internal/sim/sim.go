// Package sim replays a scenario against a real adapter and reference host.
package sim

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/go-drift/listbind/cmd/listbind/internal/scenario"
	"github.com/go-drift/listbind/pkg/adapter"
	"github.com/go-drift/listbind/pkg/host"
	"github.com/go-drift/listbind/pkg/observable"
	"github.com/go-drift/listbind/pkg/platform"
)

// Row is the simulated list item.
type Row struct {
	observable.Notifier
	ID       int
	Revision int
}

// Title is the text a row view shows.
func (r *Row) Title() string {
	return fmt.Sprintf("row %d (rev %d)", r.ID, r.Revision)
}

// RowView is the simulated view.
type RowView struct {
	ID   int
	Text string
	row  *Row
}

// SetDataContext implements adapter.View.
func (v *RowView) SetDataContext(r *Row) { v.row = r }

// Report summarizes the effect of one step. Counters are deltas for the step;
// Bound, Subscriptions and Pool are totals after it.
type Report struct {
	Step          int
	Kind          string
	Start         int
	End           int
	Created       int
	Reused        int
	Refreshed     int
	Rebound       int
	Signals       int
	Bound         int
	Subscriptions int
	Pool          int
}

// Options configures a Simulator.
type Options struct {
	Logger *zap.Logger
	// Recorder additionally receives every adapter statistic, e.g. a
	// metrics.Recorder.
	Recorder adapter.Recorder
}

// Simulator owns the list, adapter and host of one scenario run.
type Simulator struct {
	sc      *scenario.Scenario
	logger  *zap.Logger
	loop    platform.Loop
	list    *observable.List[*Row]
	adapter *adapter.Adapter[*Row]
	host    *host.ListHost[*Row]
	tally   *tally
	nextRow int
	nextID  int
}

// New builds a simulator for a resolved scenario.
func New(sc *scenario.Scenario, opts Options) (*Simulator, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Simulator{
		sc:     sc,
		logger: logger,
		tally:  &tally{next: opts.Recorder},
	}
	s.list = observable.NewList(s.newRows(sc.Items), observable.WithDispatch(s.loop.Post))

	a, err := adapter.New[*Row](s.list, adapter.Config[*Row]{
		NewView: func() adapter.View[*Row] {
			s.nextID++
			return &RowView{ID: s.nextID}
		},
		OnPrepare: func(v adapter.View[*Row], r *Row) {
			v.(*RowView).Text = r.Title()
		},
		Recorder: s.tally,
	})
	if err != nil {
		return nil, err
	}
	s.adapter = a
	s.host = host.New[*Row](a, host.Config{
		ItemExtent:     sc.List.ItemExtent,
		ViewportExtent: sc.List.ViewportExtent,
		CacheExtent:    sc.List.CacheExtent,
	}, logger)
	return s, nil
}

func (s *Simulator) newRows(n int) []*Row {
	rows := make([]*Row, n)
	for i := range rows {
		rows[i] = &Row{ID: s.nextRow}
		s.nextRow++
	}
	return rows
}

// Run attaches the host, lays out the initial viewport and replays every
// step. The first report describes the initial layout.
func (s *Simulator) Run() ([]Report, error) {
	if err := s.host.Attach(); err != nil {
		return nil, err
	}
	reports := []Report{s.settle(0, "initial")}
	for i, step := range s.sc.Steps {
		if err := s.apply(step); err != nil {
			return reports, fmt.Errorf("step %d (%s): %w", i+1, step.Kind(), err)
		}
		reports = append(reports, s.settle(i+1, step.Kind()))
	}
	return reports, nil
}

func (s *Simulator) apply(step scenario.Step) error {
	switch {
	case step.Scroll != nil:
		s.host.ScrollBy(*step.Scroll)
	case step.ScrollTo != nil:
		s.host.ScrollTo(*step.ScrollTo)
	case step.Insert != nil:
		if step.Insert.At > s.list.Len() {
			return fmt.Errorf("insert position %d beyond %d items", step.Insert.At, s.list.Len())
		}
		s.list.Insert(step.Insert.At, s.newRows(step.Insert.Count)...)
	case step.Remove != nil:
		if step.Remove.At+step.Remove.Count > s.list.Len() {
			return fmt.Errorf("remove range %d+%d beyond %d items", step.Remove.At, step.Remove.Count, s.list.Len())
		}
		for range step.Remove.Count {
			s.list.RemoveAt(step.Remove.At)
		}
	case step.Touch != nil:
		row, err := s.adapter.ItemAt(*step.Touch)
		if err != nil {
			return err
		}
		row.Revision++
		row.NotifyListeners()
	case step.Dirty != nil:
		view, ok := s.host.ViewAt(*step.Dirty)
		if !ok {
			return fmt.Errorf("no view laid out at position %d", *step.Dirty)
		}
		s.adapter.MarkDirty(view)
		s.adapter.NotifyDataSetChanged()
	case step.Attach:
		return s.host.Attach()
	case step.Detach:
		return s.host.Detach()
	}
	return nil
}

// settle delivers queued notifications, runs a pending layout and reports.
func (s *Simulator) settle(index int, kind string) Report {
	s.loop.Drain()
	if s.host.Attached() {
		s.host.Pump()
	}
	delta := s.tally.take()
	start, end := s.host.VisibleRange()
	r := Report{
		Step:          index,
		Kind:          kind,
		Start:         start,
		End:           end,
		Created:       delta.outcomes[adapter.OutcomeCreated],
		Reused:        delta.outcomes[adapter.OutcomeReused],
		Refreshed:     delta.outcomes[adapter.OutcomeRefreshed],
		Rebound:       delta.outcomes[adapter.OutcomeRebound],
		Signals:       delta.signals,
		Bound:         s.adapter.BoundCount(),
		Subscriptions: s.adapter.SubscriptionCount(),
		Pool:          s.host.PoolSize(),
	}
	s.logger.Debug("step settled",
		zap.Int("step", r.Step),
		zap.String("kind", r.Kind),
		zap.Int("created", r.Created),
		zap.Int("rebound", r.Rebound),
		zap.Int("subscriptions", r.Subscriptions),
	)
	return r
}

// ViewText returns the text shown at position, for inspection in tests.
func (s *Simulator) ViewText(position int) (string, bool) {
	v, ok := s.host.ViewAt(position)
	if !ok {
		return "", false
	}
	return v.(*RowView).Text, true
}

type counts struct {
	outcomes map[adapter.Outcome]int
	signals  int
}

// tally counts adapter statistics per step and forwards them to next.
type tally struct {
	next    adapter.Recorder
	current counts
}

func (t *tally) RecordResolve(o adapter.Outcome) {
	if t.current.outcomes == nil {
		t.current.outcomes = make(map[adapter.Outcome]int)
	}
	t.current.outcomes[o]++
	if t.next != nil {
		t.next.RecordResolve(o)
	}
}

func (t *tally) RecordDataSetChanged(c adapter.Cause) {
	t.current.signals++
	if t.next != nil {
		t.next.RecordDataSetChanged(c)
	}
}

func (t *tally) RecordSubscriptions(active int) {
	if t.next != nil {
		t.next.RecordSubscriptions(active)
	}
}

func (t *tally) take() counts {
	c := t.current
	t.current = counts{}
	if c.outcomes == nil {
		c.outcomes = map[adapter.Outcome]int{}
	}
	return c
}
