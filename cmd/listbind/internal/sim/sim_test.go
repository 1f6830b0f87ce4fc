package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/listbind/cmd/listbind/internal/scenario"
	"github.com/go-drift/listbind/pkg/adapter"
)

func load(t *testing.T, doc string) *scenario.Scenario {
	t.Helper()
	sc, err := scenario.Parse([]byte(doc))
	require.NoError(t, err)
	require.NoError(t, sc.Resolve())
	return sc
}

func run(t *testing.T, doc string) (*Simulator, []Report) {
	t.Helper()
	s, err := New(load(t, doc), Options{})
	require.NoError(t, err)
	reports, err := s.Run()
	require.NoError(t, err)
	return s, reports
}

const geometry = `
items: 40
list: {item_extent: 20, viewport_extent: 100}
`

func TestInitialLayout(t *testing.T) {
	s, reports := run(t, geometry)

	require.Len(t, reports, 1)
	r := reports[0]
	assert.Equal(t, "initial", r.Kind)
	assert.Equal(t, 5, r.Created)
	assert.Equal(t, 5, r.Bound)
	assert.Equal(t, 5, r.Subscriptions)
	text, ok := s.ViewText(0)
	require.True(t, ok)
	assert.Equal(t, "row 0 (rev 0)", text)
}

func TestScrollRebindsWithoutCreating(t *testing.T) {
	_, reports := run(t, geometry+`
steps:
  - scroll: 40
  - scroll: 0
`)
	scroll := reports[1]
	assert.Equal(t, 0, scroll.Created)
	assert.Equal(t, 2, scroll.Rebound)
	assert.Equal(t, 3, scroll.Reused)
	assert.Equal(t, 0, scroll.Signals)

	idle := reports[2]
	assert.Zero(t, idle.Created+idle.Rebound+idle.Reused, "no layout without a change")
}

func TestInsertIsOneSignalAndRebindsVisibleRows(t *testing.T) {
	s, reports := run(t, geometry+`
steps:
  - insert: {at: 0, count: 2}
`)
	r := reports[1]
	assert.Equal(t, 1, r.Signals)
	assert.Equal(t, 5, r.Rebound)
	text, _ := s.ViewText(2)
	assert.Equal(t, "row 0 (rev 0)", text)
	text, _ = s.ViewText(0)
	assert.Equal(t, "row 40 (rev 0)", text)
}

func TestTouchTakesFastPathAndDirtyRefreshes(t *testing.T) {
	s, reports := run(t, geometry+`
steps:
  - touch: 1
  - dirty: 1
`)
	touch := reports[1]
	assert.Equal(t, 1, touch.Signals)
	assert.Equal(t, 5, touch.Reused)
	assert.Zero(t, touch.Refreshed)

	dirty := reports[2]
	assert.Equal(t, 1, dirty.Refreshed)
	assert.Equal(t, 4, dirty.Reused)
	text, _ := s.ViewText(1)
	assert.Equal(t, "row 1 (rev 1)", text)
}

func TestDetachReleasesEverything(t *testing.T) {
	_, reports := run(t, geometry+`
steps:
  - detach: true
  - touch: 2
  - attach: true
`)
	detached := reports[1]
	assert.Zero(t, detached.Bound)
	assert.Zero(t, detached.Subscriptions)
	assert.Zero(t, detached.Pool)

	touched := reports[2]
	assert.Zero(t, touched.Signals, "no subscriptions while detached")

	attached := reports[3]
	assert.Equal(t, 5, attached.Created)
	assert.Equal(t, 5, attached.Subscriptions)
}

func TestRunStopsOnBadStep(t *testing.T) {
	s, err := New(load(t, geometry+`
steps:
  - remove: {at: 39, count: 5}
`), Options{})
	require.NoError(t, err)

	reports, err := s.Run()
	assert.ErrorContains(t, err, "step 1 (remove)")
	assert.Len(t, reports, 1)
}

func TestRecorderIsForwarded(t *testing.T) {
	rec := &countingRecorder{}
	s, err := New(load(t, geometry), Options{Recorder: rec})
	require.NoError(t, err)
	_, err = s.Run()
	require.NoError(t, err)

	assert.Equal(t, 5, rec.resolves)
	assert.Equal(t, 5, rec.lastSubscriptions)
}

type countingRecorder struct {
	resolves          int
	lastSubscriptions int
}

func (r *countingRecorder) RecordResolve(adapter.Outcome)      { r.resolves++ }
func (r *countingRecorder) RecordDataSetChanged(adapter.Cause) {}
func (r *countingRecorder) RecordSubscriptions(n int)          { r.lastSubscriptions = n }
