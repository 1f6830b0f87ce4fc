// Package host provides a reference view host for the binding adapter.
//
// ListHost simulates a virtualized, fixed-extent scrolling list: it keeps a
// view for every position inside the viewport plus a cache region, parks
// views that scroll out of range in a scrap pool, and hands scrap views back
// to the adapter for positions that scroll in. It is what a platform list
// widget does, minus drawing, and is used to exercise adapters end to end.
package host

import (
	stderrors "errors"
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/go-drift/listbind/pkg/adapter"
	lberrors "github.com/go-drift/listbind/pkg/errors"
)

// Adapter is the part of adapter.Adapter a host drives.
type Adapter[T any] interface {
	Count() int
	ResolveView(position int, recycled adapter.View[T]) (adapter.View[T], error)
	RegisterObserver(o adapter.Observer) error
	UnregisterObserver(o adapter.Observer) error
}

// Config describes the list geometry.
type Config struct {
	// ItemExtent is the fixed extent of each row along the scroll axis.
	// Zero or less makes every row visible.
	ItemExtent float64
	// ViewportExtent is the visible extent along the scroll axis.
	// Zero or less makes every row visible.
	ViewportExtent float64
	// CacheExtent is the extent laid out beyond each edge of the viewport.
	CacheExtent float64
}

// Stats counts the work a host has done.
type Stats struct {
	Layouts  int
	Resolves int
	Created  int
	Failures int
}

// ListHost drives an adapter the way a recycling list widget would.
// It is not safe for concurrent use.
type ListHost[T any] struct {
	adapter Adapter[T]
	cfg     Config
	logger  *zap.Logger

	offset      float64
	start       int
	end         int
	visible     map[int]adapter.View[T]
	scrap       []adapter.View[T]
	attached    bool
	needsLayout bool
	stats       Stats
}

// New creates a detached host. A nil logger discards log output.
func New[T any](a Adapter[T], cfg Config, logger *zap.Logger) *ListHost[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.CacheExtent < 0 {
		cfg.CacheExtent = 0
	}
	return &ListHost[T]{
		adapter:     a,
		cfg:         cfg,
		logger:      logger.Named("host"),
		visible:     make(map[int]adapter.View[T]),
		needsLayout: true,
	}
}

// Attach registers the host as an adapter observer.
func (h *ListHost[T]) Attach() error {
	if h.attached {
		return nil
	}
	if err := h.adapter.RegisterObserver(h); err != nil {
		return err
	}
	h.attached = true
	h.needsLayout = true
	h.logger.Debug("attached")
	return nil
}

// Detach unregisters the host and drops every view it holds. The adapter
// releases its subscriptions once its last observer is gone, so the views
// would not be recognized again anyway.
func (h *ListHost[T]) Detach() error {
	if !h.attached {
		return nil
	}
	if err := h.adapter.UnregisterObserver(h); err != nil {
		return err
	}
	h.attached = false
	clear(h.visible)
	h.scrap = nil
	h.start, h.end = 0, 0
	h.needsLayout = true
	h.logger.Debug("detached")
	return nil
}

// Attached reports whether the host is registered with the adapter.
func (h *ListHost[T]) Attached() bool {
	return h.attached
}

// OnDataSetChanged implements adapter.Observer.
func (h *ListHost[T]) OnDataSetChanged() {
	h.needsLayout = true
}

// NeedsLayout reports whether a layout pass is pending.
func (h *ListHost[T]) NeedsLayout() bool {
	return h.needsLayout
}

// ScrollTo moves the viewport to offset, clamped to the scrollable range.
func (h *ListHost[T]) ScrollTo(offset float64) {
	h.offset = h.clampOffset(offset)
	start, end := h.visibleRange(h.adapter.Count())
	if start != h.start || end != h.end {
		h.needsLayout = true
	}
}

// ScrollBy moves the viewport by delta.
func (h *ListHost[T]) ScrollBy(delta float64) {
	h.ScrollTo(h.offset + delta)
}

// Offset returns the current scroll offset.
func (h *ListHost[T]) Offset() float64 {
	return h.offset
}

// Pump runs a layout pass if one is pending and reports whether it did.
func (h *ListHost[T]) Pump() bool {
	if !h.needsLayout {
		return false
	}
	h.Layout()
	return true
}

// Layout resolves a view for every position in range. Views whose position
// left the range go to the scrap pool first; positions without a view take
// one from the pool, most recently scrapped first.
//
// A panicking hook is reported and abandons the pass. The view being
// resolved goes back to the pool and the next Pump retries the layout.
func (h *ListHost[T]) Layout() {
	var inFlight adapter.View[T]
	defer lberrors.RecoverWithCallback("host.Layout", func(any) {
		if inFlight != nil {
			h.scrap = append(h.scrap, inFlight)
		}
		h.needsLayout = true
	})
	h.needsLayout = false

	count := h.adapter.Count()
	h.offset = h.clampOffset(h.offset)
	start, end := h.visibleRange(count)

	positions := make([]int, 0, len(h.visible))
	for pos := range h.visible {
		positions = append(positions, pos)
	}
	sort.Ints(positions)
	for _, pos := range positions {
		if pos < start || pos >= end {
			h.scrap = append(h.scrap, h.visible[pos])
			delete(h.visible, pos)
		}
	}

	created := 0
	for pos := start; pos < end; pos++ {
		recycled, ok := h.visible[pos]
		if !ok && len(h.scrap) > 0 {
			recycled = h.scrap[len(h.scrap)-1]
			h.scrap = h.scrap[:len(h.scrap)-1]
			inFlight = recycled
		}
		view, err := h.adapter.ResolveView(pos, recycled)
		inFlight = nil
		h.stats.Resolves++
		if err != nil {
			h.stats.Failures++
			h.report(err)
			if recycled != nil {
				h.scrap = append(h.scrap, recycled)
			}
			delete(h.visible, pos)
			continue
		}
		if view != recycled {
			created++
		}
		h.visible[pos] = view
	}

	h.start, h.end = start, end
	h.stats.Layouts++
	h.stats.Created += created
	h.logger.Debug("layout",
		zap.Int("count", count),
		zap.Int("start", start),
		zap.Int("end", end),
		zap.Int("created", created),
		zap.Int("scrap", len(h.scrap)),
	)
}

func (h *ListHost[T]) report(err error) {
	h.logger.Warn("resolve failed", zap.Error(err))
	var ae *lberrors.AdapterError
	if stderrors.As(err, &ae) {
		lberrors.Report(ae)
		return
	}
	lberrors.Report(&lberrors.AdapterError{Op: "host.Layout", Kind: lberrors.KindUnknown, Err: err})
}

// VisibleRange returns the half-open range of positions laid out by the last
// layout pass.
func (h *ListHost[T]) VisibleRange() (int, int) {
	return h.start, h.end
}

// ViewAt returns the view laid out at position.
func (h *ListHost[T]) ViewAt(position int) (adapter.View[T], bool) {
	v, ok := h.visible[position]
	return v, ok
}

// PoolSize returns the number of views the host owns, laid out or scrapped.
func (h *ListHost[T]) PoolSize() int {
	return len(h.visible) + len(h.scrap)
}

// Stats returns the accumulated counters.
func (h *ListHost[T]) Stats() Stats {
	return h.stats
}

func (h *ListHost[T]) clampOffset(offset float64) float64 {
	if offset < 0 || h.cfg.ItemExtent <= 0 || h.cfg.ViewportExtent <= 0 {
		return 0
	}
	maxOffset := float64(h.adapter.Count())*h.cfg.ItemExtent - h.cfg.ViewportExtent
	if maxOffset < 0 {
		maxOffset = 0
	}
	return math.Min(offset, maxOffset)
}

func (h *ListHost[T]) visibleRange(count int) (int, int) {
	if count <= 0 {
		return 0, 0
	}
	if h.cfg.ItemExtent <= 0 || h.cfg.ViewportExtent <= 0 {
		return 0, count
	}
	visibleStart := h.offset - h.cfg.CacheExtent
	visibleEnd := h.offset + h.cfg.ViewportExtent + h.cfg.CacheExtent
	startIndex := int(math.Floor(visibleStart / h.cfg.ItemExtent))
	endIndex := int(math.Ceil(visibleEnd / h.cfg.ItemExtent))
	if startIndex < 0 {
		startIndex = 0
	}
	if endIndex > count {
		endIndex = count
	}
	if endIndex < startIndex {
		endIndex = startIndex
	}
	return startIndex, endIndex
}
