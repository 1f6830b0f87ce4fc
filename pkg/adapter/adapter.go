package adapter

import (
	"slices"

	lberrors "github.com/go-drift/listbind/pkg/errors"
	"github.com/go-drift/listbind/pkg/observable"
)

// Source is an ordered, randomly indexable sequence of items.
//
// The adapter reads Len and At on every call and never caches them. A Source
// that also implements [observable.CollectionNotifier] is subscribed while
// the adapter has observers.
type Source[T any] interface {
	Len() int
	At(i int) T
}

// View is a recyclable visual container owned by the host.
//
// Views are used as map keys, so implementations must have a comparable
// dynamic type; pointers are the usual choice.
type View[T any] interface {
	// SetDataContext records the item the view currently represents.
	SetDataContext(item T)
}

// Observer is notified when the data set changed and visible views should be
// resolved again.
type Observer interface {
	OnDataSetChanged()
}

// Config supplies the collaborators of an Adapter.
type Config[T comparable] struct {
	// NewView constructs a new, unbound view. Required.
	NewView func() View[T]
	// OnCreate performs one-time structural setup of a new view. Optional.
	OnCreate func(view View[T])
	// OnPrepare populates view from item. It runs whenever the displayed item
	// or its content may have changed. Optional.
	OnPrepare func(view View[T], item T)
	// Recorder receives binding statistics. Optional.
	Recorder Recorder
}

// entry is the binding record of one view. It is replaced, never mutated, in
// the adapter's map.
type entry[T comparable] struct {
	data  T
	dirty bool
	// unsubscribe detaches the adapter from data's change notifications; nil
	// when data is not listenable.
	unsubscribe func()
}

// Adapter binds the items of a Source to recycled views.
//
// Items are compared with ==, so T should be a pointer type when items are to
// be told apart by identity.
type Adapter[T comparable] struct {
	source     Source[T]
	collection observable.CollectionNotifier

	newView   func() View[T]
	onCreate  func(View[T])
	onPrepare func(View[T], T)
	recorder  Recorder

	entries           map[View[T]]entry[T]
	observers         []Observer
	unsubscribeSource func()
	subscriptions     int
}

// New creates an adapter over source.
func New[T comparable](source Source[T], cfg Config[T]) (*Adapter[T], error) {
	if source == nil {
		return nil, lberrors.InvalidState("adapter.New", "nil source")
	}
	if cfg.NewView == nil {
		return nil, lberrors.InvalidState("adapter.New", "nil view factory")
	}
	a := &Adapter[T]{
		source:    source,
		newView:   cfg.NewView,
		onCreate:  cfg.OnCreate,
		onPrepare: cfg.OnPrepare,
		recorder:  cfg.Recorder,
		entries:   make(map[View[T]]entry[T]),
	}
	if a.recorder == nil {
		a.recorder = nopRecorder{}
	}
	if cn, ok := source.(observable.CollectionNotifier); ok {
		a.collection = cn
	}
	return a, nil
}

// Count returns the current length of the source.
func (a *Adapter[T]) Count() int {
	return a.source.Len()
}

// ItemAt returns the item at position, or an error wrapping
// errors.ErrOutOfRange if position is outside [0, Count()).
func (a *Adapter[T]) ItemAt(position int) (T, error) {
	return a.itemAt("adapter.ItemAt", position)
}

func (a *Adapter[T]) itemAt(op string, position int) (T, error) {
	count := a.source.Len()
	if position < 0 || position >= count {
		var zero T
		return zero, lberrors.OutOfRange(op, position, count)
	}
	return a.source.At(position), nil
}

// RegisterObserver adds o to the observers notified of data set changes.
// The first registration subscribes to the source's collection changes.
func (a *Adapter[T]) RegisterObserver(o Observer) error {
	if o == nil {
		return lberrors.InvalidState("adapter.RegisterObserver", "nil observer")
	}
	if slices.Contains(a.observers, o) {
		return lberrors.InvalidState("adapter.RegisterObserver", "observer already registered")
	}
	if len(a.observers) == 0 && a.collection != nil && a.unsubscribeSource == nil {
		a.unsubscribeSource = a.collection.AddCollectionListener(a.onCollectionChanged)
	}
	a.observers = append(a.observers, o)
	return nil
}

// UnregisterObserver removes o. Removing the last observer releases the
// source subscription and every item subscription and forgets all bound
// views.
//
// Unregistering with no observers, or unregistering an observer that was
// never registered, returns an error wrapping errors.ErrInvalidState.
func (a *Adapter[T]) UnregisterObserver(o Observer) error {
	if len(a.observers) == 0 {
		return lberrors.InvalidState("adapter.UnregisterObserver", "no observers registered")
	}
	i := slices.Index(a.observers, o)
	if i < 0 {
		return lberrors.InvalidState("adapter.UnregisterObserver", "observer not registered")
	}
	a.observers = slices.Delete(a.observers, i, i+1)
	if len(a.observers) == 0 {
		a.release()
	}
	return nil
}

// ObserverCount returns the number of registered observers.
func (a *Adapter[T]) ObserverCount() int {
	return len(a.observers)
}

// release drops every subscription the adapter holds.
func (a *Adapter[T]) release() {
	if a.unsubscribeSource != nil {
		a.unsubscribeSource()
		a.unsubscribeSource = nil
	}
	for _, e := range a.entries {
		if e.unsubscribe != nil {
			e.unsubscribe()
		}
	}
	clear(a.entries)
	if a.subscriptions != 0 {
		a.subscriptions = 0
		a.recorder.RecordSubscriptions(0)
	}
}

// ResolveView returns a view showing the item at position, reusing recycled
// when possible. recycled may be nil or any view previously returned by this
// adapter.
func (a *Adapter[T]) ResolveView(position int, recycled View[T]) (View[T], error) {
	item, err := a.itemAt("adapter.ResolveView", position)
	if err != nil {
		return nil, err
	}

	var (
		e     entry[T]
		bound bool
	)
	if recycled != nil {
		e, bound = a.entries[recycled]
	}

	if !bound {
		view := a.newView()
		if view == nil {
			return nil, lberrors.InvalidState("adapter.ResolveView", "view factory returned nil")
		}
		if a.onCreate != nil {
			a.onCreate(view)
		}
		view.SetDataContext(item)
		a.prepare(view, item)
		a.entries[view] = entry[T]{data: item, unsubscribe: a.subscribe(item)}
		a.recorder.RecordResolve(OutcomeCreated)
		return view, nil
	}

	if e.data == item {
		if !e.dirty {
			a.recorder.RecordResolve(OutcomeReused)
			return recycled, nil
		}
		a.prepare(recycled, item)
		a.entries[recycled] = entry[T]{data: item, unsubscribe: e.unsubscribe}
		a.recorder.RecordResolve(OutcomeRefreshed)
		return recycled, nil
	}

	// The entry stays dirty until OnPrepare returns, so a panicking hook
	// leaves the view due for a refresh.
	a.unsubscribe(e)
	e = entry[T]{data: item, dirty: true, unsubscribe: a.subscribe(item)}
	a.entries[recycled] = e
	recycled.SetDataContext(item)
	a.prepare(recycled, item)
	e.dirty = false
	a.entries[recycled] = e
	a.recorder.RecordResolve(OutcomeRebound)
	return recycled, nil
}

func (a *Adapter[T]) prepare(view View[T], item T) {
	if a.onPrepare != nil {
		a.onPrepare(view, item)
	}
}

// subscribe attaches the item-changed handler to item if it is listenable
// and returns the matching unsubscribe function, or nil.
func (a *Adapter[T]) subscribe(item T) func() {
	var zero T
	if item == zero {
		return nil
	}
	l, ok := any(item).(observable.Listenable)
	if !ok {
		return nil
	}
	remove := l.AddListener(a.onItemChanged)
	a.subscriptions++
	a.recorder.RecordSubscriptions(a.subscriptions)
	return remove
}

func (a *Adapter[T]) unsubscribe(e entry[T]) {
	if e.unsubscribe == nil {
		return
	}
	e.unsubscribe()
	a.subscriptions--
	a.recorder.RecordSubscriptions(a.subscriptions)
}

// MarkDirty forces one extra OnPrepare for view on its next resolution even
// if its item is unchanged. It reports whether view is bound.
func (a *Adapter[T]) MarkDirty(view View[T]) bool {
	if view == nil {
		return false
	}
	e, ok := a.entries[view]
	if !ok {
		return false
	}
	a.entries[view] = entry[T]{data: e.data, dirty: true, unsubscribe: e.unsubscribe}
	return true
}

// MarkAllDirty marks every bound view dirty.
func (a *Adapter[T]) MarkAllDirty() {
	for view, e := range a.entries {
		a.entries[view] = entry[T]{data: e.data, dirty: true, unsubscribe: e.unsubscribe}
	}
}

// Item returns the item view is bound to.
func (a *Adapter[T]) Item(view View[T]) (T, bool) {
	if view == nil {
		var zero T
		return zero, false
	}
	e, ok := a.entries[view]
	return e.data, ok
}

// BoundCount returns the number of views the adapter currently tracks.
func (a *Adapter[T]) BoundCount() int {
	return len(a.entries)
}

// SubscriptionCount returns the number of live item subscriptions.
func (a *Adapter[T]) SubscriptionCount() int {
	return a.subscriptions
}

// NotifyDataSetChanged tells every observer to resolve its views again.
func (a *Adapter[T]) NotifyDataSetChanged() {
	a.dataSetChanged(CauseExplicit)
}

func (a *Adapter[T]) onCollectionChanged(observable.Change) {
	a.dataSetChanged(CauseCollection)
}

func (a *Adapter[T]) onItemChanged() {
	a.dataSetChanged(CauseItem)
}

func (a *Adapter[T]) dataSetChanged(cause Cause) {
	a.recorder.RecordDataSetChanged(cause)
	// Observers may unregister while being notified.
	for _, o := range slices.Clone(a.observers) {
		o.OnDataSetChanged()
	}
}
