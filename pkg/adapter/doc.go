// Package adapter binds an ordered, observable data source to a small pool of
// recycled views.
//
// A list host keeps only a handful of views alive and hands them back to the
// adapter for whatever position scrolls into sight. For every call to
// [Adapter.ResolveView] the adapter decides between three cases:
//
//   - The view is nil or has never been seen: a new view is created through
//     Config.NewView, set up once by Config.OnCreate, bound to the item and
//     populated by Config.OnPrepare.
//   - The view already shows the requested item: nothing happens, unless the
//     view was marked dirty, in which case OnPrepare runs once more.
//   - The view shows a different item: the view is rebound, moving its change
//     subscription from the old item to the new one, and OnPrepare runs.
//
// # Subscriptions
//
// Items that implement [observable.Listenable] are subscribed while they are
// bound to a view, and the source is subscribed through
// [observable.CollectionNotifier] while at least one [Observer] is
// registered. Either kind of change is reported to every observer as a single
// OnDataSetChanged call; the host then re-resolves its visible views, and
// views whose item did not change take the fast path.
//
// When the last observer unregisters, the adapter releases the source
// subscription and every item subscription and forgets all bound views.
//
// # Threading
//
// An Adapter is not safe for concurrent use. Drive it from the goroutine that
// owns the UI and marshal notifications produced elsewhere onto it, for
// example with platform.Dispatch.
package adapter
