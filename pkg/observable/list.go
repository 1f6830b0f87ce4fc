package observable

import "fmt"

// List is an ordered sequence that reports every mutation to its
// collection listeners.
//
// List satisfies adapter.Source and [CollectionNotifier]. Index arguments
// outside the valid range panic, as slice indexing does.
type List[T any] struct {
	items          []T
	listeners      map[int]func(Change)
	nextListenerID int
	dispatch       func(func())
}

// ListOption configures a List.
type ListOption func(*listOptions)

type listOptions struct {
	dispatch func(func())
}

// WithDispatch routes change notifications through fn instead of invoking
// listeners synchronously. Pass platform.Dispatch to deliver them on the UI
// thread.
func WithDispatch(fn func(callback func())) ListOption {
	return func(o *listOptions) {
		o.dispatch = fn
	}
}

// NewList creates a list holding a copy of items.
func NewList[T any](items []T, opts ...ListOption) *List[T] {
	var o listOptions
	for _, opt := range opts {
		opt(&o)
	}
	return &List[T]{
		items:    append([]T(nil), items...),
		dispatch: o.dispatch,
	}
}

// Len returns the number of items.
func (l *List[T]) Len() int {
	return len(l.items)
}

// At returns the item at index i.
func (l *List[T]) At(i int) T {
	return l.items[i]
}

// Items returns a copy of the current contents.
func (l *List[T]) Items() []T {
	return append([]T(nil), l.items...)
}

// Append adds items to the end of the list.
func (l *List[T]) Append(items ...T) {
	if len(items) == 0 {
		return
	}
	index := len(l.items)
	l.items = append(l.items, items...)
	l.notify(Change{Action: ActionAdd, Index: index, OldIndex: -1, Count: len(items)})
}

// Insert adds items before index i. i may equal Len.
func (l *List[T]) Insert(i int, items ...T) {
	if i < 0 || i > len(l.items) {
		panic(fmt.Sprintf("observable: insert index %d out of range [0,%d]", i, len(l.items)))
	}
	if len(items) == 0 {
		return
	}
	grown := make([]T, 0, len(l.items)+len(items))
	grown = append(grown, l.items[:i]...)
	grown = append(grown, items...)
	grown = append(grown, l.items[i:]...)
	l.items = grown
	l.notify(Change{Action: ActionAdd, Index: i, OldIndex: -1, Count: len(items)})
}

// Set replaces the item at index i.
func (l *List[T]) Set(i int, item T) {
	l.items[i] = item
	l.notify(Change{Action: ActionReplace, Index: i, OldIndex: i, Count: 1})
}

// RemoveAt removes the item at index i and returns it.
func (l *List[T]) RemoveAt(i int) T {
	removed := l.items[i]
	l.items = append(l.items[:i], l.items[i+1:]...)
	l.notify(Change{Action: ActionRemove, Index: i, OldIndex: i, Count: 1})
	return removed
}

// Move relocates the item at from so that it ends up at index to.
func (l *List[T]) Move(from, to int) {
	if from == to {
		_ = l.items[from]
		return
	}
	item := l.items[from]
	l.items = append(l.items[:from], l.items[from+1:]...)
	l.items = append(l.items[:to], append([]T{item}, l.items[to:]...)...)
	l.notify(Change{Action: ActionMove, Index: to, OldIndex: from, Count: 1})
}

// Reset replaces the whole contents.
func (l *List[T]) Reset(items []T) {
	l.items = append([]T(nil), items...)
	l.notify(Change{Action: ActionReset, Index: -1, OldIndex: -1})
}

// AddCollectionListener registers fn for change reports and returns an
// unsubscribe function.
func (l *List[T]) AddCollectionListener(fn func(Change)) func() {
	if fn == nil {
		return func() {}
	}
	if l.listeners == nil {
		l.listeners = make(map[int]func(Change))
	}
	id := l.nextListenerID
	l.nextListenerID++
	l.listeners[id] = fn
	return func() {
		delete(l.listeners, id)
	}
}

// ListenerCount returns the number of registered collection listeners.
func (l *List[T]) ListenerCount() int {
	return len(l.listeners)
}

func (l *List[T]) notify(change Change) {
	if len(l.listeners) == 0 {
		return
	}
	listeners := make([]func(Change), 0, len(l.listeners))
	for _, fn := range l.listeners {
		listeners = append(listeners, fn)
	}
	deliver := func() {
		for _, fn := range listeners {
			fn(change)
		}
	}
	if l.dispatch != nil {
		l.dispatch(deliver)
		return
	}
	deliver()
}
