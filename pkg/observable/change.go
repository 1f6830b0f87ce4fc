// Package observable provides change-notifying collections and items.
//
// A [List] reports membership and order changes to collection listeners; a
// [Notifier] embedded in an item reports that the item's displayable content
// changed while its identity stayed the same. Both return an unsubscribe
// closure from their Add method, which callers keep to detach later.
//
// Neither type is safe for concurrent use. Mutate them from the goroutine that
// owns the UI, or configure a dispatch function with [WithDispatch] so that
// notifications are delivered there.
package observable

import "fmt"

// ChangeAction describes the kind of collection change being reported.
type ChangeAction int

const (
	// ActionAdd means Count items were inserted at Index.
	ActionAdd ChangeAction = iota
	// ActionRemove means Count items were removed starting at Index.
	ActionRemove
	// ActionReplace means Count items starting at Index were replaced.
	ActionReplace
	// ActionMove means one item moved from OldIndex to Index.
	ActionMove
	// ActionReset means the contents changed wholesale.
	ActionReset
)

// String returns a human-readable representation of the action.
func (a ChangeAction) String() string {
	switch a {
	case ActionAdd:
		return "add"
	case ActionRemove:
		return "remove"
	case ActionReplace:
		return "replace"
	case ActionMove:
		return "move"
	case ActionReset:
		return "reset"
	default:
		return fmt.Sprintf("ChangeAction(%d)", int(a))
	}
}

// Change is a single collection-changed report.
type Change struct {
	Action   ChangeAction
	Index    int
	OldIndex int
	Count    int
}

// Listenable is implemented by values that report content changes.
// AddListener returns a function that removes the listener again.
type Listenable interface {
	AddListener(fn func()) func()
}

// CollectionNotifier is implemented by sequences that report membership or
// order changes. AddCollectionListener returns an unsubscribe function.
type CollectionNotifier interface {
	AddCollectionListener(fn func(Change)) func()
}
