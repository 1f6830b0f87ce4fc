// Package platform connects listbind to the thread model of the host UI.
//
// Adapters, lists and hosts are single-threaded. Code running on other
// goroutines hands work to the UI goroutine with Dispatch, which forwards to
// whatever the embedding application registered with RegisterDispatch. Loop
// is a minimal serial queue usable as that registration in tools and tests.
package platform

import "sync"

var (
	dispatchMu   sync.RWMutex
	dispatchFunc func(callback func())
)

// RegisterDispatch sets the dispatch function used to schedule callbacks on the UI thread.
// This should be called once during initialization. Pass nil to unregister.
func RegisterDispatch(fn func(callback func())) {
	dispatchMu.Lock()
	dispatchFunc = fn
	dispatchMu.Unlock()
}

// Dispatch schedules a callback to run on the UI thread.
// Returns true if the callback was successfully scheduled, false if no dispatch function
// is registered or the callback is nil.
func Dispatch(callback func()) bool {
	dispatchMu.RLock()
	fn := dispatchFunc
	dispatchMu.RUnlock()
	if fn == nil || callback == nil {
		return false
	}
	fn(callback)
	return true
}

// Loop is a FIFO of callbacks drained by the goroutine that owns the UI.
// Post may be called from any goroutine; Drain must only be called by the
// owner.
type Loop struct {
	mu      sync.Mutex
	pending []func()
}

// Post enqueues callback. Nil callbacks are ignored.
func (l *Loop) Post(callback func()) {
	if callback == nil {
		return
	}
	l.mu.Lock()
	l.pending = append(l.pending, callback)
	l.mu.Unlock()
}

// Drain runs queued callbacks in order, including any posted while draining,
// and returns how many ran.
func (l *Loop) Drain() int {
	ran := 0
	for {
		l.mu.Lock()
		batch := l.pending
		l.pending = nil
		l.mu.Unlock()
		if len(batch) == 0 {
			return ran
		}
		for _, cb := range batch {
			cb()
			ran++
		}
	}
}

// Len returns the number of queued callbacks.
func (l *Loop) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.pending)
}
