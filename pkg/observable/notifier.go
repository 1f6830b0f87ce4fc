package observable

// Notifier is an embeddable [Listenable].
//
//	type Contact struct {
//	    observable.Notifier
//	    Name string
//	}
//
//	func (c *Contact) Rename(name string) {
//	    c.Name = name
//	    c.NotifyListeners()
//	}
//
// The zero value is ready to use.
type Notifier struct {
	listeners      map[int]func()
	nextListenerID int
}

// AddListener registers fn and returns an unsubscribe function.
// Calling the unsubscribe function more than once is harmless.
func (n *Notifier) AddListener(fn func()) func() {
	if fn == nil {
		return func() {}
	}
	if n.listeners == nil {
		n.listeners = make(map[int]func())
	}
	id := n.nextListenerID
	n.nextListenerID++
	n.listeners[id] = fn
	return func() {
		delete(n.listeners, id)
	}
}

// NotifyListeners calls every registered listener.
func (n *Notifier) NotifyListeners() {
	for _, listener := range n.snapshot() {
		listener()
	}
}

// ListenerCount returns the number of registered listeners.
func (n *Notifier) ListenerCount() int {
	return len(n.listeners)
}

// snapshot copies the listeners so they may unsubscribe while being notified.
func (n *Notifier) snapshot() []func() {
	if len(n.listeners) == 0 {
		return nil
	}
	out := make([]func(), 0, len(n.listeners))
	for _, fn := range n.listeners {
		out = append(out, fn)
	}
	return out
}
