package dom

import "errors"

// Event is delivered to listeners.
type Event struct {
	// Type is the event name without the "on" prefix, e.g. "input".
	Type string

	// Target is the node the event was dispatched on.
	Target *Node

	// Value is the target's value at dispatch time.
	Value string

	// Detail carries arbitrary payload for custom events.
	Detail map[string]any
}

// Listener handles an event. Returned errors are collected by Dispatch.
type Listener func(e *Event) error

// AddEventListener registers fn for events of the given type.
func (n *Node) AddEventListener(typ string, fn Listener) {
	if fn == nil {
		return
	}
	if n.listeners == nil {
		n.listeners = make(map[string][]Listener)
	}
	n.listeners[typ] = append(n.listeners[typ], fn)
}

// HasListeners reports whether n has any event listener.
func (n *Node) HasListeners() bool {
	for _, ls := range n.listeners {
		if len(ls) > 0 {
			return true
		}
	}
	return false
}

// ListenerCount returns the number of listeners for typ.
func (n *Node) ListenerCount(typ string) int {
	return len(n.listeners[typ])
}

// Dispatch runs the listeners for e.Type on n in registration order. Every
// listener runs even if an earlier one failed; failures are joined.
func (n *Node) Dispatch(e *Event) error {
	if e.Target == nil {
		e.Target = n
	}
	if e.Value == "" {
		e.Value = n.Value()
	}
	var errs []error
	for _, fn := range n.listeners[e.Type] {
		if err := fn(e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Input simulates the user typing v: the value facet is set, then an
// "input" event is dispatched.
func (n *Node) Input(v string) error {
	n.SetValue(v)
	return n.Dispatch(&Event{Type: "input", Target: n, Value: v})
}

// Click dispatches a "click" event.
func (n *Node) Click() error {
	return n.Dispatch(&Event{Type: "click", Target: n})
}
