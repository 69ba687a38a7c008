package sheet

import "time"

// EventType names an input event.
type EventType string

const (
	EventTouchStart EventType = "touchstart"
	EventTouchMove  EventType = "touchmove"
	EventTouchEnd   EventType = "touchend"
	EventMouseDown  EventType = "mousedown"
	EventMouseMove  EventType = "mousemove"
	EventMouseUp    EventType = "mouseup"
	EventClick      EventType = "click"
)

// Node identifies which part of the sheet an event originated on.
type Node string

const (
	NodeOverlay Node = "overlay"
	NodeContent Node = "content"
	NodeHandle  Node = "handle"
	NodeWindow  Node = "window"
)

// Touch is one active touch point.
type Touch struct {
	PageY float64
}

// Event is a host input event.
type Event struct {
	Type      EventType
	Target    Node
	PageY     float64
	Touches   []Touch
	Timestamp time.Time
}

// Listener handles an event.
type Listener func(Event)

// Target is something listeners can be attached to. The returned func
// removes the listener; calling it more than once is harmless.
type Target interface {
	Listen(typ EventType, fn Listener) (remove func())
}

type listenerEntry struct {
	fn      Listener
	removed bool
}

// Dispatcher is a minimal Target that hosts feed events into.
type Dispatcher struct {
	listeners map[EventType][]*listenerEntry
}

// NewDispatcher returns an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{listeners: make(map[EventType][]*listenerEntry)}
}

// Listen registers fn for typ.
func (d *Dispatcher) Listen(typ EventType, fn Listener) func() {
	e := &listenerEntry{fn: fn}
	d.listeners[typ] = append(d.listeners[typ], e)
	return func() {
		if e.removed {
			return
		}
		e.removed = true
		entries := d.listeners[typ]
		for i, cur := range entries {
			if cur == e {
				d.listeners[typ] = append(entries[:i:i], entries[i+1:]...)
				break
			}
		}
		if len(d.listeners[typ]) == 0 {
			delete(d.listeners, typ)
		}
	}
}

// Dispatch delivers ev to the listeners registered for its type. Listeners
// removed by an earlier listener during the same dispatch are skipped.
func (d *Dispatcher) Dispatch(ev Event) {
	entries := append([]*listenerEntry(nil), d.listeners[ev.Type]...)
	for _, e := range entries {
		if e.removed {
			continue
		}
		e.fn(ev)
	}
}

// ListenerCount returns how many listeners are registered for typ.
func (d *Dispatcher) ListenerCount(typ EventType) int {
	return len(d.listeners[typ])
}

// Total returns the number of registered listeners across all types.
func (d *Dispatcher) Total() int {
	n := 0
	for _, entries := range d.listeners {
		n += len(entries)
	}
	return n
}
