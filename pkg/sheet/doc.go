// Package sheet implements the interaction engine of a draggable bottom-sheet
// dialog.
//
// A Dialog owns three resting states (open, minimized, closed), a clamped
// vertical offset and at most one drag session. It consumes its environment
// through the capabilities in Host: event targets for the drag handle, the
// overlay and the whole window, a Layout for measurements, a Presenter that
// receives the offset and presentation flags, a ScrollLock for the page
// behind the sheet and a FrameScheduler for deferred work.
//
// # Lifecycle
//
//	d := sheet.New(host)           // OnCreate
//	d.SetAttribute("minimize", "") // OnConfigChange
//	d.OnAttach()                   // listeners wired, initial state settled
//	...
//	d.OnDetach()                   // every listener removed, scroll lock released
//
// # Gestures
//
// The pointer source is chosen once per attach from Host.MaxTouchPoints:
// touch events when the platform reports touch support, mouse events
// otherwise. A gesture start on the handle opens a DragSession that listens
// for move and end events on the window target. On release the sheet snaps
// to minimized near the bottom, expands when dragged from the minimized rail,
// or flings by four times the last per-sample velocity.
//
// Two gesture starts within DoubleActivationWindow toggle between open and
// minimized when minimizing is enabled.
//
// Stage is an in-memory Host for tests, scripts and simple hosts.
package sheet
