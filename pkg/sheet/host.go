package sheet

import "log/slog"

// PropOffsetY is the visual property the dialog writes its vertical
// translation to.
const PropOffsetY = "offset-y"

// Flag is a presentation flag the visual layer reads.
type Flag string

const (
	FlagOpen     Flag = "open"
	FlagInactive Flag = "inactive"
	FlagDragging Flag = "dragging"
	FlagNoResize Flag = "no-resize"
)

// Layout reports rendered measurements of the sheet. All values are in the
// host's pixel unit (terminal rows for the TUI host).
type Layout interface {
	ContentHeight() float64
	HeaderHeight() float64
	HandleHeight() float64
	ViewportHeight() float64
	// SetBodyHeight fixes the body height; ResetBodyHeight returns it to its
	// natural size.
	SetBodyHeight(h float64)
	ResetBodyHeight()
}

// Presenter is the write sink for the visual layer.
type Presenter interface {
	SetProperty(name string, px float64)
	SetFlag(f Flag, on bool)
}

// ScrollLock controls page-level background scrolling.
type ScrollLock interface {
	SetLocked(locked bool)
	// Release removes any lock the dialog placed, restoring the page default.
	Release()
}

// FrameScheduler runs fn on the next rendering opportunity. The returned
// func cancels the request if it has not run yet; it is nil when nothing
// was scheduled.
type FrameScheduler interface {
	RequestFrame(fn func()) (cancel func())
}

// Host bundles every capability the dialog consumes.
type Host struct {
	Handle  Target // drag handle
	Overlay Target // backdrop, receives clicks
	Window  Target // whole viewport, receives move/end during a drag

	Layout     Layout
	Presenter  Presenter
	ScrollLock ScrollLock
	Frames     FrameScheduler

	// MaxTouchPoints is the platform touch capability, read once per attach.
	MaxTouchPoints int

	Logger *slog.Logger
}
