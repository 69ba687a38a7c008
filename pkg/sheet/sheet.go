package sheet

import (
	"log/slog"
	"time"
)

const (
	// DefaultMinContentHeight is the clamp ceiling when neither
	// min-content-height nor a header is present.
	DefaultMinContentHeight = 34

	// DoubleActivationWindow is the longest gap between two gesture starts
	// that still counts as a double activation.
	DoubleActivationWindow = 500 * time.Millisecond

	// FlingMultiplier scales the last sample's velocity into a fling.
	FlingMultiplier = 4

	// SnapThresholdRatio is the share of the viewport height below which a
	// released drag snaps to minimized.
	SnapThresholdRatio = 0.3

	// MaxOpenRetries bounds how many frames Open waits for attachment.
	MaxOpenRetries = 5
)

// State is a resting state of the sheet.
type State int

const (
	StateClosed State = iota
	StateOpen
	StateMinimized
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateMinimized:
		return "minimized"
	default:
		return "closed"
	}
}

// Config is derived from the declarative attributes.
type Config struct {
	NoResize         bool
	CanMinimize      bool
	SnapToTop        bool
	MinContentHeight float64
	SnapThreshold    float64
}

// Dialog is the bottom-sheet interaction engine. It is not safe for
// concurrent use; hosts drive it from a single event loop.
type Dialog struct {
	host   Host
	logger *slog.Logger

	cfg   Config
	attrs map[string]string

	isOpen        bool
	minimized     bool
	connected     bool
	presentedOpen bool

	contentHeight float64
	headerHeight  float64
	offsetY       float64

	source       PointerSource
	session      *DragSession
	lastStart    time.Time
	cancelOpen   func()
	removeHandle func()
	removeClick  func()
}

// New creates a dialog bound to host. Nil capabilities are replaced with
// no-op implementations.
func New(host Host) *Dialog {
	d := &Dialog{host: withDefaults(host)}
	d.OnCreate()
	return d
}

// OnCreate resets the dialog to its constructed state.
func (d *Dialog) OnCreate() {
	logger := d.host.Logger
	if logger == nil {
		logger = slog.Default()
	}
	d.logger = logger.With("component", "sheet")
	d.cfg = Config{}
	d.attrs = make(map[string]string)
	d.isOpen, d.minimized, d.presentedOpen = false, false, false
	d.lastStart = time.Time{}
}

// OnAttach wires listeners and settles the initial resting state. It is a
// no-op when already attached.
func (d *Dialog) OnAttach() {
	if d.connected {
		return
	}
	d.connected = true
	d.source = SourceFor(d.host.MaxTouchPoints)
	d.measure()

	d.removeClick = d.host.Overlay.Listen(EventClick, d.handleOverlayClick)
	d.wireHandle()

	d.presentedOpen, d.minimized = false, false
	d.host.Presenter.SetFlag(FlagOpen, false)
	d.host.Presenter.SetFlag(FlagInactive, false)
	d.applyOffset(d.targetFor(StateClosed))
	d.logger.Debug("sheet: attached", "source", d.source.Kind(), "content_height", d.contentHeight)

	switch {
	case d.cfg.CanMinimize && !d.isOpen:
		d.attrs[AttrOpen] = ""
		d.isOpen = true
		d.Minimize()
	case d.isOpen && d.cancelOpen == nil:
		d.Open()
	}
}

// OnDetach synchronously removes every listener, including those of an
// in-flight drag, cancels a deferred open and releases the scroll lock.
func (d *Dialog) OnDetach() {
	if !d.connected {
		return
	}
	d.connected = false
	d.endSession()
	if d.removeHandle != nil {
		d.removeHandle()
		d.removeHandle = nil
	}
	if d.removeClick != nil {
		d.removeClick()
		d.removeClick = nil
	}
	d.cancelPendingOpen()
	d.host.ScrollLock.Release()
	d.logger.Debug("sheet: detached")
}

// Open expands the sheet. Called before attachment, it retries on the next
// frames and gives up silently after MaxOpenRetries.
func (d *Dialog) Open() {
	d.openWithRetries(MaxOpenRetries)
}

func (d *Dialog) openWithRetries(retries int) {
	d.cancelPendingOpen()
	if !d.connected {
		if retries <= 0 {
			d.logger.Debug("sheet: open abandoned before attach")
			return
		}
		d.cancelOpen = d.host.Frames.RequestFrame(func() {
			d.cancelOpen = nil
			d.openWithRetries(retries - 1)
		})
		return
	}

	from := d.State()
	d.minimized = false
	d.presentedOpen = true
	d.host.ScrollLock.SetLocked(true)
	d.host.Presenter.SetFlag(FlagOpen, true)
	d.host.Presenter.SetFlag(FlagInactive, false)
	d.applyOffset(d.targetFor(StateOpen))
	d.logTransition(from)
}

// Minimize collapses the sheet to its header rail.
func (d *Dialog) Minimize() {
	if !d.connected {
		d.logger.Debug("sheet: minimize ignored while detached")
		return
	}
	from := d.State()
	d.minimized = true
	d.presentedOpen = true
	d.host.ScrollLock.SetLocked(false)
	d.host.Presenter.SetFlag(FlagOpen, true)
	d.host.Presenter.SetFlag(FlagInactive, true)
	d.applyOffset(d.targetFor(StateMinimized))
	d.logTransition(from)
}

// Close hides the sheet, or minimizes it when minimizing is enabled.
func (d *Dialog) Close() {
	if !d.connected {
		d.logger.Debug("sheet: close ignored while detached")
		return
	}
	if d.cfg.CanMinimize {
		d.Minimize()
		return
	}
	from := d.State()
	d.minimized = false
	d.presentedOpen = false
	d.host.ScrollLock.SetLocked(false)
	d.host.Presenter.SetFlag(FlagOpen, false)
	d.host.Presenter.SetFlag(FlagInactive, false)
	d.applyOffset(d.targetFor(StateClosed))
	d.logTransition(from)
}

func (d *Dialog) handleOverlayClick(ev Event) {
	if ev.Target != NodeOverlay {
		return
	}
	if !d.cfg.CanMinimize {
		d.isOpen = false
		delete(d.attrs, AttrOpen)
	}
	d.Close()
}

func (d *Dialog) wireHandle() {
	if d.removeHandle != nil {
		d.removeHandle()
		d.removeHandle = nil
	}
	if d.cfg.NoResize || !d.connected {
		return
	}
	d.removeHandle = d.host.Handle.Listen(d.source.StartEvent(), d.handleDragStart)
}

func (d *Dialog) cancelPendingOpen() {
	if d.cancelOpen != nil {
		d.cancelOpen()
		d.cancelOpen = nil
	}
}

// measure reads heights from the layout, fixing the body height first when
// snap-to-top is on.
func (d *Dialog) measure() {
	d.headerHeight = d.host.Layout.HeaderHeight()
	if d.cfg.SnapToTop {
		h := d.host.Layout.ViewportHeight() - d.headerHeight - d.host.Layout.HandleHeight()
		d.host.Layout.SetBodyHeight(max(0, h))
	} else {
		d.host.Layout.ResetBodyHeight()
	}
	d.contentHeight = d.host.Layout.ContentHeight()
}

func (d *Dialog) logTransition(from State) {
	to := d.State()
	if from != to && !CanTransition(from, to) {
		d.logger.Warn("sheet: unexpected transition", "from", from, "to", to)
	}
	d.logger.Debug("sheet: "+TransitionName(from, to), "from", from, "to", to, "offset", d.offsetY)
}

// State returns the current resting state.
func (d *Dialog) State() State {
	switch {
	case !d.presentedOpen:
		return StateClosed
	case d.minimized:
		return StateMinimized
	default:
		return StateOpen
	}
}

// Offset returns the current vertical translation.
func (d *Dialog) Offset() float64 { return d.offsetY }

// ContentHeight returns the last measured panel height.
func (d *Dialog) ContentHeight() float64 { return d.contentHeight }

// ClampCeiling returns the height that stays visible when minimized.
func (d *Dialog) ClampCeiling() float64 { return d.clampCeiling() }

// Config returns a copy of the attribute-derived configuration.
func (d *Dialog) Config() Config { return d.cfg }

// Connected reports whether the dialog is attached.
func (d *Dialog) Connected() bool { return d.connected }

// IsOpen reports the declarative open flag.
func (d *Dialog) IsOpen() bool { return d.isOpen }

// Dragging reports whether a drag session is active.
func (d *Dialog) Dragging() bool { return d.session != nil }

// Session returns the active drag session, or nil.
func (d *Dialog) Session() *DragSession { return d.session }

// OpenPending reports whether a deferred open is waiting for a frame.
func (d *Dialog) OpenPending() bool { return d.cancelOpen != nil }
