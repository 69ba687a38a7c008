package sheet

import "log/slog"

// Stage is an in-memory Host. It records what the dialog presents, queues
// frame callbacks until FlushFrame and exposes its event targets for
// dispatching synthetic input.
type Stage struct {
	HandleTarget  *Dispatcher
	OverlayTarget *Dispatcher
	WindowTarget  *Dispatcher

	viewport  float64
	header    float64
	handle    float64
	body      float64
	fixedBody float64
	hasFixed  bool

	props    map[string]float64
	flags    map[Flag]bool
	locked   bool
	released bool

	frames []*frameRequest
}

type frameRequest struct {
	fn       func()
	canceled bool
}

// StageLayout describes the measured geometry of a Stage.
type StageLayout struct {
	Viewport float64
	Header   float64
	Handle   float64
	Body     float64
}

// NewStage returns a stage with the given geometry.
func NewStage(l StageLayout) *Stage {
	return &Stage{
		HandleTarget:  NewDispatcher(),
		OverlayTarget: NewDispatcher(),
		WindowTarget:  NewDispatcher(),
		viewport:      l.Viewport,
		header:        l.Header,
		handle:        l.Handle,
		body:          l.Body,
		props:         make(map[string]float64),
		flags:         make(map[Flag]bool),
	}
}

// Host returns a Host backed by the stage.
func (s *Stage) Host(maxTouchPoints int, logger *slog.Logger) Host {
	return Host{
		Handle:         s.HandleTarget,
		Overlay:        s.OverlayTarget,
		Window:         s.WindowTarget,
		Layout:         s,
		Presenter:      s,
		ScrollLock:     s,
		Frames:         s,
		MaxTouchPoints: maxTouchPoints,
		Logger:         logger,
	}
}

// Resize updates the geometry. The dialog picks it up on its next measure.
func (s *Stage) Resize(l StageLayout) {
	s.viewport, s.header, s.handle, s.body = l.Viewport, l.Header, l.Handle, l.Body
}

func (s *Stage) ContentHeight() float64 {
	if s.hasFixed {
		return s.header + s.fixedBody
	}
	return s.header + s.body
}

func (s *Stage) HeaderHeight() float64   { return s.header }
func (s *Stage) HandleHeight() float64   { return s.handle }
func (s *Stage) ViewportHeight() float64 { return s.viewport }

func (s *Stage) SetBodyHeight(h float64) {
	s.fixedBody = h
	s.hasFixed = true
}

func (s *Stage) ResetBodyHeight() {
	s.fixedBody = 0
	s.hasFixed = false
}

// BodyHeight returns the body height currently in effect.
func (s *Stage) BodyHeight() float64 {
	if s.hasFixed {
		return s.fixedBody
	}
	return s.body
}

func (s *Stage) SetProperty(name string, px float64) { s.props[name] = px }
func (s *Stage) SetFlag(f Flag, on bool)             { s.flags[f] = on }

// Property returns a presented property value.
func (s *Stage) Property(name string) float64 { return s.props[name] }

// Flag returns a presented flag.
func (s *Stage) Flag(f Flag) bool { return s.flags[f] }

// Flags returns the flags currently on.
func (s *Stage) Flags() []Flag {
	var out []Flag
	for _, f := range []Flag{FlagOpen, FlagInactive, FlagDragging, FlagNoResize} {
		if s.flags[f] {
			out = append(out, f)
		}
	}
	return out
}

func (s *Stage) SetLocked(locked bool) {
	s.locked = locked
	s.released = false
}

func (s *Stage) Release() {
	s.locked = false
	s.released = true
}

// Locked reports whether page scrolling is locked.
func (s *Stage) Locked() bool { return s.locked }

// Released reports whether the lock was released since the last SetLocked.
func (s *Stage) Released() bool { return s.released }

func (s *Stage) RequestFrame(fn func()) func() {
	req := &frameRequest{fn: fn}
	s.frames = append(s.frames, req)
	return func() { req.canceled = true }
}

// FlushFrame runs the callbacks queued before this call. Callbacks queued
// while flushing wait for the next frame. It returns how many ran.
func (s *Stage) FlushFrame() int {
	pending := s.frames
	s.frames = nil
	ran := 0
	for _, req := range pending {
		if req.canceled {
			continue
		}
		req.fn()
		ran++
	}
	return ran
}

// PendingFrames returns the number of live frame callbacks.
func (s *Stage) PendingFrames() int {
	n := 0
	for _, req := range s.frames {
		if !req.canceled {
			n++
		}
	}
	return n
}

// Dispatch routes ev to the target of its node and then lets it bubble to
// the window. Clicks on the content go through the overlay target so the
// dialog can reject them.
func (s *Stage) Dispatch(ev Event) {
	switch ev.Target {
	case NodeHandle:
		s.HandleTarget.Dispatch(ev)
	case NodeOverlay, NodeContent:
		if ev.Type == EventClick {
			s.OverlayTarget.Dispatch(ev)
		}
	}
	s.WindowTarget.Dispatch(ev)
}

// ListenerCount returns the total listeners across all targets.
func (s *Stage) ListenerCount() int {
	return s.HandleTarget.Total() + s.OverlayTarget.Total() + s.WindowTarget.Total()
}
