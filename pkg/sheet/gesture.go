package sheet

import "time"

// PointerSource maps one input device onto the drag lifecycle.
type PointerSource interface {
	Kind() string
	StartEvent() EventType
	MoveEvent() EventType
	EndEvent() EventType
	// PageY extracts the page-relative vertical position. ok is false when
	// the event carries no usable position.
	PageY(ev Event) (y float64, ok bool)
}

type touchSource struct{}

func (touchSource) Kind() string          { return "touch" }
func (touchSource) StartEvent() EventType { return EventTouchStart }
func (touchSource) MoveEvent() EventType  { return EventTouchMove }
func (touchSource) EndEvent() EventType   { return EventTouchEnd }

func (touchSource) PageY(ev Event) (float64, bool) {
	if len(ev.Touches) == 0 {
		return 0, false
	}
	return ev.Touches[0].PageY, true
}

type mouseSource struct{}

func (mouseSource) Kind() string          { return "mouse" }
func (mouseSource) StartEvent() EventType { return EventMouseDown }
func (mouseSource) MoveEvent() EventType  { return EventMouseMove }
func (mouseSource) EndEvent() EventType   { return EventMouseUp }

func (mouseSource) PageY(ev Event) (float64, bool) {
	return ev.PageY, true
}

// SourceFor picks the pointer source for a platform touch capability.
func SourceFor(maxTouchPoints int) PointerSource {
	if maxTouchPoints > 0 {
		return touchSource{}
	}
	return mouseSource{}
}

// Sample is the most recent pointer sample of a drag. Velocity is the pageY
// delta since the previous sample.
type Sample struct {
	PageY    float64
	Velocity float64
	OffsetY  float64
}

// DragSession lives from one gesture start to its end.
type DragSession struct {
	StartOffset    float64
	StartPageY     float64
	StartTimestamp time.Time
	LastSample     *Sample

	removers []func()
}

func (s *DragSession) record(pageY, offsetY float64) {
	velocity := 0.0
	if s.LastSample != nil {
		velocity = pageY - s.LastSample.PageY
	}
	s.LastSample = &Sample{PageY: pageY, Velocity: velocity, OffsetY: offsetY}
}

func (s *DragSession) release() {
	for _, remove := range s.removers {
		remove()
	}
	s.removers = nil
}

func (d *Dialog) handleDragStart(ev Event) {
	if d.session != nil {
		return
	}
	y, ok := d.source.PageY(ev)
	if !ok {
		return
	}
	d.dragStart(y, ev.Timestamp)
}

func (d *Dialog) dragStart(y float64, ts time.Time) {
	if d.cfg.CanMinimize && !d.lastStart.IsZero() && ts.Sub(d.lastStart) < DoubleActivationWindow {
		d.lastStart = ts
		d.logger.Debug("sheet: double activation", "minimized", d.minimized)
		if d.minimized {
			d.Open()
			return
		}
		d.Minimize()
		return
	}
	d.lastStart = ts

	s := &DragSession{
		StartOffset:    d.offsetY,
		StartPageY:     y,
		StartTimestamp: ts,
	}
	s.removers = append(s.removers,
		d.host.Window.Listen(d.source.MoveEvent(), d.handleDragMove),
		d.host.Window.Listen(d.source.EndEvent(), d.handleDragEnd),
	)
	d.session = s
	d.host.Presenter.SetFlag(FlagDragging, true)
}

func (d *Dialog) handleDragMove(ev Event) {
	y, ok := d.source.PageY(ev)
	if !ok {
		return
	}
	d.dragMove(y)
}

func (d *Dialog) dragMove(y float64) {
	s := d.session
	if s == nil {
		return
	}
	offset := d.clampOffset(s.StartOffset + (y - s.StartPageY))
	s.record(y, offset)
	d.applyOffset(offset)
}

func (d *Dialog) handleDragEnd(Event) {
	d.dragEnd()
}

func (d *Dialog) dragEnd() {
	s := d.endSession()
	if s == nil || s.LastSample == nil {
		return
	}
	d.settle(*s.LastSample)
}

// endSession tears down the active session, if any, without snapping.
func (d *Dialog) endSession() *DragSession {
	s := d.session
	if s == nil {
		return nil
	}
	s.release()
	d.session = nil
	d.host.Presenter.SetFlag(FlagDragging, false)
	return s
}
