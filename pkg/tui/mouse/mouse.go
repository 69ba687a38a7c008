// Package mouse provides hit testing and drag tracking for terminal mouse
// input.
package mouse

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DoubleClickThreshold is the longest gap between two clicks on the same
// region that still counts as a double click.
const DoubleClickThreshold = 400 * time.Millisecond

// Rect is a screen rectangle. Width and height are exclusive.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Region is a named hit area.
type Region struct {
	ID   string
	Rect Rect
	Data any
}

// HitMap holds regions in insertion order; later regions win.
type HitMap struct {
	regions []Region
}

// NewHitMap returns an empty hit map.
func NewHitMap() *HitMap {
	return &HitMap{}
}

// AddRect registers a region.
func (h *HitMap) AddRect(id string, x, y, w, hgt int, data any) {
	h.regions = append(h.regions, Region{ID: id, Rect: Rect{X: x, Y: y, W: w, H: hgt}, Data: data})
}

// Test returns the topmost region containing (x, y), or nil.
func (h *HitMap) Test(x, y int) *Region {
	for i := len(h.regions) - 1; i >= 0; i-- {
		if h.regions[i].Rect.Contains(x, y) {
			r := h.regions[i]
			return &r
		}
	}
	return nil
}

// Regions returns the registered regions.
func (h *HitMap) Regions() []Region {
	return h.regions
}

// Clear removes every region. Call it before each render.
func (h *HitMap) Clear() {
	h.regions = h.regions[:0]
}

// ActionType classifies a mouse message.
type ActionType int

const (
	ActionNone ActionType = iota
	ActionClick
	ActionDoubleClick
	ActionHover
	ActionRelease
	ActionScrollUp
	ActionScrollDown
	ActionScrollLeft
	ActionScrollRight
	ActionDrag
	ActionDragEnd
)

// Action is the result of HandleMouse.
type Action struct {
	Type   ActionType
	Region *Region
	X, Y   int
	DragDX int
	DragDY int
}

// ClickResult is the result of HandleClick.
type ClickResult struct {
	Region        *Region
	IsDoubleClick bool
}

// Handler combines a hit map with click and drag state.
type Handler struct {
	HitMap *HitMap

	now func() time.Time

	lastClickAt     time.Time
	lastClickRegion string

	dragging       bool
	dragRegion     string
	dragStartX     int
	dragStartY     int
	dragStartValue int
}

// NewHandler returns a handler with an empty hit map.
func NewHandler() *Handler {
	return &Handler{HitMap: NewHitMap(), now: time.Now}
}

// HandleClick hit-tests a click and detects double clicks on the same
// region. A double click resets detection so a third click is single.
func (h *Handler) HandleClick(x, y int) ClickResult {
	region := h.HitMap.Test(x, y)
	now := h.now()
	res := ClickResult{Region: region}

	id := ""
	if region != nil {
		id = region.ID
	}
	if region != nil && id == h.lastClickRegion && !h.lastClickAt.IsZero() && now.Sub(h.lastClickAt) < DoubleClickThreshold {
		res.IsDoubleClick = true
		h.lastClickAt = time.Time{}
		h.lastClickRegion = ""
		return res
	}
	h.lastClickAt = now
	h.lastClickRegion = id
	return res
}

// StartDrag begins tracking a drag on region. startValue is whatever the
// caller wants back at the end, e.g. the offset at drag start.
func (h *Handler) StartDrag(x, y int, region string, startValue int) {
	h.dragging = true
	h.dragRegion = region
	h.dragStartX = x
	h.dragStartY = y
	h.dragStartValue = startValue
}

// IsDragging reports whether a drag is in progress.
func (h *Handler) IsDragging() bool { return h.dragging }

// DragRegion returns the region the drag started on.
func (h *Handler) DragRegion() string { return h.dragRegion }

// DragStartValue returns the value passed to StartDrag.
func (h *Handler) DragStartValue() int { return h.dragStartValue }

// DragDelta returns the offset of (x, y) from the drag start.
func (h *Handler) DragDelta(x, y int) (int, int) {
	return x - h.dragStartX, y - h.dragStartY
}

// EndDrag stops tracking the drag.
func (h *Handler) EndDrag() {
	h.dragging = false
	h.dragRegion = ""
}

// HandleMouse classifies msg. Left presses are clicks, motion is a drag
// while dragging and a hover otherwise, and a release ends a drag.
func (h *Handler) HandleMouse(msg tea.MouseMsg) Action {
	act := Action{X: msg.X, Y: msg.Y}
	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			act.Type = ActionScrollUp
			if msg.Shift {
				act.Type = ActionScrollLeft
			}
		case tea.MouseButtonWheelDown:
			act.Type = ActionScrollDown
			if msg.Shift {
				act.Type = ActionScrollRight
			}
		case tea.MouseButtonWheelLeft:
			act.Type = ActionScrollLeft
		case tea.MouseButtonWheelRight:
			act.Type = ActionScrollRight
		case tea.MouseButtonLeft:
			res := h.HandleClick(msg.X, msg.Y)
			act.Region = res.Region
			act.Type = ActionClick
			if res.IsDoubleClick {
				act.Type = ActionDoubleClick
			}
		}
	case tea.MouseActionMotion:
		if h.dragging {
			act.Type = ActionDrag
			act.DragDX, act.DragDY = h.DragDelta(msg.X, msg.Y)
			return act
		}
		act.Type = ActionHover
		act.Region = h.HitMap.Test(msg.X, msg.Y)
	case tea.MouseActionRelease:
		if h.dragging {
			act.Type = ActionDragEnd
			act.DragDX, act.DragDY = h.DragDelta(msg.X, msg.Y)
			h.EndDrag()
			return act
		}
		act.Type = ActionRelease
		act.Region = h.HitMap.Test(msg.X, msg.Y)
	}
	return act
}

// Clear drops all regions.
func (h *Handler) Clear() {
	h.HitMap.Clear()
}
