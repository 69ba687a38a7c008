package script

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/marcus/sheet/internal/config"
	"github.com/marcus/sheet/pkg/sheet"
)

// ErrNotAttached is returned for pointer steps while the dialog is
// detached, since the gesture would reach no listener.
var ErrNotAttached = errors.New("dialog is not attached")

// StepError reports which step failed.
type StepError struct {
	Index int
	Kind  string
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (%s): %v", e.Index+1, e.Kind, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// Snapshot is the engine state after one step.
type Snapshot struct {
	Step        int      `json:"step"`
	Kind        string   `json:"kind"`
	Elapsed     string   `json:"elapsed"`
	State       string   `json:"state"`
	Offset      float64  `json:"offset"`
	Content     float64  `json:"content_height"`
	Flags       []string `json:"flags,omitempty"`
	Locked      bool     `json:"scroll_locked"`
	Released    bool     `json:"scroll_released"`
	Attached    bool     `json:"attached"`
	Dragging    bool     `json:"dragging"`
	OpenPending bool     `json:"open_pending"`
	Listeners   int      `json:"listeners"`
}

// Runner replays a script on a fresh stage.
type Runner struct {
	Logger *slog.Logger
	// Epoch is the virtual time of the first step.
	Epoch time.Time
}

// Run executes every step and returns one snapshot per step. On error the
// snapshots taken so far are returned with a *StepError.
func (r *Runner) Run(ctx context.Context, s *Script) ([]Snapshot, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}
	epoch := r.Epoch
	if epoch.IsZero() {
		epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	interval := s.Interval
	if interval == 0 {
		interval = DefaultStepInterval
	}

	layout := sheet.StageLayout{Viewport: s.Viewport, Header: s.Header, Handle: s.Handle, Body: s.Body}
	stage := sheet.NewStage(layout)
	points := 0
	if s.Touch {
		points = 1
	}
	d := sheet.New(stage.Host(points, logger))
	for _, c := range config.Diff(nil, s.Attributes) {
		d.SetAttribute(c.Name, *c.Value)
	}

	ex := &executor{stage: stage, dialog: d, layout: layout, touch: s.Touch, now: epoch}
	snaps := make([]Snapshot, 0, len(s.Steps))
	for i, step := range s.Steps {
		if err := ctx.Err(); err != nil {
			return snaps, &StepError{Index: i, Kind: step.Kind, Err: err}
		}
		if i > 0 {
			ex.now = ex.now.Add(interval)
		}
		if err := ex.apply(step); err != nil {
			return snaps, &StepError{Index: i, Kind: step.Kind, Err: err}
		}
		snaps = append(snaps, ex.snapshot(i, step.Kind, epoch))
	}
	return snaps, nil
}

// Run is shorthand for a Runner with default settings.
func Run(ctx context.Context, s *Script) ([]Snapshot, error) {
	return (&Runner{}).Run(ctx, s)
}

type executor struct {
	stage  *sheet.Stage
	dialog *sheet.Dialog
	layout sheet.StageLayout
	touch  bool
	now    time.Time
	lastY  float64
}

func (x *executor) apply(step Step) error {
	switch step.Kind {
	case KindAttach:
		x.dialog.OnAttach()
	case KindDetach:
		x.dialog.OnDetach()
	case KindSet:
		x.dialog.SetAttribute(step.Name, step.Value)
	case KindRemove:
		x.dialog.RemoveAttribute(step.Name)
	case KindOpen:
		x.dialog.Open()
	case KindMinimize:
		x.dialog.Minimize()
	case KindClose:
		x.dialog.Close()
	case KindWait:
		x.now = x.now.Add(step.Duration)
	case KindFrame:
		for i := 0; i < max(1, step.Count); i++ {
			x.stage.FlushFrame()
		}
	case KindResize:
		if step.Viewport > 0 {
			x.layout.Viewport = step.Viewport
		}
		if step.Body > 0 {
			x.layout.Body = step.Body
		}
		x.stage.Resize(x.layout)
		x.dialog.Remeasure()
	case KindStart, KindMove, KindEnd:
		if !x.dialog.Connected() {
			return ErrNotAttached
		}
		x.pointer(step)
	case KindClick:
		target := sheet.NodeOverlay
		if step.Target == "content" {
			target = sheet.NodeContent
		}
		x.stage.Dispatch(sheet.Event{Type: sheet.EventClick, Target: target, Timestamp: x.now})
	default:
		return fmt.Errorf("unknown step %q", step.Kind)
	}
	return nil
}

func (x *executor) pointer(step Step) {
	y := x.lastY
	if step.HasY {
		y = step.Y
	}
	x.lastY = y

	ev := sheet.Event{Target: sheet.NodeWindow, PageY: y, Timestamp: x.now}
	switch step.Kind {
	case KindStart:
		ev.Target = sheet.NodeHandle
		ev.Type = sheet.EventMouseDown
		if x.touch {
			ev.Type = sheet.EventTouchStart
		}
	case KindMove:
		ev.Type = sheet.EventMouseMove
		if x.touch {
			ev.Type = sheet.EventTouchMove
		}
	case KindEnd:
		ev.Type = sheet.EventMouseUp
		if x.touch {
			ev.Type = sheet.EventTouchEnd
		}
	}
	if x.touch && step.Kind != KindEnd {
		ev.Touches = []sheet.Touch{{PageY: y}}
	}
	x.stage.Dispatch(ev)
}

func (x *executor) snapshot(i int, kind string, epoch time.Time) Snapshot {
	var flags []string
	for _, f := range x.stage.Flags() {
		flags = append(flags, string(f))
	}
	state := "detached"
	if x.dialog.Connected() {
		state = x.dialog.State().String()
	}
	return Snapshot{
		Step:        i + 1,
		Kind:        kind,
		Elapsed:     x.now.Sub(epoch).String(),
		State:       state,
		Offset:      x.dialog.Offset(),
		Content:     x.dialog.ContentHeight(),
		Flags:       flags,
		Locked:      x.stage.Locked(),
		Released:    x.stage.Released(),
		Attached:    x.dialog.Connected(),
		Dragging:    x.dialog.Dragging(),
		OpenPending: x.dialog.OpenPending(),
		Listeners:   x.stage.ListenerCount(),
	}
}
