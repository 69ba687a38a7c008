// Package tui hosts the sheet engine in a terminal. Mouse input on the
// handle row drives drags, clicks above the panel hit the overlay and the
// page behind the sheet scrolls only while the engine leaves it unlocked.
package tui

import (
	"log/slog"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/sheet/pkg/sheet"
	"github.com/marcus/sheet/pkg/tui/mouse"
)

// Region IDs used in the hit map.
const (
	RegionOverlay = "overlay"
	RegionContent = "content"
	RegionHandle  = "handle"
)

const (
	headerRows = 1
	handleRows = 1
	statusRows = 1

	// FrameInterval is how long the host waits before running queued frame
	// callbacks.
	FrameInterval = 16 * time.Millisecond

	wheelStep = 3
)

// AttributeMsg adds (Value non-nil) or removes (Value nil) a sheet
// attribute.
type AttributeMsg struct {
	Name  string
	Value *string
}

// ContentMsg replaces the sheet body markdown.
type ContentMsg struct {
	Markdown string
}

// CommandMsg invokes an imperative sheet operation by name: open, minimize
// or close.
type CommandMsg string

type frameMsg struct{}

// Options configures a Model.
type Options struct {
	Title      string
	Content    string
	Page       string
	Attributes map[string]string
	// MaxTouchPoints > 0 makes the host emit touch events instead of mouse
	// events.
	MaxTouchPoints int
	Logger         *slog.Logger
}

// Model is the bubbletea host for a sheet.Dialog.
type Model struct {
	stage  *sheet.Stage
	dialog *sheet.Dialog
	page   viewport.Model
	mouse  *mouse.Handler
	keys   KeyMap
	logger *slog.Logger
	now    func() time.Time

	title    string
	markdown string
	md       markdownRenderer
	body     []string

	initial map[string]string
	touch   bool

	width, height int
	ready         bool
	framePending  bool
}

// New creates a model. The dialog attaches on the first window size.
func New(opts Options) *Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	stage := sheet.NewStage(sheet.StageLayout{Header: headerRows, Handle: handleRows})
	m := &Model{
		stage:    stage,
		dialog:   sheet.New(stage.Host(opts.MaxTouchPoints, logger)),
		page:     viewport.New(0, 0),
		mouse:    mouse.NewHandler(),
		keys:     DefaultKeyMap(),
		logger:   logger.With("component", "tui"),
		now:      time.Now,
		title:    opts.Title,
		markdown: opts.Content,
		initial:  opts.Attributes,
		touch:    opts.MaxTouchPoints > 0,
	}
	if m.title == "" {
		m.title = "Sheet"
	}
	m.page.SetContent(opts.Page)
	return m
}

// Dialog returns the hosted engine.
func (m *Model) Dialog() *sheet.Dialog { return m.dialog }

// Stage returns the in-memory host backing the dialog.
func (m *Model) Stage() *sheet.Stage { return m.stage }

// PageOffset returns the scroll offset of the background page.
func (m *Model) PageOffset() int { return m.page.YOffset }

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.dialog.OnDetach()
			return m, tea.Quit
		}
		m.handleKey(msg)

	case tea.MouseMsg:
		m.handleMouse(msg)

	case AttributeMsg:
		if msg.Value == nil {
			m.dialog.RemoveAttribute(msg.Name)
		} else {
			m.dialog.SetAttribute(msg.Name, *msg.Value)
		}

	case ContentMsg:
		m.markdown = msg.Markdown
		m.relayout()

	case CommandMsg:
		m.runCommand(string(msg))

	case frameMsg:
		m.framePending = false
		if n := m.stage.FlushFrame(); n > 0 {
			m.logger.Debug("tui: frame", "callbacks", n)
		}
	}

	m.refreshRegions()
	if c := m.scheduleFrame(); c != nil {
		cmd = c
	}
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, m.keys.Open):
		m.runCommand("open")
	case key.Matches(msg, m.keys.Minimize):
		m.runCommand("minimize")
	case key.Matches(msg, m.keys.Close):
		m.runCommand("close")
	case key.Matches(msg, m.keys.ToggleAttach):
		if m.dialog.Connected() {
			m.mouse.EndDrag()
			m.dialog.OnDetach()
		} else {
			m.dialog.OnAttach()
		}
	case key.Matches(msg, m.keys.SnapToTop):
		m.toggleAttribute(sheet.AttrSnapToTop)
	case key.Matches(msg, m.keys.NoResize):
		m.toggleAttribute(sheet.AttrNoResize)
	case key.Matches(msg, m.keys.CanMinimize):
		m.toggleAttribute(sheet.AttrMinimize)
	case key.Matches(msg, m.keys.ScrollUp):
		m.scrollPage(-1)
	case key.Matches(msg, m.keys.ScrollDown):
		m.scrollPage(1)
	}
}

func (m *Model) runCommand(name string) {
	switch name {
	case "open":
		m.dialog.Open()
	case "minimize":
		m.dialog.Minimize()
	case "close":
		m.dialog.Close()
	default:
		m.logger.Warn("tui: unknown command", "name", name)
	}
}

func (m *Model) toggleAttribute(name string) {
	if m.dialog.HasAttribute(name) {
		m.dialog.RemoveAttribute(name)
	} else {
		m.dialog.SetAttribute(name, "")
	}
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	act := m.mouse.HandleMouse(msg)
	switch act.Type {
	case mouse.ActionClick, mouse.ActionDoubleClick:
		m.press(act)
	case mouse.ActionDrag:
		m.dispatch(m.moveEvent(), sheet.NodeWindow, act.Y)
	case mouse.ActionDragEnd:
		m.dispatch(m.endEvent(), sheet.NodeWindow, act.Y)
		m.logger.Debug("tui: drag ended", "rows", act.DragDY,
			"from", m.mouse.DragStartValue(), "to", int(m.dialog.Offset()))
	case mouse.ActionScrollUp:
		m.scrollPage(-wheelStep)
	case mouse.ActionScrollDown:
		m.scrollPage(wheelStep)
	}
}

func (m *Model) press(act mouse.Action) {
	if act.Region == nil {
		return
	}
	switch act.Region.ID {
	case RegionHandle:
		m.mouse.StartDrag(act.X, act.Y, RegionHandle, int(m.dialog.Offset()))
		m.dispatch(m.startEvent(), sheet.NodeHandle, act.Y)
	case RegionContent:
		m.dispatch(sheet.EventClick, sheet.NodeContent, act.Y)
	case RegionOverlay:
		m.dispatch(sheet.EventClick, sheet.NodeOverlay, act.Y)
	}
}

func (m *Model) dispatch(typ sheet.EventType, target sheet.Node, y int) {
	ev := sheet.Event{
		Type:      typ,
		Target:    target,
		PageY:     float64(y),
		Timestamp: m.now(),
	}
	if m.touch && typ != sheet.EventTouchEnd && typ != sheet.EventClick {
		ev.Touches = []sheet.Touch{{PageY: float64(y)}}
	}
	m.stage.Dispatch(ev)
}

func (m *Model) startEvent() sheet.EventType {
	if m.touch {
		return sheet.EventTouchStart
	}
	return sheet.EventMouseDown
}

func (m *Model) moveEvent() sheet.EventType {
	if m.touch {
		return sheet.EventTouchMove
	}
	return sheet.EventMouseMove
}

func (m *Model) endEvent() sheet.EventType {
	if m.touch {
		return sheet.EventTouchEnd
	}
	return sheet.EventMouseUp
}

// scrollPage moves the background page unless the sheet holds the lock.
func (m *Model) scrollPage(delta int) {
	if m.stage.Locked() {
		return
	}
	m.page.SetYOffset(m.page.YOffset + delta)
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	m.page.Width = width
	m.page.Height = max(0, height-statusRows)
	m.relayout()

	if !m.ready {
		m.ready = true
		m.applyInitialAttributes()
		m.dialog.OnAttach()
	}
}

// applyInitialAttributes sets configured attributes in a stable order with
// open last so the other options are in effect when it fires.
func (m *Model) applyInitialAttributes() {
	names := make([]string, 0, len(m.initial))
	for name := range m.initial {
		if name != sheet.AttrOpen {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		m.dialog.SetAttribute(name, m.initial[name])
	}
	if v, ok := m.initial[sheet.AttrOpen]; ok {
		m.dialog.SetAttribute(sheet.AttrOpen, v)
	}
}

// relayout renders the body for the current width and pushes the new
// geometry into the stage.
func (m *Model) relayout() {
	m.body = m.md.render(m.markdown, m.width-2)
	m.stage.Resize(sheet.StageLayout{
		Viewport: float64(m.viewportRows()),
		Header:   headerRows,
		Handle:   handleRows,
		Body:     float64(m.bodyRows()),
	})
	m.dialog.Remeasure()
}

func (m *Model) viewportRows() int {
	return max(0, m.height-statusRows)
}

// bodyRows caps the natural body height so the handle stays on screen.
func (m *Model) bodyRows() int {
	limit := max(1, m.viewportRows()-headerRows-handleRows-1)
	return min(max(1, len(m.body)), limit)
}

// panelTop returns the screen row of the header.
func (m *Model) panelTop() int {
	content := int(m.stage.ContentHeight())
	offset := int(math.Round(m.dialog.Offset()))
	return m.viewportRows() - content + offset
}

func (m *Model) sheetVisible() bool {
	return m.dialog.Connected() && m.stage.Flag(sheet.FlagOpen)
}

func (m *Model) overlayActive() bool {
	return m.sheetVisible() && !m.stage.Flag(sheet.FlagInactive)
}

// refreshRegions rebuilds the hit map from the current geometry.
func (m *Model) refreshRegions() {
	m.mouse.Clear()
	vp := m.viewportRows()
	if !m.sheetVisible() || vp == 0 {
		return
	}
	if m.overlayActive() {
		m.mouse.HitMap.AddRect(RegionOverlay, 0, 0, m.width, vp, nil)
	}
	top := m.panelTop()
	bottom := min(vp, top+int(m.stage.ContentHeight()))
	if y := max(0, top); bottom > y {
		m.mouse.HitMap.AddRect(RegionContent, 0, y, m.width, bottom-y, nil)
	}
	if h := top - handleRows; h >= 0 && h < vp {
		m.mouse.HitMap.AddRect(RegionHandle, 0, h, m.width, handleRows, nil)
	}
}

func (m *Model) scheduleFrame() tea.Cmd {
	if m.framePending || m.stage.PendingFrames() == 0 {
		return nil
	}
	m.framePending = true
	return tea.Tick(FrameInterval, func(time.Time) tea.Msg { return frameMsg{} })
}

func (m *Model) View() string {
	if !m.ready {
		return ""
	}
	vp := m.viewportRows()
	rows := strings.Split(m.page.View(), "\n")
	for len(rows) < vp {
		rows = append(rows, "")
	}
	rows = rows[:vp]

	dim := m.overlayActive()
	for i, r := range rows {
		rows[i] = fitWidth(r, m.width)
		if dim {
			rows[i] = dimmedPageStyle.Render(stripStyle(rows[i]))
		} else {
			rows[i] = pageStyle.Render(rows[i])
		}
	}

	if m.sheetVisible() {
		for y, line := range m.panelRows() {
			if y >= 0 && y < vp {
				rows[y] = line
			}
		}
	}

	rows = append(rows, m.statusLine())
	return strings.Join(rows, "\n")
}

// panelRows renders the handle, header and body keyed by screen row.
func (m *Model) panelRows() map[int]string {
	out := make(map[int]string)
	top := m.panelTop()

	hs := handleStyle
	if m.stage.Flag(sheet.FlagDragging) {
		hs = handleDraggingStyle
	}
	if !m.stage.Flag(sheet.FlagNoResize) {
		out[top-1] = hs.Width(m.width).Render(handleGlyph)
	} else {
		out[top-1] = bodyStyle.Width(m.width).Render("")
	}

	title := fitWidth(m.title, m.width-2)
	if m.stage.Flag(sheet.FlagInactive) {
		out[top] = headerInactiveStyle.Width(m.width).Render(title)
	} else {
		out[top] = headerStyle.Width(m.width).Render(title)
	}

	rows := int(m.stage.BodyHeight())
	for i := 0; i < rows; i++ {
		line := ""
		if i < len(m.body) {
			line = m.body[i]
		}
		out[top+headerRows+i] = bodyStyle.Width(m.width).Render(" " + fitWidth(line, m.width-2))
	}
	return out
}
