package tui

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/sheet/pkg/sheet"
)

// 80x24 terminal: 23 viewport rows, body capped at 20 rows, so the panel is
// 21 rows tall and fully open it starts at row 2 with the handle on row 1.
const (
	testWidth   = 80
	testHeight  = 24
	openTop     = 2
	openHandleY = 1
)

func testContent() string {
	var b strings.Builder
	for i := 1; i <= 40; i++ {
		fmt.Fprintf(&b, "Paragraph %d of the sheet body.\n\n", i)
	}
	return b.String()
}

func testPage() string {
	lines := make([]string, 100)
	for i := range lines {
		lines[i] = fmt.Sprintf("page line %d", i)
	}
	return strings.Join(lines, "\n")
}

func newTestModel(t *testing.T, opts Options) *Model {
	t.Helper()
	opts.Title = "Details"
	opts.Content = testContent()
	opts.Page = testPage()
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	m := New(opts)
	clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	m.Update(tea.WindowSizeMsg{Width: testWidth, Height: testHeight})
	flushFrames(m)
	return m
}

func flushFrames(m *Model) {
	for i := 0; i < 10 && m.stage.PendingFrames() > 0; i++ {
		m.Update(frameMsg{})
	}
}

func leftPress(y int) tea.MouseMsg {
	return tea.MouseMsg{X: 10, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
}

func motion(y int) tea.MouseMsg {
	return tea.MouseMsg{X: 10, Y: y, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft}
}

func release(y int) tea.MouseMsg {
	return tea.MouseMsg{X: 10, Y: y, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft}
}

func wheelDown() tea.MouseMsg {
	return tea.MouseMsg{X: 10, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown}
}

func keyPress(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestViewEmptyBeforeSize(t *testing.T) {
	m := New(Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	if got := m.View(); got != "" {
		t.Errorf("View before size = %q, want empty", got)
	}
	if m.Dialog().Connected() {
		t.Error("dialog attached before the first window size")
	}
}

func TestAttachClosed(t *testing.T) {
	m := newTestModel(t, Options{})

	snap := m.Snapshot()
	if snap.State != sheet.StateClosed || snap.Visible {
		t.Fatalf("snapshot = %+v, want closed and hidden", snap)
	}
	if got := m.Stage().ContentHeight(); got != 21 {
		t.Errorf("content height = %v, want 21", got)
	}
	if snap.Offset != 21 {
		t.Errorf("offset = %v, want 21", snap.Offset)
	}
	if n := len(m.mouse.HitMap.Regions()); n != 0 {
		t.Errorf("regions = %d, want 0 while closed", n)
	}
}

func TestOpenAttributeWaitsForFrame(t *testing.T) {
	m := New(Options{
		Content:    testContent(),
		Attributes: map[string]string{sheet.AttrOpen: ""},
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	_, cmd := m.Update(tea.WindowSizeMsg{Width: testWidth, Height: testHeight})
	if !m.Dialog().OpenPending() {
		t.Fatal("expected open to be deferred to a frame")
	}
	if cmd == nil {
		t.Fatal("expected a frame tick command")
	}

	m.Update(frameMsg{})
	snap := m.Snapshot()
	if snap.State != sheet.StateOpen || snap.Offset != 0 || !snap.Locked {
		t.Errorf("snapshot = %+v, want open at 0 with scroll locked", snap)
	}
	if snap.PanelTop != openTop {
		t.Errorf("panel top = %d, want %d", snap.PanelTop, openTop)
	}
	if !strings.Contains(m.View(), "Sheet") {
		t.Error("view should contain the default title")
	}
}

func TestHitRegions(t *testing.T) {
	m := newTestModel(t, Options{})
	m.Update(CommandMsg("open"))

	tests := []struct {
		y    int
		want string
	}{
		{0, RegionOverlay},
		{openHandleY, RegionHandle},
		{openTop, RegionContent},
		{22, RegionContent},
	}
	for _, tt := range tests {
		r := m.mouse.HitMap.Test(5, tt.y)
		if r == nil || r.ID != tt.want {
			t.Errorf("row %d hit %v, want %s", tt.y, r, tt.want)
		}
	}
	if r := m.mouse.HitMap.Test(5, 23); r != nil {
		t.Errorf("status row hit %s, want nothing", r.ID)
	}
}

func TestDragFling(t *testing.T) {
	m := newTestModel(t, Options{})
	m.Update(CommandMsg("open"))

	m.Update(leftPress(openHandleY))
	if !m.Dialog().Dragging() {
		t.Fatal("press on the handle should start a drag")
	}
	m.Update(motion(5))
	m.Update(motion(7))
	if got := m.Dialog().Offset(); got != 6 {
		t.Errorf("offset while dragging = %v, want 6", got)
	}
	m.Update(release(7))

	// last sample offset 6, velocity 2: 6 + 2*4 = 14
	if got := m.Dialog().Offset(); got != 14 {
		t.Errorf("offset after fling = %v, want 14", got)
	}
	if m.Dialog().Dragging() || m.Stage().Flag(sheet.FlagDragging) {
		t.Error("drag should be over after release")
	}
	if got := m.Stage().WindowTarget.Total(); got != 0 {
		t.Errorf("window listeners = %d, want 0", got)
	}
}

func TestDragEndLogsStartOffset(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	m := newTestModel(t, Options{Logger: logger})
	m.Update(CommandMsg("open"))

	m.Update(leftPress(openHandleY))
	m.Update(motion(5))
	m.Update(motion(7))
	m.Update(release(7))

	out := buf.String()
	if !strings.Contains(out, "tui: drag ended") {
		t.Fatalf("log missing drag end: %q", out)
	}
	for _, want := range []string{"rows=6", "from=0", "to=14"} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %s: %q", want, out)
		}
	}
}

func TestStatusLineListsAttributes(t *testing.T) {
	m := newTestModel(t, Options{Attributes: map[string]string{
		sheet.AttrMinimize:  "",
		sheet.AttrSnapToTop: "",
	}})
	if got := m.statusLine(); !strings.Contains(got, "{minimize,snap-to-top}") {
		t.Errorf("status line = %q, want sorted attribute names", got)
	}

	m.Update(keyPress("t"))
	if got := m.statusLine(); !strings.Contains(got, "{minimize}") {
		t.Errorf("status line after toggle = %q, want {minimize}", got)
	}
}

func TestDragSnapsToMinimized(t *testing.T) {
	m := newTestModel(t, Options{Attributes: map[string]string{sheet.AttrMinimize: ""}})
	if got := m.Dialog().State(); got != sheet.StateMinimized {
		t.Fatalf("minimizable sheet attached in %v, want minimized", got)
	}
	m.Update(CommandMsg("open"))

	m.Update(leftPress(openHandleY))
	m.Update(motion(openHandleY + 15))
	m.Update(release(openHandleY + 15))

	snap := m.Snapshot()
	if snap.State != sheet.StateMinimized {
		t.Fatalf("state = %v, want minimized", snap.State)
	}
	if snap.Offset != 20 || snap.PanelTop != 22 {
		t.Errorf("offset/top = %v/%d, want 20/22", snap.Offset, snap.PanelTop)
	}
	if snap.Overlay || snap.Locked {
		t.Errorf("minimized sheet should not block the page: %+v", snap)
	}
	if r := m.mouse.HitMap.Test(5, 21); r == nil || r.ID != RegionHandle {
		t.Errorf("handle should sit above the header rail, got %v", r)
	}
}

func TestOverlayClick(t *testing.T) {
	m := newTestModel(t, Options{Attributes: map[string]string{sheet.AttrOpen: ""}})
	if got := m.Dialog().State(); got != sheet.StateOpen {
		t.Fatalf("state = %v, want open", got)
	}

	m.Update(leftPress(10))
	m.Update(release(10))
	if got := m.Dialog().State(); got != sheet.StateOpen {
		t.Errorf("content click changed state to %v", got)
	}

	m.Update(leftPress(0))
	m.Update(release(0))
	if got := m.Dialog().State(); got != sheet.StateClosed {
		t.Errorf("overlay click left state %v, want closed", got)
	}
	if m.Dialog().HasAttribute(sheet.AttrOpen) {
		t.Error("overlay click should clear the open attribute")
	}
	if m.Snapshot().Visible {
		t.Error("closed sheet should not be drawn")
	}
}

func TestPageScrollRespectsLock(t *testing.T) {
	m := newTestModel(t, Options{})

	m.Update(wheelDown())
	if got := m.PageOffset(); got != wheelStep {
		t.Fatalf("page offset = %d, want %d", got, wheelStep)
	}

	m.Update(CommandMsg("open"))
	m.Update(wheelDown())
	m.Update(keyPress("j"))
	if got := m.PageOffset(); got != wheelStep {
		t.Errorf("page scrolled to %d while locked", got)
	}

	m.Update(CommandMsg("close"))
	m.Update(keyPress("j"))
	if got := m.PageOffset(); got != wheelStep+1 {
		t.Errorf("page offset = %d, want %d", got, wheelStep+1)
	}
}

func TestToggleAttach(t *testing.T) {
	m := newTestModel(t, Options{})
	m.Update(CommandMsg("open"))
	m.Update(leftPress(openHandleY))

	m.Update(keyPress("a"))
	if m.Dialog().Connected() {
		t.Fatal("expected detach")
	}
	if got := m.Stage().ListenerCount(); got != 0 {
		t.Errorf("listeners after detach = %d, want 0", got)
	}
	if !m.Stage().Released() {
		t.Error("detach should release the scroll lock")
	}
	if n := len(m.mouse.HitMap.Regions()); n != 0 {
		t.Errorf("regions while detached = %d, want 0", n)
	}

	m.Update(keyPress("a"))
	if !m.Dialog().Connected() {
		t.Fatal("expected reattach")
	}
	if got := m.Dialog().State(); got != sheet.StateClosed {
		t.Errorf("state after reattach = %v, want closed", got)
	}
}

func TestAttributeToggles(t *testing.T) {
	m := newTestModel(t, Options{})
	m.Update(CommandMsg("open"))

	m.Update(keyPress("r"))
	if !m.Stage().Flag(sheet.FlagNoResize) {
		t.Fatal("r should set no-resize")
	}
	m.Update(leftPress(openHandleY))
	if m.Dialog().Dragging() {
		t.Error("no-resize sheet started a drag")
	}
	m.Update(release(openHandleY))

	m.Update(keyPress("t"))
	// 23 viewport rows - header - handle
	if got := m.Stage().BodyHeight(); got != 21 {
		t.Errorf("snap-to-top body = %v, want 21", got)
	}
	m.Update(keyPress("t"))
	if got := m.Stage().BodyHeight(); got != 20 {
		t.Errorf("body after snap-to-top off = %v, want 20", got)
	}
}

func TestAttributeMsg(t *testing.T) {
	m := newTestModel(t, Options{})
	v := ""
	m.Update(AttributeMsg{Name: sheet.AttrOpen, Value: &v})
	if got := m.Dialog().State(); got != sheet.StateOpen {
		t.Fatalf("state = %v, want open", got)
	}
	m.Update(AttributeMsg{Name: sheet.AttrOpen})
	if got := m.Dialog().State(); got != sheet.StateClosed {
		t.Errorf("state after removal = %v, want closed", got)
	}
}

func TestTouchHost(t *testing.T) {
	m := newTestModel(t, Options{MaxTouchPoints: 1})
	m.Update(CommandMsg("open"))

	if got := m.Stage().HandleTarget.ListenerCount(sheet.EventTouchStart); got != 1 {
		t.Fatalf("touchstart listeners = %d, want 1", got)
	}
	m.Update(leftPress(openHandleY))
	m.Update(motion(openHandleY + 3))
	if got := m.Dialog().Offset(); got != 3 {
		t.Errorf("offset = %v, want 3", got)
	}
	m.Update(release(openHandleY + 3))
	if m.Dialog().Dragging() {
		t.Error("touchend should end the drag")
	}
}

func TestContentMsgRemeasures(t *testing.T) {
	m := newTestModel(t, Options{})
	m.Update(CommandMsg("open"))
	m.Update(ContentMsg{Markdown: "short"})

	if got := m.Stage().ContentHeight(); got != 2 {
		t.Errorf("content height = %v, want 2", got)
	}
	if got := m.Snapshot().PanelTop; got != 21 {
		t.Errorf("panel top = %d, want 21", got)
	}
}

func TestQuitDetaches(t *testing.T) {
	m := newTestModel(t, Options{})
	_, cmd := m.Update(keyPress("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if m.Dialog().Connected() {
		t.Error("quit should detach the dialog")
	}
}

func TestFitWidth(t *testing.T) {
	tests := []struct {
		in   string
		w    int
		want string
	}{
		{"hello", 10, "hello"},
		{"hello world", 5, "hell…"},
		{"abc", 0, ""},
	}
	for _, tt := range tests {
		if got := fitWidth(tt.in, tt.w); got != tt.want {
			t.Errorf("fitWidth(%q, %d) = %q, want %q", tt.in, tt.w, got, tt.want)
		}
	}
}
