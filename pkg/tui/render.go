package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/marcus/sheet/pkg/sheet"
)

// fitWidth truncates s to w cells.
func fitWidth(s string, w int) string {
	if w <= 0 {
		return ""
	}
	if ansi.StringWidth(s) <= w {
		return s
	}
	return ansi.Truncate(s, w, "…")
}

func stripStyle(s string) string {
	return ansi.Strip(s)
}

func (m *Model) statusLine() string {
	state := "detached"
	if m.dialog.Connected() {
		state = m.dialog.State().String()
	}

	var parts []string
	parts = append(parts, statusStateStyle.Render(state))
	parts = append(parts, fmt.Sprintf("y=%.0f", m.dialog.Offset()))
	if flags := m.stage.Flags(); len(flags) > 0 {
		names := make([]string, len(flags))
		for i, f := range flags {
			names[i] = string(f)
		}
		parts = append(parts, "["+strings.Join(names, " ")+"]")
	}
	if names := m.dialog.AttributeNames(); len(names) > 0 {
		parts = append(parts, "{"+strings.Join(names, ",")+"}")
	}
	if m.stage.Locked() {
		parts = append(parts, statusLockStyle.Render("scroll locked"))
	}
	if m.dialog.OpenPending() {
		parts = append(parts, "open pending")
	}

	var help []string
	for _, b := range m.keys.ShortHelp() {
		h := b.Help()
		help = append(help, h.Key+" "+h.Desc)
	}
	sep := dividerStyle.Render(" │ ")
	line := strings.Join(parts, " ") + sep + statusStyle.Render(strings.Join(help, "  "))
	return fitWidth(line, m.width)
}

// Snapshot describes what the model currently presents.
type Snapshot struct {
	State      sheet.State
	Offset     float64
	PanelTop   int
	Visible    bool
	Overlay    bool
	Locked     bool
	PageOffset int
}

// Snapshot returns the presented state, for tests and debugging.
func (m *Model) Snapshot() Snapshot {
	return Snapshot{
		State:      m.dialog.State(),
		Offset:     m.dialog.Offset(),
		PanelTop:   m.panelTop(),
		Visible:    m.sheetVisible(),
		Overlay:    m.overlayActive(),
		Locked:     m.stage.Locked(),
		PageOffset: m.page.YOffset,
	}
}
