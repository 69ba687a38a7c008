package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the demo key bindings.
type KeyMap struct {
	Open         key.Binding
	Minimize     key.Binding
	Close        key.Binding
	ToggleAttach key.Binding
	SnapToTop    key.Binding
	NoResize     key.Binding
	CanMinimize  key.Binding
	ScrollUp     key.Binding
	ScrollDown   key.Binding
	Quit         key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Open:         key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open")),
		Minimize:     key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "minimize")),
		Close:        key.NewBinding(key.WithKeys("c", "esc"), key.WithHelp("c", "close")),
		ToggleAttach: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "attach/detach")),
		SnapToTop:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "snap-to-top")),
		NoResize:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "no-resize")),
		CanMinimize:  key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "minimize attr")),
		ScrollUp:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "scroll")),
		ScrollDown:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "scroll")),
		Quit:         key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp lists the bindings shown in the status bar.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.Minimize, k.Close, k.ToggleAttach, k.SnapToTop, k.NoResize, k.CanMinimize, k.Quit}
}
