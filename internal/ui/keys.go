package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the watcher.
type keyMap struct {
	// Global
	Quit    key.Binding
	Help    key.Binding
	Refresh key.Binding

	// List navigation
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding
	Open   key.Binding

	// Details view
	Close    key.Binding
	PageUp   key.Binding
	PageDown key.Binding

	// Filters
	FilterBranch key.Binding
	FilterUser   key.Binding
	FilterLatest key.Binding

	// Run actions
	CopyURL key.Binding
	Browse  key.Binding
}

// defaultKeyMap returns the default key bindings.
func defaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh now"),
		),

		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "move down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "go to bottom"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open details"),
		),

		Close: key.NewBinding(
			key.WithKeys("esc", "left"),
			key.WithHelp("esc", "back to list"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "page down"),
		),

		FilterBranch: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "toggle branch filter"),
		),
		FilterUser: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "toggle user filter"),
		),
		FilterLatest: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "toggle latest-only"),
		),

		CopyURL: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy run url"),
		),
		Browse: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open in browser"),
		),
	}
}

// ShortHelp returns key bindings for the one-line help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.Refresh, k.Help, k.Quit}
}

// FullHelp returns key bindings for the expanded help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom},
		{k.Open, k.Close, k.PageUp, k.PageDown},
		{k.FilterBranch, k.FilterUser, k.FilterLatest},
		{k.Refresh, k.CopyURL, k.Browse, k.Help, k.Quit},
	}
}
