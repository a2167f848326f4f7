package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	PrevEditor key.Binding
	NextEditor key.Binding
	LineUp     key.Binding
	LineDown   key.Binding
	Open       key.Binding
	OpenLocked key.Binding
	ToggleLock key.Binding
	FocusNext  key.Binding
	Blur       key.Binding
	Slot       key.Binding
	Close      key.Binding
	Refresh    key.Binding
	Dismiss    key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		PrevEditor: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "prev doc"),
		),
		NextEditor: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "next doc"),
		),
		LineUp: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "scroll up"),
		),
		LineDown: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "scroll down"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "preview"),
		),
		OpenLocked: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "locked preview"),
		),
		ToggleLock: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "toggle lock"),
		),
		FocusNext: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "focus preview"),
		),
		Blur: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "focus editor"),
		),
		Slot: key.NewBinding(
			key.WithKeys("1", "2", "3"),
			key.WithHelp("1-3", "slot"),
		),
		Close: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "close"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "dismiss"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.OpenLocked, k.ToggleLock, k.FocusNext, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PrevEditor, k.NextEditor, k.LineUp, k.LineDown},
		{k.Open, k.OpenLocked, k.ToggleLock, k.Slot},
		{k.FocusNext, k.Blur, k.Close, k.Refresh},
		{k.Dismiss, k.Help, k.Quit},
	}
}
