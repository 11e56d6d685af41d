package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the inbox-level bindings. Chip-bar and picker keys are
// handled by those components while they have focus.
type KeyMap struct {
	Quit        key.Binding
	Labels      key.Binding
	FocusToggle key.Binding
	ClearLabels key.Binding
	Preview     key.Binding
	CopyQuery   key.Binding
	Help        key.Binding
}

// DefaultKeyMap is the binding set used by NewInboxModel
var DefaultKeyMap = KeyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Labels: key.NewBinding(
		key.WithKeys("L"),
		key.WithHelp("L", "pick labels"),
	),
	FocusToggle: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "list / chips"),
	),
	ClearLabels: key.NewBinding(
		key.WithKeys("C"),
		key.WithHelp("C", "clear label filter"),
	),
	Preview: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "preview issue"),
	),
	CopyQuery: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy filter query"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
}
