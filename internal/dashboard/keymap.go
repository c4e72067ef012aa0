package dashboard

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the dashboard keyboard shortcuts.
type KeyMap struct {
	// Navigation
	PrevTab key.Binding
	NextTab key.Binding
	Top     key.Binding
	Bottom  key.Binding

	// Date range
	EditRange  key.Binding
	ResetRange key.Binding
	PrevRange  key.Binding
	NextRange  key.Binding

	// Range form
	NextField key.Binding
	PrevField key.Binding
	Apply     key.Binding
	Cancel    key.Binding

	Help key.Binding
	Quit key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		PrevTab: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "prev tab"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next tab"),
		),
		Top: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("g/home", "top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("G/end", "bottom"),
		),
		EditRange: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "date range"),
		),
		ResetRange: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "full range"),
		),
		PrevRange: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "earlier"),
		),
		NextRange: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "later"),
		),
		NextField: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev field"),
		),
		Apply: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "apply"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more keys"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PrevTab, k.NextTab, k.EditRange, k.ResetRange, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PrevTab, k.NextTab, k.Top, k.Bottom},
		{k.EditRange, k.ResetRange, k.PrevRange, k.NextRange},
		{k.Help, k.Quit},
	}
}

// formKeys is the help shown while the range form is open.
type formKeys struct {
	KeyMap
}

func (k formKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.NextField, k.PrevField, k.Apply, k.Cancel}
}

func (k formKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
