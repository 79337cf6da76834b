package keys

import "github.com/charmbracelet/bubbles/key"

// TuneKeys are the bindings of the manual rate selection view
type TuneKeys struct {
	Quit      key.Binding
	Help      key.Binding
	RateUp    key.Binding
	RateDown  key.Binding
	Accept    key.Binding
	Clear     key.Binding
	ToggleHex key.Binding
}

func NewTuneKeys() TuneKeys {
	return TuneKeys{
		Quit: key.NewBinding(
			key.WithKeys("q", "Q", "ctrl+c"),
			key.WithHelp("q/ctrl+c", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		RateUp: key.NewBinding(
			key.WithKeys("up", "k", "u", "U"),
			key.WithHelp("↑/k/u", "next rate"),
		),
		RateDown: key.NewBinding(
			key.WithKeys("down", "j", "d", "D"),
			key.WithHelp("↓/j/d", "previous rate"),
		),
		Accept: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "use this rate"),
		),
		Clear: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear buffer"),
		),
		ToggleHex: key.NewBinding(
			key.WithKeys("h"),
			key.WithHelp("h", "toggle hex"),
		),
	}
}

func (k TuneKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.RateUp, k.RateDown, k.Accept, k.Quit}
}

func (k TuneKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.RateUp, k.RateDown, k.Accept},
		{k.Clear, k.ToggleHex},
		{k.Help, k.Quit},
	}
}
