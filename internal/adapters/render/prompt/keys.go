package prompt

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Stay   key.Binding
	Logout key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Stay: key.NewBinding(
			key.WithKeys("k", "enter"),
			key.WithHelp("k/enter", "stay signed in"),
		),
		Logout: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "log out"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more keys"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit (stay signed in)"),
		),
	}
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Logout, k.Quit, k.Help}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Stay, k.Logout},
		{k.Quit, k.Help},
	}
}
