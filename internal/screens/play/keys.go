package play

import "charm.land/bubbles/v2/key"

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	MoveUp   key.Binding
	MoveDown key.Binding
	Grab     key.Binding
	Bucket   key.Binding
	Submit   key.Binding
	Next     key.Binding
	Back     key.Binding
	Confirm  key.Binding
	Deny     key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑↓", "Navigate"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
		),
		MoveUp: key.NewBinding(
			key.WithKeys("shift+up", "K"),
			key.WithHelp("⇧↑↓", "Move"),
		),
		MoveDown: key.NewBinding(
			key.WithKeys("shift+down", "J"),
		),
		Grab: key.NewBinding(
			key.WithKeys("space"),
			key.WithHelp("Space", "Pick up / drop"),
		),
		Bucket: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("1-9", "Put in bucket"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "Submit"),
		),
		Next: key.NewBinding(
			key.WithKeys("enter", "space"),
			key.WithHelp("Enter", "Next"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", "Quit"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y", "Y"),
			key.WithHelp("Y", "Leave quiz"),
		),
		Deny: key.NewBinding(
			key.WithKeys("n", "N", "esc"),
			key.WithHelp("N", "Keep going"),
		),
	}
}
