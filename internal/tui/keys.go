package tui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Quit key.Binding
	Back key.Binding

	// Navigation
	Home     key.Binding
	Request  key.Binding
	Calendar key.Binding
	NextItem key.Binding
	PrevItem key.Binding

	// Actions
	Select key.Binding

	// Movement
	Left  key.Binding
	Right key.Binding
}

var DefaultKeyMap = KeyMap{
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Home:     key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "home")),
	Request:  key.NewBinding(key.WithKeys("r", "s"), key.WithHelp("r", "submit request")),
	Calendar: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "calendar")),
	NextItem: key.NewBinding(key.WithKeys("tab", "down", "j"), key.WithHelp("tab", "next item")),
	PrevItem: key.NewBinding(key.WithKeys("shift+tab", "up", "k"), key.WithHelp("shift+tab", "previous item")),
	Select:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
	Left:     key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "left")),
	Right:    key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "right")),
}
