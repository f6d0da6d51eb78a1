package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit      key.Binding
	Next      key.Binding
	Prev      key.Binding
	Submit    key.Binding
	Login     key.Binding
	Repurpose key.Binding
}

var keys = keyMap{
	Quit:      key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("esc", "quit")),
	Next:      key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
	Prev:      key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "prev field")),
	Submit:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
	Login:     key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "login")),
	Repurpose: key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "repurpose")),
}
