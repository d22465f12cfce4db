package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	next         key.Binding
	prev         key.Binding
	submit       key.Binding
	back         key.Binding
	register     key.Binding
	profile      key.Binding
	jobSearch    key.Binding
	applications key.Binding
	stop         key.Binding
	remove       key.Binding
	open         key.Binding
	refresh      key.Binding
	logout       key.Binding
	quit         key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		next:         key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
		prev:         key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "previous field")),
		submit:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
		back:         key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		register:     key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "register")),
		profile:      key.NewBinding(key.WithKeys("f1"), key.WithHelp("f1", "profile")),
		jobSearch:    key.NewBinding(key.WithKeys("f2"), key.WithHelp("f2", "job search")),
		applications: key.NewBinding(key.WithKeys("f3"), key.WithHelp("f3", "applications")),
		stop:         key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("ctrl+x", "stop")),
		remove:       key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "delete file")),
		open:         key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "open file")),
		refresh:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		logout:       key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "log out")),
		quit:         key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.next, k.prev, k.submit, k.back},
		{k.profile, k.jobSearch, k.applications},
		{k.stop, k.remove, k.open, k.refresh},
		{k.logout, k.quit},
	}
}
