package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	up       key.Binding
	down     key.Binding
	enter    key.Binding
	esc      key.Binding
	tab      key.Binding
	backtab  key.Binding
	quit     key.Binding
	login    key.Binding
	sync     key.Binding
	retry    key.Binding
	retryAll key.Binding
	discard  key.Binding
	info     key.Binding
}

var keys = keyMap{
	up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "вверх")),
	down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "вниз")),
	enter:    key.NewBinding(key.WithKeys("enter")),
	esc:      key.NewBinding(key.WithKeys("esc")),
	tab:      key.NewBinding(key.WithKeys("tab")),
	backtab:  key.NewBinding(key.WithKeys("shift+tab")),
	quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "выход")),
	login:    key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "вход")),
	sync:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "синхронизировать")),
	retry:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "повторить")),
	retryAll: key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "повторить все")),
	discard:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "отменить")),
	info:     key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "о программе")),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.sync, k.retry, k.retryAll, k.discard, k.login, k.info, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.up, k.down}, k.ShortHelp()}
}
