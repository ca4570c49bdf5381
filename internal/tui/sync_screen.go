package tui

import "github.com/charmbracelet/bubbles/spinner"

// syncModel animates the banner while the engine drains the queue.
type syncModel struct {
	spinner spinner.Model
	running bool
}

func newSyncModel() syncModel {
	s := spinner.New()
	s.Spinner = spinner.MiniDot
	return syncModel{spinner: s}
}

func (m syncModel) View() string {
	if !m.running {
		return " "
	}
	return m.spinner.View()
}
