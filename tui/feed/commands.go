package feed

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// refresh asks the controller to reload the list from the store.
func (m Model) refresh() tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		return RefreshedMsg{Err: ctrl.Refresh(context.Background())}
	}
}
