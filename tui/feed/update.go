package feed

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ensureCursorVisible()
		return m, nil

	case spinner.TickMsg:
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case RefreshedMsg:
		m.loading = false
		m.clampCursor()
		m.ensureCursorVisible()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	return m, nil
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Refresh):
		// One refresh at a time; results would otherwise land out of order.
		if m.loading {
			return m, nil
		}
		m.loading = true
		return m, tea.Batch(m.refresh(), m.spinner.Tick)

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < m.postCount()-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Top):
		m.cursor = 0

	case key.Matches(msg, m.keys.Bottom):
		m.cursor = max(m.postCount()-1, 0)

	default:
		return m, nil
	}

	m.ensureCursorVisible()
	return m, nil
}

func (m Model) postCount() int {
	return len(m.ctrl.State().Posts)
}

// clampCursor keeps the selection inside the list after it is replaced.
func (m *Model) clampCursor() {
	n := m.postCount()
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// ensureCursorVisible moves the list window so the selected card fits.
func (m *Model) ensureCursorVisible() {
	if m.cursor < m.startIndex {
		m.startIndex = m.cursor
		return
	}
	if m.height <= 0 {
		return
	}

	posts := m.ctrl.State().Posts
	if m.cursor >= len(posts) {
		return
	}
	avail := m.listHeight()
	for m.startIndex < m.cursor {
		used := 0
		for i := m.startIndex; i <= m.cursor; i++ {
			used += cardHeight(posts[i], m.cardWidth())
		}
		if used <= avail {
			break
		}
		m.startIndex++
	}
}
