package feed

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/CrestNiraj12/postboard/app"
	"github.com/CrestNiraj12/postboard/tui/common"
)

// --- Messages ---

// RefreshedMsg is sent when a refresh of the post list completes.
// Err is nil on success. On failure the controller keeps the last
// good list and records the error in State.RefreshErr.
type RefreshedMsg struct {
	Err error
}

// --- Model ---

// Model holds the state for the feed (post list) view.
// Posts themselves live in the controller; the model only tracks
// what is needed to draw them.
type Model struct {
	ctrl       *app.Controller
	keys       common.KeyMap
	help       help.Model
	spinner    spinner.Model
	loading    bool
	cursor     int
	startIndex int // First post drawn in the list window
	width      int
	height     int
}

// New creates a feed model reading from ctrl.
func New(ctrl *app.Controller) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6600"))

	return Model{
		ctrl:    ctrl,
		keys:    common.DefaultKeyMap(),
		help:    help.New(),
		spinner: s,
		loading: true,
	}
}

// Init starts the initial fetch.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.refresh(),
		m.spinner.Tick,
	)
}

// Update handles messages for the feed view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	return m.update(msg)
}

// Loading reports whether a refresh is in flight.
func (m Model) Loading() bool {
	return m.loading
}

// Cursor returns the index of the selected post.
func (m Model) Cursor() int {
	return m.cursor
}

// ScrollTop selects the first post. Used after publishing so the new
// post, which the store lists first, is in view.
func (m Model) ScrollTop() Model {
	m.cursor = 0
	m.startIndex = 0
	return m
}
