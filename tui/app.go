package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/postboard/app"
	"github.com/CrestNiraj12/postboard/tui/common"
	"github.com/CrestNiraj12/postboard/tui/compose"
	"github.com/CrestNiraj12/postboard/tui/feed"
)

// Deps holds all dependencies the TUI needs. Plain struct, not a DI container.
type Deps struct {
	Controller *app.Controller
	Editor     app.BodyEditor // Optional
}

// stateChangedMsg is delivered whenever the controller notifies observers.
type stateChangedMsg struct{}

// App is the root Bubble Tea model. The controller's authoring flag decides
// which sub-view is shown.
type App struct {
	deps    Deps
	feed    feed.Model
	compose compose.Model
	keys    common.KeyMap
	status  string // Transient status message (e.g. "Post published!")
	changes chan struct{}
	width   int
	height  int
}

// NewApp creates the root model with all dependencies wired.
func NewApp(deps Deps) App {
	// Observers run on whatever goroutine changed the state; coalesce them
	// into a single pending wake-up for the program loop.
	changes := make(chan struct{}, 1)
	deps.Controller.Subscribe(func(app.State) {
		select {
		case changes <- struct{}{}:
		default:
		}
	})

	return App{
		deps:    deps,
		feed:    feed.New(deps.Controller),
		keys:    common.DefaultKeyMap(),
		changes: changes,
	}
}

// Init starts the feed and the state watcher.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.feed.Init(),
		waitForChange(a.changes),
	)
}

func waitForChange(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-ch
		return stateChangedMsg{}
	}
}

func (a App) authoring() bool {
	return a.deps.Controller.State().AuthoringOpen
}

// Update handles messages and routes to the active sub-model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stateChangedMsg:
		// Returning re-renders from the latest controller state.
		return a, waitForChange(a.changes)

	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		var cmd tea.Cmd
		a.feed, cmd = a.feed.Update(msg)
		if a.authoring() {
			a.compose, _ = a.compose.Update(msg)
		}
		return a, cmd

	case tea.KeyMsg:
		if key.Matches(msg, a.keys.ForceQuit) {
			return a, tea.Quit
		}
		if !a.authoring() {
			switch {
			case key.Matches(msg, a.keys.Quit):
				return a, tea.Quit
			case key.Matches(msg, a.keys.New):
				return a.openCompose()
			}
		}

	case compose.CancelMsg:
		a.deps.Controller.CloseAuthoring()
		a.status = "Cancelled."
		return a, nil

	case compose.SubmitMsg:
		a.status = ""
		ctrl := a.deps.Controller
		payload := msg.Payload
		return a, func() tea.Msg {
			return compose.SubmitResultMsg{Err: ctrl.SubmitPost(context.Background(), payload)}
		}

	case compose.SubmitResultMsg:
		if msg.Err != nil {
			a.compose, _ = a.compose.Update(msg)
			a.status = ""
			return a, nil
		}
		a.feed = a.feed.ScrollTop()
		a.status = "✔ Post published!"
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.feed, cmd = a.feed.Update(msg)
		return a, cmd

	case feed.RefreshedMsg:
		var cmd tea.Cmd
		a.feed, cmd = a.feed.Update(msg)
		return a, cmd
	}

	// Delegate to the active sub-model.
	var cmd tea.Cmd
	if a.authoring() {
		a.compose, cmd = a.compose.Update(msg)
	} else {
		a.feed, cmd = a.feed.Update(msg)
	}
	return a, cmd
}

func (a App) openCompose() (tea.Model, tea.Cmd) {
	a.deps.Controller.OpenAuthoring()
	a.status = ""
	a.compose = compose.New(a.deps.Controller, a.deps.Editor)
	if a.width > 0 {
		a.compose, _ = a.compose.Update(tea.WindowSizeMsg{Width: a.width, Height: a.height})
	}
	return a, a.compose.Init()
}

// View renders the active sub-model.
func (a App) View() string {
	var s string
	if a.authoring() {
		s = a.compose.View()
	} else {
		s = a.feed.View()
	}

	// Append transient status if present.
	if a.status != "" {
		s += "\n" + common.StatusBarStyle.Render(a.status)
	}

	return s
}
