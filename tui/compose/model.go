package compose

import (
	"errors"
	"fmt"
	"slices"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/postboard/app"
	"github.com/CrestNiraj12/postboard/domain"
	"github.com/CrestNiraj12/postboard/tui/common"
)

const maxInputWidth = 72

// --- Messages ---

// CancelMsg is sent when the user abandons the form.
type CancelMsg struct{}

// SubmitMsg is sent when the draft passed validation and should be
// published. The form stays in its submitting state until a
// SubmitResultMsg arrives.
type SubmitMsg struct {
	Payload domain.Payload
}

// SubmitResultMsg reports the outcome of publishing.
type SubmitResultMsg struct {
	Err error
}

// editorFinishedMsg is sent after the external editor exits.
type editorFinishedMsg struct {
	tmpPath string
	err     error
}

// fieldErrorer is implemented by store errors that carry server-side
// validation failures.
type fieldErrorer interface {
	FieldErrors() domain.FieldErrors
}

// --- Model ---

// Model holds the state for the post form. Every edit is written through
// to the controller's draft, which is what gets validated and submitted.
type Model struct {
	ctrl       *app.Controller
	editor     app.BodyEditor
	keys       common.FormKeyMap
	help       help.Model
	title      textinput.Model
	body       textarea.Model
	author     textinput.Model
	focus      int // Index into domain.Fields
	errs       domain.FieldErrors
	err        error // Last publish or editor failure
	submitting bool
}

// New creates a form seeded from the controller's current draft.
// ed may be nil, in which case the external editor binding is disabled.
func New(ctrl *app.Controller, ed app.BodyEditor) Model {
	draft := ctrl.State().Draft

	title := textinput.New()
	title.Placeholder = "What is it about?"
	title.SetValue(draft.Title)
	title.Width = maxInputWidth

	body := textarea.New()
	body.Placeholder = "Say something..."
	body.ShowLineNumbers = false
	body.SetWidth(maxInputWidth)
	body.SetHeight(6)
	body.SetValue(draft.Body)

	author := textinput.New()
	author.Placeholder = "Your name"
	author.SetValue(draft.Author)
	author.Width = maxInputWidth

	keys := common.DefaultFormKeyMap()
	keys.Editor.SetEnabled(ed != nil)

	m := Model{
		ctrl:   ctrl,
		editor: ed,
		keys:   keys,
		help:   help.New(),
		title:  title,
		body:   body,
		author: author,
	}
	m.title.Focus()
	return m
}

// Init starts the cursor blinking.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Submitting reports whether a publish is in flight.
func (m Model) Submitting() bool {
	return m.submitting
}

// FieldErrors returns the messages currently shown under each field.
func (m Model) FieldErrors() domain.FieldErrors {
	return m.errs
}

// Focused returns the field that receives typed input.
func (m Model) Focused() domain.Field {
	return domain.Fields[m.focus]
}

// Update handles messages for the form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w := min(max(msg.Width-4, 20), maxInputWidth)
		m.title.Width = w
		m.author.Width = w
		m.body.SetWidth(w)
		m.help.Width = msg.Width
		return m, nil

	case SubmitResultMsg:
		m.submitting = false
		m.err = msg.Err
		if msg.Err != nil {
			var fe fieldErrorer
			if errors.As(msg.Err, &fe) {
				if errs := fe.FieldErrors(); len(errs) > 0 {
					m.errs = errs
				}
			}
		}
		return m, nil

	case editorFinishedMsg:
		// ReadContent also removes the temp file, so call it either way.
		content, err := m.editor.ReadContent(msg.tmpPath)
		if msg.err != nil {
			m.err = fmt.Errorf("editor: %w", msg.err)
			return m, nil
		}
		if err != nil {
			m.err = err
			return m, nil
		}
		m.err = nil
		m.body.SetValue(content)
		m.syncField(domain.FieldBody, content)
		return m, m.setFocus(slices.Index(domain.Fields, domain.FieldBody))

	case tea.KeyMsg:
		// Publishing: the draft is frozen until the store answers.
		if m.submitting {
			return m, nil
		}

		switch {
		case key.Matches(msg, m.keys.Cancel):
			return m, func() tea.Msg { return CancelMsg{} }

		case key.Matches(msg, m.keys.Next):
			return m, m.setFocus((m.focus + 1) % len(domain.Fields))

		case key.Matches(msg, m.keys.Prev):
			return m, m.setFocus((m.focus + len(domain.Fields) - 1) % len(domain.Fields))

		case key.Matches(msg, m.keys.Submit):
			return m.submit()

		case key.Matches(msg, m.keys.Editor):
			return m.launchEditor()
		}
	}

	return m.updateFocused(msg)
}

func (m Model) submit() (Model, tea.Cmd) {
	payload, errs := m.ctrl.State().Draft.Validate()
	if errs != nil {
		m.errs = errs
		m.err = nil
		return m, nil
	}

	m.errs = nil
	m.err = nil
	m.submitting = true
	return m, func() tea.Msg { return SubmitMsg{Payload: payload} }
}

// launchEditor hands the body to $EDITOR via tea.ExecProcess so Bubble Tea
// releases the terminal while it runs.
func (m Model) launchEditor() (Model, tea.Cmd) {
	if m.editor == nil {
		return m, nil
	}
	cmd, tmpPath, err := m.editor.Cmd(m.body.Value())
	if err != nil {
		m.err = fmt.Errorf("preparing editor: %w", err)
		return m, nil
	}
	return m, tea.ExecProcess(cmd, func(err error) tea.Msg {
		return editorFinishedMsg{tmpPath: tmpPath, err: err}
	})
}

func (m Model) updateFocused(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	f := m.Focused()
	switch f {
	case domain.FieldTitle:
		m.title, cmd = m.title.Update(msg)
		m.syncField(f, m.title.Value())
	case domain.FieldBody:
		m.body, cmd = m.body.Update(msg)
		m.syncField(f, m.body.Value())
	case domain.FieldAuthor:
		m.author, cmd = m.author.Update(msg)
		m.syncField(f, m.author.Value())
	}
	return m, cmd
}

// syncField writes a value through to the draft and clears the field's
// error once it has content.
func (m *Model) syncField(f domain.Field, value string) {
	// Only fails when authoring was closed under us; the form is about
	// to be torn down in that case.
	_ = m.ctrl.UpdateDraft(f, value)

	if _, ok := m.errs[f]; ok && value != "" {
		next := make(domain.FieldErrors, len(m.errs))
		for k, v := range m.errs {
			if k != f {
				next[k] = v
			}
		}
		if len(next) == 0 {
			next = nil
		}
		m.errs = next
	}
}

func (m *Model) setFocus(i int) tea.Cmd {
	m.focus = i
	m.title.Blur()
	m.body.Blur()
	m.author.Blur()

	switch domain.Fields[i] {
	case domain.FieldTitle:
		return m.title.Focus()
	case domain.FieldBody:
		return m.body.Focus()
	case domain.FieldAuthor:
		return m.author.Focus()
	}
	return nil
}
