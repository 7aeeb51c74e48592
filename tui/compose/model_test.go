package compose

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/postboard/app"
	"github.com/CrestNiraj12/postboard/domain"
	"github.com/CrestNiraj12/postboard/infra/editor"
)

type nopStore struct{}

func (nopStore) List(context.Context) ([]domain.Post, error) { return nil, nil }
func (nopStore) Create(context.Context, string, string, string) (domain.Post, error) {
	return domain.Post{}, nil
}

type stubFieldErr struct{ errs domain.FieldErrors }

func (e stubFieldErr) Error() string                   { return "invalid post" }
func (e stubFieldErr) FieldErrors() domain.FieldErrors { return e.errs }

func openForm(t *testing.T) (Model, *app.Controller) {
	t.Helper()
	ctrl := app.NewController(nopStore{}, nil)
	ctrl.OpenAuthoring()
	return New(ctrl, nil), ctrl
}

func typeText(m Model, s string) Model {
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return m
}

func press(m Model, k tea.KeyType) (Model, tea.Cmd) {
	return m.Update(tea.KeyMsg{Type: k})
}

func fill(m Model, title, body, author string) Model {
	m = typeText(m, title)
	m, _ = press(m, tea.KeyTab)
	m = typeText(m, body)
	m, _ = press(m, tea.KeyTab)
	return typeText(m, author)
}

func TestTyping_WritesThroughToDraft(t *testing.T) {
	m, ctrl := openForm(t)

	m = typeText(m, "Hello")
	if got := ctrl.State().Draft.Title; got != "Hello" {
		t.Fatalf("expected title in draft, got %q", got)
	}

	m, _ = press(m, tea.KeyTab)
	if m.Focused() != domain.FieldBody {
		t.Fatalf("expected body focus, got %s", m.Focused())
	}
	m = typeText(m, "World")
	if got := ctrl.State().Draft.Body; got != "World" {
		t.Fatalf("expected body in draft, got %q", got)
	}
	if got := ctrl.State().Draft.Title; got != "Hello" {
		t.Fatalf("title changed by body edit: %q", got)
	}
}

func TestFocusCycles(t *testing.T) {
	m, _ := openForm(t)

	m, _ = press(m, tea.KeyShiftTab)
	if m.Focused() != domain.FieldAuthor {
		t.Fatalf("expected shift+tab to wrap to author, got %s", m.Focused())
	}
	m, _ = press(m, tea.KeyTab)
	if m.Focused() != domain.FieldTitle {
		t.Fatalf("expected tab to wrap to title, got %s", m.Focused())
	}
}

func TestSubmit_EmptyFormShowsEveryError(t *testing.T) {
	m, _ := openForm(t)

	m, cmd := press(m, tea.KeyCtrlS)
	if cmd != nil {
		t.Fatalf("expected no submit command for an invalid draft")
	}
	if m.Submitting() {
		t.Fatalf("should not be submitting")
	}
	if len(m.FieldErrors()) != 3 {
		t.Fatalf("expected 3 field errors, got %v", m.FieldErrors())
	}

	out := m.View()
	for _, want := range []string{"Title is required", "Body is required", "Author is required"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in view, got:\n%s", want, out)
		}
	}
}

func TestSubmit_OnlyMissingTitle(t *testing.T) {
	m, _ := openForm(t)
	m, _ = press(m, tea.KeyTab)
	m = typeText(m, "b")
	m, _ = press(m, tea.KeyTab)
	m = typeText(m, "a")

	m, _ = press(m, tea.KeyCtrlS)
	want := domain.FieldErrors{domain.FieldTitle: "Title is required"}
	if fmt.Sprint(m.FieldErrors()) != fmt.Sprint(want) {
		t.Fatalf("expected %v, got %v", want, m.FieldErrors())
	}
}

func TestEditingClearsFieldError(t *testing.T) {
	m, _ := openForm(t)
	m, _ = press(m, tea.KeyCtrlS)

	m = typeText(m, "x")
	if _, ok := m.FieldErrors()[domain.FieldTitle]; ok {
		t.Fatalf("expected title error cleared after typing")
	}
	if len(m.FieldErrors()) != 2 {
		t.Fatalf("expected other errors kept, got %v", m.FieldErrors())
	}
}

func TestSubmit_ValidDraftEmitsPayload(t *testing.T) {
	m, _ := openForm(t)
	m = fill(m, "Hello", "World", "Alice")

	m, cmd := press(m, tea.KeyCtrlS)
	if cmd == nil {
		t.Fatalf("expected submit command")
	}
	msg, ok := cmd().(SubmitMsg)
	if !ok {
		t.Fatalf("expected SubmitMsg")
	}
	want := domain.Payload{Title: "Hello", Body: "World", Author: "Alice"}
	if msg.Payload != want {
		t.Fatalf("expected %+v, got %+v", want, msg.Payload)
	}
	if !m.Submitting() {
		t.Fatalf("expected submitting state")
	}
	if !strings.Contains(m.View(), "Publishing...") {
		t.Fatalf("expected publishing indicator, got:\n%s", m.View())
	}
}

func TestSubmit_WhitespaceCountsAsContent(t *testing.T) {
	m, _ := openForm(t)
	m = fill(m, " ", " ", " ")

	_, cmd := press(m, tea.KeyCtrlS)
	if cmd == nil {
		t.Fatalf("expected whitespace-only fields to pass")
	}
}

func TestSubmitting_IgnoresKeys(t *testing.T) {
	m, ctrl := openForm(t)
	m = fill(m, "a", "b", "c")
	m, _ = press(m, tea.KeyCtrlS)

	if _, cmd := press(m, tea.KeyCtrlS); cmd != nil {
		t.Fatalf("expected second submit to be ignored")
	}
	if _, cmd := press(m, tea.KeyEscape); cmd != nil {
		t.Fatalf("expected cancel to be ignored while publishing")
	}
	m = typeText(m, "zzz")
	if got := ctrl.State().Draft.Author; got != "c" {
		t.Fatalf("expected draft frozen while publishing, got %q", got)
	}
}

func TestSubmitResult_FailureKeepsDraftAndShowsError(t *testing.T) {
	m, ctrl := openForm(t)
	m = fill(m, "a", "b", "c")
	m, _ = press(m, tea.KeyCtrlS)

	m, _ = m.Update(SubmitResultMsg{Err: errors.New("store unavailable")})
	if m.Submitting() {
		t.Fatalf("expected submitting cleared")
	}
	if !strings.Contains(m.View(), "Error: store unavailable") {
		t.Fatalf("expected error in view, got:\n%s", m.View())
	}
	if d := ctrl.State().Draft; d.Title != "a" || d.Body != "b" || d.Author != "c" {
		t.Fatalf("expected draft intact, got %+v", d)
	}

	// Resubmitting is allowed again.
	if _, cmd := press(m, tea.KeyCtrlS); cmd == nil {
		t.Fatalf("expected resubmit to be possible")
	}
}

func TestSubmitResult_ServerFieldErrors(t *testing.T) {
	m, _ := openForm(t)
	m = fill(m, "a", "b", "c")
	m, _ = press(m, tea.KeyCtrlS)

	serverErr := fmt.Errorf("creating post: %w", stubFieldErr{errs: domain.FieldErrors{
		domain.FieldAuthor: "Author is required",
	}})
	m, _ = m.Update(SubmitResultMsg{Err: serverErr})
	if m.FieldErrors()[domain.FieldAuthor] != "Author is required" {
		t.Fatalf("expected server field error surfaced, got %v", m.FieldErrors())
	}
}

func TestCancel_EmitsCancelMsg(t *testing.T) {
	m, _ := openForm(t)
	_, cmd := press(m, tea.KeyEscape)
	if cmd == nil {
		t.Fatalf("expected cancel command")
	}
	if _, ok := cmd().(CancelMsg); !ok {
		t.Fatalf("expected CancelMsg")
	}
}

func TestNew_SeedsFromDraft(t *testing.T) {
	ctrl := app.NewController(nopStore{}, nil)
	ctrl.OpenAuthoring()
	if err := ctrl.UpdateDraft(domain.FieldAuthor, "Bob"); err != nil {
		t.Fatalf("update draft: %v", err)
	}

	m := New(ctrl, nil)
	if m.author.Value() != "Bob" {
		t.Fatalf("expected author seeded from draft, got %q", m.author.Value())
	}
}

func TestEditorKey_DisabledWithoutEditor(t *testing.T) {
	m, _ := openForm(t)
	if m.keys.Editor.Enabled() {
		t.Fatalf("expected editor binding disabled")
	}
}

func TestEditorFinished_SetsBody(t *testing.T) {
	ctrl := app.NewController(nopStore{}, nil)
	ctrl.OpenAuthoring()
	m := New(ctrl, editor.NewEnvEditor())

	path := filepath.Join(t.TempDir(), "body.md")
	if err := os.WriteFile(path, []byte("<!-- note -->\nfrom the editor\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	m, _ = m.Update(editorFinishedMsg{tmpPath: path})
	if got := ctrl.State().Draft.Body; got != "from the editor" {
		t.Fatalf("expected body from editor, got %q", got)
	}
	if m.Focused() != domain.FieldBody {
		t.Fatalf("expected body focused after editing")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected temp file removed")
	}
}

func TestEditorFinished_ErrorLeavesBody(t *testing.T) {
	ctrl := app.NewController(nopStore{}, nil)
	ctrl.OpenAuthoring()
	m := New(ctrl, editor.NewEnvEditor())

	path := filepath.Join(t.TempDir(), "body.md")
	if err := os.WriteFile(path, []byte("ignored"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	m, _ = m.Update(editorFinishedMsg{tmpPath: path, err: errors.New("exit status 1")})
	if ctrl.State().Draft.Body != "" {
		t.Fatalf("expected body untouched")
	}
	if !strings.Contains(m.View(), "editor: exit status 1") {
		t.Fatalf("expected editor error in view, got:\n%s", m.View())
	}
}
