package compose

import (
	"strings"

	"github.com/CrestNiraj12/postboard/domain"
	"github.com/CrestNiraj12/postboard/tui/common"
)

// View renders the form.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(common.AppTitleStyle.Render("📝 Postboard"))
	b.WriteString(common.TaglineStyle.Render("New post"))
	b.WriteString("\n\n")

	for i, f := range domain.Fields {
		label := common.LabelStyle
		if i == m.focus {
			label = common.FocusedLabelStyle
		}
		b.WriteString(label.Render(f.Label()))
		b.WriteString("\n")
		b.WriteString(m.inputView(f))
		b.WriteString("\n")
		if msg, ok := m.errs[f]; ok {
			b.WriteString(common.FieldErrorStyle.Render(common.SanitizeForTerminal(msg)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	switch {
	case m.submitting:
		b.WriteString(common.StatusBarStyle.Render("Publishing..."))
	case m.err != nil:
		b.WriteString(common.ErrorStyle.Render(
			"Error: " + common.SanitizeForTerminal(m.err.Error())))
	default:
		b.WriteString(m.help.View(m.keys))
	}

	return b.String()
}

func (m Model) inputView(f domain.Field) string {
	switch f {
	case domain.FieldTitle:
		return m.title.View()
	case domain.FieldBody:
		return m.body.View()
	case domain.FieldAuthor:
		return m.author.View()
	}
	return ""
}
