package feed

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/CrestNiraj12/postboard/app"
	"github.com/CrestNiraj12/postboard/domain"
	"github.com/CrestNiraj12/postboard/tui/common"
)

const (
	defaultCardWidth = 72
	maxCardWidth     = 100
	maxBodyLines     = 4
	// Header (2) + banner (1) + help (2) + status bar (2) + slack.
	reservedLines = 8
)

// View renders the feed as a string.
func (m Model) View() string {
	st := m.ctrl.State()

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	if banner := renderBanner(st); banner != "" {
		b.WriteString(banner)
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch {
	case m.loading && len(st.Posts) == 0 && st.RefreshErr == nil:
		b.WriteString(fmt.Sprintf("  %s Loading posts...\n", m.spinner.View()))
	case len(st.Posts) == 0 && st.RefreshErr == nil:
		b.WriteString("  No posts yet. Press n to write the first one.\n")
	default:
		b.WriteString(m.renderList(st.Posts))
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) renderHeader() string {
	title := common.AppTitleStyle.Render("📝 Postboard")
	tagline := common.TaglineStyle.Render("<latest posts first>")
	header := title + tagline
	if m.loading {
		header += "  " + m.spinner.View()
	}
	return header
}

// renderBanner explains a failed refresh. Any posts still on screen are
// from the last successful load.
func renderBanner(st app.State) string {
	if st.RefreshErr == nil {
		return ""
	}
	reason := common.SanitizeForTerminal(st.RefreshErr.Error())
	if len(st.Posts) == 0 {
		return common.BannerStyle.Render(
			fmt.Sprintf("⚠ Could not load posts: %s. Press r to retry.", reason))
	}
	return common.BannerStyle.Render(
		fmt.Sprintf("⚠ Refresh failed, showing last loaded posts: %s. Press r to retry.", reason))
}

func (m Model) renderList(posts []domain.Post) string {
	if len(posts) == 0 {
		return ""
	}

	start := min(max(m.startIndex, 0), len(posts)-1)
	width := m.cardWidth()
	avail := m.listHeight()

	var b strings.Builder
	used := 0
	for i := start; i < len(posts); i++ {
		card := renderCard(posts[i], width, i == m.cursor)
		h := lipgloss.Height(card)
		// Always draw at least the first card, even on tiny terminals.
		if m.height > 0 && i > start && used+h > avail {
			break
		}
		b.WriteString(card)
		b.WriteString("\n")
		used += h
	}

	return b.String()
}

func renderCard(p domain.Post, width int, selected bool) string {
	textWidth := max(width-4, 10)

	title := common.SanitizeForTerminal(p.Title)
	title = ansi.Truncate(strings.ReplaceAll(title, "\n", " "), textWidth, "…")

	author := common.SanitizeForTerminal(p.Author)
	author = strings.ReplaceAll(author, "\n", " ")
	meta := common.TimestampStyle.Render("By ") +
		common.AuthorStyle.Render(author) +
		common.TimestampStyle.Render(" on "+common.FormatTimestamp(p.CreatedAt()))

	body := wrapBody(p.Body, textWidth)

	content := common.PostTitleStyle.Render(title) + "\n" +
		meta + "\n" +
		common.ContentStyle.Render(body)

	style := common.UnselectedStyle
	if selected {
		style = common.SelectedStyle
	}
	return style.Width(width - 2).Render(content)
}

// wrapBody wraps the body to width and keeps at most maxBodyLines lines.
func wrapBody(raw string, width int) string {
	body := common.SanitizeForTerminal(raw)
	body = strings.ReplaceAll(body, "\t", "    ")
	lines := strings.Split(ansi.Wrap(body, width, ""), "\n")
	if len(lines) > maxBodyLines {
		lines = lines[:maxBodyLines]
		last := lines[maxBodyLines-1]
		if ansi.StringWidth(last) >= width {
			last = ansi.Truncate(last, width-1, "")
		}
		lines[maxBodyLines-1] = last + "…"
	}
	return strings.Join(lines, "\n")
}

func cardHeight(p domain.Post, width int) int {
	return lipgloss.Height(renderCard(p, width, false))
}

func (m Model) cardWidth() int {
	if m.width <= 0 {
		return defaultCardWidth
	}
	return min(max(m.width-2, 20), maxCardWidth)
}

func (m Model) listHeight() int {
	return max(m.height-reservedLines, 1)
}
