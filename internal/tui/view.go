package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"reelfeed/internal/viewport"
)

var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(1, 2)

	authorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))

	captionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))

	statsStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))

	playingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))

	noticeStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))

	helpStyle = lipgloss.NewStyle().Faint(true)
)

const help = "j/k scroll · J/K next/prev · l like · r refresh · q quit"

func (m model) View() string {
	if m.loading {
		return helpStyle.Render("loading feed...")
	}

	cards := m.screen.Cards()
	if len(cards) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left,
			captionStyle.Render("Nothing to watch right now."),
			m.footer(),
		)
	}

	index := m.currentIndex()
	if index == viewport.None {
		index = 0
	}
	card := cards[index]
	snap := card.Engagement()

	state := "⏸ paused"
	if m.screen.IsPlaying(index) {
		state = playingStyle.Render("▶ playing")
	}

	heart := "♡"
	if snap.HasLiked {
		heart = "♥"
	}
	pending := ""
	if snap.Pending {
		pending = " …"
	}

	var b strings.Builder
	b.WriteString(authorStyle.Render("@"+card.Item.AuthorUsername) + "\n")
	if card.Item.Caption != "" {
		b.WriteString(captionStyle.Render(card.Item.Caption) + "\n")
	}
	b.WriteString("\n")
	b.WriteString(state + "\n\n")
	b.WriteString(statsStyle.Render(fmt.Sprintf(
		"%s %d%s   💬 %d   ▶ %d views",
		heart, snap.LikeCount, pending, snap.CommentCount, card.Item.ViewCountSeed,
	)))

	body := cardStyle.Width(max(20, m.width-4)).Render(b.String())

	position := statsStyle.Render(fmt.Sprintf("%d / %d", index+1, len(cards)))

	return lipgloss.JoinVertical(lipgloss.Left, body, position, m.footer())
}

func (m model) footer() string {
	parts := []string{helpStyle.Render(help)}
	if !m.focused {
		parts = append([]string{noticeStyle.Render("Paused: window not focused.")}, parts...)
	}
	if m.notice != "" {
		parts = append([]string{noticeStyle.Render(m.notice)}, parts...)
	}
	return strings.Join(parts, "\n")
}
