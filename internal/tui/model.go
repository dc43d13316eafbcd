// Package tui renders the feed in the terminal: one card per screenful,
// scroll position driving the viewport tracker, focus driving playback.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	tea "github.com/charmbracelet/bubbletea"

	"reelfeed/internal/core"
	"reelfeed/internal/feed"
	"reelfeed/internal/viewport"
)

type activatedMsg struct{ err error }

type toggleDoneMsg struct{ err error }

// screenEventMsg carries a feed.Event into the update loop for re-render.
type screenEventMsg struct{ event feed.Event }

type model struct {
	ctx    context.Context
	logger *slog.Logger
	screen *feed.Screen

	width   int
	height  int
	offset  float64
	focused bool
	loading bool
	notice  string
}

func newModel(ctx context.Context, logger *slog.Logger, screen *feed.Screen) model {
	return model{
		ctx:     ctx,
		logger:  logger,
		screen:  screen,
		focused: true,
		loading: true,
	}
}

func (m model) Init() tea.Cmd {
	return m.activateCmd()
}

func (m model) activateCmd() tea.Cmd {
	return func() tea.Msg {
		return activatedMsg{err: m.screen.Activate(m.ctx, newPlayer)}
	}
}

func (m model) toggleCmd(index int) tea.Cmd {
	return func() tea.Msg {
		return toggleDoneMsg{err: m.screen.ToggleLike(m.ctx, index)}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.FocusMsg:
		m.focused = true
		m.screen.SetFocus(true)
		return m, nil

	case tea.BlurMsg:
		m.focused = false
		m.screen.SetFocus(false)
		return m, nil

	case activatedMsg:
		m.loading = false
		m.offset = 0
		if msg.err != nil {
			m.notice = "Couldn't load the feed."
			return m, nil
		}
		m.observe()
		return m, nil

	case toggleDoneMsg:
		m.notice = noticeForToggle(msg.err)
		return m, nil

	case screenEventMsg:
		// State already changed inside the screen; log and repaint.
		m.logger.Debug("screen event",
			"kind", msg.event.Kind, "index", msg.event.Index, "post", msg.event.PostID)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.notice = ""

	switch msg.String() {
	case "q", "ctrl+c":
		m.screen.Deactivate()
		return m, tea.Quit

	case "j", "down":
		m.scroll(scrollStep)
	case "k", "up":
		m.scroll(-scrollStep)
	case "J", "pgdown":
		m.scrollTo(snap(m.offset, +1))
	case "K", "pgup":
		m.scrollTo(snap(m.offset, -1))

	case "l", "enter":
		index := m.screen.ActiveIndex()
		if index == viewport.None {
			m.notice = "Scroll to a video first."
			return m, nil
		}
		return m, m.toggleCmd(index)

	case "r":
		m.loading = true
		return m, m.activateCmd()
	}

	return m, nil
}

func (m *model) scroll(delta float64) {
	m.scrollTo(m.offset + delta)
}

func (m *model) scrollTo(offset float64) {
	m.offset = clampOffset(offset, len(m.screen.Cards()))
	m.observe()
}

func (m *model) observe() {
	m.screen.Observe(observations(m.offset, len(m.screen.Cards())))
}

func noticeForToggle(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, core.ErrAuthRequired):
		return "Sign in to like videos."
	case errors.Is(err, core.ErrTransport):
		return "Couldn't update your like. Try again."
	default:
		return fmt.Sprintf("Something went wrong: %v", err)
	}
}

// currentIndex is the card occupying most of the viewport, used for render.
func (m model) currentIndex() int {
	count := len(m.screen.Cards())
	if count == 0 {
		return viewport.None
	}
	return int(math.Round(clampOffset(m.offset, count)))
}
