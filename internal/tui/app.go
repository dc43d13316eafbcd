package tui

import (
	"context"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"reelfeed/internal/feed"
)

// App owns the terminal program. It bridges feed events into the
// bubbletea message loop so engagement and playback changes repaint
// without polling.
type App struct {
	Logger *slog.Logger
	Screen *feed.Screen

	program *tea.Program
}

func (a *App) Init(ctx context.Context) error {
	a.Logger = a.Logger.With("component", "tui.App")

	return nil
}

func (a *App) Run(ctx context.Context) error {
	a.program = tea.NewProgram(
		newModel(ctx, a.Logger, a.Screen),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
		tea.WithReportFocus(),
	)

	a.Screen.SetEventSink(func(e feed.Event) {
		a.program.Send(screenEventMsg{event: e})
	})

	_, err := a.program.Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}

func (a *App) Shutdown(ctx context.Context) error {
	if a.program != nil {
		a.program.Quit()
	}
	return nil
}
