package tui

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/pulse-sim/pulse-sim/sim"
	"github.com/pulse-sim/pulse-sim/sim/pulse"
)

// App is the live-mode terminal application.
type App struct {
	model   Model
	program *tea.Program
}

// NewApp creates a live session.
func NewApp(cfg sim.Config, initial sim.Policy) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid live config: %w", err)
	}
	return &App{model: New(cfg, initial)}, nil
}

// Run starts the TUI and blocks until the user quits or a signal arrives.
// The session is torn down on every exit path.
func (a *App) Run() error {
	defer a.model.Teardown()

	a.program = tea.NewProgram(
		a.model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	// The session is only touched from the update goroutine; the signal
	// handler asks it to stop.
	go func() {
		if _, ok := <-sigChan; ok && a.program != nil {
			a.program.Send(teardownMsg{})
		}
	}()

	_, err := a.program.Run()

	signal.Stop(sigChan)
	close(sigChan)

	s := pulse.Summarize(a.model.Registry())
	logrus.Infof("live session ended: %d pulses (%d clicks, %d completions)", s.Total, s.Sources, s.Completions)
	return err
}
