package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/pulse-sim/pulse-sim/sim"
	"github.com/pulse-sim/pulse-sim/sim/pulse"
)

// Pulses newer than this are drawn solid; older ones fade.
const freshPulseMs = 1500

type tickMsg time.Time

// teardownMsg asks the model to stop the session and quit.
type teardownMsg struct{}

// Model is the live-mode program state. Mouse clicks on the canvas become
// source events; the selected policy is applied to each click as it happens.
type Model struct {
	cfg        sim.Config
	loop       *sim.Loop
	source     *sim.LiveSource
	dispatcher *sim.SelectableDispatcher
	registry   *pulse.Registry
	lifecycle  *sim.Lifecycle
	layout     *Layout

	start time.Time
	clock func() time.Time

	width, height int
	quitting      bool
}

// New wires a live session starting with the given policy selected.
func New(cfg sim.Config, initial sim.Policy) Model {
	m := Model{
		cfg:       cfg,
		loop:      sim.NewLoop(0),
		lifecycle: sim.NewLifecycle(),
		layout:    NewLayout(0, 0),
		clock:     time.Now,
	}
	m.start = m.clock()
	m.registry = pulse.NewRegistry(m.loop.Now)
	m.dispatcher = sim.NewSelectableDispatcher(m.loop, cfg.TaskDelayMs, initial)

	// Resize replaces the layout in place, so the predicate stays valid.
	m.source = sim.NewLiveSource(m.loop, m.layout.IsControl)

	m.source.Subscribe(func(ev sim.SourceEvent) {
		m.registry.Append(pulse.Record{
			Position:  ev.Position,
			Color:     sim.ClickColor,
			CreatedAt: ev.Timestamp,
			Policy:    m.dispatcher.Selected().String(),
			Kind:      pulse.KindSource,
		})
		m.dispatcher.Dispatch(ev)
	})
	m.dispatcher.OnComplete(func(c sim.CompletionEvent) {
		m.registry.Append(pulse.Record{
			Position:  c.StartPosition,
			Color:     c.Policy.Color(),
			CreatedAt: c.EndTime,
			Policy:    c.Policy.String(),
			Kind:      pulse.KindCompletion,
			TaskID:    c.TaskID,
		})
	})

	m.lifecycle.Register("live source", m.source.Detach)
	m.lifecycle.Register("dispatchers", m.dispatcher.Teardown)
	m.lifecycle.Register("loop", m.loop.Stop)
	m.lifecycle.Register("pulse registry", m.registry.Seal)
	return m
}

// Registry exposes the pulses recorded so far.
func (m Model) Registry() *pulse.Registry {
	return m.registry
}

// Selected returns the policy applied to the next click.
func (m Model) Selected() sim.Policy {
	return m.dispatcher.Selected()
}

// Teardown stops the session. Safe to call more than once.
func (m Model) Teardown() {
	m.lifecycle.Teardown()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Duration(m.cfg.TickIntervalMs)*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return m.tick()
}

// advance runs the loop up to the wall-clock time t.
func (m Model) advance(t time.Time) {
	if elapsed := t.Sub(m.start).Milliseconds(); elapsed > m.loop.Now() {
		m.loop.RunUntil(elapsed)
	}
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeypress(msg)

	case teardownMsg:
		return m.quit()

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		*m.layout = *NewLayout(m.width, m.height)
		m.source.Resize(m.layout.Canvas.W, m.layout.Canvas.H)
		return m, nil

	case tickMsg:
		if m.quitting {
			return m, nil
		}
		m.advance(time.Time(msg))
		return m, m.tick()
	}
	return m, nil
}

func (m Model) handleKeypress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return m.quit()
	case "1", "m":
		m.dispatcher.Select(sim.PolicyMerge)
	case "2", "s":
		m.dispatcher.Select(sim.PolicySwitch)
	case "3", "e":
		m.dispatcher.Select(sim.PolicyExhaust)
	case "4", "c":
		m.dispatcher.Select(sim.PolicyConcat)
	}
	return m, nil
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.lifecycle.Teardown()
	return m, tea.Quit
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}
	m.advance(m.clock())

	target := ""
	if el := m.layout.HitTest(msg.X, msg.Y); el != nil {
		target = el.ID
	}
	if p, ok := PolicyForButton(target); ok {
		m.dispatcher.Select(p)
		return m, nil
	}
	canvas := m.layout.Canvas
	if ev, ok := m.source.Click(msg.X-canvas.X, msg.Y-canvas.Y, target); ok {
		logrus.Debugf("click %s under %s", ev, m.dispatcher.Selected())
	}
	return m, nil
}

// View renders the canvas, the policy buttons and the status line.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}
	var b strings.Builder
	b.WriteString(m.renderCanvas())
	b.WriteString(m.renderControls())
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	return b.String()
}

func (m Model) renderCanvas() string {
	canvas := m.layout.Canvas
	if canvas.W == 0 || canvas.H == 0 {
		return ""
	}
	grid := make([][]string, canvas.H)
	for i := range grid {
		grid[i] = make([]string, canvas.W)
		for j := range grid[i] {
			grid[i][j] = " "
		}
	}
	now := m.loop.Now()
	for rec := range m.registry.All() {
		col := cell(rec.Position.X, canvas.W)
		row := cell(rec.Position.Y, canvas.H)
		glyph := "○"
		if now-rec.CreatedAt < freshPulseMs {
			glyph = "●"
		}
		grid[row][col] = PulseStyle(rec.Color).Render(glyph)
	}
	var b strings.Builder
	for _, row := range grid {
		b.WriteString(strings.Join(row, ""))
		b.WriteString("\n")
	}
	return b.String()
}

// cell maps a percent coordinate onto n cells.
func cell(pct float64, n int) int {
	i := int(pct * float64(n) / 100)
	return min(max(i, 0), n-1)
}

func (m Model) renderControls() string {
	buttons := make([]string, 0, len(sim.Policies))
	for _, p := range sim.Policies {
		style := ButtonInactive.Foreground(PulseColor(p.Color()))
		if p == m.dispatcher.Selected() {
			style = ButtonActive.Background(PulseColor(p.Color()))
		}
		buttons = append(buttons, style.Render(buttonLabel(p)))
	}
	return strings.Join(buttons, " ")
}

func (m Model) renderStatus() string {
	status := fmt.Sprintf("t=%.1fs  pulses=%d  active=%d  policy=%s  click to emit, q to quit",
		float64(m.loop.Now())/1000, m.registry.Len(), m.dispatcher.Active(), m.dispatcher.Selected())
	return Muted.Render(status)
}
