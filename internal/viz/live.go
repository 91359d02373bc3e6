package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/gitrymt/cold-atoms/internal/config"
	"github.com/gitrymt/cold-atoms/internal/ensemble"
	"github.com/gitrymt/cold-atoms/internal/metrics"
	"github.com/gitrymt/cold-atoms/internal/push"
)

const (
	canvasWidth     = 80
	canvasHeight    = 24
	stepsPerTick    = 5
	historyCapacity = 600
)

type TickMsg time.Time

var axisNames = []string{"x/y", "x/z", "y/z"}

var axisPairs = [][2]int{{0, 1}, {0, 2}, {1, 2}}

// Model steps an ensemble live and draws the particle cloud next to a
// temperature trace.
type Model struct {
	cfg     *config.Config
	pusher  *push.Pusher
	ens     *ensemble.Ensemble
	initial *ensemble.Ensemble

	t       float64
	running bool
	axes    int
	extent  float64
	canvas  *Canvas
	history []float64
	err     error
}

func NewModel(cfg *config.Config, pusher *push.Pusher, ens *ensemble.Ensemble) Model {
	extent := 4 * cfg.InitState.Radius
	if cfg.InitState.Shape == "lattice" {
		extent = 2 * cfg.InitState.Spacing * float64(cfg.Particles)
	}
	return Model{
		cfg:     cfg,
		pusher:  pusher,
		ens:     ens,
		initial: ens.Clone(),
		running: true,
		extent:  extent,
		canvas:  NewCanvas(canvasWidth, canvasHeight),
		history: make([]float64, 0, historyCapacity),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "a":
			m.axes = (m.axes + 1) % len(axisPairs)
		case "+", "=":
			m.extent /= 1.25
		case "-", "_":
			m.extent *= 1.25
		}
	case TickMsg:
		if m.running && m.err == nil {
			m.step()
		}
		return m, tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

func (m *Model) step() {
	for i := 0; i < stepsPerTick; i++ {
		if err := m.pusher.Step(m.cfg.Dt, m.ens); err != nil {
			m.err = err
			return
		}
		m.t += m.cfg.Dt
	}

	temp := metrics.NewTemperature()
	temp.Observe(m.ens, m.t)
	m.history = append(m.history, temp.Value())
	if len(m.history) > historyCapacity {
		m.history = m.history[1:]
	}
}

func (m *Model) reset() {
	m.ens = m.initial.Clone()
	m.t = 0
	m.err = nil
	m.history = m.history[:0]
}

func (m Model) View() string {
	m.canvas.Clear()
	m.canvas.DrawCloud(m.ens.X, Projection{Axes: axisPairs[m.axes], Extent: m.extent})
	canvasView := canvasStyle.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(headerStyle.Render("COLD ATOMS") + "\n")
	switch {
	case m.err != nil:
		s.WriteString(errorStyle.Render(fmt.Sprintf("ERROR: %v", m.err)) + "\n\n")
	case m.running:
		s.WriteString("RUNNING\n\n")
	default:
		s.WriteString(pausedStyle.Render("PAUSED") + "\n\n")
	}

	if len(m.history) > 1 {
		chart := asciigraph.Plot(m.history, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Temperature"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.3g s", m.t)) + "\n")
	s.WriteString(labelStyle.Render("Particles") + valueStyle.Render(fmt.Sprintf("%d", m.ens.NumPtcls())) + "\n")
	if len(m.history) > 0 {
		s.WriteString(labelStyle.Render("Temperature") + valueStyle.Render(fmt.Sprintf("%.3g K", m.history[len(m.history)-1])) + "\n")
	}
	s.WriteString(labelStyle.Render("View") + valueStyle.Render(axisNames[m.axes]) + "\n")
	s.WriteString(labelStyle.Render("Extent") + valueStyle.Render(fmt.Sprintf("%.3g m", m.extent)) + "\n")

	s.WriteString(helpStyle.Render("\nSP:Pause R:Reset A:Axes +/-:Zoom Q:Quit"))

	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
}
