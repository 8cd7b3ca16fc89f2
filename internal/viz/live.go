package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/metrics"
	"github.com/san-kum/gravsim/internal/sim"
)

const (
	width           = 70
	height          = 24
	historyCapacity = 300
	maxStepsPerTick = 4096
)

type TickMsg time.Time

// Model steps the simulation stepsPerTick times on every tick and draws the
// bodies. It stops on its own once Total simulated seconds have passed.
type Model struct {
	stepper       sim.Stepper
	bodies        []*body.Body
	initial       []*body.Body
	radius        float64
	zoom          float64
	t, dt, total  float64
	steps         int
	stepsPerTick  int
	fps           int
	canvas        *Canvas
	running       bool
	done          bool
	energyHistory []float64
	title         string
}

// NewModel takes ownership of bodies.
func NewModel(title string, bodies []*body.Body, radius float64, stepper sim.Stepper, cfg sim.Config, fps int) Model {
	if fps <= 0 {
		fps = 30
	}
	return Model{
		stepper:       stepper,
		bodies:        bodies,
		initial:       sim.Snapshot(bodies),
		radius:        radius,
		zoom:          1,
		dt:            cfg.Dt,
		total:         cfg.Total,
		stepsPerTick:  10,
		fps:           fps,
		canvas:        NewCanvas(width, height),
		running:       true,
		energyHistory: make([]float64, 0, historyCapacity),
		title:         title,
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "+", "=":
			m.stepsPerTick = min(m.stepsPerTick*2, maxStepsPerTick)
		case "-", "_":
			m.stepsPerTick = max(m.stepsPerTick/2, 1)
		case "z":
			m.zoom *= 1.25
		case "Z":
			m.zoom /= 1.25
		}
	case TickMsg:
		if m.running && !m.done {
			m.advance()
		}
		return m, m.tick()
	}
	return m, nil
}

// advance runs up to stepsPerTick steps, honouring the same t < total loop
// condition as sim.Simulator.
func (m *Model) advance() {
	for i := 0; i < m.stepsPerTick; i++ {
		if !(m.t < m.total) {
			m.done = true
			break
		}
		m.stepper.Step(m.bodies, m.dt)
		m.t += m.dt
		m.steps++
	}

	m.energyHistory = append(m.energyHistory, metrics.TotalEnergy(m.bodies))
	if len(m.energyHistory) > historyCapacity {
		m.energyHistory = m.energyHistory[1:]
	}
}

func (m *Model) reset() {
	for i, b := range m.initial {
		*m.bodies[i] = *b
	}
	m.t = 0
	m.steps = 0
	m.done = false
	m.energyHistory = m.energyHistory[:0]
}

func (m Model) View() string {
	m.canvas.Clear()
	frame := Frame{Canvas: m.canvas, Radius: m.radius / m.zoom}
	visible := frame.Plot(m.bodies)
	canvasView := canvasStyle.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.title)) + "\n")
	switch {
	case m.done:
		s.WriteString(StatusPaused.Render("FINISHED") + "\n\n")
	case m.running:
		s.WriteString(StatusRunning.Render("RUNNING") + "\n\n")
	default:
		s.WriteString(StatusPaused.Render("PAUSED") + "\n\n")
	}

	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.4e s", m.t))
	row("Steps", fmt.Sprintf("%d", m.steps))
	row("Speed", fmt.Sprintf("%d steps/frame", m.stepsPerTick))
	row("Zoom", fmt.Sprintf("%.2fx", m.zoom))
	row("Visible", fmt.Sprintf("%d/%d", visible, len(m.bodies)))
	if n := len(m.energyHistory); n > 0 {
		row("Energy", fmt.Sprintf("%.4e J", m.energyHistory[n-1]))
		s.WriteString(Sparkline(m.energyHistory, 30) + "\n")
	}

	s.WriteString("\nBODIES\n")
	for i, b := range m.bodies {
		if i >= 8 {
			s.WriteString(labelStyle.Render(fmt.Sprintf("  +%d more", len(m.bodies)-i)) + "\n")
			break
		}
		s.WriteString(labelStyle.Render(fmt.Sprintf("  %-12s", b.Asset())) + valueStyle.Render(fmt.Sprintf("(%.2e, %.2e)", b.X(), b.Y())) + "\n")
	}

	s.WriteString(helpStyle.Render("SP:Pause R:Reset Q:Quit\n+/-:Speed z/Z:Zoom"))

	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
}

// Run starts the live view on the terminal and blocks until the user quits.
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
