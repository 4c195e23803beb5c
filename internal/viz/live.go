package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/ksim/internal/integrators"
	"github.com/san-kum/ksim/internal/kuramoto"
)

const (
	width           = 60
	height          = 24
	historyCapacity = 600
	stepsPerTick    = 2
	kStep           = 0.25
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(45)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(2)
)

type TickMsg time.Time

// Model animates an ensemble on the unit circle, one Euler step at a time,
// with the centroid drawn as a line from the origin.
type Model struct {
	coupling kuramoto.Coupling
	euler    *integrators.Euler

	omega        []float64
	theta        []float64
	initialTheta []float64
	dtheta       []float64

	k, initialK, dt float64
	step            int
	op              kuramoto.OrderParameter

	running  bool
	showHelp bool
	canvas   *Canvas
	rHistory []float64
}

// NewModel takes a private copy of ens.
func NewModel(params kuramoto.Params, ens *kuramoto.Ensemble, coupling kuramoto.Coupling) Model {
	e := ens.Clone()
	return Model{
		coupling:     coupling,
		euler:        integrators.NewEuler(),
		omega:        e.Omega,
		theta:        e.Theta,
		initialTheta: append([]float64(nil), e.Theta...),
		dtheta:       make([]float64, e.Len()),
		k:            params.K,
		initialK:     params.K,
		dt:           params.Dt,
		op:           kuramoto.ComputeOrderParameter(e.Theta),
		running:      true,
		canvas:       NewCanvas(width, height),
		rHistory:     make([]float64, 0, historyCapacity),
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles input events and steps the simulation.
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
		case "+", "=":
			m.k += kStep
		case "-", "_":
			m.k -= kStep
		case "t":
			CurrentTheme = NextTheme(CurrentTheme.Name)
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			for i := 0; i < stepsPerTick; i++ {
				m.advance()
			}
		}
		return m, tick()
	}
	return m, nil
}

// advance records the current order parameter and applies one step.
func (m *Model) advance() {
	m.op = kuramoto.ComputeOrderParameter(m.theta)
	m.rHistory = append(m.rHistory, m.op.R)
	if len(m.rHistory) > historyCapacity {
		m.rHistory = m.rHistory[1:]
	}

	m.coupling.Derivative(m.omega, m.theta, m.k, m.op, m.dtheta)
	m.euler.Step(m.theta, m.dtheta, m.dt)
	m.step++
	m.op = kuramoto.ComputeOrderParameter(m.theta)
}

// reset restores the initial phases and coupling strength.
func (m *Model) reset() {
	copy(m.theta, m.initialTheta)
	m.k = m.initialK
	m.step = 0
	m.rHistory = m.rHistory[:0]
	m.op = kuramoto.ComputeOrderParameter(m.theta)
}

func (m *Model) draw() {
	m.canvas.Clear()
	vp := m.canvas.UnitViewport()
	cx, cy := vp.Project(0, 0)
	m.canvas.DrawCircle(cx, cy, vp.radius)

	for _, th := range m.theta {
		// oscillators sit just inside the circle so they stay visible
		x, y := vp.Project(0.9*math.Cos(th), 0.9*math.Sin(th))
		m.canvas.Set(x, y)
		m.canvas.Set(x+1, y)
		m.canvas.Set(x, y+1)
		m.canvas.Set(x+1, y+1)
	}

	if m.op.IsFinite() {
		ex, ey := vp.Project(m.op.X, m.op.Y)
		m.canvas.DrawLine(cx, cy, ex, ey)
	}
}

// View renders the TUI interface.
func (m Model) View() string {
	m.draw()
	theme := CurrentTheme
	canvasView := canvasStyle.Foreground(theme.Oscillator).Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(headerStyle.Render(fmt.Sprintf("KURAMOTO  %s", strings.ToUpper(m.coupling.Name()))) + "\n")
	switch {
	case !m.op.IsFinite():
		s.WriteString(StatusDiverged.Render("DIVERGED") + "\n\n")
	case m.running:
		s.WriteString(StatusRunning.Render("RUNNING") + "\n\n")
	default:
		s.WriteString(StatusPaused.Render("PAUSED") + "\n\n")
	}

	if len(m.rHistory) > 1 {
		chart := asciigraph.Plot(m.rHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.LowerBound(0), asciigraph.UpperBound(1), asciigraph.Caption("R"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	s.WriteString(labelStyle.Render("Step") + valueStyle.Render(fmt.Sprintf("%d", m.step)) + "\n")
	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.2f", float64(m.step)*m.dt)) + "\n")
	s.WriteString(labelStyle.Render("Oscillators") + valueStyle.Render(fmt.Sprintf("%d", len(m.theta))) + "\n")
	s.WriteString(labelStyle.Render("k") + lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render(fmt.Sprintf("%.2f", m.k)) + "\n")
	s.WriteString(labelStyle.Render("R") + ProgressBar(m.op.R, 12) + valueStyle.Render(fmt.Sprintf(" %.3f", m.op.R)) + "\n")
	s.WriteString(labelStyle.Render("Phase") + valueStyle.Render(fmt.Sprintf("%.3f", m.op.Phase)) + "\n")
	s.WriteString(labelStyle.Render("Theme") + lipgloss.NewStyle().Foreground(theme.Muted).Render(theme.Name) + "\n")

	s.WriteString(helpStyle.Render("\n─────────────────────\nSP:Pause R:Reset Q:Quit\n+/-:Coupling T:Theme ?:Help"))
	statsView := statsStyle.Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume simulation  ║
║  R        - Reset phases and k       ║
║  +        - Increase k by 0.25       ║
║  -        - Decrease k by 0.25       ║
║  T        - Cycle themes             ║
║  Q        - Quit                     ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}

// Run starts the live view and blocks until the user quits.
func Run(params kuramoto.Params, ens *kuramoto.Ensemble, coupling kuramoto.Coupling) error {
	p := tea.NewProgram(NewModel(params, ens, coupling), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
