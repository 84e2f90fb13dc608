// Package viz replays a recorded flight in the terminal: a braille-dot
// side profile with a synchronized stats panel and altitude chart.
package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/openlaunch/ascent/internal/flight"
)

const (
	canvasWidth  = 70
	canvasHeight = 22
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 2).Width(42)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	eventStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(2)
)

type TickMsg time.Time

// Model is the bubbletea replay model over a completed flight.
type Model struct {
	name string
	res  *flight.Result

	playHead int
	playing  bool
	speed    float64 // replay seconds per wall second

	canvas *Canvas

	// fixed scales so the view does not jump while playing
	maxDownrange float64
	maxAltitude  float64
}

func NewModel(name string, res *flight.Result) Model {
	m := Model{
		name:    name,
		res:     res,
		playing: true,
		speed:   4,
		canvas:  NewCanvas(canvasWidth, canvasHeight),
	}
	for _, x := range res.States {
		if d := downrange(x); d > m.maxDownrange {
			m.maxDownrange = d
		}
		if a := x.Altitude(); a > m.maxAltitude {
			m.maxAltitude = a
		}
	}
	if m.maxDownrange < 1 {
		m.maxDownrange = 1
	}
	if m.maxAltitude < 1 {
		m.maxAltitude = 1
	}
	return m
}

func downrange(x flight.State) float64 {
	p := x.Position()
	return math.Hypot(p.X, p.Y)
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.playing = !m.playing
		case "r":
			m.playHead = 0
			m.playing = true
		case "[":
			m.playing = false
			m.seek(-1)
		case "]":
			m.playing = false
			m.seek(1)
		case "+", "=":
			m.speed *= 2
		case "-", "_":
			if m.speed > 0.5 {
				m.speed /= 2
			}
		}
	case TickMsg:
		if m.playing && len(m.res.Times) > 1 {
			m.advance(m.speed / 30)
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) seek(dir int) {
	m.playHead += dir
	if m.playHead < 0 {
		m.playHead = 0
	}
	if m.playHead >= len(m.res.Times) {
		m.playHead = len(m.res.Times) - 1
	}
}

// advance moves the play head forward by dt replay seconds.
func (m *Model) advance(dt float64) {
	target := m.res.Times[m.playHead] + dt
	for m.playHead < len(m.res.Times)-1 && m.res.Times[m.playHead+1] <= target {
		m.playHead++
	}
	if m.playHead == len(m.res.Times)-1 {
		m.playing = false
	}
}

func (m *Model) draw() {
	m.canvas.Clear()
	cw, ch := canvasWidth*2, canvasHeight*4

	// ground line
	m.canvas.DrawLine(0, ch-1, cw-1, ch-1)

	sx := float64(cw-4) / m.maxDownrange
	sy := float64(ch-4) / m.maxAltitude

	px, py := -1, -1
	for i := 0; i <= m.playHead && i < len(m.res.States); i++ {
		x := m.res.States[i]
		cx := 2 + int(downrange(x)*sx)
		cy := ch - 2 - int(x.Altitude()*sy)
		if px >= 0 {
			m.canvas.DrawLine(px, py, cx, cy)
		}
		px, py = cx, cy
	}
	// rocket marker
	if px >= 0 {
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				m.canvas.Set(px+dx, py+dy)
			}
		}
	}
}

func (m Model) View() string {
	m.draw()

	i := m.playHead
	if i >= len(m.res.States) {
		i = len(m.res.States) - 1
	}
	x := m.res.States[i]
	t := m.res.Times[i]

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.name)) + "\n")
	status := "REPLAY"
	if !m.playing {
		status = "PAUSED"
	}
	s.WriteString(fmt.Sprintf("%s  %.0fx\n\n", status, m.speed))

	if i > 1 {
		alts := make([]float64, 0, i+1)
		for _, st := range m.res.States[:i+1] {
			alts = append(alts, st.Altitude())
		}
		chart := asciigraph.Plot(alts, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Altitude"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.2f s", t)) + "\n")
	s.WriteString(labelStyle.Render("Altitude") + valueStyle.Render(fmt.Sprintf("%.1f m", x.Altitude())) + "\n")
	s.WriteString(labelStyle.Render("Downrange") + valueStyle.Render(fmt.Sprintf("%.1f m", downrange(x))) + "\n")
	s.WriteString(labelStyle.Render("Speed") + valueStyle.Render(fmt.Sprintf("%.1f m/s", x.Velocity().Norm())) + "\n")
	s.WriteString(labelStyle.Render("Mass") + valueStyle.Render(fmt.Sprintf("%.3f kg", x.Mass())) + "\n")
	s.WriteString(labelStyle.Render("Phase") + valueStyle.Render(m.phaseAt(t).String()) + "\n")

	s.WriteString("\nEVENTS\n")
	shown := 0
	for _, ev := range m.res.Events {
		if ev.Time > t {
			break
		}
		s.WriteString(eventStyle.Render(fmt.Sprintf("  %-20s t=%.2fs", ev.Name, ev.Time)) + "\n")
		shown++
	}
	if shown == 0 {
		s.WriteString(labelStyle.Render("  (none yet)") + "\n")
	}

	s.WriteString(helpStyle.Render("\nSP:Pause R:Restart [ ]:Scrub +/-:Speed Q:Quit"))

	canvasView := canvasStyle.Render(m.canvas.String())
	statsView := statsStyle.Render(s.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
}

// phaseAt reconstructs the phase at replay time t from the event log.
func (m Model) phaseAt(t float64) flight.Phase {
	ph := flight.PhaseOnRail
	for _, ev := range m.res.Events {
		if ev.Time > t {
			break
		}
		ph = ev.Phase
	}
	return ph
}
