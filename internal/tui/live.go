// Package tui renders a live view of the control loop in the terminal.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/heatsim/internal/sim"
)

var (
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white  = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	green  = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	red    = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

const historyLen = 120

// Model is the bubbletea model for the live view. It owns the tick and
// advances the loop one sampling interval per step, so the controller
// sees the same cadence it would in a batch run.
type Model struct {
	build    func() *sim.Loop
	loop     *sim.Loop
	interval float64
	duration float64
	target   int

	t      float64
	last   sim.Sample
	paused bool
	done   bool
	speed  int

	readings []float64
	drives   []float64

	width  int
	height int
}

// NewModel builds the live view. The build closure constructs a fresh
// loop with a fresh plant and controller; it is called once up front
// and again on every reset.
func NewModel(build func() *sim.Loop, interval, duration float64, target int) *Model {
	return &Model{
		build:    build,
		loop:     build(),
		interval: interval,
		duration: duration,
		target:   target,
		speed:    1,
		readings: make([]float64, 0, historyLen),
		drives:   make([]float64, 0, historyLen),
		width:    80,
		height:   24,
	}
}

func (m *Model) Init() tea.Cmd { return tick() }

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		if !m.paused && !m.done {
			for i := 0; i < m.speed && !m.done; i++ {
				m.step()
			}
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "escape":
		return m, tea.Quit
	case " ", "p":
		m.paused = !m.paused
	case "r":
		m.reset()
	case "up", "k":
		m.setTarget(m.target + 10)
	case "down", "j":
		m.setTarget(m.target - 10)
	case "+", "=":
		if m.speed < 16 {
			m.speed *= 2
		}
	case "-", "_":
		if m.speed > 1 {
			m.speed /= 2
		}
	}
	return m, nil
}

func (m *Model) setTarget(target int) {
	if target < 0 {
		target = 0
	}
	if target > 1023 {
		target = 1023
	}
	m.target = target
	m.loop.Controller().SetTarget(target)
}

func (m *Model) step() {
	if m.t >= m.duration {
		m.done = true
		return
	}

	m.last = m.loop.Step(m.t, m.interval)
	m.t += m.interval

	m.readings = append(m.readings, float64(m.last.Reading))
	m.drives = append(m.drives, float64(m.last.Drive))
	if len(m.readings) > historyLen {
		m.readings = m.readings[1:]
		m.drives = m.drives[1:]
	}
}

func (m *Model) reset() {
	m.loop = m.build()
	m.loop.Controller().SetTarget(m.target)
	m.t = 0
	m.done = false
	m.paused = false
	m.last = sim.Sample{}
	m.readings = m.readings[:0]
	m.drives = m.drives[:0]
}

func (m *Model) View() string {
	var b strings.Builder

	statusIcon := green.Render("●")
	statusText := green.Render("running")
	if m.done {
		statusIcon = dim.Render("●")
		statusText = dim.Render("done")
	} else if m.paused {
		statusIcon = yellow.Render("○")
		statusText = yellow.Render("paused")
	}
	b.WriteString(fmt.Sprintf("\n   %s %s  %s", statusIcon, cyan.Render("heatsim"), statusText))
	if m.speed > 1 {
		b.WriteString("  " + dim.Render(fmt.Sprintf("%dx", m.speed)))
	}
	b.WriteString("\n")

	progress := m.t / m.duration
	if progress > 1 {
		progress = 1
	}
	barWidth := 36
	filled := int(progress * float64(barWidth))
	bar := cyan.Render(strings.Repeat("━", filled)) + dimmer.Render(strings.Repeat("─", barWidth-filled))
	timeStr := fmt.Sprintf("%.0fs/%.0fs", m.t, m.duration)
	b.WriteString(fmt.Sprintf("   %s %s\n\n", bar, dim.Render(timeStr)))

	plotWidth := m.width - 14
	if plotWidth < 40 {
		plotWidth = 40
	}

	if len(m.readings) > 1 {
		graph := asciigraph.Plot(m.readings,
			asciigraph.Height(9),
			asciigraph.Width(plotWidth),
			asciigraph.Caption(fmt.Sprintf("reading (target %d)", m.target)),
		)
		b.WriteString(indent(graph, "   "))
		b.WriteString("\n\n")

		graph = asciigraph.Plot(m.drives,
			asciigraph.Height(5),
			asciigraph.Width(plotWidth),
			asciigraph.Caption("drive"),
		)
		b.WriteString(indent(graph, "   "))
		b.WriteString("\n\n")
	} else {
		b.WriteString(dim.Render("   waiting for samples...") + "\n\n")
	}

	err := m.last.Reading - m.target
	errStyle := green
	if err > 20 || err < -20 {
		errStyle = red
	} else if err > 8 || err < -8 {
		errStyle = yellow
	}
	b.WriteString("   " +
		dim.Render("temp=") + white.Render(fmt.Sprintf("%.1f°C", m.last.Temp)) + "  " +
		dim.Render("reading=") + white.Render(fmt.Sprintf("%d", m.last.Reading)) + "  " +
		dim.Render("drive=") + white.Render(fmt.Sprintf("%d", m.last.Drive)) + "  " +
		dim.Render("error=") + errStyle.Render(fmt.Sprintf("%+d", err)) + "\n")

	b.WriteString("\n" + dim.Render("   space pause  ↑↓ target  ± speed  r reset  q quit") + "\n")

	return b.String()
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}

// Run starts the live view and blocks until the user quits.
func Run(build func() *sim.Loop, interval, duration float64, target int) error {
	p := tea.NewProgram(NewModel(build, interval, duration, target), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
