// Package tui renders a running integration in the terminal.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/modsim/internal/models"
	"github.com/san-kum/modsim/internal/ode"
)

const (
	historyCapacity = 240
	stepsPerFrame   = 4
	frameRate       = 30
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(10)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type frameMsg time.Time

// Model steps a system with a fixed-step stepper on frame ticks and
// graphs one state component.
type Model struct {
	name      string
	setup     models.Setup
	stepper   ode.Stepper
	x         ode.State
	t         float64
	dt        float64
	component int
	history   []float64
	paused    bool
	err       error
	width     int
}

func NewModel(name string, setup models.Setup, stepper ode.Stepper, dt float64) Model {
	return Model{
		name:    name,
		setup:   setup,
		stepper: stepper,
		x:       setup.X0.Clone(),
		t:       setup.Config.T0,
		dt:      dt,
		history: make([]float64, 0, historyCapacity),
		width:   80,
	}
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
		case "tab":
			m.component = (m.component + 1) % len(m.setup.Labels)
			m.history = m.history[:0]
		case "r":
			m.x = m.setup.X0.Clone()
			m.t = m.setup.Config.T0
			m.history = m.history[:0]
			m.err = nil
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case frameMsg:
		if !m.paused && m.err == nil {
			for i := 0; i < stepsPerFrame; i++ {
				next, err := m.stepper.Step(m.setup.Sys, m.t, m.x, m.dt)
				if err != nil {
					m.err = err
					break
				}
				if !next.IsValid() {
					m.err = fmt.Errorf("state diverged at t=%.4f", m.t)
					break
				}
				m.x = next
				m.t += m.dt
			}
			m.history = append(m.history, m.x[m.component])
			if len(m.history) > historyCapacity {
				m.history = m.history[1:]
			}
		}
		return m, tick()
	}

	return m, nil
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(fmt.Sprintf("modsim live: %s", m.name)))
	b.WriteString("\n")

	if len(m.history) > 1 {
		w := m.width - 12
		if w > historyCapacity {
			w = historyCapacity
		}
		if w < 20 {
			w = 20
		}
		graph := asciigraph.Plot(m.history,
			asciigraph.Height(12),
			asciigraph.Width(w),
			asciigraph.Caption(m.setup.Labels[m.component]))
		b.WriteString(graphStyle.Render(graph))
		b.WriteString("\n")
	}

	b.WriteString(labelStyle.Render("t") + valueStyle.Render(fmt.Sprintf("%.3f", m.t)) + "\n")
	for i, label := range m.setup.Labels {
		b.WriteString(labelStyle.Render(label) + valueStyle.Render(fmt.Sprintf("%.6g", m.x[i])) + "\n")
	}

	if m.err != nil {
		b.WriteString(errorStyle.Render("error: "+m.err.Error()) + "\n")
	}
	if m.paused {
		b.WriteString(valueStyle.Render("paused") + "\n")
	}

	b.WriteString(helpStyle.Render("space: pause  tab: field  r: reset  q: quit"))
	return b.String()
}
