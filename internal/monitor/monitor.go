// Package monitor renders live controller state in the terminal: one pad
// grid per attached device, the recent event log and the per-device drop
// counters. Events are injected from outside via Program.Send, so the model
// itself never touches the MIDI transport.
package monitor

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/asutherland/sysex-mapatron/internal/fire"
)

// EventMsg delivers one multiplexed controller event to the TUI.
type EventMsg fire.SourcedEvent

// StreamClosedMsg says every device's event channel has closed.
type StreamClosedMsg struct{}

const logDepth = 8

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#D84315")).
			Padding(0, 1)

	deviceStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFAB91"))

	padUpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#424242"))

	padDownStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true)

	logStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#9E9E9E"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))
)

type deviceView struct {
	id      fire.DeviceID
	name    string
	pressed [fire.NumPads]bool
	knobs   [4]uint8
	dropped func() uint64
}

// Model is the bubbletea model for the grid monitor.
type Model struct {
	devices []*deviceView
	byID    map[fire.DeviceID]*deviceView
	log     []string
	events  int
	closed  bool
	width   int
	height  int
}

// New builds a model showing one grid per attached controller.
func New(controllers []*fire.Controller) Model {
	m := Model{byID: make(map[fire.DeviceID]*deviceView)}
	for _, c := range controllers {
		dv := &deviceView{
			id:      c.ID(),
			name:    c.Name(),
			dropped: c.Dropped,
		}
		m.devices = append(m.devices, dv)
		m.byID[c.ID()] = dv
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		}
		return m, nil

	case EventMsg:
		m.events++
		dv, ok := m.byID[msg.Device]
		if !ok {
			return m, nil
		}
		switch evt := msg.Event.(type) {
		case fire.GridButton:
			dv.pressed[evt.Index] = evt.State == fire.ButtonDown
			m.pushLog(fmt.Sprintf("dev %d pad %2d (%d,%2d) %s vel %3d",
				msg.Device, evt.Index, evt.Row, evt.Col, evt.State, evt.Velocity))
		case fire.Knob:
			dv.knobs[evt.Number] = evt.Value
			m.pushLog(fmt.Sprintf("dev %d knob %d -> %3d", msg.Device, evt.Number, evt.Value))
		}
		return m, nil

	case StreamClosedMsg:
		m.closed = true
		m.pushLog("all controllers disconnected")
		return m, tea.Quit
	}

	return m, nil
}

func (m *Model) pushLog(line string) {
	m.log = append(m.log, line)
	if len(m.log) > logDepth {
		m.log = m.log[len(m.log)-logDepth:]
	}
}

func (m Model) View() string {
	s := titleStyle.Render("sysex-mapatron monitor") + "\n\n"

	if len(m.devices) == 0 {
		s += "no controllers attached\n"
	}

	for _, dv := range m.devices {
		s += deviceStyle.Render(fmt.Sprintf("[%d] %s", dv.id, dv.name))
		if n := dv.dropped(); n > 0 {
			s += logStyle.Render(fmt.Sprintf("  (%d dropped)", n))
		}
		s += "\n"
		for row := 0; row < fire.GridRows; row++ {
			line := ""
			for col := 0; col < fire.GridCols; col++ {
				if dv.pressed[row*fire.GridCols+col] {
					line += padDownStyle.Render("■ ")
				} else {
					line += padUpStyle.Render("· ")
				}
			}
			s += "  " + line + "\n"
		}
		s += logStyle.Render(fmt.Sprintf("  knobs: vol %3d  pan %3d  filter %3d  res %3d",
			dv.knobs[0], dv.knobs[1], dv.knobs[2], dv.knobs[3])) + "\n\n"
	}

	for _, line := range m.log {
		s += logStyle.Render(line) + "\n"
	}

	s += "\n" + helpStyle.Render(fmt.Sprintf("%d events · q to quit", m.events)) + "\n"
	return s
}
