package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	bubbletea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/ltnguyen02/tiny-range-index-go/internal/driver"
)

var cmdStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff66ff"))

type Model struct {
	system    *driver.System
	viewport  viewport.Model
	textInput textinput.Model
	history   []string
	ready     bool
}

func NewModel(system *driver.System) Model {
	ti := textinput.New()
	ti.Placeholder = "Enter command... (/state /best /total /apply <pos> <value> /flush)"
	ti.Focus()
	ti.Width = 80

	return Model{
		system:    system,
		textInput: ti,
		history:   []string{},
	}
}

func (m Model) Init() bubbletea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg bubbletea.Msg) (bubbletea.Model, bubbletea.Cmd) {
	var (
		cmd  bubbletea.Cmd
		cmds []bubbletea.Cmd
	)

	m.textInput, cmd = m.textInput.Update(msg)
	cmds = append(cmds, cmd)

	switch msg := msg.(type) {
	case bubbletea.KeyMsg:
		switch msg.Type {
		case bubbletea.KeyEnter:
			input := m.textInput.Value()
			m.textInput.Reset()

			parts := strings.Fields(input)
			if len(parts) == 0 {
				return m, nil
			}

			command := parts[0]
			args := parts[1:]

			switch command {
			case "/state":
				m.appendHistory(cmdStyle.Render("/state"), prettyWeights(m.system.State()))
			case "/best":
				m.appendHistory(cmdStyle.Render("/best"), fmt.Sprintf("Best non-adjacent sum: %d", m.system.Best()))
			case "/total":
				m.appendHistory(cmdStyle.Render("/total"), fmt.Sprintf("Running total: %d", m.system.Total()))
			case "/apply":
				m.appendHistory(cmdStyle.Render(input), m.runApply(args))
			case "/flush":
				var output string
				if err := m.system.Flush(); err != nil {
					output = fmt.Sprintf("Flush failed: %v", err)
				} else {
					output = "Journal flushed."
				}
				m.appendHistory(cmdStyle.Render("/flush"), output)
			}
		case bubbletea.KeyCtrlC, bubbletea.KeyEsc:
			return m, bubbletea.Quit
		}
	case bubbletea.WindowSizeMsg:
		headerHeight := lipgloss.Height(m.headerView())
		viewportHeight := 10

		if !m.ready {
			m.viewport = viewport.New(msg.Width-2, viewportHeight)
			m.viewport.YPosition = headerHeight
			m.ready = true
		} else {
			m.viewport.Width = msg.Width - 2
		}
		m.textInput.Width = msg.Width - 4
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, bubbletea.Batch(cmds...)
}

func (m *Model) appendHistory(lines ...string) {
	m.history = append(m.history, lines...)
	m.viewport.SetContent(strings.Join(m.history, "\n"))
	m.viewport.GotoBottom()
}

func (m *Model) runApply(args []string) string {
	if len(args) != 2 {
		return "Usage: /apply <pos> <value>"
	}
	pos, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Sprintf("Invalid pos: %s", args[0])
	}
	value, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return fmt.Sprintf("Invalid value: %s", args[1])
	}

	resp := m.system.Apply(pos, value)
	if resp.Err != nil {
		return fmt.Sprintf("[Step %d] Apply failed: %v", resp.Step, resp.Err)
	}
	return fmt.Sprintf("[Step %d] Best: %d Total: %d", resp.Step, resp.Best, resp.Total)
}

func (m Model) View() string {
	if !m.ready {
		return "\n  Initializing..."
	}

	return lipgloss.JoinVertical(
		lipgloss.Center,
		m.headerView(),
		m.viewport.View(),
		m.footerView(),
	)
}

func (m Model) headerView() string {
	var style = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FAFAFA")).
		Background(lipgloss.Color("#7D56F4"))
	return style.Render("Range Index TUI")
}

func (m Model) footerView() string {
	return m.textInput.View()
}

func prettyWeights(weights []int64) string {
	var builder strings.Builder
	for i, w := range weights {
		builder.WriteString(fmt.Sprintf("Pos: %-5d Weight: %d\n", i, w))
	}
	return builder.String()
}
