package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	pruntime "github.com/gosuda/poliz/runtime"
)

// runBudget caps how many rows one "run" key press executes.
const runBudget = 100000

type keyMap struct {
	Step    key.Binding
	Run     key.Binding
	Restart key.Binding
	Quit    key.Binding
}

var keys = keyMap{
	Step:    key.NewBinding(key.WithKeys("n", " ", "j"), key.WithHelp("n/space", "step")),
	Run:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "run to end")),
	Restart: key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "restart")),
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// model steps a compiled program one row per key press.
type model struct {
	cfg      appConfig
	vm       *pruntime.VM
	row      int
	steps    int
	halted   bool
	listing  viewport.Model
	outputs  []string
	faults   []string
	status   string
	ready    bool
	width    int
	height   int
	sideSize int
}

func newModel(cfg appConfig, vm *pruntime.VM) *model {
	m := &model{
		cfg:      cfg,
		vm:       vm,
		listing:  viewport.New(80, 20),
		status:   "ready",
		sideSize: 36,
	}
	vm.SetOutputHook(func(out pruntime.Output) {
		m.outputs = append(m.outputs, fmt.Sprintf("%d: %d", out.Row+1, out.Value))
	})
	vm.SetFaultHook(func(f pruntime.Fault) {
		m.faults = append(m.faults, f.Error())
	})
	m.halted = vm.Program().Len() == 0
	m.refresh()
	return m
}

func (m *model) Init() tea.Cmd {
	return nil
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.listing.Width = max(msg.Width-m.sideSize-4, 20)
		m.listing.Height = max(msg.Height-3, 1)
		m.ready = true
		m.refresh()
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Step):
			m.step()
			m.refresh()
			return m, nil
		case key.Matches(msg, keys.Run):
			for n := 0; n < runBudget && !m.halted && !m.limited(); n++ {
				m.step()
			}
			m.refresh()
			return m, nil
		case key.Matches(msg, keys.Restart):
			m.restart()
			m.refresh()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.listing, cmd = m.listing.Update(msg)
	return m, cmd
}

func (m *model) limited() bool {
	if m.cfg.maxSteps > 0 && m.steps >= m.cfg.maxSteps {
		m.status = fmt.Sprintf("step limit %d reached", m.cfg.maxSteps)
		return true
	}
	return false
}

func (m *model) step() {
	if m.halted {
		return
	}
	m.row = m.vm.EvaluateLine(m.row).Next
	m.steps++
	if m.row >= m.vm.Program().Len() {
		m.halted = true
		m.status = fmt.Sprintf("halted after %d steps", m.steps)
		return
	}
	m.status = fmt.Sprintf("step %d, next line %d", m.steps, m.row+1)
}

// restart clears variables and arrays and rewinds to the first row.
func (m *model) restart() {
	m.vm.State().Reset()
	m.row = 0
	m.steps = 0
	m.outputs = nil
	m.faults = nil
	m.halted = m.vm.Program().Len() == 0
	m.status = "restarted"
}

// refresh redraws the listing and keeps the current row in view.
func (m *model) refresh() {
	current := m.row
	if m.halted {
		current = -1
	}
	m.listing.SetContent(renderListing(m.vm.Program(), current))
	if current >= 0 {
		if current < m.listing.YOffset || current >= m.listing.YOffset+m.listing.Height {
			m.listing.SetYOffset(max(current-m.listing.Height/2, 0))
		}
	}
}

func (m *model) View() string {
	if !m.ready {
		return "initializing..."
	}
	side := []string{
		headerStyle.Render("Output"),
		tail(m.outputs, 8),
		renderSnapshot(m.vm.State().Snapshot()),
	}
	if len(m.faults) > 0 {
		side = append(side, headerStyle.Render("Faults"), faultStyle.Render(tail(m.faults, 5)))
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		panelStyle.Render(m.listing.View()),
		panelStyle.Width(m.sideSize).Render(strings.Join(side, "\n")),
	)
	help := rowStyle.Render(strings.Join([]string{
		keys.Step.Help().Key + " " + keys.Step.Help().Desc,
		keys.Run.Help().Key + " " + keys.Run.Help().Desc,
		keys.Restart.Help().Key + " " + keys.Restart.Help().Desc,
		keys.Quit.Help().Key + " " + keys.Quit.Help().Desc,
	}, " • "))
	return body + "\n" + m.status + "  " + help
}

func tail(lines []string, n int) string {
	if len(lines) == 0 {
		return "(none)"
	}
	if len(lines) > n {
		lines = append([]string{"... " + strconv.Itoa(len(lines)-n) + " more"}, lines[len(lines)-n:]...)
	}
	return strings.Join(lines, "\n")
}

func runTUI(cfg appConfig, lines []string) error {
	vm, err := compileProgram(cfg, lines)
	if err != nil {
		return err
	}
	p := tea.NewProgram(newModel(cfg, vm), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
