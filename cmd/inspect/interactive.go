package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/hwstack/obj-runtime/engstate"
	"github.com/hwstack/obj-runtime/hal"
	"github.com/hwstack/obj-runtime/memsys"
	"github.com/hwstack/obj-runtime/object"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#5F87AF")).
			Padding(0, 1)

	engineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	stateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#5F87AF"))

	okStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type viewState int

const (
	viewVariant viewState = iota
	viewEngines
	viewSlots
)

type inspectModel struct {
	err      error
	input    textinput.Model
	state    viewState
	idx      hal.Index
	dev      object.Dynamic
	mgr      *engstate.Manager
	selected int
	stepIdx  int
	log      []string
}

func newInspectModel(family, variant string) *inspectModel {
	ti := textinput.New()
	ti.Placeholder = "FAMILY VARIANT (e.g. GH100 VF)"
	ti.Prompt = "variant index: "
	ti.SetValue(family + " " + variant)
	ti.Width = 40
	ti.Focus()
	return &inspectModel{
		input: ti,
		state: viewVariant,
	}
}

func (m *inspectModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *inspectModel) teardown() {
	if m.dev != nil {
		object.Destroy(m.dev)
		m.dev = nil
		m.mgr = nil
	}
}

// rebuild parses the variant entry and constructs a fresh topology for it.
func (m *inspectModel) rebuild() error {
	fields := strings.Fields(m.input.Value())
	if len(fields) != 2 {
		return fmt.Errorf("enter a family and a variant, e.g. %q", "GH100 VF")
	}
	idx, err := buildIndex(fields[0], fields[1])
	if err != nil {
		return err
	}

	m.teardown()
	dev, mgr, err := buildTopology(idx)
	if err != nil {
		return err
	}
	m.idx = idx
	m.dev = dev
	m.mgr = mgr
	m.stepIdx = 0
	m.selected = 0
	m.log = nil
	return nil
}

// stepNext runs the next lifecycle step across the managed engines.
func (m *inspectModel) stepNext() {
	if m.stepIdx >= len(lifecycleSteps) {
		m.log = append(m.log, "lifecycle complete; press v to pick a new variant")
		return
	}
	step := lifecycleSteps[m.stepIdx]
	m.stepIdx++
	if err := step.run(m.mgr); err != nil {
		m.log = append(m.log, errorStyle.Render(fmt.Sprintf("%s: %v", step.name, err)))
		return
	}
	m.log = append(m.log, okStyle.Render(step.name+": ok"))
	if len(m.log) > 8 {
		m.log = m.log[len(m.log)-8:]
	}
}

func (m *inspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.teardown()
			return m, tea.Quit

		case "enter":
			if m.state == viewVariant {
				if err := m.rebuild(); err != nil {
					m.err = err
					return m, nil
				}
				m.err = nil
				m.input.Blur()
				m.state = viewEngines
				return m, nil
			}
			if m.state == viewEngines {
				m.stepNext()
			}

		case "up", "k":
			if m.state == viewEngines && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == viewEngines && m.mgr != nil && m.selected < len(m.mgr.Engines())-1 {
				m.selected++
			}

		case "s":
			if m.state == viewEngines {
				m.state = viewSlots
			}

		case "v":
			if m.state != viewVariant {
				m.state = viewVariant
				m.input.Focus()
				return m, textinput.Blink
			}

		case "esc":
			if m.state == viewSlots {
				m.state = viewEngines
			}
		}
	}

	if m.state == viewVariant {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *inspectModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Object Runtime Inspector"))
	if !m.idx.IsZero() {
		b.WriteString(" ")
		b.WriteString(stateStyle.Render(m.idx.String()))
	}
	b.WriteString("\n\n")

	switch m.state {
	case viewVariant:
		b.WriteString("Pick the variant index for the demo topology:\n\n")
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
			b.WriteString("\n\n")
		}
		b.WriteString(helpStyle.Render("enter build topology • q quit"))

	case viewEngines:
		b.WriteString("Engines:\n\n")
		for i, e := range m.mgr.Engines() {
			line := fmt.Sprintf("%s  %s",
				engineStyle.Render(fmt.Sprintf("%-24s", e.Name())),
				stateStyle.Render(e.State().String()))
			if i == m.selected {
				line = selectedStyle.Render("> ") + line
			} else {
				line = "  " + line
			}
			b.WriteString(line)
			b.WriteString("\n")
		}

		b.WriteString("\nNext step: ")
		if m.stepIdx < len(lifecycleSteps) {
			b.WriteString(lifecycleSteps[m.stepIdx].name)
		} else {
			b.WriteString("(done)")
		}
		b.WriteString("\n\n")
		for _, entry := range m.log {
			b.WriteString(entry)
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("enter step • ↑/↓ select • s slots • v variant • q quit"))

	case viewSlots:
		b.WriteString("Dispatch slots for ")
		b.WriteString(stateStyle.Render(m.idx.String()))
		b.WriteString(":\n\n")
		for _, s := range memsys.Slots() {
			d := s.Describe()
			b.WriteString(engineStyle.Render(d.Name))
			b.WriteString("\n")
			for i, r := range d.Rules {
				b.WriteString(fmt.Sprintf("  rule %d: %s\n", i, r))
			}
			if d.HasDefault {
				b.WriteString(helpStyle.Render("  default: yes"))
				b.WriteString("\n")
			}
			b.WriteString("\n")
		}
		b.WriteString(helpStyle.Render("esc back • q quit"))
	}

	return b.String()
}

func runInteractive(family, variant string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("interactive mode requires a terminal")
	}
	p := tea.NewProgram(newInspectModel(family, variant), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
