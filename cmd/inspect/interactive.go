package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wirebind/mixin"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	hostStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	layoutStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	modeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type interactiveModel struct {
	err      error
	infos    []mixin.SchemaInfo
	visible  []int
	filter   textinput.Model
	selected int
	state    modelState
}

type modelState int

const (
	stateSelectHost modelState = iota
	stateFilter
	stateShowSchema
)

func newInteractiveModel() *interactiveModel {
	ti := textinput.New()
	ti.Placeholder = "filter"
	ti.Prompt = "/ "
	ti.Width = 40
	return &interactiveModel{
		filter: ti,
		state:  stateSelectHost,
	}
}

type loadedMsg struct {
	err   error
	infos []mixin.SchemaInfo
}

func (m *interactiveModel) Init() tea.Cmd {
	return m.loadSchemas
}

func (m *interactiveModel) loadSchemas() tea.Msg {
	for _, name := range demoNames() {
		if _, err := mixin.Describe(demoHosts[name]); err != nil {
			return loadedMsg{err: fmt.Errorf("describe %s: %w", name, err)}
		}
	}
	return loadedMsg{infos: mixin.CachedSchemas()}
}

func (m *interactiveModel) applyFilter() {
	m.visible = m.visible[:0]
	needle := strings.ToLower(m.filter.Value())
	for i, info := range m.infos {
		if needle == "" || strings.Contains(strings.ToLower(info.Host), needle) {
			m.visible = append(m.visible, i)
		}
	}
	if m.selected >= len(m.visible) {
		m.selected = 0
	}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "q":
			if m.state != stateFilter {
				return m, tea.Quit
			}

		case "up", "k":
			if m.state == stateSelectHost && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateSelectHost && m.selected < len(m.visible)-1 {
				m.selected++
			}

		case "/":
			if m.state == stateSelectHost {
				m.state = stateFilter
				m.filter.Focus()
				return m, textinput.Blink
			}

		case "enter":
			switch m.state {
			case stateSelectHost:
				if len(m.visible) > 0 {
					m.state = stateShowSchema
				}
			case stateFilter:
				m.filter.Blur()
				m.state = stateSelectHost
			case stateShowSchema:
				m.state = stateSelectHost
			}

		case "esc":
			switch m.state {
			case stateFilter:
				m.filter.Blur()
				m.filter.SetValue("")
				m.applyFilter()
				m.state = stateSelectHost
			case stateShowSchema:
				m.state = stateSelectHost
			}
		}

	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.infos = msg.infos
		m.applyFilter()
	}

	if m.state == stateFilter {
		var cmd tea.Cmd
		m.filter, cmd = m.filter.Update(msg)
		m.applyFilter()
		return m, cmd
	}

	return m, nil
}

func (m *interactiveModel) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}

	if len(m.infos) == 0 {
		return "Building schemas..."
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Schema Inspector"))
	b.WriteString("\n\n")

	switch m.state {
	case stateSelectHost, stateFilter:
		if m.state == stateFilter || m.filter.Value() != "" {
			b.WriteString(m.filter.View())
			b.WriteString("\n\n")
		}
		for row, idx := range m.visible {
			line := m.formatHost(m.infos[idx])
			if row == m.selected && m.state == stateSelectHost {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		if len(m.visible) == 0 {
			b.WriteString(helpStyle.Render("no matching hosts"))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		if m.state == stateFilter {
			b.WriteString(helpStyle.Render("enter apply • esc clear"))
		} else {
			b.WriteString(helpStyle.Render("↑/↓ select • enter inspect • / filter • q quit"))
		}

	case stateShowSchema:
		info := m.infos[m.visible[m.selected]]
		b.WriteString(hostStyle.Render(info.Host))
		b.WriteString(" ")
		b.WriteString(layoutStyle.Render(info.Layout))
		b.WriteString(fmt.Sprintf("  %d slots\n\n", len(info.Slots)))
		for _, sl := range info.Slots {
			b.WriteString(fmt.Sprintf("  [%d] %s %s",
				sl.Index, modeStyle.Render(sl.Mode), sl.Record))
			b.WriteString(helpStyle.Render(" via " + sl.Owner))
			b.WriteString("\n")
		}
		if len(info.Slots) == 0 {
			b.WriteString(helpStyle.Render("  no slots"))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("enter back • q quit"))
	}

	return b.String()
}

func (m *interactiveModel) formatHost(info mixin.SchemaInfo) string {
	return fmt.Sprintf("%s %s (%d slots)",
		hostStyle.Render(info.Host),
		layoutStyle.Render(info.Layout),
		len(info.Slots))
}

func runInteractive() error {
	p := tea.NewProgram(newInteractiveModel(), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
