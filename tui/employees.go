package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/metrohr/leavehub/client"
	"github.com/metrohr/leavehub/employees"
)

// employeesLoadedMsg carries the employee listing.
type employeesLoadedMsg struct {
	list []*employees.Employee
	err  error
}

type employeesModel struct {
	api       *client.Client
	list      []*employees.Employee
	cursor    int
	search    string
	searching bool
	errMsg    string
}

func newEmployeesModel(api *client.Client) employeesModel {
	return employeesModel{api: api}
}

func (m employeesModel) load() tea.Cmd {
	api, search := m.api, m.search
	return func() tea.Msg {
		list, err := api.ListEmployees(context.Background(), nil, search)
		return employeesLoadedMsg{list: list, err: err}
	}
}

func (m employeesModel) Update(msg tea.Msg) (employeesModel, tea.Cmd) {
	switch msg := msg.(type) {
	case employeesLoadedMsg:
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.errMsg = ""
		m.list = msg.list
		if m.cursor >= len(m.list) {
			m.cursor = 0
		}

	case tea.KeyMsg:
		if m.searching {
			switch msg.String() {
			case "enter":
				m.searching = false
				return m, m.load()
			case "esc":
				m.searching = false
				m.search = ""
				return m, m.load()
			default:
				m.search = editRune(m.search, msg.String())
			}
			return m, nil
		}
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.list)-1 {
				m.cursor++
			}
		case "/":
			m.searching = true
		case "r":
			return m, m.load()
		}
	}
	return m, nil
}

func (m employeesModel) View() string {
	if m.errMsg != "" {
		return "\n  " + errorStyle.Render(m.errMsg)
	}

	var b strings.Builder
	if m.searching {
		b.WriteString("\n  " + dimStyle.Render("search: ") + m.search + accentStyle.Render("█") + "\n")
	} else if m.search != "" {
		b.WriteString("\n  " + dimStyle.Render("filter: "+m.search) + "\n")
	}

	if len(m.list) == 0 {
		b.WriteString("\n  " + dimStyle.Render("no employees"))
		return b.String()
	}

	b.WriteString("\n  ")
	b.WriteString(headerRowStyle.Render(fmt.Sprintf("%-8s %-30s %-20s %-6s", "FILE#", "NAME", "AREA", "ACTIVE")))
	b.WriteString("\n")
	for i, e := range m.list {
		active := "yes"
		if !e.Active {
			active = "no"
		}
		row := fmt.Sprintf("%-8s %-30s %-20s %-6s", e.FileNumber, e.FullName(), e.AreaName, active)
		if i == m.cursor {
			row = selectedRowStyle.Render(row)
		}
		b.WriteString("  " + row + "\n")
	}
	b.WriteString("\n  " + dimStyle.Render("/ search · r refresh"))
	return b.String()
}
