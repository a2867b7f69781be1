package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/metrohr/leavehub/areas"
	"github.com/metrohr/leavehub/client"
)

// areasLoadedMsg carries the area listing.
type areasLoadedMsg struct {
	list []*areas.Area
	err  error
}

type areasModel struct {
	api    *client.Client
	list   []*areas.Area
	cursor int
	errMsg string
}

func newAreasModel(api *client.Client) areasModel {
	return areasModel{api: api}
}

func (m areasModel) load() tea.Cmd {
	api := m.api
	return func() tea.Msg {
		list, err := api.ListAreas(context.Background())
		return areasLoadedMsg{list: list, err: err}
	}
}

func (m areasModel) Update(msg tea.Msg) (areasModel, tea.Cmd) {
	switch msg := msg.(type) {
	case areasLoadedMsg:
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
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.list)-1 {
				m.cursor++
			}
		case "r":
			return m, m.load()
		}
	}
	return m, nil
}

func (m areasModel) View() string {
	if m.errMsg != "" {
		return "\n  " + errorStyle.Render(m.errMsg)
	}
	if len(m.list) == 0 {
		return "\n  " + dimStyle.Render("no areas")
	}

	var b strings.Builder
	b.WriteString("\n  ")
	b.WriteString(headerRowStyle.Render(fmt.Sprintf("%-4s %-30s %-10s %-8s", "ID", "NAME", "CODE", "ACTIVE")))
	b.WriteString("\n")
	for i, a := range m.list {
		active := "yes"
		if !a.Active {
			active = "no"
		}
		row := fmt.Sprintf("%-4d %-30s %-10s %-8s", a.ID, a.Name, a.Code, active)
		if i == m.cursor {
			row = selectedRowStyle.Render(row)
		}
		b.WriteString("  " + row + "\n")
	}
	b.WriteString("\n  " + dimStyle.Render("r refresh"))
	return b.String()
}
