package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/metrohr/leavehub/client"
)

// statsLoadedMsg carries the dashboard counters.
type statsLoadedMsg struct {
	stats *client.DashboardStats
	err   error
}

type dashboardModel struct {
	api    *client.Client
	stats  *client.DashboardStats
	errMsg string
}

func newDashboardModel(api *client.Client) dashboardModel {
	return dashboardModel{api: api}
}

func (m dashboardModel) load() tea.Cmd {
	api := m.api
	return func() tea.Msg {
		stats, err := api.GetDashboardStats(context.Background())
		return statsLoadedMsg{stats: stats, err: err}
	}
}

func (m dashboardModel) Update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case statsLoadedMsg:
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.errMsg = ""
		m.stats = msg.stats
	}
	return m, nil
}

func (m dashboardModel) View() string {
	if m.errMsg != "" {
		return "\n  " + errorStyle.Render(m.errMsg)
	}
	if m.stats == nil {
		return "\n  " + dimStyle.Render("loading stats...")
	}

	row := func(label string, value int) string {
		return fmt.Sprintf("  %s %s\n", dimStyle.Render(fmt.Sprintf("%-20s", label)), titleStyle.Render(fmt.Sprintf("%d", value)))
	}

	return "\n" + titleStyle.Render("  Overview") + "\n\n" +
		row("employees", m.stats.TotalEmployees) +
		row("active employees", m.stats.ActiveEmployees) +
		row("areas", m.stats.TotalAreas) +
		row("pending requests", m.stats.PendingRequests) +
		row("approved requests", m.stats.ApprovedRequests) +
		row("requests today", m.stats.RequestsToday)
}
