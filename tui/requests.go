package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/metrohr/leavehub/client"
	"github.com/metrohr/leavehub/requests"
)

// requestsLoadedMsg carries the leave request listing.
type requestsLoadedMsg struct {
	list []*requests.LeaveRequest
	err  error
}

// folioCopiedMsg reports the clipboard copy outcome.
type folioCopiedMsg struct {
	folio string
	err   error
}

type requestsModel struct {
	api       *client.Client
	list      []*requests.LeaveRequest
	cursor    int
	detail    bool
	statusMsg string
	errMsg    string
}

func newRequestsModel(api *client.Client) requestsModel {
	return requestsModel{api: api}
}

func (m requestsModel) load() tea.Cmd {
	api := m.api
	return func() tea.Msg {
		list, err := api.ListRequests(context.Background(), requests.ListFilter{})
		return requestsLoadedMsg{list: list, err: err}
	}
}

func (m requestsModel) selected() *requests.LeaveRequest {
	if m.cursor < 0 || m.cursor >= len(m.list) {
		return nil
	}
	return m.list[m.cursor]
}

func (m requestsModel) copyFolio() tea.Cmd {
	req := m.selected()
	if req == nil {
		return nil
	}
	folio := req.Folio
	return func() tea.Msg {
		return folioCopiedMsg{folio: folio, err: clipboard.WriteAll(folio)}
	}
}

func (m requestsModel) setStatus(status requests.Status) tea.Cmd {
	req := m.selected()
	if req == nil {
		return nil
	}
	api, id := m.api, req.ID
	return func() tea.Msg {
		if err := api.UpdateRequestStatus(context.Background(), id, status); err != nil {
			return requestsLoadedMsg{err: err}
		}
		list, err := api.ListRequests(context.Background(), requests.ListFilter{})
		return requestsLoadedMsg{list: list, err: err}
	}
}

func (m requestsModel) Update(msg tea.Msg) (requestsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case requestsLoadedMsg:
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.errMsg = ""
		m.list = msg.list
		if m.cursor >= len(m.list) {
			m.cursor = 0
		}

	case folioCopiedMsg:
		if msg.err != nil {
			m.statusMsg = "clipboard unavailable"
		} else {
			m.statusMsg = "copied " + msg.folio
		}

	case tea.KeyMsg:
		m.statusMsg = ""
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.list)-1 {
				m.cursor++
			}
		case "enter":
			m.detail = m.selected() != nil
		case "esc":
			m.detail = false
		case "c":
			return m, m.copyFolio()
		case "a":
			return m, m.setStatus(requests.StatusApproved)
		case "x":
			return m, m.setStatus(requests.StatusRejected)
		case "r":
			return m, m.load()
		}
	}
	return m, nil
}

func (m requestsModel) View() string {
	if m.errMsg != "" {
		return "\n  " + errorStyle.Render(m.errMsg)
	}
	if m.detail {
		return m.viewDetail()
	}
	if len(m.list) == 0 {
		return "\n  " + dimStyle.Render("no requests")
	}

	var b strings.Builder
	b.WriteString("\n  ")
	b.WriteString(headerRowStyle.Render(fmt.Sprintf("%-18s %-25s %-13s %-10s %-5s", "FOLIO", "EMPLOYEE", "KIND", "STATUS", "DAYS")))
	b.WriteString("\n")
	for i, req := range m.list {
		row := fmt.Sprintf("%-18s %-25s %-13s %-10s %-5d",
			req.Folio, req.EmployeeName, string(req.Kind),
			statusStyle(string(req.Status)).Render(fmt.Sprintf("%-10s", string(req.Status))), req.BusinessDays)
		if i == m.cursor {
			row = selectedRowStyle.Render(fmt.Sprintf("%-18s %-25s %-13s %-10s %-5d",
				req.Folio, req.EmployeeName, string(req.Kind), string(req.Status), req.BusinessDays))
		}
		b.WriteString("  " + row + "\n")
	}
	if m.statusMsg != "" {
		b.WriteString("\n  " + okStyle.Render(m.statusMsg))
	}
	b.WriteString("\n  " + dimStyle.Render("enter detail · c copy folio · a approve · x reject · r refresh"))
	return b.String()
}

func (m requestsModel) viewDetail() string {
	req := m.selected()
	if req == nil {
		return "\n  " + dimStyle.Render("no request selected")
	}

	line := func(label, value string) string {
		return dimStyle.Render(fmt.Sprintf("%-14s", label)) + value + "\n"
	}

	body := titleStyle.Render(req.Folio) + "\n\n" +
		line("employee", req.EmployeeName) +
		line("kind", string(req.Kind)) +
		line("status", statusStyle(string(req.Status)).Render(string(req.Status))) +
		line("start", req.StartDate.Format("2006-01-02")) +
		line("resumes", req.ResumeDate.Format("2006-01-02")) +
		line("days", fmt.Sprintf("%d", req.BusinessDays))
	if req.Period != "" {
		body += line("period", req.Period)
	}
	if req.RestDayConflict {
		body += "\n" + warnStyle.Render("⚠ "+req.Warning) + "\n"
	}
	if req.Notes != "" {
		body += "\n" + dimStyle.Render(req.Notes) + "\n"
	}
	body += "\n" + dimStyle.Render("esc back · c copy folio")

	return "\n  " + strings.ReplaceAll(boxStyle.Render(body), "\n", "\n  ")
}
