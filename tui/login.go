package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/metrohr/leavehub/session"
	"github.com/metrohr/leavehub/users"
)

// loginResultMsg carries the outcome of a login attempt.
type loginResultMsg struct {
	user *users.User
	err  error
}

type loginField int

const (
	fieldEmail loginField = iota
	fieldPassword
)

type loginModel struct {
	manager  *session.Manager
	email    string
	password string
	focused  loginField
	busy     bool
	errMsg   string
}

func newLoginModel(manager *session.Manager) loginModel {
	return loginModel{manager: manager}
}

func (m loginModel) Update(msg tea.Msg) (loginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case loginResultMsg:
		m.busy = false
		if msg.err != nil {
			m.errMsg = "invalid email or password"
			m.password = ""
		}
		return m, nil

	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		switch msg.String() {
		case "tab", "down", "up":
			if m.focused == fieldEmail {
				m.focused = fieldPassword
			} else {
				m.focused = fieldEmail
			}
		case "enter":
			if m.email == "" || m.password == "" {
				m.errMsg = "email and password are required"
				return m, nil
			}
			m.busy = true
			m.errMsg = ""
			return m, m.submit()
		default:
			if m.focused == fieldEmail {
				m.email = editRune(m.email, msg.String())
			} else {
				m.password = editRune(m.password, msg.String())
			}
		}
	}
	return m, nil
}

func (m loginModel) submit() tea.Cmd {
	manager, email, password := m.manager, m.email, m.password
	return func() tea.Msg {
		user, err := manager.Login(context.Background(), email, password)
		return loginResultMsg{user: user, err: err}
	}
}

func (m loginModel) View() string {
	renderField := func(label, value string, focused, mask bool) string {
		shown := value
		if mask {
			shown = ""
			for range value {
				shown += "*"
			}
		}
		cursor := ""
		if focused {
			cursor = accentStyle.Render("█")
		}
		return dimStyle.Render(label) + " " + shown + cursor
	}

	body := titleStyle.Render("Sign in") + "\n\n" +
		renderField("email    ", m.email, m.focused == fieldEmail, false) + "\n" +
		renderField("password ", m.password, m.focused == fieldPassword, true) + "\n"

	if m.busy {
		body += "\n" + dimStyle.Render("signing in...")
	}
	if m.errMsg != "" {
		body += "\n" + errorStyle.Render(m.errMsg)
	}
	body += "\n\n" + dimStyle.Render("tab switch field · enter submit · ctrl+c quit")

	return "\n" + lipgloss.JoinHorizontal(lipgloss.Top, "  ", boxStyle.Render(body))
}
