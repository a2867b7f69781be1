// Package tui is the terminal front end: a login screen, role-specific
// dashboards and list views over the HTTP API, with navigation decided by
// the route guard.
package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/metrohr/leavehub/client"
	"github.com/metrohr/leavehub/routeguard"
	"github.com/metrohr/leavehub/session"
	"github.com/metrohr/leavehub/users"
)

type view int

const (
	viewLoading view = iota
	viewLogin
	viewDashboard
	viewAreas
	viewEmployees
	viewRequests
)

// requiredRoles maps guarded routes to the role they demand. Routes not
// listed admit any authenticated user.
var requiredRoles = map[string]users.RoleType{
	routeguard.RouteDashboardSuper: users.RoleSuperAdmin,
	routeguard.RouteAreas:          users.RoleSuperAdmin,
}

// sessionRestoredMsg is emitted once the stored session has been read.
type sessionRestoredMsg struct {
	err error
}

// navigateMsg asks the app to move to a route, subject to the guard.
type navigateMsg struct {
	route string
}

// loggedOutMsg is emitted after a logout completes.
type loggedOutMsg struct{}

// App is the root Bubbletea model.
type App struct {
	api       *client.Client
	manager   *session.Manager
	view      view
	route     string
	login     loginModel
	dashboard dashboardModel
	areas     areasModel
	employees employeesModel
	requests  requestsModel
	width     int
	height    int
}

// NewApp creates the TUI application.
func NewApp(api *client.Client, manager *session.Manager) App {
	return App{
		api:       api,
		manager:   manager,
		view:      viewLoading,
		login:     newLoginModel(manager),
		dashboard: newDashboardModel(api),
		areas:     newAreasModel(api),
		employees: newEmployeesModel(api),
		requests:  newRequestsModel(api),
	}
}

func (a App) Init() tea.Cmd {
	manager := a.manager
	return func() tea.Msg {
		return sessionRestoredMsg{err: manager.Restore()}
	}
}

// navigate applies the route guard and returns the updated app plus any
// load command for the rendered view.
func (a App) navigate(route string) (App, tea.Cmd) {
	state, user := a.manager.Current()
	decision := routeguard.Evaluate(state, user, requiredRoles[route])

	switch decision.Action {
	case routeguard.ShowLoading:
		a.view = viewLoading
		return a, nil
	case routeguard.Redirect:
		return a.navigate(decision.Target)
	}

	a.route = route
	switch route {
	case routeguard.RouteLogin:
		a.view = viewLogin
		return a, nil
	case routeguard.RouteDashboardSuper, routeguard.RouteDashboardArea:
		a.view = viewDashboard
		return a, a.dashboard.load()
	case routeguard.RouteAreas:
		a.view = viewAreas
		return a, a.areas.load()
	case routeguard.RouteEmployees:
		a.view = viewEmployees
		return a, a.employees.load()
	case routeguard.RouteRequests:
		a.view = viewRequests
		return a, a.requests.load()
	default:
		a.view = viewLogin
		return a, nil
	}
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

	case sessionRestoredMsg:
		_, user := a.manager.Current()
		return propagate(a.navigate(routeguard.LandingRoute(user)))

	case navigateMsg:
		return propagate(a.navigate(msg.route))

	case loginResultMsg:
		if msg.err != nil {
			a.login, _ = a.login.Update(msg)
			return a, nil
		}
		return propagate(a.navigate(routeguard.LandingRoute(msg.user)))

	case loggedOutMsg:
		a.login = newLoginModel(a.manager)
		return propagate(a.navigate(routeguard.RouteLogin))

	case tea.KeyMsg:
		if a.view != viewLogin {
			switch msg.String() {
			case "ctrl+c", "q":
				return a, tea.Quit
			case "1":
				_, user := a.manager.Current()
				return propagate(a.navigate(routeguard.LandingRoute(user)))
			case "2":
				return propagate(a.navigate(routeguard.RouteEmployees))
			case "3":
				return propagate(a.navigate(routeguard.RouteRequests))
			case "4":
				return propagate(a.navigate(routeguard.RouteAreas))
			case "ctrl+l":
				return a, a.logout()
			}
		} else if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
	}

	var cmd tea.Cmd
	switch a.view {
	case viewLogin:
		a.login, cmd = a.login.Update(msg)
	case viewDashboard:
		a.dashboard, cmd = a.dashboard.Update(msg)
	case viewAreas:
		a.areas, cmd = a.areas.Update(msg)
	case viewEmployees:
		a.employees, cmd = a.employees.Update(msg)
	case viewRequests:
		a.requests, cmd = a.requests.Update(msg)
	}
	return a, cmd
}

func propagate(a App, cmd tea.Cmd) (tea.Model, tea.Cmd) {
	return a, cmd
}

func (a App) logout() tea.Cmd {
	manager := a.manager
	return func() tea.Msg {
		_ = manager.Logout(context.Background())
		return loggedOutMsg{}
	}
}

func (a App) View() string {
	switch a.view {
	case viewLoading:
		return dimStyle.Render("\n  restoring session...")
	case viewLogin:
		return a.login.View()
	}

	var body string
	switch a.view {
	case viewDashboard:
		body = a.dashboard.View()
	case viewAreas:
		body = a.areas.View()
	case viewEmployees:
		body = a.employees.View()
	case viewRequests:
		body = a.requests.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left, a.renderHeader(), body, a.renderHelp())
}

func (a App) renderHeader() string {
	_, user := a.manager.Current()
	name := ""
	role := ""
	if user != nil {
		name = user.FullName()
		role = string(user.Role)
	}

	tabs := []struct {
		label string
		route string
	}{
		{"[1] dashboard", routeguard.LandingRoute(user)},
		{"[2] employees", routeguard.RouteEmployees},
		{"[3] requests", routeguard.RouteRequests},
		{"[4] areas", routeguard.RouteAreas},
	}

	var b strings.Builder
	b.WriteString(accentStyle.Render("LEAVEHUB"))
	b.WriteString("  ")
	for _, t := range tabs {
		if t.route == a.route {
			b.WriteString(activeTabStyle.Render(t.label))
		} else {
			b.WriteString(tabStyle.Render(t.label))
		}
	}
	b.WriteString("  ")
	b.WriteString(dimStyle.Render(name + " (" + role + ")"))
	return b.String()
}

func (a App) renderHelp() string {
	return dimStyle.Render("  q quit · ctrl+l logout · arrows move · enter select")
}
