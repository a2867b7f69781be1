// Package routeguard decides whether a navigation target may be rendered
// for the current session, and where to send the user when it may not.
package routeguard

import (
	"github.com/metrohr/leavehub/session"
	"github.com/metrohr/leavehub/users"
)

// Route paths used across the client.
const (
	RouteLogin          = "/login"
	RouteDashboardSuper = "/dashboard/superadmin"
	RouteDashboardArea  = "/dashboard/area"
	RouteAreas          = "/areas"
	RouteEmployees      = "/employees"
	RouteRequests       = "/requests"
	RouteCatalogs       = "/catalogs"
	RouteChangePassword = "/change-password"
)

// Action says what the caller should do with the navigation attempt.
type Action int

const (
	// ShowLoading means the session is still being restored; render a
	// placeholder and re-evaluate once it settles.
	ShowLoading Action = iota
	// Redirect means navigation must go to Decision.Target instead.
	Redirect
	// Render means the requested view may be shown.
	Render
)

// Decision is the outcome of evaluating a navigation attempt.
type Decision struct {
	Action Action
	Target string
}

// LandingRoute returns the dashboard a user belongs on. Every role has a
// landing route; anything that is not a superadmin lands on the area
// dashboard.
func LandingRoute(user *users.User) string {
	if user != nil && user.IsSuperAdmin() {
		return RouteDashboardSuper
	}
	return RouteDashboardArea
}

// Evaluate applies the guard policy in order: wait while the session
// restores, send anonymous users to login, send users lacking the
// required role to their own landing route, otherwise render.
// An empty requiredRole means any authenticated user may enter.
func Evaluate(state session.State, user *users.User, requiredRole users.RoleType) Decision {
	if state == session.StateLoading {
		return Decision{Action: ShowLoading}
	}
	if state != session.StateAuthenticated || user == nil {
		return Decision{Action: Redirect, Target: RouteLogin}
	}
	if requiredRole != "" && user.Role != requiredRole {
		return Decision{Action: Redirect, Target: LandingRoute(user)}
	}
	return Decision{Action: Render}
}
