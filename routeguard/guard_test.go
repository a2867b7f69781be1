package routeguard_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/metrohr/leavehub/internal/utils"
	"github.com/metrohr/leavehub/routeguard"
	"github.com/metrohr/leavehub/session"
	"github.com/metrohr/leavehub/users"
)

func superAdmin() *users.User {
	return &users.User{ID: 1, Role: users.RoleSuperAdmin, Active: true}
}

func areaAdmin() *users.User {
	return &users.User{ID: 2, Role: users.RoleAreaAdmin, AreaID: utils.Ptr(int64(7)), Active: true}
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name         string
		state        session.State
		user         *users.User
		requiredRole users.RoleType
		expected     routeguard.Decision
	}{
		{
			name:     "loading waits",
			state:    session.StateLoading,
			expected: routeguard.Decision{Action: routeguard.ShowLoading},
		},
		{
			name:         "loading waits even with a role requirement",
			state:        session.StateLoading,
			requiredRole: users.RoleSuperAdmin,
			expected:     routeguard.Decision{Action: routeguard.ShowLoading},
		},
		{
			name:     "anonymous goes to login",
			state:    session.StateAnonymous,
			expected: routeguard.Decision{Action: routeguard.Redirect, Target: routeguard.RouteLogin},
		},
		{
			name:     "authenticated without a user goes to login",
			state:    session.StateAuthenticated,
			expected: routeguard.Decision{Action: routeguard.Redirect, Target: routeguard.RouteLogin},
		},
		{
			name:         "area admin blocked from superadmin route",
			state:        session.StateAuthenticated,
			user:         areaAdmin(),
			requiredRole: users.RoleSuperAdmin,
			expected:     routeguard.Decision{Action: routeguard.Redirect, Target: routeguard.RouteDashboardArea},
		},
		{
			name:         "superadmin blocked from area-only route lands on own dashboard",
			state:        session.StateAuthenticated,
			user:         superAdmin(),
			requiredRole: users.RoleAreaAdmin,
			expected:     routeguard.Decision{Action: routeguard.Redirect, Target: routeguard.RouteDashboardSuper},
		},
		{
			name:         "matching role renders",
			state:        session.StateAuthenticated,
			user:         superAdmin(),
			requiredRole: users.RoleSuperAdmin,
			expected:     routeguard.Decision{Action: routeguard.Render},
		},
		{
			name:     "no role requirement admits any authenticated user",
			state:    session.StateAuthenticated,
			user:     areaAdmin(),
			expected: routeguard.Decision{Action: routeguard.Render},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, routeguard.Evaluate(tc.state, tc.user, tc.requiredRole))
		})
	}
}

func TestLandingRoute(t *testing.T) {
	require.Equal(t, routeguard.RouteDashboardSuper, routeguard.LandingRoute(superAdmin()))
	require.Equal(t, routeguard.RouteDashboardArea, routeguard.LandingRoute(areaAdmin()))
	require.Equal(t, routeguard.RouteDashboardArea, routeguard.LandingRoute(nil))
}
