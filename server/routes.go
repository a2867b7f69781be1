package server

import (
	"net/http"

	"github.com/metrohr/leavehub/users"
)

// API route paths. List endpoints keep the trailing slash the clients send.
const (
	RouteLogin          = "/api/auth/login/"
	RouteLogout         = "/api/auth/logout/"
	RouteTokenRefresh   = "/api/auth/token/refresh/"
	RouteProfile        = "/api/auth/profile/"
	RouteChangePassword = "/api/auth/change-password/"
	RouteUpdateAccess   = "/api/auth/update-access/"

	RouteAreas  = "/api/areas/"
	RouteAreaID = "/api/areas/{id:[0-9]+}/"

	RouteEmployees        = "/api/empleados/"
	RouteEmployeeID       = "/api/empleados/{id:[0-9]+}/"
	RouteEmployeeBalances = "/api/empleados/{id:[0-9]+}/saldos/"
	RouteEmployeePeriods  = "/api/empleados/{id:[0-9]+}/periodos/"

	RouteVacationTypes    = "/api/catalogos/tipos-vacacion/"
	RouteEconomicDayTypes = "/api/catalogos/tipos-dia-economico/"
	RouteRequirements     = "/api/catalogos/requisitos/"
	RouteSigners          = "/api/catalogos/firmantes/"

	RouteRequests   = "/api/solicitudes/"
	RouteRequestID  = "/api/solicitudes/{id}/"
	RouteResumeDate = "/api/solicitudes/calcular-fecha-reanudacion/"

	RouteDashboardStats = "/api/dashboard/stats/"

	RouteHealth = "/health"
)

func (s *Server) initRoutes() {
	r := s.router
	r.Use(s.loggingMiddleware, s.recoverMiddleware, s.corsMiddleware)

	r.HandleFunc(RouteHealth, s.handleHealth).Methods(http.MethodGet)

	// Authentication, no token required.
	r.HandleFunc(RouteLogin, s.handleLogin).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc(RouteLogout, s.handleLogout).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc(RouteTokenRefresh, s.handleTokenRefresh).Methods(http.MethodPost, http.MethodOptions)

	// Authenticated routes.
	r.HandleFunc(RouteProfile, s.requireAuth(s.handleProfile)).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc(RouteChangePassword, s.requireAuth(s.handleChangePassword)).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc(RouteUpdateAccess, s.requireAuth(s.handleUpdateAccess)).Methods(http.MethodPost, http.MethodOptions)

	// Areas are superadmin territory, except listing.
	r.HandleFunc(RouteAreas, s.requireAuth(s.handleListAreas)).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc(RouteAreas, s.requireRole(users.RoleSuperAdmin, s.handleCreateArea)).Methods(http.MethodPost)
	r.HandleFunc(RouteAreaID, s.requireAuth(s.handleGetArea)).Methods(http.MethodGet)
	r.HandleFunc(RouteAreaID, s.requireRole(users.RoleSuperAdmin, s.handleUpdateArea)).Methods(http.MethodPut)

	r.HandleFunc(RouteEmployees, s.requireAuth(s.handleListEmployees)).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc(RouteEmployees, s.requireAuth(s.handleCreateEmployee)).Methods(http.MethodPost)
	r.HandleFunc(RouteEmployeeID, s.requireAuth(s.handleGetEmployee)).Methods(http.MethodGet)
	r.HandleFunc(RouteEmployeeID, s.requireAuth(s.handleUpdateEmployee)).Methods(http.MethodPut)
	r.HandleFunc(RouteEmployeeBalances, s.requireAuth(s.handleEmployeeBalances)).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc(RouteEmployeePeriods, s.requireAuth(s.handleEmployeePeriods)).Methods(http.MethodGet, http.MethodOptions)

	r.HandleFunc(RouteVacationTypes, s.requireAuth(s.handleListVacationTypes)).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc(RouteVacationTypes, s.requireRole(users.RoleSuperAdmin, s.handleCreateVacationType)).Methods(http.MethodPost)
	r.HandleFunc(RouteEconomicDayTypes, s.requireAuth(s.handleListEconomicDayTypes)).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc(RouteEconomicDayTypes, s.requireRole(users.RoleSuperAdmin, s.handleCreateEconomicDayType)).Methods(http.MethodPost)
	r.HandleFunc(RouteRequirements, s.requireAuth(s.handleListRequirements)).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc(RouteRequirements, s.requireRole(users.RoleSuperAdmin, s.handleCreateRequirement)).Methods(http.MethodPost)
	r.HandleFunc(RouteSigners, s.requireAuth(s.handleListSigners)).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc(RouteSigners, s.requireAuth(s.handleCreateSigner)).Methods(http.MethodPost)

	r.HandleFunc(RouteResumeDate, s.requireAuth(s.handleResumeDate)).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc(RouteRequests, s.requireAuth(s.handleListRequests)).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc(RouteRequests, s.requireAuth(s.handleCreateRequest)).Methods(http.MethodPost)
	r.HandleFunc(RouteRequestID, s.requireAuth(s.handleGetRequest)).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc(RouteRequestID, s.requireAuth(s.handleUpdateRequestStatus)).Methods(http.MethodPatch)

	r.HandleFunc(RouteDashboardStats, s.requireAuth(s.handleDashboardStats)).Methods(http.MethodGet, http.MethodOptions)
}
